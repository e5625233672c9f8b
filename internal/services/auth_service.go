package services

import (
	"fazservico_backend/internal/auth"
	"fazservico_backend/internal/logger"
	"fazservico_backend/internal/models"
	"fazservico_backend/internal/repositories"
	"fazservico_backend/internal/services/dto"
	"fazservico_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService struct {
	userRepo         repositories.UserRepository
	professionalRepo repositories.ProfessionalRepository
}

func NewAuthService(userRepo repositories.UserRepository, professionalRepo repositories.ProfessionalRepository) *AuthService {
	return &AuthService{userRepo: userRepo, professionalRepo: professionalRepo}
}

// Register creates a user account. Registering with the professional role
// also creates the professional profile in the same transaction.
func (s *AuthService) Register(db *gorm.DB, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	if _, err := s.userRepo.FindByEmail(db, req.Email); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	} else if err != repositories.ErrUserNotFound {
		return nil, apperrors.InternalError(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.UserRole(req.Role),
		Name:         req.Name,
		Phone:        req.Phone,
		Whatsapp:     req.Whatsapp,
		RegionID:     req.RegionID,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.Create(tx, user); err != nil {
			return apperrors.ErrEmailAlreadyExists.WithError(err)
		}
		if user.Role == models.UserRoleProfessional {
			profile := &models.ProfessionalProfile{
				UserID:             user.ID,
				Bio:                req.Bio,
				CategoryID:         req.CategoryID,
				RegionID:           req.RegionID,
				SubscriptionStatus: models.SubscriptionStatusInactive,
			}
			if err := s.professionalRepo.Create(tx, profile); err != nil {
				return apperrors.InternalError(err)
			}
			user.ProfessionalProfile = profile
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	return &dto.AuthResponse{Token: token, User: *toUserResponse(user)}, nil
}

func (s *AuthService) Login(db *gorm.DB, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AuthResponse{Token: token, User: *toUserResponse(user)}, nil
}
