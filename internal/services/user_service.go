package services

import (
	"fazservico_backend/internal/models"
	"fazservico_backend/internal/repositories"
	"fazservico_backend/internal/services/dto"
	"fazservico_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService struct {
	userRepo         repositories.UserRepository
	professionalRepo repositories.ProfessionalRepository
}

func NewUserService(userRepo repositories.UserRepository, professionalRepo repositories.ProfessionalRepository) *UserService {
	return &UserService{userRepo: userRepo, professionalRepo: professionalRepo}
}

func (s *UserService) GetByID(db *gorm.DB, id string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, id)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.NewNotFoundError("user", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return toUserResponse(user), nil
}

// Update edits the caller's own account, including the professional profile
// fields when one exists.
func (s *UserService) Update(db *gorm.DB, userID string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.NewNotFoundError("user", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Whatsapp != nil {
		user.Whatsapp = *req.Whatsapp
	}
	if req.RegionID != nil {
		user.RegionID = req.RegionID
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.Update(tx, user); err != nil {
			return apperrors.InternalError(err)
		}
		if user.ProfessionalProfile != nil && (req.Bio != nil || req.CategoryID != nil || req.RegionID != nil) {
			profile := user.ProfessionalProfile
			if req.Bio != nil {
				profile.Bio = *req.Bio
			}
			if req.CategoryID != nil {
				profile.CategoryID = req.CategoryID
			}
			if req.RegionID != nil {
				profile.RegionID = req.RegionID
			}
			if err := s.professionalRepo.UpdateProfile(tx, profile); err != nil {
				return apperrors.InternalError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func toUserResponse(user *models.User) *dto.UserResponse {
	resp := &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		Phone:     user.Phone,
		Whatsapp:  user.Whatsapp,
		RegionID:  user.RegionID,
		CreatedAt: user.CreatedAt,
	}
	if p := user.ProfessionalProfile; p != nil {
		resp.Professional = &dto.ProfessionalResponse{
			ID:                 p.ID,
			Bio:                p.Bio,
			CategoryID:         p.CategoryID,
			RegionID:           p.RegionID,
			FreeProposalsUsed:  p.FreeProposalsUsed,
			SubscriptionStatus: string(p.SubscriptionStatus),
		}
	}
	return resp
}
