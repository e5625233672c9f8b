package services

import (
	"fmt"

	"fazservico_backend/internal/metrics"
	"fazservico_backend/internal/models"
	"fazservico_backend/internal/notify"
	"fazservico_backend/internal/repositories"
	"fazservico_backend/internal/services/dto"
	"fazservico_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// ContactService decides when a user's direct contact details (email, phone,
// whatsapp) may be revealed to the other side of a service request, and
// records explicit paid unlocks. Two grant routes exist for reaching a
// professional: an accepted proposal on a matched request, or the
// professional holding an active subscription.
type ContactService struct {
	userRepo           repositories.UserRepository
	professionalRepo   repositories.ProfessionalRepository
	serviceRequestRepo repositories.ServiceRequestRepository
	proposalRepo       repositories.ProposalRepository
	unlockRepo         repositories.ContactUnlockRepository
	quotaService       *QuotaService
	notifier           notify.Notifier
	unlockPrice        float64
}

func NewContactService(
	userRepo repositories.UserRepository,
	professionalRepo repositories.ProfessionalRepository,
	serviceRequestRepo repositories.ServiceRequestRepository,
	proposalRepo repositories.ProposalRepository,
	unlockRepo repositories.ContactUnlockRepository,
	quotaService *QuotaService,
	notifier notify.Notifier,
	unlockPrice float64,
) *ContactService {
	return &ContactService{
		userRepo:           userRepo,
		professionalRepo:   professionalRepo,
		serviceRequestRepo: serviceRequestRepo,
		proposalRepo:       proposalRepo,
		unlockRepo:         unlockRepo,
		quotaService:       quotaService,
		notifier:           notifier,
		unlockPrice:        unlockPrice,
	}
}

// GetContact resolves the requester/target pair and applies the access
// policy for its direction. Any role combination other than
// client->professional or professional->client is refused.
func (s *ContactService) GetContact(db *gorm.DB, requesterID string, role models.UserRole, req dto.GetContactRequest) (*dto.ContactResponse, error) {
	switch role {
	case models.UserRoleClient:
		return s.contactForClient(db, requesterID, req)
	case models.UserRoleProfessional:
		return s.contactForProfessional(db, requesterID, req)
	default:
		return nil, apperrors.ErrContactRoleNotAllowed
	}
}

func (s *ContactService) contactForClient(db *gorm.DB, clientID string, req dto.GetContactRequest) (*dto.ContactResponse, error) {
	profile, err := s.professionalRepo.FindByUserID(db, req.UserID)
	if err != nil {
		if err == repositories.ErrProfessionalNotFound {
			return nil, apperrors.NewNotFoundError("contact", "Professional not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if req.ServiceRequestID != "" {
		request, err := s.serviceRequestRepo.FindByID(db, req.ServiceRequestID)
		if err != nil {
			if err == repositories.ErrServiceRequestNotFound {
				return nil, apperrors.NewNotFoundError("contact", "Service request not found")
			}
			return nil, apperrors.InternalError(err)
		}
		if request.ClientID != clientID {
			return nil, apperrors.ErrNotRequestOwner
		}

		granted, err := s.CanAccessContact(db, profile.ID, req.ServiceRequestID)
		if err != nil {
			return nil, err
		}
		if !granted {
			return nil, apperrors.ErrContactForbidden
		}
		return s.contactResponse(db, req.UserID)
	}

	// No request given: a paid unlock or the professional's own
	// subscription still opens the door.
	if _, err := s.unlockRepo.FindByClientAndProfessional(db, clientID, profile.ID); err == nil {
		return s.contactResponse(db, req.UserID)
	} else if err != repositories.ErrUnlockNotFound {
		return nil, apperrors.InternalError(err)
	}

	active, err := s.quotaService.HasActiveSubscription(db, profile.ID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, apperrors.ErrContactForbidden
	}
	return s.contactResponse(db, req.UserID)
}

func (s *ContactService) contactForProfessional(db *gorm.DB, professionalUserID string, req dto.GetContactRequest) (*dto.ContactResponse, error) {
	profile, err := s.professionalRepo.FindByUserID(db, professionalUserID)
	if err != nil {
		if err == repositories.ErrProfessionalNotFound {
			return nil, apperrors.ErrContactRoleNotAllowed
		}
		return nil, apperrors.InternalError(err)
	}

	if req.ServiceRequestID != "" {
		proposal, err := s.proposalRepo.FindByRequestAndProfessional(db, req.ServiceRequestID, profile.ID)
		if err != nil && err != repositories.ErrProposalNotFound {
			return nil, apperrors.InternalError(err)
		}
		if proposal != nil && proposal.Status == models.ProposalStatusAccepted {
			return s.contactResponse(db, req.UserID)
		}
	}

	// No accepted proposal on the request: an active subscription carries
	// general contact privileges.
	active, err := s.quotaService.HasActiveSubscription(db, profile.ID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, apperrors.ErrContactForbidden
	}
	return s.contactResponse(db, req.UserID)
}

// CanAccessContact is the client->professional predicate: true on an
// accepted proposal for a matched request, or when the professional holds an
// active subscription.
func (s *ContactService) CanAccessContact(db *gorm.DB, professionalID, serviceRequestID string) (bool, error) {
	proposal, err := s.proposalRepo.FindByRequestAndProfessional(db, serviceRequestID, professionalID)
	if err != nil && err != repositories.ErrProposalNotFound {
		return false, apperrors.InternalError(err)
	}
	if proposal != nil && proposal.Status == models.ProposalStatusAccepted {
		request, err := s.serviceRequestRepo.FindByID(db, serviceRequestID)
		if err != nil {
			if err == repositories.ErrServiceRequestNotFound {
				return false, nil
			}
			return false, apperrors.InternalError(err)
		}
		if request.Status == models.ServiceRequestStatusMatched {
			return true, nil
		}
	}

	return s.quotaService.HasActiveSubscription(db, professionalID)
}

// UnlockProfessionalContact records a paid unlock for a (client,
// professional) pair. Unlocking the same professional twice is rejected so a
// client is never charged twice for the same grant.
func (s *ContactService) UnlockProfessionalContact(db *gorm.DB, clientID string, req dto.UnlockContactRequest) (*dto.ContactUnlockResponse, error) {
	profile, err := s.professionalRepo.FindByID(db, req.ProfessionalID)
	if err != nil {
		if err == repositories.ErrProfessionalNotFound {
			return nil, apperrors.NewNotFoundError("contact", "Professional not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if _, err := s.unlockRepo.FindByClientAndProfessional(db, clientID, profile.ID); err == nil {
		return nil, apperrors.ErrAlreadyUnlocked
	} else if err != repositories.ErrUnlockNotFound {
		return nil, apperrors.InternalError(err)
	}

	unlock := &models.ContactUnlock{
		ClientID:         clientID,
		ProfessionalID:   profile.ID,
		ServiceRequestID: req.ServiceRequestID,
		Price:            s.unlockPrice,
	}
	if err := s.unlockRepo.Create(db, unlock); err != nil {
		// The unique pair index closes the race between the read above
		// and this insert.
		return nil, apperrors.ErrAlreadyUnlocked.WithError(err)
	}

	metrics.ContactUnlocksTotal.Inc()

	if profile.User != nil {
		s.notifier.Enqueue(notify.Event{
			UserID:  profile.User.ID,
			Type:    notify.TypeContactUnlocked,
			Title:   "Your contact was unlocked",
			Message: "A client paid to view your contact details.",
			Data:    map[string]any{"client_id": clientID, "unlock_id": unlock.ID},
			Email:   profile.User.Email,
		})
	}

	return &dto.ContactUnlockResponse{
		ID:               unlock.ID,
		ClientID:         unlock.ClientID,
		ProfessionalID:   unlock.ProfessionalID,
		ServiceRequestID: unlock.ServiceRequestID,
		Price:            unlock.Price,
		CreatedAt:        unlock.CreatedAt,
	}, nil
}

func (s *ContactService) contactResponse(db *gorm.DB, userID string) (*dto.ContactResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.NewNotFoundError("contact", "User not found")
		}
		return nil, apperrors.InternalError(fmt.Errorf("load contact target: %w", err))
	}
	return &dto.ContactResponse{
		UserID:   user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Phone:    user.Phone,
		Whatsapp: user.Whatsapp,
	}, nil
}
