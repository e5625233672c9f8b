package services

import (
	"fazservico_backend/internal/models"
	"fazservico_backend/internal/repositories"
	"fazservico_backend/internal/services/dto"
	"fazservico_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// RatingService lets a client rate the professional once per matched or
// closed service request.
type RatingService struct {
	ratingRepo         repositories.RatingRepository
	serviceRequestRepo repositories.ServiceRequestRepository
	proposalRepo       repositories.ProposalRepository
}

func NewRatingService(
	ratingRepo repositories.RatingRepository,
	serviceRequestRepo repositories.ServiceRequestRepository,
	proposalRepo repositories.ProposalRepository,
) *RatingService {
	return &RatingService{
		ratingRepo:         ratingRepo,
		serviceRequestRepo: serviceRequestRepo,
		proposalRepo:       proposalRepo,
	}
}

func (s *RatingService) Create(db *gorm.DB, clientID string, req dto.CreateRatingRequest) (*dto.RatingResponse, error) {
	request, err := s.serviceRequestRepo.FindByID(db, req.ServiceRequestID)
	if err != nil {
		if err == repositories.ErrServiceRequestNotFound {
			return nil, apperrors.NewNotFoundError("rating", "Service request not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if request.ClientID != clientID {
		return nil, apperrors.ErrNotRequestOwner
	}
	if request.Status != models.ServiceRequestStatusMatched && request.Status != models.ServiceRequestStatusClosed {
		return nil, apperrors.ErrRequestNotMatched
	}

	if _, err := s.ratingRepo.FindByServiceRequestID(db, req.ServiceRequestID); err == nil {
		return nil, apperrors.ErrAlreadyRated
	} else if err != repositories.ErrRatingNotFound {
		return nil, apperrors.InternalError(err)
	}

	professionalID, err := s.acceptedProfessional(db, req.ServiceRequestID)
	if err != nil {
		return nil, err
	}

	rating := &models.Rating{
		ServiceRequestID: req.ServiceRequestID,
		ClientID:         clientID,
		ProfessionalID:   professionalID,
		Score:            req.Score,
		Comment:          req.Comment,
	}
	if err := s.ratingRepo.Create(db, rating); err != nil {
		// The unique index on service_request_id closes the race.
		return nil, apperrors.ErrAlreadyRated.WithError(err)
	}
	return toRatingResponse(rating), nil
}

func (s *RatingService) ListForProfessional(db *gorm.DB, professionalID string) (*dto.ProfessionalRatingsResponse, error) {
	ratings, err := s.ratingRepo.ListByProfessional(db, professionalID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	average, count, err := s.ratingRepo.AverageForProfessional(db, professionalID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]dto.RatingResponse, 0, len(ratings))
	for i := range ratings {
		out = append(out, *toRatingResponse(&ratings[i]))
	}
	return &dto.ProfessionalRatingsResponse{Ratings: out, Average: average, Count: count}, nil
}

// acceptedProfessional finds who the request was matched with.
func (s *RatingService) acceptedProfessional(db *gorm.DB, serviceRequestID string) (string, error) {
	proposals, err := s.proposalRepo.ListByRequest(db, serviceRequestID)
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	for i := range proposals {
		if proposals[i].Status == models.ProposalStatusAccepted {
			return proposals[i].ProfessionalID, nil
		}
	}
	return "", apperrors.ErrRequestNotMatched
}

func toRatingResponse(r *models.Rating) *dto.RatingResponse {
	return &dto.RatingResponse{
		ID:               r.ID,
		ServiceRequestID: r.ServiceRequestID,
		ClientID:         r.ClientID,
		ProfessionalID:   r.ProfessionalID,
		Score:            r.Score,
		Comment:          r.Comment,
		CreatedAt:        r.CreatedAt,
	}
}
