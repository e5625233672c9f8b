package services

import (
	"time"

	"fazservico_backend/internal/models"
	"fazservico_backend/internal/repositories"
	"fazservico_backend/internal/services/dto"
	"fazservico_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// ServiceRequestService owns the client-side posting lifecycle. Status is
// mostly driven externally: acceptance of a proposal flips open -> matched
// through the proposal service; close and cancel are the only transitions a
// client triggers directly.
type ServiceRequestService struct {
	serviceRequestRepo repositories.ServiceRequestRepository
	categoryRepo       repositories.CategoryRepository
	regionRepo         repositories.RegionRepository
	urgentPrice        float64
}

func NewServiceRequestService(
	serviceRequestRepo repositories.ServiceRequestRepository,
	categoryRepo repositories.CategoryRepository,
	regionRepo repositories.RegionRepository,
	urgentPrice float64,
) *ServiceRequestService {
	return &ServiceRequestService{
		serviceRequestRepo: serviceRequestRepo,
		categoryRepo:       categoryRepo,
		regionRepo:         regionRepo,
		urgentPrice:        urgentPrice,
	}
}

func (s *ServiceRequestService) Create(db *gorm.DB, clientID string, req dto.CreateServiceRequestRequest) (*dto.ServiceRequestResponse, error) {
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(db, *req.CategoryID); err != nil {
			if err == repositories.ErrCategoryNotFound {
				return nil, apperrors.NewBadRequestError("Unknown category")
			}
			return nil, apperrors.InternalError(err)
		}
	}
	if req.RegionID != nil {
		if _, err := s.regionRepo.FindByID(db, *req.RegionID); err != nil {
			if err == repositories.ErrRegionNotFound {
				return nil, apperrors.NewBadRequestError("Unknown region")
			}
			return nil, apperrors.InternalError(err)
		}
	}

	urgency := models.Urgency(req.Urgency)
	if urgency == "" {
		urgency = models.UrgencyMedium
	}

	request := &models.ServiceRequest{
		ClientID:    clientID,
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		RegionID:    req.RegionID,
		Urgency:     urgency,
		Status:      models.ServiceRequestStatusOpen,
	}
	if err := s.serviceRequestRepo.Create(db, request); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return toServiceRequestResponse(request), nil
}

func (s *ServiceRequestService) GetByID(db *gorm.DB, id string) (*dto.ServiceRequestResponse, error) {
	request, err := s.findRequest(db, id)
	if err != nil {
		return nil, err
	}
	return toServiceRequestResponse(request), nil
}

func (s *ServiceRequestService) ListMy(db *gorm.DB, clientID string) ([]dto.ServiceRequestResponse, error) {
	requests, err := s.serviceRequestRepo.ListByClient(db, clientID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return toServiceRequestResponses(requests), nil
}

// Search lists requests for professionals browsing for work. Urgent-promoted
// requests sort first.
func (s *ServiceRequestService) Search(db *gorm.DB, req dto.SearchServiceRequestsRequest) (*dto.ServiceRequestListResponse, error) {
	criteria := repositories.ServiceRequestCriteria{
		CategoryID: req.CategoryID,
		RegionID:   req.RegionID,
		Status:     models.ServiceRequestStatus(req.Status),
		UrgentOnly: req.UrgentOnly,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}
	if criteria.Status == "" {
		criteria.Status = models.ServiceRequestStatusOpen
	}
	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 || criteria.PageSize > 100 {
		criteria.PageSize = 20
	}

	requests, total, err := s.serviceRequestRepo.Search(db, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.ServiceRequestListResponse{
		Requests: toServiceRequestResponses(requests),
		Total:    total,
		Page:     criteria.Page,
		PageSize: criteria.PageSize,
	}, nil
}

// PromoteUrgent charges the fixed promotion price and pins the request in
// listings. Only open requests can be promoted, and only once.
func (s *ServiceRequestService) PromoteUrgent(db *gorm.DB, clientID, id string) (*dto.ServiceRequestResponse, error) {
	request, err := s.findOwnRequest(db, clientID, id)
	if err != nil {
		return nil, err
	}
	if request.Status != models.ServiceRequestStatusOpen {
		return nil, apperrors.ErrInvalidStatus("service_request", "Only open requests can be promoted")
	}
	if request.IsUrgentPromoted {
		return nil, apperrors.ErrInvalidOperation("service_request", "Request is already promoted")
	}

	now := time.Now()
	if err := s.serviceRequestRepo.PromoteUrgent(db, id, s.urgentPrice, now); err != nil {
		return nil, apperrors.InternalError(err)
	}
	request.IsUrgentPromoted = true
	request.UrgentPrice = s.urgentPrice
	request.UrgentPromotedAt = &now
	return toServiceRequestResponse(request), nil
}

// Close settles a matched request once the work is done.
func (s *ServiceRequestService) Close(db *gorm.DB, clientID, id string) (*dto.ServiceRequestResponse, error) {
	return s.transition(db, clientID, id, models.ServiceRequestStatusMatched, models.ServiceRequestStatusClosed)
}

// Cancel withdraws an open request before any proposal was accepted.
func (s *ServiceRequestService) Cancel(db *gorm.DB, clientID, id string) (*dto.ServiceRequestResponse, error) {
	return s.transition(db, clientID, id, models.ServiceRequestStatusOpen, models.ServiceRequestStatusCancelled)
}

func (s *ServiceRequestService) transition(db *gorm.DB, clientID, id string, from, to models.ServiceRequestStatus) (*dto.ServiceRequestResponse, error) {
	request, err := s.findOwnRequest(db, clientID, id)
	if err != nil {
		return nil, err
	}
	if request.Status != from {
		return nil, apperrors.ErrInvalidStatus("service_request", "Operation not allowed for the current request status")
	}
	if err := s.serviceRequestRepo.UpdateStatus(db, id, to); err != nil {
		return nil, apperrors.InternalError(err)
	}
	request.Status = to
	return toServiceRequestResponse(request), nil
}

func (s *ServiceRequestService) findRequest(db *gorm.DB, id string) (*models.ServiceRequest, error) {
	request, err := s.serviceRequestRepo.FindByID(db, id)
	if err != nil {
		if err == repositories.ErrServiceRequestNotFound {
			return nil, apperrors.NewNotFoundError("service_request", "Service request not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return request, nil
}

func (s *ServiceRequestService) findOwnRequest(db *gorm.DB, clientID, id string) (*models.ServiceRequest, error) {
	request, err := s.findRequest(db, id)
	if err != nil {
		return nil, err
	}
	if request.ClientID != clientID {
		return nil, apperrors.ErrNotRequestOwner
	}
	return request, nil
}

func toServiceRequestResponse(r *models.ServiceRequest) *dto.ServiceRequestResponse {
	return &dto.ServiceRequestResponse{
		ID:               r.ID,
		ClientID:         r.ClientID,
		Title:            r.Title,
		Description:      r.Description,
		CategoryID:       r.CategoryID,
		RegionID:         r.RegionID,
		Urgency:          string(r.Urgency),
		Status:           string(r.Status),
		IsUrgentPromoted: r.IsUrgentPromoted,
		UrgentPromotedAt: r.UrgentPromotedAt,
		CreatedAt:        r.CreatedAt,
	}
}

func toServiceRequestResponses(requests []models.ServiceRequest) []dto.ServiceRequestResponse {
	out := make([]dto.ServiceRequestResponse, 0, len(requests))
	for i := range requests {
		out = append(out, *toServiceRequestResponse(&requests[i]))
	}
	return out
}
