package services

import (
	"fazservico_backend/internal/metrics"
	"fazservico_backend/internal/models"
	"fazservico_backend/internal/notify"
	"fazservico_backend/internal/repositories"
	"fazservico_backend/internal/services/dto"
	"fazservico_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// ProposalService drives the proposal state machine
// (pending -> accepted | rejected | cancelled, all terminal) and the linked
// service-request transition on acceptance. Creation and acceptance are each
// wrapped in a storage transaction so the quota counter and the two status
// rows cannot diverge on partial failure.
type ProposalService struct {
	proposalRepo       repositories.ProposalRepository
	serviceRequestRepo repositories.ServiceRequestRepository
	professionalRepo   repositories.ProfessionalRepository
	userRepo           repositories.UserRepository
	quotaService       *QuotaService
	notifier           notify.Notifier
}

func NewProposalService(
	proposalRepo repositories.ProposalRepository,
	serviceRequestRepo repositories.ServiceRequestRepository,
	professionalRepo repositories.ProfessionalRepository,
	userRepo repositories.UserRepository,
	quotaService *QuotaService,
	notifier notify.Notifier,
) *ProposalService {
	return &ProposalService{
		proposalRepo:       proposalRepo,
		serviceRequestRepo: serviceRequestRepo,
		professionalRepo:   professionalRepo,
		userRepo:           userRepo,
		quotaService:       quotaService,
		notifier:           notifier,
	}
}

// Create submits a proposal for an open service request. Order inside the
// transaction: state guards, duplicate check, quota consumption, insert. A
// failed insert rolls the consumed quota slot back with the transaction.
func (s *ProposalService) Create(db *gorm.DB, professionalUserID string, req dto.CreateProposalRequest) (*dto.ProposalResponse, error) {
	profile, err := s.professionalRepo.FindByUserID(db, professionalUserID)
	if err != nil {
		if err == repositories.ErrProfessionalNotFound {
			return nil, apperrors.ErrInvalidUserRole
		}
		return nil, apperrors.InternalError(err)
	}

	var (
		proposal *models.Proposal
		request  *models.ServiceRequest
		consumed *ConsumeResult
	)
	err = db.Transaction(func(tx *gorm.DB) error {
		request, err = s.serviceRequestRepo.FindByID(tx, req.ServiceRequestID)
		if err != nil {
			if err == repositories.ErrServiceRequestNotFound {
				return apperrors.NewNotFoundError("proposal", "Service request not found")
			}
			return apperrors.InternalError(err)
		}
		if request.Status != models.ServiceRequestStatusOpen {
			return apperrors.ErrRequestNotOpen
		}
		if request.ClientID == professionalUserID {
			return apperrors.ErrInvalidUserRole
		}

		existing, err := s.proposalRepo.FindByRequestAndProfessional(tx, req.ServiceRequestID, profile.ID)
		if err != nil && err != repositories.ErrProposalNotFound {
			return apperrors.InternalError(err)
		}
		if existing != nil {
			return apperrors.ErrDuplicateProposal
		}

		consumed, err = s.quotaService.ConsumeProposalQuota(tx, profile.ID)
		if err != nil {
			return err
		}

		proposal = &models.Proposal{
			ServiceRequestID: req.ServiceRequestID,
			ProfessionalID:   profile.ID,
			Value:            req.Value,
			Description:      req.Description,
			EstimatedDays:    req.EstimatedDays,
			Status:           models.ProposalStatusPending,
		}
		if err := s.proposalRepo.Create(tx, proposal); err != nil {
			// The composite unique index closes the duplicate race.
			return apperrors.ErrDuplicateProposal.WithError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ProposalsCreatedTotal.WithLabelValues(string(consumed.Source)).Inc()
	s.notifyClient(db, request.ClientID, notify.TypeNewProposal,
		"New proposal received",
		"A professional submitted a proposal for \""+request.Title+"\".",
		map[string]any{"service_request_id": request.ID, "proposal_id": proposal.ID})

	resp := toProposalResponse(proposal)
	resp.QuotaSource = string(consumed.Source)
	return resp, nil
}

// Accept is the client's decision. The request flips open -> matched
// atomically with the proposal flipping pending -> accepted; a second accept
// on any proposal of the same request loses the conditional update and
// fails.
func (s *ProposalService) Accept(db *gorm.DB, clientID, proposalID string) (*dto.ProposalResponse, error) {
	var proposal *models.Proposal
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		proposal, err = s.findForRequestOwner(tx, clientID, proposalID)
		if err != nil {
			return err
		}
		if proposal.Status != models.ProposalStatusPending {
			return apperrors.ErrInvalidProposalState
		}

		matched, err := s.serviceRequestRepo.MarkMatched(tx, proposal.ServiceRequestID)
		if err != nil {
			return apperrors.InternalError(err)
		}
		if !matched {
			return apperrors.ErrRequestNotOpen
		}

		ok, err := s.proposalRepo.TransitionStatus(tx, proposal.ID, models.ProposalStatusPending, models.ProposalStatusAccepted)
		if err != nil {
			return apperrors.InternalError(err)
		}
		if !ok {
			return apperrors.ErrInvalidProposalState
		}
		proposal.Status = models.ProposalStatusAccepted
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyProfessional(db, proposal.ProfessionalID, notify.TypeProposalAccepted,
		"Proposal accepted",
		"Your proposal was accepted. The client's contact details are now available.",
		map[string]any{"proposal_id": proposal.ID, "service_request_id": proposal.ServiceRequestID})
	return toProposalResponse(proposal), nil
}

// Reject declines a pending proposal. Decided proposals cannot be rejected;
// in particular an accepted proposal stays accepted.
func (s *ProposalService) Reject(db *gorm.DB, clientID, proposalID string) (*dto.ProposalResponse, error) {
	proposal, err := s.findForRequestOwner(db, clientID, proposalID)
	if err != nil {
		return nil, err
	}
	if proposal.Status != models.ProposalStatusPending {
		return nil, apperrors.ErrInvalidProposalState
	}

	ok, err := s.proposalRepo.TransitionStatus(db, proposal.ID, models.ProposalStatusPending, models.ProposalStatusRejected)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !ok {
		return nil, apperrors.ErrInvalidProposalState
	}
	proposal.Status = models.ProposalStatusRejected

	s.notifyProfessional(db, proposal.ProfessionalID, notify.TypeProposalRejected,
		"Proposal rejected",
		"Your proposal was not selected this time.",
		map[string]any{"proposal_id": proposal.ID, "service_request_id": proposal.ServiceRequestID})
	return toProposalResponse(proposal), nil
}

// Cancel withdraws the professional's own pending proposal. Consumed quota
// is not refunded.
func (s *ProposalService) Cancel(db *gorm.DB, professionalUserID, proposalID string) (*dto.ProposalResponse, error) {
	proposal, err := s.findForProposalOwner(db, professionalUserID, proposalID)
	if err != nil {
		return nil, err
	}
	if proposal.Status != models.ProposalStatusPending {
		return nil, apperrors.ErrInvalidProposalState
	}

	ok, err := s.proposalRepo.TransitionStatus(db, proposal.ID, models.ProposalStatusPending, models.ProposalStatusCancelled)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !ok {
		return nil, apperrors.ErrInvalidProposalState
	}
	proposal.Status = models.ProposalStatusCancelled
	return toProposalResponse(proposal), nil
}

// UpdateTerms edits value/description/estimate while the proposal is still
// pending.
func (s *ProposalService) UpdateTerms(db *gorm.DB, professionalUserID, proposalID string, req dto.UpdateProposalRequest) (*dto.ProposalResponse, error) {
	proposal, err := s.findForProposalOwner(db, professionalUserID, proposalID)
	if err != nil {
		return nil, err
	}
	if proposal.Status != models.ProposalStatusPending {
		return nil, apperrors.ErrInvalidProposalState
	}

	if req.Value != nil {
		proposal.Value = *req.Value
	}
	if req.Description != nil {
		proposal.Description = *req.Description
	}
	if req.EstimatedDays != nil {
		proposal.EstimatedDays = req.EstimatedDays
	}
	if err := s.proposalRepo.UpdateTerms(db, proposal); err != nil {
		if err == repositories.ErrProposalNotFound {
			return nil, apperrors.ErrInvalidProposalState
		}
		return nil, apperrors.InternalError(err)
	}
	return toProposalResponse(proposal), nil
}

// ListMy returns the requesting professional's proposals.
func (s *ProposalService) ListMy(db *gorm.DB, professionalUserID string) ([]dto.ProposalResponse, error) {
	profile, err := s.professionalRepo.FindByUserID(db, professionalUserID)
	if err != nil {
		if err == repositories.ErrProfessionalNotFound {
			return nil, apperrors.ErrInvalidUserRole
		}
		return nil, apperrors.InternalError(err)
	}

	proposals, err := s.proposalRepo.ListByProfessional(db, profile.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return toProposalResponses(proposals), nil
}

// ListByRequest returns all proposals on a request, visible to its owner only.
func (s *ProposalService) ListByRequest(db *gorm.DB, clientID, serviceRequestID string) ([]dto.ProposalResponse, error) {
	request, err := s.serviceRequestRepo.FindByID(db, serviceRequestID)
	if err != nil {
		if err == repositories.ErrServiceRequestNotFound {
			return nil, apperrors.NewNotFoundError("proposal", "Service request not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if request.ClientID != clientID {
		return nil, apperrors.ErrNotRequestOwner
	}

	proposals, err := s.proposalRepo.ListByRequest(db, serviceRequestID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return toProposalResponses(proposals), nil
}

// findForRequestOwner loads the proposal and verifies the requester owns the
// service request it targets.
func (s *ProposalService) findForRequestOwner(db *gorm.DB, clientID, proposalID string) (*models.Proposal, error) {
	proposal, err := s.proposalRepo.FindByID(db, proposalID)
	if err != nil {
		if err == repositories.ErrProposalNotFound {
			return nil, apperrors.NewNotFoundError("proposal", "Proposal not found")
		}
		return nil, apperrors.InternalError(err)
	}

	request, err := s.serviceRequestRepo.FindByID(db, proposal.ServiceRequestID)
	if err != nil {
		if err == repositories.ErrServiceRequestNotFound {
			return nil, apperrors.NewNotFoundError("proposal", "Service request not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if request.ClientID != clientID {
		return nil, apperrors.ErrNotRequestOwner
	}
	return proposal, nil
}

// findForProposalOwner loads the proposal and verifies it belongs to the
// requesting professional.
func (s *ProposalService) findForProposalOwner(db *gorm.DB, professionalUserID, proposalID string) (*models.Proposal, error) {
	profile, err := s.professionalRepo.FindByUserID(db, professionalUserID)
	if err != nil {
		if err == repositories.ErrProfessionalNotFound {
			return nil, apperrors.ErrInvalidUserRole
		}
		return nil, apperrors.InternalError(err)
	}

	proposal, err := s.proposalRepo.FindByID(db, proposalID)
	if err != nil {
		if err == repositories.ErrProposalNotFound {
			return nil, apperrors.NewNotFoundError("proposal", "Proposal not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if proposal.ProfessionalID != profile.ID {
		return nil, apperrors.ErrNotProposalOwner
	}
	return proposal, nil
}

func (s *ProposalService) notifyClient(db *gorm.DB, clientID, eventType, title, message string, data map[string]any) {
	user, err := s.userRepo.FindByID(db, clientID)
	if err != nil {
		return
	}
	s.notifier.Enqueue(notify.Event{
		UserID:  user.ID,
		Type:    eventType,
		Title:   title,
		Message: message,
		Data:    data,
		Email:   user.Email,
	})
}

func (s *ProposalService) notifyProfessional(db *gorm.DB, professionalID, eventType, title, message string, data map[string]any) {
	profile, err := s.professionalRepo.FindByID(db, professionalID)
	if err != nil || profile.User == nil {
		return
	}
	s.notifier.Enqueue(notify.Event{
		UserID:  profile.User.ID,
		Type:    eventType,
		Title:   title,
		Message: message,
		Data:    data,
		Email:   profile.User.Email,
	})
}

func toProposalResponse(p *models.Proposal) *dto.ProposalResponse {
	return &dto.ProposalResponse{
		ID:               p.ID,
		ServiceRequestID: p.ServiceRequestID,
		ProfessionalID:   p.ProfessionalID,
		Value:            p.Value,
		Description:      p.Description,
		EstimatedDays:    p.EstimatedDays,
		Status:           string(p.Status),
		CreatedAt:        p.CreatedAt,
	}
}

func toProposalResponses(proposals []models.Proposal) []dto.ProposalResponse {
	out := make([]dto.ProposalResponse, 0, len(proposals))
	for i := range proposals {
		out = append(out, *toProposalResponse(&proposals[i]))
	}
	return out
}
