package services

import (
	"time"

	"fazservico_backend/internal/metrics"
	"fazservico_backend/internal/repositories"
	"fazservico_backend/internal/services/dto"
	"fazservico_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// QuotaSource names the allowance tier a consumption was charged against.
type QuotaSource string

const (
	QuotaSourceFree         QuotaSource = "free"
	QuotaSourceSubscription QuotaSource = "subscription"
)

// ConsumeResult reports a successful quota consumption.
type ConsumeResult struct {
	Source    QuotaSource
	Used      int
	Limit     int
	Remaining int
}

// QuotaService gates every proposal submission against the two-tier quota:
// the free allowance first, then the subscription allowance. Counters are
// shared mutable state touched by concurrent requests; the only correctness
// mechanism is the conditional increment in the repositories (update the row
// only while the counter still holds the previously read value). There is no
// cross-request lock and no automatic retry: a lost race surfaces as
// ErrQuotaConflict and the caller repeats the whole read-then-consume
// sequence.
type QuotaService struct {
	professionalRepo repositories.ProfessionalRepository
	subscriptionRepo repositories.SubscriptionRepository
	freeLimit        int
}

func NewQuotaService(
	professionalRepo repositories.ProfessionalRepository,
	subscriptionRepo repositories.SubscriptionRepository,
	freeLimit int,
) *QuotaService {
	return &QuotaService{
		professionalRepo: professionalRepo,
		subscriptionRepo: subscriptionRepo,
		freeLimit:        freeLimit,
	}
}

// GetQuotaStatus is a pure read of both tiers. The subscription tier reports
// zero remaining and a nil plan code unless the subscription passes the
// activity predicate.
func (s *QuotaService) GetQuotaStatus(db *gorm.DB, professionalID string) (*dto.QuotaStatusResponse, error) {
	profile, err := s.professionalRepo.FindByID(db, professionalID)
	if err != nil {
		if err == repositories.ErrProfessionalNotFound {
			return nil, apperrors.NewNotFoundError("quota", "Professional not found")
		}
		return nil, apperrors.InternalError(err)
	}

	status := &dto.QuotaStatusResponse{
		FreeLimit:     s.freeLimit,
		FreeUsed:      profile.FreeProposalsUsed,
		FreeRemaining: max(0, s.freeLimit-profile.FreeProposalsUsed),
	}

	sub, err := s.subscriptionRepo.FindByProfessionalID(db, professionalID)
	if err != nil {
		if err == repositories.ErrSubscriptionNotFound {
			return status, nil
		}
		return nil, apperrors.InternalError(err)
	}

	if !sub.IsActive(time.Now()) {
		return status, nil
	}

	planCode := sub.PlanCode
	status.PlanCode = &planCode
	status.SubscriptionUsed = sub.ProposalsUsedInPeriod
	status.SubscriptionLimit = sub.ProposalLimit
	status.SubscriptionRemaining = max(0, sub.ProposalLimit-sub.ProposalsUsedInPeriod)
	return status, nil
}

// ConsumeProposalQuota records one proposal submission. Called exactly once
// per successful creation, inside the creation transaction so a failed
// insert rolls the counter back.
func (s *QuotaService) ConsumeProposalQuota(db *gorm.DB, professionalID string) (*ConsumeResult, error) {
	profile, err := s.professionalRepo.FindByID(db, professionalID)
	if err != nil {
		if err == repositories.ErrProfessionalNotFound {
			return nil, apperrors.NewNotFoundError("quota", "Professional not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if profile.FreeProposalsUsed < s.freeLimit {
		ok, err := s.professionalRepo.ConsumeFreeSlot(db, professionalID, profile.FreeProposalsUsed)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if !ok {
			metrics.QuotaConflictsTotal.Inc()
			return nil, apperrors.ErrQuotaConflict
		}
		used := profile.FreeProposalsUsed + 1
		return &ConsumeResult{
			Source:    QuotaSourceFree,
			Used:      used,
			Limit:     s.freeLimit,
			Remaining: s.freeLimit - used,
		}, nil
	}

	// Free allowance exhausted; fall through to the subscription tier.
	sub, err := s.subscriptionRepo.FindByProfessionalID(db, professionalID)
	if err != nil {
		if err == repositories.ErrSubscriptionNotFound {
			metrics.QuotaDeniedTotal.WithLabelValues("free_exhausted").Inc()
			return nil, apperrors.ErrFreeQuotaExhausted
		}
		return nil, apperrors.InternalError(err)
	}

	if !sub.IsActive(time.Now()) {
		metrics.QuotaDeniedTotal.WithLabelValues("free_exhausted").Inc()
		return nil, apperrors.ErrFreeQuotaExhausted
	}

	if sub.ProposalsUsedInPeriod >= sub.ProposalLimit {
		metrics.QuotaDeniedTotal.WithLabelValues("plan_exhausted").Inc()
		return nil, apperrors.ErrPlanQuotaExhausted
	}

	ok, err := s.subscriptionRepo.ConsumePeriodSlot(db, sub.ID, sub.ProposalsUsedInPeriod)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !ok {
		metrics.QuotaConflictsTotal.Inc()
		return nil, apperrors.ErrQuotaConflict
	}

	used := sub.ProposalsUsedInPeriod + 1
	return &ConsumeResult{
		Source:    QuotaSourceSubscription,
		Used:      used,
		Limit:     sub.ProposalLimit,
		Remaining: sub.ProposalLimit - used,
	}, nil
}

// HasActiveSubscription answers the contact policy's subscription path.
func (s *QuotaService) HasActiveSubscription(db *gorm.DB, professionalID string) (bool, error) {
	sub, err := s.subscriptionRepo.FindByProfessionalID(db, professionalID)
	if err != nil {
		if err == repositories.ErrSubscriptionNotFound {
			return false, nil
		}
		return false, apperrors.InternalError(err)
	}
	return sub.IsActive(time.Now()), nil
}
