package services

import (
	"encoding/json"
	"time"

	"fazservico_backend/internal/billing"
	"fazservico_backend/internal/config"
	"fazservico_backend/internal/logger"
	"fazservico_backend/internal/models"
	"fazservico_backend/internal/repositories"
	"fazservico_backend/internal/services/dto"
	"fazservico_backend/pkg/apperrors"

	"github.com/stripe/stripe-go/v79"
	"gorm.io/gorm"
)

// SubscriptionService exposes plans and the professional's own subscription,
// starts checkout, and applies billing-provider webhook events. The webhook
// is the single write path for status and period data; every status write
// also updates the denormalized mirror on the professional profile.
type SubscriptionService struct {
	subscriptionRepo repositories.SubscriptionRepository
	professionalRepo repositories.ProfessionalRepository
	userRepo         repositories.UserRepository
	quotaService     *QuotaService
	billing          billing.Service
	cfg              *config.Config
}

func NewSubscriptionService(
	subscriptionRepo repositories.SubscriptionRepository,
	professionalRepo repositories.ProfessionalRepository,
	userRepo repositories.UserRepository,
	quotaService *QuotaService,
	billingService billing.Service,
	cfg *config.Config,
) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		professionalRepo: professionalRepo,
		userRepo:         userRepo,
		quotaService:     quotaService,
		billing:          billingService,
		cfg:              cfg,
	}
}

// ListPlans returns the plans available for checkout.
func (s *SubscriptionService) ListPlans(db *gorm.DB) ([]dto.PlanResponse, error) {
	plans, err := s.subscriptionRepo.FindActivePlans(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]dto.PlanResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, dto.PlanResponse{
			Code:          p.Code,
			Name:          p.Name,
			MonthlyPrice:  p.MonthlyPrice,
			ProposalLimit: p.ProposalLimit,
		})
	}
	return out, nil
}

// GetMySubscription returns the professional's subscription (nil when none
// exists) together with the current quota status.
func (s *SubscriptionService) GetMySubscription(db *gorm.DB, userID string) (*dto.MySubscriptionResponse, error) {
	profile, err := s.findProfile(db, userID)
	if err != nil {
		return nil, err
	}

	quota, err := s.quotaService.GetQuotaStatus(db, profile.ID)
	if err != nil {
		return nil, err
	}

	resp := &dto.MySubscriptionResponse{Quota: *quota}
	sub, err := s.subscriptionRepo.FindByProfessionalID(db, profile.ID)
	if err != nil {
		if err == repositories.ErrSubscriptionNotFound {
			return resp, nil
		}
		return nil, apperrors.InternalError(err)
	}
	resp.Subscription = toSubscriptionResponse(sub)
	return resp, nil
}

// Checkout starts a provider checkout session for a plan. The local
// subscription row is created here in inactive state; the webhook activates
// it after payment.
func (s *SubscriptionService) Checkout(db *gorm.DB, userID string, req dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	profile, err := s.findProfile(db, userID)
	if err != nil {
		return nil, err
	}

	plan := s.cfg.PlanByCode(req.PlanCode)
	if plan == nil {
		return nil, apperrors.ErrPlanNotFound
	}

	sub, err := s.subscriptionRepo.FindByProfessionalID(db, profile.ID)
	if err != nil && err != repositories.ErrSubscriptionNotFound {
		return nil, apperrors.InternalError(err)
	}
	if sub != nil && sub.IsActive(time.Now()) {
		return nil, apperrors.ErrInvalidOperation("subscription", "An active subscription already exists")
	}

	customerID := ""
	if sub != nil {
		customerID = sub.StripeCustomerID
	}
	if customerID == "" {
		user, err := s.userRepo.FindByID(db, userID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		customerID, err = s.billing.CreateCustomer(user.Email, user.Name)
		if err != nil {
			return nil, apperrors.ErrBillingProvider.WithError(err)
		}
	}

	if sub == nil {
		sub = &models.Subscription{
			ProfessionalID:   profile.ID,
			PlanCode:         plan.Code,
			Status:           models.SubscriptionStatusInactive,
			MonthlyPrice:     plan.MonthlyPrice,
			ProposalLimit:    plan.ProposalLimit,
			StripeCustomerID: customerID,
		}
		if err := s.subscriptionRepo.Create(db, sub); err != nil {
			return nil, apperrors.InternalError(err)
		}
	} else {
		sub.PlanCode = plan.Code
		sub.MonthlyPrice = plan.MonthlyPrice
		sub.ProposalLimit = plan.ProposalLimit
		sub.StripeCustomerID = customerID
		if err := s.subscriptionRepo.Update(db, sub); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	url, err := s.billing.CreateCheckoutSession(customerID, plan.StripePriceID)
	if err != nil {
		return nil, apperrors.ErrBillingProvider.WithError(err)
	}
	return &dto.CheckoutResponse{CheckoutURL: url}, nil
}

// CancelMySubscription asks the provider to end the subscription at period
// close. The status change itself arrives through the webhook.
func (s *SubscriptionService) CancelMySubscription(db *gorm.DB, userID string) error {
	profile, err := s.findProfile(db, userID)
	if err != nil {
		return err
	}

	sub, err := s.subscriptionRepo.FindByProfessionalID(db, profile.ID)
	if err != nil {
		if err == repositories.ErrSubscriptionNotFound {
			return apperrors.NewNotFoundError("subscription", "No subscription found")
		}
		return apperrors.InternalError(err)
	}
	if !sub.IsActive(time.Now()) {
		return apperrors.ErrSubscriptionNotActive
	}

	if sub.StripeSubscriptionID != "" {
		if err := s.billing.CancelSubscription(sub.StripeSubscriptionID); err != nil {
			return apperrors.ErrBillingProvider.WithError(err)
		}
	}

	now := time.Now()
	sub.CancelledAt = &now
	if err := s.subscriptionRepo.Update(db, sub); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// ProcessWebhook verifies and applies one provider event. Unknown event
// types are acknowledged and ignored.
func (s *SubscriptionService) ProcessWebhook(db *gorm.DB, payload []byte, signature string) error {
	event, err := s.billing.VerifyWebhookSignature(payload, signature)
	if err != nil {
		return apperrors.ErrWebhookSignature.WithError(err)
	}

	switch event.Type {
	case "checkout.session.completed":
		return s.handleCheckoutCompleted(db, event)
	case "customer.subscription.created", "customer.subscription.updated":
		return s.handleSubscriptionUpdated(db, event)
	case "customer.subscription.deleted":
		return s.handleSubscriptionDeleted(db, event)
	case "invoice.payment_succeeded":
		return s.handlePaymentSucceeded(db, event)
	case "invoice.payment_failed":
		return s.handlePaymentFailed(db, event)
	default:
		logger.Info("ignoring billing webhook event", "type", event.Type)
		return nil
	}
}

func (s *SubscriptionService) handleCheckoutCompleted(db *gorm.DB, event stripe.Event) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return apperrors.NewBadRequestError("Malformed checkout event payload")
	}
	if session.Customer == nil {
		return nil
	}

	sub, err := s.subscriptionRepo.FindByStripeCustomerID(db, session.Customer.ID)
	if err != nil {
		if err == repositories.ErrSubscriptionNotFound {
			logger.Warn("checkout completed for unknown customer", "customer_id", session.Customer.ID)
			return nil
		}
		return apperrors.InternalError(err)
	}

	if session.Subscription != nil {
		sub.StripeSubscriptionID = session.Subscription.ID
		if err := s.subscriptionRepo.Update(db, sub); err != nil {
			return apperrors.InternalError(err)
		}
	}
	return nil
}

func (s *SubscriptionService) handleSubscriptionUpdated(db *gorm.DB, event stripe.Event) error {
	var remote stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &remote); err != nil {
		return apperrors.NewBadRequestError("Malformed subscription event payload")
	}

	sub, err := s.findLocal(db, remote.ID, remote.Customer)
	if err != nil || sub == nil {
		return err
	}

	if sub.StripeSubscriptionID == "" {
		sub.StripeSubscriptionID = remote.ID
	}
	if remote.Items != nil && len(remote.Items.Data) > 0 && remote.Items.Data[0].Price != nil {
		if plan := s.billing.PlanForPriceID(remote.Items.Data[0].Price.ID); plan != nil {
			sub.PlanCode = plan.Code
			sub.MonthlyPrice = plan.MonthlyPrice
			sub.ProposalLimit = plan.ProposalLimit
		}
	}

	periodStart := unixTime(remote.CurrentPeriodStart)
	periodEnd := unixTime(remote.CurrentPeriodEnd)
	newPeriod := periodStart != nil &&
		(sub.CurrentPeriodStart == nil || periodStart.After(*sub.CurrentPeriodStart))

	sub.Status = models.SubscriptionStatus(billing.StatusFromStripe(remote.Status))
	sub.CurrentPeriodStart = periodStart
	sub.CurrentPeriodEnd = periodEnd
	if err := s.subscriptionRepo.Update(db, sub); err != nil {
		return apperrors.InternalError(err)
	}

	// A fresh billing window resets the in-period counter.
	if newPeriod {
		if err := s.subscriptionRepo.ResetPeriodUsage(db, sub.ID, periodStart, periodEnd); err != nil {
			return apperrors.InternalError(err)
		}
	}
	return s.syncMirror(db, sub.ProfessionalID, sub.Status)
}

func (s *SubscriptionService) handleSubscriptionDeleted(db *gorm.DB, event stripe.Event) error {
	var remote stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &remote); err != nil {
		return apperrors.NewBadRequestError("Malformed subscription event payload")
	}

	sub, err := s.findLocal(db, remote.ID, remote.Customer)
	if err != nil || sub == nil {
		return err
	}

	now := time.Now()
	sub.Status = models.SubscriptionStatusCancelled
	if sub.CancelledAt == nil {
		sub.CancelledAt = &now
	}
	if err := s.subscriptionRepo.Update(db, sub); err != nil {
		return apperrors.InternalError(err)
	}
	return s.syncMirror(db, sub.ProfessionalID, models.SubscriptionStatusCancelled)
}

func (s *SubscriptionService) handlePaymentSucceeded(db *gorm.DB, event stripe.Event) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return apperrors.NewBadRequestError("Malformed invoice event payload")
	}
	if invoice.Customer == nil {
		return nil
	}

	sub, err := s.subscriptionRepo.FindByStripeCustomerID(db, invoice.Customer.ID)
	if err != nil {
		if err == repositories.ErrSubscriptionNotFound {
			return nil
		}
		return apperrors.InternalError(err)
	}

	sub.Status = models.SubscriptionStatusActive
	if err := s.subscriptionRepo.Update(db, sub); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.subscriptionRepo.ResetPeriodUsage(db, sub.ID,
		unixTime(invoice.PeriodStart), unixTime(invoice.PeriodEnd)); err != nil {
		return apperrors.InternalError(err)
	}
	return s.syncMirror(db, sub.ProfessionalID, models.SubscriptionStatusActive)
}

func (s *SubscriptionService) handlePaymentFailed(db *gorm.DB, event stripe.Event) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return apperrors.NewBadRequestError("Malformed invoice event payload")
	}
	if invoice.Customer == nil {
		return nil
	}

	sub, err := s.subscriptionRepo.FindByStripeCustomerID(db, invoice.Customer.ID)
	if err != nil {
		if err == repositories.ErrSubscriptionNotFound {
			return nil
		}
		return apperrors.InternalError(err)
	}

	sub.Status = models.SubscriptionStatusPastDue
	if err := s.subscriptionRepo.Update(db, sub); err != nil {
		return apperrors.InternalError(err)
	}
	return s.syncMirror(db, sub.ProfessionalID, models.SubscriptionStatusPastDue)
}

// findLocal resolves a provider subscription to the local row, trying the
// subscription ID first and falling back to the customer ID. A nil result
// with nil error means the event does not concern a known subscription.
func (s *SubscriptionService) findLocal(db *gorm.DB, subscriptionID string, customer *stripe.Customer) (*models.Subscription, error) {
	sub, err := s.subscriptionRepo.FindByStripeSubscriptionID(db, subscriptionID)
	if err == nil {
		return sub, nil
	}
	if err != repositories.ErrSubscriptionNotFound {
		return nil, apperrors.InternalError(err)
	}

	if customer == nil {
		return nil, nil
	}
	sub, err = s.subscriptionRepo.FindByStripeCustomerID(db, customer.ID)
	if err != nil {
		if err == repositories.ErrSubscriptionNotFound {
			logger.Warn("webhook event for unknown subscription",
				"subscription_id", subscriptionID, "customer_id", customer.ID)
			return nil, nil
		}
		return nil, apperrors.InternalError(err)
	}
	return sub, nil
}

func (s *SubscriptionService) syncMirror(db *gorm.DB, professionalID string, status models.SubscriptionStatus) error {
	if err := s.professionalRepo.SetSubscriptionStatus(db, professionalID, status); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *SubscriptionService) findProfile(db *gorm.DB, userID string) (*models.ProfessionalProfile, error) {
	profile, err := s.professionalRepo.FindByUserID(db, userID)
	if err != nil {
		if err == repositories.ErrProfessionalNotFound {
			return nil, apperrors.ErrInvalidUserRole
		}
		return nil, apperrors.InternalError(err)
	}
	return profile, nil
}

func toSubscriptionResponse(sub *models.Subscription) *dto.SubscriptionResponse {
	return &dto.SubscriptionResponse{
		ID:                    sub.ID,
		PlanCode:              sub.PlanCode,
		Status:                string(sub.Status),
		MonthlyPrice:          sub.MonthlyPrice,
		ProposalLimit:         sub.ProposalLimit,
		ProposalsUsedInPeriod: sub.ProposalsUsedInPeriod,
		CurrentPeriodStart:    sub.CurrentPeriodStart,
		CurrentPeriodEnd:      sub.CurrentPeriodEnd,
	}
}

func unixTime(ts int64) *time.Time {
	if ts == 0 {
		return nil
	}
	t := time.Unix(ts, 0).UTC()
	return &t
}
