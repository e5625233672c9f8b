package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"fazservico_backend/internal/config"
	"fazservico_backend/internal/models"
	"fazservico_backend/internal/services/dto"
	"fazservico_backend/pkg/apperrors"

	"github.com/stripe/stripe-go/v79"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBillingService replays a prebuilt event from VerifyWebhookSignature and
// records the calls made against the provider.
type fakeBillingService struct {
	cfg *config.Config

	event     stripe.Event
	verifyErr error

	customersCreated int
	checkoutPriceIDs []string
	cancelledSubs    []string
}

func (f *fakeBillingService) CreateCustomer(email, name string) (string, error) {
	f.customersCreated++
	return fmt.Sprintf("cus_fake_%d", f.customersCreated), nil
}

func (f *fakeBillingService) CreateCheckoutSession(customerID, priceID string) (string, error) {
	f.checkoutPriceIDs = append(f.checkoutPriceIDs, priceID)
	return "https://checkout.test/session/" + priceID, nil
}

func (f *fakeBillingService) CancelSubscription(subscriptionID string) error {
	f.cancelledSubs = append(f.cancelledSubs, subscriptionID)
	return nil
}

func (f *fakeBillingService) VerifyWebhookSignature(payload []byte, signature string) (stripe.Event, error) {
	if f.verifyErr != nil {
		return stripe.Event{}, f.verifyErr
	}
	return f.event, nil
}

func (f *fakeBillingService) PlanForPriceID(priceID string) *config.PlanConfig {
	return f.cfg.PlanByStripePriceID(priceID)
}

type subscriptionFixture struct {
	svc              *SubscriptionService
	subscriptionRepo *fakeSubscriptionRepo
	professionalRepo *fakeProfessionalRepo
	userRepo         *fakeUserRepo
	billing          *fakeBillingService

	user    *models.User
	profile *models.ProfessionalProfile
}

func newSubscriptionFixture(t *testing.T) *subscriptionFixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.Quota.FreeProposalLimit = 3
	cfg.Billing.Plans = []config.PlanConfig{
		{Code: "basic_10", Name: "Basic", MonthlyPrice: 29.90, ProposalLimit: 10, StripePriceID: "price_basic_test"},
		{Code: "pro_50", Name: "Pro", MonthlyPrice: 59.90, ProposalLimit: 50, StripePriceID: "price_pro_test"},
	}

	f := &subscriptionFixture{
		subscriptionRepo: newFakeSubscriptionRepo(),
		professionalRepo: newFakeProfessionalRepo(),
		userRepo:         newFakeUserRepo(),
		billing:          &fakeBillingService{cfg: cfg},
	}

	quotaService := NewQuotaService(f.professionalRepo, f.subscriptionRepo, cfg.Quota.FreeProposalLimit)
	f.svc = NewSubscriptionService(f.subscriptionRepo, f.professionalRepo, f.userRepo, quotaService, f.billing, cfg)

	f.user = &models.User{Email: "pro@test.com", Name: "Pro", Role: models.UserRoleProfessional}
	require.NoError(t, f.userRepo.Create(nil, f.user))

	f.profile = &models.ProfessionalProfile{UserID: f.user.ID, User: f.user}
	require.NoError(t, f.professionalRepo.Create(nil, f.profile))
	return f
}

func (f *subscriptionFixture) seedSubscription(t *testing.T, status models.SubscriptionStatus, used int) *models.Subscription {
	t.Helper()
	start := time.Now().Add(-10 * 24 * time.Hour)
	end := time.Now().Add(20 * 24 * time.Hour)
	sub := &models.Subscription{
		ProfessionalID:        f.profile.ID,
		PlanCode:              "basic_10",
		Status:                status,
		MonthlyPrice:          29.90,
		ProposalLimit:         10,
		ProposalsUsedInPeriod: used,
		StripeCustomerID:      "cus_1",
		StripeSubscriptionID:  "sub_1",
		CurrentPeriodStart:    &start,
		CurrentPeriodEnd:      &end,
	}
	require.NoError(t, f.subscriptionRepo.Create(nil, sub))
	return sub
}

func webhookEvent(t *testing.T, eventType string, payload any) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return stripe.Event{
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestCheckout_NewSubscription(t *testing.T) {
	f := newSubscriptionFixture(t)

	resp, err := f.svc.Checkout(nil, f.user.ID, dto.CheckoutRequest{PlanCode: "pro_50"})
	require.NoError(t, err)
	assert.Contains(t, resp.CheckoutURL, "price_pro_test")
	assert.Equal(t, 1, f.billing.customersCreated)

	// The local row is created inactive; activation arrives via webhook.
	sub, err := f.subscriptionRepo.FindByProfessionalID(nil, f.profile.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusInactive, sub.Status)
	assert.Equal(t, "pro_50", sub.PlanCode)
	assert.Equal(t, 50, sub.ProposalLimit)
	assert.NotEmpty(t, sub.StripeCustomerID)
}

func TestCheckout_UnknownPlan(t *testing.T) {
	f := newSubscriptionFixture(t)

	_, err := f.svc.Checkout(nil, f.user.ID, dto.CheckoutRequest{PlanCode: "enterprise_999"})
	assert.ErrorIs(t, err, apperrors.ErrPlanNotFound)
}

func TestCheckout_ActiveSubscriptionRefused(t *testing.T) {
	f := newSubscriptionFixture(t)
	f.seedSubscription(t, models.SubscriptionStatusActive, 0)

	_, err := f.svc.Checkout(nil, f.user.ID, dto.CheckoutRequest{PlanCode: "pro_50"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInvalidOperation, appErr.Code)
}

func TestCheckout_InactiveSubscriptionReusesCustomer(t *testing.T) {
	f := newSubscriptionFixture(t)
	f.seedSubscription(t, models.SubscriptionStatusCancelled, 0)

	resp, err := f.svc.Checkout(nil, f.user.ID, dto.CheckoutRequest{PlanCode: "pro_50"})
	require.NoError(t, err)
	assert.Contains(t, resp.CheckoutURL, "price_pro_test")
	assert.Equal(t, 0, f.billing.customersCreated)

	sub, err := f.subscriptionRepo.FindByProfessionalID(nil, f.profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "pro_50", sub.PlanCode)
	assert.Equal(t, "cus_1", sub.StripeCustomerID)
}

func TestProcessWebhook_BadSignature(t *testing.T) {
	f := newSubscriptionFixture(t)
	f.billing.verifyErr = errors.New("signature mismatch")

	err := f.svc.ProcessWebhook(nil, []byte("{}"), "t=1,v1=bad")
	assert.ErrorIs(t, err, apperrors.ErrWebhookSignature)
}

func TestProcessWebhook_PaymentFailedMarksPastDue(t *testing.T) {
	f := newSubscriptionFixture(t)
	f.seedSubscription(t, models.SubscriptionStatusActive, 4)

	f.billing.event = webhookEvent(t, "invoice.payment_failed", map[string]any{
		"customer": map[string]any{"id": "cus_1"},
	})
	require.NoError(t, f.svc.ProcessWebhook(nil, []byte("{}"), "sig"))

	sub, err := f.subscriptionRepo.FindByProfessionalID(nil, f.profile.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusPastDue, sub.Status)
	assert.Equal(t, 4, sub.ProposalsUsedInPeriod)

	// The denormalized mirror follows every status write.
	profile, err := f.professionalRepo.FindByID(nil, f.profile.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusPastDue, profile.SubscriptionStatus)
}

func TestProcessWebhook_PaymentSucceededResetsUsage(t *testing.T) {
	f := newSubscriptionFixture(t)
	f.seedSubscription(t, models.SubscriptionStatusPastDue, 7)

	periodStart := time.Now().Unix()
	periodEnd := time.Now().Add(30 * 24 * time.Hour).Unix()
	f.billing.event = webhookEvent(t, "invoice.payment_succeeded", map[string]any{
		"customer":     map[string]any{"id": "cus_1"},
		"period_start": periodStart,
		"period_end":   periodEnd,
	})
	require.NoError(t, f.svc.ProcessWebhook(nil, []byte("{}"), "sig"))

	sub, err := f.subscriptionRepo.FindByProfessionalID(nil, f.profile.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusActive, sub.Status)
	assert.Equal(t, 0, sub.ProposalsUsedInPeriod)

	profile, err := f.professionalRepo.FindByID(nil, f.profile.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusActive, profile.SubscriptionStatus)
}

func TestProcessWebhook_SubscriptionUpdatedNewPeriodResetsCounter(t *testing.T) {
	f := newSubscriptionFixture(t)
	f.seedSubscription(t, models.SubscriptionStatusActive, 9)

	newStart := time.Now().Unix()
	newEnd := time.Now().Add(30 * 24 * time.Hour).Unix()
	f.billing.event = webhookEvent(t, "customer.subscription.updated", map[string]any{
		"id":                   "sub_1",
		"customer":             map[string]any{"id": "cus_1"},
		"status":               "active",
		"current_period_start": newStart,
		"current_period_end":   newEnd,
		"items": map[string]any{
			"data": []map[string]any{
				{"price": map[string]any{"id": "price_pro_test"}},
			},
		},
	})
	require.NoError(t, f.svc.ProcessWebhook(nil, []byte("{}"), "sig"))

	sub, err := f.subscriptionRepo.FindByProfessionalID(nil, f.profile.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusActive, sub.Status)
	assert.Equal(t, 0, sub.ProposalsUsedInPeriod)

	// The price ID remapped the subscription onto the other plan.
	assert.Equal(t, "pro_50", sub.PlanCode)
	assert.Equal(t, 50, sub.ProposalLimit)
	require.NotNil(t, sub.CurrentPeriodStart)
	assert.Equal(t, newStart, sub.CurrentPeriodStart.Unix())
}

func TestProcessWebhook_SubscriptionUpdatedSamePeriodKeepsCounter(t *testing.T) {
	f := newSubscriptionFixture(t)
	seeded := f.seedSubscription(t, models.SubscriptionStatusActive, 6)

	f.billing.event = webhookEvent(t, "customer.subscription.updated", map[string]any{
		"id":                   "sub_1",
		"customer":             map[string]any{"id": "cus_1"},
		"status":               "past_due",
		"current_period_start": seeded.CurrentPeriodStart.Unix(),
		"current_period_end":   seeded.CurrentPeriodEnd.Unix(),
	})
	require.NoError(t, f.svc.ProcessWebhook(nil, []byte("{}"), "sig"))

	sub, err := f.subscriptionRepo.FindByProfessionalID(nil, f.profile.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusPastDue, sub.Status)
	assert.Equal(t, 6, sub.ProposalsUsedInPeriod)
}

func TestProcessWebhook_SubscriptionDeleted(t *testing.T) {
	f := newSubscriptionFixture(t)
	f.seedSubscription(t, models.SubscriptionStatusActive, 2)

	f.billing.event = webhookEvent(t, "customer.subscription.deleted", map[string]any{
		"id":       "sub_1",
		"customer": map[string]any{"id": "cus_1"},
		"status":   "canceled",
	})
	require.NoError(t, f.svc.ProcessWebhook(nil, []byte("{}"), "sig"))

	sub, err := f.subscriptionRepo.FindByProfessionalID(nil, f.profile.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusCancelled, sub.Status)
	assert.NotNil(t, sub.CancelledAt)

	profile, err := f.professionalRepo.FindByID(nil, f.profile.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusCancelled, profile.SubscriptionStatus)
}

func TestProcessWebhook_UnknownCustomerIgnored(t *testing.T) {
	f := newSubscriptionFixture(t)

	f.billing.event = webhookEvent(t, "invoice.payment_failed", map[string]any{
		"customer": map[string]any{"id": "cus_unknown"},
	})
	assert.NoError(t, f.svc.ProcessWebhook(nil, []byte("{}"), "sig"))
}

func TestProcessWebhook_UnknownEventTypeIgnored(t *testing.T) {
	f := newSubscriptionFixture(t)

	f.billing.event = stripe.Event{Type: "charge.refunded", Data: &stripe.EventData{Raw: []byte("{}")}}
	assert.NoError(t, f.svc.ProcessWebhook(nil, []byte("{}"), "sig"))
}

func TestCancelMySubscription(t *testing.T) {
	f := newSubscriptionFixture(t)
	f.seedSubscription(t, models.SubscriptionStatusActive, 0)

	require.NoError(t, f.svc.CancelMySubscription(nil, f.user.ID))
	assert.Equal(t, []string{"sub_1"}, f.billing.cancelledSubs)

	sub, err := f.subscriptionRepo.FindByProfessionalID(nil, f.profile.ID)
	require.NoError(t, err)
	assert.NotNil(t, sub.CancelledAt)
}

func TestCancelMySubscription_NotActive(t *testing.T) {
	f := newSubscriptionFixture(t)
	f.seedSubscription(t, models.SubscriptionStatusInactive, 0)

	err := f.svc.CancelMySubscription(nil, f.user.ID)
	assert.ErrorIs(t, err, apperrors.ErrSubscriptionNotActive)
}

func TestGetMySubscription_NoneYet(t *testing.T) {
	f := newSubscriptionFixture(t)

	resp, err := f.svc.GetMySubscription(nil, f.user.ID)
	require.NoError(t, err)
	assert.Nil(t, resp.Subscription)
	assert.Equal(t, 3, resp.Quota.FreeLimit)
}
