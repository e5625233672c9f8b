// Package billing wraps the Stripe API for subscription checkout and
// webhook verification. The webhook route is the only write path for
// subscription status and period data.
package billing

import (
	"fmt"

	"fazservico_backend/internal/config"

	"github.com/stripe/stripe-go/v79"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/customer"
	"github.com/stripe/stripe-go/v79/subscription"
	"github.com/stripe/stripe-go/v79/webhook"
)

// Service is the billing-provider surface the subscription service depends on.
type Service interface {
	// CreateCustomer creates a billing customer and returns its provider ID.
	CreateCustomer(email, name string) (string, error)

	// CreateCheckoutSession starts a subscription checkout for a plan.
	// Returns the URL the frontend redirects the user to.
	CreateCheckoutSession(customerID, priceID string) (string, error)

	// CancelSubscription flags the provider subscription to end at period close.
	CancelSubscription(subscriptionID string) error

	// VerifyWebhookSignature checks the webhook signature and decodes the event.
	VerifyWebhookSignature(payload []byte, signature string) (stripe.Event, error)

	// PlanForPriceID maps a provider price ID back to a configured plan.
	PlanForPriceID(priceID string) *config.PlanConfig
}

type stripeService struct {
	webhookSecret string
	successURL    string
	cancelURL     string
	cfg           *config.Config
}

// NewStripeService builds the Stripe-backed billing service.
func NewStripeService(cfg *config.Config) Service {
	stripe.Key = cfg.Billing.StripeSecretKey

	return &stripeService{
		webhookSecret: cfg.Billing.StripeWebhookSecret,
		successURL:    cfg.Billing.CheckoutSuccessURL,
		cancelURL:     cfg.Billing.CheckoutCancelURL,
		cfg:           cfg,
	}
}

func (s *stripeService) CreateCustomer(email, name string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	c, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe create customer: %w", err)
	}
	return c.ID, nil
}

func (s *stripeService) CreateCheckoutSession(customerID, priceID string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.successURL),
		CancelURL:  stripe.String(s.cancelURL),
	}
	sess, err := checkoutsession.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe create checkout session: %w", err)
	}
	return sess.URL, nil
}

func (s *stripeService) CancelSubscription(subscriptionID string) error {
	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	}
	if _, err := subscription.Update(subscriptionID, params); err != nil {
		return fmt.Errorf("stripe cancel subscription: %w", err)
	}
	return nil
}

func (s *stripeService) VerifyWebhookSignature(payload []byte, signature string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signature, s.webhookSecret)
}

func (s *stripeService) PlanForPriceID(priceID string) *config.PlanConfig {
	return s.cfg.PlanByStripePriceID(priceID)
}

// StatusFromStripe maps a provider subscription status onto the domain enum.
func StatusFromStripe(status stripe.SubscriptionStatus) string {
	switch status {
	case stripe.SubscriptionStatusActive:
		return "active"
	case stripe.SubscriptionStatusTrialing:
		return "trialing"
	case stripe.SubscriptionStatusPastDue:
		return "past_due"
	case stripe.SubscriptionStatusCanceled:
		return "cancelled"
	default:
		return "inactive"
	}
}
