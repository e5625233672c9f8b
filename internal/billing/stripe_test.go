package billing

import (
	"testing"

	"github.com/stripe/stripe-go/v79"
	"github.com/stretchr/testify/assert"
)

func TestStatusFromStripe(t *testing.T) {
	tests := []struct {
		in   stripe.SubscriptionStatus
		want string
	}{
		{stripe.SubscriptionStatusActive, "active"},
		{stripe.SubscriptionStatusTrialing, "trialing"},
		{stripe.SubscriptionStatusPastDue, "past_due"},
		{stripe.SubscriptionStatusCanceled, "cancelled"},
		{stripe.SubscriptionStatusIncomplete, "inactive"},
		{stripe.SubscriptionStatusIncompleteExpired, "inactive"},
		{stripe.SubscriptionStatusUnpaid, "inactive"},
		{stripe.SubscriptionStatusPaused, "inactive"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFromStripe(tt.in), "status %q", tt.in)
	}
}
