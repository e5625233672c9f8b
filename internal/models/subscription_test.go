package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionIsActive(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	future := now.Add(10 * 24 * time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name string
		sub  *Subscription
		want bool
	}{
		{
			name: "nil subscription",
			sub:  nil,
			want: false,
		},
		{
			name: "active within period",
			sub:  &Subscription{Status: SubscriptionStatusActive, CurrentPeriodEnd: &future},
			want: true,
		},
		{
			name: "trialing within period",
			sub:  &Subscription{Status: SubscriptionStatusTrialing, CurrentPeriodEnd: &future},
			want: true,
		},
		{
			name: "active with unbounded period",
			sub:  &Subscription{Status: SubscriptionStatusActive},
			want: true,
		},
		{
			name: "active but period elapsed",
			sub:  &Subscription{Status: SubscriptionStatusActive, CurrentPeriodEnd: &past},
			want: false,
		},
		{
			name: "period end exactly now",
			sub:  &Subscription{Status: SubscriptionStatusActive, CurrentPeriodEnd: &now},
			want: true,
		},
		{
			name: "past due",
			sub:  &Subscription{Status: SubscriptionStatusPastDue, CurrentPeriodEnd: &future},
			want: false,
		},
		{
			name: "cancelled",
			sub:  &Subscription{Status: SubscriptionStatusCancelled, CurrentPeriodEnd: &future},
			want: false,
		},
		{
			name: "inactive",
			sub:  &Subscription{Status: SubscriptionStatusInactive},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sub.IsActive(now))
		})
	}
}
