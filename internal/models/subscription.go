package models

import (
	"time"

	"gorm.io/datatypes"
)

// SubscriptionPlan rows are seeded from configuration at startup so the
// API can list plans; the configuration stays the source of truth.
type SubscriptionPlan struct {
	BaseModel
	Code          string  `gorm:"uniqueIndex;not null"`
	Name          string  `gorm:"not null"`
	MonthlyPrice  float64 `gorm:"not null"`
	ProposalLimit int     `gorm:"not null"`
	StripePriceID string
	Features      datatypes.JSON `gorm:"type:jsonb"`
	IsActive      bool           `gorm:"default:true"`
}

// Subscription is one-to-one with a professional profile.
// ProposalsUsedInPeriod is consumed through the conditional increment in the
// repository and reset when the billing webhook opens a new period.
// A nil CurrentPeriodEnd means the period is unbounded.
type Subscription struct {
	BaseModel
	ProfessionalID        string             `gorm:"type:uuid;uniqueIndex;not null"`
	PlanCode              string             `gorm:"not null"`
	Status                SubscriptionStatus `gorm:"type:varchar(20);default:'inactive'"`
	MonthlyPrice          float64
	ProposalLimit         int `gorm:"not null"`
	ProposalsUsedInPeriod int `gorm:"not null;default:0"`
	CurrentPeriodStart    *time.Time
	CurrentPeriodEnd      *time.Time
	StripeCustomerID      string `gorm:"index"`
	StripeSubscriptionID  string `gorm:"index"`
	CancelledAt           *time.Time
}

// IsActive is the subscription activity predicate: active/trialing and the
// current period has not elapsed (nil period end counts as unbounded).
func (s *Subscription) IsActive(now time.Time) bool {
	if s == nil {
		return false
	}
	if s.Status != SubscriptionStatusActive && s.Status != SubscriptionStatusTrialing {
		return false
	}
	if s.CurrentPeriodEnd == nil {
		return true
	}
	return !s.CurrentPeriodEnd.Before(now)
}
