package dto

import "time"

// QuotaStatusResponse reports both allowance tiers for a professional.
type QuotaStatusResponse struct {
	FreeLimit             int     `json:"freeLimit"`
	FreeUsed              int     `json:"freeUsed"`
	FreeRemaining         int     `json:"freeRemaining"`
	PlanCode              *string `json:"planCode"`
	SubscriptionRemaining int     `json:"subscriptionRemaining"`
	SubscriptionUsed      int     `json:"subscriptionUsed"`
	SubscriptionLimit     int     `json:"subscriptionLimit"`
}

type SubscriptionResponse struct {
	ID                    string     `json:"id"`
	PlanCode              string     `json:"planCode"`
	Status                string     `json:"status"`
	MonthlyPrice          float64    `json:"monthlyPrice"`
	ProposalLimit         int        `json:"proposalLimit"`
	ProposalsUsedInPeriod int        `json:"proposalsUsedInPeriod"`
	CurrentPeriodStart    *time.Time `json:"currentPeriodStart,omitempty"`
	CurrentPeriodEnd      *time.Time `json:"currentPeriodEnd,omitempty"`
}

type MySubscriptionResponse struct {
	Subscription *SubscriptionResponse `json:"subscription"`
	Quota        QuotaStatusResponse   `json:"quota"`
}

type PlanResponse struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	MonthlyPrice  float64 `json:"monthlyPrice"`
	ProposalLimit int     `json:"proposalLimit"`
}

type CheckoutRequest struct {
	PlanCode string `json:"planCode" binding:"required" validate:"required"`
}

type CheckoutResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
}
