package dto

import "time"

type CreateProposalRequest struct {
	ServiceRequestID string  `json:"serviceRequestId" binding:"required" validate:"required,uuid"`
	Value            float64 `json:"value" binding:"required" validate:"required,gt=0"`
	Description      string  `json:"description,omitempty"`
	EstimatedDays    *int    `json:"estimatedDays,omitempty" validate:"omitempty,gt=0"`
}

type UpdateProposalRequest struct {
	Value         *float64 `json:"value,omitempty" validate:"omitempty,gt=0"`
	Description   *string  `json:"description,omitempty"`
	EstimatedDays *int     `json:"estimatedDays,omitempty" validate:"omitempty,gt=0"`
}

type ProposalResponse struct {
	ID               string    `json:"id"`
	ServiceRequestID string    `json:"serviceRequestId"`
	ProfessionalID   string    `json:"professionalId"`
	Value            float64   `json:"value"`
	Description      string    `json:"description,omitempty"`
	EstimatedDays    *int      `json:"estimatedDays,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`

	// QuotaSource reports which allowance paid for the submission; only
	// set on the create response.
	QuotaSource string `json:"quotaSource,omitempty"`
}
