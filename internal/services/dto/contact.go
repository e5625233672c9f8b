package dto

import "time"

type GetContactRequest struct {
	UserID           string `form:"userId" binding:"required" validate:"required,uuid"`
	ServiceRequestID string `form:"serviceRequestId" validate:"omitempty,uuid"`
}

type UnlockContactRequest struct {
	ProfessionalID   string  `json:"professionalId" binding:"required" validate:"required,uuid"`
	ServiceRequestID *string `json:"serviceRequestId,omitempty" validate:"omitempty,uuid"`
}

type ContactUnlockResponse struct {
	ID               string    `json:"id"`
	ClientID         string    `json:"clientId"`
	ProfessionalID   string    `json:"professionalId"`
	ServiceRequestID *string   `json:"serviceRequestId,omitempty"`
	Price            float64   `json:"price"`
	CreatedAt        time.Time `json:"createdAt"`
}
