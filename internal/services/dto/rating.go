package dto

import "time"

type CreateRatingRequest struct {
	ServiceRequestID string `json:"serviceRequestId" binding:"required" validate:"required,uuid"`
	Score            int    `json:"score" binding:"required" validate:"required,min=1,max=5"`
	Comment          string `json:"comment,omitempty"`
}

type RatingResponse struct {
	ID               string    `json:"id"`
	ServiceRequestID string    `json:"serviceRequestId"`
	ClientID         string    `json:"clientId"`
	ProfessionalID   string    `json:"professionalId"`
	Score            int       `json:"score"`
	Comment          string    `json:"comment,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

type ProfessionalRatingsResponse struct {
	Ratings []RatingResponse `json:"ratings"`
	Average float64          `json:"average"`
	Count   int64            `json:"count"`
}
