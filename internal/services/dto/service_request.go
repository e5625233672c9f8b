package dto

import "time"

type CreateServiceRequestRequest struct {
	Title       string  `json:"title" binding:"required" validate:"required,min=3"`
	Description string  `json:"description,omitempty"`
	CategoryID  *string `json:"categoryId,omitempty" validate:"omitempty,uuid"`
	RegionID    *string `json:"regionId,omitempty" validate:"omitempty,uuid"`
	Urgency     string  `json:"urgency,omitempty" validate:"omitempty,oneof=low medium high"`
}

type SearchServiceRequestsRequest struct {
	CategoryID string `form:"categoryId" validate:"omitempty,uuid"`
	RegionID   string `form:"regionId" validate:"omitempty,uuid"`
	Status     string `form:"status" validate:"omitempty,oneof=open matched closed cancelled"`
	UrgentOnly bool   `form:"urgentOnly"`
	Page       int    `form:"page"`
	PageSize   int    `form:"pageSize"`
}

type ServiceRequestResponse struct {
	ID               string     `json:"id"`
	ClientID         string     `json:"clientId"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	CategoryID       *string    `json:"categoryId,omitempty"`
	RegionID         *string    `json:"regionId,omitempty"`
	Urgency          string     `json:"urgency"`
	Status           string     `json:"status"`
	IsUrgentPromoted bool       `json:"isUrgentPromoted"`
	UrgentPromotedAt *time.Time `json:"urgentPromotedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

type ServiceRequestListResponse struct {
	Requests []ServiceRequestResponse `json:"requests"`
	Total    int64                    `json:"total"`
	Page     int                      `json:"page"`
	PageSize int                      `json:"pageSize"`
}
