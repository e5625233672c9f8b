package models

import "time"

type ServiceRequest struct {
	BaseModel
	ClientID    string `gorm:"type:uuid;not null;index"`
	Title       string `gorm:"not null"`
	Description string
	CategoryID  *string              `gorm:"type:uuid;index"`
	RegionID    *string              `gorm:"type:uuid;index"`
	Urgency     Urgency              `gorm:"type:varchar(10);default:'medium'"`
	Status      ServiceRequestStatus `gorm:"type:varchar(20);default:'open';index"`

	// Urgent promotion: a paid flag that pins the request in listings.
	IsUrgentPromoted bool `gorm:"default:false"`
	UrgentPrice      float64
	UrgentPromotedAt *time.Time

	// Relations
	Client    *User      `gorm:"foreignKey:ClientID"`
	Proposals []Proposal `gorm:"foreignKey:ServiceRequestID"`
}
