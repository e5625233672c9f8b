package models

// Rating is left by the owning client after a request was matched;
// one per service request.
type Rating struct {
	BaseModel
	ServiceRequestID string `gorm:"type:uuid;uniqueIndex;not null"`
	ClientID         string `gorm:"type:uuid;not null;index"`
	ProfessionalID   string `gorm:"type:uuid;not null;index"`
	Score            int    `gorm:"not null"`
	Comment          string
}
