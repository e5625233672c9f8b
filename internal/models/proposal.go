package models

// Proposal is unique per (service_request_id, professional_id); the composite
// unique index backs the duplicate check in the service layer.
type Proposal struct {
	BaseModel
	ServiceRequestID string  `gorm:"type:uuid;not null;uniqueIndex:idx_proposal_request_professional"`
	ProfessionalID   string  `gorm:"type:uuid;not null;uniqueIndex:idx_proposal_request_professional"`
	Value            float64 `gorm:"not null"`
	Description      string
	EstimatedDays    *int
	Status           ProposalStatus `gorm:"type:varchar(20);default:'pending';index"`

	// Relations
	ServiceRequest *ServiceRequest      `gorm:"foreignKey:ServiceRequestID"`
	Professional   *ProfessionalProfile `gorm:"foreignKey:ProfessionalID"`
}
