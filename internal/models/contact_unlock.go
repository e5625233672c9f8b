package models

// ContactUnlock records a paid grant of a client's access to a professional's
// direct contact outside the proposal-acceptance path. Immutable once created;
// one per (client, professional) pair.
type ContactUnlock struct {
	BaseModel
	ClientID         string `gorm:"type:uuid;not null;uniqueIndex:idx_unlock_client_professional"`
	ProfessionalID   string `gorm:"type:uuid;not null;uniqueIndex:idx_unlock_client_professional"`
	ServiceRequestID *string `gorm:"type:uuid"`
	Price            float64 `gorm:"not null"`
}
