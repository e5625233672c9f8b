package models

// ProfessionalProfile exists for every user with the professional role.
// FreeProposalsUsed is the free-tier counter consumed by the quota engine;
// it only ever moves through the conditional increment in the repository.
// SubscriptionStatus is a denormalized mirror of the subscription row kept
// in sync by the billing webhook and the subscription worker.
type ProfessionalProfile struct {
	BaseModel
	UserID             string `gorm:"type:uuid;uniqueIndex;not null"`
	Bio                string
	CategoryID         *string            `gorm:"type:uuid;index"`
	RegionID           *string            `gorm:"type:uuid;index"`
	FreeProposalsUsed  int                `gorm:"not null;default:0"`
	SubscriptionStatus SubscriptionStatus `gorm:"type:varchar(20);default:'inactive'"`

	// Relations
	User *User `gorm:"foreignKey:UserID"`
}
