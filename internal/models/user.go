package models

type User struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null"`
	PasswordHash string   `gorm:"not null"`
	Role         UserRole `gorm:"type:varchar(20);not null"`
	Name         string   `gorm:"not null"`
	Phone        string
	Whatsapp     string
	RegionID     *string `gorm:"type:uuid;index"`

	// Relations
	ProfessionalProfile *ProfessionalProfile `gorm:"foreignKey:UserID"`
}
