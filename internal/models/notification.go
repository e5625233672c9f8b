package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	UserID  string `gorm:"type:uuid;not null;index"`
	Type    string `gorm:"not null"` // "new_proposal", "proposal_accepted", "proposal_rejected", "contact_unlocked"
	Title   string `gorm:"not null"`
	Message string
	Data    datatypes.JSON `gorm:"type:jsonb"` // {"proposal_id": "...", "service_request_id": "..."}
	IsRead  bool           `gorm:"default:false"`
	ReadAt  *time.Time
}
