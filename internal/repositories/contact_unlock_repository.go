package repositories

import (
	"errors"

	"fazservico_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUnlockNotFound = errors.New("contact unlock not found")
)

type ContactUnlockRepository interface {
	Create(db *gorm.DB, unlock *models.ContactUnlock) error
	FindByClientAndProfessional(db *gorm.DB, clientID, professionalID string) (*models.ContactUnlock, error)
	ListByClient(db *gorm.DB, clientID string) ([]models.ContactUnlock, error)
}

type contactUnlockRepository struct{}

func NewContactUnlockRepository() ContactUnlockRepository {
	return &contactUnlockRepository{}
}

func (r *contactUnlockRepository) Create(db *gorm.DB, unlock *models.ContactUnlock) error {
	return db.Create(unlock).Error
}

func (r *contactUnlockRepository) FindByClientAndProfessional(db *gorm.DB, clientID, professionalID string) (*models.ContactUnlock, error) {
	var unlock models.ContactUnlock
	err := db.Where("client_id = ? AND professional_id = ?", clientID, professionalID).
		First(&unlock).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnlockNotFound
		}
		return nil, err
	}
	return &unlock, nil
}

func (r *contactUnlockRepository) ListByClient(db *gorm.DB, clientID string) ([]models.ContactUnlock, error) {
	var unlocks []models.ContactUnlock
	err := db.Where("client_id = ?", clientID).Order("created_at DESC").Find(&unlocks).Error
	return unlocks, err
}
