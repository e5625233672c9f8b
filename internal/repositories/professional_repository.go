package repositories

import (
	"errors"

	"fazservico_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrProfessionalNotFound = errors.New("professional profile not found")
)

type ProfessionalRepository interface {
	Create(db *gorm.DB, profile *models.ProfessionalProfile) error
	FindByID(db *gorm.DB, id string) (*models.ProfessionalProfile, error)
	FindByUserID(db *gorm.DB, userID string) (*models.ProfessionalProfile, error)
	UpdateProfile(db *gorm.DB, profile *models.ProfessionalProfile) error

	// ConsumeFreeSlot performs the conditional increment of the free-tier
	// counter: the row is updated only while the stored value still equals
	// expected. A false return means another request won the race and the
	// caller must re-read before retrying.
	ConsumeFreeSlot(db *gorm.DB, id string, expected int) (bool, error)

	// SetSubscriptionStatus maintains the denormalized status mirror.
	SetSubscriptionStatus(db *gorm.DB, id string, status models.SubscriptionStatus) error
}

type professionalRepository struct{}

func NewProfessionalRepository() ProfessionalRepository {
	return &professionalRepository{}
}

func (r *professionalRepository) Create(db *gorm.DB, profile *models.ProfessionalProfile) error {
	return db.Create(profile).Error
}

func (r *professionalRepository) FindByID(db *gorm.DB, id string) (*models.ProfessionalProfile, error) {
	var profile models.ProfessionalProfile
	err := db.Preload("User").First(&profile, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfessionalNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *professionalRepository) FindByUserID(db *gorm.DB, userID string) (*models.ProfessionalProfile, error) {
	var profile models.ProfessionalProfile
	err := db.Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfessionalNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *professionalRepository) UpdateProfile(db *gorm.DB, profile *models.ProfessionalProfile) error {
	result := db.Model(profile).Updates(map[string]interface{}{
		"bio":         profile.Bio,
		"category_id": profile.CategoryID,
		"region_id":   profile.RegionID,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfessionalNotFound
	}
	return nil
}

func (r *professionalRepository) ConsumeFreeSlot(db *gorm.DB, id string, expected int) (bool, error) {
	result := db.Model(&models.ProfessionalProfile{}).
		Where("id = ? AND free_proposals_used = ?", id, expected).
		Update("free_proposals_used", expected+1)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *professionalRepository) SetSubscriptionStatus(db *gorm.DB, id string, status models.SubscriptionStatus) error {
	result := db.Model(&models.ProfessionalProfile{}).
		Where("id = ?", id).
		Update("subscription_status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfessionalNotFound
	}
	return nil
}
