package repositories

import (
	"errors"

	"fazservico_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrRatingNotFound = errors.New("rating not found")
)

type RatingRepository interface {
	Create(db *gorm.DB, rating *models.Rating) error
	FindByServiceRequestID(db *gorm.DB, serviceRequestID string) (*models.Rating, error)
	ListByProfessional(db *gorm.DB, professionalID string) ([]models.Rating, error)
	AverageForProfessional(db *gorm.DB, professionalID string) (float64, int64, error)
}

type ratingRepository struct{}

func NewRatingRepository() RatingRepository {
	return &ratingRepository{}
}

func (r *ratingRepository) Create(db *gorm.DB, rating *models.Rating) error {
	return db.Create(rating).Error
}

func (r *ratingRepository) FindByServiceRequestID(db *gorm.DB, serviceRequestID string) (*models.Rating, error) {
	var rating models.Rating
	err := db.Where("service_request_id = ?", serviceRequestID).First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) ListByProfessional(db *gorm.DB, professionalID string) ([]models.Rating, error) {
	var ratings []models.Rating
	err := db.Where("professional_id = ?", professionalID).Order("created_at DESC").Find(&ratings).Error
	return ratings, err
}

func (r *ratingRepository) AverageForProfessional(db *gorm.DB, professionalID string) (float64, int64, error) {
	var result struct {
		Avg   float64
		Count int64
	}
	err := db.Model(&models.Rating{}).
		Select("COALESCE(AVG(score), 0) AS avg, COUNT(*) AS count").
		Where("professional_id = ?", professionalID).
		Scan(&result).Error
	return result.Avg, result.Count, err
}
