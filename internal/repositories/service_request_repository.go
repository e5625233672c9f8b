package repositories

import (
	"errors"
	"time"

	"fazservico_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrServiceRequestNotFound = errors.New("service request not found")
)

// ServiceRequestCriteria filters the public listing.
type ServiceRequestCriteria struct {
	CategoryID string
	RegionID   string
	Status     models.ServiceRequestStatus
	UrgentOnly bool
	Page       int
	PageSize   int
}

type ServiceRequestRepository interface {
	Create(db *gorm.DB, req *models.ServiceRequest) error
	FindByID(db *gorm.DB, id string) (*models.ServiceRequest, error)
	ListByClient(db *gorm.DB, clientID string) ([]models.ServiceRequest, error)
	Search(db *gorm.DB, criteria ServiceRequestCriteria) ([]models.ServiceRequest, int64, error)

	// MarkMatched flips open -> matched conditionally; false means the
	// request was no longer open (another proposal was accepted first).
	MarkMatched(db *gorm.DB, id string) (bool, error)

	UpdateStatus(db *gorm.DB, id string, status models.ServiceRequestStatus) error
	PromoteUrgent(db *gorm.DB, id string, price float64, at time.Time) error
}

type serviceRequestRepository struct{}

func NewServiceRequestRepository() ServiceRequestRepository {
	return &serviceRequestRepository{}
}

func (r *serviceRequestRepository) Create(db *gorm.DB, req *models.ServiceRequest) error {
	return db.Create(req).Error
}

func (r *serviceRequestRepository) FindByID(db *gorm.DB, id string) (*models.ServiceRequest, error) {
	var req models.ServiceRequest
	err := db.First(&req, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *serviceRequestRepository) ListByClient(db *gorm.DB, clientID string) ([]models.ServiceRequest, error) {
	var reqs []models.ServiceRequest
	err := db.Where("client_id = ?", clientID).Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

func (r *serviceRequestRepository) Search(db *gorm.DB, criteria ServiceRequestCriteria) ([]models.ServiceRequest, int64, error) {
	query := db.Model(&models.ServiceRequest{})

	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.CategoryID != "" {
		query = query.Where("category_id = ?", criteria.CategoryID)
	}
	if criteria.RegionID != "" {
		query = query.Where("region_id = ?", criteria.RegionID)
	}
	if criteria.UrgentOnly {
		query = query.Where("is_urgent_promoted = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reqs []models.ServiceRequest
	offset := (criteria.Page - 1) * criteria.PageSize
	err := query.
		Order("is_urgent_promoted DESC, created_at DESC").
		Offset(offset).Limit(criteria.PageSize).
		Find(&reqs).Error
	return reqs, total, err
}

func (r *serviceRequestRepository) MarkMatched(db *gorm.DB, id string) (bool, error) {
	result := db.Model(&models.ServiceRequest{}).
		Where("id = ? AND status = ?", id, models.ServiceRequestStatusOpen).
		Update("status", models.ServiceRequestStatusMatched)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *serviceRequestRepository) UpdateStatus(db *gorm.DB, id string, status models.ServiceRequestStatus) error {
	result := db.Model(&models.ServiceRequest{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrServiceRequestNotFound
	}
	return nil
}

func (r *serviceRequestRepository) PromoteUrgent(db *gorm.DB, id string, price float64, at time.Time) error {
	result := db.Model(&models.ServiceRequest{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_urgent_promoted": true,
		"urgent_price":       price,
		"urgent_promoted_at": at,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrServiceRequestNotFound
	}
	return nil
}
