package repositories

import (
	"errors"

	"fazservico_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrRegionNotFound   = errors.New("region not found")
)

type CategoryRepository interface {
	Create(db *gorm.DB, category *models.Category) error
	FindByID(db *gorm.DB, id string) (*models.Category, error)
	List(db *gorm.DB) ([]models.Category, error)
}

type RegionRepository interface {
	Create(db *gorm.DB, region *models.Region) error
	FindByID(db *gorm.DB, id string) (*models.Region, error)
	List(db *gorm.DB) ([]models.Region, error)
}

type categoryRepository struct{}

func NewCategoryRepository() CategoryRepository {
	return &categoryRepository{}
}

func (r *categoryRepository) Create(db *gorm.DB, category *models.Category) error {
	return db.Create(category).Error
}

func (r *categoryRepository) FindByID(db *gorm.DB, id string) (*models.Category, error) {
	var category models.Category
	err := db.First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) List(db *gorm.DB) ([]models.Category, error) {
	var categories []models.Category
	err := db.Order("name ASC").Find(&categories).Error
	return categories, err
}

type regionRepository struct{}

func NewRegionRepository() RegionRepository {
	return &regionRepository{}
}

func (r *regionRepository) Create(db *gorm.DB, region *models.Region) error {
	return db.Create(region).Error
}

func (r *regionRepository) FindByID(db *gorm.DB, id string) (*models.Region, error) {
	var region models.Region
	err := db.First(&region, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegionNotFound
		}
		return nil, err
	}
	return &region, nil
}

func (r *regionRepository) List(db *gorm.DB) ([]models.Region, error) {
	var regions []models.Region
	err := db.Order("state ASC, name ASC").Find(&regions).Error
	return regions, err
}
