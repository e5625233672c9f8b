package services

import (
	"fazservico_backend/internal/models"
	"fazservico_backend/internal/repositories"
	"fazservico_backend/internal/services/dto"
	"fazservico_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// CatalogService serves the category and region lookup tables. Writes are
// admin-only, enforced at the route level.
type CatalogService struct {
	categoryRepo repositories.CategoryRepository
	regionRepo   repositories.RegionRepository
}

func NewCatalogService(categoryRepo repositories.CategoryRepository, regionRepo repositories.RegionRepository) *CatalogService {
	return &CatalogService{categoryRepo: categoryRepo, regionRepo: regionRepo}
}

func (s *CatalogService) ListCategories(db *gorm.DB) ([]dto.CategoryResponse, error) {
	categories, err := s.categoryRepo.List(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, dto.CategoryResponse{ID: c.ID, Name: c.Name, Slug: c.Slug, Icon: c.Icon})
	}
	return out, nil
}

func (s *CatalogService) CreateCategory(db *gorm.DB, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	category := &models.Category{Name: req.Name, Slug: req.Slug, Icon: req.Icon}
	if err := s.categoryRepo.Create(db, category); err != nil {
		return nil, apperrors.ErrAlreadyExists(err)
	}
	return &dto.CategoryResponse{ID: category.ID, Name: category.Name, Slug: category.Slug, Icon: category.Icon}, nil
}

func (s *CatalogService) ListRegions(db *gorm.DB) ([]dto.RegionResponse, error) {
	regions, err := s.regionRepo.List(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]dto.RegionResponse, 0, len(regions))
	for _, r := range regions {
		out = append(out, dto.RegionResponse{ID: r.ID, Name: r.Name, State: r.State})
	}
	return out, nil
}

func (s *CatalogService) CreateRegion(db *gorm.DB, req dto.CreateRegionRequest) (*dto.RegionResponse, error) {
	region := &models.Region{Name: req.Name, State: req.State}
	if err := s.regionRepo.Create(db, region); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.RegionResponse{ID: region.ID, Name: region.Name, State: region.State}, nil
}
