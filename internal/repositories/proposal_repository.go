package repositories

import (
	"errors"

	"fazservico_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrProposalNotFound = errors.New("proposal not found")
)

type ProposalRepository interface {
	Create(db *gorm.DB, proposal *models.Proposal) error
	FindByID(db *gorm.DB, id string) (*models.Proposal, error)
	FindByRequestAndProfessional(db *gorm.DB, serviceRequestID, professionalID string) (*models.Proposal, error)
	ListByRequest(db *gorm.DB, serviceRequestID string) ([]models.Proposal, error)
	ListByProfessional(db *gorm.DB, professionalID string) ([]models.Proposal, error)

	// TransitionStatus flips from -> to conditionally, so two concurrent
	// decisions on the same proposal cannot both succeed.
	TransitionStatus(db *gorm.DB, id string, from, to models.ProposalStatus) (bool, error)

	UpdateTerms(db *gorm.DB, proposal *models.Proposal) error
}

type proposalRepository struct{}

func NewProposalRepository() ProposalRepository {
	return &proposalRepository{}
}

func (r *proposalRepository) Create(db *gorm.DB, proposal *models.Proposal) error {
	return db.Create(proposal).Error
}

func (r *proposalRepository) FindByID(db *gorm.DB, id string) (*models.Proposal, error) {
	var proposal models.Proposal
	err := db.First(&proposal, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}
	return &proposal, nil
}

func (r *proposalRepository) FindByRequestAndProfessional(db *gorm.DB, serviceRequestID, professionalID string) (*models.Proposal, error) {
	var proposal models.Proposal
	err := db.Where("service_request_id = ? AND professional_id = ?", serviceRequestID, professionalID).
		First(&proposal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}
	return &proposal, nil
}

func (r *proposalRepository) ListByRequest(db *gorm.DB, serviceRequestID string) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := db.Preload("Professional").Preload("Professional.User").
		Where("service_request_id = ?", serviceRequestID).
		Order("created_at ASC").
		Find(&proposals).Error
	return proposals, err
}

func (r *proposalRepository) ListByProfessional(db *gorm.DB, professionalID string) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := db.Preload("ServiceRequest").
		Where("professional_id = ?", professionalID).
		Order("created_at DESC").
		Find(&proposals).Error
	return proposals, err
}

func (r *proposalRepository) TransitionStatus(db *gorm.DB, id string, from, to models.ProposalStatus) (bool, error) {
	result := db.Model(&models.Proposal{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *proposalRepository) UpdateTerms(db *gorm.DB, proposal *models.Proposal) error {
	result := db.Model(proposal).
		Where("status = ?", models.ProposalStatusPending).
		Updates(map[string]interface{}{
			"value":          proposal.Value,
			"description":    proposal.Description,
			"estimated_days": proposal.EstimatedDays,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProposalNotFound
	}
	return nil
}
