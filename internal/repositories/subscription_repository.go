package repositories

import (
	"errors"
	"time"

	"fazservico_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrPlanNotFound         = errors.New("subscription plan not found")
)

type SubscriptionRepository interface {
	// plans
	UpsertPlan(db *gorm.DB, plan *models.SubscriptionPlan) error
	FindPlanByCode(db *gorm.DB, code string) (*models.SubscriptionPlan, error)
	FindActivePlans(db *gorm.DB) ([]models.SubscriptionPlan, error)

	// subscriptions
	Create(db *gorm.DB, sub *models.Subscription) error
	FindByProfessionalID(db *gorm.DB, professionalID string) (*models.Subscription, error)
	FindByStripeCustomerID(db *gorm.DB, customerID string) (*models.Subscription, error)
	FindByStripeSubscriptionID(db *gorm.DB, subscriptionID string) (*models.Subscription, error)
	Update(db *gorm.DB, sub *models.Subscription) error

	// ConsumePeriodSlot is the conditional increment of the in-period
	// counter, same protocol as ProfessionalRepository.ConsumeFreeSlot.
	ConsumePeriodSlot(db *gorm.DB, id string, expected int) (bool, error)

	// ResetPeriodUsage opens a new billing window and zeroes the counter.
	ResetPeriodUsage(db *gorm.DB, id string, periodStart, periodEnd *time.Time) error

	// MarkElapsedInactive flips active subscriptions whose period end has
	// passed to inactive. Returns the affected professional IDs so the
	// caller can sync the profile mirror.
	MarkElapsedInactive(db *gorm.DB, now time.Time) ([]string, error)
}

type subscriptionRepository struct{}

func NewSubscriptionRepository() SubscriptionRepository {
	return &subscriptionRepository{}
}

func (r *subscriptionRepository) UpsertPlan(db *gorm.DB, plan *models.SubscriptionPlan) error {
	var existing models.SubscriptionPlan
	err := db.Where("code = ?", plan.Code).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Create(plan).Error
	}
	if err != nil {
		return err
	}
	return db.Model(&existing).Updates(map[string]interface{}{
		"name":            plan.Name,
		"monthly_price":   plan.MonthlyPrice,
		"proposal_limit":  plan.ProposalLimit,
		"stripe_price_id": plan.StripePriceID,
		"is_active":       plan.IsActive,
	}).Error
}

func (r *subscriptionRepository) FindPlanByCode(db *gorm.DB, code string) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	err := db.Where("code = ?", code).First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *subscriptionRepository) FindActivePlans(db *gorm.DB) ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	err := db.Where("is_active = ?", true).Order("monthly_price ASC").Find(&plans).Error
	return plans, err
}

func (r *subscriptionRepository) Create(db *gorm.DB, sub *models.Subscription) error {
	return db.Create(sub).Error
}

func (r *subscriptionRepository) FindByProfessionalID(db *gorm.DB, professionalID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := db.Where("professional_id = ?", professionalID).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) FindByStripeCustomerID(db *gorm.DB, customerID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := db.Where("stripe_customer_id = ?", customerID).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) FindByStripeSubscriptionID(db *gorm.DB, subscriptionID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := db.Where("stripe_subscription_id = ?", subscriptionID).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) Update(db *gorm.DB, sub *models.Subscription) error {
	result := db.Model(sub).Updates(map[string]interface{}{
		"plan_code":              sub.PlanCode,
		"status":                 sub.Status,
		"monthly_price":          sub.MonthlyPrice,
		"proposal_limit":         sub.ProposalLimit,
		"current_period_start":   sub.CurrentPeriodStart,
		"current_period_end":     sub.CurrentPeriodEnd,
		"stripe_customer_id":     sub.StripeCustomerID,
		"stripe_subscription_id": sub.StripeSubscriptionID,
		"cancelled_at":           sub.CancelledAt,
		"updated_at":             time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *subscriptionRepository) ConsumePeriodSlot(db *gorm.DB, id string, expected int) (bool, error) {
	result := db.Model(&models.Subscription{}).
		Where("id = ? AND proposals_used_in_period = ?", id, expected).
		Update("proposals_used_in_period", expected+1)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *subscriptionRepository) ResetPeriodUsage(db *gorm.DB, id string, periodStart, periodEnd *time.Time) error {
	result := db.Model(&models.Subscription{}).Where("id = ?", id).Updates(map[string]interface{}{
		"proposals_used_in_period": 0,
		"current_period_start":     periodStart,
		"current_period_end":       periodEnd,
		"updated_at":               time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *subscriptionRepository) MarkElapsedInactive(db *gorm.DB, now time.Time) ([]string, error) {
	var elapsed []models.Subscription
	err := db.Where("status IN ? AND current_period_end IS NOT NULL AND current_period_end < ?",
		[]models.SubscriptionStatus{models.SubscriptionStatusActive, models.SubscriptionStatusTrialing}, now).
		Find(&elapsed).Error
	if err != nil {
		return nil, err
	}
	if len(elapsed) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(elapsed))
	professionalIDs := make([]string, 0, len(elapsed))
	for _, sub := range elapsed {
		ids = append(ids, sub.ID)
		professionalIDs = append(professionalIDs, sub.ProfessionalID)
	}

	err = db.Model(&models.Subscription{}).Where("id IN ?", ids).
		Update("status", models.SubscriptionStatusInactive).Error
	if err != nil {
		return nil, err
	}
	return professionalIDs, nil
}
