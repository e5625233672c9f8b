// Package workers hosts the background loops that run beside the HTTP
// server.
package workers

import (
	"context"
	"time"

	"fazservico_backend/internal/logger"
	"fazservico_backend/internal/models"
	"fazservico_backend/internal/repositories"

	"gorm.io/gorm"
)

// SubscriptionWorker periodically flips subscriptions whose billing period
// elapsed without renewal to inactive and syncs the profile mirror. It is a
// safety net behind the webhook: a missed cancellation event degrades to a
// delay of at most one sweep interval.
type SubscriptionWorker struct {
	db               *gorm.DB
	subscriptionRepo repositories.SubscriptionRepository
	professionalRepo repositories.ProfessionalRepository
	interval         time.Duration
}

func NewSubscriptionWorker(
	db *gorm.DB,
	subscriptionRepo repositories.SubscriptionRepository,
	professionalRepo repositories.ProfessionalRepository,
	interval time.Duration,
) *SubscriptionWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SubscriptionWorker{
		db:               db,
		subscriptionRepo: subscriptionRepo,
		professionalRepo: professionalRepo,
		interval:         interval,
	}
}

// Start runs the sweep loop until ctx is cancelled.
func (w *SubscriptionWorker) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		w.sweep()
		for {
			select {
			case <-ctx.Done():
				logger.Info("subscription worker stopped")
				return
			case <-ticker.C:
				w.sweep()
			}
		}
	}()
}

func (w *SubscriptionWorker) sweep() {
	professionalIDs, err := w.subscriptionRepo.MarkElapsedInactive(w.db, time.Now())
	if err != nil {
		logger.Error("subscription sweep failed", "error", err)
		return
	}
	if len(professionalIDs) == 0 {
		return
	}

	for _, id := range professionalIDs {
		if err := w.professionalRepo.SetSubscriptionStatus(w.db, id, models.SubscriptionStatusInactive); err != nil {
			logger.Error("failed to sync subscription status mirror", "professional_id", id, "error", err)
		}
	}
	logger.Info("expired subscriptions deactivated", "count", len(professionalIDs))
}
