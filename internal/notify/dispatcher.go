// Package notify delivers user notifications out of band. Events are
// enqueued after the primary operation finished; delivery failure or a full
// queue never propagates back into the request path.
package notify

import (
	"context"
	"encoding/json"

	"fazservico_backend/internal/logger"
	"fazservico_backend/internal/metrics"
	"fazservico_backend/internal/models"
	"fazservico_backend/internal/repositories"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Event types.
const (
	TypeNewProposal      = "new_proposal"
	TypeProposalAccepted = "proposal_accepted"
	TypeProposalRejected = "proposal_rejected"
	TypeContactUnlocked  = "contact_unlocked"
)

type Event struct {
	UserID  string
	Type    string
	Title   string
	Message string
	Data    map[string]any

	// Email is filled when the event should also be mailed; empty skips email.
	Email string
}

// Notifier is what services depend on.
type Notifier interface {
	Enqueue(ev Event)
}

// Dispatcher is the channel-backed Notifier used in production. It persists
// Notification rows and sends best-effort email from a single worker
// goroutine, using the shared pool handle rather than any request transaction.
type Dispatcher struct {
	db     *gorm.DB
	repo   repositories.NotificationRepository
	mailer Mailer
	queue  chan Event
}

func NewDispatcher(db *gorm.DB, repo repositories.NotificationRepository, mailer Mailer, queueSize int) *Dispatcher {
	return &Dispatcher{
		db:     db,
		repo:   repo,
		mailer: mailer,
		queue:  make(chan Event, queueSize),
	}
}

// Start runs the delivery loop until ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Info("notification dispatcher stopped")
				return
			case ev := <-d.queue:
				d.deliver(ev)
			}
		}
	}()
}

// Enqueue never blocks: when the queue is full the event is dropped and
// counted, keeping the primary operation unaffected.
func (d *Dispatcher) Enqueue(ev Event) {
	select {
	case d.queue <- ev:
	default:
		metrics.NotificationsDroppedTotal.Inc()
		logger.Warn("notification queue full, event dropped", "type", ev.Type, "user_id", ev.UserID)
	}
}

func (d *Dispatcher) deliver(ev Event) {
	var data datatypes.JSON
	if ev.Data != nil {
		if raw, err := json.Marshal(ev.Data); err == nil {
			data = datatypes.JSON(raw)
		}
	}

	notification := &models.Notification{
		UserID:  ev.UserID,
		Type:    ev.Type,
		Title:   ev.Title,
		Message: ev.Message,
		Data:    data,
	}
	if err := d.repo.Create(d.db, notification); err != nil {
		logger.Error("failed to persist notification", "type", ev.Type, "user_id", ev.UserID, "error", err)
	}

	if ev.Email != "" && d.mailer != nil {
		if err := d.mailer.Send(ev.Email, ev.Title, ev.Message); err != nil {
			logger.Warn("failed to send notification email", "to", ev.Email, "error", err)
		}
	}
}
