package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fazservico_backend/internal/models"
	"fazservico_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubSubscriptionRepo struct {
	repositories.SubscriptionRepository

	mu     sync.Mutex
	ids    []string
	err    error
	sweeps int
}

func (s *stubSubscriptionRepo) MarkElapsedInactive(_ *gorm.DB, now time.Time) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweeps++
	if s.err != nil {
		return nil, s.err
	}
	out := s.ids
	s.ids = nil
	return out, nil
}

func (s *stubSubscriptionRepo) sweepCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweeps
}

type stubProfessionalRepo struct {
	repositories.ProfessionalRepository

	mu       sync.Mutex
	statuses map[string]models.SubscriptionStatus
}

func (s *stubProfessionalRepo) SetSubscriptionStatus(_ *gorm.DB, id string, status models.SubscriptionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.statuses == nil {
		s.statuses = map[string]models.SubscriptionStatus{}
	}
	s.statuses[id] = status
	return nil
}

func (s *stubProfessionalRepo) statusOf(id string) (models.SubscriptionStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status, ok := s.statuses[id]
	return status, ok
}

func TestSweepSyncsMirror(t *testing.T) {
	subs := &stubSubscriptionRepo{ids: []string{"prof-1", "prof-2"}}
	pros := &stubProfessionalRepo{}
	w := NewSubscriptionWorker(nil, subs, pros, time.Hour)

	w.sweep()

	for _, id := range []string{"prof-1", "prof-2"} {
		status, ok := pros.statusOf(id)
		require.True(t, ok, "mirror not updated for %s", id)
		assert.Equal(t, models.SubscriptionStatusInactive, status)
	}
}

func TestSweepNothingElapsed(t *testing.T) {
	subs := &stubSubscriptionRepo{}
	pros := &stubProfessionalRepo{}
	w := NewSubscriptionWorker(nil, subs, pros, time.Hour)

	w.sweep()

	_, ok := pros.statusOf("prof-1")
	assert.False(t, ok)
}

func TestSweepSurvivesRepositoryError(t *testing.T) {
	subs := &stubSubscriptionRepo{err: errors.New("connection refused")}
	pros := &stubProfessionalRepo{}
	w := NewSubscriptionWorker(nil, subs, pros, time.Hour)

	// Must not panic; the next tick retries.
	w.sweep()
	assert.Equal(t, 1, subs.sweepCount())
}

func TestStartSweepsImmediately(t *testing.T) {
	subs := &stubSubscriptionRepo{ids: []string{"prof-1"}}
	pros := &stubProfessionalRepo{}
	w := NewSubscriptionWorker(nil, subs, pros, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	assert.Eventually(t, func() bool {
		return subs.sweepCount() >= 1
	}, time.Second, 10*time.Millisecond)
}

func TestNewSubscriptionWorkerDefaultInterval(t *testing.T) {
	w := NewSubscriptionWorker(nil, &stubSubscriptionRepo{}, &stubProfessionalRepo{}, 0)
	assert.Equal(t, time.Hour, w.interval)
}
