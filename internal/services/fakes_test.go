package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"fazservico_backend/internal/models"
	"fazservico_backend/internal/notify"
	"fazservico_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newTestDB returns a *gorm.DB backed by sqlmock. The fake repositories
// never issue SQL; the mock only has to satisfy the transaction begin and
// commit/rollback the services wrap around them.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return db, mock
}

func expectTx(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectCommit()
}

func expectTxRollback(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectRollback()
}

// --- fake repositories -----------------------------------------------------

type fakeProfessionalRepo struct {
	mu       sync.Mutex
	profiles map[string]*models.ProfessionalProfile // by profile ID
	byUser   map[string]string                      // user ID -> profile ID
	seq      int
}

func newFakeProfessionalRepo() *fakeProfessionalRepo {
	return &fakeProfessionalRepo{
		profiles: make(map[string]*models.ProfessionalProfile),
		byUser:   make(map[string]string),
	}
}

func (r *fakeProfessionalRepo) Create(_ *gorm.DB, profile *models.ProfessionalProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if profile.ID == "" {
		r.seq++
		profile.ID = fmt.Sprintf("prof-%d", r.seq)
	}
	r.profiles[profile.ID] = profile
	r.byUser[profile.UserID] = profile.ID
	return nil
}

func (r *fakeProfessionalRepo) FindByID(_ *gorm.DB, id string) (*models.ProfessionalProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[id]
	if !ok {
		return nil, repositories.ErrProfessionalNotFound
	}
	copied := *profile
	return &copied, nil
}

func (r *fakeProfessionalRepo) FindByUserID(_ *gorm.DB, userID string) (*models.ProfessionalProfile, error) {
	r.mu.Lock()
	id, ok := r.byUser[userID]
	r.mu.Unlock()
	if !ok {
		return nil, repositories.ErrProfessionalNotFound
	}
	return r.FindByID(nil, id)
}

func (r *fakeProfessionalRepo) UpdateProfile(_ *gorm.DB, profile *models.ProfessionalProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.ID] = profile
	return nil
}

func (r *fakeProfessionalRepo) ConsumeFreeSlot(_ *gorm.DB, id string, expected int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[id]
	if !ok {
		return false, repositories.ErrProfessionalNotFound
	}
	if profile.FreeProposalsUsed != expected {
		return false, nil
	}
	profile.FreeProposalsUsed++
	return true, nil
}

func (r *fakeProfessionalRepo) SetSubscriptionStatus(_ *gorm.DB, id string, status models.SubscriptionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[id]
	if !ok {
		return repositories.ErrProfessionalNotFound
	}
	profile.SubscriptionStatus = status
	return nil
}

type fakeSubscriptionRepo struct {
	mu    sync.Mutex
	subs  map[string]*models.Subscription // by subscription ID
	plans map[string]*models.SubscriptionPlan
	seq   int
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{
		subs:  make(map[string]*models.Subscription),
		plans: make(map[string]*models.SubscriptionPlan),
	}
}

func (r *fakeSubscriptionRepo) UpsertPlan(_ *gorm.DB, plan *models.SubscriptionPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans[plan.Code] = plan
	return nil
}

func (r *fakeSubscriptionRepo) FindPlanByCode(_ *gorm.DB, code string) (*models.SubscriptionPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan, ok := r.plans[code]
	if !ok {
		return nil, repositories.ErrPlanNotFound
	}
	return plan, nil
}

func (r *fakeSubscriptionRepo) FindActivePlans(_ *gorm.DB) ([]models.SubscriptionPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.SubscriptionPlan, 0, len(r.plans))
	for _, p := range r.plans {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) Create(_ *gorm.DB, sub *models.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sub.ID == "" {
		r.seq++
		sub.ID = fmt.Sprintf("sub-%d", r.seq)
	}
	r.subs[sub.ID] = sub
	return nil
}

func (r *fakeSubscriptionRepo) FindByProfessionalID(_ *gorm.DB, professionalID string) (*models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sub := range r.subs {
		if sub.ProfessionalID == professionalID {
			copied := *sub
			return &copied, nil
		}
	}
	return nil, repositories.ErrSubscriptionNotFound
}

func (r *fakeSubscriptionRepo) FindByStripeCustomerID(_ *gorm.DB, customerID string) (*models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sub := range r.subs {
		if sub.StripeCustomerID == customerID {
			copied := *sub
			return &copied, nil
		}
	}
	return nil, repositories.ErrSubscriptionNotFound
}

func (r *fakeSubscriptionRepo) FindByStripeSubscriptionID(_ *gorm.DB, subscriptionID string) (*models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sub := range r.subs {
		if sub.StripeSubscriptionID == subscriptionID && subscriptionID != "" {
			copied := *sub
			return &copied, nil
		}
	}
	return nil, repositories.ErrSubscriptionNotFound
}

func (r *fakeSubscriptionRepo) Update(_ *gorm.DB, sub *models.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[sub.ID]; !ok {
		return repositories.ErrSubscriptionNotFound
	}
	copied := *sub
	r.subs[sub.ID] = &copied
	return nil
}

func (r *fakeSubscriptionRepo) ConsumePeriodSlot(_ *gorm.DB, id string, expected int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[id]
	if !ok {
		return false, repositories.ErrSubscriptionNotFound
	}
	if sub.ProposalsUsedInPeriod != expected {
		return false, nil
	}
	sub.ProposalsUsedInPeriod++
	return true, nil
}

func (r *fakeSubscriptionRepo) ResetPeriodUsage(_ *gorm.DB, id string, periodStart, periodEnd *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[id]
	if !ok {
		return repositories.ErrSubscriptionNotFound
	}
	sub.ProposalsUsedInPeriod = 0
	sub.CurrentPeriodStart = periodStart
	sub.CurrentPeriodEnd = periodEnd
	return nil
}

func (r *fakeSubscriptionRepo) MarkElapsedInactive(_ *gorm.DB, now time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for _, sub := range r.subs {
		if sub.Status == models.SubscriptionStatusActive &&
			sub.CurrentPeriodEnd != nil && sub.CurrentPeriodEnd.Before(now) {
			sub.Status = models.SubscriptionStatusInactive
			ids = append(ids, sub.ProfessionalID)
		}
	}
	return ids, nil
}

type fakeServiceRequestRepo struct {
	mu       sync.Mutex
	requests map[string]*models.ServiceRequest
	seq      int
}

func newFakeServiceRequestRepo() *fakeServiceRequestRepo {
	return &fakeServiceRequestRepo{requests: make(map[string]*models.ServiceRequest)}
}

func (r *fakeServiceRequestRepo) Create(_ *gorm.DB, req *models.ServiceRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req.ID == "" {
		r.seq++
		req.ID = fmt.Sprintf("req-%d", r.seq)
	}
	r.requests[req.ID] = req
	return nil
}

func (r *fakeServiceRequestRepo) FindByID(_ *gorm.DB, id string) (*models.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, repositories.ErrServiceRequestNotFound
	}
	copied := *req
	return &copied, nil
}

func (r *fakeServiceRequestRepo) ListByClient(_ *gorm.DB, clientID string) ([]models.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ServiceRequest
	for _, req := range r.requests {
		if req.ClientID == clientID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *fakeServiceRequestRepo) Search(_ *gorm.DB, criteria repositories.ServiceRequestCriteria) ([]models.ServiceRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ServiceRequest
	for _, req := range r.requests {
		if criteria.Status != "" && req.Status != criteria.Status {
			continue
		}
		if criteria.UrgentOnly && !req.IsUrgentPromoted {
			continue
		}
		out = append(out, *req)
	}
	return out, int64(len(out)), nil
}

func (r *fakeServiceRequestRepo) MarkMatched(_ *gorm.DB, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return false, nil
	}
	if req.Status != models.ServiceRequestStatusOpen {
		return false, nil
	}
	req.Status = models.ServiceRequestStatusMatched
	return true, nil
}

func (r *fakeServiceRequestRepo) UpdateStatus(_ *gorm.DB, id string, status models.ServiceRequestStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return repositories.ErrServiceRequestNotFound
	}
	req.Status = status
	return nil
}

func (r *fakeServiceRequestRepo) PromoteUrgent(_ *gorm.DB, id string, price float64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return repositories.ErrServiceRequestNotFound
	}
	req.IsUrgentPromoted = true
	req.UrgentPrice = price
	req.UrgentPromotedAt = &at
	return nil
}

type fakeProposalRepo struct {
	mu        sync.Mutex
	proposals map[string]*models.Proposal
	seq       int
}

func newFakeProposalRepo() *fakeProposalRepo {
	return &fakeProposalRepo{proposals: make(map[string]*models.Proposal)}
}

func (r *fakeProposalRepo) Create(_ *gorm.DB, proposal *models.Proposal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.proposals {
		if p.ServiceRequestID == proposal.ServiceRequestID && p.ProfessionalID == proposal.ProfessionalID {
			return fmt.Errorf("duplicate key value violates unique constraint")
		}
	}
	if proposal.ID == "" {
		r.seq++
		proposal.ID = fmt.Sprintf("prop-%d", r.seq)
	}
	r.proposals[proposal.ID] = proposal
	return nil
}

func (r *fakeProposalRepo) FindByID(_ *gorm.DB, id string) (*models.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	proposal, ok := r.proposals[id]
	if !ok {
		return nil, repositories.ErrProposalNotFound
	}
	copied := *proposal
	return &copied, nil
}

func (r *fakeProposalRepo) FindByRequestAndProfessional(_ *gorm.DB, serviceRequestID, professionalID string) (*models.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.proposals {
		if p.ServiceRequestID == serviceRequestID && p.ProfessionalID == professionalID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repositories.ErrProposalNotFound
}

func (r *fakeProposalRepo) ListByRequest(_ *gorm.DB, serviceRequestID string) ([]models.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Proposal
	for _, p := range r.proposals {
		if p.ServiceRequestID == serviceRequestID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProposalRepo) ListByProfessional(_ *gorm.DB, professionalID string) ([]models.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Proposal
	for _, p := range r.proposals {
		if p.ProfessionalID == professionalID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProposalRepo) TransitionStatus(_ *gorm.DB, id string, from, to models.ProposalStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	proposal, ok := r.proposals[id]
	if !ok {
		return false, nil
	}
	if proposal.Status != from {
		return false, nil
	}
	proposal.Status = to
	return true, nil
}

func (r *fakeProposalRepo) UpdateTerms(_ *gorm.DB, proposal *models.Proposal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.proposals[proposal.ID]
	if !ok || existing.Status != models.ProposalStatusPending {
		return repositories.ErrProposalNotFound
	}
	copied := *proposal
	r.proposals[proposal.ID] = &copied
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
	seq   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(_ *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return fmt.Errorf("duplicate key value violates unique constraint")
		}
	}
	if user.ID == "" {
		r.seq++
		user.ID = fmt.Sprintf("user-%d", r.seq)
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(_ *gorm.DB, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(_ *gorm.DB, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

type fakeUnlockRepo struct {
	mu      sync.Mutex
	unlocks []*models.ContactUnlock
	seq     int
}

func newFakeUnlockRepo() *fakeUnlockRepo {
	return &fakeUnlockRepo{}
}

func (r *fakeUnlockRepo) Create(_ *gorm.DB, unlock *models.ContactUnlock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.unlocks {
		if u.ClientID == unlock.ClientID && u.ProfessionalID == unlock.ProfessionalID {
			return fmt.Errorf("duplicate key value violates unique constraint")
		}
	}
	r.seq++
	unlock.ID = fmt.Sprintf("unlock-%d", r.seq)
	unlock.CreatedAt = time.Now()
	r.unlocks = append(r.unlocks, unlock)
	return nil
}

func (r *fakeUnlockRepo) FindByClientAndProfessional(_ *gorm.DB, clientID, professionalID string) (*models.ContactUnlock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.unlocks {
		if u.ClientID == clientID && u.ProfessionalID == professionalID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUnlockNotFound
}

func (r *fakeUnlockRepo) ListByClient(_ *gorm.DB, clientID string) ([]models.ContactUnlock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ContactUnlock
	for _, u := range r.unlocks {
		if u.ClientID == clientID {
			out = append(out, *u)
		}
	}
	return out, nil
}

// fakeNotifier records enqueued events.
type fakeNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *fakeNotifier) Enqueue(ev notify.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *fakeNotifier) Events() []notify.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notify.Event, len(n.events))
	copy(out, n.events)
	return out
}
