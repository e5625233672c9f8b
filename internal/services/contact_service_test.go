package services

import (
	"testing"
	"time"

	"fazservico_backend/internal/models"
	"fazservico_backend/internal/notify"
	"fazservico_backend/internal/services/dto"
	"fazservico_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contactFixture struct {
	svc              *ContactService
	userRepo         *fakeUserRepo
	professionalRepo *fakeProfessionalRepo
	requestRepo      *fakeServiceRequestRepo
	proposalRepo     *fakeProposalRepo
	unlockRepo       *fakeUnlockRepo
	subscriptionRepo *fakeSubscriptionRepo
	notifier         *fakeNotifier

	client       *models.User
	professional *models.User
	profile      *models.ProfessionalProfile
	request      *models.ServiceRequest
}

func newContactFixture(t *testing.T) *contactFixture {
	t.Helper()

	f := &contactFixture{
		userRepo:         newFakeUserRepo(),
		professionalRepo: newFakeProfessionalRepo(),
		requestRepo:      newFakeServiceRequestRepo(),
		proposalRepo:     newFakeProposalRepo(),
		unlockRepo:       newFakeUnlockRepo(),
		subscriptionRepo: newFakeSubscriptionRepo(),
		notifier:         &fakeNotifier{},
	}

	quotaService := NewQuotaService(f.professionalRepo, f.subscriptionRepo, 3)
	f.svc = NewContactService(
		f.userRepo, f.professionalRepo, f.requestRepo, f.proposalRepo,
		f.unlockRepo, quotaService, f.notifier, 9.90,
	)

	f.client = &models.User{Email: "client@test.com", Role: models.UserRoleClient, Name: "Client", Phone: "11 9999-0001"}
	require.NoError(t, f.userRepo.Create(nil, f.client))

	f.professional = &models.User{Email: "pro@test.com", Role: models.UserRoleProfessional, Name: "Pro", Whatsapp: "11 9999-0002"}
	require.NoError(t, f.userRepo.Create(nil, f.professional))

	f.profile = &models.ProfessionalProfile{UserID: f.professional.ID, User: f.professional}
	require.NoError(t, f.professionalRepo.Create(nil, f.profile))

	f.request = &models.ServiceRequest{
		ClientID: f.client.ID,
		Title:    "Paint the living room",
		Status:   models.ServiceRequestStatusOpen,
	}
	require.NoError(t, f.requestRepo.Create(nil, f.request))
	return f
}

func (f *contactFixture) addAcceptedProposal(t *testing.T) {
	t.Helper()
	require.NoError(t, f.proposalRepo.Create(nil, &models.Proposal{
		ServiceRequestID: f.request.ID,
		ProfessionalID:   f.profile.ID,
		Status:           models.ProposalStatusAccepted,
	}))
	require.NoError(t, f.requestRepo.UpdateStatus(nil, f.request.ID, models.ServiceRequestStatusMatched))
}

func (f *contactFixture) addActiveSubscription(t *testing.T) {
	t.Helper()
	end := time.Now().Add(20 * 24 * time.Hour)
	require.NoError(t, f.subscriptionRepo.Create(nil, &models.Subscription{
		ProfessionalID:   f.profile.ID,
		PlanCode:         "pro_50",
		Status:           models.SubscriptionStatusActive,
		ProposalLimit:    50,
		CurrentPeriodEnd: &end,
	}))
}

func TestGetContact_ForbiddenWithoutGrant(t *testing.T) {
	f := newContactFixture(t)

	// No accepted proposal, no subscription: both directions are refused.
	_, err := f.svc.GetContact(nil, f.client.ID, models.UserRoleClient, dto.GetContactRequest{
		UserID:           f.professional.ID,
		ServiceRequestID: f.request.ID,
	})
	assert.ErrorIs(t, err, apperrors.ErrContactForbidden)

	_, err = f.svc.GetContact(nil, f.professional.ID, models.UserRoleProfessional, dto.GetContactRequest{
		UserID:           f.client.ID,
		ServiceRequestID: f.request.ID,
	})
	assert.ErrorIs(t, err, apperrors.ErrContactForbidden)
}

func TestGetContact_AcceptedProposalGrantsBothDirections(t *testing.T) {
	f := newContactFixture(t)
	f.addAcceptedProposal(t)

	contact, err := f.svc.GetContact(nil, f.client.ID, models.UserRoleClient, dto.GetContactRequest{
		UserID:           f.professional.ID,
		ServiceRequestID: f.request.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, f.professional.Email, contact.Email)
	assert.Equal(t, f.professional.Whatsapp, contact.Whatsapp)

	contact, err = f.svc.GetContact(nil, f.professional.ID, models.UserRoleProfessional, dto.GetContactRequest{
		UserID:           f.client.ID,
		ServiceRequestID: f.request.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, f.client.Email, contact.Email)
	assert.Equal(t, f.client.Phone, contact.Phone)
}

func TestGetContact_ActiveSubscriptionGrants(t *testing.T) {
	f := newContactFixture(t)
	f.addActiveSubscription(t)

	contact, err := f.svc.GetContact(nil, f.client.ID, models.UserRoleClient, dto.GetContactRequest{
		UserID:           f.professional.ID,
		ServiceRequestID: f.request.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, f.professional.Email, contact.Email)
}

func TestGetContact_ClientMustOwnRequest(t *testing.T) {
	f := newContactFixture(t)
	f.addAcceptedProposal(t)

	stranger := &models.User{Email: "other@test.com", Role: models.UserRoleClient, Name: "Other"}
	require.NoError(t, f.userRepo.Create(nil, stranger))

	_, err := f.svc.GetContact(nil, stranger.ID, models.UserRoleClient, dto.GetContactRequest{
		UserID:           f.professional.ID,
		ServiceRequestID: f.request.ID,
	})
	assert.ErrorIs(t, err, apperrors.ErrNotRequestOwner)
}

func TestGetContact_AdminRoleRefused(t *testing.T) {
	f := newContactFixture(t)

	_, err := f.svc.GetContact(nil, "admin-1", models.UserRoleAdmin, dto.GetContactRequest{
		UserID: f.professional.ID,
	})
	assert.ErrorIs(t, err, apperrors.ErrContactRoleNotAllowed)
}

func TestCanAccessContact_RequiresMatchedRequest(t *testing.T) {
	f := newContactFixture(t)

	// Accepted proposal but the request is still open: no grant without a
	// subscription.
	require.NoError(t, f.proposalRepo.Create(nil, &models.Proposal{
		ServiceRequestID: f.request.ID,
		ProfessionalID:   f.profile.ID,
		Status:           models.ProposalStatusAccepted,
	}))

	granted, err := f.svc.CanAccessContact(nil, f.profile.ID, f.request.ID)
	require.NoError(t, err)
	assert.False(t, granted)

	require.NoError(t, f.requestRepo.UpdateStatus(nil, f.request.ID, models.ServiceRequestStatusMatched))
	granted, err = f.svc.CanAccessContact(nil, f.profile.ID, f.request.ID)
	require.NoError(t, err)
	assert.True(t, granted)
}

func TestUnlockProfessionalContact(t *testing.T) {
	f := newContactFixture(t)

	resp, err := f.svc.UnlockProfessionalContact(nil, f.client.ID, dto.UnlockContactRequest{
		ProfessionalID: f.profile.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 9.90, resp.Price)
	assert.Equal(t, f.client.ID, resp.ClientID)

	// The paid unlock now grants contact access with no request context.
	contact, err := f.svc.GetContact(nil, f.client.ID, models.UserRoleClient, dto.GetContactRequest{
		UserID: f.professional.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, f.professional.Email, contact.Email)

	// The professional learns about the unlock.
	events := f.notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, notify.TypeContactUnlocked, events[0].Type)
	assert.Equal(t, f.professional.ID, events[0].UserID)
}

func TestUnlockProfessionalContact_Idempotency(t *testing.T) {
	f := newContactFixture(t)

	_, err := f.svc.UnlockProfessionalContact(nil, f.client.ID, dto.UnlockContactRequest{
		ProfessionalID: f.profile.ID,
	})
	require.NoError(t, err)

	// A second unlock for the same pair must not charge again.
	_, err = f.svc.UnlockProfessionalContact(nil, f.client.ID, dto.UnlockContactRequest{
		ProfessionalID: f.profile.ID,
	})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyUnlocked)

	unlocks, err := f.unlockRepo.ListByClient(nil, f.client.ID)
	require.NoError(t, err)
	assert.Len(t, unlocks, 1)
}
