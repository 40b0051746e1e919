package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Smartsoil-Media/smartsoil-api/internal/logger"
	"github.com/Smartsoil-Media/smartsoil-api/internal/models"
)

// MockInvitationRepository is a mock implementation of InvitationRepository for testing
type MockInvitationRepository struct {
	mock.Mock
}

func (m *MockInvitationRepository) Create(ctx context.Context, inv *models.Invitation) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvitationRepository) List(ctx context.Context, ownerID uuid.UUID) ([]models.Invitation, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) GetByToken(ctx context.Context, token string) (*models.Invitation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// recordingMailer captures invitation emails for assertions.
type recordingMailer struct {
	mu    sync.Mutex
	sent  []string
	calls chan struct{}
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{calls: make(chan struct{}, 8)}
}

func (r *recordingMailer) SendInvitation(ctx context.Context, to, role, token string) error {
	r.mu.Lock()
	r.sent = append(r.sent, to+"|"+role+"|"+token)
	r.mu.Unlock()
	r.calls <- struct{}{}
	return nil
}

func (r *recordingMailer) waitForSend(t *testing.T) string {
	t.Helper()
	select {
	case <-r.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for invitation email")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sent[len(r.sent)-1]
}

func TestInvite_CreatesAndSends(t *testing.T) {
	mockRepo := new(MockInvitationRepository)
	mail := newRecordingMailer()
	svc := NewInvitationService(mockRepo, mail, logger.New("test"))

	ctx := context.Background()
	ownerID := uuid.New()

	mockRepo.On("Create", ctx, mock.MatchedBy(func(inv *models.Invitation) bool {
		return inv.OwnerID == ownerID &&
			inv.Email == "worker@example.com" &&
			inv.Status == models.InvitationPending &&
			len(inv.Token) == 32
	})).Return(nil)

	inv, err := svc.Invite(ctx, ownerID, "worker@example.com", "worker")

	require.NoError(t, err)
	require.NotNil(t, inv)
	assert.Equal(t, models.InvitationPending, inv.Status)

	sent := mail.waitForSend(t)
	assert.Contains(t, sent, "worker@example.com|worker|")
	assert.Contains(t, sent, inv.Token)
	mockRepo.AssertExpectations(t)
}

func TestRevoke_PendingOnly(t *testing.T) {
	mockRepo := new(MockInvitationRepository)
	svc := NewInvitationService(mockRepo, newRecordingMailer(), logger.New("test"))

	ctx := context.Background()
	ownerID := uuid.New()
	accepted := models.Invitation{ID: uuid.New(), OwnerID: ownerID, Status: models.InvitationAccepted}

	mockRepo.On("List", ctx, ownerID).Return([]models.Invitation{accepted}, nil)

	err := svc.Revoke(ctx, ownerID, accepted.ID)

	assert.ErrorIs(t, err, ErrInvitationClosed)
	mockRepo.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestRevoke_NotFound(t *testing.T) {
	mockRepo := new(MockInvitationRepository)
	svc := NewInvitationService(mockRepo, newRecordingMailer(), logger.New("test"))

	ctx := context.Background()
	ownerID := uuid.New()

	mockRepo.On("List", ctx, ownerID).Return([]models.Invitation{}, nil)

	err := svc.Revoke(ctx, ownerID, uuid.New())

	assert.ErrorIs(t, err, ErrInvitationNotFound)
}

func TestAccept_RedeemsToken(t *testing.T) {
	mockRepo := new(MockInvitationRepository)
	svc := NewInvitationService(mockRepo, newRecordingMailer(), logger.New("test"))

	ctx := context.Background()
	pending := &models.Invitation{
		ID:     uuid.New(),
		Email:  "worker@example.com",
		Status: models.InvitationPending,
		Token:  "0123456789abcdef0123456789abcdef",
	}

	mockRepo.On("GetByToken", ctx, pending.Token).Return(pending, nil)
	mockRepo.On("SetStatus", ctx, pending.ID, models.InvitationAccepted).Return(nil)

	inv, err := svc.Accept(ctx, pending.Token)

	require.NoError(t, err)
	assert.Equal(t, models.InvitationAccepted, inv.Status)
	mockRepo.AssertExpectations(t)
}

func TestAccept_UnknownToken(t *testing.T) {
	mockRepo := new(MockInvitationRepository)
	svc := NewInvitationService(mockRepo, newRecordingMailer(), logger.New("test"))

	ctx := context.Background()
	mockRepo.On("GetByToken", ctx, "missing").Return(nil, nil)

	inv, err := svc.Accept(ctx, "missing")

	assert.Nil(t, inv)
	assert.ErrorIs(t, err, ErrInvitationNotFound)
}

func TestAccept_ClosedInvitation(t *testing.T) {
	mockRepo := new(MockInvitationRepository)
	svc := NewInvitationService(mockRepo, newRecordingMailer(), logger.New("test"))

	ctx := context.Background()
	revoked := &models.Invitation{ID: uuid.New(), Status: models.InvitationRevoked, Token: "tok"}

	mockRepo.On("GetByToken", ctx, "tok").Return(revoked, nil)

	inv, err := svc.Accept(ctx, "tok")

	assert.Nil(t, inv)
	assert.ErrorIs(t, err, ErrInvitationClosed)
	mockRepo.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything)
}
