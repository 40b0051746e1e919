package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Smartsoil-Media/smartsoil-api/internal/logger"
	"github.com/Smartsoil-Media/smartsoil-api/internal/models"
)

// MockMobRepository is a mock implementation of repository.MobRepository for testing
type MockMobRepository struct {
	mock.Mock
}

func (m *MockMobRepository) Create(ctx context.Context, mob *models.Mob) error {
	args := m.Called(ctx, mob)
	return args.Error(0)
}

func (m *MockMobRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Mob, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mob), args.Error(1)
}

func (m *MockMobRepository) List(ctx context.Context, ownerID uuid.UUID) ([]models.Mob, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Mob), args.Error(1)
}

func (m *MockMobRepository) ListActive(ctx context.Context) ([]models.Mob, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Mob), args.Error(1)
}

func (m *MockMobRepository) Update(ctx context.Context, mob *models.Mob) error {
	args := m.Called(ctx, mob)
	return args.Error(0)
}

func (m *MockMobRepository) SetStatus(ctx context.Context, ownerID, id uuid.UUID, status string) error {
	args := m.Called(ctx, ownerID, id, status)
	return args.Error(0)
}

func (m *MockMobRepository) SetSize(ctx context.Context, id uuid.UUID, size int) error {
	args := m.Called(ctx, id, size)
	return args.Error(0)
}

func (m *MockMobRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockMobRepository) Move(ctx context.Context, ownerID, mobID uuid.UUID, newPaddockID *uuid.UUID, at time.Time) error {
	args := m.Called(ctx, ownerID, mobID, newPaddockID, at)
	return args.Error(0)
}

// MockMobEventRepository is a mock implementation of repository.MobEventRepository for testing
type MockMobEventRepository struct {
	mock.Mock
}

func (m *MockMobEventRepository) Insert(ctx context.Context, event *models.MobEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockMobEventRepository) ListByMob(ctx context.Context, ownerID, mobID uuid.UUID) ([]models.MobEvent, error) {
	args := m.Called(ctx, ownerID, mobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MobEvent), args.Error(1)
}

func (m *MockMobEventRepository) ListByMobID(ctx context.Context, mobID uuid.UUID) ([]models.MobEvent, error) {
	args := m.Called(ctx, mobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MobEvent), args.Error(1)
}

func TestExpectedSize(t *testing.T) {
	events := []models.MobEvent{
		{EventType: models.MobEventBirth, Quantity: 5},
		{EventType: models.MobEventPurchase, Quantity: 20},
		{EventType: models.MobEventSale, Quantity: 8},
		{EventType: models.MobEventDeath, Quantity: 2},
		{EventType: models.MobEventTreatment, Quantity: 50},
	}

	assert.Equal(t, 115, expectedSize(100, events))
	assert.Equal(t, 15, expectedSize(0, events))
	assert.Equal(t, 0, expectedSize(0, []models.MobEvent{
		{EventType: models.MobEventSale, Quantity: 10},
	}), "Replay must clamp at zero")
	assert.Equal(t, 30, expectedSize(30, nil))
}

func TestReconcileSizes_RepairsDrift(t *testing.T) {
	mobs := new(MockMobRepository)
	mobEvents := new(MockMobEventRepository)
	s := New("30 2 * * *", mobs, mobEvents, logger.New("test"))

	healthy := models.Mob{ID: uuid.New(), Status: models.MobStatusActive, Size: 105, InitialSize: 100}
	drifted := models.Mob{ID: uuid.New(), Status: models.MobStatusActive, Size: 90, InitialSize: 100}
	birth := []models.MobEvent{{EventType: models.MobEventBirth, Quantity: 5}}

	mobs.On("ListActive", mock.Anything).Return([]models.Mob{healthy, drifted}, nil)
	mobEvents.On("ListByMobID", mock.Anything, healthy.ID).Return(birth, nil)
	mobEvents.On("ListByMobID", mock.Anything, drifted.ID).Return(birth, nil)
	mobs.On("SetSize", mock.Anything, drifted.ID, 105).Return(nil)

	s.reconcileSizes()

	mobs.AssertExpectations(t)
	mobEvents.AssertExpectations(t)
	mobs.AssertNumberOfCalls(t, "SetSize", 1)
}

// A mob whose starting head count was recorded as a purchase event carries
// initial_size 0; replaying the log must yield the real head count, not
// double it.
func TestReconcileSizes_PurchasedMobNotDoubled(t *testing.T) {
	mobs := new(MockMobRepository)
	mobEvents := new(MockMobEventRepository)
	s := New("30 2 * * *", mobs, mobEvents, logger.New("test"))

	purchased := models.Mob{ID: uuid.New(), Status: models.MobStatusActive, Size: 40, InitialSize: 0}
	purchase := []models.MobEvent{{EventType: models.MobEventPurchase, Quantity: 40}}

	mobs.On("ListActive", mock.Anything).Return([]models.Mob{purchased}, nil)
	mobEvents.On("ListByMobID", mock.Anything, purchased.ID).Return(purchase, nil)

	s.reconcileSizes()

	mobs.AssertExpectations(t)
	mobs.AssertNotCalled(t, "SetSize", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcileSizes_ContinuesPastFailures(t *testing.T) {
	mobs := new(MockMobRepository)
	mobEvents := new(MockMobEventRepository)
	s := New("30 2 * * *", mobs, mobEvents, logger.New("test"))

	broken := models.Mob{ID: uuid.New(), Status: models.MobStatusActive, Size: 10, InitialSize: 10}
	drifted := models.Mob{ID: uuid.New(), Status: models.MobStatusActive, Size: 7, InitialSize: 10}

	mobs.On("ListActive", mock.Anything).Return([]models.Mob{broken, drifted}, nil)
	mobEvents.On("ListByMobID", mock.Anything, broken.ID).Return(nil, assert.AnError)
	mobEvents.On("ListByMobID", mock.Anything, drifted.ID).Return([]models.MobEvent{}, nil)
	mobs.On("SetSize", mock.Anything, drifted.ID, 10).Return(nil)

	s.reconcileSizes()

	mobs.AssertExpectations(t)
	mobEvents.AssertExpectations(t)
}
