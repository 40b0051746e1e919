package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Smartsoil-Media/smartsoil-api/internal/grazing"
	"github.com/Smartsoil-Media/smartsoil-api/internal/logger"
	"github.com/Smartsoil-Media/smartsoil-api/internal/models"
)

// MockPaddockRepository is a mock implementation of PaddockRepository for testing
type MockPaddockRepository struct {
	mock.Mock
}

func (m *MockPaddockRepository) Create(ctx context.Context, paddock *models.Paddock) error {
	args := m.Called(ctx, paddock)
	return args.Error(0)
}

func (m *MockPaddockRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Paddock, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Paddock), args.Error(1)
}

func (m *MockPaddockRepository) List(ctx context.Context, ownerID uuid.UUID) ([]models.Paddock, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Paddock), args.Error(1)
}

func (m *MockPaddockRepository) Update(ctx context.Context, paddock *models.Paddock) error {
	args := m.Called(ctx, paddock)
	return args.Error(0)
}

func (m *MockPaddockRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

type paddockServiceMocks struct {
	paddocks *MockPaddockRepository
	mobs     *MockMobRepository
	events   *MockGrazingEventRepository
}

func newPaddockService(t *testing.T) (PaddockService, paddockServiceMocks) {
	t.Helper()
	mocks := paddockServiceMocks{
		paddocks: new(MockPaddockRepository),
		mobs:     new(MockMobRepository),
		events:   new(MockGrazingEventRepository),
	}
	svc := NewPaddockService(mocks.paddocks, mocks.mobs, mocks.events, logger.New("test"))
	svc.(*paddockService).now = func() time.Time { return serviceTestNow }
	return svc, mocks
}

func testPolygon() models.Polygon {
	return models.Polygon{
		Coordinates: [][][2]float64{{
			{150.1, -33.8}, {150.2, -33.8}, {150.2, -33.9}, {150.1, -33.9}, {150.1, -33.8},
		}},
	}
}

func TestCreatePaddock_Success(t *testing.T) {
	svc, mocks := newPaddockService(t)
	ctx := context.Background()
	ownerID := uuid.New()

	mocks.paddocks.On("Create", ctx, mock.MatchedBy(func(p *models.Paddock) bool {
		return p.OwnerID == ownerID && p.Name == "River Flat" && p.AreaSqm == 20000
	})).Return(nil)

	paddock, err := svc.Create(ctx, ownerID, PaddockInput{
		Name:    "River Flat",
		Geom:    testPolygon(),
		AreaSqm: 20000,
		Type:    models.PaddockTypePasture,
	})

	require.NoError(t, err)
	require.NotNil(t, paddock)
	assert.Equal(t, models.PaddockTypePasture, paddock.Type)
	mocks.paddocks.AssertExpectations(t)
}

func TestCreatePaddock_NegativeArea(t *testing.T) {
	svc, mocks := newPaddockService(t)

	paddock, err := svc.Create(context.Background(), uuid.New(), PaddockInput{
		Name:    "Bad Paddock",
		Geom:    testPolygon(),
		AreaSqm: -5,
	})

	assert.Nil(t, paddock)
	assert.ErrorIs(t, err, ErrInvalidArea)
	mocks.paddocks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListPaddocks_DerivedFigures(t *testing.T) {
	svc, mocks := newPaddockService(t)
	ctx := context.Background()
	ownerID := uuid.New()

	// Two hectares holding ten head of cattle, grazed for the last three days.
	paddock := models.Paddock{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Name:    "Top Block",
		AreaSqm: 20000,
	}
	mob := models.Mob{
		ID:               uuid.New(),
		OwnerID:          ownerID,
		LivestockType:    models.LivestockCattle,
		Status:           models.MobStatusActive,
		Size:             10,
		CurrentPaddockID: &paddock.ID,
	}
	open := models.GrazingEvent{
		ID:        uuid.New(),
		MobID:     mob.ID,
		PaddockID: &paddock.ID,
		MovedInAt: serviceTestNow.Add(-72 * time.Hour),
	}

	mocks.paddocks.On("List", ctx, ownerID).Return([]models.Paddock{paddock}, nil)
	mocks.mobs.On("List", ctx, ownerID).Return([]models.Mob{mob}, nil)
	mocks.events.On("ListByOwner", ctx, ownerID).Return([]models.GrazingEvent{open}, nil)

	summaries, err := svc.List(ctx, ownerID)

	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, grazing.StatusGrazing, summaries[0].Occupancy.Status)
	assert.Equal(t, 3, summaries[0].Occupancy.Days)
	assert.Equal(t, 1, summaries[0].Occupancy.MobCount)
	assert.InDelta(t, 80.0, summaries[0].TotalDSE, 0.0001)
	assert.InDelta(t, 40.0, summaries[0].StockingRate, 0.0001)
}

func TestPaddockStatus_Resting(t *testing.T) {
	svc, mocks := newPaddockService(t)
	ctx := context.Background()
	ownerID := uuid.New()

	paddock := &models.Paddock{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Name:    "Back Block",
		AreaSqm: 50000,
	}
	movedOut := serviceTestNow.Add(-160 * time.Hour) // six and two-thirds days ago
	closed := models.GrazingEvent{
		ID:         uuid.New(),
		MobID:      uuid.New(),
		PaddockID:  &paddock.ID,
		MovedInAt:  movedOut.Add(-96 * time.Hour),
		MovedOutAt: &movedOut,
	}

	mocks.paddocks.On("GetByID", ctx, ownerID, paddock.ID).Return(paddock, nil)
	mocks.mobs.On("List", ctx, ownerID).Return([]models.Mob{}, nil)
	mocks.events.On("ListByOwner", ctx, ownerID).Return([]models.GrazingEvent{closed}, nil)

	report, err := svc.Status(ctx, ownerID, paddock.ID)

	require.NoError(t, err)
	assert.Equal(t, grazing.StatusResting, report.Occupancy.Status)
	assert.Equal(t, 6, report.Occupancy.Days)
	assert.Equal(t, 0, report.Occupancy.MobCount)
	require.NotNil(t, report.DaysSinceLastGraze)
	assert.Equal(t, 6, *report.DaysSinceLastGraze)
	assert.Zero(t, report.TotalDSE)
	assert.Zero(t, report.StockingRate)
}

func TestPaddockStatus_NeverGrazed(t *testing.T) {
	svc, mocks := newPaddockService(t)
	ctx := context.Background()
	ownerID := uuid.New()
	paddock := &models.Paddock{ID: uuid.New(), OwnerID: ownerID, AreaSqm: 10000}

	mocks.paddocks.On("GetByID", ctx, ownerID, paddock.ID).Return(paddock, nil)
	mocks.mobs.On("List", ctx, ownerID).Return([]models.Mob{}, nil)
	mocks.events.On("ListByOwner", ctx, ownerID).Return([]models.GrazingEvent{}, nil)

	report, err := svc.Status(ctx, ownerID, paddock.ID)

	require.NoError(t, err)
	assert.Equal(t, grazing.StatusNever, report.Occupancy.Status)
	assert.Nil(t, report.DaysSinceLastGraze)
}

func TestGetPaddock_NotFound(t *testing.T) {
	svc, mocks := newPaddockService(t)
	ctx := context.Background()
	ownerID, id := uuid.New(), uuid.New()

	mocks.paddocks.On("GetByID", ctx, ownerID, id).Return(nil, nil)

	paddock, err := svc.Get(ctx, ownerID, id)

	assert.Nil(t, paddock)
	assert.ErrorIs(t, err, ErrPaddockNotFound)
}

func TestDeletePaddock_NotFound(t *testing.T) {
	svc, mocks := newPaddockService(t)
	ctx := context.Background()
	ownerID, id := uuid.New(), uuid.New()

	mocks.paddocks.On("GetByID", ctx, ownerID, id).Return(nil, nil)

	err := svc.Delete(ctx, ownerID, id)

	assert.ErrorIs(t, err, ErrPaddockNotFound)
	mocks.paddocks.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
