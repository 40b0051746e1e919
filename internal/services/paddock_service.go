package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/Smartsoil-Media/smartsoil-api/internal/grazing"
	"github.com/Smartsoil-Media/smartsoil-api/internal/logger"
	"github.com/Smartsoil-Media/smartsoil-api/internal/models"
	"github.com/Smartsoil-Media/smartsoil-api/internal/repository"
)

// Service-level errors shared across the paddock and mob services.
var (
	ErrPaddockNotFound = errors.New("paddock not found")
	ErrInvalidArea     = errors.New("paddock area must not be negative")
)

// PaddockInput carries the fields of a paddock create or update request.
type PaddockInput struct {
	Name    string
	Geom    models.Polygon
	AreaSqm float64
	Type    string
	Color   string
}

// PaddockSummary is a paddock together with its derived grazing figures,
// as shown on the map and in list views.
type PaddockSummary struct {
	Paddock      models.Paddock    `json:"paddock"`
	Occupancy    grazing.Occupancy `json:"occupancy"`
	TotalDSE     float64           `json:"totalDse"`
	StockingRate float64           `json:"stockingRate"`
}

// PaddockStatusReport is the full derived state for a single paddock.
type PaddockStatusReport struct {
	Occupancy          grazing.Occupancy `json:"occupancy"`
	DaysSinceLastGraze *int              `json:"daysSinceLastGrazed"`
	TotalDSE           float64           `json:"totalDse"`
	StockingRate       float64           `json:"stockingRate"`
}

// PaddockService defines the interface for paddock business logic operations.
type PaddockService interface {
	// Create validates and stores a new paddock.
	Create(ctx context.Context, ownerID uuid.UUID, input PaddockInput) (*models.Paddock, error)

	// Get returns a single paddock. Returns ErrPaddockNotFound when absent.
	Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Paddock, error)

	// List returns the owner's paddocks with their derived grazing figures.
	List(ctx context.Context, ownerID uuid.UUID) ([]PaddockSummary, error)

	// Update rewrites a paddock's fields (boundary edits included).
	Update(ctx context.Context, ownerID, id uuid.UUID, input PaddockInput) (*models.Paddock, error)

	// Delete removes a paddock. Historical grazing events and task links
	// survive with dangling references.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// Status derives the paddock's occupancy, rest period and stocking
	// figures from snapshots of the mob list and grazing-event log.
	Status(ctx context.Context, ownerID, id uuid.UUID) (*PaddockStatusReport, error)
}

type paddockService struct {
	paddocks repository.PaddockRepository
	mobs     repository.MobRepository
	events   repository.GrazingEventRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewPaddockService creates a new instance of PaddockService.
func NewPaddockService(
	paddocks repository.PaddockRepository,
	mobs repository.MobRepository,
	events repository.GrazingEventRepository,
	log *logger.Logger,
) PaddockService {
	return &paddockService{
		paddocks: paddocks,
		mobs:     mobs,
		events:   events,
		log:      log,
		now:      time.Now,
	}
}

func (s *paddockService) Create(ctx context.Context, ownerID uuid.UUID, input PaddockInput) (*models.Paddock, error) {
	if input.AreaSqm < 0 {
		return nil, fmt.Errorf("%w: got %f", ErrInvalidArea, input.AreaSqm)
	}

	paddock := &models.Paddock{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Name:    input.Name,
		Geom:    input.Geom,
		AreaSqm: input.AreaSqm,
		Type:    input.Type,
		Color:   input.Color,
	}
	if paddock.Type == "" {
		paddock.Type = models.PaddockTypePasture
	}

	if err := s.paddocks.Create(ctx, paddock); err != nil {
		s.log.Error("Failed to create paddock", err, map[string]interface{}{
			"owner_id": ownerID,
			"name":     input.Name,
		})
		return nil, fmt.Errorf("failed to create paddock: %w", err)
	}

	s.log.Info("Paddock created", map[string]interface{}{
		"owner_id":   ownerID,
		"paddock_id": paddock.ID,
		"area_sqm":   paddock.AreaSqm,
	})
	return paddock, nil
}

func (s *paddockService) Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Paddock, error) {
	paddock, err := s.paddocks.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query paddock: %w", err)
	}
	if paddock == nil {
		return nil, ErrPaddockNotFound
	}
	return paddock, nil
}

func (s *paddockService) List(ctx context.Context, ownerID uuid.UUID) ([]PaddockSummary, error) {
	paddocks, err := s.paddocks.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list paddocks: %w", err)
	}

	mobs, err := s.mobs.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mobs: %w", err)
	}
	events, err := s.events.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grazing events: %w", err)
	}

	now := s.now()
	summaries := make([]PaddockSummary, 0, len(paddocks))
	for i := range paddocks {
		p := paddocks[i]
		summaries = append(summaries, PaddockSummary{
			Paddock:      p,
			Occupancy:    grazing.PaddockStatus(p.ID, mobs, events, now),
			TotalDSE:     grazing.PaddockDSE(p.ID, mobs),
			StockingRate: grazing.StockingRate(p.ID, p.AreaSqm, mobs),
		})
	}
	return summaries, nil
}

func (s *paddockService) Update(ctx context.Context, ownerID, id uuid.UUID, input PaddockInput) (*models.Paddock, error) {
	if input.AreaSqm < 0 {
		return nil, fmt.Errorf("%w: got %f", ErrInvalidArea, input.AreaSqm)
	}

	paddock, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	paddock.Name = input.Name
	paddock.Geom = input.Geom
	paddock.AreaSqm = input.AreaSqm
	paddock.Color = input.Color
	if input.Type != "" {
		paddock.Type = input.Type
	}

	if err := s.paddocks.Update(ctx, paddock); err != nil {
		s.log.Error("Failed to update paddock", err, map[string]interface{}{
			"owner_id":   ownerID,
			"paddock_id": id,
		})
		return nil, fmt.Errorf("failed to update paddock: %w", err)
	}
	return paddock, nil
}

func (s *paddockService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	paddock, err := s.paddocks.GetByID(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to query paddock: %w", err)
	}
	if paddock == nil {
		return ErrPaddockNotFound
	}

	if err := s.paddocks.Delete(ctx, ownerID, id); err != nil {
		s.log.Error("Failed to delete paddock", err, map[string]interface{}{
			"owner_id":   ownerID,
			"paddock_id": id,
		})
		return fmt.Errorf("failed to delete paddock: %w", err)
	}

	s.log.Info("Paddock deleted", map[string]interface{}{
		"owner_id":   ownerID,
		"paddock_id": id,
	})
	return nil
}

func (s *paddockService) Status(ctx context.Context, ownerID, id uuid.UUID) (*PaddockStatusReport, error) {
	paddock, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	mobs, err := s.mobs.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mobs: %w", err)
	}
	events, err := s.events.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grazing events: %w", err)
	}

	now := s.now()
	return &PaddockStatusReport{
		Occupancy:          grazing.PaddockStatus(id, mobs, events, now),
		DaysSinceLastGraze: grazing.DaysSinceLastGrazed(id, events, now),
		TotalDSE:           grazing.PaddockDSE(id, mobs),
		StockingRate:       grazing.StockingRate(id, paddock.AreaSqm, mobs),
	}, nil
}
