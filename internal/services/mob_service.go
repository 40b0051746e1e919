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

// Service-level errors for mob operations.
var (
	ErrMobNotFound      = errors.New("mob not found")
	ErrInvalidQuantity  = errors.New("quantity exceeds current mob size")
	ErrInvalidEventType = errors.New("unknown mob event type")
	ErrInvalidSize      = errors.New("mob size must not be negative")
)

var mobEventTypes = map[string]bool{
	models.MobEventBirth:       true,
	models.MobEventSale:        true,
	models.MobEventDeath:       true,
	models.MobEventPurchase:    true,
	models.MobEventTreatment:   true,
	models.MobEventObservation: true,
	models.MobEventMovement:    true,
}

// CreateMobInput carries the mob creation form.
type CreateMobInput struct {
	Name               string
	LivestockType      string
	Size               int
	PaddockID          *uuid.UUID
	BirthDate          *time.Time
	PurchaseDate       *time.Time
	AgeAtPurchaseYears *float64
	// RecordPurchase appends an implicit purchase event for the starting
	// head count, so bought-in mobs enter the audit log from day one.
	RecordPurchase bool
	PricePerHead   *float64
}

// UpdateMobInput carries the editable mob fields. Size is deliberately
// absent: the head count changes only through mob events.
type UpdateMobInput struct {
	Name               string
	LivestockType      string
	BirthDate          *time.Time
	PurchaseDate       *time.Time
	AgeAtPurchaseYears *float64
}

// RecordEventInput carries a mob-event form.
type RecordEventInput struct {
	EventType    string
	Quantity     int
	EventDate    time.Time
	PricePerHead *float64
	TotalPrice   *float64
	BuyerName    *string
	LossReason   *string
	Notes        *string
}

// MoveResult reports a completed paddock transition. DaysInPrevious is
// captured from the open grazing event before it is closed, because that
// duration is unrecoverable afterwards; it feeds the move-confirmation
// message.
type MoveResult struct {
	Mob            *models.Mob `json:"mob"`
	DaysInPrevious *int        `json:"daysInPrevious"`
}

// MobAnalytics bundles the population reconstruction with display figures.
type MobAnalytics struct {
	Population    grazing.PopulationSummary `json:"population"`
	Age           string                    `json:"age"`
	DSE           float64                   `json:"dse"`
	DaysInPaddock *int                      `json:"daysInPaddock"`
}

// MobService defines the interface for mob business logic operations.
type MobService interface {
	// Create stores a new mob, optionally placing it in a paddock and
	// recording an implicit purchase event.
	Create(ctx context.Context, ownerID uuid.UUID, input CreateMobInput) (*models.Mob, error)

	// Get returns a single mob. Returns ErrMobNotFound when absent.
	Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Mob, error)

	// List returns every mob belonging to the owner.
	List(ctx context.Context, ownerID uuid.UUID) ([]models.Mob, error)

	// Update rewrites a mob's descriptive fields.
	Update(ctx context.Context, ownerID, id uuid.UUID, input UpdateMobInput) (*models.Mob, error)

	// Archive soft-deletes a mob: data is retained, the mob drops out of
	// occupancy counts.
	Archive(ctx context.Context, ownerID, id uuid.UUID) error

	// Unarchive restores an archived mob to active status.
	Unarchive(ctx context.Context, ownerID, id uuid.UUID) error

	// Delete hard-deletes a mob and all dependent event records.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// Move transitions the mob between paddocks (nil means "off paddock").
	// The close-old/open-new/update-pointer sequence is applied atomically
	// so at most one grazing event per mob is ever open.
	Move(ctx context.Context, ownerID, mobID uuid.UUID, newPaddockID *uuid.UUID) (*MoveResult, error)

	// RecordEvent appends to the mob's audit log and adjusts the cached
	// size. A sale or death larger than the current size is rejected with
	// ErrInvalidQuantity before anything is written.
	RecordEvent(ctx context.Context, ownerID, mobID uuid.UUID, input RecordEventInput) (*models.MobEvent, error)

	// ListEvents returns the mob's audit log, oldest first.
	ListEvents(ctx context.Context, ownerID, mobID uuid.UUID) ([]models.MobEvent, error)

	// Analytics reconstructs the mob's population history from its event
	// log.
	Analytics(ctx context.Context, ownerID, mobID uuid.UUID) (*MobAnalytics, error)
}

type mobService struct {
	mobs      repository.MobRepository
	paddocks  repository.PaddockRepository
	grazings  repository.GrazingEventRepository
	mobEvents repository.MobEventRepository
	log       *logger.Logger
	now       func() time.Time
}

// NewMobService creates a new instance of MobService.
func NewMobService(
	mobs repository.MobRepository,
	paddocks repository.PaddockRepository,
	grazings repository.GrazingEventRepository,
	mobEvents repository.MobEventRepository,
	log *logger.Logger,
) MobService {
	return &mobService{
		mobs:      mobs,
		paddocks:  paddocks,
		grazings:  grazings,
		mobEvents: mobEvents,
		log:       log,
		now:       time.Now,
	}
}

func (s *mobService) Create(ctx context.Context, ownerID uuid.UUID, input CreateMobInput) (*models.Mob, error) {
	if input.Size < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, input.Size)
	}

	// When the starting head count is recorded as a purchase event, it must
	// not also seed initial_size: the reconciler replays initial_size plus
	// the event log, and counting the same animals twice would double the
	// cache on the first nightly run.
	initialSize := input.Size
	recordPurchase := input.RecordPurchase && input.Size > 0
	if recordPurchase {
		initialSize = 0
	}

	mob := &models.Mob{
		ID:                 uuid.New(),
		OwnerID:            ownerID,
		Name:               input.Name,
		LivestockType:      input.LivestockType,
		Size:               input.Size,
		InitialSize:        initialSize,
		Status:             models.MobStatusActive,
		BirthDate:          input.BirthDate,
		PurchaseDate:       input.PurchaseDate,
		AgeAtPurchaseYears: input.AgeAtPurchaseYears,
	}

	if err := s.mobs.Create(ctx, mob); err != nil {
		s.log.Error("Failed to create mob", err, map[string]interface{}{
			"owner_id": ownerID,
			"name":     input.Name,
		})
		return nil, fmt.Errorf("failed to create mob: %w", err)
	}

	if recordPurchase {
		event := &models.MobEvent{
			ID:           uuid.New(),
			MobID:        mob.ID,
			EventType:    models.MobEventPurchase,
			Quantity:     input.Size,
			EventDate:    s.now(),
			PricePerHead: input.PricePerHead,
		}
		if err := s.mobEvents.Insert(ctx, event); err != nil {
			// The mob exists; a missing purchase record is an audit gap,
			// not a reason to fail the creation.
			s.log.Error("Failed to record implicit purchase event", err, map[string]interface{}{
				"mob_id": mob.ID,
			})
		}
	}

	if input.PaddockID != nil {
		if _, err := s.Move(ctx, ownerID, mob.ID, input.PaddockID); err != nil {
			s.log.Error("Failed to place new mob in paddock", err, map[string]interface{}{
				"mob_id":     mob.ID,
				"paddock_id": *input.PaddockID,
			})
			// Remove the half-created mob so the caller never sees a
			// failure for a row that still exists; its events cascade.
			if delErr := s.mobs.Delete(ctx, ownerID, mob.ID); delErr != nil {
				s.log.Error("Failed to remove mob after placement failure", delErr, map[string]interface{}{
					"mob_id": mob.ID,
				})
			}
			return nil, err
		}
		mob.CurrentPaddockID = input.PaddockID
	}

	s.log.Info("Mob created", map[string]interface{}{
		"owner_id": ownerID,
		"mob_id":   mob.ID,
		"size":     mob.Size,
	})
	return mob, nil
}

func (s *mobService) Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Mob, error) {
	mob, err := s.mobs.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query mob: %w", err)
	}
	if mob == nil {
		return nil, ErrMobNotFound
	}
	return mob, nil
}

func (s *mobService) List(ctx context.Context, ownerID uuid.UUID) ([]models.Mob, error) {
	mobs, err := s.mobs.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mobs: %w", err)
	}
	return mobs, nil
}

func (s *mobService) Update(ctx context.Context, ownerID, id uuid.UUID, input UpdateMobInput) (*models.Mob, error) {
	mob, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	mob.Name = input.Name
	mob.LivestockType = input.LivestockType
	mob.BirthDate = input.BirthDate
	mob.PurchaseDate = input.PurchaseDate
	mob.AgeAtPurchaseYears = input.AgeAtPurchaseYears

	if err := s.mobs.Update(ctx, mob); err != nil {
		return nil, fmt.Errorf("failed to update mob: %w", err)
	}
	return mob, nil
}

func (s *mobService) Archive(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.mobs.SetStatus(ctx, ownerID, id, models.MobStatusArchived); err != nil {
		return fmt.Errorf("failed to archive mob: %w", err)
	}
	s.log.Info("Mob archived", map[string]interface{}{
		"owner_id": ownerID,
		"mob_id":   id,
	})
	return nil
}

func (s *mobService) Unarchive(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.mobs.SetStatus(ctx, ownerID, id, models.MobStatusActive); err != nil {
		return fmt.Errorf("failed to unarchive mob: %w", err)
	}
	s.log.Info("Mob restored from archive", map[string]interface{}{
		"owner_id": ownerID,
		"mob_id":   id,
	})
	return nil
}

func (s *mobService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.mobs.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("failed to delete mob: %w", err)
	}
	s.log.Info("Mob hard-deleted with dependent records", map[string]interface{}{
		"owner_id": ownerID,
		"mob_id":   id,
	})
	return nil
}

func (s *mobService) Move(ctx context.Context, ownerID, mobID uuid.UUID, newPaddockID *uuid.UUID) (*MoveResult, error) {
	mob, err := s.Get(ctx, ownerID, mobID)
	if err != nil {
		return nil, err
	}

	if newPaddockID != nil {
		paddock, err := s.paddocks.GetByID(ctx, ownerID, *newPaddockID)
		if err != nil {
			return nil, fmt.Errorf("failed to query destination paddock: %w", err)
		}
		if paddock == nil {
			return nil, ErrPaddockNotFound
		}
	}

	// Capture the previous residency before the open event is closed;
	// it cannot be recomputed afterwards.
	events, err := s.grazings.ListByMob(ctx, ownerID, mobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grazing events: %w", err)
	}
	now := s.now()
	daysInPrevious := grazing.DaysInPaddock(mobID, events, now)

	if err := s.mobs.Move(ctx, ownerID, mobID, newPaddockID, now); err != nil {
		s.log.Error("Failed to move mob", err, map[string]interface{}{
			"owner_id": ownerID,
			"mob_id":   mobID,
		})
		return nil, fmt.Errorf("failed to move mob: %w", err)
	}

	mob.CurrentPaddockID = newPaddockID
	s.log.Info("Mob moved", map[string]interface{}{
		"owner_id":    ownerID,
		"mob_id":      mobID,
		"new_paddock": newPaddockID,
	})
	return &MoveResult{Mob: mob, DaysInPrevious: daysInPrevious}, nil
}

func (s *mobService) RecordEvent(ctx context.Context, ownerID, mobID uuid.UUID, input RecordEventInput) (*models.MobEvent, error) {
	if !mobEventTypes[input.EventType] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEventType, input.EventType)
	}

	mob, err := s.Get(ctx, ownerID, mobID)
	if err != nil {
		return nil, err
	}

	// Guard before writing: the cached size must never go negative.
	switch input.EventType {
	case models.MobEventSale, models.MobEventDeath:
		if input.Quantity > mob.Size {
			return nil, fmt.Errorf("%w: %s of %d against size %d",
				ErrInvalidQuantity, input.EventType, input.Quantity, mob.Size)
		}
	}

	eventDate := input.EventDate
	if eventDate.IsZero() {
		eventDate = s.now()
	}

	event := &models.MobEvent{
		ID:           uuid.New(),
		MobID:        mobID,
		EventType:    input.EventType,
		Quantity:     input.Quantity,
		EventDate:    eventDate,
		PricePerHead: input.PricePerHead,
		TotalPrice:   input.TotalPrice,
		BuyerName:    input.BuyerName,
		LossReason:   input.LossReason,
		Notes:        input.Notes,
	}
	if err := s.mobEvents.Insert(ctx, event); err != nil {
		s.log.Error("Failed to record mob event", err, map[string]interface{}{
			"mob_id":     mobID,
			"event_type": input.EventType,
		})
		return nil, fmt.Errorf("failed to record mob event: %w", err)
	}

	if delta := event.SizeDelta(); delta != 0 {
		if err := s.mobs.SetSize(ctx, mobID, mob.Size+delta); err != nil {
			// The log entry is authoritative; a stale cache is repaired by
			// the nightly reconciliation.
			s.log.Error("Failed to update cached mob size", err, map[string]interface{}{
				"mob_id": mobID,
			})
		}
	}

	s.log.Info("Mob event recorded", map[string]interface{}{
		"mob_id":     mobID,
		"event_type": event.EventType,
		"quantity":   event.Quantity,
	})
	return event, nil
}

func (s *mobService) ListEvents(ctx context.Context, ownerID, mobID uuid.UUID) ([]models.MobEvent, error) {
	if _, err := s.Get(ctx, ownerID, mobID); err != nil {
		return nil, err
	}
	events, err := s.mobEvents.ListByMob(ctx, ownerID, mobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mob events: %w", err)
	}
	return events, nil
}

func (s *mobService) Analytics(ctx context.Context, ownerID, mobID uuid.UUID) (*MobAnalytics, error) {
	mob, err := s.Get(ctx, ownerID, mobID)
	if err != nil {
		return nil, err
	}

	mobEvents, err := s.mobEvents.ListByMob(ctx, ownerID, mobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mob events: %w", err)
	}
	grazingEvents, err := s.grazings.ListByMob(ctx, ownerID, mobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grazing events: %w", err)
	}

	now := s.now()
	return &MobAnalytics{
		Population:    grazing.ReconstructPopulation(mob, mobEvents),
		Age:           grazing.FormatAge(mob.BirthDate, mob.PurchaseDate, mob.AgeAtPurchaseYears, now),
		DSE:           grazing.DSE(mob.LivestockType, mob.Size),
		DaysInPaddock: grazing.DaysInPaddock(mobID, grazingEvents, now),
	}, nil
}
