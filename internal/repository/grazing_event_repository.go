package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/Smartsoil-Media/smartsoil-api/internal/database"
	"github.com/Smartsoil-Media/smartsoil-api/internal/models"
)

// GrazingEventRepository reads the grazing-event log. Writes happen only
// through MobRepository.Move, which owns the open-interval invariant.
type GrazingEventRepository interface {
	// ListByOwner returns the full grazing-event log for every mob the
	// owner has, newest move-in first. The occupancy calculators consume
	// this as a snapshot.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.GrazingEvent, error)

	// ListByMob returns a single mob's grazing history, newest move-in
	// first.
	ListByMob(ctx context.Context, ownerID, mobID uuid.UUID) ([]models.GrazingEvent, error)
}

type grazingEventRepository struct {
	db *database.Database
}

// NewGrazingEventRepository creates a new instance of GrazingEventRepository.
func NewGrazingEventRepository(db *database.Database) GrazingEventRepository {
	return &grazingEventRepository{db: db}
}

func (r *grazingEventRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.GrazingEvent, error) {
	query := `
		SELECT e.id, e.mob_id, e.paddock_id, e.moved_in_at, e.moved_out_at, e.created_at
		FROM grazing_events e
		JOIN mobs m ON m.id = e.mob_id
		WHERE m.owner_id = $1
		ORDER BY e.moved_in_at DESC
	`
	rows, err := r.db.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query grazing events for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	return collectGrazingEvents(rows)
}

func (r *grazingEventRepository) ListByMob(ctx context.Context, ownerID, mobID uuid.UUID) ([]models.GrazingEvent, error) {
	query := `
		SELECT e.id, e.mob_id, e.paddock_id, e.moved_in_at, e.moved_out_at, e.created_at
		FROM grazing_events e
		JOIN mobs m ON m.id = e.mob_id
		WHERE m.owner_id = $1 AND e.mob_id = $2
		ORDER BY e.moved_in_at DESC
	`
	rows, err := r.db.Pool.Query(ctx, query, ownerID, mobID)
	if err != nil {
		return nil, fmt.Errorf("failed to query grazing events for mob %s: %w", mobID, err)
	}
	defer rows.Close()

	return collectGrazingEvents(rows)
}

func collectGrazingEvents(rows pgx.Rows) ([]models.GrazingEvent, error) {
	events := []models.GrazingEvent{}
	for rows.Next() {
		var e models.GrazingEvent
		err := rows.Scan(&e.ID, &e.MobID, &e.PaddockID, &e.MovedInAt, &e.MovedOutAt, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan grazing event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating grazing event rows: %w", err)
	}
	return events, nil
}
