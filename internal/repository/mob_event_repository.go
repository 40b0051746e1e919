package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/Smartsoil-Media/smartsoil-api/internal/database"
	"github.com/Smartsoil-Media/smartsoil-api/internal/models"
)

// MobEventRepository appends to and reads the mob-event audit log.
// The log is append-only: there are no update or delete operations, rows
// disappear only when the owning mob is hard-deleted.
type MobEventRepository interface {
	// Insert appends an event to the log.
	Insert(ctx context.Context, event *models.MobEvent) error

	// ListByMob returns a mob's events ordered by event date ascending.
	ListByMob(ctx context.Context, ownerID, mobID uuid.UUID) ([]models.MobEvent, error)

	// ListByMobID returns a mob's events without owner scoping. Used by the
	// reconciliation job, which iterates mobs across owners.
	ListByMobID(ctx context.Context, mobID uuid.UUID) ([]models.MobEvent, error)
}

type mobEventRepository struct {
	db *database.Database
}

// NewMobEventRepository creates a new instance of MobEventRepository.
func NewMobEventRepository(db *database.Database) MobEventRepository {
	return &mobEventRepository{db: db}
}

const mobEventColumns = `
	id, mob_id, event_type, quantity, event_date,
	price_per_head, total_price, buyer_name, loss_reason, notes, created_at`

func (r *mobEventRepository) Insert(ctx context.Context, event *models.MobEvent) error {
	event.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO mob_events (id, mob_id, event_type, quantity, event_date,
			price_per_head, total_price, buyer_name, loss_reason, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Pool.Exec(ctx, query,
		event.ID, event.MobID, event.EventType, event.Quantity, event.EventDate,
		event.PricePerHead, event.TotalPrice, event.BuyerName,
		event.LossReason, event.Notes, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert mob event %s: %w", event.ID, err)
	}
	return nil
}

func (r *mobEventRepository) ListByMob(ctx context.Context, ownerID, mobID uuid.UUID) ([]models.MobEvent, error) {
	query := `
		SELECT e.id, e.mob_id, e.event_type, e.quantity, e.event_date,
			e.price_per_head, e.total_price, e.buyer_name, e.loss_reason, e.notes, e.created_at
		FROM mob_events e
		JOIN mobs m ON m.id = e.mob_id
		WHERE m.owner_id = $1 AND e.mob_id = $2
		ORDER BY e.event_date
	`
	rows, err := r.db.Pool.Query(ctx, query, ownerID, mobID)
	if err != nil {
		return nil, fmt.Errorf("failed to query mob events for mob %s: %w", mobID, err)
	}
	defer rows.Close()

	return collectMobEvents(rows)
}

func (r *mobEventRepository) ListByMobID(ctx context.Context, mobID uuid.UUID) ([]models.MobEvent, error) {
	query := `SELECT ` + mobEventColumns + ` FROM mob_events WHERE mob_id = $1 ORDER BY event_date`

	rows, err := r.db.Pool.Query(ctx, query, mobID)
	if err != nil {
		return nil, fmt.Errorf("failed to query mob events for mob %s: %w", mobID, err)
	}
	defer rows.Close()

	return collectMobEvents(rows)
}

func collectMobEvents(rows pgx.Rows) ([]models.MobEvent, error) {
	events := []models.MobEvent{}
	for rows.Next() {
		var e models.MobEvent
		err := rows.Scan(&e.ID, &e.MobID, &e.EventType, &e.Quantity, &e.EventDate,
			&e.PricePerHead, &e.TotalPrice, &e.BuyerName, &e.LossReason, &e.Notes, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mob event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mob event rows: %w", err)
	}
	return events, nil
}
