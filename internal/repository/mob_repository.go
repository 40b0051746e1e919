package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/Smartsoil-Media/smartsoil-api/internal/database"
	"github.com/Smartsoil-Media/smartsoil-api/internal/models"
)

// MobRepository defines the interface for mob data access operations.
type MobRepository interface {
	// Create inserts a new mob.
	Create(ctx context.Context, mob *models.Mob) error

	// GetByID returns the mob, or nil, nil when it does not exist.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Mob, error)

	// List returns every mob belonging to the owner, ordered by name.
	List(ctx context.Context, ownerID uuid.UUID) ([]models.Mob, error)

	// ListActive returns every active mob across all owners. Used by the
	// size-cache reconciliation job.
	ListActive(ctx context.Context) ([]models.Mob, error)

	// Update rewrites the mob's mutable fields.
	Update(ctx context.Context, mob *models.Mob) error

	// SetStatus archives or restores a mob (soft delete, data retained).
	SetStatus(ctx context.Context, ownerID, id uuid.UUID, status string) error

	// SetSize rewrites the cached size projection.
	SetSize(ctx context.Context, id uuid.UUID, size int) error

	// Delete hard-deletes the mob; grazing events and mob events cascade.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// Move performs the paddock transition as a single transaction: the
	// mob row is locked, any open grazing event is closed at the given
	// instant, a new open event is inserted when newPaddockID is non-nil,
	// and the mob's current paddock pointer is updated. A reader can never
	// observe two open events for the mob or a pointer that disagrees with
	// the open event.
	Move(ctx context.Context, ownerID, mobID uuid.UUID, newPaddockID *uuid.UUID, at time.Time) error
}

type mobRepository struct {
	db *database.Database
}

// NewMobRepository creates a new instance of MobRepository.
func NewMobRepository(db *database.Database) MobRepository {
	return &mobRepository{db: db}
}

const mobColumns = `
	id, owner_id, name, livestock_type, size, initial_size, current_paddock_id,
	status, birth_date, purchase_date, age_at_purchase_years, created_at, updated_at`

func (r *mobRepository) Create(ctx context.Context, mob *models.Mob) error {
	now := time.Now().UTC()
	mob.CreatedAt = now
	mob.UpdatedAt = now

	query := `
		INSERT INTO mobs (id, owner_id, name, livestock_type, size, initial_size,
			current_paddock_id, status, birth_date, purchase_date,
			age_at_purchase_years, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.Pool.Exec(ctx, query,
		mob.ID, mob.OwnerID, mob.Name, mob.LivestockType, mob.Size, mob.InitialSize,
		mob.CurrentPaddockID, mob.Status, mob.BirthDate, mob.PurchaseDate,
		mob.AgeAtPurchaseYears, mob.CreatedAt, mob.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert mob %s: %w", mob.ID, err)
	}
	return nil
}

func (r *mobRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Mob, error) {
	query := `SELECT ` + mobColumns + ` FROM mobs WHERE owner_id = $1 AND id = $2`

	mob, err := scanMob(r.db.Pool.QueryRow(ctx, query, ownerID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query mob %s: %w", id, err)
	}
	return mob, nil
}

func (r *mobRepository) List(ctx context.Context, ownerID uuid.UUID) ([]models.Mob, error) {
	query := `SELECT ` + mobColumns + ` FROM mobs WHERE owner_id = $1 ORDER BY name`

	rows, err := r.db.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query mobs for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	return collectMobs(rows)
}

func (r *mobRepository) ListActive(ctx context.Context) ([]models.Mob, error) {
	query := `SELECT ` + mobColumns + ` FROM mobs WHERE status = $1 ORDER BY id`

	rows, err := r.db.Pool.Query(ctx, query, models.MobStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query active mobs: %w", err)
	}
	defer rows.Close()

	return collectMobs(rows)
}

func (r *mobRepository) Update(ctx context.Context, mob *models.Mob) error {
	mob.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE mobs
		SET name = $3, livestock_type = $4, birth_date = $5, purchase_date = $6,
			age_at_purchase_years = $7, updated_at = $8
		WHERE owner_id = $1 AND id = $2
	`
	tag, err := r.db.Pool.Exec(ctx, query,
		mob.OwnerID, mob.ID, mob.Name, mob.LivestockType,
		mob.BirthDate, mob.PurchaseDate, mob.AgeAtPurchaseYears, mob.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update mob %s: %w", mob.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *mobRepository) SetStatus(ctx context.Context, ownerID, id uuid.UUID, status string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE mobs SET status = $3, updated_at = $4 WHERE owner_id = $1 AND id = $2`,
		ownerID, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set status for mob %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *mobRepository) SetSize(ctx context.Context, id uuid.UUID, size int) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE mobs SET size = $2, updated_at = $3 WHERE id = $1`,
		id, size, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set size for mob %s: %w", id, err)
	}
	return nil
}

func (r *mobRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM mobs WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to delete mob %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *mobRepository) Move(ctx context.Context, ownerID, mobID uuid.UUID, newPaddockID *uuid.UUID, at time.Time) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		// Lock the mob row so concurrent moves on the same mob serialize
		// instead of both closing "the" open event.
		var lockedID uuid.UUID
		err := tx.QueryRow(ctx,
			`SELECT id FROM mobs WHERE owner_id = $1 AND id = $2 FOR UPDATE`,
			ownerID, mobID).Scan(&lockedID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return pgx.ErrNoRows
			}
			return fmt.Errorf("failed to lock mob %s: %w", mobID, err)
		}

		// Close any open interval. Zero rows is fine: the mob was not
		// placed anywhere, or history is already inconsistent and we
		// tolerate it.
		_, err = tx.Exec(ctx,
			`UPDATE grazing_events SET moved_out_at = $2
			 WHERE mob_id = $1 AND moved_out_at IS NULL`,
			mobID, at)
		if err != nil {
			return fmt.Errorf("failed to close grazing event for mob %s: %w", mobID, err)
		}

		if newPaddockID != nil {
			_, err = tx.Exec(ctx,
				`INSERT INTO grazing_events (id, mob_id, paddock_id, moved_in_at, created_at)
				 VALUES ($1, $2, $3, $4, $5)`,
				uuid.New(), mobID, *newPaddockID, at, at)
			if err != nil {
				return fmt.Errorf("failed to open grazing event for mob %s: %w", mobID, err)
			}
		}

		_, err = tx.Exec(ctx,
			`UPDATE mobs SET current_paddock_id = $2, updated_at = $3 WHERE id = $1`,
			mobID, newPaddockID, at)
		if err != nil {
			return fmt.Errorf("failed to update current paddock for mob %s: %w", mobID, err)
		}
		return nil
	})
}

func scanMob(row pgx.Row) (*models.Mob, error) {
	var mob models.Mob
	err := row.Scan(
		&mob.ID,
		&mob.OwnerID,
		&mob.Name,
		&mob.LivestockType,
		&mob.Size,
		&mob.InitialSize,
		&mob.CurrentPaddockID,
		&mob.Status,
		&mob.BirthDate,
		&mob.PurchaseDate,
		&mob.AgeAtPurchaseYears,
		&mob.CreatedAt,
		&mob.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &mob, nil
}

func collectMobs(rows pgx.Rows) ([]models.Mob, error) {
	mobs := []models.Mob{}
	for rows.Next() {
		mob, err := scanMob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mob row: %w", err)
		}
		mobs = append(mobs, *mob)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mob rows: %w", err)
	}
	return mobs, nil
}
