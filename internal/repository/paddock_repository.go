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

// PaddockRepository defines the interface for paddock data access operations.
// All reads are scoped by owner.
type PaddockRepository interface {
	// Create inserts a new paddock.
	Create(ctx context.Context, paddock *models.Paddock) error

	// GetByID returns the paddock, or nil, nil when it does not exist.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Paddock, error)

	// List returns every paddock belonging to the owner, ordered by name.
	List(ctx context.Context, ownerID uuid.UUID) ([]models.Paddock, error)

	// Update rewrites the paddock's mutable fields.
	Update(ctx context.Context, paddock *models.Paddock) error

	// Delete removes the paddock. Dependent grazing events and task links
	// survive with nulled references (enforced by the schema).
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type paddockRepository struct {
	db *database.Database
}

// NewPaddockRepository creates a new instance of PaddockRepository.
func NewPaddockRepository(db *database.Database) PaddockRepository {
	return &paddockRepository{db: db}
}

const paddockColumns = `
	id, owner_id, name, geom, area_sqm, paddock_type, color, created_at, updated_at`

func (r *paddockRepository) Create(ctx context.Context, paddock *models.Paddock) error {
	now := time.Now().UTC()
	paddock.CreatedAt = now
	paddock.UpdatedAt = now

	query := `
		INSERT INTO paddocks (id, owner_id, name, geom, area_sqm, paddock_type, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Pool.Exec(ctx, query,
		paddock.ID, paddock.OwnerID, paddock.Name, paddock.Geom,
		paddock.AreaSqm, paddock.Type, paddock.Color,
		paddock.CreatedAt, paddock.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert paddock %s: %w", paddock.ID, err)
	}
	return nil
}

func (r *paddockRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Paddock, error) {
	query := `SELECT ` + paddockColumns + ` FROM paddocks WHERE owner_id = $1 AND id = $2`

	paddock, err := scanPaddock(r.db.Pool.QueryRow(ctx, query, ownerID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query paddock %s: %w", id, err)
	}
	return paddock, nil
}

func (r *paddockRepository) List(ctx context.Context, ownerID uuid.UUID) ([]models.Paddock, error) {
	query := `SELECT ` + paddockColumns + ` FROM paddocks WHERE owner_id = $1 ORDER BY name`

	rows, err := r.db.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query paddocks for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	paddocks := []models.Paddock{}
	for rows.Next() {
		paddock, err := scanPaddock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan paddock row: %w", err)
		}
		paddocks = append(paddocks, *paddock)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating paddock rows: %w", err)
	}
	return paddocks, nil
}

func (r *paddockRepository) Update(ctx context.Context, paddock *models.Paddock) error {
	paddock.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE paddocks
		SET name = $3, geom = $4, area_sqm = $5, paddock_type = $6, color = $7, updated_at = $8
		WHERE owner_id = $1 AND id = $2
	`
	tag, err := r.db.Pool.Exec(ctx, query,
		paddock.OwnerID, paddock.ID, paddock.Name, paddock.Geom,
		paddock.AreaSqm, paddock.Type, paddock.Color, paddock.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update paddock %s: %w", paddock.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *paddockRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM paddocks WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to delete paddock %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanPaddock(row pgx.Row) (*models.Paddock, error) {
	var paddock models.Paddock
	var geomJSON []byte

	err := row.Scan(
		&paddock.ID,
		&paddock.OwnerID,
		&paddock.Name,
		&geomJSON,
		&paddock.AreaSqm,
		&paddock.Type,
		&paddock.Color,
		&paddock.CreatedAt,
		&paddock.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if geomJSON != nil {
		if err := paddock.Geom.Scan(geomJSON); err != nil {
			return nil, fmt.Errorf("failed to parse geometry for paddock %s: %w", paddock.ID, err)
		}
	}
	return &paddock, nil
}
