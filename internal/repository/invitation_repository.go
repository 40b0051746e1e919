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

// InvitationRepository defines the interface for team-invitation data access.
type InvitationRepository interface {
	// Create inserts a new invitation.
	Create(ctx context.Context, inv *models.Invitation) error

	// List returns every invitation issued by the owner, newest first.
	List(ctx context.Context, ownerID uuid.UUID) ([]models.Invitation, error)

	// GetByToken returns the invitation carrying the token, or nil, nil.
	GetByToken(ctx context.Context, token string) (*models.Invitation, error)

	// SetStatus transitions an invitation's status.
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
}

type invitationRepository struct {
	db *database.Database
}

// NewInvitationRepository creates a new instance of InvitationRepository.
func NewInvitationRepository(db *database.Database) InvitationRepository {
	return &invitationRepository{db: db}
}

const invitationColumns = `id, owner_id, email, role, status, token, created_at, updated_at`

func (r *invitationRepository) Create(ctx context.Context, inv *models.Invitation) error {
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	query := `
		INSERT INTO invitations (id, owner_id, email, role, status, token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Pool.Exec(ctx, query,
		inv.ID, inv.OwnerID, inv.Email, inv.Role, inv.Status, inv.Token,
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert invitation %s: %w", inv.ID, err)
	}
	return nil
}

func (r *invitationRepository) List(ctx context.Context, ownerID uuid.UUID) ([]models.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invitations for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	invitations := []models.Invitation{}
	for rows.Next() {
		var inv models.Invitation
		err := rows.Scan(&inv.ID, &inv.OwnerID, &inv.Email, &inv.Role, &inv.Status,
			&inv.Token, &inv.CreatedAt, &inv.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invitation row: %w", err)
		}
		invitations = append(invitations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invitation rows: %w", err)
	}
	return invitations, nil
}

func (r *invitationRepository) GetByToken(ctx context.Context, token string) (*models.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE token = $1`

	var inv models.Invitation
	err := r.db.Pool.QueryRow(ctx, query, token).Scan(
		&inv.ID, &inv.OwnerID, &inv.Email, &inv.Role, &inv.Status,
		&inv.Token, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query invitation by token: %w", err)
	}
	return &inv, nil
}

func (r *invitationRepository) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE invitations SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set status for invitation %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
