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

// TaskRepository defines the interface for task data access operations.
type TaskRepository interface {
	// Create inserts a task together with its paddock links.
	Create(ctx context.Context, task *models.Task) error

	// GetByID returns the task with its paddock links, or nil, nil when it
	// does not exist.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Task, error)

	// List returns every task belonging to the owner, newest first.
	List(ctx context.Context, ownerID uuid.UUID) ([]models.Task, error)

	// Update rewrites the task's mutable fields and replaces its paddock
	// links.
	Update(ctx context.Context, task *models.Task) error

	// Delete removes the task and its paddock links.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type taskRepository struct {
	db *database.Database
}

// NewTaskRepository creates a new instance of TaskRepository.
func NewTaskRepository(db *database.Database) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO tasks (id, owner_id, title, status, priority, due_date,
				mob_id, assignee, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`,
			task.ID, task.OwnerID, task.Title, task.Status, task.Priority,
			task.DueDate, task.MobID, task.Assignee, task.CreatedAt, task.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert task %s: %w", task.ID, err)
		}
		return insertTaskPaddocks(ctx, tx, task.ID, task.PaddockIDs)
	})
}

func (r *taskRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Task, error) {
	query := `
		SELECT id, owner_id, title, status, priority, due_date, mob_id, assignee,
			created_at, updated_at
		FROM tasks WHERE owner_id = $1 AND id = $2
	`
	var task models.Task
	err := r.db.Pool.QueryRow(ctx, query, ownerID, id).Scan(
		&task.ID, &task.OwnerID, &task.Title, &task.Status, &task.Priority,
		&task.DueDate, &task.MobID, &task.Assignee, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query task %s: %w", id, err)
	}

	task.PaddockIDs, err = r.paddockLinks(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) List(ctx context.Context, ownerID uuid.UUID) ([]models.Task, error) {
	query := `
		SELECT id, owner_id, title, status, priority, due_date, mob_id, assignee,
			created_at, updated_at
		FROM tasks WHERE owner_id = $1 ORDER BY created_at DESC
	`
	rows, err := r.db.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var task models.Task
		err := rows.Scan(
			&task.ID, &task.OwnerID, &task.Title, &task.Status, &task.Priority,
			&task.DueDate, &task.MobID, &task.Assignee, &task.CreatedAt, &task.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	for i := range tasks {
		tasks[i].PaddockIDs, err = r.paddockLinks(ctx, tasks[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now().UTC()

	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE tasks
			SET title = $3, status = $4, priority = $5, due_date = $6,
				mob_id = $7, assignee = $8, updated_at = $9
			WHERE owner_id = $1 AND id = $2
		`,
			task.OwnerID, task.ID, task.Title, task.Status, task.Priority,
			task.DueDate, task.MobID, task.Assignee, task.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to update task %s: %w", task.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}

		if _, err := tx.Exec(ctx,
			`DELETE FROM task_paddocks WHERE task_id = $1`, task.ID); err != nil {
			return fmt.Errorf("failed to clear paddock links for task %s: %w", task.ID, err)
		}
		return insertTaskPaddocks(ctx, tx, task.ID, task.PaddockIDs)
	})
}

func (r *taskRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM tasks WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to delete task %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *taskRepository) paddockLinks(ctx context.Context, taskID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT paddock_id FROM task_paddocks WHERE task_id = $1`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query paddock links for task %s: %w", taskID, err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan paddock link: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating paddock links: %w", err)
	}
	return ids, nil
}

func insertTaskPaddocks(ctx context.Context, tx pgx.Tx, taskID uuid.UUID, paddockIDs []uuid.UUID) error {
	for _, paddockID := range paddockIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO task_paddocks (task_id, paddock_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			taskID, paddockID)
		if err != nil {
			return fmt.Errorf("failed to link task %s to paddock %s: %w", taskID, paddockID, err)
		}
	}
	return nil
}
