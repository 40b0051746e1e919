package models

import (
	"time"

	"github.com/google/uuid"
)

// Task statuses and priorities.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"

	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
)

// Task is a unit of farm work, optionally linked to paddocks and a mob.
// Paddock links survive paddock deletion as removed join rows; the mob link
// is nulled if the mob is hard-deleted.
type Task struct {
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
	DueDate    *time.Time  `json:"dueDate,omitempty"`
	MobID      *uuid.UUID  `json:"mobId,omitempty"`
	Assignee   *string     `json:"assignee,omitempty"`
	Title      string      `json:"title"`
	Status     string      `json:"status"`
	Priority   string      `json:"priority"`
	PaddockIDs []uuid.UUID `json:"paddockIds"`
	ID         uuid.UUID   `json:"id"`
	OwnerID    uuid.UUID   `json:"ownerId"`
}
