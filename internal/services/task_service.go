package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/Smartsoil-Media/smartsoil-api/internal/logger"
	"github.com/Smartsoil-Media/smartsoil-api/internal/models"
	"github.com/Smartsoil-Media/smartsoil-api/internal/repository"
)

// ErrTaskNotFound is returned when a task does not exist for the owner.
var ErrTaskNotFound = errors.New("task not found")

// TaskInput carries the fields of a task create or update request.
type TaskInput struct {
	Title      string
	Status     string
	Priority   string
	DueDate    *time.Time
	MobID      *uuid.UUID
	Assignee   *string
	PaddockIDs []uuid.UUID
}

// TaskService defines the interface for task business logic operations.
type TaskService interface {
	Create(ctx context.Context, ownerID uuid.UUID, input TaskInput) (*models.Task, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Task, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]models.Task, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, input TaskInput) (*models.Task, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type taskService struct {
	tasks repository.TaskRepository
	log   *logger.Logger
}

// NewTaskService creates a new instance of TaskService.
func NewTaskService(tasks repository.TaskRepository, log *logger.Logger) TaskService {
	return &taskService{tasks: tasks, log: log}
}

func (s *taskService) Create(ctx context.Context, ownerID uuid.UUID, input TaskInput) (*models.Task, error) {
	task := &models.Task{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		Title:      input.Title,
		Status:     input.Status,
		Priority:   input.Priority,
		DueDate:    input.DueDate,
		MobID:      input.MobID,
		Assignee:   input.Assignee,
		PaddockIDs: input.PaddockIDs,
	}
	if task.Status == "" {
		task.Status = models.TaskStatusTodo
	}
	if task.Priority == "" {
		task.Priority = models.TaskPriorityMedium
	}
	if task.PaddockIDs == nil {
		task.PaddockIDs = []uuid.UUID{}
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		s.log.Error("Failed to create task", err, map[string]interface{}{
			"owner_id": ownerID,
			"title":    input.Title,
		})
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

func (s *taskService) Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query task: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

func (s *taskService) List(ctx context.Context, ownerID uuid.UUID) ([]models.Task, error) {
	tasks, err := s.tasks.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (s *taskService) Update(ctx context.Context, ownerID, id uuid.UUID, input TaskInput) (*models.Task, error) {
	task, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	task.Title = input.Title
	task.Status = input.Status
	task.Priority = input.Priority
	task.DueDate = input.DueDate
	task.MobID = input.MobID
	task.Assignee = input.Assignee
	task.PaddockIDs = input.PaddockIDs
	if task.PaddockIDs == nil {
		task.PaddockIDs = []uuid.UUID{}
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
