package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Smartsoil-Media/smartsoil-api/internal/apierrors"
	"github.com/Smartsoil-Media/smartsoil-api/internal/middleware"
	"github.com/Smartsoil-Media/smartsoil-api/internal/models"
	"github.com/Smartsoil-Media/smartsoil-api/internal/services"
)

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	service services.TaskService
}

// NewTaskHandler creates a new TaskHandler instance.
func NewTaskHandler(service services.TaskService) *TaskHandler {
	return &TaskHandler{
		service: service,
	}
}

// TaskRequest represents the body for task create and update requests.
type TaskRequest struct {
	Title      string      `json:"title" binding:"required,min=1,max=200"`
	Status     string      `json:"status" binding:"omitempty,oneof=todo in_progress done"`
	Priority   string      `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate    *time.Time  `json:"dueDate"`
	MobID      *uuid.UUID  `json:"mobId"`
	Assignee   *string     `json:"assignee" binding:"omitempty,max=200"`
	PaddockIDs []uuid.UUID `json:"paddockIds"`
}

// TaskListResponse represents the response for the task list endpoint.
type TaskListResponse struct {
	Tasks []models.Task `json:"tasks"`
	Count int           `json:"count"`
}

func (r TaskRequest) toInput() services.TaskInput {
	return services.TaskInput{
		Title:      r.Title,
		Status:     r.Status,
		Priority:   r.Priority,
		DueDate:    r.DueDate,
		MobID:      r.MobID,
		Assignee:   r.Assignee,
		PaddockIDs: r.PaddockIDs,
	}
}

// List handles GET /api/v1/tasks.
func (h *TaskHandler) List(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	tasks, err := h.service.List(c.Request.Context(), ownerID)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to list tasks", err)
		return
	}

	c.JSON(http.StatusOK, TaskListResponse{
		Tasks: tasks,
		Count: len(tasks),
	})
}

// Create handles POST /api/v1/tasks.
func (h *TaskHandler) Create(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	task, err := h.service.Create(c.Request.Context(), ownerID, req.toInput())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to create task", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": task})
}

// Get handles GET /api/v1/tasks/:id.
func (h *TaskHandler) Get(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	task, err := h.service.Get(c.Request.Context(), ownerID, id)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			apierrors.NotFound(c, "Task not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to query task", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// Update handles PUT /api/v1/tasks/:id.
func (h *TaskHandler) Update(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	task, err := h.service.Update(c.Request.Context(), ownerID, id, req.toInput())
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			apierrors.NotFound(c, "Task not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to update task", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// Delete handles DELETE /api/v1/tasks/:id.
func (h *TaskHandler) Delete(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), ownerID, id); err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			apierrors.NotFound(c, "Task not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to delete task", err)
		return
	}

	c.Status(http.StatusNoContent)
}
