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

// MobHandler handles mob-related HTTP requests.
type MobHandler struct {
	service services.MobService
}

// NewMobHandler creates a new MobHandler instance.
func NewMobHandler(service services.MobService) *MobHandler {
	return &MobHandler{
		service: service,
	}
}

// CreateMobRequest represents the body for mob creation.
type CreateMobRequest struct {
	Name               string     `json:"name" binding:"required,min=1,max=120"`
	LivestockType      string     `json:"livestockType" binding:"required,oneof=sheep cattle goats horses pigs chickens other"`
	Size               int        `json:"size" binding:"gte=0"`
	PaddockID          *uuid.UUID `json:"paddockId"`
	BirthDate          *time.Time `json:"birthDate"`
	PurchaseDate       *time.Time `json:"purchaseDate"`
	AgeAtPurchaseYears *float64   `json:"ageAtPurchaseYears" binding:"omitempty,gte=0"`
	RecordPurchase     bool       `json:"recordPurchase"`
	PricePerHead       *float64   `json:"pricePerHead" binding:"omitempty,gte=0"`
}

// UpdateMobRequest represents the body for mob updates. The head count is
// not editable here; it moves only through recorded mob events.
type UpdateMobRequest struct {
	Name               string     `json:"name" binding:"required,min=1,max=120"`
	LivestockType      string     `json:"livestockType" binding:"required,oneof=sheep cattle goats horses pigs chickens other"`
	BirthDate          *time.Time `json:"birthDate"`
	PurchaseDate       *time.Time `json:"purchaseDate"`
	AgeAtPurchaseYears *float64   `json:"ageAtPurchaseYears" binding:"omitempty,gte=0"`
}

// MoveMobRequest represents the body for a paddock move. A null paddock ID
// takes the mob off paddock.
type MoveMobRequest struct {
	PaddockID *uuid.UUID `json:"paddockId"`
}

// MobEventRequest represents the body for recording a mob event.
type MobEventRequest struct {
	EventType    string    `json:"eventType" binding:"required"`
	Quantity     int       `json:"quantity" binding:"gte=0"`
	EventDate    time.Time `json:"eventDate" binding:"required"`
	PricePerHead *float64  `json:"pricePerHead" binding:"omitempty,gte=0"`
	TotalPrice   *float64  `json:"totalPrice" binding:"omitempty,gte=0"`
	BuyerName    *string   `json:"buyerName" binding:"omitempty,max=200"`
	LossReason   *string   `json:"lossReason" binding:"omitempty,max=200"`
	Notes        *string   `json:"notes" binding:"omitempty,max=2000"`
}

// MobListResponse represents the response for the mob list endpoint.
type MobListResponse struct {
	Mobs  []models.Mob `json:"mobs"`
	Count int          `json:"count"`
}

// MobEventListResponse represents the response for the mob-event list endpoint.
type MobEventListResponse struct {
	Events []models.MobEvent `json:"events"`
	Count  int               `json:"count"`
}

// List handles GET /api/v1/mobs.
func (h *MobHandler) List(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	mobs, err := h.service.List(c.Request.Context(), ownerID)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to list mobs", err)
		return
	}

	c.JSON(http.StatusOK, MobListResponse{
		Mobs:  mobs,
		Count: len(mobs),
	})
}

// Create handles POST /api/v1/mobs.
func (h *MobHandler) Create(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	var req CreateMobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	mob, err := h.service.Create(c.Request.Context(), ownerID, services.CreateMobInput{
		Name:               req.Name,
		LivestockType:      req.LivestockType,
		Size:               req.Size,
		PaddockID:          req.PaddockID,
		BirthDate:          req.BirthDate,
		PurchaseDate:       req.PurchaseDate,
		AgeAtPurchaseYears: req.AgeAtPurchaseYears,
		RecordPurchase:     req.RecordPurchase,
		PricePerHead:       req.PricePerHead,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidSize) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to create mob", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"mob": mob})
}

// Get handles GET /api/v1/mobs/:id.
func (h *MobHandler) Get(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	mob, err := h.service.Get(c.Request.Context(), ownerID, id)
	if err != nil {
		if errors.Is(err, services.ErrMobNotFound) {
			apierrors.NotFound(c, "Mob not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to query mob", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"mob": mob})
}

// Update handles PUT /api/v1/mobs/:id.
func (h *MobHandler) Update(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateMobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	mob, err := h.service.Update(c.Request.Context(), ownerID, id, services.UpdateMobInput{
		Name:               req.Name,
		LivestockType:      req.LivestockType,
		BirthDate:          req.BirthDate,
		PurchaseDate:       req.PurchaseDate,
		AgeAtPurchaseYears: req.AgeAtPurchaseYears,
	})
	if err != nil {
		if errors.Is(err, services.ErrMobNotFound) {
			apierrors.NotFound(c, "Mob not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to update mob", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"mob": mob})
}

// Archive handles POST /api/v1/mobs/:id/archive.
// The mob and its history are retained but it drops out of occupancy and
// head-count views.
func (h *MobHandler) Archive(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Archive(c.Request.Context(), ownerID, id); err != nil {
		if errors.Is(err, services.ErrMobNotFound) {
			apierrors.NotFound(c, "Mob not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to archive mob", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Unarchive handles POST /api/v1/mobs/:id/unarchive.
func (h *MobHandler) Unarchive(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Unarchive(c.Request.Context(), ownerID, id); err != nil {
		if errors.Is(err, services.ErrMobNotFound) {
			apierrors.NotFound(c, "Mob not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to unarchive mob", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Delete handles DELETE /api/v1/mobs/:id.
// This is the hard delete: the mob and all its event records are removed.
func (h *MobHandler) Delete(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), ownerID, id); err != nil {
		if errors.Is(err, services.ErrMobNotFound) {
			apierrors.NotFound(c, "Mob not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to delete mob", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Move handles POST /api/v1/mobs/:id/move.
func (h *MobHandler) Move(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req MoveMobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	result, err := h.service.Move(c.Request.Context(), ownerID, id, req.PaddockID)
	if err != nil {
		if errors.Is(err, services.ErrMobNotFound) {
			apierrors.NotFound(c, "Mob not found")
			return
		}
		if errors.Is(err, services.ErrPaddockNotFound) {
			apierrors.NotFound(c, "Destination paddock not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to move mob", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListEvents handles GET /api/v1/mobs/:id/events.
func (h *MobHandler) ListEvents(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	events, err := h.service.ListEvents(c.Request.Context(), ownerID, id)
	if err != nil {
		if errors.Is(err, services.ErrMobNotFound) {
			apierrors.NotFound(c, "Mob not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to list mob events", err)
		return
	}

	c.JSON(http.StatusOK, MobEventListResponse{
		Events: events,
		Count:  len(events),
	})
}

// RecordEvent handles POST /api/v1/mobs/:id/events.
func (h *MobHandler) RecordEvent(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req MobEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	event, err := h.service.RecordEvent(c.Request.Context(), ownerID, id, services.RecordEventInput{
		EventType:    req.EventType,
		Quantity:     req.Quantity,
		EventDate:    req.EventDate,
		PricePerHead: req.PricePerHead,
		TotalPrice:   req.TotalPrice,
		BuyerName:    req.BuyerName,
		LossReason:   req.LossReason,
		Notes:        req.Notes,
	})
	if err != nil {
		if errors.Is(err, services.ErrMobNotFound) {
			apierrors.NotFound(c, "Mob not found")
			return
		}
		if errors.Is(err, services.ErrInvalidEventType) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		if errors.Is(err, services.ErrInvalidQuantity) {
			apierrors.Conflict(c, err.Error())
			return
		}
		apierrors.InternalServerError(c, "Failed to record mob event", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"event": event})
}

// Analytics handles GET /api/v1/mobs/:id/analytics.
// It reconstructs the mob's population history from its event log and
// bundles the display figures the mob detail view needs.
func (h *MobHandler) Analytics(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	analytics, err := h.service.Analytics(c.Request.Context(), ownerID, id)
	if err != nil {
		if errors.Is(err, services.ErrMobNotFound) {
			apierrors.NotFound(c, "Mob not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to compute mob analytics", err)
		return
	}

	c.JSON(http.StatusOK, analytics)
}
