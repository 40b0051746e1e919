package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Smartsoil-Media/smartsoil-api/internal/apierrors"
	"github.com/Smartsoil-Media/smartsoil-api/internal/middleware"
	"github.com/Smartsoil-Media/smartsoil-api/internal/models"
	"github.com/Smartsoil-Media/smartsoil-api/internal/services"
)

// PaddockHandler handles paddock-related HTTP requests.
type PaddockHandler struct {
	service services.PaddockService
}

// NewPaddockHandler creates a new PaddockHandler instance.
func NewPaddockHandler(service services.PaddockService) *PaddockHandler {
	return &PaddockHandler{
		service: service,
	}
}

// PaddockRequest represents the body for paddock create and update requests.
type PaddockRequest struct {
	Name     string         `json:"name" binding:"required,min=1,max=120"`
	Geometry models.Polygon `json:"geometry" binding:"required"`
	AreaSqm  float64        `json:"areaSqm" binding:"gte=0"`
	Type     string         `json:"type" binding:"omitempty,oneof=pasture cropping mixed native_bush wetland agroforestry other"`
	Color    string         `json:"color" binding:"omitempty,max=32"`
}

// PaddockListResponse represents the response for the paddock list endpoint.
type PaddockListResponse struct {
	Paddocks []services.PaddockSummary `json:"paddocks"`
	Count    int                       `json:"count"`
}

func (r PaddockRequest) toInput() services.PaddockInput {
	return services.PaddockInput{
		Name:    r.Name,
		Geom:    r.Geometry,
		AreaSqm: r.AreaSqm,
		Type:    r.Type,
		Color:   r.Color,
	}
}

// List handles GET /api/v1/paddocks.
// It returns the owner's paddocks with their derived grazing figures.
func (h *PaddockHandler) List(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	summaries, err := h.service.List(c.Request.Context(), ownerID)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to list paddocks", err)
		return
	}

	c.JSON(http.StatusOK, PaddockListResponse{
		Paddocks: summaries,
		Count:    len(summaries),
	})
}

// Create handles POST /api/v1/paddocks.
func (h *PaddockHandler) Create(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	var req PaddockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	paddock, err := h.service.Create(c.Request.Context(), ownerID, req.toInput())
	if err != nil {
		if errors.Is(err, services.ErrInvalidArea) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to create paddock", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"paddock": paddock})
}

// Get handles GET /api/v1/paddocks/:id.
func (h *PaddockHandler) Get(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	paddock, err := h.service.Get(c.Request.Context(), ownerID, id)
	if err != nil {
		if errors.Is(err, services.ErrPaddockNotFound) {
			apierrors.NotFound(c, "Paddock not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to query paddock", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"paddock": paddock})
}

// Update handles PUT /api/v1/paddocks/:id.
func (h *PaddockHandler) Update(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req PaddockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	paddock, err := h.service.Update(c.Request.Context(), ownerID, id, req.toInput())
	if err != nil {
		if errors.Is(err, services.ErrPaddockNotFound) {
			apierrors.NotFound(c, "Paddock not found")
			return
		}
		if errors.Is(err, services.ErrInvalidArea) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to update paddock", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"paddock": paddock})
}

// Delete handles DELETE /api/v1/paddocks/:id.
// Historical grazing events survive the deletion with a dangling paddock
// reference, so past rotations stay reconstructable.
func (h *PaddockHandler) Delete(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), ownerID, id); err != nil {
		if errors.Is(err, services.ErrPaddockNotFound) {
			apierrors.NotFound(c, "Paddock not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to delete paddock", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Status handles GET /api/v1/paddocks/:id/status.
// It returns the paddock's occupancy, rest period and stocking figures.
func (h *PaddockHandler) Status(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	report, err := h.service.Status(c.Request.Context(), ownerID, id)
	if err != nil {
		if errors.Is(err, services.ErrPaddockNotFound) {
			apierrors.NotFound(c, "Paddock not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to derive paddock status", err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// parseIDParam parses the :id path parameter as a UUID, writing a 400
// response and returning false when it is malformed.
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid resource ID", map[string]interface{}{
			"id": c.Param("id"),
		})
		return uuid.Nil, false
	}
	return id, true
}
