package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Smartsoil-Media/smartsoil-api/internal/apierrors"
	"github.com/Smartsoil-Media/smartsoil-api/internal/middleware"
	"github.com/Smartsoil-Media/smartsoil-api/internal/models"
	"github.com/Smartsoil-Media/smartsoil-api/internal/services"
)

// InvitationHandler handles team-invitation HTTP requests.
type InvitationHandler struct {
	service services.InvitationService
}

// NewInvitationHandler creates a new InvitationHandler instance.
func NewInvitationHandler(service services.InvitationService) *InvitationHandler {
	return &InvitationHandler{
		service: service,
	}
}

// InviteRequest represents the body for issuing an invitation.
type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=member manager worker viewer"`
}

// AcceptRequest represents the body for redeeming an invitation token.
type AcceptRequest struct {
	Token string `json:"token" binding:"required,len=32"`
}

// InvitationListResponse represents the response for the invitation list endpoint.
type InvitationListResponse struct {
	Invitations []models.Invitation `json:"invitations"`
	Count       int                 `json:"count"`
}

// List handles GET /api/v1/invitations.
func (h *InvitationHandler) List(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	invitations, err := h.service.List(c.Request.Context(), ownerID)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to list invitations", err)
		return
	}

	c.JSON(http.StatusOK, InvitationListResponse{
		Invitations: invitations,
		Count:       len(invitations),
	})
}

// Invite handles POST /api/v1/invitations.
// The email send happens in the background; the invitation is created even
// when the mail provider is down.
func (h *InvitationHandler) Invite(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	invitation, err := h.service.Invite(c.Request.Context(), ownerID, req.Email, req.Role)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to create invitation", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"invitation": invitation})
}

// Revoke handles POST /api/v1/invitations/:id/revoke.
func (h *InvitationHandler) Revoke(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Revoke(c.Request.Context(), ownerID, id); err != nil {
		if errors.Is(err, services.ErrInvitationNotFound) {
			apierrors.NotFound(c, "Invitation not found")
			return
		}
		if errors.Is(err, services.ErrInvitationClosed) {
			apierrors.Conflict(c, "Invitation is no longer pending")
			return
		}
		apierrors.InternalServerError(c, "Failed to revoke invitation", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Accept handles POST /api/v1/invitations/accept.
// The token arrives out of band, so this endpoint is not owner-scoped.
func (h *InvitationHandler) Accept(c *gin.Context) {
	var req AcceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	invitation, err := h.service.Accept(c.Request.Context(), req.Token)
	if err != nil {
		if errors.Is(err, services.ErrInvitationNotFound) {
			apierrors.NotFound(c, "Invitation not found")
			return
		}
		if errors.Is(err, services.ErrInvitationClosed) {
			apierrors.Conflict(c, "Invitation is no longer pending")
			return
		}
		apierrors.InternalServerError(c, "Failed to accept invitation", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invitation": invitation})
}
