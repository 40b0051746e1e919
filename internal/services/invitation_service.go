package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/Smartsoil-Media/smartsoil-api/internal/logger"
	"github.com/Smartsoil-Media/smartsoil-api/internal/mailer"
	"github.com/Smartsoil-Media/smartsoil-api/internal/models"
	"github.com/Smartsoil-Media/smartsoil-api/internal/repository"
)

// Service-level errors for invitation operations.
var (
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvitationClosed   = errors.New("invitation is no longer pending")
)

const sendTimeout = 20 * time.Second

// InvitationService defines the interface for team-invitation operations.
type InvitationService interface {
	// Invite stores a pending invitation and dispatches the email in the
	// background. A failed send never rolls back the invitation row.
	Invite(ctx context.Context, ownerID uuid.UUID, email, role string) (*models.Invitation, error)

	// List returns every invitation issued by the owner.
	List(ctx context.Context, ownerID uuid.UUID) ([]models.Invitation, error)

	// Revoke closes a pending invitation.
	Revoke(ctx context.Context, ownerID, id uuid.UUID) error

	// Accept redeems an invitation token.
	Accept(ctx context.Context, token string) (*models.Invitation, error)
}

type invitationService struct {
	invitations repository.InvitationRepository
	mail        mailer.Mailer
	log         *logger.Logger
}

// NewInvitationService creates a new instance of InvitationService.
func NewInvitationService(invitations repository.InvitationRepository, mail mailer.Mailer, log *logger.Logger) InvitationService {
	return &invitationService{
		invitations: invitations,
		mail:        mail,
		log:         log,
	}
}

func (s *invitationService) Invite(ctx context.Context, ownerID uuid.UUID, email, role string) (*models.Invitation, error) {
	token, err := newInviteToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invitation token: %w", err)
	}

	inv := &models.Invitation{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Email:   email,
		Role:    role,
		Status:  models.InvitationPending,
		Token:   token,
	}
	if inv.Role == "" {
		inv.Role = "member"
	}

	if err := s.invitations.Create(ctx, inv); err != nil {
		s.log.Error("Failed to create invitation", err, map[string]interface{}{
			"owner_id": ownerID,
			"email":    email,
		})
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	// Fire-and-forget: the invitation row is committed regardless of what
	// happens to the email.
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		if err := s.mail.SendInvitation(sendCtx, inv.Email, inv.Role, inv.Token); err != nil {
			s.log.Error("Failed to send invitation email", err, map[string]interface{}{
				"invitation_id": inv.ID,
				"email":         inv.Email,
			})
		}
	}()

	s.log.Info("Invitation created", map[string]interface{}{
		"owner_id":      ownerID,
		"invitation_id": inv.ID,
	})
	return inv, nil
}

func (s *invitationService) List(ctx context.Context, ownerID uuid.UUID) ([]models.Invitation, error) {
	invitations, err := s.invitations.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	return invitations, nil
}

func (s *invitationService) Revoke(ctx context.Context, ownerID, id uuid.UUID) error {
	invitations, err := s.invitations.List(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to list invitations: %w", err)
	}

	for i := range invitations {
		if invitations[i].ID != id {
			continue
		}
		if invitations[i].Status != models.InvitationPending {
			return ErrInvitationClosed
		}
		if err := s.invitations.SetStatus(ctx, id, models.InvitationRevoked); err != nil {
			return fmt.Errorf("failed to revoke invitation: %w", err)
		}
		return nil
	}
	return ErrInvitationNotFound
}

func (s *invitationService) Accept(ctx context.Context, token string) (*models.Invitation, error) {
	inv, err := s.invitations.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up invitation: %w", err)
	}
	if inv == nil {
		return nil, ErrInvitationNotFound
	}
	if inv.Status != models.InvitationPending {
		return nil, ErrInvitationClosed
	}

	if err := s.invitations.SetStatus(ctx, inv.ID, models.InvitationAccepted); err != nil {
		return nil, fmt.Errorf("failed to accept invitation: %w", err)
	}
	inv.Status = models.InvitationAccepted

	s.log.Info("Invitation accepted", map[string]interface{}{
		"invitation_id": inv.ID,
	})
	return inv, nil
}

func newInviteToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
