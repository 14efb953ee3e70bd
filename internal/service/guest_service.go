package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"gatherly/internal/models"
	"gatherly/internal/store"
)

var (
	ErrInvitationNotFound  = errors.New("invitation not found")
	ErrInvitationProcessed = errors.New("invitation already processed")
	ErrInvitationExpired   = errors.New("invitation has expired")
	ErrEmailMismatch       = errors.New("invitation email does not match user email")
	ErrMissingInviteFields = errors.New("event id, email, and inviter are required")
)

// GuestService manages the invitation lifecycle and event membership.
type GuestService struct {
	store store.Store
}

// NewGuestService creates a guest service backed by the given store.
func NewGuestService(s store.Store) *GuestService {
	return &GuestService{store: s}
}

func invitationPath(eventID, invitationID string) string {
	return "invitations/" + eventID + "/" + invitationID
}

// Invite creates a pending invitation for the email, valid for 7 days.
func (s *GuestService) Invite(ctx context.Context, eventID, email string, role models.Role, invitedBy, message string) (*models.Invitation, error) {
	if eventID == "" || email == "" || invitedBy == "" {
		return nil, ErrMissingInviteFields
	}
	if role == "" {
		role = models.RoleMember
	}

	now := time.Now().Unix()
	invitation := models.Invitation{
		ID:        uuid.New().String(),
		EventID:   eventID,
		Email:     models.NormalizeEmail(email),
		Role:      role,
		Message:   message,
		InvitedBy: invitedBy,
		InvitedAt: now,
		Status:    models.InvitationPending,
		ExpiresAt: now + models.InvitationTTL,
	}

	if err := s.store.Set(ctx, invitationPath(eventID, invitation.ID), invitation); err != nil {
		return nil, fmt.Errorf("failed to send invitation: %w", err)
	}

	slog.Info("Invitation sent", "event_id", eventID, "invitation_id", invitation.ID, "email", invitation.Email, "role", role)
	return &invitation, nil
}

// EventInvitations lists an event's invitations, expired ones filtered out.
func (s *GuestService) EventInvitations(ctx context.Context, eventID string) ([]models.Invitation, error) {
	children, err := s.store.Children(ctx, "invitations/"+eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get invitations: %w", err)
	}

	now := time.Now().Unix()
	invitations := make([]models.Invitation, 0, len(children))
	for id, raw := range children {
		invitation := models.Invitation{}
		if err := json.Unmarshal(raw, &invitation); err != nil {
			return nil, fmt.Errorf("failed to decode invitation %s: %w", id, err)
		}
		if invitation.Expired(now) {
			continue
		}
		invitations = append(invitations, invitation)
	}

	sort.Slice(invitations, func(i, j int) bool {
		if invitations[i].InvitedAt != invitations[j].InvitedAt {
			return invitations[i].InvitedAt > invitations[j].InvitedAt
		}
		return invitations[i].ID < invitations[j].ID
	})
	return invitations, nil
}

// Accept turns a pending, unexpired invitation into event membership. The
// accepting user's email must match the invited email. The invitation
// record is replaced with its accepted version, and the event is added to
// the user's event list.
func (s *GuestService) Accept(ctx context.Context, eventID, invitationID string, user *models.User) (*models.Member, error) {
	if user == nil {
		return nil, ErrNotAuthenticated
	}

	path := invitationPath(eventID, invitationID)
	invitation := models.Invitation{}
	if err := s.store.Get(ctx, path, &invitation); err != nil {
		return nil, ErrInvitationNotFound
	}

	now := time.Now().Unix()
	if invitation.Status != models.InvitationPending {
		return nil, ErrInvitationProcessed
	}
	if invitation.Expired(now) {
		return nil, ErrInvitationExpired
	}
	if invitation.Email != models.NormalizeEmail(user.Email) {
		return nil, ErrEmailMismatch
	}

	member := models.Member{
		Name:        user.Name(),
		Email:       user.Email,
		Role:        invitation.Role,
		Permissions: models.PermissionsForRole(invitation.Role),
		JoinedAt:    now,
	}
	if err := s.store.Set(ctx, "events/"+eventID+"/members/"+user.ID, member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	invitation.Status = models.InvitationAccepted
	invitation.AcceptedAt = now
	if err := s.store.Set(ctx, path, invitation); err != nil {
		return nil, fmt.Errorf("failed to mark invitation accepted: %w", err)
	}

	if err := addEventToUser(ctx, s.store, user.ID, eventID, invitation.Role); err != nil {
		return nil, err
	}

	slog.Info("Invitation accepted", "event_id", eventID, "invitation_id", invitationID, "user_id", user.ID)
	return &member, nil
}

// Decline marks a pending invitation declined. Only the invited user may
// decline, matched by email the same way Accept matches.
func (s *GuestService) Decline(ctx context.Context, eventID, invitationID string, user *models.User) error {
	if user == nil {
		return ErrNotAuthenticated
	}

	path := invitationPath(eventID, invitationID)
	invitation := models.Invitation{}
	if err := s.store.Get(ctx, path, &invitation); err != nil {
		return ErrInvitationNotFound
	}
	if invitation.Email != models.NormalizeEmail(user.Email) {
		return ErrEmailMismatch
	}

	invitation.Status = models.InvitationDeclined
	invitation.DeclinedAt = time.Now().Unix()
	if err := s.store.Set(ctx, path, invitation); err != nil {
		return fmt.Errorf("failed to decline invitation: %w", err)
	}

	slog.Info("Invitation declined", "event_id", eventID, "invitation_id", invitationID, "user_id", user.ID)
	return nil
}

// Cancel withdraws an invitation entirely.
func (s *GuestService) Cancel(ctx context.Context, eventID, invitationID string) error {
	if err := s.store.Delete(ctx, invitationPath(eventID, invitationID)); err != nil {
		return fmt.Errorf("failed to cancel invitation: %w", err)
	}
	slog.Info("Invitation cancelled", "event_id", eventID, "invitation_id", invitationID)
	return nil
}

// RemoveMember removes a member from an event and detaches the event from
// their event list.
func (s *GuestService) RemoveMember(ctx context.Context, eventID, memberID string) error {
	if err := s.store.Delete(ctx, "events/"+eventID+"/members/"+memberID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	if err := s.store.Delete(ctx, "users/"+memberID+"/events/"+eventID); err != nil {
		return fmt.Errorf("failed to detach event from member: %w", err)
	}
	slog.Info("Member removed", "event_id", eventID, "member_id", memberID)
	return nil
}

// FindByEmail returns the pending, unexpired invitation for the email in
// the event, or nil when there is none.
func (s *GuestService) FindByEmail(ctx context.Context, eventID, email string) (*models.Invitation, error) {
	invitations, err := s.EventInvitations(ctx, eventID)
	if err != nil {
		return nil, err
	}

	normalized := models.NormalizeEmail(email)
	for i := range invitations {
		if invitations[i].Email == normalized && invitations[i].Status == models.InvitationPending {
			return &invitations[i], nil
		}
	}
	return nil, nil
}

// UserPendingInvitations scans every event's invitations for pending,
// unexpired invites addressed to the email, enriched with event metadata
// and sorted newest first. Events that vanished mid-scan are skipped.
func (s *GuestService) UserPendingInvitations(ctx context.Context, email string) ([]models.PendingInvitation, error) {
	eventIDs, err := s.store.Keys(ctx, "invitations")
	if err != nil {
		return nil, fmt.Errorf("failed to scan invitations: %w", err)
	}

	normalized := models.NormalizeEmail(email)
	now := time.Now().Unix()
	var pending []models.PendingInvitation

	for _, eventID := range eventIDs {
		children, err := s.store.Children(ctx, "invitations/"+eventID)
		if err != nil {
			return nil, fmt.Errorf("failed to read invitations for %s: %w", eventID, err)
		}

		for id, raw := range children {
			invitation := models.Invitation{}
			if err := json.Unmarshal(raw, &invitation); err != nil {
				return nil, fmt.Errorf("failed to decode invitation %s: %w", id, err)
			}
			if invitation.Email != normalized || invitation.Status != models.InvitationPending || invitation.Expired(now) {
				continue
			}

			metadata := models.EventMetadata{}
			if err := s.store.Get(ctx, "events/"+eventID+"/metadata", &metadata); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					continue
				}
				return nil, fmt.Errorf("failed to read event %s: %w", eventID, err)
			}

			name := metadata.Name
			if name == "" {
				name = "Unnamed Event"
			}
			eventType := metadata.Type
			if eventType == "" {
				eventType = "general"
			}

			pending = append(pending, models.PendingInvitation{
				Invitation:    invitation,
				EventName:     name,
				EventType:     eventType,
				EventDates:    metadata.Dates,
				EventLocation: metadata.Location,
			})
		}
	}

	sort.Slice(pending, func(i, j int) bool {
		if pending[i].InvitedAt != pending[j].InvitedAt {
			return pending[i].InvitedAt > pending[j].InvitedAt
		}
		return pending[i].ID < pending[j].ID
	})
	return pending, nil
}

// Subscribe invokes onChange with the event's live invitation list (expired
// filtered) after every change.
func (s *GuestService) Subscribe(eventID string, onChange func([]models.Invitation)) store.CancelFunc {
	return s.store.Subscribe("invitations/"+eventID, func() {
		invitations, err := s.EventInvitations(context.Background(), eventID)
		if err != nil {
			slog.Error("Failed to reload invitations", "event_id", eventID, "error", err)
			return
		}
		onChange(invitations)
	})
}
