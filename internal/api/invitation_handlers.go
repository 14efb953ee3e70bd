package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"gatherly/internal/format"
	"gatherly/internal/models"
)

type inviteRequest struct {
	Email   string      `json:"email"`
	Role    models.Role `json:"role"`
	Message string      `json:"message"`
}

func (s *Server) handleInvite(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	if !s.requireMember(w, r, eventID, models.PermInvite) {
		return
	}

	var req inviteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	invitation, err := s.guests.Invite(r.Context(), eventID, req.Email, req.Role, UserID(r.Context()), req.Message)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, invitation)
}

func (s *Server) handleEventInvitations(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	if !s.requireMember(w, r, eventID, models.PermInvite) {
		return
	}

	invitations, err := s.guests.EventInvitations(r.Context(), eventID)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invitations)
}

func (s *Server) handleAcceptInvitation(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetUserByID(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "user not found")
		return
	}

	member, err := s.guests.Accept(r.Context(), chi.URLParam(r, "eventID"), chi.URLParam(r, "invitationID"), user)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (s *Server) handleDeclineInvitation(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetUserByID(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "user not found")
		return
	}

	if err := s.guests.Decline(r.Context(), chi.URLParam(r, "eventID"), chi.URLParam(r, "invitationID"), user); err != nil {
		serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCancelInvitation(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	if !s.requireMember(w, r, eventID, models.PermInvite) {
		return
	}

	if err := s.guests.Cancel(r.Context(), eventID, chi.URLParam(r, "invitationID")); err != nil {
		serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pendingInvitationPayload augments an invitation with the display strings
// the inbox view renders. Long personal messages are truncated to a
// preview; the full text stays in the embedded record.
type pendingInvitationPayload struct {
	models.PendingInvitation
	RoleDisplay      string `json:"roleDisplay"`
	EventTypeDisplay string `json:"eventTypeDisplay"`
	InvitedAtDisplay string `json:"invitedAtDisplay"`
	MessagePreview   string `json:"messagePreview,omitempty"`
}

// handlePendingInvitations lists pending invitations addressed to the
// caller across all events.
func (s *Server) handlePendingInvitations(w http.ResponseWriter, r *http.Request) {
	pending, err := s.guests.UserPendingInvitations(r.Context(), Email(r.Context()))
	if err != nil {
		serviceError(w, err)
		return
	}

	now := time.Now()
	payload := make([]pendingInvitationPayload, 0, len(pending))
	for _, p := range pending {
		payload = append(payload, pendingInvitationPayload{
			PendingInvitation: p,
			RoleDisplay:       format.Role(p.Role),
			EventTypeDisplay:  format.TitleCase(p.EventType),
			InvitedAtDisplay:  format.RelativeTime(p.InvitedAt, now),
			MessagePreview:    format.Truncate(p.Message, 120),
		})
	}
	writeJSON(w, http.StatusOK, payload)
}
