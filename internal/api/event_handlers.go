package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"gatherly/internal/format"
	"gatherly/internal/models"
	"gatherly/internal/service"
)

// requireMember checks the caller's permission on the event and writes the
// error response itself when the check fails.
func (s *Server) requireMember(w http.ResponseWriter, r *http.Request, eventID, perm string) bool {
	ok, err := s.events.CheckPermission(r.Context(), eventID, UserID(r.Context()), perm)
	if err != nil {
		serviceError(w, err)
		return false
	}
	if !ok {
		writeError(w, http.StatusForbidden, service.ErrPermissionDenied.Error())
		return false
	}
	return true
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var input service.CreateEventInput
	if !decodeJSON(w, r, &input) {
		return
	}

	creator, err := s.users.GetUserByID(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "user not found")
		return
	}

	event, err := s.events.Create(r.Context(), creator, input)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// eventSummaryPayload augments a dashboard entry with display strings.
type eventSummaryPayload struct {
	models.EventSummary
	CreatedAtDisplay string `json:"createdAtDisplay"`
	RoleDisplay      string `json:"roleDisplay"`
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.events.UserEvents(r.Context(), UserID(r.Context()))
	if err != nil {
		serviceError(w, err)
		return
	}

	payload := make([]eventSummaryPayload, 0, len(summaries))
	for _, summary := range summaries {
		payload = append(payload, eventSummaryPayload{
			EventSummary:     summary,
			CreatedAtDisplay: format.Date(summary.CreatedAt),
			RoleDisplay:      format.Role(summary.UserRole),
		})
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	if !s.requireMember(w, r, eventID, models.PermRead) {
		return
	}

	event, err := s.events.Get(r.Context(), eventID)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var update service.MetadataUpdate
	if !decodeJSON(w, r, &update) {
		return
	}

	metadata, err := s.events.UpdateMetadata(r.Context(), chi.URLParam(r, "eventID"), UserID(r.Context()), update)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metadata)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.events.Delete(r.Context(), chi.URLParam(r, "eventID"), UserID(r.Context())); err != nil {
		serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// memberPayload augments a member record with the display strings the
// roster view renders.
type memberPayload struct {
	models.Member
	Initials    string `json:"initials"`
	RoleDisplay string `json:"roleDisplay"`
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	if !s.requireMember(w, r, eventID, models.PermRead) {
		return
	}

	members, err := s.events.Members(r.Context(), eventID)
	if err != nil {
		serviceError(w, err)
		return
	}

	payload := make(map[string]memberPayload, len(members))
	for id, m := range members {
		payload[id] = memberPayload{
			Member:      m,
			Initials:    format.Initials(m.Name),
			RoleDisplay: format.Role(m.Role),
		}
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	memberID := chi.URLParam(r, "memberID")

	// Members may remove themselves; removing anyone else needs manage.
	if memberID != UserID(r.Context()) && !s.requireMember(w, r, eventID, models.PermManage) {
		return
	}

	if err := s.guests.RemoveMember(r.Context(), eventID, memberID); err != nil {
		serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
