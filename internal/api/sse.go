package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gatherly/internal/models"
)

// handleWatchEvent streams event snapshots over server-sent events. The
// client gets the current state immediately, then a fresh snapshot after
// every change anywhere under the event. A null snapshot means the event
// was deleted and the stream ends.
func (s *Server) handleWatchEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	if !s.requireMember(w, r, eventID, models.PermRead) {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	event, err := s.events.Get(r.Context(), eventID)
	if err != nil {
		serviceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Snapshots coalesce: only the latest unsent state matters.
	updates := make(chan *models.Event, 1)
	push := func(e *models.Event) {
		for {
			select {
			case updates <- e:
				return
			default:
				select {
				case <-updates:
				default:
				}
			}
		}
	}

	cancel := s.events.Subscribe(eventID, push)
	defer cancel()

	if !writeSSE(w, flusher, event) {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case snapshot := <-updates:
			if !writeSSE(w, flusher, snapshot) {
				return
			}
			if snapshot == nil {
				return
			}
		}
	}
}

func writeSSE(w http.ResponseWriter, flusher http.Flusher, event *models.Event) bool {
	data, err := json.Marshal(event)
	if err != nil {
		return false
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return false
	}
	flusher.Flush()
	return true
}
