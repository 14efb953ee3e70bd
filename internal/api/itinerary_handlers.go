package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"gatherly/internal/models"
	"gatherly/internal/service"
)

type itineraryUpdateRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (s *Server) handleGetItinerary(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	if !s.requireMember(w, r, eventID, models.PermRead) {
		return
	}

	itinerary, err := service.NewItineraryService(s.store, eventID).Get(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itinerary)
}

func (s *Server) handleUpdateItinerary(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	if !s.requireMember(w, r, eventID, models.PermWrite) {
		return
	}

	var req itineraryUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	itinerary, err := service.NewItineraryService(s.store, eventID).UpdateField(r.Context(), req.Field, req.Value)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itinerary)
}
