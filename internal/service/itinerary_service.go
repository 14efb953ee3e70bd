package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gatherly/internal/models"
	"gatherly/internal/store"
)

var ErrMissingField = errors.New("field name is required")

// ItineraryService manages one event's shared itinerary document.
type ItineraryService struct {
	store   store.Store
	eventID string
}

// NewItineraryService creates an itinerary service for the given event.
func NewItineraryService(s store.Store, eventID string) *ItineraryService {
	return &ItineraryService{store: s, eventID: eventID}
}

func (s *ItineraryService) path() string {
	return "events/" + s.eventID + "/itinerary"
}

// Get returns the current itinerary; a missing document reads as empty.
func (s *ItineraryService) Get(ctx context.Context) (*models.Itinerary, error) {
	itinerary := &models.Itinerary{}
	if err := s.store.Get(ctx, s.path(), itinerary); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &models.Itinerary{Days: make(map[string]string)}, nil
		}
		return nil, fmt.Errorf("failed to get itinerary: %w", err)
	}
	if itinerary.Days == nil {
		itinerary.Days = make(map[string]string)
	}
	return itinerary, nil
}

// UpdateField sets one itinerary field ("notes" or a day key) by merging
// into the current document and replacing it whole. Two concurrent editors
// of different fields can still lose an update to each other; that is the
// intended last-write-wins contract.
func (s *ItineraryService) UpdateField(ctx context.Context, field, value string) (*models.Itinerary, error) {
	if field == "" {
		return nil, ErrMissingField
	}

	itinerary, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if field == "notes" {
		itinerary.Notes = value
	} else {
		itinerary.Days[field] = value
	}

	if err := s.store.Set(ctx, s.path(), itinerary); err != nil {
		return nil, fmt.Errorf("failed to update itinerary: %w", err)
	}

	slog.Info("Itinerary updated", "event_id", s.eventID, "field", field)
	return itinerary, nil
}

// Subscribe invokes onChange with the current itinerary after every change.
func (s *ItineraryService) Subscribe(onChange func(*models.Itinerary)) store.CancelFunc {
	return s.store.Subscribe(s.path(), func() {
		itinerary, err := s.Get(context.Background())
		if err != nil {
			slog.Error("Failed to reload itinerary", "event_id", s.eventID, "error", err)
			return
		}
		onChange(itinerary)
	})
}
