package service

import (
	"context"
	"testing"

	"gatherly/internal/models"
)

func TestItineraryService(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := newTestUser(t, s, "alice@example.com", "Alice")
	event := createTestEvent(t, s, owner, "weekend")
	itineraries := NewItineraryService(s, event.ID)

	t.Run("Get returns the template-seeded document", func(t *testing.T) {
		itinerary, err := itineraries.Get(ctx)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if itinerary.Notes == "" {
			t.Error("notes should be seeded from the template")
		}
		for _, day := range []string{"friday", "saturday", "sunday"} {
			if _, ok := itinerary.Days[day]; !ok {
				t.Errorf("day %q missing: %v", day, itinerary.Days)
			}
		}
	})

	t.Run("Get of a missing itinerary reads as empty", func(t *testing.T) {
		empty, err := NewItineraryService(s, "no-such-event").Get(ctx)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if empty.Notes != "" || len(empty.Days) != 0 {
			t.Errorf("expected empty itinerary, got %+v", empty)
		}
	})

	t.Run("UpdateField requires a field name", func(t *testing.T) {
		if _, err := itineraries.UpdateField(ctx, "", "whatever"); err != ErrMissingField {
			t.Errorf("expected ErrMissingField, got %v", err)
		}
	})

	t.Run("UpdateField replaces one field and keeps the rest", func(t *testing.T) {
		if _, err := itineraries.UpdateField(ctx, "saturday", "Hike at 9am"); err != nil {
			t.Fatalf("UpdateField failed: %v", err)
		}
		updated, err := itineraries.UpdateField(ctx, "notes", "Carpool from the park-and-ride")
		if err != nil {
			t.Fatalf("UpdateField failed: %v", err)
		}
		if updated.Notes != "Carpool from the park-and-ride" {
			t.Errorf("notes = %q", updated.Notes)
		}
		if updated.Days["saturday"] != "Hike at 9am" {
			t.Errorf("earlier day edit lost: %v", updated.Days)
		}
	})

	t.Run("Subscribe observes field updates", func(t *testing.T) {
		var gotNotes string
		cancel := itineraries.Subscribe(func(it *models.Itinerary) {
			gotNotes = it.Notes
		})
		defer cancel()

		if _, err := itineraries.UpdateField(ctx, "notes", "Bring board games"); err != nil {
			t.Fatalf("UpdateField failed: %v", err)
		}
		if gotNotes != "Bring board games" {
			t.Errorf("subscriber saw %q", gotNotes)
		}
	})
}
