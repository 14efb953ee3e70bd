package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gatherly/internal/models"
	"gatherly/internal/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.DocStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "gatherly-service-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	s, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func newTestUser(t *testing.T, s *sqlite.DocStore, email, name string) *models.User {
	t.Helper()

	user := models.NewUser(email, name, "")
	if err := s.Set(context.Background(), "users/"+user.ID, user); err != nil {
		t.Fatalf("Failed to store user: %v", err)
	}
	return user
}

func createTestEvent(t *testing.T, s *sqlite.DocStore, creator *models.User, eventType string) *models.Event {
	t.Helper()

	events := NewEventService(s)
	event, err := events.Create(context.Background(), creator, CreateEventInput{
		Name:  "Cabin Weekend",
		Dates: "2026-10-02 to 2026-10-04",
		Type:  eventType,
	})
	if err != nil {
		t.Fatalf("Failed to create event: %v", err)
	}
	return event
}
