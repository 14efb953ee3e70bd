package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"gatherly/internal/models"
	"gatherly/internal/store"
	"gatherly/internal/templates"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrOwnerOnly        = errors.New("only event owners can delete events")
)

// ValidationError carries the user-facing messages for rejected input.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// EventService manages event lifecycles: creation from templates,
// metadata updates, membership and deletion.
type EventService struct {
	store store.Store
}

// NewEventService creates an event service backed by the given store.
func NewEventService(s store.Store) *EventService {
	return &EventService{store: s}
}

// CreateEventInput is the user-provided portion of a new event.
type CreateEventInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Dates       string `json:"dates"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Privacy     string `json:"privacy"`
}

// validate enforces the user-input limits. The limits guard user-entered
// data only; stored records are still read permissively.
func (in *CreateEventInput) validate() error {
	var msgs []string
	name := strings.TrimSpace(in.Name)
	if len(name) < 2 {
		msgs = append(msgs, "event name must be at least 2 characters long")
	}
	if len(in.Name) > 100 {
		msgs = append(msgs, "event name cannot exceed 100 characters")
	}
	if strings.TrimSpace(in.Dates) == "" {
		msgs = append(msgs, "event dates are required")
	}
	if len(in.Description) > 500 {
		msgs = append(msgs, "event description cannot exceed 500 characters")
	}
	if len(in.Location) > 200 {
		msgs = append(msgs, "event location cannot exceed 200 characters")
	}
	if in.Privacy != "" && in.Privacy != models.PrivacyPublic && in.Privacy != models.PrivacyPrivate && in.Privacy != models.PrivacyInviteOnly {
		msgs = append(msgs, "privacy setting must be public, private, or invite-only")
	}
	if in.Type != "" && !templates.Known(in.Type) {
		msgs = append(msgs, "event type is not valid")
	}
	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}

// Create builds a new event from its template: metadata, settings, the
// creator as owner, a seeded itinerary and any template sample meals and
// expenses. The event is also registered in the creator's event list.
func (s *EventService) Create(ctx context.Context, creator *models.User, input CreateEventInput) (*models.Event, error) {
	if creator == nil {
		return nil, ErrNotAuthenticated
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	if input.Type == "" {
		input.Type = "general"
	}
	tpl := templates.Get(input.Type)

	now := time.Now().Unix()
	eventID := uuid.New().String()
	base := "events/" + eventID

	metadata := models.EventMetadata{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Dates:       input.Dates,
		Location:    input.Location,
		Type:        input.Type,
		CreatedBy:   creator.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Set(ctx, base+"/metadata", metadata); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	settings := tpl.Settings
	if input.Privacy != "" {
		settings.Privacy = input.Privacy
	}
	if err := s.store.Set(ctx, base+"/settings", settings); err != nil {
		return nil, fmt.Errorf("failed to write event settings: %w", err)
	}

	owner := models.Member{
		Name:        creator.Name(),
		Email:       creator.Email,
		Role:        models.RoleOwner,
		Permissions: models.PermissionsForRole(models.RoleOwner),
		JoinedAt:    now,
	}
	if err := s.store.Set(ctx, base+"/members/"+creator.ID, owner); err != nil {
		return nil, fmt.Errorf("failed to add event owner: %w", err)
	}

	itinerary := models.Itinerary{Notes: tpl.ItineraryNotes, Days: make(map[string]string)}
	for _, day := range tpl.Days {
		itinerary.Days[day] = ""
	}
	if err := s.store.Set(ctx, base+"/itinerary", itinerary); err != nil {
		return nil, fmt.Errorf("failed to seed itinerary: %w", err)
	}

	if err := s.seedTemplateData(ctx, eventID, tpl, creator.ID); err != nil {
		return nil, err
	}

	if err := addEventToUser(ctx, s.store, creator.ID, eventID, models.RoleOwner); err != nil {
		return nil, err
	}

	slog.Info("Event created", "event_id", eventID, "name", metadata.Name, "type", metadata.Type, "created_by", creator.ID)

	return &models.Event{
		ID:       eventID,
		Metadata: metadata,
		Settings: settings,
		Members:  map[string]models.Member{creator.ID: owner},
	}, nil
}

func (s *EventService) seedTemplateData(ctx context.Context, eventID string, tpl templates.Template, userID string) error {
	meals := NewMealService(s.store, eventID)
	for _, seed := range tpl.SeedMeals {
		meal := models.Meal{
			Name:        seed.Name,
			Slot:        seed.Slot,
			Description: seed.Description,
			Day:         firstDay(tpl.Days),
		}
		if _, err := meals.Create(ctx, meal, userID); err != nil {
			return fmt.Errorf("failed to seed template meal: %w", err)
		}
	}

	expenses := NewExpenseService(s.store, eventID)
	for _, seed := range tpl.SeedExpenses {
		expense := models.Expense{
			Name:        seed.Name,
			Category:    seed.Category,
			Description: seed.Description,
		}
		if _, err := expenses.Create(ctx, expense, userID); err != nil {
			return fmt.Errorf("failed to seed template expense: %w", err)
		}
	}
	return nil
}

func firstDay(days []string) string {
	if len(days) > 0 {
		return days[0]
	}
	return "day-1"
}

// Get assembles an event from its stored sections.
func (s *EventService) Get(ctx context.Context, eventID string) (*models.Event, error) {
	base := "events/" + eventID

	event := &models.Event{ID: eventID}
	if err := s.store.Get(ctx, base+"/metadata", &event.Metadata); err != nil {
		return nil, ErrEventNotFound
	}
	if err := s.store.Get(ctx, base+"/settings", &event.Settings); err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to read event settings: %w", err)
	}

	members, err := s.Members(ctx, eventID)
	if err != nil {
		return nil, err
	}
	event.Members = members
	return event, nil
}

// Members returns the event's member map keyed by member id.
func (s *EventService) Members(ctx context.Context, eventID string) (map[string]models.Member, error) {
	children, err := s.store.Children(ctx, "events/"+eventID+"/members")
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	members := make(map[string]models.Member, len(children))
	for id, raw := range children {
		member := models.Member{}
		if err := json.Unmarshal(raw, &member); err != nil {
			return nil, fmt.Errorf("failed to decode member %s: %w", id, err)
		}
		members[id] = member
	}
	return members, nil
}

// UserEvents lists the events the user belongs to, newest first. Dangling
// references (event deleted but the ref not yet cleaned up) are skipped.
func (s *EventService) UserEvents(ctx context.Context, userID string) ([]models.EventSummary, error) {
	refs, err := s.store.Children(ctx, "users/"+userID+"/events")
	if err != nil {
		return nil, fmt.Errorf("failed to list user events: %w", err)
	}

	summaries := make([]models.EventSummary, 0, len(refs))
	for eventID, raw := range refs {
		ref := models.UserEventRef{}
		if err := json.Unmarshal(raw, &ref); err != nil {
			return nil, fmt.Errorf("failed to decode event ref %s: %w", eventID, err)
		}

		metadata := models.EventMetadata{}
		if err := s.store.Get(ctx, "events/"+eventID+"/metadata", &metadata); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to read event %s: %w", eventID, err)
		}

		summaries = append(summaries, models.EventSummary{
			ID:            eventID,
			EventMetadata: metadata,
			UserRole:      ref.Role,
			JoinedAt:      ref.JoinedAt,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt != summaries[j].CreatedAt {
			return summaries[i].CreatedAt > summaries[j].CreatedAt
		}
		return summaries[i].ID < summaries[j].ID
	})
	return summaries, nil
}

// MetadataUpdate holds the metadata fields an update may replace. Nil
// fields keep their stored values.
type MetadataUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Dates       *string `json:"dates"`
	Location    *string `json:"location"`
}

// UpdateMetadata merges the update over the stored metadata and replaces
// the whole document (read-before-write, last write wins). Requires the
// write permission.
func (s *EventService) UpdateMetadata(ctx context.Context, eventID, userID string, update MetadataUpdate) (*models.EventMetadata, error) {
	ok, err := s.CheckPermission(ctx, eventID, userID, models.PermWrite)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPermissionDenied
	}

	path := "events/" + eventID + "/metadata"
	metadata := models.EventMetadata{}
	if err := s.store.Get(ctx, path, &metadata); err != nil {
		return nil, ErrEventNotFound
	}

	if update.Name != nil {
		metadata.Name = *update.Name
	}
	if update.Description != nil {
		metadata.Description = *update.Description
	}
	if update.Dates != nil {
		metadata.Dates = *update.Dates
	}
	if update.Location != nil {
		metadata.Location = *update.Location
	}
	metadata.UpdatedAt = time.Now().Unix()

	if err := s.store.Set(ctx, path, metadata); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	slog.Info("Event updated", "event_id", eventID, "user_id", userID)
	return &metadata, nil
}

// Delete removes the event subtree and detaches it from every member's
// event list. Only the owner may delete.
func (s *EventService) Delete(ctx context.Context, eventID, userID string) error {
	member := models.Member{}
	if err := s.store.Get(ctx, "events/"+eventID+"/members/"+userID, &member); err != nil {
		return ErrOwnerOnly
	}
	if member.Role != models.RoleOwner {
		return ErrOwnerOnly
	}

	members, err := s.Members(ctx, eventID)
	if err != nil {
		return err
	}
	for memberID := range members {
		if err := s.store.Delete(ctx, "users/"+memberID+"/events/"+eventID); err != nil {
			return fmt.Errorf("failed to detach event from member %s: %w", memberID, err)
		}
	}

	if err := s.store.Delete(ctx, "events/"+eventID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	slog.Info("Event deleted", "event_id", eventID, "user_id", userID)
	return nil
}

// CheckPermission reports whether the user's membership grants the
// permission. Non-members have no permissions.
func (s *EventService) CheckPermission(ctx context.Context, eventID, userID, perm string) (bool, error) {
	member := models.Member{}
	if err := s.store.Get(ctx, "events/"+eventID+"/members/"+userID, &member); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read member: %w", err)
	}
	return member.Can(perm), nil
}

// Subscribe invokes onChange with the assembled event after every change
// anywhere in its subtree, or with nil when the event has been deleted.
func (s *EventService) Subscribe(eventID string, onChange func(*models.Event)) store.CancelFunc {
	return s.store.Subscribe("events/"+eventID, func() {
		event, err := s.Get(context.Background(), eventID)
		if err != nil {
			if errors.Is(err, ErrEventNotFound) {
				onChange(nil)
				return
			}
			slog.Error("Failed to reload event", "event_id", eventID, "error", err)
			return
		}
		onChange(event)
	})
}

// addEventToUser records the event in the user's event index.
func addEventToUser(ctx context.Context, s store.Store, userID, eventID string, role models.Role) error {
	ref := models.UserEventRef{Role: role, JoinedAt: time.Now().Unix()}
	if err := s.Set(ctx, "users/"+userID+"/events/"+eventID, ref); err != nil {
		return fmt.Errorf("failed to register event for user: %w", err)
	}
	return nil
}
