package models

// Privacy settings for an event.
const (
	PrivacyPublic     = "public"
	PrivacyPrivate    = "private"
	PrivacyInviteOnly = "invite-only"
)

// EventMetadata holds the descriptive fields of an event, stored under
// events/{id}/metadata and replaced as a whole on update.
type EventMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Dates is the free-form date range the organizer entered
	// (e.g. "2026-06-12 to 2026-06-14").
	Dates    string `json:"dates"`
	Location string `json:"location,omitempty"`

	// Type is the template key the event was created from
	// (general, birthday, vacation, business, wedding, party, weekend).
	Type string `json:"type"`

	CreatedBy string `json:"createdBy"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// EventFeatures toggles the collaborative sections of an event.
type EventFeatures struct {
	Meals     bool `json:"meals"`
	Expenses  bool `json:"expenses"`
	Itinerary bool `json:"itinerary"`
	Chat      bool `json:"chat"`
}

// EventSettings holds the behavioral configuration of an event, stored under
// events/{id}/settings.
type EventSettings struct {
	Privacy         string        `json:"privacy"`
	AllowEditing    bool          `json:"allowEditing"`
	RequireApproval bool          `json:"requireApproval"`
	Features        EventFeatures `json:"features"`
}

// Itinerary is the shared free-form plan for an event, stored under
// events/{id}/itinerary. Days maps a day key (e.g. "day-1", "friday") to its
// plan text; Notes holds event-wide notes. Field updates are read-merge-
// replace of the whole document.
type Itinerary struct {
	Notes string            `json:"notes"`
	Days  map[string]string `json:"days,omitempty"`
}

// Event is the assembled view of one event's full subtree. The store keeps
// each section under its own path; Event exists for API responses and for
// callers that need members together with metadata.
type Event struct {
	ID       string            `json:"id"`
	Metadata EventMetadata     `json:"metadata"`
	Settings EventSettings     `json:"settings"`
	Members  map[string]Member `json:"members"`
}

// MemberIDs returns the ids of the event's current members.
func (e *Event) MemberIDs() []string {
	ids := make([]string, 0, len(e.Members))
	for id := range e.Members {
		ids = append(ids, id)
	}
	return ids
}

// UserEventRef is the per-user event index entry stored under
// users/{userID}/events/{eventID}.
type UserEventRef struct {
	Role     Role  `json:"role"`
	JoinedAt int64 `json:"joinedAt"`
}

// EventSummary is a metadata view enriched with the caller's role, used for
// event lists.
type EventSummary struct {
	ID string `json:"id"`
	EventMetadata
	UserRole Role  `json:"userRole"`
	JoinedAt int64 `json:"joinedAt"`
}
