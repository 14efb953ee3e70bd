package models

// Invitation statuses.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationDeclined = "declined"
)

// InvitationTTL is how long an invitation stays valid, in seconds (7 days).
const InvitationTTL int64 = 7 * 24 * 60 * 60

// Invitation represents an email invite to join an event, stored under
// invitations/{eventID}/{invitationID}.
type Invitation struct {
	ID      string `json:"id"`
	EventID string `json:"eventId"`

	// Email is stored lowercased and trimmed; acceptance requires the
	// authenticated user's email to match it.
	Email string `json:"email"`

	// Role the invitee will receive on acceptance.
	Role Role `json:"role"`

	// Message is an optional note from the inviter.
	Message string `json:"message,omitempty"`

	InvitedBy string `json:"invitedBy"`
	InvitedAt int64  `json:"invitedAt"`

	// Status is pending, accepted or declined. Status changes are
	// read-merge-replace of the whole record.
	Status     string `json:"status"`
	AcceptedAt int64  `json:"acceptedAt,omitempty"`
	DeclinedAt int64  `json:"declinedAt,omitempty"`

	// ExpiresAt is the Unix timestamp after which the invitation is
	// filtered out of listings and can no longer be accepted.
	ExpiresAt int64 `json:"expiresAt"`
}

// Expired reports whether the invitation is past its expiry at the given
// Unix timestamp.
func (i *Invitation) Expired(now int64) bool {
	return i.ExpiresAt <= now
}

// PendingInvitation is an invitation enriched with event metadata, returned
// when listing a user's invitations across all events.
type PendingInvitation struct {
	Invitation
	EventName     string `json:"eventName"`
	EventType     string `json:"eventType"`
	EventDates    string `json:"eventDates,omitempty"`
	EventLocation string `json:"eventLocation,omitempty"`
}
