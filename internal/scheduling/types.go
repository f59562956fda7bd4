// Package scheduling defines the domain types shared by the availability,
// booking, and webhook flows. The wire shapes mirror the Calendly API so the
// live and mock paths are interchangeable to callers.
package scheduling

import (
	"strings"
	"time"
)

// SlotStatus marks whether a time slot can still be booked.
type SlotStatus string

const (
	SlotAvailable   SlotStatus = "available"
	SlotUnavailable SlotStatus = "unavailable"
)

// EventType is a bookable meeting template. Immutable once fetched.
type EventType struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Duration    int    `json:"duration"` // minutes
	Slug        string `json:"slug"`
}

// TimeSlot is a concrete bookable interval. Slots are generated per query and
// never persisted; end - start always equals the event type's duration.
type TimeSlot struct {
	Status            SlotStatus `json:"status"`
	StartTime         time.Time  `json:"start_time"`
	EndTime           time.Time  `json:"end_time"`
	InviteesRemaining int        `json:"invitees_remaining"`
}

// Pagination is the collection envelope metadata the provider uses.
type Pagination struct {
	Count    int     `json:"count"`
	NextPage *string `json:"next_page"`
}

// EventTypeList is the collection envelope for event types.
type EventTypeList struct {
	Collection []EventType `json:"collection"`
	Pagination Pagination  `json:"pagination"`
}

// TimeSlotList is the collection envelope for availability queries.
type TimeSlotList struct {
	Collection []TimeSlot `json:"collection"`
	Pagination Pagination `json:"pagination"`
}

// BookingRequest carries the invitee's slot selection and contact details.
type BookingRequest struct {
	EventTypeURI string `json:"event_type_uri"`
	StartTime    string `json:"start_time"` // RFC 3339
	Name         string `json:"name"`
	Email        string `json:"email"`
	Message      string `json:"message,omitempty"`
}

// Validate checks the required fields. It must pass before any network call.
func (r BookingRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(r.EventTypeURI) == "" {
		missing = append(missing, "event_type_uri")
	}
	if strings.TrimSpace(r.StartTime) == "" {
		missing = append(missing, "start_time")
	}
	if strings.TrimSpace(r.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(r.Email) == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// Location describes where a scheduled meeting takes place.
type Location struct {
	Type    string `json:"type"`
	JoinURL string `json:"join_url,omitempty"`
}

// BookingConfirmation is the provider's record of a scheduled event, or a
// deterministic mock of one. Immutable once returned.
type BookingConfirmation struct {
	URI                string    `json:"uri"`
	Name               string    `json:"name"`
	Status             string    `json:"status"` // active | canceled
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	Location           Location  `json:"location"`
	CancellationPolicy string    `json:"cancellation_policy,omitempty"`
	InviteesCounter    int       `json:"invitees_counter"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// RedirectURL is set when the upstream requires the invitee to finish
	// booking on the provider's page; Fallback marks a degraded redirect
	// issued because the upstream call failed.
	RedirectURL string `json:"redirect_url,omitempty"`
	Fallback    bool   `json:"fallback,omitempty"`
}

// AccessToken is the provider's OAuth token response. Owned by the request
// context that acquired it; the cache layer keys it by credential identity.
type AccessToken struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
	CreatedAt    int64  `json:"created_at"`
	Organization string `json:"organization,omitempty"`
	Owner        string `json:"owner,omitempty"`
}

// ExpiresAt derives the absolute expiry from created_at + expires_in.
func (t AccessToken) ExpiresAt() time.Time {
	return time.Unix(t.CreatedAt, 0).Add(time.Duration(t.ExpiresIn) * time.Second)
}

// Webhook event tags the provider is known to send. Unknown tags are
// acknowledged and ignored.
const (
	EventInviteeCreated  = "invitee.created"
	EventInviteeCanceled = "invitee.canceled"
)

// WebhookInvitee is the invitee fragment of a webhook payload.
type WebhookInvitee struct {
	URI   string `json:"uri"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// WebhookPayload is the payload fragment of a webhook event.
type WebhookPayload struct {
	Invitee WebhookInvitee `json:"invitee"`
	Event   string         `json:"event,omitempty"`
}

// WebhookEvent is an asynchronous provider notification. Consumed once per
// delivery; no retry state is kept here.
type WebhookEvent struct {
	Event   string         `json:"event"`
	Payload WebhookPayload `json:"payload"`
}
