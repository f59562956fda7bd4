// Package store persists confirmed bookings and webhook invitee events.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildquick/booking-api/internal/scheduling"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is a thin repository over the bookings and webhook_events tables.
type Store struct {
	db querier
}

func New(pool *pgxpool.Pool) *Store {
	if pool == nil {
		panic("store: pgx pool required")
	}
	return &Store{db: pool}
}

func newWithQuerier(db querier) *Store {
	if db == nil {
		panic("store: querier required")
	}
	return &Store{db: db}
}

// BookingRecord is a persisted booking confirmation.
type BookingRecord struct {
	ID           uuid.UUID `json:"id"`
	URI          string    `json:"uri"`
	EventName    string    `json:"event_name"`
	InviteeName  string    `json:"invitee_name"`
	InviteeEmail string    `json:"invitee_email"`
	Status       string    `json:"status"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	LocationType string    `json:"location_type"`
	LocationURL  string    `json:"location_url,omitempty"`
	Fallback     bool      `json:"fallback"`
	CreatedAt    time.Time `json:"created_at"`
}

// WebhookEventRecord is a persisted invitee lifecycle notification.
type WebhookEventRecord struct {
	ID             uuid.UUID `json:"id"`
	Event          string    `json:"event"`
	InviteeURI     string    `json:"invitee_uri,omitempty"`
	InviteeName    string    `json:"invitee_name,omitempty"`
	InviteeEmail   string    `json:"invitee_email,omitempty"`
	ScheduledEvent string    `json:"scheduled_event,omitempty"`
	ReceivedAt     time.Time `json:"received_at"`
}

// SaveBooking inserts a confirmed booking together with the invitee details
// from the originating request.
func (s *Store) SaveBooking(ctx context.Context, req scheduling.BookingRequest, conf *scheduling.BookingConfirmation) (uuid.UUID, error) {
	id := uuid.New()
	query := `
		INSERT INTO bookings (id, uri, event_name, invitee_name, invitee_email, status, start_time, end_time, location_type, location_url, fallback)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.Exec(ctx, query,
		id, conf.URI, conf.Name, req.Name, req.Email, conf.Status,
		conf.StartTime, conf.EndTime, conf.Location.Type, conf.Location.JoinURL, conf.Fallback)
	if err != nil {
		return uuid.Nil, fmt.Errorf("store: insert booking: %w", err)
	}
	return id, nil
}

// ListBookings returns the most recent bookings, newest first.
func (s *Store) ListBookings(ctx context.Context, limit int) ([]BookingRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, uri, event_name, invitee_name, invitee_email, status, start_time, end_time, location_type, location_url, fallback, created_at
		FROM bookings
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list bookings: %w", err)
	}
	defer rows.Close()

	var out []BookingRecord
	for rows.Next() {
		var b BookingRecord
		if err := rows.Scan(&b.ID, &b.URI, &b.EventName, &b.InviteeName, &b.InviteeEmail, &b.Status,
			&b.StartTime, &b.EndTime, &b.LocationType, &b.LocationURL, &b.Fallback, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan booking: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list bookings: %w", err)
	}
	return out, nil
}

// RecordInviteeEvent stores a verified webhook delivery.
func (s *Store) RecordInviteeEvent(ctx context.Context, evt scheduling.WebhookEvent) error {
	query := `
		INSERT INTO webhook_events (id, event, invitee_uri, invitee_name, invitee_email, scheduled_event)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.Exec(ctx, query,
		uuid.New(), evt.Event,
		evt.Payload.Invitee.URI, evt.Payload.Invitee.Name, evt.Payload.Invitee.Email,
		evt.Payload.Event)
	if err != nil {
		return fmt.Errorf("store: insert webhook event: %w", err)
	}
	return nil
}

// ListWebhookEvents returns the most recent invitee events, newest first.
func (s *Store) ListWebhookEvents(ctx context.Context, limit int) ([]WebhookEventRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, event, invitee_uri, invitee_name, invitee_email, scheduled_event, received_at
		FROM webhook_events
		ORDER BY received_at DESC
		LIMIT $1
	`
	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list webhook events: %w", err)
	}
	defer rows.Close()

	var out []WebhookEventRecord
	for rows.Next() {
		var e WebhookEventRecord
		if err := rows.Scan(&e.ID, &e.Event, &e.InviteeURI, &e.InviteeName, &e.InviteeEmail, &e.ScheduledEvent, &e.ReceivedAt); err != nil {
			return nil, fmt.Errorf("store: scan webhook event: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list webhook events: %w", err)
	}
	return out, nil
}
