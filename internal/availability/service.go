// Package availability resolves event types and bookable time slots, either
// from the live scheduling provider or from a deterministic mock generator.
package availability

import (
	"context"
	"time"

	"github.com/buildquick/booking-api/internal/scheduling"
)

// Service is the capability the HTTP layer books availability through. Live
// and Mock implementations are interchangeable; the mock doubles as the test
// fixture.
type Service interface {
	// ListEventTypes returns the bookable meeting templates.
	ListEventTypes(ctx context.Context) (*scheduling.EventTypeList, error)

	// ListTimes returns slots for the event type inside [start, end), in
	// ascending start-time order.
	ListTimes(ctx context.Context, eventTypeURI string, start, end time.Time) (*scheduling.TimeSlotList, error)

	// Source identifies the backing data source ("live" or "mock") for
	// logging and metric labels.
	Source() string
}

// Clock supplies the current time; injectable so the mock generator is pure.
type Clock func() time.Time
