// Package booking creates scheduled-event records, either against the live
// scheduling provider or from a deterministic mock generator.
package booking

import (
	"context"

	"github.com/buildquick/booking-api/internal/scheduling"
)

// Service is the booking-creation capability. Implementations validate the
// request before any network activity.
type Service interface {
	Create(ctx context.Context, req scheduling.BookingRequest) (*scheduling.BookingConfirmation, error)
}
