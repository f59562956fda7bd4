package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/buildquick/booking-api/internal/scheduling"
)

const mockMeetingDuration = 30 * time.Minute

// MockService synthesizes booking confirmations without touching the
// provider. A simulated delay mimics the live path's perceived latency for
// manual testing; tests run with zero delay and a fixed clock.
type MockService struct {
	now   func() time.Time
	delay time.Duration
}

// NewMockService creates a mock booking service. A nil clock uses wall-clock
// time.
func NewMockService(now func() time.Time, delay time.Duration) *MockService {
	if now == nil {
		now = time.Now
	}
	return &MockService{now: now, delay: delay}
}

// Create validates the request and returns a deterministic confirmation:
// a 30-minute active meeting starting at the requested time.
func (s *MockService) Create(ctx context.Context, req scheduling.BookingRequest) (*scheduling.BookingConfirmation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, &scheduling.ValidationError{Missing: []string{"start_time"}}
	}

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	now := s.now()
	return &scheduling.BookingConfirmation{
		URI:                fmt.Sprintf("https://api.calendly.com/scheduled_events/mock-%d", now.UnixMilli()),
		Name:               "Scheduled Meeting",
		Status:             "active",
		StartTime:          start,
		EndTime:            start.Add(mockMeetingDuration),
		Location:           scheduling.Location{Type: "zoom", JoinURL: "https://zoom.us/j/123456789"},
		CancellationPolicy: "24_hours_before",
		InviteesCounter:    1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}
