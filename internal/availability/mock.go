package availability

import (
	"context"
	"time"

	"github.com/buildquick/booking-api/internal/scheduling"
)

const (
	mockDayStartHour = 9
	mockDayEndHour   = 17
	mockSlotMinutes  = 30
)

// MockService generates deterministic availability without touching the
// provider. Given a fixed clock it is pure, which makes it both the local
// development backend and the reference fixture for tests.
type MockService struct {
	now Clock
}

// NewMockService creates a mock availability service. A nil clock uses
// wall-clock time.
func NewMockService(now Clock) *MockService {
	if now == nil {
		now = time.Now
	}
	return &MockService{now: now}
}

// Source reports "mock".
func (s *MockService) Source() string { return "mock" }

// ListEventTypes returns the fixed mock meeting templates.
func (s *MockService) ListEventTypes(context.Context) (*scheduling.EventTypeList, error) {
	collection := []scheduling.EventType{
		{
			URI:         "https://api.calendly.com/event_types/mock-id-1",
			Name:        "15 Minute Meeting",
			Description: "A quick 15-minute introduction call",
			Duration:    15,
			Slug:        "15min",
		},
		{
			URI:         "https://api.calendly.com/event_types/mock-id-2",
			Name:        "30 Minute Meeting",
			Description: "A standard 30-minute meeting",
			Duration:    30,
			Slug:        "30min",
		},
		{
			URI:         "https://api.calendly.com/event_types/mock-id-3",
			Name:        "60 Minute Meeting",
			Description: "An in-depth 60-minute consultation",
			Duration:    60,
			Slug:        "60min",
		},
	}
	return &scheduling.EventTypeList{
		Collection: collection,
		Pagination: scheduling.Pagination{Count: len(collection)},
	}, nil
}

// ListTimes enumerates 30-minute slots between 09:00 and 17:00 on the
// calendar day containing start, keeping only slots strictly after "now".
// Slots come out in ascending start-time order.
func (s *MockService) ListTimes(_ context.Context, _ string, start, _ time.Time) (*scheduling.TimeSlotList, error) {
	now := s.now()
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())

	var slots []scheduling.TimeSlot
	for hour := mockDayStartHour; hour < mockDayEndHour; hour++ {
		for _, minute := range []int{0, 30} {
			slotStart := day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
			if !slotStart.After(now) {
				continue
			}
			slots = append(slots, scheduling.TimeSlot{
				Status:            scheduling.SlotAvailable,
				StartTime:         slotStart,
				EndTime:           slotStart.Add(mockSlotMinutes * time.Minute),
				InviteesRemaining: 1,
			})
		}
	}
	return &scheduling.TimeSlotList{
		Collection: slots,
		Pagination: scheduling.Pagination{Count: len(slots)},
	}, nil
}
