// Package widget holds the server-side state machine behind the embedded
// scheduling widget. One controller instance backs one visitor session.
package widget

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/buildquick/booking-api/internal/availability"
	"github.com/buildquick/booking-api/internal/booking"
	"github.com/buildquick/booking-api/internal/scheduling"
	"github.com/buildquick/booking-api/pkg/logging"
)

// State names the screen the visitor is on.
type State string

const (
	StateCalendar     State = "calendar"
	StateConfirmation State = "confirmation"
	StateSuccess      State = "success"
)

var (
	ErrDayUnselectable  = errors.New("widget: day is not selectable")
	ErrNoDaySelected    = errors.New("widget: no day selected")
	ErrNoSlotSelected   = errors.New("widget: no slot selected")
	ErrSubmitInFlight   = errors.New("widget: a booking submit is already in flight")
	ErrWrongState       = errors.New("widget: operation not valid in current state")
	ErrSessionCompleted = errors.New("widget: session already completed")
)

// Snapshot is the view handed back to the frontend after every transition.
type Snapshot struct {
	State        State                           `json:"state"`
	SelectedDay  string                          `json:"selected_day,omitempty"`
	SelectedSlot *scheduling.TimeSlot            `json:"selected_slot,omitempty"`
	Confirmation *scheduling.BookingConfirmation `json:"confirmation,omitempty"`
	Error        string                          `json:"error,omitempty"`
	Submitting   bool                            `json:"submitting"`
}

// Controller drives calendar -> confirmation -> success. Transitions are
// serialized; a submit in flight blocks everything except observation.
type Controller struct {
	bookings     booking.Service
	availability availability.Service
	eventTypeURI string
	now          availability.Clock
	logger       *logging.Logger

	mu           sync.Mutex
	state        State
	selectedDay  time.Time
	selectedSlot *scheduling.TimeSlot
	confirmation *scheduling.BookingConfirmation
	lastError    string
	submitting   bool
}

func NewController(bookings booking.Service, avail availability.Service, eventTypeURI string, now availability.Clock, logger *logging.Logger) *Controller {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Controller{
		bookings:     bookings,
		availability: avail,
		eventTypeURI: eventTypeURI,
		now:          now,
		logger:       logger,
		state:        StateCalendar,
	}
}

// Selectable reports whether a calendar day can be chosen. Weekends and days
// before today are not.
func (c *Controller) Selectable(day time.Time) bool {
	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	now := c.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
	return !dayStart.Before(today)
}

// SelectDay picks a calendar day and stays on the calendar screen.
func (c *Controller) SelectDay(day time.Time) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateCalendar {
		return c.snapshotLocked(), ErrWrongState
	}
	if !c.Selectable(day) {
		return c.snapshotLocked(), ErrDayUnselectable
	}
	c.selectedDay = day
	c.selectedSlot = nil
	c.lastError = ""
	return c.snapshotLocked(), nil
}

// Slots lists available times for the selected day.
func (c *Controller) Slots(ctx context.Context) (*scheduling.TimeSlotList, error) {
	c.mu.Lock()
	day := c.selectedDay
	c.mu.Unlock()
	if day.IsZero() {
		return nil, ErrNoDaySelected
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return c.availability.ListTimes(ctx, c.eventTypeURI, start, start.AddDate(0, 0, 1))
}

// SelectSlot moves to the confirmation screen with the chosen time.
func (c *Controller) SelectSlot(slot scheduling.TimeSlot) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateCalendar {
		return c.snapshotLocked(), ErrWrongState
	}
	if c.selectedDay.IsZero() {
		return c.snapshotLocked(), ErrNoDaySelected
	}
	c.selectedSlot = &slot
	c.state = StateConfirmation
	c.lastError = ""
	return c.snapshotLocked(), nil
}

// Back returns from confirmation to the calendar. The selected day survives
// so the visitor does not have to navigate months again.
func (c *Controller) Back() (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateConfirmation {
		return c.snapshotLocked(), ErrWrongState
	}
	if c.submitting {
		return c.snapshotLocked(), ErrSubmitInFlight
	}
	c.state = StateCalendar
	c.selectedSlot = nil
	c.lastError = ""
	return c.snapshotLocked(), nil
}

// Submit creates the booking for the selected slot. Only one submit may run
// at a time; a duplicate click gets ErrSubmitInFlight and no second booking.
func (c *Controller) Submit(ctx context.Context, name, email string) (Snapshot, error) {
	c.mu.Lock()
	if c.state == StateSuccess {
		c.mu.Unlock()
		return c.snapshot(), ErrSessionCompleted
	}
	if c.state != StateConfirmation {
		c.mu.Unlock()
		return c.snapshot(), ErrWrongState
	}
	if c.submitting {
		c.mu.Unlock()
		return c.snapshot(), ErrSubmitInFlight
	}
	if c.selectedSlot == nil {
		c.mu.Unlock()
		return c.snapshot(), ErrNoSlotSelected
	}
	slot := *c.selectedSlot
	c.submitting = true
	c.lastError = ""
	c.mu.Unlock()

	conf, err := c.bookings.Create(ctx, scheduling.BookingRequest{
		EventTypeURI: c.eventTypeURI,
		StartTime:    slot.StartTime.Format(time.RFC3339),
		Name:         name,
		Email:        email,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		// Stay on confirmation so the visitor can retry.
		c.lastError = err.Error()
		c.logger.Warn("widget booking submit failed", "error", err)
		return c.snapshotLocked(), err
	}
	c.confirmation = conf
	c.state = StateSuccess
	return c.snapshotLocked(), nil
}

// Reset returns a completed or abandoned session to a blank calendar.
func (c *Controller) Reset() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return c.snapshotLocked()
	}
	c.state = StateCalendar
	c.selectedDay = time.Time{}
	c.selectedSlot = nil
	c.confirmation = nil
	c.lastError = ""
	return c.snapshotLocked()
}

// Snapshot returns the current view without transitioning.
func (c *Controller) Snapshot() Snapshot {
	return c.snapshot()
}

func (c *Controller) snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		State:        c.state,
		SelectedSlot: c.selectedSlot,
		Confirmation: c.confirmation,
		Error:        c.lastError,
		Submitting:   c.submitting,
	}
	if !c.selectedDay.IsZero() {
		s.SelectedDay = c.selectedDay.Format("2006-01-02")
	}
	return s
}
