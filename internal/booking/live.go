package booking

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/buildquick/booking-api/internal/calendly"
	"github.com/buildquick/booking-api/internal/scheduling"
	"github.com/buildquick/booking-api/pkg/logging"
)

// LiveService books through the scheduling provider. The provider completes
// bookings on its own page, so a successful create returns a single-use
// scheduling link with the invitee's details prefilled. When the provider is
// down the caller still gets a redirect: the public scheduling page, flagged
// as a fallback, so the user is never left stuck on an error screen.
type LiveService struct {
	client            *calendly.Client
	schedulingPageURL string
	logger            *logging.Logger
}

// NewLiveService creates a provider-backed booking service.
// schedulingPageURL is the provider's public booking page used for degraded
// fallback redirects; empty disables the fallback.
func NewLiveService(client *calendly.Client, schedulingPageURL string, logger *logging.Logger) *LiveService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LiveService{
		client:            client,
		schedulingPageURL: strings.TrimSpace(schedulingPageURL),
		logger:            logger,
	}
}

// Create validates the request, resolves the event type, and mints a
// single-use scheduling link with the invitee prefilled.
func (s *LiveService) Create(ctx context.Context, req scheduling.BookingRequest) (*scheduling.BookingConfirmation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, &scheduling.ValidationError{Missing: []string{"start_time"}}
	}

	eventType, err := s.client.GetEventType(ctx, req.EventTypeURI)
	if err != nil {
		return s.fallback(req, start, err)
	}

	link, err := s.client.CreateSchedulingLink(ctx, req.EventTypeURI)
	if err != nil {
		return s.fallback(req, start, err)
	}

	duration := time.Duration(eventType.Duration) * time.Minute
	if duration <= 0 {
		duration = mockMeetingDuration
	}
	return &scheduling.BookingConfirmation{
		URI:         link.BookingURL,
		Name:        eventType.Name,
		Status:      "active",
		StartTime:   start,
		EndTime:     start.Add(duration),
		RedirectURL: prefillURL(link.BookingURL, req, start),
	}, nil
}

// fallback degrades an upstream failure to a redirect at the public
// scheduling page. Only when no page is configured does the error surface.
func (s *LiveService) fallback(req scheduling.BookingRequest, start time.Time, cause error) (*scheduling.BookingConfirmation, error) {
	if s.schedulingPageURL == "" {
		return nil, cause
	}
	s.logger.Error("booking creation degraded to scheduling page redirect", "error", cause)
	return &scheduling.BookingConfirmation{
		Status:      "active",
		StartTime:   start,
		EndTime:     start.Add(mockMeetingDuration),
		RedirectURL: prefillURL(s.schedulingPageURL, req, start),
		Fallback:    true,
	}, nil
}

// prefillURL appends the invitee's name, email, and chosen date to a booking
// page URL so the provider's form comes up pre-filled.
func prefillURL(base string, req scheduling.BookingRequest, start time.Time) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("name", req.Name)
	q.Set("email", req.Email)
	q.Set("date", start.UTC().Format("2006-01-02"))
	u.RawQuery = q.Encode()
	return u.String()
}
