package availability

import (
	"context"
	"time"

	"github.com/buildquick/booking-api/internal/calendly"
	"github.com/buildquick/booking-api/internal/scheduling"
	"github.com/buildquick/booking-api/pkg/logging"
)

// LiveService reads availability from the scheduling provider. Upstream auth
// failures on these read paths degrade to the mock generator when fallback is
// enabled, so availability browsing never hard-fails while credentials are
// being sorted out. Fallback requires an explicit opt-in in production.
type LiveService struct {
	client        *calendly.Client
	organization  string
	mock          *MockService
	allowFallback bool
	logger        *logging.Logger
}

// NewLiveService creates a provider-backed availability service.
func NewLiveService(client *calendly.Client, organization string, mock *MockService, allowFallback bool, logger *logging.Logger) *LiveService {
	if logger == nil {
		logger = logging.Default()
	}
	if mock == nil {
		mock = NewMockService(nil)
	}
	return &LiveService{
		client:        client,
		organization:  organization,
		mock:          mock,
		allowFallback: allowFallback,
		logger:        logger,
	}
}

// Source reports "live".
func (s *LiveService) Source() string { return "live" }

// ListEventTypes fetches the organization's event types from the provider.
func (s *LiveService) ListEventTypes(ctx context.Context) (*scheduling.EventTypeList, error) {
	list, err := s.client.GetEventTypes(ctx, s.organization)
	if err == nil {
		return list, nil
	}
	if fallback := s.fallbackFor(err, "event types"); fallback {
		return s.mock.ListEventTypes(ctx)
	}
	return nil, err
}

// ListTimes fetches bookable slots from the provider.
func (s *LiveService) ListTimes(ctx context.Context, eventTypeURI string, start, end time.Time) (*scheduling.TimeSlotList, error) {
	list, err := s.client.GetAvailableTimes(ctx, eventTypeURI, start, end)
	if err == nil {
		return list, nil
	}
	if fallback := s.fallbackFor(err, "availability"); fallback {
		return s.mock.ListTimes(ctx, eventTypeURI, start, end)
	}
	return nil, err
}

// fallbackFor decides whether a live read error degrades to mock data. A 401
// always degrades when fallback is enabled; other upstream failures degrade
// too, but every degradation is logged so misconfiguration stays visible.
func (s *LiveService) fallbackFor(err error, operation string) bool {
	if !s.allowFallback {
		return false
	}
	if scheduling.IsUnauthorized(err) {
		s.logger.Warn("provider rejected credentials, serving mock data", "operation", operation, "error", err)
		return true
	}
	s.logger.Error("provider request failed, serving mock data", "operation", operation, "error", err)
	return true
}
