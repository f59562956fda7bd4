package availability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/buildquick/booking-api/internal/calendly"
	"github.com/buildquick/booking-api/internal/scheduling"
	"github.com/buildquick/booking-api/pkg/logging"
)

func newLiveFixture(t *testing.T, allowFallback bool, handler http.HandlerFunc) *LiveService {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	client := calendly.NewClient(calendly.StaticToken("tok"), logging.Default(), calendly.WithBaseURL(ts.URL))
	mock := NewMockService(fixedClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)))
	return NewLiveService(client, "org-1", mock, allowFallback, logging.Default())
}

func TestLiveListTimes_PassesThrough(t *testing.T) {
	svc := newLiveFixture(t, true, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"collection":[{"status":"available","start_time":"2025-03-10T15:00:00Z","end_time":"2025-03-10T15:30:00Z","invitees_remaining":1}],"pagination":{"count":1,"next_page":null}}`))
	})

	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	list, err := svc.ListTimes(context.Background(), "uri-1", start, start.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("ListTimes() error = %v", err)
	}
	if len(list.Collection) != 1 {
		t.Fatalf("len(slots) = %d, want 1 from provider", len(list.Collection))
	}
}

func TestLiveListTimes_FallsBackOn401(t *testing.T) {
	svc := newLiveFixture(t, true, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
	})

	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	list, err := svc.ListTimes(context.Background(), "uri-1", start, start.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("ListTimes() error = %v", err)
	}
	if len(list.Collection) != 16 {
		t.Fatalf("len(slots) = %d, want 16 mock slots", len(list.Collection))
	}
}

func TestLiveListTimes_NoFallbackSurfacesError(t *testing.T) {
	svc := newLiveFixture(t, false, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
	})

	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err := svc.ListTimes(context.Background(), "uri-1", start, start.Add(24*time.Hour))
	if err == nil {
		t.Fatal("expected error with fallback disabled")
	}
	if !scheduling.IsUnauthorized(err) {
		t.Fatalf("expected 401 error, got %v", err)
	}
}

func TestLiveListEventTypes_FallsBackOnServerError(t *testing.T) {
	svc := newLiveFixture(t, true, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})

	list, err := svc.ListEventTypes(context.Background())
	if err != nil {
		t.Fatalf("ListEventTypes() error = %v", err)
	}
	if len(list.Collection) != 3 {
		t.Fatalf("len(event types) = %d, want 3 mock types", len(list.Collection))
	}
}
