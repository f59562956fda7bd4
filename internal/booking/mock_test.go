package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/buildquick/booking-api/internal/scheduling"
)

func validRequest() scheduling.BookingRequest {
	return scheduling.BookingRequest{
		EventTypeURI: "uri-1",
		StartTime:    "2025-03-10T15:00:00Z",
		Name:         "Jane Doe",
		Email:        "jane@example.com",
	}
}

func TestMockCreate_Deterministic(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewMockService(func() time.Time { return now }, 0)

	conf, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if conf.Status != "active" {
		t.Fatalf("status = %s, want active", conf.Status)
	}
	wantStart := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	if !conf.StartTime.Equal(wantStart) {
		t.Fatalf("start = %v, want %v", conf.StartTime, wantStart)
	}
	if !conf.EndTime.Equal(wantStart.Add(30 * time.Minute)) {
		t.Fatalf("end = %v, want start+30m", conf.EndTime)
	}
	if conf.Location.Type != "zoom" || conf.Location.JoinURL == "" {
		t.Fatalf("location = %+v", conf.Location)
	}
	if conf.InviteesCounter != 1 {
		t.Fatalf("invitees_counter = %d, want 1", conf.InviteesCounter)
	}
	if !conf.CreatedAt.Equal(now) || !conf.UpdatedAt.Equal(now) {
		t.Fatalf("timestamps = %v/%v, want clock time", conf.CreatedAt, conf.UpdatedAt)
	}
}

func TestMockCreate_ValidationBeforeAnythingElse(t *testing.T) {
	svc := NewMockService(nil, time.Hour) // the delay would hang if validation didn't short-circuit

	req := validRequest()
	req.Email = ""
	done := make(chan error, 1)
	go func() {
		_, err := svc.Create(context.Background(), req)
		done <- err
	}()

	select {
	case err := <-done:
		var ve *scheduling.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("validation did not short-circuit the simulated delay")
	}
}

func TestMockCreate_BadStartTime(t *testing.T) {
	svc := NewMockService(nil, 0)
	req := validRequest()
	req.StartTime = "tomorrow at noon"

	_, err := svc.Create(context.Background(), req)
	var ve *scheduling.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for unparseable start, got %v", err)
	}
}

func TestMockCreate_DelayRespectsContext(t *testing.T) {
	svc := NewMockService(nil, time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := svc.Create(ctx, validRequest())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline error, got %v", err)
	}
}
