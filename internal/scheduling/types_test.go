package scheduling

import (
	"errors"
	"testing"
	"time"
)

func TestBookingRequestValidate(t *testing.T) {
	valid := BookingRequest{
		EventTypeURI: "https://api.calendly.com/event_types/mock-id-1",
		StartTime:    "2025-03-10T15:00:00Z",
		Name:         "Jane Doe",
		Email:        "jane@example.com",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid request failed validation: %v", err)
	}

	cases := []struct {
		field  string
		mutate func(*BookingRequest)
	}{
		{"event_type_uri", func(r *BookingRequest) { r.EventTypeURI = "" }},
		{"start_time", func(r *BookingRequest) { r.StartTime = "  " }},
		{"name", func(r *BookingRequest) { r.Name = "" }},
		{"email", func(r *BookingRequest) { r.Email = "" }},
	}
	for _, tc := range cases {
		req := valid
		tc.mutate(&req)
		err := req.Validate()
		if err == nil {
			t.Fatalf("expected validation failure for missing %s", tc.field)
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected ValidationError, got %T", err)
		}
		if len(ve.Missing) != 1 || ve.Missing[0] != tc.field {
			t.Fatalf("expected missing fields [%s], got %v", tc.field, ve.Missing)
		}
	}
}

func TestAccessTokenExpiresAt(t *testing.T) {
	tok := AccessToken{CreatedAt: 1700000000, ExpiresIn: 7200}
	want := time.Unix(1700000000, 0).Add(2 * time.Hour)
	if !tok.ExpiresAt().Equal(want) {
		t.Fatalf("ExpiresAt() = %v, want %v", tok.ExpiresAt(), want)
	}
}

func TestIsUnauthorized(t *testing.T) {
	if !IsUnauthorized(&AuthError{Status: 401}) {
		t.Fatal("auth 401 should be unauthorized")
	}
	if !IsUnauthorized(&UpstreamError{Operation: "availability", Status: 401}) {
		t.Fatal("upstream 401 should be unauthorized")
	}
	if IsUnauthorized(&UpstreamError{Operation: "availability", Status: 503}) {
		t.Fatal("503 should not be unauthorized")
	}
	if IsUnauthorized(errors.New("boom")) {
		t.Fatal("plain error should not be unauthorized")
	}
}
