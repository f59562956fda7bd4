package scheduling

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotConfigured is returned when a live path is invoked without the
// credentials or identifiers it needs. Surfaced as a 500 and never retried.
var ErrNotConfigured = errors.New("scheduling: not configured")

// NotConfigured wraps ErrNotConfigured with the missing setting's name.
func NotConfigured(what string) error {
	return fmt.Errorf("%w: %s", ErrNotConfigured, what)
}

// ValidationError reports caller input that failed required-field checks.
// It never reaches the network layer.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required booking information: " + strings.Join(e.Missing, ", ")
}

// AuthError reports a rejected credential exchange or an authenticated call
// the provider refused. Status carries the upstream HTTP status.
type AuthError struct {
	Status int
	Body   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("provider auth failed: status %d", e.Status)
}

// UpstreamError reports a non-success provider response on a data operation.
type UpstreamError struct {
	Operation string
	Status    int
	Body      string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: provider returned %d", e.Operation, e.Status)
}

// IsUnauthorized reports whether err is an upstream 401, the one status the
// read paths treat as non-fatal.
func IsUnauthorized(err error) bool {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Status == 401
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Status == 401
	}
	return false
}
