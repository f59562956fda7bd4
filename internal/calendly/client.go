// Package calendly is a lightweight client for the Calendly REST API: event
// type listing, availability lookup, single-use scheduling links, and OAuth
// token acquisition.
package calendly

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/buildquick/booking-api/internal/scheduling"
	"github.com/buildquick/booking-api/pkg/logging"
)

const (
	defaultBaseURL = "https://api.calendly.com"
	defaultTimeout = 15 * time.Second
)

// TokenSource supplies the bearer token for API calls. Implementations are a
// static personal access token or the OAuth client-credentials flow behind
// the cache.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource wrapping a personal access token or API key.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	if strings.TrimSpace(string(t)) == "" {
		return "", scheduling.NotConfigured("calendly api key")
	}
	return string(t), nil
}

// Client is a Calendly REST API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, used by tests and sandboxes.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a Calendly API client.
func NewClient(tokens TokenSource, logger *logging.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		tokens: tokens,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetEventTypes lists the organization's event types.
func (c *Client) GetEventTypes(ctx context.Context, organization string) (*scheduling.EventTypeList, error) {
	if strings.TrimSpace(organization) == "" {
		return nil, scheduling.NotConfigured("calendly organization")
	}
	q := url.Values{"organization": {organization}}
	var out scheduling.EventTypeList
	if err := c.get(ctx, "event types", "/event_types?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetEventType fetches a single event type by its canonical URI.
func (c *Client) GetEventType(ctx context.Context, eventTypeURI string) (*scheduling.EventType, error) {
	var out struct {
		Resource scheduling.EventType `json:"resource"`
	}
	if err := c.getAbsolute(ctx, "event type", eventTypeURI, &out); err != nil {
		return nil, err
	}
	return &out.Resource, nil
}

// GetAvailableTimes returns bookable slots for an event type in [start, end).
func (c *Client) GetAvailableTimes(ctx context.Context, eventTypeURI string, start, end time.Time) (*scheduling.TimeSlotList, error) {
	q := url.Values{
		"event_type": {eventTypeURI},
		"start_time": {start.UTC().Format(time.RFC3339)},
		"end_time":   {end.UTC().Format(time.RFC3339)},
	}
	var out scheduling.TimeSlotList
	if err := c.get(ctx, "availability", "/event_type_available_times?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SchedulingLink is a single-use booking URL minted for one event type.
type SchedulingLink struct {
	BookingURL string `json:"booking_url"`
	Owner      string `json:"owner"`
	OwnerType  string `json:"owner_type"`
}

// CreateSchedulingLink mints a single-use scheduling link for the event type.
func (c *Client) CreateSchedulingLink(ctx context.Context, eventTypeURI string) (*SchedulingLink, error) {
	body := map[string]any{
		"max_event_count": 1,
		"owner":           eventTypeURI,
		"owner_type":      "EventType",
	}
	var out struct {
		Resource SchedulingLink `json:"resource"`
	}
	if err := c.post(ctx, "scheduling link", "/scheduling_links", body, &out); err != nil {
		return nil, err
	}
	return &out.Resource, nil
}

func (c *Client) get(ctx context.Context, operation, path string, out any) error {
	return c.getAbsolute(ctx, operation, c.baseURL+path, out)
}

func (c *Client) getAbsolute(ctx context.Context, operation, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("calendly: create request: %w", err)
	}
	return c.do(req, operation, out)
}

func (c *Client) post(ctx context.Context, operation, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("calendly: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("calendly: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, operation, out)
}

func (c *Client) do(req *http.Request, operation string, out any) error {
	token, err := c.tokens.Token(req.Context())
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calendly: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("calendly: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := string(respBody)
		if len(msg) > 300 {
			msg = msg[:300]
		}
		c.logger.Warn("calendly request failed",
			"operation", operation,
			"status", resp.StatusCode,
		)
		return &scheduling.UpstreamError{Operation: operation, Status: resp.StatusCode, Body: msg}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("calendly: unmarshal response: %w", err)
	}
	return nil
}
