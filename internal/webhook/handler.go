package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/buildquick/booking-api/internal/observability/metrics"
	"github.com/buildquick/booking-api/internal/scheduling"
	"github.com/buildquick/booking-api/pkg/logging"
)

// Header names the provider sends with every delivery.
const (
	SignatureHeader = "Calendly-Webhook-Signature"
	TimestampHeader = "Calendly-Webhook-Timestamp"
)

// Recorder receives verified invitee lifecycle events. Implementations must
// tolerate duplicate deliveries.
type Recorder interface {
	RecordInviteeEvent(ctx context.Context, evt scheduling.WebhookEvent) error
}

// LogRecorder is the no-store fallback: it logs the event and drops it.
type LogRecorder struct {
	Logger *logging.Logger
}

func (l LogRecorder) RecordInviteeEvent(_ context.Context, evt scheduling.WebhookEvent) error {
	logger := l.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger.Info("webhook event received",
		"event", evt.Event,
		"invitee_email", evt.Payload.Invitee.Email,
		"scheduled_event", evt.Payload.Event)
	return nil
}

// Handler verifies and dispatches provider webhook deliveries.
type Handler struct {
	secret   []byte
	recorder Recorder
	metrics  *metrics.SchedulingMetrics
	logger   *logging.Logger
}

func NewHandler(signingSecret string, recorder Recorder, m *metrics.SchedulingMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if recorder == nil {
		recorder = LogRecorder{Logger: logger}
	}
	return &Handler{secret: []byte(signingSecret), recorder: recorder, metrics: m, logger: logger}
}

// Handle processes a single delivery. Missing signature headers are a 400,
// a signature mismatch is a 401 and the body is never parsed, and verified
// events with an unknown tag are acknowledged without side effects.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if len(h.secret) == 0 {
		h.logger.Error("webhook signing secret is not configured")
		h.metrics.ObserveWebhook("unknown", "not_configured")
		writeError(w, http.StatusInternalServerError, scheduling.NotConfigured("webhook signing secret").Error())
		return
	}

	signature := r.Header.Get(SignatureHeader)
	timestamp := r.Header.Get(TimestampHeader)
	if signature == "" || timestamp == "" {
		h.metrics.ObserveWebhook("unknown", "missing_headers")
		writeError(w, http.StatusBadRequest, "missing webhook signature headers")
		return
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		h.metrics.ObserveWebhook("unknown", "bad_body")
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	if !Verify(payload, signature, timestamp, h.secret) {
		h.logger.Warn("webhook signature mismatch", "timestamp", timestamp)
		h.metrics.ObserveWebhook("unknown", "invalid_signature")
		writeError(w, http.StatusUnauthorized, "invalid webhook signature")
		return
	}

	var evt scheduling.WebhookEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		h.logger.Error("failed to decode webhook event", "error", err)
		h.metrics.ObserveWebhook("unknown", "malformed")
		writeError(w, http.StatusBadRequest, "malformed webhook payload")
		return
	}

	switch evt.Event {
	case scheduling.EventInviteeCreated, scheduling.EventInviteeCanceled:
		if err := h.recorder.RecordInviteeEvent(r.Context(), evt); err != nil {
			// Acknowledge anyway; the provider retries on 5xx and the
			// delivery was authentic.
			h.logger.Error("failed to record webhook event", "error", err, "event", evt.Event)
			h.metrics.ObserveWebhook(evt.Event, "record_failed")
		} else {
			h.metrics.ObserveWebhook(evt.Event, "recorded")
		}
	default:
		h.logger.Info("ignoring webhook event", "event", evt.Event)
		h.metrics.ObserveWebhook(evt.Event, "ignored")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
