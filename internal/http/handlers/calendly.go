package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/buildquick/booking-api/internal/availability"
	"github.com/buildquick/booking-api/internal/booking"
	"github.com/buildquick/booking-api/internal/calendly"
	"github.com/buildquick/booking-api/internal/notify"
	"github.com/buildquick/booking-api/internal/observability/metrics"
	"github.com/buildquick/booking-api/internal/scheduling"
	"github.com/buildquick/booking-api/internal/webhook"
	"github.com/buildquick/booking-api/pkg/logging"
)

// CalendlyHandler serves the single scheduling endpoint. The action query
// parameter selects the operation; dispatch goes through a lookup table.
type CalendlyHandler struct {
	availability availability.Service
	bookings     booking.Service
	oauth        *calendly.OAuthService
	webhooks     *webhook.Handler
	mailer       *notify.ConfirmationMailer
	saver        BookingSaver
	metrics      *metrics.SchedulingMetrics
	logger       *logging.Logger

	getActions  map[string]http.HandlerFunc
	postActions map[string]http.HandlerFunc
}

// BookingSaver persists confirmed bookings. Optional.
type BookingSaver interface {
	SaveBooking(ctx context.Context, req scheduling.BookingRequest, conf *scheduling.BookingConfirmation) (uuid.UUID, error)
}

func NewCalendlyHandler(
	avail availability.Service,
	bookings booking.Service,
	oauth *calendly.OAuthService,
	webhooks *webhook.Handler,
	mailer *notify.ConfirmationMailer,
	saver BookingSaver,
	m *metrics.SchedulingMetrics,
	logger *logging.Logger,
) *CalendlyHandler {
	if logger == nil {
		logger = logging.Default()
	}
	h := &CalendlyHandler{
		availability: avail,
		bookings:     bookings,
		oauth:        oauth,
		webhooks:     webhooks,
		mailer:       mailer,
		saver:        saver,
		metrics:      m,
		logger:       logger,
	}
	h.getActions = map[string]http.HandlerFunc{
		"oauth-callback": h.handleOAuthCallback,
		"eventTypes":     h.handleEventTypes,
		"availability":   h.handleAvailability,
	}
	h.postActions = map[string]http.HandlerFunc{
		"create-booking": h.handleCreateBooking,
		"webhook":        h.handleWebhook,
	}
	return h
}

func (h *CalendlyHandler) Handle(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")
	if action == "" {
		writeError(w, http.StatusBadRequest, "missing action parameter")
		return
	}

	var table map[string]http.HandlerFunc
	switch r.Method {
	case http.MethodGet:
		table = h.getActions
	case http.MethodPost:
		table = h.postActions
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	fn, ok := table[action]
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown action: "+action)
		return
	}

	start := time.Now()
	fn(w, r)
	h.metrics.ObserveActionLatency(action, time.Since(start).Seconds())
}

func (h *CalendlyHandler) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing code parameter")
		return
	}
	// The exchanged token stays server-side; the browser only needs an
	// acknowledgement.
	if _, err := h.oauth.ExchangeCode(r.Context(), code); err != nil {
		h.logger.Error("oauth code exchange failed", "error", err)
		writeSchedulingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Authentication successful",
	})
}

func (h *CalendlyHandler) handleEventTypes(w http.ResponseWriter, r *http.Request) {
	list, err := h.availability.ListEventTypes(r.Context())
	if err != nil {
		h.logger.Error("event type listing failed", "error", err)
		writeSchedulingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *CalendlyHandler) handleAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	eventTypeURI := q.Get("eventTypeUri")
	startStr := q.Get("startTime")
	endStr := q.Get("endTime")
	if eventTypeURI == "" || startStr == "" || endStr == "" {
		writeError(w, http.StatusBadRequest, "eventTypeUri, startTime and endTime are required")
		return
	}
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startTime: must be ISO 8601")
		return
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endTime: must be ISO 8601")
		return
	}

	list, err := h.availability.ListTimes(r.Context(), eventTypeURI, start, end)
	if err != nil {
		h.metrics.ObserveAvailability(h.availability.Source(), "error")
		h.logger.Error("availability lookup failed", "error", err)
		writeSchedulingError(w, err)
		return
	}
	h.metrics.ObserveAvailability(h.availability.Source(), "ok")
	writeJSON(w, http.StatusOK, list)
}

func (h *CalendlyHandler) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req scheduling.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	conf, err := h.bookings.Create(r.Context(), req)
	if err != nil {
		h.metrics.ObserveBooking("failed", false)
		h.logger.Error("booking creation failed", "error", err)
		writeSchedulingError(w, err)
		return
	}
	h.metrics.ObserveBooking("created", conf.Fallback)

	if h.saver != nil {
		if _, err := h.saver.SaveBooking(r.Context(), req, conf); err != nil {
			h.logger.Error("failed to persist booking", "error", err)
		}
	}
	if h.mailer != nil {
		go h.mailer.SendConfirmation(context.WithoutCancel(r.Context()), req, conf)
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "booking": conf})
}

func (h *CalendlyHandler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	h.webhooks.Handle(w, r)
}

// HandleWebhookDirect serves the dedicated webhook route, bypassing the
// action dispatch. Provider subscriptions point here.
func (h *CalendlyHandler) HandleWebhookDirect(w http.ResponseWriter, r *http.Request) {
	h.webhooks.Handle(w, r)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeSchedulingError maps typed service errors onto the response envelope.
func writeSchedulingError(w http.ResponseWriter, err error) {
	var ve *scheduling.ValidationError
	if errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, ve.Error())
		return
	}
	if scheduling.IsUnauthorized(err) {
		writeError(w, http.StatusUnauthorized, "provider rejected credentials")
		return
	}
	if errors.Is(err, scheduling.ErrNotConfigured) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "internal server error")
}
