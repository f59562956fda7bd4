package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/buildquick/booking-api/internal/store"
	"github.com/buildquick/booking-api/pkg/logging"
)

// AdminStore is the read surface the admin endpoints need.
type AdminStore interface {
	ListBookings(ctx context.Context, limit int) ([]store.BookingRecord, error)
	ListWebhookEvents(ctx context.Context, limit int) ([]store.WebhookEventRecord, error)
}

// AdminHandler serves read-only listings for operators.
type AdminHandler struct {
	store  AdminStore
	logger *logging.Logger
}

func NewAdminHandler(s AdminStore, logger *logging.Logger) *AdminHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminHandler{store: s, logger: logger}
}

func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence is not configured")
		return
	}
	bookings, err := h.store.ListBookings(r.Context(), limitParam(r))
	if err != nil {
		h.logger.Error("admin booking listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if bookings == nil {
		bookings = []store.BookingRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (h *AdminHandler) ListWebhookEvents(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence is not configured")
		return
	}
	events, err := h.store.ListWebhookEvents(r.Context(), limitParam(r))
	if err != nil {
		h.logger.Error("admin webhook event listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if events == nil {
		events = []store.WebhookEventRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func limitParam(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
