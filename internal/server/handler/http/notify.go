// Package http provides HTTP handlers for the notification relay.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/julimigwi/Task-Tracker/internal/models"
)

// NotifyService defines the relay operations required by the handlers.
type NotifyService interface {
	// Send relays one message and returns the recorded delivery.
	Send(ctx context.Context, channel models.Channel, recipient, message string) (models.Delivery, error)
	// Recent returns the newest delivery records.
	Recent(ctx context.Context, limit int) ([]models.Delivery, error)
}

// NotifyHandler handles notification relay requests.
type NotifyHandler struct {
	// NotifyService performs the underlying relay operations.
	NotifyService NotifyService
}

// NotifyRequest is the JSON payload for a notification. SMS callers
// send phoneNumber; other channels send recipient.
type NotifyRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Recipient   string `json:"recipient"`
	Message     string `json:"message"`
}

// Notify handles POST /notify and POST /notify/{channel} requests.
// The bare /notify path defaults to the sms channel. The relay
// responds 200 with the delivery record on success and 500 when the
// provider rejected or never received the message.
func (h *NotifyHandler) Notify(w http.ResponseWriter, r *http.Request) {
	channel := models.Channel(chi.URLParam(r, "channel"))
	if channel == "" {
		channel = models.ChannelSMS
	}
	if !channel.Valid() {
		http.Error(w, "unknown channel", http.StatusBadRequest)
		return
	}

	var req NotifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	recipient := req.Recipient
	if recipient == "" {
		recipient = req.PhoneNumber
	}
	if recipient == "" || req.Message == "" {
		http.Error(w, "recipient and message are required", http.StatusBadRequest)
		return
	}

	delivery, err := h.NotifyService.Send(r.Context(), channel, recipient, req.Message)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data":    delivery,
	})
}

// Deliveries handles GET /deliveries requests, returning the newest
// delivery records. The optional limit query defaults to 50.
func (h *NotifyHandler) Deliveries(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	deliveries, err := h.NotifyService.Recent(r.Context(), limit)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if deliveries == nil {
		deliveries = []models.Delivery{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(deliveries)
}

// Health handles GET /health requests.
func (h *NotifyHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
