package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/julimigwi/Task-Tracker/internal/models"
)

// fakeNotifyService implements NotifyService for testing.
type fakeNotifyService struct {
	sendErr      error
	recentErr    error
	recentResult []models.Delivery

	lastChannel   models.Channel
	lastRecipient string
	sendCalls     int
}

func (f *fakeNotifyService) Send(ctx context.Context, channel models.Channel, recipient, message string) (models.Delivery, error) {
	f.sendCalls++
	f.lastChannel = channel
	f.lastRecipient = recipient
	d := models.Delivery{ID: "d1", Channel: channel, Recipient: recipient, Message: message, Status: models.DeliverySent}
	if f.sendErr != nil {
		d.Status = models.DeliveryFailed
		d.Error = f.sendErr.Error()
	}
	return d, f.sendErr
}

func (f *fakeNotifyService) Recent(ctx context.Context, limit int) ([]models.Delivery, error) {
	return f.recentResult, f.recentErr
}

func notifyRequest(channel, body string) *http.Request {
	req := httptest.NewRequest("POST", "/notify", bytes.NewBufferString(body))
	rctx := chi.NewRouteContext()
	if channel != "" {
		rctx.URLParams.Add("channel", channel)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestNotifyHandler_Notify(t *testing.T) {
	tests := []struct {
		name          string
		channel       string
		body          string
		service       *fakeNotifyService
		expectedCode  int
		expectedCalls int
	}{
		{
			name:         "invalid JSON",
			body:         `not json`,
			service:      &fakeNotifyService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "missing recipient",
			body:         `{"message":"hi"}`,
			service:      &fakeNotifyService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "missing message",
			body:         `{"phoneNumber":"254700000001"}`,
			service:      &fakeNotifyService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "unknown channel",
			channel:      "carrier-pigeon",
			body:         `{"phoneNumber":"254700000001","message":"hi"}`,
			service:      &fakeNotifyService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:          "provider failure",
			channel:       "sms",
			body:          `{"phoneNumber":"254700000001","message":"hi"}`,
			service:       &fakeNotifyService{sendErr: errors.New("gateway down")},
			expectedCode:  http.StatusInternalServerError,
			expectedCalls: 1,
		},
		{
			name:          "success",
			channel:       "sms",
			body:          `{"phoneNumber":"254700000001","message":"hi"}`,
			service:       &fakeNotifyService{},
			expectedCode:  http.StatusOK,
			expectedCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h := &NotifyHandler{NotifyService: tt.service}
			h.Notify(rec, notifyRequest(tt.channel, tt.body))

			if rec.Code != tt.expectedCode {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedCode, rec.Code, rec.Body.String())
			}
			if tt.service.sendCalls != tt.expectedCalls {
				t.Errorf("expected %d service calls, got %d", tt.expectedCalls, tt.service.sendCalls)
			}
		})
	}
}

func TestNotifyHandler_DefaultsToSMSAndPhoneNumber(t *testing.T) {
	service := &fakeNotifyService{}
	rec := httptest.NewRecorder()
	h := &NotifyHandler{NotifyService: service}

	h.Notify(rec, notifyRequest("", `{"phoneNumber":"254700000001","message":"hi"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if service.lastChannel != models.ChannelSMS {
		t.Errorf("expected sms channel, got %q", service.lastChannel)
	}
	if service.lastRecipient != "254700000001" {
		t.Errorf("expected phoneNumber as recipient, got %q", service.lastRecipient)
	}

	var payload struct {
		Success bool            `json:"success"`
		Data    models.Delivery `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.Success || payload.Data.Status != models.DeliverySent {
		t.Errorf("unexpected response payload: %+v", payload)
	}
}

func TestNotifyHandler_FailureResponseShape(t *testing.T) {
	service := &fakeNotifyService{sendErr: errors.New("gateway down")}
	rec := httptest.NewRecorder()
	h := &NotifyHandler{NotifyService: service}

	h.Notify(rec, notifyRequest("sms", `{"phoneNumber":"254700000001","message":"hi"}`))

	var payload struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Success || payload.Error != "gateway down" {
		t.Errorf("unexpected failure payload: %+v", payload)
	}
}

func TestNotifyHandler_Deliveries(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		service      *fakeNotifyService
		expectedCode int
		expectedLen  int
	}{
		{
			name:         "invalid limit",
			target:       "/deliveries?limit=zero",
			service:      &fakeNotifyService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "repository error",
			target:       "/deliveries",
			service:      &fakeNotifyService{recentErr: errors.New("db down")},
			expectedCode: http.StatusInternalServerError,
		},
		{
			name:         "empty log returns empty array",
			target:       "/deliveries",
			service:      &fakeNotifyService{},
			expectedCode: http.StatusOK,
			expectedLen:  0,
		},
		{
			name:   "records returned",
			target: "/deliveries?limit=2",
			service: &fakeNotifyService{recentResult: []models.Delivery{
				{ID: "d2"}, {ID: "d1"},
			}},
			expectedCode: http.StatusOK,
			expectedLen:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", tt.target, nil)
			h := &NotifyHandler{NotifyService: tt.service}
			h.Deliveries(rec, req)

			if rec.Code != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, rec.Code)
			}
			if tt.expectedCode == http.StatusOK {
				var got []models.Delivery
				if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if len(got) != tt.expectedLen {
					t.Errorf("expected %d deliveries, got %d", tt.expectedLen, len(got))
				}
			}
		})
	}
}

func TestNotifyHandler_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	h := &NotifyHandler{}
	h.Health(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["status"] != "ok" {
		t.Errorf("unexpected health payload: %v", payload)
	}
}
