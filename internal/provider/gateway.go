// Package provider talks to the external messaging gateway. The
// gateway is a black box: the relay only cares about success/failure.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/julimigwi/Task-Tracker/internal/models"
)

// Provider delivers one message over a channel.
type Provider interface {
	Deliver(ctx context.Context, channel models.Channel, recipient, message string) error
}

// Gateway is the HTTP client for the messaging provider.
type Gateway struct {
	url      string
	apiKey   string
	senderID string
	httpc    *http.Client
}

// NewGateway creates a Gateway for the provider at url, authenticating
// with apiKey and sending SMS under senderID.
func NewGateway(url, apiKey, senderID string) *Gateway {
	return &Gateway{
		url:      url,
		apiKey:   apiKey,
		senderID: senderID,
		httpc:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Deliver posts one message to the provider's channel endpoint.
func (g *Gateway) Deliver(ctx context.Context, channel models.Channel, recipient, message string) error {
	if channel == models.ChannelSMS && !strings.HasPrefix(recipient, "+") {
		recipient = "+" + recipient
	}

	body, err := json.Marshal(map[string]string{
		"to":      recipient,
		"from":    g.senderID,
		"message": message,
	})
	if err != nil {
		return fmt.Errorf("encode gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url+"/"+string(channel), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apiKey", g.apiKey)

	resp, err := g.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
