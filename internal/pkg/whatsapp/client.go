package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/avantix/ttw-backend-go/internal/config"
)

// Sender delivers a rendered text summary to a phone number. Delivery is
// fire-and-forget: callers must not fail their own operation on a send error.
type Sender interface {
	Send(ctx context.Context, phone string, text string) error
}

type gatewayClient struct {
	cfg    config.WhatsAppConfig
	client *http.Client
}

// NewGatewayClient creates a client for the configured WhatsApp HTTP gateway.
func NewGatewayClient(cfg config.WhatsAppConfig) Sender {
	return &gatewayClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type sendRequest struct {
	Phone string `json:"phone"`
	Text  string `json:"text"`
}

func (c *gatewayClient) Send(ctx context.Context, phone string, text string) error {
	// Skip sending if the gateway is not configured
	if c.cfg.GatewayURL == "" {
		slog.Warn("WhatsApp gateway not configured, skipping send", "phone", phone)
		return nil
	}
	if phone == "" {
		return nil
	}

	body, err := json.Marshal(sendRequest{Phone: phone, Text: text})
	if err != nil {
		return fmt.Errorf("failed to encode whatsapp message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GatewayURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build whatsapp request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach whatsapp gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("whatsapp gateway returned status %d", resp.StatusCode)
	}

	slog.Info("WhatsApp message sent", "phone", phone)
	return nil
}
