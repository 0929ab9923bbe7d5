// Package telegram implements the notification channel over the Telegram
// Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/whalewatch/whale-alert/internal/adapter"
	"github.com/whalewatch/whale-alert/internal/domain"
	"github.com/whalewatch/whale-alert/internal/notify"
)

// Config holds Telegram Bot API configuration
type Config struct {
	Token      string
	ChatID     string
	APIBaseURL string
}

type client struct {
	cfg  Config
	http adapter.HTTPClient
}

// NewClient creates a Telegram notifier. Each Send is a single sendMessage
// call; retries are owned by the delivery worker's state machine.
func NewClient(cfg Config, httpClient adapter.HTTPClient) notify.Notifier {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "https://api.telegram.org"
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	return &client{cfg: cfg, http: httpClient}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send posts the message to the configured chat with Markdown rendering
func (c *client) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID:    c.cfg.ChatID,
		Text:      text,
		ParseMode: "Markdown",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal sendMessage request: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.cfg.APIBaseURL, c.cfg.Token)
	status, respBody, err := c.http.Post(ctx, url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("%w: unexpected status %d", domain.ErrDeliveryFailed, status)
	}

	var resp sendMessageResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrDeliveryFailed, err)
	}
	if !resp.OK {
		return fmt.Errorf("%w: telegram returned ok=false: %s", domain.ErrDeliveryFailed, resp.Description)
	}

	return nil
}
