package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"signalboard/internal/config"
)

type DiscordSender struct {
	HTTP *http.Client

	cfg config.DiscordConfig
}

func NewDiscord(cfg config.DiscordConfig) *DiscordSender {
	return &DiscordSender{cfg: cfg}
}

type discordWebhookRequest struct {
	Content string `json:"content"`
}

func (s *DiscordSender) Name() string { return "discord" }

func (s *DiscordSender) Send(ctx context.Context, text string) (int, error) {
	if s.cfg.WebhookURL == "" {
		return 0, fmt.Errorf("discord: missing webhook_url")
	}
	b, err := json.Marshal(discordWebhookRequest{Content: text})
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.WebhookURL, bytes.NewReader(b))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := httpClient(s.HTTP).Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode, nil
}
