package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"signalboard/internal/config"
)

type TelegramSender struct {
	HTTP *http.Client

	cfg config.TelegramConfig
}

func NewTelegram(cfg config.TelegramConfig) *TelegramSender {
	return &TelegramSender{cfg: cfg}
}

type telegramSendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

func (s *TelegramSender) Name() string { return "telegram" }

func (s *TelegramSender) Send(ctx context.Context, text string) (int, error) {
	if s.cfg.BotToken == "" || s.cfg.ChatID == "" {
		return 0, fmt.Errorf("telegram: missing bot_token/chat_id")
	}
	base := strings.TrimRight(s.cfg.APIBase, "/")
	if base == "" {
		base = "https://api.telegram.org"
	}
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", base, url.PathEscape(s.cfg.BotToken))
	b, err := json.Marshal(telegramSendMessageRequest{ChatID: s.cfg.ChatID, Text: text})
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
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
