package discord

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

type allowedMentions struct {
	Parse []string `json:"parse"`
}

type webhookPayload struct {
	Content         string           `json:"content"`
	Username        string           `json:"username,omitempty"`
	AvatarURL       string           `json:"avatar_url,omitempty"`
	AllowedMentions *allowedMentions `json:"allowed_mentions,omitempty"`
}

// Webhook - отправка сообщений через Discord webhook (POST JSON).
type Webhook struct {
	url           string
	http          *http.Client
	allowMentions bool
}

func NewWebhook(url string, allowMentions bool) *Webhook {
	return &Webhook{
		url:           url,
		http:          &http.Client{Timeout: 10 * time.Second},
		allowMentions: allowMentions,
	}
}

func (w *Webhook) Execute(ctx context.Context, msg WebhookMessage) error {
	payload := webhookPayload{
		Content:   msg.Content,
		Username:  msg.Username,
		AvatarURL: msg.AvatarURL,
	}
	if !w.allowMentions {
		payload.AllowedMentions = &allowedMentions{Parse: []string{}}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "encode webhook payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "build webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "webhook request")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode/100 != 2 {
		return eris.Errorf("webhook responded with %s", resp.Status)
	}
	return nil
}

func (w *Webhook) Close() error {
	w.http.CloseIdleConnections()
	return nil
}
