package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"sosdesk/internal/domain"
)

type WebhookConfig struct {
	URL        string
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
}

// WebhookNotifier posts each notification to an external mail/SMS gateway.
type WebhookNotifier struct {
	cfg    WebhookConfig
	http   *http.Client
	logger *slog.Logger
}

func NewWebhookNotifier(cfg WebhookConfig, logger *slog.Logger) *WebhookNotifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Second
	}
	return &WebhookNotifier{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type webhookBody struct {
	Recipient domain.Recipient           `json:"recipient"`
	Payload   domain.NotificationPayload `json:"payload"`
}

func (n *WebhookNotifier) Send(ctx context.Context, to domain.Recipient, p domain.NotificationPayload) error {
	const op = "notify.WebhookNotifier.Send"

	body, err := json.Marshal(webhookBody{Recipient: to, Payload: p})
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}

	var lastErr error
	for attempt := 1; attempt <= n.cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		lastErr = n.post(ctx, body)
		if lastErr == nil {
			return nil
		}

		n.logger.Warn("webhook failed",
			slog.Int("attempt", attempt),
			slog.String("url", n.cfg.URL),
			slog.String("recipient", to.Name),
			slog.String("reason", lastErr.Error()),
		)

		if attempt < n.cfg.MaxRetries {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%s: %w", op, ctx.Err())
			case <-time.After(time.Duration(attempt) * n.cfg.Backoff):
			}
		}
	}
	return fmt.Errorf("%s: gave up after %d attempts: %w", op, n.cfg.MaxRetries, lastErr)
}

func (n *WebhookNotifier) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}
