package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"sosdesk/internal/domain"
	"sosdesk/internal/notify"
)

func TestWebhookNotifier_RetriesUntilSuccess(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type: %s", r.Header.Get("Content-Type"))
		}
		var body struct {
			Recipient domain.Recipient           `json:"recipient"`
			Payload   domain.NotificationPayload `json:"payload"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body.Recipient.Email != "mom@example.com" {
			t.Errorf("recipient: %+v", body.Recipient)
		}
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := notify.NewWebhookNotifier(notify.WebhookConfig{URL: srv.URL, MaxRetries: 3, Backoff: time.Millisecond}, newTestLogger())
	err := n.Send(context.Background(),
		domain.Recipient{Kind: domain.RecipientGuardian, ID: uuid.New(), Name: "Mom", Email: "mom@example.com"},
		domain.NotificationPayload{AlertID: uuid.New()},
	)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls.Load())
	}
}

func TestWebhookNotifier_GivesUp(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := notify.NewWebhookNotifier(notify.WebhookConfig{URL: srv.URL, MaxRetries: 3, Backoff: time.Millisecond}, newTestLogger())
	err := n.Send(context.Background(), domain.Recipient{Name: "Mom"}, domain.NotificationPayload{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestWebhookNotifier_StopsOnCancel(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n := notify.NewWebhookNotifier(notify.WebhookConfig{URL: srv.URL, MaxRetries: 5, Backoff: time.Hour}, newTestLogger())
	if err := n.Send(ctx, domain.Recipient{}, domain.NotificationPayload{}); err == nil {
		t.Fatalf("expected context error")
	}
}
