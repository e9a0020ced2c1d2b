package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"sosdesk/internal/domain"
	"sosdesk/pkg/metrics"

	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

// Dispatcher fans an SOS trigger out to every guardian and the assigned station.
// Delivery failures are counted, never returned.
type Dispatcher struct {
	notifier    Notifier
	method      string
	concurrency int
	logger      *slog.Logger
}

func NewDispatcher(notifier Notifier, method string, concurrency int, logger *slog.Logger) *Dispatcher {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Dispatcher{
		notifier:    notifier,
		method:      method,
		concurrency: concurrency,
		logger:      logger,
	}
}

func (d *Dispatcher) Notify(ctx context.Context, alert *domain.Alert, owner *domain.UserProfile, station *domain.Station, guardians []*domain.Guardian) domain.DispatchResult {
	res := domain.DispatchResult{Method: d.method}
	payload := BuildPayload(alert, owner)

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(d.concurrency)

	record := func(to domain.Recipient, err error) {
		mu.Lock()
		defer mu.Unlock()

		result := "ok"
		if err != nil {
			result = "failed"
			res.Errors = append(res.Errors, fmt.Sprintf("%s %s: %v", to.Kind, to.Name, err))
		}
		metrics.NotificationsTotal.WithLabelValues(d.method, string(to.Kind), result).Inc()

		switch to.Kind {
		case domain.RecipientGuardian:
			if err != nil {
				res.GuardiansFailed++
			} else {
				res.GuardiansNotified++
			}
		case domain.RecipientStation:
			res.StationNotified = err == nil
		}
	}

	for _, gd := range guardians {
		to := domain.Recipient{Kind: domain.RecipientGuardian, ID: gd.ID, Name: gd.Name, Email: gd.Email, Phone: gd.Phone}
		g.Go(func() error {
			record(to, d.notifier.Send(ctx, to, payload))
			return nil
		})
	}
	if station != nil {
		to := domain.Recipient{Kind: domain.RecipientStation, ID: station.ID, Name: station.Name, Phone: station.Helpline}
		g.Go(func() error {
			record(to, d.notifier.Send(ctx, to, payload))
			return nil
		})
	}
	_ = g.Wait()

	res.Degraded = len(res.Errors) > 0
	if res.Degraded {
		d.logger.Warn("sos dispatch degraded",
			slog.String("alert_id", alert.ID.String()),
			slog.Int("guardians_notified", res.GuardiansNotified),
			slog.Int("guardians_failed", res.GuardiansFailed),
		)
	}
	return res
}

// BuildPayload renders the email-style SOS body shared by every recipient.
func BuildPayload(alert *domain.Alert, owner *domain.UserProfile) domain.NotificationPayload {
	name, phone := "A user", ""
	if owner != nil {
		if owner.Name != "" {
			name = owner.Name
		}
		phone = owner.Phone
	}
	maps := fmt.Sprintf("https://www.google.com/maps?q=%.6f,%.6f", alert.Lat, alert.Lng)
	triggered := alert.CreatedAt.UTC()

	body := fmt.Sprintf(
		"%s has triggered an SOS alert.\nPhone: %s\nLocation: %.6f, %.6f\nMap: %s\nTime: %s",
		name, phone, alert.Lat, alert.Lng, maps, triggered.Format(time.RFC1123),
	)
	return domain.NotificationPayload{
		AlertID:     alert.ID,
		UserID:      alert.UserID,
		UserName:    name,
		UserPhone:   phone,
		Lat:         alert.Lat,
		Lng:         alert.Lng,
		MapsURL:     maps,
		Subject:     fmt.Sprintf("SOS: %s needs help", name),
		Body:        body,
		TriggeredAt: triggered,
	}
}
