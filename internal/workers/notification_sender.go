package workers

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"sosdesk/internal/domain"
	"sosdesk/internal/notify"
	"sosdesk/pkg/e"
	"sosdesk/pkg/metrics"
)

//go:generate mockgen -source=notification_sender.go -destination=mocks/mock.go

type NotificationQueue interface {
	BRPop(ctx context.Context, timeout time.Duration) (domain.NotificationJob, error)
	DeadLetter(ctx context.Context, job domain.NotificationJob) error
}

// NotificationSender drains the notification queue and hands every job to
// the downstream notifier. Jobs the notifier rejects go to the dead letter list.
type NotificationSender struct {
	queue    NotificationQueue
	notifier notify.Notifier
	method   string
	poolSize int
	pollWait time.Duration
	logger   *slog.Logger
}

func NewNotificationSender(queue NotificationQueue, notifier notify.Notifier, method string, poolSize int, logger *slog.Logger) *NotificationSender {
	if poolSize <= 0 {
		poolSize = 1
	}
	return &NotificationSender{
		queue:    queue,
		notifier: notifier,
		method:   method,
		poolSize: poolSize,
		pollWait: 5 * time.Second,
		logger:   logger,
	}
}

func (s *NotificationSender) Run(ctx context.Context) {
	s.logger.Info("notification sender started", slog.Int("workers", s.poolSize), slog.String("method", s.method))

	var wg sync.WaitGroup
	for i := 0; i < s.poolSize; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.worker(ctx)
		}()
	}
	wg.Wait()

	s.logger.Info("notification sender stopped", slog.String("reason", context.Cause(ctx).Error()))
}

func (s *NotificationSender) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := s.queue.BRPop(ctx, s.pollWait)
		if err != nil {
			if errors.Is(err, e.ErrQueueEmpty) || ctx.Err() != nil {
				continue
			}
			s.logger.Error("BRPop failed", slog.Any("error", err))
			select {
			case <-ctx.Done():
			case <-time.After(500 * time.Millisecond):
			}
			continue
		}

		s.deliver(ctx, job)
	}
}

func (s *NotificationSender) deliver(ctx context.Context, job domain.NotificationJob) {
	to := job.Recipient
	err := s.notifier.Send(ctx, to, job.Payload)
	if err == nil {
		metrics.NotificationsTotal.WithLabelValues(s.method, string(to.Kind), "delivered").Inc()
		s.logger.Debug("notification delivered",
			slog.String("alert_id", job.Payload.AlertID.String()),
			slog.String("kind", string(to.Kind)),
			slog.Duration("queued_for", time.Since(job.EnqueuedAt)),
		)
		return
	}

	metrics.NotificationsTotal.WithLabelValues(s.method, string(to.Kind), "dead").Inc()
	s.logger.Warn("notification delivery failed",
		slog.String("alert_id", job.Payload.AlertID.String()),
		slog.String("kind", string(to.Kind)),
		slog.String("recipient", to.Name),
		slog.Any("error", err),
	)

	if ctx.Err() != nil {
		// park the job even while shutting down
		ctx = context.WithoutCancel(ctx)
	}
	if err := s.queue.DeadLetter(ctx, job); err != nil {
		s.logger.Error("dead letter failed", slog.String("alert_id", job.Payload.AlertID.String()), slog.Any("error", err))
	}
}
