package workers

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"sosdesk/internal/domain"
	mock_notify "sosdesk/internal/notify/mocks"
	mock_workers "sosdesk/internal/workers/mocks"
	"sosdesk/pkg/e"
)

func newTestLogger() *slog.Logger {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testJob() domain.NotificationJob {
	return domain.NotificationJob{
		Recipient:  domain.Recipient{Kind: domain.RecipientGuardian, ID: uuid.New(), Name: "Meera", Email: "meera@example.com"},
		Payload:    domain.NotificationPayload{AlertID: uuid.New(), Subject: "SOS: Asha needs help"},
		EnqueuedAt: time.Now(),
	}
}

func runSender(t *testing.T, s *NotificationSender, ctx context.Context) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("sender did not stop")
	}
}

func TestNotificationSender_Delivers(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	queue := mock_workers.NewMockNotificationQueue(ctrl)
	notifier := mock_notify.NewMockNotifier(ctrl)
	job := testJob()

	queue.EXPECT().BRPop(gomock.Any(), gomock.Any()).Return(job, nil).Times(1)
	queue.EXPECT().BRPop(gomock.Any(), gomock.Any()).Return(domain.NotificationJob{}, e.ErrQueueEmpty).AnyTimes()
	notifier.EXPECT().Send(gomock.Any(), job.Recipient, job.Payload).DoAndReturn(
		func(context.Context, domain.Recipient, domain.NotificationPayload) error {
			cancel()
			return nil
		}).Times(1)

	s := NewNotificationSender(queue, notifier, "log", 1, newTestLogger())
	s.pollWait = 10 * time.Millisecond
	runSender(t, s, ctx)
}

func TestNotificationSender_DeadLettersFailures(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	queue := mock_workers.NewMockNotificationQueue(ctrl)
	notifier := mock_notify.NewMockNotifier(ctrl)
	job := testJob()

	queue.EXPECT().BRPop(gomock.Any(), gomock.Any()).Return(job, nil).Times(1)
	queue.EXPECT().BRPop(gomock.Any(), gomock.Any()).Return(domain.NotificationJob{}, e.ErrQueueEmpty).AnyTimes()
	notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("smtp relay down")).Times(1)
	queue.EXPECT().DeadLetter(gomock.Any(), job).DoAndReturn(
		func(context.Context, domain.NotificationJob) error {
			cancel()
			return nil
		}).Times(1)

	s := NewNotificationSender(queue, notifier, "webhook", 1, newTestLogger())
	s.pollWait = 10 * time.Millisecond
	runSender(t, s, ctx)
}

func TestNotificationSender_SurvivesQueueErrors(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	queue := mock_workers.NewMockNotificationQueue(ctrl)
	notifier := mock_notify.NewMockNotifier(ctrl)
	job := testJob()

	gomock.InOrder(
		queue.EXPECT().BRPop(gomock.Any(), gomock.Any()).Return(domain.NotificationJob{}, errors.New("connection reset")),
		queue.EXPECT().BRPop(gomock.Any(), gomock.Any()).Return(job, nil),
	)
	queue.EXPECT().BRPop(gomock.Any(), gomock.Any()).Return(domain.NotificationJob{}, e.ErrQueueEmpty).AnyTimes()
	notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, domain.Recipient, domain.NotificationPayload) error {
			cancel()
			return nil
		}).Times(1)

	s := NewNotificationSender(queue, notifier, "log", 1, newTestLogger())
	s.pollWait = 10 * time.Millisecond
	runSender(t, s, ctx)
}
