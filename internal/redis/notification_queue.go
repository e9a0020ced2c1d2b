package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"sosdesk/internal/domain"
	"sosdesk/pkg/e"

	"github.com/redis/go-redis/v9"
)

// NotificationQueue is a Notifier that accepts by enqueueing; a worker drains it.
type NotificationQueue struct {
	client *redis.Client
	key    string
	now    func() time.Time
}

func NewNotificationQueue(client *redis.Client, key string) *NotificationQueue {
	return &NotificationQueue{client: client, key: key, now: func() time.Time { return time.Now().UTC() }}
}

func (q *NotificationQueue) Send(ctx context.Context, to domain.Recipient, payload domain.NotificationPayload) error {
	return q.Enqueue(ctx, domain.NotificationJob{Recipient: to, Payload: payload, EnqueuedAt: q.now()})
}

func (q *NotificationQueue) Enqueue(ctx context.Context, job domain.NotificationJob) error {
	b, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, b).Err()
}

// BRPop waits up to timeout for a job; an empty queue yields e.ErrQueueEmpty.
func (q *NotificationQueue) BRPop(ctx context.Context, timeout time.Duration) (domain.NotificationJob, error) {
	var job domain.NotificationJob

	res, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return job, e.ErrQueueEmpty
		}
		return job, err
	}
	if len(res) < 2 {
		return job, e.ErrQueueEmpty
	}
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return job, err
	}
	return job, nil
}

// DeadLetter parks a job that exhausted delivery attempts.
func (q *NotificationQueue) DeadLetter(ctx context.Context, job domain.NotificationJob) error {
	b, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key+":dead", b).Err()
}

func (q *NotificationQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}
