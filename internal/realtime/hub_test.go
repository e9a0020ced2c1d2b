package realtime

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sosdesk/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func alertEvent(id uuid.UUID, typ domain.EventType) domain.Event {
	return domain.Event{Type: typ, AlertID: id, Alert: &domain.Alert{ID: id}, At: time.Now()}
}

func chatEvent(id uuid.UUID, seq int64) domain.Event {
	return domain.Event{Type: domain.EventChatMessage, AlertID: id, Message: &domain.Message{AlertID: id, Seq: seq}, At: time.Now()}
}

func TestHub_RoutesByTopic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	hub := NewHub(8, testLogger())

	a, b := uuid.New(), uuid.New()
	subA := hub.Subscribe(AlertTopic(a))
	subB := hub.Subscribe(AlertTopic(b))
	feed := hub.Subscribe(FeedTopic)

	require.NoError(t, hub.Publish(ctx, alertEvent(a, domain.EventAlertAssigned)))
	require.NoError(t, hub.Publish(ctx, chatEvent(a, 1)))

	assert.Len(t, subA.Events(), 2)
	assert.Len(t, subB.Events(), 0)
	assert.Len(t, feed.Events(), 1, "chat messages stay off the feed")

	ev := <-feed.Events()
	assert.Equal(t, domain.EventAlertAssigned, ev.Type)
}

func TestHub_DropsSlowSubscriber(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	hub := NewHub(2, testLogger())

	id := uuid.New()
	slow := hub.Subscribe(AlertTopic(id))
	fast := hub.Subscribe(AlertTopic(id))

	for seq := int64(1); seq <= 2; seq++ {
		require.NoError(t, hub.Publish(ctx, chatEvent(id, seq)))
	}
	<-fast.Events()
	<-fast.Events()

	require.NoError(t, hub.Publish(ctx, chatEvent(id, 3)))

	assert.True(t, slow.Dropped())
	assert.False(t, fast.Dropped())
	assert.Equal(t, 1, hub.Subscribers(AlertTopic(id)))

	// buffered events are still readable before the close
	n := 0
	for range slow.Events() {
		n++
	}
	assert.Equal(t, 2, n)

	got := <-fast.Events()
	assert.Equal(t, int64(3), got.Message.Seq)
}

func TestHub_UnsubscribeIsIdempotent(t *testing.T) {
	t.Parallel()
	hub := NewHub(1, testLogger())

	sub := hub.Subscribe(FeedTopic)
	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub)

	_, ok := <-sub.Events()
	assert.False(t, ok)
	assert.Equal(t, 0, hub.Subscribers(FeedTopic))
	assert.False(t, sub.Dropped())
}
