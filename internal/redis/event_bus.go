package redis

import (
	"context"
	"encoding/json"
	"log/slog"

	"sosdesk/internal/domain"

	"github.com/redis/go-redis/v9"
)

const EventsChannel = "sos:events"

// EventSink receives events relayed from the bus, typically the local realtime hub.
type EventSink interface {
	Publish(ctx context.Context, ev domain.Event) error
}

// EventBus fans alert and chat events out across instances over redis pub/sub.
type EventBus struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

func NewEventBus(client *redis.Client, channel string, logger *slog.Logger) *EventBus {
	if channel == "" {
		channel = EventsChannel
	}
	return &EventBus{client: client, channel: channel, logger: logger}
}

func (b *EventBus) Publish(ctx context.Context, ev domain.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.channel, data).Err()
}

// Run relays every bus message into sink until ctx is done.
func (b *EventBus) Run(ctx context.Context, sink EventSink) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	b.logger.Info("event bus subscribed", slog.String("channel", b.channel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("event bus stopped", slog.String("reason", ctx.Err().Error()))
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev domain.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.logger.Warn("bad event on bus", slog.Any("error", err))
				continue
			}
			if err := sink.Publish(ctx, ev); err != nil {
				b.logger.Warn("event relay failed", slog.String("type", string(ev.Type)), slog.Any("error", err))
			}
		}
	}
}
