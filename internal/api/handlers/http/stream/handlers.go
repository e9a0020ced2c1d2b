package stream

import (
	"context"
	"log/slog"
	"net/http"

	"sosdesk/internal/api/respond"
	"sosdesk/internal/domain"
	"sosdesk/internal/realtime"
	"sosdesk/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type AlertReader interface {
	Get(ctx context.Context, caller domain.Caller, alertID uuid.UUID) (*domain.Alert, error)
}

type MessageLister interface {
	ListMessages(ctx context.Context, caller domain.Caller, alertID uuid.UUID, cursor domain.ChatCursor) ([]*domain.Message, error)
}

type Handler struct {
	logger   *slog.Logger
	Alerts   AlertReader
	Messages MessageLister
	hub      *realtime.Hub
	upgrader websocket.Upgrader
	cfg      realtime.SessionConfig
}

func NewHandler(logger *slog.Logger, alerts AlertReader, messages MessageLister, hub *realtime.Hub, allowedOrigins []string, cfg realtime.SessionConfig) *Handler {
	return &Handler{
		logger:   logger,
		Alerts:   alerts,
		Messages: messages,
		hub:      hub,
		upgrader: realtime.NewUpgrader(allowedOrigins),
		cfg:      cfg,
	}
}

// Alert streams one alert's status changes and chat messages. With ?since=<seq>
// the missed messages are replayed first.
func (h *Handler) Alert(w http.ResponseWriter, r *http.Request) {
	l := respond.Logger(h.logger, r)
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	alertID, ok := respond.UUIDParam(w, r, l, "id")
	if !ok {
		return
	}

	cursor, err := service.ParseCursor(r.URL.Query().Get("since"), "")
	if err != nil {
		respond.Error(w, r, l, err)
		return
	}

	if _, err := h.Alerts.Get(r.Context(), caller, alertID); err != nil {
		respond.Error(w, r, l, err)
		return
	}

	// subscribe before reading the backlog so nothing posted in between is lost
	sub := h.hub.Subscribe(realtime.AlertTopic(alertID))
	defer h.hub.Unsubscribe(sub)

	backlog, err := h.backlog(r.Context(), caller, alertID, cursor)
	if err != nil {
		respond.Error(w, r, l, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	l.Debug("alert stream opened",
		slog.String("alert_id", alertID.String()),
		slog.Int64("since", cursor.Seq),
		slog.Int("backlog", len(backlog)),
	)
	if err := realtime.NewSession(conn, sub, h.cfg, nil, l).Serve(r.Context(), backlog); err != nil {
		l.Debug("alert stream closed", slog.String("error", err.Error()))
	}
}

// backlog pages through every message after cursor until an empty page.
func (h *Handler) backlog(ctx context.Context, caller domain.Caller, alertID uuid.UUID, cursor domain.ChatCursor) ([]domain.Event, error) {
	var out []domain.Event
	for {
		msgs, err := h.Messages.ListMessages(ctx, caller, alertID, cursor)
		if err != nil {
			return nil, err
		}
		if len(msgs) == 0 || msgs[len(msgs)-1].Seq <= cursor.Seq {
			return out, nil
		}
		for _, m := range msgs {
			out = append(out, domain.Event{Type: domain.EventChatMessage, AlertID: alertID, Message: m, At: m.CreatedAt})
		}
		cursor.Seq = msgs[len(msgs)-1].Seq
	}
}

// Feed streams alert lifecycle events to dispatchers. Police only see alerts
// they could open themselves.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	l := respond.Logger(h.logger, r)
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}

	sub := h.hub.Subscribe(realtime.FeedTopic)
	defer h.hub.Unsubscribe(sub)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	filter := func(ev domain.Event) bool {
		return ev.Alert != nil && service.CanAccess(caller, ev.Alert)
	}
	if err := realtime.NewSession(conn, sub, h.cfg, filter, l).Serve(r.Context(), nil); err != nil {
		l.Debug("feed closed", slog.String("error", err.Error()))
	}
}
