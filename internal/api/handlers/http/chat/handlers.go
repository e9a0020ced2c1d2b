package chat

import (
	"context"
	"log/slog"
	"net/http"

	"sosdesk/internal/api/respond"
	"sosdesk/internal/domain"
	"sosdesk/internal/middleware"
	"sosdesk/internal/service"

	"github.com/google/uuid"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type Chat interface {
	PostMessage(ctx context.Context, caller domain.Caller, alertID uuid.UUID, req domain.PostMessageRequest) (*domain.Message, error)
	ListMessages(ctx context.Context, caller domain.Caller, alertID uuid.UUID, cursor domain.ChatCursor) ([]*domain.Message, error)
	Participants(ctx context.Context, caller domain.Caller, alertID uuid.UUID) ([]domain.Participant, error)
}

type Handler struct {
	logger *slog.Logger
	Chat   Chat
}

func NewHandler(logger *slog.Logger, chat Chat) *Handler {
	return &Handler{logger: logger, Chat: chat}
}

// Messages returns the thread strictly after ?since=<seq> (or ?since_ts=).
// since only takes sequence numbers; a unix-ms value there is a 400, those
// belong in since_ts. The response cursor is the seq to send on the next poll.
func (h *Handler) Messages(w http.ResponseWriter, r *http.Request) {
	l := respond.Logger(h.logger, r)
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	alertID, ok := respond.UUIDParam(w, r, l, "alertId")
	if !ok {
		return
	}

	q := r.URL.Query()
	cursor, err := service.ParseCursor(q.Get("since"), q.Get("since_ts"))
	if err != nil {
		respond.Error(w, r, l, err)
		return
	}

	msgs, err := h.Chat.ListMessages(r.Context(), caller, alertID, cursor)
	if err != nil {
		respond.Error(w, r, l, err)
		return
	}
	if msgs == nil {
		msgs = []*domain.Message{}
	}

	next := cursor.Seq
	if n := len(msgs); n > 0 {
		next = msgs[n-1].Seq
	}
	respond.JSON(w, http.StatusOK, domain.MessagesResponse{Messages: msgs, Cursor: next})
}

func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	l := respond.Logger(h.logger, r)
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	alertID, ok := respond.UUIDParam(w, r, l, "alertId")
	if !ok {
		return
	}

	req, err := middleware.BindJSON[domain.PostMessageRequest](w, r)
	if err != nil {
		respond.Error(w, r, l, err)
		return
	}

	msg, err := h.Chat.PostMessage(r.Context(), caller, alertID, req)
	if err != nil {
		respond.Error(w, r, l, err)
		return
	}

	l.Debug("message posted",
		slog.String("alert_id", alertID.String()),
		slog.Int64("seq", msg.Seq),
		slog.String("type", string(msg.Type)),
	)
	respond.JSON(w, http.StatusCreated, msg)
}

func (h *Handler) Participants(w http.ResponseWriter, r *http.Request) {
	l := respond.Logger(h.logger, r)
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	alertID, ok := respond.UUIDParam(w, r, l, "alertId")
	if !ok {
		return
	}

	ps, err := h.Chat.Participants(r.Context(), caller, alertID)
	if err != nil {
		respond.Error(w, r, l, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"participants": ps})
}
