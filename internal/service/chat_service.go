package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"sosdesk/internal/domain"
	"sosdesk/pkg/e"
	"sosdesk/pkg/metrics"
	"sosdesk/pkg/validator"

	"github.com/google/uuid"
)

const (
	MaxTextMessageLen  = 4000
	DefaultMessagePage = 500
)

// ChatService is the per-alert coordination thread. Threads stay open after
// the alert is resolved so participants can debrief.
type ChatService struct {
	alerts   AlertRepository
	messages MessageRepository
	users    UserRepository
	events   EventPublisher
	logger   *slog.Logger
	pageSize int
}

func NewChatService(alerts AlertRepository, messages MessageRepository, users UserRepository, events EventPublisher, logger *slog.Logger, pageSize int) *ChatService {
	if pageSize <= 0 {
		pageSize = DefaultMessagePage
	}
	return &ChatService{
		alerts:   alerts,
		messages: messages,
		users:    users,
		events:   events,
		logger:   logger,
		pageSize: pageSize,
	}
}

func (s *ChatService) PostMessage(ctx context.Context, caller domain.Caller, alertID uuid.UUID, req domain.PostMessageRequest) (*domain.Message, error) {
	const op = "service.ChatService.PostMessage"

	if _, err := s.authorize(ctx, caller, alertID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	payload, err := normalizePayload(req.Type, req.Payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	msg := &domain.Message{
		ID:         uuid.New(),
		AlertID:    alertID,
		SenderID:   caller.UserID,
		SenderRole: caller.Role,
		Type:       req.Type,
		Payload:    payload,
	}
	if err := s.messages.Append(ctx, msg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.ChatMessagesTotal.WithLabelValues(string(msg.Type)).Inc()

	s.logger.Debug("chat message posted",
		slog.String("alert_id", alertID.String()),
		slog.Int64("seq", msg.Seq),
		slog.String("type", string(msg.Type)),
	)

	if s.events != nil {
		ev := domain.Event{Type: domain.EventChatMessage, AlertID: alertID, Message: msg, At: msg.CreatedAt}
		if err := s.events.Publish(ctx, ev); err != nil {
			s.logger.Warn("chat event publish failed", slog.String("alert_id", alertID.String()), slog.Any("error", err))
		}
	}
	return msg, nil
}

// ListMessages returns messages strictly after the cursor in seq order.
func (s *ChatService) ListMessages(ctx context.Context, caller domain.Caller, alertID uuid.UUID, cursor domain.ChatCursor) ([]*domain.Message, error) {
	const op = "service.ChatService.ListMessages"

	if _, err := s.authorize(ctx, caller, alertID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cursor.Seq < 0 {
		return nil, fmt.Errorf("%s: negative cursor: %w", op, e.ErrInvalidInput)
	}

	msgs, err := s.messages.List(ctx, alertID, cursor, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return msgs, nil
}

// Participants lists the owner, then assigned officers, then admins who posted.
func (s *ChatService) Participants(ctx context.Context, caller domain.Caller, alertID uuid.UUID) ([]domain.Participant, error) {
	const op = "service.ChatService.Participants"

	alert, err := s.authorize(ctx, caller, alertID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	admins, err := s.messages.SendersWithRole(ctx, alertID, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	type slot struct {
		id   uuid.UUID
		role domain.Role
	}
	order := make([]slot, 0, 1+len(alert.AssignedOfficers)+len(admins))
	seen := make(map[uuid.UUID]struct{})
	add := func(id uuid.UUID, role domain.Role) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		order = append(order, slot{id: id, role: role})
	}
	add(alert.UserID, domain.RoleUser)
	for _, id := range alert.AssignedOfficers {
		add(id, domain.RolePolice)
	}
	for _, id := range admins {
		add(id, domain.RoleAdmin)
	}

	ids := make([]uuid.UUID, len(order))
	for i, sl := range order {
		ids[i] = sl.id
	}
	profiles, err := s.users.GetMany(ctx, ids)
	if err != nil {
		s.logger.Warn("participant profiles unavailable", slog.String("alert_id", alertID.String()), slog.Any("error", err))
		profiles = nil
	}
	names := make(map[uuid.UUID]string, len(profiles))
	for _, p := range profiles {
		names[p.ID] = p.Name
	}

	out := make([]domain.Participant, 0, len(order))
	for _, sl := range order {
		out = append(out, domain.Participant{ID: sl.id, Name: names[sl.id], Role: sl.role})
	}
	return out, nil
}

func (s *ChatService) authorize(ctx context.Context, caller domain.Caller, alertID uuid.UUID) (*domain.Alert, error) {
	alert, err := s.alerts.Get(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if !CanAccess(caller, alert) {
		return nil, e.ErrForbidden
	}
	return alert, nil
}

// normalizePayload validates the payload for its type and re-encodes it in
// canonical form.
func normalizePayload(typ domain.MessageType, raw json.RawMessage) (json.RawMessage, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("payload required: %w", e.ErrInvalidInput)
	}

	var v any
	switch typ {
	case domain.MessageText:
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, fmt.Errorf("text payload must be a string: %w", e.ErrInvalidInput)
		}
		text = strings.TrimSpace(text)
		if text == "" || utf8.RuneCountInString(text) > MaxTextMessageLen {
			return nil, fmt.Errorf("text must be 1-%d characters: %w", MaxTextMessageLen, e.ErrInvalidInput)
		}
		v = text
	case domain.MessageAudio:
		var audio domain.AudioPayload
		if err := json.Unmarshal(raw, &audio); err != nil {
			return nil, fmt.Errorf("audio payload: %w", e.ErrInvalidInput)
		}
		if err := validator.ValidateStruct(audio); err != nil {
			return nil, fmt.Errorf("audio payload: %v: %w", err, e.ErrInvalidInput)
		}
		v = audio
	case domain.MessageLocation:
		var loc domain.LocationPayload
		if err := json.Unmarshal(raw, &loc); err != nil {
			return nil, fmt.Errorf("location payload: %w", e.ErrInvalidInput)
		}
		if err := validator.ValidateStruct(loc); err != nil {
			return nil, fmt.Errorf("location payload: %v: %w", err, e.ErrInvalidCoordinates)
		}
		loc.Address = strings.TrimSpace(loc.Address)
		v = loc
	default:
		return nil, fmt.Errorf("unknown message type %q: %w", typ, e.ErrInvalidInput)
	}

	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return out, nil
}

// maxCursorSeq bounds since; values at or above it are unix-ms timestamps.
const maxCursorSeq = 1_000_000_000_000

// ParseCursor reads the polling cursor. since is the last seen seq; sinceTS
// is an RFC3339 time or unix milliseconds and means strictly after that instant.
func ParseCursor(since, sinceTS string) (domain.ChatCursor, error) {
	var c domain.ChatCursor
	if since != "" {
		seq, err := strconv.ParseInt(since, 10, 64)
		if err != nil || seq < 0 {
			return c, fmt.Errorf("since must be a non-negative sequence number: %w", e.ErrInvalidInput)
		}
		if seq >= maxCursorSeq {
			return c, fmt.Errorf("since is a message sequence number, use since_ts for timestamps: %w", e.ErrInvalidInput)
		}
		c.Seq = seq
	}
	if sinceTS != "" {
		ts, err := parseTimestamp(sinceTS)
		if err != nil {
			return c, err
		}
		c.After = &ts
	}
	return c, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil && ms >= 0 {
		return time.UnixMilli(ms).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("since_ts must be RFC3339 or unix milliseconds: %w", e.ErrInvalidInput)
}
