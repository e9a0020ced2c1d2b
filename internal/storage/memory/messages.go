package memory

import (
	"context"
	"sync"
	"time"

	"sosdesk/internal/domain"

	"github.com/google/uuid"
)

type MessageRepo struct {
	mu      sync.RWMutex
	seq     int64
	threads map[uuid.UUID][]*domain.Message
	now     func() time.Time
}

func NewMessageRepo() *MessageRepo {
	return &MessageRepo{
		threads: map[uuid.UUID][]*domain.Message{},
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Append assigns the next global seq; per-thread order matches append order.
func (r *MessageRepo) Append(_ context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	msg.Seq = r.seq
	msg.CreatedAt = r.now()
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	stored := *msg
	r.threads[msg.AlertID] = append(r.threads[msg.AlertID], &stored)
	return nil
}

func (r *MessageRepo) List(_ context.Context, alertID uuid.UUID, cursor domain.ChatCursor, limit int) ([]*domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Message, 0)
	for _, m := range r.threads[alertID] {
		if m.Seq <= cursor.Seq {
			continue
		}
		if cursor.After != nil && !m.CreatedAt.After(*cursor.After) {
			continue
		}
		cp := *m
		out = append(out, &cp)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *MessageRepo) SendersWithRole(_ context.Context, alertID uuid.UUID, role domain.Role) ([]uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]uuid.UUID, 0)
	seen := map[uuid.UUID]struct{}{}
	for _, m := range r.threads[alertID] {
		if m.SenderRole != role {
			continue
		}
		if _, ok := seen[m.SenderID]; ok {
			continue
		}
		seen[m.SenderID] = struct{}{}
		out = append(out, m.SenderID)
	}
	return out, nil
}
