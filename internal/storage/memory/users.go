package memory

import (
	"context"
	"fmt"
	"sync"

	"sosdesk/internal/domain"
	"sosdesk/pkg/e"

	"github.com/google/uuid"
)

// UserRepo mirrors the external profile store. Put seeds it.
type UserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]domain.UserProfile
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: map[uuid.UUID]domain.UserProfile{}}
}

func (r *UserRepo) Put(profiles ...domain.UserProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range profiles {
		r.users[p.ID] = p
	}
}

func (r *UserRepo) Get(_ context.Context, id uuid.UUID) (*domain.UserProfile, error) {
	const op = "memory.User.Get"

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}
	return &p, nil
}

// GetMany skips unknown ids and keeps the input order.
func (r *UserRepo) GetMany(_ context.Context, ids []uuid.UUID) ([]*domain.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.UserProfile, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.users[id]; ok {
			cp := p
			out = append(out, &cp)
		}
	}
	return out, nil
}
