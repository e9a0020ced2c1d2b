package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"sosdesk/internal/domain"
	"sosdesk/pkg/e"

	"github.com/google/uuid"
)

type GuardianRepo struct {
	mu     sync.RWMutex
	byUser map[uuid.UUID][]*domain.Guardian
}

func NewGuardianRepo() *GuardianRepo {
	return &GuardianRepo{byUser: map[uuid.UUID][]*domain.Guardian{}}
}

func (r *GuardianRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.Guardian, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.byUser[userID]
	out := make([]*domain.Guardian, 0, len(list))
	for _, g := range list {
		cp := *g
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *GuardianRepo) Create(_ context.Context, guardian *domain.Guardian, max int) error {
	const op = "memory.Guardian.Create"

	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.byUser[guardian.UserID]
	if max > 0 && len(list) >= max {
		return fmt.Errorf("%s: %w", op, e.ErrGuardianLimit)
	}
	for _, g := range list {
		if g.Email == guardian.Email {
			return fmt.Errorf("%s: %w", op, e.ErrUniqueViolation)
		}
	}
	cp := *guardian
	r.byUser[guardian.UserID] = append(list, &cp)
	return nil
}

func (r *GuardianRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	const op = "memory.Guardian.Delete"

	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.byUser[userID]
	for i, g := range list {
		if g.ID == id {
			r.byUser[userID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%s: %w", op, e.ErrNotFound)
}
