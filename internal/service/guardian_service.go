package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sosdesk/internal/domain"
	"sosdesk/pkg/e"

	"github.com/google/uuid"
)

// GuardianService manages the emergency contacts notified when a user triggers SOS.
type GuardianService struct {
	repo   GuardianRepository
	logger *slog.Logger
	locks  *keyedMutex
	now    func() time.Time
}

func NewGuardianService(repo GuardianRepository, logger *slog.Logger) *GuardianService {
	return &GuardianService{
		repo:   repo,
		logger: logger,
		locks:  newKeyedMutex(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *GuardianService) List(ctx context.Context, caller domain.Caller) ([]*domain.Guardian, error) {
	const op = "service.GuardianService.List"

	if caller.Role != domain.RoleUser {
		return nil, fmt.Errorf("%s: %w", op, e.ErrForbidden)
	}
	guardians, err := s.repo.ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return guardians, nil
}

func (s *GuardianService) Create(ctx context.Context, caller domain.Caller, req domain.CreateGuardianRequest) (*domain.Guardian, error) {
	const op = "service.GuardianService.Create"

	if caller.Role != domain.RoleUser {
		return nil, fmt.Errorf("%s: %w", op, e.ErrForbidden)
	}

	g := &domain.Guardian{
		ID:        uuid.New(),
		UserID:    caller.UserID,
		Name:      strings.TrimSpace(req.Name),
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		CreatedAt: s.now(),
	}
	if g.Name == "" || g.Phone == "" || g.Email == "" {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	unlock := s.locks.Lock(caller.UserID)
	defer unlock()

	if err := s.repo.Create(ctx, g, domain.MaxGuardiansPerUser); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.logger.Info("guardian added", slog.String("user_id", caller.UserID.String()), slog.String("guardian_id", g.ID.String()))
	return g, nil
}

func (s *GuardianService) Delete(ctx context.Context, caller domain.Caller, id uuid.UUID) error {
	const op = "service.GuardianService.Delete"

	if caller.Role != domain.RoleUser {
		return fmt.Errorf("%s: %w", op, e.ErrForbidden)
	}
	if err := s.repo.Delete(ctx, caller.UserID, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
