package service

import (
	"context"
	"time"

	"sosdesk/internal/domain"

	"github.com/google/uuid"
)

// AlertRepository persists SOS alerts. Mutating methods are conditional writes:
// a resolved alert is never modified and yields e.ErrAlreadyResolved.
type AlertRepository interface {
	// Create fails with e.ErrUniqueViolation when the user already has an active alert.
	Create(ctx context.Context, alert *domain.Alert) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Alert, error)
	GetActiveByUser(ctx context.Context, userID uuid.UUID) (*domain.Alert, error)
	// ListActive returns non-resolved alerts, newest first.
	ListActive(ctx context.Context) ([]*domain.Alert, error)
	ListActiveForOfficer(ctx context.Context, officerID uuid.UUID, stationID *uuid.UUID) ([]*domain.Alert, error)
	Assign(ctx context.Context, id uuid.UUID, patch domain.AssignmentPatch) (*domain.Alert, error)
	// Acknowledge moves an assigned alert to in_progress with the given officer set.
	Acknowledge(ctx context.Context, id uuid.UUID, officers []uuid.UUID, at time.Time) (*domain.Alert, error)
	Resolve(ctx context.Context, id uuid.UUID, patch domain.ResolutionPatch) (*domain.Alert, error)
}

type StationRepository interface {
	ListAll(ctx context.Context) ([]domain.Station, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Station, error)
	Create(ctx context.Context, station *domain.Station) error
	Update(ctx context.Context, station *domain.Station) error
}

// MessageRepository stores chat messages; Append assigns Seq and CreatedAt.
type MessageRepository interface {
	Append(ctx context.Context, msg *domain.Message) error
	List(ctx context.Context, alertID uuid.UUID, cursor domain.ChatCursor, limit int) ([]*domain.Message, error)
	// SendersWithRole lists distinct senders of the given role in first-post order.
	SendersWithRole(ctx context.Context, alertID uuid.UUID, role domain.Role) ([]uuid.UUID, error)
}

type GuardianRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Guardian, error)
	// Create fails with e.ErrGuardianLimit when the user already has max guardians.
	Create(ctx context.Context, guardian *domain.Guardian, max int) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// UserRepository is a read-only view of accounts owned by the profile system.
type UserRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error)
	GetMany(ctx context.Context, ids []uuid.UUID) ([]*domain.UserProfile, error)
}
