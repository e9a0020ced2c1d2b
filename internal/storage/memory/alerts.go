package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"sosdesk/internal/domain"
	"sosdesk/pkg/e"

	"github.com/google/uuid"
)

type AlertRepo struct {
	mu     sync.RWMutex
	alerts map[uuid.UUID]*domain.Alert
	active map[uuid.UUID]uuid.UUID // user id -> active alert id
}

func NewAlertRepo() *AlertRepo {
	return &AlertRepo{
		alerts: map[uuid.UUID]*domain.Alert{},
		active: map[uuid.UUID]uuid.UUID{},
	}
}

func (r *AlertRepo) Create(_ context.Context, alert *domain.Alert) error {
	const op = "memory.Alert.Create"

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.alerts[alert.ID]; ok {
		return fmt.Errorf("%s: %w", op, e.ErrUniqueViolation)
	}
	if alert.Status.Active() {
		if _, ok := r.active[alert.UserID]; ok {
			return fmt.Errorf("%s: %w", op, e.ErrUniqueViolation)
		}
		r.active[alert.UserID] = alert.ID
	}
	r.alerts[alert.ID] = alert.Clone()
	return nil
}

func (r *AlertRepo) Get(_ context.Context, id uuid.UUID) (*domain.Alert, error) {
	const op = "memory.Alert.Get"

	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.alerts[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}
	return a.Clone(), nil
}

func (r *AlertRepo) GetActiveByUser(_ context.Context, userID uuid.UUID) (*domain.Alert, error) {
	const op = "memory.Alert.GetActiveByUser"

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.active[userID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}
	return r.alerts[id].Clone(), nil
}

func (r *AlertRepo) ListActive(_ context.Context) ([]*domain.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Alert, 0, len(r.active))
	for _, id := range r.active {
		out = append(out, r.alerts[id])
	}
	sortNewestFirst(out)
	return cloneAll(out), nil
}

func (r *AlertRepo) ListActiveForOfficer(_ context.Context, officerID uuid.UUID, stationID *uuid.UUID) ([]*domain.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Alert, 0)
	for _, id := range r.active {
		a := r.alerts[id]
		if a.AssignedTo(officerID, stationID) {
			out = append(out, a)
		}
	}
	sortNewestFirst(out)
	return cloneAll(out), nil
}

func (r *AlertRepo) Assign(_ context.Context, id uuid.UUID, patch domain.AssignmentPatch) (*domain.Alert, error) {
	const op = "memory.Alert.Assign"

	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := r.mutable(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	stationID := patch.StationID
	dist := patch.DistanceM
	a.StationID = &stationID
	a.DistanceToStationM = &dist
	a.AssignedOfficers = append([]uuid.UUID{}, patch.Officers...)
	a.Status = patch.Status
	a.UpdatedAt = patch.At
	return a.Clone(), nil
}

func (r *AlertRepo) Acknowledge(_ context.Context, id uuid.UUID, officers []uuid.UUID, at time.Time) (*domain.Alert, error) {
	const op = "memory.Alert.Acknowledge"

	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := r.mutable(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if a.Status == domain.AlertUnassigned {
		return nil, fmt.Errorf("%s: %w", op, e.ErrConflict)
	}
	a.AssignedOfficers = append([]uuid.UUID{}, officers...)
	a.Status = domain.AlertInProgress
	a.UpdatedAt = at
	return a.Clone(), nil
}

func (r *AlertRepo) Resolve(_ context.Context, id uuid.UUID, patch domain.ResolutionPatch) (*domain.Alert, error) {
	const op = "memory.Alert.Resolve"

	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := r.mutable(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	by, at := patch.By, patch.At
	a.Status = domain.AlertResolved
	a.Resolution = patch.Resolution
	a.ResolvedBy = &by
	a.ResolvedAt = &at
	a.UpdatedAt = at
	delete(r.active, a.UserID)
	return a.Clone(), nil
}

// mutable returns the stored alert unless it is missing or resolved. Callers hold mu.
func (r *AlertRepo) mutable(id uuid.UUID) (*domain.Alert, error) {
	a, ok := r.alerts[id]
	if !ok {
		return nil, e.ErrNotFound
	}
	if a.Status == domain.AlertResolved {
		return nil, e.ErrAlreadyResolved
	}
	return a, nil
}

func sortNewestFirst(alerts []*domain.Alert) {
	sort.Slice(alerts, func(i, j int) bool {
		if alerts[i].CreatedAt.Equal(alerts[j].CreatedAt) {
			return alerts[i].ID.String() < alerts[j].ID.String()
		}
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
}
