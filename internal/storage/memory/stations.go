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

type StationRepo struct {
	mu       sync.RWMutex
	stations map[uuid.UUID]domain.Station
}

func NewStationRepo() *StationRepo {
	return &StationRepo{stations: map[uuid.UUID]domain.Station{}}
}

func (r *StationRepo) ListAll(_ context.Context) ([]domain.Station, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Station, 0, len(r.stations))
	for _, s := range r.stations {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *StationRepo) Get(_ context.Context, id uuid.UUID) (*domain.Station, error) {
	const op = "memory.Station.Get"

	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.stations[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}
	return &s, nil
}

func (r *StationRepo) Create(_ context.Context, station *domain.Station) error {
	const op = "memory.Station.Create"

	r.mu.Lock()
	defer r.mu.Unlock()

	if station.ID == uuid.Nil {
		station.ID = uuid.New()
	}
	if _, ok := r.stations[station.ID]; ok {
		return fmt.Errorf("%s: %w", op, e.ErrUniqueViolation)
	}
	r.stations[station.ID] = *station
	return nil
}

func (r *StationRepo) Update(_ context.Context, station *domain.Station) error {
	const op = "memory.Station.Update"

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stations[station.ID]; !ok {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}
	r.stations[station.ID] = *station
	return nil
}
