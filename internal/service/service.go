package service

import (
	"context"
	"time"

	"sosdesk/internal/domain"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go

// Dispatcher fans an SOS out to guardians and the assigned station.
// It never fails; delivery problems are reported in the result.
type Dispatcher interface {
	Notify(ctx context.Context, alert *domain.Alert, owner *domain.UserProfile, station *domain.Station, guardians []*domain.Guardian) domain.DispatchResult
}

type EventPublisher interface {
	Publish(ctx context.Context, ev domain.Event) error
}

type StationCache interface {
	// Get reports ok=false on a miss.
	Get(ctx context.Context) (stations []domain.Station, ok bool, err error)
	Set(ctx context.Context, stations []domain.Station, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

type Service struct {
	Alerts    *AlertEngine
	Stations  *StationDirectory
	Chat      *ChatService
	Guardians *GuardianService
}

func NewService(alerts *AlertEngine, stations *StationDirectory, chat *ChatService, guardians *GuardianService) *Service {
	return &Service{
		Alerts:    alerts,
		Stations:  stations,
		Chat:      chat,
		Guardians: guardians,
	}
}
