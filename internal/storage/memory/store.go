package memory

import (
	"sosdesk/internal/domain"
)

// Store keeps every repository in process memory. It backs the service when
// no database is configured and is the fixture used by service tests.
type Store struct {
	Alerts    *AlertRepo
	Stations  *StationRepo
	Messages  *MessageRepo
	Guardians *GuardianRepo
	Users     *UserRepo
}

func NewStore() *Store {
	return &Store{
		Alerts:    NewAlertRepo(),
		Stations:  NewStationRepo(),
		Messages:  NewMessageRepo(),
		Guardians: NewGuardianRepo(),
		Users:     NewUserRepo(),
	}
}

func cloneAll(in []*domain.Alert) []*domain.Alert {
	out := make([]*domain.Alert, len(in))
	for i, a := range in {
		out[i] = a.Clone()
	}
	return out
}
