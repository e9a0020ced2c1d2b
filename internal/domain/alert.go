package domain

import (
	"slices"
	"time"

	"sosdesk/pkg/geo"

	"github.com/google/uuid"
)

type AlertStatus string

const (
	AlertUnassigned AlertStatus = "unassigned"
	AlertAssigned   AlertStatus = "assigned"
	AlertInProgress AlertStatus = "in_progress"
	AlertResolved   AlertStatus = "resolved"
)

// Active reports whether the alert still shows up in active listings.
func (s AlertStatus) Active() bool { return s != AlertResolved }

type Resolution string

const (
	ResolutionResolved  Resolution = "resolved"
	ResolutionCancelled Resolution = "cancelled"
)

type Alert struct {
	ID                 uuid.UUID   `json:"id"`
	UserID             uuid.UUID   `json:"user_id"`
	Lat                float64     `json:"lat"`
	Lng                float64     `json:"lng"`
	Status             AlertStatus `json:"status"`
	StationID          *uuid.UUID  `json:"station_id"`
	DistanceToStationM *float64    `json:"distance_to_station_m"`
	AssignedOfficers   []uuid.UUID `json:"assigned_officers"`
	GuardianCount      int         `json:"guardian_count"`
	Resolution         Resolution  `json:"resolution,omitempty"`
	ResolvedBy         *uuid.UUID  `json:"resolved_by,omitempty"`
	ResolvedAt         *time.Time  `json:"resolved_at,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

func (a *Alert) Location() geo.Location {
	return geo.Location{Lat: a.Lat, Lng: a.Lng}
}

func (a *Alert) HasOfficer(id uuid.UUID) bool {
	return slices.Contains(a.AssignedOfficers, id)
}

// AddOfficer appends id unless it is already assigned.
func (a *Alert) AddOfficer(id uuid.UUID) bool {
	if a.HasOfficer(id) {
		return false
	}
	a.AssignedOfficers = append(a.AssignedOfficers, id)
	return true
}

// AssignedTo reports whether a police caller is responsible for the alert,
// either by name or through the station the alert is routed to.
func (a *Alert) AssignedTo(officerID uuid.UUID, stationID *uuid.UUID) bool {
	if a.HasOfficer(officerID) {
		return true
	}
	return stationID != nil && a.StationID != nil && *a.StationID == *stationID
}

// Clone returns a deep copy so callers can mutate without sharing slices or pointers.
func (a *Alert) Clone() *Alert {
	if a == nil {
		return nil
	}
	out := *a
	out.AssignedOfficers = append([]uuid.UUID{}, a.AssignedOfficers...)
	if a.StationID != nil {
		id := *a.StationID
		out.StationID = &id
	}
	if a.DistanceToStationM != nil {
		d := *a.DistanceToStationM
		out.DistanceToStationM = &d
	}
	if a.ResolvedBy != nil {
		id := *a.ResolvedBy
		out.ResolvedBy = &id
	}
	if a.ResolvedAt != nil {
		ts := *a.ResolvedAt
		out.ResolvedAt = &ts
	}
	return &out
}

// AssignmentPatch is applied by a conditional write that refuses resolved alerts.
type AssignmentPatch struct {
	StationID uuid.UUID
	DistanceM float64
	Officers  []uuid.UUID
	Status    AlertStatus
	At        time.Time
}

type ResolutionPatch struct {
	Resolution Resolution
	By         uuid.UUID
	At         time.Time
}
