package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sosdesk/internal/domain"
	"sosdesk/pkg/e"
	"sosdesk/pkg/geo"
	"sosdesk/pkg/metrics"

	"github.com/google/uuid"
)

// AlertEngine owns the SOS alert lifecycle:
//
//	unassigned -> assigned -> in_progress -> resolved
//
// resolved is terminal. Mutations on one alert are serialized in-process and the
// repository applies them conditionally, so a committed resolve always wins.
type AlertEngine struct {
	alerts     AlertRepository
	stations   *StationDirectory
	guardians  GuardianRepository
	users      UserRepository
	dispatcher Dispatcher
	events     EventPublisher
	logger     *slog.Logger

	userLocks  *keyedMutex
	alertLocks *keyedMutex
	now        func() time.Time
}

func NewAlertEngine(
	alerts AlertRepository,
	stations *StationDirectory,
	guardians GuardianRepository,
	users UserRepository,
	dispatcher Dispatcher,
	events EventPublisher,
	logger *slog.Logger,
) *AlertEngine {
	return &AlertEngine{
		alerts:     alerts,
		stations:   stations,
		guardians:  guardians,
		users:      users,
		dispatcher: dispatcher,
		events:     events,
		logger:     logger,
		userLocks:  newKeyedMutex(),
		alertLocks: newKeyedMutex(),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Create triggers an SOS for the calling user. A user holds at most one active
// alert; a second trigger yields *e.ActiveAlertError naming the existing one.
func (s *AlertEngine) Create(ctx context.Context, caller domain.Caller, req domain.CreateAlertRequest) (*domain.Alert, domain.DispatchResult, error) {
	const op = "service.AlertEngine.Create"

	if caller.Role != domain.RoleUser {
		return nil, domain.DispatchResult{}, fmt.Errorf("%s: only users can trigger SOS: %w", op, e.ErrForbidden)
	}
	if req.Lat == nil || req.Lng == nil {
		return nil, domain.DispatchResult{}, fmt.Errorf("%s: %w", op, e.ErrInvalidCoordinates)
	}
	loc := geo.Location{Lat: *req.Lat, Lng: *req.Lng}
	if !loc.Valid() {
		return nil, domain.DispatchResult{}, fmt.Errorf("%s: %w", op, e.ErrInvalidCoordinates)
	}

	c, err := s.createLocked(ctx, caller.UserID, loc)
	if err != nil {
		if _, ok := e.ActiveAlertID(err); ok {
			metrics.AlertConflicts.Inc()
		}
		return nil, domain.DispatchResult{}, fmt.Errorf("%s: %w", op, err)
	}
	alert := c.alert
	metrics.AlertTransitions.WithLabelValues(string(alert.Status)).Inc()

	s.logger.Info("sos alert created",
		slog.String("alert_id", alert.ID.String()),
		slog.String("user_id", alert.UserID.String()),
		slog.String("status", string(alert.Status)),
		slog.Int("guardians", alert.GuardianCount),
	)

	owner := s.owner(ctx, caller)
	result := s.dispatcher.Notify(ctx, alert, owner, c.station, c.guardians)
	if c.guardianErr != nil {
		result.Degraded = true
		result.Errors = append(result.Errors, "guardian lookup: "+c.guardianErr.Error())
	}
	if result.Degraded {
		s.logger.Warn("sos notification degraded",
			slog.String("alert_id", alert.ID.String()),
			slog.Int("guardians_failed", result.GuardiansFailed),
			slog.Any("errors", result.Errors),
		)
	}

	s.publish(ctx, domain.EventAlertCreated, alert)
	return alert, result, nil
}

type created struct {
	alert     *domain.Alert
	station   *domain.Station
	guardians []*domain.Guardian
	// guardianErr degrades the dispatch result but never blocks the alert.
	guardianErr error
}

func (s *AlertEngine) createLocked(ctx context.Context, userID uuid.UUID, loc geo.Location) (*created, error) {
	unlock := s.userLocks.Lock(userID)
	defer unlock()

	existing, err := s.alerts.GetActiveByUser(ctx, userID)
	switch {
	case err == nil:
		return nil, &e.ActiveAlertError{AlertID: existing.ID}
	case !errors.Is(err, e.ErrNotFound):
		return nil, err
	}

	guardians, lookupErr := s.guardians.ListByUser(ctx, userID)
	if lookupErr != nil {
		s.logger.Error("guardian lookup failed, continuing without guardians",
			slog.String("user_id", userID.String()), slog.Any("error", lookupErr))
		guardians = nil
	}

	now := s.now()
	alert := &domain.Alert{
		ID:               uuid.New(),
		UserID:           userID,
		Lat:              loc.Lat,
		Lng:              loc.Lng,
		Status:           domain.AlertUnassigned,
		AssignedOfficers: []uuid.UUID{},
		GuardianCount:    len(guardians),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	var station *domain.Station
	if nearest := s.stations.FindNearest(ctx, loc.Lat, loc.Lng, 1); len(nearest) > 0 {
		st := nearest[0].Station
		station = &st
		dist := nearest[0].DistanceM
		alert.StationID = &st.ID
		alert.DistanceToStationM = &dist
		alert.Status = domain.AlertAssigned
	}

	if err := s.alerts.Create(ctx, alert); err != nil {
		if errors.Is(err, e.ErrUniqueViolation) {
			// another instance won the race
			if existing, gerr := s.alerts.GetActiveByUser(ctx, userID); gerr == nil {
				return nil, &e.ActiveAlertError{AlertID: existing.ID}
			}
			return nil, fmt.Errorf("%w: %w", e.ErrConflict, err)
		}
		return nil, err
	}
	return &created{alert: alert, station: station, guardians: guardians, guardianErr: lookupErr}, nil
}

func (s *AlertEngine) owner(ctx context.Context, caller domain.Caller) *domain.UserProfile {
	profile, err := s.users.Get(ctx, caller.UserID)
	if err == nil {
		return profile
	}
	if !errors.Is(err, e.ErrNotFound) {
		s.logger.Warn("owner profile lookup failed", slog.String("user_id", caller.UserID.String()), slog.Any("error", err))
	}
	return &domain.UserProfile{ID: caller.UserID, Name: caller.Name, Role: caller.Role}
}

// AssignStation routes the alert to an admin-selected station. Choosing the
// station the alert already has keeps its status; a different one resets it
// to assigned. Officer ids, when given, replace the assigned set.
func (s *AlertEngine) AssignStation(ctx context.Context, caller domain.Caller, alertID uuid.UUID, req domain.AssignOfficersRequest) (*domain.Alert, error) {
	const op = "service.AlertEngine.AssignStation"

	if caller.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%s: %w", op, e.ErrForbidden)
	}

	station, err := s.stations.Get(ctx, req.StationID)
	if err != nil {
		return nil, fmt.Errorf("%s: station: %w", op, err)
	}

	officers, err := s.checkOfficers(ctx, req.OfficerIDs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	unlock := s.alertLocks.Lock(alertID)
	defer unlock()

	current, err := s.alerts.Get(ctx, alertID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if current.Status == domain.AlertResolved {
		return nil, fmt.Errorf("%s: %w", op, e.ErrAlreadyResolved)
	}

	sameStation := current.StationID != nil && *current.StationID == station.ID
	patch := domain.AssignmentPatch{
		StationID: station.ID,
		DistanceM: geo.Distance(current.Location(), station.Location()),
		Status:    domain.AlertAssigned,
		Officers:  []uuid.UUID{},
		At:        s.now(),
	}
	if sameStation {
		patch.Status = current.Status
		patch.Officers = current.AssignedOfficers
	}
	if officers != nil {
		patch.Officers = officers
	}

	updated, err := s.alerts.Assign(ctx, alertID, patch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !sameStation {
		metrics.AlertTransitions.WithLabelValues(string(updated.Status)).Inc()
	}

	s.logger.Info("sos alert assigned",
		slog.String("alert_id", alertID.String()),
		slog.String("station_id", station.ID.String()),
		slog.Bool("same_station", sameStation),
		slog.Int("officers", len(updated.AssignedOfficers)),
	)
	s.publish(ctx, domain.EventAlertAssigned, updated)
	return updated, nil
}

// checkOfficers dedupes ids keeping order and verifies each is a police account.
// A nil input means "leave officers alone" and returns nil.
func (s *AlertEngine) checkOfficers(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if ids == nil {
		return nil, nil
	}
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) == 0 {
		return out, nil
	}

	profiles, err := s.users.GetMany(ctx, out)
	if err != nil {
		return nil, err
	}
	roles := make(map[uuid.UUID]domain.Role, len(profiles))
	for _, p := range profiles {
		roles[p.ID] = p.Role
	}
	for _, id := range out {
		role, ok := roles[id]
		if !ok || role != domain.RolePolice {
			return nil, fmt.Errorf("officer %s is not a police account: %w", id, e.ErrInvalidInput)
		}
	}
	return out, nil
}

// Acknowledge marks that responders are on it. Police may only acknowledge
// alerts routed to them and are added to the officer set.
func (s *AlertEngine) Acknowledge(ctx context.Context, caller domain.Caller, alertID uuid.UUID) (*domain.Alert, error) {
	const op = "service.AlertEngine.Acknowledge"

	if caller.Role != domain.RolePolice && caller.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%s: %w", op, e.ErrForbidden)
	}

	unlock := s.alertLocks.Lock(alertID)
	defer unlock()

	current, err := s.alerts.Get(ctx, alertID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if caller.Role == domain.RolePolice && !current.AssignedTo(caller.UserID, caller.StationID) {
		return nil, fmt.Errorf("%s: %w", op, e.ErrForbidden)
	}
	switch current.Status {
	case domain.AlertResolved:
		return nil, fmt.Errorf("%s: %w", op, e.ErrAlreadyResolved)
	case domain.AlertUnassigned:
		return nil, fmt.Errorf("%s: alert has no station yet: %w", op, e.ErrConflict)
	}

	officers := append([]uuid.UUID{}, current.AssignedOfficers...)
	if caller.Role == domain.RolePolice && !current.HasOfficer(caller.UserID) {
		officers = append(officers, caller.UserID)
	}

	updated, err := s.alerts.Acknowledge(ctx, alertID, officers, s.now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if current.Status != domain.AlertInProgress {
		metrics.AlertTransitions.WithLabelValues(string(domain.AlertInProgress)).Inc()
	}

	s.logger.Info("sos alert acknowledged",
		slog.String("alert_id", alertID.String()),
		slog.String("by", caller.UserID.String()),
	)
	s.publish(ctx, domain.EventAlertInProgress, updated)
	return updated, nil
}

// Resolve closes the alert on behalf of police or admin. Resolving twice fails
// with e.ErrAlreadyResolved and leaves the alert untouched.
func (s *AlertEngine) Resolve(ctx context.Context, caller domain.Caller, alertID uuid.UUID) (*domain.Alert, error) {
	const op = "service.AlertEngine.Resolve"

	if caller.Role != domain.RolePolice && caller.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%s: %w", op, e.ErrForbidden)
	}
	return s.close(ctx, op, caller, alertID, domain.ResolutionResolved, func(a *domain.Alert) bool {
		return caller.Role == domain.RoleAdmin || a.AssignedTo(caller.UserID, caller.StationID)
	})
}

// Cancel lets the owning user withdraw a false alarm.
func (s *AlertEngine) Cancel(ctx context.Context, caller domain.Caller, alertID uuid.UUID) (*domain.Alert, error) {
	const op = "service.AlertEngine.Cancel"

	return s.close(ctx, op, caller, alertID, domain.ResolutionCancelled, func(a *domain.Alert) bool {
		return a.UserID == caller.UserID
	})
}

func (s *AlertEngine) close(ctx context.Context, op string, caller domain.Caller, alertID uuid.UUID, resolution domain.Resolution, allowed func(*domain.Alert) bool) (*domain.Alert, error) {
	unlock := s.alertLocks.Lock(alertID)
	defer unlock()

	current, err := s.alerts.Get(ctx, alertID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !allowed(current) {
		return nil, fmt.Errorf("%s: %w", op, e.ErrForbidden)
	}
	if current.Status == domain.AlertResolved {
		return nil, fmt.Errorf("%s: %w", op, e.ErrAlreadyResolved)
	}

	updated, err := s.alerts.Resolve(ctx, alertID, domain.ResolutionPatch{
		Resolution: resolution,
		By:         caller.UserID,
		At:         s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.AlertTransitions.WithLabelValues(string(domain.AlertResolved)).Inc()

	s.logger.Info("sos alert closed",
		slog.String("alert_id", alertID.String()),
		slog.String("resolution", string(resolution)),
		slog.String("by", caller.UserID.String()),
	)
	s.publish(ctx, domain.EventAlertResolved, updated)
	return updated, nil
}

func (s *AlertEngine) GetActiveForUser(ctx context.Context, userID uuid.UUID) (*domain.Alert, error) {
	const op = "service.AlertEngine.GetActiveForUser"

	a, err := s.alerts.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

func (s *AlertEngine) ListActiveAssignedToOfficer(ctx context.Context, officerID uuid.UUID, stationID *uuid.UUID) ([]*domain.Alert, error) {
	const op = "service.AlertEngine.ListActiveAssignedToOfficer"

	alerts, err := s.alerts.ListActiveForOfficer(ctx, officerID, stationID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return alerts, nil
}

func (s *AlertEngine) ListAllActive(ctx context.Context) ([]*domain.Alert, error) {
	const op = "service.AlertEngine.ListAllActive"

	alerts, err := s.alerts.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return alerts, nil
}

// Get returns any alert, resolved ones included, to its participants.
func (s *AlertEngine) Get(ctx context.Context, caller domain.Caller, alertID uuid.UUID) (*domain.Alert, error) {
	const op = "service.AlertEngine.Get"

	a, err := s.alerts.Get(ctx, alertID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !CanAccess(caller, a) {
		return nil, fmt.Errorf("%s: %w", op, e.ErrForbidden)
	}
	return a, nil
}

// RankStationsForAlert lists stations nearest-first from the alert location,
// feeding the admin assignment picker.
func (s *AlertEngine) RankStationsForAlert(ctx context.Context, caller domain.Caller, alertID uuid.UUID, limit int) ([]domain.RankedStation, error) {
	const op = "service.AlertEngine.RankStationsForAlert"

	if caller.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%s: %w", op, e.ErrForbidden)
	}
	a, err := s.alerts.Get(ctx, alertID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.stations.FindNearest(ctx, a.Lat, a.Lng, limit), nil
}

func (s *AlertEngine) publish(ctx context.Context, typ domain.EventType, a *domain.Alert) {
	if s.events == nil {
		return
	}
	ev := domain.Event{Type: typ, AlertID: a.ID, Alert: a.Clone(), At: s.now()}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.Warn("event publish failed",
			slog.String("type", string(typ)),
			slog.String("alert_id", a.ID.String()),
			slog.Any("error", err),
		)
	}
}

// CanAccess reports whether caller takes part in the alert: its owner, police
// routed to it, or any admin.
func CanAccess(caller domain.Caller, a *domain.Alert) bool {
	switch caller.Role {
	case domain.RoleAdmin:
		return true
	case domain.RolePolice:
		return a.AssignedTo(caller.UserID, caller.StationID)
	default:
		return a.UserID == caller.UserID
	}
}
