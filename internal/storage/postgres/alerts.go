package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sosdesk/internal/domain"
	"sosdesk/pkg/e"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const alertColumns = `
	id,
	user_id,
	ST_Y(geo_point::geometry) AS lat,
	ST_X(geo_point::geometry) AS lng,
	status,
	station_id,
	distance_to_station_m,
	assigned_officers,
	guardian_count,
	resolution,
	resolved_by,
	resolved_at,
	created_at,
	updated_at`

type AlertRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewAlertRepo(pool *pgxpool.Pool, logger *slog.Logger) *AlertRepo {
	return &AlertRepo{pool: pool, logger: logger}
}

func scanAlert(row pgx.Row) (*domain.Alert, error) {
	var a domain.Alert
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Lat,
		&a.Lng,
		&a.Status,
		&a.StationID,
		&a.DistanceToStationM,
		&a.AssignedOfficers,
		&a.GuardianCount,
		&a.Resolution,
		&a.ResolvedBy,
		&a.ResolvedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if a.AssignedOfficers == nil {
		a.AssignedOfficers = []uuid.UUID{}
	}
	return &a, nil
}

func (r *AlertRepo) list(ctx context.Context, op, query string, args ...any) ([]*domain.Alert, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	alerts := make([]*domain.Alert, 0)
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			r.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	return alerts, nil
}

func (r *AlertRepo) Create(ctx context.Context, alert *domain.Alert) error {
	const op = "postgres.Alert.Create"

	const query = `
		INSERT INTO sos_alerts (
			id, user_id, geo_point, status, station_id, distance_to_station_m,
			assigned_officers, guardian_count, resolution, created_at, updated_at
		)
		VALUES ($1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326), $5, $6, $7, $8, $9, $10, $11, $12)
	`

	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}
	if alert.UpdatedAt.IsZero() {
		alert.UpdatedAt = alert.CreatedAt
	}
	officers := alert.AssignedOfficers
	if officers == nil {
		officers = []uuid.UUID{}
	}

	_, err := r.pool.Exec(ctx, query,
		alert.ID,
		alert.UserID,
		alert.Lng,
		alert.Lat,
		alert.Status,
		alert.StationID,
		alert.DistanceToStationM,
		officers,
		alert.GuardianCount,
		alert.Resolution,
		alert.CreatedAt,
		alert.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	return nil
}

func (r *AlertRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Alert, error) {
	const op = "postgres.Alert.Get"

	query := `SELECT` + alertColumns + ` FROM sos_alerts WHERE id = $1`

	a, err := scanAlert(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			r.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		}
		return nil, e.WrapError(ctx, op, err)
	}
	return a, nil
}

func (r *AlertRepo) GetActiveByUser(ctx context.Context, userID uuid.UUID) (*domain.Alert, error) {
	const op = "postgres.Alert.GetActiveByUser"

	query := `SELECT` + alertColumns + ` FROM sos_alerts WHERE user_id = $1 AND status <> 'resolved'`

	a, err := scanAlert(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			r.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		}
		return nil, e.WrapError(ctx, op, err)
	}
	return a, nil
}

func (r *AlertRepo) ListActive(ctx context.Context) ([]*domain.Alert, error) {
	query := `SELECT` + alertColumns + `
		FROM sos_alerts
		WHERE status <> 'resolved'
		ORDER BY created_at DESC, id`
	return r.list(ctx, "postgres.Alert.ListActive", query)
}

func (r *AlertRepo) ListActiveForOfficer(ctx context.Context, officerID uuid.UUID, stationID *uuid.UUID) ([]*domain.Alert, error) {
	query := `SELECT` + alertColumns + `
		FROM sos_alerts
		WHERE status <> 'resolved'
		  AND ($1 = ANY (assigned_officers) OR ($2::uuid IS NOT NULL AND station_id = $2::uuid))
		ORDER BY created_at DESC, id`
	return r.list(ctx, "postgres.Alert.ListActiveForOfficer", query, officerID, stationID)
}

func (r *AlertRepo) Assign(ctx context.Context, id uuid.UUID, patch domain.AssignmentPatch) (*domain.Alert, error) {
	const op = "postgres.Alert.Assign"

	query := `
		UPDATE sos_alerts
		SET station_id = $2,
			distance_to_station_m = $3,
			assigned_officers = $4,
			status = $5,
			updated_at = $6
		WHERE id = $1 AND status <> 'resolved'
		RETURNING` + alertColumns

	officers := patch.Officers
	if officers == nil {
		officers = []uuid.UUID{}
	}
	a, err := scanAlert(r.pool.QueryRow(ctx, query, id, patch.StationID, patch.DistanceM, officers, patch.Status, patch.At))
	if err != nil {
		return nil, r.missed(ctx, op, id, err)
	}
	return a, nil
}

func (r *AlertRepo) Acknowledge(ctx context.Context, id uuid.UUID, officers []uuid.UUID, at time.Time) (*domain.Alert, error) {
	const op = "postgres.Alert.Acknowledge"

	query := `
		UPDATE sos_alerts
		SET assigned_officers = $2,
			status = 'in_progress',
			updated_at = $3
		WHERE id = $1 AND status IN ('assigned', 'in_progress')
		RETURNING` + alertColumns

	if officers == nil {
		officers = []uuid.UUID{}
	}
	a, err := scanAlert(r.pool.QueryRow(ctx, query, id, officers, at))
	if err != nil {
		return nil, r.missed(ctx, op, id, err)
	}
	return a, nil
}

func (r *AlertRepo) Resolve(ctx context.Context, id uuid.UUID, patch domain.ResolutionPatch) (*domain.Alert, error) {
	const op = "postgres.Alert.Resolve"

	query := `
		UPDATE sos_alerts
		SET status = 'resolved',
			resolution = $2,
			resolved_by = $3,
			resolved_at = $4,
			updated_at = $4
		WHERE id = $1 AND status <> 'resolved'
		RETURNING` + alertColumns

	a, err := scanAlert(r.pool.QueryRow(ctx, query, id, patch.Resolution, patch.By, patch.At))
	if err != nil {
		return nil, r.missed(ctx, op, id, err)
	}
	return a, nil
}

// missed explains why a conditional update touched no row.
func (r *AlertRepo) missed(ctx context.Context, op string, id uuid.UUID, err error) error {
	if !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Error("db update failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}

	current, getErr := r.Get(ctx, id)
	switch {
	case getErr != nil:
		return fmt.Errorf("%s: %w", op, getErr)
	case current.Status == domain.AlertResolved:
		return fmt.Errorf("%s: %w", op, e.ErrAlreadyResolved)
	default:
		return fmt.Errorf("%s: status %s: %w", op, current.Status, e.ErrConflict)
	}
}
