package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"sosdesk/internal/domain"
	"sosdesk/pkg/e"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const stationColumns = `
	id,
	name,
	area,
	city,
	helpline,
	ST_Y(geo_point::geometry) AS lat,
	ST_X(geo_point::geometry) AS lng,
	created_at,
	updated_at`

type StationRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewStationRepo(pool *pgxpool.Pool, logger *slog.Logger) *StationRepo {
	return &StationRepo{pool: pool, logger: logger}
}

func scanStation(row pgx.Row, s *domain.Station) error {
	return row.Scan(&s.ID, &s.Name, &s.Area, &s.City, &s.Helpline, &s.Lat, &s.Lng, &s.CreatedAt, &s.UpdatedAt)
}

func (r *StationRepo) ListAll(ctx context.Context) ([]domain.Station, error) {
	const op = "postgres.Station.ListAll"

	query := `SELECT` + stationColumns + ` FROM stations ORDER BY name, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	stations := make([]domain.Station, 0, 64)
	for rows.Next() {
		var s domain.Station
		if err := scanStation(rows, &s); err != nil {
			r.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		stations = append(stations, s)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	return stations, nil
}

func (r *StationRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Station, error) {
	const op = "postgres.Station.Get"

	query := `SELECT` + stationColumns + ` FROM stations WHERE id = $1`

	var s domain.Station
	if err := scanStation(r.pool.QueryRow(ctx, query, id), &s); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			r.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		}
		return nil, e.WrapError(ctx, op, err)
	}
	return &s, nil
}

func (r *StationRepo) Create(ctx context.Context, station *domain.Station) error {
	const op = "postgres.Station.Create"

	const query = `
		INSERT INTO stations (id, name, area, city, helpline, geo_point, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, ST_SetSRID(ST_MakePoint($6, $7), 4326), $8, $9)
	`

	if station.ID == uuid.Nil {
		station.ID = uuid.New()
	}
	if station.CreatedAt.IsZero() {
		station.CreatedAt = time.Now().UTC()
	}
	if station.UpdatedAt.IsZero() {
		station.UpdatedAt = station.CreatedAt
	}

	_, err := r.pool.Exec(ctx, query,
		station.ID,
		station.Name,
		station.Area,
		station.City,
		station.Helpline,
		station.Lng,
		station.Lat,
		station.CreatedAt,
		station.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	return nil
}

func (r *StationRepo) Update(ctx context.Context, station *domain.Station) error {
	const op = "postgres.Station.Update"

	const query = `
		UPDATE stations
		SET name = $2,
			area = $3,
			city = $4,
			helpline = $5,
			geo_point = ST_SetSRID(ST_MakePoint($6, $7), 4326),
			updated_at = $8
		WHERE id = $1
	`

	if station.UpdatedAt.IsZero() {
		station.UpdatedAt = time.Now().UTC()
	}

	tag, err := r.pool.Exec(ctx, query,
		station.ID,
		station.Name,
		station.Area,
		station.City,
		station.Helpline,
		station.Lng,
		station.Lat,
		station.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	if tag.RowsAffected() == 0 {
		return e.WrapError(ctx, op, pgx.ErrNoRows)
	}
	return nil
}
