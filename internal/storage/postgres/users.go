package postgres

import (
	"context"
	"errors"
	"log/slog"

	"sosdesk/internal/domain"
	"sosdesk/pkg/e"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepo reads the profile table maintained by the account system.
type UserRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewUserRepo(pool *pgxpool.Pool, logger *slog.Logger) *UserRepo {
	return &UserRepo{pool: pool, logger: logger}
}

func (r *UserRepo) Get(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error) {
	const op = "postgres.User.Get"

	const query = `SELECT id, name, phone, email, role, station_id FROM users WHERE id = $1`

	var u domain.UserProfile
	err := r.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Name, &u.Phone, &u.Email, &u.Role, &u.StationID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			r.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		}
		return nil, e.WrapError(ctx, op, err)
	}
	return &u, nil
}

// GetMany skips unknown ids and keeps the input order.
func (r *UserRepo) GetMany(ctx context.Context, ids []uuid.UUID) ([]*domain.UserProfile, error) {
	const op = "postgres.User.GetMany"

	if len(ids) == 0 {
		return []*domain.UserProfile{}, nil
	}

	const query = `SELECT id, name, phone, email, role, station_id FROM users WHERE id = ANY ($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]*domain.UserProfile, len(ids))
	for rows.Next() {
		var u domain.UserProfile
		if err := rows.Scan(&u.ID, &u.Name, &u.Phone, &u.Email, &u.Role, &u.StationID); err != nil {
			r.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		byID[u.ID] = &u
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	out := make([]*domain.UserProfile, 0, len(byID))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// Upsert seeds or refreshes a profile row.
func (r *UserRepo) Upsert(ctx context.Context, u domain.UserProfile) error {
	const op = "postgres.User.Upsert"

	const query = `
		INSERT INTO users (id, name, phone, email, role, station_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			role = EXCLUDED.role,
			station_id = EXCLUDED.station_id
	`
	if _, err := r.pool.Exec(ctx, query, u.ID, u.Name, u.Phone, u.Email, u.Role, u.StationID); err != nil {
		r.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	return nil
}
