package postgres

import (
	"context"
	"log/slog"
	"time"

	"sosdesk/internal/domain"
	"sosdesk/pkg/e"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GuardianRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewGuardianRepo(pool *pgxpool.Pool, logger *slog.Logger) *GuardianRepo {
	return &GuardianRepo{pool: pool, logger: logger}
}

func (r *GuardianRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Guardian, error) {
	const op = "postgres.Guardian.ListByUser"

	const query = `
		SELECT id, user_id, name, phone, email, created_at
		FROM guardians
		WHERE user_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	out := make([]*domain.Guardian, 0, domain.MaxGuardiansPerUser)
	for rows.Next() {
		var g domain.Guardian
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Phone, &g.Email, &g.CreatedAt); err != nil {
			r.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		out = append(out, &g)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	return out, nil
}

// Create inserts only while the user is below max, serialized per user.
func (r *GuardianRepo) Create(ctx context.Context, guardian *domain.Guardian, max int) error {
	const op = "postgres.Guardian.Create"

	if guardian.ID == uuid.Nil {
		guardian.ID = uuid.New()
	}
	if guardian.CreatedAt.IsZero() {
		guardian.CreatedAt = time.Now().UTC()
	}

	var inserted int64
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1::text))`, guardian.UserID.String()); err != nil {
			return err
		}

		const query = `
			INSERT INTO guardians (id, user_id, name, phone, email, created_at)
			SELECT $1, $2, $3, $4, $5, $6
			WHERE $7 <= 0 OR (SELECT count(*) FROM guardians WHERE user_id = $2) < $7
		`
		tag, err := tx.Exec(ctx, query,
			guardian.ID,
			guardian.UserID,
			guardian.Name,
			guardian.Phone,
			guardian.Email,
			guardian.CreatedAt,
			max,
		)
		if err != nil {
			return err
		}
		inserted = tag.RowsAffected()
		return nil
	})
	if err != nil {
		r.logger.Error("db insert failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	if inserted == 0 {
		return e.Wrap(op, e.ErrGuardianLimit)
	}
	return nil
}

func (r *GuardianRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	const op = "postgres.Guardian.Delete"

	tag, err := r.pool.Exec(ctx, `DELETE FROM guardians WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(op, e.ErrNotFound)
	}
	return nil
}
