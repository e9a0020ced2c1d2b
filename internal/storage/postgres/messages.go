package postgres

import (
	"context"
	"log/slog"

	"sosdesk/internal/domain"
	"sosdesk/pkg/e"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewMessageRepo(pool *pgxpool.Pool, logger *slog.Logger) *MessageRepo {
	return &MessageRepo{pool: pool, logger: logger}
}

// Append inserts under a per-alert advisory lock so seq order within a thread
// equals commit order and a reader never sees seq N+1 before seq N.
func (r *MessageRepo) Append(ctx context.Context, msg *domain.Message) error {
	const op = "postgres.Message.Append"

	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1::text))`, msg.AlertID.String()); err != nil {
			return err
		}

		const query = `
			INSERT INTO chat_messages (id, alert_id, sender_id, sender_role, type, payload, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, clock_timestamp())
			RETURNING seq, created_at
		`
		return tx.QueryRow(ctx, query,
			msg.ID,
			msg.AlertID,
			msg.SenderID,
			msg.SenderRole,
			msg.Type,
			msg.Payload,
		).Scan(&msg.Seq, &msg.CreatedAt)
	})
	if err != nil {
		r.logger.Error("db insert failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	return nil
}

func (r *MessageRepo) List(ctx context.Context, alertID uuid.UUID, cursor domain.ChatCursor, limit int) ([]*domain.Message, error) {
	const op = "postgres.Message.List"

	const query = `
		SELECT id, alert_id, seq, sender_id, sender_role, type, payload, created_at
		FROM chat_messages
		WHERE alert_id = $1
		  AND seq > $2
		  AND ($3::timestamptz IS NULL OR created_at > $3::timestamptz)
		ORDER BY seq
		LIMIT $4
	`

	var lim *int
	if limit > 0 {
		lim = &limit
	}

	rows, err := r.pool.Query(ctx, query, alertID, cursor.Seq, cursor.After, lim)
	if err != nil {
		r.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	msgs := make([]*domain.Message, 0)
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.AlertID, &m.Seq, &m.SenderID, &m.SenderRole, &m.Type, &m.Payload, &m.CreatedAt); err != nil {
			r.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		msgs = append(msgs, &m)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	return msgs, nil
}

func (r *MessageRepo) SendersWithRole(ctx context.Context, alertID uuid.UUID, role domain.Role) ([]uuid.UUID, error) {
	const op = "postgres.Message.SendersWithRole"

	const query = `
		SELECT sender_id
		FROM chat_messages
		WHERE alert_id = $1 AND sender_role = $2
		GROUP BY sender_id
		ORDER BY min(seq)
	`

	rows, err := r.pool.Query(ctx, query, alertID, role)
	if err != nil {
		r.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		r.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return ids, nil
}
