package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// users is owned by the profile system; it is created here so a fresh
// database is usable on its own.
var schema = []string{
	`CREATE EXTENSION IF NOT EXISTS postgis`,

	`CREATE TABLE IF NOT EXISTS users (
		id         UUID PRIMARY KEY,
		name       TEXT NOT NULL DEFAULT '',
		phone      TEXT NOT NULL DEFAULT '',
		email      TEXT NOT NULL DEFAULT '',
		role       TEXT NOT NULL CHECK (role IN ('user', 'police', 'admin')),
		station_id UUID
	)`,

	`CREATE TABLE IF NOT EXISTS stations (
		id         UUID PRIMARY KEY,
		name       TEXT NOT NULL,
		area       TEXT NOT NULL DEFAULT '',
		city       TEXT NOT NULL DEFAULT '',
		helpline   TEXT NOT NULL DEFAULT '',
		geo_point  GEOMETRY(Point, 4326) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS stations_geo_point_idx ON stations USING GIST (geo_point)`,

	`CREATE TABLE IF NOT EXISTS sos_alerts (
		id                    UUID PRIMARY KEY,
		user_id               UUID NOT NULL,
		geo_point             GEOMETRY(Point, 4326) NOT NULL,
		status                TEXT NOT NULL CHECK (status IN ('unassigned', 'assigned', 'in_progress', 'resolved')),
		station_id            UUID REFERENCES stations (id),
		distance_to_station_m DOUBLE PRECISION,
		assigned_officers     UUID[] NOT NULL DEFAULT '{}',
		guardian_count        INT NOT NULL DEFAULT 0,
		resolution            TEXT NOT NULL DEFAULT '',
		resolved_by           UUID,
		resolved_at           TIMESTAMPTZ,
		created_at            TIMESTAMPTZ NOT NULL,
		updated_at            TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS sos_alerts_one_active_per_user
		ON sos_alerts (user_id) WHERE status <> 'resolved'`,
	`CREATE INDEX IF NOT EXISTS sos_alerts_active_created_idx
		ON sos_alerts (created_at DESC) WHERE status <> 'resolved'`,

	`CREATE TABLE IF NOT EXISTS chat_messages (
		seq         BIGSERIAL PRIMARY KEY,
		id          UUID NOT NULL UNIQUE,
		alert_id    UUID NOT NULL REFERENCES sos_alerts (id),
		sender_id   UUID NOT NULL,
		sender_role TEXT NOT NULL,
		type        TEXT NOT NULL CHECK (type IN ('text', 'audio', 'location')),
		payload     JSONB NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS chat_messages_alert_seq_idx ON chat_messages (alert_id, seq)`,

	`CREATE TABLE IF NOT EXISTS guardians (
		id         UUID PRIMARY KEY,
		user_id    UUID NOT NULL,
		name       TEXT NOT NULL,
		phone      TEXT NOT NULL,
		email      TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS guardians_user_email_idx ON guardians (user_id, lower(email))`,
}

// Migrate applies the schema idempotently.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
