package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sosdesk/internal/config"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Redis holds the shared client used by the station cache, event bus and
// notification queue.
type Redis struct {
	Client *redis.Client
}

func NewRedis(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Redis, error) {
	const op = "redis.NewRedis"

	opts := clientOptions(cfg.Redis)
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("redis ping failed",
			slog.String("addr", opts.Addr),
			slog.Int("db", opts.DB),
			slog.String("error", err.Error()),
		)
		if cerr := rdb.Close(); cerr != nil {
			return nil, fmt.Errorf("%s: close after failed ping: %w", op, cerr)
		}
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}
	logger.Info("redis connected",
		slog.String("addr", opts.Addr),
		slog.Int("db", opts.DB),
		slog.Int("pool_size", opts.PoolSize),
	)

	return &Redis{Client: rdb}, nil
}

func clientOptions(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}
}

func (r *Redis) Close() error {
	return r.Client.Close()
}
