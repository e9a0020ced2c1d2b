package components

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"sosdesk/internal/api"
	"sosdesk/internal/api/handlers/http/system"
	"sosdesk/internal/auth"
	"sosdesk/internal/config"
	"sosdesk/internal/notify"
	"sosdesk/internal/realtime"
	"sosdesk/internal/redis"
	"sosdesk/internal/service"
	"sosdesk/internal/storage/memory"
	"sosdesk/internal/storage/postgres"
	"sosdesk/internal/workers"
	"sosdesk/pkg/logger"
)

type Components struct {
	logger     *slog.Logger
	HttpServer *api.Server
	Service    *service.Service
	Hub        *realtime.Hub
	Postgres   *postgres.Postgres
	Redis      *redis.Redis

	// optional, nil unless redis is enabled
	EventBus *redis.EventBus
	Sender   *workers.NotificationSender

	Refresher *workers.StationCacheRefresher
}

type repositories struct {
	alerts    service.AlertRepository
	stations  service.StationRepository
	messages  service.MessageRepository
	guardians service.GuardianRepository
	users     service.UserRepository
}

func InitComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	c := &Components{logger: logger}
	var checks []system.Check

	var repos repositories
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		logger.Info("Using in-memory storage")
		store := memory.NewStore()
		repos = repositories{store.Alerts, store.Stations, store.Messages, store.Guardians, store.Users}
	default:
		logger.Info("Initializing Postgres")
		storage, err := postgres.NewPostgres(ctx, cfg, logger)
		if err != nil {
			logger.Error("Failed to init postgres", slog.Any("error", err))
			return nil, fmt.Errorf("failed to init postgres: %w", err)
		}
		c.Postgres = storage
		repos = repositories{storage.Alerts, storage.Stations, storage.Messages, storage.Guardians, storage.Users}
		checks = append(checks, system.Check{Name: "postgres", Ping: storage.Pool.Ping})
	}

	var cache service.StationCache
	if cfg.Redis.Enabled {
		logger.Info("Initializing Redis")
		rdb, err := redis.NewRedis(ctx, cfg, logger)
		if err != nil {
			c.ShutdownAll()
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		c.Redis = rdb
		cache = redis.NewStationCache(rdb)
		checks = append(checks, system.Check{Name: "redis", Ping: func(ctx context.Context) error {
			return rdb.Client.Ping(ctx).Err()
		}})
	}

	c.Hub = realtime.NewHub(cfg.Realtime.Buffer, logger)
	var events service.EventPublisher = c.Hub
	if c.Redis != nil {
		c.EventBus = redis.NewEventBus(c.Redis.Client, cfg.Realtime.Channel, logger)
		events = c.EventBus
	}

	downstream, method := newNotifier(cfg, logger)
	notifier := downstream
	if c.Redis != nil && cfg.Notify.Queue {
		queue := redis.NewNotificationQueue(c.Redis.Client, cfg.Notify.QueueKey)
		c.Sender = workers.NewNotificationSender(queue, downstream, method, cfg.Notify.Workers, logger)
		notifier = queue
	}
	dispatcher := notify.NewDispatcher(notifier, method, cfg.Notify.Concurrency, logger)

	stations := service.NewStationDirectory(repos.stations, cache, service.StationDirectoryConfig{
		CacheTTL:            cfg.Stations.CacheTTL,
		DefaultRadiusMeters: cfg.Geo.DefaultRadiusMeters,
	}, logger)
	alerts := service.NewAlertEngine(repos.alerts, stations, repos.guardians, repos.users, dispatcher, events, logger)
	chat := service.NewChatService(repos.alerts, repos.messages, repos.users, events, logger, cfg.Chat.PageSize)
	guardians := service.NewGuardianService(repos.guardians, logger)
	c.Service = service.NewService(alerts, stations, chat, guardians)

	if cfg.Stations.SeedFile != "" {
		if err := seedStations(ctx, stations, cfg.Stations.SeedFile, logger); err != nil {
			c.ShutdownAll()
			return nil, err
		}
	}
	c.Refresher = workers.NewStationCacheRefresher(stations, cfg.Stations.RefreshSpec, logger)

	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	c.HttpServer = api.NewServer(ctx, cfg, logger, c.Service, c.Hub, issuer, checks...)
	logger.Info("Initialized server",
		slog.String("storage", cfg.Storage.Driver),
		slog.Bool("redis", c.Redis != nil),
		slog.String("notify", method),
	)

	return c, nil
}

func newNotifier(cfg *config.Config, logger *slog.Logger) (notify.Notifier, string) {
	if cfg.Notify.Mode == config.NotifyModeWebhook {
		return notify.NewWebhookNotifier(notify.WebhookConfig{
			URL:        cfg.Notify.WebhookURL,
			Timeout:    cfg.Notify.Timeout,
			MaxRetries: cfg.Notify.MaxRetries,
		}, logger), config.NotifyModeWebhook
	}
	return notify.NewLogNotifier(logger), config.NotifyModeLog
}

// seedStations imports the seed file only into an empty directory.
func seedStations(ctx context.Context, stations *service.StationDirectory, path string, logger *slog.Logger) error {
	const op = "components.seedStations"

	existing, err := stations.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(existing) > 0 {
		logger.Debug("station seed skipped", slog.Int("existing", len(existing)))
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%s: %s: %w", op, path, err)
	}

	res, err := stations.Import(ctx, raw)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("stations seeded",
		slog.String("file", path),
		slog.Int("imported", len(res.Imported)),
		slog.Int("skipped", res.Skipped),
	)
	return nil
}

func SetupLogger(env string) *slog.Logger {
	switch env {
	case "local":
		return logger.SetupPrettySlog()
	case "dev":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}
}

func (c *Components) ShutdownAll() {
	start := time.Now()
	c.logger.Info("shutting down components")

	if c.Postgres != nil {
		c.Postgres.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.logger.Error("Redis close failed", slog.String("err", err.Error()))
		}
	}

	c.logger.Info("components stopped", slog.Duration("latency", time.Since(start)))
}
