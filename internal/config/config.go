package config

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env       string          `json:"env"`
	Http      HttpConfig      `json:"http"`
	Storage   StorageConfig   `json:"storage"`
	Postgres  PostgresConfig  `json:"postgres"`
	Redis     RedisConfig     `json:"redis"`
	Auth      AuthConfig      `json:"auth"`
	Geo       GeoConfig       `json:"geo"`
	Notify    NotifyConfig    `json:"notify"`
	Stations  StationsConfig  `json:"stations"`
	Chat      ChatConfig      `json:"chat"`
	Realtime  RealtimeConfig  `json:"realtime"`
	CORS      CORSConfig      `json:"cors"`
	RateLimit RateLimitConfig `json:"rate_limit"`
}

type HttpConfig struct {
	Port            string        `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type StorageConfig struct {
	Driver string `json:"driver"`
}

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	User     string `json:"user"`
	Password string `json:"password,omitempty"`
	SSLMode  string `json:"ssl_mode"`

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Addr     string `json:"addr"`
	Password string `json:"password,omitempty"`
	DB       int    `json:"db"`
	PoolSize int    `json:"pool_size"`
}

type AuthConfig struct {
	JWTSecret string        `json:"-"`
	Issuer    string        `json:"issuer"`
	TokenTTL  time.Duration `json:"token_ttl"`
}

type GeoConfig struct {
	DefaultRadiusMeters float64 `json:"default_radius_m"`
	RankLimit           int     `json:"rank_limit"`
}

const (
	NotifyModeLog     = "log"
	NotifyModeWebhook = "webhook"
)

type NotifyConfig struct {
	Mode        string        `json:"mode"`
	WebhookURL  string        `json:"webhook_url"`
	Timeout     time.Duration `json:"timeout"`
	MaxRetries  int           `json:"max_retries"`
	Queue       bool          `json:"queue"`
	QueueKey    string        `json:"queue_key"`
	Workers     int           `json:"workers"`
	Concurrency int           `json:"concurrency"`
}

type StationsConfig struct {
	CacheTTL    time.Duration `json:"cache_ttl"`
	RefreshSpec string        `json:"refresh_spec"`
	SeedFile    string        `json:"seed_file"`
}

type ChatConfig struct {
	PageSize int `json:"page_size"`
}

type RealtimeConfig struct {
	PingInterval time.Duration `json:"ping_interval"`
	WriteTimeout time.Duration `json:"write_timeout"`
	Buffer       int           `json:"buffer"`
	Channel      string        `json:"channel"`
}

type CORSConfig struct {
	AllowedOrigins []string `json:"allowed_origins"`
}

type RateLimitConfig struct {
	SOSPerMinute  int `json:"sos_per_minute"`
	ChatPerMinute int `json:"chat_per_minute"`
	Burst         int `json:"burst"`
}

func Load(ctx context.Context) (*Config, error) {
	stdLogger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLogger.Warn(".env load warning", slog.Any("error", err))
	}

	cfg := &Config{
		Env: getEnv("ENV", "local"),
		Http: HttpConfig{
			Port:            getEnv("HTTP_PORT", ":8080"),
			ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Storage: StorageConfig{
			Driver: getEnv("STORAGE_DRIVER", DriverPostgres),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "pg-local"),
			Port:            getEnvInt("POSTGRES_PORT", 5432),
			Database:        getEnv("POSTGRES_DB", "sosdesk"),
			User:            getEnv("POSTGRES_USER", "postgres"),
			Password:        getEnv("POSTGRES_PASSWORD", "postgres"),
			SSLMode:         getEnv("POSTGRES_SSL_MODE", "disable"),
			MaxConns:        20,
			MinConns:        1,
			MaxConnLifetime: 1 * time.Hour,
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", true),
			Addr:     getEnv("REDIS_ADDR", "redis-local:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			PoolSize: getEnvInt("REDIS_POOL_SIZE", 10),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			Issuer:    getEnv("JWT_ISSUER", "sosdesk"),
			TokenTTL:  getEnvDuration("JWT_TTL", 12*time.Hour),
		},
		Geo: GeoConfig{
			DefaultRadiusMeters: getEnvFloat("GEO_DEFAULT_RADIUS_M", 5000),
			RankLimit:           getEnvInt("GEO_RANK_LIMIT", 10),
		},
		Notify: NotifyConfig{
			Mode:        getEnv("NOTIFY_MODE", NotifyModeLog),
			WebhookURL:  getEnv("NOTIFY_WEBHOOK_URL", ""),
			Timeout:     getEnvDuration("NOTIFY_TIMEOUT", 5*time.Second),
			MaxRetries:  getEnvInt("NOTIFY_MAX_RETRIES", 3),
			Queue:       getEnvBool("NOTIFY_QUEUE", true),
			QueueKey:    getEnv("NOTIFY_QUEUE_KEY", "notifications:queue"),
			Workers:     getEnvInt("NOTIFY_WORKERS", 2),
			Concurrency: getEnvInt("NOTIFY_CONCURRENCY", 4),
		},
		Stations: StationsConfig{
			CacheTTL:    getEnvDuration("STATIONS_CACHE_TTL", 5*time.Minute),
			RefreshSpec: getEnv("STATIONS_REFRESH_SPEC", "@every 2m"),
			SeedFile:    getEnv("STATIONS_SEED_FILE", ""),
		},
		Chat: ChatConfig{
			PageSize: getEnvInt("CHAT_PAGE_SIZE", 500),
		},
		Realtime: RealtimeConfig{
			PingInterval: getEnvDuration("WS_PING_INTERVAL", 30*time.Second),
			WriteTimeout: getEnvDuration("WS_WRITE_TIMEOUT", 10*time.Second),
			Buffer:       getEnvInt("WS_BUFFER", 64),
			Channel:      getEnv("REALTIME_CHANNEL", "sos:events"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		RateLimit: RateLimitConfig{
			SOSPerMinute:  getEnvInt("RATE_SOS_PER_MINUTE", 6),
			ChatPerMinute: getEnvInt("RATE_CHAT_PER_MINUTE", 120),
			Burst:         getEnvInt("RATE_BURST", 5),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stdLogger.Info("Config loaded successfully",
		slog.String("env", cfg.Env),
		slog.String("http_port", cfg.Http.Port),
		slog.String("storage", cfg.Storage.Driver),
		slog.String("postgres_db", cfg.Postgres.Database),
		slog.String("redis_addr", cfg.Redis.Addr),
		slog.String("notify_mode", cfg.Notify.Mode))

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Http.Port == "" || c.Http.Port[0] != ':' {
		return errors.New("HTTP_PORT must start with ':' like ':8080'")
	}

	switch c.Storage.Driver {
	case DriverPostgres:
		if c.Postgres.Host == "" {
			return errors.New("POSTGRES_HOST required")
		}
	case DriverMemory:
	default:
		return errors.New("STORAGE_DRIVER must be postgres or memory")
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET required")
	}

	switch c.Notify.Mode {
	case NotifyModeLog:
	case NotifyModeWebhook:
		if c.Notify.WebhookURL == "" {
			return errors.New("NOTIFY_WEBHOOK_URL required when NOTIFY_MODE=webhook")
		}
	default:
		return errors.New("NOTIFY_MODE must be log or webhook")
	}

	if c.Geo.DefaultRadiusMeters <= 0 {
		return errors.New("GEO_DEFAULT_RADIUS_M must be positive")
	}
	if c.Redis.Enabled && c.Redis.PoolSize <= 0 {
		return errors.New("REDIS_POOL_SIZE must be positive")
	}
	if c.Notify.Queue && !c.Redis.Enabled {
		return errors.New("NOTIFY_QUEUE requires REDIS_ENABLED")
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
