package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

type StationRefresher interface {
	Refresh(ctx context.Context) (int, error)
}

// StationCacheRefresher reloads the station list into the shared cache on a
// cron schedule so proximity lookups rarely fall through to the database.
type StationCacheRefresher struct {
	stations StationRefresher
	spec     string
	timeout  time.Duration
	logger   *slog.Logger
}

func NewStationCacheRefresher(stations StationRefresher, spec string, logger *slog.Logger) *StationCacheRefresher {
	if spec == "" {
		spec = "@every 2m"
	}
	return &StationCacheRefresher{
		stations: stations,
		spec:     spec,
		timeout:  30 * time.Second,
		logger:   logger,
	}
}

// Run refreshes once, then on every schedule tick until ctx is done.
func (r *StationCacheRefresher) Run(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	if _, err := c.AddFunc(r.spec, func() { r.refresh(ctx) }); err != nil {
		return fmt.Errorf("workers.StationCacheRefresher.Run: bad schedule %q: %w", r.spec, err)
	}

	r.refresh(ctx)
	c.Start()
	r.logger.Info("station cache refresher started", slog.String("schedule", r.spec))

	<-ctx.Done()
	<-c.Stop().Done()
	r.logger.Info("station cache refresher stopped")
	return nil
}

func (r *StationCacheRefresher) refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	n, err := r.stations.Refresh(ctx)
	if err != nil {
		r.logger.Warn("station cache refresh failed", slog.Any("error", err))
		return
	}
	r.logger.Debug("station cache refreshed", slog.Int("stations", n), slog.Duration("latency", time.Since(start)))
}
