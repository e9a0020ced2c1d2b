package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sosdesk/internal/domain"
	"sosdesk/pkg/e"
	"sosdesk/pkg/geo"
	"sosdesk/pkg/metrics"

	"github.com/google/uuid"
)

type StationDirectoryConfig struct {
	CacheTTL            time.Duration
	DefaultRadiusMeters float64
}

// StationDirectory answers proximity queries over the admin-managed station list.
// Proximity queries never fail: storage errors are logged and produce empty results.
type StationDirectory struct {
	repo   StationRepository
	cache  StationCache
	cfg    StationDirectoryConfig
	logger *slog.Logger
	now    func() time.Time
}

func NewStationDirectory(repo StationRepository, cache StationCache, cfg StationDirectoryConfig, logger *slog.Logger) *StationDirectory {
	if cfg.DefaultRadiusMeters <= 0 {
		cfg.DefaultRadiusMeters = geo.DefaultRadiusMeters
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &StationDirectory{
		repo:   repo,
		cache:  cache,
		cfg:    cfg,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (d *StationDirectory) ListAll(ctx context.Context) ([]domain.Station, error) {
	const op = "service.StationDirectory.ListAll"

	stations, err := d.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return stations, nil
}

// FindNearest ranks stations by distance from (lat, lng), ties broken by id.
// A limit <= 0 returns every station.
func (d *StationDirectory) FindNearest(ctx context.Context, lat, lng float64, limit int) []domain.RankedStation {
	ranked := d.rank(ctx, geo.Location{Lat: lat, Lng: lng})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// FindWithinRadius keeps stations no further than radiusMeters; a non-positive
// radius falls back to the configured default.
func (d *StationDirectory) FindWithinRadius(ctx context.Context, lat, lng, radiusMeters float64) []domain.RankedStation {
	if radiusMeters <= 0 {
		radiusMeters = d.cfg.DefaultRadiusMeters
	}
	ranked := d.rank(ctx, geo.Location{Lat: lat, Lng: lng})
	out := make([]domain.RankedStation, 0, len(ranked))
	for _, rs := range ranked {
		if rs.DistanceM > radiusMeters {
			break
		}
		out = append(out, rs)
	}
	return out
}

func (d *StationDirectory) rank(ctx context.Context, origin geo.Location) []domain.RankedStation {
	if !origin.Valid() {
		d.logger.Warn("proximity query with invalid origin", slog.String("origin", origin.String()))
		return []domain.RankedStation{}
	}

	stations, err := d.load(ctx)
	if err != nil {
		d.logger.Error("station directory unavailable, returning empty result", slog.Any("error", err))
		return []domain.RankedStation{}
	}

	keys := make([]string, len(stations))
	points := make([]geo.Location, len(stations))
	for i := range stations {
		keys[i] = stations[i].ID.String()
		points[i] = stations[i].Location()
	}

	ranked := geo.Rank(origin, keys, points)
	if skipped := len(stations) - len(ranked); skipped > 0 {
		d.logger.Warn("stations with invalid coordinates excluded", slog.Int("count", skipped))
	}

	out := make([]domain.RankedStation, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, domain.RankedStation{Station: stations[r.Index], DistanceM: r.DistanceM})
	}
	return out
}

func (d *StationDirectory) load(ctx context.Context) ([]domain.Station, error) {
	if d.cache != nil {
		stations, ok, err := d.cache.Get(ctx)
		switch {
		case err != nil:
			metrics.StationCacheTotal.WithLabelValues("error").Inc()
			d.logger.Warn("station cache read failed", slog.Any("error", err))
		case ok:
			metrics.StationCacheTotal.WithLabelValues("hit").Inc()
			return stations, nil
		default:
			metrics.StationCacheTotal.WithLabelValues("miss").Inc()
		}
	}
	return d.reload(ctx)
}

func (d *StationDirectory) reload(ctx context.Context) ([]domain.Station, error) {
	stations, err := d.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if d.cache != nil {
		if err := d.cache.Set(ctx, stations, d.cfg.CacheTTL); err != nil {
			d.logger.Warn("station cache write failed", slog.Any("error", err))
		}
	}
	return stations, nil
}

// Refresh reloads the station list from storage into the cache.
func (d *StationDirectory) Refresh(ctx context.Context) (int, error) {
	const op = "service.StationDirectory.Refresh"

	stations, err := d.reload(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return len(stations), nil
}

func (d *StationDirectory) Get(ctx context.Context, id uuid.UUID) (*domain.Station, error) {
	const op = "service.StationDirectory.Get"

	st, err := d.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}

func (d *StationDirectory) Create(ctx context.Context, req domain.CreateStationRequest) (*domain.Station, error) {
	const op = "service.StationDirectory.Create"

	if req.Lat == nil || req.Lng == nil {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidCoordinates)
	}
	loc := geo.Location{Lat: *req.Lat, Lng: *req.Lng}
	if !loc.Valid() {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidCoordinates)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%s: name required: %w", op, e.ErrInvalidInput)
	}

	now := d.now()
	st := &domain.Station{
		ID:        uuid.New(),
		Name:      name,
		Area:      strings.TrimSpace(req.Area),
		City:      strings.TrimSpace(req.City),
		Helpline:  strings.TrimSpace(req.Helpline),
		Lat:       loc.Lat,
		Lng:       loc.Lng,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := d.repo.Create(ctx, st); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	d.invalidate(ctx)

	d.logger.Info("station created", slog.String("station_id", st.ID.String()), slog.String("name", st.Name))
	return st, nil
}

func (d *StationDirectory) Update(ctx context.Context, id uuid.UUID, req domain.UpdateStationRequest) (*domain.Station, error) {
	const op = "service.StationDirectory.Update"

	st, err := d.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%s: name required: %w", op, e.ErrInvalidInput)
		}
		st.Name = name
	}
	if req.Area != nil {
		st.Area = strings.TrimSpace(*req.Area)
	}
	if req.City != nil {
		st.City = strings.TrimSpace(*req.City)
	}
	if req.Helpline != nil {
		st.Helpline = strings.TrimSpace(*req.Helpline)
	}
	if req.Lat != nil {
		st.Lat = *req.Lat
	}
	if req.Lng != nil {
		st.Lng = *req.Lng
	}
	if !st.Location().Valid() {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidCoordinates)
	}
	st.UpdatedAt = d.now()

	if err := d.repo.Update(ctx, st); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	d.invalidate(ctx)
	return st, nil
}

type importRecord struct {
	Name     string `json:"name"`
	Area     string `json:"area"`
	City     string `json:"city"`
	Helpline string `json:"helpline"`
}

// Import normalizes raw station records, accepting any coordinate shape
// geo.ParseLocation understands. Bad records are skipped and reported.
func (d *StationDirectory) Import(ctx context.Context, raw []json.RawMessage) (domain.ImportStationsResult, error) {
	const op = "service.StationDirectory.Import"

	res := domain.ImportStationsResult{Imported: make([]uuid.UUID, 0, len(raw))}
	now := d.now()

	for i, item := range raw {
		var rec importRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("record %d: malformed json", i))
			continue
		}
		name := strings.TrimSpace(rec.Name)
		if name == "" {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("record %d: name required", i))
			continue
		}
		loc, err := geo.ParseLocation(item)
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("record %d: %v", i, err))
			continue
		}

		st := &domain.Station{
			ID:        uuid.New(),
			Name:      name,
			Area:      strings.TrimSpace(rec.Area),
			City:      strings.TrimSpace(rec.City),
			Helpline:  strings.TrimSpace(rec.Helpline),
			Lat:       loc.Lat,
			Lng:       loc.Lng,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := d.repo.Create(ctx, st); err != nil {
			d.invalidate(ctx)
			return res, fmt.Errorf("%s: record %d: %w", op, i, err)
		}
		res.Imported = append(res.Imported, st.ID)
	}

	if len(res.Imported) > 0 {
		d.invalidate(ctx)
	}
	d.logger.Info("stations imported", slog.Int("imported", len(res.Imported)), slog.Int("skipped", res.Skipped))
	return res, nil
}

func (d *StationDirectory) invalidate(ctx context.Context) {
	if d.cache == nil {
		return
	}
	if err := d.cache.Invalidate(ctx); err != nil {
		d.logger.Warn("station cache invalidate failed", slog.Any("error", err))
	}
}
