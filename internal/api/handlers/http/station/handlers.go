package station

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"sosdesk/internal/api/respond"
	"sosdesk/internal/domain"
	"sosdesk/internal/middleware"
	"sosdesk/pkg/e"

	"github.com/google/uuid"
)

const (
	maxImportBatch = 5000
	maxImportBytes = 16 << 20
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type Directory interface {
	ListAll(ctx context.Context) ([]domain.Station, error)
	FindNearest(ctx context.Context, lat, lng float64, limit int) []domain.RankedStation
	FindWithinRadius(ctx context.Context, lat, lng, radiusMeters float64) []domain.RankedStation
	Get(ctx context.Context, id uuid.UUID) (*domain.Station, error)
	Create(ctx context.Context, req domain.CreateStationRequest) (*domain.Station, error)
	Update(ctx context.Context, id uuid.UUID, req domain.UpdateStationRequest) (*domain.Station, error)
	Import(ctx context.Context, raw []json.RawMessage) (domain.ImportStationsResult, error)
}

type Handler struct {
	logger   *slog.Logger
	Stations Directory
}

func NewHandler(logger *slog.Logger, stations Directory) *Handler {
	return &Handler{logger: logger, Stations: stations}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	l := respond.Logger(h.logger, r)

	stations, err := h.Stations.ListAll(r.Context())
	if err != nil {
		respond.Error(w, r, l, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"stations": stations, "total": len(stations)})
}

// Nearby ranks stations around lat/lng. With radius_km the result is the
// stations inside that radius, otherwise the nearest ones regardless of distance.
func (h *Handler) Nearby(w http.ResponseWriter, r *http.Request) {
	l := respond.Logger(h.logger, r)

	req, err := parseNearby(r)
	if err != nil {
		respond.Error(w, r, l, err)
		return
	}

	var stations []domain.RankedStation
	if req.RadiusKM > 0 {
		stations = h.Stations.FindWithinRadius(r.Context(), req.Lat, req.Lng, req.RadiusKM*1000)
		if req.Limit > 0 && len(stations) > req.Limit {
			stations = stations[:req.Limit]
		}
	} else {
		stations = h.Stations.FindNearest(r.Context(), req.Lat, req.Lng, req.Limit)
	}

	l.Debug("nearby stations",
		slog.Float64("lat", req.Lat),
		slog.Float64("lng", req.Lng),
		slog.Float64("radius_km", req.RadiusKM),
		slog.Int("count", len(stations)),
	)
	respond.JSON(w, http.StatusOK, map[string]any{"stations": stations, "total": len(stations)})
}

func parseNearby(r *http.Request) (domain.NearbyStationsRequest, error) {
	q := r.URL.Query()
	var req domain.NearbyStationsRequest

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		return req, e.Wrap("lat", e.ErrInvalidCoordinates)
	}
	lng, err := strconv.ParseFloat(q.Get("lng"), 64)
	if err != nil {
		return req, e.Wrap("lng", e.ErrInvalidCoordinates)
	}
	req.Lat, req.Lng = lat, lng

	if raw := q.Get("radius_km"); raw != "" {
		if req.RadiusKM, err = strconv.ParseFloat(raw, 64); err != nil {
			return req, e.Wrap("radius_km", e.ErrInvalidInput)
		}
	}
	if raw := q.Get("limit"); raw != "" {
		if req.Limit, err = strconv.Atoi(raw); err != nil {
			return req, e.Wrap("limit", e.ErrInvalidInput)
		}
	}

	return req, middleware.Validate(req)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	l := respond.Logger(h.logger, r)
	id, ok := respond.UUIDParam(w, r, l, "id")
	if !ok {
		return
	}

	st, err := h.Stations.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, l, err)
		return
	}
	respond.JSON(w, http.StatusOK, st)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	l := respond.Logger(h.logger, r)

	req, err := middleware.BindJSON[domain.CreateStationRequest](w, r)
	if err != nil {
		respond.Error(w, r, l, err)
		return
	}

	st, err := h.Stations.Create(r.Context(), req)
	if err != nil {
		respond.Error(w, r, l, err)
		return
	}

	l.Info("station created", slog.String("station_id", st.ID.String()), slog.String("name", st.Name))
	respond.JSON(w, http.StatusCreated, st)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	l := respond.Logger(h.logger, r)
	id, ok := respond.UUIDParam(w, r, l, "id")
	if !ok {
		return
	}

	req, err := middleware.BindJSON[domain.UpdateStationRequest](w, r)
	if err != nil {
		respond.Error(w, r, l, err)
		return
	}

	st, err := h.Stations.Update(r.Context(), id, req)
	if err != nil {
		respond.Error(w, r, l, err)
		return
	}

	l.Info("station updated", slog.String("station_id", id.String()))
	respond.JSON(w, http.StatusOK, st)
}

// Import accepts a JSON array of station records in any supported coordinate shape.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	l := respond.Logger(h.logger, r)

	var raw []json.RawMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxImportBytes)).Decode(&raw); err != nil {
		respond.Message(w, http.StatusBadRequest, "expected a JSON array of stations")
		return
	}
	if len(raw) == 0 || len(raw) > maxImportBatch {
		respond.Message(w, http.StatusBadRequest, "expected 1-"+strconv.Itoa(maxImportBatch)+" stations")
		return
	}

	res, err := h.Stations.Import(r.Context(), raw)
	if err != nil {
		respond.Error(w, r, l, err)
		return
	}

	l.Info("stations imported", slog.Int("imported", len(res.Imported)), slog.Int("skipped", res.Skipped))
	respond.JSON(w, http.StatusOK, res)
}
