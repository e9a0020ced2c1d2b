package sos

import (
	"context"
	"log/slog"
	"net/http"

	"sosdesk/internal/api/respond"
	"sosdesk/internal/domain"
	"sosdesk/internal/middleware"

	"github.com/google/uuid"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type AlertEngine interface {
	Create(ctx context.Context, caller domain.Caller, req domain.CreateAlertRequest) (*domain.Alert, domain.DispatchResult, error)
	AssignStation(ctx context.Context, caller domain.Caller, alertID uuid.UUID, req domain.AssignOfficersRequest) (*domain.Alert, error)
	Acknowledge(ctx context.Context, caller domain.Caller, alertID uuid.UUID) (*domain.Alert, error)
	Resolve(ctx context.Context, caller domain.Caller, alertID uuid.UUID) (*domain.Alert, error)
	Cancel(ctx context.Context, caller domain.Caller, alertID uuid.UUID) (*domain.Alert, error)
	GetActiveForUser(ctx context.Context, userID uuid.UUID) (*domain.Alert, error)
	ListActiveAssignedToOfficer(ctx context.Context, officerID uuid.UUID, stationID *uuid.UUID) ([]*domain.Alert, error)
	ListAllActive(ctx context.Context) ([]*domain.Alert, error)
	Get(ctx context.Context, caller domain.Caller, alertID uuid.UUID) (*domain.Alert, error)
	RankStationsForAlert(ctx context.Context, caller domain.Caller, alertID uuid.UUID, limit int) ([]domain.RankedStation, error)
}

type Handler struct {
	logger    *slog.Logger
	Alerts    AlertEngine
	rankLimit int
}

func NewHandler(logger *slog.Logger, alerts AlertEngine, rankLimit int) *Handler {
	if rankLimit <= 0 {
		rankLimit = 10
	}
	return &Handler{logger: logger, Alerts: alerts, rankLimit: rankLimit}
}

func (h *Handler) TriggerSOS(w http.ResponseWriter, r *http.Request) {
	l := respond.Logger(h.logger, r)
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}

	req, err := middleware.BindJSON[domain.CreateAlertRequest](w, r)
	if err != nil {
		respond.Error(w, r, l, err)
		return
	}

	alert, dispatch, err := h.Alerts.Create(r.Context(), caller, req)
	if err != nil {
		respond.Error(w, r, l, err)
		return
	}

	l.Info("sos triggered",
		slog.String("alert_id", alert.ID.String()),
		slog.String("status", string(alert.Status)),
		slog.Bool("degraded", dispatch.Degraded),
	)
	respond.JSON(w, http.StatusCreated, domain.CreateAlertResponse{Alert: alert, Notification: dispatch})
}

func (h *Handler) ActiveForUser(w http.ResponseWriter, r *http.Request) {
	l := respond.Logger(h.logger, r)
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}

	alert, err := h.Alerts.GetActiveForUser(r.Context(), caller.UserID)
	if err != nil {
		respond.Error(w, r, l, err)
		return
	}
	respond.JSON(w, http.StatusOK, alert)
}

func (h *Handler) AssignedToOfficer(w http.ResponseWriter, r *http.Request) {
	l := respond.Logger(h.logger, r)
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}

	alerts, err := h.Alerts.ListActiveAssignedToOfficer(r.Context(), caller.UserID, caller.StationID)
	if err != nil {
		respond.Error(w, r, l, err)
		return
	}
	respond.JSON(w, http.StatusOK, domain.ActiveAlertsResponse{Alerts: alerts, Total: len(alerts)})
}

func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	l := respond.Logger(h.logger, r)

	alerts, err := h.Alerts.ListAllActive(r.Context())
	if err != nil {
		respond.Error(w, r, l, err)
		return
	}
	l.Debug("active alerts listed", slog.Int("count", len(alerts)))
	respond.JSON(w, http.StatusOK, domain.ActiveAlertsResponse{Alerts: alerts, Total: len(alerts)})
}

func (h *Handler) GetAlert(w http.ResponseWriter, r *http.Request) {
	l := respond.Logger(h.logger, r)
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	id, ok := respond.UUIDParam(w, r, l, "id")
	if !ok {
		return
	}

	alert, err := h.Alerts.Get(r.Context(), caller, id)
	if err != nil {
		respond.Error(w, r, l, err)
		return
	}
	respond.JSON(w, http.StatusOK, alert)
}

func (h *Handler) RankStations(w http.ResponseWriter, r *http.Request) {
	l := respond.Logger(h.logger, r)
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	id, ok := respond.UUIDParam(w, r, l, "id")
	if !ok {
		return
	}

	limit := respond.ParseInt(r.URL.Query().Get("limit"), h.rankLimit)
	if limit <= 0 || limit > 100 {
		respond.Message(w, http.StatusBadRequest, "limit must be 1-100")
		return
	}

	stations, err := h.Alerts.RankStationsForAlert(r.Context(), caller, id, limit)
	if err != nil {
		respond.Error(w, r, l, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"stations": stations})
}

func (h *Handler) AssignOfficers(w http.ResponseWriter, r *http.Request) {
	l := respond.Logger(h.logger, r)
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	id, ok := respond.UUIDParam(w, r, l, "id")
	if !ok {
		return
	}

	req, err := middleware.BindJSON[domain.AssignOfficersRequest](w, r)
	if err != nil {
		respond.Error(w, r, l, err)
		return
	}

	alert, err := h.Alerts.AssignStation(r.Context(), caller, id, req)
	if err != nil {
		respond.Error(w, r, l, err)
		return
	}

	l.Info("alert assigned",
		slog.String("alert_id", id.String()),
		slog.String("station_id", req.StationID.String()),
		slog.Int("officers", len(alert.AssignedOfficers)),
	)
	respond.JSON(w, http.StatusOK, alert)
}

func (h *Handler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "acknowledged", h.Alerts.Acknowledge)
}

func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "resolved", h.Alerts.Resolve)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "cancelled", h.Alerts.Cancel)
}

type transitionFunc func(ctx context.Context, caller domain.Caller, alertID uuid.UUID) (*domain.Alert, error)

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, verb string, fn transitionFunc) {
	l := respond.Logger(h.logger, r)
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	id, ok := respond.UUIDParam(w, r, l, "id")
	if !ok {
		return
	}

	alert, err := fn(r.Context(), caller, id)
	if err != nil {
		respond.Error(w, r, l, err)
		return
	}

	l.Info("alert "+verb,
		slog.String("alert_id", id.String()),
		slog.String("by", caller.UserID.String()),
		slog.String("role", string(caller.Role)),
	)
	respond.JSON(w, http.StatusOK, alert)
}
