package guardian

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
type Guardians interface {
	List(ctx context.Context, caller domain.Caller) ([]*domain.Guardian, error)
	Create(ctx context.Context, caller domain.Caller, req domain.CreateGuardianRequest) (*domain.Guardian, error)
	Delete(ctx context.Context, caller domain.Caller, id uuid.UUID) error
}

type Handler struct {
	logger    *slog.Logger
	Guardians Guardians
}

func NewHandler(logger *slog.Logger, guardians Guardians) *Handler {
	return &Handler{logger: logger, Guardians: guardians}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	l := respond.Logger(h.logger, r)
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}

	gs, err := h.Guardians.List(r.Context(), caller)
	if err != nil {
		respond.Error(w, r, l, err)
		return
	}
	if gs == nil {
		gs = []*domain.Guardian{}
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"guardians": gs,
		"total":     len(gs),
		"limit":     domain.MaxGuardiansPerUser,
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	l := respond.Logger(h.logger, r)
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}

	req, err := middleware.BindJSON[domain.CreateGuardianRequest](w, r)
	if err != nil {
		respond.Error(w, r, l, err)
		return
	}

	g, err := h.Guardians.Create(r.Context(), caller, req)
	if err != nil {
		respond.Error(w, r, l, err)
		return
	}

	l.Info("guardian added", slog.String("guardian_id", g.ID.String()), slog.String("user_id", caller.UserID.String()))
	respond.JSON(w, http.StatusCreated, g)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	l := respond.Logger(h.logger, r)
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	id, ok := respond.UUIDParam(w, r, l, "id")
	if !ok {
		return
	}

	if err := h.Guardians.Delete(r.Context(), caller, id); err != nil {
		respond.Error(w, r, l, err)
		return
	}

	l.Info("guardian removed", slog.String("guardian_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}
