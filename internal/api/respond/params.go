package respond

import (
	"log/slog"
	"net/http"
	"strconv"

	"sosdesk/internal/domain"
	"sosdesk/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Caller returns the authenticated caller or writes 401.
func Caller(w http.ResponseWriter, r *http.Request) (domain.Caller, bool) {
	c, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		Message(w, http.StatusUnauthorized, "unauthorized")
	}
	return c, ok
}

// UUIDParam parses a chi URL parameter or writes 400.
func UUIDParam(w http.ResponseWriter, r *http.Request, l *slog.Logger, name string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		l.Warn("invalid id", slog.String(name, raw), slog.String("error", err.Error()))
		Message(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func ParseInt(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
