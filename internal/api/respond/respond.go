package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"sosdesk/pkg/e"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type ErrorBody struct {
	Error         string     `json:"error"`
	ActiveAlertID *uuid.UUID `json:"active_alert_id,omitempty"`
}

func JSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func Message(w http.ResponseWriter, code int, msg string) {
	JSON(w, code, ErrorBody{Error: msg})
}

// Logger derives a request-scoped logger carrying chi's request id.
func Logger(base *slog.Logger, r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return base
	}
	return base.With(slog.String("request_id", reqID))
}

// Error maps service errors onto status codes. Server-side failures are logged
// at error level, client mistakes at debug.
func Error(w http.ResponseWriter, r *http.Request, l *slog.Logger, err error) {
	code, body := classify(err)

	attrs := []any{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", code),
		slog.Any("error", err),
	}
	if code >= http.StatusInternalServerError {
		l.Error("handler error", attrs...)
	} else {
		l.Debug("request rejected", attrs...)
	}

	JSON(w, code, body)
}

func classify(err error) (int, ErrorBody) {
	if id, ok := e.ActiveAlertID(err); ok {
		return http.StatusConflict, ErrorBody{Error: "active alert exists", ActiveAlertID: &id}
	}

	switch {
	case errors.Is(err, e.ErrInvalidCoordinates):
		return http.StatusBadRequest, ErrorBody{Error: "invalid coordinates"}
	case errors.Is(err, e.ErrInvalidInput), errors.Is(err, e.ErrInvalidUserID):
		return http.StatusBadRequest, ErrorBody{Error: "invalid input"}
	case errors.Is(err, e.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorBody{Error: "unauthorized"}
	case errors.Is(err, e.ErrForbidden):
		return http.StatusForbidden, ErrorBody{Error: "forbidden"}
	case errors.Is(err, e.ErrNotFound):
		return http.StatusNotFound, ErrorBody{Error: "not found"}
	case errors.Is(err, e.ErrGuardianLimit):
		return http.StatusConflict, ErrorBody{Error: "guardian limit reached"}
	case errors.Is(err, e.ErrAlreadyResolved):
		return http.StatusConflict, ErrorBody{Error: "alert already resolved"}
	case errors.Is(err, e.ErrConflict), errors.Is(err, e.ErrUniqueViolation):
		return http.StatusConflict, ErrorBody{Error: "conflict"}
	case errors.Is(err, e.ErrDeadline):
		return http.StatusGatewayTimeout, ErrorBody{Error: "deadline exceeded"}
	default:
		return http.StatusInternalServerError, ErrorBody{Error: "internal error"}
	}
}
