package e

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func Wrap(message string, err error) error {
	return fmt.Errorf("%s: %w", message, err)
}

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInternal           = errors.New("internal error")
	ErrDeadline           = errors.New("deadline exceeded")
	ErrCanceled           = errors.New("context canceled")
	ErrUniqueViolation    = errors.New("unique violation")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidUserID      = errors.New("invalid user_id")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrGuardianLimit      = errors.New("guardian limit reached")
	ErrQueueEmpty         = errors.New("notification queue is empty")

	// ErrAlreadyResolved is a Conflict: the alert reached its terminal state.
	ErrAlreadyResolved = fmt.Errorf("alert already resolved: %w", ErrConflict)
)

// ActiveAlertError is returned when a user who already has an active alert
// triggers SOS again. It carries the id of the alert the client should resume.
type ActiveAlertError struct {
	AlertID uuid.UUID
}

func (a *ActiveAlertError) Error() string {
	return fmt.Sprintf("user already has an active alert %s", a.AlertID)
}

func (a *ActiveAlertError) Unwrap() error { return ErrConflict }

// ActiveAlertID extracts the existing alert id from a creation conflict.
func ActiveAlertID(err error) (uuid.UUID, bool) {
	var active *ActiveAlertError
	if errors.As(err, &active) {
		return active.AlertID, true
	}
	return uuid.Nil, false
}

func WrapError(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, ErrDeadline)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, ErrCanceled)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w", op, ErrUniqueViolation)
		case "23503", "23514":
			return fmt.Errorf("%s: %w", op, ErrInvalidInput)
		default:
			return fmt.Errorf("%s: pg error %s: %w", op, pgErr.Code, ErrInternal)
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, ErrInternal)
}
