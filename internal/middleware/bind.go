package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"sosdesk/pkg/e"
	"sosdesk/pkg/validator"

	govalidator "github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

// BindJSON decodes the request body into T and runs struct validation.
// Coordinate failures wrap e.ErrInvalidCoordinates, everything else e.ErrInvalidInput.
func BindJSON[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var target T

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&target); err != nil {
		if errors.Is(err, io.EOF) {
			return target, fmt.Errorf("empty body: %w", e.ErrInvalidInput)
		}
		return target, fmt.Errorf("invalid JSON: %w", e.ErrInvalidInput)
	}

	return target, Validate(target)
}

// Validate runs struct validation with the same error classification as BindJSON.
func Validate(v any) error {
	if err := validator.ValidateStruct(v); err != nil {
		return classify(err)
	}
	return nil
}

func classify(err error) error {
	var verrs govalidator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			switch fe.Tag() {
			case "lat", "lng":
				return fmt.Errorf("%s: %w", fe.Field(), e.ErrInvalidCoordinates)
			}
		}
		fe := verrs[0]
		return fmt.Errorf("%s failed %q: %w", fe.Field(), fe.Tag(), e.ErrInvalidInput)
	}
	return fmt.Errorf("%v: %w", err, e.ErrInvalidInput)
}
