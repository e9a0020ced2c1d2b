package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sosdesk/internal/domain"
	"sosdesk/pkg/e"
)

func TestBindJSON(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"valid", `{"lat":28.61,"lng":77.2}`, nil},
		{"latitude out of range", `{"lat":91,"lng":77.2}`, e.ErrInvalidCoordinates},
		{"missing lng", `{"lat":28.61}`, e.ErrInvalidInput},
		{"empty body", ``, e.ErrInvalidInput},
		{"not json", `lat=1`, e.ErrInvalidInput},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
		got, err := BindJSON[domain.CreateAlertRequest](httptest.NewRecorder(), req)

		if tc.wantErr == nil {
			if err != nil || got.Lat == nil || *got.Lat != 28.61 {
				t.Fatalf("%s: unexpected %+v %v", tc.name, got, err)
			}
			continue
		}
		if !errors.Is(err, tc.wantErr) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
		}
	}
}
