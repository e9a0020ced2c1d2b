package sos_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"sosdesk/internal/api/handlers/http/sos"
	mock_sos "sosdesk/internal/api/handlers/http/sos/mocks"
	"sosdesk/internal/api/respond"
	"sosdesk/internal/domain"
	"sosdesk/internal/middleware"
	"sosdesk/pkg/e"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func addChiURLParam(r *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeJSON[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response: %v, body=%s", err, rr.Body.String())
	}
	return out
}

func asCaller(r *http.Request, c domain.Caller) *http.Request {
	return r.WithContext(middleware.WithCaller(r.Context(), c))
}

func userCaller() domain.Caller {
	return domain.Caller{UserID: uuid.New(), Role: domain.RoleUser, Name: "Asha"}
}

func TestTriggerSOS_Created(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_sos.NewMockAlertEngine(ctrl)
	h := sos.NewHandler(newTestLogger(), svc, 10)

	caller := userCaller()
	alert := &domain.Alert{ID: uuid.New(), UserID: caller.UserID, Lat: 28.61, Lng: 77.2, Status: domain.AlertAssigned}

	svc.EXPECT().
		Create(gomock.Any(), caller, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ domain.Caller, req domain.CreateAlertRequest) (*domain.Alert, domain.DispatchResult, error) {
			if *req.Lat != 28.61 || *req.Lng != 77.2 {
				t.Fatalf("unexpected request: %+v", req)
			}
			return alert, domain.DispatchResult{GuardiansNotified: 2, Method: "log"}, nil
		}).
		Times(1)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sos/alerts", bytes.NewBufferString(`{"lat":28.61,"lng":77.2}`))
	req = asCaller(req, caller)
	rr := httptest.NewRecorder()

	h.TriggerSOS(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected %d got %d, body=%s", http.StatusCreated, rr.Code, rr.Body.String())
	}
	got := decodeJSON[struct {
		ID           uuid.UUID             `json:"id"`
		Status       domain.AlertStatus    `json:"status"`
		Notification domain.DispatchResult `json:"notification"`
	}](t, rr)
	if got.ID != alert.ID || got.Status != domain.AlertAssigned || got.Notification.GuardiansNotified != 2 {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestTriggerSOS_ActiveAlertConflict(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_sos.NewMockAlertEngine(ctrl)
	h := sos.NewHandler(newTestLogger(), svc, 10)

	existing := uuid.New()
	svc.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, domain.DispatchResult{}, &e.ActiveAlertError{AlertID: existing}).
		Times(1)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sos/alerts", bytes.NewBufferString(`{"lat":1,"lng":1}`))
	req = asCaller(req, userCaller())
	rr := httptest.NewRecorder()

	h.TriggerSOS(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected %d got %d, body=%s", http.StatusConflict, rr.Code, rr.Body.String())
	}
	body := decodeJSON[respond.ErrorBody](t, rr)
	if body.ActiveAlertID == nil || *body.ActiveAlertID != existing {
		t.Fatalf("expected active_alert_id=%s, got %+v", existing, body)
	}
}

func TestTriggerSOS_BadInput(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{"invalid json", "{bad json"},
		{"missing lng", `{"lat":10}`},
		{"lat out of range", `{"lat":91,"lng":10}`},
		{"lng out of range", `{"lat":10,"lng":-181}`},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			h := sos.NewHandler(newTestLogger(), mock_sos.NewMockAlertEngine(ctrl), 10)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/sos/alerts", bytes.NewBufferString(tc.body))
			req = asCaller(req, userCaller())
			rr := httptest.NewRecorder()

			h.TriggerSOS(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected %d got %d, body=%s", http.StatusBadRequest, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestTriggerSOS_NoCaller_401(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := sos.NewHandler(newTestLogger(), mock_sos.NewMockAlertEngine(ctrl), 10)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sos/alerts", bytes.NewBufferString(`{"lat":1,"lng":1}`))
	rr := httptest.NewRecorder()

	h.TriggerSOS(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected %d got %d", http.StatusUnauthorized, rr.Code)
	}
}

func TestActiveForUser_NotFound(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_sos.NewMockAlertEngine(ctrl)
	h := sos.NewHandler(newTestLogger(), svc, 10)

	caller := userCaller()
	svc.EXPECT().GetActiveForUser(gomock.Any(), caller.UserID).Return(nil, e.ErrNotFound).Times(1)

	req := asCaller(httptest.NewRequest(http.MethodGet, "/api/v1/sos/alerts/user/active", nil), caller)
	rr := httptest.NewRecorder()

	h.ActiveForUser(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected %d got %d, body=%s", http.StatusNotFound, rr.Code, rr.Body.String())
	}
}

func TestAssignedToOfficer_PassesStation(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_sos.NewMockAlertEngine(ctrl)
	h := sos.NewHandler(newTestLogger(), svc, 10)

	stationID := uuid.New()
	officer := domain.Caller{UserID: uuid.New(), Role: domain.RolePolice, StationID: &stationID}
	alerts := []*domain.Alert{{ID: uuid.New()}, {ID: uuid.New()}}

	svc.EXPECT().
		ListActiveAssignedToOfficer(gomock.Any(), officer.UserID, &stationID).
		Return(alerts, nil).
		Times(1)

	req := asCaller(httptest.NewRequest(http.MethodGet, "/api/v1/sos/alerts/police/assigned", nil), officer)
	rr := httptest.NewRecorder()

	h.AssignedToOfficer(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d, body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}
	got := decodeJSON[domain.ActiveAlertsResponse](t, rr)
	if got.Total != 2 || len(got.Alerts) != 2 {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestTransitions_ErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		call       func(h *sos.Handler) http.HandlerFunc
		expect     func(svc *mock_sos.MockAlertEngine) *gomock.Call
		err        error
		wantStatus int
	}{
		{
			name:       "resolve twice",
			call:       func(h *sos.Handler) http.HandlerFunc { return h.Resolve },
			expect:     func(svc *mock_sos.MockAlertEngine) *gomock.Call { return svc.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any()) },
			err:        e.ErrAlreadyResolved,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "acknowledge forbidden",
			call:       func(h *sos.Handler) http.HandlerFunc { return h.Acknowledge },
			expect:     func(svc *mock_sos.MockAlertEngine) *gomock.Call { return svc.EXPECT().Acknowledge(gomock.Any(), gomock.Any(), gomock.Any()) },
			err:        e.ErrForbidden,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "cancel unknown",
			call:       func(h *sos.Handler) http.HandlerFunc { return h.Cancel },
			expect:     func(svc *mock_sos.MockAlertEngine) *gomock.Call { return svc.EXPECT().Cancel(gomock.Any(), gomock.Any(), gomock.Any()) },
			err:        e.ErrNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "resolve internal",
			call:       func(h *sos.Handler) http.HandlerFunc { return h.Resolve },
			expect:     func(svc *mock_sos.MockAlertEngine) *gomock.Call { return svc.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any()) },
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := mock_sos.NewMockAlertEngine(ctrl)
			h := sos.NewHandler(newTestLogger(), svc, 10)
			tc.expect(svc).Return(nil, tc.err).Times(1)

			id := uuid.New()
			req := httptest.NewRequest(http.MethodPut, "/api/v1/sos/alerts/"+id.String(), nil)
			req = addChiURLParam(req, "id", id.String())
			req = asCaller(req, userCaller())
			rr := httptest.NewRecorder()

			tc.call(h)(rr, req)

			if rr.Code != tc.wantStatus {
				t.Fatalf("expected %d got %d, body=%s", tc.wantStatus, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestResolve_InvalidID_400(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := sos.NewHandler(newTestLogger(), mock_sos.NewMockAlertEngine(ctrl), 10)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/sos/alerts/nope/resolve", nil)
	req = addChiURLParam(req, "id", "nope")
	req = asCaller(req, userCaller())
	rr := httptest.NewRecorder()

	h.Resolve(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected %d got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestAssignOfficers_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_sos.NewMockAlertEngine(ctrl)
	h := sos.NewHandler(newTestLogger(), svc, 10)

	id, stationID, officer := uuid.New(), uuid.New(), uuid.New()
	admin := domain.Caller{UserID: uuid.New(), Role: domain.RoleAdmin}

	svc.EXPECT().
		AssignStation(gomock.Any(), admin, id, domain.AssignOfficersRequest{StationID: stationID, OfficerIDs: []uuid.UUID{officer}}).
		Return(&domain.Alert{ID: id, StationID: &stationID, AssignedOfficers: []uuid.UUID{officer}, Status: domain.AlertAssigned}, nil).
		Times(1)

	body := `{"station_id":"` + stationID.String() + `","officer_ids":["` + officer.String() + `"]}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/sos/alerts/"+id.String()+"/assign-officers", bytes.NewBufferString(body))
	req = addChiURLParam(req, "id", id.String())
	req = asCaller(req, admin)
	rr := httptest.NewRecorder()

	h.AssignOfficers(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d, body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}
	got := decodeJSON[domain.Alert](t, rr)
	if got.StationID == nil || *got.StationID != stationID || !got.HasOfficer(officer) {
		t.Fatalf("unexpected alert: %+v", got)
	}
}

func TestRankStations_Limit(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_sos.NewMockAlertEngine(ctrl)
	h := sos.NewHandler(newTestLogger(), svc, 7)

	id := uuid.New()
	svc.EXPECT().
		RankStationsForAlert(gomock.Any(), gomock.Any(), id, 7).
		Return([]domain.RankedStation{}, nil).
		Times(1)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sos/alerts/"+id.String()+"/stations", nil)
	req = addChiURLParam(req, "id", id.String())
	req = asCaller(req, domain.Caller{UserID: uuid.New(), Role: domain.RoleAdmin})
	rr := httptest.NewRecorder()

	h.RankStations(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d, body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}

	bad := httptest.NewRequest(http.MethodGet, "/api/v1/sos/alerts/"+id.String()+"/stations?limit=500", nil)
	bad = addChiURLParam(bad, "id", id.String())
	bad = asCaller(bad, domain.Caller{UserID: uuid.New(), Role: domain.RoleAdmin})
	rr = httptest.NewRecorder()

	h.RankStations(rr, bad)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected %d got %d", http.StatusBadRequest, rr.Code)
	}
}
