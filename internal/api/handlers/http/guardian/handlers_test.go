package guardian_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"sosdesk/internal/api/handlers/http/guardian"
	mock_guardian "sosdesk/internal/api/handlers/http/guardian/mocks"
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

func withUser(r *http.Request, c domain.Caller) *http.Request {
	return r.WithContext(middleware.WithCaller(r.Context(), c))
}

func TestCreate_Created(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_guardian.NewMockGuardians(ctrl)
	h := guardian.NewHandler(newTestLogger(), svc)

	caller := domain.Caller{UserID: uuid.New(), Role: domain.RoleUser}
	want := domain.CreateGuardianRequest{Name: "Mom", Phone: "+911234567890", Email: "mom@example.com"}

	svc.EXPECT().
		Create(gomock.Any(), caller, want).
		Return(&domain.Guardian{ID: uuid.New(), UserID: caller.UserID, Name: want.Name}, nil).
		Times(1)

	body := `{"name":"Mom","phone":"+911234567890","email":"mom@example.com"}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/guardians", bytes.NewBufferString(body)), caller)
	rr := httptest.NewRecorder()

	h.Create(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected %d got %d, body=%s", http.StatusCreated, rr.Code, rr.Body.String())
	}
	var got domain.Guardian
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil || got.Name != "Mom" {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestCreate_LimitAndValidation(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_guardian.NewMockGuardians(ctrl)
	h := guardian.NewHandler(newTestLogger(), svc)
	caller := domain.Caller{UserID: uuid.New(), Role: domain.RoleUser}

	svc.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, e.ErrGuardianLimit).Times(1)

	body := `{"name":"Sixth","phone":"1","email":"six@example.com"}`
	rr := httptest.NewRecorder()
	h.Create(rr, withUser(httptest.NewRequest(http.MethodPost, "/api/v1/guardians", bytes.NewBufferString(body)), caller))
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected %d got %d", http.StatusConflict, rr.Code)
	}

	rr = httptest.NewRecorder()
	h.Create(rr, withUser(httptest.NewRequest(http.MethodPost, "/api/v1/guardians", bytes.NewBufferString(`{"name":"x","phone":"1","email":"not-an-email"}`)), caller))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected %d got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestList_EmptyIsArray(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_guardian.NewMockGuardians(ctrl)
	h := guardian.NewHandler(newTestLogger(), svc)
	caller := domain.Caller{UserID: uuid.New(), Role: domain.RoleUser}

	svc.EXPECT().List(gomock.Any(), caller).Return(nil, nil).Times(1)

	rr := httptest.NewRecorder()
	h.List(rr, withUser(httptest.NewRequest(http.MethodGet, "/api/v1/guardians", nil), caller))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d", http.StatusOK, rr.Code)
	}
	if !bytes.Contains(rr.Body.Bytes(), []byte(`"guardians":[]`)) {
		t.Fatalf("expected empty array, body=%s", rr.Body.String())
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_guardian.NewMockGuardians(ctrl)
	h := guardian.NewHandler(newTestLogger(), svc)
	caller := domain.Caller{UserID: uuid.New(), Role: domain.RoleUser}

	known, unknown := uuid.New(), uuid.New()
	svc.EXPECT().Delete(gomock.Any(), caller, known).Return(nil).Times(1)
	svc.EXPECT().Delete(gomock.Any(), caller, unknown).Return(e.ErrNotFound).Times(1)

	rr := httptest.NewRecorder()
	h.Delete(rr, withUser(addChiURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/guardians/x", nil), "id", known.String()), caller))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected %d got %d", http.StatusNoContent, rr.Code)
	}

	rr = httptest.NewRecorder()
	h.Delete(rr, withUser(addChiURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/guardians/x", nil), "id", unknown.String()), caller))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected %d got %d", http.StatusNotFound, rr.Code)
	}
}
