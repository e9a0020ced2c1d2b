package stream_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"sosdesk/internal/api/handlers/http/stream"
	mock_stream "sosdesk/internal/api/handlers/http/stream/mocks"
	"sosdesk/internal/domain"
	"sosdesk/internal/middleware"
	"sosdesk/internal/realtime"
	"sosdesk/pkg/e"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func newServer(t *testing.T, h *stream.Handler, caller domain.Caller) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithCaller(req.Context(), caller)))
		})
	})
	r.Get("/ws/alerts", h.Feed)
	r.Get("/ws/alerts/{id}", h.Alert)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func readEvent(t *testing.T, conn *websocket.Conn) domain.Event {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev domain.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return ev
}

func waitSubscribers(t *testing.T, hub *realtime.Hub, topic string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers(topic) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("no subscriber on %s", topic)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestAlertStream_ReplaysBacklogThenLive(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	alerts := mock_stream.NewMockAlertReader(ctrl)
	msgs := mock_stream.NewMockMessageLister(ctrl)
	hub := realtime.NewHub(16, newTestLogger())
	h := stream.NewHandler(newTestLogger(), alerts, msgs, hub, nil, realtime.SessionConfig{PingInterval: time.Second})

	caller := domain.Caller{UserID: uuid.New(), Role: domain.RoleUser}
	alertID := uuid.New()

	alerts.EXPECT().Get(gomock.Any(), caller, alertID).Return(&domain.Alert{ID: alertID, UserID: caller.UserID}, nil).Times(1)
	msgs.EXPECT().
		ListMessages(gomock.Any(), caller, alertID, domain.ChatCursor{Seq: 3}).
		Return([]*domain.Message{{AlertID: alertID, Seq: 4}, {AlertID: alertID, Seq: 5}}, nil).
		Times(1)
	msgs.EXPECT().
		ListMessages(gomock.Any(), caller, alertID, domain.ChatCursor{Seq: 5}).
		Return(nil, nil).
		Times(1)

	srv := newServer(t, h, caller)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/alerts/"+alertID.String()+"?since=3"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	for _, want := range []int64{4, 5} {
		if ev := readEvent(t, conn); ev.Message == nil || ev.Message.Seq != want {
			t.Fatalf("expected backlog seq %d, got %+v", want, ev)
		}
	}

	waitSubscribers(t, hub, realtime.AlertTopic(alertID))
	_ = hub.Publish(context.Background(), domain.Event{Type: domain.EventChatMessage, AlertID: alertID, Message: &domain.Message{Seq: 5}})
	_ = hub.Publish(context.Background(), domain.Event{Type: domain.EventChatMessage, AlertID: alertID, Message: &domain.Message{Seq: 6}})

	if ev := readEvent(t, conn); ev.Message == nil || ev.Message.Seq != 6 {
		t.Fatalf("expected live seq 6 without duplicate 5, got %+v", ev)
	}
}

func TestAlertStream_ReplaysEveryBacklogPage(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	alerts := mock_stream.NewMockAlertReader(ctrl)
	msgs := mock_stream.NewMockMessageLister(ctrl)
	hub := realtime.NewHub(16, newTestLogger())
	h := stream.NewHandler(newTestLogger(), alerts, msgs, hub, nil, realtime.SessionConfig{PingInterval: time.Second})

	caller := domain.Caller{UserID: uuid.New(), Role: domain.RoleUser}
	alertID := uuid.New()

	alerts.EXPECT().Get(gomock.Any(), caller, alertID).Return(&domain.Alert{ID: alertID, UserID: caller.UserID}, nil).Times(1)
	gomock.InOrder(
		msgs.EXPECT().
			ListMessages(gomock.Any(), caller, alertID, domain.ChatCursor{}).
			Return([]*domain.Message{{AlertID: alertID, Seq: 1}, {AlertID: alertID, Seq: 2}}, nil),
		msgs.EXPECT().
			ListMessages(gomock.Any(), caller, alertID, domain.ChatCursor{Seq: 2}).
			Return([]*domain.Message{{AlertID: alertID, Seq: 3}}, nil),
		msgs.EXPECT().
			ListMessages(gomock.Any(), caller, alertID, domain.ChatCursor{Seq: 3}).
			Return([]*domain.Message{}, nil),
	)

	srv := newServer(t, h, caller)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/alerts/"+alertID.String()), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	for _, want := range []int64{1, 2, 3} {
		if ev := readEvent(t, conn); ev.Message == nil || ev.Message.Seq != want {
			t.Fatalf("expected backlog seq %d, got %+v", want, ev)
		}
	}

	waitSubscribers(t, hub, realtime.AlertTopic(alertID))
	_ = hub.Publish(context.Background(), domain.Event{Type: domain.EventChatMessage, AlertID: alertID, Message: &domain.Message{Seq: 4}})

	if ev := readEvent(t, conn); ev.Message == nil || ev.Message.Seq != 4 {
		t.Fatalf("expected live seq 4 after the full backlog, got %+v", ev)
	}
}

func TestAlertStream_RejectsOutsiders(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	alerts := mock_stream.NewMockAlertReader(ctrl)
	hub := realtime.NewHub(16, newTestLogger())
	h := stream.NewHandler(newTestLogger(), alerts, mock_stream.NewMockMessageLister(ctrl), hub, nil, realtime.SessionConfig{})

	alertID := uuid.New()
	alerts.EXPECT().Get(gomock.Any(), gomock.Any(), alertID).Return(nil, e.ErrForbidden).Times(1)

	srv := newServer(t, h, domain.Caller{UserID: uuid.New(), Role: domain.RoleUser})
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/alerts/"+alertID.String()), nil)
	if err == nil {
		t.Fatalf("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %+v", resp)
	}
	if hub.Subscribers(realtime.AlertTopic(alertID)) != 0 {
		t.Fatalf("rejected client must not stay subscribed")
	}
}

func TestFeed_FiltersByStation(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hub := realtime.NewHub(16, newTestLogger())
	h := stream.NewHandler(newTestLogger(), mock_stream.NewMockAlertReader(ctrl), mock_stream.NewMockMessageLister(ctrl), hub, nil, realtime.SessionConfig{PingInterval: time.Second})

	mine, other := uuid.New(), uuid.New()
	officer := domain.Caller{UserID: uuid.New(), Role: domain.RolePolice, StationID: &mine}

	srv := newServer(t, h, officer)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/alerts"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitSubscribers(t, hub, realtime.FeedTopic)

	elsewhere := &domain.Alert{ID: uuid.New(), StationID: &other, Status: domain.AlertAssigned}
	ours := &domain.Alert{ID: uuid.New(), StationID: &mine, Status: domain.AlertAssigned}
	_ = hub.Publish(context.Background(), domain.Event{Type: domain.EventAlertAssigned, AlertID: elsewhere.ID, Alert: elsewhere})
	_ = hub.Publish(context.Background(), domain.Event{Type: domain.EventAlertAssigned, AlertID: ours.ID, Alert: ours})

	if ev := readEvent(t, conn); ev.AlertID != ours.ID {
		t.Fatalf("expected only the station's alert, got %+v", ev)
	}
}
