package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"sosdesk/internal/domain"

	"github.com/gorilla/websocket"
)

type SessionConfig struct {
	PingInterval time.Duration
	WriteTimeout time.Duration
	ReadLimit    int64
}

func (c SessionConfig) withDefaults() SessionConfig {
	if c.PingInterval <= 0 {
		c.PingInterval = 30 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.ReadLimit <= 0 {
		c.ReadLimit = 4096
	}
	return c
}

func NewUpgrader(allowedOrigins []string) websocket.Upgrader {
	allowAll := len(allowedOrigins) == 0
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = struct{}{}
	}
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if allowAll || origin == "" {
				return true
			}
			_, ok := allowed[origin]
			return ok
		},
	}
}

// Session streams events to one websocket client: first the backlog, then
// live events from sub. Live chat messages already covered by the backlog are
// skipped so a client resuming from a cursor sees every message exactly once.
type Session struct {
	conn   *websocket.Conn
	sub    *Subscriber
	cfg    SessionConfig
	filter func(domain.Event) bool
	logger *slog.Logger
}

func NewSession(conn *websocket.Conn, sub *Subscriber, cfg SessionConfig, filter func(domain.Event) bool, logger *slog.Logger) *Session {
	if filter == nil {
		filter = func(domain.Event) bool { return true }
	}
	return &Session{conn: conn, sub: sub, cfg: cfg.withDefaults(), filter: filter, logger: logger}
}

func (s *Session) Serve(ctx context.Context, backlog []domain.Event) error {
	defer s.conn.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.readPump(cancel)

	var replayed int64
	for _, ev := range backlog {
		if err := s.write(ev); err != nil {
			return err
		}
		if ev.Message != nil && ev.Message.Seq > replayed {
			replayed = ev.Message.Seq
		}
	}

	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.closeWith(websocket.CloseGoingAway, "bye")
			return nil
		case ev, ok := <-s.sub.Events():
			if !ok {
				if s.sub.Dropped() {
					s.closeWith(websocket.ClosePolicyViolation, "slow consumer")
					return errors.New("realtime: subscriber dropped")
				}
				s.closeWith(websocket.CloseNormalClosure, "")
				return nil
			}
			if ev.Message != nil && ev.Message.Seq <= replayed {
				continue
			}
			if !s.filter(ev) {
				continue
			}
			if err := s.write(ev); err != nil {
				return err
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

// readPump drains client frames so pongs and close frames are processed.
func (s *Session) readPump(done context.CancelFunc) {
	defer done()

	s.conn.SetReadLimit(s.cfg.ReadLimit)
	deadline := func() time.Time { return time.Now().Add(2 * s.cfg.PingInterval) }
	_ = s.conn.SetReadDeadline(deadline())
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(deadline())
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket read failed", slog.Any("error", err))
			}
			return
		}
	}
}

func (s *Session) write(ev domain.Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, b)
}

func (s *Session) closeWith(code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(s.cfg.WriteTimeout))
}
