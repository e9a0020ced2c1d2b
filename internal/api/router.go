package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sosdesk/internal/api/handlers/http/chat"
	"sosdesk/internal/api/handlers/http/guardian"
	"sosdesk/internal/api/handlers/http/sos"
	"sosdesk/internal/api/handlers/http/station"
	"sosdesk/internal/api/handlers/http/stream"
	"sosdesk/internal/api/handlers/http/system"
	"sosdesk/internal/config"
	"sosdesk/internal/domain"
	"sosdesk/internal/middleware"
	"sosdesk/internal/realtime"
	"sosdesk/internal/service"
)

const visitorTTL = 10 * time.Minute

type Server struct {
	logger *slog.Logger
	router *chi.Mux
	cfg    config.Config
}

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	SOS      *sos.Handler
	Stations *station.Handler
	Chat     *chat.Handler
	Guardian *guardian.Handler
	Stream   *stream.Handler
	System   *system.Handler
}

func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger, svc *service.Service, hub *realtime.Hub, tokens middleware.TokenParser, checks ...system.Check) *Server {
	h := Handlers{
		SOS:      sos.NewHandler(logger, svc.Alerts, cfg.Geo.RankLimit),
		Stations: station.NewHandler(logger, svc.Stations),
		Chat:     chat.NewHandler(logger, svc.Chat),
		Guardian: guardian.NewHandler(logger, svc.Guardians),
		Stream: stream.NewHandler(logger, svc.Alerts, svc.Chat, hub, cfg.CORS.AllowedOrigins, realtime.SessionConfig{
			PingInterval: cfg.Realtime.PingInterval,
			WriteTimeout: cfg.Realtime.WriteTimeout,
		}),
		System: system.NewHandler(logger, checks...),
	}

	return &Server{
		logger: logger,
		router: InitRouter(ctx, cfg, h, tokens, logger),
		cfg:    *cfg,
	}
}

func InitRouter(ctx context.Context, cfg *config.Config, h Handlers, tokens middleware.TokenParser, logger *slog.Logger) *chi.Mux {
	r := chi.NewMux()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.System.SystemHealth)
	r.Handle("/metrics", promhttp.Handler())

	sosLimit := middleware.Limit(ctx, cfg.RateLimit.SOSPerMinute, cfg.RateLimit.Burst, visitorTTL, logger)
	chatLimit := middleware.Limit(ctx, cfg.RateLimit.ChatPerMinute, cfg.RateLimit.Burst, visitorTTL, logger)

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/health", h.System.SystemHealth)

		api.Group(func(ar chi.Router) {
			ar.Use(middleware.Authenticate(tokens, logger))

			ar.Route("/sos/alerts", func(sr chi.Router) {
				sr.With(middleware.RequireRole(domain.RoleUser), sosLimit).Post("/", h.SOS.TriggerSOS)
				sr.With(middleware.RequireRole(domain.RoleUser)).Get("/user/active", h.SOS.ActiveForUser)
				sr.With(middleware.RequireRole(domain.RolePolice)).Get("/police/assigned", h.SOS.AssignedToOfficer)
				sr.With(middleware.RequireRole(domain.RoleAdmin)).Get("/", h.SOS.ListActive)

				sr.Route("/{id}", func(ir chi.Router) {
					ir.Get("/", h.SOS.GetAlert)
					ir.With(middleware.RequireRole(domain.RoleAdmin)).Get("/stations", h.SOS.RankStations)
					ir.With(middleware.RequireRole(domain.RoleAdmin)).Put("/assign-officers", h.SOS.AssignOfficers)
					ir.With(middleware.RequireRole(domain.RolePolice, domain.RoleAdmin)).Put("/acknowledge", h.SOS.Acknowledge)
					ir.With(middleware.RequireRole(domain.RolePolice, domain.RoleAdmin)).Put("/resolve", h.SOS.Resolve)
					ir.With(middleware.RequireRole(domain.RoleUser)).Put("/cancel", h.SOS.Cancel)
				})
			})

			ar.Route("/stations", func(st chi.Router) {
				st.Get("/", h.Stations.List)
				st.Get("/nearby", h.Stations.Nearby)
				st.Get("/{id}", h.Stations.Get)

				st.Group(func(adm chi.Router) {
					adm.Use(middleware.RequireRole(domain.RoleAdmin))
					adm.Post("/", h.Stations.Create)
					adm.Post("/import", h.Stations.Import)
					adm.Put("/{id}", h.Stations.Update)
				})
			})

			ar.Route("/chat/{alertId}", func(cr chi.Router) {
				cr.Get("/messages", h.Chat.Messages)
				cr.With(chatLimit).Post("/messages", h.Chat.Post)
				cr.Get("/participants", h.Chat.Participants)
			})

			ar.Route("/guardians", func(gr chi.Router) {
				gr.Use(middleware.RequireRole(domain.RoleUser))
				gr.Get("/", h.Guardian.List)
				gr.Post("/", h.Guardian.Create)
				gr.Delete("/{id}", h.Guardian.Delete)
			})

			ar.Route("/ws/alerts", func(wr chi.Router) {
				wr.With(middleware.RequireRole(domain.RoleAdmin, domain.RolePolice)).Get("/", h.Stream.Feed)
				wr.Get("/{id}", h.Stream.Alert)
			})
		})
	})

	return r
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) Run(ctx context.Context) error {
	port := s.cfg.Http.Port
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Http.ReadTimeout,
		WriteTimeout: s.cfg.Http.WriteTimeout,
		IdleTimeout:  30 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("starting HTTP server",
			slog.String("addr", srv.Addr),
			slog.Duration("read_timeout", s.cfg.Http.ReadTimeout),
			slog.Duration("write_timeout", s.cfg.Http.WriteTimeout),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("ListenAndServe error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server", slog.String("reason", ctx.Err().Error()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Http.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown failed", slog.Any("error", err))
			return err
		}
		return nil

	case err := <-errChan:
		return err
	}
}
