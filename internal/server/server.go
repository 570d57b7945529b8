// Package server provides the HTTP server and routing for Frontier.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/frontier/internal/config"
	"github.com/aristath/frontier/internal/database"
	"github.com/aristath/frontier/internal/modules/backtest"
	"github.com/aristath/frontier/internal/modules/calculations"
	"github.com/aristath/frontier/internal/modules/factors"
	factorshandlers "github.com/aristath/frontier/internal/modules/factors/handlers"
	"github.com/aristath/frontier/internal/modules/history"
	historyhandlers "github.com/aristath/frontier/internal/modules/history/handlers"
	"github.com/aristath/frontier/internal/modules/settings"
	settingshandlers "github.com/aristath/frontier/internal/modules/settings/handlers"
	"github.com/aristath/frontier/internal/modules/simulation"
)

// Config holds everything the server needs to route requests.
type Config struct {
	Log       zerolog.Logger
	Cfg       *config.Config
	HistoryDB *database.DB
	ConfigDB  *database.DB
	CacheDB   *database.DB

	History   *history.Service
	Settings  *settings.Service
	Estimator *factors.Estimator
	Optimizer *simulation.Optimizer
	Backtest  *backtest.Service
	Cache     *calculations.Cache
}

// Server is the HTTP front of the engine.
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	cfg    *config.Config

	engineHandlers *EngineHandlers
	systemHandlers *SystemHandlers

	historyHandlers  *historyhandlers.Handler
	settingsHandlers *settingshandlers.Handler
	factorsHandlers  *factorshandlers.Handler
}

// New creates a new HTTP server with all routes wired.
func New(cfg Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    cfg.Log.With().Str("component", "server").Logger(),
		cfg:    cfg.Cfg,
	}

	s.engineHandlers = NewEngineHandlers(
		cfg.History,
		cfg.Settings,
		cfg.Estimator,
		cfg.Optimizer,
		cfg.Backtest,
		cfg.Cache,
		cfg.Log,
	)
	s.systemHandlers = NewSystemHandlers(
		cfg.Log,
		cfg.Cfg.DataDir,
		[]*database.DB{cfg.HistoryDB, cfg.ConfigDB, cfg.CacheDB},
	)

	s.historyHandlers = historyhandlers.NewHandler(cfg.History, cfg.Settings, cfg.Log)
	s.settingsHandlers = settingshandlers.NewHandler(cfg.Settings, cfg.Log)
	s.factorsHandlers = factorshandlers.NewHandler(cfg.Estimator, cfg.Log)

	s.setupMiddleware(cfg.Cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Cfg.Port),
		Handler: s.router,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.systemHandlers.HandleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/optimize", s.engineHandlers.HandleOptimize)
		r.Post("/backtest", s.engineHandlers.HandleBacktest)

		s.factorsHandlers.RegisterRoutes(r)
		s.historyHandlers.RegisterRoutes(r)
		s.settingsHandlers.RegisterRoutes(r)

		r.Get("/system/status", s.systemHandlers.HandleStatus)
	})
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
