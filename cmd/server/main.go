// Package main is the entry point for the Frontier portfolio engine.
// The application serves mean-variance optimization, factor-model
// estimates and backtests over a local price history, with background
// jobs keeping the history and caches fresh.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aristath/frontier/internal/config"
	"github.com/aristath/frontier/internal/database"
	"github.com/aristath/frontier/internal/modules/backtest"
	"github.com/aristath/frontier/internal/modules/calculations"
	"github.com/aristath/frontier/internal/modules/factors"
	"github.com/aristath/frontier/internal/modules/history"
	"github.com/aristath/frontier/internal/modules/settings"
	"github.com/aristath/frontier/internal/modules/simulation"
	"github.com/aristath/frontier/internal/scheduler"
	"github.com/aristath/frontier/internal/server"
	"github.com/aristath/frontier/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger isn't up yet, so plain stderr is the best we can do.
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("data_dir", cfg.DataDir).
		Int("port", cfg.Port).
		Bool("dev_mode", cfg.DevMode).
		Msg("Starting Frontier")

	// Databases. History and config are durable, the calculation cache is
	// ephemeral and tuned for speed.
	historyDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "history.db"),
		Profile: database.ProfileStandard,
		Name:    "history",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open history database")
	}
	defer historyDB.Close()

	configDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "config.db"),
		Profile: database.ProfileStandard,
		Name:    "config",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open config database")
	}
	defer configDB.Close()

	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "cache.db"),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open cache database")
	}
	defer cacheDB.Close()

	if err := history.InitSchema(historyDB.Conn()); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize history schema")
	}
	if err := settings.InitSchema(configDB.Conn()); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize settings schema")
	}
	if err := calculations.InitSchema(cacheDB.Conn()); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize cache schema")
	}

	// Services.
	settingsRepo := settings.NewRepository(configDB.Conn(), log)
	settingsService := settings.NewService(settingsRepo, log)

	historyRepo := history.NewRepository(historyDB.Conn(), log)
	historyService := history.NewService(historyRepo, history.NewGenerator(), log)

	cache := calculations.NewCache(cacheDB.Conn(), log)
	estimator := factors.NewEstimator(log)
	backtestService := backtest.NewService(log)

	var optimizer *simulation.Optimizer
	if cfg.SimulationSeed != 0 {
		optimizer = simulation.NewSeededOptimizer(cfg.SimulationSeed, log)
		log.Info().Int64("seed", cfg.SimulationSeed).Msg("Using fixed simulation seed")
	} else {
		optimizer = simulation.NewOptimizer(log)
	}

	// Background jobs.
	sched := scheduler.New(log)
	if cfg.SchedulerEnabled {
		if err := sched.AddJob("0 22 * * *", history.NewRefreshJob(historyService, log)); err != nil {
			log.Fatal().Err(err).Msg("Failed to register price refresh job")
		}
		if err := sched.AddJob("@every 1h", calculations.NewCleanupJob(cache, log)); err != nil {
			log.Fatal().Err(err).Msg("Failed to register cache cleanup job")
		}
		sched.Start()
		defer sched.Stop()
	} else {
		log.Info().Msg("Scheduler disabled")
	}

	srv := server.New(server.Config{
		Log:       log,
		Cfg:       cfg,
		HistoryDB: historyDB,
		ConfigDB:  configDB,
		CacheDB:   cacheDB,
		History:   historyService,
		Settings:  settingsService,
		Estimator: estimator,
		Optimizer: optimizer,
		Backtest:  backtestService,
		Cache:     cache,
	})

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	log.Info().Msg("Frontier stopped")
}
