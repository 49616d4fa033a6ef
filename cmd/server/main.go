package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/brainplay/internal/api"
	"github.com/vytor/brainplay/internal/config"
	"github.com/vytor/brainplay/internal/db"
	"github.com/vytor/brainplay/internal/feedback"
	"github.com/vytor/brainplay/internal/game"
	"github.com/vytor/brainplay/internal/jobs"
	"github.com/vytor/brainplay/internal/logger"
	"github.com/vytor/brainplay/internal/repository/sqlite"
	"github.com/vytor/brainplay/internal/scheduler"
	"github.com/vytor/brainplay/internal/services"
	"github.com/vytor/brainplay/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithFormat(logger.ParseFormat(cfg.LogFormat)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("BrainPlay Server Starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s log_format=%s", cfg.LogLevel, cfg.LogFormat)
	log.Debug("games_config_path=%s", cfg.GamesConfigPath)
	log.Debug("tick_interval=%s", cfg.TickInterval)
	log.Debug("feedback_model=%s feedback_timeout=%s", cfg.FeedbackModel, cfg.FeedbackTimeout)
	log.Debug("feedback_worker_count=%d", cfg.FeedbackWorkerCount)
	log.Debug("feedback_queue_size=%d", cfg.FeedbackQueueSize)
	log.Debug("session_idle=%s session_retention=%s reaper_interval=%s",
		cfg.SessionIdle, cfg.SessionRetention, cfg.ReaperInterval)

	catalog := game.DefaultCatalog()
	if cfg.GamesConfigPath != "" {
		c, err := game.LoadCatalog(cfg.GamesConfigPath)
		if err != nil {
			log.Error("failed to load game catalog: %v", err)
			os.Exit(1)
		}
		catalog = c
	}
	log.Info("game catalog loaded: %d games", len(catalog.Kinds()))

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	records := sqlite.NewSessionRecordRepository(database.DB)
	profiles := sqlite.NewProfileRepository(database.DB)

	var client feedback.ClientInterface
	if cfg.FeedbackAPIKey != "" {
		client = feedback.New(cfg.FeedbackAPIURL, cfg.FeedbackAPIKey, cfg.FeedbackModel)
	} else {
		log.Warn("FEEDBACK_API_KEY not set, using local feedback only")
	}
	resolver := feedback.NewResolver(client, cfg.FeedbackTimeout)

	finalizePool := worker.NewPool(cfg.FeedbackWorkerCount, cfg.FeedbackQueueSize)
	queue := jobs.NewWorkerQueue(finalizePool, records, resolver)

	// Initialize services
	sessionService := services.NewSessionService(catalog, game.NewGenerator(), queue, records, profiles,
		services.SessionOptions{TickInterval: cfg.TickInterval})
	statsService := services.NewStatsService(records)
	profileService := services.NewProfileService(profiles)

	reaper, err := scheduler.NewReaper(sessionService, cfg.ReaperInterval, cfg.SessionIdle, cfg.SessionRetention)
	if err != nil {
		log.Error("failed to schedule session reaper: %v", err)
		os.Exit(1)
	}

	srv := &api.Server{
		SessionService: sessionService,
		StatsService:   statsService,
		ProfileService: profileService,
		Readiness:      database,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	finalizePool.Start(ctx)
	reaper.Start()

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping session reaper")
	reaper.Stop()

	// Sessions still in play are abandoned so their records are kept.
	queue.Drain()
	res := sessionService.Sweep(shutdownCtx, 0, 0)
	log.Info("abandoned %d live sessions", res.Abandoned)

	// Drains queued finalize jobs before the database closes.
	log.Debug("stopping finalize pool")
	finalizePool.Stop()

	log.Info("===========================================")
	log.Info("BrainPlay Server Stopped")
	log.Info("===========================================")
}
