package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/chessactivity/internal/api"
	"github.com/vytor/chessactivity/internal/chesscom"
	"github.com/vytor/chessactivity/internal/config"
	"github.com/vytor/chessactivity/internal/db"
	"github.com/vytor/chessactivity/internal/jobs"
	"github.com/vytor/chessactivity/internal/logger"
	"github.com/vytor/chessactivity/internal/period"
	"github.com/vytor/chessactivity/internal/repository/sqlite"
	"github.com/vytor/chessactivity/internal/services"
	"github.com/vytor/chessactivity/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	log.Info("chessactivity server starting")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("timezone=%s", cfg.Timezone)
	log.Debug("default_period=%s", cfg.DefaultPeriod)
	log.Debug("archive_cache=%t", cfg.ArchiveCache)
	log.Debug("max_concurrent_archive=%d", cfg.MaxConcurrentArchive)
	log.Debug("sync_worker_count=%d", cfg.SyncWorkerCount)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	loc := cfg.Location()
	client := chesscom.New(
		chesscom.WithBaseURL(cfg.ChessComBaseURL),
		chesscom.WithUserAgent(cfg.ChessComUserAgent),
		chesscom.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	)
	activityService := services.NewActivityService(
		client,
		sqlite.NewArchiveRepository(database.DB),
		period.NewResolver(period.WithLocation(loc), period.WithDefault(cfg.DefaultPeriod)),
		services.ActivityConfig{
			MaxConcurrent:    cfg.MaxConcurrentArchive,
			UseCache:         cfg.ArchiveCache,
			Location:         loc,
			ProfileCacheSize: cfg.ProfileCacheSize,
			ProfileCacheTTL:  cfg.ProfileCacheTTL,
		},
	)

	syncPool := worker.NewPool(cfg.SyncWorkerCount, cfg.SyncQueueSize)

	srv := &api.Server{
		ActivityService: activityService,
		Jobs:            jobs.NewWorkerQueue(syncPool, activityService),
		DB:              database,
	}

	ctx, cancel := context.WithCancel(context.Background())
	syncPool.Start(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

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

	log.Debug("stopping sync pool")
	cancel()
	syncPool.Stop()

	log.Info("chessactivity server stopped")
}
