package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Mansoor88-6/work-timer/internal/catalog"
	"Mansoor88-6/work-timer/internal/client"
	"Mansoor88-6/work-timer/internal/config"
	"Mansoor88-6/work-timer/internal/database"
	"Mansoor88-6/work-timer/internal/handler"
	"Mansoor88-6/work-timer/internal/ledger"
	"Mansoor88-6/work-timer/internal/logger"
	"Mansoor88-6/work-timer/internal/metrics"
	"Mansoor88-6/work-timer/internal/models"
	"Mansoor88-6/work-timer/internal/notify"
	"Mansoor88-6/work-timer/internal/persistence"
	"Mansoor88-6/work-timer/internal/recorder"
	"Mansoor88-6/work-timer/internal/repository"
	"Mansoor88-6/work-timer/internal/router"
	"Mansoor88-6/work-timer/internal/ticker"
	"Mansoor88-6/work-timer/internal/timer"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config/local.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting work timer",
		zap.String("env", cfg.Env),
		zap.String("config_path", *configPath),
	)

	if err := run(cfg, log.Logger); err != nil {
		log.Fatal("Work timer failed", zap.Error(err))
	}
	log.Info("Work timer stopped")
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()
	clock := clockwork.NewRealClock()

	// Initialize database
	db, err := database.New(cfg.StoragePath, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	apiClient := client.NewAPIClient(
		cfg.Backend.BaseURL,
		cfg.Backend.APIKey,
		time.Duration(cfg.Backend.Timeout)*time.Second,
		log,
	)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	// Project catalog is read once
	var source catalog.Source = catalog.NewFileSource(cfg.Catalog.Path)
	if cfg.Catalog.Source == "backend" {
		source = apiClient
	}
	projects, err := catalog.Load(ctx, source, log)
	if err != nil {
		return err
	}

	// Time-log sink
	var sink recorder.Sink = repository.NewTimeEntryRepository(db.DB)
	if cfg.Sink.Type == "backend" {
		sink = apiClient
	}
	feed := notify.NewFeed(clock, notify.DefaultFeedSize, log)
	rec := recorder.NewRecorder(sink, feed, time.Duration(cfg.Sink.Timeout)*time.Second, log)

	// Snapshot persistence
	var store persistence.Store = persistence.NewSQLiteStore(db.DB)
	if cfg.Timer.SnapshotStore == "file" {
		store = persistence.NewFileStore(cfg.Timer.SnapshotPath)
	}
	adapter := persistence.NewAdapter(store, log)
	if m != nil {
		adapter.OnFailure(m.ObservePersistenceFailure)
		rec.OnResult(func(entry models.TimeEntry, err error) { m.ObserveRecording(entry.Duration, err) })
	}
	snapshot := adapter.Load(ctx)

	led := ledger.New(clock, snapshot.Sessions)
	tk := ticker.NewTicker(clock, timer.TickInterval, log)
	machine := timer.NewMachine(clock, tk, projects, led, rec, feed, log)
	machine.Subscribe(func(ev timer.Event) { adapter.OnChange(ev.Snapshot) })
	if m != nil {
		machine.Subscribe(func(ev timer.Event) {
			m.ObserveTransition(string(ev.Transition), ev.Snapshot.ElapsedSeconds, ev.Snapshot.Status == models.StatusRunning)
		})
	}
	machine.Restore(snapshot.TimerState)

	var metricsHandler http.Handler
	if m != nil {
		metricsHandler = m.Handler()
	}
	timerHandler := handler.NewTimerHandler(machine, led, projects, feed, log)

	addr := fmt.Sprintf("localhost:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router.New(timerHandler, metricsHandler, cfg.Server.AllowedOrigins, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP API", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("HTTP API error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP API shutdown error", zap.Error(err))
	}

	// Keep the running state in the snapshot so it resumes on next start
	machine.Close()
	tk.Wait()

	done := make(chan struct{})
	go func() {
		rec.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warn("Pending time entries did not finish before shutdown")
	}

	return nil
}
