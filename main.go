package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/trio-tracker/internal/clock"
	"github.com/mauv0809/trio-tracker/internal/club"
	"github.com/mauv0809/trio-tracker/internal/config"
	"github.com/mauv0809/trio-tracker/internal/database"
	server "github.com/mauv0809/trio-tracker/internal/http"
	"github.com/mauv0809/trio-tracker/internal/metrics"
	"github.com/mauv0809/trio-tracker/internal/notifier"
	"github.com/mauv0809/trio-tracker/internal/notifier/slack"
	"github.com/mauv0809/trio-tracker/internal/scheduler"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	configureLogger(cfg)

	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	clk := clock.New()
	clubStore := club.New(db, clk, cfg.Location)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	counters := metrics.New(db)

	var slackNotifier notifier.Notifier = notifier.Nop{}
	if cfg.Slack.Enabled() {
		slackNotifier = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, cfg.Location, metricsSvc)
	} else {
		log.Warn("Slack is not configured, match results will not be posted")
	}

	weekly, err := scheduler.New(cfg.WeeklyReportCron, cfg.Location, clubStore, slackNotifier, counters)
	if err != nil {
		log.Fatalf("Failed to schedule weekly leaderboard: %s", err)
	}
	weekly.Start()

	s := server.NewServer(
		clubStore,
		metricsSvc,
		metricsHandler,
		counters,
		cfg,
		slackNotifier,
		weekly,
		clk,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port, "timezone", cfg.Location.String())
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Error("Server error", "error", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
		weekly.Stop(ctx)
	}

	log.Info("Server process shutting down")
}

func configureLogger(cfg config.Config) {
	if cfg.LogFormat == "text" {
		log.SetFormatter(log.TextFormatter)
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return
	}
	log.SetLevel(level)
}
