package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/example/appointment-scheduler/internal/application"
	"github.com/example/appointment-scheduler/internal/config"
	httptransport "github.com/example/appointment-scheduler/internal/http"
	"github.com/example/appointment-scheduler/internal/jalali"
	"github.com/example/appointment-scheduler/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := store.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	now := time.Now

	availabilityService := application.NewAvailabilityService(
		store.BusinessHours,
		store.Holidays,
		store.Services,
		store.Appointments,
		jalali.DefaultIranCalendar(),
		now,
	)
	bookingService := application.NewBookingService(
		store.Appointments,
		store.Services,
		availabilityService,
		idGenerator,
		now,
	)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Availability:  httptransport.NewAvailabilityHandler(availabilityService, logger),
		Appointments:  httptransport.NewAppointmentHandler(bookingService, logger),
		Logger:        logger,
		DefaultLocale: cfg.DefaultLocale,
		CORSOrigins:   cfg.CORSOrigins,
		Healthcheck: func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return store.Ping(pingCtx)
		},
	})

	completer := startCompletionJob(ctx, cfg.CompletionSchedule, bookingService, logger)
	defer completer.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("booking API listening", "addr", server.Addr, "locale", string(cfg.DefaultLocale))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// startCompletionJob schedules the sweep that marks elapsed confirmed
// appointments as completed. A bad schedule expression falls back to every
// ten minutes.
func startCompletionJob(ctx context.Context, schedule string, bookings *application.BookingService, logger *slog.Logger) *cron.Cron {
	runner := cron.New()

	job := func() {
		jobCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		changed, err := bookings.CompleteElapsed(jobCtx)
		if err != nil {
			logger.Error("completion sweep failed", "error", err)
			return
		}
		if changed > 0 {
			logger.Info("completion sweep finished", "completed", changed)
		}
	}

	if _, err := runner.AddFunc(schedule, job); err != nil {
		logger.Error("invalid completion schedule, using default", "schedule", schedule, "error", err)
		if _, err := runner.AddFunc("*/10 * * * *", job); err != nil {
			logger.Error("failed to schedule completion sweep", "error", err)
			return runner
		}
	}

	runner.Start()
	return runner
}
