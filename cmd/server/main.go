// Command server runs the Modela identity gateway.
//
// @title        Modela Identity Gateway
// @version      1.0
// @description  Sign-in, registration and route guarding for the Modela marketplace.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modela/identity-gateway/internal/api"
	"github.com/modela/identity-gateway/internal/api/metrics"
	"github.com/modela/identity-gateway/internal/core/domain"
	"github.com/modela/identity-gateway/internal/core/service"
	"github.com/modela/identity-gateway/internal/infrastructure/db"
	"github.com/modela/identity-gateway/internal/infrastructure/queue"
	"github.com/modela/identity-gateway/internal/pkg/config"
	"github.com/modela/identity-gateway/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "identity-gateway",
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records, closeRecords, err := db.Open(ctx, cfg, logger.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("failed to open identity store")
	}

	audit := queue.NewDispatcher(
		cfg.Audit.Workers,
		cfg.Audit.Buffer,
		queue.NewLogSink(log),
		logger.Component("audit"),
		queue.WithDropHandler(func(domain.AuditEvent) { metrics.AuditEventsDroppedTotal.Inc() }),
	)
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	audit.Start(workerCtx)

	e := api.NewRouter(api.Deps{
		Config:  cfg,
		Records: records,
		Backend: service.NewMockBackend(cfg.Session.BackendLatency),
		Audit:   audit,
		Log:     logger.Component("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.Storage.Driver).Msg("starting identity gateway")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	audit.Close()
	cancelWorkers()
	if err := closeRecords(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to close identity store")
	}
}
