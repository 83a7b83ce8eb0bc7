package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/fiscus-ingest/internal/api/handlers"
	"github.com/donaldgifford/fiscus-ingest/internal/api/middleware"
	"github.com/donaldgifford/fiscus-ingest/internal/telemetry"
)

func workerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run job workers without the API server",
		Long: "Claims due jobs from the Postgres queue and runs them until interrupted.\n" +
			"Run several worker processes next to one serve process to scale scraping;\n" +
			"the scheduler only runs in serve. Each worker serves /metrics, /healthz and\n" +
			"/readyz on worker.metrics_addr.",
		RunE: runWorker,
	}
}

func runWorker(_ *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Setup(ctx, telemetryConfig(&cfg.Telemetry), Version, log)
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}
	defer shutdownTelemetry(tel, log)

	pg, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer pg.Close()

	a, err := newApp(ctx, cfg, log, pg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	ms := newMetricsServer(a, handlers.NewHealthHandler(pg, a.healthChecks()...))
	go func() {
		log.Info("serving worker metrics", "addr", cfg.Worker.MetricsAddr)
		if err := ms.Start(cfg.Worker.MetricsAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server error", "error", err)
			stop()
		}
	}()

	w := a.newWorker()
	log.Info("starting worker", "worker_id", w.ID(), "concurrency", cfg.Worker.Concurrency)
	runErr := w.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := ms.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutting down metrics server", "error", err)
	}

	return runErr
}

// newMetricsServer builds the worker's operational endpoints.
func newMetricsServer(a *app, health *handlers.HealthHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recovery(a.log))

	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	return e
}
