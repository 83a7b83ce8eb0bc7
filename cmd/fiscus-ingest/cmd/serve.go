package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/fiscus-ingest/api/openapi"
	"github.com/donaldgifford/fiscus-ingest/internal/api/handlers"
	"github.com/donaldgifford/fiscus-ingest/internal/api/middleware"
	"github.com/donaldgifford/fiscus-ingest/internal/config"
	"github.com/donaldgifford/fiscus-ingest/internal/engine"
	"github.com/donaldgifford/fiscus-ingest/internal/insights"
	"github.com/donaldgifford/fiscus-ingest/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server, job workers and scheduler",
		Example: `  fiscus-ingest serve --config config.yaml
  FISCUS_CONFIG=/etc/fiscus/config.yaml fiscus-ingest serve`,
		RunE: runServe,
	}
}

func runServe(_ *cobra.Command, _ []string) error {
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

	e := newServer(a, handlers.NewHealthHandler(pg, a.healthChecks()...))

	var sched *engine.Scheduler
	if cfg.Schedule.IsEnabled() {
		sched, err = newScheduler(a)
		if err != nil {
			return err
		}
		sched.Start()
		sched.SyncNextRunTimestamps()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := a.newWorker().Run(ctx); err != nil {
			log.Error("worker stopped", "error", err)
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr, "version", Version)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	if sched != nil {
		<-sched.Stop().Done()
	}
	wg.Wait()

	log.Info("server stopped")
	return nil
}

// newServer builds the Echo server with every API route mounted.
func newServer(a *app, health *handlers.HealthHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = a.cfg.Server.ReadTimeout
	e.Server.WriteTimeout = a.cfg.Server.WriteTimeout

	e.Use(
		middleware.Tracing(),
		middleware.RequestLog(a.log),
		middleware.Recovery(a.log),
		middleware.Metrics(),
	)

	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	humaCfg := huma.DefaultConfig("fiscus-ingest API", Version)
	api := humaecho.New(e, humaCfg)
	openapi.RegisterRoutes(e, humaCfg.OpenAPIPath+".json")
	handlers.RegisterTaskRoutes(api, handlers.NewTasksHandler(a.store, a.engine.Tracker()))
	handlers.RegisterTriggerRoutes(api, handlers.NewTriggerHandler(a.engine))
	handlers.RegisterScraperRoutes(api, handlers.NewScrapersHandler(a.registry))
	handlers.RegisterInsightsRoutes(api, handlers.NewInsightsHandler(
		insights.NewService(a.store, insights.WithLogger(a.log))))

	return e
}

func newScheduler(a *app) (*engine.Scheduler, error) {
	loc, err := time.LoadLocation(a.cfg.Schedule.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading schedule timezone %q: %w", a.cfg.Schedule.Timezone, err)
	}
	sched, err := engine.NewScheduler(a.engine, a.store, loc, a.cfg.Schedule.Cron, a.log)
	if err != nil {
		return nil, fmt.Errorf("creating scheduler: %w", err)
	}
	return sched, nil
}

func telemetryConfig(c *config.TelemetryConfig) telemetry.Config {
	return telemetry.Config{
		Enabled:        c.Enabled,
		Endpoint:       c.Endpoint,
		Insecure:       c.Insecure,
		Headers:        c.Headers,
		ServiceName:    c.ServiceName,
		SampleRatio:    c.SampleRatio,
		MetricInterval: c.MetricInterval,
	}
}

func shutdownTelemetry(tel *telemetry.Telemetry, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := tel.Shutdown(ctx); err != nil {
		log.Warn("shutting down telemetry", "error", err)
	}
}
