package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/donaldgifford/fiscus-ingest/internal/api/handlers"
	"github.com/donaldgifford/fiscus-ingest/internal/browser"
	"github.com/donaldgifford/fiscus-ingest/internal/config"
	"github.com/donaldgifford/fiscus-ingest/internal/engine"
	"github.com/donaldgifford/fiscus-ingest/internal/events"
	"github.com/donaldgifford/fiscus-ingest/internal/ingest"
	"github.com/donaldgifford/fiscus-ingest/internal/notify"
	"github.com/donaldgifford/fiscus-ingest/internal/scraper"
	"github.com/donaldgifford/fiscus-ingest/internal/store"
	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

// app is the set of components shared by serve, worker and scrape.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	store    store.Store
	registry *scraper.Registry
	launcher *browser.RodLauncher
	engine   *engine.Engine
	redis    *redis.Client
}

// openStore connects to Postgres and applies pending migrations.
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (*store.PostgresStore, error) {
	pg, err := store.NewPostgresStore(ctx, cfg.Database.DSN(),
		store.WithMaxConns(int32(cfg.Database.PoolSize))) //nolint:gosec // pool size is a small config value
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pg.Migrate(ctx); err != nil {
		pg.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	log.Info("database ready", "host", cfg.Database.Host, "name", cfg.Database.Name)
	return pg, nil
}

// newRegistry builds the scraper registry with any configured host aliases.
func newRegistry(cfg *config.Config, log *slog.Logger) (*scraper.Registry, error) {
	reg := scraper.Default(
		scraper.WithLogger(log),
		scraper.WithScrollPause(cfg.Browser.ScrollPause),
		scraper.WithSettleDelay(cfg.Browser.SettleDelay),
	)
	if len(cfg.Browser.DomainAliases) == 0 {
		return reg, nil
	}
	return reg.WithAliases(cfg.Browser.DomainAliases)
}

// newApp wires the engine over st. Task events are only published when
// publish is set.
func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger, st store.Store, publish bool) (*app, error) {
	reg, err := newRegistry(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("building scraper registry: %w", err)
	}

	a := &app{
		cfg:      cfg,
		log:      log,
		store:    st,
		registry: reg,
		launcher: browser.NewRodLauncher(browser.RodConfig{
			RemoteURL:         cfg.Browser.RemoteURL,
			BinPath:           cfg.Browser.BinPath,
			Headless:          !cfg.Browser.Headful,
			Stealth:           !cfg.Browser.DisableStealth,
			UserAgent:         cfg.Browser.UserAgent,
			NavigationTimeout: cfg.Browser.NavigationTimeout,
			Logger:            log,
		}),
	}

	opts := []engine.EngineOption{
		engine.WithLogger(log),
		engine.WithStaggerOffset(cfg.Worker.StaggerOffset),
		engine.WithProgressEvery(cfg.Worker.ProgressEvery),
		engine.WithMaxAttempts(cfg.Worker.MaxAttempts),
		engine.WithRetryBase(cfg.Worker.RetryBase),
		engine.WithItemLimits(limits(cfg.Worker.ItemLimits)),
		engine.WithFanoutLimits(limits(cfg.Worker.FanoutLimits)),
		engine.WithCategoryLimits(limits(cfg.Worker.CategoryLimits)),
		engine.WithLimiter(engine.NewDomainLimiter(cfg.Throttle.PerSecond, cfg.Throttle.Burst)),
	}

	if publish {
		pub, err := a.newPublisher(ctx)
		if err != nil {
			return nil, err
		}
		opts = append(opts, engine.WithPublisher(pub))
	} else {
		opts = append(opts, engine.WithPublisher(events.NewNoOpPublisher(log)))
	}

	svc := ingest.NewService(st, ingest.WithLogger(log))
	a.engine = engine.NewEngine(st, reg, a.launcher, svc, opts...)
	return a, nil
}

// newPublisher fans task events out to the redis stream and the alert
// webhook, whichever are configured.
func (a *app) newPublisher(ctx context.Context) (events.Publisher, error) {
	cfg := a.cfg
	var pubs events.Multi

	if cfg.Redis.Addr != "" {
		rdb, err := events.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		a.redis = rdb
		pubs = append(pubs, events.NewRedisPublisher(rdb,
			events.WithStream(cfg.Redis.Stream),
			events.WithMaxLen(cfg.Redis.MaxLen),
			events.WithLogger(a.log),
		))
		a.log.Info("publishing task events", "addr", cfg.Redis.Addr, "stream", cfg.Redis.Stream)
	}

	if cfg.Notify.DiscordWebhookURL != "" {
		statuses := make([]domain.TaskStatus, 0, len(cfg.Notify.On))
		for _, s := range cfg.Notify.On {
			statuses = append(statuses, domain.TaskStatus(s))
		}
		pubs = append(pubs, notify.NewPublisher(
			notify.NewDiscordNotifier(cfg.Notify.DiscordWebhookURL), statuses, a.log))
		a.log.Info("task alerts enabled", "on", cfg.Notify.On)
	}

	if len(pubs) == 0 {
		return events.NewNoOpPublisher(a.log), nil
	}
	return pubs, nil
}

// healthChecks returns readiness checks for the optional dependencies.
func (a *app) healthChecks() []handlers.HealthOption {
	var opts []handlers.HealthOption
	if a.redis != nil {
		opts = append(opts, handlers.WithReadinessCheck("redis",
			handlers.PingFunc(func(ctx context.Context) error { return a.redis.Ping(ctx).Err() })))
	}
	return opts
}

func limits(c config.LimitsConfig) engine.Limits {
	return engine.Limits{Soft: c.Soft, Hard: c.Hard}
}

// Close releases the browser and the redis connection.
func (a *app) Close() {
	if err := a.launcher.Close(); err != nil {
		a.log.Warn("closing browser", "error", err)
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("closing redis", "error", err)
		}
	}
}

func (a *app) newWorker() *engine.Worker {
	return engine.NewWorker(a.engine,
		engine.WithConcurrency(a.cfg.Worker.Concurrency),
		engine.WithPollInterval(a.cfg.Worker.PollInterval),
		engine.WithVisibility(a.cfg.Worker.Visibility),
	)
}
