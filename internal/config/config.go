// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata" // schedule.timezone must resolve on hosts without a zoneinfo database

	"gopkg.in/yaml.v3"

	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Browser   BrowserConfig   `yaml:"browser"`
	Worker    WorkerConfig    `yaml:"worker"`
	Throttle  ThrottleConfig  `yaml:"throttle"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Redis     RedisConfig     `yaml:"redis"`
	Notify    NotifyConfig    `yaml:"notify"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// BrowserConfig defines the headless Chrome used by the scrapers.
type BrowserConfig struct {
	RemoteURL         string        `yaml:"remote_url"` // DevTools ws:// URL; empty launches locally
	BinPath           string        `yaml:"bin_path"`
	Headful           bool          `yaml:"headful"`
	DisableStealth    bool          `yaml:"disable_stealth"`
	UserAgent         string        `yaml:"user_agent"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
	ScrollPause       time.Duration `yaml:"scroll_pause"`
	SettleDelay       time.Duration `yaml:"settle_delay"`
	// DomainAliases maps an extra host onto a registered retailer domain,
	// e.g. localhost: atbmarket.com for the fixture site.
	DomainAliases map[string]string `yaml:"domain_aliases"`
}

// WorkerConfig defines job execution settings.
type WorkerConfig struct {
	Concurrency    int           `yaml:"concurrency"`
	PollInterval   time.Duration `yaml:"poll_interval"`
	Visibility     time.Duration `yaml:"visibility"`
	MaxAttempts    int           `yaml:"max_attempts"`
	RetryBase      time.Duration `yaml:"retry_base"`
	StaggerOffset  time.Duration `yaml:"stagger_offset"`
	ProgressEvery  int           `yaml:"progress_every"`
	ItemLimits     LimitsConfig  `yaml:"item_limits"`
	FanoutLimits   LimitsConfig  `yaml:"fanout_limits"`
	CategoryLimits LimitsConfig  `yaml:"category_limits"`
	// MetricsAddr is where the standalone worker serves /metrics and /healthz.
	MetricsAddr    string        `yaml:"metrics_addr"`
}

// LimitsConfig bounds one job execution.
type LimitsConfig struct {
	Soft time.Duration `yaml:"soft"`
	Hard time.Duration `yaml:"hard"`
}

// ThrottleConfig defines per-retailer navigation rate limiting.
type ThrottleConfig struct {
	PerSecond float64 `yaml:"per_second"` // 0 disables throttling
	Burst     int     `yaml:"burst"`
}

// ScheduleConfig defines when the global scrape fires.
type ScheduleConfig struct {
	Enabled  *bool    `yaml:"enabled"` // default: true
	Timezone string   `yaml:"timezone"`
	Cron     []string `yaml:"cron"`
}

// IsEnabled reports whether the scheduler should run.
func (s *ScheduleConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// RedisConfig defines the task event stream. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Stream   string `yaml:"stream"`
	MaxLen   int64  `yaml:"max_len"`
}

// NotifyConfig defines operator alerts on task outcomes. An empty
// DiscordWebhookURL disables them.
type NotifyConfig struct {
	DiscordWebhookURL string   `yaml:"discord_webhook_url"`
	On                []string `yaml:"on"` // task statuses that alert; default: failed
}

// TelemetryConfig defines OpenTelemetry export.
type TelemetryConfig struct {
	Enabled        bool              `yaml:"enabled"`
	Endpoint       string            `yaml:"endpoint"` // host:port of an OTLP/gRPC collector
	Insecure       bool              `yaml:"insecure"`
	Headers        map[string]string `yaml:"headers"`
	ServiceName    string            `yaml:"service_name"`
	SampleRatio    float64           `yaml:"sample_ratio"`
	MetricInterval time.Duration     `yaml:"metric_interval"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Config from YAML bytes, expanding ${ENV} references,
// applying defaults, and validating the result.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyBrowserDefaults(&cfg.Browser)
	applyWorkerDefaults(&cfg.Worker)
	applyThrottleDefaults(&cfg.Throttle)
	applyScheduleDefaults(&cfg.Schedule)
	applyRedisDefaults(&cfg.Redis)
	applyNotifyDefaults(&cfg.Notify)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyBrowserDefaults(b *BrowserConfig) {
	if b.NavigationTimeout == 0 {
		b.NavigationTimeout = 30 * time.Second
	}
	if b.ScrollPause == 0 {
		b.ScrollPause = 2 * time.Second
	}
	if b.SettleDelay == 0 {
		b.SettleDelay = 2 * time.Second
	}
}

func applyWorkerDefaults(w *WorkerConfig) {
	if w.Concurrency == 0 {
		w.Concurrency = 4
	}
	if w.PollInterval == 0 {
		w.PollInterval = 2 * time.Second
	}
	if w.Visibility == 0 {
		w.Visibility = 12 * time.Minute
	}
	if w.MaxAttempts == 0 {
		w.MaxAttempts = 3
	}
	if w.RetryBase == 0 {
		w.RetryBase = 60 * time.Second
	}
	if w.StaggerOffset == 0 {
		w.StaggerOffset = 2 * time.Second
	}
	if w.ProgressEvery == 0 {
		w.ProgressEvery = 10
	}
	if w.MetricsAddr == "" {
		w.MetricsAddr = ":9091"
	}
	applyLimitsDefaults(&w.ItemLimits, 120*time.Second, 180*time.Second)
	applyLimitsDefaults(&w.FanoutLimits, 600*time.Second, 660*time.Second)
	applyLimitsDefaults(&w.CategoryLimits, 600*time.Second, 660*time.Second)
}

func applyLimitsDefaults(l *LimitsConfig, soft, hard time.Duration) {
	if l.Soft == 0 {
		l.Soft = soft
	}
	if l.Hard == 0 {
		l.Hard = hard
	}
}

func applyThrottleDefaults(t *ThrottleConfig) {
	if t.Burst == 0 {
		t.Burst = 1
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.Timezone == "" {
		s.Timezone = "Europe/Kyiv"
	}
	if len(s.Cron) == 0 {
		s.Cron = []string{"0 6 * * *", "50 23 * * *"}
	}
}

func applyRedisDefaults(r *RedisConfig) {
	if r.Stream == "" {
		r.Stream = "fiscus:task-events"
	}
	if r.MaxLen == 0 {
		r.MaxLen = 10000
	}
}

func applyNotifyDefaults(n *NotifyConfig) {
	if len(n.On) == 0 {
		n.On = []string{string(domain.TaskFailed)}
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.ServiceName == "" {
		t.ServiceName = "fiscus-ingest"
	}
	if t.SampleRatio == 0 {
		t.SampleRatio = 1
	}
	if t.MetricInterval == 0 {
		t.MetricInterval = 30 * time.Second
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Database.Host == "" {
		errs = append(errs, fmt.Errorf("database.host is required"))
	}
	if cfg.Database.Name == "" {
		errs = append(errs, fmt.Errorf("database.name is required"))
	}
	if cfg.Database.User == "" {
		errs = append(errs, fmt.Errorf("database.user is required"))
	}

	if cfg.Worker.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("worker.concurrency must not be negative"))
	}
	if cfg.Worker.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("worker.max_attempts must not be negative"))
	}
	for name, l := range map[string]LimitsConfig{
		"worker.item_limits":     cfg.Worker.ItemLimits,
		"worker.fanout_limits":   cfg.Worker.FanoutLimits,
		"worker.category_limits": cfg.Worker.CategoryLimits,
	} {
		if l.Hard < l.Soft {
			errs = append(errs, fmt.Errorf("%s.hard (%s) must not be below soft (%s)", name, l.Hard, l.Soft))
		}
		if cfg.Worker.Visibility <= l.Hard {
			errs = append(errs, fmt.Errorf(
				"worker.visibility (%s) must exceed %s.hard (%s)", cfg.Worker.Visibility, name, l.Hard,
			))
		}
	}

	if cfg.Throttle.PerSecond < 0 {
		errs = append(errs, fmt.Errorf("throttle.per_second must not be negative"))
	}

	for _, status := range cfg.Notify.On {
		if !domain.TaskStatus(status).Valid() {
			errs = append(errs, fmt.Errorf("notify.on: unknown task status %q", status))
		}
	}

	if _, err := time.LoadLocation(cfg.Schedule.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("schedule.timezone %q: %w", cfg.Schedule.Timezone, err))
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint == "" {
		errs = append(errs, fmt.Errorf("telemetry.endpoint is required when telemetry is enabled"))
	}
	if cfg.Telemetry.SampleRatio < 0 || cfg.Telemetry.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("telemetry.sample_ratio must be within [0, 1] (got %v)", cfg.Telemetry.SampleRatio))
	}

	switch cfg.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be one of: text, json (got %q)", cfg.Logging.Format))
	}

	return errors.Join(errs...)
}
