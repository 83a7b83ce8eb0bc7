package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		envVars   map[string]string
		wantErr   string
		checkFunc func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid minimal config",
			yaml: `
database:
  host: localhost
  name: fiscus
  user: fiscus
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, "fiscus", cfg.Database.Name)
				assert.Equal(t, "fiscus", cfg.Database.User)
			},
		},
		{
			name: "defaults applied for optional fields",
			yaml: `
database:
  host: localhost
  name: fiscus
  user: fiscus
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.Equal(t, 10, cfg.Database.PoolSize)
				assert.Equal(t, 30*time.Second, cfg.Browser.NavigationTimeout)
				assert.False(t, cfg.Browser.Headful)
				assert.False(t, cfg.Browser.DisableStealth)
				assert.Equal(t, 4, cfg.Worker.Concurrency)
				assert.Equal(t, 12*time.Minute, cfg.Worker.Visibility)
				assert.Equal(t, 3, cfg.Worker.MaxAttempts)
				assert.Equal(t, 60*time.Second, cfg.Worker.RetryBase)
				assert.Equal(t, 2*time.Second, cfg.Worker.StaggerOffset)
				assert.Equal(t, 10, cfg.Worker.ProgressEvery)
				assert.Equal(t, ":9091", cfg.Worker.MetricsAddr)
				assert.Equal(t, LimitsConfig{Soft: 120 * time.Second, Hard: 180 * time.Second}, cfg.Worker.ItemLimits)
				assert.Equal(t, LimitsConfig{Soft: 600 * time.Second, Hard: 660 * time.Second}, cfg.Worker.FanoutLimits)
				assert.Equal(t, LimitsConfig{Soft: 600 * time.Second, Hard: 660 * time.Second}, cfg.Worker.CategoryLimits)
				assert.Equal(t, 1, cfg.Throttle.Burst)
				assert.True(t, cfg.Schedule.IsEnabled())
				assert.Equal(t, "Europe/Kyiv", cfg.Schedule.Timezone)
				assert.Equal(t, []string{"0 6 * * *", "50 23 * * *"}, cfg.Schedule.Cron)
				assert.Empty(t, cfg.Redis.Addr)
				assert.Equal(t, "fiscus:task-events", cfg.Redis.Stream)
				assert.False(t, cfg.Telemetry.Enabled)
				assert.Equal(t, "fiscus-ingest", cfg.Telemetry.ServiceName)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
			},
		},
		{
			name: "env var substitution",
			yaml: `
database:
  host: localhost
  name: fiscus
  user: fiscus
  password: "${TEST_DB_PASSWORD}"
redis:
  addr: "${TEST_REDIS_ADDR}"
`,
			envVars: map[string]string{
				"TEST_DB_PASSWORD": "secret123",
				"TEST_REDIS_ADDR":  "redis:6379",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "secret123", cfg.Database.Password)
				assert.Equal(t, "redis:6379", cfg.Redis.Addr)
			},
		},
		{
			name: "missing required database fields",
			yaml: `
database:
  port: 5432
`,
			wantErr: "database.host is required",
		},
		{
			name: "missing database.user",
			yaml: `
database:
  host: localhost
  name: fiscus
`,
			wantErr: "database.user is required",
		},
		{
			name: "hard limit below soft",
			yaml: `
database: {host: localhost, name: fiscus, user: fiscus}
worker:
  item_limits: {soft: 3m, hard: 1m}
`,
			wantErr: "worker.item_limits.hard (1m0s) must not be below soft (3m0s)",
		},
		{
			name: "visibility shorter than a hard limit",
			yaml: `
database: {host: localhost, name: fiscus, user: fiscus}
worker:
  visibility: 5m
`,
			wantErr: "worker.visibility (5m0s) must exceed worker.fanout_limits.hard (11m0s)",
		},
		{
			name: "unknown timezone",
			yaml: `
database: {host: localhost, name: fiscus, user: fiscus}
schedule:
  timezone: Mars/Olympus
`,
			wantErr: `schedule.timezone "Mars/Olympus"`,
		},
		{
			name: "telemetry without endpoint",
			yaml: `
database: {host: localhost, name: fiscus, user: fiscus}
telemetry:
  enabled: true
`,
			wantErr: "telemetry.endpoint is required when telemetry is enabled",
		},
		{
			name: "invalid log format",
			yaml: `
database: {host: localhost, name: fiscus, user: fiscus}
logging:
  format: xml
`,
			wantErr: `logging.format must be one of: text, json (got "xml")`,
		},
		{
			name:    "invalid YAML",
			yaml:    `{{{not valid yaml`,
			wantErr: "parsing config YAML",
		},
		{
			name: "full config with overrides",
			yaml: `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: 60s
  write_timeout: 60s
database:
  host: db.example.com
  port: 5433
  name: fiscus_prod
  user: admin
  password: pass
  sslmode: require
  pool_size: 20
browser:
  remote_url: ws://chrome:9222/devtools/browser/abc
  headful: true
  disable_stealth: true
  navigation_timeout: 45s
worker:
  concurrency: 8
  max_attempts: 5
  retry_base: 30s
  stagger_offset: 1s
  metrics_addr: 127.0.0.1:9100
throttle:
  per_second: 0.5
  burst: 2
schedule:
  enabled: false
  timezone: UTC
  cron: ["*/30 * * * *"]
redis:
  addr: redis:6379
  db: 2
  stream: fiscus:events
telemetry:
  enabled: true
  endpoint: otel-collector:4317
  insecure: true
  sample_ratio: 0.25
logging:
  level: debug
  format: json
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "127.0.0.1", cfg.Server.Host)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, "require", cfg.Database.SSLMode)
				assert.Equal(t, 20, cfg.Database.PoolSize)
				assert.Equal(t, "ws://chrome:9222/devtools/browser/abc", cfg.Browser.RemoteURL)
				assert.True(t, cfg.Browser.Headful)
				assert.True(t, cfg.Browser.DisableStealth)
				assert.Equal(t, 45*time.Second, cfg.Browser.NavigationTimeout)
				assert.Equal(t, 8, cfg.Worker.Concurrency)
				assert.Equal(t, 5, cfg.Worker.MaxAttempts)
				assert.Equal(t, 30*time.Second, cfg.Worker.RetryBase)
				assert.Equal(t, "127.0.0.1:9100", cfg.Worker.MetricsAddr)
				assert.InDelta(t, 0.5, cfg.Throttle.PerSecond, 0)
				assert.Equal(t, 2, cfg.Throttle.Burst)
				assert.False(t, cfg.Schedule.IsEnabled())
				assert.Equal(t, []string{"*/30 * * * *"}, cfg.Schedule.Cron)
				assert.Equal(t, 2, cfg.Redis.DB)
				assert.Equal(t, "fiscus:events", cfg.Redis.Stream)
				assert.True(t, cfg.Telemetry.Enabled)
				assert.InDelta(t, 0.25, cfg.Telemetry.SampleRatio, 0)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
			},
		},
		{
			name: "notify and domain aliases",
			yaml: `
database:
  host: localhost
  name: fiscus
  user: fiscus
browser:
  domain_aliases:
    localhost: atbmarket.com
notify:
  discord_webhook_url: https://discord.test/api/webhooks/1/abc
  on: [failed, cancelled]
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, map[string]string{"localhost": "atbmarket.com"}, cfg.Browser.DomainAliases)
				assert.Equal(t, "https://discord.test/api/webhooks/1/abc", cfg.Notify.DiscordWebhookURL)
				assert.Equal(t, []string{"failed", "cancelled"}, cfg.Notify.On)
			},
		},
		{
			name: "notify defaults to failed",
			yaml: `
database:
  host: localhost
  name: fiscus
  user: fiscus
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Empty(t, cfg.Notify.DiscordWebhookURL)
				assert.Equal(t, []string{"failed"}, cfg.Notify.On)
			},
		},
		{
			name: "unknown notify status",
			yaml: `
database:
  host: localhost
  name: fiscus
  user: fiscus
notify:
  on: [exploded]
`,
			wantErr: `notify.on: unknown task status "exploded"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Only parallelize tests that don't modify env vars.
			if len(tt.envVars) == 0 {
				t.Parallel()
			}

			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			cfg, err := Load(path)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := Load("/nonexistent/path/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Parallel()

	cfg := DatabaseConfig{
		Host:     "db.example.com",
		Port:     5433,
		Name:     "fiscus",
		User:     "admin",
		Password: "s3cret",
		SSLMode:  "require",
	}
	assert.Equal(t, "host=db.example.com port=5433 dbname=fiscus user=admin password=s3cret sslmode=require", cfg.DSN())
}
