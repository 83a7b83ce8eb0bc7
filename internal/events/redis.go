package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/donaldgifford/fiscus-ingest/internal/metrics"
)

const (
	// DefaultStream is the Redis stream task events are appended to.
	DefaultStream = "fiscus:task-events"

	defaultMaxLen = 10000
)

// StreamClient is the subset of *redis.Client used for publishing.
type StreamClient interface {
	XAdd(ctx context.Context, args *redis.XAddArgs) *redis.StringCmd
}

// RedisPublisher appends task events to a capped Redis stream.
type RedisPublisher struct {
	client StreamClient
	stream string
	maxLen int64
	log    *slog.Logger
}

// RedisOption configures a RedisPublisher.
type RedisOption func(*RedisPublisher)

// WithStream overrides the stream key.
func WithStream(name string) RedisOption {
	return func(p *RedisPublisher) {
		if name != "" {
			p.stream = name
		}
	}
}

// WithMaxLen caps the stream length (approximate trimming).
func WithMaxLen(n int64) RedisOption {
	return func(p *RedisPublisher) {
		if n > 0 {
			p.maxLen = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) RedisOption {
	return func(p *RedisPublisher) { p.log = l }
}

// NewRedisPublisher creates a publisher writing through client.
func NewRedisPublisher(client StreamClient, opts ...RedisOption) *RedisPublisher {
	p := &RedisPublisher{
		client: client,
		stream: DefaultStream,
		maxLen: defaultMaxLen,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish appends ev to the stream.
func (p *RedisPublisher) Publish(ctx context.Context, ev TaskEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("encoding task event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"type":    "task." + string(ev.Status),
			"task_id": ev.TaskID,
			"data":    string(data),
		},
	}

	id, err := p.client.XAdd(ctx, args).Result()
	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("publishing task event %s: %w", ev.TaskID, err)
	}

	metrics.EventsPublishedTotal.WithLabelValues("ok").Inc()
	p.log.Debug("task event published", "stream", p.stream, "id", id, "task_id", ev.TaskID)
	return nil
}

// Dial connects to Redis and verifies the connection.
func Dial(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", addr, err)
	}
	return client, nil
}
