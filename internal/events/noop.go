package events

import (
	"context"
	"log/slog"
)

// NoOpPublisher implements Publisher by logging discarded events. It is
// used when Redis is not configured.
type NoOpPublisher struct {
	log *slog.Logger
}

// NewNoOpPublisher creates a publisher that discards events with a log message.
func NewNoOpPublisher(log *slog.Logger) *NoOpPublisher {
	return &NoOpPublisher{log: log}
}

// Publish logs and discards a single event.
func (n *NoOpPublisher) Publish(_ context.Context, ev TaskEvent) error {
	n.log.Debug("task event discarded (no stream configured)",
		"task_id", ev.TaskID,
		"status", ev.Status,
		"processed", ev.ItemsProcessed,
	)
	return nil
}
