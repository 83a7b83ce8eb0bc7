package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/donaldgifford/fiscus-ingest/internal/events"
	"github.com/donaldgifford/fiscus-ingest/internal/metrics"
	"github.com/donaldgifford/fiscus-ingest/internal/store"
	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

// TaskTracker writes task ledger transitions and announces each one on the
// event stream. Calls with an empty task ID are no-ops so in-process runs
// (CLI, dry runs) can share code with queued ones.
type TaskTracker struct {
	store     store.Store
	publisher events.Publisher
	log       *slog.Logger
	now       func() time.Time
}

// NewTaskTracker creates a tracker. A nil publisher discards events.
func NewTaskTracker(s store.Store, p events.Publisher, log *slog.Logger, now func() time.Time) *TaskTracker {
	if p == nil {
		p = events.NewNoOpPublisher(log)
	}
	if now == nil {
		now = time.Now
	}
	return &TaskTracker{store: s, publisher: p, log: log, now: now}
}

// Create records a new task, or returns the existing row when taskID is
// already known.
func (tt *TaskTracker) Create(ctx context.Context, t *domain.TaskLog) (*domain.TaskLog, error) {
	if t.Status == "" {
		t.Status = domain.TaskPending
	}
	got, err := tt.store.CreateOrGetTaskLog(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("creating task log %s: %w", t.TaskID, err)
	}
	metrics.TaskTransitionsTotal.WithLabelValues(string(got.Kind), string(got.Status)).Inc()
	tt.publish(ctx, got)
	return got, nil
}

// Start marks the task started and, when total is non-nil, sizes it.
func (tt *TaskTracker) Start(ctx context.Context, taskID string, total *int) (*domain.TaskLog, error) {
	return tt.update(ctx, taskID, domain.TaskLogUpdate{
		Status:     domain.Ptr(domain.TaskStarted),
		ItemsTotal: total,
	})
}

// Progress records processed/failed counters and a message.
func (tt *TaskTracker) Progress(ctx context.Context, taskID string, processed, failed int, msg string) (*domain.TaskLog, error) {
	return tt.update(ctx, taskID, domain.TaskLogUpdate{
		Status:         domain.Ptr(domain.TaskProgress),
		ItemsProcessed: domain.Ptr(processed),
		ItemsFailed:    domain.Ptr(failed),
		Message:        domain.Ptr(msg),
	})
}

// Complete moves the task to completed with final counters.
func (tt *TaskTracker) Complete(ctx context.Context, taskID string, processed, failed int, msg string) (*domain.TaskLog, error) {
	return tt.update(ctx, taskID, domain.TaskLogUpdate{
		Status:         domain.Ptr(domain.TaskCompleted),
		ItemsProcessed: domain.Ptr(processed),
		ItemsFailed:    domain.Ptr(failed),
		Message:        domain.Ptr(msg),
	})
}

// Fail moves the task to failed and records errMsg.
func (tt *TaskTracker) Fail(ctx context.Context, taskID, errMsg string) (*domain.TaskLog, error) {
	return tt.update(ctx, taskID, domain.TaskLogUpdate{
		Status:       domain.Ptr(domain.TaskFailed),
		ErrorMessage: domain.Ptr(errMsg),
	})
}

// Cancel moves a non-terminal task to cancelled. Queued work belonging to
// the task is skipped when a worker picks it up; in-flight scrapes finish.
func (tt *TaskTracker) Cancel(ctx context.Context, taskID string) (*domain.TaskLog, error) {
	return tt.update(ctx, taskID, domain.TaskLogUpdate{
		Status:  domain.Ptr(domain.TaskCancelled),
		Message: domain.Ptr("cancelled by operator"),
	})
}

// IsCancelled reports whether the task has been cancelled. A missing task
// is not cancelled.
func (tt *TaskTracker) IsCancelled(ctx context.Context, taskID string) (bool, error) {
	if taskID == "" {
		return false, nil
	}
	t, err := tt.store.GetTaskLog(ctx, taskID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return t.Status == domain.TaskCancelled, nil
}

func (tt *TaskTracker) update(ctx context.Context, taskID string, u domain.TaskLogUpdate) (*domain.TaskLog, error) {
	if taskID == "" {
		return nil, nil
	}

	u.At = tt.now()
	t, err := tt.store.UpdateTaskLog(ctx, taskID, u)
	if errors.Is(err, store.ErrNotFound) {
		tt.log.Warn("task log not found", "task_id", taskID)
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	if u.Status != nil {
		metrics.TaskTransitionsTotal.WithLabelValues(string(t.Kind), string(t.Status)).Inc()
	}
	tt.publish(ctx, t)
	return t, nil
}

func (tt *TaskTracker) publish(ctx context.Context, t *domain.TaskLog) {
	if err := tt.publisher.Publish(ctx, events.FromTaskLog(t, tt.now())); err != nil {
		tt.log.Warn("publishing task event", "task_id", t.TaskID, "status", t.Status, "error", err)
	}
}
