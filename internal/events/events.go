// Package events publishes TaskLog status changes so dashboards can follow
// scrape progress without polling the API.
package events

import (
	"context"
	"time"

	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

// TaskEvent is a snapshot of a TaskLog after a status or progress change.
type TaskEvent struct {
	TaskID         string            `json:"task_id"`
	Name           string            `json:"name"`
	Kind           domain.TaskKind   `json:"kind"`
	StoreID        *int64            `json:"store_id,omitempty"`
	Status         domain.TaskStatus `json:"status"`
	ItemsTotal     int               `json:"items_total"`
	ItemsProcessed int               `json:"items_processed"`
	ItemsFailed    int               `json:"items_failed"`
	Message        string            `json:"message,omitempty"`
	Error          string            `json:"error,omitempty"`
	At             time.Time         `json:"at"`
}

// FromTaskLog builds the event for t observed at at.
func FromTaskLog(t *domain.TaskLog, at time.Time) TaskEvent {
	return TaskEvent{
		TaskID:         t.TaskID,
		Name:           t.Name,
		Kind:           t.Kind,
		StoreID:        t.StoreID,
		Status:         t.Status,
		ItemsTotal:     t.ItemsTotal,
		ItemsProcessed: t.ItemsProcessed,
		ItemsFailed:    t.ItemsFailed,
		Message:        t.Message,
		Error:          t.ErrorMessage,
		At:             at,
	}
}

// Publisher delivers task events. Implementations must not block task
// execution for long; callers treat publish errors as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, ev TaskEvent) error
}
