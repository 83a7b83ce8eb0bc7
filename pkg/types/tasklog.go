package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTransition is returned when a task update would move a task
// backwards or out of a terminal state.
var ErrInvalidTransition = errors.New("invalid task transition")

// TaskStatus is the lifecycle state of a TaskLog.
type TaskStatus string

// Task status constants.
const (
	TaskPending   TaskStatus = "pending"
	TaskStarted   TaskStatus = "started"
	TaskProgress  TaskStatus = "progress"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
	TaskCancelled TaskStatus = "cancelled"
)

func (s TaskStatus) rank() int {
	switch s {
	case TaskPending:
		return 0
	case TaskStarted:
		return 1
	case TaskProgress:
		return 2
	case TaskCompleted, TaskFailed, TaskCancelled:
		return 3
	default:
		return -1
	}
}

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool { return s.rank() >= 0 }

// IsTerminal reports whether no further transitions are allowed.
func (s TaskStatus) IsTerminal() bool { return s.rank() == 3 }

// CanTransitionTo reports whether a task in status s may move to next.
// Staying in the same non-terminal status is allowed so counters can be
// refreshed.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	if !s.Valid() || !next.Valid() || s.IsTerminal() {
		return false
	}
	return next.rank() >= s.rank()
}

// TaskKind names the unit of work a task performs.
type TaskKind string

// Task kinds.
const (
	KindScrapeItem     TaskKind = "scrape_item"
	KindScrapeStore    TaskKind = "scrape_store"
	KindScrapeAll      TaskKind = "scrape_all"
	KindScrapeCategory TaskKind = "scrape_category"
)

// TaskLog is the operator-visible ledger row for one scheduled unit of
// scraping work.
type TaskLog struct {
	TaskID         string     `json:"task_id"                 db:"task_id"`
	Name           string     `json:"name"                    db:"name"`
	Kind           TaskKind   `json:"kind"                    db:"kind"`
	StoreID        *int64     `json:"store_id,omitempty"      db:"store_id"`
	Status         TaskStatus `json:"status"                  db:"status"`
	ItemsTotal     int        `json:"items_total"             db:"items_total"`
	ItemsProcessed int        `json:"items_processed"         db:"items_processed"`
	ItemsFailed    int        `json:"items_failed"            db:"items_failed"`
	Message        string     `json:"message,omitempty"       db:"message"`
	ErrorMessage   string     `json:"error_message,omitempty" db:"error_message"`
	CreatedAt      time.Time  `json:"created_at"              db:"created_at"`
	StartedAt      *time.Time `json:"started_at,omitempty"    db:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"  db:"completed_at"`
}

// ProgressPercent returns processed/total as a percentage, 0 when the
// total is unknown.
func (t *TaskLog) ProgressPercent() float64 {
	if t.ItemsTotal <= 0 {
		return 0
	}
	return float64(t.ItemsProcessed) * 100 / float64(t.ItemsTotal)
}

// TaskLogUpdate is a partial update. Nil fields are left untouched.
type TaskLogUpdate struct {
	Status         *TaskStatus
	ItemsTotal     *int
	ItemsProcessed *int
	ItemsFailed    *int
	Message        *string
	ErrorMessage   *string
	// At stamps StartedAt and CompletedAt. Zero uses the now passed to Apply.
	At             time.Time
}

// Apply mutates t according to u. Counters never decrease, terminal
// states absorb every later update, and CompletedAt is stamped exactly
// once when a terminal state is entered.
func (t *TaskLog) Apply(u TaskLogUpdate, now time.Time) error {
	if t.Status.IsTerminal() {
		return fmt.Errorf("task %s is %s: %w", t.TaskID, t.Status, ErrInvalidTransition)
	}
	if u.Status != nil && !t.Status.CanTransitionTo(*u.Status) {
		return fmt.Errorf("task %s: %s -> %s: %w", t.TaskID, t.Status, *u.Status, ErrInvalidTransition)
	}

	if u.ItemsTotal != nil && *u.ItemsTotal >= 0 {
		t.ItemsTotal = *u.ItemsTotal
	}
	if u.ItemsProcessed != nil {
		t.ItemsProcessed = max(t.ItemsProcessed, *u.ItemsProcessed)
	}
	if u.ItemsFailed != nil {
		t.ItemsFailed = max(t.ItemsFailed, *u.ItemsFailed)
	}
	if u.Message != nil {
		t.Message = *u.Message
	}
	if u.ErrorMessage != nil {
		t.ErrorMessage = *u.ErrorMessage
	}

	if !u.At.IsZero() {
		now = u.At
	}
	if u.Status != nil {
		t.Status = *u.Status
		if t.Status != TaskPending && t.StartedAt == nil {
			started := now
			t.StartedAt = &started
		}
		if t.Status.IsTerminal() {
			done := now
			t.CompletedAt = &done
		}
	}
	return nil
}

// Ptr returns a pointer to v. It keeps TaskLogUpdate literals short.
func Ptr[T any](v T) *T { return &v }
