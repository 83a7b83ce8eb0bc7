package engine

import (
	"context"
	"errors"

	"github.com/donaldgifford/fiscus-ingest/internal/ingest"
	"github.com/donaldgifford/fiscus-ingest/internal/scraper"
	"github.com/donaldgifford/fiscus-ingest/internal/store"
)

// Outcome classifies how a unit of work ended.
type Outcome string

// Outcomes. The worker owns the retry loop: only OutcomeRetryable is
// rescheduled, and only while attempts remain.
const (
	OutcomeSuccess   Outcome = "success"
	OutcomeRetryable Outcome = "retryable"
	OutcomeFatal     Outcome = "fatal"
)

// Result is returned by every task body instead of an error so the
// caller decides between completing, rescheduling, and failing.
type Result struct {
	Outcome Outcome
	// Reason is a short machine-friendly cause ("timeout", "no_scraper").
	Reason string
	// Message is the operator-facing summary written to the task ledger.
	Message string
	Err     error
}

// Success builds a successful result.
func Success(msg string) Result {
	return Result{Outcome: OutcomeSuccess, Message: msg}
}

// Retryable builds a result the worker may reschedule.
func Retryable(reason string, err error) Result {
	return Result{Outcome: OutcomeRetryable, Reason: reason, Err: err}
}

// Fatal builds a result that fails the task immediately.
func Fatal(reason string, err error) Result {
	return Result{Outcome: OutcomeFatal, Reason: reason, Err: err}
}

// OK reports whether the work succeeded.
func (r Result) OK() bool { return r.Outcome == OutcomeSuccess }

// Error returns the text stored as the job's last error and the task's
// error message.
func (r Result) Error() string {
	switch {
	case r.Err != nil:
		return r.Err.Error()
	case r.Reason != "":
		return r.Reason
	default:
		return ""
	}
}

// classify maps an error from a task body onto a Result. Configuration
// and structural problems are fatal; everything else is assumed transient
// and retried until attempts run out.
func classify(err error) Result {
	var noScraper *scraper.NoScraperForDomainError
	switch {
	case err == nil:
		return Success("")
	case errors.As(err, &noScraper):
		return Fatal("no_scraper", err)
	case errors.Is(err, ingest.ErrStoreNotFound):
		return Fatal("store_not_found", err)
	case errors.Is(err, store.ErrNotFound):
		return Fatal("not_found", err)
	case errors.Is(err, scraper.ErrElementNotFound):
		return Fatal("element_not_found", err)
	case errors.Is(err, scraper.ErrMalformed):
		return Fatal("malformed", err)
	case errors.Is(err, scraper.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return Retryable("timeout", err)
	case errors.Is(err, scraper.ErrSession):
		return Retryable("session", err)
	default:
		return Retryable("error", err)
	}
}
