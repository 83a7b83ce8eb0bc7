package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/donaldgifford/fiscus-ingest/internal/metrics"
	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

var (
	// ErrSoftTimeLimit is recorded when a job overruns its soft limit. It
	// takes the retry path.
	ErrSoftTimeLimit = errors.New("soft time limit exceeded")
	// ErrHardTimeLimit is recorded when a job overruns its hard limit. The
	// execution is abandoned and counted as failed.
	ErrHardTimeLimit = errors.New("hard time limit exceeded")
)

// Limits bounds one job execution. A zero value disables that bound.
type Limits struct {
	Soft time.Duration
	Hard time.Duration
}

// Default limits.
var (
	DefaultItemLimits     = Limits{Soft: 120 * time.Second, Hard: 180 * time.Second}
	DefaultFanoutLimits   = Limits{Soft: 600 * time.Second, Hard: 660 * time.Second}
	DefaultCategoryLimits = Limits{Soft: 600 * time.Second, Hard: 660 * time.Second}
)

// runWithLimits runs fn under lim. At the soft limit fn's context is
// cancelled; a non-successful result returned after that point becomes
// retryable. If fn has still not returned by the hard limit it is
// abandoned and the result is fatal.
func runWithLimits(ctx context.Context, kind domain.TaskKind, lim Limits, fn func(context.Context) Result) Result {
	runCtx, cancel := ctx, context.CancelFunc(func() {})
	if lim.Soft > 0 {
		runCtx, cancel = context.WithTimeout(ctx, lim.Soft)
	}
	defer cancel()

	done := make(chan Result, 1)
	go func() { done <- fn(runCtx) }()

	var hard <-chan time.Time
	if lim.Hard > 0 {
		timer := time.NewTimer(lim.Hard)
		defer timer.Stop()
		hard = timer.C
	}

	select {
	case res := <-done:
		if !res.OK() && ctx.Err() == nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			metrics.JobTimeLimitsTotal.WithLabelValues(string(kind), "soft").Inc()
			return Retryable("soft_time_limit", fmt.Errorf("%w after %s: %s", ErrSoftTimeLimit, lim.Soft, res.Error()))
		}
		return res
	case <-hard:
		cancel()
		metrics.JobTimeLimitsTotal.WithLabelValues(string(kind), "hard").Inc()
		return Fatal("hard_time_limit", fmt.Errorf("%w after %s", ErrHardTimeLimit, lim.Hard))
	}
}
