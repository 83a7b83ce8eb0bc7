package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/fiscus-ingest/internal/metrics"
	"github.com/donaldgifford/fiscus-ingest/internal/store"
	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

const (
	defaultConcurrency  = 4
	defaultPollInterval = 2 * time.Second
	// defaultVisibility must exceed the longest hard limit so a live
	// worker's claim never expires under it.
	defaultVisibility = 12 * time.Minute
)

// Worker claims due jobs from the queue and executes them. Several
// workers, in one process or many, can share a queue; claims use
// SKIP LOCKED and expire after the visibility timeout.
type Worker struct {
	eng   *Engine
	store store.Store
	log   *slog.Logger

	id           string
	concurrency  int
	pollInterval time.Duration
	visibility   time.Duration
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithConcurrency sets how many jobs run at once.
func WithConcurrency(n int) WorkerOption {
	return func(w *Worker) {
		if n > 0 {
			w.concurrency = n
		}
	}
}

// WithPollInterval sets the idle delay between queue polls.
func WithPollInterval(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithVisibility sets how long a claim stays exclusive.
func WithVisibility(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.visibility = d
		}
	}
}

// WithWorkerID overrides the generated worker identity.
func WithWorkerID(id string) WorkerOption {
	return func(w *Worker) {
		if id != "" {
			w.id = id
		}
	}
}

// NewWorker creates a worker executing jobs through eng.
func NewWorker(eng *Engine, opts ...WorkerOption) *Worker {
	w := &Worker{
		eng:          eng,
		store:        eng.store,
		id:           uuid.NewString(),
		concurrency:  defaultConcurrency,
		pollInterval: defaultPollInterval,
		visibility:   defaultVisibility,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = eng.log.With("component", "worker", "worker_id", w.id)
	return w
}

// ID returns the worker identity recorded on claimed jobs.
func (w *Worker) ID() string { return w.id }

// Run keeps up to concurrency jobs in flight until ctx is cancelled. A
// slot freed by a finished job is refilled with the next due job right
// away; when the queue runs dry the worker polls every pollInterval. Run
// returns after in-flight jobs settle.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("worker started", "concurrency", w.concurrency)
	defer w.log.Info("worker stopped")

	var wg sync.WaitGroup
	defer wg.Wait()

	finished := make(chan struct{}, w.concurrency)
	inFlight := 0

	for {
		if ctx.Err() != nil {
			return nil
		}

		if free := w.concurrency - inFlight; free > 0 {
			jobs, err := w.store.ClaimJobs(ctx, w.id, free, w.visibility)
			if err != nil && ctx.Err() == nil {
				w.log.Error("polling queue", "error", fmt.Errorf("claiming jobs: %w", err))
			}
			for i := range jobs {
				inFlight++
				wg.Add(1)
				go func(job store.Job) {
					defer wg.Done()
					w.process(ctx, job)
					finished <- struct{}{}
				}(jobs[i])
			}
			if len(jobs) > 0 {
				w.syncQueueDepth(ctx)
			}
		}

		var (
			timer *time.Timer
			idle  <-chan time.Time
		)
		if inFlight < w.concurrency {
			timer = time.NewTimer(w.pollInterval)
			idle = timer.C
		}

		select {
		case <-ctx.Done():
			return nil
		case <-finished:
			inFlight--
		case <-idle:
		}
		if timer != nil {
			timer.Stop()
		}
	}
}

// RunOnce claims up to concurrency due jobs, runs them in parallel, and
// waits for all of them. It returns the number of jobs claimed.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	jobs, err := w.store.ClaimJobs(ctx, w.id, w.concurrency, w.visibility)
	if err != nil {
		return 0, fmt.Errorf("claiming jobs: %w", err)
	}

	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		go func(job store.Job) {
			defer wg.Done()
			w.process(ctx, job)
		}(jobs[i])
	}
	wg.Wait()

	w.syncQueueDepth(ctx)
	return len(jobs), nil
}

func (w *Worker) syncQueueDepth(ctx context.Context) {
	n, err := w.store.CountPendingJobs(ctx)
	if err != nil {
		w.log.Warn("counting pending jobs", "error", err)
		return
	}
	metrics.QueueDepth.Set(float64(n))
}

// process executes one claimed job and settles it: complete, reschedule,
// or fail.
func (w *Worker) process(ctx context.Context, job store.Job) {
	ctx, span := tracer.Start(ctx, "engine.Worker.process", trace.WithAttributes(
		attribute.String("job.id", job.ID),
		attribute.String("job.kind", string(job.Kind)),
		attribute.Int("job.attempt", job.Attempt),
		attribute.String("task.id", job.TaskID),
	))
	defer span.End()

	log := w.log.With("job_id", job.ID, "kind", job.Kind, "task_id", job.TaskID, "attempt", job.Attempt)

	task, err := w.store.GetTaskLog(ctx, job.TaskID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		log.Warn("job has no task log")
		task = nil
	case err != nil:
		log.Error("loading task log", "error", err)
		w.reschedule(ctx, log, job, Retryable("store", err))
		return
	}

	if task != nil && task.Status == domain.TaskCancelled {
		log.Info("skipping job of cancelled task")
		w.complete(ctx, log, job, "cancelled")
		return
	}

	// The task is owned by the job that created it. Item jobs fanned out
	// from a store or global task only reference their parent.
	owned := task != nil && task.Kind == job.Kind

	if job.Attempt > job.MaxAttempts {
		res := Fatal("max_attempts", fmt.Errorf("claimed %d times, limit %d", job.Attempt, job.MaxAttempts))
		w.fail(ctx, log, job, owned, res)
		return
	}

	if owned && task.Status == domain.TaskPending {
		if _, err := w.eng.tracker.Start(ctx, job.TaskID, nil); err != nil {
			log.Warn("marking task started", "error", err)
		}
	}

	start := time.Now()
	res := runWithLimits(ctx, job.Kind, w.eng.limitsFor(job.Kind), func(ctx context.Context) Result {
		return w.dispatch(ctx, job)
	})
	metrics.JobDuration.WithLabelValues(string(job.Kind)).Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.String("result.outcome", string(res.Outcome)))

	switch {
	case res.OK():
		w.complete(ctx, log, job, "")
		if owned && job.Kind == domain.KindScrapeItem {
			if _, err := w.eng.tracker.Complete(ctx, job.TaskID, 1, 0, res.Message); err != nil {
				log.Warn("completing task", "error", err)
			}
		}
	case res.Outcome == OutcomeRetryable && job.Attempt < job.MaxAttempts:
		w.reschedule(ctx, log, job, res)
	default:
		if res.Outcome == OutcomeRetryable {
			log.Error("max retries exceeded", "error", res.Error())
			res = Fatal("max_retries", fmt.Errorf("max retries exceeded: %s", res.Error()))
		}
		w.fail(ctx, log, job, owned, res)
	}
}

// dispatch routes a job to the engine operation for its kind.
func (w *Worker) dispatch(ctx context.Context, job store.Job) Result {
	p := job.Payload
	switch job.Kind {
	case domain.KindScrapeItem:
		if p.ItemID == nil {
			return Fatal("bad_payload", errors.New("scrape_item job without item_id"))
		}
		return w.eng.ScrapeStoreItem(ctx, *p.ItemID)
	case domain.KindScrapeStore:
		if p.StoreID == nil {
			return Fatal("bad_payload", errors.New("scrape_store job without store_id"))
		}
		return w.eng.ScrapeStore(ctx, job.TaskID, *p.StoreID)
	case domain.KindScrapeAll:
		return w.eng.ScrapeAll(ctx, job.TaskID)
	case domain.KindScrapeCategory:
		if p.URL == "" || p.StoreName == "" {
			return Fatal("bad_payload", errors.New("scrape_category job without url or store_name"))
		}
		return w.eng.ScrapeCategory(ctx, job.TaskID, p.URL, p.StoreName)
	default:
		return Fatal("unknown_kind", fmt.Errorf("unknown job kind %q", job.Kind))
	}
}

func (w *Worker) complete(ctx context.Context, log *slog.Logger, job store.Job, errText string) {
	if err := w.store.CompleteJob(ctx, job.ID, errText); err != nil {
		log.Error("completing job", "error", err)
	}
}

// reschedule releases the job to run again after an exponential backoff.
func (w *Worker) reschedule(ctx context.Context, log *slog.Logger, job store.Job, res Result) {
	delay := w.eng.retryDelay(job.Attempt)
	runAt := w.eng.now().Add(delay)
	if err := w.store.RetryJob(ctx, job.ID, runAt, res.Error()); err != nil {
		log.Error("rescheduling job", "error", err)
		return
	}
	metrics.JobRetriesTotal.WithLabelValues(string(job.Kind)).Inc()
	log.Warn("job will be retried", "reason", res.Reason, "delay", delay, "error", res.Error())
}

// fail finishes the job with its error and marks the owned task failed.
func (w *Worker) fail(ctx context.Context, log *slog.Logger, job store.Job, owned bool, res Result) {
	log.Error("job failed", "reason", res.Reason, "error", res.Error())
	w.complete(ctx, log, job, res.Error())
	if !owned {
		return
	}
	if _, err := w.eng.tracker.Fail(ctx, job.TaskID, res.Error()); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			log.Debug("task already terminal", "error", err)
			return
		}
		log.Warn("marking task failed", "error", err)
	}
}
