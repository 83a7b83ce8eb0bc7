package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/donaldgifford/fiscus-ingest/internal/metrics"
	"github.com/donaldgifford/fiscus-ingest/internal/store"
)

// DefaultTimezone is the zone the default schedule is expressed in.
const DefaultTimezone = "Europe/Kyiv"

// DefaultSchedule runs the global fan-out every morning and late evening.
var DefaultSchedule = []string{"0 6 * * *", "50 23 * * *"}

const (
	defaultLockTTL   = 5 * time.Minute
	enqueueTimeout   = 30 * time.Second
	scrapeAllJobName = "scrape-all"
)

// Scheduler fires the global fan-out on cron entries. Every firing takes a
// scheduler lock first so that only one of several running instances
// enqueues the task.
type Scheduler struct {
	cron    *cron.Cron
	engine  *Engine
	store   store.Store
	log     *slog.Logger
	holder  string
	lockTTL time.Duration

	entryIDs []cron.EntryID
}

// NewScheduler creates a Scheduler firing eng.EnqueueScrapeAll at each
// cron expression in loc.
func NewScheduler(
	eng *Engine,
	s store.Store,
	loc *time.Location,
	exprs []string,
	log *slog.Logger,
) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	sched := &Scheduler{
		cron:    c,
		engine:  eng,
		store:   s,
		log:     log,
		holder:  uuid.NewString(),
		lockTTL: defaultLockTTL,
	}

	for _, expr := range exprs {
		name := scrapeAllJobName + " " + expr
		id, err := c.AddFunc(expr, func() { sched.runScrapeAll(name) })
		if err != nil {
			return nil, fmt.Errorf("adding schedule %q: %w", expr, err)
		}
		sched.entryIDs = append(sched.entryIDs, id)
	}

	return sched, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started", "entries", len(s.entryIDs))
	s.cron.Start()
	s.SyncNextRunTimestamps()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// SyncNextRunTimestamps publishes the earliest upcoming firing.
func (s *Scheduler) SyncNextRunTimestamps() {
	var next time.Time
	for _, e := range s.cron.Entries() {
		if e.Next.IsZero() {
			continue
		}
		if next.IsZero() || e.Next.Before(next) {
			next = e.Next
		}
	}
	if !next.IsZero() {
		metrics.SchedulerNextRunTimestamp.Set(float64(next.Unix()))
	}
}

func (s *Scheduler) runScrapeAll(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), enqueueTimeout)
	defer cancel()
	defer s.SyncNextRunTimestamps()

	err := s.runJob(ctx, name, s.lockTTL, func(ctx context.Context) error {
		task, err := s.engine.EnqueueScrapeAll(ctx)
		if err != nil {
			return err
		}
		s.log.Info("scheduled scrape enqueued", "schedule", name, "task_id", task.TaskID)
		return nil
	})
	if err != nil {
		s.log.Error("scheduled scrape failed", "schedule", name, "error", err)
	}
}

// runJob runs fn while holding the named scheduler lock. A lock held by
// another instance skips the run. On success the lock is kept until its
// TTL expires so late-firing instances see the firing as taken; on failure
// it is released so another instance may try.
func (s *Scheduler) runJob(ctx context.Context, name string, ttl time.Duration, fn func(context.Context) error) error {
	acquired, err := s.store.AcquireSchedulerLock(ctx, name, s.holder, ttl)
	if err != nil {
		metrics.SchedulerRunsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("acquiring scheduler lock %q: %w", name, err)
	}
	if !acquired {
		metrics.SchedulerRunsTotal.WithLabelValues("skipped_locked").Inc()
		s.log.Info("schedule already taken by another instance", "schedule", name)
		return nil
	}

	if err := fn(ctx); err != nil {
		metrics.SchedulerRunsTotal.WithLabelValues("error").Inc()
		if rerr := s.store.ReleaseSchedulerLock(ctx, name, s.holder); rerr != nil {
			s.log.Warn("releasing scheduler lock", "schedule", name, "error", rerr)
		}
		return err
	}

	metrics.SchedulerRunsTotal.WithLabelValues("enqueued").Inc()
	return nil
}
