// Package engine orchestrates scraping work: it enqueues tasks, fans a
// store or the whole catalog out into staggered single-item jobs, runs
// those jobs under time limits with bounded retries, and keeps the task
// ledger current.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/fiscus-ingest/internal/browser"
	"github.com/donaldgifford/fiscus-ingest/internal/events"
	"github.com/donaldgifford/fiscus-ingest/internal/ingest"
	"github.com/donaldgifford/fiscus-ingest/internal/metrics"
	"github.com/donaldgifford/fiscus-ingest/internal/scraper"
	"github.com/donaldgifford/fiscus-ingest/internal/store"
	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

const (
	defaultStaggerOffset = 2 * time.Second
	defaultProgressEvery = 10
	defaultMaxAttempts   = 3
	defaultRetryBase     = 60 * time.Second
)

var tracer = otel.Tracer("github.com/donaldgifford/fiscus-ingest/internal/engine")

// Engine runs scraping tasks against the catalog store.
type Engine struct {
	store     store.Store
	registry  *scraper.Registry
	launcher  browser.Launcher
	ingest    *ingest.Service
	tracker   *TaskTracker
	limiter   *DomainLimiter
	publisher events.Publisher
	log       *slog.Logger
	now       func() time.Time

	staggerOffset  time.Duration
	progressEvery  int
	maxAttempts    int
	retryBase      time.Duration
	itemLimits     Limits
	fanoutLimits   Limits
	categoryLimits Limits
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(
	s store.Store,
	reg *scraper.Registry,
	l browser.Launcher,
	svc *ingest.Service,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		store:          s,
		registry:       reg,
		launcher:       l,
		ingest:         svc,
		log:            slog.Default(),
		now:            time.Now,
		staggerOffset:  defaultStaggerOffset,
		progressEvery:  defaultProgressEvery,
		maxAttempts:    defaultMaxAttempts,
		retryBase:      defaultRetryBase,
		itemLimits:     DefaultItemLimits,
		fanoutLimits:   DefaultFanoutLimits,
		categoryLimits: DefaultCategoryLimits,
	}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.limiter == nil {
		eng.limiter = NewDomainLimiter(0, 1)
	}
	eng.tracker = NewTaskTracker(s, eng.publisher, eng.log, eng.now)
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithClock overrides the time source for run_at, backoff and ledger
// timestamps.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// WithStaggerOffset sets the delay added per item when fanning out.
func WithStaggerOffset(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.staggerOffset = d
	}
}

// WithProgressEvery sets how many items are queued between ledger updates
// and cancellation checks.
func WithProgressEvery(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.progressEvery = n
		}
	}
}

// WithMaxAttempts sets the attempt ceiling for single-item jobs.
func WithMaxAttempts(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxAttempts = n
		}
	}
}

// WithRetryBase sets the first retry delay; each later attempt doubles it.
func WithRetryBase(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.retryBase = d
	}
}

// WithItemLimits sets the single-item time limits.
func WithItemLimits(l Limits) EngineOption {
	return func(e *Engine) {
		e.itemLimits = l
	}
}

// WithFanoutLimits sets the per-store and global fan-out time limits.
func WithFanoutLimits(l Limits) EngineOption {
	return func(e *Engine) {
		e.fanoutLimits = l
	}
}

// WithCategoryLimits sets the category-ingest time limits.
func WithCategoryLimits(l Limits) EngineOption {
	return func(e *Engine) {
		e.categoryLimits = l
	}
}

// WithPublisher sets where task events go.
func WithPublisher(p events.Publisher) EngineOption {
	return func(e *Engine) {
		e.publisher = p
	}
}

// WithLimiter sets the per-domain navigation throttle.
func WithLimiter(d *DomainLimiter) EngineOption {
	return func(e *Engine) {
		e.limiter = d
	}
}

// Tracker returns the task ledger writer.
func (eng *Engine) Tracker() *TaskTracker { return eng.tracker }

// Registry returns the scraper registry.
func (eng *Engine) Registry() *scraper.Registry { return eng.registry }

// limitsFor returns the time limits that apply to a job kind.
func (eng *Engine) limitsFor(kind domain.TaskKind) Limits {
	switch kind {
	case domain.KindScrapeItem:
		return eng.itemLimits
	case domain.KindScrapeCategory:
		return eng.categoryLimits
	default:
		return eng.fanoutLimits
	}
}

// retryDelay returns the backoff before attempt+1: base, 2*base, 4*base...
func (eng *Engine) retryDelay(attempt int) time.Duration {
	return eng.retryBase << max(attempt-1, 0)
}

// staggerDelay returns the run_at offset of the i-th (0-based) item of a
// fan-out. It grows monotonically with i.
func staggerDelay(i int, step time.Duration) time.Duration {
	return time.Duration(i) * step
}

// EnqueueScrapeItem records a pending task for one store item and queues
// it.
func (eng *Engine) EnqueueScrapeItem(ctx context.Context, itemID int64) (*domain.TaskLog, error) {
	target, err := eng.store.GetScrapeTarget(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("looking up store item %d: %w", itemID, err)
	}
	storeID := target.Store.ID
	return eng.enqueue(ctx, &domain.TaskLog{
		Name:    fmt.Sprintf("Scrape %s @ %s", target.ProductName, target.Store.DisplayName()),
		Kind:    domain.KindScrapeItem,
		StoreID: &storeID,
	}, store.JobPayload{ItemID: &itemID}, eng.maxAttempts)
}

// EnqueueScrapeStore records a pending task for every priced item of one
// store and queues the fan-out.
func (eng *Engine) EnqueueScrapeStore(ctx context.Context, storeID int64) (*domain.TaskLog, error) {
	st, err := eng.store.GetStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("looking up store %d: %w", storeID, err)
	}
	return eng.enqueue(ctx, &domain.TaskLog{
		Name:    "Scrape " + st.DisplayName(),
		Kind:    domain.KindScrapeStore,
		StoreID: &storeID,
	}, store.JobPayload{StoreID: &storeID}, 1)
}

// EnqueueScrapeAll records a pending task for the whole catalog and queues
// the fan-out.
func (eng *Engine) EnqueueScrapeAll(ctx context.Context) (*domain.TaskLog, error) {
	return eng.enqueue(ctx, &domain.TaskLog{
		Name: "Scrape all stores",
		Kind: domain.KindScrapeAll,
	}, store.JobPayload{}, 1)
}

// EnqueueScrapeCategory records a pending task that scrapes pageURL for
// the store named storeName and ingests the results. The URL must belong
// to a registered retailer and the store must exist.
func (eng *Engine) EnqueueScrapeCategory(ctx context.Context, pageURL, storeName string) (*domain.TaskLog, error) {
	if _, err := eng.registry.Resolve(pageURL); err != nil {
		return nil, err
	}
	st, err := eng.store.GetStoreByName(ctx, storeName)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %q", ingest.ErrStoreNotFound, storeName)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up store %q: %w", storeName, err)
	}
	storeID := st.ID
	return eng.enqueue(ctx, &domain.TaskLog{
		Name:    fmt.Sprintf("Ingest category %s @ %s", pageURL, st.Name),
		Kind:    domain.KindScrapeCategory,
		StoreID: &storeID,
	}, store.JobPayload{URL: pageURL, StoreName: storeName}, 1)
}

func (eng *Engine) enqueue(
	ctx context.Context,
	t *domain.TaskLog,
	payload store.JobPayload,
	maxAttempts int,
) (*domain.TaskLog, error) {
	t.TaskID = uuid.NewString()
	t.Status = domain.TaskPending

	created, err := eng.tracker.Create(ctx, t)
	if err != nil {
		return nil, err
	}

	job := store.Job{
		Kind:        t.Kind,
		TaskID:      created.TaskID,
		Payload:     payload,
		RunAt:       eng.now(),
		MaxAttempts: maxAttempts,
	}
	if err := eng.store.EnqueueJobs(ctx, []store.Job{job}); err != nil {
		if _, ferr := eng.tracker.Fail(ctx, created.TaskID, "enqueue failed: "+err.Error()); ferr != nil {
			eng.log.Warn("marking unqueued task failed", "task_id", created.TaskID, "error", ferr)
		}
		return nil, fmt.Errorf("enqueueing %s task: %w", t.Kind, err)
	}
	metrics.JobsEnqueuedTotal.WithLabelValues(string(t.Kind)).Inc()

	eng.log.Info("task enqueued", "task_id", created.TaskID, "kind", created.Kind, "name", created.Name)
	return created, nil
}

// ScrapeStoreItem re-scrapes one store item's product page and, on
// success, updates its price, recomputes the unit price, backfills a
// missing product image, and appends a history point in one transaction.
func (eng *Engine) ScrapeStoreItem(ctx context.Context, itemID int64) (res Result) {
	ctx, span := tracer.Start(ctx, "engine.ScrapeStoreItem",
		trace.WithAttributes(attribute.Int64("store_item.id", itemID)))
	defer func() { endSpan(span, res) }()

	log := eng.log.With("store_item_id", itemID)
	log.Info("starting item scrape")

	target, err := eng.store.GetScrapeTarget(ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Error("store item not found")
		}
		return classify(fmt.Errorf("loading store item %d: %w", itemID, err))
	}
	if target.Item.URL == "" {
		log.Warn("store item has no url")
		return Fatal("no_url", fmt.Errorf("store item %d has no url", itemID))
	}

	s, err := eng.resolveScraper(target)
	if err != nil {
		log.Warn("no scraper for store item, skipping",
			"store", target.Store.DisplayName(),
			"url", target.Item.URL,
			"error", err,
		)
		return classify(err)
	}
	span.SetAttributes(attribute.String("scraper.chain", s.Chain()))

	raw, err := eng.scrapeProduct(ctx, s, target)
	if err == nil && !raw.Price.IsPositive() {
		err = fmt.Errorf("%w: price %s for %s", scraper.ErrMalformed, raw.Price, target.Item.URL)
	}
	if err != nil {
		res = classify(err)
		eng.recordScrape(s.Chain(), res)
		log.Warn("scrape failed", "product", target.ProductName, "outcome", res.Outcome, "error", err)
		return res
	}

	update := domain.PriceUpdate{
		StoreItemID:  itemID,
		Price:        raw.Price,
		PricePer100g: ingest.UnitPrice(raw.Price, target.ProductName),
		InStock:      raw.InStock,
		ImageURL:     raw.ImageURL,
		ScrapedAt:    eng.now(),
	}

	err = eng.store.InTx(ctx, func(tx store.CatalogTx) error {
		item, err := tx.ApplyPriceUpdate(ctx, update)
		if err != nil {
			return err
		}

		if hasRealImage(raw.ImageURL) && !hasRealImage(target.ProductImage) {
			ok, err := tx.BackfillProductImage(ctx, item.ProductID, raw.ImageURL)
			if err != nil {
				return err
			}
			if ok {
				log.Info("updated image", "product", target.ProductName)
			}
		}

		return tx.AppendPriceHistory(ctx, &domain.PriceHistory{
			ProductID: item.ProductID,
			StoreID:   item.StoreID,
			StoreName: target.Store.Name,
			Price:     item.Price,
			InStock:   item.InStock,
			ScrapedAt: update.ScrapedAt,
		})
	})
	if err != nil {
		res = Retryable("store", fmt.Errorf("saving price for store item %d: %w", itemID, err))
		eng.recordScrape(s.Chain(), res)
		return res
	}

	msg := fmt.Sprintf("Updated %s @ %s: %s UAH",
		target.ProductName, target.Store.DisplayName(), update.Price.StringFixed(2))
	log.Info(msg)
	res = Success(msg)
	eng.recordScrape(s.Chain(), res)
	return res
}

// resolveScraper picks the scraper for the item URL, falling back to the
// owning store's base URL when the item's domain is not registered.
func (eng *Engine) resolveScraper(target *domain.ScrapeTarget) (scraper.Scraper, error) {
	s, err := eng.registry.Resolve(target.Item.URL)
	var noScraper *scraper.NoScraperForDomainError
	if errors.As(err, &noScraper) && target.Store.URLBase != "" {
		if fallback, ferr := eng.registry.Resolve(target.Store.URLBase); ferr == nil {
			eng.log.Debug("item domain unregistered, using store base url",
				"url", target.Item.URL,
				"url_base", target.Store.URLBase,
			)
			return fallback, nil
		}
	}
	return s, err
}

func (eng *Engine) scrapeProduct(
	ctx context.Context,
	s scraper.Scraper,
	target *domain.ScrapeTarget,
) (*domain.RawProduct, error) {
	if err := eng.limiter.Wait(ctx, target.Item.URL); err != nil {
		return nil, err
	}

	var raw *domain.RawProduct
	err := eng.withSession(ctx, func(sess browser.Session) error {
		var err error
		raw, err = s.ScrapeProduct(ctx, sess, target.Item.URL, target.Store.Metadata())
		return err
	})
	return raw, err
}

// withSession scopes one browser session to fn and tracks it in the open
// sessions gauge.
func (eng *Engine) withSession(ctx context.Context, fn func(browser.Session) error) error {
	return browser.WithSession(ctx, eng.launcher, func(sess browser.Session) error {
		metrics.BrowserSessionsOpen.Inc()
		defer metrics.BrowserSessionsOpen.Dec()
		return fn(sess)
	})
}

// ScrapeStore fans out one single-item job per priced item of a store.
func (eng *Engine) ScrapeStore(ctx context.Context, taskID string, storeID int64) (res Result) {
	ctx, span := tracer.Start(ctx, "engine.ScrapeStore",
		trace.WithAttributes(attribute.Int64("store.id", storeID), attribute.String("task.id", taskID)))
	defer func() { endSpan(span, res) }()

	st, err := eng.store.GetStore(ctx, storeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			eng.log.Error("store not found", "store_id", storeID, "task_id", taskID)
		}
		return classify(fmt.Errorf("loading store %d: %w", storeID, err))
	}

	targets, err := eng.store.ListScrapeTargets(ctx, &storeID)
	if err != nil {
		return Retryable("store", fmt.Errorf("listing items for store %d: %w", storeID, err))
	}
	return eng.fanOut(ctx, taskID, st.DisplayName(), targets)
}

// ScrapeAll fans out one single-item job per priced item in the catalog.
// It is the entry point of the periodic schedule and scrapes nothing
// itself.
func (eng *Engine) ScrapeAll(ctx context.Context, taskID string) (res Result) {
	ctx, span := tracer.Start(ctx, "engine.ScrapeAll",
		trace.WithAttributes(attribute.String("task.id", taskID)))
	defer func() { endSpan(span, res) }()

	targets, err := eng.store.ListScrapeTargets(ctx, nil)
	if err != nil {
		return Retryable("store", fmt.Errorf("listing items: %w", err))
	}
	return eng.fanOut(ctx, taskID, "all stores", targets)
}

// fanOut queues targets as single-item jobs staggered by staggerOffset.
// Every progressEvery items it writes progress and stops if the task has
// been cancelled; jobs already queued are skipped by the workers.
func (eng *Engine) fanOut(ctx context.Context, taskID, scope string, targets []domain.ScrapeTarget) Result {
	total := len(targets)
	log := eng.log.With("task_id", taskID, "scope", scope)

	if _, err := eng.tracker.Start(ctx, taskID, &total); err != nil {
		return eng.ledgerResult(ctx, taskID, 0, total, err)
	}

	if total == 0 {
		msg := "No items to scrape for " + scope
		log.Warn(msg)
		if _, err := eng.tracker.Complete(ctx, taskID, 0, 0, msg); err != nil {
			return eng.ledgerResult(ctx, taskID, 0, total, err)
		}
		return Success(msg)
	}

	log.Info("queuing item scrapes", "items", total)

	base := eng.now()
	queued, failed := 0, 0
	for start := 0; start < total; start += eng.progressEvery {
		if err := ctx.Err(); err != nil {
			return classify(err)
		}

		end := min(start+eng.progressEvery, total)
		jobs := make([]store.Job, 0, end-start)
		for i := start; i < end; i++ {
			itemID := targets[i].Item.ID
			jobs = append(jobs, store.Job{
				Kind:        domain.KindScrapeItem,
				TaskID:      taskID,
				Payload:     store.JobPayload{ItemID: &itemID},
				RunAt:       base.Add(staggerDelay(i, eng.staggerOffset)),
				MaxAttempts: eng.maxAttempts,
			})
		}

		if err := eng.store.EnqueueJobs(ctx, jobs); err != nil {
			failed += len(jobs)
			log.Error("failed to queue items", "from", start, "to", end, "error", err)
		} else {
			queued += len(jobs)
			metrics.JobsEnqueuedTotal.WithLabelValues(string(domain.KindScrapeItem)).Add(float64(len(jobs)))
		}

		if end == total {
			break
		}

		cancelled, err := eng.tracker.IsCancelled(ctx, taskID)
		if err != nil {
			log.Warn("checking cancellation", "error", err)
		}
		if cancelled {
			return cancelledResult(log, queued, total)
		}
		msg := fmt.Sprintf("Queued %d/%d items", queued, total)
		if _, err := eng.tracker.Progress(ctx, taskID, queued, failed, msg); err != nil {
			return eng.ledgerResult(ctx, taskID, queued, total, err)
		}
	}

	msg := fmt.Sprintf("Successfully queued %d/%d items", queued, total)
	if _, err := eng.tracker.Complete(ctx, taskID, queued, failed, msg); err != nil {
		return eng.ledgerResult(ctx, taskID, queued, total, err)
	}
	log.Info(msg)
	return Success(msg)
}

// ledgerResult turns a failed ledger write during a fan-out into a result.
// A task that became terminal underneath us was cancelled.
func (eng *Engine) ledgerResult(ctx context.Context, taskID string, queued, total int, err error) Result {
	if errors.Is(err, domain.ErrInvalidTransition) {
		if cancelled, _ := eng.tracker.IsCancelled(ctx, taskID); cancelled {
			return cancelledResult(eng.log.With("task_id", taskID), queued, total)
		}
		return Fatal("invalid_transition", err)
	}
	return classify(fmt.Errorf("updating task %s: %w", taskID, err))
}

func cancelledResult(log *slog.Logger, queued, total int) Result {
	msg := fmt.Sprintf("Cancelled after queuing %d/%d items", queued, total)
	log.Info(msg)
	return Result{Outcome: OutcomeSuccess, Reason: "cancelled", Message: msg}
}

// ScrapeCategory scrapes one listing page for the store named storeName
// and runs every record through ingestion. Invalid cards are skipped by
// ingestion and counted as failed items on the task.
func (eng *Engine) ScrapeCategory(ctx context.Context, taskID, pageURL, storeName string) (res Result) {
	ctx, span := tracer.Start(ctx, "engine.ScrapeCategory",
		trace.WithAttributes(
			attribute.String("category.url", pageURL),
			attribute.String("store.name", storeName),
			attribute.String("task.id", taskID),
		))
	defer func() { endSpan(span, res) }()

	log := eng.log.With("url", pageURL, "store", storeName, "task_id", taskID)
	log.Info("starting category scrape")

	s, err := eng.registry.Resolve(pageURL)
	if err != nil {
		log.Error("category scrape failed", "error", err)
		return classify(err)
	}

	st, err := eng.store.GetStoreByName(ctx, storeName)
	if errors.Is(err, store.ErrNotFound) {
		err = fmt.Errorf("%w: %q", ingest.ErrStoreNotFound, storeName)
	}
	if err != nil {
		log.Error("category scrape failed", "error", err)
		return classify(err)
	}

	if err := eng.limiter.Wait(ctx, pageURL); err != nil {
		return classify(err)
	}

	var records []domain.RawProduct
	err = eng.withSession(ctx, func(sess browser.Session) error {
		var err error
		records, err = s.ScrapeCategory(ctx, sess, pageURL, st.Metadata())
		return err
	})
	if err != nil {
		res = classify(err)
		eng.recordScrape(s.Chain(), res)
		log.Error("category scrape failed", "outcome", res.Outcome, "error", err)
		return res
	}

	total := len(records)
	if _, err := eng.tracker.Start(ctx, taskID, &total); err != nil {
		log.Warn("sizing task", "error", err)
	}

	sum, err := eng.ingest.IngestBatch(ctx, records, storeName)
	if err != nil {
		res = classify(err)
		eng.recordScrape(s.Chain(), res)
		return res
	}

	msg := fmt.Sprintf("Ingested %d/%d products from %s", sum.Stored, total, pageURL)
	if _, err := eng.tracker.Complete(ctx, taskID, sum.Stored, sum.Skipped+sum.Failed, msg); err != nil {
		log.Warn("completing task", "error", err)
	}
	log.Info(msg, "skipped", sum.Skipped, "failed", sum.Failed)

	res = Success(msg)
	eng.recordScrape(s.Chain(), res)
	return res
}

func (eng *Engine) recordScrape(chain string, res Result) {
	metrics.ScrapeResultsTotal.WithLabelValues(chain, string(res.Outcome)).Inc()
}

func hasRealImage(u string) bool {
	return u != "" && u != domain.PlaceholderImage
}

func endSpan(span trace.Span, res Result) {
	span.SetAttributes(attribute.String("result.outcome", string(res.Outcome)))
	if res.Reason != "" {
		span.SetAttributes(attribute.String("result.reason", res.Reason))
	}
	if !res.OK() {
		if res.Err != nil {
			span.RecordError(res.Err)
		}
		span.SetStatus(codes.Error, res.Error())
	}
	span.End()
}
