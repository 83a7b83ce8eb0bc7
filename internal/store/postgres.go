package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

const defaultPoolSize = 10

// querier is the subset of pgxpool.Pool and pgx.Tx the catalog helpers need.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// PoolOption tunes the pgxpool configuration.
type PoolOption func(*pgxpool.Config)

// WithMaxConns overrides the default pool size.
func WithMaxConns(n int32) PoolOption {
	return func(c *pgxpool.Config) {
		if n > 0 {
			c.MaxConns = n
		}
	}
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string, opts ...PoolOption) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize
	for _, opt := range opts {
		opt(cfg)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// InTx runs fn inside a single database transaction.
func (s *PostgresStore) InTx(ctx context.Context, fn func(tx CatalogTx) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(pgCatalog{q: tx})
	})
}

// UpsertStore inserts or updates a store by name.
func (s *PostgresStore) UpsertStore(ctx context.Context, st *domain.Store) error {
	args := pgx.NamedArgs{
		"name":              st.Name,
		"chain":             st.Chain,
		"address":           st.Address,
		"external_store_id": st.ExternalStoreID,
		"url_base":          st.URLBase,
		"latitude":          st.Latitude,
		"longitude":         st.Longitude,
		"active":            st.Active,
	}
	if err := s.pool.QueryRow(ctx, queryUpsertStore, args).Scan(&st.ID, &st.CreatedAt); err != nil {
		return fmt.Errorf("upserting store %q: %w", st.Name, err)
	}
	return nil
}

// GetStore retrieves a store by ID.
func (s *PostgresStore) GetStore(ctx context.Context, id int64) (*domain.Store, error) {
	st := &domain.Store{}
	if err := notFound(scanStore(s.pool.QueryRow(ctx, queryGetStore, id), st)); err != nil {
		return nil, fmt.Errorf("getting store %d: %w", id, err)
	}
	return st, nil
}

// GetStoreByName retrieves a store by its exact name.
func (s *PostgresStore) GetStoreByName(ctx context.Context, name string) (*domain.Store, error) {
	return pgCatalog{q: s.pool}.GetStoreByName(ctx, name)
}

// ListStores returns stores ordered by chain and name.
func (s *PostgresStore) ListStores(ctx context.Context, activeOnly bool) ([]domain.Store, error) {
	rows, err := s.pool.Query(ctx, queryListStores, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("querying stores: %w", err)
	}
	defer rows.Close()

	var stores []domain.Store
	for rows.Next() {
		var st domain.Store
		if err := scanStore(rows, &st); err != nil {
			return nil, fmt.Errorf("scanning store: %w", err)
		}
		stores = append(stores, st)
	}
	return stores, rows.Err()
}

// GetScrapeTarget loads a store item with its store and product context.
func (s *PostgresStore) GetScrapeTarget(ctx context.Context, itemID int64) (*domain.ScrapeTarget, error) {
	t := &domain.ScrapeTarget{}
	if err := notFound(scanScrapeTarget(s.pool.QueryRow(ctx, queryGetScrapeTarget, itemID), t)); err != nil {
		return nil, fmt.Errorf("getting store item %d: %w", itemID, err)
	}
	return t, nil
}

// ListScrapeTargets returns every store item with a URL, optionally limited
// to one store.
func (s *PostgresStore) ListScrapeTargets(ctx context.Context, storeID *int64) ([]domain.ScrapeTarget, error) {
	rows, err := s.pool.Query(ctx, queryListScrapeTargets, storeID)
	if err != nil {
		return nil, fmt.Errorf("querying scrape targets: %w", err)
	}
	defer rows.Close()

	var targets []domain.ScrapeTarget
	for rows.Next() {
		var t domain.ScrapeTarget
		if err := scanScrapeTarget(rows, &t); err != nil {
			return nil, fmt.Errorf("scanning scrape target: %w", err)
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

// ListProducts returns the products with the given IDs.
func (s *PostgresStore) ListProducts(ctx context.Context, ids []int64) ([]domain.Product, error) {
	rows, err := s.pool.Query(ctx, queryListProducts, ids)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.NormalizedName, &p.Category,
			&p.ImageURL, &p.Barcode, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ComparePrices returns current prices of products whose normalized name
// contains normalizedQuery, cheapest first.
func (s *PostgresStore) ComparePrices(
	ctx context.Context,
	normalizedQuery string,
	limit int,
) ([]domain.PriceComparison, error) {
	rows, err := s.pool.Query(ctx, queryComparePrices, normalizedQuery, normalizedLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying price comparison: %w", err)
	}
	defer rows.Close()

	var out []domain.PriceComparison
	for rows.Next() {
		var (
			c      domain.PriceComparison
			per100 decimal.NullDecimal
		)
		if err := rows.Scan(
			&c.ProductID, &c.ProductName, &c.StoreID, &c.StoreName, &c.Chain,
			&c.Price, &per100, &c.InStock, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning price comparison: %w", err)
		}
		c.PricePer100g = fromNullDecimal(per100)
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListPriceHistory returns a store's price history since the given time,
// grouped by product in chronological order.
func (s *PostgresStore) ListPriceHistory(
	ctx context.Context,
	storeID int64,
	since time.Time,
) ([]domain.PriceHistory, error) {
	rows, err := s.pool.Query(ctx, queryListPriceHistory, storeID, since)
	if err != nil {
		return nil, fmt.Errorf("querying price history: %w", err)
	}
	defer rows.Close()

	var history []domain.PriceHistory
	for rows.Next() {
		var h domain.PriceHistory
		if err := rows.Scan(
			&h.ID, &h.ProductID, &h.StoreID, &h.StoreName,
			&h.Price, &h.InStock, &h.ScrapedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning price history: %w", err)
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

// CreateOrGetTaskLog inserts t unless a task with the same ID exists, and
// returns the stored row either way.
func (s *PostgresStore) CreateOrGetTaskLog(ctx context.Context, t *domain.TaskLog) (*domain.TaskLog, error) {
	status := t.Status
	if status == "" {
		status = domain.TaskPending
	}
	args := pgx.NamedArgs{
		"task_id":     t.TaskID,
		"name":        t.Name,
		"kind":        string(t.Kind),
		"store_id":    t.StoreID,
		"status":      string(status),
		"items_total": t.ItemsTotal,
	}
	if _, err := s.pool.Exec(ctx, queryCreateTaskLog, args); err != nil {
		return nil, fmt.Errorf("creating task log %s: %w", t.TaskID, err)
	}
	return s.GetTaskLog(ctx, t.TaskID)
}

// GetTaskLog retrieves a task log by ID.
func (s *PostgresStore) GetTaskLog(ctx context.Context, taskID string) (*domain.TaskLog, error) {
	t := &domain.TaskLog{}
	if err := notFound(scanTaskLog(s.pool.QueryRow(ctx, queryGetTaskLog, taskID), t)); err != nil {
		return nil, fmt.Errorf("getting task %s: %w", taskID, err)
	}
	return t, nil
}

// ListTaskLogs queries task logs with optional filters, returning results
// and total count.
func (s *PostgresStore) ListTaskLogs(ctx context.Context, q *TaskQuery) ([]domain.TaskLog, int, error) {
	if q == nil {
		q = &TaskQuery{}
	}
	dataSQL, countSQL, args := q.ToSQL()

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting task logs: %w", err)
	}

	rows, err := s.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying task logs: %w", err)
	}
	defer rows.Close()

	var tasks []domain.TaskLog
	for rows.Next() {
		var t domain.TaskLog
		if err := scanTaskLog(rows, &t); err != nil {
			return nil, 0, fmt.Errorf("scanning task log: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, total, rows.Err()
}

// UpdateTaskLog applies u to the task under a row lock, so concurrent
// progress reports never move counters backwards.
func (s *PostgresStore) UpdateTaskLog(
	ctx context.Context,
	taskID string,
	u domain.TaskLogUpdate,
) (*domain.TaskLog, error) {
	t := &domain.TaskLog{}
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if err := notFound(scanTaskLog(tx.QueryRow(ctx, queryGetTaskLogForUpdate, taskID), t)); err != nil {
			return err
		}
		if err := t.Apply(u, time.Now()); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, queryUpdateTaskLog, pgx.NamedArgs{
			"task_id":         t.TaskID,
			"status":          string(t.Status),
			"items_total":     t.ItemsTotal,
			"items_processed": t.ItemsProcessed,
			"items_failed":    t.ItemsFailed,
			"message":         t.Message,
			"error_message":   t.ErrorMessage,
			"started_at":      t.StartedAt,
			"completed_at":    t.CompletedAt,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("updating task %s: %w", taskID, err)
	}
	return t, nil
}

// DeleteTaskLog removes a completed task log.
func (s *PostgresStore) DeleteTaskLog(ctx context.Context, taskID string) error {
	tag, err := s.pool.Exec(ctx, queryDeleteTaskLog, taskID)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", taskID, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := s.pool.QueryRow(ctx, queryTaskLogExists, taskID).Scan(&exists); err != nil {
		return fmt.Errorf("checking task %s: %w", taskID, err)
	}
	if exists {
		return fmt.Errorf("deleting task %s: %w", taskID, ErrTaskNotTerminal)
	}
	return fmt.Errorf("deleting task %s: %w", taskID, ErrNotFound)
}

// EnqueueJobs inserts jobs in one batch.
func (s *PostgresStore) EnqueueJobs(ctx context.Context, jobs []Job) error {
	if len(jobs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, j := range jobs {
		payload, err := json.Marshal(j.Payload)
		if err != nil {
			return fmt.Errorf("encoding job payload: %w", err)
		}
		maxAttempts := max(j.MaxAttempts, 1)
		batch.Queue(queryEnqueueJob, string(j.Kind), j.TaskID, payload, j.RunAt, maxAttempts)
	}

	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("enqueueing %d jobs: %w", len(jobs), err)
	}
	return nil
}

// ClaimJobs atomically claims up to limit due jobs for workerID. A claim
// older than visibility is treated as abandoned and may be claimed again.
func (s *PostgresStore) ClaimJobs(
	ctx context.Context,
	workerID string,
	limit int,
	visibility time.Duration,
) ([]Job, error) {
	rows, err := s.pool.Query(ctx, queryClaimJobs, workerID, limit, visibility.Seconds())
	if err != nil {
		return nil, fmt.Errorf("claiming jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var (
			j       Job
			kind    string
			payload []byte
		)
		if err := rows.Scan(
			&j.ID, &kind, &j.TaskID, &payload, &j.RunAt,
			&j.Attempt, &j.MaxAttempts, &j.LastError, &j.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		j.Kind = domain.TaskKind(kind)
		if err := json.Unmarshal(payload, &j.Payload); err != nil {
			return nil, fmt.Errorf("decoding job %s payload: %w", j.ID, err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// CompleteJob marks a job as finished. errText is kept for diagnostics.
func (s *PostgresStore) CompleteJob(ctx context.Context, id string, errText string) error {
	if _, err := s.pool.Exec(ctx, queryCompleteJob, id, errText); err != nil {
		return fmt.Errorf("completing job %s: %w", id, err)
	}
	return nil
}

// RetryJob releases a claimed job and schedules it for runAt.
func (s *PostgresStore) RetryJob(ctx context.Context, id string, runAt time.Time, errText string) error {
	if _, err := s.pool.Exec(ctx, queryRetryJob, id, runAt, errText); err != nil {
		return fmt.Errorf("rescheduling job %s: %w", id, err)
	}
	return nil
}

// CountPendingJobs returns the number of unfinished jobs.
func (s *PostgresStore) CountPendingJobs(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, queryCountPendingJobs).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting pending jobs: %w", err)
	}
	return n, nil
}

// AcquireSchedulerLock attempts to acquire a distributed lock for the given job.
// Returns true if the lock was acquired, false if another holder already owns it.
func (s *PostgresStore) AcquireSchedulerLock(
	ctx context.Context,
	jobName string,
	holder string,
	ttl time.Duration,
) (bool, error) {
	expiresAt := time.Now().Add(ttl)

	var gotName string
	err := s.pool.QueryRow(ctx, queryAcquireSchedulerLock, jobName, holder, expiresAt).Scan(&gotName)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil // lock held by another; conflict not replaced
	}
	if err != nil {
		return false, fmt.Errorf("acquiring scheduler lock: %w", err)
	}

	return true, nil
}

// ReleaseSchedulerLock deletes the lock row for the given job and holder.
func (s *PostgresStore) ReleaseSchedulerLock(
	ctx context.Context,
	jobName string,
	holder string,
) error {
	_, err := s.pool.Exec(ctx, queryReleaseSchedulerLock, jobName, holder)
	if err != nil {
		return fmt.Errorf("releasing scheduler lock: %w", err)
	}
	return nil
}

// pgCatalog implements CatalogTx over either the pool or a transaction.
type pgCatalog struct {
	q querier
}

func (c pgCatalog) GetStoreByName(ctx context.Context, name string) (*domain.Store, error) {
	st := &domain.Store{}
	if err := notFound(scanStore(c.q.QueryRow(ctx, queryGetStoreByName, name), st)); err != nil {
		return nil, fmt.Errorf("getting store %q: %w", name, err)
	}
	return st, nil
}

func (c pgCatalog) GetOrCreateProduct(
	ctx context.Context,
	name string,
	defaults domain.ProductDefaults,
) (*domain.Product, bool, error) {
	var (
		p       domain.Product
		created bool
	)
	err := c.q.QueryRow(ctx, queryGetOrCreateProduct, pgx.NamedArgs{
		"name":            name,
		"normalized_name": defaults.NormalizedName,
		"category":        defaults.Category,
		"image_url":       defaults.ImageURL,
	}).Scan(
		&p.ID, &p.Name, &p.NormalizedName, &p.Category,
		&p.ImageURL, &p.Barcode, &p.CreatedAt, &created,
	)
	if err != nil {
		return nil, false, fmt.Errorf("getting or creating product %q: %w", name, err)
	}
	return &p, created, nil
}

func (c pgCatalog) UpsertStoreItem(ctx context.Context, item *domain.StoreItem) error {
	args := pgx.NamedArgs{
		"store_id":       item.StoreID,
		"product_id":     item.ProductID,
		"price":          item.Price,
		"price_per_100g": toNullDecimal(item.PricePer100g),
		"url":            item.URL,
		"in_stock":       item.InStock,
	}
	err := c.q.QueryRow(ctx, queryUpsertStoreItem, args).Scan(
		&item.ID, &item.QualityScore, &item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting store item (%d, %d): %w", item.StoreID, item.ProductID, err)
	}
	return nil
}

func (c pgCatalog) AppendPriceHistory(ctx context.Context, h *domain.PriceHistory) error {
	if h.ScrapedAt.IsZero() {
		h.ScrapedAt = time.Now()
	}
	err := c.q.QueryRow(ctx, queryAppendPriceHistory,
		h.ProductID, h.StoreID, h.StoreName, h.Price, h.InStock, h.ScrapedAt,
	).Scan(&h.ID)
	if err != nil {
		return fmt.Errorf("appending price history: %w", err)
	}
	return nil
}

func (c pgCatalog) ApplyPriceUpdate(ctx context.Context, u domain.PriceUpdate) (*domain.StoreItem, error) {
	updatedAt := u.ScrapedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	item := &domain.StoreItem{}
	err := notFound(scanStoreItem(c.q.QueryRow(ctx, queryApplyPriceUpdate, pgx.NamedArgs{
		"id":             u.StoreItemID,
		"price":          u.Price,
		"price_per_100g": toNullDecimal(u.PricePer100g),
		"in_stock":       u.InStock,
		"updated_at":     updatedAt,
	}), item))
	if err != nil {
		return nil, fmt.Errorf("updating store item %d: %w", u.StoreItemID, err)
	}
	return item, nil
}

func (c pgCatalog) BackfillProductImage(ctx context.Context, productID int64, imageURL string) (bool, error) {
	if imageURL == "" || imageURL == domain.PlaceholderImage {
		return false, nil
	}
	tag, err := c.q.Exec(ctx, queryBackfillProductImage, productID, imageURL, domain.PlaceholderImage)
	if err != nil {
		return false, fmt.Errorf("backfilling image for product %d: %w", productID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// scannable abstracts pgx.Row and pgx.Rows for reuse.
type scannable interface {
	Scan(dest ...any) error
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func scanStore(row scannable, st *domain.Store) error {
	return row.Scan(
		&st.ID, &st.Name, &st.Chain, &st.Address, &st.ExternalStoreID, &st.URLBase,
		&st.Latitude, &st.Longitude, &st.Active, &st.CreatedAt,
	)
}

func scanStoreItem(row scannable, item *domain.StoreItem) error {
	var per100 decimal.NullDecimal
	if err := row.Scan(
		&item.ID, &item.StoreID, &item.ProductID, &item.Price, &per100, &item.URL,
		&item.InStock, &item.QualityScore, &item.UpdatedAt,
	); err != nil {
		return err
	}
	item.PricePer100g = fromNullDecimal(per100)
	return nil
}

func scanScrapeTarget(row scannable, t *domain.ScrapeTarget) error {
	var per100 decimal.NullDecimal
	it, st := &t.Item, &t.Store
	if err := row.Scan(
		&it.ID, &it.StoreID, &it.ProductID, &it.Price, &per100, &it.URL,
		&it.InStock, &it.QualityScore, &it.UpdatedAt,
		&st.ID, &st.Name, &st.Chain, &st.Address, &st.ExternalStoreID, &st.URLBase,
		&st.Latitude, &st.Longitude, &st.Active, &st.CreatedAt,
		&t.ProductName, &t.ProductImage,
	); err != nil {
		return err
	}
	it.PricePer100g = fromNullDecimal(per100)
	return nil
}

func scanTaskLog(row scannable, t *domain.TaskLog) error {
	var kind, status string
	if err := row.Scan(
		&t.TaskID, &t.Name, &kind, &t.StoreID, &status,
		&t.ItemsTotal, &t.ItemsProcessed, &t.ItemsFailed, &t.Message, &t.ErrorMessage,
		&t.CreatedAt, &t.StartedAt, &t.CompletedAt,
	); err != nil {
		return err
	}
	t.Kind = domain.TaskKind(kind)
	t.Status = domain.TaskStatus(status)
	return nil
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func fromNullDecimal(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}
