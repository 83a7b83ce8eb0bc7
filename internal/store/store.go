// Package store defines the persistence abstraction for fiscus-ingest.
// Business logic depends on the Store interface, never on a concrete
// implementation. PostgresStore backs production; MemoryStore backs tests
// and dry runs.
package store

import (
	"context"
	"errors"
	"time"

	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

var (
	// ErrNotFound is returned when a looked-up row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrTaskNotTerminal is returned when deleting a task that has not completed.
	ErrTaskNotTerminal = errors.New("task has not completed")
)

// TaskQuery defines optional filters for task log listings.
type TaskQuery struct {
	Status  *domain.TaskStatus
	Kind    *domain.TaskKind
	StoreID *int64
	Limit   int // default 50
	Offset  int
}

// JobPayload carries the arguments of a queued job. Which fields are set
// depends on the job kind.
type JobPayload struct {
	StoreID   *int64 `json:"store_id,omitempty"`
	ItemID    *int64 `json:"item_id,omitempty"`
	URL       string `json:"url,omitempty"`
	StoreName string `json:"store_name,omitempty"`
}

// Job is one row of the scrape_jobs queue. Attempt is 1-based once the
// job has been claimed.
type Job struct {
	ID          string
	Kind        domain.TaskKind
	TaskID      string
	Payload     JobPayload
	RunAt       time.Time
	Attempt     int
	MaxAttempts int
	LastError   string
	CreatedAt   time.Time
}

// CatalogTx is the catalog surface available inside a transaction. All
// writes for one ingested record or one price update go through a single
// CatalogTx so they commit or roll back together.
type CatalogTx interface {
	GetStoreByName(ctx context.Context, name string) (*domain.Store, error)
	// GetOrCreateProduct finds a product by case-insensitive name or
	// creates it from defaults. created reports whether a row was inserted.
	GetOrCreateProduct(
		ctx context.Context,
		name string,
		defaults domain.ProductDefaults,
	) (p *domain.Product, created bool, err error)
	// UpsertStoreItem inserts or overwrites the item for (StoreID, ProductID)
	// and fills ID and UpdatedAt.
	UpsertStoreItem(ctx context.Context, item *domain.StoreItem) error
	AppendPriceHistory(ctx context.Context, h *domain.PriceHistory) error
	ApplyPriceUpdate(ctx context.Context, u domain.PriceUpdate) (*domain.StoreItem, error)
	// BackfillProductImage sets the product image only when the product has
	// none. It reports whether the image was written.
	BackfillProductImage(ctx context.Context, productID int64, imageURL string) (bool, error)
}

// Store defines all data access operations for fiscus-ingest.
type Store interface {
	// InTx runs fn in a single transaction, committing when fn returns nil.
	InTx(ctx context.Context, fn func(tx CatalogTx) error) error

	// Stores
	UpsertStore(ctx context.Context, s *domain.Store) error
	GetStore(ctx context.Context, id int64) (*domain.Store, error)
	GetStoreByName(ctx context.Context, name string) (*domain.Store, error)
	ListStores(ctx context.Context, activeOnly bool) ([]domain.Store, error)

	// Catalog reads
	GetScrapeTarget(ctx context.Context, itemID int64) (*domain.ScrapeTarget, error)
	ListScrapeTargets(ctx context.Context, storeID *int64) ([]domain.ScrapeTarget, error)
	ListProducts(ctx context.Context, ids []int64) ([]domain.Product, error)
	ComparePrices(ctx context.Context, normalizedQuery string, limit int) ([]domain.PriceComparison, error)
	ListPriceHistory(ctx context.Context, storeID int64, since time.Time) ([]domain.PriceHistory, error)

	// Task logs
	CreateOrGetTaskLog(ctx context.Context, t *domain.TaskLog) (*domain.TaskLog, error)
	GetTaskLog(ctx context.Context, taskID string) (*domain.TaskLog, error)
	ListTaskLogs(ctx context.Context, q *TaskQuery) ([]domain.TaskLog, int, error)
	UpdateTaskLog(ctx context.Context, taskID string, u domain.TaskLogUpdate) (*domain.TaskLog, error)
	DeleteTaskLog(ctx context.Context, taskID string) error

	// Job queue
	EnqueueJobs(ctx context.Context, jobs []Job) error
	ClaimJobs(ctx context.Context, workerID string, limit int, visibility time.Duration) ([]Job, error)
	CompleteJob(ctx context.Context, id string, errText string) error
	RetryJob(ctx context.Context, id string, runAt time.Time, errText string) error
	CountPendingJobs(ctx context.Context) (int, error)

	// Scheduler
	AcquireSchedulerLock(ctx context.Context, jobName string, holder string, ttl time.Duration) (bool, error)
	ReleaseSchedulerLock(ctx context.Context, jobName string, holder string) error

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}
