package store

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

// MemoryStore is an in-process Store. Transactions run against a copy of
// the catalog that replaces the live state only when fn succeeds, so a
// failed InTx leaves nothing behind. All methods are safe for concurrent
// use; InTx callers are serialized.
type MemoryStore struct {
	mu      sync.Mutex
	now     func() time.Time
	catalog *memCatalog
	tasks   map[string]domain.TaskLog
	jobs    map[string]*memJob
	locks   map[string]memLock
}

type memCatalog struct {
	nextID   int64
	stores   map[int64]domain.Store
	products map[int64]domain.Product
	items    map[int64]domain.StoreItem
	history  []domain.PriceHistory
}

type memJob struct {
	Job
	claimedAt   time.Time
	claimedBy   string
	completedAt time.Time
}

type memLock struct {
	holder    string
	expiresAt time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now: time.Now,
		catalog: &memCatalog{
			stores:   make(map[int64]domain.Store),
			products: make(map[int64]domain.Product),
			items:    make(map[int64]domain.StoreItem),
		},
		tasks: make(map[string]domain.TaskLog),
		jobs:  make(map[string]*memJob),
		locks: make(map[string]memLock),
	}
}

// SetClock overrides the time source. Tests use it to make run_at and
// history windows deterministic.
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (c *memCatalog) clone() *memCatalog {
	return &memCatalog{
		nextID:   c.nextID,
		stores:   maps.Clone(c.stores),
		products: maps.Clone(c.products),
		items:    maps.Clone(c.items),
		history:  slices.Clone(c.history),
	}
}

func (c *memCatalog) id() int64 {
	c.nextID++
	return c.nextID
}

// Ping always succeeds.
func (m *MemoryStore) Ping(context.Context) error { return nil }

// Migrate is a no-op.
func (m *MemoryStore) Migrate(context.Context) error { return nil }

// InTx runs fn against a snapshot that is published only on success.
func (m *MemoryStore) InTx(ctx context.Context, fn func(tx CatalogTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := m.catalog.clone()
	if err := fn(&memTx{c: snapshot, now: m.now}); err != nil {
		return err
	}
	m.catalog = snapshot
	return nil
}

// UpsertStore inserts or updates a store by name.
func (m *MemoryStore) UpsertStore(_ context.Context, s *domain.Store) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, existing := range m.catalog.stores {
		if existing.Name == s.Name {
			s.ID, s.CreatedAt = id, existing.CreatedAt
			m.catalog.stores[id] = *s
			return nil
		}
	}
	s.ID = m.catalog.id()
	s.CreatedAt = m.now()
	m.catalog.stores[s.ID] = *s
	return nil
}

// GetStore retrieves a store by ID.
func (m *MemoryStore) GetStore(_ context.Context, id int64) (*domain.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.catalog.stores[id]
	if !ok {
		return nil, fmt.Errorf("getting store %d: %w", id, ErrNotFound)
	}
	return &s, nil
}

// GetStoreByName retrieves a store by its exact name.
func (m *MemoryStore) GetStoreByName(ctx context.Context, name string) (*domain.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memTx{c: m.catalog, now: m.now}).GetStoreByName(ctx, name)
}

// ListStores returns stores ordered by chain and name.
func (m *MemoryStore) ListStores(_ context.Context, activeOnly bool) ([]domain.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.Store
	for _, s := range m.catalog.stores {
		if activeOnly && !s.Active {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Chain != out[j].Chain {
			return out[i].Chain < out[j].Chain
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// GetScrapeTarget loads a store item with its store and product context.
func (m *MemoryStore) GetScrapeTarget(_ context.Context, itemID int64) (*domain.ScrapeTarget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.catalog.items[itemID]
	if !ok {
		return nil, fmt.Errorf("getting store item %d: %w", itemID, ErrNotFound)
	}
	t := m.catalog.target(item)
	return &t, nil
}

// ListScrapeTargets returns every store item with a URL, optionally limited
// to one store.
func (m *MemoryStore) ListScrapeTargets(_ context.Context, storeID *int64) ([]domain.ScrapeTarget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.ScrapeTarget
	for _, item := range m.catalog.items {
		if item.URL == "" || (storeID != nil && item.StoreID != *storeID) {
			continue
		}
		out = append(out, m.catalog.target(item))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Item.StoreID != out[j].Item.StoreID {
			return out[i].Item.StoreID < out[j].Item.StoreID
		}
		return out[i].Item.ID < out[j].Item.ID
	})
	return out, nil
}

func (c *memCatalog) target(item domain.StoreItem) domain.ScrapeTarget {
	p := c.products[item.ProductID]
	return domain.ScrapeTarget{
		Item:         item,
		Store:        c.stores[item.StoreID],
		ProductName:  p.Name,
		ProductImage: p.ImageURL,
	}
}

// ListProducts returns the products with the given IDs.
func (m *MemoryStore) ListProducts(_ context.Context, ids []int64) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.Product
	for _, id := range ids {
		if p, ok := m.catalog.products[id]; ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ComparePrices returns current prices of products whose normalized name
// contains normalizedQuery, cheapest first.
func (m *MemoryStore) ComparePrices(
	_ context.Context,
	normalizedQuery string,
	limit int,
) ([]domain.PriceComparison, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.PriceComparison
	for _, item := range m.catalog.items {
		p := m.catalog.products[item.ProductID]
		if !strings.Contains(p.NormalizedName, normalizedQuery) {
			continue
		}
		s := m.catalog.stores[item.StoreID]
		out = append(out, domain.PriceComparison{
			ProductID:    p.ID,
			ProductName:  p.Name,
			StoreID:      s.ID,
			StoreName:    s.Name,
			Chain:        s.Chain,
			Price:        item.Price,
			PricePer100g: item.PricePer100g,
			InStock:      item.InStock,
			UpdatedAt:    item.UpdatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Price.Cmp(out[j].Price); c != 0 {
			return c < 0
		}
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].StoreID < out[j].StoreID
	})
	return out[:min(len(out), normalizedLimit(limit))], nil
}

// ListPriceHistory returns a store's price history since the given time,
// grouped by product in chronological order.
func (m *MemoryStore) ListPriceHistory(
	_ context.Context,
	storeID int64,
	since time.Time,
) ([]domain.PriceHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.PriceHistory
	for _, h := range m.catalog.history {
		if h.StoreID == storeID && !h.ScrapedAt.Before(since) {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		if !out[i].ScrapedAt.Equal(out[j].ScrapedAt) {
			return out[i].ScrapedAt.Before(out[j].ScrapedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// CreateOrGetTaskLog inserts t unless a task with the same ID exists, and
// returns the stored row either way.
func (m *MemoryStore) CreateOrGetTaskLog(_ context.Context, t *domain.TaskLog) (*domain.TaskLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.tasks[t.TaskID]; ok {
		return &existing, nil
	}
	row := domain.TaskLog{
		TaskID:     t.TaskID,
		Name:       t.Name,
		Kind:       t.Kind,
		StoreID:    t.StoreID,
		Status:     t.Status,
		ItemsTotal: t.ItemsTotal,
		CreatedAt:  m.now(),
	}
	if row.Status == "" {
		row.Status = domain.TaskPending
	}
	m.tasks[row.TaskID] = row
	return &row, nil
}

// GetTaskLog retrieves a task log by ID.
func (m *MemoryStore) GetTaskLog(_ context.Context, taskID string) (*domain.TaskLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[taskID]
	if !ok {
		return nil, fmt.Errorf("getting task %s: %w", taskID, ErrNotFound)
	}
	return &t, nil
}

// ListTaskLogs returns task logs newest first with the total match count.
func (m *MemoryStore) ListTaskLogs(_ context.Context, q *TaskQuery) ([]domain.TaskLog, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if q == nil {
		q = &TaskQuery{}
	}
	var all []domain.TaskLog
	for _, t := range m.tasks {
		if q.Status != nil && t.Status != *q.Status {
			continue
		}
		if q.Kind != nil && t.Kind != *q.Kind {
			continue
		}
		if q.StoreID != nil && (t.StoreID == nil || *t.StoreID != *q.StoreID) {
			continue
		}
		all = append(all, t)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].TaskID < all[j].TaskID
	})

	total := len(all)
	start := min(max(q.Offset, 0), total)
	end := min(start+normalizedLimit(q.Limit), total)
	return all[start:end], total, nil
}

// UpdateTaskLog applies u to the stored task.
func (m *MemoryStore) UpdateTaskLog(
	_ context.Context,
	taskID string,
	u domain.TaskLogUpdate,
) (*domain.TaskLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[taskID]
	if !ok {
		return nil, fmt.Errorf("updating task %s: %w", taskID, ErrNotFound)
	}
	if err := t.Apply(u, m.now()); err != nil {
		return nil, fmt.Errorf("updating task %s: %w", taskID, err)
	}
	m.tasks[taskID] = t
	return &t, nil
}

// DeleteTaskLog removes a completed task log.
func (m *MemoryStore) DeleteTaskLog(_ context.Context, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[taskID]
	if !ok {
		return fmt.Errorf("deleting task %s: %w", taskID, ErrNotFound)
	}
	if t.Status != domain.TaskCompleted {
		return fmt.Errorf("deleting task %s: %w", taskID, ErrTaskNotTerminal)
	}
	delete(m.tasks, taskID)
	return nil
}

// EnqueueJobs adds jobs to the queue.
func (m *MemoryStore) EnqueueJobs(_ context.Context, jobs []Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, j := range jobs {
		j.ID = uuid.NewString()
		j.Attempt = 0
		j.MaxAttempts = max(j.MaxAttempts, 1)
		j.CreatedAt = m.now()
		m.jobs[j.ID] = &memJob{Job: j}
	}
	return nil
}

// ClaimJobs claims up to limit due jobs, oldest run_at first.
func (m *MemoryStore) ClaimJobs(
	_ context.Context,
	workerID string,
	limit int,
	visibility time.Duration,
) ([]Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var due []*memJob
	for _, j := range m.jobs {
		if !j.completedAt.IsZero() || j.RunAt.After(now) {
			continue
		}
		if !j.claimedAt.IsZero() && now.Sub(j.claimedAt) <= visibility {
			continue
		}
		due = append(due, j)
	}
	sort.Slice(due, func(i, k int) bool {
		if !due[i].RunAt.Equal(due[k].RunAt) {
			return due[i].RunAt.Before(due[k].RunAt)
		}
		return due[i].CreatedAt.Before(due[k].CreatedAt)
	})

	var out []Job
	for _, j := range due[:min(len(due), max(limit, 0))] {
		j.claimedAt, j.claimedBy = now, workerID
		j.Attempt++
		out = append(out, j.Job)
	}
	return out, nil
}

// CompleteJob marks a job as finished.
func (m *MemoryStore) CompleteJob(_ context.Context, id string, errText string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[id]
	if !ok {
		return fmt.Errorf("completing job %s: %w", id, ErrNotFound)
	}
	j.completedAt = m.now()
	j.LastError = errText
	return nil
}

// RetryJob releases a claimed job and schedules it for runAt.
func (m *MemoryStore) RetryJob(_ context.Context, id string, runAt time.Time, errText string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[id]
	if !ok {
		return fmt.Errorf("rescheduling job %s: %w", id, ErrNotFound)
	}
	j.RunAt = runAt
	j.claimedAt, j.claimedBy = time.Time{}, ""
	j.LastError = errText
	return nil
}

// CountPendingJobs returns the number of unfinished jobs.
func (m *MemoryStore) CountPendingJobs(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, j := range m.jobs {
		if j.completedAt.IsZero() {
			n++
		}
	}
	return n, nil
}

// PendingJobs returns unfinished jobs ordered by run_at. It is not part of
// Store; tests and dry runs use it to inspect the queue.
func (m *MemoryStore) PendingJobs() []Job {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Job
	for _, j := range m.jobs {
		if j.completedAt.IsZero() {
			out = append(out, j.Job)
		}
	}
	sort.Slice(out, func(i, k int) bool {
		if !out[i].RunAt.Equal(out[k].RunAt) {
			return out[i].RunAt.Before(out[k].RunAt)
		}
		return out[i].CreatedAt.Before(out[k].CreatedAt)
	})
	return out
}

// StoreItems returns a snapshot of every store item ordered by ID.
func (m *MemoryStore) StoreItems() []domain.StoreItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := slices.Collect(maps.Values(m.catalog.items))
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// PriceHistory returns a snapshot of all history rows in insertion order.
func (m *MemoryStore) PriceHistory() []domain.PriceHistory {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.catalog.history)
}

// Products returns a snapshot of every product ordered by ID.
func (m *MemoryStore) Products() []domain.Product {
	m.mu.Lock()
	defer m.mu.Unlock()

	products := slices.Collect(maps.Values(m.catalog.products))
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products
}

// AcquireSchedulerLock takes the named lock if it is free or expired.
func (m *MemoryStore) AcquireSchedulerLock(
	_ context.Context,
	jobName string,
	holder string,
	ttl time.Duration,
) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if l, ok := m.locks[jobName]; ok && l.expiresAt.After(now) {
		return false, nil
	}
	m.locks[jobName] = memLock{holder: holder, expiresAt: now.Add(ttl)}
	return true, nil
}

// ReleaseSchedulerLock drops the lock if holder owns it.
func (m *MemoryStore) ReleaseSchedulerLock(_ context.Context, jobName string, holder string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if l, ok := m.locks[jobName]; ok && l.holder == holder {
		delete(m.locks, jobName)
	}
	return nil
}

// memTx implements CatalogTx over a catalog snapshot.
type memTx struct {
	c   *memCatalog
	now func() time.Time
}

func (tx *memTx) GetStoreByName(_ context.Context, name string) (*domain.Store, error) {
	for _, s := range tx.c.stores {
		if s.Name == name {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("getting store %q: %w", name, ErrNotFound)
}

func (tx *memTx) GetOrCreateProduct(
	_ context.Context,
	name string,
	defaults domain.ProductDefaults,
) (*domain.Product, bool, error) {
	key := strings.ToLower(name)
	for _, p := range tx.c.products {
		if strings.ToLower(p.Name) == key {
			return &p, false, nil
		}
	}
	p := domain.Product{
		ID:             tx.c.id(),
		Name:           name,
		NormalizedName: defaults.NormalizedName,
		Category:       defaults.Category,
		ImageURL:       defaults.ImageURL,
		CreatedAt:      tx.now(),
	}
	tx.c.products[p.ID] = p
	return &p, true, nil
}

func (tx *memTx) UpsertStoreItem(_ context.Context, item *domain.StoreItem) error {
	if !item.Price.IsPositive() {
		return fmt.Errorf("upserting store item (%d, %d): price must be positive", item.StoreID, item.ProductID)
	}
	item.UpdatedAt = tx.now()
	for id, existing := range tx.c.items {
		if existing.StoreID == item.StoreID && existing.ProductID == item.ProductID {
			item.ID, item.QualityScore = id, existing.QualityScore
			tx.c.items[id] = *item
			return nil
		}
	}
	item.ID = tx.c.id()
	tx.c.items[item.ID] = *item
	return nil
}

func (tx *memTx) AppendPriceHistory(_ context.Context, h *domain.PriceHistory) error {
	if h.ScrapedAt.IsZero() {
		h.ScrapedAt = tx.now()
	}
	h.ID = tx.c.id()
	tx.c.history = append(tx.c.history, *h)
	return nil
}

func (tx *memTx) ApplyPriceUpdate(_ context.Context, u domain.PriceUpdate) (*domain.StoreItem, error) {
	item, ok := tx.c.items[u.StoreItemID]
	if !ok {
		return nil, fmt.Errorf("updating store item %d: %w", u.StoreItemID, ErrNotFound)
	}
	item.Price = u.Price
	item.PricePer100g = u.PricePer100g
	item.InStock = u.InStock
	item.UpdatedAt = u.ScrapedAt
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = tx.now()
	}
	tx.c.items[item.ID] = item
	return &item, nil
}

func (tx *memTx) BackfillProductImage(_ context.Context, productID int64, imageURL string) (bool, error) {
	if imageURL == "" || imageURL == domain.PlaceholderImage {
		return false, nil
	}
	p, ok := tx.c.products[productID]
	if !ok || p.HasImage() {
		return false, nil
	}
	p.ImageURL = imageURL
	tx.c.products[productID] = p
	return true, nil
}
