package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/fiscus-ingest/internal/store"
	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newMemory(t *testing.T) (*store.MemoryStore, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)}
	m := store.NewMemoryStore()
	m.SetClock(clock.now)
	return m, clock
}

func seedStore(t *testing.T, m *store.MemoryStore, name string) *domain.Store {
	t.Helper()
	s := &domain.Store{
		Name:            name,
		Chain:           "ATB",
		Address:         "Lviv, Shevchenka 1",
		ExternalStoreID: "1154",
		URLBase:         "https://www.atbmarket.com",
		Active:          true,
	}
	require.NoError(t, m.UpsertStore(context.Background(), s))
	return s
}

func TestMemoryStore_UpsertStoreByName(t *testing.T) {
	t.Parallel()
	m, _ := newMemory(t)
	ctx := context.Background()

	first := seedStore(t, m, "ATB-Lviv-1")
	again := &domain.Store{Name: "ATB-Lviv-1", Chain: "ATB", Address: "moved", Active: false}
	require.NoError(t, m.UpsertStore(ctx, again))

	assert.Equal(t, first.ID, again.ID)
	got, err := m.GetStore(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "moved", got.Address)

	active, err := m.ListStores(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := m.ListStores(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemoryStore_GetStore_NotFound(t *testing.T) {
	t.Parallel()
	m, _ := newMemory(t)

	_, err := m.GetStore(context.Background(), 42)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = m.GetStoreByName(context.Background(), "nope")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryStore_InTx_CommitsOnSuccess(t *testing.T) {
	t.Parallel()
	m, _ := newMemory(t)
	ctx := context.Background()
	s := seedStore(t, m, "ATB-Lviv-1")

	err := m.InTx(ctx, func(tx store.CatalogTx) error {
		p, created, err := tx.GetOrCreateProduct(ctx, "Молоко 2.5% 900г", domain.ProductDefaults{
			NormalizedName: "молоко 2 5",
		})
		require.NoError(t, err)
		assert.True(t, created)

		item := &domain.StoreItem{StoreID: s.ID, ProductID: p.ID, Price: decimal.RequireFromString("42.90"), InStock: true}
		if err := tx.UpsertStoreItem(ctx, item); err != nil {
			return err
		}
		return tx.AppendPriceHistory(ctx, &domain.PriceHistory{
			ProductID: p.ID, StoreID: s.ID, StoreName: s.Name, Price: item.Price, InStock: true,
		})
	})
	require.NoError(t, err)

	assert.Len(t, m.Products(), 1)
	assert.Len(t, m.StoreItems(), 1)
	assert.Len(t, m.PriceHistory(), 1)
}

func TestMemoryStore_InTx_RollsBackOnError(t *testing.T) {
	t.Parallel()
	m, _ := newMemory(t)
	ctx := context.Background()
	s := seedStore(t, m, "ATB-Lviv-1")
	boom := errors.New("boom")

	err := m.InTx(ctx, func(tx store.CatalogTx) error {
		p, _, err := tx.GetOrCreateProduct(ctx, "Цукор 1кг", domain.ProductDefaults{})
		require.NoError(t, err)
		require.NoError(t, tx.UpsertStoreItem(ctx, &domain.StoreItem{
			StoreID: s.ID, ProductID: p.ID, Price: decimal.RequireFromString("32.50"),
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.Empty(t, m.Products())
	assert.Empty(t, m.StoreItems())
	assert.Empty(t, m.PriceHistory())
}

func TestMemoryStore_GetOrCreateProduct_CaseInsensitive(t *testing.T) {
	t.Parallel()
	m, _ := newMemory(t)
	ctx := context.Background()

	var firstID int64
	require.NoError(t, m.InTx(ctx, func(tx store.CatalogTx) error {
		p, created, err := tx.GetOrCreateProduct(ctx, "Гречка 1кг", domain.ProductDefaults{})
		require.NoError(t, err)
		assert.True(t, created)
		firstID = p.ID

		p, created, err = tx.GetOrCreateProduct(ctx, "ГРЕЧКА 1КГ", domain.ProductDefaults{})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, firstID, p.ID)
		assert.Equal(t, "Гречка 1кг", p.Name)
		return nil
	}))
}

func TestMemoryStore_UpsertStoreItem_OneRowPerPair(t *testing.T) {
	t.Parallel()
	m, _ := newMemory(t)
	ctx := context.Background()
	s := seedStore(t, m, "ATB-Lviv-1")

	upsert := func(price string) int64 {
		var id int64
		require.NoError(t, m.InTx(ctx, func(tx store.CatalogTx) error {
			p, _, err := tx.GetOrCreateProduct(ctx, "Олія 1л", domain.ProductDefaults{})
			require.NoError(t, err)
			item := &domain.StoreItem{StoreID: s.ID, ProductID: p.ID, Price: decimal.RequireFromString(price)}
			require.NoError(t, tx.UpsertStoreItem(ctx, item))
			id = item.ID
			return nil
		}))
		return id
	}

	first := upsert("70.00")
	second := upsert("65.50")

	assert.Equal(t, first, second)
	items := m.StoreItems()
	require.Len(t, items, 1)
	assert.Equal(t, "65.5", items[0].Price.String())
}

func TestMemoryStore_UpsertStoreItem_RejectsNonPositivePrice(t *testing.T) {
	t.Parallel()
	m, _ := newMemory(t)
	ctx := context.Background()

	err := m.InTx(ctx, func(tx store.CatalogTx) error {
		return tx.UpsertStoreItem(ctx, &domain.StoreItem{StoreID: 1, ProductID: 1, Price: decimal.Zero})
	})
	require.Error(t, err)
	assert.Empty(t, m.StoreItems())
}

func TestMemoryStore_BackfillProductImage(t *testing.T) {
	t.Parallel()
	m, _ := newMemory(t)
	ctx := context.Background()

	require.NoError(t, m.InTx(ctx, func(tx store.CatalogTx) error {
		p, _, err := tx.GetOrCreateProduct(ctx, "Хліб", domain.ProductDefaults{ImageURL: domain.PlaceholderImage})
		require.NoError(t, err)

		ok, err := tx.BackfillProductImage(ctx, p.ID, domain.PlaceholderImage)
		require.NoError(t, err)
		assert.False(t, ok, "placeholder never backfills")

		ok, err = tx.BackfillProductImage(ctx, p.ID, "https://cdn.example/bread.jpg")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = tx.BackfillProductImage(ctx, p.ID, "https://cdn.example/other.jpg")
		require.NoError(t, err)
		assert.False(t, ok, "existing image is kept")
		return nil
	}))

	products := m.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "https://cdn.example/bread.jpg", products[0].ImageURL)
}

func TestMemoryStore_ScrapeTargetsAndCompare(t *testing.T) {
	t.Parallel()
	m, _ := newMemory(t)
	ctx := context.Background()
	lviv := seedStore(t, m, "ATB-Lviv-1")
	kyiv := seedStore(t, m, "ATB-Kyiv-1")

	add := func(s *domain.Store, name, norm, price, url string) {
		require.NoError(t, m.InTx(ctx, func(tx store.CatalogTx) error {
			p, _, err := tx.GetOrCreateProduct(ctx, name, domain.ProductDefaults{NormalizedName: norm})
			require.NoError(t, err)
			return tx.UpsertStoreItem(ctx, &domain.StoreItem{
				StoreID: s.ID, ProductID: p.ID, Price: decimal.RequireFromString(price), URL: url,
			})
		}))
	}
	add(lviv, "Молоко Яготинське", "молоко яготинське", "45.00", "https://www.atbmarket.com/product/1")
	add(kyiv, "Молоко Яготинське", "молоко яготинське", "41.00", "https://www.atbmarket.com/product/1")
	add(kyiv, "Кефір", "кефір", "30.00", "")

	all, err := m.ListScrapeTargets(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2, "items without a URL are not scrape targets")

	only, err := m.ListScrapeTargets(ctx, &kyiv.ID)
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, "Молоко Яготинське", only[0].ProductName)
	assert.Equal(t, "ATB-Kyiv-1", only[0].Store.Name)

	rows, err := m.ComparePrices(ctx, "молоко", 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ATB-Kyiv-1", rows[0].StoreName)
	assert.Equal(t, "ATB-Lviv-1", rows[1].StoreName)

	target, err := m.GetScrapeTarget(ctx, only[0].Item.ID)
	require.NoError(t, err)
	assert.Equal(t, kyiv.ID, target.Store.ID)

	_, err = m.GetScrapeTarget(ctx, 9999)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryStore_TaskLogLifecycle(t *testing.T) {
	t.Parallel()
	m, clock := newMemory(t)
	ctx := context.Background()

	created, err := m.CreateOrGetTaskLog(ctx, &domain.TaskLog{
		TaskID: "t-1", Name: "scrape store 1", Kind: domain.KindScrapeStore, ItemsTotal: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskPending, created.Status)

	again, err := m.CreateOrGetTaskLog(ctx, &domain.TaskLog{TaskID: "t-1", Name: "other"})
	require.NoError(t, err)
	assert.Equal(t, "scrape store 1", again.Name, "existing row is returned unchanged")

	clock.advance(time.Second)
	_, err = m.UpdateTaskLog(ctx, "t-1", domain.TaskLogUpdate{
		Status: domain.Ptr(domain.TaskProgress), ItemsProcessed: domain.Ptr(10),
	})
	require.NoError(t, err)

	got, err := m.UpdateTaskLog(ctx, "t-1", domain.TaskLogUpdate{ItemsProcessed: domain.Ptr(5)})
	require.NoError(t, err)
	assert.Equal(t, 10, got.ItemsProcessed, "counters never move backwards")

	err = m.DeleteTaskLog(ctx, "t-1")
	require.ErrorIs(t, err, store.ErrTaskNotTerminal)

	clock.advance(time.Second)
	done, err := m.UpdateTaskLog(ctx, "t-1", domain.TaskLogUpdate{
		Status: domain.Ptr(domain.TaskCompleted), ItemsProcessed: domain.Ptr(20),
	})
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, clock.t, *done.CompletedAt)

	_, err = m.UpdateTaskLog(ctx, "t-1", domain.TaskLogUpdate{Status: domain.Ptr(domain.TaskFailed)})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	require.NoError(t, m.DeleteTaskLog(ctx, "t-1"))
	_, err = m.GetTaskLog(ctx, "t-1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryStore_ListTaskLogs(t *testing.T) {
	t.Parallel()
	m, clock := newMemory(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, err := m.CreateOrGetTaskLog(ctx, &domain.TaskLog{TaskID: id, Kind: domain.KindScrapeItem})
		require.NoError(t, err)
		clock.advance(time.Minute)
	}
	_, err := m.UpdateTaskLog(ctx, "b", domain.TaskLogUpdate{Status: domain.Ptr(domain.TaskFailed)})
	require.NoError(t, err)

	tasks, total, err := m.ListTaskLogs(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, tasks, 3)
	assert.Equal(t, "c", tasks[0].TaskID, "newest first")

	failed, total, err := m.ListTaskLogs(ctx, &store.TaskQuery{Status: domain.Ptr(domain.TaskFailed)})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "b", failed[0].TaskID)

	page, total, err := m.ListTaskLogs(ctx, &store.TaskQuery{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, "b", page[0].TaskID)
}

func TestMemoryStore_JobQueue(t *testing.T) {
	t.Parallel()
	m, clock := newMemory(t)
	ctx := context.Background()
	itemID := int64(7)

	require.NoError(t, m.EnqueueJobs(ctx, []store.Job{
		{Kind: domain.KindScrapeItem, TaskID: "t", Payload: store.JobPayload{ItemID: &itemID}, RunAt: clock.t, MaxAttempts: 3},
		{Kind: domain.KindScrapeItem, TaskID: "t", RunAt: clock.t.Add(2 * time.Second), MaxAttempts: 3},
	}))

	n, err := m.CountPendingJobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	jobs, err := m.ClaimJobs(ctx, "w1", 10, time.Minute)
	require.NoError(t, err)
	require.Len(t, jobs, 1, "only due jobs are claimed")
	assert.Equal(t, 1, jobs[0].Attempt)
	assert.Equal(t, itemID, *jobs[0].Payload.ItemID)

	again, err := m.ClaimJobs(ctx, "w2", 10, time.Minute)
	require.NoError(t, err)
	assert.Empty(t, again, "claimed job is invisible until its claim expires")

	clock.advance(2 * time.Minute)
	reclaimed, err := m.ClaimJobs(ctx, "w2", 10, time.Minute)
	require.NoError(t, err)
	require.Len(t, reclaimed, 2)
	assert.Equal(t, jobs[0].ID, reclaimed[0].ID)
	assert.Equal(t, 2, reclaimed[0].Attempt)

	require.NoError(t, m.RetryJob(ctx, reclaimed[0].ID, clock.t.Add(time.Minute), "timeout"))
	require.NoError(t, m.CompleteJob(ctx, reclaimed[1].ID, ""))

	pending := m.PendingJobs()
	require.Len(t, pending, 1)
	assert.Equal(t, "timeout", pending[0].LastError)

	none, err := m.ClaimJobs(ctx, "w3", 10, time.Minute)
	require.NoError(t, err)
	assert.Empty(t, none, "retried job waits for its new run_at")
}

func TestMemoryStore_SchedulerLock(t *testing.T) {
	t.Parallel()
	m, clock := newMemory(t)
	ctx := context.Background()

	ok, err := m.AcquireSchedulerLock(ctx, "morning", "a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.AcquireSchedulerLock(ctx, "morning", "b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.ReleaseSchedulerLock(ctx, "morning", "b"))
	ok, err = m.AcquireSchedulerLock(ctx, "morning", "b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "only the holder can release")

	clock.advance(2 * time.Minute)
	ok, err = m.AcquireSchedulerLock(ctx, "morning", "b", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "expired lock can be taken over")
}

func TestMemoryStore_ListPriceHistory(t *testing.T) {
	t.Parallel()
	m, clock := newMemory(t)
	ctx := context.Background()
	s := seedStore(t, m, "ATB-Lviv-1")

	appendPoint := func(price string) {
		require.NoError(t, m.InTx(ctx, func(tx store.CatalogTx) error {
			p, _, err := tx.GetOrCreateProduct(ctx, "Сир", domain.ProductDefaults{})
			require.NoError(t, err)
			return tx.AppendPriceHistory(ctx, &domain.PriceHistory{
				ProductID: p.ID, StoreID: s.ID, StoreName: s.Name, Price: decimal.RequireFromString(price),
			})
		}))
		clock.advance(24 * time.Hour)
	}
	appendPoint("100")
	appendPoint("90")
	appendPoint("80")

	since := clock.t.Add(-48 * time.Hour)
	rows, err := m.ListPriceHistory(ctx, s.ID, since)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "90", rows[0].Price.String())
	assert.Equal(t, "80", rows[1].Price.String())
}
