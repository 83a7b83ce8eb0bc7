package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/fiscus-ingest/internal/browser/browsertest"
	"github.com/donaldgifford/fiscus-ingest/internal/ingest"
	"github.com/donaldgifford/fiscus-ingest/internal/scraper"
	scraperMocks "github.com/donaldgifford/fiscus-ingest/internal/scraper/mocks"
	"github.com/donaldgifford/fiscus-ingest/internal/store"
	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

const (
	testStoreName = "ATB-Lviv-1"
	atbBase       = "https://www.atbmarket.com"
)

// quietLogger returns a logger that discards output for tests.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// fixture bundles an engine wired to an in-memory catalog, a mocked ATB
// scraper and a fake browser.
type fixture struct {
	eng      *Engine
	store    *store.MemoryStore
	clock    *testClock
	scraper  *scraperMocks.MockScraper
	launcher *browsertest.Launcher
	atb      *domain.Store
}

func newFixture(t *testing.T, opts ...EngineOption) *fixture {
	t.Helper()

	clock := newTestClock()
	mem := store.NewMemoryStore()
	mem.SetClock(clock.Now)

	ms := scraperMocks.NewMockScraper(t)
	ms.EXPECT().Chain().Return("ATB").Maybe()

	reg := scraper.NewRegistry(scraper.Entry{
		Domains: []string{"atbmarket.com", "www.atbmarket.com"},
		Scraper: ms,
	})
	launcher := browsertest.NewLauncher(nil)
	svc := ingest.NewService(mem, ingest.WithLogger(quietLogger()), ingest.WithClock(clock.Now))

	base := []EngineOption{
		WithLogger(quietLogger()),
		WithClock(clock.Now),
	}
	eng := NewEngine(mem, reg, launcher, svc, append(base, opts...)...)

	return &fixture{
		eng:      eng,
		store:    mem,
		clock:    clock,
		scraper:  ms,
		launcher: launcher,
		atb:      seedStore(t, mem, testStoreName, atbBase),
	}
}

func seedStore(t *testing.T, m *store.MemoryStore, name, urlBase string) *domain.Store {
	t.Helper()
	s := &domain.Store{
		Name:            name,
		Chain:           "ATB",
		Address:         "вул. Городоцька, 48",
		ExternalStoreID: "1154",
		URLBase:         urlBase,
		Active:          true,
	}
	require.NoError(t, m.UpsertStore(context.Background(), s))
	return s
}

func seedItem(t *testing.T, m *store.MemoryStore, st *domain.Store, name, url, price string) domain.StoreItem {
	t.Helper()
	ctx := context.Background()
	item := domain.StoreItem{}
	require.NoError(t, m.InTx(ctx, func(tx store.CatalogTx) error {
		p, _, err := tx.GetOrCreateProduct(ctx, name, domain.ProductDefaults{
			NormalizedName: name,
			ImageURL:       domain.PlaceholderImage,
		})
		if err != nil {
			return err
		}
		item = domain.StoreItem{
			StoreID:   st.ID,
			ProductID: p.ID,
			Price:     decimal.RequireFromString(price),
			URL:       url,
			InStock:   true,
		}
		return tx.UpsertStoreItem(ctx, &item)
	}))
	return item
}

func seedItems(t *testing.T, m *store.MemoryStore, st *domain.Store, n int) []domain.StoreItem {
	t.Helper()
	items := make([]domain.StoreItem, 0, n)
	for i := range n {
		items = append(items, seedItem(t, m, st,
			fmt.Sprintf("%s product %d", st.Name, i),
			fmt.Sprintf("%s/product/%s/%d", atbBase, st.Name, i),
			"10.00"))
	}
	return items
}

func itemJobs(jobs []store.Job) []store.Job {
	var out []store.Job
	for _, j := range jobs {
		if j.Kind == domain.KindScrapeItem {
			out = append(out, j)
		}
	}
	return out
}

func taskLog(t *testing.T, m *store.MemoryStore, id string) *domain.TaskLog {
	t.Helper()
	got, err := m.GetTaskLog(context.Background(), id)
	require.NoError(t, err)
	return got
}

func TestNewEngine_Defaults(t *testing.T) {
	t.Parallel()

	eng := NewEngine(store.NewMemoryStore(), scraper.NewRegistry(), browsertest.NewLauncher(nil), nil)

	assert.Equal(t, 2*time.Second, eng.staggerOffset)
	assert.Equal(t, 10, eng.progressEvery)
	assert.Equal(t, 3, eng.maxAttempts)
	assert.Equal(t, 60*time.Second, eng.retryBase)
	assert.Equal(t, Limits{Soft: 120 * time.Second, Hard: 180 * time.Second}, eng.limitsFor(domain.KindScrapeItem))
	assert.Equal(t, Limits{Soft: 600 * time.Second, Hard: 660 * time.Second}, eng.limitsFor(domain.KindScrapeStore))
	assert.Equal(t, Limits{Soft: 600 * time.Second, Hard: 660 * time.Second}, eng.limitsFor(domain.KindScrapeCategory))
	assert.NotNil(t, eng.Tracker())
	assert.NotNil(t, eng.limiter)
}

func TestNewEngine_WithOptions(t *testing.T) {
	t.Parallel()

	eng := NewEngine(store.NewMemoryStore(), scraper.NewRegistry(), browsertest.NewLauncher(nil), nil,
		WithStaggerOffset(time.Second),
		WithProgressEvery(5),
		WithMaxAttempts(5),
		WithRetryBase(time.Second),
		WithItemLimits(Limits{Soft: time.Second, Hard: 2 * time.Second}),
		WithProgressEvery(0),
		WithMaxAttempts(-1),
	)

	assert.Equal(t, time.Second, eng.staggerOffset)
	assert.Equal(t, 5, eng.progressEvery, "non-positive values are ignored")
	assert.Equal(t, 5, eng.maxAttempts)
	assert.Equal(t, Limits{Soft: time.Second, Hard: 2 * time.Second}, eng.limitsFor(domain.KindScrapeItem))
}

func TestStaggerDelay_Monotonic(t *testing.T) {
	t.Parallel()

	prev := staggerDelay(0, 2*time.Second)
	assert.Zero(t, prev)
	for i := 1; i < 100; i++ {
		d := staggerDelay(i, 2*time.Second)
		assert.GreaterOrEqual(t, d, prev)
		assert.Equal(t, time.Duration(i)*2*time.Second, d)
		prev = d
	}
}

func TestRetryDelay_Doubles(t *testing.T) {
	t.Parallel()

	eng := NewEngine(store.NewMemoryStore(), scraper.NewRegistry(), browsertest.NewLauncher(nil), nil)
	assert.Equal(t, 60*time.Second, eng.retryDelay(1))
	assert.Equal(t, 120*time.Second, eng.retryDelay(2))
	assert.Equal(t, 240*time.Second, eng.retryDelay(3))
	assert.Equal(t, 60*time.Second, eng.retryDelay(0))
}

func TestScrapeStoreItem_UpdatesPriceImageAndHistory(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	url := atbBase + "/product/grechka"
	item := seedItem(t, f.store, f.atb, "Гречка Хуторок 800г", url, "38.90")

	f.scraper.EXPECT().
		ScrapeProduct(mock.Anything, mock.Anything, url, f.atb.Metadata()).
		Return(&domain.RawProduct{
			Chain:    "ATB",
			Name:     "Гречка Хуторок 800г",
			Price:    decimal.RequireFromString("36.50"),
			ImageURL: "https://src.atbmarket.com/images/184123.jpg",
			InStock:  false,
		}, nil).Once()

	res := f.eng.ScrapeStoreItem(ctx, item.ID)
	require.True(t, res.OK(), res.Error())
	assert.Contains(t, res.Message, "36.50 UAH")

	target, err := f.store.GetScrapeTarget(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "36.50", target.Item.Price.StringFixed(2))
	assert.False(t, target.Item.InStock)
	require.NotNil(t, target.Item.PricePer100g)
	assert.Equal(t, "4.56", target.Item.PricePer100g.StringFixed(2))
	assert.Equal(t, "https://src.atbmarket.com/images/184123.jpg", target.ProductImage)

	history := f.store.PriceHistory()
	require.Len(t, history, 1)
	assert.Equal(t, testStoreName, history[0].StoreName)
	assert.Equal(t, f.clock.Now(), history[0].ScrapedAt)

	assert.Equal(t, 1, f.launcher.Opened())
	assert.Zero(t, f.launcher.Leaked(), "the browser session is always released")
}

func TestScrapeStoreItem_KeepsExistingImage(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	url := atbBase + "/product/milk"
	item := seedItem(t, f.store, f.atb, "Молоко 2.5% 900мл", url, "42.00")
	require.NoError(t, f.store.InTx(ctx, func(tx store.CatalogTx) error {
		_, err := tx.BackfillProductImage(ctx, item.ProductID, "https://cdn.example/original.jpg")
		return err
	}))

	f.scraper.EXPECT().ScrapeProduct(mock.Anything, mock.Anything, url, mock.Anything).
		Return(&domain.RawProduct{Price: decimal.RequireFromString("41.00"), ImageURL: "https://cdn.example/new.jpg", InStock: true}, nil)

	require.True(t, f.eng.ScrapeStoreItem(ctx, item.ID).OK())

	target, err := f.store.GetScrapeTarget(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/original.jpg", target.ProductImage)
}

func TestScrapeStoreItem_FallsBackToStoreBaseURL(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	url := "https://cdn.elsewhere.example/p/1"
	item := seedItem(t, f.store, f.atb, "Хліб білий", url, "20.00")

	f.scraper.EXPECT().ScrapeProduct(mock.Anything, mock.Anything, url, mock.Anything).
		Return(&domain.RawProduct{Price: decimal.RequireFromString("21.00"), InStock: true}, nil).Once()

	res := f.eng.ScrapeStoreItem(ctx, item.ID)
	require.True(t, res.OK(), res.Error())
}

func TestScrapeStoreItem_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		scrapeErr   error
		launcherErr error
		wantOutcome Outcome
		wantReason  string
	}{
		{
			name:        "timeout is retryable",
			scrapeErr:   fmt.Errorf("wait for listing: %w", scraper.ErrTimeout),
			wantOutcome: OutcomeRetryable,
			wantReason:  "timeout",
		},
		{
			name:        "session failure is retryable",
			scrapeErr:   fmt.Errorf("navigate: %w", scraper.ErrSession),
			wantOutcome: OutcomeRetryable,
			wantReason:  "session",
		},
		{
			name:        "markup mismatch is fatal",
			scrapeErr:   fmt.Errorf("%w: no cards", scraper.ErrElementNotFound),
			wantOutcome: OutcomeFatal,
			wantReason:  "element_not_found",
		},
		{
			name:        "browser launch failure is retryable",
			launcherErr: errors.New("chrome crashed"),
			wantOutcome: OutcomeRetryable,
			wantReason:  "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			ctx := context.Background()

			url := atbBase + "/product/1"
			item := seedItem(t, f.store, f.atb, "Цукор 1кг", url, "32.00")
			f.launcher.Err = tt.launcherErr
			if tt.scrapeErr != nil {
				f.scraper.EXPECT().ScrapeProduct(mock.Anything, mock.Anything, url, mock.Anything).
					Return(nil, tt.scrapeErr).Once()
			}

			res := f.eng.ScrapeStoreItem(ctx, item.ID)
			assert.Equal(t, tt.wantOutcome, res.Outcome)
			assert.Equal(t, tt.wantReason, res.Reason)
			assert.Empty(t, f.store.PriceHistory(), "a failed scrape writes nothing")
			assert.Zero(t, f.launcher.Leaked())
		})
	}
}

func TestScrapeStoreItem_NoScraper(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	elsewhere := seedStore(t, f.store, "Local-Shop", "https://local.example")
	item := seedItem(t, f.store, elsewhere, "Яблука", "https://local.example/apples", "30.00")

	res := f.eng.ScrapeStoreItem(context.Background(), item.ID)
	assert.Equal(t, OutcomeFatal, res.Outcome)
	assert.Equal(t, "no_scraper", res.Reason)

	var noScraper *scraper.NoScraperForDomainError
	require.ErrorAs(t, res.Err, &noScraper)
	assert.Equal(t, "local.example", noScraper.Domain)
	assert.Zero(t, f.launcher.Opened())
}

func TestScrapeStoreItem_ItemNotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	res := f.eng.ScrapeStoreItem(context.Background(), 999)
	assert.Equal(t, OutcomeFatal, res.Outcome)
	require.ErrorIs(t, res.Err, store.ErrNotFound)
}

func TestScrapeStoreItem_NoURL(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	item := seedItem(t, f.store, f.atb, "Без посилання", "", "10.00")
	res := f.eng.ScrapeStoreItem(context.Background(), item.ID)
	assert.Equal(t, OutcomeFatal, res.Outcome)
	assert.Equal(t, "no_url", res.Reason)
}

func TestEnqueueScrapeStore_CreatesPendingTaskAndJob(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	task, err := f.eng.EnqueueScrapeStore(context.Background(), f.atb.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskPending, task.Status)
	assert.Equal(t, domain.KindScrapeStore, task.Kind)
	assert.Contains(t, task.Name, "ATB")
	require.NotNil(t, task.StoreID)
	assert.Equal(t, f.atb.ID, *task.StoreID)

	jobs := f.store.PendingJobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, task.TaskID, jobs[0].TaskID)
	assert.Equal(t, f.atb.ID, *jobs[0].Payload.StoreID)
	assert.Equal(t, f.clock.Now(), jobs[0].RunAt)
}

func TestEnqueueScrapeStore_UnknownStore(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.eng.EnqueueScrapeStore(context.Background(), 404)
	require.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, f.store.PendingJobs())
}

func TestEnqueueScrapeItem(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	item := seedItem(t, f.store, f.atb, "Кефір 1%", atbBase+"/product/kefir", "30.00")
	task, err := f.eng.EnqueueScrapeItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.KindScrapeItem, task.Kind)
	assert.Contains(t, task.Name, "Кефір 1%")

	jobs := f.store.PendingJobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, item.ID, *jobs[0].Payload.ItemID)
	assert.Equal(t, 3, jobs[0].MaxAttempts)
}

func TestEnqueueScrapeCategory_Validates(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.eng.EnqueueScrapeCategory(ctx, "https://unknown.example/c/1", testStoreName)
	var noScraper *scraper.NoScraperForDomainError
	require.ErrorAs(t, err, &noScraper)

	_, err = f.eng.EnqueueScrapeCategory(ctx, atbBase+"/catalog/285", "Nowhere")
	require.ErrorIs(t, err, ingest.ErrStoreNotFound)

	task, err := f.eng.EnqueueScrapeCategory(ctx, atbBase+"/catalog/285", testStoreName)
	require.NoError(t, err)
	assert.Equal(t, domain.KindScrapeCategory, task.Kind)

	jobs := f.store.PendingJobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, atbBase+"/catalog/285", jobs[0].Payload.URL)
	assert.Equal(t, testStoreName, jobs[0].Payload.StoreName)
}

func TestScrapeStore_FansOutStaggeredItemJobs(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	items := seedItems(t, f.store, f.atb, 25)
	other := seedStore(t, f.store, "ATB-Lviv-2", atbBase)
	seedItems(t, f.store, other, 3)

	task, err := f.eng.EnqueueScrapeStore(ctx, f.atb.ID)
	require.NoError(t, err)

	res := f.eng.ScrapeStore(ctx, task.TaskID, f.atb.ID)
	require.True(t, res.OK(), res.Error())
	assert.Equal(t, "Successfully queued 25/25 items", res.Message)

	jobs := itemJobs(f.store.PendingJobs())
	require.Len(t, jobs, len(items))

	start := f.clock.Now()
	for i, j := range jobs {
		assert.Equal(t, task.TaskID, j.TaskID)
		assert.Equal(t, 3, j.MaxAttempts)
		assert.Equal(t, start.Add(time.Duration(i)*2*time.Second), j.RunAt)
		if i > 0 {
			assert.False(t, j.RunAt.Before(jobs[i-1].RunAt), "run_at never decreases")
		}
	}

	got := taskLog(t, f.store, task.TaskID)
	assert.Equal(t, domain.TaskCompleted, got.Status)
	assert.Equal(t, 25, got.ItemsTotal)
	assert.Equal(t, 25, got.ItemsProcessed)
	assert.Zero(t, got.ItemsFailed)
	assert.NotNil(t, got.StartedAt)
	assert.NotNil(t, got.CompletedAt)
}

func TestScrapeStore_NoItems(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	task, err := f.eng.EnqueueScrapeStore(ctx, f.atb.ID)
	require.NoError(t, err)

	res := f.eng.ScrapeStore(ctx, task.TaskID, f.atb.ID)
	require.True(t, res.OK())
	assert.Contains(t, res.Message, "No items to scrape")

	got := taskLog(t, f.store, task.TaskID)
	assert.Equal(t, domain.TaskCompleted, got.Status)
	assert.Zero(t, got.ItemsTotal)
}

func TestScrapeStore_StoreNotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	res := f.eng.ScrapeStore(context.Background(), "", 404)
	assert.Equal(t, OutcomeFatal, res.Outcome)
	require.ErrorIs(t, res.Err, store.ErrNotFound)
}

// cancellingStore cancels the task right after the first batch of item
// jobs is queued, as an operator would from the API.
type cancellingStore struct {
	*store.MemoryStore
	taskID string
	once   sync.Once
}

func (c *cancellingStore) EnqueueJobs(ctx context.Context, jobs []store.Job) error {
	if err := c.MemoryStore.EnqueueJobs(ctx, jobs); err != nil {
		return err
	}
	c.once.Do(func() {
		_, _ = c.UpdateTaskLog(ctx, c.taskID, domain.TaskLogUpdate{Status: domain.Ptr(domain.TaskCancelled)})
	})
	return nil
}

func TestScrapeStore_StopsWhenCancelled(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	seedItems(t, f.store, f.atb, 25)

	task, err := f.eng.Tracker().Create(ctx, &domain.TaskLog{
		TaskID: "cancel-me", Name: "Scrape ATB", Kind: domain.KindScrapeStore, StoreID: &f.atb.ID,
	})
	require.NoError(t, err)

	cs := &cancellingStore{MemoryStore: f.store, taskID: task.TaskID}
	eng := NewEngine(cs, f.eng.registry, f.launcher, nil, WithLogger(quietLogger()), WithClock(f.clock.Now))

	res := eng.ScrapeStore(ctx, task.TaskID, f.atb.ID)
	require.True(t, res.OK())
	assert.Equal(t, "cancelled", res.Reason)
	assert.Equal(t, "Cancelled after queuing 10/25 items", res.Message)

	assert.Len(t, itemJobs(f.store.PendingJobs()), 10, "no batch is queued after the cancel")
	assert.Equal(t, domain.TaskCancelled, taskLog(t, f.store, task.TaskID).Status)
}

func TestScrapeAll_FansOutEveryStore(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	seedItems(t, f.store, f.atb, 4)
	other := seedStore(t, f.store, "ATB-Lviv-2", atbBase)
	seedItems(t, f.store, other, 3)
	seedItem(t, f.store, other, "Без посилання", "", "5.00")

	task, err := f.eng.EnqueueScrapeAll(ctx)
	require.NoError(t, err)
	assert.Nil(t, task.StoreID)

	res := f.eng.ScrapeAll(ctx, task.TaskID)
	require.True(t, res.OK(), res.Error())

	assert.Len(t, itemJobs(f.store.PendingJobs()), 7, "items without a url are not scraped")
	got := taskLog(t, f.store, task.TaskID)
	assert.Equal(t, domain.TaskCompleted, got.Status)
	assert.Equal(t, 7, got.ItemsProcessed)
}

func TestScrapeCategory_EndToEnd(t *testing.T) {
	t.Parallel()

	const pageURL = atbBase + "/catalog/285-bakaliia"
	page, err := os.ReadFile(filepath.Join("..", "scraper", "testdata", "atb_category.html"))
	require.NoError(t, err)

	clock := newTestClock()
	mem := store.NewMemoryStore()
	mem.SetClock(clock.Now)
	st := seedStore(t, mem, testStoreName, atbBase)

	launcher := browsertest.NewLauncher(map[string]string{pageURL: string(page)})
	reg := scraper.NewRegistry(scraper.Entry{
		Domains: []string{"www.atbmarket.com"},
		Scraper: scraper.NewATB(
			scraper.WithLogger(quietLogger()),
			scraper.WithScrollPause(0),
			scraper.WithSettleDelay(0),
		),
	})
	svc := ingest.NewService(mem, ingest.WithLogger(quietLogger()), ingest.WithClock(clock.Now))
	eng := NewEngine(mem, reg, launcher, svc, WithLogger(quietLogger()), WithClock(clock.Now))
	ctx := context.Background()

	task, err := eng.EnqueueScrapeCategory(ctx, pageURL, testStoreName)
	require.NoError(t, err)

	res := eng.ScrapeCategory(ctx, task.TaskID, pageURL, testStoreName)
	require.True(t, res.OK(), res.Error())
	assert.Equal(t, "Ingested 2/2 products from "+pageURL, res.Message)

	items := mem.StoreItems()
	require.Len(t, items, 2)
	for _, it := range items {
		assert.Equal(t, st.ID, it.StoreID)
	}
	assert.Len(t, mem.PriceHistory(), 2)
	assert.Zero(t, launcher.Leaked())

	got := taskLog(t, mem, task.TaskID)
	assert.Equal(t, domain.TaskCompleted, got.Status)
	assert.Equal(t, 2, got.ItemsTotal)
	assert.Equal(t, 2, got.ItemsProcessed)
}

func TestScrapeCategory_StoreNotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	res := f.eng.ScrapeCategory(context.Background(), "", atbBase+"/catalog/1", "Nowhere")
	assert.Equal(t, OutcomeFatal, res.Outcome)
	assert.Equal(t, "store_not_found", res.Reason)
	assert.Zero(t, f.launcher.Opened())
}

func TestScrapeCategory_ScrapeFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	pageURL := atbBase + "/catalog/1"

	f.scraper.EXPECT().ScrapeCategory(mock.Anything, mock.Anything, pageURL, mock.Anything).
		Return(nil, fmt.Errorf("%w: no cards", scraper.ErrElementNotFound)).Once()

	res := f.eng.ScrapeCategory(context.Background(), "", pageURL, testStoreName)
	assert.Equal(t, OutcomeFatal, res.Outcome)
	assert.Zero(t, f.launcher.Leaked())
}
