package scraper_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/fiscus-ingest/internal/browser"
	"github.com/donaldgifford/fiscus-ingest/internal/browser/browsertest"
	"github.com/donaldgifford/fiscus-ingest/internal/scraper"
	"github.com/donaldgifford/fiscus-ingest/pkg/logger"
	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

const (
	atbCategoryURL   = "https://www.atbmarket.com/catalog/285-bakaliia"
	silpoCategoryURL = "https://silpo.ua/category/molochni-produkty-ta-iaitsia-234"
)

var lvivMeta = domain.StoreMetadata{
	ExternalStoreID: "1154",
	Chain:           "ATB",
	Address:         "вул. Городоцька, 48",
}

func fixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func fastOpts() []scraper.Option {
	return []scraper.Option{
		scraper.WithLogger(logger.Discard()),
		scraper.WithScrollPause(0),
		scraper.WithSettleDelay(0),
	}
}

func TestATB_ScrapeCategory(t *testing.T) {
	t.Parallel()

	sess := browsertest.NewSession(map[string]string{atbCategoryURL: fixture(t, "atb_category.html")})
	atb := scraper.NewATB(fastOpts()...)

	records, err := atb.ScrapeCategory(context.Background(), sess, atbCategoryURL, lvivMeta)
	require.NoError(t, err)
	require.Len(t, records, 2, "the card without a price is dropped")

	first := records[0]
	assert.Equal(t, "ATB", first.Chain)
	assert.Equal(t, "1154", first.ExternalStoreID)
	assert.Equal(t, "Гречка Хуторок 800г", first.Name)
	assert.Equal(t, "38.90", first.Price.StringFixed(2))
	assert.Equal(t, "https://src.atbmarket.com/images/184123.jpg", first.ImageURL)
	assert.Equal(t, "https://www.atbmarket.com/product/grechka-khutorok-800g", first.ProductURL)
	assert.True(t, first.InStock)

	second := records[1]
	assert.Equal(t, "Цукор білий 1кг", second.Name)
	assert.Equal(t, "1032.50", second.Price.StringFixed(2))
	assert.Equal(t, domain.PlaceholderImage, second.ImageURL)
	assert.Equal(t, "https://www.atbmarket.com/product/tsukor-bilyi-1kg", second.ProductURL)
}

func TestATB_StoreContextUsesCookie(t *testing.T) {
	t.Parallel()

	sess := browsertest.NewSession(map[string]string{atbCategoryURL: fixture(t, "atb_category.html")})
	_, err := scraper.NewATB(fastOpts()...).ScrapeCategory(context.Background(), sess, atbCategoryURL, lvivMeta)
	require.NoError(t, err)

	assert.Equal(t, []browser.Cookie{{Name: "selectedStore", Value: "1154", Domain: "www.atbmarket.com"}}, sess.Cookies())

	calls := sess.Calls()
	require.GreaterOrEqual(t, len(calls), 4)
	assert.Equal(t, "navigate "+atbCategoryURL, calls[0])
	assert.Equal(t, "cookies", calls[1])
	assert.Equal(t, "reload", calls[2])
	assert.Contains(t, calls[3], "wait ")

	scrolls := 0
	for _, c := range calls {
		if c == "scroll 800" {
			scrolls++
		}
	}
	assert.Equal(t, 3, scrolls)
}

func TestSilpo_ScrapeCategory_SkipsOutOfStockAndMalformed(t *testing.T) {
	t.Parallel()

	sess := browsertest.NewSession(map[string]string{silpoCategoryURL: fixture(t, "silpo_category.html")})
	meta := domain.StoreMetadata{ExternalStoreID: "2043", Chain: "Silpo"}

	records, err := scraper.NewSilpo(fastOpts()...).ScrapeCategory(context.Background(), sess, silpoCategoryURL, meta)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "Молоко Галичина 2,5% 900мл", records[0].Name)
	assert.Equal(t, "42.90", records[0].Price.StringFixed(2), "crossed-out price is ignored")
	assert.Equal(t, "https://silpo.ua/product/moloko-halychyna-2-5-900ml-81234", records[0].ProductURL)

	scripts := sess.Scripts()
	require.Len(t, scripts, 1)
	assert.Contains(t, scripts[0], "localStorage.setItem")
	assert.Contains(t, scripts[0], "activeStore")
	assert.Contains(t, scripts[0], "2043")
	assert.Contains(t, sess.Calls(), "scroll 600")
}

func TestScrapeCategory_StoreContextFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	sess := browsertest.NewSession(map[string]string{atbCategoryURL: fixture(t, "atb_category.html")})
	sess.CookieErr = errors.New("cookie rejected")

	records, err := scraper.NewATB(fastOpts()...).ScrapeCategory(context.Background(), sess, atbCategoryURL, lvivMeta)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestScrapeCategory_MissingStoreIDFallsBackToDefault(t *testing.T) {
	t.Parallel()

	sess := browsertest.NewSession(map[string]string{atbCategoryURL: fixture(t, "atb_category.html")})

	records, err := scraper.NewATB(fastOpts()...).ScrapeCategory(context.Background(), sess, atbCategoryURL, domain.StoreMetadata{})
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Empty(t, sess.Cookies())
}

func TestScrapeCategory_ErrorTaxonomy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		setup     func(*browsertest.Session)
		page      string
		wantErr   error
		retryable bool
	}{
		{
			name:      "listing never renders",
			setup:     func(s *browsertest.Session) { s.WaitErr = browser.ErrWaitTimeout },
			page:      "<html></html>",
			wantErr:   scraper.ErrTimeout,
			retryable: true,
		},
		{
			name:      "navigation fails",
			setup:     func(s *browsertest.Session) { s.NavigateErr = errors.New("net::ERR_CONNECTION_RESET") },
			page:      "<html></html>",
			wantErr:   scraper.ErrSession,
			retryable: true,
		},
		{
			name:      "markup changed",
			setup:     func(*browsertest.Session) {},
			page:      `<html><body><div class="new-grid"><div class="tile">Гречка</div></div></body></html>`,
			wantErr:   scraper.ErrElementNotFound,
			retryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sess := browsertest.NewSession(map[string]string{atbCategoryURL: tt.page})
			tt.setup(sess)

			_, err := scraper.NewATB(fastOpts()...).ScrapeCategory(context.Background(), sess, atbCategoryURL, lvivMeta)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.retryable, scraper.IsRetryable(err))
		})
	}
}

func TestScrapeCategory_DeadlineIsTimeout(t *testing.T) {
	t.Parallel()

	sess := browsertest.NewSession(nil)
	sess.Block = make(chan struct{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := scraper.NewNovus(fastOpts()...).ScrapeCategory(ctx, sess, "https://novus.online/catalog", lvivMeta)
	require.ErrorIs(t, err, scraper.ErrTimeout)
	assert.True(t, scraper.IsRetryable(err))
}

func TestScrapeProduct(t *testing.T) {
	t.Parallel()

	productURL := "https://eko.com.ua/product/syr-zveny-hora-200g"
	page := `<html><body>
	  <div class="product-card">
	    <h3 class="product-card__name">Сир Звени Гора 50% 200г</h3>
	    <span class="product-card__price">79,90 грн</span>
	    <img src="https://eko.com.ua/img/p/77.jpg">
	  </div>
	</body></html>`
	sess := browsertest.NewSession(map[string]string{productURL: page})
	meta := domain.StoreMetadata{ExternalStoreID: "eko-17"}

	rec, err := scraper.NewEko(fastOpts()...).ScrapeProduct(context.Background(), sess, productURL, meta)
	require.NoError(t, err)
	assert.Equal(t, "Сир Звени Гора 50% 200г", rec.Name)
	assert.Equal(t, "79.90", rec.Price.StringFixed(2))
	assert.Equal(t, productURL, rec.ProductURL, "cards without links point at the page itself")
	assert.Equal(t, "eko-17", rec.ExternalStoreID)
}

func TestScrapeProduct_NoProducts(t *testing.T) {
	t.Parallel()

	productURL := "https://eko.com.ua/product/gone"
	page := `<html><body><div class="product-card is-disabled">
	  <h3 class="product-card__name">Сир</h3><span class="product-card__price">79,90</span>
	</div></body></html>`
	sess := browsertest.NewSession(map[string]string{productURL: page})

	_, err := scraper.NewEko(fastOpts()...).ScrapeProduct(context.Background(), sess, productURL, domain.StoreMetadata{})
	require.ErrorIs(t, err, scraper.ErrElementNotFound)
	assert.False(t, scraper.IsRetryable(err))
}

func TestMetro_StoreContextDrivesPicker(t *testing.T) {
	t.Parallel()

	sess := browsertest.NewSession(nil)
	meta := domain.StoreMetadata{ExternalStoreID: "48215296", Address: "Київ, просп. Степана Бандери, 11"}

	err := scraper.NewMetro(fastOpts()...).SetStoreContext(context.Background(), sess, meta)
	require.NoError(t, err)

	calls := sess.Calls()
	require.Len(t, calls, 5)
	assert.Contains(t, calls[0], "click [data-marker='Delivery Button']")
	assert.Contains(t, calls[1], "type ")
	assert.Contains(t, calls[1], meta.Address)
	assert.Contains(t, calls[2], "wait [data-marker='Store'][data-id='48215296']")
	assert.Contains(t, calls[3], "click [data-marker='Store'][data-id='48215296']")
	assert.Contains(t, calls[4], "click [data-marker='Confirm store']")
}

func TestMetro_StoreContextPickerFailure(t *testing.T) {
	t.Parallel()

	sess := browsertest.NewSession(nil)
	sess.ClickErr = errors.New("element not interactable")

	err := scraper.NewMetro(fastOpts()...).SetStoreContext(context.Background(), sess, domain.StoreMetadata{ExternalStoreID: "1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening store picker")
}
