// Package ingest turns raw scraped product records into catalog rows:
// a Product, the StoreItem holding its current price in one store, and an
// append-only PriceHistory point, all written in one transaction.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/donaldgifford/fiscus-ingest/internal/metrics"
	"github.com/donaldgifford/fiscus-ingest/internal/store"
	"github.com/donaldgifford/fiscus-ingest/pkg/normalize"
	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

// ErrStoreNotFound is returned when the target store has no catalog row.
// It means the catalog and the scraper registry are out of sync and aborts
// the whole batch.
var ErrStoreNotFound = errors.New("store not found")

const minTitleRunes = 3

// Ingestion outcomes, used as the metrics label.
const (
	OutcomeStored        = "stored"
	OutcomeInvalid       = "invalid"
	OutcomeStoreNotFound = "store_not_found"
	OutcomeError         = "error"
)

// Validate checks a raw record against the ingestion schema. All field
// errors are joined so one log line explains every problem.
func Validate(raw domain.RawProduct, storeName string) error {
	var errs []error

	if n := utf8.RuneCountInString(strings.TrimSpace(raw.Name)); n < minTitleRunes {
		errs = append(errs, fmt.Errorf("title: %d characters, need at least %d", n, minTitleRunes))
	}
	if !raw.Price.IsPositive() {
		errs = append(errs, fmt.Errorf("price: %s is not positive", raw.Price))
	}
	if strings.TrimSpace(storeName) == "" {
		errs = append(errs, errors.New("store_name: required"))
	}
	if raw.ProductURL != "" && !isAbsoluteHTTP(raw.ProductURL) {
		errs = append(errs, fmt.Errorf("product_url: %q is not an absolute http(s) URL", raw.ProductURL))
	}

	return errors.Join(errs...)
}

func isAbsoluteHTTP(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// UnitPrice derives the price per 100 g/ml from the weight in a product
// name. It returns nil when the name carries no usable weight.
func UnitPrice(price decimal.Decimal, name string) *decimal.Decimal {
	w := normalize.ExtractWeight(name)
	if w == "" {
		return nil
	}
	per100, ok := normalize.CalculateUnitPrice(price, w)
	if !ok {
		return nil
	}
	return &per100
}

// Service persists raw product records.
type Service struct {
	store store.Store
	log   *slog.Logger
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock overrides the time source used for history timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service writing to st.
func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store: st,
		log:   slog.Default(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest validates raw and writes it for the store named storeName.
//
// An invalid record is logged and yields (nil, nil) so a single bad card
// never aborts a batch. A missing store yields ErrStoreNotFound. Otherwise
// the StoreItem is upserted and a PriceHistory point appended in the same
// transaction, even when the price has not changed.
func (s *Service) Ingest(ctx context.Context, raw domain.RawProduct, storeName string) (*domain.StoreItem, error) {
	start := time.Now()
	defer func() {
		metrics.IngestDuration.Observe(time.Since(start).Seconds())
	}()

	if err := Validate(raw, storeName); err != nil {
		metrics.IngestRecordsTotal.WithLabelValues(OutcomeInvalid).Inc()
		s.log.Info("skipping invalid record",
			"store", storeName,
			"name", raw.Name,
			"product_url", raw.ProductURL,
			"error", err,
		)
		return nil, nil
	}

	name := strings.TrimSpace(raw.Name)
	image := raw.ImageURL
	if image == "" {
		image = domain.PlaceholderImage
	}
	scrapedAt := s.now()

	item := &domain.StoreItem{
		Price:        raw.Price,
		PricePer100g: UnitPrice(raw.Price, name),
		URL:          raw.ProductURL,
		InStock:      raw.InStock,
	}

	err := s.store.InTx(ctx, func(tx store.CatalogTx) error {
		st, err := tx.GetStoreByName(ctx, storeName)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %q", ErrStoreNotFound, storeName)
		}
		if err != nil {
			return err
		}

		p, created, err := tx.GetOrCreateProduct(ctx, name, domain.ProductDefaults{
			NormalizedName: normalize.NormalizeProductName(name),
			ImageURL:       image,
		})
		if err != nil {
			return err
		}
		if !created && !p.HasImage() {
			if _, err := tx.BackfillProductImage(ctx, p.ID, image); err != nil {
				return err
			}
		}

		item.StoreID, item.ProductID = st.ID, p.ID
		if err := tx.UpsertStoreItem(ctx, item); err != nil {
			return err
		}

		return tx.AppendPriceHistory(ctx, &domain.PriceHistory{
			ProductID: p.ID,
			StoreID:   st.ID,
			StoreName: st.Name,
			Price:     item.Price,
			InStock:   item.InStock,
			ScrapedAt: scrapedAt,
		})
	})

	switch {
	case errors.Is(err, ErrStoreNotFound):
		metrics.IngestRecordsTotal.WithLabelValues(OutcomeStoreNotFound).Inc()
		s.log.Error("store missing from catalog", "store", storeName)
		return nil, err
	case err != nil:
		metrics.IngestRecordsTotal.WithLabelValues(OutcomeError).Inc()
		return nil, fmt.Errorf("ingesting %q for %q: %w", name, storeName, err)
	}

	metrics.IngestRecordsTotal.WithLabelValues(OutcomeStored).Inc()
	s.log.Debug("record stored",
		"store", storeName,
		"product_id", item.ProductID,
		"store_item_id", item.ID,
		"price", item.Price.StringFixed(2),
	)
	return item, nil
}

// Summary counts the outcomes of a batch.
type Summary struct {
	Stored  int `json:"stored"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Total returns the number of records seen.
func (s Summary) Total() int { return s.Stored + s.Skipped + s.Failed }

// IngestBatch ingests records in order. Invalid records are skipped and
// per-record write errors are counted; only ErrStoreNotFound and context
// cancellation stop the batch.
func (s *Service) IngestBatch(ctx context.Context, raws []domain.RawProduct, storeName string) (Summary, error) {
	var sum Summary
	for i := range raws {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		item, err := s.Ingest(ctx, raws[i], storeName)
		switch {
		case errors.Is(err, ErrStoreNotFound):
			return sum, err
		case err != nil:
			sum.Failed++
			s.log.Warn("record not stored", "store", storeName, "name", raws[i].Name, "error", err)
		case item == nil:
			sum.Skipped++
		default:
			sum.Stored++
		}
	}
	return sum, nil
}
