// Package insights answers read-side questions over the catalog: where a
// product is cheapest and which products recently dropped in price.
package insights

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/donaldgifford/fiscus-ingest/internal/store"
	"github.com/donaldgifford/fiscus-ingest/pkg/normalize"
	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

// ErrEmptyQuery is returned when a comparison query normalizes to nothing.
var ErrEmptyQuery = errors.New("query is empty")

// Defaults for read-side queries.
const (
	DefaultCompareLimit    = 50
	DefaultPromotionLimit  = 20
	DefaultPromotionWindow = 30 * 24 * time.Hour
)

// DefaultMinDropPercent is the smallest drop reported as a promotion.
var DefaultMinDropPercent = decimal.NewFromInt(10)

// Service serves price comparisons and promotions.
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

// WithClock overrides the time source for promotion windows.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service reading from st.
func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{store: st, log: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "insights")
	return s
}

// Comparison is the answer to a price comparison query.
type Comparison struct {
	Query      string                   `json:"query"`
	Normalized string                   `json:"normalized"`
	Rows       []domain.PriceComparison `json:"rows"`
	// Best is the cheapest in-stock row, if any.
	Best *domain.PriceComparison `json:"best,omitempty"`
}

// ComparePrices returns current prices of every product matching query,
// cheapest first. The query goes through the same normalization as
// product names, so "Гречка 800г" and "гречка" match the same products.
func (s *Service) ComparePrices(ctx context.Context, query string, limit int) (*Comparison, error) {
	normalized := normalize.NormalizeProductName(query)
	if normalized == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = DefaultCompareLimit
	}

	rows, err := s.store.ComparePrices(ctx, normalized, limit)
	if err != nil {
		return nil, fmt.Errorf("comparing prices for %q: %w", normalized, err)
	}

	c := &Comparison{Query: strings.TrimSpace(query), Normalized: normalized, Rows: rows}
	for i := range rows {
		if rows[i].InStock {
			c.Best = &rows[i]
			break
		}
	}
	if c.Rows == nil {
		c.Rows = []domain.PriceComparison{}
	}
	return c, nil
}

// PromotionQuery selects promotions for one store.
type PromotionQuery struct {
	StoreID        int64
	Window         time.Duration
	MinDropPercent decimal.Decimal
	Limit          int
}

// Promotions returns products of a store whose latest price within the
// window is at least MinDropPercent below the window's maximum, biggest
// drops first.
func (s *Service) Promotions(ctx context.Context, q PromotionQuery) ([]domain.Promotion, error) {
	if q.Window <= 0 {
		q.Window = DefaultPromotionWindow
	}
	if !q.MinDropPercent.IsPositive() {
		q.MinDropPercent = DefaultMinDropPercent
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPromotionLimit
	}

	if _, err := s.store.GetStore(ctx, q.StoreID); err != nil {
		return nil, fmt.Errorf("loading store %d: %w", q.StoreID, err)
	}

	history, err := s.store.ListPriceHistory(ctx, q.StoreID, s.now().Add(-q.Window))
	if err != nil {
		return nil, fmt.Errorf("loading price history for store %d: %w", q.StoreID, err)
	}

	drops := DetectDrops(history, q.MinDropPercent)
	if len(drops) > q.Limit {
		drops = drops[:q.Limit]
	}
	if len(drops) == 0 {
		return []domain.Promotion{}, nil
	}

	ids := make([]int64, len(drops))
	for i, d := range drops {
		ids[i] = d.ProductID
	}
	products, err := s.store.ListProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading products: %w", err)
	}
	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]domain.Promotion, 0, len(drops))
	for _, d := range drops {
		p := byID[d.ProductID]
		d.ProductName = p.Name
		d.ImageURL = p.ImageURL
		out = append(out, d)
	}
	s.log.Debug("promotions computed", "store_id", q.StoreID, "count", len(out))
	return out, nil
}

var hundred = decimal.NewFromInt(100)

// DetectDrops finds, per product, the latest observation in history and
// compares it with the highest observed price. Products whose drop is at
// least minDropPercent are returned sorted by drop, largest first, then by
// product ID. history may be in any order.
func DetectDrops(history []domain.PriceHistory, minDropPercent decimal.Decimal) []domain.Promotion {
	type window struct {
		max    decimal.Decimal
		latest domain.PriceHistory
	}

	byProduct := make(map[int64]*window)
	for _, h := range history {
		w, ok := byProduct[h.ProductID]
		if !ok {
			byProduct[h.ProductID] = &window{max: h.Price, latest: h}
			continue
		}
		if h.Price.GreaterThan(w.max) {
			w.max = h.Price
		}
		if h.ScrapedAt.After(w.latest.ScrapedAt) ||
			(h.ScrapedAt.Equal(w.latest.ScrapedAt) && h.ID > w.latest.ID) {
			w.latest = h
		}
	}

	var out []domain.Promotion
	for id, w := range byProduct {
		if !w.max.IsPositive() || !w.latest.Price.LessThan(w.max) {
			continue
		}
		drop := w.max.Sub(w.latest.Price).Div(w.max).Mul(hundred).Round(1)
		if drop.LessThan(minDropPercent) {
			continue
		}
		out = append(out, domain.Promotion{
			ProductID:   id,
			StoreID:     w.latest.StoreID,
			Price:       w.latest.Price,
			OldPrice:    w.max,
			DropPercent: drop,
			ObservedAt:  w.latest.ScrapedAt,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if c := out[i].DropPercent.Cmp(out[j].DropPercent); c != 0 {
			return c > 0
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out
}
