package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/donaldgifford/fiscus-ingest/internal/browser"
	"github.com/donaldgifford/fiscus-ingest/internal/metrics"
	"github.com/donaldgifford/fiscus-ingest/pkg/normalize"
	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

const (
	// unavailableCard matches card elements the retailers mark as sold out
	// or disabled.
	unavailableCard = ".out-of-stock, .not-available, .is-unavailable, .is-disabled, " +
		"[class*='out-of-stock'], [class*='unavailable'], [class*='disabled'], " +
		"[data-available='false'], [data-in-stock='false']"

	// unavailableMarker matches sold-out badges inside an otherwise normal
	// card. It is narrower than unavailableCard because cards routinely
	// contain disabled quantity buttons.
	unavailableMarker = ".out-of-stock, .not-available, .is-unavailable, " +
		"[class*='out-of-stock'], [data-available='false'], [data-in-stock='false']"

	// oldPriceSelector matches crossed-out prices nested in a price element.
	oldPriceSelector = "s, del, .old-price, .price-old, " +
		"[class*='old-price'], [class*='price-old'], [class*='oldPrice'], [class*='crossed']"
)

// Option configures the scrapers built by Default and the New* constructors.
type Option func(*options)

type options struct {
	logger      *slog.Logger
	scrollPause time.Duration
	settleDelay time.Duration
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithScrollPause sets the pause between scroll steps that lets lazy
// content load.
func WithScrollPause(d time.Duration) Option {
	return func(o *options) { o.scrollPause = d }
}

// WithSettleDelay sets the pause after a store-context reload.
func WithSettleDelay(d time.Duration) Option {
	return func(o *options) { o.settleDelay = d }
}

func newOptions(opts []Option) options {
	o := options{
		logger:      slog.Default(),
		scrollPause: 600 * time.Millisecond,
		settleDelay: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type selectors struct {
	Card string
	// Wait is the selector awaited before parsing. Empty means Card.
	Wait  string
	Name  string
	Price string
}

// siteConfig is the static description of one retailer's catalog pages.
type siteConfig struct {
	chain      string
	baseURL    string
	sel        selectors
	wait       time.Duration
	scrolls    int
	scrollStep int
	context    storeContext
}

// site is the shared Scraper implementation. Retailers differ only in
// their siteConfig.
type site struct {
	siteConfig
	opts options
	log  *slog.Logger
}

func newSite(cfg siteConfig, opts []Option) *site {
	o := newOptions(opts)
	return &site{
		siteConfig: cfg,
		opts:       o,
		log:        o.logger.With("component", "scraper", "chain", cfg.chain),
	}
}

func (s *site) Chain() string   { return s.chain }
func (s *site) BaseURL() string { return s.baseURL }

func (s *site) SetStoreContext(ctx context.Context, sess browser.Session, meta domain.StoreMetadata) error {
	if s.context == nil {
		return nil
	}
	return s.context.apply(ctx, sess, s, meta)
}

func (s *site) ScrapeCategory(
	ctx context.Context,
	sess browser.Session,
	pageURL string,
	meta domain.StoreMetadata,
) ([]domain.RawProduct, error) {
	start := time.Now()
	defer func() {
		metrics.ScrapeDuration.WithLabelValues(s.chain).Observe(time.Since(start).Seconds())
	}()

	s.log.Info("loading category", "url", pageURL, "external_store_id", meta.ExternalStoreID)

	if err := sess.Navigate(ctx, pageURL); err != nil {
		return nil, classify(ctx, "navigate", err)
	}

	if err := s.SetStoreContext(ctx, sess, meta); err != nil {
		if ctx.Err() != nil {
			return nil, classify(ctx, "store context", ctx.Err())
		}
		metrics.StoreContextFailuresTotal.WithLabelValues(s.chain).Inc()
		s.log.Warn("store context not applied, continuing with site default",
			"external_store_id", meta.ExternalStoreID,
			"error", err,
		)
	}

	waitFor := s.sel.Wait
	if waitFor == "" {
		waitFor = s.sel.Card
	}
	if err := sess.WaitVisible(ctx, waitFor, s.wait); err != nil {
		return nil, classify(ctx, "wait for listing", err)
	}

	for range s.scrolls {
		if err := sess.Scroll(ctx, s.scrollStep); err != nil {
			s.log.Debug("scroll failed", "error", err)
			break
		}
		if err := sleep(ctx, s.opts.scrollPause); err != nil {
			return nil, classify(ctx, "scroll", err)
		}
	}

	html, err := sess.HTML(ctx)
	if err != nil {
		return nil, classify(ctx, "read document", err)
	}

	records, err := s.parse(html, pageURL, meta)
	if err != nil {
		return nil, err
	}

	s.log.Info("scraped category", "url", pageURL, "records", len(records))
	return records, nil
}

func (s *site) ScrapeProduct(
	ctx context.Context,
	sess browser.Session,
	pageURL string,
	meta domain.StoreMetadata,
) (*domain.RawProduct, error) {
	records, err := s.ScrapeCategory(ctx, sess, pageURL, meta)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no products found on %s", ErrElementNotFound, pageURL)
	}
	return &records[0], nil
}

// skipReason explains why a card produced no record.
type skipReason string

const (
	skipOutOfStock   skipReason = "out_of_stock"
	skipMissingName  skipReason = "missing_name"
	skipMissingPrice skipReason = "missing_price"
)

type cardError struct {
	reason skipReason
}

func (e *cardError) Error() string { return string(e.reason) }

func (e *cardError) Unwrap() error {
	if e.reason == skipOutOfStock {
		return nil
	}
	return ErrMalformed
}

// parse turns a rendered listing into raw records. A page with no cards at
// all is a structural failure; individual bad cards are dropped.
func (s *site) parse(html, pageURL string, meta domain.StoreMetadata) ([]domain.RawProduct, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w: %w", pageURL, ErrMalformed, err)
	}

	cards := doc.Find(s.sel.Card)
	if cards.Length() == 0 {
		return nil, fmt.Errorf("%w: no cards match %q on %s", ErrElementNotFound, s.sel.Card, pageURL)
	}

	records := make([]domain.RawProduct, 0, cards.Length())
	cards.Each(func(i int, card *goquery.Selection) {
		// Selector groups can match a card and one of its descendants.
		if card.ParentsFiltered(s.sel.Card).Length() > 0 {
			return
		}

		rec, err := s.parseCard(card, pageURL, meta)
		if err != nil {
			var ce *cardError
			if errors.As(err, &ce) {
				metrics.CardsSkippedTotal.WithLabelValues(s.chain, string(ce.reason)).Inc()
			}
			if errors.Is(err, ErrMalformed) {
				s.log.Warn("skipping card", "index", i, "reason", err, "url", pageURL)
			} else {
				s.log.Debug("skipping card", "index", i, "reason", err)
			}
			return
		}
		records = append(records, rec)
	})

	metrics.CardsParsedTotal.WithLabelValues(s.chain).Add(float64(len(records)))
	return records, nil
}

func (s *site) parseCard(card *goquery.Selection, pageURL string, meta domain.StoreMetadata) (domain.RawProduct, error) {
	if card.Is(unavailableCard) || card.Find(unavailableMarker).Length() > 0 {
		return domain.RawProduct{}, &cardError{reason: skipOutOfStock}
	}

	name := cardName(card, s.sel.Name)
	if name == "" {
		return domain.RawProduct{}, &cardError{reason: skipMissingName}
	}

	price, ok := normalize.CleanPrice(cardPriceText(card, s.sel.Price))
	if !ok {
		return domain.RawProduct{}, &cardError{reason: skipMissingPrice}
	}

	return domain.RawProduct{
		Chain:           s.chain,
		ExternalStoreID: meta.ExternalStoreID,
		Name:            name,
		Price:           price,
		ImageURL:        safeImage(card.Find("img").First(), s.baseURL),
		ProductURL:      cardLink(card, s.baseURL, pageURL),
		InStock:         true,
	}, nil
}

func cardName(card *goquery.Selection, sel string) string {
	if name := squash(card.Find(sel).First().Text()); name != "" {
		return name
	}
	if title, ok := card.Find("a[title]").First().Attr("title"); ok && squash(title) != "" {
		return squash(title)
	}
	return squash(card.AttrOr("title", ""))
}

func cardPriceText(card *goquery.Selection, sel string) string {
	el := card.Find(sel).First()
	if el.Length() == 0 {
		return card.AttrOr("data-price", "")
	}
	if v, ok := el.Attr("data-price"); ok && strings.TrimSpace(v) != "" {
		return v
	}
	clone := el.Clone()
	clone.Find(oldPriceSelector).Remove()
	return clone.Text()
}

func cardLink(card *goquery.Selection, base, pageURL string) string {
	href, ok := card.Attr("href")
	if !ok || !card.Is("a") {
		href, ok = card.Find("a[href]").First().Attr("href")
	}
	href = strings.TrimSpace(href)
	if !ok || href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return pageURL
	}
	if abs := absolutize(base, href); abs != "" {
		return abs
	}
	return pageURL
}

// safeImage picks the first usable image URL from src, data-src or
// data-lazy, falling back to the placeholder.
func safeImage(img *goquery.Selection, base string) string {
	if img.Length() == 0 {
		return domain.PlaceholderImage
	}
	for _, attr := range []string{"src", "data-src", "data-lazy"} {
		v := strings.TrimSpace(img.AttrOr(attr, ""))
		lower := strings.ToLower(v)
		switch {
		case v == "",
			strings.HasPrefix(lower, "data:"),
			strings.Contains(lower, "placeholder"),
			strings.Contains(lower, "no-photo"):
			continue
		case strings.HasPrefix(v, "//"):
			return "https:" + v
		case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
			return v
		case strings.HasPrefix(v, "/"):
			if abs := absolutize(base, v); abs != "" {
				return abs
			}
		}
	}
	return domain.PlaceholderImage
}

func absolutize(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return b.ResolveReference(ref).String()
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
