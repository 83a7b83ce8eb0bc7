// Package scraper implements the per-retailer site scrapers and the registry
// that resolves a URL to the scraper responsible for its domain.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/donaldgifford/fiscus-ingest/internal/browser"
	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

// Failure categories returned by scraper invocations. Only ErrTimeout and
// ErrSession are worth retrying.
var (
	// ErrTimeout means the listing never rendered within its bound.
	ErrTimeout = errors.New("scraper: timeout")
	// ErrElementNotFound means the page markup no longer matches the
	// selectors.
	ErrElementNotFound = errors.New("scraper: element not found")
	// ErrSession means the browser or session failed.
	ErrSession = errors.New("scraper: session error")
	// ErrMalformed means a single card could not be parsed.
	ErrMalformed = errors.New("scraper: malformed card")
)

// IsRetryable reports whether err belongs to a category that a later
// attempt may resolve.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrSession) ||
		errors.Is(err, context.DeadlineExceeded)
}

// NoScraperForDomainError is returned by Registry.Resolve when no scraper
// is registered for a URL's host.
type NoScraperForDomainError struct {
	Domain string
	Known  []string
}

func (e *NoScraperForDomainError) Error() string {
	return fmt.Sprintf("no scraper registered for domain %q (known: %s)",
		e.Domain, strings.Join(e.Known, ", "))
}

// Scraper drives a browser session through a retailer's store selection and
// extracts product records. Implementations are stateless and safe for
// concurrent use; all per-scrape state lives in the session.
type Scraper interface {
	// Chain is the retailer name written to every record.
	Chain() string
	// BaseURL is the retailer's home page, used to absolutize links and as
	// the fallback when an item URL belongs to no registered domain.
	BaseURL() string
	// SetStoreContext pins the session to the physical store described by
	// meta. Callers treat an error as a warning and continue with whatever
	// store the site defaults to.
	SetStoreContext(ctx context.Context, sess browser.Session, meta domain.StoreMetadata) error
	// ScrapeCategory returns every in-stock product on a listing page.
	ScrapeCategory(ctx context.Context, sess browser.Session, url string, meta domain.StoreMetadata) ([]domain.RawProduct, error)
	// ScrapeProduct returns the product on a product page.
	ScrapeProduct(ctx context.Context, sess browser.Session, url string, meta domain.StoreMetadata) (*domain.RawProduct, error)
}

// classify maps a browser error onto the scraper taxonomy.
func classify(ctx context.Context, op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, browser.ErrWaitTimeout),
		errors.Is(err, context.DeadlineExceeded),
		ctx.Err() != nil:
		return fmt.Errorf("%s: %w: %w", op, ErrTimeout, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrSession, err)
	}
}
