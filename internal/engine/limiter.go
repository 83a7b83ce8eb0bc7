package engine

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// DomainLimiter throttles navigations per retailer domain with one token
// bucket per host. Buckets are created lazily and never evicted; the set
// of retailer hosts is small and fixed.
type DomainLimiter struct {
	perSecond rate.Limit
	burst     int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewDomainLimiter allows perSecond navigations per domain with the given
// burst. A non-positive perSecond disables throttling.
func NewDomainLimiter(perSecond float64, burst int) *DomainLimiter {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	return &DomainLimiter{
		perSecond: limit,
		burst:     max(burst, 1),
		limiters:  make(map[string]*rate.Limiter),
	}
}

// Wait blocks until a navigation to rawURL's host is allowed, or ctx is
// done.
func (d *DomainLimiter) Wait(ctx context.Context, rawURL string) error {
	host := domainOf(rawURL)
	if err := d.limiter(host).Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", host, err)
	}
	return nil
}

func (d *DomainLimiter) limiter(host string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()

	l, ok := d.limiters[host]
	if !ok {
		l = rate.NewLimiter(d.perSecond, d.burst)
		d.limiters[host] = l
	}
	return l
}

// domainOf returns the lowercase host without a leading "www." so both
// spellings of a retailer share one bucket.
func domainOf(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return strings.ToLower(rawURL)
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
