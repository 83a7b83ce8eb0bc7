package scraper

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"
)

// Entry binds a set of domains to one scraper.
type Entry struct {
	Domains []string
	Scraper Scraper
}

// Registry maps lowercase domains to scrapers. It is built once and never
// mutated, so concurrent readers need no locking.
type Registry struct {
	byDomain map[string]Scraper
}

// NewRegistry builds a registry from entries in order. When two entries
// claim the same domain the later one wins.
func NewRegistry(entries ...Entry) *Registry {
	r := &Registry{byDomain: make(map[string]Scraper)}
	for _, e := range entries {
		for _, d := range e.Domains {
			d = strings.ToLower(strings.TrimSpace(d))
			if d == "" {
				continue
			}
			r.byDomain[d] = e.Scraper
		}
	}
	return r
}

// Default returns the registry of every retailer this service scrapes.
func Default(opts ...Option) *Registry {
	return NewRegistry(
		Entry{Domains: atbDomains, Scraper: NewATB(opts...)},
		Entry{Domains: silpoDomains, Scraper: NewSilpo(opts...)},
		Entry{Domains: novusDomains, Scraper: NewNovus(opts...)},
		Entry{Domains: metroDomains, Scraper: NewMetro(opts...)},
		Entry{Domains: ekoDomains, Scraper: NewEko(opts...)},
	)
}

// WithAliases returns a copy of r that also resolves each alias host to the
// scraper registered for its target domain.
func (r *Registry) WithAliases(aliases map[string]string) (*Registry, error) {
	out := &Registry{byDomain: maps.Clone(r.byDomain)}
	for alias, target := range aliases {
		s, err := r.Resolve(target)
		if err != nil {
			return nil, fmt.Errorf("aliasing %q: %w", alias, err)
		}
		host := hostOf(alias)
		if host == "" {
			return nil, fmt.Errorf("aliasing %q: empty host", alias)
		}
		out.byDomain[host] = s
	}
	return out, nil
}

// Resolve returns the scraper for rawURL's host. The lookup is
// case-insensitive and retries once with a leading "www." removed.
func (r *Registry) Resolve(rawURL string) (Scraper, error) {
	host := hostOf(rawURL)
	if s, ok := r.byDomain[host]; ok {
		return s, nil
	}
	if bare, ok := strings.CutPrefix(host, "www."); ok {
		if s, ok := r.byDomain[bare]; ok {
			return s, nil
		}
	}
	return nil, &NoScraperForDomainError{Domain: host, Known: r.SupportedDomains()}
}

// SupportedDomains returns every registered domain, sorted.
func (r *Registry) SupportedDomains() []string {
	domains := make([]string, 0, len(r.byDomain))
	for d := range r.byDomain {
		domains = append(domains, d)
	}
	slices.Sort(domains)
	return domains
}

// SupportedStores returns the distinct chain names, sorted.
func (r *Registry) SupportedStores() []string {
	seen := make(map[string]struct{})
	for _, s := range r.byDomain {
		seen[s.Chain()] = struct{}{}
	}
	stores := make([]string, 0, len(seen))
	for name := range seen {
		stores = append(stores, name)
	}
	slices.Sort(stores)
	return stores
}

// StoreInfo describes one registered chain for operator tooling.
type StoreInfo struct {
	Chain   string   `json:"chain"`
	BaseURL string   `json:"base_url"`
	Domains []string `json:"domains"`
}

// Describe groups the registered domains by chain.
func (r *Registry) Describe() []StoreInfo {
	byChain := make(map[string]*StoreInfo)
	for _, d := range r.SupportedDomains() {
		s := r.byDomain[d]
		info, ok := byChain[s.Chain()]
		if !ok {
			info = &StoreInfo{Chain: s.Chain(), BaseURL: s.BaseURL()}
			byChain[s.Chain()] = info
		}
		info.Domains = append(info.Domains, d)
	}

	out := make([]StoreInfo, 0, len(byChain))
	for _, name := range r.SupportedStores() {
		out = append(out, *byChain[name])
	}
	return out
}

func hostOf(rawURL string) string {
	raw := strings.TrimSpace(rawURL)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(rawURL)
	}
	return strings.ToLower(u.Hostname())
}

// String lists the registry contents, for logs.
func (r *Registry) String() string {
	return fmt.Sprintf("registry(%d domains, stores=%s)",
		len(r.byDomain), strings.Join(r.SupportedStores(), ","))
}
