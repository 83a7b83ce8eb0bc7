package scraper

import "time"

var atbDomains = []string{"atbmarket.com", "www.atbmarket.com"}

// NewATB returns the ATB Market scraper. Listings are server rendered with
// lazy-loaded images; the store is chosen with the selectedStore cookie.
func NewATB(opts ...Option) Scraper {
	return newSite(siteConfig{
		chain:   "ATB",
		baseURL: "https://www.atbmarket.com",
		sel: selectors{
			Card:  ".catalog-item, .product-catalog__item, .product-list__item, [data-product-id]",
			Name:  ".catalog-item__title, .product-catalog__title, .product-title, a[title]",
			Price: ".product-price__top, .catalog-item__price, .price, [data-price]",
		},
		wait:       10 * time.Second,
		scrolls:    3,
		scrollStep: 800,
		context:    cookieContext{name: "selectedStore"},
	}, opts)
}
