package scraper

import "time"

var novusDomains = []string{"novus.online", "www.novus.online"}

// NewNovus returns the Novus scraper.
func NewNovus(opts ...Option) Scraper {
	return newSite(siteConfig{
		chain:   "Novus",
		baseURL: "https://novus.online",
		sel: selectors{
			Card:  ".product-card, .catalog-product, .product-item, [data-product]",
			Name:  ".product-card__name, .product-title, .catalog-product__name",
			Price: ".product-card__price, .price, .product-price",
		},
		wait:       10 * time.Second,
		scrolls:    4,
		scrollStep: 700,
		context:    cookieContext{name: "storeId"},
	}, opts)
}
