package scraper

import "time"

var ekoDomains = []string{"eko.com.ua", "www.eko.com.ua"}

// NewEko returns the Eko Market scraper.
func NewEko(opts ...Option) Scraper {
	return newSite(siteConfig{
		chain:   "Eko",
		baseURL: "https://eko.com.ua",
		sel: selectors{
			Card:  ".product-card, .catalog-item, .product-item, [data-product]",
			Name:  ".product-card__name, .product-title, .catalog-item__title, h3, h4",
			Price: ".product-card__price, .product-price, .price, [data-price]",
		},
		wait:       10 * time.Second,
		scrolls:    3,
		scrollStep: 700,
		context:    localStorageContext{key: "activeStore"},
	}, opts)
}
