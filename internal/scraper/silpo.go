package scraper

import "time"

var silpoDomains = []string{"silpo.ua", "www.silpo.ua", "shop.silpo.ua"}

// NewSilpo returns the Silpo scraper. The site is a React app that renders
// the grid client side, so the wait is longer and the store is written to
// localStorage before a reload.
func NewSilpo(opts ...Option) Scraper {
	return newSite(siteConfig{
		chain:   "Silpo",
		baseURL: "https://silpo.ua",
		sel: selectors{
			Card:  ".products-list__item, .product-card, [data-test='product-card'], .product-list-item",
			Name:  ".product-card__title, [data-test='product-title'], .product-title",
			Price: ".product-card__price, .ft-product-price, [data-test='product-price'], .product-price__main",
		},
		wait:       15 * time.Second,
		scrolls:    5,
		scrollStep: 600,
		context:    localStorageContext{key: "activeStore"},
	}, opts)
}
