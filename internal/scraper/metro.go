package scraper

import "time"

var metroDomains = []string{"metro.zakaz.ua"}

// NewMetro returns the Metro scraper. Metro runs on the zakaz.ua platform,
// which keeps the selected store server side, so the only way in is the
// store-picker dialog.
func NewMetro(opts ...Option) Scraper {
	return newSite(siteConfig{
		chain:   "Metro",
		baseURL: "https://metro.zakaz.ua",
		sel: selectors{
			Card:  ".product-tile, .CatalogTile, [data-marker='product'], .product-card",
			Wait:  ".product-tile, .CatalogTile, .product-card",
			Name:  ".product-tile__title, .CatalogTile__title, .product-title, h3, h4",
			Price: ".product-tile__price, .Price, .product-price, [data-price]",
		},
		wait:       12 * time.Second,
		scrolls:    4,
		scrollStep: 600,
		context: pickerContext{
			open:    "[data-marker='Delivery Button'], .DeliveryButton, .address-button",
			search:  "[data-marker='Store search'] input, .StoreSearch input",
			option:  "[data-marker='Store'][data-id='{id}'], [data-store-id='{id}']",
			confirm: "[data-marker='Confirm store'], .StoreConfirm",
			timeout: 5 * time.Second,
		},
	}, opts)
}
