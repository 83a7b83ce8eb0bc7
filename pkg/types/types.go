// Package domain defines the core business types for the grocery price
// ingestion pipeline.
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PlaceholderImage is substituted when a product card has no usable image.
const PlaceholderImage = "https://placehold.co/400x400/1a1a2e/4ecca3?text=No+Image"

// Store is a physical retail location of a chain.
type Store struct {
	ID              int64     `json:"id"                  db:"id"`
	Name            string    `json:"name"                db:"name"`
	Chain           string    `json:"chain"               db:"chain"`
	Address         string    `json:"address"             db:"address"`
	ExternalStoreID string    `json:"external_store_id"   db:"external_store_id"`
	URLBase         string    `json:"url_base"            db:"url_base"`
	Latitude        *float64  `json:"latitude,omitempty"  db:"latitude"`
	Longitude       *float64  `json:"longitude,omitempty" db:"longitude"`
	Active          bool      `json:"active"              db:"active"`
	CreatedAt       time.Time `json:"created_at"          db:"created_at"`
}

// DisplayName returns "Chain (Address)", or the chain alone when the
// address is unknown.
func (s *Store) DisplayName() string {
	if s.Address == "" {
		return s.Chain
	}
	return fmt.Sprintf("%s (%s)", s.Chain, s.Address)
}

// Metadata returns the payload a scraper needs to select this location on
// the retailer's site.
func (s *Store) Metadata() StoreMetadata {
	return StoreMetadata{
		ExternalStoreID: s.ExternalStoreID,
		Chain:           s.Chain,
		Address:         s.Address,
		Latitude:        s.Latitude,
		Longitude:       s.Longitude,
	}
}

// StoreMetadata identifies the physical store a scrape must be pinned to.
type StoreMetadata struct {
	ExternalStoreID string   `json:"external_store_id"`
	Chain           string   `json:"chain"`
	Address         string   `json:"address,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
}

// Product is a canonical catalog entry.
type Product struct {
	ID             int64     `json:"id"                db:"id"`
	Name           string    `json:"name"              db:"name"`
	NormalizedName string    `json:"normalized_name"   db:"normalized_name"`
	Category       string    `json:"category"          db:"category"`
	ImageURL       string    `json:"image_url"         db:"image_url"`
	Barcode        *string   `json:"barcode,omitempty" db:"barcode"`
	CreatedAt      time.Time `json:"created_at"        db:"created_at"`
}

// HasImage reports whether the product carries a real image rather than
// nothing or the placeholder.
func (p *Product) HasImage() bool {
	return p.ImageURL != "" && p.ImageURL != PlaceholderImage
}

// ProductDefaults seeds a Product created during ingestion.
type ProductDefaults struct {
	NormalizedName string
	Category       string
	ImageURL       string
}

// StoreItem is the current price of one product in one store.
type StoreItem struct {
	ID           int64            `json:"id"                       db:"id"`
	StoreID      int64            `json:"store_id"                 db:"store_id"`
	ProductID    int64            `json:"product_id"               db:"product_id"`
	Price        decimal.Decimal  `json:"price"                    db:"price"`
	PricePer100g *decimal.Decimal `json:"price_per_100g,omitempty" db:"price_per_100g"`
	URL          string           `json:"url"                      db:"url"`
	InStock      bool             `json:"in_stock"                 db:"in_stock"`
	QualityScore *int             `json:"quality_score,omitempty"  db:"quality_score"`
	UpdatedAt    time.Time        `json:"updated_at"               db:"updated_at"`
}

// ScrapeTarget is a StoreItem joined with the context needed to re-scrape
// it: the owning store and the product's current name and image.
type ScrapeTarget struct {
	Item         StoreItem
	Store        Store
	ProductName  string
	ProductImage string
}

// PriceHistory is an immutable price observation.
type PriceHistory struct {
	ID        int64           `json:"id"         db:"id"`
	ProductID int64           `json:"product_id" db:"product_id"`
	StoreID   int64           `json:"store_id"   db:"store_id"`
	StoreName string          `json:"store_name" db:"store_name"`
	Price     decimal.Decimal `json:"price"      db:"price"`
	InStock   bool            `json:"in_stock"   db:"in_stock"`
	ScrapedAt time.Time       `json:"scraped_at" db:"scraped_at"`
}

// RawProduct is one scraped product card before validation. It is the
// contract between a scraper and the ingestion service.
type RawProduct struct {
	Chain           string          `json:"chain_name"`
	ExternalStoreID string          `json:"external_store_id"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	ImageURL        string          `json:"image_url"`
	ProductURL      string          `json:"product_url"`
	InStock         bool            `json:"in_stock"`
}

// PriceUpdate is the outcome of re-scraping a single StoreItem.
type PriceUpdate struct {
	StoreItemID  int64
	Price        decimal.Decimal
	PricePer100g *decimal.Decimal
	InStock      bool
	ImageURL     string
	ScrapedAt    time.Time
}

// PriceComparison is one row of a cross-store price comparison.
type PriceComparison struct {
	ProductID    int64            `json:"product_id"               db:"product_id"`
	ProductName  string           `json:"product_name"             db:"product_name"`
	StoreID      int64            `json:"store_id"                 db:"store_id"`
	StoreName    string           `json:"store_name"               db:"store_name"`
	Chain        string           `json:"chain"                    db:"chain"`
	Price        decimal.Decimal  `json:"price"                    db:"price"`
	PricePer100g *decimal.Decimal `json:"price_per_100g,omitempty" db:"price_per_100g"`
	InStock      bool             `json:"in_stock"                 db:"in_stock"`
	UpdatedAt    time.Time        `json:"updated_at"               db:"updated_at"`
}

// Promotion is a product whose latest observed price dropped against its
// recent maximum.
type Promotion struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	ImageURL    string          `json:"image_url"`
	StoreID     int64           `json:"store_id"`
	Price       decimal.Decimal `json:"price"`
	OldPrice    decimal.Decimal `json:"old_price"`
	DropPercent decimal.Decimal `json:"drop_percent"`
	ObservedAt  time.Time       `json:"observed_at"`
}
