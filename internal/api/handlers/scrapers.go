package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/fiscus-ingest/internal/scraper"
)

// ScraperCatalog describes the registered retailer scrapers.
type ScraperCatalog interface {
	Describe() []scraper.StoreInfo
	SupportedDomains() []string
}

// ScrapersHandler lists supported retailers.
type ScrapersHandler struct {
	registry ScraperCatalog
}

// NewScrapersHandler creates a new ScrapersHandler.
func NewScrapersHandler(r ScraperCatalog) *ScrapersHandler {
	return &ScrapersHandler{registry: r}
}

// ListScrapersOutput is the response body for the scrapers endpoint.
type ListScrapersOutput struct {
	Body struct {
		Stores  []scraper.StoreInfo `json:"stores"  doc:"Supported chains with their domains"`
		Domains []string            `json:"domains" doc:"Every domain a category URL may use"`
	}
}

// ListScrapers returns the supported chains and domains.
func (h *ScrapersHandler) ListScrapers(_ context.Context, _ *struct{}) (*ListScrapersOutput, error) {
	resp := &ListScrapersOutput{}
	resp.Body.Stores = h.registry.Describe()
	resp.Body.Domains = h.registry.SupportedDomains()
	if resp.Body.Stores == nil {
		resp.Body.Stores = []scraper.StoreInfo{}
	}
	if resp.Body.Domains == nil {
		resp.Body.Domains = []string{}
	}
	return resp, nil
}

// RegisterScraperRoutes registers the scrapers endpoint with the Huma API.
func RegisterScraperRoutes(api huma.API, h *ScrapersHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-scrapers",
		Method:      http.MethodGet,
		Path:        "/api/v1/scrapers",
		Summary:     "List supported retailers",
		Tags:        []string{"scrape"},
	}, h.ListScrapers)
}
