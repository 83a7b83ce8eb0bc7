package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/fiscus-ingest/internal/ingest"
	"github.com/donaldgifford/fiscus-ingest/internal/scraper"
	"github.com/donaldgifford/fiscus-ingest/internal/store"
	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

// Enqueuer records pending scrape tasks and queues their jobs.
type Enqueuer interface {
	EnqueueScrapeItem(ctx context.Context, itemID int64) (*domain.TaskLog, error)
	EnqueueScrapeStore(ctx context.Context, storeID int64) (*domain.TaskLog, error)
	EnqueueScrapeAll(ctx context.Context) (*domain.TaskLog, error)
	EnqueueScrapeCategory(ctx context.Context, pageURL, storeName string) (*domain.TaskLog, error)
}

// TriggerHandler handles manual scrape requests. Every trigger returns
// the pending task; the work itself runs on the workers.
type TriggerHandler struct {
	engine Enqueuer
}

// NewTriggerHandler creates a new TriggerHandler.
func NewTriggerHandler(e Enqueuer) *TriggerHandler {
	return &TriggerHandler{engine: e}
}

// ScrapeStoreInput is the request path for a per-store scrape.
type ScrapeStoreInput struct {
	StoreID int64 `path:"store_id" doc:"Store ID" minimum:"1"`
}

// ScrapeItemInput is the request path for a single-item scrape.
type ScrapeItemInput struct {
	ItemID int64 `path:"item_id" doc:"Store item ID" minimum:"1"`
}

// ScrapeCategoryInput is the request body for a category ingest.
type ScrapeCategoryInput struct {
	Body struct {
		URL       string `json:"url"        doc:"Category page URL of a supported retailer" format:"uri" minLength:"1" example:"https://www.atbmarket.com/catalog/285-bakaliia"`
		StoreName string `json:"store_name" doc:"Name of the store the products belong to"                 minLength:"1" example:"ATB-Lviv-1"`
	}
}

// ScrapeStore enqueues a re-scrape of every priced item of one store.
func (h *TriggerHandler) ScrapeStore(ctx context.Context, input *ScrapeStoreInput) (*TaskOutput, error) {
	t, err := h.engine.EnqueueScrapeStore(ctx, input.StoreID)
	if err != nil {
		return nil, enqueueError("store scrape", err)
	}
	return &TaskOutput{Body: t}, nil
}

// ScrapeAll enqueues a re-scrape of every priced item of every active
// store.
func (h *TriggerHandler) ScrapeAll(ctx context.Context, _ *struct{}) (*TaskOutput, error) {
	t, err := h.engine.EnqueueScrapeAll(ctx)
	if err != nil {
		return nil, enqueueError("global scrape", err)
	}
	return &TaskOutput{Body: t}, nil
}

// ScrapeItem enqueues a re-scrape of one store item.
func (h *TriggerHandler) ScrapeItem(ctx context.Context, input *ScrapeItemInput) (*TaskOutput, error) {
	t, err := h.engine.EnqueueScrapeItem(ctx, input.ItemID)
	if err != nil {
		return nil, enqueueError("item scrape", err)
	}
	return &TaskOutput{Body: t}, nil
}

// ScrapeCategory enqueues a scrape and ingest of one category page.
func (h *TriggerHandler) ScrapeCategory(ctx context.Context, input *ScrapeCategoryInput) (*TaskOutput, error) {
	t, err := h.engine.EnqueueScrapeCategory(ctx, input.Body.URL, input.Body.StoreName)
	if err != nil {
		return nil, enqueueError("category scrape", err)
	}
	return &TaskOutput{Body: t}, nil
}

func enqueueError(what string, err error) error {
	var noScraper *scraper.NoScraperForDomainError
	switch {
	case errors.As(err, &noScraper):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, store.ErrNotFound), errors.Is(err, ingest.ErrStoreNotFound):
		return huma.Error404NotFound(err.Error())
	default:
		return huma.Error500InternalServerError(what + " failed: " + err.Error())
	}
}

// RegisterTriggerRoutes registers scrape trigger endpoints with the Huma API.
func RegisterTriggerRoutes(api huma.API, h *TriggerHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "scrape-store",
		Method:        http.MethodPost,
		Path:          "/api/v1/scrape/stores/{store_id}",
		Summary:       "Scrape one store",
		Description:   "Queues a re-scrape of every priced item of the store, staggered over time.",
		Tags:          []string{"scrape"},
		DefaultStatus: http.StatusAccepted,
		Errors:        []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.ScrapeStore)

	huma.Register(api, huma.Operation{
		OperationID:   "scrape-all",
		Method:        http.MethodPost,
		Path:          "/api/v1/scrape/all",
		Summary:       "Scrape every store",
		Description:   "Queues a re-scrape of every priced item of every active store.",
		Tags:          []string{"scrape"},
		DefaultStatus: http.StatusAccepted,
		Errors:        []int{http.StatusInternalServerError},
	}, h.ScrapeAll)

	huma.Register(api, huma.Operation{
		OperationID:   "scrape-category",
		Method:        http.MethodPost,
		Path:          "/api/v1/scrape/category",
		Summary:       "Ingest a category page",
		Description:   "Queues a scrape of a retailer category page whose products are ingested for the named store.",
		Tags:          []string{"scrape"},
		DefaultStatus: http.StatusAccepted,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError},
	}, h.ScrapeCategory)

	huma.Register(api, huma.Operation{
		OperationID:   "scrape-item",
		Method:        http.MethodPost,
		Path:          "/api/v1/scrape/items/{item_id}",
		Summary:       "Scrape one store item",
		Tags:          []string{"scrape"},
		DefaultStatus: http.StatusAccepted,
		Errors:        []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.ScrapeItem)
}
