package client

import (
	"context"
	"fmt"

	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

// StoreInfo describes one supported retail chain.
type StoreInfo struct {
	Chain   string   `json:"chain"`
	BaseURL string   `json:"base_url"`
	Domains []string `json:"domains"`
}

// ScrapersResponse lists the supported retailers.
type ScrapersResponse struct {
	Stores  []StoreInfo `json:"stores"`
	Domains []string    `json:"domains"`
}

// ListScrapers returns the supported chains and domains.
func (c *Client) ListScrapers(ctx context.Context) (*ScrapersResponse, error) {
	var resp ScrapersResponse
	if err := c.get(ctx, "/api/v1/scrapers", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TriggerStore queues a re-scrape of one store and returns the pending task.
func (c *Client) TriggerStore(ctx context.Context, storeID int64) (*domain.TaskLog, error) {
	return c.trigger(ctx, fmt.Sprintf("/api/v1/scrape/stores/%d", storeID), nil)
}

// TriggerAll queues a re-scrape of every store.
func (c *Client) TriggerAll(ctx context.Context) (*domain.TaskLog, error) {
	return c.trigger(ctx, "/api/v1/scrape/all", nil)
}

// TriggerItem queues a re-scrape of one store item.
func (c *Client) TriggerItem(ctx context.Context, itemID int64) (*domain.TaskLog, error) {
	return c.trigger(ctx, fmt.Sprintf("/api/v1/scrape/items/%d", itemID), nil)
}

// TriggerCategory queues an ingest of a category page for the named store.
func (c *Client) TriggerCategory(ctx context.Context, pageURL, storeName string) (*domain.TaskLog, error) {
	body := map[string]string{"url": pageURL, "store_name": storeName}
	return c.trigger(ctx, "/api/v1/scrape/category", body)
}

func (c *Client) trigger(ctx context.Context, path string, body any) (*domain.TaskLog, error) {
	var t domain.TaskLog
	if err := c.post(ctx, path, body, &t); err != nil {
		return nil, err
	}
	return &t, nil
}
