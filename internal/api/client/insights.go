package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

// Comparison is the answer to a price comparison query.
type Comparison struct {
	Query      string                   `json:"query"`
	Normalized string                   `json:"normalized"`
	Rows       []domain.PriceComparison `json:"rows"`
	Best       *domain.PriceComparison  `json:"best,omitempty"`
}

// ComparePrices returns current store prices of products matching query.
func (c *Client) ComparePrices(ctx context.Context, query string, limit int) (*Comparison, error) {
	q := url.Values{"q": {query}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var resp Comparison
	if err := c.get(ctx, "/api/v1/compare?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PromotionsParams narrows a promotions query. Zero values select the
// server defaults.
type PromotionsParams struct {
	WindowDays int
	MinDrop    float64
	Limit      int
}

// Promotions returns products of a store whose price recently dropped.
func (c *Client) Promotions(ctx context.Context, storeID int64, params *PromotionsParams) ([]domain.Promotion, error) {
	q := url.Values{}
	if params != nil {
		if params.WindowDays > 0 {
			q.Set("window_days", strconv.Itoa(params.WindowDays))
		}
		if params.MinDrop > 0 {
			q.Set("min_drop", strconv.FormatFloat(params.MinDrop, 'f', -1, 64))
		}
		if params.Limit > 0 {
			q.Set("limit", strconv.Itoa(params.Limit))
		}
	}

	path := fmt.Sprintf("/api/v1/stores/%d/promotions", storeID)
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var promos []domain.Promotion
	if err := c.get(ctx, path, &promos); err != nil {
		return nil, err
	}
	return promos, nil
}
