package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/donaldgifford/fiscus-ingest/internal/insights"
	"github.com/donaldgifford/fiscus-ingest/internal/store"
	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

// InsightsProvider answers read-side price questions.
type InsightsProvider interface {
	ComparePrices(ctx context.Context, query string, limit int) (*insights.Comparison, error)
	Promotions(ctx context.Context, q insights.PromotionQuery) ([]domain.Promotion, error)
}

// InsightsHandler serves price comparison and promotions.
type InsightsHandler struct {
	insights InsightsProvider
}

// NewInsightsHandler creates a new InsightsHandler.
func NewInsightsHandler(p InsightsProvider) *InsightsHandler {
	return &InsightsHandler{insights: p}
}

// CompareInput holds the comparison query.
type CompareInput struct {
	Q     string `query:"q"     doc:"Product name to compare, e.g. 'гречка 800г'" required:"true" minLength:"1"`
	Limit int    `query:"limit" doc:"Maximum rows (default 50)"                    minimum:"0" maximum:"500"`
}

// CompareOutput is the response body for a price comparison.
type CompareOutput struct {
	Body *insights.Comparison
}

// PromotionsInput selects a store's promotions.
type PromotionsInput struct {
	StoreID    int64   `path:"store_id"     doc:"Store ID"                                minimum:"1"`
	WindowDays int     `query:"window_days" doc:"Look-back window in days (default 30)"  minimum:"0" maximum:"365"`
	MinDrop    float64 `query:"min_drop"    doc:"Minimum drop in percent (default 10)"   minimum:"0" maximum:"100"`
	Limit      int     `query:"limit"       doc:"Maximum promotions (default 20)"        minimum:"0" maximum:"200"`
}

// PromotionsOutput is the response body for promotions.
type PromotionsOutput struct {
	Body []domain.Promotion
}

// Compare returns the current price of every matching product, cheapest
// first.
func (h *InsightsHandler) Compare(ctx context.Context, input *CompareInput) (*CompareOutput, error) {
	c, err := h.insights.ComparePrices(ctx, input.Q, input.Limit)
	if errors.Is(err, insights.ErrEmptyQuery) {
		return nil, huma.Error400BadRequest("query has no searchable words")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("comparing prices failed: " + err.Error())
	}
	return &CompareOutput{Body: c}, nil
}

// Promotions returns the store's products whose price recently dropped.
func (h *InsightsHandler) Promotions(ctx context.Context, input *PromotionsInput) (*PromotionsOutput, error) {
	q := insights.PromotionQuery{
		StoreID:        input.StoreID,
		Window:         time.Duration(input.WindowDays) * 24 * time.Hour,
		MinDropPercent: decimal.NewFromFloat(input.MinDrop),
		Limit:          input.Limit,
	}

	promos, err := h.insights.Promotions(ctx, q)
	if errors.Is(err, store.ErrNotFound) {
		return nil, huma.Error404NotFound("store not found")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("detecting promotions failed: " + err.Error())
	}

	if promos == nil {
		promos = []domain.Promotion{}
	}
	return &PromotionsOutput{Body: promos}, nil
}

// RegisterInsightsRoutes registers comparison and promotion endpoints with
// the Huma API.
func RegisterInsightsRoutes(api huma.API, h *InsightsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "compare-prices",
		Method:      http.MethodGet,
		Path:        "/api/v1/compare",
		Summary:     "Compare prices across stores",
		Description: "Matches the query against normalized product names and returns current " +
			"store prices, cheapest first, with the cheapest in-stock offer as best.",
		Tags:   []string{"insights"},
		Errors: []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, h.Compare)

	huma.Register(api, huma.Operation{
		OperationID: "list-promotions",
		Method:      http.MethodGet,
		Path:        "/api/v1/stores/{store_id}/promotions",
		Summary:     "List store promotions",
		Description: "Returns products whose latest price is at least min_drop percent below " +
			"their highest price within the window, biggest drops first.",
		Tags:   []string{"insights"},
		Errors: []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.Promotions)
}
