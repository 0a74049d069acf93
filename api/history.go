package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/beij-labs/beijshop/core"
)

// View tracking and recommendations are best-effort features: their
// failure must never block the primary shopping flow. The methods here
// still return errors so failures stay visible to tests and callers; it
// is the caller's decision to discard them.

// viewHistoryResponse is the JSON shape of the view-history endpoint.
type viewHistoryResponse struct {
	RecentlyViewed []core.ViewEvent `json:"recently_viewed"`
}

// TrackProductView records that the user viewed a product.
// POST /users/{user_id}/view-history/{product_id}
func (c *Client) TrackProductView(ctx context.Context, userID, productID string) error {
	return c.do(ctx, request{
		operation: "track_view",
		method:    http.MethodPost,
		path:      "/users/" + url.PathEscape(userID) + "/view-history/" + url.PathEscape(productID),
		fallback:  "Failed to track product view",
	}, nil)
}

// GetViewHistory fetches the user's raw view history, newest first.
// GET /users/{user_id}/view-history
func (c *Client) GetViewHistory(ctx context.Context, userID string) ([]core.ViewEvent, error) {
	var resp viewHistoryResponse
	err := c.do(ctx, request{
		operation: "get_view_history",
		method:    http.MethodGet,
		path:      "/users/" + url.PathEscape(userID) + "/view-history",
		fallback:  "Failed to get view history",
	}, &resp)
	return resp.RecentlyViewed, err
}

// GetRecentlyViewed fetches previews of the user's most recently viewed
// products.
// GET /users/{user_id}/recently-viewed?limit=N
func (c *Client) GetRecentlyViewed(ctx context.Context, userID string, limit int) ([]core.ProductPreview, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var previews []core.ProductPreview
	err := c.do(ctx, request{
		operation: "get_recently_viewed",
		method:    http.MethodGet,
		path:      "/users/" + url.PathEscape(userID) + "/recently-viewed",
		query:     query,
		fallback:  "Failed to get recently viewed products",
	}, &previews)
	return previews, err
}

// GetRecommendations fetches personalized product recommendations,
// optionally excluding the product currently being viewed.
// GET /users/{user_id}/recommendations?exclude_product_id=X&limit=N
func (c *Client) GetRecommendations(ctx context.Context, userID, excludeProductID string, limit int) ([]core.Product, error) {
	query := url.Values{}
	if excludeProductID != "" {
		query.Set("exclude_product_id", excludeProductID)
	}
	if limit <= 0 {
		limit = 8
	}
	query.Set("limit", strconv.Itoa(limit))

	var products []core.Product
	err := c.do(ctx, request{
		operation: "get_recommendations",
		method:    http.MethodGet,
		path:      "/users/" + url.PathEscape(userID) + "/recommendations",
		query:     query,
		fallback:  "Failed to get recommendations",
	}, &products)
	return products, err
}
