package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/beij-labs/beijshop/core"
)

// Saved-item endpoints return the authoritative full id list on every
// call. Save and unsave are idempotent at the server: saving an already
// saved id or unsaving an absent one does not error, and the client
// performs no deduplication before calling.

// GetSavedItems fetches a user's saved-item id list.
// GET /users/{user_id}/saved-items
func (c *Client) GetSavedItems(ctx context.Context, userID string) ([]string, error) {
	var resp core.SavedItemsResponse
	err := c.do(ctx, request{
		operation: "get_saved_items",
		method:    http.MethodGet,
		path:      "/users/" + url.PathEscape(userID) + "/saved-items",
		fallback:  "Failed to get saved items",
	}, &resp)
	return resp.SavedItemIDs, err
}

// SaveItem adds a product to the user's saved list and returns the
// updated id list.
// POST /users/{user_id}/saved-items/{product_id}
func (c *Client) SaveItem(ctx context.Context, userID, productID string) ([]string, error) {
	var resp core.SavedItemsResponse
	err := c.do(ctx, request{
		operation: "save_item",
		method:    http.MethodPost,
		path:      "/users/" + url.PathEscape(userID) + "/saved-items/" + url.PathEscape(productID),
		fallback:  "Failed to save item",
	}, &resp)
	return resp.SavedItemIDs, err
}

// UnsaveItem removes a product from the user's saved list and returns the
// updated id list.
// DELETE /users/{user_id}/saved-items/{product_id}
func (c *Client) UnsaveItem(ctx context.Context, userID, productID string) ([]string, error) {
	var resp core.SavedItemsResponse
	err := c.do(ctx, request{
		operation: "unsave_item",
		method:    http.MethodDelete,
		path:      "/users/" + url.PathEscape(userID) + "/saved-items/" + url.PathEscape(productID),
		fallback:  "Failed to remove item",
	}, &resp)
	return resp.SavedItemIDs, err
}
