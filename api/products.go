package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/beij-labs/beijshop/core"
)

// GetProduct fetches the full record for one product.
// GET /products/{product_id}
func (c *Client) GetProduct(ctx context.Context, productID string) (core.Product, error) {
	var product core.Product
	err := c.do(ctx, request{
		operation: "get_product",
		method:    http.MethodGet,
		path:      "/products/" + url.PathEscape(productID),
		fallback:  "Product not found",
	}, &product)
	return product, err
}

// GetAllProducts lists full product records. Admin only.
// GET /products/
func (c *Client) GetAllProducts(ctx context.Context, token string) ([]core.Product, error) {
	var products []core.Product
	err := c.do(ctx, request{
		operation: "get_all_products",
		method:    http.MethodGet,
		path:      "/products/",
		bearer:    token,
		fallback:  "Failed to get products",
	}, &products)
	return products, err
}

// CreateProduct adds a new product. Admin only.
// POST /products/
func (c *Client) CreateProduct(ctx context.Context, product core.Product, token string) (core.Product, error) {
	var created core.Product
	err := c.do(ctx, request{
		operation: "create_product",
		method:    http.MethodPost,
		path:      "/products/",
		body:      product,
		bearer:    token,
		fallback:  "Failed to create product",
	}, &created)
	return created, err
}

// UpdateProduct replaces a product record. Admin only.
// PUT /products/{product_id}
func (c *Client) UpdateProduct(ctx context.Context, productID string, product core.Product, token string) (core.Product, error) {
	var updated core.Product
	err := c.do(ctx, request{
		operation: "update_product",
		method:    http.MethodPut,
		path:      "/products/" + url.PathEscape(productID),
		body:      product,
		bearer:    token,
		fallback:  "Failed to update product",
	}, &updated)
	return updated, err
}

// DeleteProduct removes a product. Admin only.
// DELETE /products/{product_id}
func (c *Client) DeleteProduct(ctx context.Context, productID, token string) error {
	return c.do(ctx, request{
		operation: "delete_product",
		method:    http.MethodDelete,
		path:      "/products/" + url.PathEscape(productID),
		bearer:    token,
		fallback:  "Failed to delete product",
	}, nil)
}

// GetProductPreviews lists all product previews.
// GET /previews/
func (c *Client) GetProductPreviews(ctx context.Context) ([]core.ProductPreview, error) {
	var previews []core.ProductPreview
	err := c.do(ctx, request{
		operation: "get_previews",
		method:    http.MethodGet,
		path:      "/previews/",
		fallback:  "Failed to fetch products",
	}, &previews)
	return previews, err
}

// GetFilteredPreviews lists previews matching a backend filter string in
// the "category&min=X&max=Y" format (see the catalog package).
// GET /previews/{filter}
func (c *Client) GetFilteredPreviews(ctx context.Context, filter string) ([]core.ProductPreview, error) {
	var previews []core.ProductPreview
	err := c.do(ctx, request{
		operation: "get_filtered_previews",
		method:    http.MethodGet,
		path:      "/previews/" + url.PathEscape(filter),
		fallback:  "Failed to fetch filtered products",
	}, &previews)
	return previews, err
}

// SearchPreviews searches previews by keyword, optionally narrowed by a
// filter string appended in the backend's "query&filter" convention.
// GET /previews/search/{search_string}
func (c *Client) SearchPreviews(ctx context.Context, keywords, filter string) ([]core.ProductPreview, error) {
	searchPath := keywords
	if filter != "" {
		searchPath = keywords + "&" + filter
	}

	var previews []core.ProductPreview
	err := c.do(ctx, request{
		operation: "search_previews",
		method:    http.MethodGet,
		path:      "/previews/search/" + url.PathEscape(searchPath),
		fallback:  "Search failed",
	}, &previews)
	return previews, err
}
