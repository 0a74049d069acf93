package api

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/beij-labs/beijshop/core"
)

const (
	defaultCacheSize = 256
	defaultCacheTTL  = 5 * time.Minute
)

// allPreviewsKey is the preview-cache key for the unfiltered listing.
const allPreviewsKey = "\x00all"

// Cache is a read-through cache over the catalog read endpoints. Product
// and preview responses are cached with a TTL; everything else passes
// through to the underlying client. Mutating admin calls are deliberately
// not routed through the cache.
type Cache struct {
	client   *Client
	products *expirable.LRU[string, core.Product]
	previews *expirable.LRU[string, []core.ProductPreview]
}

// CacheConfig configures the catalog read cache.
type CacheConfig struct {
	Size int           // max entries per cache, default 256
	TTL  time.Duration // entry lifetime, default 5m
}

// NewCache wraps the client with a read-through catalog cache.
func NewCache(client *Client, cfg CacheConfig) *Cache {
	size := cfg.Size
	if size <= 0 {
		size = defaultCacheSize
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &Cache{
		client:   client,
		products: expirable.NewLRU[string, core.Product](size, nil, ttl),
		previews: expirable.NewLRU[string, []core.ProductPreview](size, nil, ttl),
	}
}

// GetProduct returns the product from cache or the backend.
func (c *Cache) GetProduct(ctx context.Context, productID string) (core.Product, error) {
	if product, ok := c.products.Get(productID); ok {
		return product, nil
	}

	product, err := c.client.GetProduct(ctx, productID)
	if err != nil {
		return core.Product{}, err
	}
	c.products.Add(productID, product)
	return product, nil
}

// GetProductPreviews returns the unfiltered preview listing from cache or
// the backend.
func (c *Cache) GetProductPreviews(ctx context.Context) ([]core.ProductPreview, error) {
	return c.cachedPreviews(ctx, allPreviewsKey, func() ([]core.ProductPreview, error) {
		return c.client.GetProductPreviews(ctx)
	})
}

// GetFilteredPreviews returns a filtered preview listing keyed by the
// filter string.
func (c *Cache) GetFilteredPreviews(ctx context.Context, filter string) ([]core.ProductPreview, error) {
	if filter == "" {
		return c.GetProductPreviews(ctx)
	}
	return c.cachedPreviews(ctx, filter, func() ([]core.ProductPreview, error) {
		return c.client.GetFilteredPreviews(ctx, filter)
	})
}

// SearchPreviews passes through to the backend. Search results are not
// cached: query cardinality is unbounded and results are cheap to refetch.
func (c *Cache) SearchPreviews(ctx context.Context, keywords, filter string) ([]core.ProductPreview, error) {
	return c.client.SearchPreviews(ctx, keywords, filter)
}

// Invalidate drops all cached entries. Admin flows call this after
// catalog mutations so stale listings do not outlive the TTL.
func (c *Cache) Invalidate() {
	c.products.Purge()
	c.previews.Purge()
}

func (c *Cache) cachedPreviews(_ context.Context, key string, fetch func() ([]core.ProductPreview, error)) ([]core.ProductPreview, error) {
	if previews, ok := c.previews.Get(key); ok {
		return previews, nil
	}

	previews, err := fetch()
	if err != nil {
		return nil, err
	}
	c.previews.Add(key, previews)
	return previews, nil
}
