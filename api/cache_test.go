package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/beij-labs/beijshop/core"
)

func TestCache_ProductFetchedOnce(t *testing.T) {
	var hits atomic.Int64
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_ = json.NewEncoder(w).Encode(core.Product{ProductID: "P1", ProductName: "Cable"})
	}))
	cache := NewCache(c, CacheConfig{})

	ctx := context.Background()
	for range 3 {
		product, err := cache.GetProduct(ctx, "P1")
		if err != nil {
			t.Fatalf("GetProduct: unexpected error: %v", err)
		}
		if product.ProductName != "Cable" {
			t.Fatalf("GetProduct: got %+v", product)
		}
	}
	if hits.Load() != 1 {
		t.Fatalf("backend hits = %d, want 1", hits.Load())
	}
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	var hits atomic.Int64
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(core.Product{ProductID: "P1"})
	}))
	cache := NewCache(c, CacheConfig{})

	ctx := context.Background()
	if _, err := cache.GetProduct(ctx, "P1"); err == nil {
		t.Fatal("expected error on first fetch")
	}
	if _, err := cache.GetProduct(ctx, "P1"); err != nil {
		t.Fatalf("second fetch should succeed: %v", err)
	}
	if hits.Load() != 2 {
		t.Fatalf("backend hits = %d, want 2", hits.Load())
	}
}

func TestCache_FilteredPreviewsKeyedByFilter(t *testing.T) {
	var hits atomic.Int64
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_ = json.NewEncoder(w).Encode([]core.ProductPreview{{ProductID: "P1"}})
	}))
	cache := NewCache(c, CacheConfig{})

	ctx := context.Background()
	if _, err := cache.GetFilteredPreviews(ctx, "Electronics&min=10"); err != nil {
		t.Fatalf("GetFilteredPreviews: %v", err)
	}
	if _, err := cache.GetFilteredPreviews(ctx, "Electronics&min=10"); err != nil {
		t.Fatalf("GetFilteredPreviews: %v", err)
	}
	if _, err := cache.GetFilteredPreviews(ctx, "Toys"); err != nil {
		t.Fatalf("GetFilteredPreviews: %v", err)
	}
	if hits.Load() != 2 {
		t.Fatalf("backend hits = %d, want 2", hits.Load())
	}
}

func TestCache_InvalidateDropsEntries(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_ = json.NewEncoder(w).Encode(core.Product{ProductID: "P1"})
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL + "/api/v1"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	cache := NewCache(c, CacheConfig{TTL: time.Hour})

	ctx := context.Background()
	if _, err := cache.GetProduct(ctx, "P1"); err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	cache.Invalidate()
	if _, err := cache.GetProduct(ctx, "P1"); err != nil {
		t.Fatalf("GetProduct after Invalidate: %v", err)
	}
	if hits.Load() != 2 {
		t.Fatalf("backend hits = %d, want 2", hits.Load())
	}
}
