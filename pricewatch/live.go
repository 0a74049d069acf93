// Package pricewatch polls the external live-price endpoint for products
// the user cares about. The endpoint is a black box: it answers
// {success, price} or {success: false, message} and nothing more is
// assumed about it.
package pricewatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/beij-labs/beijshop/core"
)

const defaultLiveTimeout = 20 * time.Second

// LiveClient fetches live prices from the configured price endpoint.
type LiveClient struct {
	endpoint string
	client   *http.Client
}

// LiveConfig configures the live-price client.
type LiveConfig struct {
	// Endpoint is the full URL of the live-price service.
	Endpoint string

	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client
}

// NewLiveClient creates a live-price client.
func NewLiveClient(cfg LiveConfig) (*LiveClient, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errors.New("pricewatch: live-price endpoint is required")
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("pricewatch: invalid endpoint %q: %w", endpoint, err)
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultLiveTimeout}
	}
	return &LiveClient{endpoint: endpoint, client: client}, nil
}

// Quote looks up the live price for a product link. A well-formed
// {success: false, message} answer is not an error; it comes back as an
// unsuccessful LivePrice so callers can distinguish "no price available"
// from the endpoint being unreachable.
func (c *LiveClient) Quote(ctx context.Context, productLink string) (core.LivePrice, error) {
	if strings.TrimSpace(productLink) == "" {
		return core.LivePrice{}, errors.New("pricewatch: product link is empty")
	}

	target := c.endpoint + "?url=" + url.QueryEscape(productLink)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return core.LivePrice{}, fmt.Errorf("pricewatch: build quote request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return core.LivePrice{}, fmt.Errorf("pricewatch: quote request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.LivePrice{}, fmt.Errorf("pricewatch: read quote response: %w", err)
	}

	var quote core.LivePrice
	if err := json.Unmarshal(body, &quote); err != nil {
		return core.LivePrice{}, fmt.Errorf("pricewatch: quote response status %d is not JSON: %w", resp.StatusCode, err)
	}
	return quote, nil
}
