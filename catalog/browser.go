package catalog

import (
	"context"
	"errors"
	"sort"

	"github.com/beij-labs/beijshop/core"
)

// Reader is the slice of the API surface the browser reads previews
// through. Both api.Client and api.Cache satisfy it.
type Reader interface {
	GetProductPreviews(ctx context.Context) ([]core.ProductPreview, error)
	GetFilteredPreviews(ctx context.Context, filter string) ([]core.ProductPreview, error)
	SearchPreviews(ctx context.Context, keywords, filter string) ([]core.ProductPreview, error)
}

// Browser answers browse queries: keyword search, filtering, and
// client-side sorting over preview listings.
type Browser struct {
	reader Reader
}

// NewBrowser creates a browser over the given reader.
func NewBrowser(reader Reader) (*Browser, error) {
	if reader == nil {
		return nil, errors.New("catalog: reader is nil")
	}
	return &Browser{reader: reader}, nil
}

// Browse fetches the listing matching query and filter, then applies the
// sort locally. An empty query without a filter returns the full listing.
func (b *Browser) Browse(ctx context.Context, query string, filter Filter, key SortKey) ([]core.ProductPreview, error) {
	previews, err := b.fetch(ctx, query, filter)
	if err != nil {
		return nil, err
	}
	return SortPreviews(previews, key), nil
}

// Categories derives the distinct top-level categories present in the
// recommendation-free product listing. Categories come sorted and
// deduplicated.
func Categories(products []core.Product) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range products {
		if len(p.Category) == 0 {
			continue
		}
		top := p.Category[0]
		if top == "" || seen[top] {
			continue
		}
		seen[top] = true
		out = append(out, top)
	}
	sort.Strings(out)
	return out
}

// PriceRange reports the lowest and highest discounted price in the
// listing. ok is false for an empty listing.
func PriceRange(previews []core.ProductPreview) (lo, hi float64, ok bool) {
	if len(previews) == 0 {
		return 0, 0, false
	}
	lo, hi = previews[0].DiscountedPrice, previews[0].DiscountedPrice
	for _, p := range previews[1:] {
		if p.DiscountedPrice < lo {
			lo = p.DiscountedPrice
		}
		if p.DiscountedPrice > hi {
			hi = p.DiscountedPrice
		}
	}
	return lo, hi, true
}

func (b *Browser) fetch(ctx context.Context, query string, filter Filter) ([]core.ProductPreview, error) {
	switch {
	case query != "":
		return b.reader.SearchPreviews(ctx, query, filter.String())
	case !filter.IsZero():
		return b.reader.GetFilteredPreviews(ctx, filter.String())
	default:
		return b.reader.GetProductPreviews(ctx)
	}
}
