package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/beij-labs/beijshop/core"
)

// SortKey selects the ordering of a preview listing.
type SortKey string

const (
	SortDefault    SortKey = ""
	SortPriceAsc   SortKey = "price_asc"
	SortPriceDesc  SortKey = "price_desc"
	SortRatingDesc SortKey = "rating_desc"
	SortName       SortKey = "name"
)

// ParseSortKey validates a user-supplied sort key.
func ParseSortKey(s string) (SortKey, error) {
	switch key := SortKey(strings.TrimSpace(s)); key {
	case SortDefault, SortPriceAsc, SortPriceDesc, SortRatingDesc, SortName:
		return key, nil
	default:
		return SortDefault, fmt.Errorf("catalog: unknown sort key %q (want price_asc, price_desc, rating_desc or name)", s)
	}
}

// SortPreviews returns a sorted copy of the listing. SortDefault keeps
// the backend's order. Sorting is stable so equal elements keep their
// relative backend order.
func SortPreviews(previews []core.ProductPreview, key SortKey) []core.ProductPreview {
	out := make([]core.ProductPreview, len(previews))
	copy(out, previews)

	switch key {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].DiscountedPrice < out[j].DiscountedPrice
		})
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].DiscountedPrice > out[j].DiscountedPrice
		})
	case SortRatingDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Rating > out[j].Rating
		})
	case SortName:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].ProductName) < strings.ToLower(out[j].ProductName)
		})
	}
	return out
}
