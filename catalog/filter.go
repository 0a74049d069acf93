// Package catalog composes the browse surface: the backend filter-string
// convention, sort keys, and client-side sorting of preview listings.
package catalog

import (
	"strconv"
	"strings"
)

// Filter narrows a preview listing. The backend consumes it as a single
// path segment in the "category&min=X&max=Y" format; a zero Filter
// renders as the empty string, meaning unfiltered.
type Filter struct {
	Category string
	MinPrice int // 0 means no lower bound
	MaxPrice int // 0 means no upper bound
}

// IsZero reports whether the filter narrows nothing.
func (f Filter) IsZero() bool {
	return f.Category == "" && f.MinPrice <= 0 && f.MaxPrice <= 0
}

// String renders the backend filter-string format. The category comes
// first; price bounds follow as min=/max= pairs.
func (f Filter) String() string {
	var parts []string
	if f.Category != "" {
		parts = append(parts, f.Category)
	}
	if f.MinPrice > 0 {
		parts = append(parts, "min="+strconv.Itoa(f.MinPrice))
	}
	if f.MaxPrice > 0 {
		parts = append(parts, "max="+strconv.Itoa(f.MaxPrice))
	}
	return strings.Join(parts, "&")
}

// ParseFilter reads a backend filter string back into a Filter. The
// first part is the category unless it is a min=/max= pair; malformed
// price values are ignored.
func ParseFilter(s string) Filter {
	var f Filter
	if s == "" {
		return f
	}

	for i, part := range strings.Split(s, "&") {
		switch {
		case strings.HasPrefix(part, "min="):
			if v, err := strconv.Atoi(part[len("min="):]); err == nil {
				f.MinPrice = v
			}
		case strings.HasPrefix(part, "max="):
			if v, err := strconv.Atoi(part[len("max="):]); err == nil {
				f.MaxPrice = v
			}
		case i == 0:
			f.Category = part
		}
	}
	return f
}
