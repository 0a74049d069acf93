package catalog

import (
	"context"
	"testing"

	"github.com/beij-labs/beijshop/core"
)

func TestFilter_String(t *testing.T) {
	cases := []struct {
		name   string
		filter Filter
		want   string
	}{
		{name: "zero filter", filter: Filter{}, want: ""},
		{name: "category only", filter: Filter{Category: "Electronics"}, want: "Electronics"},
		{name: "price bounds only", filter: Filter{MinPrice: 10, MaxPrice: 100}, want: "min=10&max=100"},
		{name: "all fields", filter: Filter{Category: "Toys", MinPrice: 5, MaxPrice: 50}, want: "Toys&min=5&max=50"},
		{name: "negative bounds ignored", filter: Filter{Category: "Toys", MinPrice: -1}, want: "Toys"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.filter.String(); got != tc.want {
				t.Fatalf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseFilter_RoundTrip(t *testing.T) {
	cases := []Filter{
		{},
		{Category: "Electronics"},
		{MinPrice: 10},
		{Category: "Toys", MinPrice: 5, MaxPrice: 50},
	}

	for _, f := range cases {
		got := ParseFilter(f.String())
		if got != f {
			t.Fatalf("ParseFilter(%q) = %+v, want %+v", f.String(), got, f)
		}
	}
}

func TestParseFilter_MalformedPriceIgnored(t *testing.T) {
	f := ParseFilter("Toys&min=abc&max=50")
	if f.Category != "Toys" || f.MinPrice != 0 || f.MaxPrice != 50 {
		t.Fatalf("ParseFilter = %+v", f)
	}
}

func TestParseSortKey(t *testing.T) {
	for _, valid := range []string{"", "price_asc", "price_desc", "rating_desc", "name"} {
		if _, err := ParseSortKey(valid); err != nil {
			t.Fatalf("ParseSortKey(%q) error = %v", valid, err)
		}
	}
	if _, err := ParseSortKey("cheapest"); err == nil {
		t.Fatal("ParseSortKey(cheapest) should fail")
	}
}

func TestSortPreviews(t *testing.T) {
	previews := []core.ProductPreview{
		{ProductID: "P1", ProductName: "zeta", DiscountedPrice: 30, Rating: 4.1},
		{ProductID: "P2", ProductName: "Alpha", DiscountedPrice: 10, Rating: 4.9},
		{ProductID: "P3", ProductName: "mid", DiscountedPrice: 20, Rating: 3.0},
	}

	cases := []struct {
		key  SortKey
		want []string
	}{
		{key: SortDefault, want: []string{"P1", "P2", "P3"}},
		{key: SortPriceAsc, want: []string{"P2", "P3", "P1"}},
		{key: SortPriceDesc, want: []string{"P1", "P3", "P2"}},
		{key: SortRatingDesc, want: []string{"P2", "P1", "P3"}},
		{key: SortName, want: []string{"P2", "P3", "P1"}},
	}

	for _, tc := range cases {
		t.Run(string(tc.key), func(t *testing.T) {
			got := SortPreviews(previews, tc.key)
			for i, id := range tc.want {
				if got[i].ProductID != id {
					t.Fatalf("SortPreviews(%q) order = %v, want %v", tc.key, ids(got), tc.want)
				}
			}
			// The input listing must be untouched.
			if previews[0].ProductID != "P1" {
				t.Fatal("SortPreviews mutated its input")
			}
		})
	}
}

func ids(previews []core.ProductPreview) []string {
	out := make([]string, len(previews))
	for i, p := range previews {
		out[i] = p.ProductID
	}
	return out
}

// fakeReader scripts the three listing endpoints and records which one
// was used.
type fakeReader struct {
	lastCall   string
	lastFilter string
	lastQuery  string
	result     []core.ProductPreview
}

func (f *fakeReader) GetProductPreviews(ctx context.Context) ([]core.ProductPreview, error) {
	f.lastCall = "all"
	return f.result, nil
}

func (f *fakeReader) GetFilteredPreviews(ctx context.Context, filter string) ([]core.ProductPreview, error) {
	f.lastCall, f.lastFilter = "filtered", filter
	return f.result, nil
}

func (f *fakeReader) SearchPreviews(ctx context.Context, keywords, filter string) ([]core.ProductPreview, error) {
	f.lastCall, f.lastQuery, f.lastFilter = "search", keywords, filter
	return f.result, nil
}

func TestBrowser_RoutesToTheRightEndpoint(t *testing.T) {
	ctx := context.Background()
	reader := &fakeReader{result: []core.ProductPreview{{ProductID: "P1", DiscountedPrice: 5}}}
	b, err := NewBrowser(reader)
	if err != nil {
		t.Fatalf("NewBrowser() error = %v", err)
	}

	if _, err := b.Browse(ctx, "", Filter{}, SortDefault); err != nil {
		t.Fatalf("Browse: %v", err)
	}
	if reader.lastCall != "all" {
		t.Fatalf("empty browse used %q", reader.lastCall)
	}

	if _, err := b.Browse(ctx, "", Filter{Category: "Toys", MinPrice: 5}, SortDefault); err != nil {
		t.Fatalf("Browse: %v", err)
	}
	if reader.lastCall != "filtered" || reader.lastFilter != "Toys&min=5" {
		t.Fatalf("filtered browse: call=%q filter=%q", reader.lastCall, reader.lastFilter)
	}

	if _, err := b.Browse(ctx, "usb", Filter{Category: "Electronics"}, SortDefault); err != nil {
		t.Fatalf("Browse: %v", err)
	}
	if reader.lastCall != "search" || reader.lastQuery != "usb" || reader.lastFilter != "Electronics" {
		t.Fatalf("search browse: call=%q query=%q filter=%q", reader.lastCall, reader.lastQuery, reader.lastFilter)
	}
}

func TestCategoriesAndPriceRange(t *testing.T) {
	products := []core.Product{
		{Category: []string{"Electronics", "Cables"}},
		{Category: []string{"Toys"}},
		{Category: []string{"Electronics"}},
		{Category: nil},
	}
	got := Categories(products)
	if len(got) != 2 || got[0] != "Electronics" || got[1] != "Toys" {
		t.Fatalf("Categories = %v", got)
	}

	previews := []core.ProductPreview{
		{DiscountedPrice: 25}, {DiscountedPrice: 5}, {DiscountedPrice: 99},
	}
	lo, hi, ok := PriceRange(previews)
	if !ok || lo != 5 || hi != 99 {
		t.Fatalf("PriceRange = %v %v %v", lo, hi, ok)
	}
	if _, _, ok := PriceRange(nil); ok {
		t.Fatal("PriceRange(nil) ok = true")
	}
}
