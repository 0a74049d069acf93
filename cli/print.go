package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/beij-labs/beijshop/core"
)

// printJSON writes v as indented JSON, for --format json output.
func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// printPreviews writes a listing table of product previews.
func printPreviews(w io.Writer, previews []core.ProductPreview) {
	if len(previews) == 0 {
		fmt.Fprintln(w, "No products found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tRATING")
	for _, p := range previews {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.1f\n",
			p.ProductID, p.ProductName, p.DiscountedPrice, p.Rating)
	}
	_ = tw.Flush()
}

// printProduct writes the full detail view of one product.
func printProduct(w io.Writer, p core.Product) {
	fmt.Fprintf(w, "%s (%s)\n", p.ProductName, p.ProductID)
	if len(p.Category) > 0 {
		fmt.Fprintf(w, "Category:  %s\n", strings.Join(p.Category, ", "))
	}
	fmt.Fprintf(w, "Price:     %.2f (list %.2f", p.DiscountedPrice, p.ActualPrice)
	if p.DiscountPercentage != "" {
		fmt.Fprintf(w, ", %s off", p.DiscountPercentage)
	}
	fmt.Fprintln(w, ")")
	fmt.Fprintf(w, "Rating:    %.1f (%d ratings)\n", p.Rating, p.RatingCount)
	if p.ProductLink != "" {
		fmt.Fprintf(w, "Link:      %s\n", p.ProductLink)
	}
	if p.AboutProduct != "" {
		fmt.Fprintf(w, "\n%s\n", p.AboutProduct)
	}
}

// printUsers writes an account table.
func printUsers(w io.Writer, users []core.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tADMIN")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%v\n", u.UserID, u.Username, u.Email, u.IsAdmin)
	}
	_ = tw.Flush()
}

// pluralize returns the singular or plural form of a word based on count.
func pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	return word + "s"
}
