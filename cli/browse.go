package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beij-labs/beijshop/catalog"
)

// NewBrowseCmd creates the "browse" subcommand.
func NewBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse [keywords]",
		Short: "List, filter, and search the product catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBrowse,
	}

	cmd.Flags().String("category", "", "Restrict to one category")
	cmd.Flags().Int("min", 0, "Minimum discounted price")
	cmd.Flags().Int("max", 0, "Maximum discounted price")
	cmd.Flags().String("sort", "", "Sort order: price_asc | price_desc | rating_desc | name")
	cmd.Flags().String("format", "text", "Output format: text | json")

	return cmd
}

func runBrowse(cmd *cobra.Command, args []string) error {
	category, _ := cmd.Flags().GetString("category")
	minPrice, _ := cmd.Flags().GetInt("min")
	maxPrice, _ := cmd.Flags().GetInt("max")
	sortFlag, _ := cmd.Flags().GetString("sort")
	format, _ := cmd.Flags().GetString("format")
	out := cmd.OutOrStdout()

	sortKey, err := catalog.ParseSortKey(sortFlag)
	if err != nil {
		return exitError(exitUsage, "%v", err)
	}

	var keywords string
	if len(args) == 1 {
		keywords = args[0]
	}

	app, cleanup, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	filter := catalog.Filter{
		Category: category,
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	}
	previews, err := app.Browser.Browse(cmd.Context(), keywords, filter, sortKey)
	if err != nil {
		return apiExitError(err)
	}

	if format == "json" {
		printJSON(out, previews)
		return nil
	}
	printPreviews(out, previews)
	if lo, hi, ok := catalog.PriceRange(previews); ok {
		fmt.Fprintf(out, "\n%d %s, prices %.2f to %.2f\n",
			len(previews), pluralize("product", len(previews)), lo, hi)
	}
	return nil
}

// NewShowCmd creates the "show" subcommand.
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <product-id>",
		Short: "Show one product in full detail",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}

	cmd.Flags().String("format", "text", "Output format: text | json")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out := cmd.OutOrStdout()

	app, cleanup, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	product, err := app.Cache.GetProduct(ctx, args[0])
	if err != nil {
		return apiExitError(err)
	}

	// View tracking is best effort. A failure never blocks the display.
	if user, ok := app.Session.User(); ok {
		_ = app.Client.TrackProductView(ctx, user.UserID, product.ProductID)
	}

	if format == "json" {
		printJSON(out, product)
		return nil
	}
	printProduct(out, product)

	if app.Session.IsItemSaved(product.ProductID) {
		fmt.Fprintln(out, "\nSaved for later.")
	}
	if app.Compare.Contains(product.ProductID) {
		fmt.Fprintln(out, "In the compare selection.")
	}
	return nil
}
