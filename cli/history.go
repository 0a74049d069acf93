package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the "history" subcommand.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently viewed products",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}

	cmd.Flags().Int("limit", 4, "Maximum number of entries")
	cmd.Flags().String("format", "text", "Output format: text | json")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")
	out := cmd.OutOrStdout()

	app, cleanup, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	user, err := requireUser(app)
	if err != nil {
		return err
	}

	previews, err := app.Client.GetRecentlyViewed(cmd.Context(), user.UserID, limit)
	if err != nil {
		return apiExitError(err)
	}

	if format == "json" {
		printJSON(out, previews)
		return nil
	}
	printPreviews(out, previews)
	return nil
}

// NewRecommendCmd creates the "recommend" subcommand.
func NewRecommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Show personalized product recommendations",
		Args:  cobra.NoArgs,
		RunE:  runRecommend,
	}

	cmd.Flags().String("exclude", "", "Product id to leave out of the results")
	cmd.Flags().Int("limit", 8, "Maximum number of recommendations")
	cmd.Flags().String("format", "text", "Output format: text | json")

	return cmd
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	exclude, _ := cmd.Flags().GetString("exclude")
	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")
	out := cmd.OutOrStdout()

	app, cleanup, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	user, err := requireUser(app)
	if err != nil {
		return err
	}

	products, err := app.Client.GetRecommendations(cmd.Context(), user.UserID, exclude, limit)
	if err != nil {
		return apiExitError(err)
	}

	if format == "json" {
		printJSON(out, products)
		return nil
	}
	if len(products) == 0 {
		fmt.Fprintln(out, "No recommendations yet. Browse some products first.")
		return nil
	}
	for _, p := range products {
		fmt.Fprintf(out, "%s  %s  %.2f\n", p.ProductID, p.ProductName, p.DiscountedPrice)
	}
	return nil
}
