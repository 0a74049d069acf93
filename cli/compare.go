package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/beij-labs/beijshop/compare"
	"github.com/beij-labs/beijshop/core"
)

// NewCompareCmd creates the "compare" subcommand and its children.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Manage the two-product compare selection",
	}

	cmd.AddCommand(newCompareAddCmd())
	cmd.AddCommand(newCompareRemoveCmd())
	cmd.AddCommand(newCompareClearCmd())
	cmd.AddCommand(newCompareListCmd())
	cmd.AddCommand(newCompareShowCmd())

	return cmd
}

func newCompareAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			if app.Compare.Contains(args[0]) {
				fmt.Fprintln(out, "Already in the selection.")
				return nil
			}
			if !app.Compare.Add(cmd.Context(), args[0]) {
				return exitError(exitUsage,
					"the selection already holds %d products (remove one first)", compare.MaxItems)
			}
			fmt.Fprintf(out, "Added %s (%d/%d)\n", args[0], len(app.Compare.IDs()), compare.MaxItems)
			return nil
		},
	}
}

func newCompareRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			app.Compare.Remove(cmd.Context(), args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}

func newCompareClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			app.Compare.Clear(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Selection cleared.")
			return nil
		},
	}
}

func newCompareListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the selected product ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			ids := app.Compare.IDs()
			if len(ids) == 0 {
				fmt.Fprintln(out, "Nothing selected.")
				return nil
			}
			for _, id := range ids {
				fmt.Fprintln(out, id)
			}
			return nil
		},
	}
}

func newCompareShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Fetch and compare the selected products side by side",
		Args:  cobra.NoArgs,
		RunE:  runCompareShow,
	}
}

func runCompareShow(cmd *cobra.Command, _ []string) error {
	app, cleanup, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	out := cmd.OutOrStdout()
	ids := app.Compare.IDs()
	if len(ids) == 0 {
		fmt.Fprintln(out, "Nothing selected.")
		return nil
	}

	ctx := cmd.Context()
	products := make([]core.Product, 0, len(ids))
	for _, id := range ids {
		p, err := app.Cache.GetProduct(ctx, id)
		if err != nil {
			return apiExitError(err)
		}
		products = append(products, p)
	}

	tw := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprint(tw, "FIELD")
	for _, p := range products {
		fmt.Fprintf(tw, "\t%s", p.ProductName)
	}
	fmt.Fprintln(tw)

	row := func(label string, value func(core.Product) string) {
		fmt.Fprint(tw, label)
		for _, p := range products {
			fmt.Fprintf(tw, "\t%s", value(p))
		}
		fmt.Fprintln(tw)
	}
	row("Price", func(p core.Product) string { return fmt.Sprintf("%.2f", p.DiscountedPrice) })
	row("List price", func(p core.Product) string { return fmt.Sprintf("%.2f", p.ActualPrice) })
	row("Rating", func(p core.Product) string { return fmt.Sprintf("%.1f (%d)", p.Rating, p.RatingCount) })
	return tw.Flush()
}
