package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beij-labs/beijshop/core"
)

// NewSaveCmd creates the "save" subcommand. Save is a toggle, matching
// the backend's single save/unsave surface.
func NewSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <product-id>",
		Short: "Save a product for later, or un-save it if already saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			wasSaved := app.Session.IsItemSaved(args[0])
			if _, err := app.Session.ToggleSaveItem(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, core.ErrUnauthenticated) {
					return exitError(exitAuth, "not logged in (run \"beijshop login\" first)")
				}
				return apiExitError(err)
			}

			out := cmd.OutOrStdout()
			if wasSaved {
				fmt.Fprintf(out, "Removed %s from saved items\n", args[0])
			} else {
				fmt.Fprintf(out, "Saved %s\n", args[0])
			}
			return nil
		},
	}
}

// NewSavedCmd creates the "saved" subcommand.
func NewSavedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saved",
		Short: "List saved items",
		Args:  cobra.NoArgs,
		RunE:  runSaved,
	}

	cmd.Flags().Bool("ids-only", false, "Print only product ids")

	return cmd
}

func runSaved(cmd *cobra.Command, _ []string) error {
	idsOnly, _ := cmd.Flags().GetBool("ids-only")
	out := cmd.OutOrStdout()

	app, cleanup, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := requireUser(app); err != nil {
		return err
	}

	ids := app.Session.SavedItemIDs()
	if len(ids) == 0 {
		fmt.Fprintln(out, "No saved items.")
		return nil
	}
	if idsOnly {
		for _, id := range ids {
			fmt.Fprintln(out, id)
		}
		return nil
	}

	ctx := cmd.Context()
	previews := make([]core.ProductPreview, 0, len(ids))
	for _, id := range ids {
		p, err := app.Cache.GetProduct(ctx, id)
		if err != nil {
			// A saved id may refer to a product that was since removed.
			if errors.Is(err, core.ErrNotFound) {
				continue
			}
			return apiExitError(err)
		}
		previews = append(previews, core.ProductPreview{
			ProductID:       p.ProductID,
			ProductName:     p.ProductName,
			DiscountedPrice: p.DiscountedPrice,
			Rating:          p.Rating,
		})
	}
	printPreviews(out, previews)
	return nil
}
