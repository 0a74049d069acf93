package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/beij-labs/beijshop"
	"github.com/beij-labs/beijshop/core"
)

// NewAdminCmd creates the "admin" subcommand and its children. Every
// child requires an admin session; the backend rejects plain tokens.
func NewAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Catalog and account administration",
	}

	cmd.AddCommand(newAdminUsersCmd())
	cmd.AddCommand(newAdminProductCmd())

	return cmd
}

func newAdminUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List all accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, _ := cmd.Flags().GetString("format")
			out := cmd.OutOrStdout()

			app, cleanup, token, err := buildAdminApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			users, err := app.Client.GetAllUsers(cmd.Context(), token)
			if err != nil {
				return apiExitError(err)
			}
			if format == "json" {
				printJSON(out, users)
				return nil
			}
			printUsers(out, users)
			return nil
		},
	}

	cmd.Flags().String("format", "text", "Output format: text | json")

	return cmd
}

func newAdminProductCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Create, update, and delete catalog products",
	}

	cmd.AddCommand(newAdminProductListCmd())
	cmd.AddCommand(newAdminProductCreateCmd())
	cmd.AddCommand(newAdminProductUpdateCmd())
	cmd.AddCommand(newAdminProductDeleteCmd())

	return cmd
}

func newAdminProductListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the full catalog records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, token, err := buildAdminApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			products, err := app.Client.GetAllProducts(cmd.Context(), token)
			if err != nil {
				return apiExitError(err)
			}
			printJSON(cmd.OutOrStdout(), products)
			return nil
		},
	}
}

func newAdminProductCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product from a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inputFile, _ := cmd.Flags().GetString("input-file")
			product, err := readProductFile(inputFile)
			if err != nil {
				return err
			}

			app, cleanup, token, err := buildAdminApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			created, err := app.Client.CreateProduct(cmd.Context(), product, token)
			if err != nil {
				return apiExitError(err)
			}
			app.Cache.Invalidate()
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", created.ProductName, created.ProductID)
			return nil
		},
	}

	cmd.Flags().StringP("input-file", "f", "", "JSON file holding the product record (required)")
	_ = cmd.MarkFlagRequired("input-file")

	return cmd
}

func newAdminProductUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <product-id>",
		Short: "Replace a product from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputFile, _ := cmd.Flags().GetString("input-file")
			product, err := readProductFile(inputFile)
			if err != nil {
				return err
			}

			app, cleanup, token, err := buildAdminApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			updated, err := app.Client.UpdateProduct(cmd.Context(), args[0], product, token)
			if err != nil {
				return apiExitError(err)
			}
			app.Cache.Invalidate()
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", updated.ProductName, updated.ProductID)
			return nil
		},
	}

	cmd.Flags().StringP("input-file", "f", "", "JSON file holding the product record (required)")
	_ = cmd.MarkFlagRequired("input-file")

	return cmd
}

func newAdminProductDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <product-id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, token, err := buildAdminApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := app.Client.DeleteProduct(cmd.Context(), args[0], token); err != nil {
				return apiExitError(err)
			}
			app.Cache.Invalidate()
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

// buildAdminApp builds the app and checks for an admin session up front,
// so commands fail with a clear message before touching the backend.
func buildAdminApp(cmd *cobra.Command) (*beijshop.App, func(), string, error) {
	app, cleanup, err := buildApp(cmd)
	if err != nil {
		return nil, nil, "", err
	}

	user, ok := app.Session.User()
	if !ok {
		cleanup()
		return nil, nil, "", exitError(exitAuth, "not logged in (run \"beijshop login --admin\" first)")
	}
	if !user.IsAdmin {
		cleanup()
		return nil, nil, "", exitError(exitAuth, "the current session is not an admin session")
	}
	return app, cleanup, app.Session.Token(), nil
}

func readProductFile(path string) (core.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return core.Product{}, exitError(exitUsage, "file not found: %s", path)
		}
		return core.Product{}, fmt.Errorf("reading file: %w", err)
	}

	var product core.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return core.Product{}, exitError(exitUsage, "parsing %s: %v", path, err)
	}
	return product, nil
}
