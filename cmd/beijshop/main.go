package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/beij-labs/beijshop/cli"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "beijshop",
	Short: "BeijShop storefront CLI",
	Long:  "BeijShop — a CLI for browsing, comparing, and saving products from the BeijShop catalog.",
	// SilenceUsage prevents printing usage on every error
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to beijshop.yaml (default: discovered)")
	rootCmd.PersistentFlags().String("api-url", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose/debug logging")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("beijshop version %s\n", version))

	rootCmd.AddCommand(cli.NewLoginCmd())
	rootCmd.AddCommand(cli.NewLogoutCmd())
	rootCmd.AddCommand(cli.NewRegisterCmd())
	rootCmd.AddCommand(cli.NewWhoamiCmd())
	rootCmd.AddCommand(cli.NewProfileCmd())
	rootCmd.AddCommand(cli.NewBrowseCmd())
	rootCmd.AddCommand(cli.NewShowCmd())
	rootCmd.AddCommand(cli.NewCompareCmd())
	rootCmd.AddCommand(cli.NewSaveCmd())
	rootCmd.AddCommand(cli.NewSavedCmd())
	rootCmd.AddCommand(cli.NewHistoryCmd())
	rootCmd.AddCommand(cli.NewRecommendCmd())
	rootCmd.AddCommand(cli.NewWatchCmd())
	rootCmd.AddCommand(cli.NewAdminCmd())
}
