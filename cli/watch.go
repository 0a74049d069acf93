package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/beij-labs/beijshop"
	"github.com/beij-labs/beijshop/core"
	"github.com/beij-labs/beijshop/pricewatch"
)

// NewWatchCmd creates the "watch" subcommand.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll live prices for saved and compared products",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}

	cmd.Flags().String("schedule", "", "Cron expression (default from config, else every 30 minutes)")
	cmd.Flags().Bool("once", false, "Poll once and exit instead of running on a schedule")

	return cmd
}

func runWatch(cmd *cobra.Command, _ []string) error {
	scheduleFlag, _ := cmd.Flags().GetString("schedule")
	once, _ := cmd.Flags().GetBool("once")
	out := cmd.OutOrStdout()

	app, cleanup, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	liveClient, err := pricewatch.NewLiveClient(pricewatch.LiveConfig{
		Endpoint: app.Config.LivePrice.Endpoint,
	})
	if err != nil {
		return exitError(exitConfig, "%v", err)
	}

	expr := scheduleFlag
	if expr == "" {
		expr = app.Config.LivePrice.Schedule
	}
	if expr == "" {
		expr = "*/30 * * * *"
	}
	schedule, err := pricewatch.ParseSchedule(expr)
	if err != nil {
		return exitError(exitUsage, "%v", err)
	}

	watcher, err := pricewatch.NewWatcher(pricewatch.WatcherConfig{
		Client:   liveClient,
		Source:   &selectionSource{app: app},
		Schedule: schedule,
		Sink: func(q core.PriceQuote) {
			fmt.Fprintf(out, "%s  %s  %s\n", q.ObservedAt.Format("15:04:05"), q.ProductID, q.Price)
		},
	})
	if err != nil {
		return exitError(exitConfig, "%v", err)
	}

	if once {
		if err := watcher.RunOnce(cmd.Context()); err != nil {
			return apiExitError(err)
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher.Start()
	fmt.Fprintf(out, "Watching prices on schedule %q (Ctrl-C to stop)\n", expr)
	<-ctx.Done()
	watcher.Stop()
	fmt.Fprintln(out, "Stopped.")
	return nil
}

// selectionSource yields the products the user cares about right now:
// the saved items plus the compare selection, deduplicated.
type selectionSource struct {
	app *beijshop.App
}

func (s *selectionSource) WatchedProducts(ctx context.Context) ([]core.Product, error) {
	ids := s.app.Session.SavedItemIDs()
	ids = append(ids, s.app.Compare.IDs()...)

	seen := map[string]bool{}
	var products []core.Product
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		p, err := s.app.Cache.GetProduct(ctx, id)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				continue
			}
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

var _ pricewatch.Source = (*selectionSource)(nil)
