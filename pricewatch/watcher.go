package pricewatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/beij-labs/beijshop/core"
)

var watchCronParser = cron.NewParser(
	cron.Minute |
		cron.Hour |
		cron.Dom |
		cron.Month |
		cron.Dow,
)

// ParseSchedule validates a five-field cron expression. Expressions are
// interpreted in UTC; timezone prefixes are rejected.
func ParseSchedule(expr string) (cron.Schedule, error) {
	clean := strings.TrimSpace(expr)
	if clean == "" {
		return nil, errors.New("pricewatch: cron expression is required")
	}

	upper := strings.ToUpper(clean)
	if strings.Contains(upper, "CRON_TZ=") || strings.Contains(upper, "TZ=") {
		return nil, errors.New("pricewatch: cron expression must be UTC-only (timezone prefixes are not allowed)")
	}

	schedule, err := watchCronParser.Parse(clean)
	if err != nil {
		return nil, fmt.Errorf("pricewatch: invalid cron expression: %w", err)
	}
	return schedule, nil
}

// Source yields the products whose prices the watcher should poll.
type Source interface {
	WatchedProducts(ctx context.Context) ([]core.Product, error)
}

// Sink receives one observation per successfully quoted product.
type Sink func(quote core.PriceQuote)

// WatcherConfig configures the background price watcher.
type WatcherConfig struct {
	Client   *LiveClient
	Source   Source
	Sink     Sink
	Schedule cron.Schedule
	Now      func() time.Time
	Logger   *slog.Logger
}

// Watcher polls live prices on a cron schedule. Quote failures for
// individual products are logged and skipped; they never stop the watch.
type Watcher struct {
	id       string
	client   *LiveClient
	source   Source
	sink     Sink
	schedule cron.Schedule
	now      func() time.Time
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher creates a watcher instance.
func NewWatcher(cfg WatcherConfig) (*Watcher, error) {
	if cfg.Client == nil {
		return nil, errors.New("pricewatch: watcher client is nil")
	}
	if cfg.Source == nil {
		return nil, errors.New("pricewatch: watcher source is nil")
	}
	if cfg.Schedule == nil {
		return nil, errors.New("pricewatch: watcher schedule is nil")
	}
	if cfg.Sink == nil {
		cfg.Sink = func(core.PriceQuote) {}
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Watcher{
		id:       uuid.New().String(),
		client:   cfg.Client,
		source:   cfg.Source,
		sink:     cfg.Sink,
		schedule: cfg.Schedule,
		now:      cfg.Now,
		logger:   cfg.Logger,
	}, nil
}

// ID returns the watcher's unique identifier.
func (w *Watcher) ID() string {
	return w.id
}

// Start launches background polling. Calling Start on a running watcher
// is a no-op.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.cancel != nil {
		w.mu.Unlock()
		return
	}
	loopCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	w.cancel = cancel
	w.done = done
	w.mu.Unlock()

	go w.loop(loopCtx, done)
}

// Stop cancels polling and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	done := w.done
	w.cancel = nil
	w.done = nil
	w.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// RunOnce performs a single poll pass outside the schedule.
func (w *Watcher) RunOnce(ctx context.Context) error {
	products, err := w.source.WatchedProducts(ctx)
	if err != nil {
		return fmt.Errorf("pricewatch: listing watched products: %w", err)
	}

	for _, product := range products {
		if product.ProductLink == "" {
			continue
		}
		quote, err := w.client.Quote(ctx, product.ProductLink)
		if err != nil {
			w.logger.Warn("live price quote failed",
				"watch_id", w.id,
				"product_id", product.ProductID,
				"error", err,
			)
			continue
		}
		if !quote.Success {
			w.logger.Debug("no live price available",
				"watch_id", w.id,
				"product_id", product.ProductID,
				"message", quote.Message,
			)
			continue
		}
		w.sink(core.PriceQuote{
			ProductID:  product.ProductID,
			Price:      quote.Price,
			ObservedAt: w.now(),
		})
	}
	return nil
}

func (w *Watcher) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		now := w.now()
		wait := w.schedule.Next(now).Sub(now)
		if wait < 0 {
			wait = 0
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if err := w.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Warn("price watch pass failed", "watch_id", w.id, "error", err)
		}
	}
}
