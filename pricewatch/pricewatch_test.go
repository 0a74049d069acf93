package pricewatch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/beij-labs/beijshop/core"
)

func newTestLiveClient(t *testing.T, handler http.Handler) *LiveClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewLiveClient(LiveConfig{Endpoint: srv.URL + "/api/live-price"})
	if err != nil {
		t.Fatalf("NewLiveClient() error = %v", err)
	}
	return c
}

func TestLiveClient_SuccessfulQuote(t *testing.T) {
	c := newTestLiveClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("url"); got != "https://example.com/item" {
			t.Errorf("url param = %q", got)
		}
		_ = json.NewEncoder(w).Encode(core.LivePrice{Success: true, Price: "1,299"})
	}))

	quote, err := c.Quote(context.Background(), "https://example.com/item")
	if err != nil {
		t.Fatalf("Quote: unexpected error: %v", err)
	}
	if !quote.Success || quote.Price != "1,299" {
		t.Fatalf("Quote = %+v", quote)
	}
}

func TestLiveClient_UnsuccessfulAnswerIsNotAnError(t *testing.T) {
	c := newTestLiveClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(core.LivePrice{Success: false, Message: "price unavailable"})
	}))

	quote, err := c.Quote(context.Background(), "https://example.com/item")
	if err != nil {
		t.Fatalf("Quote: unexpected error: %v", err)
	}
	if quote.Success || quote.Message != "price unavailable" {
		t.Fatalf("Quote = %+v", quote)
	}
}

func TestLiveClient_TransportErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c, err := NewLiveClient(LiveConfig{Endpoint: srv.URL + "/api/live-price"})
	if err != nil {
		t.Fatalf("NewLiveClient() error = %v", err)
	}
	if _, err := c.Quote(context.Background(), "https://example.com/item"); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestParseSchedule(t *testing.T) {
	if _, err := ParseSchedule("*/5 * * * *"); err != nil {
		t.Fatalf("ParseSchedule(*/5 * * * *) error = %v", err)
	}
	if _, err := ParseSchedule(""); err == nil {
		t.Fatal("empty expression should fail")
	}
	if _, err := ParseSchedule("CRON_TZ=UTC * * * * *"); err == nil {
		t.Fatal("timezone prefix should be rejected")
	}
	if _, err := ParseSchedule("not a cron"); err == nil {
		t.Fatal("garbage expression should fail")
	}
}

type staticSource struct {
	products []core.Product
}

func (s staticSource) WatchedProducts(ctx context.Context) ([]core.Product, error) {
	return s.products, nil
}

func TestWatcher_RunOnce(t *testing.T) {
	c := newTestLiveClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("url") {
		case "https://example.com/a":
			_ = json.NewEncoder(w).Encode(core.LivePrice{Success: true, Price: "42"})
		default:
			_ = json.NewEncoder(w).Encode(core.LivePrice{Success: false, Message: "unavailable"})
		}
	}))

	schedule, err := ParseSchedule("0 0 * * *")
	if err != nil {
		t.Fatalf("ParseSchedule: %v", err)
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var quotes []core.PriceQuote
	w, err := NewWatcher(WatcherConfig{
		Client: c,
		Source: staticSource{products: []core.Product{
			{ProductID: "P1", ProductLink: "https://example.com/a"},
			{ProductID: "P2", ProductLink: "https://example.com/b"},
			{ProductID: "P3"}, // no link, skipped entirely
		}},
		Sink:     func(q core.PriceQuote) { quotes = append(quotes, q) },
		Schedule: schedule,
		Now:      func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	if err := w.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: unexpected error: %v", err)
	}
	if len(quotes) != 1 {
		t.Fatalf("quotes = %+v, want exactly one", quotes)
	}
	if quotes[0].ProductID != "P1" || quotes[0].Price != "42" || !quotes[0].ObservedAt.Equal(now) {
		t.Fatalf("quote = %+v", quotes[0])
	}
}

func TestWatcher_StartStop(t *testing.T) {
	c := newTestLiveClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(core.LivePrice{Success: true, Price: "1"})
	}))

	// A far-future schedule: the loop must park and Stop must return
	// promptly without a pass having run.
	schedule, err := ParseSchedule("0 0 1 1 *")
	if err != nil {
		t.Fatalf("ParseSchedule: %v", err)
	}

	w, err := NewWatcher(WatcherConfig{
		Client:   c,
		Source:   staticSource{},
		Schedule: schedule,
	})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	w.Start()
	w.Start() // second Start is a no-op
	w.Stop()
	w.Stop() // second Stop is a no-op
}

// stepSchedule fires a fixed interval after any reference time.
type stepSchedule struct {
	step time.Duration
}

func (s stepSchedule) Next(t time.Time) time.Time {
	return t.Add(s.step)
}

func TestWatcher_LoopWaitsOnTheWatcherClock(t *testing.T) {
	c := newTestLiveClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(core.LivePrice{Success: true, Price: "7"})
	}))

	// The injected clock sits a day ahead of the wall clock. The wait
	// between passes must come from the schedule step alone; measuring
	// it against the wall clock would park the loop for a day.
	now := time.Now().Add(24 * time.Hour)
	quotes := make(chan core.PriceQuote, 1)
	w, err := NewWatcher(WatcherConfig{
		Client: c,
		Source: staticSource{products: []core.Product{
			{ProductID: "P1", ProductLink: "https://example.com/a"},
		}},
		Schedule: stepSchedule{step: 10 * time.Millisecond},
		Now:      func() time.Time { return now },
		Sink: func(q core.PriceQuote) {
			select {
			case quotes <- q:
			default:
			}
		},
	})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	w.Start()
	defer w.Stop()

	select {
	case q := <-quotes:
		if q.ProductID != "P1" || q.Price != "7" {
			t.Fatalf("quote = %+v", q)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no poll ran; the schedule wait did not use the watcher clock")
	}
}
