package session

import (
	"context"
	"sync"
	"time"

	"github.com/saferoute/saferoute/internal/geocoding"
)

// DefaultSearchDebounce is the quiet period after the last keystroke
// before a search request is issued.
const DefaultSearchDebounce = 300 * time.Millisecond

// SearchFunc performs the actual location search.
type SearchFunc func(ctx context.Context, query string) ([]geocoding.Location, error)

// DeliverFunc receives the results of the most recent query. It is never
// called for a superseded query.
type DeliverFunc func(query string, results []geocoding.Location)

// SearchDebouncer coalesces keystrokes into search requests. Each call to
// Search restarts the quiet-period timer; only the latest query by issue
// order may deliver results, even when an older request finishes later.
type SearchDebouncer struct {
	delay   time.Duration
	search  SearchFunc
	deliver DeliverFunc

	mu    sync.Mutex
	seq   uint64
	timer *time.Timer
}

// NewSearchDebouncer creates a debouncer. A zero delay uses
// DefaultSearchDebounce.
func NewSearchDebouncer(delay time.Duration, search SearchFunc, deliver DeliverFunc) *SearchDebouncer {
	if delay == 0 {
		delay = DefaultSearchDebounce
	}
	return &SearchDebouncer{
		delay:   delay,
		search:  search,
		deliver: deliver,
	}
}

// Search schedules a query after the quiet period, cancelling any pending
// one. The previous query's results, if still in flight, are discarded.
func (d *SearchDebouncer) Search(ctx context.Context, query string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.delay, func() {
		d.run(ctx, seq, query)
	})
}

// Stop cancels any pending search. Results of an already-running search
// are still discarded if Stop was followed by a newer query.
func (d *SearchDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *SearchDebouncer) run(ctx context.Context, seq uint64, query string) {
	results, err := d.search(ctx, query)
	if err != nil {
		// The search layer degrades to empty results; treat any residual
		// error the same way.
		results = nil
	}

	d.mu.Lock()
	superseded := seq != d.seq
	d.mu.Unlock()

	if superseded {
		return
	}

	d.deliver(query, results)
}
