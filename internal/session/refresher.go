package session

import (
	"context"
	"sync"
	"time"

	"github.com/saferoute/saferoute/internal/daypart"
)

// DefaultTimeRefreshInterval is how often the time context is rebuilt.
const DefaultTimeRefreshInterval = 60 * time.Second

// TimeRefresher rebuilds the time-of-day context on a fixed interval.
// Exactly one ticker runs per refresher regardless of how many times Start
// is called; Stop releases it deterministically.
type TimeRefresher struct {
	interval time.Duration
	onTick   func(daypart.Context)
	now      func() time.Time

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// NewTimeRefresher creates a refresher that calls onTick with a freshly
// built context on every interval. A zero interval uses
// DefaultTimeRefreshInterval.
func NewTimeRefresher(interval time.Duration, onTick func(daypart.Context)) *TimeRefresher {
	if interval == 0 {
		interval = DefaultTimeRefreshInterval
	}
	return &TimeRefresher{
		interval: interval,
		onTick:   onTick,
		now:      time.Now,
	}
}

// Start launches the refresh loop. Calling Start on a running refresher is
// a no-op, so remounts cannot accumulate tickers.
func (r *TimeRefresher) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return
	}
	r.started = true

	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})

	// Immediate tick so consumers never start with a stale context.
	r.onTick(daypart.Build(r.now(), nil, nil))

	go r.loop(ctx, r.done)
}

// Stop cancels the refresh loop and waits for it to exit.
func (r *TimeRefresher) Stop() {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return
	}
	r.started = false
	cancel := r.cancel
	done := r.done
	r.mu.Unlock()

	cancel()
	<-done
}

func (r *TimeRefresher) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.onTick(daypart.Build(r.now(), nil, nil))
		}
	}
}
