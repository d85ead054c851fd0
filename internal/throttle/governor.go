package throttle

import (
	"context"
	"sync"
	"time"
)

// Clock abstracts time for the Governor so tests can run on simulated
// time instead of sleeping for real.
type Clock interface {
	// Now returns the current time. It must be monotonic within a run.
	Now() time.Time

	// Sleep blocks for d or until the context is cancelled.
	Sleep(ctx context.Context, d time.Duration) error
}

// realClock is the production clock.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Governor gates outbound requests with two independent constraints:
// a fixed inter-request delay and a token bucket of capacity limit whose
// tokens return continuously, each exactly one window after it was spent.
// The bucket therefore guarantees at most limit requests in any rolling
// window while still permitting bounded bursts after idle periods, and an
// empty bucket blocks only until the oldest spent token returns, never a
// full window. A constraint configured as zero is inactive.
type Governor struct {
	// delay is the fixed minimum spacing between requests.
	delay time.Duration

	// window is the duration over which at most limit requests may
	// be issued. Zero disables the bucket.
	window time.Duration

	clock Clock

	// mu guards the mutable pacing state below.
	mu sync.Mutex

	// last is the issue time of the previous request.
	last time.Time

	// spent is a ring of the issue times of the last limit requests.
	// The oldest entry determines when the next token is available.
	spent []time.Time
	head  int
	used  int
}

// Option configures a Governor.
type Option func(*Governor)

// WithClock replaces the wall clock, used by tests to simulate time.
func WithClock(c Clock) Option {
	return func(g *Governor) {
		g.clock = c
	}
}

// New creates a Governor enforcing a fixed delay between requests and at
// most limit requests per window. Either constraint may be zero to
// disable it.
func New(delay time.Duration, limit int, window time.Duration, opts ...Option) *Governor {
	g := &Governor{
		delay: delay,
		clock: realClock{},
	}
	if limit > 0 && window > 0 {
		g.window = window
		g.spent = make([]time.Time, limit)
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Wait blocks until both constraints allow the next request.
// The wait is the maximum of the remaining fixed-delay delta and the
// token availability time, computed against a monotonic clock.
func (g *Governor) Wait(ctx context.Context) error {
	g.mu.Lock()
	now := g.clock.Now()

	var wait time.Duration
	if g.delay > 0 && !g.last.IsZero() {
		if remaining := g.delay - now.Sub(g.last); remaining > wait {
			wait = remaining
		}
	}
	if g.spent != nil && g.used == len(g.spent) {
		// Bucket empty: the next token returns one window after the
		// oldest spent timestamp.
		oldest := g.spent[g.head]
		if until := oldest.Add(g.window).Sub(now); until > wait {
			wait = until
		}
	}

	// Commit the issue time before sleeping so the pacing state is
	// consistent if a future caller races the sleep.
	issue := now.Add(wait)
	g.last = issue
	if g.spent != nil {
		if g.used == len(g.spent) {
			g.spent[g.head] = issue
			g.head = (g.head + 1) % len(g.spent)
		} else {
			g.spent[(g.head+g.used)%len(g.spent)] = issue
			g.used++
		}
	}
	g.mu.Unlock()

	if wait > 0 {
		return g.clock.Sleep(ctx, wait)
	}
	return nil
}
