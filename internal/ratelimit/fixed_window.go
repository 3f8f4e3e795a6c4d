// Package ratelimit implements a per-key fixed window request limiter.
package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	ResetIn    time.Duration // until the window closes
	RetryAfter time.Duration // zero when allowed
}

type window struct {
	start time.Time
	count int
}

// FixedWindow counts requests per key inside a window that opens on the
// key's first request and resets entirely once it has elapsed.
type FixedWindow struct {
	limit  int
	period time.Duration
	now    func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

// Option tweaks a FixedWindow at construction.
type Option func(*FixedWindow)

// WithClock overrides time.Now.
func WithClock(clock func() time.Time) Option {
	return func(f *FixedWindow) { f.now = clock }
}

// NewFixedWindow allows limit requests per key every period.
func NewFixedWindow(limit int, period time.Duration, opts ...Option) *FixedWindow {
	f := &FixedWindow{
		limit:   limit,
		period:  period,
		now:     time.Now,
		windows: make(map[string]*window),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Allow records a request for key and reports whether it fits the window.
// Rejected requests still count, matching how clients observe the quota.
func (f *FixedWindow) Allow(key string) Decision {
	ts := f.now()

	f.mu.Lock()
	defer f.mu.Unlock()

	w, ok := f.windows[key]
	if !ok || !ts.Before(w.start.Add(f.period)) {
		w = &window{start: ts}
		f.windows[key] = w
	}
	w.count++

	resetAt := w.start.Add(f.period)
	d := Decision{
		Limit:   f.limit,
		ResetAt: resetAt,
		ResetIn: resetAt.Sub(ts),
	}
	if w.count <= f.limit {
		d.Allowed = true
		d.Remaining = f.limit - w.count
		return d
	}
	d.RetryAfter = d.ResetIn
	return d
}

// PurgeExpired drops windows that have fully elapsed.
func (f *FixedWindow) PurgeExpired() int {
	ts := f.now()

	f.mu.Lock()
	defer f.mu.Unlock()

	removed := 0
	for k, w := range f.windows {
		if !ts.Before(w.start.Add(f.period)) {
			delete(f.windows, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (f *FixedWindow) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.windows)
}

// Limit returns the per-window request cap.
func (f *FixedWindow) Limit() int { return f.limit }

// Period returns the window length.
func (f *FixedWindow) Period() time.Duration { return f.period }

// Describe renders the policy for humans, e.g. "20 requests per 15 minutes".
func (f *FixedWindow) Describe() string {
	switch {
	case f.period%time.Hour == 0:
		return fmt.Sprintf("%d requests per %s", f.limit, plural(int(f.period/time.Hour), "hour"))
	case f.period%time.Minute == 0:
		return fmt.Sprintf("%d requests per %s", f.limit, plural(int(f.period/time.Minute), "minute"))
	default:
		return fmt.Sprintf("%d requests per %s", f.limit, f.period)
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
