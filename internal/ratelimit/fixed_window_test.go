package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFixedWindow_TwentyFirstRequestRejected(t *testing.T) {
	ts := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	f := NewFixedWindow(20, 15*time.Minute, WithClock(func() time.Time { return ts }))

	for i := 1; i <= 20; i++ {
		d := f.Allow("10.0.0.1")
		require.True(t, d.Allowed, "request %d should pass", i)
		require.Equal(t, 20-i, d.Remaining)
	}

	d := f.Allow("10.0.0.1")
	require.False(t, d.Allowed)
	require.Equal(t, 0, d.Remaining)
	require.Equal(t, 15*time.Minute, d.RetryAfter)
	require.Equal(t, ts.Add(15*time.Minute), d.ResetAt)

	// other callers are unaffected
	require.True(t, f.Allow("10.0.0.2").Allowed)
}

func TestFixedWindow_ResetsAfterPeriod(t *testing.T) {
	ts := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	f := NewFixedWindow(2, time.Minute, WithClock(func() time.Time { return ts }))

	require.True(t, f.Allow("k").Allowed)
	ts = ts.Add(30 * time.Second)
	require.True(t, f.Allow("k").Allowed)
	d := f.Allow("k")
	require.False(t, d.Allowed)
	require.Equal(t, 30*time.Second, d.RetryAfter)

	// window is anchored at the first request, not the last
	ts = ts.Add(30 * time.Second)
	d = f.Allow("k")
	require.True(t, d.Allowed)
	require.Equal(t, 1, d.Remaining)
}

func TestFixedWindow_PurgeExpired(t *testing.T) {
	ts := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	f := NewFixedWindow(5, time.Minute, WithClock(func() time.Time { return ts }))

	f.Allow("a")
	ts = ts.Add(45 * time.Second)
	f.Allow("b")
	ts = ts.Add(30 * time.Second)

	require.Equal(t, 1, f.PurgeExpired())
	require.Equal(t, 1, f.Len())
}

func TestFixedWindow_Describe(t *testing.T) {
	require.Equal(t, "20 requests per 15 minutes", NewFixedWindow(20, 15*time.Minute).Describe())
	require.Equal(t, "100 requests per hour", NewFixedWindow(100, time.Hour).Describe())
	require.Equal(t, "5 requests per 30s", NewFixedWindow(5, 30*time.Second).Describe())
}
