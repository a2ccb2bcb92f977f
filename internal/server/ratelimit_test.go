package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionLimits_GlobalCap(t *testing.T) {
	limits := NewConnectionLimits(2, 10, 1000, 1000)

	ok, _ := limits.Acquire("1.1.1.1")
	require.True(t, ok)
	ok, _ = limits.Acquire("2.2.2.2")
	require.True(t, ok)

	ok, reason := limits.Acquire("3.3.3.3")
	assert.False(t, ok)
	assert.Equal(t, LimitReasonGlobal, reason)

	limits.Release("1.1.1.1")
	ok, _ = limits.Acquire("3.3.3.3")
	assert.True(t, ok)
}

func TestConnectionLimits_PerIPCap(t *testing.T) {
	limits := NewConnectionLimits(100, 2, 1000, 1000)

	ok, _ := limits.Acquire("1.1.1.1")
	require.True(t, ok)
	ok, _ = limits.Acquire("1.1.1.1")
	require.True(t, ok)

	ok, reason := limits.Acquire("1.1.1.1")
	assert.False(t, ok)
	assert.Equal(t, LimitReasonPerIP, reason)

	// the failed per-IP acquire must not leak a global slot
	assert.Equal(t, int64(2), limits.Current())

	// other sources are unaffected
	ok, _ = limits.Acquire("2.2.2.2")
	assert.True(t, ok)
}

func TestConnectionLimits_RateLimit(t *testing.T) {
	limits := NewConnectionLimits(100, 100, 1, 2)

	ok, _ := limits.Acquire("1.1.1.1")
	require.True(t, ok)
	ok, _ = limits.Acquire("1.1.1.1")
	require.True(t, ok)

	ok, reason := limits.Acquire("1.1.1.1")
	assert.False(t, ok)
	assert.Equal(t, LimitReasonRate, reason)
}

func TestConnectionLimits_ReleaseCleansUpIPEntries(t *testing.T) {
	limits := NewConnectionLimits(100, 2, 1000, 1000)

	ok, _ := limits.Acquire("1.1.1.1")
	require.True(t, ok)
	limits.Release("1.1.1.1")

	assert.Equal(t, int64(0), limits.Current())
	limits.mu.Lock()
	_, exists := limits.perIP["1.1.1.1"]
	limits.mu.Unlock()
	assert.False(t, exists)
}

func TestRateLimitMiddleware_Throttles(t *testing.T) {
	srv := newTestServer(&stubSession{})
	srv.limits = NewConnectionLimits(100, 100, 1, 3)

	var throttled bool
	for i := 0; i < 10; i++ {
		rec := doJSON(t, srv, http.MethodGet, "/api/bets/live", "")
		if rec.Code == http.StatusTooManyRequests {
			throttled = true
			break
		}
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.True(t, throttled)
}

func TestRateLimitMiddleware_SkipsHealth(t *testing.T) {
	srv := newTestServer(&stubSession{})
	srv.limits = NewConnectionLimits(100, 100, 0.0001, 1)

	// burn the only token
	doJSON(t, srv, http.MethodGet, "/api/bets/live", "")

	for i := 0; i < 5; i++ {
		rec := doJSON(t, srv, http.MethodGet, "/health/live", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
