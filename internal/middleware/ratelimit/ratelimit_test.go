package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowWithinBudget(t *testing.T) {
	rl := New(Config{MaxRequestsPerMinute: 3})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.allow("10.0.0.1"))
	}
	assert.False(t, rl.allow("10.0.0.1"))

	// Other clients keep their own bucket.
	assert.True(t, rl.allow("10.0.0.2"))
}

func TestStopTerminatesCleanup(t *testing.T) {
	rl := New(Config{MaxRequestsPerMinute: 5})
	rl.Stop()

	select {
	case <-rl.done:
	default:
		t.Fatal("done channel still open after Stop")
	}
}

func TestRemoveStaleBuckets(t *testing.T) {
	rl := New(Config{MaxRequestsPerMinute: 5})
	defer rl.Stop()

	rl.allow("10.0.0.1")
	rl.allow("10.0.0.2")

	rl.mu.Lock()
	rl.buckets["10.0.0.1"].lastRefill = time.Now().Add(-time.Hour)
	rl.mu.Unlock()

	rl.removeStale(time.Now())

	rl.mu.RLock()
	defer rl.mu.RUnlock()
	assert.NotContains(t, rl.buckets, "10.0.0.1")
	assert.Contains(t, rl.buckets, "10.0.0.2")
}
