package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCountsDownToZero(t *testing.T) {
	m := NewManager(time.Hour)
	defer m.Close()

	cfg := Config{MaxRequests: 3, Window: time.Minute}

	for i := 0; i < 3; i++ {
		d := m.Check("1.2.3.4", "/api/v1/plans", cfg)
		assert.True(t, d.Allowed)
		assert.Equal(t, 2-i, d.Remaining)
	}

	d := m.Check("1.2.3.4", "/api/v1/plans", cfg)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Greater(t, d.RetryAfterSeconds(), 0)
	assert.LessOrEqual(t, d.RetryAfterSeconds(), 60)
}

func TestCheckKeysAreIndependent(t *testing.T) {
	m := NewManager(time.Hour)
	defer m.Close()

	cfg := Config{MaxRequests: 1, Window: time.Minute}

	assert.True(t, m.Check("1.2.3.4", "/api/v1/plans", cfg).Allowed)
	assert.False(t, m.Check("1.2.3.4", "/api/v1/plans", cfg).Allowed)

	// Different client, same endpoint
	assert.True(t, m.Check("5.6.7.8", "/api/v1/plans", cfg).Allowed)
	// Same client, different endpoint
	assert.True(t, m.Check("1.2.3.4", "/api/v1/zip/validate", cfg).Allowed)
	assert.Equal(t, 3, m.Len())
}

func TestCheckWindowResets(t *testing.T) {
	m := NewManager(time.Hour)
	defer m.Close()

	cfg := Config{MaxRequests: 1, Window: 30 * time.Millisecond}

	require.True(t, m.Check("1.2.3.4", "/api/v1/plans", cfg).Allowed)
	require.False(t, m.Check("1.2.3.4", "/api/v1/plans", cfg).Allowed)

	time.Sleep(40 * time.Millisecond)

	d := m.Check("1.2.3.4", "/api/v1/plans", cfg)
	assert.True(t, d.Allowed, "A new window should start after the reset time")
	assert.Equal(t, 0, d.Remaining)
}

func TestUpdateResultSkipFailed(t *testing.T) {
	m := NewManager(time.Hour)
	defer m.Close()

	cfg := Config{MaxRequests: 1, Window: time.Minute, SkipFailed: true}

	require.True(t, m.Check("1.2.3.4", "/api/v1/plans", cfg).Allowed)
	m.UpdateResult("1.2.3.4", "/api/v1/plans", cfg, false)

	// The failed request was refunded, so the window has room again
	assert.True(t, m.Check("1.2.3.4", "/api/v1/plans", cfg).Allowed)

	// Successful requests still count
	m.UpdateResult("1.2.3.4", "/api/v1/plans", cfg, true)
	assert.False(t, m.Check("1.2.3.4", "/api/v1/plans", cfg).Allowed)
}

func TestUpdateResultSkipSuccessful(t *testing.T) {
	m := NewManager(time.Hour)
	defer m.Close()

	cfg := Config{MaxRequests: 1, Window: time.Minute, SkipSuccessful: true}

	require.True(t, m.Check("1.2.3.4", "/api/v1/plans", cfg).Allowed)
	m.UpdateResult("1.2.3.4", "/api/v1/plans", cfg, true)
	assert.True(t, m.Check("1.2.3.4", "/api/v1/plans", cfg).Allowed)
}

func TestUpdateResultNoSkipConfigured(t *testing.T) {
	m := NewManager(time.Hour)
	defer m.Close()

	cfg := Config{MaxRequests: 1, Window: time.Minute}

	require.True(t, m.Check("1.2.3.4", "/api/v1/plans", cfg).Allowed)
	m.UpdateResult("1.2.3.4", "/api/v1/plans", cfg, false)
	m.UpdateResult("1.2.3.4", "/api/v1/plans", cfg, true)
	assert.False(t, m.Check("1.2.3.4", "/api/v1/plans", cfg).Allowed)
}

func TestUpdateResultUnknownKey(t *testing.T) {
	m := NewManager(time.Hour)
	defer m.Close()

	// Must not panic or create an entry
	m.UpdateResult("1.2.3.4", "/api/v1/plans", Config{MaxRequests: 1, Window: time.Minute, SkipFailed: true}, false)
	assert.Equal(t, 0, m.Len())
}

func TestSweepRemovesExpiredWindows(t *testing.T) {
	m := NewManager(20 * time.Millisecond)
	defer m.Close()

	cfg := Config{MaxRequests: 5, Window: 10 * time.Millisecond}
	m.Check("1.2.3.4", "/api/v1/plans", cfg)
	require.Equal(t, 1, m.Len())

	assert.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 10*time.Millisecond)
}
