// Package ratelimit provides the fixed-window rate limiter and the
// idempotency guard. All state is process-local.
package ratelimit

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// Config holds the limits applied to one endpoint
type Config struct {
	// MaxRequests allowed per window
	MaxRequests int
	// Window is the fixed window length
	Window time.Duration
	// SkipSuccessful excludes successful requests from the count. The caller
	// reports the outcome after the fact via UpdateResult.
	SkipSuccessful bool
	// SkipFailed excludes failed requests from the count
	SkipFailed bool
}

// Decision is the outcome of a rate limit check
type Decision struct {
	Allowed    bool
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// RetryAfterSeconds returns the Retry-After header value, rounded up
func (d Decision) RetryAfterSeconds() int {
	return int(math.Ceil(d.RetryAfter.Seconds()))
}

type windowEntry struct {
	count    int
	resetAt  time.Time
	requests []time.Time
}

// Manager tracks fixed-window counters per (client, endpoint) key. A new
// window starts when the current time passes the entry's reset time; bursts
// exactly at window boundaries are not smoothed.
type Manager struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	sweep   time.Duration
	stop    chan struct{}
	once    sync.Once
}

// NewManager creates a manager and starts the background sweep
func NewManager(sweepInterval time.Duration) *Manager {
	if sweepInterval == 0 {
		sweepInterval = time.Minute
	}
	m := &Manager{
		entries: make(map[string]*windowEntry),
		sweep:   sweepInterval,
		stop:    make(chan struct{}),
	}
	go m.sweepRoutine()
	return m
}

func limiterKey(clientID, endpoint string) string {
	return fmt.Sprintf("%s:%s", clientID, endpoint)
}

// Check counts a request against the window for (clientID, endpoint)
func (m *Manager) Check(clientID, endpoint string, cfg Config) Decision {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	key := limiterKey(clientID, endpoint)

	entry, ok := m.entries[key]
	if !ok || now.After(entry.resetAt) {
		entry = &windowEntry{
			count:   1,
			resetAt: now.Add(cfg.Window),
		}
		entry.requests = append(entry.requests, now)
		m.entries[key] = entry
		return Decision{
			Allowed:   true,
			Remaining: cfg.MaxRequests - 1,
			ResetTime: entry.resetAt,
		}
	}

	if entry.count >= cfg.MaxRequests {
		return Decision{
			Allowed:    false,
			Remaining:  0,
			ResetTime:  entry.resetAt,
			RetryAfter: entry.resetAt.Sub(now),
		}
	}

	entry.count++
	entry.requests = append(entry.requests, now)
	return Decision{
		Allowed:   true,
		Remaining: cfg.MaxRequests - entry.count,
		ResetTime: entry.resetAt,
	}
}

// UpdateResult adjusts the window retroactively once the caller knows the
// request outcome. When the configured skip rule applies, the counter is
// decremented and the last recorded request removed.
func (m *Manager) UpdateResult(clientID, endpoint string, cfg Config, success bool) {
	if (success && !cfg.SkipSuccessful) || (!success && !cfg.SkipFailed) {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[limiterKey(clientID, endpoint)]
	if !ok || entry.count == 0 {
		return
	}
	entry.count--
	if len(entry.requests) > 0 {
		entry.requests = entry.requests[:len(entry.requests)-1]
	}
}

// sweepRoutine deletes entries whose window has fully expired
func (m *Manager) sweepRoutine() {
	ticker := time.NewTicker(m.sweep)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			now := time.Now()
			m.mu.Lock()
			for key, entry := range m.entries {
				if now.After(entry.resetAt) {
					delete(m.entries, key)
				}
			}
			m.mu.Unlock()
		}
	}
}

// Len reports the number of tracked windows
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Close stops the background sweep
func (m *Manager) Close() {
	m.once.Do(func() { close(m.stop) })
}
