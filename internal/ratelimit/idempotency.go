package ratelimit

import (
	"sync"
	"time"
)

// IdempotencyStatus is the state of an idempotency entry
type IdempotencyStatus string

const (
	StatusProcessing IdempotencyStatus = "processing"
	StatusCompleted  IdempotencyStatus = "completed"
	StatusFailed     IdempotencyStatus = "failed"
)

// IdempotencyResult is the outcome of checking an idempotency key
type IdempotencyResult struct {
	IsDuplicate   bool
	ShouldProcess bool
	Status        IdempotencyStatus
	// StatusCode and Response replay the stored result for completed entries
	StatusCode int
	Response   []byte
}

type idempotencyEntry struct {
	status     IdempotencyStatus
	statusCode int
	response   []byte
	createdAt  time.Time
	updatedAt  time.Time
}

// IdempotencyGuard tracks per (client, key) request state: absent →
// processing → completed or failed. Entries expire after the TTL regardless
// of state; an expired key is treated as brand-new.
type IdempotencyGuard struct {
	mu      sync.Mutex
	entries map[string]*idempotencyEntry
	ttl     time.Duration
	sweep   time.Duration
	stop    chan struct{}
	once    sync.Once
}

// NewIdempotencyGuard creates a guard with the given entry TTL (default 1h)
func NewIdempotencyGuard(ttl time.Duration) *IdempotencyGuard {
	if ttl == 0 {
		ttl = time.Hour
	}
	g := &IdempotencyGuard{
		entries: make(map[string]*idempotencyEntry),
		ttl:     ttl,
		sweep:   time.Minute,
		stop:    make(chan struct{}),
	}
	go g.sweepRoutine()
	return g
}

// Check evaluates a key. A new key starts "processing" and is allowed
// through; a duplicate while processing is rejected; a completed key replays
// the stored response; a failed key resets to processing and may retry.
func (g *IdempotencyGuard) Check(clientID, key string) IdempotencyResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	k := limiterKey(clientID, key)

	entry, ok := g.entries[k]
	if ok && now.Sub(entry.createdAt) > g.ttl {
		delete(g.entries, k)
		ok = false
	}

	if !ok {
		g.entries[k] = &idempotencyEntry{
			status:    StatusProcessing,
			createdAt: now,
			updatedAt: now,
		}
		return IdempotencyResult{
			ShouldProcess: true,
			Status:        StatusProcessing,
		}
	}

	switch entry.status {
	case StatusCompleted:
		return IdempotencyResult{
			IsDuplicate: true,
			Status:      StatusCompleted,
			StatusCode:  entry.statusCode,
			Response:    entry.response,
		}
	case StatusFailed:
		entry.status = StatusProcessing
		entry.updatedAt = now
		return IdempotencyResult{
			IsDuplicate:   true,
			ShouldProcess: true,
			Status:        StatusProcessing,
		}
	default:
		return IdempotencyResult{
			IsDuplicate: true,
			Status:      StatusProcessing,
		}
	}
}

// StoreResponse records the completed response for replay
func (g *IdempotencyGuard) StoreResponse(clientID, key string, statusCode int, response []byte) {
	g.mu.Lock()
	defer g.mu.Unlock()

	k := limiterKey(clientID, key)
	entry, ok := g.entries[k]
	if !ok {
		entry = &idempotencyEntry{createdAt: time.Now()}
		g.entries[k] = entry
	}
	entry.status = StatusCompleted
	entry.statusCode = statusCode
	entry.response = response
	entry.updatedAt = time.Now()
}

// MarkFailed transitions an entry to failed so a retry is allowed
func (g *IdempotencyGuard) MarkFailed(clientID, key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if entry, ok := g.entries[limiterKey(clientID, key)]; ok {
		entry.status = StatusFailed
		entry.updatedAt = time.Now()
	}
}

func (g *IdempotencyGuard) sweepRoutine() {
	ticker := time.NewTicker(g.sweep)
	defer ticker.Stop()

	for {
		select {
		case <-g.stop:
			return
		case <-ticker.C:
			now := time.Now()
			g.mu.Lock()
			for key, entry := range g.entries {
				if now.Sub(entry.createdAt) > g.ttl {
					delete(g.entries, key)
				}
			}
			g.mu.Unlock()
		}
	}
}

// Close stops the background sweep
func (g *IdempotencyGuard) Close() {
	g.once.Do(func() { close(g.stop) })
}
