package store

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is the in-process fixed-window limiter used when no
// Redis address is configured. Same window semantics as RedisLimiter,
// but per process instead of shared.
type MemoryLimiter struct {
	mu     sync.Mutex
	counts map[string]int
	limit  int
	window time.Duration
	start  time.Time
	now    func() time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		counts: make(map[string]int),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, clientID string) (bool, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	windowStart := m.now().Truncate(m.window)
	if !windowStart.Equal(m.start) {
		m.start = windowStart
		m.counts = make(map[string]int)
	}

	m.counts[clientID]++
	if m.counts[clientID] > m.limit {
		retryAfter := windowStart.Add(m.window).Sub(m.now())
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return false, retryAfter, nil
	}
	return true, 0, nil
}
