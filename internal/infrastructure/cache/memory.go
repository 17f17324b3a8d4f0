package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is an in-process fallback rate limiter used when Redis is
// disabled. Counters reset when their window elapses.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
}

type memoryWindow struct {
	count      int
	expireTime time.Time
}

// NewMemoryLimiter creates a new in-memory rate limiter
func NewMemoryLimiter() *MemoryLimiter {
	limiter := &MemoryLimiter{
		windows: make(map[string]*memoryWindow),
	}

	// Start cleanup goroutine to remove expired windows
	go limiter.cleanupExpired()

	return limiter
}

// Allow increments the counter for key and reports whether the caller is
// still within limit for the current window.
func (ml *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	now := time.Now()
	w, exists := ml.windows[key]
	if !exists || now.After(w.expireTime) {
		ml.windows[key] = &memoryWindow{count: 1, expireTime: now.Add(window)}
		return limit >= 1, nil
	}

	w.count++
	return w.count <= limit, nil
}

// cleanupExpired periodically removes expired windows
func (ml *MemoryLimiter) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		ml.mu.Lock()
		now := time.Now()
		for key, w := range ml.windows {
			if now.After(w.expireTime) {
				delete(ml.windows, key)
			}
		}
		ml.mu.Unlock()
	}
}
