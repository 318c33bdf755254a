package contact

import (
	"sync"
	"time"
)

const (
	// DefaultRateLimit is the number of submissions allowed per window.
	DefaultRateLimit = 3
	// DefaultRateWindow is the rate limit window length.
	DefaultRateWindow = time.Hour

	// pruneEvery is how many Allow calls pass between sweeps of expired keys.
	pruneEvery = 256
)

// rateWindow is one client's counter.
type rateWindow struct {
	count   int
	resetAt time.Time
}

// RateLimiter is a per-key fixed-window counter. A window starts at a key's
// first request and resets lazily on the first request after it expires.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	windows map[string]*rateWindow
	calls   int
}

// NewRateLimiter creates a limiter allowing limit requests per window.
// Non-positive values fall back to the defaults.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = DefaultRateLimit
	}
	if window <= 0 {
		window = DefaultRateWindow
	}
	return &RateLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		windows: make(map[string]*rateWindow),
	}
}

// SetClock replaces the limiter's clock (for testing).
func (r *RateLimiter) SetClock(now func() time.Time) {
	r.mu.Lock()
	r.now = now
	r.mu.Unlock()
}

// Allow counts a request for key and reports whether it is within quota.
func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.calls++
	if r.calls%pruneEvery == 0 {
		r.prune(now)
	}

	w, ok := r.windows[key]
	if !ok || !now.Before(w.resetAt) {
		r.windows[key] = &rateWindow{count: 1, resetAt: now.Add(r.window)}
		return true
	}
	if w.count >= r.limit {
		return false
	}
	w.count++
	return true
}

// Remaining returns how many requests key may still make in its window.
func (r *RateLimiter) Remaining(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.windows[key]
	if !ok || !r.now().Before(w.resetAt) {
		return r.limit
	}
	return r.limit - w.count
}

// Len returns the number of tracked keys.
func (r *RateLimiter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.windows)
}

// prune drops expired windows. Caller holds r.mu.
func (r *RateLimiter) prune(now time.Time) {
	for key, w := range r.windows {
		if !now.Before(w.resetAt) {
			delete(r.windows, key)
		}
	}
}
