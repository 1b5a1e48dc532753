package auth

import (
	"sync"

	"golang.org/x/time/rate"
)

// LoginLimiter throttles login attempts per client key (usually the remote
// IP). Limiters for idle keys are pruned once the map grows past a soft cap
// to bound memory on long-running processes.
type LoginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

const loginLimiterSoftCap = 10000

// NewLoginLimiter allows ratePerSecond sustained attempts with the given
// burst per key.
func NewLoginLimiter(ratePerSecond float64, burst int) *LoginLimiter {
	return &LoginLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(ratePerSecond),
		burst:    burst,
	}
}

// Allow reports whether a login attempt from key may proceed.
func (l *LoginLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= loginLimiterSoftCap {
			l.prune()
		}
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = lim
	}
	return lim.Allow()
}

// prune drops keys whose limiter has regained full burst capacity.
// Caller must hold mu.
func (l *LoginLimiter) prune() {
	for key, lim := range l.limiters {
		if lim.Tokens() >= float64(l.burst) {
			delete(l.limiters, key)
		}
	}
}
