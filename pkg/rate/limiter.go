package rate

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultIdleTimeout = 10 * time.Minute
)

// Limiter limits operations based on a provided key.
type Limiter interface {
	Allow(key string) (bool, error)
}

type keyedLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type localRateLimiter struct {
	limit       rate.Limit
	burst       int
	idleTimeout time.Duration
	now         func() time.Time

	sync.Mutex
	limiters  map[string]*keyedLimiter
	lastSweep time.Time
}

// NewLocalRateLimiter returns an in memory limiter allowing limit operations
// per second for each key. Keys idle for longer than ten minutes are
// forgotten.
func NewLocalRateLimiter(limit rate.Limit) Limiter {
	burst := int(limit)
	if burst < 1 {
		burst = 1
	}

	return &localRateLimiter{
		limit:       limit,
		burst:       burst,
		idleTimeout: defaultIdleTimeout,
		now:         time.Now,
		limiters:    make(map[string]*keyedLimiter),
	}
}

// Allow implements limiter.Allow.
func (l *localRateLimiter) Allow(key string) (bool, error) {
	now := l.now()

	l.Lock()
	l.sweep(now)

	entry, ok := l.limiters[key]
	if !ok {
		entry = &keyedLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now
	l.Unlock()

	return entry.limiter.AllowN(now, 1), nil
}

func (l *localRateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.idleTimeout {
		return
	}

	for key, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > l.idleTimeout {
			delete(l.limiters, key)
		}
	}
	l.lastSweep = now
}

// NoLimiter never limits operations
type NoLimiter struct {
}

// Allow implements limiter.Allow.
func (n *NoLimiter) Allow(key string) (bool, error) {
	return true, nil
}
