package fetch

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// hostLimiter provides per-host token-bucket rate limiting so one slow or
// throttled upstream cannot starve the others.
type hostLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

func newHostLimiter(rps float64, burst int) *hostLimiter {
	return &hostLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    burst,
	}
}

func (l *hostLimiter) get(host string) *rate.Limiter {
	l.mu.RLock()
	limiter, ok := l.limiters[host]
	l.mu.RUnlock()
	if ok {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if limiter, ok := l.limiters[host]; ok {
		return limiter
	}
	limiter = rate.NewLimiter(rate.Limit(l.rps), l.burst)
	l.limiters[host] = limiter
	return limiter
}

// Wait blocks until the host's bucket allows a request or ctx is done.
func (l *hostLimiter) Wait(ctx context.Context, host string) error {
	return l.get(host).Wait(ctx)
}
