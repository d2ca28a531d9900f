package fetch

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// breakerSet maintains one circuit breaker per upstream host.
type breakerSet struct {
	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
	settings gobreaker.Settings
}

func newBreakerSet() *breakerSet {
	return &breakerSet{
		breakers: make(map[string]*gobreaker.CircuitBreaker),
		settings: gobreaker.Settings{
			MaxRequests: 3,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().
					Str("host", name).
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("fetch circuit breaker state change")
			},
		},
	}
}

func (b *breakerSet) get(host string) *gobreaker.CircuitBreaker {
	b.mu.Lock()
	defer b.mu.Unlock()
	cb, ok := b.breakers[host]
	if !ok {
		settings := b.settings
		settings.Name = host
		cb = gobreaker.NewCircuitBreaker(settings)
		b.breakers[host] = cb
	}
	return cb
}
