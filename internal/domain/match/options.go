package match

import (
	"math/rand/v2"
	"time"

	"github.com/okian/flagrank/pkg/logger"
)

// Option applies a configuration option to the Broker.
type Option func(*Broker)

// WithTTL sets how long a pending match stays resolvable.
func WithTTL(ttl time.Duration) Option {
	return func(b *Broker) {
		if ttl > 0 {
			b.ttl = ttl
		}
	}
}

// WithCapacity caps the pending table; the oldest match is evicted first.
func WithCapacity(n int) Option {
	return func(b *Broker) {
		if n > 0 {
			b.capacity = n
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Broker) {
		if now != nil {
			b.now = now
		}
	}
}

// WithRand sets the source used to draw pairs. The broker only uses it
// under its own lock.
func WithRand(r *rand.Rand) Option {
	return func(b *Broker) {
		if r != nil {
			b.intN = r.IntN
		}
	}
}

// WithLogger sets the broker logger.
func WithLogger(l logger.Logger) Option {
	return func(b *Broker) {
		if l != nil {
			b.log = l
		}
	}
}
