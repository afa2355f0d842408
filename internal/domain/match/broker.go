// Package match issues pairwise comparisons and resolves each one at most once.
package match

import (
	"container/list"
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/flagrank/internal/domain/model"
	"github.com/okian/flagrank/internal/domain/rating"
	"github.com/okian/flagrank/pkg/logger"
	"github.com/okian/flagrank/pkg/metrics"
)

// Defaults for the pending table.
const (
	DefaultTTL      = time.Hour
	DefaultCapacity = 100_000
)

// Items is the part of the item store the broker needs.
type Items interface {
	IDs(ctx context.Context) []string
	ApplyOutcome(ctx context.Context, a, b string, o model.Outcome) (rating.Change, rating.Change, error)
}

// Resolution is the applied result of a resolved match.
type Resolution struct {
	Match   model.PendingMatch
	Outcome model.Outcome
	A       rating.Change
	B       rating.Change
}

// Broker tracks pending matches. Create and Resolve hold the broker lock for
// their full duration and Resolve calls into the item store while holding it,
// so the lock order is always broker then store.
type Broker struct {
	mu      sync.Mutex
	pending map[string]*list.Element // id -> element in order
	order   *list.List               // *model.PendingMatch, oldest first

	items    Items
	ttl      time.Duration
	capacity int
	now      func() time.Time
	intN     func(n int) int
	log      logger.Logger
}

// NewBroker creates a broker drawing from items.
func NewBroker(items Items, opts ...Option) *Broker {
	b := &Broker{
		pending:  make(map[string]*list.Element),
		order:    list.New(),
		items:    items,
		ttl:      DefaultTTL,
		capacity: DefaultCapacity,
		now:      time.Now,
		intN:     rand.IntN,
		log:      logger.Nop(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Create draws two distinct items uniformly at random and records a pending
// match between them.
func (b *Broker) Create(ctx context.Context) (model.PendingMatch, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.sweepLocked(ctx, now)

	ids := b.items.IDs(ctx)
	if len(ids) < 2 {
		metrics.RecordMatchRejection("insufficient_items")
		return model.PendingMatch{}, fmt.Errorf("%w: have %d", ErrInsufficientItems, len(ids))
	}

	i := b.intN(len(ids))
	j := b.intN(len(ids))
	for j == i {
		j = b.intN(len(ids))
	}

	for b.order.Len() >= b.capacity {
		b.evictOldestLocked(ctx)
	}

	pm := &model.PendingMatch{
		ID:        uuid.NewString(),
		A:         ids[i],
		B:         ids[j],
		CreatedAt: now,
	}
	b.pending[pm.ID] = b.order.PushBack(pm)

	metrics.RecordMatchCreated()
	metrics.UpdatePendingMatches(b.order.Len())
	b.log.Debug(ctx, "match created",
		logger.String("match_id", pm.ID),
		logger.String("a", pm.A),
		logger.String("b", pm.B),
	)

	return *pm, nil
}

// Resolve applies outcome o to the pending match id and discards it.
// An invalid outcome is rejected before the lookup and leaves the match
// resolvable. A missing, expired, evicted or already resolved id fails with
// ErrUnknownMatch.
func (b *Broker) Resolve(ctx context.Context, id string, o model.Outcome) (Resolution, error) {
	if !o.Valid() {
		metrics.RecordMatchRejection("invalid_outcome")
		return Resolution{}, fmt.Errorf("%w: %d", model.ErrInvalidOutcome, o)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.sweepLocked(ctx, b.now())

	el, ok := b.pending[id]
	if !ok {
		metrics.RecordMatchRejection("unknown_match")
		return Resolution{}, fmt.Errorf("%w: %s", ErrUnknownMatch, id)
	}
	pm := el.Value.(*model.PendingMatch)

	// The match is consumed even if the store rejects it, e.g. after a
	// restore dropped one of its items.
	b.removeLocked(el)
	metrics.UpdatePendingMatches(b.order.Len())

	ca, cb, err := b.items.ApplyOutcome(ctx, pm.A, pm.B, o)
	if err != nil {
		b.log.Warn(ctx, "match could not be applied",
			logger.String("match_id", pm.ID),
			logger.Error(err),
		)
		return Resolution{}, fmt.Errorf("apply match %s: %w", pm.ID, err)
	}

	metrics.RecordMatchResolved(o.Label())
	b.log.Debug(ctx, "match resolved",
		logger.String("match_id", pm.ID),
		logger.String("outcome", o.String()),
	)

	return Resolution{Match: *pm, Outcome: o, A: ca, B: cb}, nil
}

// Sweep drops expired matches and returns how many were removed.
func (b *Broker) Sweep(ctx context.Context) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.sweepLocked(ctx, b.now())
}

// Len returns the number of pending matches.
func (b *Broker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.order.Len()
}

// sweepLocked removes matches older than the TTL. Matches are appended in
// creation order, so it stops at the first live one.
func (b *Broker) sweepLocked(ctx context.Context, now time.Time) int {
	expired := 0
	for el := b.order.Front(); el != nil; el = b.order.Front() {
		pm := el.Value.(*model.PendingMatch)
		if now.Sub(pm.CreatedAt) < b.ttl {
			break
		}
		b.removeLocked(el)
		expired++
	}

	if expired > 0 {
		metrics.RecordMatchesExpired(expired)
		metrics.UpdatePendingMatches(b.order.Len())
		b.log.Debug(ctx, "pending matches expired", logger.Int("count", expired))
	}
	return expired
}

func (b *Broker) evictOldestLocked(ctx context.Context) {
	el := b.order.Front()
	if el == nil {
		return
	}
	pm := el.Value.(*model.PendingMatch)
	b.removeLocked(el)
	metrics.RecordMatchesExpired(1)
	b.log.Debug(ctx, "pending match evicted", logger.String("match_id", pm.ID))
}

func (b *Broker) removeLocked(el *list.Element) {
	pm := b.order.Remove(el).(*model.PendingMatch)
	delete(b.pending, pm.ID)
}
