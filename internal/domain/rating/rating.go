// Package rating implements the confidence-weighted pairwise rating model.
//
// The model is a logistic comparison akin to Elo. Each side's step size is
// its own deviation, 500/(games+2), divided by a dampener derived from the
// opponent's deviation. New items therefore move fast, and established items
// move little when they meet a newcomer. Deltas are zero-sum only when both
// sides have played the same number of games.
package rating

import (
	"fmt"
	"math"

	"github.com/okian/flagrank/internal/domain/model"
)

// Default model parameters.
const (
	defaultScale           = 500.0
	defaultDeviationBase   = 500.0
	defaultDampenerDivisor = 50.0
	defaultMinDampener     = 1.0
	defaultMaxDampener     = 2.0
	priorGames             = 2
)

// Side is the state of one participant that the model reads.
type Side struct {
	Rating float64
	Games  int
}

// Change describes how one side's rating moves for a single outcome.
type Change struct {
	Result    model.Result
	Expected  float64 // expected score against the opponent
	Actual    float64 // 1, 0.5 or 0
	Deviation float64 // own confidence term before the update
	Dampener  float64 // divisor derived from the opponent's deviation
	Delta     float64 // rating change to apply
}

// Surprise is actual minus expected score.
func (c Change) Surprise() float64 {
	return c.Actual - c.Expected
}

// Model computes rating deltas. It holds only parameters and is safe for
// concurrent use.
type Model struct {
	scale           float64
	deviationBase   float64
	dampenerDivisor float64
	minDampener     float64
	maxDampener     float64
}

// New creates a model with the default parameters, adjusted by opts.
func New(opts ...Option) *Model {
	m := &Model{
		scale:           defaultScale,
		deviationBase:   defaultDeviationBase,
		dampenerDivisor: defaultDampenerDivisor,
		minDampener:     defaultMinDampener,
		maxDampener:     defaultMaxDampener,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// QScore is 10^(rating/scale).
func (m *Model) QScore(r float64) float64 {
	return math.Pow(10, r/m.scale)
}

// Expected returns the expected score of self against other,
// q(self) / (q(self) + q(other)). It is evaluated in the equivalent
// logistic form so very large ratings do not overflow.
func (m *Model) Expected(self, other float64) float64 {
	return 1 / (1 + math.Pow(10, (other-self)/m.scale))
}

// Deviation is the confidence term for an item with the given game count.
func (m *Model) Deviation(games int) float64 {
	if games < 0 {
		games = 0
	}
	return m.deviationBase / float64(games+priorGames)
}

// Dampener turns the opponent's deviation into a step divisor.
func (m *Model) Dampener(otherDeviation float64) float64 {
	return clamp(otherDeviation/m.dampenerDivisor, m.minDampener, m.maxDampener)
}

// Deltas computes both sides' changes for outcome o. Neither side is
// mutated; callers apply Change.Delta and record Change.Result.
func (m *Model) Deltas(a, b Side, o model.Outcome) (Change, Change, error) {
	if !o.Valid() {
		return Change{}, Change{}, fmt.Errorf("%w: %d", model.ErrInvalidOutcome, o)
	}
	ra, rb := o.Results()
	return m.change(a, b, ra), m.change(b, a, rb), nil
}

func (m *Model) change(self, other Side, r model.Result) Change {
	c := Change{
		Result:    r,
		Expected:  m.Expected(self.Rating, other.Rating),
		Actual:    r.Score(),
		Deviation: m.Deviation(self.Games),
		Dampener:  m.Dampener(m.Deviation(other.Games)),
	}
	c.Delta = c.Surprise() * c.Deviation / c.Dampener
	return c
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
