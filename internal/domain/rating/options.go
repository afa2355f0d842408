// Package rating implements the confidence-weighted pairwise rating model.
package rating

// Option applies a configuration option to the Model.
type Option func(*Model)

// WithScale sets the logistic scale: a rating gap of one scale unit makes
// the favourite ten times as likely to win.
func WithScale(scale float64) Option {
	return func(m *Model) {
		if scale > 0 {
			m.scale = scale
		}
	}
}

// WithDeviationBase sets the numerator of the deviation term
// base / (games + 2).
func WithDeviationBase(base float64) Option {
	return func(m *Model) {
		if base > 0 {
			m.deviationBase = base
		}
	}
}

// WithDampener sets how the opponent's deviation damps a step:
// clamp(deviation(other)/divisor, lo, hi).
func WithDampener(divisor, lo, hi float64) Option {
	return func(m *Model) {
		if divisor > 0 && lo > 0 && hi >= lo {
			m.dampenerDivisor = divisor
			m.minDampener = lo
			m.maxDampener = hi
		}
	}
}
