package snapshot

import "github.com/okian/flagrank/pkg/logger"

// DefaultKeep is the number of previous generations kept next to the latest.
const DefaultKeep = 3

type settings struct {
	keep int
	log  logger.Logger
}

func defaults() settings {
	return settings{keep: DefaultKeep, log: logger.Nop()}
}

// Option configures a snapshot store or scheduler.
type Option func(*settings)

// WithKeep sets how many previous generations survive a save. Zero keeps
// only the latest.
func WithKeep(n int) Option {
	return func(s *settings) {
		if n >= 0 {
			s.keep = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l
		}
	}
}
