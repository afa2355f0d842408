package repository

import (
	"github.com/okian/flagrank/internal/domain/rating"
	"github.com/okian/flagrank/pkg/logger"
)

// Option applies a configuration option to the ItemStore.
type Option func(*ItemStore)

// WithModel sets the rating model used to resolve outcomes.
func WithModel(m *rating.Model) Option {
	return func(s *ItemStore) {
		if m != nil {
			s.model = m
		}
	}
}

// WithLogger sets the logger for rating change traces.
func WithLogger(l logger.Logger) Option {
	return func(s *ItemStore) {
		if l != nil {
			s.log = l
		}
	}
}
