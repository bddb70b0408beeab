package repository

import (
	"time"

	"github.com/oducru/runclub/pkg/logger"
)

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithClock sets the time source used for createdAt and missing RSVP timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCloser registers a function run by Store.Close.
func WithCloser(fn func() error) Option {
	return func(s *Store) {
		if fn != nil {
			s.closers = append(s.closers, fn)
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}
