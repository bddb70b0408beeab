package service

import (
	"github.com/oducru/runclub/internal/adapters/notify"
	"github.com/oducru/runclub/internal/domain/prompt"
	"github.com/oducru/runclub/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the event and RSVP store.
func WithStore(store Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithGenerator sets the text generation client.
func WithGenerator(g Generator) Option {
	return func(s *Service) {
		s.generator = g
	}
}

// WithIDs sets the event id source.
func WithIDs(ids IDGenerator) Option {
	return func(s *Service) {
		if ids != nil {
			s.ids = ids
		}
	}
}

// WithPromptBuilder sets the builder used for create-event prompts.
// generate-invitation always uses its uniform variant.
func WithPromptBuilder(b *prompt.Builder) Option {
	return func(s *Service) {
		if b != nil {
			s.prompts = b
		}
	}
}

// WithNotifier sets the RSVP notifier.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithRSVPBaseURL sets the site that serves rsvp.html.
func WithRSVPBaseURL(u string) Option {
	return func(s *Service) {
		if u != "" {
			s.rsvpBaseURL = u
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
