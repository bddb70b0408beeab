// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/oducru/runclub/internal/adapters/notify"
	"github.com/oducru/runclub/internal/domain/eventid"
	"github.com/oducru/runclub/internal/domain/model"
	"github.com/oducru/runclub/internal/domain/pace"
	"github.com/oducru/runclub/internal/domain/prompt"
	"github.com/oducru/runclub/internal/domain/record"
	"github.com/oducru/runclub/pkg/logger"
	"github.com/oducru/runclub/pkg/metrics"
)

// Store persists events and RSVPs.
type Store interface {
	SaveEvent(ctx context.Context, e model.Event) (model.Event, error)
	FindEvent(ctx context.Context, id string) (model.Event, error)
	SaveRSVP(ctx context.Context, r model.RSVP) error
}

// Generator produces invitation copy from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// IDGenerator issues event identifiers.
type IDGenerator interface {
	Generate() string
}

// DefaultRSVPBaseURL is used when no site is configured.
const DefaultRSVPBaseURL = "http://localhost:9080"

// CreateResult is the outcome of CreateEvent.
type CreateResult struct {
	EventID      string
	Content      string
	RSVPLink     string
	PaceCategory pace.Category
}

// Service implements the API dependencies for the event flows.
type Service struct {
	store       Store
	generator   Generator
	ids         IDGenerator
	prompts     *prompt.Builder
	notifier    notify.Notifier
	rsvpBaseURL string
	logger      logger.Logger
}

// New constructs a new Service. Store and generator must be supplied with
// WithStore and WithGenerator before the flows that need them are used.
func New(opts ...Option) *Service {
	s := &Service{
		ids:         eventid.NewGenerator(),
		prompts:     prompt.NewBuilder(),
		notifier:    notify.Nop{},
		rsvpBaseURL: DefaultRSVPBaseURL,
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateEvent stores a new event and generates its invitation. If the
// generation call fails after the row was appended the row stays.
func (s *Service) CreateEvent(ctx context.Context, e model.Event) (CreateResult, error) {
	if err := requireFields(
		field{"eventTitle", e.Title},
		field{"eventDate", e.Date},
		field{"eventTime", e.Time},
		field{"location", e.Location},
		field{"paceRange", e.PaceRange},
	); err != nil {
		return CreateResult{}, err
	}
	if s.store == nil || s.generator == nil {
		return CreateResult{}, ErrNotConfigured
	}

	e.ID = s.ids.Generate()
	stored, err := s.store.SaveEvent(ctx, e)
	if err != nil {
		return CreateResult{}, upstream(UpstreamStore, "append event", err)
	}

	guidance := pace.Classify(stored.PaceRange)
	content, err := s.generate(ctx, s.prompts, prompt.FieldsFromEvent(stored), guidance)
	if err != nil {
		s.logger.Warn(ctx, "event stored without invitation",
			logger.String("event_id", stored.ID),
			logger.Error(err))
		return CreateResult{}, err
	}

	s.logger.Info(ctx, "event created",
		logger.String("event_id", stored.ID),
		logger.String("pace_category", guidance.Category.String()))

	return CreateResult{
		EventID:      stored.ID,
		Content:      content,
		RSVPLink:     RSVPLink(s.rsvpBaseURL, stored.ID, e.Title, e.Date, e.Time, e.Location, e.PaceRange),
		PaceCategory: guidance.Category,
	}, nil
}

// GetEvent returns the stored event with the given id. Misses satisfy
// errors.Is(err, record.ErrNotFound).
func (s *Service) GetEvent(ctx context.Context, id string) (model.Event, error) {
	if err := requireFields(field{"id", id}); err != nil {
		return model.Event{}, err
	}
	if s.store == nil {
		return model.Event{}, ErrNotConfigured
	}
	e, err := s.store.FindEvent(ctx, id)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return model.Event{}, err
		}
		return model.Event{}, upstream(UpstreamStore, "read events", err)
	}
	return e, nil
}

// SubmitRSVP stores an attendee response and notifies the organizer.
// A failed notification is logged only; the RSVP is already stored.
func (s *Service) SubmitRSVP(ctx context.Context, r model.RSVP) error {
	if err := requireFields(
		field{"name", r.Name},
		field{"email", r.Email},
	); err != nil {
		return err
	}
	if s.store == nil {
		return ErrNotConfigured
	}
	if err := s.store.SaveRSVP(ctx, r); err != nil {
		return upstream(UpstreamStore, "append rsvp", err)
	}
	if err := s.notifier.NotifyRSVP(ctx, r); err != nil {
		s.logger.Warn(ctx, "rsvp notification failed",
			logger.String("event_id", r.EventID),
			logger.Error(err))
	}
	return nil
}

// GenerateInvitation produces copy for an event without storing it,
// always with the uniform prompt.
func (s *Service) GenerateInvitation(ctx context.Context, e model.Event) (string, error) {
	if s.generator == nil {
		return "", ErrNotConfigured
	}
	return s.generate(ctx, s.prompts.Uniform(), prompt.FieldsFromEvent(e), pace.Classify(e.PaceRange))
}

func (s *Service) generate(ctx context.Context, b *prompt.Builder, f prompt.Fields, g pace.Guidance) (string, error) {
	doc, err := b.Build(f, g)
	if err != nil {
		return "", err
	}
	s.logger.Debug(ctx, "prompt built",
		logger.String("mode", b.Mode().String()),
		logger.String("pace_category", g.Category.String()),
		logger.Int("prompt_len", len(doc)))

	content, err := s.generator.Generate(ctx, doc)
	if err != nil {
		return "", upstream(UpstreamGenerator, "generate", err)
	}
	metrics.RecordInvitationGenerated(g.Category.String(), b.Mode().String())
	return content, nil
}

type field struct {
	name  string
	value string
}

// requireFields is the only request validation: presence, in order.
func requireFields(fields ...field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return &MissingFieldError{Field: f.name}
		}
	}
	return nil
}
