package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/oducru/runclub/internal/domain/model"
	"github.com/oducru/runclub/internal/domain/record"
	"github.com/oducru/runclub/pkg/logger"
	"github.com/oducru/runclub/pkg/metrics"
)

// Store reads and writes events and RSVPs through two tables.
type Store struct {
	events  Table
	rsvps   Table
	now     func() time.Time
	log     logger.Logger
	closers []func() error
}

// NewStore creates a Store over the events and RSVP tables.
func NewStore(events, rsvps Table, opts ...Option) *Store {
	s := &Store{
		events: events,
		rsvps:  rsvps,
		now:    time.Now,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveEvent appends e to the events table and returns it as stored, with
// defaults applied and CreatedAt set.
func (s *Store) SaveEvent(ctx context.Context, e model.Event) (model.Event, error) {
	row := record.EventRow(e, s.now())
	if err := s.events.Append(ctx, row); err != nil {
		return model.Event{}, err
	}
	metrics.RecordEventCreated()
	s.log.Debug(ctx, "event stored", logger.String("event_id", e.ID))
	return record.ParseEvent(row), nil
}

// FindEvent returns the first event whose id equals id. Lookup misses
// satisfy errors.Is(err, record.ErrNotFound).
func (s *Store) FindEvent(ctx context.Context, id string) (model.Event, error) {
	rows, err := s.events.Rows(ctx)
	if err != nil {
		return model.Event{}, err
	}
	return record.FindEvent(rows, id)
}

// SaveRSVP appends r to the RSVP table. A blank timestamp is filled from the clock.
func (s *Store) SaveRSVP(ctx context.Context, r model.RSVP) error {
	if strings.TrimSpace(r.Timestamp) == "" {
		r.Timestamp = record.FormatTimestamp(s.now())
	}
	if err := s.rsvps.Append(ctx, record.RSVPRow(r)); err != nil {
		return err
	}
	metrics.RecordRSVPSubmitted()
	return nil
}

// Close releases the backend connections.
func (s *Store) Close() error {
	var errs []error
	for _, fn := range s.closers {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
