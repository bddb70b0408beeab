// Package repository persists events and RSVPs as rows in append-only
// tables backed by Google Sheets, Firebase Realtime Database or SQLite.
package repository

import (
	"context"
	"time"

	"github.com/oducru/runclub/pkg/logger"
	"github.com/oducru/runclub/pkg/metrics"
)

// Table is an append-only sequence of string rows.
type Table interface {
	// Append adds row at the end of the table.
	Append(ctx context.Context, row []string) error
	// Rows returns every row in table order. When the table holds data the
	// first row is the header; an empty table yields no rows at all.
	Rows(ctx context.Context) ([][]string, error)
}

// instrumented records latency and outcome of every call to the wrapped table.
type instrumented struct {
	next    Table
	service string
	log     logger.Logger
}

// Instrument wraps t so calls are counted under service in the upstream metrics.
func Instrument(t Table, service string, log logger.Logger) Table {
	if log == nil {
		log = logger.Nop()
	}
	return &instrumented{next: t, service: service, log: log}
}

func (i *instrumented) Append(ctx context.Context, row []string) error {
	start := time.Now()
	err := i.next.Append(ctx, row)
	i.observe(ctx, "append", start, err)
	return err
}

func (i *instrumented) Rows(ctx context.Context) ([][]string, error) {
	start := time.Now()
	rows, err := i.next.Rows(ctx)
	i.observe(ctx, "rows", start, err)
	return rows, err
}

func (i *instrumented) observe(ctx context.Context, op string, start time.Time, err error) {
	ms := float64(time.Since(start).Nanoseconds()) / 1e6
	metrics.RecordUpstreamCall(i.service, op, err, ms)
	if err != nil {
		i.log.Warn(ctx, "table call failed",
			logger.String("service", i.service),
			logger.String("op", op),
			logger.Float64("latency_ms", ms),
			logger.Error(err))
		return
	}
	i.log.Debug(ctx, "table call",
		logger.String("service", i.service),
		logger.String("op", op),
		logger.Float64("latency_ms", ms))
}
