// Package record maps events and RSVPs to the fixed-order rows stored in
// the append-only tables, and back.
//
// Column order is positional and shared by every reader and writer; the
// table services enforce no schema.
package record

import (
	"strings"
	"time"

	"github.com/oducru/runclub/internal/domain/model"
)

// Column counts of the two tables.
const (
	EventColumns = 9
	RSVPColumns  = 7
)

// timestampLayout matches JavaScript's Date.toISOString output.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// EventHeader is the header row of the events table (A:I).
var EventHeader = []string{ //nolint:gochecknoglobals // table layout
	"eventId", "eventTitle", "eventDate", "eventTime", "location",
	"paceRange", "distance", "vibe", "createdAt",
}

// RSVPHeader is the header row of the RSVP table (A:G).
var RSVPHeader = []string{ //nolint:gochecknoglobals // table layout
	"eventId", "eventTitle", "name", "email", "pace", "experience", "timestamp",
}

// FormatTimestamp renders t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// EventRow serializes e. CreatedAt is always taken from now; any value on e
// is ignored.
func EventRow(e model.Event, now time.Time) []string {
	return []string{
		e.ID,
		e.Title,
		e.Date,
		e.Time,
		e.Location,
		e.PaceRange,
		orDefault(e.Distance, model.DefaultDistance),
		orDefault(e.Vibe, model.DefaultVibe),
		FormatTimestamp(now),
	}
}

// ParseEvent deserializes one data row. Rows shorter than EventColumns are
// padded with empty values.
func ParseEvent(row []string) model.Event {
	col := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return model.Event{
		ID:        col(0),
		Title:     col(1),
		Date:      col(2),
		Time:      col(3),
		Location:  col(4),
		PaceRange: col(5),
		Distance:  col(6),
		Vibe:      col(7),
		CreatedAt: col(8),
	}
}

// FindEvent scans rows in table order, skipping the header at index 0, and
// returns the first event whose id column equals id.
func FindEvent(rows [][]string, id string) (model.Event, error) {
	if len(rows) == 0 {
		return model.Event{}, ErrNoEvents
	}
	for _, row := range rows[1:] {
		if len(row) > 0 && row[0] == id {
			return ParseEvent(row), nil
		}
	}
	return model.Event{}, ErrEventNotFound
}

// RSVPRow serializes r. Missing event references become "N/A".
func RSVPRow(r model.RSVP) []string {
	return []string{
		orDefault(r.EventID, model.DefaultRSVPRef),
		orDefault(r.EventTitle, model.DefaultRSVPRef),
		r.Name,
		r.Email,
		r.Pace,
		r.Experience,
		r.Timestamp,
	}
}

// orDefault treats whitespace-only values as absent.
func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
