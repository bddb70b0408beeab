package smoke

import (
	"fmt"
	"strings"
	"time"

	"github.com/oducru/runclub/internal/domain/model"
)

// createdAtLayout is the millisecond UTC form the server stamps.
const createdAtLayout = "2006-01-02T15:04:05.000Z"

// compareEvent returns a description of every field where got differs from
// want, or "" when they match. CreatedAt is only checked for its format.
func compareEvent(want, got model.Event) string {
	var diffs []string
	check := func(name, w, g string) {
		if w != g {
			diffs = append(diffs, fmt.Sprintf("%s=%q, want %q", name, g, w))
		}
	}
	check("eventId", want.ID, got.ID)
	check("eventTitle", want.Title, got.Title)
	check("eventDate", want.Date, got.Date)
	check("eventTime", want.Time, got.Time)
	check("location", want.Location, got.Location)
	check("paceRange", want.PaceRange, got.PaceRange)
	check("distance", want.Distance, got.Distance)
	check("vibe", want.Vibe, got.Vibe)
	if _, err := time.Parse(createdAtLayout, got.CreatedAt); err != nil {
		diffs = append(diffs, fmt.Sprintf("createdAt=%q is not a UTC millisecond timestamp", got.CreatedAt))
	}
	return strings.Join(diffs, "; ")
}
