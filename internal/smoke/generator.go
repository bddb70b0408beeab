package smoke

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/oducru/runclub/internal/domain/model"
	"github.com/oducru/runclub/internal/domain/pace"
)

// paceSamples cycles through every classifier branch, including the
// FAST-over-EASY overlap.
var paceSamples = []struct { //nolint:gochecknoglobals // fixed sample table
	paceRange string
	expected  pace.Category
}{
	{"6:45-7:30/mi", pace.Fast},
	{"11:00-12:30/mi", pace.Easy},
	{"9:00-10:00/mi", pace.Moderate},
	{"Beginner friendly", pace.Easy},
	{"6:30 to 12:00", pace.Fast},
	{"Conversational", pace.Moderate},
}

var locations = []string{ //nolint:gochecknoglobals // fixed sample table
	"Riverside Park",
	"Harbor Trail, north gate",
	"Café Lumen & Track",
}

// generateSamples creates n events dated one week from now.
func generateSamples(n int, now time.Time) []Sample {
	date := now.AddDate(0, 0, 7).Format("2006-01-02")
	out := make([]Sample, n)
	for i := range out {
		p := paceSamples[i%len(paceSamples)]
		e := model.Event{
			Title:     "Smoke Run " + strconv.Itoa(i+1),
			Date:      date,
			Time:      "07:00",
			Location:  locations[i%len(locations)],
			PaceRange: p.paceRange,
		}
		// Leave the optional fields blank on odd samples so defaults are exercised.
		if i%2 == 0 {
			e.Distance = "5K"
			e.Vibe = "Coffee after"
		}
		out[i] = Sample{Event: e, Expected: p.expected.String()}
	}
	return out
}

// sampleRSVP builds a unique attendee for the created event.
func sampleRSVP(c Created, now time.Time) model.RSVP {
	tag := uuid.NewString()
	return model.RSVP{
		EventID:    c.EventID,
		EventTitle: c.Sample.Event.Title,
		Name:       "Smoke Runner " + tag[:8],
		Email:      "smoke+" + tag + "@example.com",
		Pace:       c.Sample.Event.PaceRange,
		Experience: "Intermediate",
		Timestamp:  now.UTC().Format(time.RFC3339),
	}
}

// wantDefaults returns the stored form of e: blank optional fields replaced
// with the placeholders the server writes.
func wantDefaults(e model.Event) model.Event {
	if e.Distance == "" {
		e.Distance = model.DefaultDistance
	}
	if e.Vibe == "" {
		e.Vibe = model.DefaultVibe
	}
	return e
}
