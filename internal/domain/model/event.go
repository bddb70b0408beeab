// Package model contains domain models passed between layers.
package model

// Placeholder values written in place of optional fields the caller left blank.
const (
	DefaultDistance = "Not specified"
	DefaultVibe     = "N/A"
	DefaultRSVPRef  = "N/A"
)

// Event is a run-club event as stored in the events table.
// Fields mirror the JSON body of POST /api/create-event.
type Event struct {
	ID        string `json:"eventId"`
	Title     string `json:"eventTitle"`
	Date      string `json:"eventDate"`
	Time      string `json:"eventTime"`
	Location  string `json:"location"`
	PaceRange string `json:"paceRange"`
	Distance  string `json:"distance,omitempty"`
	Vibe      string `json:"vibe,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"` // ISO-8601, set at write time
}

// RSVP is one attendee submission. EventID is not checked against stored events.
type RSVP struct {
	EventID    string `json:"eventId,omitempty"`
	EventTitle string `json:"eventTitle,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Pace       string `json:"pace"`
	Experience string `json:"experience"`
	Timestamp  string `json:"timestamp"` // client supplied
}
