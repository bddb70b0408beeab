// Package smoke drives a running run-club server through every endpoint and
// reports what it saw.
package smoke

import (
	"errors"
	"time"

	"github.com/oducru/runclub/internal/domain/model"
)

// ErrCheckFailed is returned by Run when any step did not behave as expected.
var ErrCheckFailed = errors.New("smoke check failed")

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL    string        // Base URL of the service
	NumEvents  int           // Number of sample events to create
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	Invitation bool          // Also call generate-invitation
	OutputFile string        // Optional JSON report path
	Verbose    bool          // Log every request
}

// Sample is an event to create plus the category the server should report.
type Sample struct {
	Event    model.Event
	Expected string
}

// Created is an event the server accepted.
type Created struct {
	Sample   Sample
	EventID  string
	RSVPLink string
	Category string
}

// Stats holds run statistics.
type Stats struct {
	EventsGenerated   int           `json:"eventsGenerated"`
	EventsCreated     int           `json:"eventsCreated"`
	EventsFailed      int           `json:"eventsFailed"`
	CategoryMismatch  int           `json:"categoryMismatch"`
	EventsVerified    int           `json:"eventsVerified"`
	RSVPsSubmitted    int           `json:"rsvpsSubmitted"`
	InvitationChecked bool          `json:"invitationChecked"`
	NegativeChecks    int           `json:"negativeChecks"`
	Failures          []string      `json:"failures,omitempty"`
	StartTime         time.Time     `json:"startTime"`
	EndTime           time.Time     `json:"endTime"`
	Duration          time.Duration `json:"duration"`
}

// Report is what -output writes.
type Report struct {
	BaseURL  string   `json:"baseUrl"`
	EventIDs []string `json:"eventIds"`
	Stats    *Stats   `json:"stats"`
}

// createResponse mirrors the create-event success body.
type createResponse struct {
	EventID      string `json:"eventId"`
	Content      string `json:"content"`
	RSVPLink     string `json:"rsvpLink"`
	PaceCategory string `json:"paceCategory"`
}

type rsvpResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type invitationResponse struct {
	Content string `json:"content"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}
