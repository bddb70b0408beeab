package smoke

import (
	"fmt"
	"io"
	"os"

	"github.com/oducru/runclub/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging initializes the global logger on stdout, teeing to logFile
// when one is given.
func SetupLogging(logFile string, verbose bool) error {
	var w io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, file)
	}
	if err := logger.InitWithWriter(w); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the smoke tool.
func ShowHelp() {
	os.Stdout.WriteString(`Run Club Smoke Test
===================

Creates sample events against a running server, reads them back, RSVPs to
each one and probes the documented error responses.

Usage:
  go run ./cmd/smoke [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -events int
        Number of sample events to create (default 6)
  -workers int
        Number of concurrent workers (default 4)
  -timeout duration
        HTTP request timeout; create-event waits on the model (default 60s)
  -invite
        Also call /api/generate-invitation
  -output string
        Write a JSON report of created event ids and stats
  -log string
        Also write logs to this file
  -verbose
        Log every created event
  -help
        Show this help message

Examples:
  # One event per pace category against a local sqlite-backed server
  RUNCLUB_STORAGE_BACKEND=sqlite go run ./cmd && go run ./cmd/smoke

  # Larger run with a report
  go run ./cmd/smoke -events 30 -workers 8 -output smoke.json
`)
}
