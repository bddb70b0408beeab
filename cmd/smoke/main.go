package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/oducru/runclub/internal/smoke"
)

// Default configuration constants.
const (
	defaultNumEvents = 6
	defaultWorkers   = 4
	defaultTimeout   = 60 * time.Second
	defaultRunLimit  = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numEvents  = flag.Int("events", defaultNumEvents, "Number of sample events to create")
		workers    = flag.Int("workers", defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		invite     = flag.Bool("invite", false, "Also call /api/generate-invitation")
		outputFile = flag.String("output", "", "Write a JSON report to this file")
		logFile    = flag.String("log", "", "Also write logs to this file")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoke.ShowHelp()
		return
	}

	if err := smoke.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunLimit)
	defer cancel()

	cfg := &smoke.Config{
		BaseURL:    *baseURL,
		NumEvents:  *numEvents,
		Workers:    *workers,
		Timeout:    *timeout,
		Invitation: *invite,
		OutputFile: *outputFile,
		Verbose:    *verbose,
	}

	if _, err := smoke.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Smoke test failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
