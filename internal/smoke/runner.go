package smoke

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/oducru/runclub/internal/domain/model"
	"github.com/oducru/runclub/pkg/logger"
)

// File permission constants.
const (
	reportFilePermission = 0600
)

// run carries the shared state of one smoke run.
type run struct {
	cfg    *Config
	client *HTTPClient
	log    logger.Logger

	mu    sync.Mutex
	stats *Stats
}

// failf records a failed check.
func (r *run) failf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.log.Warn(context.Background(), "check failed", logger.String("detail", msg))
	r.mu.Lock()
	r.stats.Failures = append(r.stats.Failures, msg)
	r.mu.Unlock()
}

func (r *run) count(f func(s *Stats)) {
	r.mu.Lock()
	f(r.stats)
	r.mu.Unlock()
}

// Run executes every smoke step against cfg.BaseURL. Stats are returned even
// when a step fails.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	r := &run{
		cfg:    cfg,
		client: newHTTPClient(cfg.BaseURL, cfg.Timeout),
		log:    logger.Named("smoke"),
		stats:  &Stats{StartTime: time.Now()},
	}

	r.log.Info(ctx, "starting run club smoke test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("events", cfg.NumEvents),
		logger.Int("workers", cfg.Workers),
		logger.String("timeout", cfg.Timeout.String()),
		logger.Bool("invitation", cfg.Invitation))

	// Step 1: Check service health
	if err := r.checkHealth(ctx); err != nil {
		return r.finish(), fmt.Errorf("%w: service health check: %w", ErrCheckFailed, err)
	}

	// Step 2: Generate sample events
	samples := generateSamples(cfg.NumEvents, time.Now())
	r.stats.EventsGenerated = len(samples)

	// Step 3: Create events concurrently
	created := r.createEvents(ctx, samples)

	// Step 4: Read back each event and RSVP to it
	r.forEach(ctx, created, r.verifyAndRSVP)

	// Step 5: Invitation without persistence
	if cfg.Invitation && len(samples) > 0 {
		r.checkInvitation(ctx, samples[0])
	}

	// Step 6: Error paths
	r.checkErrors(ctx)

	stats := r.finish()

	if cfg.OutputFile != "" {
		if err := saveReport(cfg, created, stats); err != nil {
			r.log.Warn(ctx, "failed to save report", logger.Error(err))
		}
	}

	displayFinalStats(stats)

	if len(stats.Failures) > 0 {
		return stats, fmt.Errorf("%w: %d failures, first: %s", ErrCheckFailed, len(stats.Failures), stats.Failures[0])
	}
	r.log.Info(ctx, "smoke test completed successfully")
	return stats, nil
}

func (r *run) finish() *Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.EndTime = time.Now()
	r.stats.Duration = r.stats.EndTime.Sub(r.stats.StartTime)
	return r.stats
}

// checkHealth verifies the service is running.
func (r *run) checkHealth(ctx context.Context) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := r.client.JSON(ctx, http.MethodGet, "/healthz", nil, &body); err != nil {
		return err
	}
	if body.Status != "ok" {
		return fmt.Errorf("unexpected health status %q", body.Status)
	}
	r.log.Info(ctx, "service is healthy")
	return nil
}

// createEvents submits samples through a worker pool and returns the
// accepted ones in sample order.
func (r *run) createEvents(ctx context.Context, samples []Sample) []Created {
	r.log.Info(ctx, "creating events", logger.Int("count", len(samples)), logger.Int("workers", r.cfg.Workers))

	workers := max(r.cfg.Workers, 1)
	results := make([]*Created, len(samples))
	idx := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				if ctx.Err() != nil {
					return
				}
				results[i] = r.createOne(ctx, samples[i])
			}
		}()
	}

	go func() {
		defer close(idx)
		for i := range samples {
			select {
			case <-ctx.Done():
				return
			case idx <- i:
			}
		}
	}()

	wg.Wait()

	out := make([]Created, 0, len(samples))
	for _, c := range results {
		if c != nil {
			out = append(out, *c)
		}
	}
	r.log.Info(ctx, "event creation completed",
		logger.Int("created", r.stats.EventsCreated),
		logger.Int("failed", r.stats.EventsFailed))
	return out
}

func (r *run) createOne(ctx context.Context, s Sample) *Created {
	var resp createResponse
	if err := r.client.JSON(ctx, http.MethodPost, "/api/create-event", s.Event, &resp); err != nil {
		r.count(func(st *Stats) { st.EventsFailed++ })
		r.failf("create %q: %v", s.Event.Title, err)
		return nil
	}
	r.count(func(st *Stats) { st.EventsCreated++ })
	if resp.PaceCategory != s.Expected {
		r.count(func(st *Stats) { st.CategoryMismatch++ })
		r.failf("create %q: pace %q classified %s, want %s", s.Event.Title, s.Event.PaceRange, resp.PaceCategory, s.Expected)
	}
	if r.cfg.Verbose {
		r.log.Info(ctx, "event created",
			logger.String("event_id", resp.EventID),
			logger.String("pace_category", resp.PaceCategory))
	}
	return &Created{Sample: s, EventID: resp.EventID, RSVPLink: resp.RSVPLink, Category: resp.PaceCategory}
}

// forEach runs fn for every created event on the worker pool.
func (r *run) forEach(ctx context.Context, created []Created, fn func(context.Context, Created)) {
	sem := make(chan struct{}, max(r.cfg.Workers, 1))
	var wg sync.WaitGroup
	for _, c := range created {
		if ctx.Err() != nil {
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(c Created) {
			defer func() { <-sem; wg.Done() }()
			fn(ctx, c)
		}(c)
	}
	wg.Wait()
}

// verifyAndRSVP reads c back, compares the stored fields and submits one RSVP.
func (r *run) verifyAndRSVP(ctx context.Context, c Created) {
	var got model.Event
	if err := r.client.JSON(ctx, http.MethodGet, "/api/get-event?id="+url.QueryEscape(c.EventID), nil, &got); err != nil {
		r.failf("get %s: %v", c.EventID, err)
		return
	}
	want := wantDefaults(c.Sample.Event)
	want.ID = c.EventID
	if diff := compareEvent(want, got); diff != "" {
		r.failf("get %s: %s", c.EventID, diff)
		return
	}
	r.count(func(st *Stats) { st.EventsVerified++ })

	var ack rsvpResponse
	if err := r.client.JSON(ctx, http.MethodPost, "/api/submit-rsvp", sampleRSVP(c, time.Now()), &ack); err != nil {
		r.failf("rsvp %s: %v", c.EventID, err)
		return
	}
	if !ack.Success {
		r.failf("rsvp %s: success=false (%s)", c.EventID, ack.Message)
		return
	}
	r.count(func(st *Stats) { st.RSVPsSubmitted++ })
}

func (r *run) checkInvitation(ctx context.Context, s Sample) {
	var resp invitationResponse
	if err := r.client.JSON(ctx, http.MethodPost, "/api/generate-invitation", s.Event, &resp); err != nil {
		r.failf("generate-invitation: %v", err)
		return
	}
	if resp.Content == "" {
		r.failf("generate-invitation: empty content")
		return
	}
	r.count(func(st *Stats) { st.InvitationChecked = true })
	r.log.Info(ctx, "invitation generated", logger.Int("content_len", len(resp.Content)))
}

// checkErrors probes the documented failure statuses.
func (r *run) checkErrors(ctx context.Context) {
	probes := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"unknown event", http.MethodGet, "/api/get-event?id=evt_smoke_missing", http.StatusNotFound},
		{"missing id", http.MethodGet, "/api/get-event", http.StatusBadRequest},
		{"wrong verb", http.MethodGet, "/api/create-event", http.StatusMethodNotAllowed},
		{"preflight", http.MethodOptions, "/api/submit-rsvp", http.StatusOK},
	}
	for _, p := range probes {
		status, _, err := r.client.Do(ctx, p.method, p.path, nil)
		if err != nil {
			r.failf("%s: %v", p.name, err)
			continue
		}
		if status != p.want {
			r.failf("%s: status %d, want %d", p.name, status, p.want)
			continue
		}
		r.count(func(st *Stats) { st.NegativeChecks++ })
	}
}

// saveReport writes the created ids and stats as JSON.
func saveReport(cfg *Config, created []Created, stats *Stats) error {
	rep := Report{BaseURL: cfg.BaseURL, Stats: stats, EventIDs: make([]string, 0, len(created))}
	for _, c := range created {
		rep.EventIDs = append(rep.EventIDs, c.EventID)
	}
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(cfg.OutputFile, data, reportFilePermission); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// displayFinalStats prints the run summary.
func displayFinalStats(stats *Stats) {
	fmt.Printf(`
Smoke Test Results
==================
Events generated:   %d
Events created:     %d
Events failed:      %d
Pace mismatches:    %d
Events verified:    %d
RSVPs submitted:    %d
Invitation checked: %t
Error probes ok:    %d
Failures:           %d
Duration:           %s
`,
		stats.EventsGenerated,
		stats.EventsCreated,
		stats.EventsFailed,
		stats.CategoryMismatch,
		stats.EventsVerified,
		stats.RSVPsSubmitted,
		stats.InvitationChecked,
		stats.NegativeChecks,
		len(stats.Failures),
		stats.Duration.Round(time.Millisecond),
	)
}
