package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/oducru/runclub/internal/adapters/http/api"
	"github.com/oducru/runclub/internal/adapters/http/swagger"
	"github.com/oducru/runclub/internal/adapters/llm"
	"github.com/oducru/runclub/internal/adapters/mq/worker"
	"github.com/oducru/runclub/internal/adapters/notify"
	"github.com/oducru/runclub/internal/adapters/repository"
	service "github.com/oducru/runclub/internal/app"
	"github.com/oducru/runclub/internal/config"
	"github.com/oducru/runclub/internal/domain/prompt"
	"github.com/oducru/runclub/pkg/logger"
	"github.com/oducru/runclub/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants. The write timeout comes from config because
// create-event waits on the model.
const (
	readTimeout               = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
		os.Exit(1)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	srv, cleanup, err := newServer(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to build server", logger.Error(err))
		os.Exit(1)
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.Warn(ctx, "cleanup failed", logger.Error(err))
		}
	}()

	go startSystemMetricsUpdater(ctx)

	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("storage_backend", cfg.StorageBackend),
			logger.String("prompt_mode", cfg.PromptMode),
			logger.Bool("notifications", cfg.NotificationsEnabled()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// newServer wires the store, generator and notifier into the service and
// returns an http.Server ready to listen. cleanup drains pending
// notifications and releases the store.
func newServer(ctx context.Context, cfg *config.Config, log logger.Logger) (*http.Server, func() error, error) {
	mode, err := prompt.ParseMode(cfg.PromptMode)
	if err != nil {
		return nil, nil, err
	}

	store, err := repository.Open(ctx, cfg, log.Named("repository"))
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.StorageBackend, err)
	}

	notifier, stopNotifier, err := newNotifier(cfg, log.Named("notify"))
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	cleanup := func() error {
		// Drain queued notifications before the store goes away.
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(stopNotifier(ctx), store.Close())
	}

	generator := llm.New(cfg.AnthropicAPIKey,
		llm.WithBaseURL(cfg.AnthropicBaseURL),
		llm.WithModel(cfg.Model),
		llm.WithMaxTokens(cfg.MaxTokens),
		llm.WithLogger(log.Named("llm")),
	)

	svc := service.New(
		service.WithStore(store),
		service.WithGenerator(generator),
		service.WithPromptBuilder(prompt.NewBuilder(prompt.WithMode(mode))),
		service.WithNotifier(notifier),
		service.WithRSVPBaseURL(cfg.RSVPBaseURL),
		service.WithLogger(log.Named("service")),
	)

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, api.WithLogger(log.Named("api"))).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      cfg.WriteTimeout(),
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return srv, cleanup, nil
}

// newNotifier returns the RSVP notifier and a func that stops it. With
// Telegram configured, messages go through a background worker pool.
func newNotifier(cfg *config.Config, log logger.Logger) (notify.Notifier, func(context.Context) error, error) {
	if !cfg.NotificationsEnabled() {
		return notify.Nop{}, func(context.Context) error { return nil }, nil
	}
	t, err := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
	if err != nil {
		return nil, nil, fmt.Errorf("telegram notifier: %w", err)
	}
	d := worker.NewDispatcher(t, cfg.NotifyWorkers, cfg.NotifyQueueSize, worker.WithLogger(log))
	// Workers outlive the signal context so Shutdown can drain the queue.
	d.Start(context.Background())
	return d, d.Shutdown, nil
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		// Average pause across all collections so far.
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
