// Package worker delivers queued RSVP notifications in the background so a
// slow notification channel never holds up an RSVP response.
package worker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/oducru/runclub/internal/adapters/mq/queue"
	"github.com/oducru/runclub/internal/domain/model"
	"github.com/oducru/runclub/pkg/logger"
)

// Default worker configuration constants.
const (
	defaultWorkerCount = 2
	defaultSendTimeout = 10 * time.Second
)

// Sentinel errors returned by Dispatcher.NotifyRSVP.
var (
	ErrQueueFull = errors.New("notification queue full")
	ErrStopped   = errors.New("notification dispatcher stopped")
)

// Sender delivers one notification. notify.Telegram satisfies it.
type Sender interface {
	NotifyRSVP(ctx context.Context, r model.RSVP) error
}

// Queue defines how workers receive items.
type Queue interface {
	Dequeue() <-chan queue.Item
}

// InMemoryWorker drains the queue into a Sender.
type InMemoryWorker struct {
	queue       Queue
	sender      Sender
	name        string
	sendTimeout time.Duration
	logger      logger.Logger

	done chan struct{}
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, sender Sender, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:       q,
		sender:      sender,
		name:        "worker",
		sendTimeout: defaultSendTimeout,
		logger:      logger.Nop(),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run delivers items until the queue is closed and drained or ctx ends.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	items := w.queue.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case it, ok := <-items:
			if !ok {
				return
			}
			if err := w.deliver(ctx, it); err != nil {
				w.logger.Warn(ctx, "rsvp notification failed",
					logger.String("event_id", it.EventID),
					logger.Error(err))
			}
		}
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

func (w *InMemoryWorker) deliver(ctx context.Context, it queue.Item) error { //nolint:gocritic // hugeParam: passed by value for channel semantics
	ctx, cancel := context.WithTimeout(ctx, w.sendTimeout)
	defer cancel()
	return w.sender.NotifyRSVP(ctx, it)
}

// Pool manages multiple workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   *queue.InMemoryQueue
	logger  logger.Logger
}

// NewPool creates workerCount workers reading from q. Worker options apply
// to every worker; names are assigned per index.
func NewPool(workerCount int, q *queue.InMemoryQueue, sender Sender, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}
	// Resolve the shared options once for the pool's own logger.
	base := &InMemoryWorker{logger: logger.Nop()}
	for _, opt := range opts {
		opt(base)
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  base.logger.Named("notify-pool"),
	}
	for i := range p.workers {
		wopts := append(append([]Option(nil), opts...), WithName("notify-worker-"+strconv.Itoa(i)))
		p.workers[i] = NewInMemoryWorker(q, sender, wopts...)
	}
	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue and waits for the workers to drain it, or for
// ctx to end.
func (p *Pool) Shutdown(ctx context.Context) error {
	if err := p.queue.Close(); err != nil {
		p.logger.Error(ctx, "error closing queue", logger.Error(err))
	}
	for i, w := range p.workers {
		select {
		case <-w.Done():
		case <-ctx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("shutdown timed out: %w", ctx.Err())
		}
	}
	return nil
}

// Dispatcher queues notifications for a worker pool. It satisfies the
// service's notifier contract; a nil error means queued, not delivered.
type Dispatcher struct {
	queue *queue.InMemoryQueue
	pool  *Pool

	stopOnce sync.Once
	stopErr  error
}

// NewDispatcher builds a queue of the given capacity and a pool of workers
// delivering to sender. Call Start before use and Shutdown on exit.
func NewDispatcher(sender Sender, workers, capacity int, opts ...Option) *Dispatcher {
	q := queue.NewInMemoryQueue(queue.WithCapacity(capacity))
	return &Dispatcher{queue: q, pool: NewPool(workers, q, sender, opts...)}
}

// Start launches the workers. ctx should outlive request contexts.
func (d *Dispatcher) Start(ctx context.Context) { d.pool.Start(ctx) }

// NotifyRSVP queues r for delivery.
func (d *Dispatcher) NotifyRSVP(ctx context.Context, r model.RSVP) error {
	if d.queue.Enqueue(ctx, r) {
		return nil
	}
	if d.queue.IsClosed() {
		return ErrStopped
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return ErrQueueFull
}

// Pending returns the number of queued notifications.
func (d *Dispatcher) Pending() int { return d.queue.Len() }

// Shutdown stops accepting notifications and waits for queued ones to be sent.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.stopOnce.Do(func() { d.stopErr = d.pool.Shutdown(ctx) })
	return d.stopErr
}
