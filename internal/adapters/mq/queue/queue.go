// Package queue holds RSVP notifications between the request that produced
// them and the workers that deliver them.
package queue

import (
	"context"
	"sync"

	"github.com/oducru/runclub/internal/domain/model"
	"github.com/oducru/runclub/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 1000
)

// Drop reasons reported to metrics.
const (
	dropClosed    = "closed"
	dropFull      = "full"
	dropCancelled = "context_cancelled"
)

// Item is the payload flowing through the queue.
type Item = model.RSVP

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds an item to the queue.
	// Returns false if the queue is full or closed and the item was dropped.
	Enqueue(ctx context.Context, it Item) bool

	// Dequeue returns the channel workers receive from.
	// The channel is closed, after draining, once the queue is closed.
	Dequeue() <-chan Item

	// Len returns the current number of queued items.
	Len() int

	// Close stops accepting items. Already queued items stay readable.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	items    chan Item
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.items = make(chan Item, q.capacity)
	metrics.UpdateNotifyQueueSize(0)
	return q
}

// Enqueue adds an item to the queue without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, it Item) bool { //nolint:gocritic // hugeParam: passed by value for channel semantics
	// Close takes the write lock, so the channel cannot close mid-send.
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordNotifyQueueDrop(dropClosed)
		return false
	}
	if ctx.Err() != nil {
		metrics.RecordNotifyQueueDrop(dropCancelled)
		return false
	}

	select {
	case q.items <- it:
		metrics.UpdateNotifyQueueSize(len(q.items))
		return true
	default:
		metrics.RecordNotifyQueueDrop(dropFull)
		return false
	}
}

// Dequeue returns the receive side of the queue.
func (q *InMemoryQueue) Dequeue() <-chan Item {
	return q.items
}

// Len returns the current number of queued items.
func (q *InMemoryQueue) Len() int {
	size := len(q.items)
	metrics.UpdateNotifyQueueSize(size)
	return size
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil // already closed
	}
	close(q.items)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
