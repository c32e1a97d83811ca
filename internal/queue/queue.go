// Package queue provides an unbounded FIFO shared by the event bus and the
// background workers.
package queue

import (
	"context"
	"sync"
)

// Queue is an unbounded FIFO safe for any number of producers. Push never
// blocks and never drops; Pop blocks until an item is available.
type Queue[T any] struct {
	mu     sync.Mutex
	items  []T
	head   int
	closed bool
	// ready holds a token while items are queued or the queue is closed.
	ready chan struct{}
}

// NewQueue creates an empty queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{ready: make(chan struct{}, 1)}
}

// Push appends an item. Items pushed after Close are discarded.
func (q *Queue[T]) Push(item T) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.items = append(q.items, item)
	q.mu.Unlock()
	q.signal()
}

func (q *Queue[T]) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Pop removes and returns the oldest item. It returns false once the queue is
// closed and drained, or when ctx is done.
func (q *Queue[T]) Pop(ctx context.Context) (T, bool) {
	for {
		q.mu.Lock()
		if q.head < len(q.items) {
			item := q.items[q.head]
			var zero T
			q.items[q.head] = zero
			q.head++
			if q.head == len(q.items) {
				q.items = q.items[:0]
				q.head = 0
			} else if q.head > 1024 && q.head*2 > len(q.items) {
				q.items = append(q.items[:0:0], q.items[q.head:]...)
				q.head = 0
			}
			more := q.head < len(q.items)
			q.mu.Unlock()
			if more {
				q.signal()
			}
			return item, true
		}
		if q.closed {
			q.mu.Unlock()
			q.signal()
			var zero T
			return zero, false
		}
		q.mu.Unlock()

		select {
		case <-q.ready:
		case <-ctx.Done():
			var zero T
			return zero, false
		}
	}
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// Close stops accepting items. Consumers still receive what was queued.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}
