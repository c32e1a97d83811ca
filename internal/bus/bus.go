// Package bus carries every input of the application (terminal events,
// backend callbacks, worker completions, redraw requests) into one ordered
// stream drained by a single consumer.
package bus

import (
	"context"

	"github.com/matheus3301/whatsterm/internal/queue"
)

// Bus is a multi-producer, single-consumer event stream.
type Bus struct {
	q *queue.Queue[Event]
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{q: queue.NewQueue[Event]()}
}

// Publish enqueues an event. Safe from any goroutine; never blocks.
func (b *Bus) Publish(evt Event) {
	b.q.Push(evt)
}

// Next blocks until the next event is available. It returns false after
// Close once everything queued has been consumed, or when ctx is done.
func (b *Bus) Next(ctx context.Context) (Event, bool) {
	return b.q.Pop(ctx)
}

// Len returns the number of events waiting to be consumed.
func (b *Bus) Len() int {
	return b.q.Len()
}

// Close stops accepting new events.
func (b *Bus) Close() {
	b.q.Close()
}
