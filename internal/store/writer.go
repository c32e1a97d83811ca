package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultFlushInterval is the writer tick used when none is configured.
const DefaultFlushInterval = time.Second

// Writer batches chat, message and contact upserts and commits them on a
// fixed tick, one transaction per batch. Enqueue methods never block on disk.
type Writer struct {
	db       *DB
	logger   *zap.Logger
	interval time.Duration

	mu       sync.Mutex
	chats    map[string]Chat
	messages map[string]Message
	contacts map[string]Contact
	order    []pendingKey

	cancel context.CancelFunc
	done   chan struct{}
}

type pendingKind int

const (
	pendingChat pendingKind = iota
	pendingMessage
	pendingContact
)

type pendingKey struct {
	kind pendingKind
	key  string
}

// NewWriter creates a writer flushing every interval.
func NewWriter(db *DB, interval time.Duration, logger *zap.Logger) *Writer {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	w := &Writer{
		db:       db,
		logger:   logger,
		interval: interval,
	}
	w.reset()
	return w
}

func (w *Writer) reset() {
	w.chats = make(map[string]Chat)
	w.messages = make(map[string]Message)
	w.contacts = make(map[string]Contact)
	w.order = nil
}

// EnqueueChat schedules a chat upsert. A later enqueue for the same JID
// replaces a pending one.
func (w *Writer) EnqueueChat(c Chat) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.chats[c.JID]; !ok {
		w.order = append(w.order, pendingKey{pendingChat, c.JID})
	}
	w.chats[c.JID] = c
}

// EnqueueMessage schedules a message upsert.
func (w *Writer) EnqueueMessage(m Message) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.messages[m.ID]; !ok {
		w.order = append(w.order, pendingKey{pendingMessage, m.ID})
	}
	if m.File != nil {
		f := *m.File
		m.File = &f
	}
	w.messages[m.ID] = m
}

// EnqueueContact schedules a contact upsert.
func (w *Writer) EnqueueContact(c Contact) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.contacts[c.JID]; !ok {
		w.order = append(w.order, pendingKey{pendingContact, c.JID})
	}
	w.contacts[c.JID] = c
}

// Pending returns the number of queued upserts.
func (w *Writer) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.order)
}

// Start begins the periodic flush loop.
func (w *Writer) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	go w.loop(ctx)
}

// Stop ends the loop after a final flush and waits for it to return.
func (w *Writer) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
	w.cancel = nil
}

func (w *Writer) loop(ctx context.Context) {
	defer close(w.done)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.flushAndLog()
		case <-ctx.Done():
			w.flushAndLog()
			return
		}
	}
}

func (w *Writer) flushAndLog() {
	n, err := w.Flush()
	if err != nil {
		w.logger.Error("dropping write batch", zap.Int("size", n), zap.Error(err))
		return
	}
	if n > 0 {
		w.logger.Debug("write batch committed", zap.Int("size", n))
	}
}

// Flush commits everything queued so far in one transaction and returns the
// batch size. A failed batch is discarded, not retried.
func (w *Writer) Flush() (int, error) {
	w.mu.Lock()
	chats, messages, contacts, order := w.chats, w.messages, w.contacts, w.order
	w.reset()
	w.mu.Unlock()

	if len(order) == 0 {
		return 0, nil
	}

	tx, err := w.db.Begin()
	if err != nil {
		return len(order), fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, k := range order {
		switch k.kind {
		case pendingChat:
			c := chats[k.key]
			err = upsertChat(tx, &c)
		case pendingMessage:
			m := messages[k.key]
			err = upsertMessage(tx, &m)
		case pendingContact:
			c := contacts[k.key]
			err = upsertContact(tx, &c)
		}
		if err != nil {
			return len(order), err
		}
	}
	if err := tx.Commit(); err != nil {
		return len(order), fmt.Errorf("commit: %w", err)
	}
	return len(order), nil
}
