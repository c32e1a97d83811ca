// Package outbox serializes outbound backend commands on one worker so the
// application loop never blocks on the network.
package outbox

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/matheus3301/whatsterm/internal/bus"
	"github.com/matheus3301/whatsterm/internal/queue"
	"github.com/matheus3301/whatsterm/internal/store"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single backend call.
const DefaultTimeout = 30 * time.Second

// Backend is the command side of the messaging backend.
type Backend interface {
	SendMessage(ctx context.Context, chat, text string, quote *store.Message) (store.Message, error)
	PairPhone(ctx context.Context, phone string) (string, error)
	Contacts(ctx context.Context) ([]store.Contact, error)
}

// Publisher receives job results.
type Publisher interface {
	Publish(bus.Event)
}

type job interface {
	run(ctx context.Context, b Backend) bus.Event
	fields() []zap.Field
}

type sendText struct {
	requestID string
	chat      string
	text      string
	quote     *store.Message
}

func (j sendText) run(ctx context.Context, b Backend) bus.Event {
	msg, err := b.SendMessage(ctx, j.chat, j.text, j.quote)
	return bus.SendResult{RequestID: j.requestID, Chat: j.chat, Message: msg, Err: err}
}

func (j sendText) fields() []zap.Field {
	return []zap.Field{zap.String("job", "send"), zap.String("request_id", j.requestID), zap.String("chat", j.chat)}
}

type pairPhone struct {
	phone string
}

func (j pairPhone) run(ctx context.Context, b Backend) bus.Event {
	code, err := b.PairPhone(ctx, j.phone)
	return bus.PairingCode{Code: code, Err: err}
}

func (j pairPhone) fields() []zap.Field {
	return []zap.Field{zap.String("job", "pair_phone")}
}

type fetchContacts struct{}

func (fetchContacts) run(ctx context.Context, b Backend) bus.Event {
	contacts, err := b.Contacts(ctx)
	return bus.ContactsLoaded{Contacts: contacts, Err: err}
}

func (fetchContacts) fields() []zap.Field {
	return []zap.Field{zap.String("job", "contacts")}
}

// Sender runs backend commands one at a time and publishes their results.
type Sender struct {
	backend Backend
	pub     Publisher
	logger  *zap.Logger
	jobs    *queue.Queue[job]
	timeout time.Duration

	cancel   context.CancelFunc
	finished chan struct{}
}

// NewSender creates a sender. Call Start before queueing work.
func NewSender(backend Backend, pub Publisher, logger *zap.Logger) *Sender {
	return &Sender{
		backend: backend,
		pub:     pub,
		logger:  logger,
		jobs:    queue.NewQueue[job](),
		timeout: DefaultTimeout,
	}
}

// SendText queues a text message, optionally quoting another, and returns
// the request ID its SendResult will carry.
func (s *Sender) SendText(chat, text string, quote *store.Message) string {
	id := uuid.New().String()
	var q *store.Message
	if quote != nil {
		c := *quote
		q = &c
	}
	s.jobs.Push(sendText{requestID: id, chat: chat, text: text, quote: q})
	return id
}

// PairPhone queues a phone-number pairing request.
func (s *Sender) PairPhone(phone string) {
	s.jobs.Push(pairPhone{phone: phone})
}

// FetchContacts queues a contact and group list fetch.
func (s *Sender) FetchContacts() {
	s.jobs.Push(fetchContacts{})
}

// Start launches the worker.
func (s *Sender) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.finished = make(chan struct{})
	go s.loop(ctx)
}

// Stop stops the worker after the in-flight command returns.
func (s *Sender) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.jobs.Close()
	<-s.finished
	s.cancel = nil
}

func (s *Sender) loop(ctx context.Context) {
	defer close(s.finished)
	for {
		j, ok := s.jobs.Pop(ctx)
		if !ok {
			return
		}
		s.pub.Publish(s.process(ctx, j))
	}
}

func (s *Sender) process(ctx context.Context, j job) bus.Event {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	evt := j.run(ctx, s.backend)
	fields := append(j.fields(), zap.Duration("took", time.Since(start)))
	if err := resultErr(evt); err != nil {
		s.logger.Error("backend command failed", append(fields, zap.Error(err))...)
	} else {
		s.logger.Info("backend command done", fields...)
	}
	return evt
}

func resultErr(evt bus.Event) error {
	switch e := evt.(type) {
	case bus.SendResult:
		return e.Err
	case bus.PairingCode:
		return e.Err
	case bus.ContactsLoaded:
		return e.Err
	}
	return nil
}
