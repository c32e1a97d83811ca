// Package state holds the canonical in-memory model: chats, messages,
// contacts, per-message file state and decoded images. It is owned by the
// application loop and is not safe for concurrent use.
package state

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matheus3301/whatsterm/internal/media"
	"github.com/matheus3301/whatsterm/internal/store"
	"go.uber.org/zap"
)

// Persister receives every accepted change for asynchronous storage.
type Persister interface {
	EnqueueChat(store.Chat)
	EnqueueMessage(store.Message)
	EnqueueContact(store.Contact)
}

type chatEntry struct {
	chat store.Chat
	seq  int
}

// State is the reconciled model.
type State struct {
	persist Persister
	logger  *zap.Logger

	chats    map[string]*chatEntry
	nextSeq  int
	messages map[string]*store.Message
	// index maps a chat JID to its message IDs in arrival order.
	index    map[string][]string
	contacts map[string]string
	files    map[string]FileState
	images   map[string]*media.Bitmap

	loading bool
}

// New creates an empty model. A nil persister discards changes.
func New(persist Persister, logger *zap.Logger) *State {
	if persist == nil {
		persist = discard{}
	}
	return &State{
		persist:  persist,
		logger:   logger,
		chats:    make(map[string]*chatEntry),
		messages: make(map[string]*store.Message),
		index:    make(map[string][]string),
		contacts: make(map[string]string),
		files:    make(map[string]FileState),
		images:   make(map[string]*media.Bitmap),
	}
}

// Load seeds the model from persisted data without writing it back.
func (s *State) Load(snap *store.Snapshot) {
	if snap == nil {
		return
	}
	s.loading = true
	defer func() { s.loading = false }()

	for _, c := range snap.Chats {
		s.upsertChat(c)
	}
	for _, c := range snap.Contacts {
		if c.Name != "" {
			s.contacts[c.JID] = c.Name
		}
	}
	for _, m := range snap.Messages {
		s.ApplyInboundMessage(m)
	}
}

// ApplyInboundMessage merges a message. A message whose ID is already known
// replaces the stored one only when its timestamp is strictly newer; the
// chat index position is never changed for a known ID. It reports whether
// the model changed.
func (s *State) ApplyInboundMessage(msg store.Message) bool {
	if msg.ID == "" || msg.ChatJID == "" {
		s.logger.Warn("dropping message without id or chat", zap.String("msg_id", msg.ID), zap.String("chat", msg.ChatJID))
		return false
	}
	chatChanged := s.touchChat(msg.ChatJID, msg.Timestamp)

	if existing, ok := s.messages[msg.ID]; ok {
		if msg.Timestamp <= existing.Timestamp {
			return chatChanged
		}
		stored := cloneMessage(msg)
		stored.ChatJID = existing.ChatJID
		s.messages[msg.ID] = stored
		s.saveMessage(stored)
		return true
	}

	stored := cloneMessage(msg)
	s.messages[msg.ID] = stored
	s.index[msg.ChatJID] = append(s.index[msg.ChatJID], msg.ID)
	s.saveMessage(stored)
	return true
}

// touchChat creates the chat if needed and advances its last-message
// timestamp to ts when ts is newer.
func (s *State) touchChat(jid string, ts int64) bool {
	e, ok := s.chats[jid]
	if !ok {
		s.upsertChat(store.Chat{JID: jid, LastMessageAt: store.Int64(ts)})
		return true
	}
	if e.chat.LastMessageAt != nil && *e.chat.LastMessageAt >= ts {
		return false
	}
	e.chat.LastMessageAt = store.Int64(ts)
	s.saveChat(e.chat)
	return true
}

func (s *State) upsertChat(c store.Chat) {
	if e, ok := s.chats[c.JID]; ok {
		if c.Name != "" {
			e.chat.Name = c.Name
		}
		if c.LastMessageAt != nil && (e.chat.LastMessageAt == nil || *c.LastMessageAt > *e.chat.LastMessageAt) {
			e.chat.LastMessageAt = store.Int64(*c.LastMessageAt)
		}
		s.saveChat(e.chat)
		return
	}
	e := &chatEntry{chat: c, seq: s.nextSeq}
	if c.LastMessageAt != nil {
		e.chat.LastMessageAt = store.Int64(*c.LastMessageAt)
	}
	s.nextSeq++
	s.chats[c.JID] = e
	s.saveChat(e.chat)
}

// ApplyReceipt increments the read count of every known message in ids and
// returns how many were updated. Unknown IDs are logged and skipped.
func (s *State) ApplyReceipt(chat string, ids []string, kind string) int {
	updated := 0
	for _, id := range ids {
		m, ok := s.messages[id]
		if !ok {
			s.logger.Debug("receipt for unknown message", zap.String("msg_id", id), zap.String("chat", chat), zap.String("kind", kind))
			continue
		}
		m.ReadCount++
		s.saveMessage(m)
		updated++
	}
	return updated
}

// ApplyContactSync records display names. Known chats pick up the new name;
// groups are added as chats on first mention.
func (s *State) ApplyContactSync(contacts []store.Contact) int {
	applied := 0
	for _, c := range contacts {
		if c.JID == "" || c.Name == "" {
			continue
		}
		if s.contacts[c.JID] != c.Name {
			s.contacts[c.JID] = c.Name
			if !s.loading {
				s.persist.EnqueueContact(c)
			}
		}
		if e, ok := s.chats[c.JID]; ok {
			if e.chat.Name != c.Name {
				e.chat.Name = c.Name
				s.saveChat(e.chat)
			}
		} else if IsGroup(c.JID) {
			s.upsertChat(store.Chat{JID: c.JID, Name: c.Name})
		}
		applied++
	}
	return applied
}

// IsGroup reports whether jid names a group chat.
func IsGroup(jid string) bool {
	return strings.HasSuffix(jid, "@g.us")
}

// DisplayName resolves a JID to a contact name, then a chat name, then the
// JID itself.
func (s *State) DisplayName(jid string) string {
	if name := s.contacts[jid]; name != "" {
		return name
	}
	if e, ok := s.chats[jid]; ok && e.chat.Name != "" {
		return e.chat.Name
	}
	return jid
}

// SortedChats returns chats by last-message timestamp, newest first. Chats
// without messages sort last; ties keep insertion order.
func (s *State) SortedChats() []store.Chat {
	entries := make([]*chatEntry, 0, len(s.chats))
	for _, e := range s.chats {
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b *chatEntry) int {
		return cmp.Compare(a.seq, b.seq)
	})
	slices.SortStableFunc(entries, func(a, b *chatEntry) int {
		return compareRecency(a.chat.LastMessageAt, b.chat.LastMessageAt)
	})

	out := make([]store.Chat, len(entries))
	for i, e := range entries {
		out[i] = e.chat
		out[i].Name = s.DisplayName(e.chat.JID)
	}
	return out
}

// compareRecency orders newer timestamps first and nil last.
func compareRecency(a, b *int64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return cmp.Compare(*b, *a)
	}
}

// SortedMessages returns a chat's messages newest first. Equal timestamps
// put the later arrival first.
func (s *State) SortedMessages(chat string) []*store.Message {
	ids := s.index[chat]
	type ranked struct {
		msg *store.Message
		pos int
	}
	items := make([]ranked, 0, len(ids))
	for i, id := range ids {
		if m, ok := s.messages[id]; ok {
			items = append(items, ranked{m, i})
		}
	}
	slices.SortFunc(items, func(a, b ranked) int {
		if c := cmp.Compare(b.msg.Timestamp, a.msg.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(b.pos, a.pos)
	})

	out := make([]*store.Message, len(items))
	for i, it := range items {
		out[i] = it.msg
	}
	return out
}

// Message returns the stored message with id.
func (s *State) Message(id string) (*store.Message, bool) {
	m, ok := s.messages[id]
	return m, ok
}

// Chat returns the chat with jid, with its display name resolved.
func (s *State) Chat(jid string) (store.Chat, bool) {
	e, ok := s.chats[jid]
	if !ok {
		return store.Chat{}, false
	}
	c := e.chat
	c.Name = s.DisplayName(jid)
	return c, true
}

// ChatMessageIDs returns a copy of the chat's index in arrival order.
func (s *State) ChatMessageIDs(chat string) []string {
	return slices.Clone(s.index[chat])
}

// Counts returns the number of chats and messages held.
func (s *State) Counts() (chats, messages int) {
	return len(s.chats), len(s.messages)
}

func (s *State) saveChat(c store.Chat) {
	if s.loading {
		return
	}
	s.persist.EnqueueChat(c)
}

func (s *State) saveMessage(m *store.Message) {
	if s.loading {
		return
	}
	s.persist.EnqueueMessage(*cloneMessage(*m))
}

func cloneMessage(m store.Message) *store.Message {
	if m.File != nil {
		f := *m.File
		m.File = &f
	}
	return &m
}

type discard struct{}

func (discard) EnqueueChat(store.Chat)       {}
func (discard) EnqueueMessage(store.Message) {}
func (discard) EnqueueContact(store.Contact) {}
