package store

// Snapshot is the full persisted state read once at startup.
type Snapshot struct {
	Chats    []Chat
	Messages []Message
	Contacts []Contact
}

// LoadSnapshot bulk-reads chats, messages and contacts.
func (db *DB) LoadSnapshot() (*Snapshot, error) {
	chats, err := db.Chats()
	if err != nil {
		return nil, err
	}
	messages, err := db.Messages()
	if err != nil {
		return nil, err
	}
	contacts, err := db.Contacts()
	if err != nil {
		return nil, err
	}
	return &Snapshot{Chats: chats, Messages: messages, Contacts: contacts}, nil
}
