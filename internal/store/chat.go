package store

import (
	"database/sql"
	"fmt"
)

const upsertChatSQL = `
	INSERT INTO chats (jid, name, last_message_at)
	VALUES (?, ?, ?)
	ON CONFLICT(jid) DO UPDATE SET
		name = CASE WHEN excluded.name != '' THEN excluded.name ELSE chats.name END,
		last_message_at = MAX(COALESCE(chats.last_message_at, excluded.last_message_at), COALESCE(excluded.last_message_at, chats.last_message_at))`

func upsertChat(e execer, c *Chat) error {
	var last sql.NullInt64
	if c.LastMessageAt != nil {
		last = sql.NullInt64{Int64: *c.LastMessageAt, Valid: true}
	}
	if _, err := e.Exec(upsertChatSQL, c.JID, c.Name, last); err != nil {
		return fmt.Errorf("upsert chat %q: %w", c.JID, err)
	}
	return nil
}

// UpsertChat inserts or updates a chat record. The stored last-message
// timestamp never moves backwards.
func (db *DB) UpsertChat(c *Chat) error {
	return upsertChat(db, c)
}

// Chats returns every stored chat in insertion order.
func (db *DB) Chats() ([]Chat, error) {
	rows, err := db.Query(`SELECT jid, name, last_message_at FROM chats ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query chats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var chats []Chat
	for rows.Next() {
		var (
			c    Chat
			last sql.NullInt64
		)
		if err := rows.Scan(&c.JID, &c.Name, &last); err != nil {
			return nil, err
		}
		if last.Valid {
			c.LastMessageAt = Int64(last.Int64)
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}
