package store

import (
	"database/sql"
	"fmt"
)

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func upsertMessage(e execer, m *Message) error {
	var err error
	if m.File == nil {
		_, err = e.Exec(`
			INSERT INTO text_messages (id, chat_jid, sender_jid, timestamp, quote_id, is_from_me, read_count, message)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				timestamp = excluded.timestamp,
				quote_id = excluded.quote_id,
				read_count = excluded.read_count,
				message = excluded.message`,
			m.ID, m.ChatJID, m.SenderJID, m.Timestamp, nullString(m.QuoteID), m.FromMe, m.ReadCount, m.Text)
	} else {
		_, err = e.Exec(`
			INSERT INTO file_messages (id, chat_jid, sender_jid, timestamp, quote_id, is_from_me, read_count, kind, path, file_id, caption)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				timestamp = excluded.timestamp,
				quote_id = excluded.quote_id,
				read_count = excluded.read_count,
				kind = excluded.kind,
				path = excluded.path,
				file_id = excluded.file_id,
				caption = excluded.caption`,
			m.ID, m.ChatJID, m.SenderJID, m.Timestamp, nullString(m.QuoteID), m.FromMe, m.ReadCount,
			string(m.File.Kind), m.File.Path, m.File.FileID, nullString(m.File.Caption))
	}
	if err != nil {
		return fmt.Errorf("upsert message %q: %w", m.ID, err)
	}
	return nil
}

// UpsertMessage inserts or replaces a message in the table for its content kind.
func (db *DB) UpsertMessage(m *Message) error {
	return upsertMessage(db, m)
}

// Messages returns every stored message, text and file alike, oldest first.
func (db *DB) Messages() ([]Message, error) {
	rows, err := db.Query(`
		SELECT id, chat_jid, sender_jid, timestamp, quote_id, is_from_me, read_count,
			message, NULL, NULL, NULL, NULL
		FROM text_messages
		UNION ALL
		SELECT id, chat_jid, sender_jid, timestamp, quote_id, is_from_me, read_count,
			NULL, kind, path, file_id, caption
		FROM file_messages
		ORDER BY timestamp`)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var msgs []Message
	for rows.Next() {
		var (
			m                           Message
			quote, text                 sql.NullString
			kind, path, fileID, caption sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.ChatJID, &m.SenderJID, &m.Timestamp, &quote, &m.FromMe, &m.ReadCount,
			&text, &kind, &path, &fileID, &caption); err != nil {
			return nil, err
		}
		m.QuoteID = quote.String
		if kind.Valid {
			m.File = &File{
				Kind:    FileKind(kind.String),
				Path:    path.String,
				FileID:  fileID.String,
				Caption: caption.String,
			}
		} else {
			m.Text = text.String
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
