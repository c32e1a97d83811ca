package store

import "fmt"

func upsertContact(e execer, c *Contact) error {
	_, err := e.Exec(`
		INSERT INTO contacts (jid, name)
		VALUES (?, ?)
		ON CONFLICT(jid) DO UPDATE SET name = excluded.name`,
		c.JID, c.Name)
	if err != nil {
		return fmt.Errorf("upsert contact %q: %w", c.JID, err)
	}
	return nil
}

// UpsertContact inserts or updates a contact display name.
func (db *DB) UpsertContact(c *Contact) error {
	return upsertContact(db, c)
}

// BulkUpsertContacts inserts or updates multiple contacts in a single transaction.
func (db *DB) BulkUpsertContacts(contacts []Contact) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i := range contacts {
		if err := upsertContact(tx, &contacts[i]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Contacts returns every stored contact.
func (db *DB) Contacts() ([]Contact, error) {
	rows, err := db.Query(`SELECT jid, name FROM contacts`)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var contacts []Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.JID, &c.Name); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}
