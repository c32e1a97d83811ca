package store

import (
	"path/filepath"
	"testing"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := testDB(t)

	result, err := db.Migrate()
	if err != nil {
		t.Fatal(err)
	}
	if result.Changed {
		t.Error("second Migrate() should report Changed=false")
	}
	if result.Version != 1 {
		t.Errorf("version = %d, want 1", result.Version)
	}
}

func TestChatUpsertKeepsNewestTimestamp(t *testing.T) {
	db := testDB(t)

	if err := db.UpsertChat(&Chat{JID: "a@s", LastMessageAt: Int64(200)}); err != nil {
		t.Fatal(err)
	}
	if err := db.UpsertChat(&Chat{JID: "a@s", LastMessageAt: Int64(100)}); err != nil {
		t.Fatal(err)
	}
	if err := db.UpsertChat(&Chat{JID: "b@s"}); err != nil {
		t.Fatal(err)
	}

	chats, err := db.Chats()
	if err != nil {
		t.Fatal(err)
	}
	if len(chats) != 2 {
		t.Fatalf("got %d chats, want 2", len(chats))
	}
	if chats[0].LastMessageAt == nil || *chats[0].LastMessageAt != 200 {
		t.Errorf("a@s last = %v, want 200", chats[0].LastMessageAt)
	}
	if chats[1].LastMessageAt != nil {
		t.Errorf("b@s last = %v, want nil", *chats[1].LastMessageAt)
	}
}

func TestChatUpsertKeepsNameWhenEmpty(t *testing.T) {
	db := testDB(t)

	if err := db.UpsertChat(&Chat{JID: "g@g.us", Name: "Family"}); err != nil {
		t.Fatal(err)
	}
	if err := db.UpsertChat(&Chat{JID: "g@g.us", LastMessageAt: Int64(5)}); err != nil {
		t.Fatal(err)
	}
	chats, err := db.Chats()
	if err != nil {
		t.Fatal(err)
	}
	if chats[0].Name != "Family" {
		t.Errorf("name = %q, want Family", chats[0].Name)
	}
}

func TestMessagesRoundTripBothTables(t *testing.T) {
	db := testDB(t)

	text := &Message{ID: "m1", ChatJID: "c@s", SenderJID: "u@s", Timestamp: 10, Text: "hello", QuoteID: "m0"}
	file := &Message{ID: "m2", ChatJID: "c@s", SenderJID: "u@s", Timestamp: 20, FromMe: true,
		File: &File{Kind: FileImage, Path: "m2.jpg", FileID: `{"Version_int":1}`, Caption: "look"}}

	for _, m := range []*Message{text, file} {
		if err := db.UpsertMessage(m); err != nil {
			t.Fatal(err)
		}
	}

	msgs, err := db.Messages()
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].ID != "m1" || msgs[0].Text != "hello" || msgs[0].QuoteID != "m0" || msgs[0].File != nil {
		t.Errorf("text message = %+v", msgs[0])
	}
	got := msgs[1]
	if got.File == nil {
		t.Fatal("file message lost its file content")
	}
	if got.File.Kind != FileImage || got.File.Path != "m2.jpg" || got.File.Caption != "look" || !got.FromMe {
		t.Errorf("file message = %+v / %+v", got, *got.File)
	}
}

func TestMessageUpsertUpdatesReadCount(t *testing.T) {
	db := testDB(t)

	m := &Message{ID: "m1", ChatJID: "c@s", SenderJID: "u@s", Timestamp: 10, Text: "hi"}
	if err := db.UpsertMessage(m); err != nil {
		t.Fatal(err)
	}
	m.ReadCount = 2
	if err := db.UpsertMessage(m); err != nil {
		t.Fatal(err)
	}

	msgs, err := db.Messages()
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 || msgs[0].ReadCount != 2 {
		t.Errorf("messages = %+v, want one with read count 2", msgs)
	}
}

func TestBulkUpsertContacts(t *testing.T) {
	db := testDB(t)

	contacts := []Contact{
		{JID: "a@s", Name: "Alice"},
		{JID: "b@s", Name: "Bob"},
	}
	if err := db.BulkUpsertContacts(contacts); err != nil {
		t.Fatal(err)
	}
	if err := db.UpsertContact(&Contact{JID: "a@s", Name: "Alice Smith"}); err != nil {
		t.Fatal(err)
	}

	snap, err := db.LoadSnapshot()
	if err != nil {
		t.Fatal(err)
	}
	names := map[string]string{}
	for _, c := range snap.Contacts {
		names[c.JID] = c.Name
	}
	if names["a@s"] != "Alice Smith" || names["b@s"] != "Bob" {
		t.Errorf("contacts = %v", names)
	}
}
