package store

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestWriterFlushCommitsBatch(t *testing.T) {
	db := testDB(t)
	w := NewWriter(db, time.Hour, zap.NewNop())

	w.EnqueueChat(Chat{JID: "c@s", LastMessageAt: Int64(10)})
	w.EnqueueMessage(Message{ID: "m1", ChatJID: "c@s", SenderJID: "u@s", Timestamp: 10, Text: "one"})
	w.EnqueueMessage(Message{ID: "m1", ChatJID: "c@s", SenderJID: "u@s", Timestamp: 10, Text: "one", ReadCount: 1})
	w.EnqueueContact(Contact{JID: "u@s", Name: "Uma"})

	if got := w.Pending(); got != 3 {
		t.Errorf("Pending() = %d, want 3 (duplicate message coalesced)", got)
	}

	n, err := w.Flush()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("Flush() = %d, want 3", n)
	}
	if w.Pending() != 0 {
		t.Error("queue should be empty after flush")
	}

	snap, err := db.LoadSnapshot()
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Chats) != 1 || len(snap.Messages) != 1 || len(snap.Contacts) != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Messages[0].ReadCount != 1 {
		t.Errorf("read count = %d, want the last enqueued value 1", snap.Messages[0].ReadCount)
	}
}

func TestWriterFlushEmpty(t *testing.T) {
	db := testDB(t)
	w := NewWriter(db, time.Hour, zap.NewNop())

	n, err := w.Flush()
	if err != nil || n != 0 {
		t.Errorf("Flush() = %d, %v; want 0, nil", n, err)
	}
}

func TestWriterStopFlushesPending(t *testing.T) {
	db := testDB(t)
	w := NewWriter(db, time.Hour, zap.NewNop())
	w.Start(context.Background())

	w.EnqueueMessage(Message{ID: "m1", ChatJID: "c@s", SenderJID: "u@s", Timestamp: 1, Text: "bye"})
	w.Stop()

	msgs, err := db.Messages()
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 {
		t.Errorf("got %d messages after Stop, want 1", len(msgs))
	}

	// Stop is idempotent.
	w.Stop()
}

func TestWriterTicks(t *testing.T) {
	db := testDB(t)
	w := NewWriter(db, 10*time.Millisecond, zap.NewNop())
	w.Start(context.Background())
	defer w.Stop()

	w.EnqueueChat(Chat{JID: "c@s"})

	deadline := time.After(2 * time.Second)
	for {
		chats, err := db.Chats()
		if err != nil {
			t.Fatal(err)
		}
		if len(chats) == 1 {
			return
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for periodic flush")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
