package ui

import (
	"errors"
	"testing"
	"time"
)

func TestFlashExpiry(t *testing.T) {
	now := time.Unix(1000, 0)
	f := NewFlashModel(nil)
	f.now = func() time.Time { return now }

	f.Err(errors.New("send failed"))
	m := f.GetMessage()
	if m == nil || m.Text != "send failed" || m.Level != FlashErr {
		t.Fatalf("GetMessage() = %+v", m)
	}

	now = now.Add(11 * time.Second)
	if got := f.Get(); got != "" {
		t.Errorf("Get() after expiry = %q, want empty", got)
	}
}

func TestFlashClear(t *testing.T) {
	f := NewFlashModel(nil)
	f.Info("hello")
	f.Clear()
	if f.GetMessage() != nil {
		t.Error("expected no message after Clear")
	}
}

func TestParseHints(t *testing.T) {
	hints := ParseHints([]string{"<C-q> quit", "gg oldest"})
	if len(hints) != 2 {
		t.Fatalf("got %d hints", len(hints))
	}
	if hints[0].Key != "<C-q>" || hints[0].Description != "quit" {
		t.Errorf("hints[0] = %+v", hints[0])
	}
	if hints[1].Key != "gg" || hints[1].Description != "oldest" {
		t.Errorf("hints[1] = %+v", hints[1])
	}
}
