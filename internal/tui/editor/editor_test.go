package editor

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/whatsterm/internal/tui/keys"
)

func typeKeys(t *testing.T, e *Editor, s string) {
	t.Helper()
	for _, k := range keys.MustParse(s) {
		e.HandleKey(k)
	}
}

func TestInsertTyping(t *testing.T) {
	e := New()
	typeKeys(t, e, "hello<Enter>world<BS><BS>ld")

	if got := e.Text(); got != "hello\nworld" {
		t.Errorf("text = %q", got)
	}
	if line, col := e.Cursor(); line != 1 || col != 5 {
		t.Errorf("cursor = %d,%d; want 1,5", line, col)
	}
	if e.Mode() != Insert {
		t.Errorf("mode = %v", e.Mode())
	}
}

func TestEscapeEntersNormal(t *testing.T) {
	e := New()
	typeKeys(t, e, "abc<Esc>")

	if e.Mode() != Normal {
		t.Fatalf("mode = %v, want normal", e.Mode())
	}
	if _, col := e.Cursor(); col != 2 {
		t.Errorf("col = %d, want 2", col)
	}
	if e.HandleKey(keys.Code(tcell.KeyEscape)) {
		t.Error("escape in normal mode was consumed")
	}
}

func TestNormalEdits(t *testing.T) {
	tests := []struct {
		name string
		text string
		keys string
		want string
	}{
		{"x", "abc", "0x", "bc"},
		{"dw", "foo bar baz", "0wdw", "foo baz"},
		{"D", "foo bar", "0wD", "foo "},
		{"dd middle", "one\ntwo\nthree", "ggjdd", "one\nthree"},
		{"dd last", "one\ntwo", "Gdd", "one"},
		{"dd only", "one", "dd", ""},
		{"yy p", "one\ntwo", "ggyyp", "one\none\ntwo"},
		{"x p", "abc", "0xp", "bac"},
		{"A", "abc", "A!", "abc!"},
		{"I", "  abc", "$I>", "  >abc"},
		{"o", "one", "otwo", "one\ntwo"},
		{"O", "two", "Oone", "one\ntwo"},
		{"a", "ac", "0ab", "abc"},
		{"u", "abc", "0xxu", "bc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New()
			e.SetText(tt.text)
			typeKeys(t, e, "<Esc>"+tt.keys)
			if got := e.Text(); got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMotions(t *testing.T) {
	e := New()
	e.SetText("alpha beta\n  gamma")
	typeKeys(t, e, "<Esc>gg")

	steps := []struct {
		keys      string
		line, col int
	}{
		{"w", 0, 6},
		{"$", 0, 9},
		{"b", 0, 6},
		{"0", 0, 0},
		{"j", 1, 0},
		{"^", 1, 2},
		{"l", 1, 3},
		{"k", 0, 3},
		{"h", 0, 2},
		{"G", 1, 0},
	}
	for _, s := range steps {
		typeKeys(t, e, s.keys)
		if line, col := e.Cursor(); line != s.line || col != s.col {
			t.Fatalf("after %q cursor = %d,%d; want %d,%d", s.keys, line, col, s.line, s.col)
		}
	}
}

func TestPendingOperator(t *testing.T) {
	e := New()
	e.SetText("abc")
	typeKeys(t, e, "<Esc>d")
	if e.Pending() != "d" {
		t.Errorf("pending = %q, want d", e.Pending())
	}
	if !e.HandleKey(keys.Code(tcell.KeyEscape)) {
		t.Error("escape with pending operator not consumed")
	}
	if e.Pending() != "" || e.Text() != "abc" {
		t.Errorf("pending = %q text = %q", e.Pending(), e.Text())
	}
}

func TestResetAndEmpty(t *testing.T) {
	e := New()
	typeKeys(t, e, "  <Esc>")
	if !e.Empty() {
		t.Error("blank buffer not empty")
	}
	e.SetText("hi")
	e.Reset()
	if e.Text() != "" || e.Mode() != Insert {
		t.Errorf("after reset: %q %v", e.Text(), e.Mode())
	}
	if len(e.Lines()) != 1 {
		t.Errorf("lines = %v", e.Lines())
	}
}
