package keys

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func feedAll(r *Router, s string, maps ...*Keymap) []Result {
	var out []Result
	for _, k := range MustParse(s) {
		res, _ := r.Feed(k, maps...)
		out = append(out, res)
	}
	return out
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Seq
	}{
		{"gg", Seq{Rune('g'), Rune('g')}},
		{"<C-g>", Seq{Code(tcell.KeyCtrlG)}},
		{"<Esc>", Seq{Code(tcell.KeyEscape)}},
		{"g<Enter>", Seq{Rune('g'), Code(tcell.KeyEnter)}},
		{"<space>", Seq{Rune(' ')}},
		{"<A-j>", Seq{{Code: tcell.KeyRune, Rune: 'j', Alt: true}}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.in, err)
			continue
		}
		if got.String() != tt.want.String() || len(got) != len(tt.want) {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "<nope>", "<C-g"} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("Parse(%q) succeeded", bad)
		}
	}
}

func TestChordResolvesOnSecondKey(t *testing.T) {
	var fired string
	m := NewKeymap("messages")
	m.Bind("gg", "oldest", func() { fired = "gg" })
	m.Bind("gq", "quoted", func() { fired = "gq" })

	var r Router
	if res := r.Handle(Rune('g'), m); res != Pending {
		t.Fatalf("first g = %v, want pending", res)
	}
	if fired != "" {
		t.Fatalf("fired %q before chord completed", fired)
	}
	if res := r.Handle(Rune('g'), m); res != Matched {
		t.Fatalf("second g = %v, want matched", res)
	}
	if fired != "gg" {
		t.Errorf("fired %q, want gg", fired)
	}
	if len(r.Pending()) != 0 {
		t.Errorf("buffer = %v after match", r.Pending())
	}
}

func TestChordMismatchReevaluatesKey(t *testing.T) {
	var fired string
	m := NewKeymap("messages")
	m.Bind("gg", "", func() { fired = "gg" })
	m.Bind("gq", "", func() { fired = "gq" })
	m.Bind("x", "", func() { fired = "x" })

	var r Router
	r.Handle(Rune('g'), m)
	if res := r.Handle(Rune('x'), m); res != Matched {
		t.Fatalf("x after g = %v, want matched", res)
	}
	if fired != "x" {
		t.Errorf("fired %q, want x", fired)
	}

	r.Handle(Rune('g'), m)
	if res := r.Handle(Rune('z'), m); res != Unmatched {
		t.Errorf("z after g = %v, want unmatched", res)
	}
	if len(r.Pending()) != 0 {
		t.Errorf("buffer = %v after mismatch", r.Pending())
	}
}

func TestChordMismatchStartsNewChord(t *testing.T) {
	m := NewKeymap("messages")
	m.Bind("gg", "", nil)
	m.Bind("dd", "", nil)

	var r Router
	got := feedAll(&r, "gdd", m)
	want := []Result{Pending, Pending, Matched}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("results = %v, want %v", got, want)
		}
	}
}

func TestEscapeAbortsPending(t *testing.T) {
	m := NewKeymap("messages")
	m.Bind("gg", "", nil)
	m.Bind("<Esc>", "", nil)

	var r Router
	r.Feed(Rune('g'), m)
	if res, _ := r.Feed(Code(tcell.KeyEscape), m); res != Aborted {
		t.Errorf("esc = %v, want aborted", res)
	}
	if res, _ := r.Feed(Code(tcell.KeyEscape), m); res != Matched {
		t.Errorf("esc with empty buffer = %v, want matched", res)
	}
}

func TestKeymapPrecedence(t *testing.T) {
	var fired string
	global := NewKeymap("global")
	global.Bind("<Tab>", "", func() { fired = "global" })
	local := NewKeymap("local")
	local.Bind("<Tab>", "", func() { fired = "local" })
	local.Bind("j", "", func() { fired = "j" })

	var r Router
	r.Handle(Code(tcell.KeyTab), global, local)
	if fired != "global" {
		t.Errorf("fired %q, want global", fired)
	}
	r.Handle(Rune('j'), global, local)
	if fired != "j" {
		t.Errorf("fired %q, want j", fired)
	}
	if res := r.Handle(Rune('q'), global, local); res != Unmatched {
		t.Errorf("q = %v, want unmatched", res)
	}
}

func TestPendingAcrossKeymaps(t *testing.T) {
	global := NewKeymap("global")
	global.Bind("<C-g>", "", nil)
	local := NewKeymap("local")
	local.Bind("gq", "", nil)

	var r Router
	if res, _ := r.Feed(Rune('g'), global, local); res != Pending {
		t.Errorf("g = %v, want pending", res)
	}
	if res, a := r.Feed(Rune('q'), global, local); res != Matched || a.Seq.String() != "gq" {
		t.Errorf("q = %v %v, want matched gq", res, a)
	}
}

func TestFromEvent(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyRune, 'G', tcell.ModShift)
	if got := FromEvent(ev); got != Rune('G') {
		t.Errorf("FromEvent = %v, want G", got)
	}
	ev = tcell.NewEventKey(tcell.KeyCtrlG, 0, tcell.ModCtrl)
	if got := FromEvent(ev); got != Code(tcell.KeyCtrlG) {
		t.Errorf("FromEvent = %v, want <C-g>", got)
	}
}

func TestHints(t *testing.T) {
	m := NewKeymap("chats")
	m.Bind("j", "down", nil)
	m.Bind("k", "", nil)
	hints := m.Hints()
	if len(hints) != 1 || hints[0] != "j down" {
		t.Errorf("hints = %v", hints)
	}
}
