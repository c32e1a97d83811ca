package keys

import "github.com/gdamore/tcell/v2"

// Result is the outcome of feeding one key to a Router.
type Result int

const (
	// Unmatched means no chord uses the key; the focused widget may take it.
	Unmatched Result = iota
	// Pending means the keys so far start a longer chord.
	Pending
	// Matched means a chord completed.
	Matched
	// Aborted means Escape cancelled a pending chord.
	Aborted
)

func (r Result) String() string {
	switch r {
	case Pending:
		return "pending"
	case Matched:
		return "matched"
	case Aborted:
		return "aborted"
	default:
		return "unmatched"
	}
}

// Router accumulates key presses and resolves them against keymaps given in
// precedence order. It is owned by the application loop.
type Router struct {
	buf []Key
}

// Pending returns the keys of an unresolved chord.
func (r *Router) Pending() Seq {
	return Seq(append([]Key(nil), r.buf...))
}

// Reset drops any pending chord.
func (r *Router) Reset() {
	r.buf = r.buf[:0]
}

// Feed adds k and resolves the buffer. On Matched the action is returned
// and not run.
func (r *Router) Feed(k Key, maps ...*Keymap) (Result, *Action) {
	if k.Code == tcell.KeyEscape && !k.Alt && len(r.buf) > 0 {
		r.Reset()
		return Aborted, nil
	}

	limit := 0
	for _, m := range maps {
		limit = max(limit, m.longest())
	}

	r.buf = append(r.buf, k)
	if len(r.buf) > limit {
		r.buf = append(r.buf[:0], k)
	}
	if res, a := r.resolve(maps); res != Unmatched {
		return res, a
	}
	if len(r.buf) > 1 {
		r.buf = append(r.buf[:0], k)
		if res, a := r.resolve(maps); res != Unmatched {
			return res, a
		}
	}
	r.Reset()
	return Unmatched, nil
}

// Handle feeds k and runs the matched action's handler.
func (r *Router) Handle(k Key, maps ...*Keymap) Result {
	res, a := r.Feed(k, maps...)
	if res == Matched && a.Handler != nil {
		a.Handler()
	}
	return res
}

func (r *Router) resolve(maps []*Keymap) (Result, *Action) {
	for _, m := range maps {
		if a := m.exact(r.buf); a != nil {
			r.Reset()
			return Matched, a
		}
	}
	for _, m := range maps {
		if m.prefixes(r.buf) {
			return Pending, nil
		}
	}
	return Unmatched, nil
}
