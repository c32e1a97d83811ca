// Package keys matches key presses, including multi-key chords, against
// ordered keymaps.
package keys

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Key is a single normalized key press.
type Key struct {
	Code tcell.Key
	Rune rune
	Alt  bool
}

// Rune returns the key for a printable character.
func Rune(r rune) Key {
	return Key{Code: tcell.KeyRune, Rune: r}
}

// Code returns the key for a special key such as tcell.KeyEnter.
func Code(k tcell.Key) Key {
	return Key{Code: k}
}

// FromEvent normalizes a tcell key event. Shift is folded into the rune and
// Ctrl into the key code, so only Alt is kept as a modifier.
func FromEvent(ev *tcell.EventKey) Key {
	k := Key{Code: ev.Key(), Alt: ev.Modifiers()&tcell.ModAlt != 0}
	if k.Code != tcell.KeyRune {
		return k
	}
	r := ev.Rune()
	if ev.Modifiers()&tcell.ModCtrl != 0 && r >= 'a' && r <= 'z' {
		return Key{Code: tcell.KeyCtrlA + tcell.Key(r-'a'), Alt: k.Alt}
	}
	k.Rune = r
	return k
}

func (k Key) String() string {
	var s string
	if k.Code == tcell.KeyRune {
		s = string(k.Rune)
	} else if name, ok := tcell.KeyNames[k.Code]; ok {
		s = "<" + name + ">"
	} else {
		s = fmt.Sprintf("<%d>", k.Code)
	}
	if k.Alt {
		s = "<Alt>" + s
	}
	return s
}

// Seq is an ordered chord.
type Seq []Key

func (s Seq) String() string {
	var sb strings.Builder
	for _, k := range s {
		sb.WriteString(k.String())
	}
	return sb.String()
}

func (s Seq) hasPrefix(p []Key) bool {
	if len(p) > len(s) {
		return false
	}
	for i := range p {
		if s[i] != p[i] {
			return false
		}
	}
	return true
}

var specialKeys = map[string]tcell.Key{
	"esc":   tcell.KeyEscape,
	"enter": tcell.KeyEnter,
	"tab":   tcell.KeyTab,
	"bs":    tcell.KeyBackspace2,
	"del":   tcell.KeyDelete,
	"up":    tcell.KeyUp,
	"down":  tcell.KeyDown,
	"left":  tcell.KeyLeft,
	"right": tcell.KeyRight,
	"home":  tcell.KeyHome,
	"end":   tcell.KeyEnd,
	"pgup":  tcell.KeyPgUp,
	"pgdn":  tcell.KeyPgDn,
}

// Parse reads a chord in the "gg" / "<C-g>" / "<Esc>" notation.
func Parse(s string) (Seq, error) {
	var seq Seq
	for len(s) > 0 {
		if s[0] != '<' {
			r := []rune(s)[0]
			seq = append(seq, Rune(r))
			s = s[len(string(r)):]
			continue
		}
		end := strings.IndexByte(s, '>')
		if end < 0 {
			return nil, fmt.Errorf("keys: unterminated %q", s)
		}
		name := strings.ToLower(s[1:end])
		s = s[end+1:]
		switch {
		case name == "space":
			seq = append(seq, Rune(' '))
		case strings.HasPrefix(name, "c-") && len(name) == 3 && name[2] >= 'a' && name[2] <= 'z':
			seq = append(seq, Code(tcell.KeyCtrlA+tcell.Key(name[2]-'a')))
		case strings.HasPrefix(name, "a-") && len(name) == 3:
			k := Rune(rune(name[2]))
			k.Alt = true
			seq = append(seq, k)
		default:
			code, ok := specialKeys[name]
			if !ok {
				return nil, fmt.Errorf("keys: unknown key <%s>", name)
			}
			seq = append(seq, Code(code))
		}
	}
	if len(seq) == 0 {
		return nil, fmt.Errorf("keys: empty sequence")
	}
	return seq, nil
}

// MustParse is Parse for sequences known at compile time.
func MustParse(s string) Seq {
	seq, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return seq
}

// Action is a bound chord.
type Action struct {
	Seq         Seq
	Description string
	Handler     func()
	Visible     bool
}

// Keymap is a named, ordered set of actions.
type Keymap struct {
	Name    string
	actions []*Action
}

// NewKeymap creates an empty keymap.
func NewKeymap(name string) *Keymap {
	return &Keymap{Name: name}
}

// Bind registers handler for the chord in notation s. When a chord is bound
// twice the first binding wins.
func (m *Keymap) Bind(s, description string, handler func()) *Action {
	a := &Action{Seq: MustParse(s), Description: description, Handler: handler, Visible: description != ""}
	m.actions = append(m.actions, a)
	return a
}

// Hints returns "keys description" strings for visible actions.
func (m *Keymap) Hints() []string {
	var hints []string
	for _, a := range m.actions {
		if a.Visible {
			hints = append(hints, a.Seq.String()+" "+a.Description)
		}
	}
	return hints
}

func (m *Keymap) exact(buf []Key) *Action {
	for _, a := range m.actions {
		if len(a.Seq) == len(buf) && a.Seq.hasPrefix(buf) {
			return a
		}
	}
	return nil
}

func (m *Keymap) prefixes(buf []Key) bool {
	for _, a := range m.actions {
		if len(a.Seq) > len(buf) && a.Seq.hasPrefix(buf) {
			return true
		}
	}
	return false
}

func (m *Keymap) longest() int {
	n := 0
	for _, a := range m.actions {
		n = max(n, len(a.Seq))
	}
	return n
}
