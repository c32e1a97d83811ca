// Package editor is the compose box buffer: a small vim-like editor with
// insert and normal modes.
package editor

import (
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/whatsterm/internal/tui/keys"
)

// Mode is the editing mode.
type Mode int

const (
	Insert Mode = iota
	Normal
)

func (m Mode) String() string {
	if m == Normal {
		return "NORMAL"
	}
	return "INSERT"
}

const maxUndo = 100

type snapshot struct {
	buf []rune
	pos int
}

type register struct {
	text     []rune
	linewise bool
}

// Editor holds the compose text. The cursor is a rune offset into the
// buffer; in normal mode it always rests on a character, never past the
// end of a line.
type Editor struct {
	buf  []rune
	pos  int
	mode Mode

	router keys.Router
	normal *keys.Keymap
	reg    register
	undo   []snapshot
}

// New creates an empty editor in insert mode.
func New() *Editor {
	e := &Editor{}
	e.normal = e.normalKeymap()
	return e
}

// Mode returns the current mode.
func (e *Editor) Mode() Mode {
	return e.mode
}

// Text returns the buffer contents.
func (e *Editor) Text() string {
	return string(e.buf)
}

// Empty reports whether the buffer holds only whitespace.
func (e *Editor) Empty() bool {
	return strings.TrimSpace(string(e.buf)) == ""
}

// SetText replaces the buffer and puts the cursor at its end.
func (e *Editor) SetText(s string) {
	e.pushUndo()
	e.buf = []rune(s)
	e.pos = len(e.buf)
	e.fixCursor()
}

// Reset clears the buffer and history and returns to insert mode.
func (e *Editor) Reset() {
	e.buf = e.buf[:0]
	e.pos = 0
	e.mode = Insert
	e.undo = nil
	e.router.Reset()
}

// Pending returns the keys of an unfinished normal-mode command.
func (e *Editor) Pending() string {
	return e.router.Pending().String()
}

// Lines returns the buffer split into lines. There is always at least one.
func (e *Editor) Lines() []string {
	return strings.Split(string(e.buf), "\n")
}

// Cursor returns the cursor line and rune column.
func (e *Editor) Cursor() (line, col int) {
	for _, r := range e.buf[:e.pos] {
		if r == '\n' {
			line++
			col = 0
			continue
		}
		col++
	}
	return line, col
}

// HandleKey applies a key and reports whether the editor consumed it.
// Escape in normal mode with nothing pending is left to the caller.
func (e *Editor) HandleKey(k keys.Key) bool {
	if e.mode == Insert {
		return e.handleInsert(k)
	}
	switch e.router.Handle(k, e.normal) {
	case keys.Matched, keys.Pending, keys.Aborted:
		return true
	}
	return k.Code == tcell.KeyRune
}

func (e *Editor) handleInsert(k keys.Key) bool {
	if k.Alt {
		return false
	}
	switch k.Code {
	case tcell.KeyRune:
		e.insert(k.Rune)
	case tcell.KeyEnter:
		e.insert('\n')
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if e.pos > 0 {
			e.buf = append(e.buf[:e.pos-1], e.buf[e.pos:]...)
			e.pos--
		}
	case tcell.KeyDelete:
		if e.pos < len(e.buf) {
			e.buf = append(e.buf[:e.pos], e.buf[e.pos+1:]...)
		}
	case tcell.KeyLeft:
		if e.pos > 0 {
			e.pos--
		}
	case tcell.KeyRight:
		if e.pos < len(e.buf) {
			e.pos++
		}
	case tcell.KeyUp:
		e.moveLine(-1, true)
	case tcell.KeyDown:
		e.moveLine(1, true)
	case tcell.KeyHome:
		e.pos = e.lineStart(e.pos)
	case tcell.KeyEnd:
		e.pos = e.lineEnd(e.pos)
	case tcell.KeyEscape:
		e.enterNormal()
	default:
		return false
	}
	return true
}

func (e *Editor) insert(r rune) {
	e.buf = append(e.buf, 0)
	copy(e.buf[e.pos+1:], e.buf[e.pos:])
	e.buf[e.pos] = r
	e.pos++
}

func (e *Editor) enterInsert() {
	e.pushUndo()
	e.mode = Insert
}

func (e *Editor) enterNormal() {
	e.mode = Normal
	if e.pos > e.lineStart(e.pos) {
		e.pos--
	}
	e.fixCursor()
}

func (e *Editor) pushUndo() {
	if len(e.undo) == maxUndo {
		e.undo = e.undo[1:]
	}
	e.undo = append(e.undo, snapshot{buf: append([]rune(nil), e.buf...), pos: e.pos})
}

func (e *Editor) popUndo() {
	if len(e.undo) == 0 {
		return
	}
	s := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]
	e.buf = s.buf
	e.pos = s.pos
	e.fixCursor()
}

func (e *Editor) lineStart(pos int) int {
	for pos > 0 && e.buf[pos-1] != '\n' {
		pos--
	}
	return pos
}

// lineEnd returns the offset of the newline ending the line, or len(buf).
func (e *Editor) lineEnd(pos int) int {
	for pos < len(e.buf) && e.buf[pos] != '\n' {
		pos++
	}
	return pos
}

// fixCursor keeps the normal-mode cursor on a character of its line.
func (e *Editor) fixCursor() {
	e.pos = min(max(e.pos, 0), len(e.buf))
	if e.mode != Normal {
		return
	}
	start, end := e.lineStart(e.pos), e.lineEnd(e.pos)
	if e.pos >= end && end > start {
		e.pos = end - 1
	}
}

func (e *Editor) moveLine(delta int, insertMode bool) {
	start := e.lineStart(e.pos)
	col := e.pos - start
	target := start
	if delta < 0 {
		if start == 0 {
			return
		}
		target = e.lineStart(start - 1)
	} else {
		end := e.lineEnd(e.pos)
		if end == len(e.buf) {
			return
		}
		target = end + 1
	}
	e.pos = min(target+col, e.lineEnd(target))
	if !insertMode {
		e.fixCursor()
	}
}

func isWord(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func class(r rune) int {
	switch {
	case unicode.IsSpace(r):
		return 0
	case isWord(r):
		return 1
	default:
		return 2
	}
}

// nextWord returns the start of the next word after pos.
func (e *Editor) nextWord(pos int) int {
	n := len(e.buf)
	if pos >= n {
		return n
	}
	c := class(e.buf[pos])
	for pos < n && c != 0 && class(e.buf[pos]) == c {
		pos++
	}
	for pos < n && class(e.buf[pos]) == 0 {
		pos++
	}
	return pos
}

// prevWord returns the start of the word before pos.
func (e *Editor) prevWord(pos int) int {
	for pos > 0 && class(e.buf[pos-1]) == 0 {
		pos--
	}
	if pos == 0 {
		return 0
	}
	c := class(e.buf[pos-1])
	for pos > 0 && class(e.buf[pos-1]) == c {
		pos--
	}
	return pos
}
