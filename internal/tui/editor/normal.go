package editor

import (
	"unicode"

	"github.com/matheus3301/whatsterm/internal/tui/keys"
)

func (e *Editor) normalKeymap() *keys.Keymap {
	m := keys.NewKeymap("normal")

	m.Bind("h", "", func() { e.left() })
	m.Bind("<Left>", "", func() { e.left() })
	m.Bind("l", "", func() { e.right() })
	m.Bind("<Right>", "", func() { e.right() })
	m.Bind("j", "", func() { e.moveLine(1, false) })
	m.Bind("<Down>", "", func() { e.moveLine(1, false) })
	m.Bind("k", "", func() { e.moveLine(-1, false) })
	m.Bind("<Up>", "", func() { e.moveLine(-1, false) })
	m.Bind("w", "", func() { e.pos = e.nextWord(e.pos); e.fixCursor() })
	m.Bind("b", "", func() { e.pos = e.prevWord(e.pos) })
	m.Bind("0", "", func() { e.pos = e.lineStart(e.pos) })
	m.Bind("<Home>", "", func() { e.pos = e.lineStart(e.pos) })
	m.Bind("^", "", func() { e.pos = e.firstNonBlank(e.pos) })
	m.Bind("$", "", func() { e.pos = e.lineEnd(e.pos); e.fixCursor() })
	m.Bind("<End>", "", func() { e.pos = e.lineEnd(e.pos); e.fixCursor() })
	m.Bind("gg", "", func() { e.pos = 0 })
	m.Bind("G", "", func() { e.pos = e.lineStart(len(e.buf)); e.fixCursor() })

	m.Bind("i", "", func() { e.enterInsert() })
	m.Bind("a", "", func() {
		e.enterInsert()
		if e.pos < e.lineEnd(e.pos) {
			e.pos++
		}
	})
	m.Bind("I", "", func() {
		e.enterInsert()
		e.pos = e.firstNonBlank(e.pos)
	})
	m.Bind("A", "", func() {
		e.enterInsert()
		e.pos = e.lineEnd(e.pos)
	})
	m.Bind("o", "", func() {
		e.enterInsert()
		e.pos = e.lineEnd(e.pos)
		e.insert('\n')
	})
	m.Bind("O", "", func() {
		e.enterInsert()
		e.pos = e.lineStart(e.pos)
		e.insert('\n')
		e.pos--
	})

	m.Bind("x", "", func() { e.deleteChar() })
	m.Bind("<Del>", "", func() { e.deleteChar() })
	m.Bind("dd", "", func() { e.deleteLine() })
	m.Bind("dw", "", func() { e.deleteWord() })
	m.Bind("D", "", func() { e.deleteToEnd() })
	m.Bind("yy", "", func() { e.yankLine() })
	m.Bind("p", "", func() { e.paste() })
	m.Bind("u", "", func() { e.popUndo() })

	return m
}

func (e *Editor) left() {
	if e.pos > e.lineStart(e.pos) {
		e.pos--
	}
}

func (e *Editor) right() {
	if e.pos+1 < e.lineEnd(e.pos) {
		e.pos++
	}
}

func (e *Editor) firstNonBlank(pos int) int {
	p := e.lineStart(pos)
	end := e.lineEnd(pos)
	for p < end && unicode.IsSpace(e.buf[p]) {
		p++
	}
	if p == end && p > e.lineStart(pos) && e.mode == Normal {
		p--
	}
	return p
}

// cut removes buf[from:to], stores it in the register and leaves the
// cursor at from.
func (e *Editor) cut(from, to int, linewise bool) {
	if from >= to {
		return
	}
	e.pushUndo()
	e.reg = register{text: append([]rune(nil), e.buf[from:to]...), linewise: linewise}
	e.buf = append(e.buf[:from], e.buf[to:]...)
	e.pos = from
	e.fixCursor()
}

func (e *Editor) deleteChar() {
	if e.pos < e.lineEnd(e.pos) {
		e.cut(e.pos, e.pos+1, false)
	}
}

func (e *Editor) deleteToEnd() {
	e.cut(e.pos, e.lineEnd(e.pos), false)
}

func (e *Editor) deleteWord() {
	end := min(e.nextWord(e.pos), e.lineEnd(e.pos))
	e.cut(e.pos, end, false)
}

func (e *Editor) deleteLine() {
	start, end := e.lineStart(e.pos), e.lineEnd(e.pos)
	line := append([]rune(nil), e.buf[start:end]...)
	switch {
	case end < len(e.buf):
		end++
	case start > 0:
		start--
	}
	e.cut(start, end, true)
	e.reg = register{text: line, linewise: true}
	e.pos = e.lineStart(e.pos)
}

func (e *Editor) yankLine() {
	start, end := e.lineStart(e.pos), e.lineEnd(e.pos)
	e.reg = register{text: append([]rune(nil), e.buf[start:end]...), linewise: true}
}

func (e *Editor) paste() {
	if len(e.reg.text) == 0 {
		return
	}
	e.pushUndo()
	var at int
	var text []rune
	if e.reg.linewise {
		at = e.lineEnd(e.pos)
		text = append([]rune{'\n'}, e.reg.text...)
	} else {
		at = min(e.pos+1, e.lineEnd(e.pos))
		text = e.reg.text
	}
	rest := append([]rune(nil), e.buf[at:]...)
	e.buf = append(append(e.buf[:at], text...), rest...)
	if e.reg.linewise {
		e.pos = at + 1
	} else {
		e.pos = at + len(text) - 1
	}
	e.fixCursor()
}
