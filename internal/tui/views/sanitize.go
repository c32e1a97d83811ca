package views

import (
	"strings"
	"unicode"
)

// sanitizeForTerminal drops runes that break cell-width accounting: emoji
// modifiers and joiners, variation selectors and control characters other
// than newline. Tabs become a space. A thumbs-up with a skin tone thus
// renders as the plain two-cell thumbs-up.
func sanitizeForTerminal(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r == '\t':
			return ' '
		case dropRune(r):
			return -1
		}
		return r
	}, s)
}

func dropRune(r rune) bool {
	switch {
	case r >= 0x1F3FB && r <= 0x1F3FF, // skin tones
		r == 0x200D,                  // zero width joiner
		r >= 0xFE00 && r <= 0xFE0F,   // variation selectors
		r >= 0xE0100 && r <= 0xE01EF: // variation selectors supplement
		return true
	}
	return unicode.IsControl(r)
}
