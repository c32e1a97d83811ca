package layout

import (
	"strings"

	"github.com/matheus3301/whatsterm/internal/media"
	"github.com/matheus3301/whatsterm/internal/state"
	"github.com/matheus3301/whatsterm/internal/store"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// Rows taken by the parts of a rendered message.
const (
	HeaderRows  = 1
	QuoteRows   = 1
	PaddingRows = 1
)

// Wrap breaks text into lines of at most width columns, preferring word
// boundaries. It always returns at least one line.
func Wrap(text string, width int) []string {
	if width <= 0 {
		return []string{""}
	}
	text = wrap.String(wordwrap.String(text, width), width)
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}

// ShowsImage reports whether a message reserves the image box in its
// current file state.
func ShowsImage(m *store.Message, fs state.FileState) bool {
	if m.File == nil || !m.File.Kind.IsImage() {
		return false
	}
	switch fs {
	case state.Downloaded, state.Loading, state.Loaded:
		return true
	}
	return false
}

// MessageHeight is the number of rows m takes at the given width. It
// changes as the file state moves, so callers must not cache it across
// frames.
func MessageHeight(m *store.Message, fs state.FileState, width int) int {
	h := HeaderRows + PaddingRows
	if m.QuoteID != "" {
		h += QuoteRows
	}
	if m.File == nil {
		return h + len(Wrap(m.Text, width))
	}
	if ShowsImage(m, fs) {
		h += media.ImageRows
	} else {
		h++
	}
	if m.File.Caption != "" {
		h += len(Wrap(m.File.Caption, width))
	}
	return h
}
