package media

import (
	"image"
	"os"
	"strings"
	"sync"
)

// Kind identifies a terminal graphics protocol.
type Kind int

const (
	Halfblocks Kind = iota
	Kitty
)

func (k Kind) String() string {
	switch k {
	case Kitty:
		return "kitty"
	default:
		return "halfblocks"
	}
}

// ParseKind maps a config value to a protocol. "auto" and unknown values
// return ok=false so the caller can fall back to detection.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(s) {
	case "kitty":
		return Kitty, true
	case "halfblocks":
		return Halfblocks, true
	default:
		return Halfblocks, false
	}
}

// Protocol encodes images for, and draws them on, a terminal.
type Protocol interface {
	Kind() Kind
	Encode(img image.Image, maxCols, maxRows int) (*Bitmap, error)
	// BeginFrame runs once before any Render of a frame.
	BeginFrame(s Surface)
	// Render draws the first rows of b with its top-left cell at x, y,
	// clipped to cols columns.
	Render(s Surface, b *Bitmap, x, y, cols, rows int)
}

// Detect guesses the best protocol from the environment.
func Detect(getenv func(string) string) Kind {
	if getenv == nil {
		getenv = os.Getenv
	}
	if getenv("KITTY_WINDOW_ID") != "" || strings.Contains(getenv("TERM"), "kitty") {
		return Kitty
	}
	switch getenv("TERM_PROGRAM") {
	case "WezTerm", "ghostty":
		return Kitty
	}
	return Halfblocks
}

// Picker holds the active protocol. Decode workers read it concurrently
// with the application loop toggling it.
type Picker struct {
	mu       sync.RWMutex
	detected Kind
	current  Kind
}

// NewPicker creates a picker starting on the given protocol.
func NewPicker(detected Kind) *Picker {
	return &Picker{detected: detected, current: detected}
}

// Current returns the active protocol.
func (p *Picker) Current() Protocol {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return ProtocolFor(p.current)
}

// Toggle switches between halfblocks and the detected protocol and returns
// the new one.
func (p *Picker) Toggle() Kind {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == Halfblocks {
		p.current = p.detected
	} else {
		p.current = Halfblocks
	}
	return p.current
}

// ProtocolFor returns the implementation of protocol k.
func ProtocolFor(k Kind) Protocol {
	if k == Kitty {
		return kittyProtocol{}
	}
	return halfblockProtocol{}
}

// fit returns the cell box for an image of w x h pixels inside maxCols x
// maxRows, assuming cells are twice as tall as they are wide.
func fit(w, h, maxCols, maxRows int) (cols, rows int) {
	if w <= 0 || h <= 0 || maxCols <= 0 || maxRows <= 0 {
		return 0, 0
	}
	rows = maxRows
	cols = (w*rows*2 + h/2) / h
	if cols > maxCols {
		cols = maxCols
		rows = (h*cols + w) / (2 * w)
	}
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	if rows > maxRows {
		rows = maxRows
	}
	return cols, rows
}
