// Package media downloads message attachments and turns images into
// terminal-ready bitmaps for the supported graphics protocols.
package media

import (
	"errors"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
)

// Image placement box in terminal cells.
const (
	ImageCols = 40
	ImageRows = 12
)

// ErrNotImage is returned when a file cannot be decoded as an image.
var ErrNotImage = errors.New("media: not a decodable image")

// Surface is what a protocol draws on: terminal cells plus raw sequences
// written after the frame is shown. Functions given to AfterFlush run only
// once those sequences reached the terminal.
type Surface interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Passthrough(seq string)
	AfterFlush(fn func())
}

// Bitmap is a decoded image encoded for one protocol. It is owned by the
// application loop once delivered.
type Bitmap struct {
	Kind Kind
	Cols int
	Rows int

	// halfblocks: one style per cell, row-major.
	cells []tcell.Style

	// kitty
	id          uint32
	png         []byte
	pixelWidth  int
	pixelHeight int
	transmitted bool
}

// Transmitted reports whether the image data has been sent to the terminal.
func (b *Bitmap) Transmitted() bool {
	return b.transmitted
}

var nextImageID atomic.Uint32
