package views

import (
	"io"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Frame wraps the screen for one draw pass. It collects the raw escape
// sequences image protocols emit so they can be written after Show, on
// top of the cells tcell just flushed.
type Frame struct {
	tcell.Screen
	seqs    []string
	flushed []func()
}

// NewFrame wraps screen.
func NewFrame(screen tcell.Screen) *Frame {
	return &Frame{Screen: screen}
}

// Passthrough queues a raw sequence for this frame.
func (f *Frame) Passthrough(seq string) {
	f.seqs = append(f.seqs, seq)
}

// AfterFlush registers fn to run once the queued sequences have been
// written. A frame that is never flushed, or fails to flush, drops it.
func (f *Frame) AfterFlush(fn func()) {
	f.flushed = append(f.flushed, fn)
}

// Pending returns the number of queued sequences.
func (f *Frame) Pending() int {
	return len(f.seqs)
}

// Flush writes the queued sequences to w and empties the queue.
func (f *Frame) Flush(w io.Writer) error {
	if len(f.seqs) == 0 {
		return nil
	}
	_, err := io.WriteString(w, strings.Join(f.seqs, ""))
	f.seqs = f.seqs[:0]
	callbacks := f.flushed
	f.flushed = nil
	if err != nil {
		return err
	}
	for _, fn := range callbacks {
		fn()
	}
	return nil
}
