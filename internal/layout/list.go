// Package layout plans the scrollback viewport: which messages of a
// bottom-up list are visible for a given height, where each one lands, and
// which cells of an off-screen scratch canvas get copied to the terminal.
package layout

import "math"

// ListState is the selection and scroll position of a list. Index 0 is the
// newest item, drawn at the bottom. The zero value has nothing selected.
type ListState struct {
	selected    int
	hasSelected bool
	// offset is the index of the first (bottom-most) visible item.
	offset int
}

// Selected returns the selected index.
func (s *ListState) Selected() (int, bool) {
	return s.selected, s.hasSelected
}

// Offset returns the index of the bottom-most visible item.
func (s *ListState) Offset() int {
	return s.offset
}

// Select selects index i. Out of range values are clamped on the next
// Clamp or Compute.
func (s *ListState) Select(i int) {
	s.selected = max(i, 0)
	s.hasSelected = true
}

// Deselect clears the selection and scrolls back to the newest item.
func (s *ListState) Deselect() {
	s.selected = 0
	s.hasSelected = false
	s.offset = 0
}

// SelectNext moves one item towards older messages.
func (s *ListState) SelectNext() {
	if !s.hasSelected {
		s.Select(0)
		return
	}
	if s.selected < math.MaxInt {
		s.Select(s.selected + 1)
	}
}

// SelectPrevious moves one item towards newer messages. With nothing
// selected it selects the oldest item.
func (s *ListState) SelectPrevious() {
	if !s.hasSelected {
		s.Select(math.MaxInt)
		return
	}
	s.Select(s.selected - 1)
}

// SelectFirst selects the newest item.
func (s *ListState) SelectFirst() {
	s.Select(0)
}

// SelectLast selects the oldest item.
func (s *ListState) SelectLast() {
	s.Select(math.MaxInt)
}

// Clamp fits the selection and offset to a list of n items. An empty list
// clears the selection.
func (s *ListState) Clamp(n int) {
	if n <= 0 {
		s.Deselect()
		return
	}
	if s.hasSelected && s.selected >= n {
		s.selected = n - 1
	}
	if s.offset >= n {
		s.offset = n - 1
	}
}

// ScrollUpBy shows n older items, carrying the selection along.
func (s *ListState) ScrollUpBy(n int) {
	s.offset += n
	if s.hasSelected {
		s.selected += n
	}
}

// ScrollDownBy shows n newer items, carrying the selection along.
func (s *ListState) ScrollDownBy(n int) {
	s.offset = max(s.offset-n, 0)
	if s.hasSelected {
		s.selected = max(s.selected-n, 0)
	}
}
