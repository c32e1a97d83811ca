package layout

// HeightFunc returns the row height of item i at the current width.
type HeightFunc func(i int) int

// Placement locates one item on the scratch canvas.
type Placement struct {
	Index  int
	Top    int
	Height int
}

// Window is the plan for one frame.
type Window struct {
	// First and Last bound the visible items as [First, Last).
	First, Last int
	// Total is the scratch canvas height: the summed height of the items.
	Total int
	// Viewport is the height the window was computed for.
	Viewport int
	// Placements are ordered from First (bottom) to Last-1 (top).
	Placements []Placement
}

// Empty reports whether no item is visible.
func (w Window) Empty() bool {
	return w.First >= w.Last
}

// Contains reports whether item i is in the window.
func (w Window) Contains(i int) bool {
	return i >= w.First && i < w.Last
}

// SliceRows is the number of scratch rows copied to the viewport, starting
// at row 0. Only a single item taller than the viewport makes Total exceed
// it, and then its top is shown.
func (w Window) SliceRows() int {
	return min(w.Total, w.Viewport)
}

// ViewportRow maps a scratch row to a viewport row. Content shorter than
// the viewport is aligned to the bottom.
func (w Window) ViewportRow(scratchRow int) int {
	return scratchRow + max(0, w.Viewport-w.Total)
}

// RowVisible reports whether a scratch row is inside the copied slice.
func (w Window) RowVisible(scratchRow int) bool {
	return scratchRow >= 0 && scratchRow < w.SliceRows()
}

// Compute plans the window for n items in a viewport of the given height
// and stores the new offset in st. Heights are queried fresh on every call.
func Compute(st *ListState, n, viewport int, height HeightFunc) Window {
	st.Clamp(n)
	w := Window{Viewport: viewport}
	if n == 0 || viewport <= 0 {
		return w
	}

	first, last := bounds(st, n, viewport, height)
	st.offset = first

	w.First, w.Last = first, last
	hs := make([]int, 0, last-first)
	for i := first; i < last; i++ {
		h := height(i)
		hs = append(hs, h)
		w.Total += h
	}
	bottom := w.Total
	for k, h := range hs {
		bottom -= h
		w.Placements = append(w.Placements, Placement{Index: first + k, Top: bottom, Height: h})
	}
	return w
}

// bounds returns the visible range [first, last) anchored at the stored
// offset and shifted as needed so the padded selection is inside it.
func bounds(st *ListState, n, maxHeight int, height HeightFunc) (int, int) {
	offset := min(st.offset, n-1)
	first, last := offset, offset

	used := 0
	for i := offset; i < n; i++ {
		h := height(i)
		if used+h > maxHeight {
			break
		}
		used += h
		last++
	}

	target := offset
	if sel, ok := st.Selected(); ok {
		target = paddedSelection(sel, n, maxHeight, first, last, height)
	}

	for target >= last {
		used += height(last)
		last++
		for used > maxHeight && first < last-1 {
			used -= height(first)
			first++
		}
	}

	for target < first {
		first--
		used += height(first)
		for used > maxHeight && last-1 > first {
			last--
			used -= height(last)
		}
	}

	return first, last
}

// paddedSelection returns the index that must be visible so the selection
// keeps one item of context on each side, dropping the padding when the
// selection and its neighbours do not fit together.
func paddedSelection(sel, n, maxHeight, first, last int, height HeightFunc) int {
	lastValid := n - 1
	sel = min(sel, lastValid)

	padding := 1
	for padding > 0 {
		around := 0
		for i := max(sel-padding, 0); i <= min(sel+padding, lastValid); i++ {
			around += height(i)
		}
		if around <= maxHeight {
			break
		}
		padding--
	}

	var target int
	switch {
	case min(sel+padding, lastValid) >= last:
		target = sel + padding
	case max(sel-padding, 0) < first:
		target = max(sel-padding, 0)
	default:
		target = sel
	}
	return min(target, lastValid)
}

// ImageSlot maps an image whose first row sits at scratch row top to the
// viewport. ok is false when that first row is not copied this frame, in
// which case the image must not be drawn at all.
func (w Window) ImageSlot(top, rows int) (viewportRow, visibleRows int, ok bool) {
	if !w.RowVisible(top) {
		return 0, 0, false
	}
	return w.ViewportRow(top), min(rows, w.SliceRows()-top), true
}
