package layout

import (
	"slices"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/whatsterm/internal/media"
	"github.com/matheus3301/whatsterm/internal/state"
	"github.com/matheus3301/whatsterm/internal/store"
)

func fixed(hs ...int) HeightFunc {
	return func(i int) int { return hs[i] }
}

func uniform(h int) HeightFunc {
	return func(int) int { return h }
}

func TestSelectionClamp(t *testing.T) {
	var st ListState
	st.Select(5)
	Compute(&st, 3, 20, uniform(2))

	sel, ok := st.Selected()
	if !ok || sel != 2 {
		t.Errorf("selected = %d, %v; want 2, true", sel, ok)
	}
}

func TestEmptyListClearsSelection(t *testing.T) {
	var st ListState
	st.Select(3)
	st.offset = 4
	w := Compute(&st, 0, 20, uniform(2))

	if _, ok := st.Selected(); ok {
		t.Error("selection kept on empty list")
	}
	if st.Offset() != 0 {
		t.Errorf("offset = %d, want 0", st.Offset())
	}
	if !w.Empty() {
		t.Error("window not empty")
	}
}

func TestSelectionMovesSaturate(t *testing.T) {
	var st ListState
	st.SelectPrevious()
	st.Clamp(4)
	if sel, _ := st.Selected(); sel != 3 {
		t.Errorf("previous from none = %d, want 3", sel)
	}

	st.SelectFirst()
	st.SelectPrevious()
	if sel, _ := st.Selected(); sel != 0 {
		t.Errorf("previous from first = %d, want 0", sel)
	}

	st.SelectLast()
	st.SelectNext()
	st.Clamp(4)
	if sel, _ := st.Selected(); sel != 3 {
		t.Errorf("next from last = %d, want 3", sel)
	}

	st.Deselect()
	st.SelectNext()
	if sel, _ := st.Selected(); sel != 0 {
		t.Errorf("next from none = %d, want 0", sel)
	}
}

func TestNoSelectionAnchorsAtOffset(t *testing.T) {
	var st ListState
	w := Compute(&st, 10, 9, uniform(3))
	if w.First != 0 || w.Last != 3 {
		t.Errorf("window = [%d,%d), want [0,3)", w.First, w.Last)
	}

	st.offset = 4
	w = Compute(&st, 10, 9, uniform(3))
	if w.First != 4 || w.Last != 7 {
		t.Errorf("window = [%d,%d), want [4,7)", w.First, w.Last)
	}
}

func TestScrollPaddingKeepsNeighbours(t *testing.T) {
	var st ListState
	st.Select(3)
	w := Compute(&st, 10, 9, uniform(3))

	if !w.Contains(2) || !w.Contains(3) || !w.Contains(4) {
		t.Errorf("window [%d,%d) lacks padding around 3", w.First, w.Last)
	}

	st.Select(0)
	w = Compute(&st, 10, 9, uniform(3))
	if w.First != 0 {
		t.Errorf("first = %d after selecting newest", w.First)
	}
}

func TestPaddingDropsBeforeSelection(t *testing.T) {
	hs := []int{2, 2, 8, 2, 2}
	var st ListState
	st.Select(2)
	w := Compute(&st, len(hs), 9, fixed(hs...))

	if !w.Contains(2) {
		t.Fatalf("window [%d,%d) lacks selection", w.First, w.Last)
	}
	if w.Total > 9 {
		t.Errorf("total = %d exceeds viewport", w.Total)
	}
}

func TestWindowContainsSelection(t *testing.T) {
	hs := []int{1, 4, 2, 7, 3, 1, 1, 5, 2, 6, 3, 1}
	for viewport := 1; viewport <= 30; viewport++ {
		for sel := range hs {
			if hs[sel] > viewport {
				continue
			}
			for _, offset := range []int{0, 5, len(hs) - 1} {
				st := ListState{offset: offset}
				st.Select(sel)
				w := Compute(&st, len(hs), viewport, fixed(hs...))
				if !w.Contains(sel) {
					t.Fatalf("viewport %d offset %d: window [%d,%d) lacks %d", viewport, offset, w.First, w.Last, sel)
				}
				if w.Total > viewport {
					t.Fatalf("viewport %d offset %d sel %d: total %d", viewport, offset, sel, w.Total)
				}
				for _, p := range w.Placements {
					if p.Index == sel && (!w.RowVisible(p.Top) || !w.RowVisible(p.Top+p.Height-1)) {
						t.Fatalf("viewport %d: selected rows %d..%d clipped", viewport, p.Top, p.Top+p.Height-1)
					}
				}
			}
		}
	}
}

func TestOversizedSelectionShownAlone(t *testing.T) {
	hs := []int{2, 20, 2}
	var st ListState
	st.Select(1)
	w := Compute(&st, len(hs), 10, fixed(hs...))

	if w.First != 1 || w.Last != 2 {
		t.Errorf("window = [%d,%d), want [1,2)", w.First, w.Last)
	}
	if w.SliceRows() != 10 {
		t.Errorf("slice rows = %d, want 10", w.SliceRows())
	}
}

func TestPlacementsBottomUp(t *testing.T) {
	var st ListState
	w := Compute(&st, 3, 20, fixed(2, 3, 4))

	want := []Placement{{0, 7, 2}, {1, 4, 3}, {2, 0, 4}}
	if !slices.Equal(w.Placements, want) {
		t.Errorf("placements = %v, want %v", w.Placements, want)
	}
	if got := w.ViewportRow(0); got != 11 {
		t.Errorf("viewport row of top = %d, want 11", got)
	}
}

func TestHeightsRecomputedEachFrame(t *testing.T) {
	hs := []int{1, 1, 1, 1}
	var st ListState
	st.Select(0)
	w := Compute(&st, 4, 6, fixed(hs...))
	if w.Last != 4 {
		t.Fatalf("last = %d, want 4", w.Last)
	}

	hs[0] = 12
	w = Compute(&st, 4, 6, fixed(hs...))
	if w.First != 0 || w.Last != 1 {
		t.Errorf("window = [%d,%d), want [0,1)", w.First, w.Last)
	}
}

func TestImageSlotRequiresFirstRow(t *testing.T) {
	w := Window{Total: 20, Viewport: 10}
	if _, _, ok := w.ImageSlot(12, 5); ok {
		t.Error("image below the slice reported visible")
	}
	vy, rows, ok := w.ImageSlot(6, 5)
	if !ok || vy != 6 || rows != 4 {
		t.Errorf("slot = %d, %d, %v; want 6, 4, true", vy, rows, ok)
	}

	short := Window{Total: 4, Viewport: 10}
	if vy, rows, ok := short.ImageSlot(1, 2); !ok || vy != 7 || rows != 2 {
		t.Errorf("short slot = %d, %d, %v; want 7, 2, true", vy, rows, ok)
	}
}

type grid map[[2]int]rune

func (g grid) SetContent(x, y int, r rune, _ []rune, _ tcell.Style) {
	g[[2]int{x, y}] = r
}

func TestCanvasBlit(t *testing.T) {
	c := NewCanvas(4, 3)
	c.Print(0, 0, 4, "top", tcell.StyleDefault)
	c.Print(0, 2, 4, "bottomline", tcell.StyleDefault)

	w := Window{Total: 3, Viewport: 5}
	g := grid{}
	c.Blit(g, 1, 10, w)

	if g[[2]int{1, 12}] != 't' {
		t.Errorf("top row not at viewport row 2: %q", g[[2]int{1, 12}])
	}
	if g[[2]int{4, 14}] != 't' {
		t.Errorf("clipped print = %q, want 't'", g[[2]int{4, 14}])
	}
	if _, ok := g[[2]int{1, 10}]; ok {
		t.Error("rows above content were drawn")
	}
}

func TestCanvasWideRunes(t *testing.T) {
	c := NewCanvas(5, 1)
	if n := c.Print(0, 0, 5, "日本語", tcell.StyleDefault); n != 4 {
		t.Errorf("used = %d, want 4", n)
	}
	if r, _ := c.Content(2, 0); r != '本' {
		t.Errorf("cell 2 = %q", r)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  []string
	}{
		{"", 10, []string{""}},
		{"hello world", 20, []string{"hello world"}},
		{"hello world", 5, []string{"hello", "world"}},
		{"abcdefgh", 3, []string{"abc", "def", "gh"}},
		{"a\nb", 10, []string{"a", "b"}},
	}
	for _, tt := range tests {
		if got := Wrap(tt.text, tt.width); !slices.Equal(got, tt.want) {
			t.Errorf("Wrap(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestMessageHeight(t *testing.T) {
	img := &store.Message{ID: "i", File: &store.File{Kind: store.FileImage, Caption: "nice"}}
	doc := &store.Message{ID: "d", File: &store.File{Kind: store.FileDocument}}
	quoted := &store.Message{ID: "q", QuoteID: "x", Text: "one two three"}

	tests := []struct {
		name string
		msg  *store.Message
		fs   state.FileState
		want int
	}{
		{"text", &store.Message{Text: "hi"}, state.Unrequested, 3},
		{"quoted wrapped", quoted, state.Unrequested, 5},
		{"image placeholder", img, state.Unrequested, 4},
		{"image downloaded", img, state.Downloaded, 3 + media.ImageRows},
		{"image failed", img, state.LoadFailed, 4},
		{"document on disk", doc, state.Downloaded, 3},
	}
	for _, tt := range tests {
		if got := MessageHeight(tt.msg, tt.fs, 7); got != tt.want {
			t.Errorf("%s: height = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestScrollBy(t *testing.T) {
	var st ListState
	st.ScrollUpBy(3)
	w := Compute(&st, 10, 4, uniform(2))
	if w.First != 3 || w.Last != 5 {
		t.Errorf("window = [%d,%d), want [3,5)", w.First, w.Last)
	}

	st.ScrollDownBy(5)
	if st.Offset() != 0 {
		t.Errorf("offset = %d, want 0", st.Offset())
	}

	st.Select(2)
	st.ScrollUpBy(20)
	st.Clamp(10)
	if sel, _ := st.Selected(); sel != 9 {
		t.Errorf("selected = %d, want 9", sel)
	}
}
