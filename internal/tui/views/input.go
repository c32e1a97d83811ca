package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/whatsterm/internal/tui/editor"
	"github.com/matheus3301/whatsterm/internal/tui/ui"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/tview"
)

// MaxInputLines caps how tall the compose box grows.
const MaxInputLines = 6

// Input is the compose box: an optional quote line above the editor text.
type Input struct {
	*tview.Box
	theme   *ui.Theme
	editor  *editor.Editor
	quote   string
	focused bool
}

// NewInput creates the compose box around ed.
func NewInput(theme *ui.Theme, ed *editor.Editor) *Input {
	box := tview.NewBox().SetBorder(true)
	box.SetBackgroundColor(theme.BgColor)
	box.SetTitleColor(theme.TitleColor)
	return &Input{Box: box, theme: theme, editor: ed}
}

// SetQuote sets the quote preview line; empty hides it.
func (in *Input) SetQuote(preview string) {
	in.quote = preview
}

// SetFocused marks focus and controls whether the cursor is shown.
func (in *Input) SetFocused(focused bool) {
	in.focused = focused
	setFocusBorder(in.Box, in.theme, focused)
}

// Height returns the rows the box wants, borders included.
func (in *Input) Height() int {
	h := min(len(in.editor.Lines()), MaxInputLines) + 2
	if in.quote != "" {
		h++
	}
	return h
}

// Draw implements tview.Primitive.
func (in *Input) Draw(screen tcell.Screen) {
	title := " Input "
	if in.focused {
		title = " Input [" + in.editor.Mode().String() + "] "
		if p := in.editor.Pending(); p != "" {
			title += tview.Escape(p) + " "
		}
	}
	in.SetTitle(title)
	in.DrawForSubclass(screen, in)

	x, y, width, height := in.GetInnerRect()
	if width <= 0 || height <= 0 {
		return
	}
	if in.quote != "" {
		printCells(screen, x, y, width, "> "+in.quote, in.theme.Style(in.theme.QuoteColor))
		y++
		height--
	}
	if height <= 0 {
		return
	}

	lines := in.editor.Lines()
	curLine, curCol := in.editor.Cursor()
	top := 0
	if curLine >= height {
		top = curLine - height + 1
	}
	style := in.theme.Style(tcell.ColorWhite)
	for i := 0; i < height && top+i < len(lines); i++ {
		printCells(screen, x, y+i, width, lines[top+i], style)
	}

	if in.focused {
		line := []rune(lines[curLine])
		cx := runewidth.StringWidth(string(line[:min(curCol, len(line))]))
		screen.ShowCursor(x+min(cx, width-1), y+curLine-top)
	}
}

// printCells draws text on one row, clipped to maxWidth cells.
func printCells(screen tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) {
	col := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > maxWidth {
			return
		}
		screen.SetContent(x+col, y, r, nil, style)
		col += w
	}
}
