package views

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/whatsterm/internal/tui/ui"
	"github.com/rivo/tview"
)

// LogHeight is the number of rows the log panel takes, borders included.
const LogHeight = 10

// LogSource yields the most recent log lines, oldest first.
type LogSource interface {
	Tail(n int) []string
}

// LogPanel shows the tail of the in-memory log.
type LogPanel struct {
	*tview.TextView
	source LogSource
}

// NewLogPanel creates the log panel.
func NewLogPanel(theme *ui.Theme, source LogSource) *LogPanel {
	tv := tview.NewTextView().
		SetDynamicColors(false).
		SetWrap(false)
	tv.SetBorder(true).SetTitle(" Logs ")
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitleColor(theme.TitleColor)
	return &LogPanel{TextView: tv, source: source}
}

// Draw implements tview.Primitive.
func (lp *LogPanel) Draw(screen tcell.Screen) {
	_, _, _, height := lp.GetInnerRect()
	lp.SetText(strings.Join(lp.source.Tail(max(height, 0)), "\n"))
	lp.TextView.Draw(screen)
}
