package views

import (
	"fmt"
	"time"

	"github.com/matheus3301/whatsterm/internal/tui/ui"
	"github.com/rivo/tview"
)

// StatusBar displays persistent session and connection status plus the
// current flash message.
type StatusBar struct {
	*tview.TextView
	theme   *ui.Theme
	session string
	status  string
	focus   string
	flash   *ui.FlashMessage
}

// NewStatusBar creates a new status bar.
func NewStatusBar(theme *ui.Theme) *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)
	tv.SetBackgroundColor(theme.StatusBgColor)

	return &StatusBar{TextView: tv, theme: theme}
}

// SetSession updates the session name display.
func (sb *StatusBar) SetSession(name string) {
	sb.session = name
}

// Update sets the connection status, focused panel and flash message.
func (sb *StatusBar) Update(status, focus string, flash *ui.FlashMessage) {
	sb.status = status
	sb.focus = focus
	sb.flash = flash
	sb.render()
}

func (sb *StatusBar) render() {
	sb.Clear()

	clock := time.Now().Format("15:04")
	line := fmt.Sprintf(" [::b]%s[-:-:-] | %s | %s | %s", tview.Escape(sb.session), sb.status, sb.focus, clock)
	if sb.flash != nil {
		line += fmt.Sprintf(" | [%s]%s[-]", sb.theme.FlashColor(sb.flash.Level), tview.Escape(sb.flash.Text))
	}
	_, _ = fmt.Fprint(sb, line)
}
