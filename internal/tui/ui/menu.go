package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
)

// MenuHint describes a keyboard shortcut for display in the menu bar.
type MenuHint struct {
	Key         string
	Description string
}

// ParseHints turns "keys description" strings into hints.
func ParseHints(lines []string) []MenuHint {
	hints := make([]MenuHint, 0, len(lines))
	for _, l := range lines {
		key, desc, _ := strings.Cut(l, " ")
		hints = append(hints, MenuHint{Key: key, Description: desc})
	}
	return hints
}

// Menu displays keyboard shortcut hints on a single line.
type Menu struct {
	*tview.TextView
	theme *Theme
}

// NewMenu creates a new menu hint bar.
func NewMenu(theme *Theme) *Menu {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetTextAlign(tview.AlignLeft)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 0)

	return &Menu{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders menu hints.
func (m *Menu) Update(hints []MenuHint) {
	m.Clear()

	keyColor := ColorName(m.theme.MenuKeyColor)
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, fmt.Sprintf("[%s::b]%s[-:-:-] %s", keyColor, tview.Escape(h.Key), h.Description))
	}
	_, _ = fmt.Fprint(m, strings.Join(parts, "  "))
}
