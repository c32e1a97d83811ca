package views

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/whatsterm/internal/store"
	"github.com/matheus3301/whatsterm/internal/tui/ui"
	"github.com/rivo/tview"
)

// ChatList is the chat list table, most recent chat first.
type ChatList struct {
	*tview.Table
	theme *ui.Theme
	chats []store.Chat
}

// NewChatList creates a new chat list table.
func NewChatList(theme *ui.Theme) *ChatList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true)
	table.SetBackgroundColor(theme.BgColor)
	table.SetTitleColor(theme.TitleColor)
	table.SetSelectedStyle(tcell.StyleDefault.Foreground(theme.CursorFg).Background(theme.CursorBg))

	return &ChatList{Table: table, theme: theme}
}

// Update refreshes the table. selected is an index into chats or -1.
// progress is the history sync percent, or -1 once sync is done.
func (cl *ChatList) Update(chats []store.Chat, selected, progress int) {
	cl.chats = chats
	cl.Clear()

	if progress >= 0 && progress < 100 {
		cl.SetTitle(fmt.Sprintf(" Contacts (%d%%) ", progress))
	} else {
		cl.SetTitle(" Contacts ")
	}

	for row, chat := range chats {
		name := sanitizeForTerminal(chat.Name)
		if name == "" {
			name = chat.JID
		}
		cl.SetCell(row, 0, tview.NewTableCell(" "+tview.Escape(name)).
			SetTextColor(cl.theme.FgColor).
			SetExpansion(1))
		cl.SetCell(row, 1, tview.NewTableCell(formatTimestamp(chat.LastMessageAt)+" ").
			SetTextColor(cl.theme.TimeColor).
			SetAlign(tview.AlignRight))
	}

	if selected >= 0 && selected < len(chats) {
		cl.SetSelectable(true, false)
		cl.Select(selected, 0)
	} else {
		// Without a selection no row is highlighted.
		cl.SetSelectable(false, false)
	}
}

// Len returns the number of chats shown.
func (cl *ChatList) Len() int {
	return len(cl.chats)
}

// SetFocused switches the border color to mark focus.
func (cl *ChatList) SetFocused(focused bool) {
	setFocusBorder(cl.Box, cl.theme, focused)
}

func setFocusBorder(b *tview.Box, theme *ui.Theme, focused bool) {
	if focused {
		b.SetBorderColor(theme.BorderFocusColor)
		b.SetBorderAttributes(tcell.AttrBold)
		return
	}
	b.SetBorderColor(theme.BorderColor)
	b.SetBorderAttributes(tcell.AttrNone)
}

func formatTimestamp(ts *int64) string {
	if ts == nil || *ts == 0 {
		return ""
	}
	return formatTime(*ts)
}

func formatTime(sec int64) string {
	t := time.Unix(sec, 0)
	now := time.Now()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("01/02")
}
