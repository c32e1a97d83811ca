package tui

import (
	"slices"
	"time"

	"github.com/matheus3301/whatsterm/internal/media"
	"github.com/matheus3301/whatsterm/internal/status"
	"github.com/matheus3301/whatsterm/internal/store"
	"github.com/matheus3301/whatsterm/internal/tui/ui"
	"github.com/matheus3301/whatsterm/internal/tui/views"
	"go.uber.org/zap"
)

// refresh copies the model into the widgets. The selected message keeps
// its place when newer messages arrive above it.
func (a *App) refresh() {
	a.chats = a.state.SortedChats()
	selected := slices.IndexFunc(a.chats, func(c store.Chat) bool { return c.JID == a.current })
	progress := a.syncPercent
	if a.status.Current() == status.Ready {
		progress = -1
	}
	a.chatList.Update(a.chats, selected, progress)

	title := "No chat selected"
	var msgs []*store.Message
	if a.current != "" {
		title = a.state.DisplayName(a.current)
		msgs = a.state.SortedMessages(a.current)
	}
	a.messages.SetMessages(title, msgs)
	a.anchorSelection(msgs)

	if a.quote != "" {
		a.input.SetQuote(views.QuotePreview(a.state, a.quote))
	} else {
		a.input.SetQuote("")
	}
	if a.status.Current() == status.LoggedOut {
		a.pairing.ShowMessage(logoutMessage(a.logoutReason))
	} else {
		a.pairing.Update(a.pairingQR, a.pairingCode)
	}

	a.chatList.SetFocused(a.focus == ChatListFocus)
	a.messages.SetFocused(a.focus == MessageListFocus || a.focus == DetailFocus)
	a.input.SetFocused(a.focus == InputFocus)
}

func (a *App) anchorSelection(msgs []*store.Message) {
	if a.selectedID == "" {
		return
	}
	list := a.messages.List()
	if i, ok := list.Selected(); ok && i < len(msgs) && msgs[i].ID == a.selectedID {
		return
	}
	if i := slices.IndexFunc(msgs, func(m *store.Message) bool { return m.ID == a.selectedID }); i >= 0 {
		list.Select(i)
	}
}

// draw renders one frame and then requests the media its visible
// messages still need.
func (a *App) draw() {
	if a.screen == nil {
		return
	}
	a.refresh()
	a.screen.HideCursor()

	frame := views.NewFrame(a.screen)
	proto := a.picker.Current()
	if kind := proto.Kind(); kind != a.lastKind {
		// Remove placements left by the protocol that was just switched off.
		media.ProtocolFor(a.lastKind).BeginFrame(frame)
		a.lastKind = kind
	}
	proto.BeginFrame(frame)

	a.right.ResizeItem(a.input, a.input.Height(), 0)
	logHeight := 0
	if a.showLogs.Load() {
		logHeight = views.LogHeight
	}
	a.root.ResizeItem(a.logPanel, logHeight, 0)

	if st := a.status.Current(); st == status.LoggedOut || (st == status.Pairing && a.current == "") {
		a.pages.SwitchToPage(pagePairing)
	} else {
		a.pages.SwitchToPage(pageMain)
	}

	a.statusBar.Update(string(a.status.Current()), a.focus.String(), a.flash.GetMessage())
	a.menu.Update(ui.ParseHints(a.hints()))

	w, h := a.screen.Size()
	a.root.SetRect(0, 0, w, h)
	a.root.Draw(frame)
	a.screen.Show()
	if tty, ok := a.screen.Tty(); ok {
		if err := frame.Flush(tty); err != nil {
			a.logger.Warn("image output failed", zap.Error(err))
		}
	}
	a.lastDraw = time.Now()

	a.requestVisibleMedia()
}

func logoutMessage(reason string) string {
	msg := "This device was unlinked from WhatsApp."
	if reason != "" {
		msg += " Reason: " + reason + "."
	}
	return msg + "\n\nRestart whatsterm to link it again."
}

func (a *App) hints() []string {
	hints := a.local[a.focus].Hints()
	hints = append(hints, a.transitions[a.focus].Hints()...)
	return append(hints, a.global.Hints()...)
}

// requestVisibleMedia asks for downloads and decodes of files on screen.
func (a *App) requestVisibleMedia() {
	visible := a.messages.Visible()
	if a.focus == DetailFocus {
		if m, ok := a.state.Message(a.detail.MessageID()); ok {
			visible = append(visible, m)
		}
	}
	for _, m := range visible {
		a.requestMedia(m)
	}
}
