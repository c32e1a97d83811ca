package tui

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/whatsterm/internal/bus"
	"github.com/matheus3301/whatsterm/internal/layout"
	"github.com/matheus3301/whatsterm/internal/state"
	"github.com/matheus3301/whatsterm/internal/store"
	"github.com/matheus3301/whatsterm/internal/tui/keys"
	"go.uber.org/zap"
)

// Focus is the panel receiving keys.
type Focus int

const (
	ChatListFocus Focus = iota
	MessageListFocus
	InputFocus
	DetailFocus
)

func (f Focus) String() string {
	switch f {
	case MessageListFocus:
		return "messages"
	case InputFocus:
		return "input"
	case DetailFocus:
		return "detail"
	default:
		return "chats"
	}
}

var errNoChat = errors.New("no chat selected")

func (a *App) setupBindings() {
	a.global = keys.NewKeymap("global")
	a.global.Bind("<C-q>", "quit", func() { a.quit = true })
	a.global.Bind("<C-g>", "logs", a.toggleLogs)
	a.global.Bind("<C-p>", "protocol", a.toggleProtocol)

	chatsTo := keys.NewKeymap("chats-transitions")
	chatsTo.Bind("<C-l>", "messages", func() { a.setFocus(MessageListFocus) })

	msgsTo := keys.NewKeymap("messages-transitions")
	msgsTo.Bind("<C-j>", "input", func() { a.setFocus(InputFocus) })
	msgsTo.Bind("<C-h>", "chats", func() { a.setFocus(ChatListFocus) })

	inputTo := keys.NewKeymap("input-transitions")
	inputTo.Bind("<C-k>", "messages", func() { a.setFocus(MessageListFocus) })
	inputTo.Bind("<C-h>", "chats", func() { a.setFocus(ChatListFocus) })

	detailTo := keys.NewKeymap("detail-transitions")
	detailTo.Bind("<Esc>", "back", func() { a.setFocus(MessageListFocus) })

	a.transitions = map[Focus]*keys.Keymap{
		ChatListFocus:    chatsTo,
		MessageListFocus: msgsTo,
		InputFocus:       inputTo,
		DetailFocus:      detailTo,
	}

	chats := keys.NewKeymap("chats")
	chats.Bind("j", "next", func() { a.moveChat(1) })
	chats.Bind("k", "previous", func() { a.moveChat(-1) })
	chats.Bind("<Down>", "", func() { a.moveChat(1) })
	chats.Bind("<Up>", "", func() { a.moveChat(-1) })
	chats.Bind("<Enter>", "compose", a.composeInChat)

	msgs := keys.NewKeymap("messages")
	list := func() *layout.ListState { return a.messages.List() }
	msgs.Bind("k", "older", func() { list().SelectNext(); a.afterSelect() })
	msgs.Bind("j", "newer", func() { list().SelectPrevious(); a.afterSelect() })
	msgs.Bind("<Up>", "", func() { list().SelectNext(); a.afterSelect() })
	msgs.Bind("<Down>", "", func() { list().SelectPrevious(); a.afterSelect() })
	msgs.Bind("G", "newest", func() { list().SelectFirst(); a.afterSelect() })
	msgs.Bind("gg", "oldest", func() { list().SelectLast(); a.afterSelect() })
	msgs.Bind("gq", "to quote", a.jumpToQuote)
	msgs.Bind("<C-e>", "", func() { list().ScrollDownBy(1); a.afterSelect() })
	msgs.Bind("<C-y>", "", func() { list().ScrollUpBy(1); a.afterSelect() })
	msgs.Bind("<C-r>", "quote", a.quoteSelected)
	msgs.Bind("<Enter>", "details", a.openDetail)
	msgs.Bind("<Esc>", "", func() { list().Deselect(); a.afterSelect() })

	input := keys.NewKeymap("input")
	input.Bind("<C-r>", "clear quote", func() { a.quote = "" })
	input.Bind("<C-x>", "send", a.send)

	a.local = map[Focus]*keys.Keymap{
		ChatListFocus:    chats,
		MessageListFocus: msgs,
		InputFocus:       input,
		DetailFocus:      keys.NewKeymap("detail"),
	}
}

// handleKey routes a key: global and focus-transition bindings first, then
// the focused panel. In the compose box unbound keys go to the editor.
func (a *App) handleKey(ev *tcell.EventKey) {
	a.refresh()
	k := keys.FromEvent(ev)

	res := a.router.Handle(k, a.global, a.transitions[a.focus], a.local[a.focus])
	if a.focus != InputFocus || res != keys.Unmatched {
		return
	}
	if a.editor.HandleKey(k) {
		return
	}
	// Escape in normal mode leaves the compose box.
	if k.Code == tcell.KeyEscape {
		a.setFocus(MessageListFocus)
	}
}

func (a *App) setFocus(f Focus) {
	a.router.Reset()
	if a.focus == DetailFocus && f != DetailFocus {
		a.msgPages.SwitchToPage(pageMessages)
	}
	a.focus = f
}

// moveChat selects the chat delta rows away from the open one and opens it.
func (a *App) moveChat(delta int) {
	if len(a.chats) == 0 {
		return
	}
	i := slices.IndexFunc(a.chats, func(c store.Chat) bool { return c.JID == a.current })
	switch {
	case i < 0:
		i = 0
	default:
		i = min(max(i+delta, 0), len(a.chats)-1)
	}
	a.openChat(a.chats[i].JID)
}

func (a *App) composeInChat() {
	if a.current == "" {
		a.moveChat(0)
	}
	if a.current != "" {
		a.setFocus(InputFocus)
	}
}

func (a *App) openChat(jid string) {
	if jid == a.current {
		return
	}
	a.current = jid
	a.selectedID = ""
	a.quote = ""
	a.messages.List().Deselect()
	a.refresh()
	a.logger.Debug("chat opened", zap.String("chat", jid))
}

// afterSelect records the selected message and re-issues failed media
// requests for it.
func (a *App) afterSelect() {
	a.messages.List().Clamp(len(a.messages.Messages()))
	m, ok := a.messages.SelectedMessage()
	if !ok {
		a.selectedID = ""
		return
	}
	a.selectedID = m.ID
	a.retry(m)
}

func (a *App) retry(m *store.Message) {
	if !m.IsFile() || !a.state.Retry(m.ID) {
		return
	}
	a.logger.Info("retrying file", zap.String("msg_id", m.ID))
	a.requestMedia(m)
}

func (a *App) jumpToQuote() {
	m, ok := a.messages.SelectedMessage()
	if !ok || m.QuoteID == "" {
		return
	}
	i := slices.IndexFunc(a.messages.Messages(), func(x *store.Message) bool { return x.ID == m.QuoteID })
	if i < 0 {
		a.flash.Info("quoted message is not in this chat")
		return
	}
	a.messages.List().Select(i)
	a.afterSelect()
}

func (a *App) quoteSelected() {
	m, ok := a.messages.SelectedMessage()
	if !ok {
		return
	}
	a.quote = m.ID
	a.setFocus(InputFocus)
}

func (a *App) openDetail() {
	m, ok := a.messages.SelectedMessage()
	if !ok {
		return
	}
	a.retry(m)
	a.detail.SetMessage(m.ID)
	a.msgPages.SwitchToPage(pageDetail)
	a.setFocus(DetailFocus)
}

func (a *App) send() {
	if a.editor.Empty() {
		return
	}
	if a.current == "" {
		a.flash.Warn(errNoChat.Error())
		return
	}
	var quote *store.Message
	if a.quote != "" {
		if q, ok := a.state.Message(a.quote); ok {
			quote = q
		}
	}
	id := a.commands.SendText(a.current, a.editor.Text(), quote)
	a.logger.Debug("send queued", zap.String("request_id", id), zap.String("chat", a.current))
	a.editor.Reset()
	a.quote = ""
}

func (a *App) toggleLogs() {
	a.showLogs.Store(!a.showLogs.Load())
}

func (a *App) toggleProtocol() {
	kind := a.picker.Toggle()
	n := a.state.ResetImages()
	a.logger.Info("image protocol switched", zap.Stringer("protocol", kind), zap.Int("images", n))
	a.flash.Info(fmt.Sprintf("image protocol: %s", kind))
}

// requestMedia posts the next media request a message needs, if any.
func (a *App) requestMedia(m *store.Message) {
	if !m.IsFile() || m.File.FileID == "" {
		return
	}
	switch a.state.FileState(m.ID) {
	case state.Unrequested:
		a.bus.Publish(bus.DownloadRequested{MessageID: m.ID})
	case state.Downloaded:
		if m.File.Kind.IsImage() {
			a.bus.Publish(bus.PreviewLoadRequested{MessageID: m.ID})
		}
	}
}
