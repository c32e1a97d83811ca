// Package tui is the terminal interface: one loop owns the screen and the
// model, consumes the event bus and redraws after each batch of events.
package tui

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/whatsterm/internal/bus"
	"github.com/matheus3301/whatsterm/internal/media"
	"github.com/matheus3301/whatsterm/internal/state"
	"github.com/matheus3301/whatsterm/internal/status"
	"github.com/matheus3301/whatsterm/internal/store"
	"github.com/matheus3301/whatsterm/internal/tui/editor"
	"github.com/matheus3301/whatsterm/internal/tui/keys"
	"github.com/matheus3301/whatsterm/internal/tui/ui"
	"github.com/matheus3301/whatsterm/internal/tui/views"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

// maxFrameInterval bounds how long an event storm can hold back a redraw.
const maxFrameInterval = 50 * time.Millisecond

// Commands are the backend calls issued from the interface. They return
// immediately; results arrive on the bus.
type Commands interface {
	SendText(chat, text string, quote *store.Message) string
	PairPhone(phone string)
	FetchContacts()
}

// Downloads accepts file download jobs.
type Downloads interface {
	Enqueue(media.DownloadJob)
}

// Decodes accepts image decode jobs.
type Decodes interface {
	Enqueue(media.DecodeJob)
}

// LogRing is the in-memory log tail shown in the log panel.
type LogRing interface {
	Tail(n int) []string
	OnWrite(func())
}

// Deps are the collaborators of the App.
type Deps struct {
	Bus       *bus.Bus
	State     *state.State
	Commands  Commands
	Downloads Downloads
	Decodes   Decodes
	Picker    *media.Picker
	Logs      LogRing
	Logger    *zap.Logger
}

// Options configure one run.
type Options struct {
	Session  string
	MediaDir string
	// Phone, when set, requests a pairing code for this number.
	Phone    string
	LoggedIn bool
}

// App is the main TUI application shell.
type App struct {
	bus       *bus.Bus
	state     *state.State
	commands  Commands
	downloads Downloads
	decodes   Decodes
	picker    *media.Picker
	logger    *zap.Logger
	opts      Options

	status *status.Machine
	theme  *ui.Theme
	flash  *ui.FlashModel
	editor *editor.Editor

	focus       Focus
	router      keys.Router
	global      *keys.Keymap
	transitions map[Focus]*keys.Keymap
	local       map[Focus]*keys.Keymap

	chats      []store.Chat
	current    string
	selectedID string
	quote      string

	syncPercent    int
	pairingQR      string
	pairingCode    string
	logoutReason   string
	phoneRequested bool
	showLogs       atomic.Bool
	lastKind       media.Kind
	quit           bool

	screen   tcell.Screen
	lastDraw time.Time

	root      *tview.Flex
	pages     *tview.Pages
	right     *tview.Flex
	msgPages  *tview.Pages
	chatList  *views.ChatList
	messages  *views.MessageList
	detail    *views.Detail
	input     *views.Input
	pairing   *views.PairingView
	logPanel  *views.LogPanel
	menu      *ui.Menu
	statusBar *views.StatusBar
}

// NewApp creates the TUI application.
func NewApp(d Deps, opts Options) *App {
	a := &App{
		bus:         d.Bus,
		state:       d.State,
		commands:    d.Commands,
		downloads:   d.Downloads,
		decodes:     d.Decodes,
		picker:      d.Picker,
		logger:      d.Logger,
		opts:        opts,
		theme:       ui.DefaultTheme(),
		editor:      editor.New(),
		syncPercent: -1,
	}
	a.lastKind = a.picker.Current().Kind()
	a.flash = ui.NewFlashModel(a.requestRedraw)
	a.status = status.NewMachine(func(from, to status.State) {
		a.logger.Info("status changed", zap.String("from", string(from)), zap.String("to", string(to)))
	})

	if d.Logs != nil {
		d.Logs.OnWrite(func() {
			if a.showLogs.Load() {
				a.requestRedraw()
			}
		})
	}

	a.setupBindings()
	a.setupLayout(d.Logs)
	return a
}

func (a *App) setupLayout(logs LogRing) {
	protocol := a.picker.Current

	a.chatList = views.NewChatList(a.theme)
	a.messages = views.NewMessageList(a.theme, a.state, protocol)
	a.detail = views.NewDetail(a.theme, a.state, protocol)
	a.input = views.NewInput(a.theme, a.editor)
	a.pairing = views.NewPairingView(a.theme)
	a.menu = ui.NewMenu(a.theme)
	a.statusBar = views.NewStatusBar(a.theme)
	a.statusBar.SetSession(a.opts.Session)
	if logs == nil {
		logs = emptyLogs{}
	}
	a.logPanel = views.NewLogPanel(a.theme, logs)

	a.msgPages = tview.NewPages().
		AddPage(pageMessages, a.messages, true, true).
		AddPage(pageDetail, a.detail, true, false)

	a.right = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.msgPages, 0, 1, false).
		AddItem(a.input, a.input.Height(), 0, false)

	body := tview.NewFlex().
		AddItem(a.chatList, chatListWidth, 0, false).
		AddItem(a.right, 0, 1, false)

	a.pages = tview.NewPages().
		AddPage(pageMain, body, true, true).
		AddPage(pagePairing, a.pairing, true, false)

	a.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, false).
		AddItem(a.logPanel, 0, 0, false).
		AddItem(a.menu, 1, 0, false).
		AddItem(a.statusBar, 1, 0, false)
}

const (
	pageMain     = "main"
	pagePairing  = "pairing"
	pageMessages = "messages"
	pageDetail   = "detail"

	chatListWidth = 32
)

// Run takes over the terminal and processes events until quit or ctx is
// cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		if err := screen.Init(); err != nil {
			return err
		}
		a.screen = screen
	}
	defer a.screen.Fini()

	go a.readInput(a.screen)

	a.start()
	a.draw()
	for !a.quit {
		evt, ok := a.bus.Next(ctx)
		if !ok {
			return nil
		}
		a.dispatch(evt)
		if a.quit {
			break
		}
		if a.bus.Len() == 0 || time.Since(a.lastDraw) >= maxFrameInterval {
			a.draw()
		}
	}
	a.logger.Info("quit requested")
	return nil
}

// readInput forwards terminal events to the bus until the screen is
// finalized.
func (a *App) readInput(screen tcell.Screen) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		a.bus.Publish(bus.Terminal{Event: ev})
	}
}

func (a *App) start() {
	if a.opts.LoggedIn {
		a.setStatus(status.Connecting)
	} else {
		a.setStatus(status.Pairing)
	}
}

// Status returns the connection status.
func (a *App) Status() status.State {
	return a.status.Current()
}

// Focus returns the focused panel.
func (a *App) Focus() Focus {
	return a.focus
}

// setStatus moves the connection state machine, logging rejected moves.
func (a *App) setStatus(to status.State) {
	if err := a.status.Transition(to); err != nil {
		a.logger.Debug("status transition ignored", zap.Error(err))
	}
}

func (a *App) requestRedraw() {
	a.bus.Publish(bus.Redraw{})
}

type emptyLogs struct{}

func (emptyLogs) Tail(int) []string { return nil }
func (emptyLogs) OnWrite(func())    {}
