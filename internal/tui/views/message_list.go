package views

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/whatsterm/internal/layout"
	"github.com/matheus3301/whatsterm/internal/media"
	"github.com/matheus3301/whatsterm/internal/state"
	"github.com/matheus3301/whatsterm/internal/store"
	"github.com/matheus3301/whatsterm/internal/tui/ui"
	"github.com/rivo/tview"
)

// Model is the read side of the state the message views draw from.
type Model interface {
	DisplayName(jid string) string
	Message(id string) (*store.Message, bool)
	FileState(id string) state.FileState
	Image(path string) (*media.Bitmap, bool)
}

type placedImage struct {
	bitmap *media.Bitmap
	top    int
}

// MessageList draws a chat's messages bottom-up, newest at the bottom. Rows
// are laid out on a scratch canvas and only the visible slice reaches the
// screen.
type MessageList struct {
	*tview.Box
	theme    *ui.Theme
	model    Model
	protocol func() media.Protocol

	list     *layout.ListState
	messages []*store.Message
	canvas   *layout.Canvas
	window   layout.Window
}

// NewMessageList creates the message list. protocol returns the image
// protocol active for the frame being drawn.
func NewMessageList(theme *ui.Theme, model Model, protocol func() media.Protocol) *MessageList {
	box := tview.NewBox().SetBorder(true)
	box.SetBackgroundColor(theme.BgColor)
	box.SetTitleColor(theme.TitleColor)
	return &MessageList{
		Box:      box,
		theme:    theme,
		model:    model,
		protocol: protocol,
		list:     &layout.ListState{},
		canvas:   layout.NewCanvas(0, 0),
	}
}

// List returns the selection and scroll state.
func (ml *MessageList) List() *layout.ListState {
	return ml.list
}

// SetMessages sets the messages to draw, newest first.
func (ml *MessageList) SetMessages(title string, msgs []*store.Message) {
	ml.SetTitle(" " + tview.Escape(sanitizeForTerminal(title)) + " ")
	ml.messages = msgs
	ml.list.Clamp(len(msgs))
}

// Messages returns the messages last set, newest first.
func (ml *MessageList) Messages() []*store.Message {
	return ml.messages
}

// SelectedMessage returns the selected message, if any.
func (ml *MessageList) SelectedMessage() (*store.Message, bool) {
	i, ok := ml.list.Selected()
	if !ok || i >= len(ml.messages) {
		return nil, false
	}
	return ml.messages[i], true
}

// Visible returns the messages placed by the last Draw.
func (ml *MessageList) Visible() []*store.Message {
	out := make([]*store.Message, 0, len(ml.window.Placements))
	for _, p := range ml.window.Placements {
		if p.Index < len(ml.messages) {
			out = append(out, ml.messages[p.Index])
		}
	}
	return out
}

// SetFocused switches the border color to mark focus.
func (ml *MessageList) SetFocused(focused bool) {
	setFocusBorder(ml.Box, ml.theme, focused)
}

// Draw implements tview.Primitive.
func (ml *MessageList) Draw(screen tcell.Screen) {
	ml.DrawForSubclass(screen, ml)
	x, y, width, height := ml.GetInnerRect()
	if width <= 0 || height <= 0 {
		ml.window = layout.Window{}
		return
	}

	msgs := ml.messages
	ml.window = layout.Compute(ml.list, len(msgs), height, func(i int) int {
		return layout.MessageHeight(msgs[i], ml.model.FileState(msgs[i].ID), width)
	})

	ml.canvas.Reset(width, ml.window.Total)
	sel, hasSel := ml.list.Selected()
	var images []placedImage
	for _, p := range ml.window.Placements {
		if img := ml.drawMessage(msgs[p.Index], p, width, hasSel && sel == p.Index); img.bitmap != nil {
			images = append(images, img)
		}
	}
	ml.canvas.Blit(screen, x, y, ml.window)

	surface, ok := screen.(media.Surface)
	if !ok {
		return
	}
	proto := ml.protocol()
	for _, img := range images {
		if img.bitmap.Kind != proto.Kind() {
			continue
		}
		vy, rows, ok := ml.window.ImageSlot(img.top, img.bitmap.Rows)
		if !ok {
			continue
		}
		proto.Render(surface, img.bitmap, x, y+vy, width, rows)
	}
}

// drawMessage lays out one message on the canvas and returns its image,
// if one is ready to be drawn.
func (ml *MessageList) drawMessage(m *store.Message, p layout.Placement, width int, selected bool) placedImage {
	t := ml.theme
	row := p.Top

	headerStyle := t.Style(t.SenderColor).Bold(true)
	sender := ml.model.DisplayName(m.SenderJID)
	if m.FromMe {
		sender = "You"
		headerStyle = t.Style(t.OwnSenderColor).Bold(true)
	}
	if selected {
		cursor := tcell.StyleDefault.Foreground(t.CursorFg).Background(t.CursorBg)
		ml.canvas.Fill(row, 1, cursor)
		headerStyle = cursor.Bold(true)
	}
	col := ml.canvas.Print(0, row, width, sanitizeForTerminal(sender), headerStyle)
	meta := " " + formatTime(m.Timestamp) + receiptMarks(m)
	timeStyle := t.Style(t.TimeColor)
	if selected {
		timeStyle = headerStyle.Bold(false)
	}
	ml.canvas.Print(col, row, width-col, meta, timeStyle)
	row += layout.HeaderRows

	if m.QuoteID != "" {
		ml.canvas.Print(0, row, width, "│ "+QuotePreview(ml.model, m.QuoteID), t.Style(t.QuoteColor))
		row += layout.QuoteRows
	}

	if m.File == nil {
		for _, line := range layout.Wrap(sanitizeForTerminal(m.Text), width) {
			ml.canvas.Print(0, row, width, line, t.Style(t.FgColor))
			row++
		}
		return placedImage{}
	}

	var img placedImage
	fs := ml.model.FileState(m.ID)
	if layout.ShowsImage(m, fs) {
		if b, ok := ml.model.Image(m.File.Path); ok && fs == state.Loaded {
			img = placedImage{bitmap: b, top: row}
		} else {
			ml.canvas.Print(0, row, width, FilePlaceholder(m.File, fs), t.Style(t.PlaceholderColor))
		}
		row += media.ImageRows
	} else {
		style := t.Style(t.PlaceholderColor)
		if fs.Failed() {
			style = t.Style(t.FailedColor)
		}
		ml.canvas.Print(0, row, width, FilePlaceholder(m.File, fs), style)
		row++
	}
	if m.File.Caption != "" {
		for _, line := range layout.Wrap(sanitizeForTerminal(m.File.Caption), width) {
			ml.canvas.Print(0, row, width, line, t.Style(t.FgColor))
			row++
		}
	}
	return img
}

// QuotePreview is the one-line text shown for a quoted message.
func QuotePreview(model Model, id string) string {
	q, ok := model.Message(id)
	if !ok {
		return "message not found"
	}
	name := "You"
	if !q.FromMe {
		name = model.DisplayName(q.SenderJID)
	}
	text := strings.ReplaceAll(q.Preview(), "\n", " ")
	return sanitizeForTerminal(name + ": " + text)
}

// FilePlaceholder describes a file that is not drawn as an image.
func FilePlaceholder(f *store.File, fs state.FileState) string {
	name := f.Path
	switch fs {
	case state.Unrequested:
		if f.FileID == "" {
			return fmt.Sprintf("[%s] unavailable", f.Kind)
		}
		return fmt.Sprintf("[%s] %s", f.Kind, name)
	case state.Downloading:
		return fmt.Sprintf("[%s] downloading…", f.Kind)
	case state.DownloadFailed:
		return fmt.Sprintf("[%s] download failed, select to retry", f.Kind)
	case state.Loading:
		return fmt.Sprintf("[%s] loading…", f.Kind)
	case state.LoadFailed:
		return fmt.Sprintf("[%s] cannot display %s", f.Kind, name)
	default:
		return fmt.Sprintf("[%s] %s", f.Kind, name)
	}
}

func receiptMarks(m *store.Message) string {
	if !m.FromMe {
		return ""
	}
	switch {
	case m.ReadCount >= 2:
		return " ✓✓"
	case m.ReadCount == 1:
		return " ✓"
	}
	return ""
}
