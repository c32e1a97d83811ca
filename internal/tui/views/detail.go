package views

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/whatsterm/internal/layout"
	"github.com/matheus3301/whatsterm/internal/media"
	"github.com/matheus3301/whatsterm/internal/state"
	"github.com/matheus3301/whatsterm/internal/store"
	"github.com/matheus3301/whatsterm/internal/tui/ui"
	"github.com/rivo/tview"
)

// Detail shows one message in full: metadata, the whole text and, for
// images, the decoded picture.
type Detail struct {
	*tview.Box
	theme    *ui.Theme
	model    Model
	protocol func() media.Protocol
	canvas   *layout.Canvas
	id       string
}

// NewDetail creates the detail view.
func NewDetail(theme *ui.Theme, model Model, protocol func() media.Protocol) *Detail {
	box := tview.NewBox().SetBorder(true).SetTitle(" Message ")
	box.SetBackgroundColor(theme.BgColor)
	box.SetTitleColor(theme.TitleColor)
	box.SetBorderColor(theme.BorderFocusColor)
	return &Detail{
		Box:      box,
		theme:    theme,
		model:    model,
		protocol: protocol,
		canvas:   layout.NewCanvas(0, 0),
	}
}

// SetMessage selects the message to show.
func (d *Detail) SetMessage(id string) {
	d.id = id
}

// MessageID returns the message being shown.
func (d *Detail) MessageID() string {
	return d.id
}

// Draw implements tview.Primitive.
func (d *Detail) Draw(screen tcell.Screen) {
	d.DrawForSubclass(screen, d)
	x, y, width, height := d.GetInnerRect()
	if width <= 0 || height <= 0 {
		return
	}
	m, ok := d.model.Message(d.id)
	if !ok {
		printCells(screen, x, y, width, "message not found", d.theme.Style(d.theme.FailedColor))
		return
	}

	t := d.theme
	d.canvas.Reset(width, height)
	row := 0
	field := func(label, value string) {
		if row >= height {
			return
		}
		col := d.canvas.Print(0, row, width, label+": ", t.Style(t.TimeColor))
		d.canvas.Print(col, row, width-col, sanitizeForTerminal(value), t.Style(t.FgColor))
		row++
	}

	sender := d.model.DisplayName(m.SenderJID)
	if m.FromMe {
		sender = "You"
	}
	field("From", fmt.Sprintf("%s (%s)", sender, m.SenderJID))
	field("Time", time.Unix(m.Timestamp, 0).Format("2006-01-02 15:04:05"))
	field("Receipts", fmt.Sprintf("%d", m.ReadCount))
	if m.QuoteID != "" {
		field("Reply to", QuotePreview(d.model, m.QuoteID))
	}
	fs := d.model.FileState(m.ID)
	if m.File != nil {
		field("File", fmt.Sprintf("%s %s (%s)", m.File.Kind, m.File.Path, fs))
	}
	row++

	var image *media.Bitmap
	imageTop := 0
	if m.File != nil && fs == state.Loaded {
		if b, ok := d.model.Image(m.File.Path); ok && b.Kind == d.protocol().Kind() {
			image, imageTop = b, row
			row += b.Rows + 1
		}
	}

	for _, line := range layout.Wrap(sanitizeForTerminal(body(m)), width) {
		if row >= height {
			break
		}
		d.canvas.Print(0, row, width, line, t.Style(tcell.ColorWhite))
		row++
	}

	d.canvas.Blit(screen, x, y, layout.Window{Total: height, Viewport: height})

	if image == nil || imageTop >= height {
		return
	}
	if surface, ok := screen.(media.Surface); ok {
		d.protocol().Render(surface, image, x, y+imageTop, width, min(image.Rows, height-imageTop))
	}
}

func body(m *store.Message) string {
	if m.File == nil {
		return m.Text
	}
	return m.File.Caption
}
