package views

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/matheus3301/whatsterm/internal/tui/ui"
	"github.com/rivo/tview"
)

// PairingView displays the QR code, and optionally a phone pairing code,
// while the device is not linked.
type PairingView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewPairingView creates a new pairing view.
func NewPairingView(theme *ui.Theme) *PairingView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Link a device ")
	tv.SetTitleColor(theme.TitleColor)

	return &PairingView{TextView: tv, theme: theme}
}

// Update renders the latest QR payload and pairing code. Both may be empty.
func (pv *PairingView) Update(qr, code string) {
	pv.Clear()

	if qr == "" {
		_, _ = fmt.Fprint(pv, "\n\nWaiting for a pairing code...")
		return
	}
	_, _ = fmt.Fprintf(pv, "\nScan this QR code with WhatsApp (Linked devices):\n\n%s\n", renderQR(qr))
	if code != "" {
		_, _ = fmt.Fprintf(pv, "\nOr enter this code on your phone: [::b]%s[-:-:-]\n", tview.Escape(code))
	}
	_, _ = fmt.Fprint(pv, "\n[::d]Waiting for authentication...")
}

// ShowMessage displays a status message.
func (pv *PairingView) ShowMessage(msg string) {
	pv.Clear()
	_, _ = fmt.Fprintf(pv, "\n\n%s", tview.Escape(msg))
}

// renderQR converts a string to a compact QR code using Unicode half-block
// characters. Two bitmap rows become one terminal line.
func renderQR(content string) string {
	qr, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return "(QR generation failed: " + err.Error() + ")"
	}
	qr.DisableBorder = false

	bitmap := qr.Bitmap()
	rows := len(bitmap)
	cols := 0
	if rows > 0 {
		cols = len(bitmap[0])
	}

	var sb strings.Builder
	for y := 0; y < rows; y += 2 {
		for x := 0; x < cols; x++ {
			top := bitmap[y][x]
			bot := false
			if y+1 < rows {
				bot = bitmap[y+1][x]
			}
			switch {
			case top && bot:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bot:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}
