package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Theme holds color constants for the TUI.
type Theme struct {
	BgColor          tcell.Color
	FgColor          tcell.Color
	BorderColor      tcell.Color
	BorderFocusColor tcell.Color
	TitleColor       tcell.Color
	CursorFg         tcell.Color
	CursorBg         tcell.Color
	SenderColor      tcell.Color
	OwnSenderColor   tcell.Color
	TimeColor        tcell.Color
	QuoteColor       tcell.Color
	PlaceholderColor tcell.Color
	FailedColor      tcell.Color
	MenuKeyColor     tcell.Color
	StatusBgColor    tcell.Color
	FlashInfoColor   tcell.Color
	FlashWarnColor   tcell.Color
	FlashErrColor    tcell.Color
}

// DefaultTheme returns a k9s-inspired dark theme.
func DefaultTheme() *Theme {
	return &Theme{
		BgColor:          tcell.ColorBlack,
		FgColor:          tcell.ColorCadetBlue,
		BorderColor:      tcell.ColorDodgerBlue,
		BorderFocusColor: tcell.ColorLightSkyBlue,
		TitleColor:       tcell.ColorFuchsia,
		CursorFg:         tcell.ColorBlack,
		CursorBg:         tcell.ColorAqua,
		SenderColor:      tcell.ColorOrange,
		OwnSenderColor:   tcell.ColorLightGreen,
		TimeColor:        tcell.ColorGray,
		QuoteColor:       tcell.ColorDarkCyan,
		PlaceholderColor: tcell.ColorNavajoWhite,
		FailedColor:      tcell.ColorOrangeRed,
		MenuKeyColor:     tcell.ColorDodgerBlue,
		StatusBgColor:    tcell.ColorDarkSlateGray,
		FlashInfoColor:   tcell.ColorNavajoWhite,
		FlashWarnColor:   tcell.ColorOrange,
		FlashErrColor:    tcell.ColorOrangeRed,
	}
}

// Style returns a style with fg on the theme background.
func (t *Theme) Style(fg tcell.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(fg).Background(t.BgColor)
}

// ColorName returns a tview-compatible color name string.
func ColorName(c tcell.Color) string {
	for name, val := range tcell.ColorNames {
		if val == c {
			return name
		}
	}
	return fmt.Sprintf("#%06x", c.Hex())
}
