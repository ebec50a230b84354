package view

import "github.com/gdamore/tcell/v2"

// Theme holds the styles a Renderer draws with
type Theme struct {
	Base      tcell.Style
	Header    tcell.Style
	Accent    tcell.Style
	Muted     tcell.Style
	Banner    tcell.Style
	Skeleton  tcell.Style
	Highlight tcell.Style
}

var (
	colorPrimary   = tcell.NewHexColor(0x2196f3)
	colorSecondary = tcell.NewHexColor(0xf50057)
	colorSuccess   = tcell.NewHexColor(0x4caf50)
)

// LightTheme mirrors the light palette
var LightTheme = Theme{
	Base:      tcell.StyleDefault.Background(tcell.NewHexColor(0xf5f5f5)).Foreground(tcell.NewHexColor(0x212121)),
	Header:    tcell.StyleDefault.Background(colorPrimary).Foreground(tcell.ColorWhite).Bold(true),
	Accent:    tcell.StyleDefault.Background(tcell.NewHexColor(0xf5f5f5)).Foreground(colorPrimary).Bold(true),
	Muted:     tcell.StyleDefault.Background(tcell.NewHexColor(0xf5f5f5)).Foreground(tcell.NewHexColor(0x9e9e9e)),
	Banner:    tcell.StyleDefault.Background(colorSecondary).Foreground(tcell.ColorWhite).Bold(true),
	Skeleton:  tcell.StyleDefault.Background(tcell.NewHexColor(0xe0e0e0)).Foreground(tcell.NewHexColor(0xbdbdbd)),
	Highlight: tcell.StyleDefault.Background(tcell.NewHexColor(0xf5f5f5)).Foreground(colorSuccess).Bold(true),
}

// DarkTheme mirrors the dark palette
var DarkTheme = Theme{
	Base:      tcell.StyleDefault.Background(tcell.NewHexColor(0x121212)).Foreground(tcell.NewHexColor(0xeeeeee)),
	Header:    tcell.StyleDefault.Background(tcell.NewHexColor(0x1e1e1e)).Foreground(colorPrimary).Bold(true),
	Accent:    tcell.StyleDefault.Background(tcell.NewHexColor(0x121212)).Foreground(colorPrimary).Bold(true),
	Muted:     tcell.StyleDefault.Background(tcell.NewHexColor(0x121212)).Foreground(tcell.NewHexColor(0x757575)),
	Banner:    tcell.StyleDefault.Background(colorSecondary).Foreground(tcell.ColorWhite).Bold(true),
	Skeleton:  tcell.StyleDefault.Background(tcell.NewHexColor(0x2c2c2c)).Foreground(tcell.NewHexColor(0x424242)),
	Highlight: tcell.StyleDefault.Background(tcell.NewHexColor(0x121212)).Foreground(colorSuccess).Bold(true),
}

// ThemeFor swaps tokens for dark mode, the only place dark mode has effect
func ThemeFor(dark bool) Theme {
	if dark {
		return DarkTheme
	}
	return LightTheme
}
