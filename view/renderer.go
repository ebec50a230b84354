package view

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/echolens/core"
)

// Header tabs in navigation-key order
var tabs = []struct {
	route core.RouteKey
	label string
}{
	{core.RouteDashboard, "Dashboard"},
	{core.RouteAnalysis, "Analysis"},
	{core.RouteChat, "Chat"},
	{core.RouteSettings, "Settings"},
}

var features = []string{"Speech Recognition", "Sound Detection", "AI Assistant"}

// Renderer draws Models onto a tcell screen
type Renderer struct {
	screen tcell.Screen
}

// NewRenderer wraps screen; the caller owns Init and Fini
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Draw renders m and shows the frame
func (r *Renderer) Draw(m Model) {
	theme := ThemeFor(m.DarkMode)
	w, h := r.screen.Size()

	r.screen.SetStyle(theme.Base)
	r.screen.Clear()
	r.fill(0, 0, w, h, ' ', theme.Base)

	if m.Initializing {
		r.drawSplash(w, h, theme)
		r.screen.Show()
		return
	}

	r.drawHeader(m, w, theme)
	r.drawTabs(m, theme)

	bodyTop := 3
	if m.Celebrating {
		r.drawBanner(w, theme)
		bodyTop = 4
	}
	r.drawBody(m, bodyTop, w, h-1, theme)
	r.drawFooter(w, h, theme)

	r.screen.Show()
}

func (r *Renderer) drawSplash(w, h int, theme Theme) {
	r.centered(h/2-1, w, "echolens", theme.Accent)
	r.centered(h/2+1, w, "listening...", theme.Muted)
}

func (r *Renderer) drawHeader(m Model, w int, theme Theme) {
	r.fill(0, 0, w, 1, ' ', theme.Header)
	r.text(1, 0, "echolens", theme.Header)

	right := m.State.String()
	if m.Muted {
		right += "  [muted]"
	}
	r.text(w-runewidth.StringWidth(right)-1, 0, right, theme.Header)
}

func (r *Renderer) drawTabs(m Model, theme Theme) {
	x := 1
	for i, tab := range tabs {
		label := fmt.Sprintf("[%d] %s", i+1, tab.label)
		style := theme.Muted
		if tab.route == m.Route {
			style = theme.Accent.Underline(true)
		}
		x = r.text(x, 1, label, style) + 2
	}
}

func (r *Renderer) drawBanner(w int, theme Theme) {
	r.fill(0, 2, w, 1, ' ', theme.Banner)
	r.centered(2, w, "* celebration *", theme.Banner)
}

func (r *Renderer) drawBody(m Model, top, w, bottom int, theme Theme) {
	screen := m.Screen()
	if screen.IsSkeleton() {
		r.drawSkeleton(screen, top, w, bottom, theme)
		return
	}

	y := top + 1
	line := func(s string, style tcell.Style) {
		if y < bottom {
			r.text(2, y, s, style)
		}
		y++
	}

	switch screen {
	case ScreenDashboard:
		line("Dashboard", theme.Accent)
		y++
		line("Emotion    "+string(m.State.Emotion), theme.Base)
		line("Sentiment  "+string(m.State.Sentiment), theme.Base)
		line("Intensity  "+string(m.State.Intensity), theme.Base)
		y++
		for _, f := range features {
			line("- "+f, theme.Muted)
		}
	case ScreenAnalysis:
		line("Emotion Analysis", theme.Accent)
		y++
		line("Inject a sample: [h]appy [e]xcited [s]ad [a]ngry [n]eutral", theme.Base)
		line("Last result: "+m.State.String(), theme.Highlight)
	case ScreenChat:
		line("Chat", theme.Accent)
		y++
		line(fmt.Sprintf("Assistant tone follows %s (%s)", m.State.Emotion, m.State.Sentiment), theme.Base)
	case ScreenSettings:
		line("Settings", theme.Accent)
		y++
		line("Dark mode  "+onOff(m.DarkMode), theme.Base)
		line("Audio      "+onOff(!m.Muted), theme.Base)
		if len(m.Visited) > 0 {
			visited := make([]string, len(m.Visited))
			for i, v := range m.Visited {
				visited[i] = string(v)
			}
			line("Visited    "+strings.Join(visited, " "), theme.Muted)
		}
	default:
		line("Not found", theme.Accent)
		y++
		line(fmt.Sprintf("No screen for route %q", m.Route), theme.Muted)
	}
}

func (r *Renderer) drawSkeleton(screen Screen, top, w, bottom int, theme Theme) {
	width := w - 4
	rows := []int{width / 3, width, width, width * 2 / 3}
	if screen == ScreenChatSkeleton {
		rows = []int{width / 2, width * 2 / 3, width / 2, width * 3 / 4}
	}
	y := top + 1
	for i, n := range rows {
		if y >= bottom {
			break
		}
		x := 2
		if screen == ScreenChatSkeleton && i%2 == 1 {
			x = w - 2 - n
		}
		r.fill(x, y, n, 1, ' ', theme.Skeleton)
		y += 2
	}
}

func (r *Renderer) drawFooter(w, h int, theme Theme) {
	r.text(1, h-1, "1-4 navigate  d dark  m mute  h/e/s/a/n emotion  q quit", theme.Muted)
}

// text draws s at x,y clipped to the screen and returns the next column
func (r *Renderer) text(x, y int, s string, style tcell.Style) int {
	w, h := r.screen.Size()
	if y < 0 || y >= h {
		return x
	}
	for _, ch := range s {
		cw := runewidth.RuneWidth(ch)
		if x >= 0 && x+cw <= w {
			r.screen.SetContent(x, y, ch, nil, style)
		}
		x += cw
	}
	return x
}

func (r *Renderer) centered(y, w int, s string, style tcell.Style) {
	r.text((w-runewidth.StringWidth(s))/2, y, s, style)
}

func (r *Renderer) fill(x, y, w, h int, ch rune, style tcell.Style) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			r.screen.SetContent(col, row, ch, nil, style)
		}
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
