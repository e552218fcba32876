//go:build !tinygo

package display

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/odin75/internal/renderer/bitmap"
)

// Terminal cell footprint of the panel: two pixel rows per cell.
const (
	TerminalWidth  = bitmap.Width + 2
	TerminalHeight = bitmap.Height/2 + 2
)

// Panel colours. Lit pixels blend from off toward lit by brightness.
var (
	panelOff = colorful.Color{R: 0.02, G: 0.02, B: 0.03}
	panelLit = colorful.Color{R: 0.55, G: 0.85, B: 1.0}
)

// DefaultPanelColor is the lit pixel colour of a new Terminal.
func DefaultPanelColor() colorful.Color { return panelLit }

// Terminal is a Sink that mirrors a Framebuffer into a tcell screen using
// half-block cells. Drawing happens on Flush.
type Terminal struct {
	*Framebuffer

	mu     sync.Mutex
	screen tcell.Screen
	x, y   int
	lit    colorful.Color
}

// NewTerminal creates a terminal sink drawing into screen with its top-left
// border corner at (x, y). The screen must already be initialised.
func NewTerminal(screen tcell.Screen, x, y int) *Terminal {
	return &Terminal{
		Framebuffer: NewFramebuffer(),
		screen:      screen,
		x:           x,
		y:           y,
		lit:         panelLit,
	}
}

// SetColor changes the lit pixel colour.
func (t *Terminal) SetColor(c colorful.Color) {
	t.mu.Lock()
	t.lit = c
	t.mu.Unlock()
}

// Flush draws the current frame and shows the screen.
func (t *Terminal) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	border := tcell.StyleDefault.Foreground(tcell.ColorGray)
	t.drawBorder(border)

	lit, off := t.palette()
	for row := 0; row < bitmap.Height/2; row++ {
		for x := 0; x < bitmap.Width; x++ {
			top := off
			if t.Pixel(x, row*2) {
				top = lit
			}
			bottom := off
			if t.Pixel(x, row*2+1) {
				bottom = lit
			}
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			t.screen.SetContent(t.x+1+x, t.y+1+row, '▀', nil, style)
		}
	}

	t.screen.Show()
	return nil
}

// DrawLine writes status text below the panel. Row 0 is the first line
// under the border.
func (t *Terminal) DrawLine(row int, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	y := t.y + TerminalHeight + row
	style := tcell.StyleDefault
	col := 0
	for _, r := range text {
		if col >= TerminalWidth {
			break
		}
		t.screen.SetContent(t.x+col, y, r, nil, style)
		col++
	}
	for ; col < TerminalWidth; col++ {
		t.screen.SetContent(t.x+col, y, ' ', nil, style)
	}
}

func (t *Terminal) palette() (lit, off tcell.Color) {
	offc := toTcell(panelOff)
	if !t.On() {
		return offc, offc
	}
	c := panelOff.BlendLab(t.lit, float64(t.Brightness())/255)
	return toTcell(c.Clamped()), offc
}

func (t *Terminal) drawBorder(style tcell.Style) {
	right := t.x + TerminalWidth - 1
	bottom := t.y + TerminalHeight - 1
	for x := t.x + 1; x < right; x++ {
		t.screen.SetContent(x, t.y, '─', nil, style)
		t.screen.SetContent(x, bottom, '─', nil, style)
	}
	for y := t.y + 1; y < bottom; y++ {
		t.screen.SetContent(t.x, y, '│', nil, style)
		t.screen.SetContent(right, y, '│', nil, style)
	}
	t.screen.SetContent(t.x, t.y, '┌', nil, style)
	t.screen.SetContent(right, t.y, '┐', nil, style)
	t.screen.SetContent(t.x, bottom, '└', nil, style)
	t.screen.SetContent(right, bottom, '┘', nil, style)
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
