// Package artwork draws placeholder scene art for the OLED.
package artwork

import (
	"github.com/dshills/odin75/internal/display"
	"github.com/dshills/odin75/internal/oled"
	"github.com/dshills/odin75/internal/renderer/bitmap"
)

// canvas is a page-layout bitmap being drawn.
type canvas struct {
	buf    []byte
	width  int
	height int
}

func newCanvas(width, height int) *canvas {
	return &canvas{buf: make([]byte, width*height/8), width: width, height: height}
}

func (c *canvas) set(x, y int) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.buf[(y/8)*c.width+x] |= 1 << (y % 8)
}

func (c *canvas) fill(x0, y0, x1, y1 int) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c.set(x, y)
		}
	}
}

// ring draws a circle outline of radius r and the given thickness.
func (c *canvas) ring(cx, cy, r, thick int) {
	outer, inner := r*r, (r-thick)*(r-thick)
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			d := (x-cx)*(x-cx) + (y-cy)*(y-cy)
			if d <= outer && d > inner {
				c.set(x, y)
			}
		}
	}
}

// text draws s with the panel font, scaled by n, top-left at (x, y).
func (c *canvas) text(x, y, n int, s string) {
	for i := 0; i < len(s); i++ {
		g := display.Glyph(s[i])
		for col, bits := range g {
			for row := 0; row < 8; row++ {
				if bits&(1<<row) == 0 {
					continue
				}
				px := x + (i*display.GlyphWidth+col)*n
				c.fill(px, y+row*n, px+n, y+row*n+n)
			}
		}
	}
}

func centred(s string, n int) int {
	return (bitmap.Width - len(s)*display.GlyphWidth*n) / 2
}

// Procedural draws stand-in art for every scene: the reveal scenes show
// the scene name over a backdrop, and the scrolling scenes get strips whose
// motion is easy to follow.
func Procedural() *oled.Assets {
	var a oled.Assets
	for s := oled.Scene(0); s < oled.SceneCount; s++ {
		switch s {
		case oled.SceneFaces:
			a[s] = oled.Art{Strip: faces(), Extent: oled.FacesWidth}
		case oled.SceneCat:
			a[s] = oled.Art{Strip: stripes(), Extent: oled.CatWidth}
		case oled.SceneCharacters:
			a[s] = oled.Art{Strip: characters(), Extent: oled.CharactersHeight}
		default:
			full, front := reveal(s)
			a[s] = oled.Art{Full: full, Front: front}
		}
	}
	return &a
}

// reveal draws the idle image (full) and the typing image (front).
func reveal(s oled.Scene) (full, front []byte) {
	name := s.String()

	f := newCanvas(bitmap.Width, bitmap.Height)
	for r := 8 + int(s)*2; r < 160; r += 12 {
		f.ring(bitmap.Width/2, bitmap.Height/2, r, 2)
	}
	f.text(centred(name, 2), 24, 2, name)

	b := newCanvas(bitmap.Width, bitmap.Height)
	b.fill(0, 0, bitmap.Width, bitmap.Height)
	for x := int(s) % 8; x < bitmap.Width; x += 8 {
		for y := 0; y < bitmap.Height; y += 2 {
			b.buf[(y/8)*bitmap.Width+x] &^= 1 << (y % 8)
		}
	}
	label := "typing"
	cut := newCanvas(bitmap.Width, bitmap.Height)
	cut.text(centred(label, 2), 24, 2, label)
	for i := range b.buf {
		b.buf[i] &^= cut.buf[i]
	}
	return f.buf, b.buf
}

// faces is a row of simple faces, one every 96 columns.
func faces() []byte {
	c := newCanvas(oled.FacesWidth, bitmap.Height)
	for i := 0; i*96 < oled.FacesWidth; i++ {
		cx := i*96 + 48
		c.ring(cx, 32, 26, 2)
		c.fill(cx-12, 22, cx-6, 28)
		c.fill(cx+6, 22, cx+12, 28)
		switch i % 3 {
		case 0:
			c.fill(cx-10, 42, cx+10, 44)
		case 1:
			c.ring(cx, 40, 6, 2)
		default:
			c.fill(cx-10, 44, cx-6, 46)
			c.fill(cx-6, 42, cx+6, 44)
			c.fill(cx+6, 44, cx+10, 46)
		}
	}
	return c.buf
}

// stripes is a diagonal band pattern with end markers so the reversal
// points are visible.
func stripes() []byte {
	c := newCanvas(oled.CatWidth, bitmap.Height)
	for x := 0; x < oled.CatWidth; x++ {
		for y := 0; y < bitmap.Height; y++ {
			if (x+y)/8%2 == 0 {
				c.set(x, y)
			}
		}
	}
	c.fill(0, 0, 4, bitmap.Height)
	c.fill(oled.CatWidth-4, 0, oled.CatWidth, bitmap.Height)
	return c.buf
}

// characters stacks numbered cards, one per 64 rows.
func characters() []byte {
	c := newCanvas(bitmap.Width, oled.CharactersHeight)
	for i := 0; i*bitmap.Height < oled.CharactersHeight; i++ {
		top := i * bitmap.Height
		c.fill(4, top+4, bitmap.Width-4, top+6)
		c.fill(4, top+58, bitmap.Width-4, top+60)
		label := string(rune('A' + i))
		c.text(centred(label, 4), top+16, 4, label)
	}
	return c.buf
}
