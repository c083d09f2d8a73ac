package scene

import (
	"image/color"
	"math"
	"net/url"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/marker"
)

// ebitenutil debug font cell size.
const (
	glyphCellWidth  = 6
	glyphCellHeight = 16
)

// maxGridLines caps the tile grid per axis.
const maxGridLines = 64

var (
	defaultPinBackground = color.NRGBA{R: 0xea, G: 0x43, B: 0x35, A: 0xff}
	defaultPinBorder     = color.NRGBA{R: 0xc5, G: 0x22, B: 0x1f, A: 0xff}
	defaultPinGlyph      = color.NRGBA{R: 0xb3, G: 0x14, B: 0x12, A: 0xff}
	defaultContentFill   = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	gridColor            = color.NRGBA{R: 0xd0, G: 0xd3, B: 0xd8, A: 0xff}
	titleBackground      = color.NRGBA{A: 0xb0}
)

// Draw renders the tile grid and the visible views back to front. The title
// of the hovered view is drawn on top.
func (m *Map) Draw(screen *ebiten.Image) {
	screen.Fill(m.background)
	m.drawGrid(screen)

	shown := m.arrange()
	for _, e := range shown {
		if e.view.content != nil {
			drawContent(screen, e)
		} else {
			drawPin(screen, e)
		}
	}

	if hv := m.pointer.hoverView; hv != nil && hv.title != "" {
		for _, e := range shown {
			if e.view == hv {
				drawTitle(screen, hv.title, e.rect)
				break
			}
		}
	}
	m.flushScreenshots(screen)
}

// drawGrid draws tile boundaries for the current integer zoom level.
func (m *Map) drawGrid(screen *ebiten.Image) {
	tile := TileSize / math.Exp2(math.Floor(m.camera.Zoom))
	vb := m.camera.VisibleBounds()

	x0 := math.Floor(vb.X/tile) * tile
	for i, x := 0, x0; x <= vb.X+vb.Width && i < maxGridLines; i, x = i+1, x+tile {
		ax, ay := m.camera.WorldToScreen(x, vb.Y)
		bx, by := m.camera.WorldToScreen(x, vb.Y+vb.Height)
		vector.StrokeLine(screen, float32(ax), float32(ay), float32(bx), float32(by), 1, gridColor, false)
	}
	y0 := math.Floor(vb.Y/tile) * tile
	for i, y := 0, y0; y <= vb.Y+vb.Height && i < maxGridLines; i, y = i+1, y+tile {
		ax, ay := m.camera.WorldToScreen(vb.X, y)
		bx, by := m.camera.WorldToScreen(vb.X+vb.Width, y)
		vector.StrokeLine(screen, float32(ax), float32(ay), float32(bx), float32(by), 1, gridColor, false)
	}
}

// drawPin draws the default pin: a round head with a tail ending on the
// anchor, and the glyph inside the head.
func drawPin(screen *ebiten.Image, e layoutEntry) {
	p := e.view.pin
	bg := cssColor(p.background, defaultPinBackground)
	border := cssColor(p.borderColor, defaultPinBorder)
	glyphColor := cssColor(p.glyphColor, defaultPinGlyph)

	r := e.rect.Width / 2
	cx := e.x
	cy := e.rect.Y + r

	vector.StrokeLine(screen, float32(cx), float32(cy), float32(e.x), float32(e.y), float32(r*0.8), bg, true)
	vector.DrawFilledCircle(screen, float32(cx), float32(cy), float32(r), bg, true)
	vector.StrokeCircle(screen, float32(cx), float32(cy), float32(r), 1, border, true)

	switch g := p.glyph.(type) {
	case nil:
		vector.DrawFilledCircle(screen, float32(cx), float32(cy), float32(r*0.38), glyphColor, true)
	case string:
		printCentered(screen, g, cx, cy)
	case marker.Ligature:
		printCentered(screen, g.Name, cx, cy)
	case *Element:
		printCentered(screen, g.Text, cx, cy)
	case *url.URL:
		// images are not fetched; mark the glyph slot
		vector.StrokeCircle(screen, float32(cx), float32(cy), float32(r*0.4), 2, glyphColor, true)
	}
}

// drawContent draws custom content as a box styled by the --marker-* style
// properties of the view's root element.
func drawContent(screen *ebiten.Image, e layoutEntry) {
	el := e.view.el
	fill := color.Color(defaultContentFill)
	if v, ok := el.StyleProperty("--marker-background-color"); ok {
		fill = cssColor(v, fill)
	} else if v, ok := el.StyleProperty("--marker-color"); ok {
		fill = cssColor(v, fill)
	}
	border := color.Color(defaultPinBorder)
	if v, ok := el.StyleProperty("--marker-border-color"); ok {
		border = cssColor(v, border)
	}

	r := e.rect
	vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), fill, false)
	vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), 1, border, false)
	if c, ok := e.view.content.(*Element); ok && c != nil && c.Text != "" {
		printCentered(screen, c.Text, r.X+r.Width/2, r.Y+r.Height/2)
	}
}

func drawTitle(screen *ebiten.Image, title string, r Rect) {
	w := float64(len(title)*glyphCellWidth + 8)
	x := r.X + r.Width/2 - w/2
	y := r.Y - glyphCellHeight - 6
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), glyphCellHeight+2, titleBackground, false)
	ebitenutil.DebugPrintAt(screen, title, int(x)+4, int(y))
}

func printCentered(screen *ebiten.Image, s string, cx, cy float64) {
	if s == "" {
		return
	}
	x := cx - float64(len(s)*glyphCellWidth)/2
	y := cy - glyphCellHeight/2
	ebitenutil.DebugPrintAt(screen, s, int(x), int(y))
}

// cssColor converts a CSS color string to a color.Color, returning fallback
// for empty or unparseable values.
func cssColor(s string, fallback color.Color) color.Color {
	if s == "" {
		return fallback
	}
	c, err := marker.ParseColor(s)
	if err != nil {
		return fallback
	}
	return toNRGBA(c)
}

func toNRGBA(c marker.RGBA) color.NRGBA {
	return color.NRGBA{
		R: channel(c.R),
		G: channel(c.G),
		B: channel(c.B),
		A: channel(c.A * 255),
	}
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(v, 255))))
}
