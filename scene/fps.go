package scene

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsOverlay displays FPS, TPS and the number of drawn markers. The text is
// refreshed every ~0.5 seconds.
type fpsOverlay struct {
	img        *ebiten.Image
	lastUpdate float64
}

func (f *fpsOverlay) update(dt float64, markers int) {
	if f.img == nil {
		// 120x48 is enough for three lines
		f.img = ebiten.NewImage(120, 48)
		f.lastUpdate = 0.5
	}
	f.lastUpdate += dt
	if f.lastUpdate < 0.5 {
		return
	}
	f.lastUpdate = 0

	f.img.Clear()
	// Semi-transparent background for readability
	f.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(f.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nMarkers: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(), markers))
}

func (f *fpsOverlay) draw(screen *ebiten.Image) {
	if f.img != nil {
		screen.DrawImage(f.img, nil)
	}
}
