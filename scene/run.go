package scene

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// ShowFPS draws an FPS, TPS and marker count overlay.
	ShowFPS bool
	// Resizable lets the user resize the window; the map follows.
	Resizable bool
}

// game adapts a Map to ebiten.Game and adds the optional overlay.
type game struct {
	m   *Map
	fps *fpsOverlay
}

func (g *game) Update() error {
	if err := g.m.Update(); err != nil {
		return err
	}
	if g.fps != nil {
		g.fps.update(1.0/float64(ebiten.TPS()), len(g.m.shown))
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.m.Draw(screen)
	if g.fps != nil {
		g.fps.draw(screen)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.m.Layout(outsideWidth, outsideHeight)
}

// Run opens a window showing m and blocks until it is closed.
func Run(m *Map, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 1024
	}
	if cfg.Height <= 0 {
		cfg.Height = 768
	}
	if cfg.Title == "" {
		cfg.Title = "marker"
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	g := &game{m: m}
	if cfg.ShowFPS {
		g.fps = &fpsOverlay{}
	}
	return ebiten.RunGame(g)
}
