// Markerview shows the points of a GeoJSON FeatureCollection as markers in
// a window. Hovering a marker recolors it, pins grow with the zoom level and
// draggable markers keep the position they are dropped at.
//
// Usage:
//
//	markerview --file places.geojson --key id --lat 53.55 --lng 9.99 --zoom 14
//	markerview --script tour.json --screenshot-dir shots
//
// Drag the map to pan, use the mouse wheel to zoom.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/phanxgames/marker"
	"github.com/phanxgames/marker/scene"
)

type cli struct {
	File       string  `short:"f" type:"existingfile" help:"GeoJSON FeatureCollection to show. A built-in sample is used when omitted."`
	Key        string  `help:"Feature property used as record key. Defaults to the feature id."`
	Color      string  `default:"#4285F4" help:"Pin color."`
	HoverColor string  `default:"#EA4335" help:"Pin color while hovered."`
	Lat        float64 `default:"53.5488" help:"Initial center latitude."`
	Lng        float64 `default:"9.9872" help:"Initial center longitude."`
	Zoom       float64 `default:"14" help:"Initial zoom level."`
	Width      int     `default:"1024" help:"Window width."`
	Height     int     `default:"768" help:"Window height."`
	Declutter  bool    `help:"Hide markers that overlap a marker drawn in front of them."`
	Draggable  bool    `help:"Let markers be dragged to a new position."`
	FPS        bool    `name:"fps" help:"Show the FPS overlay."`
	Debug      bool    `help:"Enable debug logging."`
	Script     string  `type:"existingfile" help:"JSON input script to play back after start."`
	Shots      string  `name:"screenshot-dir" default:"screenshots" help:"Directory for screenshots taken by the script."`
}

func main() {
	var c cli
	ctx := kong.Parse(&c,
		kong.Name("markerview"),
		kong.Description("Show GeoJSON points as reactive markers."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(run(&c))
}

func run(c *cli) error {
	level := slog.LevelInfo
	if c.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	marker.SetLogger(logger)

	for _, s := range []string{c.Color, c.HoverColor} {
		if _, err := marker.ParseColor(s); err != nil {
			return fmt.Errorf("markerview: %w", err)
		}
	}

	features, err := readFeatures(c.File, c.Key)
	if err != nil {
		return err
	}
	logger.Info("markerview: loaded features", "points", len(features))

	m := scene.NewMap(scene.Config{
		Width:         c.Width,
		Height:        c.Height,
		Center:        marker.NewLatLng(c.Lat, c.Lng),
		Zoom:          c.Zoom,
		Logger:        logger,
		ScreenshotDir: c.Shots,
	})
	marker.UseRenderer(m)
	if err := attachScript(m, c.Script); err != nil {
		return err
	}

	col := newCollection(m, features, c)
	if c.Draggable {
		trackDrops(col, logger)
	}

	return scene.Run(m, scene.RunConfig{
		Title:     "markerview",
		Width:     c.Width,
		Height:    c.Height,
		ShowFPS:   c.FPS,
		Resizable: true,
	})
}

// attachScript plays back the script at path on m. An empty path is a no-op.
func attachScript(m *scene.Map, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("markerview: %w", err)
	}
	s, err := scene.LoadScript(data)
	if err != nil {
		return fmt.Errorf("markerview: %w", err)
	}
	m.SetScript(s)
	return nil
}
