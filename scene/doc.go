// Package scene is an Ebitengine host for markers. A [Map] implements
// marker.Map and marker.Renderer: it owns a Web-Mercator [Camera], shows
// the [MarkerView]s markers render into, and turns mouse input into the
// pointerenter, pointerleave, click and drag events markers listen for.
//
// Quick start:
//
//	m := scene.NewMap(scene.Config{Center: marker.NewLatLng(53.55, 10), Zoom: 12})
//	marker.UseRenderer(m)
//
//	marker.New(marker.Options[any]{
//		Map:        m,
//		Attributes: marker.Attributes{marker.KeyPosition: marker.NewLatLng(53.55, 10)},
//	})
//
//	if err := scene.Run(m, scene.RunConfig{Title: "Markers"}); err != nil {
//		log.Fatal(err)
//	}
//
// The map flushes marker.DefaultQueue (or Config.Queue) at the end of each
// Update, so attribute changes made during a frame are applied once, before
// the frame is drawn. The bounds-changed signal fires when the camera comes
// to rest after panning, zooming or resizing.
//
// Pointer input can be scripted with InjectPress, InjectMove, InjectRelease,
// InjectClick and InjectDrag; each queued event is consumed by one Update.
// LoadScript and SetScript play a JSON sequence of such input, camera moves
// and screenshots, which is handy for demos and visual checks.
package scene
