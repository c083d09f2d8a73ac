// Package marker is a reactive attribute layer for map markers.
//
// A [Marker] carries a closed set of attributes (position, colors, scale,
// glyph, …). Each attribute is either a static value or a [Dynamic] callback
// that is recomputed from the marker's user data, the map viewport and the
// interaction state whenever any of them changes. The resolved values are
// written to a [RenderTarget] supplied by a [Renderer]; the [scene] package
// provides one backed by Ebitengine.
//
// # Quick start
//
//	marker.UseRenderer(m) // m is a *scene.Map
//
//	mk := marker.New(marker.Options[*Shop]{
//		Map: m,
//		Attributes: marker.Attributes{
//			marker.KeyPosition: marker.LatLngLiteral{Lat: 53.555, Lng: 10.001},
//			marker.KeyColor: marker.Dynamic[*Shop](func(s marker.State[*Shop]) any {
//				if s.Interaction.Hovered {
//					return "#ea4335"
//				}
//				return "#4285f4"
//			}),
//		},
//	})
//
// # Dynamic attributes
//
// A dynamic callback receives a [State] with the user data, the shared
// [ViewportState] of the map, the [Interaction] state and Attr, a [Resolver]
// for the other attributes of the same marker:
//
//	marker.KeyScale: marker.Dynamic[*Shop](func(s marker.State[*Shop]) any {
//		return math.Max(0.5, s.Viewport.Zoom/12)
//	}),
//	marker.KeyBorderColor: marker.Dynamic[*Shop](func(s marker.State[*Shop]) any {
//		return s.Attr.BackgroundColor()
//	}),
//
// Nested dynamic calls are limited to a depth of 10; deeper nesting panics
// with a [*CycleError].
//
// # Updates
//
// All changes of one marker within a tick collapse into a single update.
// Updates run on a [Scheduler]; by default [DefaultQueue], which the host
// drains with [Queue.Flush] once per frame.
//
// # Collections
//
// A [Collection] maps a slice of records to markers by key and updates,
// adds and removes markers when the records change.
//
// [scene]: https://pkg.go.dev/github.com/phanxgames/marker/scene
package marker
