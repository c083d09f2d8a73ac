package marker

import (
	"sync"

	"github.com/paulmach/orb"
)

// Listener is a registered callback that can be removed again.
type Listener interface {
	Remove()
}

// ListenerFunc adapts a plain function to the Listener interface.
type ListenerFunc func()

// Remove calls f.
func (f ListenerFunc) Remove() {
	if f != nil {
		f()
	}
}

// Event is delivered to marker and element listeners. Position is only
// meaningful when HasPosition is true (map-native pointer and drag events).
type Event struct {
	Type        string
	Position    LatLng
	HasPosition bool
}

// Map is the host map a marker is shown on. Implementations must be
// comparable (typically a pointer) since broadcasters are registered per map.
type Map interface {
	// Center and Bounds report false while the map has not been laid out.
	Center() (LatLng, bool)
	Bounds() (orb.Bound, bool)
	Zoom() float64
	Heading() float64
	Tilt() float64

	// OnBoundsChanged registers fn to be called whenever the viewport has
	// settled after a change.
	OnBoundsChanged(fn func()) Listener
}

// Element is the DOM-like node backing a rendered marker or custom content.
type Element interface {
	SetStyleProperty(name, value string)
	RemoveStyleProperty(name string)
	SetClassName(className string)
	AddEventListener(name string, fn func(Event)) Listener
}

// Pin is the default marker visual: a colored pin with a glyph inside.
type Pin interface {
	// SetScale sets the pin scale; 0 restores the default scale.
	SetScale(scale float64)
	// The color setters accept any CSS color; "" restores the default.
	SetBackground(color string)
	SetBorderColor(color string)
	SetGlyphColor(color string)
	// SetGlyph sets the glyph; nil restores the default glyph.
	SetGlyph(glyph Glyph)
	Element() Element
}

// RenderTarget is the primitive that draws a single marker on a map.
type RenderTarget interface {
	SetPosition(p LatLng)
	SetDraggable(draggable bool)
	SetTitle(title string)
	// SetZIndex sets the z-index; nil restores the default ordering.
	SetZIndex(z *int)
	SetCollisionBehavior(cb CollisionBehavior)
	// SetContent replaces the pin with custom content; nil restores the pin.
	SetContent(content Element)
	Pin() Pin

	// SetMap attaches the target to m, or detaches it when m is nil.
	SetMap(m Map)
	Map() Map

	Element() Element
	AddListener(name string, fn func(Event)) Listener
}

// Renderer creates render targets and free-standing elements. It plays the
// role of the rendering library that has to be loaded before markers can be
// created.
type Renderer interface {
	NewMarkerView() RenderTarget
	NewElement() Element
}

var (
	rendererMu      sync.RWMutex
	defaultRenderer Renderer
)

// UseRenderer registers r as the renderer for markers created without an
// explicit Options.Renderer.
func UseRenderer(r Renderer) {
	rendererMu.Lock()
	defaultRenderer = r
	rendererMu.Unlock()
}

func currentRenderer() Renderer {
	rendererMu.RLock()
	defer rendererMu.RUnlock()
	return defaultRenderer
}
