package scene

import (
	"github.com/phanxgames/marker"
)

// PinView is the default pin of a MarkerView.
type PinView struct {
	scale       float64
	background  string
	borderColor string
	glyphColor  string
	glyph       marker.Glyph
	el          *Element
}

func (p *PinView) SetScale(scale float64)      { p.scale = scale }
func (p *PinView) SetBackground(color string)  { p.background = color }
func (p *PinView) SetBorderColor(color string) { p.borderColor = color }
func (p *PinView) SetGlyphColor(color string)  { p.glyphColor = color }
func (p *PinView) SetGlyph(glyph marker.Glyph) { p.glyph = glyph }
func (p *PinView) Element() marker.Element     { return p.el }
func (p *PinView) Scale() float64              { return p.scale }
func (p *PinView) Background() string          { return p.background }
func (p *PinView) BorderColor() string         { return p.borderColor }
func (p *PinView) GlyphColor() string          { return p.glyphColor }
func (p *PinView) Glyph() marker.Glyph         { return p.glyph }

type viewListener struct {
	id uint32
	fn func(marker.Event)
}

// MarkerView is the render target drawn by a Map. It is created through
// Map.NewMarkerView and shown once it is attached with SetMap.
type MarkerView struct {
	m *Map

	position  marker.LatLng
	draggable bool
	title     string
	zIndex    *int
	collision marker.CollisionBehavior
	content   marker.Element

	pin *PinView
	el  *Element

	listeners map[string][]viewListener
	nextID    uint32

	// order is the attach sequence, the last tiebreak when sorting.
	order int
}

func newMarkerView() *MarkerView {
	return &MarkerView{
		pin: &PinView{el: NewElement()},
		el:  NewElement(),
	}
}

func (v *MarkerView) SetPosition(p marker.LatLng)                      { v.position = p }
func (v *MarkerView) SetDraggable(draggable bool)                      { v.draggable = draggable }
func (v *MarkerView) SetTitle(title string)                            { v.title = title }
func (v *MarkerView) SetCollisionBehavior(cb marker.CollisionBehavior) { v.collision = cb }
func (v *MarkerView) SetContent(content marker.Element)                { v.content = content }
func (v *MarkerView) Pin() marker.Pin                                  { return v.pin }
func (v *MarkerView) Element() marker.Element                          { return v.el }

// SetZIndex sets the stacking order; nil restores the default.
func (v *MarkerView) SetZIndex(z *int) {
	if z == nil {
		v.zIndex = nil
		return
	}
	zz := *z
	v.zIndex = &zz
}

// SetMap shows the view on m, or hides it when m is nil. m must be a *Map.
func (v *MarkerView) SetMap(m marker.Map) {
	var target *Map
	if m != nil {
		sm, ok := m.(*Map)
		if !ok {
			panic("scene: a MarkerView can only be shown on a *scene.Map")
		}
		target = sm
	}
	if v.m == target {
		return
	}
	if v.m != nil {
		v.m.detach(v)
	}
	v.m = target
	if target != nil {
		target.attach(v)
	}
}

// Map returns the map the view is shown on, or nil.
func (v *MarkerView) Map() marker.Map {
	if v.m == nil {
		return nil
	}
	return v.m
}

// AddListener registers fn for the map events "click", "dragstart", "drag"
// and "dragend".
func (v *MarkerView) AddListener(name string, fn func(marker.Event)) marker.Listener {
	if v.listeners == nil {
		v.listeners = map[string][]viewListener{}
	}
	v.nextID++
	id := v.nextID
	v.listeners[name] = append(v.listeners[name], viewListener{id: id, fn: fn})
	return marker.ListenerFunc(func() {
		s := v.listeners[name]
		for i := range s {
			if s[i].id == id {
				copy(s[i:], s[i+1:])
				s[len(s)-1] = viewListener{}
				v.listeners[name] = s[:len(s)-1]
				return
			}
		}
	})
}

func (v *MarkerView) fire(ev marker.Event) {
	for _, l := range append([]viewListener(nil), v.listeners[ev.Type]...) {
		l.fn(ev)
	}
}

func (v *MarkerView) Position() marker.LatLng                     { return v.position }
func (v *MarkerView) Draggable() bool                             { return v.draggable }
func (v *MarkerView) Title() string                               { return v.title }
func (v *MarkerView) CollisionBehavior() marker.CollisionBehavior { return v.collision }
func (v *MarkerView) Content() marker.Element                     { return v.content }
func (v *MarkerView) PinView() *PinView                           { return v.pin }
func (v *MarkerView) RootElement() *Element                       { return v.el }

// ZIndex returns the stacking order and whether one is set.
func (v *MarkerView) ZIndex() (int, bool) {
	if v.zIndex == nil {
		return 0, false
	}
	return *v.zIndex, true
}
