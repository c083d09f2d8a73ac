package marker

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// maxCallbackDepth is the number of nested dynamic attribute calls allowed
// while resolving a single attribute.
const maxCallbackDepth = 10

// ErrCyclicDependency is matched by the error raised when dynamic attributes
// depend on each other in a cycle.
var ErrCyclicDependency = errors.New("marker: cyclic dependency in dynamic attributes")

// CycleError is raised (as a panic value) when nested dynamic attribute calls
// exceed the depth limit. Path lists the attributes on the call path,
// outermost first.
type CycleError struct {
	Path []AttributeKey
}

func (e *CycleError) Error() string {
	names := make([]string, len(e.Path))
	for i, k := range e.Path {
		names[i] = k.String()
	}
	return fmt.Sprintf("marker: maximum recursion depth reached (%s). "+
		"This is probably caused by a cyclic dependency in dynamic attributes",
		strings.Join(names, " -> "))
}

func (e *CycleError) Unwrap() error {
	return ErrCyclicDependency
}

// Interaction is the interaction state of a marker as seen by dynamic
// attributes. It is only changed by the marker's own event bindings.
type Interaction struct {
	Hovered bool
	// Content is the element most recently used as custom content, or a
	// blank element. Dynamic content attributes can update and return it
	// instead of creating a new element on every update.
	Content Element
}

// State is passed to dynamic attribute callbacks.
type State[T any] struct {
	// Data is the user data of the marker, or the zero value of T.
	Data T
	// Viewport is the viewport snapshot of the marker's map. It is nil while
	// the marker is not on a map.
	Viewport *ViewportState
	// Interaction is the current interaction state.
	Interaction Interaction
	// Attr resolves other attributes of the same marker.
	Attr *Resolver[T]
}

// Resolver evaluates attributes of a marker: static values are returned as
// they are, dynamic values are computed from the current state. Every read
// evaluates again; nothing is cached between reads.
//
// Precedence per key: the value set by the user (static, or dynamic with a
// non-nil result), then the default layer (static or dynamic), then unset.
type Resolver[T any] struct {
	m    *Marker[T]
	path []AttributeKey
}

// Get returns the resolved value of key, or nil when unset. Positions are
// returned as LatLng; all other values are returned exactly as produced.
func (r *Resolver[T]) Get(key AttributeKey) any {
	v := r.resolve(key)
	if key == KeyPosition && v != nil {
		p, err := ToLatLng(v)
		if err != nil {
			panic(err.Error())
		}
		return p
	}
	return v
}

func (r *Resolver[T]) resolve(key AttributeKey) any {
	if key >= numAttributeKeys {
		return nil
	}
	if v := r.resolveLayer(&r.m.attrs, key); v != nil {
		return v
	}
	return r.resolveLayer(&r.m.defaults, key)
}

func (r *Resolver[T]) resolveLayer(s *AttributeStore[T], key AttributeKey) any {
	fn := s.Dynamic(key)
	if fn == nil {
		return s.Static(key)
	}

	r.path = append(r.path, key)
	defer func() { r.path = r.path[:len(r.path)-1] }()
	if len(r.path) > maxCallbackDepth {
		panic(&CycleError{Path: slices.Clone(r.path)})
	}

	v := fn(r.m.dynamicState())
	if isUnset(key, v) {
		return nil
	}
	if err := checkAttributeValue(key, v); err != nil {
		panic(err.Error())
	}
	return v
}

// Depth returns the number of dynamic attribute calls currently in progress.
func (r *Resolver[T]) Depth() int {
	return len(r.path)
}

// Position returns the canonical position, or false when unset.
func (r *Resolver[T]) Position() (LatLng, bool) {
	p, ok := r.Get(KeyPosition).(LatLng)
	return p, ok
}

// Draggable reports whether the marker is draggable (false when unset).
func (r *Resolver[T]) Draggable() bool {
	b, _ := r.Get(KeyDraggable).(bool)
	return b
}

func (r *Resolver[T]) CollisionBehavior() CollisionBehavior {
	cb, _ := r.Get(KeyCollisionBehavior).(CollisionBehavior)
	return cb
}

func (r *Resolver[T]) Title() string { return r.str(KeyTitle) }

// ZIndex returns the z-index, or false when unset.
func (r *Resolver[T]) ZIndex() (int, bool) {
	z, ok := r.Get(KeyZIndex).(int)
	return z, ok
}

func (r *Resolver[T]) Color() string           { return r.str(KeyColor) }
func (r *Resolver[T]) BackgroundColor() string { return r.str(KeyBackgroundColor) }
func (r *Resolver[T]) BorderColor() string     { return r.str(KeyBorderColor) }
func (r *Resolver[T]) GlyphColor() string      { return r.str(KeyGlyphColor) }
func (r *Resolver[T]) Icon() string            { return r.str(KeyIcon) }

func (r *Resolver[T]) Glyph() Glyph {
	return r.Get(KeyGlyph)
}

// Scale returns the scale, or false when unset.
func (r *Resolver[T]) Scale() (float64, bool) {
	s, ok := r.Get(KeyScale).(float64)
	return s, ok
}

func (r *Resolver[T]) Content() Element {
	el, _ := r.Get(KeyContent).(Element)
	return el
}

// ClassList returns the class list joined with single spaces.
func (r *Resolver[T]) ClassList() string {
	switch v := r.Get(KeyClassList).(type) {
	case []string:
		return strings.Join(v, " ")
	case string:
		return v
	}
	return ""
}

func (r *Resolver[T]) str(key AttributeKey) string {
	s, _ := r.Get(key).(string)
	return s
}
