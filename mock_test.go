package marker

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"testing"

	"github.com/paulmach/orb"
)

// --- Map ---

type fakeMap struct {
	center    LatLng
	bounds    orb.Bound
	laidOut   bool
	zoom      float64
	heading   float64
	tilt      float64
	listeners map[int]func()
	nextID    int
}

func newFakeMap() *fakeMap {
	return &fakeMap{
		center:    NewLatLng(53.55, 10),
		bounds:    orb.Bound{Min: orb.Point{9.9, 53.5}, Max: orb.Point{10.1, 53.6}},
		laidOut:   true,
		zoom:      12,
		listeners: map[int]func(){},
	}
}

func (m *fakeMap) Center() (LatLng, bool)    { return m.center, m.laidOut }
func (m *fakeMap) Bounds() (orb.Bound, bool) { return m.bounds, m.laidOut }
func (m *fakeMap) Zoom() float64             { return m.zoom }
func (m *fakeMap) Heading() float64          { return m.heading }
func (m *fakeMap) Tilt() float64             { return m.tilt }

func (m *fakeMap) OnBoundsChanged(fn func()) Listener {
	m.nextID++
	id := m.nextID
	m.listeners[id] = fn
	return ListenerFunc(func() { delete(m.listeners, id) })
}

// settle fires the bounds-changed signal.
func (m *fakeMap) settle() {
	for _, fn := range m.listeners {
		fn()
	}
}

// --- Element ---

type elementListener struct {
	id int
	fn func(Event)
}

type fakeElement struct {
	style     map[string]string
	className string
	listeners map[string][]elementListener
	nextID    int
}

func newFakeElement() *fakeElement {
	return &fakeElement{style: map[string]string{}, listeners: map[string][]elementListener{}}
}

func (e *fakeElement) SetStyleProperty(name, value string) { e.style[name] = value }
func (e *fakeElement) RemoveStyleProperty(name string)     { delete(e.style, name) }
func (e *fakeElement) SetClassName(className string)       { e.className = className }

func (e *fakeElement) AddEventListener(name string, fn func(Event)) Listener {
	e.nextID++
	id := e.nextID
	e.listeners[name] = append(e.listeners[name], elementListener{id: id, fn: fn})
	return ListenerFunc(func() {
		ls := e.listeners[name]
		for i, l := range ls {
			if l.id == id {
				e.listeners[name] = append(ls[:i:i], ls[i+1:]...)
				return
			}
		}
	})
}

func (e *fakeElement) dispatch(name string) {
	for _, l := range append([]elementListener(nil), e.listeners[name]...) {
		l.fn(Event{Type: name})
	}
}

func (e *fakeElement) listenerCount() int {
	n := 0
	for _, ls := range e.listeners {
		n += len(ls)
	}
	return n
}

// --- Pin ---

type fakePin struct {
	el          *fakeElement
	scale       float64
	background  string
	borderColor string
	glyphColor  string
	glyph       Glyph
	glyphWrites int
}

func (p *fakePin) SetScale(scale float64)     { p.scale = scale }
func (p *fakePin) SetBackground(c string)     { p.background = c }
func (p *fakePin) SetBorderColor(c string)    { p.borderColor = c }
func (p *fakePin) SetGlyphColor(c string)     { p.glyphColor = c }
func (p *fakePin) SetGlyph(g Glyph)           { p.glyph = g; p.glyphWrites++ }
func (p *fakePin) Element() Element           { return p.el }

// --- RenderTarget ---

type fakeView struct {
	el        *fakeElement
	pin       *fakePin
	position  LatLng
	positions []LatLng
	draggable bool
	title     string
	zIndex    *int
	collision CollisionBehavior
	content   Element
	m         Map
	mapWrites int
	listeners map[string][]func(Event)
}

func (v *fakeView) SetPosition(p LatLng) {
	v.position = p
	v.positions = append(v.positions, p)
}
func (v *fakeView) SetDraggable(d bool)                     { v.draggable = d }
func (v *fakeView) SetTitle(t string)                       { v.title = t }
func (v *fakeView) SetZIndex(z *int)                        { v.zIndex = z }
func (v *fakeView) SetCollisionBehavior(cb CollisionBehavior) { v.collision = cb }
func (v *fakeView) SetContent(c Element)                    { v.content = c }
func (v *fakeView) Pin() Pin                                { return v.pin }
func (v *fakeView) Map() Map                                { return v.m }
func (v *fakeView) Element() Element                        { return v.el }

func (v *fakeView) SetMap(m Map) {
	v.m = m
	v.mapWrites++
}

func (v *fakeView) AddListener(name string, fn func(Event)) Listener {
	v.listeners[name] = append(v.listeners[name], fn)
	idx := len(v.listeners[name]) - 1
	return ListenerFunc(func() { v.listeners[name][idx] = nil })
}

func (v *fakeView) fire(name string) {
	for _, fn := range v.listeners[name] {
		if fn != nil {
			fn(Event{Type: name})
		}
	}
}

// --- Renderer ---

type fakeRenderer struct {
	views    []*fakeView
	elements []*fakeElement
}

func (r *fakeRenderer) NewMarkerView() RenderTarget {
	v := &fakeView{
		el:        newFakeElement(),
		pin:       &fakePin{el: newFakeElement()},
		listeners: map[string][]func(Event){},
	}
	r.views = append(r.views, v)
	return v
}

func (r *fakeRenderer) NewElement() Element {
	el := newFakeElement()
	r.elements = append(r.elements, el)
	return el
}

// --- Logging ---

type captureHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	h.records = append(h.records, r)
	h.mu.Unlock()
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func (h *captureHandler) count(level slog.Level) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, r := range h.records {
		if r.Level == level {
			n++
		}
	}
	return n
}

// --- Setup ---

type testEnv struct {
	renderer *fakeRenderer
	queue    *Queue
	log      *captureHandler
	m        *fakeMap
}

// setup resets all process-wide state and returns fresh fakes.
func setup(t *testing.T) *testEnv {
	t.Helper()
	resetIconProviders()
	resetWarnings()
	resetBroadcasters()
	DefaultQueue.tasks = nil

	env := &testEnv{
		renderer: &fakeRenderer{},
		queue:    &Queue{},
		log:      &captureHandler{},
		m:        newFakeMap(),
	}
	SetLogger(slog.New(env.log))
	UseRenderer(env.renderer)

	t.Cleanup(func() {
		SetLogger(nil)
		UseRenderer(nil)
		resetIconProviders()
		resetWarnings()
		resetBroadcasters()
	})
	return env
}

func newTestMarker[T any](env *testEnv, opts Options[T]) (*Marker[T], *fakeView) {
	if opts.Scheduler == nil {
		opts.Scheduler = env.queue
	}
	mk := New(opts)
	return mk, env.renderer.views[len(env.renderer.views)-1]
}

// expectPanic runs fn and returns the recovered value, failing if fn
// returns normally.
func expectPanic(t *testing.T, fn func()) (v any) {
	t.Helper()
	defer func() {
		v = recover()
		if v == nil {
			t.Fatal("expected panic")
		}
	}()
	fn()
	return nil
}

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}
