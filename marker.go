package marker

import (
	"strconv"
)

// Options configures a new Marker. All fields are optional.
type Options[T any] struct {
	// Map to show the marker on.
	Map Map
	// Renderer creates the render target. Defaults to the renderer
	// registered with UseRenderer.
	Renderer Renderer
	// Scheduler defers updates. Defaults to DefaultQueue.
	Scheduler Scheduler
	// Attributes are the initial user attributes.
	Attributes Attributes
	// Defaults are used for keys the user leaves unset, or whose dynamic
	// value resolves to nil.
	Defaults Attributes
	// Data is the initial user data.
	Data T
}

// Marker binds a set of attributes and optional user data to a render
// target. Attribute changes, data changes, viewport changes and interaction
// are coalesced into one update per scheduler tick.
//
// A Marker is not safe for concurrent use.
type Marker[T any] struct {
	attrs    AttributeStore[T]
	defaults AttributeStore[T]
	computed Resolver[T]

	data        T
	interaction Interaction

	m           Map
	broadcaster *Broadcaster
	bindings    []Listener

	view RenderTarget
	pin  Pin

	updates     updateScheduler
	updateCount int
}

// mapEvents are forwarded to the render target's own event system; all
// other event names are bound on the rendered element.
var mapEvents = map[string]bool{
	"click":     true,
	"dragstart": true,
	"drag":      true,
	"dragend":   true,
}

// New creates a marker. It panics if no renderer is available.
func New[T any](opts Options[T]) *Marker[T] {
	r := opts.Renderer
	if r == nil {
		r = currentRenderer()
	}
	if r == nil {
		panic("marker: renderer not loaded; call marker.UseRenderer or set Options.Renderer before creating markers")
	}

	sched := opts.Scheduler
	if sched == nil {
		sched = DefaultQueue
	}

	mk := &Marker[T]{data: opts.Data}
	mk.computed.m = mk
	mk.view = r.NewMarkerView()
	mk.pin = mk.view.Pin()
	mk.view.SetContent(nil)
	mk.interaction.Content = r.NewElement()
	mk.updates = updateScheduler{scheduler: sched, perform: mk.performUpdate}

	mk.attrs.SetAll(opts.Attributes)
	mk.defaults.SetAll(opts.Defaults)

	if opts.Map != nil {
		mk.SetMap(opts.Map)
	} else {
		mk.Update()
	}
	return mk
}

// Map returns the map the marker is attached to, or nil.
func (mk *Marker[T]) Map() Map {
	return mk.m
}

// SetMap attaches the marker to m, or detaches it when m is nil. Detaching
// unsubscribes from the map immediately and hides the marker; attributes and
// data are kept for a later reattachment.
func (mk *Marker[T]) SetMap(m Map) {
	if mk.m == m {
		return
	}

	mk.unbindEvents()
	mk.broadcaster = nil
	mk.m = m

	if m == nil {
		mk.view.SetMap(nil)
	} else {
		mk.broadcaster = BroadcasterFor(m)
		mk.bindEvents()
	}
	mk.Update()
}

// Data returns the user data.
func (mk *Marker[T]) Data() T {
	return mk.data
}

// SetData replaces the user data and schedules an update.
func (mk *Marker[T]) SetData(data T) {
	mk.data = data
	mk.Update()
}

// Attribute returns the value of key as set by the user: a static value, a
// Dynamic callback or nil. Use Computed to get resolved values.
func (mk *Marker[T]) Attribute(key AttributeKey) any {
	return mk.attrs.Get(key)
}

// SetAttribute sets a single attribute and schedules an update.
func (mk *Marker[T]) SetAttribute(key AttributeKey, value any) {
	mk.attrs.Set(key, value)
	mk.Update()
}

// SetAttributes sets several attributes with a single update.
func (mk *Marker[T]) SetAttributes(attrs Attributes) {
	mk.attrs.SetAll(attrs)
	mk.Update()
}

// SetDefault sets the default value used when the user leaves key unset.
func (mk *Marker[T]) SetDefault(key AttributeKey, value any) {
	mk.defaults.Set(key, value)
	mk.Update()
}

// Computed returns the resolver for the marker's effective attribute values.
func (mk *Marker[T]) Computed() *Resolver[T] {
	return &mk.computed
}

// Interaction returns the current interaction state.
func (mk *Marker[T]) Interaction() Interaction {
	return mk.interaction
}

// View returns the render target of the marker.
func (mk *Marker[T]) View() RenderTarget {
	return mk.view
}

// AddListener adds an event listener. "click", "dragstart", "drag" and
// "dragend" go to the render target; any other name is bound as an element
// event listener.
func (mk *Marker[T]) AddListener(name string, fn func(Event)) Listener {
	if mapEvents[name] {
		return mk.view.AddListener(name, fn)
	}
	el := mk.view.Element()
	if el == nil {
		panic("marker: render target has no element to bind " + strconv.Quote(name) + " to")
	}
	return el.AddEventListener(name, fn)
}

// Update schedules an update. Calls within the same tick collapse into one.
// Calling this manually is rarely needed.
func (mk *Marker[T]) Update() {
	mk.updates.request()
}

func (mk *Marker[T]) bindEvents() {
	mk.bindings = []Listener{
		mk.broadcaster.Subscribe(mk.Update),
		mk.AddListener("pointerenter", func(Event) {
			mk.interaction.Hovered = true
			mk.Update()
		}),
		mk.AddListener("pointerleave", func(Event) {
			mk.interaction.Hovered = false
			mk.Update()
		}),
	}
}

func (mk *Marker[T]) unbindEvents() {
	for _, l := range mk.bindings {
		l.Remove()
	}
	mk.bindings = nil
}

// dynamicState assembles the argument of dynamic attribute callbacks.
func (mk *Marker[T]) dynamicState() State[T] {
	var vp *ViewportState
	if mk.broadcaster != nil && mk.broadcaster.HasState() {
		vp = mk.broadcaster.State()
	}
	return State[T]{
		Data:        mk.data,
		Viewport:    vp,
		Interaction: mk.interaction,
		Attr:        &mk.computed,
	}
}

// performUpdate writes all resolved attributes to the render target.
func (mk *Marker[T]) performUpdate() {
	mk.updateCount++

	// Pending updates after detaching end up here.
	if mk.m == nil {
		mk.view.SetMap(nil)
		return
	}
	// The broadcaster notifies us once the map has been laid out.
	if mk.broadcaster == nil || !mk.broadcaster.HasState() {
		mk.view.SetMap(nil)
		return
	}

	attrs := &mk.computed
	position, ok := attrs.Position()
	if !ok {
		mk.view.SetMap(nil)
		return
	}

	if mk.view.Map() != mk.m {
		mk.view.SetMap(mk.m)
	}

	mk.view.SetPosition(position)
	mk.view.SetDraggable(attrs.Draggable())
	mk.view.SetTitle(attrs.Title())
	if z, ok := attrs.ZIndex(); ok {
		mk.view.SetZIndex(&z)
	} else {
		mk.view.SetZIndex(nil)
	}
	mk.view.SetCollisionBehavior(attrs.CollisionBehavior())
	scale, _ := attrs.Scale()
	mk.pin.SetScale(scale)

	mk.updateContent()

	if content := attrs.Content(); content != nil {
		mk.interaction.Content = content
	}
}

// updateContent applies custom content or the pin colors and glyph, then
// exposes the visual attributes as style properties on the root element.
func (mk *Marker[T]) updateContent() {
	attrs := &mk.computed

	if content := attrs.Content(); content != nil {
		content.SetClassName(attrs.ClassList())
		mk.view.SetContent(content)
	} else {
		mk.view.SetContent(nil)
		mk.updateColors()
		mk.updateGlyph()
	}

	el := mk.view.Element()
	if el == nil {
		return
	}
	scale := ""
	if s, ok := attrs.Scale(); ok {
		scale = strconv.FormatFloat(s, 'g', -1, 64)
	}
	setStyleHook(el, "--marker-color", attrs.Color())
	setStyleHook(el, "--marker-background-color", attrs.BackgroundColor())
	setStyleHook(el, "--marker-glyph-color", attrs.GlyphColor())
	setStyleHook(el, "--marker-border-color", attrs.BorderColor())
	setStyleHook(el, "--marker-scale", scale)
}

func setStyleHook(el Element, name, value string) {
	if value == "" {
		el.RemoveStyleProperty(name)
		return
	}
	el.SetStyleProperty(name, value)
}

func (mk *Marker[T]) updateColors() {
	attrs := &mk.computed
	bg, border, glyph := DerivePinColors(attrs.Color(), attrs.BackgroundColor(), attrs.BorderColor(), attrs.GlyphColor())
	mk.pin.SetBackground(bg)
	mk.pin.SetBorderColor(border)
	mk.pin.SetGlyphColor(glyph)
}

func (mk *Marker[T]) updateGlyph() {
	attrs := &mk.computed
	icon := attrs.Icon()
	if icon == "" {
		mk.pin.SetGlyph(attrs.Glyph())
		return
	}
	if glyph, ok := resolveIcon(icon); ok {
		mk.pin.SetGlyph(glyph)
	}
}

// glyphLuminanceThreshold separates light colors (dark glyph) from dark
// colors (light glyph).
const glyphLuminanceThreshold = 0.4

// DerivePinColors fills in unset pin colors from the color shorthand: the
// background defaults to color, the border to a darkened color, and the
// glyph to a darkened or brightened color depending on the luminance of
// color. Explicit values are returned unchanged. With an empty color nothing
// is derived.
func DerivePinColors(color, background, border, glyph string) (string, string, string) {
	if color == "" {
		return background, border, glyph
	}

	rgba := mustParseColor(color)
	dark := Darken(rgba, 1.2)
	light := Brighten(rgba, 1.2)

	if background == "" {
		background = rgba.String()
	}
	if border == "" {
		border = dark.String()
	}
	if glyph == "" {
		if Luminance(rgba) > glyphLuminanceThreshold {
			glyph = dark.String()
		} else {
			glyph = light.String()
		}
	}
	return background, border, glyph
}
