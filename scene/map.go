package scene

import (
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/paulmach/orb"

	"github.com/phanxgames/marker"
)

// Config configures a new Map. Zero values select defaults.
type Config struct {
	// Width and Height are the initial viewport size in pixels. A map
	// without a size reports no center or bounds until Layout is called.
	Width, Height int
	Center        marker.LatLng
	Zoom          float64
	Heading       float64
	// Queue is flushed at the end of every Update. Defaults to
	// marker.DefaultQueue, which markers use unless told otherwise.
	Queue *marker.Queue
	// Background fills the map behind the grid.
	Background color.Color
	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger
	// ScreenshotDir receives captures queued with Screenshot. Defaults to
	// "screenshots".
	ScreenshotDir string
}

type boundsListener struct {
	id uint32
	fn func()
}

// Map is an Ebitengine-backed host map. It implements marker.Map and
// marker.Renderer, draws its attached MarkerViews and turns pointer input
// into marker events.
//
// A Map is driven from the game loop: Update, then Draw. It is not safe for
// concurrent use.
type Map struct {
	camera *Camera
	queue  *marker.Queue
	logger *slog.Logger

	background color.Color

	views     []*MarkerView
	nextOrder int

	listeners   []boundsListener
	nextID      uint32
	viewChanged bool

	// Input state
	pointer      pointerState
	injectQueue  []syntheticPointerEvent
	dragDeadZone float64
	script       *Script

	screenshots   []string
	screenshotDir string

	// Layout state, rebuilt by arrange.
	layout  []layoutEntry
	sortBuf []layoutEntry
	shown   []layoutEntry
}

var _ marker.Map = (*Map)(nil)
var _ marker.Renderer = (*Map)(nil)

// NewMap creates a map.
func NewMap(cfg Config) *Map {
	m := &Map{
		camera:        newCamera(Rect{Width: float64(cfg.Width), Height: float64(cfg.Height)}),
		queue:         cfg.Queue,
		logger:        cfg.Logger,
		background:    cfg.Background,
		dragDeadZone:  defaultDragDeadZone,
		screenshotDir: cfg.ScreenshotDir,
	}
	if m.queue == nil {
		m.queue = marker.DefaultQueue
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.screenshotDir == "" {
		m.screenshotDir = "screenshots"
	}
	if m.background == nil {
		m.background = color.RGBA{R: 0xe8, G: 0xea, B: 0xed, A: 0xff}
	}
	if cfg.Center != (marker.LatLng{}) {
		m.camera.SetCenter(cfg.Center)
	}
	m.camera.SetZoom(cfg.Zoom)
	m.camera.Heading = cfg.Heading
	m.viewChanged = m.laidOut()
	return m
}

// Camera returns the map camera.
func (m *Map) Camera() *Camera {
	return m.camera
}

// Queue returns the scheduler queue flushed by Update.
func (m *Map) Queue() *marker.Queue {
	return m.queue
}

// SetDragDeadZone sets the minimum movement in pixels before a drag starts.
func (m *Map) SetDragDeadZone(pixels float64) {
	m.dragDeadZone = pixels
}

func (m *Map) laidOut() bool {
	return m.camera.Viewport.Width > 0 && m.camera.Viewport.Height > 0
}

// --- marker.Map ---

func (m *Map) Center() (marker.LatLng, bool) {
	if !m.laidOut() {
		return marker.LatLng{}, false
	}
	return m.camera.Center(), true
}

func (m *Map) Bounds() (orb.Bound, bool) {
	if !m.laidOut() {
		return orb.Bound{}, false
	}
	return m.camera.Bounds(), true
}

func (m *Map) Zoom() float64    { return m.camera.Zoom }
func (m *Map) Heading() float64 { return m.camera.Heading }
func (m *Map) Tilt() float64    { return m.camera.Tilt }

// OnBoundsChanged registers fn to be called once the view has settled after
// a change.
func (m *Map) OnBoundsChanged(fn func()) marker.Listener {
	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, boundsListener{id: id, fn: fn})
	return marker.ListenerFunc(func() {
		for i := range m.listeners {
			if m.listeners[i].id == id {
				copy(m.listeners[i:], m.listeners[i+1:])
				m.listeners[len(m.listeners)-1] = boundsListener{}
				m.listeners = m.listeners[:len(m.listeners)-1]
				return
			}
		}
	})
}

// --- marker.Renderer ---

// NewMarkerView creates a detached view.
func (m *Map) NewMarkerView() marker.RenderTarget {
	return newMarkerView()
}

// NewElement creates an element for custom content.
func (m *Map) NewElement() marker.Element {
	return NewElement()
}

// Views returns the attached views in attach order.
func (m *Map) Views() []*MarkerView {
	return m.views
}

func (m *Map) attach(v *MarkerView) {
	m.nextOrder++
	v.order = m.nextOrder
	m.views = append(m.views, v)
}

func (m *Map) detach(v *MarkerView) {
	for i, o := range m.views {
		if o == v {
			copy(m.views[i:], m.views[i+1:])
			m.views[len(m.views)-1] = nil
			m.views = m.views[:len(m.views)-1]
			break
		}
	}
	if m.pointer.hoverView == v {
		m.pointer.hoverView = nil
	}
	if m.pointer.hitView == v {
		m.pointer.hitView = nil
		m.pointer.dragging = false
		m.pointer.lost = true
	}
}

// --- Game loop ---

// Layout resizes the viewport to the outside size and returns it unchanged.
func (m *Map) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := float64(outsideWidth), float64(outsideHeight)
	if m.camera.Viewport.Width != w || m.camera.Viewport.Height != h {
		m.camera.Viewport.Width = w
		m.camera.Viewport.Height = h
		m.camera.MarkDirty()
	}
	return outsideWidth, outsideHeight
}

// Update advances camera animations, processes pointer input, emits the
// bounds-changed signal when the view settled and flushes pending marker
// updates.
func (m *Map) Update() error {
	m.step(float32(1.0/float64(ebiten.TPS())), true)
	return nil
}

// Tick advances the map by dt seconds like Update, but reads no input
// devices. Headless hosts drive the map with Tick and the Inject methods.
func (m *Map) Tick(dt float32) {
	m.step(dt, false)
}

// step runs one frame. devices selects whether real mouse input is read
// when no synthetic input is queued.
func (m *Map) step(dt float32, devices bool) {
	if m.camera.update(dt) {
		m.viewChanged = true
	}
	if m.script != nil {
		m.script.step(m)
	}
	m.processInput(devices)
	// pointer panning moves the camera after its update
	if m.camera.moved {
		m.camera.moved = false
		m.viewChanged = true
	}

	if m.viewChanged && !m.camera.Animating() && m.laidOut() {
		m.viewChanged = false
		m.notifyBoundsChanged()
	}

	if n := m.queue.Flush(); n > 0 {
		m.logger.Debug("scene: flushed marker updates", "tasks", n)
	}
}

func (m *Map) notifyBoundsChanged() {
	for _, l := range append([]boundsListener(nil), m.listeners...) {
		l.fn()
	}
}
