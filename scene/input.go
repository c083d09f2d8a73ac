package scene

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/marker"
)

const (
	defaultDragDeadZone = 4.0 // pixels
	wheelZoomStep       = 0.5 // zoom levels per wheel notch
)

// pointerState tracks the mouse between frames. Coordinates are in screen
// pixels.
type pointerState struct {
	down      bool
	startX    float64
	startY    float64
	lastX     float64
	lastY     float64
	hitView   *MarkerView
	hoverView *MarkerView // for enter/leave
	dragging  bool        // a draggable view follows the pointer
	panning   bool        // the map follows the pointer
	lost      bool        // the pressed view was detached
	// grab offset between the pointer and the anchor of the dragged view
	grabX, grabY float64
}

// processInput is called from step. Injected events take precedence over
// the real mouse for the frame they are consumed in.
func (m *Map) processInput(devices bool) {
	if m.processInjectedInput() || !devices {
		return
	}
	mx, my := ebiten.CursorPosition()
	sx, sy := float64(mx), float64(my)
	m.processPointer(sx, sy, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))

	if _, dy := ebiten.Wheel(); dy != 0 {
		m.ZoomAround(sx, sy, m.camera.Zoom+dy*wheelZoomStep)
	}
}

// ZoomAround changes the zoom level while keeping the position under the
// screen point (sx, sy) in place.
func (m *Map) ZoomAround(sx, sy, zoom float64) {
	wx, wy := m.camera.ScreenToWorld(sx, sy)
	m.camera.SetZoom(zoom)
	nx, ny := m.camera.WorldToScreen(wx, wy)
	m.camera.PanBy(sx-nx, sy-ny)
}

// processPointer runs the pointer state machine for one frame.
func (m *Map) processPointer(sx, sy float64, pressed bool) {
	ps := &m.pointer
	target := m.hitTest(sx, sy)

	if target != ps.hoverView {
		if ps.hoverView != nil {
			m.dispatch(ps.hoverView, "pointerleave", sx, sy)
		}
		if target != nil {
			m.dispatch(target, "pointerenter", sx, sy)
		}
		ps.hoverView = target
	}

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.startX, ps.startY = sx, sy
		ps.lastX, ps.lastY = sx, sy
		ps.hitView = target
		ps.dragging = false
		ps.panning = false
		ps.lost = false
		if target != nil {
			ax, ay := m.camera.LatLngToScreen(target.position)
			ps.grabX, ps.grabY = sx-ax, sy-ay
			m.dispatch(target, "pointerdown", sx, sy)
		}

	case !pressed && ps.down:
		switch {
		case ps.dragging:
			if v := ps.hitView; v != nil {
				v.position = m.camera.ScreenToLatLng(sx-ps.grabX, sy-ps.grabY)
				v.fire(viewEvent("dragend", v.position))
			}
		case ps.panning:
			m.camera.PanBy(sx-ps.lastX, sy-ps.lastY)
		case ps.hitView != nil && ps.hitView == target:
			target.fire(viewEvent("click", target.position))
		}
		if target != nil {
			m.dispatch(target, "pointerup", sx, sy)
		}
		ps.down = false
		ps.hitView = nil
		ps.dragging = false
		ps.panning = false
		ps.lost = false

	case pressed && ps.down:
		if sx == ps.lastX && sy == ps.lastY {
			return
		}
		if !ps.dragging && !ps.panning {
			dx := sx - ps.startX
			dy := sy - ps.startY
			if math.Sqrt(dx*dx+dy*dy) > m.dragDeadZone {
				switch {
				case ps.hitView == nil && !ps.lost:
					ps.panning = true
				case ps.hitView != nil && ps.hitView.draggable:
					ps.dragging = true
					ps.hitView.fire(viewEvent("dragstart", ps.hitView.position))
				}
			}
		}
		if ps.dragging {
			v := ps.hitView
			v.position = m.camera.ScreenToLatLng(sx-ps.grabX, sy-ps.grabY)
			v.fire(viewEvent("drag", v.position))
		}
		if ps.panning {
			m.camera.PanBy(sx-ps.lastX, sy-ps.lastY)
		}
		ps.lastX, ps.lastY = sx, sy

	default:
		if (sx != ps.lastX || sy != ps.lastY) && target != nil {
			m.dispatch(target, "pointermove", sx, sy)
		}
		ps.lastX, ps.lastY = sx, sy
	}
}

// dispatch sends a DOM-style event to the root element of v.
func (m *Map) dispatch(v *MarkerView, name string, sx, sy float64) {
	v.el.Dispatch(viewEvent(name, m.camera.ScreenToLatLng(sx, sy)))
}

func viewEvent(name string, p marker.LatLng) marker.Event {
	return marker.Event{Type: name, Position: p, HasPosition: true}
}
