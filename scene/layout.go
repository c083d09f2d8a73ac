package scene

import (
	"github.com/phanxgames/marker"
)

// Default pin size in pixels at scale 1.
const (
	pinWidth  = 26
	pinHeight = 37
)

// layoutEntry is a view placed on screen for the current frame.
type layoutEntry struct {
	view *MarkerView
	// anchor in screen pixels; the view's bottom center sits on it
	x, y float64
	rect Rect
	z    int
}

// screenRect returns the on-screen box of v anchored at (ax, ay).
func (v *MarkerView) screenRect(ax, ay float64) Rect {
	w, h := float64(defaultContentWidth), float64(defaultContentHeight)
	switch c := v.content.(type) {
	case nil:
		s := v.pin.scale
		if s <= 0 {
			s = 1
		}
		w, h = pinWidth*s, pinHeight*s
	case *Element:
		if c != nil {
			w, h = c.size()
		}
	}
	return Rect{X: ax - w/2, Y: ay - h, Width: w, Height: h}
}

// arrange places the attached views for the current camera, culls the ones
// outside the viewport, sorts them into paint order and drops views hidden
// by collisions. The result is valid until the next call.
func (m *Map) arrange() []layoutEntry {
	m.layout = m.layout[:0]
	vp := m.camera.Viewport
	for _, v := range m.views {
		ax, ay := m.camera.LatLngToScreen(v.position)
		r := v.screenRect(ax, ay)
		if !r.Intersects(vp) {
			continue
		}
		z, _ := v.ZIndex()
		m.layout = append(m.layout, layoutEntry{view: v, x: ax, y: ay, rect: r, z: z})
	}
	m.sortLayout()
	m.shown = resolveCollisions(m.layout, m.shown[:0])
	return m.shown
}

// entryLessOrEqual orders by zIndex, then lower on screen in front, then
// attach order.
func entryLessOrEqual(a, b layoutEntry) bool {
	if a.z != b.z {
		return a.z < b.z
	}
	if a.y != b.y {
		return a.y < b.y
	}
	return a.view.order <= b.view.order
}

// sortLayout sorts m.layout in place with a stable bottom-up merge sort,
// using m.sortBuf as scratch space.
func (m *Map) sortLayout() {
	n := len(m.layout)
	if n <= 1 {
		return
	}
	if cap(m.sortBuf) < n {
		m.sortBuf = make([]layoutEntry, n)
	}
	m.sortBuf = m.sortBuf[:n]

	a := m.layout
	b := m.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(m.layout, m.sortBuf)
	}
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []layoutEntry, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if entryLessOrEqual(src[i], src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	for i < mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j < hi {
		dst[k] = src[j]
		j++
		k++
	}
}

// resolveCollisions appends the entries of sorted that stay visible to buf.
// Optional views are hidden when they overlap a view that hides optional
// ones, or an optional view of higher priority that is shown. Priority
// follows paint order: later entries win.
func resolveCollisions(sorted, buf []layoutEntry) []layoutEntry {
	var hiders, taken []Rect
	for _, e := range sorted {
		if e.view.collision == marker.CollisionRequiredAndHidesOptional {
			hiders = append(hiders, e.rect)
		}
	}

	var hidden []bool
	for i := len(sorted) - 1; i >= 0; i-- {
		e := sorted[i]
		if e.view.collision != marker.CollisionOptionalAndHidesLowerPriority {
			continue
		}
		if overlapsAny(e.rect, hiders) || overlapsAny(e.rect, taken) {
			if hidden == nil {
				hidden = make([]bool, len(sorted))
			}
			hidden[i] = true
			continue
		}
		taken = append(taken, e.rect)
	}

	for i, e := range sorted {
		if hidden == nil || !hidden[i] {
			buf = append(buf, e)
		}
	}
	return buf
}

// overlaps reports whether a and b share interior area. Touching edges do
// not collide.
func overlaps(a, b Rect) bool {
	return a.X < b.X+b.Width && a.X+a.Width > b.X &&
		a.Y < b.Y+b.Height && a.Y+a.Height > b.Y
}

func overlapsAny(r Rect, rs []Rect) bool {
	for _, o := range rs {
		if overlaps(r, o) {
			return true
		}
	}
	return false
}

// hitTest returns the topmost shown view at the screen point, or nil.
func (m *Map) hitTest(sx, sy float64) *MarkerView {
	shown := m.arrange()
	for i := len(shown) - 1; i >= 0; i-- {
		if shown[i].rect.Contains(sx, sy) {
			return shown[i].view
		}
	}
	return nil
}

// ViewAt returns the topmost visible view at the screen point, or nil.
func (m *Map) ViewAt(sx, sy float64) *MarkerView {
	return m.hitTest(sx, sy)
}

// VisibleViews returns the views drawn in the current frame, back to front.
func (m *Map) VisibleViews() []*MarkerView {
	shown := m.arrange()
	out := make([]*MarkerView, len(shown))
	for i, e := range shown {
		out[i] = e.view
	}
	return out
}
