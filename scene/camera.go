package scene

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/marker"
)

const (
	defaultMinZoom = 0
	defaultMaxZoom = 20
)

// panAnim holds active pan-to tweens for camera X and Y.
type panAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera controls the view onto the map: center, zoom, heading and viewport.
type Camera struct {
	// X and Y are the world-pixel position (at zoom 0) the camera centers on.
	X, Y float64
	// Zoom is the map zoom level; the world is TileSize * 2^Zoom pixels wide.
	Zoom float64
	// Heading is the map rotation in degrees, clockwise from north.
	Heading float64
	// Tilt is reported to markers but not rendered.
	Tilt float64
	// Viewport is the screen-space rectangle the map renders into.
	Viewport Rect

	MinZoom, MaxZoom float64

	viewMatrix    [6]float64
	invViewMatrix [6]float64
	dirty         bool
	// moved is set by every view change and cleared by update.
	moved bool

	pan  *panAnim
	zoom *gween.Tween
}

// newCamera creates a Camera with default values and the given viewport.
func newCamera(viewport Rect) *Camera {
	return &Camera{
		X:        TileSize / 2,
		Y:        TileSize / 2,
		Viewport: viewport,
		MinZoom:  defaultMinZoom,
		MaxZoom:  defaultMaxZoom,
		dirty:    true,
		moved:    true,
	}
}

// Center returns the position the camera centers on.
func (c *Camera) Center() marker.LatLng {
	return Unproject(c.X, c.Y)
}

// SetCenter moves the camera to p immediately and cancels a running pan.
func (c *Camera) SetCenter(p marker.LatLng) {
	c.X, c.Y = Project(p)
	c.pan = nil
	c.invalidate()
}

// SetZoom changes the zoom level immediately and cancels a running zoom.
func (c *Camera) SetZoom(z float64) {
	c.Zoom = c.clampZoom(z)
	c.zoom = nil
	c.invalidate()
}

// PanTo animates the camera to p over duration seconds.
func (c *Camera) PanTo(p marker.LatLng, duration float32, easeFn ease.TweenFunc) {
	x, y := Project(p)
	c.pan = &panAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// ZoomTo animates the zoom level to z over duration seconds.
func (c *Camera) ZoomTo(z float64, duration float32, easeFn ease.TweenFunc) {
	c.zoom = gween.New(float32(c.Zoom), float32(c.clampZoom(z)), duration, easeFn)
}

// PanBy moves the camera by a screen-space offset, the way dragging the map
// does: content under the pointer follows the pointer.
func (c *Camera) PanBy(dx, dy float64) {
	c.computeViewMatrix()
	x0, y0 := transformPoint(c.invViewMatrix, 0, 0)
	x1, y1 := transformPoint(c.invViewMatrix, dx, dy)
	c.X -= x1 - x0
	c.Y -= y1 - y0
	c.invalidate()
}

// Animating reports whether a pan or zoom animation is in flight.
func (c *Camera) Animating() bool {
	return c.pan != nil || c.zoom != nil
}

func (c *Camera) clampZoom(z float64) float64 {
	return math.Max(c.MinZoom, math.Min(z, c.MaxZoom))
}

func (c *Camera) scale() float64 {
	return math.Exp2(c.Zoom)
}

// update advances pan and zoom animations and reports whether the view
// changed since the previous update. Called from Map.Update.
func (c *Camera) update(dt float32) bool {
	if c.pan != nil {
		if !c.pan.doneX {
			val, done := c.pan.tweenX.Update(dt)
			c.X = float64(val)
			c.pan.doneX = done
		}
		if !c.pan.doneY {
			val, done := c.pan.tweenY.Update(dt)
			c.Y = float64(val)
			c.pan.doneY = done
		}
		if c.pan.doneX && c.pan.doneY {
			c.pan = nil
		}
		c.invalidate()
	}

	if c.zoom != nil {
		val, done := c.zoom.Update(dt)
		c.Zoom = c.clampZoom(float64(val))
		if done {
			c.zoom = nil
		}
		c.invalidate()
	}

	moved := c.moved
	c.moved = false
	c.computeViewMatrix()
	return moved
}

func (c *Camera) invalidate() {
	c.dirty = true
	c.moved = true
}

// computeViewMatrix recomputes the cached view matrix if dirty.
//
// viewMatrix = Translate(cx, cy) * Scale(2^zoom) * Rotate(-heading) * Translate(-X, -Y)
// where cx, cy = viewport center.
func (c *Camera) computeViewMatrix() [6]float64 {
	if !c.dirty {
		return c.viewMatrix
	}
	c.dirty = false

	cx := c.Viewport.X + c.Viewport.Width/2
	cy := c.Viewport.Y + c.Viewport.Height/2

	rot := -c.Heading * math.Pi / 180
	cos := math.Cos(rot)
	sin := math.Sin(rot)
	z := c.scale()

	a := z * cos
	b := -z * sin
	cc := z * sin
	d := z * cos
	tx := cx + z*(-cos*c.X+sin*c.Y)
	ty := cy + z*(-sin*c.X-cos*c.Y)

	c.viewMatrix = [6]float64{a, cc, b, d, tx, ty}
	c.invViewMatrix = invertAffine(c.viewMatrix)
	return c.viewMatrix
}

// WorldToScreen converts world pixels (zoom 0) to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	c.computeViewMatrix()
	return transformPoint(c.viewMatrix, wx, wy)
}

// ScreenToWorld converts screen coordinates to world pixels (zoom 0).
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	c.computeViewMatrix()
	return transformPoint(c.invViewMatrix, sx, sy)
}

// LatLngToScreen converts a position to screen coordinates.
func (c *Camera) LatLngToScreen(p marker.LatLng) (sx, sy float64) {
	return c.WorldToScreen(Project(p))
}

// ScreenToLatLng converts screen coordinates to a position.
func (c *Camera) ScreenToLatLng(sx, sy float64) marker.LatLng {
	return Unproject(c.ScreenToWorld(sx, sy))
}

// VisibleBounds returns the axis-aligned bounding rect of the camera's visible
// area in world pixels.
func (c *Camera) VisibleBounds() Rect {
	c.computeViewMatrix()
	inv := c.invViewMatrix

	vx := c.Viewport.X
	vy := c.Viewport.Y
	vr := vx + c.Viewport.Width
	vb := vy + c.Viewport.Height

	x0, y0 := transformPoint(inv, vx, vy)
	x1, y1 := transformPoint(inv, vr, vy)
	x2, y2 := transformPoint(inv, vr, vb)
	x3, y3 := transformPoint(inv, vx, vb)

	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Bounds returns the visible area as a lng/lat bound.
func (c *Camera) Bounds() orb.Bound {
	r := c.VisibleBounds()
	nw := Unproject(r.X, r.Y)
	se := Unproject(r.X+r.Width, r.Y+r.Height)
	return orb.Bound{
		Min: orb.Point{nw.Lng(), se.Lat()},
		Max: orb.Point{se.Lng(), nw.Lat()},
	}
}

// MarkDirty forces a recomputation of the view matrix and counts as a view
// change. Call it after modifying the exported fields directly.
func (c *Camera) MarkDirty() {
	c.invalidate()
}
