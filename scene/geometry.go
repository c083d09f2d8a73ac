package scene

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"github.com/phanxgames/marker"
)

// TileSize is the width of the whole world in pixels at zoom 0.
const TileSize = 256.0

// mercatorExtent is half the width of the EPSG:3857 plane in meters.
const mercatorExtent = math.Pi * 6378137.0

// maxLatitude is the latitude at which the square Web-Mercator world ends.
const maxLatitude = 85.05112878

// Rect is an axis-aligned rectangle. The origin is top-left, Y grows downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Project converts a position to world pixels at zoom 0.
func Project(p marker.LatLng) (x, y float64) {
	lat := math.Max(-maxLatitude, math.Min(p.Lat(), maxLatitude))
	m := project.WGS84.ToMercator(orb.Point{p.Lng(), lat})
	x = (m[0] + mercatorExtent) / (2 * mercatorExtent) * TileSize
	y = (mercatorExtent - m[1]) / (2 * mercatorExtent) * TileSize
	return x, y
}

// Unproject converts world pixels at zoom 0 back to a position.
func Unproject(x, y float64) marker.LatLng {
	m := orb.Point{
		x/TileSize*2*mercatorExtent - mercatorExtent,
		mercatorExtent - y/TileSize*2*mercatorExtent,
	}
	p := project.Mercator.ToWGS84(m)
	return marker.NewLatLng(p[1], p[0])
}

var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// invertAffine computes the inverse of an affine matrix.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}
