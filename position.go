package marker

import (
	"fmt"

	"github.com/paulmach/orb"
	geojson "github.com/paulmach/go.geojson"
)

// LatLng is the canonical position every position shape normalizes to.
// It is comparable; two LatLng values are equal when both coordinates are
// exactly equal.
type LatLng struct {
	lat, lng float64
}

// NewLatLng creates a LatLng handle.
func NewLatLng(lat, lng float64) LatLng {
	return LatLng{lat: lat, lng: lng}
}

// Lat returns the latitude in degrees.
func (p LatLng) Lat() float64 { return p.lat }

// Lng returns the longitude in degrees.
func (p LatLng) Lng() float64 { return p.lng }

// Literal returns p as a LatLngLiteral.
func (p LatLng) Literal() LatLngLiteral { return LatLngLiteral{Lat: p.lat, Lng: p.lng} }

// Point returns p as a GeoJSON-ordered orb.Point ([lng, lat]).
func (p LatLng) Point() orb.Point { return orb.Point{p.lng, p.lat} }

func (p LatLng) String() string {
	return fmt.Sprintf("(%g, %g)", p.lat, p.lng)
}

// LatLngLiteral is the plain {lat, lng} position shape.
type LatLngLiteral struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LatitudeLongitude is the {latitude, longitude} position shape used by some
// place APIs.
type LatitudeLongitude struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Position is any accepted position shape: LatLng, *LatLng, LatLngLiteral,
// LatitudeLongitude, orb.Point, [2]float64 or a two element []float64 (all
// as [lng, lat]), or a GeoJSON point *geojson.Geometry.
//
// Nil pointers of the pointer shapes mean "no position".
type Position any

func isPosition(v any) bool {
	_, err := ToLatLng(v)
	return err == nil
}

// isNilPosition reports whether v is a nil pointer of an accepted shape.
func isNilPosition(v any) bool {
	switch p := v.(type) {
	case *LatLng:
		return p == nil
	case *LatLngLiteral:
		return p == nil
	case *geojson.Geometry:
		return p == nil
	}
	return false
}

// ToLatLng normalizes a position of any accepted shape.
func ToLatLng(p Position) (LatLng, error) {
	switch v := p.(type) {
	case LatLng:
		return v, nil
	case *LatLng:
		if v != nil {
			return *v, nil
		}
	case LatLngLiteral:
		return LatLng{lat: v.Lat, lng: v.Lng}, nil
	case *LatLngLiteral:
		if v != nil {
			return LatLng{lat: v.Lat, lng: v.Lng}, nil
		}
	case LatitudeLongitude:
		return LatLng{lat: v.Latitude, lng: v.Longitude}, nil
	case orb.Point:
		return LatLng{lat: v[1], lng: v[0]}, nil
	case [2]float64:
		return LatLng{lat: v[1], lng: v[0]}, nil
	case []float64:
		if len(v) == 2 {
			return LatLng{lat: v[1], lng: v[0]}, nil
		}
	case *geojson.Geometry:
		if v != nil && v.IsPoint() && len(v.Point) >= 2 {
			return LatLng{lat: v.Point[1], lng: v.Point[0]}, nil
		}
	}
	return LatLng{}, fmt.Errorf("marker: unknown position format %T", p)
}
