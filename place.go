package marker

import (
	"net/url"
)

// Place is the subset of a place record that PlaceMarker presets use.
type Place struct {
	ID                  string
	Name                string
	Location            *LatLng
	IconBackgroundColor string
	IconMaskBaseURI     string
}

// placeDefaults derive the marker visuals from the place data.
var placeDefaults = Attributes{
	KeyPosition: Dynamic[*Place](func(s State[*Place]) any {
		if s.Data == nil || s.Data.Location == nil {
			return nil
		}
		return *s.Data.Location
	}),
	KeyColor: Dynamic[*Place](func(s State[*Place]) any {
		if s.Data == nil || s.Data.IconBackgroundColor == "" {
			return nil
		}
		return s.Data.IconBackgroundColor
	}),
	KeyGlyphColor: "#ffff",
	KeyGlyph: Dynamic[*Place](func(s State[*Place]) any {
		if s.Data == nil || s.Data.IconMaskBaseURI == "" {
			return nil
		}
		u, err := url.Parse(s.Data.IconMaskBaseURI + ".svg")
		if err != nil {
			return nil
		}
		return u
	}),
	KeyTitle: Dynamic[*Place](func(s State[*Place]) any {
		if s.Data == nil || s.Data.Name == "" {
			return nil
		}
		return s.Data.Name
	}),
}

// NewPlaceMarker creates a marker whose position, color, glyph and title
// default to the values of place. Attributes and Defaults in opts take
// precedence over the place-derived defaults.
func NewPlaceMarker(opts Options[*Place], place *Place) *Marker[*Place] {
	defaults := make(Attributes, len(placeDefaults)+len(opts.Defaults))
	for k, v := range placeDefaults {
		defaults[k] = v
	}
	for k, v := range opts.Defaults {
		defaults[k] = v
	}
	opts.Defaults = defaults
	if place != nil {
		opts.Data = place
	}
	return New(opts)
}

// SetPlace replaces the place of a place marker. A nil place is ignored.
func SetPlace(mk *Marker[*Place], place *Place) {
	if place != nil {
		mk.SetData(place)
	}
}
