package main

import (
	"fmt"
	"os"
	"strconv"

	geojson "github.com/paulmach/go.geojson"
)

// feature is one point of the loaded FeatureCollection.
type feature struct {
	key      string
	name     string
	geometry *geojson.Geometry
}

// sampleGeoJSON is shown when no file is given.
var sampleGeoJSON = []byte(`{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": "rathaus", "properties": {"name": "Rathaus"},
     "geometry": {"type": "Point", "coordinates": [9.9924, 53.5503]}},
    {"type": "Feature", "id": "elbphilharmonie", "properties": {"name": "Elbphilharmonie"},
     "geometry": {"type": "Point", "coordinates": [9.9841, 53.5413]}},
    {"type": "Feature", "id": "michel", "properties": {"name": "St. Michaelis"},
     "geometry": {"type": "Point", "coordinates": [9.9788, 53.5483]}},
    {"type": "Feature", "id": "alster", "properties": {"name": "Binnenalster"},
     "geometry": {"type": "Point", "coordinates": [9.9937, 53.5533]}},
    {"type": "Feature", "id": "hbf", "properties": {"name": "Hauptbahnhof"},
     "geometry": {"type": "Point", "coordinates": [10.0069, 53.5530]}}
  ]
}`)

// readFeatures reads a FeatureCollection from path, or the sample when path
// is empty.
func readFeatures(path, keyProperty string) ([]*feature, error) {
	data := sampleGeoJSON
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}
	return parseFeatures(data, keyProperty)
}

// parseFeatures keeps the point features of a FeatureCollection. The key of
// a feature is keyProperty if set, else the feature id, else its index.
func parseFeatures(data []byte, keyProperty string) ([]*feature, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("markerview: parse feature collection: %w", err)
	}

	var out []*feature
	for i, f := range fc.Features {
		if f.Geometry == nil || !f.Geometry.IsPoint() {
			continue
		}
		out = append(out, &feature{
			key:      featureKey(f, keyProperty, i),
			name:     stringProperty(f, "name"),
			geometry: f.Geometry,
		})
	}
	return out, nil
}

func featureKey(f *geojson.Feature, keyProperty string, index int) string {
	if keyProperty != "" {
		if v, ok := f.Properties[keyProperty]; ok && v != nil {
			return fmt.Sprint(v)
		}
	}
	if f.ID != nil {
		return fmt.Sprint(f.ID)
	}
	return "#" + strconv.Itoa(index)
}

func stringProperty(f *geojson.Feature, name string) string {
	if s, ok := f.Properties[name].(string); ok {
		return s
	}
	return ""
}
