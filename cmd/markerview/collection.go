package main

import (
	"log/slog"
	"math"

	geojson "github.com/paulmach/go.geojson"

	"github.com/phanxgames/marker"
)

// Scale bounds for pins; the scale follows the zoom level in between.
const (
	minScale  = 0.6
	maxScale  = 1.6
	scaleZoom = 14
)

// featureAttributes returns the attributes shared by all feature markers.
func featureAttributes(c *cli) marker.Attributes {
	attrs := marker.Attributes{
		marker.KeyPosition: marker.Dynamic[*feature](func(s marker.State[*feature]) any {
			return s.Data.geometry
		}),
		marker.KeyTitle: marker.Dynamic[*feature](func(s marker.State[*feature]) any {
			return s.Data.name
		}),
		marker.KeyColor: marker.Dynamic[*feature](func(s marker.State[*feature]) any {
			if s.Interaction.Hovered {
				return c.HoverColor
			}
			return c.Color
		}),
		marker.KeyScale: marker.Dynamic[*feature](func(s marker.State[*feature]) any {
			if s.Viewport == nil {
				return nil
			}
			return math.Max(minScale, math.Min(maxScale, s.Viewport.Zoom/scaleZoom))
		}),
		marker.KeyZIndex: marker.Dynamic[*feature](func(s marker.State[*feature]) any {
			if s.Interaction.Hovered {
				return 1
			}
			return nil
		}),
		marker.KeyDraggable: c.Draggable,
	}
	if c.Declutter {
		attrs[marker.KeyCollisionBehavior] = marker.CollisionOptionalAndHidesLowerPriority
	}
	return attrs
}

func newCollection(m marker.Map, features []*feature, c *cli) *marker.Collection[*feature] {
	return marker.NewCollection(features, marker.CollectionOptions[*feature]{
		Map:        m,
		Key:        func(f *feature) string { return f.key },
		Attributes: featureAttributes(c),
	})
}

// trackDrops moves the geometry of a feature to where its marker was
// dropped, so the next update keeps the new position.
func trackDrops(col *marker.Collection[*feature], logger *slog.Logger) {
	for key, mk := range col.All() {
		mk.AddListener("dragend", func(ev marker.Event) {
			if !ev.HasPosition {
				return
			}
			f := mk.Data()
			f.geometry = geojson.NewPointGeometry([]float64{ev.Position.Lng(), ev.Position.Lat()})
			mk.Update()
			logger.Info("markerview: feature moved", "key", key, "position", ev.Position.String())
		})
	}
}
