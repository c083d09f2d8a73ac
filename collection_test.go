package marker

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"testing"
)

type record struct {
	id  int
	pos LatLngLiteral
}

func recordKey(r *record) string { return strconv.Itoa(r.id) }

var recordAttrs = Attributes{
	KeyPosition: Dynamic[*record](func(s State[*record]) any { return s.Data.pos }),
	KeyTitle:    Dynamic[*record](func(s State[*record]) any { return strconv.Itoa(s.Data.id) }),
}

func TestCollectionSetDataDiff(t *testing.T) {
	env := setup(t)
	c := NewCollection([]*record{{id: 1}, {id: 2}}, CollectionOptions[*record]{
		Map:        env.m,
		Key:        recordKey,
		Attributes: recordAttrs,
		Scheduler:  env.queue,
	})
	env.queue.Flush()

	m1, _ := c.Marker("1")
	m2, _ := c.Marker("2")
	view1 := m1.View().(*fakeView)
	if view1.m != env.m {
		t.Fatal("marker 1 not attached")
	}

	next2 := &record{id: 2, pos: hamburg}
	diff := c.SetData([]*record{next2, {id: 3}})
	env.queue.Flush()

	if !slices.Equal(diff.Added, []string{"3"}) ||
		!slices.Equal(diff.Removed, []string{"1"}) ||
		!slices.Equal(diff.Updated, []string{"2"}) {
		t.Errorf("diff = %+v, want added [3], removed [1], updated [2]", diff)
	}
	if _, ok := c.Marker("1"); ok {
		t.Error("marker 1 still in the collection")
	}
	if view1.m != nil {
		t.Error("marker 1 still on the map")
	}
	if got, _ := c.Marker("2"); got != m2 {
		t.Error("marker 2 was recreated")
	}
	if m2.Data() != next2 {
		t.Error("marker 2 did not receive the new record")
	}
	if p := m2.View().(*fakeView).position; p != NewLatLng(53.555, 10.001) {
		t.Errorf("marker 2 position = %v", p)
	}
	if c.Len() != 2 || len(env.renderer.views) != 3 {
		t.Errorf("Len = %d, views = %d; want 2, 3", c.Len(), len(env.renderer.views))
	}
	if n := env.log.count(slog.LevelWarn); n != 0 {
		t.Errorf("warnings = %d, want 0 with a key function", n)
	}
}

func TestCollectionAllInDataOrder(t *testing.T) {
	env := setup(t)
	c := NewCollection([]*record{{id: 3}, {id: 1}, {id: 2}}, CollectionOptions[*record]{
		Key:       recordKey,
		Scheduler: env.queue,
	})
	var keys []string
	for k, mk := range c.All() {
		keys = append(keys, k)
		if strconv.Itoa(mk.Data().id) != k {
			t.Errorf("key %s holds record %d", k, mk.Data().id)
		}
	}
	if !slices.Equal(keys, []string{"3", "1", "2"}) {
		t.Errorf("keys = %v, want [3 1 2]", keys)
	}
}

func TestCollectionDuplicateKeys(t *testing.T) {
	env := setup(t)
	last := &record{id: 1, pos: hamburg}
	c := NewCollection([]*record{{id: 1}, last}, CollectionOptions[*record]{
		Key:       recordKey,
		Scheduler: env.queue,
	})
	mk, _ := c.Marker("1")
	if c.Len() != 1 || mk.Data() != last {
		t.Errorf("Len = %d, last record wins = %v", c.Len(), mk.Data() == last)
	}
}

func TestCollectionWithoutKeyFunction(t *testing.T) {
	env := setup(t)
	a, b := &record{id: 1}, &record{id: 2}
	c := NewCollection([]*record{a, b}, CollectionOptions[*record]{
		Map:        env.m,
		Attributes: recordAttrs,
		Scheduler:  env.queue,
	})
	env.queue.Flush()

	var keys []string
	for k := range c.All() {
		keys = append(keys, k)
	}

	diff := c.SetData([]*record{b, a})
	if len(diff.Updated) != 2 || len(diff.Added) != 0 || len(diff.Removed) != 0 {
		t.Errorf("diff = %+v, want two updates", diff)
	}
	if n := env.log.count(slog.LevelWarn); n != 1 {
		t.Errorf("warnings = %d, want 1", n)
	}

	diff = c.SetData([]*record{a, {id: 2}})
	if len(diff.Added) != 1 || len(diff.Removed) != 1 || len(diff.Updated) != 1 {
		t.Errorf("diff = %+v, want one of each (new pointer, new marker)", diff)
	}
	if diff.Updated[0] != keys[0] {
		t.Errorf("record a changed key: %s -> %s", keys[0], diff.Updated[0])
	}
	if n := env.log.count(slog.LevelWarn); n != 1 {
		t.Errorf("warnings after repeat = %d, want 1", n)
	}

	if _, ok := c.generated[b]; ok {
		t.Error("generated key of a dropped record not pruned")
	}
}

func TestCollectionEqualValueRecords(t *testing.T) {
	env := setup(t)
	c := NewCollection([]LatLngLiteral{{Lat: 1, Lng: 2}, {Lat: 1, Lng: 2}, {Lat: 3, Lng: 4}}, CollectionOptions[LatLngLiteral]{
		Map: env.m,
		Attributes: Attributes{
			KeyPosition: Dynamic[LatLngLiteral](func(s State[LatLngLiteral]) any { return s.Data }),
		},
		Scheduler: env.queue,
	})
	env.queue.Flush()
	if c.Len() != 3 || len(env.renderer.views) != 3 {
		t.Fatalf("Len = %d, views = %d; want 3, 3", c.Len(), len(env.renderer.views))
	}
	var first []string
	for k := range c.All() {
		first = append(first, k)
	}

	// same data keeps every key
	diff := c.SetData([]LatLngLiteral{{Lat: 1, Lng: 2}, {Lat: 1, Lng: 2}, {Lat: 3, Lng: 4}})
	if len(diff.Updated) != 3 || len(diff.Added) != 0 || len(diff.Removed) != 0 {
		t.Errorf("diff = %+v, want three updates", diff)
	}

	// one duplicate less drops exactly one marker
	diff = c.SetData([]LatLngLiteral{{Lat: 1, Lng: 2}, {Lat: 3, Lng: 4}})
	if !slices.Equal(diff.Removed, []string{first[1]}) || len(diff.Added) != 0 {
		t.Errorf("diff = %+v, want %s removed", diff, first[1])
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}

	// the duplicate comes back with a fresh key
	diff = c.SetData([]LatLngLiteral{{Lat: 1, Lng: 2}, {Lat: 1, Lng: 2}, {Lat: 3, Lng: 4}})
	if len(diff.Added) != 1 || diff.Added[0] == first[1] || diff.Added[0] == first[0] {
		t.Errorf("diff = %+v, want one new key", diff)
	}
}

type taggedRecord struct {
	id   int
	tags []string
}

func TestCollectionRecordsWithSlices(t *testing.T) {
	env := setup(t)
	records := []taggedRecord{{id: 1, tags: []string{"a"}}, {id: 2}}
	c := NewCollection(records, CollectionOptions[taggedRecord]{
		Key:       func(r taggedRecord) string { return strconv.Itoa(r.id) },
		Scheduler: env.queue,
	})
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}

	v := expectPanic(t, func() {
		NewCollection(records, CollectionOptions[taggedRecord]{Scheduler: env.queue})
	})
	if msg, _ := v.(string); !strings.Contains(msg, "Key") {
		t.Errorf("panic = %v, want it to ask for a key function", v)
	}
}

func TestCollectionSetMap(t *testing.T) {
	env := setup(t)
	c := NewCollection([]*record{{id: 1, pos: hamburg}, {id: 2, pos: hamburg}}, CollectionOptions[*record]{
		Key:        recordKey,
		Attributes: recordAttrs,
		Scheduler:  env.queue,
	})
	env.queue.Flush()
	for _, v := range env.renderer.views {
		if v.m != nil {
			t.Fatal("marker attached without a map")
		}
	}

	c.SetMap(env.m)
	env.queue.Flush()
	if c.Map() != env.m {
		t.Error("Map not set")
	}
	for _, v := range env.renderer.views {
		if v.m != env.m {
			t.Error("marker not attached after SetMap")
		}
	}

	// new markers join the current map
	c.SetData([]*record{{id: 1, pos: hamburg}, {id: 2, pos: hamburg}, {id: 3, pos: hamburg}})
	env.queue.Flush()
	if v := env.renderer.views[2]; v.m != env.m {
		t.Error("added marker not on the collection's map")
	}

	c.SetMap(nil)
	for _, v := range env.renderer.views {
		if v.m != nil {
			t.Error("marker still attached after SetMap(nil)")
		}
	}
}

func TestCollectionSetAttributes(t *testing.T) {
	env := setup(t)
	c := NewCollection([]*record{{id: 1, pos: hamburg}}, CollectionOptions[*record]{
		Map: env.m,
		Key: recordKey,
		Attributes: Attributes{
			KeyPosition: recordAttrs[KeyPosition],
			KeyTitle:    "shared",
		},
		Scheduler: env.queue,
	})
	env.queue.Flush()
	mk, _ := c.Marker("1")
	view := mk.View().(*fakeView)
	if view.title != "shared" {
		t.Fatalf("title = %q, want shared", view.title)
	}

	c.SetAttributes(Attributes{
		KeyPosition: recordAttrs[KeyPosition],
		KeyColor:    "#4285F4",
	})
	env.queue.Flush()
	if mk.Attribute(KeyTitle) != nil || view.title != "" {
		t.Errorf("title not cleared: %v / %q", mk.Attribute(KeyTitle), view.title)
	}
	if view.pin.background != "rgba(66,133,244,1)" {
		t.Errorf("background = %q", view.pin.background)
	}

	c.SetData([]*record{{id: 1, pos: hamburg}, {id: 2, pos: hamburg}})
	env.queue.Flush()
	mk2, _ := c.Marker("2")
	if mk2.Attribute(KeyColor) != "#4285F4" {
		t.Error("new marker did not get the current shared attributes")
	}
}
