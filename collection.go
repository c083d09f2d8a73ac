package marker

import (
	"fmt"
	"iter"
	"reflect"
	"strconv"
)

// CollectionOptions configures a Collection. All fields are optional, but a
// Key function is strongly recommended when data is updated.
type CollectionOptions[T any] struct {
	Map Map
	// Key returns a stable id for a record. It must be deterministic and
	// must not map two records of one data set to the same key.
	Key        func(T) string
	Attributes Attributes
	Defaults   Attributes
	Renderer   Renderer
	Scheduler  Scheduler
}

// Diff lists the keys touched by Collection.SetData.
type Diff struct {
	Added   []string
	Removed []string
	Updated []string
}

// Collection binds a slice of records to one marker per record. All markers
// share the collection's attributes, which typically are Dynamic callbacks
// reading the record from State.Data.
//
// Without a Key function, records are identified by value (for pointer
// records: by identity) and get generated keys. Equal records within one
// data set get a key each. Records must then be comparable; with a Key
// function any record type works.
type Collection[T any] struct {
	m        Map
	key      func(T) string
	attrs    Attributes
	defaults Attributes
	renderer Renderer
	sched    Scheduler

	markers map[string]*Marker[T]
	keys    []string

	// generated keys per record value, one per occurrence in the data
	generated map[any][]string
	nextKey   uint64
}

// NewCollection creates a collection for data.
func NewCollection[T any](data []T, opts CollectionOptions[T]) *Collection[T] {
	c := &Collection[T]{
		key:       opts.Key,
		attrs:     cloneAttributes(opts.Attributes),
		defaults:  cloneAttributes(opts.Defaults),
		renderer:  opts.Renderer,
		sched:     opts.Scheduler,
		markers:   map[string]*Marker[T]{},
		generated: map[any][]string{},
	}
	c.SetData(data)
	if opts.Map != nil {
		c.SetMap(opts.Map)
	}
	return c
}

// Map returns the map the collection is shown on.
func (c *Collection[T]) Map() Map {
	return c.m
}

// SetMap moves all markers to m, or detaches them when m is nil.
func (c *Collection[T]) SetMap(m Map) {
	if c.m == m {
		return
	}
	c.m = m
	for _, k := range c.keys {
		c.markers[k].SetMap(m)
	}
}

// SetData replaces the records. Markers of removed records are detached and
// dropped, new records get new markers, and markers of retained records keep
// their identity and receive the new record via SetData.
func (c *Collection[T]) SetData(records []T) Diff {
	keyed := make(map[string]T, len(records))
	keys := make([]string, 0, len(records))
	seen := map[any]int{}
	for _, r := range records {
		k := c.keyFor(r, seen)
		if _, dup := keyed[k]; !dup {
			keys = append(keys, k)
		}
		keyed[k] = r
	}

	var diff Diff
	for _, k := range c.keys {
		if _, ok := keyed[k]; ok {
			continue
		}
		c.markers[k].SetMap(nil)
		delete(c.markers, k)
		diff.Removed = append(diff.Removed, k)
	}

	for _, k := range keys {
		if _, ok := c.markers[k]; ok {
			diff.Updated = append(diff.Updated, k)
			continue
		}
		c.markers[k] = c.newMarker(keyed[k])
		diff.Added = append(diff.Added, k)
	}

	if len(diff.Updated) > 0 && c.key == nil {
		warnOnce("marker: updating a collection without a key function can cause performance issues. " +
			"Set CollectionOptions.Key to make records identifiable.")
	}
	for _, k := range diff.Updated {
		c.markers[k].SetData(keyed[k])
	}

	c.keys = keys
	if c.key == nil {
		c.pruneGeneratedKeys(seen)
	}
	return diff
}

// SetAttributes replaces the shared attributes of all markers. Keys that
// were shared before but are missing from attrs are cleared.
func (c *Collection[T]) SetAttributes(attrs Attributes) {
	update := cloneAttributes(attrs)
	for k := range c.attrs {
		if _, ok := attrs[k]; !ok {
			update[k] = nil
		}
	}
	c.attrs = cloneAttributes(attrs)
	for _, k := range c.keys {
		c.markers[k].SetAttributes(update)
	}
}

// Len returns the number of markers.
func (c *Collection[T]) Len() int {
	return len(c.keys)
}

// Marker returns the marker for key.
func (c *Collection[T]) Marker(key string) (*Marker[T], bool) {
	mk, ok := c.markers[key]
	return mk, ok
}

// All iterates over keys and markers in data order.
func (c *Collection[T]) All() iter.Seq2[string, *Marker[T]] {
	return func(yield func(string, *Marker[T]) bool) {
		for _, k := range c.keys {
			if !yield(k, c.markers[k]) {
				return
			}
		}
	}
}

func (c *Collection[T]) newMarker(record T) *Marker[T] {
	return New(Options[T]{
		Map:        c.m,
		Renderer:   c.renderer,
		Scheduler:  c.sched,
		Attributes: c.attrs,
		Defaults:   c.defaults,
		Data:       record,
	})
}

// keyFor calls the key function, or returns the generated key of record.
// seen counts the occurrences of each record value in the current data.
func (c *Collection[T]) keyFor(record T, seen map[any]int) string {
	if c.key != nil {
		return c.key(record)
	}
	id := any(record)
	if id != nil && !reflect.ValueOf(id).Comparable() {
		panic(fmt.Sprintf("marker: records of type %T need CollectionOptions.Key", record))
	}
	n := seen[id]
	seen[id] = n + 1
	if keys := c.generated[id]; n < len(keys) {
		return keys[n]
	}
	c.nextKey++
	k := "~" + strconv.FormatUint(c.nextKey, 36)
	c.generated[id] = append(c.generated[id], k)
	return k
}

// pruneGeneratedKeys drops keys of records, and of occurrences, that are no
// longer in the data.
func (c *Collection[T]) pruneGeneratedKeys(seen map[any]int) {
	live := make(map[any][]string, len(seen))
	for id, n := range seen {
		live[id] = c.generated[id][:n]
	}
	c.generated = live
}

func cloneAttributes(attrs Attributes) Attributes {
	out := make(Attributes, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
