package ecs

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/marker"
)

// MarkerEvent is a marker interaction published into a Donburi world.
type MarkerEvent struct {
	// Type is the marker event name, e.g. "click" or "pointerenter".
	Type string
	// Entity is the entity the marker belongs to.
	Entity      donburi.Entity
	Position    marker.LatLng
	HasPosition bool
}

// MarkerEventType is the Donburi event type for marker events. Subscribe to
// it in your ECS systems to receive clicks, drags and hover changes.
var MarkerEventType = events.NewEventType[MarkerEvent]()

// ForwardedEvents are the marker events Forward uses when no names are given.
var ForwardedEvents = []string{"click", "dragstart", "drag", "dragend", "pointerenter", "pointerleave"}

// EventSink receives marker events.
type EventSink interface {
	EmitEvent(event MarkerEvent)
}

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventSink backed by a Donburi world. Events are
// published to MarkerEventType and consumed with events.Subscribe and
// ProcessEvents.
func NewDonburiStore(world donburi.World) EventSink {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event MarkerEvent) {
	MarkerEventType.Publish(s.world, event)
}

// Forward emits the named events of mk to sink, tagged with entity. With no
// names, ForwardedEvents are used. The returned Listener removes all of them.
func Forward[T any](sink EventSink, mk *marker.Marker[T], entity donburi.Entity, names ...string) marker.Listener {
	if len(names) == 0 {
		names = ForwardedEvents
	}
	ls := make([]marker.Listener, 0, len(names))
	for _, name := range names {
		ls = append(ls, mk.AddListener(name, func(ev marker.Event) {
			sink.EmitEvent(MarkerEvent{
				Type:        ev.Type,
				Entity:      entity,
				Position:    ev.Position,
				HasPosition: ev.HasPosition,
			})
		}))
	}
	return marker.ListenerFunc(func() {
		for _, l := range ls {
			l.Remove()
		}
		ls = nil
	})
}

// MarkerRef is the component value linking an entity to its marker.
type MarkerRef[T any] struct {
	Marker *marker.Marker[T]
}

// Bridge keeps markers and Donburi entities in step: every spawned marker
// gets an entity carrying a MarkerRef, and its events are published to the
// world.
type Bridge[T any] struct {
	world     donburi.World
	sink      EventSink
	component *donburi.ComponentType[MarkerRef[T]]
	forwards  map[donburi.Entity]marker.Listener
}

// NewBridge creates a bridge for markers with user data of type T.
func NewBridge[T any](world donburi.World) *Bridge[T] {
	return &Bridge[T]{
		world:     world,
		sink:      NewDonburiStore(world),
		component: donburi.NewComponentType[MarkerRef[T]](),
		forwards:  map[donburi.Entity]marker.Listener{},
	}
}

// Component returns the component type holding the MarkerRef, for queries.
func (b *Bridge[T]) Component() *donburi.ComponentType[MarkerRef[T]] {
	return b.component
}

// Spawn creates an entity for mk and starts forwarding its events.
func (b *Bridge[T]) Spawn(mk *marker.Marker[T]) donburi.Entity {
	entity := b.world.Create(b.component)
	b.component.SetValue(b.world.Entry(entity), MarkerRef[T]{Marker: mk})
	b.forwards[entity] = Forward(b.sink, mk, entity)
	return entity
}

// Marker returns the marker of entity, or nil if the entity is gone or was
// not spawned by b.
func (b *Bridge[T]) Marker(entity donburi.Entity) *marker.Marker[T] {
	if !b.world.Valid(entity) {
		return nil
	}
	entry := b.world.Entry(entity)
	if !entry.HasComponent(b.component) {
		return nil
	}
	return b.component.Get(entry).Marker
}

// Despawn stops forwarding, removes the marker from its map and removes the
// entity.
func (b *Bridge[T]) Despawn(entity donburi.Entity) {
	if l, ok := b.forwards[entity]; ok {
		l.Remove()
		delete(b.forwards, entity)
	}
	if mk := b.Marker(entity); mk != nil {
		mk.SetMap(nil)
	}
	if b.world.Valid(entity) {
		b.world.Remove(entity)
	}
}

// Len returns the number of spawned markers.
func (b *Bridge[T]) Len() int {
	return len(b.forwards)
}
