package marker

import (
	"sync"

	"github.com/paulmach/orb"
)

// ViewportState is a snapshot of a map's viewport. A snapshot is never
// modified after it has been published; all markers on the same map share
// the same pointer for a given broadcast.
type ViewportState struct {
	Zoom    float64
	Heading float64
	Tilt    float64
	Center  LatLng
	Bounds  orb.Bound
}

// Broadcaster observes one map and fans viewport snapshots out to all
// subscribed markers, so N markers on a map cost one map listener.
type Broadcaster struct {
	m         Map
	state     *ViewportState
	listeners []broadcastListener
	nextID    uint32
	mapSub    Listener
}

type broadcastListener struct {
	id uint32
	fn func()
}

var (
	broadcastersMu sync.Mutex
	broadcasters   = map[Map]*Broadcaster{}
)

// BroadcasterFor returns the broadcaster of m, creating it on first use.
func BroadcasterFor(m Map) *Broadcaster {
	if m == nil {
		panic("marker: BroadcasterFor called with nil map")
	}
	broadcastersMu.Lock()
	b, ok := broadcasters[m]
	if !ok {
		b = &Broadcaster{m: m}
		broadcasters[m] = b
	}
	broadcastersMu.Unlock()

	if !ok {
		b.mapSub = m.OnBoundsChanged(b.handleBoundsChange)
		b.handleBoundsChange()
	}
	return b
}

// Close unhooks the broadcaster from its map and removes it from the
// registry. Subscribers are dropped.
func (b *Broadcaster) Close() {
	broadcastersMu.Lock()
	if broadcasters[b.m] == b {
		delete(broadcasters, b.m)
	}
	broadcastersMu.Unlock()

	if b.mapSub != nil {
		b.mapSub.Remove()
		b.mapSub = nil
	}
	b.listeners = nil
}

// HasState reports whether a snapshot has been published yet.
func (b *Broadcaster) HasState() bool {
	return b.state != nil
}

// State returns the latest snapshot. Calling State before the first snapshot
// was published is a usage error and panics.
func (b *Broadcaster) State() *ViewportState {
	if b.state == nil {
		panic("marker: viewport state read before the map reported its bounds")
	}
	return b.state
}

// Subscribe registers fn to be called after every new snapshot. fn receives
// no payload; it reads State instead.
func (b *Broadcaster) Subscribe(fn func()) Listener {
	b.nextID++
	id := b.nextID
	b.listeners = append(b.listeners, broadcastListener{id: id, fn: fn})
	return ListenerFunc(func() { b.unsubscribe(id) })
}

func (b *Broadcaster) unsubscribe(id uint32) {
	for i, l := range b.listeners {
		if l.id == id {
			b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
			return
		}
	}
}

// Len returns the number of subscribers.
func (b *Broadcaster) Len() int {
	return len(b.listeners)
}

func (b *Broadcaster) handleBoundsChange() {
	center, okCenter := b.m.Center()
	bounds, okBounds := b.m.Bounds()
	if !okCenter || !okBounds {
		logger.Debug("marker: map center or bounds unavailable, viewport state not updated")
		return
	}

	b.state = &ViewportState{
		Zoom:    b.m.Zoom(),
		Heading: b.m.Heading(),
		Tilt:    b.m.Tilt(),
		Center:  center,
		Bounds:  bounds,
	}

	// listeners may unsubscribe while being notified
	for _, l := range append([]broadcastListener(nil), b.listeners...) {
		l.fn()
	}
}

// resetBroadcasters drops all registered broadcasters.
func resetBroadcasters() {
	broadcastersMu.Lock()
	all := broadcasters
	broadcasters = map[Map]*Broadcaster{}
	broadcastersMu.Unlock()
	for _, b := range all {
		if b.mapSub != nil {
			b.mapSub.Remove()
		}
	}
}
