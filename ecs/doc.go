// Package ecs connects markers to a [Donburi] world.
//
// [NewDonburiStore] publishes marker events (click, drag, hover) as typed
// Donburi events. [Bridge] goes one step further: it gives each marker an
// entity carrying a [MarkerRef] component and forwards the marker's events
// tagged with that entity. Subscribe to [MarkerEventType] in your ECS
// systems to receive them.
//
// Usage:
//
//	bridge := ecs.NewBridge[Shop](world)
//	entity := bridge.Spawn(mk)
//	ecs.MarkerEventType.Subscribe(world, onMarkerEvent)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
