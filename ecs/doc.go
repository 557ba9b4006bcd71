// Package ecs provides ECS adapters for canopy's UI event system.
//
// The primary adapter is [NewDonburiStore], which bridges canopy events
// (clicks, hover, drags, keys, focus) into a [Donburi] world as typed events.
// Subscribe to [UIEventType] in your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	sys := canopy.NewSystem(canopy.WithEventSink(store))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
