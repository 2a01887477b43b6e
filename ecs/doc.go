// Package ecs provides ECS adapters for vrwidget's routed input events and
// widget lifecycle.
//
// [NewDonburiStore] bridges every event the router dispatches into a
// [Donburi] world as a typed event. Subscribe to [WidgetEventType] in your
// ECS systems to receive hover, touch and scroll events.
//
// [NewDonburiDelegate] mirrors the registry into the world: each live widget
// is an entity carrying a [WidgetComponent], and the focused one also carries
// the [Focused] tag.
//
// Usage:
//
//	world := donburi.NewWorld()
//	m.SetEventStore(ecs.NewDonburiStore(world))
//	m.SetDelegate(ecs.NewDonburiDelegate(world))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
