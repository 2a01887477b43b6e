package ecs

import (
	"github.com/phanxgames/vrwidget"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// WidgetEventType is the Donburi event type for routed widget events.
var WidgetEventType = events.NewEventType[vrwidget.Event]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventStore backed by a Donburi world. Events
// are published to WidgetEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) vrwidget.EventStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(e vrwidget.Event) {
	WidgetEventType.Publish(s.world, e)
}
