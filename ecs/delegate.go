package ecs

import (
	"github.com/phanxgames/vrwidget"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// WidgetData is the component value stored for every live widget.
type WidgetData struct {
	Handle vrwidget.Handle
	Kind   vrwidget.Kind
}

// WidgetComponent marks an entity as mirroring a registered widget.
var WidgetComponent = donburi.NewComponentType[WidgetData]()

// Focused tags the entity of the focused widget.
var Focused = donburi.NewTag()

// widgetQuery matches every mirrored widget entity.
var widgetQuery = donburi.NewQuery(filter.Contains(WidgetComponent))

// DonburiDelegate is a vrwidget.Delegate that keeps one entity per live
// widget in a Donburi world.
type DonburiDelegate struct {
	world    donburi.World
	entities map[vrwidget.Handle]donburi.Entity
}

// NewDonburiDelegate creates a delegate mirroring widgets into world.
func NewDonburiDelegate(world donburi.World) *DonburiDelegate {
	return &DonburiDelegate{
		world:    world,
		entities: make(map[vrwidget.Handle]donburi.Entity),
	}
}

// Entity returns the entity mirroring h.
func (d *DonburiDelegate) Entity(h vrwidget.Handle) (donburi.Entity, bool) {
	e, ok := d.entities[h]
	if !ok || !d.world.Valid(e) {
		return 0, false
	}
	return e, true
}

// Count returns the number of widget entities in the world.
func (d *DonburiDelegate) Count() int {
	return widgetQuery.Count(d.world)
}

// WidgetRegistered implements vrwidget.Delegate.
func (d *DonburiDelegate) WidgetRegistered(h vrwidget.Handle, w vrwidget.Widget) {
	if old, ok := d.entities[h]; ok && d.world.Valid(old) {
		d.world.Remove(old)
	}
	e := d.world.Create(WidgetComponent)
	WidgetComponent.SetValue(d.world.Entry(e), WidgetData{Handle: h, Kind: w.Kind()})
	d.entities[h] = e
}

// WidgetReleased implements vrwidget.Delegate.
func (d *DonburiDelegate) WidgetReleased(h vrwidget.Handle) {
	e, ok := d.entities[h]
	if !ok {
		return
	}
	delete(d.entities, h)
	if d.world.Valid(e) {
		d.world.Remove(e)
	}
}

// FocusChanged implements vrwidget.Delegate.
func (d *DonburiDelegate) FocusChanged(prev, next vrwidget.Handle) {
	if e, ok := d.Entity(prev); ok {
		entry := d.world.Entry(e)
		if entry.HasComponent(Focused) {
			entry.RemoveComponent(Focused)
		}
	}
	if e, ok := d.Entity(next); ok {
		entry := d.world.Entry(e)
		if !entry.HasComponent(Focused) {
			entry.AddComponent(Focused)
		}
	}
}
