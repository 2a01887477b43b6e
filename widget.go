package vrwidget

// WidgetManager is the back-reference a widget uses to talk to the manager
// that owns it. It is passed explicitly at construction and again through
// Widget.SetManager on registration.
type WidgetManager interface {
	// RequestFocus makes h the single focused widget.
	RequestFocus(h Handle)
	// RequestLayout replaces the widget's 3D placement.
	RequestLayout(h Handle, p Placement)
	// RequestSurface rebinds the widget's drawing surface at a new size.
	RequestSurface(h Handle, width, height int) (*Surface, error)
	// Dismiss releases the widget at the end of the current frame.
	Dismiss(h Handle)
}

// Widget is the contract every panel implements so the manager can render
// it and route input to it. Widgets must be pointer types; the registry
// uses widget identity to detect duplicate registration.
type Widget interface {
	// Kind reports which panel kind the widget is.
	Kind() Kind
	// Handle returns the assigned handle, or InvalidHandle.
	Handle() Handle
	// SetHandle is called once by the registry on registration.
	SetHandle(h Handle)
	// SetManager hands the widget its manager back-reference.
	SetManager(m WidgetManager)
	// SetSurface binds the widget to s. A nil s means the widget has no
	// surface and must drop any reference it kept.
	SetSurface(s *Surface)
	// HandleTouch receives touch-down/move/up/cancel in surface pixels.
	HandleTouch(e Event)
	// HandleHover receives hover-enter/move/exit in surface pixels.
	HandleHover(e Event)
	// ReleaseWidget frees everything the widget owns. It runs synchronously
	// after the handle and surface have been reclaimed.
	ReleaseWidget()
}

// Scroller is implemented by widgets that accept scroll deltas.
type Scroller interface {
	HandleScroll(e Event)
}

// Updater is implemented by widgets that animate. Update is called once per
// frame by Manager.Update with the frame delta in seconds.
type Updater interface {
	Update(dt float64)
}

// Delegate receives registry and focus notifications so external
// bookkeeping (which panel is active, which tab owns a widget) stays in sync.
type Delegate interface {
	WidgetRegistered(h Handle, w Widget)
	WidgetReleased(h Handle)
	FocusChanged(prev, next Handle)
}

// EventStore is the interface for optional ECS integration. When set on a
// Router, every dispatched event is forwarded to it.
type EventStore interface {
	EmitEvent(e Event)
}

// BaseWidget carries the bookkeeping every panel needs. Embed it in a panel
// struct and implement HandleTouch and HandleHover. The zero value is an
// unregistered widget of KindDynamic.
type BaseWidget struct {
	kind     Kind
	handle   Handle
	assigned bool
	manager  WidgetManager
	surface  *Surface
	released bool
}

// NewBaseWidget returns a BaseWidget of the given kind bound to m.
func NewBaseWidget(kind Kind, m WidgetManager) BaseWidget {
	return BaseWidget{kind: kind, manager: m}
}

// Kind reports the panel kind.
func (b *BaseWidget) Kind() Kind {
	return b.kind
}

// Handle returns the assigned handle, or InvalidHandle when unregistered.
func (b *BaseWidget) Handle() Handle {
	if !b.assigned {
		return InvalidHandle
	}
	return b.handle
}

// SetHandle assigns h. A second assignment while registered is ignored.
func (b *BaseWidget) SetHandle(h Handle) {
	if b.assigned || !h.Valid() {
		return
	}
	b.handle = h
	b.assigned = true
	b.released = false
}

// SetManager sets the manager back-reference.
func (b *BaseWidget) SetManager(m WidgetManager) {
	b.manager = m
}

// Manager returns the manager back-reference, which may be nil.
func (b *BaseWidget) Manager() WidgetManager {
	return b.manager
}

// SetSurface replaces the bound surface.
func (b *BaseWidget) SetSurface(s *Surface) {
	b.surface = s
}

// Surface returns the bound surface, or nil. Callers should Check it before
// drawing; a rebind invalidates earlier references.
func (b *BaseWidget) Surface() *Surface {
	return b.surface
}

// Released reports whether ReleaseWidget has run since the last registration.
func (b *BaseWidget) Released() bool {
	return b.released
}

// ReleaseWidget drops the handle and surface. Panels that own more state
// override it and call this at the end.
func (b *BaseWidget) ReleaseWidget() {
	b.surface = nil
	b.handle = InvalidHandle
	b.assigned = false
	b.released = true
}

// RequestFocus asks the manager to focus this widget. No-op when
// unregistered or detached.
func (b *BaseWidget) RequestFocus() {
	if b.manager != nil && b.assigned {
		b.manager.RequestFocus(b.handle)
	}
}

// Dismiss asks the manager to release this widget.
func (b *BaseWidget) Dismiss() {
	if b.manager != nil && b.assigned {
		b.manager.Dismiss(b.handle)
	}
}
