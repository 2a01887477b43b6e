package vrwidget

import (
	"slices"
)

const defaultScrollFactor = 20.0

// PointerPhase is the router state of one pointer source.
type PointerPhase uint8

const (
	PhaseIdle     PointerPhase = iota // not pointing at any widget
	PhaseHovering                     // pointing at a widget, no press
	PhasePressing                     // press captured by a widget
)

func (p PointerPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseHovering:
		return "hovering"
	case PhasePressing:
		return "pressing"
	}
	return "unknown"
}

// Sample is one frame of input from one pointer source: a controller ray or
// a touch, the button state and an optional scroll delta.
type Sample struct {
	Source int
	Ray    Ray
	Down   bool
	Frame  uint64

	ScrollX, ScrollY float64
}

// PointerState is a snapshot of one source's routing state.
type PointerState struct {
	Phase    PointerPhase
	Hovered  Handle
	Captured Handle
	Last     Vec2
}

type pointerState struct {
	phase    PointerPhase
	hovered  Handle // also set while pressing: the capture target stays hovered
	captured Handle
	wasDown  bool
	last     Vec2
}

func (ps *pointerState) reset() {
	ps.phase = PhaseIdle
	ps.hovered = InvalidHandle
	ps.captured = InvalidHandle
}

type eventHandler struct {
	id uint32
	fn func(Event)
}

// CallbackHandle allows removing a registered event observer.
type CallbackHandle struct {
	id     uint32
	router *Router
}

// Remove unregisters the observer so it no longer fires. It is safe to call
// from inside an observer; the event being dispatched still reaches the
// observers that were registered when it started.
func (h CallbackHandle) Remove() {
	if h.router == nil {
		return
	}
	old := h.router.handlers
	i := slices.IndexFunc(old, func(e eventHandler) bool { return e.id == h.id })
	if i < 0 {
		return
	}
	// Copy on write: dispatch may be ranging over old.
	next := make([]eventHandler, 0, len(old)-1)
	next = append(next, old[:i]...)
	h.router.handlers = append(next, old[i+1:]...)
}

// Router turns per-frame pointer samples into hover and touch events for
// the widget each source addresses. Every source has its own state machine
// (Idle, Hovering, Pressing). A press captures the widget under the ray;
// until release, every event of that source goes to the captured widget.
type Router struct {
	reg   *Registry
	index *SpatialIndex

	pointers map[int]*pointerState
	handlers []eventHandler
	nextID   uint32
	store    EventStore

	scrollFactor   float64
	releaseToHover bool
	dispatched     int

	log *logger
}

// NewRouter creates a router resolving rays with index and widgets with reg.
func NewRouter(reg *Registry, index *SpatialIndex) *Router {
	return &Router{
		reg:            reg,
		index:          index,
		pointers:       make(map[int]*pointerState),
		scrollFactor:   defaultScrollFactor,
		releaseToHover: true,
		log:            reg.log,
	}
}

// SetScrollFactor sets the multiplier applied to sample scroll deltas.
func (r *Router) SetScrollFactor(f float64) {
	r.scrollFactor = f
}

// SetReleaseToHover selects what happens on touch-up. When true (the
// default) the source goes straight back to hovering whatever the release
// ray hits; when false it returns to Idle and re-enters on the next sample.
func (r *Router) SetReleaseToHover(enabled bool) {
	r.releaseToHover = enabled
}

// SetEventStore sets the optional ECS bridge.
func (r *Router) SetEventStore(store EventStore) {
	r.store = store
}

// OnEvent registers an observer called for every dispatched event, before
// the widget's own handler.
func (r *Router) OnEvent(fn func(Event)) CallbackHandle {
	r.nextID++
	r.handlers = append(r.handlers, eventHandler{id: r.nextID, fn: fn})
	return CallbackHandle{id: r.nextID, router: r}
}

// State returns the routing state of source.
func (r *Router) State(source int) (PointerState, bool) {
	ps, ok := r.pointers[source]
	if !ok {
		return PointerState{Phase: PhaseIdle, Hovered: InvalidHandle, Captured: InvalidHandle}, false
	}
	return PointerState{Phase: ps.phase, Hovered: ps.hovered, Captured: ps.captured, Last: ps.last}, true
}

// Sources returns the known pointer sources, ascending.
func (r *Router) Sources() []int {
	out := make([]int, 0, len(r.pointers))
	for id := range r.pointers {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (r *Router) pointer(source int) *pointerState {
	ps, ok := r.pointers[source]
	if !ok {
		ps = &pointerState{}
		ps.reset()
		r.pointers[source] = ps
	}
	return ps
}

// Process runs the state machine of s.Source for one sample.
func (r *Router) Process(s Sample) {
	ps := r.pointer(s.Source)
	pressEdge := s.Down && !ps.wasDown
	ps.wasDown = s.Down

	if ps.phase == PhasePressing {
		r.processCaptured(ps, s)
	} else {
		r.processHover(ps, s, pressEdge)
	}
	r.processScroll(ps, s)
}

// processHover handles Idle and Hovering. A touch-down needs a press edge:
// a press that began over empty space never turns into a touch.
func (r *Router) processHover(ps *pointerState, s Sample, pressEdge bool) {
	hit, ok := r.index.HitTest(s.Ray)
	target := InvalidHandle
	if ok {
		target = hit.Handle
	}

	if ps.phase == PhaseHovering && ps.hovered != target {
		prev := ps.hovered
		ps.reset()
		r.dispatch(Event{Type: EventHoverExit, Handle: prev, Source: s.Source, Frame: s.Frame, X: ps.last.X, Y: ps.last.Y})
	}
	if !ok {
		return
	}

	if ps.phase == PhaseIdle {
		ps.phase = PhaseHovering
		ps.hovered = target
		ps.last = hit.Local
		r.dispatch(Event{Type: EventHoverEnter, Handle: target, Source: s.Source, Frame: s.Frame, X: hit.Local.X, Y: hit.Local.Y})
	} else if hit.Local != ps.last && !pressEdge {
		ps.last = hit.Local
		r.dispatch(Event{Type: EventHoverMove, Handle: target, Source: s.Source, Frame: s.Frame, X: hit.Local.X, Y: hit.Local.Y})
	}

	// The enter handler may have released the widget.
	if !pressEdge || ps.phase != PhaseHovering || ps.hovered != target {
		return
	}
	ps.phase = PhasePressing
	ps.captured = target
	ps.last = hit.Local
	r.dispatch(Event{Type: EventTouchDown, Handle: target, Source: s.Source, Frame: s.Frame, X: hit.Local.X, Y: hit.Local.Y})
}

// processCaptured handles Pressing: every event goes to the capture target,
// with coordinates projected onto its plane.
func (r *Router) processCaptured(ps *pointerState, s Sample) {
	w := ps.captured
	if !r.reg.Live(w) {
		r.log.warnf("source %d: capture target %s released mid-gesture: %v", s.Source, w, ErrStaleCapture)
		ps.reset()
		return
	}
	if !r.index.Visible(w) {
		ps.reset()
		r.dispatch(Event{Type: EventTouchCancel, Handle: w, Source: s.Source, Frame: s.Frame, X: ps.last.X, Y: ps.last.Y})
		r.dispatch(Event{Type: EventHoverExit, Handle: w, Source: s.Source, Frame: s.Frame, X: ps.last.X, Y: ps.last.Y})
		return
	}

	if proj, ok := r.index.Project(w, s.Ray); ok {
		ps.last = proj.Local
	} else if s.Down {
		// Ray parallel to the plane: no coordinate this frame.
		return
	}

	if s.Down {
		r.dispatch(Event{Type: EventTouchMove, Handle: w, Source: s.Source, Frame: s.Frame, X: ps.last.X, Y: ps.last.Y})
		return
	}

	upAt := ps.last
	ps.phase = PhaseHovering
	ps.captured = InvalidHandle
	r.dispatch(Event{Type: EventTouchUp, Handle: w, Source: s.Source, Frame: s.Frame, X: upAt.X, Y: upAt.Y})
	if ps.phase != PhaseHovering || ps.hovered != w {
		// The up handler released the widget; Forget already reset us.
		return
	}

	if !r.releaseToHover {
		ps.reset()
		r.dispatch(Event{Type: EventHoverExit, Handle: w, Source: s.Source, Frame: s.Frame, X: upAt.X, Y: upAt.Y})
		return
	}

	hit, ok := r.index.HitTest(s.Ray)
	if ok && hit.Handle == w {
		ps.last = hit.Local
		return
	}
	ps.reset()
	r.dispatch(Event{Type: EventHoverExit, Handle: w, Source: s.Source, Frame: s.Frame, X: upAt.X, Y: upAt.Y})
	if ok && r.reg.Live(hit.Handle) {
		ps.phase = PhaseHovering
		ps.hovered = hit.Handle
		ps.last = hit.Local
		r.dispatch(Event{Type: EventHoverEnter, Handle: hit.Handle, Source: s.Source, Frame: s.Frame, X: hit.Local.X, Y: hit.Local.Y})
	}
}

func (r *Router) processScroll(ps *pointerState, s Sample) {
	if s.ScrollX == 0 && s.ScrollY == 0 {
		return
	}
	target := ps.captured
	if ps.phase != PhasePressing {
		target = ps.hovered
	}
	if !target.Valid() {
		return
	}
	w, ok := r.reg.Lookup(target)
	if !ok {
		return
	}
	if _, ok := w.(Scroller); !ok {
		return
	}
	r.dispatch(Event{
		Type: EventScroll, Handle: target, Source: s.Source, Frame: s.Frame,
		X: ps.last.X, Y: ps.last.Y,
		ScrollX: s.ScrollX * r.scrollFactor, ScrollY: s.ScrollY * r.scrollFactor,
	})
}

// DropSource forgets a pointer source, for example a controller that was
// disabled. A captured widget receives touch-cancel and a hovered widget
// receives hover-exit.
func (r *Router) DropSource(source int) {
	ps, ok := r.pointers[source]
	if !ok {
		return
	}
	delete(r.pointers, source)
	switch ps.phase {
	case PhasePressing:
		r.dispatch(Event{Type: EventTouchCancel, Handle: ps.captured, Source: source, X: ps.last.X, Y: ps.last.Y})
		r.dispatch(Event{Type: EventHoverExit, Handle: ps.captured, Source: source, X: ps.last.X, Y: ps.last.Y})
	case PhaseHovering:
		r.dispatch(Event{Type: EventHoverExit, Handle: ps.hovered, Source: source, X: ps.last.X, Y: ps.last.Y})
	}
}

// Forget resets every source that hovers or captures h to Idle without
// dispatching anything. It is installed as a registry release hook, so a
// released widget never receives another event.
func (r *Router) Forget(h Handle) {
	for _, ps := range r.pointers {
		if ps.hovered == h || ps.captured == h {
			ps.reset()
		}
	}
}

// dispatch delivers e to observers, the widget and the ECS bridge. Events for
// handles that are no longer registered are dropped.
func (r *Router) dispatch(e Event) bool {
	w, ok := r.reg.Lookup(e.Handle)
	if !ok {
		return false
	}
	handlers := r.handlers
	for _, h := range handlers {
		h.fn(e)
	}
	switch {
	case e.Type.IsHover():
		w.HandleHover(e)
	case e.Type.IsTouch():
		w.HandleTouch(e)
	case e.Type == EventScroll:
		if sc, ok := w.(Scroller); ok {
			sc.HandleScroll(e)
		}
	}
	if r.store != nil {
		r.store.EmitEvent(e)
	}
	r.dispatched++
	return true
}

// takeDispatched returns and clears the dispatch counter.
func (r *Router) takeDispatched() int {
	n := r.dispatched
	r.dispatched = 0
	return n
}
