package vrwidget

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

type routerRig struct {
	reg    *Registry
	index  *SpatialIndex
	router *Router
	log    bytes.Buffer
}

func newRouterRig() *routerRig {
	rr := &routerRig{}
	rr.reg = NewRegistry()
	rr.reg.log.out = &rr.log
	rr.index = NewSpatialIndex(rr.reg, nil)
	rr.router = NewRouter(rr.reg, rr.index)
	return rr
}

// add registers w and places a 2x2 quad centered at (x, 0, z).
func (rr *routerRig) add(w Widget, x, z float64) Handle {
	h, err := rr.reg.Register(w)
	if err != nil {
		panic(err)
	}
	rr.index.Update(h, NewPlacement(mgl64.Vec3{x, 0, z}, 2, 2))
	return h
}

func (rr *routerRig) send(src int, r Ray, down bool) {
	rr.router.Process(Sample{Source: src, Ray: r, Down: down})
}

func (rr *routerRig) phase(src int) PointerPhase {
	st, _ := rr.router.State(src)
	return st.Phase
}

func TestRouterFullGesture(t *testing.T) {
	rr := newRouterRig()
	w := newTestWidget(KindDynamic)
	h := rr.add(w, 0, -5)

	const moves = 4
	rr.send(0, forward(0, 0, -5), false)
	rr.send(0, forward(0, 0, -5), true)
	for i := 1; i <= moves; i++ {
		rr.send(0, forward(0.1*float64(i), 0, -5), true)
	}
	rr.send(0, forward(0.5, 0, -5), false)

	want := []EventType{EventHoverEnter, EventTouchDown}
	for i := 0; i < moves; i++ {
		want = append(want, EventTouchMove)
	}
	want = append(want, EventTouchUp)
	if got := w.types(); !typesEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	for _, e := range w.events {
		if e.Handle != h {
			t.Errorf("event %v has handle %v", e.Type, e.Handle)
		}
	}
	st, _ := rr.router.State(0)
	if st.Phase != PhaseHovering || st.Hovered != h || st.Captured != InvalidHandle {
		t.Errorf("state after release = %+v", st)
	}
}

func TestRouterPressWithoutPriorHover(t *testing.T) {
	rr := newRouterRig()
	w := newTestWidget(KindDynamic)
	rr.add(w, 0, -5)

	rr.send(0, forward(0, 0, -5), true)
	want := []EventType{EventHoverEnter, EventTouchDown}
	if got := w.types(); !typesEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	if rr.phase(0) != PhasePressing {
		t.Errorf("phase = %v, want pressing", rr.phase(0))
	}
}

func TestRouterExitBeforeEnter(t *testing.T) {
	rr := newRouterRig()
	var order []string
	a := newTestWidget(KindDynamic)
	b := newTestWidget(KindDynamic)
	a.onHover = func(e Event) { order = append(order, "a "+e.Type.String()) }
	b.onHover = func(e Event) { order = append(order, "b "+e.Type.String()) }
	rr.add(a, -2, -5)
	rr.add(b, 2, -5)

	rr.send(0, forward(-2, 0, -5), false)
	rr.send(0, forward(2, 0, -5), false)

	want := []string{"a hover-enter", "a hover-exit", "b hover-enter"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestRouterHoverMoveOnlyOnChange(t *testing.T) {
	rr := newRouterRig()
	w := newTestWidget(KindDynamic)
	rr.add(w, 0, -5)

	rr.send(0, forward(0, 0, -5), false)
	rr.send(0, forward(0, 0, -5), false)
	rr.send(0, forward(0.2, 0, -5), false)

	want := []EventType{EventHoverEnter, EventHoverMove}
	if got := w.types(); !typesEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestRouterPressStartedOffWidget(t *testing.T) {
	rr := newRouterRig()
	w := newTestWidget(KindDynamic)
	rr.add(w, 0, -5)

	rr.send(0, away, true)
	rr.send(0, forward(0, 0, -5), true)
	rr.send(0, forward(0, 0, -5), false)

	if n := w.count(EventTouchDown); n != 0 {
		t.Errorf("touch-down count = %d, want 0", n)
	}
	if n := w.count(EventHoverEnter); n != 1 {
		t.Errorf("hover-enter count = %d, want 1", n)
	}
}

func TestRouterCaptureAcrossWidgets(t *testing.T) {
	rr := newRouterRig()
	a := newTestWidget(KindDynamic)
	b := newTestWidget(KindDynamic)
	ha := rr.add(a, -2, -5)
	rr.add(b, 2, -5)

	rr.send(0, forward(-2, 0, -5), true)
	rr.send(0, forward(2, 0, -5), true)

	if len(b.events) != 0 {
		t.Errorf("b received %v during a's capture", b.types())
	}
	last := a.events[len(a.events)-1]
	if last.Type != EventTouchMove || last.Handle != ha {
		t.Fatalf("last event = %v", last)
	}
	// Projected onto a's plane, 4 units to the right of its center.
	if last.X < 2.49 || last.X > 2.51 {
		t.Errorf("projected U = %v, want 2.5", last.X)
	}

	rr.send(0, forward(2, 0, -5), false)
	want := []EventType{EventHoverEnter, EventTouchDown, EventTouchMove, EventTouchUp, EventHoverExit}
	if got := a.types(); !typesEqual(got, want) {
		t.Errorf("a events = %v, want %v", got, want)
	}
	if got := b.types(); !typesEqual(got, []EventType{EventHoverEnter}) {
		t.Errorf("b events = %v, want [hover-enter]", got)
	}
}

func TestRouterReleaseOverNothing(t *testing.T) {
	rr := newRouterRig()
	w := newTestWidget(KindDynamic)
	rr.add(w, 0, -5)

	rr.send(0, forward(0, 0, -5), true)
	rr.send(0, forward(3, 0, -5), true)
	rr.send(0, forward(3, 0, -5), false)

	want := []EventType{EventHoverEnter, EventTouchDown, EventTouchMove, EventTouchUp, EventHoverExit}
	if got := w.types(); !typesEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	if rr.phase(0) != PhaseIdle {
		t.Errorf("phase = %v, want idle", rr.phase(0))
	}
}

func TestRouterReleaseToHoverDisabled(t *testing.T) {
	rr := newRouterRig()
	rr.router.SetReleaseToHover(false)
	w := newTestWidget(KindDynamic)
	rr.add(w, 0, -5)

	rr.send(0, forward(0, 0, -5), true)
	rr.send(0, forward(0, 0, -5), false)
	want := []EventType{EventHoverEnter, EventTouchDown, EventTouchUp, EventHoverExit}
	if got := w.types(); !typesEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	if rr.phase(0) != PhaseIdle {
		t.Errorf("phase = %v, want idle", rr.phase(0))
	}

	// The next sample re-enters.
	rr.send(0, forward(0, 0, -5), false)
	if w.events[len(w.events)-1].Type != EventHoverEnter {
		t.Errorf("last event = %v, want hover-enter", w.events[len(w.events)-1])
	}
}

func TestRouterCaptureReleasedMidGesture(t *testing.T) {
	rr := newRouterRig()
	w := newTestWidget(KindDynamic)
	h := rr.add(w, 0, -5)

	rr.send(0, forward(0, 0, -5), true)
	rr.send(0, forward(0.1, 0, -5), true)
	before := len(w.events)

	rr.reg.Release(h)
	rr.send(0, forward(0.2, 0, -5), true)
	rr.send(0, forward(0.2, 0, -5), false)

	if len(w.events) != before {
		t.Errorf("released widget got %v", w.types()[before:])
	}
	if rr.phase(0) != PhaseIdle {
		t.Errorf("phase = %v, want idle", rr.phase(0))
	}
	if !strings.Contains(rr.log.String(), ErrStaleCapture.Error()) {
		t.Errorf("log = %q, want stale capture warning", rr.log.String())
	}
}

func TestRouterReleaseInsideTouchDown(t *testing.T) {
	rr := newRouterRig()
	rr.reg.OnRelease(rr.router.Forget)
	w := newTestWidget(KindDynamic)
	h := rr.add(w, 0, -5)
	w.onTouch = func(e Event) {
		if e.Type == EventTouchDown {
			rr.reg.Release(h)
		}
	}

	rr.send(0, forward(0, 0, -5), true)
	rr.send(0, forward(0, 0, -5), true)
	rr.send(0, forward(0, 0, -5), false)

	want := []EventType{EventHoverEnter, EventTouchDown}
	if got := w.types(); !typesEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	if rr.phase(0) != PhaseIdle {
		t.Errorf("phase = %v, want idle", rr.phase(0))
	}
	if rr.log.Len() != 0 {
		t.Errorf("unexpected log output %q", rr.log.String())
	}
}

func TestRouterReleaseInsideHoverEnter(t *testing.T) {
	rr := newRouterRig()
	rr.reg.OnRelease(rr.router.Forget)
	w := newTestWidget(KindDynamic)
	h := rr.add(w, 0, -5)
	w.onHover = func(e Event) {
		if e.Type == EventHoverEnter {
			rr.reg.Release(h)
		}
	}

	rr.send(0, forward(0, 0, -5), true)
	want := []EventType{EventHoverEnter}
	if got := w.types(); !typesEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	if rr.phase(0) != PhaseIdle {
		t.Errorf("phase = %v, want idle", rr.phase(0))
	}
}

func TestRouterHiddenCaptureCancels(t *testing.T) {
	rr := newRouterRig()
	w := newTestWidget(KindDynamic)
	h := rr.add(w, 0, -5)

	rr.send(0, forward(0, 0, -5), true)
	rr.index.SetVisible(h, false)
	rr.send(0, forward(0, 0, -5), true)
	rr.send(0, forward(0, 0, -5), false)

	want := []EventType{EventHoverEnter, EventTouchDown, EventTouchCancel, EventHoverExit}
	if got := w.types(); !typesEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestRouterIndependentSources(t *testing.T) {
	rr := newRouterRig()
	a := newTestWidget(KindDynamic)
	b := newTestWidget(KindDynamic)
	ha := rr.add(a, -2, -5)
	hb := rr.add(b, 2, -5)

	rr.send(0, forward(-2, 0, -5), true)
	rr.send(1, forward(2, 0, -5), true)
	rr.send(0, forward(-2, 0, -5), false)

	s0, _ := rr.router.State(0)
	s1, _ := rr.router.State(1)
	if s0.Phase != PhaseHovering || s0.Hovered != ha {
		t.Errorf("source 0 = %+v", s0)
	}
	if s1.Phase != PhasePressing || s1.Captured != hb {
		t.Errorf("source 1 = %+v", s1)
	}
	for _, e := range b.events {
		if e.Source != 1 {
			t.Errorf("b got event from source %d", e.Source)
		}
	}
	if got := rr.router.Sources(); len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("Sources() = %v", got)
	}
}

func TestRouterScroll(t *testing.T) {
	rr := newRouterRig()
	rr.router.SetScrollFactor(10)
	sw := &scrollWidget{testWidget: *newTestWidget(KindDynamic)}
	plain := newTestWidget(KindDynamic)
	rr.add(sw, -2, -5)
	rr.add(plain, 2, -5)

	rr.router.Process(Sample{Ray: forward(-2, 0, -5), ScrollY: -1.5})
	last := sw.events[len(sw.events)-1]
	if last.Type != EventScroll || last.ScrollY != -15 {
		t.Errorf("last event = %+v, want scroll -15", last)
	}

	rr.router.Process(Sample{Ray: forward(2, 0, -5), ScrollY: 1})
	if plain.count(EventScroll) != 0 {
		t.Error("non-scroller received scroll")
	}

	before := len(sw.events)
	rr.router.Process(Sample{Ray: away, ScrollX: 3})
	if got := len(sw.events); got != before {
		t.Errorf("scroll over nothing delivered %d events", got-before)
	}
}

func TestRouterDropSource(t *testing.T) {
	rr := newRouterRig()
	w := newTestWidget(KindDynamic)
	rr.add(w, 0, -5)

	rr.send(3, forward(0, 0, -5), true)
	rr.router.DropSource(3)
	want := []EventType{EventHoverEnter, EventTouchDown, EventTouchCancel, EventHoverExit}
	if got := w.types(); !typesEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	if _, ok := rr.router.State(3); ok {
		t.Error("State(3) still present")
	}
	rr.router.DropSource(3)
	if len(w.events) != len(want) {
		t.Error("second DropSource dispatched")
	}
}

func TestRouterObserversAndStore(t *testing.T) {
	rr := newRouterRig()
	w := newTestWidget(KindDynamic)
	rr.add(w, 0, -5)

	var seen []EventType
	cb := rr.router.OnEvent(func(e Event) { seen = append(seen, e.Type) })
	store := &sliceStore{}
	rr.router.SetEventStore(store)

	rr.send(0, forward(0, 0, -5), false)
	cb.Remove()
	rr.send(0, away, false)

	if !typesEqual(seen, []EventType{EventHoverEnter}) {
		t.Errorf("observer saw %v", seen)
	}
	if len(store.events) != 2 {
		t.Errorf("store got %d events, want 2", len(store.events))
	}
	if n := rr.router.takeDispatched(); n != 2 {
		t.Errorf("takeDispatched() = %d, want 2", n)
	}
}

type sliceStore struct {
	events []Event
}

func (s *sliceStore) EmitEvent(e Event) {
	s.events = append(s.events, e)
}

func TestRouterObserverRemovesItself(t *testing.T) {
	rr := newRouterRig()
	w := newTestWidget(KindDynamic)
	rr.add(w, 0, -5)

	var once, before, after int
	rr.router.OnEvent(func(Event) { before++ })
	var sub CallbackHandle
	sub = rr.router.OnEvent(func(Event) {
		once++
		sub.Remove()
	})
	rr.router.OnEvent(func(Event) { after++ })

	rr.send(0, forward(0, 0, -5), true)

	if once != 1 {
		t.Errorf("one-shot observer ran %d times, want 1", once)
	}
	if before != 2 || after != 2 {
		t.Errorf("other observers ran %d and %d times, want 2 and 2", before, after)
	}
	if got := w.types(); !typesEqual(got, []EventType{EventHoverEnter, EventTouchDown}) {
		t.Errorf("events = %v", got)
	}
}

func TestRouterRemoveEarlierObserverDuringDispatch(t *testing.T) {
	rr := newRouterRig()
	w := newTestWidget(KindDynamic)
	rr.add(w, 0, -5)

	var first, second int
	a := rr.router.OnEvent(func(Event) { first++ })
	rr.router.OnEvent(func(Event) {
		second++
		a.Remove()
	})

	rr.send(0, forward(0, 0, -5), false)
	rr.send(0, forward(0.1, 0, -5), false)

	if first != 1 || second != 2 {
		t.Errorf("calls = %d, %d, want 1, 2", first, second)
	}
}

func TestEventTypeClasses(t *testing.T) {
	for _, tt := range []struct {
		t            EventType
		hover, touch bool
	}{
		{EventHoverEnter, true, false},
		{EventHoverExit, true, false},
		{EventTouchDown, false, true},
		{EventTouchCancel, false, true},
		{EventScroll, false, false},
	} {
		if tt.t.IsHover() != tt.hover || tt.t.IsTouch() != tt.touch {
			t.Errorf("%v: IsHover %v IsTouch %v", tt.t, tt.t.IsHover(), tt.t.IsTouch())
		}
	}
	if got := EventType(99).String(); got != "EventType(99)" {
		t.Errorf("String() = %q", got)
	}
	if !errors.Is(ErrStaleCapture, ErrStaleCapture) {
		t.Error("sentinel mismatch")
	}
}
