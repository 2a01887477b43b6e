package vrwidget

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func checkHandleSets(t *testing.T, m *Manager) {
	t.Helper()
	reg := m.Registry().Handles()
	for _, h := range m.Surfaces().Handles() {
		if !slices.Contains(reg, h) {
			t.Errorf("surface for unregistered %v", h)
		}
	}
	for _, h := range m.Index().Handles() {
		if !slices.Contains(reg, h) {
			t.Errorf("placement for unregistered %v", h)
		}
	}
}

func addAt(t *testing.T, m *Manager, w Widget, x float64) Handle {
	t.Helper()
	h, err := m.AddWidget(w, PlacementSpec{
		Parent:      InvalidHandle,
		Width:       80,
		Height:      80,
		Translation: mgl64.Vec3{x, 0, -200},
		Anchor:      Vec2{X: 0.5, Y: 0.5},
	})
	if err != nil {
		t.Fatalf("AddWidget: %v", err)
	}
	return h
}

func TestManagerAddWidget(t *testing.T) {
	m := quietManager()
	m.Surfaces().SetAllocator(&fakeAllocator{})
	w := newTestWidget(KindBrowser)
	h := addAt(t, m, w, 0)

	s, ok := m.Surfaces().Surface(h)
	if !ok || s.Width() != 80 || s.Height() != 80 {
		t.Errorf("surface = %v, %v", s, ok)
	}
	if w.Surface() != s {
		t.Error("widget does not hold its surface")
	}
	p, ok := m.Index().Placement(h)
	if !ok {
		t.Fatal("not placed")
	}
	if !p.Position.ApproxEqual(mgl64.Vec3{0, 0, -5}) || p.Width != 2 {
		t.Errorf("placement = %+v", p)
	}
	if w.Manager() != WidgetManager(m) {
		t.Error("manager back-reference not set")
	}
}

func TestManagerAddWidgetFailures(t *testing.T) {
	m := quietManager()
	alloc := &fakeAllocator{fail: true}
	m.Surfaces().SetAllocator(alloc)

	w := newTestWidget(KindDynamic)
	if _, err := m.AddWidget(w, PlacementSpec{Parent: InvalidHandle, Width: 10, Height: 10}); !errors.Is(err, ErrSurfaceBind) {
		t.Fatalf("err = %v, want ErrSurfaceBind", err)
	}
	if m.Registry().Len() != 0 || w.Handle().Valid() {
		t.Error("failed AddWidget left the widget registered")
	}

	alloc.fail = false
	_, err := m.AddWidget(newTestWidget(KindDynamic), PlacementSpec{Parent: 40, Width: 10, Height: 10})
	if !errors.Is(err, ErrUnknownWidget) {
		t.Errorf("missing parent err = %v", err)
	}
}

func TestManagerHandleSetsStayConsistent(t *testing.T) {
	m := quietManager()
	m.Surfaces().SetAllocator(&fakeAllocator{})

	var live []Handle
	for i := 0; i < 20; i++ {
		switch {
		case i%3 == 2 && len(live) > 0:
			m.Release(live[0])
			live = live[1:]
		default:
			kind := KindDynamic
			if i == 4 {
				kind = KindURLBar
			}
			live = append(live, addAt(t, m, newTestWidget(kind), float64(i)))
		}
		checkHandleSets(t, m)
		if got, want := m.Registry().Len(), len(live); got != want {
			t.Fatalf("step %d: Len() = %d, want %d", i, got, want)
		}
		if m.Surfaces().Len() != len(live) || m.Index().Len() != len(live) {
			t.Fatalf("step %d: surfaces %d index %d registry %d",
				i, m.Surfaces().Len(), m.Index().Len(), len(live))
		}
	}
	m.Close()
	if m.Registry().Len() != 0 || m.Surfaces().Len() != 0 || m.Index().Len() != 0 {
		t.Error("Close left widgets behind")
	}
}

func TestManagerReleaseRemovesFromAllComponents(t *testing.T) {
	m := quietManager()
	m.Surfaces().SetAllocator(&fakeAllocator{})
	w := newTestWidget(KindDynamic)
	h := addAt(t, m, w, 0)
	s := w.Surface()

	m.Enqueue(Sample{Ray: forward(0, 0, -1), Down: true})
	m.Update(0)
	if st, _ := m.Router().State(0); st.Phase != PhasePressing {
		t.Fatalf("phase = %v, want pressing", st.Phase)
	}

	m.Release(h)
	if _, ok := m.Lookup(h); ok {
		t.Error("Lookup succeeded")
	}
	if s.Check() == nil {
		t.Error("surface still valid")
	}
	if _, ok := m.Index().Placement(h); ok {
		t.Error("still placed")
	}
	if st, _ := m.Router().State(0); st.Phase != PhaseIdle {
		t.Errorf("phase = %v, want idle", st.Phase)
	}

	before := len(w.events)
	m.Enqueue(Sample{Ray: forward(0, 0, -1), Down: true})
	m.Enqueue(Sample{Ray: forward(0, 0, -1)})
	m.Update(0)
	if len(w.events) != before {
		t.Errorf("released widget got %v", w.types()[before:])
	}
	if items := m.DrawList(mgl64.Vec3{}); len(items) != 0 {
		t.Errorf("DrawList = %v", items)
	}
}

func TestManagerDismissIsDeferred(t *testing.T) {
	m := quietManager()
	m.Surfaces().SetAllocator(&fakeAllocator{})
	w := newTestWidget(KindMoreMenu)
	h := addAt(t, m, w, 0)

	stillLive := false
	w.onTouch = func(e Event) {
		if e.Type == EventTouchUp {
			w.Dismiss()
			_, stillLive = m.Lookup(h)
		}
	}
	m.Enqueue(Sample{Ray: forward(0, 0, -1), Down: true})
	m.Enqueue(Sample{Ray: forward(0, 0, -1)})
	m.Update(0)

	if !stillLive {
		t.Error("Dismiss released before the frame ended")
	}
	if _, ok := m.Lookup(h); ok {
		t.Error("widget live after Update")
	}
	if w.releases != 1 {
		t.Errorf("releases = %d, want 1", w.releases)
	}
}

func TestManagerFocusAndDelegate(t *testing.T) {
	m := quietManager()
	m.Surfaces().SetAllocator(&fakeAllocator{})
	d := &recordingDelegate{}
	m.SetDelegate(d)

	a := newTestWidget(KindBrowser)
	b := newTestWidget(KindDynamic)
	ha := addAt(t, m, a, -100)
	hb := addAt(t, m, b, 100)

	a.RequestFocus()
	m.RequestFocus(ha)
	m.RequestFocus(42)
	if m.Focused() != ha {
		t.Errorf("Focused() = %v, want %v", m.Focused(), ha)
	}
	b.RequestFocus()
	m.Release(hb)
	if m.Focused() != InvalidHandle {
		t.Errorf("Focused() = %v after release, want invalid", m.Focused())
	}

	want := []string{
		"register #0(browser)",
		"register #3",
		"focus #invalid -> #0(browser)",
		"focus #0(browser) -> #3",
		"focus #3 -> #invalid",
		"release #3",
	}
	if strings.Join(d.calls, "\n") != strings.Join(want, "\n") {
		t.Errorf("delegate calls:\n%s\nwant:\n%s", strings.Join(d.calls, "\n"), strings.Join(want, "\n"))
	}
}

func TestManagerDuplicateRegistration(t *testing.T) {
	m := quietManager()
	w := newTestWidget(KindDynamic)
	m.Register(w)
	if _, err := m.Register(w); !errors.Is(err, ErrDuplicateRegistration) {
		t.Errorf("err = %v", err)
	}

	m.SetDebugMode(true)
	defer func() {
		if recover() == nil {
			t.Error("debug mode did not panic on duplicate registration")
		}
	}()
	m.Register(w)
}

func TestManagerPostAndEnqueueFromGoroutines(t *testing.T) {
	m := quietManager()
	m.Surfaces().SetAllocator(&fakeAllocator{})
	w := newTestWidget(KindDynamic)
	addAt(t, m, w, 0)

	var wg sync.WaitGroup
	ran := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Post(func(*Manager) { ran++ })
			m.Enqueue(Sample{Source: 1, Ray: forward(0, 0, -1)})
		}()
	}
	wg.Wait()
	m.Update(0)

	if ran != 10 {
		t.Errorf("ran = %d, want 10", ran)
	}
	if n := w.count(EventHoverEnter); n != 1 {
		t.Errorf("hover-enter = %d, want 1", n)
	}
}

func TestManagerPostRunsBeforeInput(t *testing.T) {
	m := quietManager()
	m.Surfaces().SetAllocator(&fakeAllocator{})
	w := newTestWidget(KindDynamic)
	h := addAt(t, m, w, 0)
	m.SetVisible(h, false)

	m.Enqueue(Sample{Ray: forward(0, 0, -1)})
	m.Post(func(m *Manager) { m.SetVisible(h, true) })
	m.Update(0)
	if w.count(EventHoverEnter) != 1 {
		t.Error("posted command did not run before routing")
	}
}

func TestManagerPostedReleaseAppliesBeforeInput(t *testing.T) {
	m := quietManager()
	m.Surfaces().SetAllocator(&fakeAllocator{})
	w := newTestWidget(KindDynamic)
	h := addAt(t, m, w, 0)

	var seen []Handle
	m.Post(func(m *Manager) {
		m.Release(h)
		if _, ok := m.Lookup(h); ok {
			t.Error("Lookup succeeds right after a posted Release")
		}
	})
	m.Enqueue(Sample{Ray: forward(0, 0, -1), Down: true})
	m.Router().OnEvent(func(e Event) { seen = append(seen, e.Handle) })
	m.Update(0)

	if len(w.events) != 0 {
		t.Errorf("released widget got %v", w.types())
	}
	if len(seen) != 0 {
		t.Errorf("observers saw %v", seen)
	}
	if w.releases != 1 {
		t.Errorf("releases = %d, want 1", w.releases)
	}
}

func TestManagerUpdatersAndFrames(t *testing.T) {
	m := quietManager()
	u := &updateWidget{testWidget: *newTestWidget(KindDynamic)}
	m.Register(u)
	for i := 0; i < 3; i++ {
		m.Update(1.0 / 60)
	}
	if u.updates != 3 {
		t.Errorf("updates = %d, want 3", u.updates)
	}
	if m.Frame() != 3 {
		t.Errorf("Frame() = %d, want 3", m.Frame())
	}
}

func TestManagerSampleFrameStamp(t *testing.T) {
	m := quietManager()
	m.Surfaces().SetAllocator(&fakeAllocator{})
	w := newTestWidget(KindDynamic)
	addAt(t, m, w, 0)
	m.Update(0)
	m.Update(0)
	m.Enqueue(Sample{Ray: forward(0, 0, -1)})
	m.Update(0)
	if len(w.events) != 1 || w.events[0].Frame != 2 {
		t.Errorf("events = %v, want one at frame 2", w.events)
	}
}

func TestManagerDrawListOrder(t *testing.T) {
	m := quietManager()
	m.Surfaces().SetAllocator(&fakeAllocator{})
	near := newTestWidget(KindDynamic)
	far := newTestWidget(KindDynamic)
	hidden := newTestWidget(KindDynamic)
	unbound := newTestWidget(KindDynamic)

	hn, _ := m.Register(near)
	hf, _ := m.Register(far)
	hh, _ := m.Register(hidden)
	hu, _ := m.Register(unbound)
	for _, h := range []Handle{hn, hf, hh} {
		m.Bind(h, 16, 16)
	}
	m.Place(hn, NewPlacement(mgl64.Vec3{0, 0, -2}, 1, 1))
	m.Place(hf, NewPlacement(mgl64.Vec3{0, 0, -9}, 1, 1))
	m.Place(hh, NewPlacement(mgl64.Vec3{0, 0, -5}, 1, 1))
	m.Place(hu, NewPlacement(mgl64.Vec3{0, 0, -4}, 1, 1))
	m.SetVisible(hh, false)

	items := m.DrawList(mgl64.Vec3{})
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].Handle != hf || items[1].Handle != hn {
		t.Errorf("order = %v, %v, want far then near", items[0].Handle, items[1].Handle)
	}
	if items[0].Distance != 9 {
		t.Errorf("Distance = %v, want 9", items[0].Distance)
	}
}

func TestManagerAsyncSurfaces(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Surfaces.Async = true
	m := NewManager(cfg)
	m.SetLogOutput(nil)
	alloc := &fakeAllocator{}
	m.Surfaces().SetAllocator(alloc)

	h, _ := m.Register(newTestWidget(KindDynamic))
	if _, err := m.Bind(h, 8, 8); err != nil {
		t.Fatal(err)
	}
	m.Close()
	if alloc.allocated != 1 || alloc.freed != 1 {
		t.Errorf("allocated %d freed %d", alloc.allocated, alloc.freed)
	}
	m.Close()
}

func TestNewManagerPanicsOnInvalidConfig(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewManager did not panic")
		}
	}()
	cfg := DefaultConfig()
	cfg.Layout.DisplayDensity = 0
	NewManager(cfg)
}

func TestManagerDebugLog(t *testing.T) {
	var buf strings.Builder
	m := NewManager(DefaultConfig())
	m.SetLogOutput(&buf)
	m.SetDebugMode(true)
	m.Surfaces().SetAllocator(&fakeAllocator{})
	addAt(t, m, newTestWidget(KindDynamic), 0)

	m.Enqueue(Sample{Ray: forward(0, 0, -1)})
	m.Update(0)
	m.Update(0)
	out := buf.String()
	if !strings.Contains(out, "[vrwidget] frame 0: commands: 0 | samples: 1 | events: 1") {
		t.Errorf("log = %q", out)
	}
	if strings.Contains(out, "frame 1:") {
		t.Error("idle frame was logged")
	}
}
