package vrwidget

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// testWidget records every event it receives.
type testWidget struct {
	BaseWidget
	events   []Event
	releases int

	onTouch func(Event)
	onHover func(Event)
}

func newTestWidget(kind Kind) *testWidget {
	return &testWidget{BaseWidget: NewBaseWidget(kind, nil)}
}

func (w *testWidget) HandleTouch(e Event) {
	w.events = append(w.events, e)
	if w.onTouch != nil {
		w.onTouch(e)
	}
}

func (w *testWidget) HandleHover(e Event) {
	w.events = append(w.events, e)
	if w.onHover != nil {
		w.onHover(e)
	}
}

func (w *testWidget) ReleaseWidget() {
	w.releases++
	w.BaseWidget.ReleaseWidget()
}

func (w *testWidget) types() []EventType {
	out := make([]EventType, len(w.events))
	for i, e := range w.events {
		out[i] = e.Type
	}
	return out
}

func (w *testWidget) count(t EventType) int {
	n := 0
	for _, e := range w.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

// scrollWidget also implements Scroller.
type scrollWidget struct {
	testWidget
}

func (w *scrollWidget) HandleScroll(e Event) {
	w.events = append(w.events, e)
}

// updateWidget counts Update calls.
type updateWidget struct {
	testWidget
	updates int
}

func (w *updateWidget) Update(dt float64) {
	w.updates++
}

// fakeAllocator hands out small real textures and can be told to fail.
type fakeAllocator struct {
	fail      bool
	allocated int
	freed     int
}

func (a *fakeAllocator) Allocate(width, height int) (*ebiten.Image, error) {
	if a.fail {
		return nil, errFakeAlloc
	}
	a.allocated++
	return ebiten.NewImage(1, 1), nil
}

func (a *fakeAllocator) Free(img *ebiten.Image) {
	a.freed++
}

var errFakeAlloc = errors.New("out of texture memory")

// recordingDelegate records delegate callbacks as strings.
type recordingDelegate struct {
	calls []string
}

func (d *recordingDelegate) WidgetRegistered(h Handle, w Widget) {
	d.calls = append(d.calls, "register "+h.String())
}

func (d *recordingDelegate) WidgetReleased(h Handle) {
	d.calls = append(d.calls, "release "+h.String())
}

func (d *recordingDelegate) FocusChanged(prev, next Handle) {
	d.calls = append(d.calls, "focus "+prev.String()+" -> "+next.String())
}

// forward returns a ray from the origin toward (x, y, z).
func forward(x, y, z float64) Ray {
	return NewRay(mgl64.Vec3{}, mgl64.Vec3{x, y, z})
}

// away is a ray that hits nothing placed in front of the origin.
var away = NewRay(mgl64.Vec3{}, mgl64.Vec3{0, 0, 1})

func quietManager() *Manager {
	m := NewManager(DefaultConfig())
	m.SetLogOutput(nil)
	return m
}

func typesEqual(a, b []EventType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
