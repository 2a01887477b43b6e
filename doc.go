// Package vrwidget is the widget registry and 3D-pointer input router of a
// virtual-reality browser, built on [Ebitengine].
//
// Every on-screen panel (browser view, URL bar, overflow menu, ...) is a
// [Widget]. The [Manager] gives each widget a stable [Handle], an ebiten-backed
// [Surface] to draw into, and a [Placement] in 3D space, and turns controller
// rays into the 2D touch and hover events each widget understands.
//
// # Quick start
//
//	m := vrwidget.NewManager(vrwidget.DefaultConfig())
//	h, err := m.AddWidget(panel, vrwidget.PlacementSpec{
//		Parent: vrwidget.InvalidHandle,
//		Width: 720, Height: 450,
//		Translation: mgl64.Vec3{0, -120, -720},
//	})
//
// Then, once per frame on the frame thread:
//
//	m.Enqueue(vrwidget.Sample{Source: 0, Ray: controllerRay, Down: trigger})
//	m.Update(dt)
//	for _, it := range m.DrawList(eye) {
//		// draw it.Surface.Image() on it.Placement
//	}
//
// # Components
//
// The [Registry] assigns handles. Reserved kinds (browser, URL bar, menu)
// always get their well-known handle; everything else gets a fresh one that is
// never reused. The [SurfaceBinder] owns each widget's drawing surface; a
// rebind at a new size invalidates the old [Surface] reference, which tests can
// detect through [Surface.Check] and [Surface.Generation]. The [SpatialIndex]
// intersects rays with widget quads, nearest hit first, ties going to the most
// recently registered widget. The [Router] runs one Idle/Hovering/Pressing
// state machine per pointer source and captures the pressed widget until the
// press ends.
//
// Releasing a widget removes it from all four components at once, so a
// released handle is never hit, never drawn and never receives another event.
// Freed textures go back to a [PoolAllocator] when Config.Surfaces.PoolSize
// is set, so a menu that is dismissed and reopened reuses its texture.
//
// # Testing
//
// [Manager.InjectClick] and friends queue synthetic samples routed one per
// frame. [LoadScript] reads the same actions from JSON; the vrwidget-replay
// command runs such scripts headless. [Manager.Snapshot] writes a surface to
// a PNG file at the end of the next Update.
//
// # Threading
//
// The registry, index and router belong to the frame thread. Other goroutines
// use [Manager.Enqueue] for input and [Manager.Post] for everything else; both
// are drained at the start of the next [Manager.Update]. With
// Config.Surfaces.Async, texture allocation runs on a [ResourceThread] and
// Bind waits for it.
//
// [Ebitengine]: https://ebitengine.org
package vrwidget
