package vrwidget

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Manager is the top-level object that owns the widget registry, surface
// binding, spatial index and input router, and drives them once per frame.
//
// Everything except Enqueue and Post must be called from the frame thread.
// Other goroutines marshal work onto it with Post; it runs at the start of
// the next Update.
type Manager struct {
	cfg      Config
	registry *Registry
	surfaces *SurfaceBinder
	index    *SpatialIndex
	router   *Router
	delegate Delegate
	focused  Handle

	resources *ResourceThread
	pool      *PoolAllocator
	tweens    []*TweenGroup
	frame     uint64
	updating  bool
	deferred  []Handle

	// Cross-thread queues.
	mu       sync.Mutex
	commands []func(*Manager)
	samples  []Sample

	// Scripted input (see inject.go, script.go).
	injectQueue []Sample
	runner      *ScriptRunner
	snapshots   []snapshotRequest

	log *logger
}

// NewManager creates a manager with the given configuration. It panics if
// cfg does not validate; use ParseConfig or DefaultConfig to build one.
func NewManager(cfg Config) *Manager {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	reg := NewRegistry()
	m := &Manager{
		cfg:      cfg,
		registry: reg,
		focused:  InvalidHandle,
		log:      reg.log,
	}
	m.log.debug = cfg.Debug

	m.surfaces = NewSurfaceBinder(reg)
	m.surfaces.SetLimits(cfg.Surfaces.MaxSize, cfg.Surfaces.PixelBudget)
	if cfg.Surfaces.PoolSize > 0 {
		m.pool = NewPoolAllocator(EbitenAllocator{}, cfg.Surfaces.PoolSize)
		m.surfaces.SetAllocator(m.pool)
	}
	if cfg.Surfaces.Async {
		m.resources = NewResourceThread()
		m.surfaces.SetExecutor(m.resources)
	}

	m.index = NewSpatialIndex(reg, m.surfaces)
	m.index.SetMaxDistance(cfg.MaxRayDistance)

	m.router = NewRouter(reg, m.index)
	m.router.SetScrollFactor(cfg.Input.ScrollFactor)
	m.router.SetReleaseToHover(cfg.Input.ReleaseToHover)

	reg.OnRelease(m.router.Forget)
	reg.OnRelease(m.surfaces.Unbind)
	reg.OnRelease(m.index.Remove)
	reg.OnRelease(m.released)
	return m
}

// Config returns the manager's configuration.
func (m *Manager) Config() Config { return m.cfg }

// Registry returns the widget registry.
func (m *Manager) Registry() *Registry { return m.registry }

// Surfaces returns the surface binder.
func (m *Manager) Surfaces() *SurfaceBinder { return m.surfaces }

// Index returns the spatial index.
func (m *Manager) Index() *SpatialIndex { return m.index }

// Router returns the input router.
func (m *Manager) Router() *Router { return m.router }

// Frame returns the number of completed Update calls.
func (m *Manager) Frame() uint64 { return m.frame }

// SetDelegate sets the receiver of register, release and focus
// notifications.
func (m *Manager) SetDelegate(d Delegate) {
	m.delegate = d
}

// SetEventStore sets the optional ECS bridge on the router.
func (m *Manager) SetEventStore(store EventStore) {
	m.router.SetEventStore(store)
}

// SetDebugMode enables or disables debug mode. When enabled, duplicate
// registration panics and per-frame stats are logged.
func (m *Manager) SetDebugMode(enabled bool) {
	m.cfg.Debug = enabled
	m.log.debug = enabled
}

// SetLogOutput redirects diagnostics. A nil writer silences them.
func (m *Manager) SetLogOutput(w io.Writer) {
	m.log.out = w
}

// Register assigns a handle to w and hands it the manager back-reference.
// In debug mode a duplicate registration panics; otherwise it is logged and
// returned.
func (m *Manager) Register(w Widget) (Handle, error) {
	h, err := m.registry.Register(w)
	if err != nil {
		if m.cfg.Debug && errors.Is(err, ErrDuplicateRegistration) {
			debugCheckDuplicate(w, err)
		}
		m.log.warnf("%v", err)
		return InvalidHandle, err
	}
	w.SetManager(m)
	if m.delegate != nil {
		m.delegate.WidgetRegistered(h, w)
	}
	return h, nil
}

// AddWidget registers w, binds its surface and places it according to spec
// in one step. On failure nothing stays registered.
func (m *Manager) AddWidget(w Widget, spec PlacementSpec) (Handle, error) {
	var parent Placement
	hasParent := spec.Parent.Valid()
	if hasParent {
		p, ok := m.index.Placement(spec.Parent)
		if !ok {
			return InvalidHandle, fmt.Errorf("add widget: parent %s: %w", spec.Parent, ErrUnknownWidget)
		}
		parent = p
	}

	h, err := m.Register(w)
	if err != nil {
		return InvalidHandle, err
	}
	pw, ph := m.cfg.Layout.SurfaceSize(spec)
	if _, err := m.Bind(h, pw, ph); err != nil {
		m.Release(h)
		return InvalidHandle, err
	}
	m.index.Update(h, m.cfg.Layout.Resolve(spec, parent, hasParent))
	return h, nil
}

// Lookup returns the widget for h.
func (m *Manager) Lookup(h Handle) (Widget, bool) {
	return m.registry.Lookup(h)
}

// Bind creates or resizes the surface of h. Failures are logged and
// returned; the widget keeps its previous surface.
func (m *Manager) Bind(h Handle, width, height int) (*Surface, error) {
	s, err := m.surfaces.Bind(h, width, height)
	if err != nil {
		m.log.warnf("%v", err)
		return nil, err
	}
	return s, nil
}

// Place sets the 3D placement of h. Unknown handles are ignored.
func (m *Manager) Place(h Handle, p Placement) {
	if !m.index.Update(h, p) {
		m.log.debugf("place %s: %v", h, ErrUnknownWidget)
	}
}

// SetVisible shows or hides h. Hidden widgets are not hit and not drawn.
func (m *Manager) SetVisible(h Handle, visible bool) {
	m.index.SetVisible(h, visible)
}

// Release releases h now, or at the end of the frame when called from
// inside Update. Releasing an unknown handle is a no-op.
func (m *Manager) Release(h Handle) {
	if m.updating {
		m.deferred = append(m.deferred, h)
		return
	}
	m.registry.Release(h)
}

// released is the last registry release hook.
func (m *Manager) released(h Handle) {
	if m.focused == h {
		m.setFocus(InvalidHandle)
	}
	if m.delegate != nil {
		m.delegate.WidgetReleased(h)
	}
}

// Focused returns the focused widget, or InvalidHandle.
func (m *Manager) Focused() Handle {
	return m.focused
}

func (m *Manager) setFocus(h Handle) {
	if h == m.focused {
		return
	}
	prev := m.focused
	m.focused = h
	if m.delegate != nil {
		m.delegate.FocusChanged(prev, h)
	}
}

// RequestFocus implements WidgetManager.
func (m *Manager) RequestFocus(h Handle) {
	if !m.registry.Live(h) {
		m.log.debugf("focus %s: %v", h, ErrUnknownWidget)
		return
	}
	m.setFocus(h)
}

// RequestLayout implements WidgetManager.
func (m *Manager) RequestLayout(h Handle, p Placement) {
	m.Place(h, p)
}

// RequestSurface implements WidgetManager.
func (m *Manager) RequestSurface(h Handle, width, height int) (*Surface, error) {
	return m.Bind(h, width, height)
}

// Dismiss implements WidgetManager. The widget is released at the end of
// the current frame so the event that triggered it completes first.
func (m *Manager) Dismiss(h Handle) {
	m.Release(h)
}

// Enqueue queues a platform input sample. Safe to call from any goroutine;
// all queued samples are routed, in order, on the next Update.
func (m *Manager) Enqueue(s Sample) {
	m.mu.Lock()
	m.samples = append(m.samples, s)
	m.mu.Unlock()
}

// Post queues fn to run on the frame thread at the start of the next
// Update. Safe to call from any goroutine.
func (m *Manager) Post(fn func(*Manager)) {
	m.mu.Lock()
	m.commands = append(m.commands, fn)
	m.mu.Unlock()
}

// Animate adds a tween group ticked by Update until it is done.
func (m *Manager) Animate(g *TweenGroup) {
	if g != nil {
		m.tweens = append(m.tweens, g)
	}
}

// Update runs one frame: queued commands, the script runner, input routing,
// tweens and widget updates, then releases deferred during the frame.
func (m *Manager) Update(dt float64) {
	m.mu.Lock()
	commands := m.commands
	samples := m.samples
	m.commands = nil
	m.samples = nil
	m.mu.Unlock()

	var stats frameStats

	// Commands run before the frame starts so their releases apply
	// immediately.
	for _, fn := range commands {
		fn(m)
	}
	stats.commands = len(commands)

	m.updating = true

	if m.runner != nil {
		m.runner.step(m)
	}

	for _, s := range samples {
		if s.Frame == 0 {
			s.Frame = m.frame
		}
		m.router.Process(s)
	}
	stats.samples = len(samples)
	if len(m.injectQueue) > 0 {
		s := m.injectQueue[0]
		m.injectQueue = m.injectQueue[1:]
		s.Frame = m.frame
		m.router.Process(s)
		stats.samples++
	}

	live := m.tweens[:0]
	for _, g := range m.tweens {
		g.Update(float32(dt))
		if !g.Done {
			live = append(live, g)
		}
	}
	for i := len(live); i < len(m.tweens); i++ {
		m.tweens[i] = nil
	}
	m.tweens = live
	stats.tweens = len(live)

	for _, h := range m.registry.Handles() {
		if w, ok := m.registry.Lookup(h); ok {
			if u, ok := w.(Updater); ok {
				u.Update(dt)
			}
		}
	}

	m.updating = false
	for len(m.deferred) > 0 {
		h := m.deferred[0]
		m.deferred = m.deferred[1:]
		m.registry.Release(h)
	}

	m.flushSnapshots()

	stats.dispatched = m.router.takeDispatched()
	m.log.logFrame(m.frame, stats)
	m.frame++
}

// DrawItem is one widget the renderer should draw this frame.
type DrawItem struct {
	Handle    Handle
	Surface   *Surface
	Placement Placement
	Distance  float64
}

// DrawList returns every visible widget that has both a surface and a
// placement, sorted back to front as seen from eye.
func (m *Manager) DrawList(eye mgl64.Vec3) []DrawItem {
	items := make([]DrawItem, 0, m.index.Len())
	for _, h := range m.index.Handles() {
		if !m.index.Visible(h) {
			continue
		}
		s, ok := m.surfaces.Surface(h)
		if !ok {
			continue
		}
		p, _ := m.index.Placement(h)
		items = append(items, DrawItem{
			Handle:    h,
			Surface:   s,
			Placement: p,
			Distance:  p.Position.Sub(eye).Len(),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Distance > items[j].Distance
	})
	return items
}

// Close releases every widget and stops the resource goroutine.
func (m *Manager) Close() {
	for _, h := range m.registry.Handles() {
		m.registry.Release(h)
	}
	if m.pool != nil {
		if m.resources != nil {
			m.resources.Do(m.pool.Drain)
		} else {
			m.pool.Drain()
		}
	}
	if m.resources != nil {
		m.resources.Close()
		m.resources = nil
	}
}
