package vrwidget

import (
	"fmt"
	"slices"
)

type registryEntry struct {
	widget Widget
	seq    uint64 // registration order, used for hit-test tie-breaks
}

// Registry assigns handles to widgets and holds them until release. It is
// owned by the frame thread and never blocks.
type Registry struct {
	entries  map[Handle]registryEntry
	byWidget map[Widget]Handle
	next     Handle
	seq      uint64

	releaseHooks []func(Handle)
	log          *logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries:  make(map[Handle]registryEntry),
		byWidget: make(map[Widget]Handle),
		next:     firstDynamicHandle,
		log:      newLogger(),
	}
}

// Register assigns a handle to w and stores it. Reserved kinds get their
// well-known handle; every other widget gets a fresh handle that has never
// been used before. Registering a widget that already holds a handle fails
// with ErrDuplicateRegistration.
func (r *Registry) Register(w Widget) (Handle, error) {
	if w == nil {
		return InvalidHandle, fmt.Errorf("register nil widget: %w", ErrUnknownWidget)
	}
	if h, ok := r.byWidget[w]; ok {
		return InvalidHandle, fmt.Errorf("widget already registered as %s: %w", h, ErrDuplicateRegistration)
	}
	if h := w.Handle(); h.Valid() {
		return InvalidHandle, fmt.Errorf("widget already holds %s: %w", h, ErrDuplicateRegistration)
	}

	h, reserved := w.Kind().ReservedHandle()
	if reserved {
		if _, live := r.entries[h]; live {
			return InvalidHandle, fmt.Errorf("%s kind at %s: %w", w.Kind(), h, ErrReservedInUse)
		}
	} else {
		h = r.next
		r.next++
	}

	r.seq++
	r.entries[h] = registryEntry{widget: w, seq: r.seq}
	r.byWidget[w] = h
	w.SetHandle(h)
	return h, nil
}

// Lookup returns the widget for h, or false if h is unknown or released.
func (r *Registry) Lookup(h Handle) (Widget, bool) {
	e, ok := r.entries[h]
	if !ok {
		return nil, false
	}
	return e.widget, true
}

// Live reports whether h is currently registered.
func (r *Registry) Live(h Handle) bool {
	_, ok := r.entries[h]
	return ok
}

// Seq returns the registration sequence number of h. Later registrations
// have larger numbers.
func (r *Registry) Seq(h Handle) (uint64, bool) {
	e, ok := r.entries[h]
	return e.seq, ok
}

// Release removes the widget behind h, runs the release hooks (surface
// unbind, spatial removal, pointer cleanup) and finally tells the widget to
// release its own resources. Releasing an unknown handle is a no-op; the
// result reports whether anything was released.
func (r *Registry) Release(h Handle) bool {
	e, ok := r.entries[h]
	if !ok {
		return false
	}
	delete(r.entries, h)
	delete(r.byWidget, e.widget)

	for _, fn := range r.releaseHooks {
		fn(h)
	}
	e.widget.ReleaseWidget()
	return true
}

// OnRelease registers fn to run for every released handle, after the
// widget is unreachable through Lookup and before Widget.ReleaseWidget.
// Hooks run in registration order.
func (r *Registry) OnRelease(fn func(Handle)) {
	r.releaseHooks = append(r.releaseHooks, fn)
}

// Handles returns the live handles in ascending order.
func (r *Registry) Handles() []Handle {
	out := make([]Handle, 0, len(r.entries))
	for h := range r.entries {
		out = append(out, h)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of live widgets.
func (r *Registry) Len() int {
	return len(r.entries)
}
