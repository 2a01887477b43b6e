package vrwidget

import "errors"

var (
	// ErrDuplicateRegistration is returned when a widget that already holds
	// a handle is registered again without being released first.
	ErrDuplicateRegistration = errors.New("vrwidget: duplicate registration")

	// ErrReservedInUse is returned when a reserved kind is registered while
	// another live widget holds its well-known handle.
	ErrReservedInUse = errors.New("vrwidget: reserved handle in use")

	// ErrUnknownWidget is returned for operations on a handle that is not
	// registered, usually because it was released in the same frame.
	ErrUnknownWidget = errors.New("vrwidget: unknown widget")

	// ErrSurfaceBind is returned when a surface cannot be created or
	// resized. The widget keeps its previous surface, if any.
	ErrSurfaceBind = errors.New("vrwidget: surface bind failure")

	// ErrStaleSurface is returned by Surface.Check after the surface was
	// rebound or unbound.
	ErrStaleSurface = errors.New("vrwidget: stale surface")

	// ErrStaleCapture is logged when a captured widget disappears in the
	// middle of a gesture.
	ErrStaleCapture = errors.New("vrwidget: stale capture")
)
