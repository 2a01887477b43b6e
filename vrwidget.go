package vrwidget

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec2 is a 2D point in surface-pixel space. The origin is the top-left
// corner of the surface, with Y increasing downward.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in screen or surface pixels. The
// coordinate system has its origin at the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Ray is a pointer ray in world space. Direction does not need to be
// normalized; hit testing normalizes it.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// NewRay returns a ray from origin along direction.
func NewRay(origin, direction mgl64.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// EventType identifies a kind of synthesized widget event.
type EventType uint8

const (
	EventHoverEnter  EventType = iota // pointer ray started pointing at the widget
	EventHoverMove                    // pointer moved while hovering, no press
	EventHoverExit                    // pointer ray stopped pointing at the widget
	EventTouchDown                    // press began on the widget; widget becomes capture target
	EventTouchMove                    // captured drag, coordinate projected on the widget plane
	EventTouchUp                      // press ended
	EventTouchCancel                  // press aborted (source dropped or widget hidden)
	EventScroll                       // scroll delta for the hovered or captured widget
)

var eventTypeNames = [...]string{
	EventHoverEnter:  "hover-enter",
	EventHoverMove:   "hover-move",
	EventHoverExit:   "hover-exit",
	EventTouchDown:   "touch-down",
	EventTouchMove:   "touch-move",
	EventTouchUp:     "touch-up",
	EventTouchCancel: "touch-cancel",
	EventScroll:      "scroll",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return fmt.Sprintf("EventType(%d)", uint8(t))
}

// IsHover reports whether t is delivered through Widget.HandleHover.
func (t EventType) IsHover() bool {
	return t == EventHoverEnter || t == EventHoverMove || t == EventHoverExit
}

// IsTouch reports whether t is delivered through Widget.HandleTouch.
func (t EventType) IsTouch() bool {
	return t >= EventTouchDown && t <= EventTouchCancel
}

// Event is one synthesized 2D event routed to a widget. X and Y are in the
// widget's surface pixels.
type Event struct {
	Type   EventType
	Handle Handle
	Source int
	Frame  uint64
	X, Y   float64

	// Scroll fields (valid for EventScroll), already multiplied by the
	// configured scroll factor.
	ScrollX, ScrollY float64
}

func (e Event) String() string {
	if e.Type == EventScroll {
		return fmt.Sprintf("%s %s src=%d d=(%.2f,%.2f)", e.Type, e.Handle, e.Source, e.ScrollX, e.ScrollY)
	}
	return fmt.Sprintf("%s %s src=%d (%.1f,%.1f)", e.Type, e.Handle, e.Source, e.X, e.Y)
}
