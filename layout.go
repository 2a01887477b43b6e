package vrwidget

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// PlacementSpec describes a widget's size and position in density-independent
// units (dp) relative to a parent widget, the way browser chrome positions
// its panels around the browser view.
//
// Anchor and ParentAnchor are normalized points on the widget and parent
// quads: (0,0) is the bottom-left corner, (1,1) the top-right. The widget is
// positioned so that its Anchor lands on the parent's ParentAnchor, offset by
// Translation.
type PlacementSpec struct {
	Parent       Handle // InvalidHandle places relative to the world origin
	Width        float64
	Height       float64
	Translation  mgl64.Vec3
	Anchor       Vec2
	ParentAnchor Vec2
	// Orientation is applied on top of the parent's orientation. Zero means
	// no extra rotation.
	Orientation mgl64.Quat
}

// SurfaceSize returns the surface dimensions for spec in pixels.
func (c LayoutConfig) SurfaceSize(spec PlacementSpec) (int, int) {
	return int(math.Round(spec.Width * c.DisplayDensity)), int(math.Round(spec.Height * c.DisplayDensity))
}

// Resolve computes the world placement for spec. parent is ignored unless
// hasParent is true.
func (c LayoutConfig) Resolve(spec PlacementSpec, parent Placement, hasParent bool) Placement {
	w := spec.Width * c.WorldDPIRatio
	h := spec.Height * c.WorldDPIRatio

	// Offset in the parent's frame.
	offset := spec.Translation.Mul(c.WorldDPIRatio)
	parentRot := mgl64.QuatIdent()
	origin := mgl64.Vec3{}
	if hasParent {
		offset = offset.Add(mgl64.Vec3{
			(spec.ParentAnchor.X - 0.5) * parent.Width,
			(spec.ParentAnchor.Y - 0.5) * parent.Height,
			0,
		})
		parentRot = parent.rotation()
		origin = parent.Position
	}

	rot := parentRot
	if spec.Orientation != (mgl64.Quat{}) {
		rot = parentRot.Mul(spec.Orientation.Normalize())
	}
	// The widget's own anchor is measured in the widget's frame.
	anchor := mgl64.Vec3{(spec.Anchor.X - 0.5) * w, (spec.Anchor.Y - 0.5) * h, 0}

	return Placement{
		Position:    origin.Add(parentRot.Rotate(offset)).Sub(rot.Rotate(anchor)),
		Orientation: rot,
		Width:       w,
		Height:      h,
	}
}
