package vrwidget

import (
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

const planeEpsilon = 1e-9

// Placement is a widget's quad in world space. The quad is centered on
// Position, spans Width x Height world units along the rotated X (right)
// and Y (up) axes, and faces along the rotated +Z axis. A zero Orientation
// is treated as the identity rotation.
type Placement struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
	Width       float64
	Height      float64
}

// NewPlacement returns an unrotated placement centered on pos.
func NewPlacement(pos mgl64.Vec3, width, height float64) Placement {
	return Placement{Position: pos, Orientation: mgl64.QuatIdent(), Width: width, Height: height}
}

func (p Placement) rotation() mgl64.Quat {
	if p.Orientation == (mgl64.Quat{}) {
		return mgl64.QuatIdent()
	}
	return p.Orientation.Normalize()
}

// Axes returns the quad's right, up and normal unit vectors.
func (p Placement) Axes() (right, up, normal mgl64.Vec3) {
	q := p.rotation()
	return q.Rotate(mgl64.Vec3{1, 0, 0}), q.Rotate(mgl64.Vec3{0, 1, 0}), q.Rotate(mgl64.Vec3{0, 0, 1})
}

// Corners returns the quad corners in surface order: top-left, top-right,
// bottom-right, bottom-left.
func (p Placement) Corners() [4]mgl64.Vec3 {
	right, up, _ := p.Axes()
	hx := right.Mul(p.Width / 2)
	hy := up.Mul(p.Height / 2)
	return [4]mgl64.Vec3{
		p.Position.Sub(hx).Add(hy),
		p.Position.Add(hx).Add(hy),
		p.Position.Add(hx).Sub(hy),
		p.Position.Sub(hx).Sub(hy),
	}
}

// intersectPlane intersects r with the quad's plane. It returns the distance
// along the normalized ray and the hit in normalized surface coordinates
// (u right, v down, both in [0, 1] inside the quad). ok is false when the
// ray is parallel to the plane or the plane is behind the origin.
func (p Placement) intersectPlane(r Ray) (dist, u, v float64, point mgl64.Vec3, ok bool) {
	dirLen := r.Direction.Len()
	if dirLen < planeEpsilon || p.Width <= 0 || p.Height <= 0 {
		return 0, 0, 0, mgl64.Vec3{}, false
	}
	dir := r.Direction.Mul(1 / dirLen)
	right, up, normal := p.Axes()

	denom := normal.Dot(dir)
	if math.Abs(denom) < planeEpsilon {
		return 0, 0, 0, mgl64.Vec3{}, false
	}
	t := normal.Dot(p.Position.Sub(r.Origin)) / denom
	if t < 0 {
		return 0, 0, 0, mgl64.Vec3{}, false
	}
	point = r.Origin.Add(dir.Mul(t))
	local := point.Sub(p.Position)
	u = local.Dot(right)/p.Width + 0.5
	v = 0.5 - local.Dot(up)/p.Height
	return t, u, v, point, true
}

// Hit is the result of a ray intersecting a widget quad.
type Hit struct {
	Handle   Handle
	Distance float64
	Point    mgl64.Vec3
	// U and V are normalized surface coordinates, (0,0) top-left.
	U, V float64
	// Local is the hit in surface pixels. Without a bound surface it equals
	// (U, V).
	Local Vec2
}

type spatialEntry struct {
	handle    Handle
	placement Placement
	visible   bool
	seq       uint64
}

// SpatialIndex maps pointer rays to the widget quad they hit.
type SpatialIndex struct {
	reg      *Registry
	surfaces *SurfaceBinder
	entries  map[Handle]*spatialEntry
	maxDist  float64
}

// NewSpatialIndex creates an index for widgets in reg. surfaces converts
// hits to pixel coordinates and may be nil.
func NewSpatialIndex(reg *Registry, surfaces *SurfaceBinder) *SpatialIndex {
	return &SpatialIndex{
		reg:      reg,
		surfaces: surfaces,
		entries:  make(map[Handle]*spatialEntry),
	}
}

// SetMaxDistance ignores hits farther than d world units along the ray.
// Zero means unlimited.
func (x *SpatialIndex) SetMaxDistance(d float64) {
	x.maxDist = d
}

// Update sets or replaces the placement for h. Unknown handles are a silent
// no-op, since the widget may have been released earlier in the frame. The
// result reports whether the placement was stored.
func (x *SpatialIndex) Update(h Handle, p Placement) bool {
	seq, live := x.reg.Seq(h)
	if !live {
		return false
	}
	if e, ok := x.entries[h]; ok {
		e.placement = p
		e.seq = seq
		return true
	}
	x.entries[h] = &spatialEntry{handle: h, placement: p, visible: true, seq: seq}
	return true
}

// Remove drops the placement for h.
func (x *SpatialIndex) Remove(h Handle) {
	delete(x.entries, h)
}

// Placement returns the placement for h.
func (x *SpatialIndex) Placement(h Handle) (Placement, bool) {
	e, ok := x.entries[h]
	if !ok {
		return Placement{}, false
	}
	return e.placement, true
}

// SetVisible shows or hides h. Hidden widgets are skipped by HitTest.
func (x *SpatialIndex) SetVisible(h Handle, visible bool) {
	if e, ok := x.entries[h]; ok {
		e.visible = visible
	}
}

// Visible reports whether h is placed and visible.
func (x *SpatialIndex) Visible(h Handle) bool {
	e, ok := x.entries[h]
	return ok && e.visible
}

// HitTest returns the nearest visible widget whose quad r intersects. On an
// exact distance tie the most recently registered widget wins. Placements
// left behind by released widgets are never hit.
func (x *SpatialIndex) HitTest(r Ray) (Hit, bool) {
	var (
		best    Hit
		bestSeq uint64
		found   bool
	)
	for _, e := range x.entries {
		if !e.visible || !x.reg.Live(e.handle) {
			continue
		}
		dist, u, v, point, ok := e.placement.intersectPlane(r)
		if !ok || u < 0 || u > 1 || v < 0 || v > 1 {
			continue
		}
		if x.maxDist > 0 && dist > x.maxDist {
			continue
		}
		if found && (dist > best.Distance || (dist == best.Distance && e.seq < bestSeq)) {
			continue
		}
		best = Hit{Handle: e.handle, Distance: dist, Point: point, U: u, V: v}
		bestSeq = e.seq
		found = true
	}
	if !found {
		return Hit{}, false
	}
	best.Local = x.toPixels(best.Handle, best.U, best.V)
	return best, true
}

// Project intersects r with the plane of h's quad without requiring the hit
// to fall inside the quad, so captured drags keep working past the edges.
func (x *SpatialIndex) Project(h Handle, r Ray) (Hit, bool) {
	e, ok := x.entries[h]
	if !ok {
		return Hit{}, false
	}
	dist, u, v, point, ok := e.placement.intersectPlane(r)
	if !ok {
		return Hit{}, false
	}
	return Hit{Handle: h, Distance: dist, Point: point, U: u, V: v, Local: x.toPixels(h, u, v)}, true
}

func (x *SpatialIndex) toPixels(h Handle, u, v float64) Vec2 {
	if x.surfaces != nil {
		if s, ok := x.surfaces.Surface(h); ok {
			return Vec2{X: u * float64(s.width), Y: v * float64(s.height)}
		}
	}
	return Vec2{X: u, Y: v}
}

// Handles returns the placed handles, ascending.
func (x *SpatialIndex) Handles() []Handle {
	out := make([]Handle, 0, len(x.entries))
	for h := range x.entries {
		out = append(out, h)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of placed widgets.
func (x *SpatialIndex) Len() int {
	return len(x.entries)
}
