package vrwidget

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Camera is a pinhole camera used to turn screen positions into pointer rays
// and to project widget quads for the preview renderer. It looks down its
// local -Z axis with +Y up.
type Camera struct {
	// Position is the eye position in world space.
	Position mgl64.Vec3
	// Orientation rotates camera space into world space. Zero means identity.
	Orientation mgl64.Quat
	// FovY is the vertical field of view in radians.
	FovY float64
	// Near is the near clip distance used by WorldToScreen.
	Near float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect

	yaw, pitch float64
	turn       *turnAnim
}

// turnAnim holds active yaw/pitch tweens started by TurnTo.
type turnAnim struct {
	yaw, pitch         *gween.Tween
	yawDone, pitchDone bool
}

// NewCamera creates a camera at the origin looking down -Z with a 60 degree
// vertical field of view.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		Orientation: mgl64.QuatIdent(),
		FovY:        mgl64.DegToRad(60),
		Near:        0.01,
		Viewport:    viewport,
	}
}

func (c *Camera) rotation() mgl64.Quat {
	if c.Orientation == (mgl64.Quat{}) {
		return mgl64.QuatIdent()
	}
	return c.Orientation.Normalize()
}

// SetYawPitch orients the camera by yaw (around world +Y) and pitch (around
// the camera's right axis), both in radians.
func (c *Camera) SetYawPitch(yaw, pitch float64) {
	c.yaw, c.pitch = yaw, pitch
	c.Orientation = mgl64.QuatRotate(yaw, mgl64.Vec3{0, 1, 0}).Mul(mgl64.QuatRotate(pitch, mgl64.Vec3{1, 0, 0}))
}

// YawPitch returns the angles last set with SetYawPitch or TurnTo.
func (c *Camera) YawPitch() (float64, float64) {
	return c.yaw, c.pitch
}

// TurnTo animates yaw and pitch to the given angles over duration seconds.
func (c *Camera) TurnTo(yaw, pitch float64, duration float32, easeFn ease.TweenFunc) {
	c.turn = &turnAnim{
		yaw:   gween.New(float32(c.yaw), float32(yaw), duration, easeFn),
		pitch: gween.New(float32(c.pitch), float32(pitch), duration, easeFn),
	}
}

// Update advances an active TurnTo animation by dt seconds.
func (c *Camera) Update(dt float32) {
	if c.turn == nil {
		return
	}
	yaw, pitch := c.yaw, c.pitch
	if !c.turn.yawDone {
		v, done := c.turn.yaw.Update(dt)
		yaw = float64(v)
		c.turn.yawDone = done
	}
	if !c.turn.pitchDone {
		v, done := c.turn.pitch.Update(dt)
		pitch = float64(v)
		c.turn.pitchDone = done
	}
	c.SetYawPitch(yaw, pitch)
	if c.turn.yawDone && c.turn.pitchDone {
		c.turn = nil
	}
}

func (c *Camera) aspect() float64 {
	if c.Viewport.Height == 0 {
		return 1
	}
	return c.Viewport.Width / c.Viewport.Height
}

// ScreenToRay returns the world-space ray through the screen point (sx, sy).
func (c *Camera) ScreenToRay(sx, sy float64) Ray {
	nx, ny := 0.0, 0.0
	if c.Viewport.Width > 0 && c.Viewport.Height > 0 {
		nx = (sx-c.Viewport.X)/c.Viewport.Width*2 - 1
		ny = 1 - (sy-c.Viewport.Y)/c.Viewport.Height*2
	}
	tanHalf := math.Tan(c.FovY / 2)
	dir := mgl64.Vec3{nx * tanHalf * c.aspect(), ny * tanHalf, -1}
	return Ray{Origin: c.Position, Direction: c.rotation().Rotate(dir).Normalize()}
}

// WorldToScreen projects p to screen coordinates. ok is false when p is
// behind the near plane.
func (c *Camera) WorldToScreen(p mgl64.Vec3) (sx, sy float64, ok bool) {
	local := c.rotation().Inverse().Rotate(p.Sub(c.Position))
	depth := -local.Z()
	if depth < c.Near {
		return 0, 0, false
	}
	tanHalf := math.Tan(c.FovY / 2)
	nx := local.X() / depth / (tanHalf * c.aspect())
	ny := local.Y() / depth / tanHalf
	sx = c.Viewport.X + (nx+1)/2*c.Viewport.Width
	sy = c.Viewport.Y + (1-ny)/2*c.Viewport.Height
	return sx, sy, true
}
