package vrwidget

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields simultaneously. Create one via
// TweenValue or Manager.TweenPlacement and call Update(dt) each frame (the
// Manager does this for groups passed to Animate). After each step the
// optional apply callback runs; if alive reports false the group stops
// immediately without writing.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	apply  func()
	alive  func() bool
	Done   bool
}

// Update advances all tweens by dt seconds and writes values to the target
// fields.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.alive != nil && !g.alive() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	if g.apply != nil {
		g.apply()
	}
}

// TweenValue creates a TweenGroup that animates *field to the given value
// over the specified duration using the easing function.
func TweenValue(field *float64, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1}
	g.tweens[0] = gween.New(float32(*field), float32(to), duration, fn)
	g.fields[0] = field
	return g
}

// TweenPlacement slides the placement of h to the position to over the
// specified duration, updating the spatial index every frame. The group
// stops when the widget is released, even if another widget is later
// registered at the same handle. It returns nil if h is not placed.
func (m *Manager) TweenPlacement(h Handle, to mgl64.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	p, ok := m.index.Placement(h)
	if !ok {
		return nil
	}
	seq, ok := m.registry.Seq(h)
	if !ok {
		return nil
	}
	pos := [3]float64{p.Position[0], p.Position[1], p.Position[2]}
	g := &TweenGroup{count: 3}
	for i := 0; i < 3; i++ {
		g.tweens[i] = gween.New(float32(pos[i]), float32(to[i]), duration, fn)
		g.fields[i] = &pos[i]
	}
	// Reserved handles are reused; stop once h names a different widget.
	g.alive = func() bool {
		cur, ok := m.registry.Seq(h)
		return ok && cur == seq
	}
	g.apply = func() {
		cur, ok := m.index.Placement(h)
		if !ok {
			return
		}
		cur.Position = mgl64.Vec3{pos[0], pos[1], pos[2]}
		m.index.Update(h, cur)
	}
	m.Animate(g)
	return g
}
