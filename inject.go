package vrwidget

// InjectSample queues a synthetic sample. Injected samples are consumed one
// per frame by Update, after any samples delivered through Enqueue.
func (m *Manager) InjectSample(s Sample) {
	m.injectQueue = append(m.injectQueue, s)
}

// InjectHover queues a sample with the button up.
func (m *Manager) InjectHover(source int, r Ray) {
	m.InjectSample(Sample{Source: source, Ray: r})
}

// InjectPress queues a sample with the button down. Use it between an
// InjectHover and InjectRelease, or repeatedly to simulate a drag.
func (m *Manager) InjectPress(source int, r Ray) {
	m.InjectSample(Sample{Source: source, Ray: r, Down: true})
}

// InjectRelease queues a sample with the button up after a press.
func (m *Manager) InjectRelease(source int, r Ray) {
	m.InjectSample(Sample{Source: source, Ray: r})
}

// InjectClick queues a press followed by a release along the same ray.
// Consumes two frames.
func (m *Manager) InjectClick(source int, r Ray) {
	m.InjectPress(source, r)
	m.InjectRelease(source, r)
}

// InjectDrag queues a full drag sequence: press along from, rays whose
// direction is linearly interpolated over frames-2 intermediate frames, and
// release along to. The total sequence consumes frames frames; the minimum
// is 2 (press + release).
func (m *Manager) InjectDrag(source int, from, to Ray, frames int) {
	if frames < 2 {
		frames = 2
	}
	m.InjectPress(source, from)
	steps := frames - 1
	for i := 1; i < steps; i++ {
		t := float64(i) / float64(steps)
		m.InjectPress(source, Ray{
			Origin:    from.Origin.Add(to.Origin.Sub(from.Origin).Mul(t)),
			Direction: from.Direction.Add(to.Direction.Sub(from.Direction).Mul(t)),
		})
	}
	m.InjectRelease(source, to)
}

// InjectScroll queues a sample carrying a scroll delta. The button keeps
// the state of the source's last queued or routed sample, so a scroll in
// the middle of a drag does not end the press.
func (m *Manager) InjectScroll(source int, r Ray, dx, dy float64) {
	m.InjectSample(Sample{Source: source, Ray: r, Down: m.buttonDown(source), ScrollX: dx, ScrollY: dy})
}

// buttonDown reports the button state source will have once the inject
// queue drains up to this point.
func (m *Manager) buttonDown(source int) bool {
	for i := len(m.injectQueue) - 1; i >= 0; i-- {
		if m.injectQueue[i].Source == source {
			return m.injectQueue[i].Down
		}
	}
	if ps, ok := m.router.pointers[source]; ok {
		return ps.wasDown
	}
	return false
}

// PendingInjections returns the number of injected samples not yet routed.
func (m *Manager) PendingInjections() int {
	return len(m.injectQueue)
}
