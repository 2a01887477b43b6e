package vrwidget

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// scriptStep is a single action in an input script.
type scriptStep struct {
	Action string     `json:"action"`
	Source int        `json:"source,omitempty"`
	Origin [3]float64 `json:"origin,omitempty"`
	Dir    [3]float64 `json:"dir,omitempty"`
	ToDir  [3]float64 `json:"toDir,omitempty"`
	Frames int        `json:"frames,omitempty"`
	Handle Handle     `json:"handle,omitempty"`
	DX     float64    `json:"dx,omitempty"`
	DY     float64    `json:"dy,omitempty"`
	Label  string     `json:"label,omitempty"`
}

func (st scriptStep) ray() Ray {
	return Ray{Origin: mgl64.Vec3(st.Origin), Direction: mgl64.Vec3(st.Dir)}
}

// script is the top-level JSON structure of an input script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

var scriptActions = map[string]bool{
	"hover": true, "press": true, "release": true, "click": true, "drag": true,
	"scroll": true, "wait": true, "drop_source": true,
	"release_widget": true, "hide": true, "show": true, "snapshot": true,
}

// ScriptRunner replays a pointer script one step per frame: hover, press,
// release, click, drag, scroll and wait steps drive the injected input
// queue, while release_widget, hide, show, snapshot and drop_source act on
// the manager directly.
//
//	{"steps": [
//	  {"action": "hover", "origin": [0, 0, 0], "dir": [0, 0, -1]},
//	  {"action": "drag", "dir": [0, 0, -1], "toDir": [0.1, 0, -1], "frames": 5},
//	  {"action": "release_widget", "handle": 1},
//	  {"action": "wait", "frames": 2}
//	]}
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON input script and returns a runner ready to be
// attached to a Manager via SetScriptRunner.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(jsonData, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range s.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

// SetScriptRunner attaches a runner. Its step method is called from
// Manager.Update before input routing each frame.
func (m *Manager) SetScriptRunner(r *ScriptRunner) {
	m.runner = r
}

// Done reports whether every step has been executed and all injected input
// has been routed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *ScriptRunner) step(m *Manager) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(m.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "hover":
		m.InjectHover(st.Source, st.ray())
	case "press":
		m.InjectPress(st.Source, st.ray())
	case "release":
		m.InjectRelease(st.Source, st.ray())
	case "click":
		m.InjectClick(st.Source, st.ray())
	case "drag":
		to := Ray{Origin: mgl64.Vec3(st.Origin), Direction: mgl64.Vec3(st.ToDir)}
		m.InjectDrag(st.Source, st.ray(), to, st.Frames)
	case "scroll":
		m.InjectScroll(st.Source, st.ray(), st.DX, st.DY)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "drop_source":
		m.router.DropSource(st.Source)
	case "release_widget":
		m.Release(st.Handle)
	case "hide":
		m.SetVisible(st.Handle, false)
	case "show":
		m.SetVisible(st.Handle, true)
	case "snapshot":
		m.Snapshot(st.Handle, st.Label)
	}
}
