package main

import (
	"fmt"

	"github.com/phanxgames/vrwidget"
	"github.com/phanxgames/vrwidget/panels"
)

const frameDt = 1.0 / 60

// result is everything observed during one replay.
type result struct {
	events   []vrwidget.Event
	notes    []string
	frames   int
	finished bool
	focused  vrwidget.Handle
	live     []vrwidget.Handle
}

// replay builds the chrome on a fresh manager and steps it until the
// script finishes or maxFrames is reached.
func replay(cfg vrwidget.Config, runner *vrwidget.ScriptRunner, url string, maxFrames int) (*result, error) {
	m := vrwidget.NewManager(cfg)
	defer m.Close()

	c, err := panels.NewChrome(m, url)
	if err != nil {
		return nil, err
	}

	res := &result{}
	c.Browser.OnReload = func() {
		res.notes = append(res.notes, fmt.Sprintf("frame %d: reload %s", m.Frame(), c.Browser.URL))
	}
	c.OnMenuSelect = func(i int, item string) {
		res.notes = append(res.notes, fmt.Sprintf("frame %d: menu select %d %q", m.Frame(), i, item))
	}
	sub := m.Router().OnEvent(func(e vrwidget.Event) {
		res.events = append(res.events, e)
	})
	defer sub.Remove()

	m.SetScriptRunner(runner)
	for res.frames < maxFrames && !runner.Done() {
		m.Update(frameDt)
		res.frames++
	}
	res.finished = runner.Done()
	res.focused = m.Focused()
	res.live = m.Registry().Handles()
	return res, nil
}
