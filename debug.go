package vrwidget

import (
	"fmt"
	"io"
	"os"
)

// logger writes [vrwidget]-prefixed diagnostics. Warnings are always
// written; debugf lines only when debug mode is on.
type logger struct {
	out   io.Writer
	debug bool
}

func newLogger() *logger {
	return &logger{out: os.Stderr}
}

func (l *logger) warnf(format string, args ...any) {
	if l == nil || l.out == nil {
		return
	}
	_, _ = fmt.Fprintf(l.out, "[vrwidget] warning: "+format+"\n", args...)
}

func (l *logger) debugf(format string, args ...any) {
	if l == nil || !l.debug || l.out == nil {
		return
	}
	_, _ = fmt.Fprintf(l.out, "[vrwidget] "+format+"\n", args...)
}

// frameStats holds per-frame counters. Only logged in debug mode.
type frameStats struct {
	commands   int
	samples    int
	dispatched int
	tweens     int
}

func (l *logger) logFrame(frame uint64, s frameStats) {
	if s.commands == 0 && s.samples == 0 && s.dispatched == 0 {
		return
	}
	l.debugf("frame %d: commands: %d | samples: %d | events: %d | tweens: %d",
		frame, s.commands, s.samples, s.dispatched, s.tweens)
}

// debugCheckDuplicate panics with a descriptive message when a widget is
// registered twice. Only called in debug mode; release builds log and
// return the error instead.
func debugCheckDuplicate(w Widget, err error) {
	panic(fmt.Sprintf("vrwidget debug: register %s widget (handle %s): %v", w.Kind(), w.Handle(), err))
}
