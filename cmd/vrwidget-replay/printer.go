package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/phanxgames/vrwidget"
)

// printer writes a replay result, styled when color is on.
type printer struct {
	w     io.Writer
	color bool

	frame  lipgloss.Style
	hover  lipgloss.Style
	touch  lipgloss.Style
	cancel lipgloss.Style
	scroll lipgloss.Style
	note   lipgloss.Style
	header lipgloss.Style
	errMsg lipgloss.Style
}

func newPrinter(w io.Writer, color bool) *printer {
	return &printer{
		w:      w,
		color:  color,
		frame:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(6).Align(lipgloss.Right),
		hover:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		touch:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		cancel: lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		scroll: lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
		note:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		header: lipgloss.NewStyle().Bold(true).Underline(true),
		errMsg: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
}

func (p *printer) render(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

func (p *printer) styleFor(t vrwidget.EventType) lipgloss.Style {
	switch {
	case t == vrwidget.EventTouchCancel:
		return p.cancel
	case t.IsTouch():
		return p.touch
	case t == vrwidget.EventScroll:
		return p.scroll
	}
	return p.hover
}

// eventLine formats e without styling.
func eventLine(e vrwidget.Event) string {
	return fmt.Sprintf("%-12s %-12s src=%d  (%.1f, %.1f)", e.Type, e.Handle, e.Source, e.X, e.Y)
}

func (p *printer) print(res *result) {
	fmt.Fprintln(p.w, p.render(p.header, "events"))
	for _, e := range res.events {
		frame := fmt.Sprintf("%d", e.Frame)
		if p.color {
			frame = p.frame.Render(frame)
		} else {
			frame = fmt.Sprintf("%6s", frame)
		}
		line := eventLine(e)
		if e.Type == vrwidget.EventScroll {
			line = fmt.Sprintf("%-12s %-12s src=%d  d=(%.1f, %.1f)", e.Type, e.Handle, e.Source, e.ScrollX, e.ScrollY)
		}
		fmt.Fprintf(p.w, "%s  %s\n", frame, p.render(p.styleFor(e.Type), line))
	}

	if len(res.notes) > 0 {
		fmt.Fprintln(p.w)
		fmt.Fprintln(p.w, p.render(p.header, "actions"))
		for _, n := range res.notes {
			fmt.Fprintln(p.w, p.render(p.note, n))
		}
	}

	live := make([]string, len(res.live))
	for i, h := range res.live {
		live[i] = h.String()
	}
	fmt.Fprintln(p.w)
	fmt.Fprintf(p.w, "frames: %d  events: %d  focused: %s  live: [%s]\n",
		res.frames, len(res.events), res.focused, strings.Join(live, " "))
	if !res.finished {
		fmt.Fprintln(p.w, p.render(p.errMsg, "script did not finish before the frame limit"))
	}
}
