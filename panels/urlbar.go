package panels

import (
	"github.com/phanxgames/vrwidget"
	"github.com/tanema/gween/ease"
)

// highlightDuration is the hover fade time in seconds.
const highlightDuration = 0.15

// URLBarPanel shows the current address above the browser. Hovering fades
// in a highlight; tapping it takes focus so the keyboard can edit the text.
type URLBarPanel struct {
	vrwidget.BaseWidget

	Text string

	// OnActivate fires when the bar is tapped.
	OnActivate func()

	highlight float64
	fade      *vrwidget.TweenGroup
	pressing  bool
}

// NewURLBarPanel creates a URL bar bound to m.
func NewURLBarPanel(m vrwidget.WidgetManager) *URLBarPanel {
	return &URLBarPanel{BaseWidget: vrwidget.NewBaseWidget(vrwidget.KindURLBar, m)}
}

// SetText replaces the displayed address.
func (u *URLBarPanel) SetText(s string) {
	u.Text = s
}

// Highlight returns the hover highlight in [0, 1].
func (u *URLBarPanel) Highlight() float64 {
	return u.highlight
}

func (u *URLBarPanel) fadeTo(v float64) {
	u.fade = vrwidget.TweenValue(&u.highlight, v, highlightDuration, ease.OutQuad)
}

// HandleHover implements vrwidget.Widget.
func (u *URLBarPanel) HandleHover(e vrwidget.Event) {
	switch e.Type {
	case vrwidget.EventHoverEnter:
		u.fadeTo(1)
	case vrwidget.EventHoverExit:
		u.fadeTo(0)
	}
}

// HandleTouch implements vrwidget.Widget. A tap only counts if it ends
// inside the bar.
func (u *URLBarPanel) HandleTouch(e vrwidget.Event) {
	switch e.Type {
	case vrwidget.EventTouchDown:
		u.pressing = true
	case vrwidget.EventTouchUp:
		if !u.pressing {
			return
		}
		u.pressing = false
		w, h, ok := surfaceBounds(u.Surface())
		if ok && !(vrwidget.HitRect{Width: w, Height: h}).Contains(e.X, e.Y) {
			return
		}
		u.RequestFocus()
		if u.OnActivate != nil {
			u.OnActivate()
		}
	case vrwidget.EventTouchCancel:
		u.pressing = false
	}
}

// Update implements vrwidget.Updater.
func (u *URLBarPanel) Update(dt float64) {
	if u.fade == nil {
		return
	}
	u.fade.Update(float32(dt))
	if u.fade.Done {
		u.fade = nil
	}
}

// Redraw paints the bar into its surface.
func (u *URLBarPanel) Redraw() {
	img := surfaceImage(u.Surface())
	if img == nil {
		return
	}
	img.Fill(lerpColor(colorBar, colorBarHover, u.highlight))
	w, h, _ := surfaceBounds(u.Surface())
	drawLabel(img, fitLabel(u.Text, w-24), 12, int(h/2)-labelSize/2)
}

// ReleaseWidget stops the fade and drops the surface.
func (u *URLBarPanel) ReleaseWidget() {
	u.fade = nil
	u.highlight = 0
	u.pressing = false
	u.BaseWidget.ReleaseWidget()
}
