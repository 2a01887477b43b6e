package panels

import (
	"github.com/phanxgames/vrwidget"
	"github.com/tanema/gween/ease"
)

const (
	// DefaultRowHeight is the menu row height in dp. At a display density
	// of 1 it is also the height in surface pixels.
	DefaultRowHeight = 48

	openDuration = 0.2
)

// MenuPanel is the overflow menu. Rows highlight under the pointer; a press
// and release on the same row selects it and dismisses the menu.
type MenuPanel struct {
	vrwidget.BaseWidget

	Items []string
	// RowHeight is the row height in surface pixels.
	RowHeight float64

	// OnSelect fires with the chosen row before the menu dismisses itself.
	OnSelect func(index int, item string)

	hovered int
	pressed int
	open    float64
	opening *vrwidget.TweenGroup
}

// NewMenuPanel creates a menu with the given rows bound to m. The menu
// animates open from its first Update.
func NewMenuPanel(m vrwidget.WidgetManager, items ...string) *MenuPanel {
	mp := &MenuPanel{
		BaseWidget: vrwidget.NewBaseWidget(vrwidget.KindMoreMenu, m),
		Items:      items,
		RowHeight:  DefaultRowHeight,
		hovered:    -1,
		pressed:    -1,
	}
	mp.opening = vrwidget.TweenValue(&mp.open, 1, openDuration, ease.OutCubic)
	return mp
}

// Hovered returns the highlighted row, or -1.
func (mp *MenuPanel) Hovered() int {
	return mp.hovered
}

// Openness returns the open animation progress in [0, 1].
func (mp *MenuPanel) Openness() float64 {
	return mp.open
}

func (mp *MenuPanel) row(i int, width float64) vrwidget.HitRect {
	return vrwidget.HitRect{X: 0, Y: float64(i) * mp.RowHeight, Width: width, Height: mp.RowHeight}
}

// rowAt returns the row under (x, y), or -1.
func (mp *MenuPanel) rowAt(x, y float64) int {
	w, _, ok := surfaceBounds(mp.Surface())
	if !ok {
		w = x
	}
	for i := range mp.Items {
		if mp.row(i, w).Contains(x, y) {
			return i
		}
	}
	return -1
}

// HandleHover implements vrwidget.Widget.
func (mp *MenuPanel) HandleHover(e vrwidget.Event) {
	switch e.Type {
	case vrwidget.EventHoverEnter, vrwidget.EventHoverMove:
		mp.hovered = mp.rowAt(e.X, e.Y)
	case vrwidget.EventHoverExit:
		mp.hovered = -1
	}
}

// HandleTouch implements vrwidget.Widget.
func (mp *MenuPanel) HandleTouch(e vrwidget.Event) {
	switch e.Type {
	case vrwidget.EventTouchDown:
		mp.pressed = mp.rowAt(e.X, e.Y)
		mp.hovered = mp.pressed
	case vrwidget.EventTouchMove:
		mp.hovered = mp.rowAt(e.X, e.Y)
	case vrwidget.EventTouchUp:
		i := mp.rowAt(e.X, e.Y)
		pressed := mp.pressed
		mp.pressed = -1
		if i < 0 || i != pressed {
			return
		}
		if mp.OnSelect != nil {
			mp.OnSelect(i, mp.Items[i])
		}
		mp.Dismiss()
	case vrwidget.EventTouchCancel:
		mp.pressed = -1
		mp.hovered = -1
	}
}

// Update implements vrwidget.Updater.
func (mp *MenuPanel) Update(dt float64) {
	if mp.opening == nil {
		return
	}
	mp.opening.Update(float32(dt))
	if mp.opening.Done {
		mp.opening = nil
	}
}

// Redraw paints the rows revealed so far by the open animation.
func (mp *MenuPanel) Redraw() {
	img := surfaceImage(mp.Surface())
	if img == nil {
		return
	}
	img.Fill(colorBackground)
	w, _, _ := surfaceBounds(mp.Surface())
	visible := int(float64(len(mp.Items))*mp.open + 0.5)
	for i := 0; i < visible && i < len(mp.Items); i++ {
		r := mp.row(i, w)
		if i == mp.hovered {
			fillRect(img, r.X, r.Y, r.Width, r.Height, colorRowHover)
		}
		drawLabel(img, mp.Items[i], 16, int(r.Y+r.Height/2)-labelSize/2)
	}
}

// ReleaseWidget clears row state and drops the surface.
func (mp *MenuPanel) ReleaseWidget() {
	mp.hovered = -1
	mp.pressed = -1
	mp.opening = nil
	mp.BaseWidget.ReleaseWidget()
}
