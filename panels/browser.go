package panels

import (
	"math"

	"github.com/phanxgames/vrwidget"
)

const (
	reloadRadius = 18
	reloadInset  = 28

	// tapSlop is how far a press may travel and still count as a tap.
	tapSlop = 8
)

// BrowserPanel is the content view. It scrolls with the scroll wheel or by
// dragging, takes focus when touched and has a reload button in its
// top-right corner.
type BrowserPanel struct {
	vrwidget.BaseWidget

	URL   string
	Title string

	// ContentHeight is the height of the page in surface pixels. The scroll
	// offset is clamped so the page never scrolls past its end.
	ContentHeight float64

	// OnReload fires when the reload button is tapped.
	OnReload func()

	scrollY float64
	hovered bool
	cursor  vrwidget.Vec2

	pressing     bool
	reloadArmed  bool
	lastTouch    vrwidget.Vec2
	touchSource  int
	dragDistance float64
}

// NewBrowserPanel creates a browser panel bound to m.
func NewBrowserPanel(m vrwidget.WidgetManager) *BrowserPanel {
	return &BrowserPanel{BaseWidget: vrwidget.NewBaseWidget(vrwidget.KindBrowser, m)}
}

// Navigate loads url and resets the scroll position.
func (b *BrowserPanel) Navigate(url string) {
	b.URL = url
	b.Title = ""
	b.scrollY = 0
}

// ScrollY returns the current vertical scroll offset in surface pixels.
func (b *BrowserPanel) ScrollY() float64 {
	return b.scrollY
}

// Hovered reports whether a pointer is over the panel.
func (b *BrowserPanel) Hovered() bool {
	return b.hovered
}

// Cursor returns the last hovered or touched position.
func (b *BrowserPanel) Cursor() vrwidget.Vec2 {
	return b.cursor
}

// reloadButton returns the reload hit area for the current surface.
func (b *BrowserPanel) reloadButton() (vrwidget.HitCircle, bool) {
	w, _, ok := surfaceBounds(b.Surface())
	if !ok {
		return vrwidget.HitCircle{}, false
	}
	return vrwidget.HitCircle{CenterX: w - reloadInset, CenterY: reloadInset, Radius: reloadRadius}, true
}

func (b *BrowserPanel) maxScroll() float64 {
	_, h, ok := surfaceBounds(b.Surface())
	if !ok {
		return 0
	}
	return math.Max(0, b.ContentHeight-h)
}

func (b *BrowserPanel) scrollBy(dy float64) {
	b.scrollY = math.Min(math.Max(b.scrollY+dy, 0), b.maxScroll())
}

// HandleHover implements vrwidget.Widget.
func (b *BrowserPanel) HandleHover(e vrwidget.Event) {
	switch e.Type {
	case vrwidget.EventHoverEnter, vrwidget.EventHoverMove:
		b.hovered = true
		b.cursor = vrwidget.Vec2{X: e.X, Y: e.Y}
	case vrwidget.EventHoverExit:
		b.hovered = false
	}
}

// HandleTouch implements vrwidget.Widget.
func (b *BrowserPanel) HandleTouch(e vrwidget.Event) {
	p := vrwidget.Vec2{X: e.X, Y: e.Y}
	switch e.Type {
	case vrwidget.EventTouchDown:
		b.RequestFocus()
		b.pressing = true
		b.touchSource = e.Source
		b.lastTouch = p
		b.dragDistance = 0
		btn, ok := b.reloadButton()
		b.reloadArmed = ok && btn.Contains(e.X, e.Y)
	case vrwidget.EventTouchMove:
		if !b.pressing || e.Source != b.touchSource {
			return
		}
		dy := p.Y - b.lastTouch.Y
		b.dragDistance += math.Abs(dy) + math.Abs(p.X-b.lastTouch.X)
		if !b.reloadArmed {
			b.scrollBy(-dy)
		}
		b.lastTouch = p
	case vrwidget.EventTouchUp:
		if !b.pressing || e.Source != b.touchSource {
			return
		}
		btn, ok := b.reloadButton()
		if b.reloadArmed && ok && btn.Contains(e.X, e.Y) && b.dragDistance <= tapSlop && b.OnReload != nil {
			b.OnReload()
		}
		b.pressing = false
		b.reloadArmed = false
	case vrwidget.EventTouchCancel:
		b.pressing = false
		b.reloadArmed = false
	}
	b.cursor = p
}

// HandleScroll implements vrwidget.Scroller. Positive ScrollY scrolls up.
func (b *BrowserPanel) HandleScroll(e vrwidget.Event) {
	b.scrollBy(-e.ScrollY)
}

// Redraw paints the panel into its surface. It does nothing without a
// valid surface.
func (b *BrowserPanel) Redraw() {
	img := surfaceImage(b.Surface())
	if img == nil {
		return
	}
	img.Fill(colorBackground)
	w, h, _ := surfaceBounds(b.Surface())
	fillRect(img, 0, 0, w, 2*reloadInset, colorBar)

	title := b.Title
	if title == "" {
		title = b.URL
	}
	drawLabel(img, fitLabel(title, w-2*reloadInset-24), 12, reloadInset-labelSize/2)
	if btn, ok := b.reloadButton(); ok {
		fillRect(img, btn.CenterX-btn.Radius/2, btn.CenterY-btn.Radius/2, btn.Radius, btn.Radius, colorButton)
	}

	if limit := b.maxScroll(); limit > 0 {
		track := h - 2*reloadInset
		thumb := math.Max(16, track*h/b.ContentHeight)
		y := 2*reloadInset + (track-thumb)*b.scrollY/limit
		fillRect(img, w-6, y, 4, thumb, colorButton)
	}
}

// ReleaseWidget drops gesture state and the surface.
func (b *BrowserPanel) ReleaseWidget() {
	b.hovered = false
	b.pressing = false
	b.reloadArmed = false
	b.BaseWidget.ReleaseWidget()
}
