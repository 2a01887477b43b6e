package panels

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/vrwidget"
)

// StatsWidth and StatsHeight are the stats panel size in dp.
const (
	StatsWidth  = 200
	StatsHeight = 64
)

// statsInterval is how often the text refreshes, in seconds.
const statsInterval = 0.5

// StatsPanel is a dynamic panel that shows FPS, TPS, the number of live
// widgets and the phase of every pointer source.
type StatsPanel struct {
	vrwidget.BaseWidget

	m       *vrwidget.Manager
	elapsed float64
	text    string
}

// NewStatsPanel creates a stats panel reporting on m.
func NewStatsPanel(m *vrwidget.Manager) *StatsPanel {
	return &StatsPanel{BaseWidget: vrwidget.NewBaseWidget(vrwidget.KindDynamic, m), m: m}
}

// Text returns the text drawn at the last refresh.
func (s *StatsPanel) Text() string {
	return s.text
}

func (s *StatsPanel) refresh() {
	var b strings.Builder
	fmt.Fprintf(&b, "FPS: %.1f  TPS: %.1f\n", ebiten.ActualFPS(), ebiten.ActualTPS())
	fmt.Fprintf(&b, "widgets: %d  frame: %d\n", s.m.Registry().Len(), s.m.Frame())
	for _, src := range s.m.Router().Sources() {
		st, _ := s.m.Router().State(src)
		target := st.Hovered
		if st.Phase == vrwidget.PhasePressing {
			target = st.Captured
		}
		fmt.Fprintf(&b, "src %d: %s %s\n", src, st.Phase, target)
	}
	s.text = strings.TrimRight(b.String(), "\n")

	img := surfaceImage(s.Surface())
	if img == nil {
		return
	}
	img.Clear()
	img.Fill(color.RGBA{0, 0, 0, 128})
	drawLabel(img, s.text, 4, 2)
}

// Update implements vrwidget.Updater. The first call refreshes immediately.
func (s *StatsPanel) Update(dt float64) {
	if s.text != "" {
		s.elapsed += dt
		if s.elapsed < statsInterval {
			return
		}
	}
	s.elapsed = 0
	s.refresh()
}

// HandleTouch implements vrwidget.Widget. The panel ignores touches.
func (s *StatsPanel) HandleTouch(vrwidget.Event) {}

// HandleHover implements vrwidget.Widget.
func (s *StatsPanel) HandleHover(vrwidget.Event) {}
