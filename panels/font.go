package panels

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// labelSize is the label font size in surface pixels.
const labelSize = 16

const ellipsis = "…"

// Font wraps Ebitengine's text/v2 face for panel labels.
type Font struct {
	face *text.GoTextFace
	lh   float64
}

// LoadFont loads a TrueType font from raw TTF/OTF data at the given size.
func LoadFont(ttfData []byte, size float64) (*Font, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("panels: parse font: %w", err)
	}
	face := &text.GoTextFace{Source: source, Size: size}
	m := face.Metrics()
	return &Font{face: face, lh: m.HAscent + m.HDescent + m.HLineGap}, nil
}

// MeasureString returns the width and height of s.
func (f *Font) MeasureString(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lh)
}

// LineHeight returns the vertical distance between baselines.
func (f *Font) LineHeight() float64 {
	return f.lh
}

// Truncate shortens s with a trailing ellipsis until it fits in maxWidth.
func (f *Font) Truncate(s string, maxWidth float64) string {
	if w, _ := f.MeasureString(s); w <= maxWidth {
		return s
	}
	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		cut := string(runes[:n]) + ellipsis
		if w, _ := f.MeasureString(cut); w <= maxWidth {
			return cut
		}
	}
	return ellipsis
}

// Draw renders s with its top-left corner at (x, y).
func (f *Font) Draw(dst *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = f.lh
	text.Draw(dst, s, f.face, op)
}

var labelFont = sync.OnceValues(func() (*Font, error) {
	return LoadFont(goregular.TTF, labelSize)
})

// drawLabel prints s at (x, y) in the label font. If the font cannot be
// loaded it falls back to ebiten's debug font.
func drawLabel(dst *ebiten.Image, s string, x, y int) {
	f, err := labelFont()
	if err != nil {
		ebitenutil.DebugPrintAt(dst, s, x, y)
		return
	}
	f.Draw(dst, s, float64(x), float64(y), colorText)
}

// fitLabel truncates s to maxWidth pixels of label text.
func fitLabel(s string, maxWidth float64) string {
	f, err := labelFont()
	if err != nil {
		return s
	}
	return f.Truncate(s, maxWidth)
}
