package panels

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/vrwidget"
)

var (
	colorBackground = color.RGBA{R: 0x20, G: 0x22, B: 0x28, A: 0xff}
	colorBar        = color.RGBA{R: 0x32, G: 0x35, B: 0x3d, A: 0xff}
	colorBarHover   = color.RGBA{R: 0x45, G: 0x6c, B: 0xb8, A: 0xff}
	colorRowHover   = color.RGBA{R: 0x3a, G: 0x5a, B: 0x96, A: 0xff}
	colorButton     = color.RGBA{R: 0xd0, G: 0xd4, B: 0xdc, A: 0xff}
	colorText       = color.RGBA{R: 0xee, G: 0xf0, B: 0xf4, A: 0xff}
)

// surfaceImage returns the image of s, or nil if s is unbound or stale.
func surfaceImage(s *vrwidget.Surface) *ebiten.Image {
	if s == nil || s.Check() != nil {
		return nil
	}
	return s.Image()
}

// surfaceBounds returns the size of s, or false when there is none.
func surfaceBounds(s *vrwidget.Surface) (float64, float64, bool) {
	if s == nil || !s.Valid() {
		return 0, 0, false
	}
	return float64(s.Width()), float64(s.Height()), true
}

func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

func fillRect(dst *ebiten.Image, x, y, w, h float64, c color.Color) {
	r := image.Rect(int(math.Round(x)), int(math.Round(y)), int(math.Round(x+w)), int(math.Round(y+h)))
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	dst.SubImage(r).(*ebiten.Image).Fill(c)
}
