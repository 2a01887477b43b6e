package vrwidget

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// previewIndices triangulates a quad given in surface corner order.
var previewIndices = []uint16{0, 1, 2, 0, 2, 3}

// PreviewRenderer draws a manager's draw list onto a flat ebiten screen by
// projecting each widget quad through a Camera. It is a debugging stand-in
// for the headset renderer: it only reads surfaces, never writes them.
type PreviewRenderer struct {
	verts []ebiten.Vertex
}

// projectQuad returns screen-space vertices for p textured with a w x h
// surface. ok is false if any corner is behind the camera.
func projectQuad(cam *Camera, p Placement, w, h int, dst []ebiten.Vertex) ([]ebiten.Vertex, bool) {
	corners := p.Corners()
	src := [4][2]float32{
		{0, 0},
		{float32(w), 0},
		{float32(w), float32(h)},
		{0, float32(h)},
	}
	dst = dst[:0]
	for i, c := range corners {
		sx, sy, ok := cam.WorldToScreen(c)
		if !ok {
			return dst, false
		}
		dst = append(dst, ebiten.Vertex{
			DstX:   float32(sx),
			DstY:   float32(sy),
			SrcX:   src[i][0],
			SrcY:   src[i][1],
			ColorR: 1,
			ColorG: 1,
			ColorB: 1,
			ColorA: 1,
		})
	}
	return dst, true
}

// Draw renders items (back to front, as returned by Manager.DrawList) onto
// screen. Stale surfaces and quads crossing the near plane are skipped.
func (pr *PreviewRenderer) Draw(screen *ebiten.Image, cam *Camera, items []DrawItem) {
	for _, it := range items {
		img := it.Surface.Image()
		if img == nil {
			continue
		}
		var ok bool
		pr.verts, ok = projectQuad(cam, it.Placement, it.Surface.Width(), it.Surface.Height(), pr.verts)
		if !ok {
			continue
		}
		var op ebiten.DrawTrianglesOptions
		op.Filter = ebiten.FilterLinear
		screen.DrawTriangles(pr.verts, previewIndices, img, &op)
	}
}
