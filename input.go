package vrwidget

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// maxPointers bounds the pointer sources EbitenInput produces: source 0 is
// the mouse, 1-9 are touches.
const maxPointers = 10

// MouseSource is the pointer source id EbitenInput uses for the mouse.
const MouseSource = 0

// EbitenInput turns ebiten mouse and touch state into pointer samples by
// casting rays through a Camera. It stands in for a VR controller on
// desktop and mobile.
type EbitenInput struct {
	Camera *Camera

	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	touchRay     [maxPointers]Ray
	prevTouchIDs []ebiten.TouchID
}

// NewEbitenInput creates an input adapter for cam.
func NewEbitenInput(cam *Camera) *EbitenInput {
	return &EbitenInput{Camera: cam}
}

// Poll appends this frame's samples to out: always one for the mouse, one
// per active touch, and a release sample for every touch that ended.
func (in *EbitenInput) Poll(frame uint64, out []Sample) []Sample {
	mx, my := ebiten.CursorPosition()
	wx, wy := ebiten.Wheel()
	out = append(out, Sample{
		Source:  MouseSource,
		Ray:     in.Camera.ScreenToRay(float64(mx), float64(my)),
		Down:    ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Frame:   frame,
		ScrollX: wx,
		ScrollY: wy,
	})

	touchIDs := ebiten.AppendTouchIDs(in.prevTouchIDs[:0])
	in.prevTouchIDs = touchIDs

	var active [maxPointers]bool
	for _, tid := range touchIDs {
		slot := in.touchSlot(tid)
		if slot < 0 {
			continue
		}
		active[slot] = true
		tx, ty := ebiten.TouchPosition(tid)
		r := in.Camera.ScreenToRay(float64(tx), float64(ty))
		in.touchRay[slot] = r
		out = append(out, Sample{Source: slot, Ray: r, Down: true, Frame: frame})
	}
	return in.releaseEnded(active, frame, out)
}

// releaseEnded emits a release sample for every used slot that is no longer
// active and frees the slot.
func (in *EbitenInput) releaseEnded(active [maxPointers]bool, frame uint64, out []Sample) []Sample {
	for i := 1; i < maxPointers; i++ {
		if in.touchUsed[i] && !active[i] {
			out = append(out, Sample{Source: i, Ray: in.touchRay[i], Frame: frame})
			in.touchUsed[i] = false
			in.touchMap[i] = 0
		}
	}
	return out
}

// touchSlot maps an ebiten.TouchID to a pointer source (1-9). Returns the
// existing slot or allocates a new one. Returns -1 if full.
func (in *EbitenInput) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if in.touchUsed[i] && in.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !in.touchUsed[i] {
			in.touchUsed[i] = true
			in.touchMap[i] = tid
			return i
		}
	}
	return -1
}
