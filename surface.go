package vrwidget

import (
	"fmt"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	defaultMaxSurfaceSize = 4096
	defaultPixelBudget    = 64 << 20 // 64M pixels
)

// Surface is the GPU-writable pixel surface bound to one widget. A Surface
// reference is valid from the Bind that returned it until the next rebind at
// a different size or Unbind; after that Valid is false, Image returns nil
// and Check returns ErrStaleSurface.
type Surface struct {
	handle     Handle
	width      int
	height     int
	generation uint64
	image      *ebiten.Image
	valid      bool
}

// Handle returns the widget the surface is bound to.
func (s *Surface) Handle() Handle {
	return s.handle
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int {
	return s.width
}

// Height returns the surface height in pixels.
func (s *Surface) Height() int {
	return s.height
}

// Size returns the surface dimensions in pixels.
func (s *Surface) Size() (int, int) {
	return s.width, s.height
}

// Generation identifies this binding. Every successful bind that creates a
// new backing texture gets a larger generation.
func (s *Surface) Generation() uint64 {
	return s.generation
}

// Valid reports whether the reference is still the widget's current surface.
func (s *Surface) Valid() bool {
	return s != nil && s.valid
}

// Image returns the backing texture, or nil once the surface is stale.
func (s *Surface) Image() *ebiten.Image {
	if !s.Valid() {
		return nil
	}
	return s.image
}

// Check returns ErrStaleSurface if the reference was invalidated.
func (s *Surface) Check() error {
	if s == nil {
		return fmt.Errorf("nil surface: %w", ErrStaleSurface)
	}
	if !s.valid {
		return fmt.Errorf("surface %s gen %d: %w", s.handle, s.generation, ErrStaleSurface)
	}
	return nil
}

func (s *Surface) invalidate() *ebiten.Image {
	img := s.image
	s.image = nil
	s.valid = false
	return img
}

// TextureAllocator creates and frees backing textures.
type TextureAllocator interface {
	Allocate(width, height int) (*ebiten.Image, error)
	Free(img *ebiten.Image)
}

// EbitenAllocator allocates textures with ebiten.NewImage and frees them
// with Deallocate.
type EbitenAllocator struct{}

// Allocate creates a width x height image.
func (EbitenAllocator) Allocate(width, height int) (*ebiten.Image, error) {
	return ebiten.NewImage(width, height), nil
}

// Free deallocates img.
func (EbitenAllocator) Free(img *ebiten.Image) {
	if img != nil {
		img.Deallocate()
	}
}

// SurfaceBinder owns the mapping from widget handles to their drawing
// surfaces. Surfaces are never shared between widgets and never outlive the
// owning widget's registration.
type SurfaceBinder struct {
	reg      *Registry
	alloc    TextureAllocator
	exec     Executor
	surfaces map[Handle]*Surface

	generation  uint64
	maxSize     int
	pixelBudget int
	pixelsInUse int

	log *logger
}

// NewSurfaceBinder creates a binder for widgets registered in reg, backed by
// ebiten textures allocated on the calling goroutine.
func NewSurfaceBinder(reg *Registry) *SurfaceBinder {
	return &SurfaceBinder{
		reg:         reg,
		alloc:       EbitenAllocator{},
		exec:        inlineExecutor{},
		surfaces:    make(map[Handle]*Surface),
		maxSize:     defaultMaxSurfaceSize,
		pixelBudget: defaultPixelBudget,
		log:         reg.log,
	}
}

// SetAllocator replaces the texture allocator. Existing surfaces keep the
// allocator that created them only if it is the same one; set this before
// the first Bind.
func (b *SurfaceBinder) SetAllocator(a TextureAllocator) {
	if a == nil {
		a = EbitenAllocator{}
	}
	b.alloc = a
}

// SetExecutor routes texture allocation and release through e, typically a
// ResourceThread. Bind and Unbind wait for completion.
func (b *SurfaceBinder) SetExecutor(e Executor) {
	if e == nil {
		e = inlineExecutor{}
	}
	b.exec = e
}

// SetLimits sets the largest allowed edge length and the total pixel budget
// across all surfaces. Zero keeps the current value.
func (b *SurfaceBinder) SetLimits(maxSize, pixelBudget int) {
	if maxSize > 0 {
		b.maxSize = maxSize
	}
	if pixelBudget > 0 {
		b.pixelBudget = pixelBudget
	}
}

// Bind creates or resizes the surface for h and hands it to the widget.
// Binding at the current size returns the current surface unchanged.
// Rebinding at a different size invalidates the previous reference. On
// failure the widget keeps its previous surface.
func (b *SurfaceBinder) Bind(h Handle, width, height int) (*Surface, error) {
	w, ok := b.reg.Lookup(h)
	if !ok {
		return nil, fmt.Errorf("bind %s: %w", h, ErrUnknownWidget)
	}
	if width <= 0 || height <= 0 || width > b.maxSize || height > b.maxSize {
		return nil, fmt.Errorf("bind %s: invalid size %dx%d (max %d): %w",
			h, width, height, b.maxSize, ErrSurfaceBind)
	}

	prev := b.surfaces[h]
	if prev != nil && prev.width == width && prev.height == height {
		return prev, nil
	}

	need := b.pixelsInUse + width*height
	if prev != nil {
		need -= prev.width * prev.height
	}
	if need > b.pixelBudget {
		return nil, fmt.Errorf("bind %s: %dx%d exceeds pixel budget (%d of %d in use): %w",
			h, width, height, b.pixelsInUse, b.pixelBudget, ErrSurfaceBind)
	}

	var (
		img *ebiten.Image
		err error
	)
	b.exec.Do(func() {
		img, err = b.alloc.Allocate(width, height)
	})
	if err != nil {
		return nil, fmt.Errorf("bind %s: allocate %dx%d: %v: %w", h, width, height, err, ErrSurfaceBind)
	}
	if img == nil {
		return nil, fmt.Errorf("bind %s: allocate %dx%d: no texture: %w", h, width, height, ErrSurfaceBind)
	}

	if prev != nil {
		b.free(prev)
	}
	b.generation++
	s := &Surface{
		handle:     h,
		width:      width,
		height:     height,
		generation: b.generation,
		image:      img,
		valid:      true,
	}
	b.surfaces[h] = s
	b.pixelsInUse += width * height
	w.SetSurface(s)
	return s, nil
}

// Unbind releases the surface for h. It is called automatically when the
// widget is released and is a no-op for handles without a surface.
func (b *SurfaceBinder) Unbind(h Handle) {
	s, ok := b.surfaces[h]
	if !ok {
		return
	}
	delete(b.surfaces, h)
	b.free(s)
	if w, live := b.reg.Lookup(h); live {
		w.SetSurface(nil)
	}
}

func (b *SurfaceBinder) free(s *Surface) {
	b.pixelsInUse -= s.width * s.height
	img := s.invalidate()
	if img != nil {
		b.exec.Do(func() {
			b.alloc.Free(img)
		})
	}
}

// Surface returns the current surface for h.
func (b *SurfaceBinder) Surface(h Handle) (*Surface, bool) {
	s, ok := b.surfaces[h]
	return s, ok
}

// PixelsInUse returns the total pixel count of all bound surfaces.
func (b *SurfaceBinder) PixelsInUse() int {
	return b.pixelsInUse
}

// Handles returns the handles that currently have a surface, ascending.
func (b *SurfaceBinder) Handles() []Handle {
	out := make([]Handle, 0, len(b.surfaces))
	for h := range b.surfaces {
		out = append(out, h)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of bound surfaces.
func (b *SurfaceBinder) Len() int {
	return len(b.surfaces)
}
