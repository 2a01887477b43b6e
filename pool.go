package vrwidget

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// PoolAllocator keeps freed textures for reuse by the next surface of the
// same size. Menus and other panels that are opened and dismissed
// repeatedly rebind without touching the GPU allocator.
type PoolAllocator struct {
	next    TextureAllocator
	maxIdle int

	mu      sync.Mutex
	buckets map[uint64][]*ebiten.Image
	sizes   map[*ebiten.Image]uint64
}

// NewPoolAllocator wraps next, keeping at most maxIdle free textures per
// size.
func NewPoolAllocator(next TextureAllocator, maxIdle int) *PoolAllocator {
	if next == nil {
		next = EbitenAllocator{}
	}
	return &PoolAllocator{
		next:    next,
		maxIdle: maxIdle,
		buckets: make(map[uint64][]*ebiten.Image),
		sizes:   make(map[*ebiten.Image]uint64),
	}
}

// poolKey packs width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(uint32(h))
}

// Allocate returns a cleared pooled texture of the given size, or a new one.
func (p *PoolAllocator) Allocate(width, height int) (*ebiten.Image, error) {
	key := poolKey(width, height)
	p.mu.Lock()
	if stack := p.buckets[key]; len(stack) > 0 {
		img := stack[len(stack)-1]
		p.buckets[key] = stack[:len(stack)-1]
		p.mu.Unlock()
		img.Clear()
		return img, nil
	}
	p.mu.Unlock()

	img, err := p.next.Allocate(width, height)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.sizes[img] = key
	p.mu.Unlock()
	return img, nil
}

// Free returns img to the pool, or frees it when its bucket is full.
func (p *PoolAllocator) Free(img *ebiten.Image) {
	if img == nil {
		return
	}
	p.mu.Lock()
	key, ok := p.sizes[img]
	if ok && len(p.buckets[key]) < p.maxIdle {
		p.buckets[key] = append(p.buckets[key], img)
		p.mu.Unlock()
		return
	}
	delete(p.sizes, img)
	p.mu.Unlock()
	p.next.Free(img)
}

// Idle returns the number of pooled textures.
func (p *PoolAllocator) Idle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, stack := range p.buckets {
		n += len(stack)
	}
	return n
}

// Drain frees every pooled texture.
func (p *PoolAllocator) Drain() {
	p.mu.Lock()
	var idle []*ebiten.Image
	for key, stack := range p.buckets {
		idle = append(idle, stack...)
		delete(p.buckets, key)
	}
	for _, img := range idle {
		delete(p.sizes, img)
	}
	p.mu.Unlock()
	for _, img := range idle {
		p.next.Free(img)
	}
}
