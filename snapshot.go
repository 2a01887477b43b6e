package vrwidget

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// snapshotRequest is one queued surface capture.
type snapshotRequest struct {
	handle Handle
	label  string
}

// Snapshot queues a PNG capture of h's surface. Captures are taken at the
// end of the next Update and written to Config.SnapshotDir with a
// timestamped file name. Requests for widgets without a valid surface at
// that point are logged and dropped.
func (m *Manager) Snapshot(h Handle, label string) {
	m.snapshots = append(m.snapshots, snapshotRequest{handle: h, label: label})
}

// flushSnapshots captures every queued surface.
func (m *Manager) flushSnapshots() {
	if len(m.snapshots) == 0 {
		return
	}
	queue := m.snapshots
	m.snapshots = nil

	dir := m.cfg.SnapshotDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.log.warnf("snapshot: mkdir %s: %v", dir, err)
		return
	}
	stamp := time.Now().Format("20060102_150405")

	for _, req := range queue {
		s, ok := m.surfaces.Surface(req.handle)
		if !ok || s.Image() == nil {
			m.log.warnf("snapshot %s: no surface", req.handle)
			continue
		}
		w, h := s.Width(), s.Height()
		pixels := make([]byte, 4*w*h)
		s.Image().ReadPixels(pixels)

		name := fmt.Sprintf("%s_%d_%s.png", stamp, int(req.handle), sanitizeLabel(req.label))
		if err := writePNG(filepath.Join(dir, name), unpremultiply(pixels, w, h)); err != nil {
			m.log.warnf("snapshot %s: %v", req.handle, err)
		}
	}
}

// unpremultiply converts premultiplied RGBA pixels to straight-alpha NRGBA.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pixels) && i+3 < len(img.Pix); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = r, g, b, a
	}
	return img
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel keeps letters, digits, '-' and '.', replaces everything
// else with '_', and names empty labels "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
