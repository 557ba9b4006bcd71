package canopy

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Screenshot queues a labeled screenshot. Under Run it is captured at the end
// of the frame's Draw; headless callers flush the queue with
// FlushScreenshots. Files go to the directory set by WithScreenshotDir.
func (s *System) Screenshot(label string) {
	s.screenshotQueue = append(s.screenshotQueue, label)
}

// PendingScreenshots returns the number of queued screenshot labels.
func (s *System) PendingScreenshots() int { return len(s.screenshotQueue) }

// screenshotPaths creates the screenshot directory and returns one path per
// queued label, clearing the queue.
func (s *System) screenshotPaths() ([]string, error) {
	defer func() { s.screenshotQueue = s.screenshotQueue[:0] }()
	if len(s.screenshotQueue) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(s.screenshotDir, 0o755); err != nil {
		return nil, fmt.Errorf("screenshot: mkdir %s: %w", s.screenshotDir, err)
	}
	stamp := time.Now().Format("20060102_150405")
	paths := make([]string, len(s.screenshotQueue))
	for i, label := range s.screenshotQueue {
		paths[i] = filepath.Join(s.screenshotDir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
	}
	return paths, nil
}

// FlushScreenshots writes every queued screenshot from r's current pixels.
func (s *System) FlushScreenshots(r *SoftwareRenderer) error {
	paths, err := s.screenshotPaths()
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := r.SavePNG(path); err != nil {
			return fmt.Errorf("screenshot: %w", err)
		}
	}
	return nil
}

// flushEbitenScreenshots captures the rendered frame for every queued label.
// Called at the end of the game's Draw.
func (s *System) flushEbitenScreenshots(screen *ebiten.Image) {
	paths, err := s.screenshotPaths()
	if err != nil {
		s.logger.Warn("canopy: screenshot failed", slog.Any("err", err))
		return
	}
	if len(paths) == 0 {
		return
	}

	bounds := screen.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, 4*w*h)
	screen.ReadPixels(pixels)

	// Convert premultiplied RGBA to straight-alpha NRGBA.
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(pixels); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}

	for _, path := range paths {
		if err := writePNG(path, img); err != nil {
			s.logger.Warn("canopy: screenshot failed", slog.Any("err", err))
		}
	}
}

// writePNG encodes an image to a PNG file at the given path.
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

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
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
