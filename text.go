package canopy

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Font is the interface for text measurement. Renderers type-assert to the
// concrete fonts they can draw.
type Font interface {
	MeasureString(s string) (width, height float64)
	LineHeight() float64
}

// --- TTFFont ---

// TTFFont wraps Ebitengine's text/v2 for TrueType font rendering.
type TTFFont struct {
	face *text.GoTextFace
	data []byte
	size float64
	lh   float64 // cached line height
}

// LoadTTFFont loads a TrueType font from raw TTF/OTF data at the given size.
func LoadTTFFont(ttfData []byte, size float64) (*TTFFont, error) {
	if !isFinite(size) || size <= 0 {
		return nil, invalidArg("LoadTTFFont", size)
	}
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("canopy: failed to parse TTF data: %w", err)
	}
	face := &text.GoTextFace{Source: source, Size: size}
	m := face.Metrics()
	return &TTFFont{
		face: face,
		data: ttfData,
		size: size,
		lh:   m.HAscent + m.HDescent + m.HLineGap,
	}, nil
}

// MeasureString returns the width and height of the rendered text.
func (f *TTFFont) MeasureString(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lh)
}

// LineHeight returns the vertical distance between baselines.
func (f *TTFFont) LineHeight() float64 { return f.lh }

// Size returns the font size in pixels.
func (f *TTFFont) Size() float64 { return f.size }

// Face returns the underlying GoTextFace for direct Ebitengine text/v2 rendering.
func (f *TTFFont) Face() *text.GoTextFace { return f.face }

// Data returns the raw font file the font was loaded from.
func (f *TTFFont) Data() []byte { return f.data }

// --- Default font ---

var (
	defaultFontsMu sync.Mutex
	defaultFonts   = map[float64]*TTFFont{}
)

// DefaultFont returns the bundled Go Regular face at the given size. Faces are
// cached per size. Panics if size is not finite and positive.
func DefaultFont(size float64) *TTFFont {
	defaultFontsMu.Lock()
	defer defaultFontsMu.Unlock()
	if f, ok := defaultFonts[size]; ok {
		return f
	}
	f, err := LoadTTFFont(goregular.TTF, size)
	if err != nil {
		panic(fmt.Sprintf("canopy: bundled font: %v", err))
	}
	defaultFonts[size] = f
	return f
}

// textOrigin returns the top-left of a block of the given width inside a box
// of boxW, for the alignment.
func textOrigin(align TextAlign, boxW, w float64) float64 {
	switch align {
	case TextAlignCenter:
		return (boxW - w) / 2
	case TextAlignRight:
		return boxW - w
	}
	return 0
}
