package canopy

import (
	"fmt"
	"io"
	"math"

	"github.com/gogpu/gg"
	ggtext "github.com/gogpu/gg/text"
	"github.com/hajimehoshi/ebiten/v2"
)

// SoftwareRenderer rasterizes a System on the CPU with gogpu/gg. It needs no
// window or GPU, so it serves headless snapshots and tests.
//
// Images draw as solid rects in their tint color since Ebitengine images
// cannot be read back before the game loop starts. Text is placed at the
// transformed top-left of its rect and is not rotated.
type SoftwareRenderer struct {
	ctx   *gg.Context
	faces map[*TTFFont]ggtext.Face
	err   error
}

// NewSoftwareRenderer creates a width x height RGBA canvas cleared to
// transparent.
func NewSoftwareRenderer(width, height int) *SoftwareRenderer {
	return &SoftwareRenderer{
		ctx:   gg.NewContext(width, height),
		faces: make(map[*TTFFont]ggtext.Face),
	}
}

// Context returns the underlying gg context.
func (r *SoftwareRenderer) Context() *gg.Context { return r.ctx }

// Err returns the first rasterization error since the last Clear.
func (r *SoftwareRenderer) Err() error { return r.err }

// Clear resets every pixel to transparent.
func (r *SoftwareRenderer) Clear() {
	r.ctx.Clear()
	r.err = nil
}

// ggMatrix converts an Affine into gg's row-major layout.
func ggMatrix(m Affine) gg.Matrix {
	return gg.Matrix{
		A: m[0], B: m[2], C: m[4],
		D: m[1], E: m[3], F: m[5],
	}
}

func (r *SoftwareRenderer) fill(world Affine, size Vec2, c Color) {
	if size.X <= 0 || size.Y <= 0 || c.A <= 0 {
		return
	}
	r.ctx.Push()
	r.ctx.SetTransform(ggMatrix(world))
	r.ctx.SetRGBA(clamp01(c.R), clamp01(c.G), clamp01(c.B), clamp01(c.A))
	r.ctx.DrawRectangle(0, 0, size.X, size.Y)
	if err := r.ctx.Fill(); err != nil && r.err == nil {
		r.err = fmt.Errorf("canopy: software fill: %w", err)
	}
	r.ctx.Pop()
}

// DrawRect fills the transformed rect.
func (r *SoftwareRenderer) DrawRect(world Affine, size Vec2, fill Color) {
	r.fill(world, size, fill)
}

// DrawImage fills the transformed rect with tint.
func (r *SoftwareRenderer) DrawImage(_ *ebiten.Image, world Affine, size Vec2, tint Color) {
	r.fill(world, size, tint)
}

// DrawText draws s with a gg face built from the TTFFont's data. Other Font
// implementations are skipped.
func (r *SoftwareRenderer) DrawText(s string, font Font, world Affine, size Vec2, align TextAlign, c Color) {
	f, ok := font.(*TTFFont)
	if !ok || s == "" {
		return
	}
	face, err := r.face(f)
	if err != nil {
		if r.err == nil {
			r.err = err
		}
		return
	}
	w := face.Advance(s)
	origin := world.Apply(Vec2{textOrigin(align, size.X, w), 0})
	// Vertical scale of the world matrix, for the baseline offset.
	sy := math.Hypot(world[2], world[3])
	baseline := origin.Y + face.Metrics().Ascent*sy

	r.ctx.Push()
	r.ctx.Identity()
	r.ctx.SetRGBA(clamp01(c.R), clamp01(c.G), clamp01(c.B), clamp01(c.A))
	r.ctx.SetFont(face)
	r.ctx.DrawString(s, origin.X, baseline)
	r.ctx.Pop()
}

func (r *SoftwareRenderer) face(f *TTFFont) (ggtext.Face, error) {
	if face, ok := r.faces[f]; ok {
		return face, nil
	}
	src, err := ggtext.NewFontSource(f.Data())
	if err != nil {
		return nil, fmt.Errorf("canopy: software font: %w", err)
	}
	face := src.Face(f.Size())
	r.faces[f] = face
	return face, nil
}

// EncodePNG writes the current pixels as PNG.
func (r *SoftwareRenderer) EncodePNG(w io.Writer) error {
	return r.ctx.EncodePNG(w)
}

// SavePNG writes the current pixels to a PNG file.
func (r *SoftwareRenderer) SavePNG(path string) error {
	return r.ctx.SavePNG(path)
}
