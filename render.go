package canopy

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// Renderer receives draw calls from System.Draw. world maps the element's
// local space (origin at the rect's top-left, extent size) to the target.
type Renderer interface {
	DrawRect(world Affine, size Vec2, fill Color)
	DrawImage(img *ebiten.Image, world Affine, size Vec2, tint Color)
	DrawText(s string, font Font, world Affine, size Vec2, align TextAlign, c Color)
}

// EbitenRenderer draws onto an Ebitengine image.
type EbitenRenderer struct {
	Target *ebiten.Image

	op   ebiten.DrawImageOptions
	tops text.DrawOptions
}

// NewEbitenRenderer returns a renderer drawing onto target.
func NewEbitenRenderer(target *ebiten.Image) *EbitenRenderer {
	return &EbitenRenderer{Target: target}
}

// whitePixel is a 1x1 white image used to draw solid rects.
var whitePixel *ebiten.Image

func ensureWhitePixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(color.White)
	}
	return whitePixel
}

// affineGeoM converts an Affine into an ebiten.GeoM.
func affineGeoM(m Affine) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

func scaleColor(cs *ebiten.ColorScale, c Color) {
	cs.Reset()
	cs.ScaleWithColor(c.toRGBA())
}

// DrawRect fills the local rect (0, 0, size) with fill.
func (r *EbitenRenderer) DrawRect(world Affine, size Vec2, fill Color) {
	if size.X <= 0 || size.Y <= 0 {
		return
	}
	r.op.GeoM.Reset()
	r.op.GeoM.Scale(size.X, size.Y)
	r.op.GeoM.Concat(affineGeoM(world))
	scaleColor(&r.op.ColorScale, fill)
	r.Target.DrawImage(ensureWhitePixel(), &r.op)
}

// DrawImage stretches img over the local rect (0, 0, size), tinted.
func (r *EbitenRenderer) DrawImage(img *ebiten.Image, world Affine, size Vec2, tint Color) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || size.X <= 0 || size.Y <= 0 {
		return
	}
	r.op.GeoM.Reset()
	r.op.GeoM.Scale(size.X/float64(b.Dx()), size.Y/float64(b.Dy()))
	r.op.GeoM.Concat(affineGeoM(world))
	scaleColor(&r.op.ColorScale, tint)
	r.Target.DrawImage(img, &r.op)
}

// DrawText draws s at the top of the local rect, horizontally aligned. Only
// *TTFFont is drawable; other fonts are skipped.
func (r *EbitenRenderer) DrawText(s string, font Font, world Affine, size Vec2, align TextAlign, c Color) {
	f, ok := font.(*TTFFont)
	if !ok {
		return
	}
	w, _ := f.MeasureString(s)
	r.tops.GeoM.Reset()
	r.tops.GeoM.Translate(textOrigin(align, size.X, w), 0)
	r.tops.GeoM.Concat(affineGeoM(world))
	scaleColor(&r.tops.ColorScale, c)
	r.tops.LineSpacing = f.lh
	text.Draw(r.Target, s, f.face, &r.tops)
}
