package canopy

import "github.com/hajimehoshi/ebiten/v2"

// Widget is the visual variant attached to an Element. The set is closed:
// Image, Text, and Panel are the only implementations.
type Widget interface {
	draw(r Renderer, e *Element)
	update(e *Element, dt float64)
	hitTest(e *Element, local Vec2) bool
}

// --- Image ---

// FillDirection selects which edge a partially filled Image grows from.
type FillDirection uint8

const (
	FillLeftToRight FillDirection = iota
	FillRightToLeft
	FillBottomToTop
	FillTopToBottom
)

// Image draws a tinted texture, or a solid rectangle when Texture is nil.
type Image struct {
	Texture       *ebiten.Image
	Color         Color
	FillDirection FillDirection

	fillAmount float64
}

// NewImage creates an element that draws a solid white rectangle until a
// texture or color is set.
func NewImage(name string) *Element {
	e := NewElement(name)
	e.widget = &Image{Color: ColorWhite, fillAmount: 1}
	return e
}

// FillAmount returns the visible fraction in [0, 1].
func (img *Image) FillAmount() float64 { return img.fillAmount }

// SetFillAmount sets the visible fraction, clamped into [0, 1].
func (img *Image) SetFillAmount(amount float64) {
	if !isFinite(amount) {
		return
	}
	img.fillAmount = clamp01(amount)
}

// filledRect returns the visible part of the local rect of size s.
func (img *Image) filledRect(s Vec2) Rect {
	f := img.fillAmount
	switch img.FillDirection {
	case FillRightToLeft:
		return Rect{X: s.X * (1 - f), Width: s.X * f, Height: s.Y}
	case FillBottomToTop:
		return Rect{Y: s.Y * (1 - f), Width: s.X, Height: s.Y * f}
	case FillTopToBottom:
		return Rect{Width: s.X, Height: s.Y * f}
	default:
		return Rect{Width: s.X * f, Height: s.Y}
	}
}

func (img *Image) draw(r Renderer, e *Element) {
	if img.fillAmount <= 0 || img.Color.A <= 0 {
		return
	}
	rt := e.RectTransform()
	area := img.filledRect(rt.ResolvedSize())
	world := rt.LocalToWorldMatrix().Mul(Affine{1, 0, 0, 1, area.X, area.Y})
	size := Vec2{area.Width, area.Height}
	if img.Texture != nil {
		r.DrawImage(img.Texture, world, size, img.Color)
		return
	}
	r.DrawRect(world, size, img.Color)
}

func (img *Image) update(*Element, float64) {}

func (img *Image) hitTest(_ *Element, _ Vec2) bool { return true }

// Image returns the element's Image widget, or nil.
func (e *Element) Image() *Image {
	img, _ := e.widget.(*Image)
	return img
}

// --- Text ---

// Text draws a single block of text inside the element's rectangle.
type Text struct {
	Content string
	Font    Font
	Color   Color
	Align   TextAlign
}

// NewText creates an element showing content in font.
func NewText(name, content string, font Font) *Element {
	e := NewElement(name)
	e.widget = &Text{Content: content, Font: font, Color: ColorWhite}
	return e
}

// PreferredSize measures the content with the widget's font. Returns zero
// when no font is set.
func (t *Text) PreferredSize() Vec2 {
	if t.Font == nil {
		return Vec2{}
	}
	w, h := t.Font.MeasureString(t.Content)
	return Vec2{w, h}
}

func (t *Text) draw(r Renderer, e *Element) {
	if t.Content == "" || t.Font == nil || t.Color.A <= 0 {
		return
	}
	rt := e.RectTransform()
	r.DrawText(t.Content, t.Font, rt.LocalToWorldMatrix(), rt.ResolvedSize(), t.Align, t.Color)
}

func (t *Text) update(*Element, float64) {}

// Text is not a pointer target; clicks fall through to whatever is below.
func (t *Text) hitTest(_ *Element, _ Vec2) bool { return false }

// Text returns the element's Text widget, or nil.
func (e *Element) Text() *Text {
	t, _ := e.widget.(*Text)
	return t
}

// FitToText resizes the element to its text's preferred size. It does not
// mark any parent layout dirty; call MarkLayoutDirty on the panel if needed.
func (e *Element) FitToText() error {
	t := e.Text()
	if t == nil {
		return nil
	}
	return e.rect.SetSize(t.PreferredSize())
}
