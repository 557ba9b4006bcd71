package canopy

import "math"

// Canvas is the root of one element tree. Its root element covers the screen:
// canvas space is the root's own space, and screen space is world space.
//
// With ScaleWithScreen set, Resize picks the scale factor that fits the
// reference resolution into the screen, so layouts authored at the reference
// resolution keep their proportions.
type Canvas struct {
	Name string

	// ScaleWithScreen derives the scale factor from the reference resolution
	// on every Resize.
	ScaleWithScreen bool

	root      *Element
	reference Vec2
	screen    Vec2
	scale     float64
	applied   bool
}

func newCanvas(name string) *Canvas {
	c := &Canvas{
		Name:      name,
		root:      NewElement(name),
		reference: Vec2{1280, 720},
		scale:     1,
	}
	rt := c.root.RectTransform()
	_ = rt.SetAnchors(Vec2{}, Vec2{})
	_ = rt.SetPivot(Vec2{})
	c.Resize(c.reference.X, c.reference.Y)
	return c
}

// Root returns the canvas's root element.
func (c *Canvas) Root() *Element {
	return c.root
}

// ReferenceResolution returns the resolution layouts are authored for.
func (c *Canvas) ReferenceResolution() Vec2 { return c.reference }

// SetReferenceResolution sets the authoring resolution. Components must be
// finite and positive.
func (c *Canvas) SetReferenceResolution(res Vec2) error {
	if !res.isFinite() || res.X <= 0 || res.Y <= 0 {
		return invalidArg("SetReferenceResolution", res)
	}
	c.reference = res
	c.apply()
	return nil
}

// ScaleFactor returns the screen pixels per canvas unit.
func (c *Canvas) ScaleFactor() float64 { return c.scale }

// SetScaleFactor sets the screen pixels per canvas unit. Must be finite and
// positive. Ignored on the next Resize when ScaleWithScreen is set.
func (c *Canvas) SetScaleFactor(f float64) error {
	if !isFinite(f) || f <= 0 {
		return invalidArg("SetScaleFactor", f)
	}
	c.scale = f
	c.apply()
	return nil
}

// ScreenSize returns the size passed to the last Resize.
func (c *Canvas) ScreenSize() Vec2 { return c.screen }

// Resize sets the screen size in pixels. Call it from the game's Layout.
// A call that changes neither the screen size nor the scale does nothing, so
// calling it every frame is cheap.
func (c *Canvas) Resize(width, height float64) {
	if !isFinite(width) || !isFinite(height) {
		return
	}
	screen := Vec2{math.Max(width, 0), math.Max(height, 0)}
	scale := c.scale
	if c.ScaleWithScreen {
		s := math.Min(screen.X/c.reference.X, screen.Y/c.reference.Y)
		if s > 0 && isFinite(s) {
			scale = s
		}
	}
	if c.applied && screen == c.screen && scale == c.scale {
		return
	}
	c.screen = screen
	c.scale = scale
	c.apply()
}

// apply pushes the screen size and scale into the root transform.
func (c *Canvas) apply() {
	c.applied = true
	rt := c.root.RectTransform()
	_ = rt.SetScale(Vec2{c.scale, c.scale})
	_ = rt.SetSize(Vec2{c.screen.X / c.scale, c.screen.Y / c.scale})
	relayoutAll(c.root)
}

// relayoutAll requests a layout pass from every panel under e. A screen
// resize is the one event that changes every panel's size at once.
func relayoutAll(e *Element) {
	if p := e.Panel(); p != nil {
		p.MarkLayoutDirty()
	}
	for _, child := range e.children {
		relayoutAll(child)
	}
}

// ScreenToCanvasPoint converts a screen pixel position to canvas units.
func (c *Canvas) ScreenToCanvasPoint(p Vec2) Vec2 {
	return c.root.rect.WorldToLocal(p)
}

// CanvasToScreenPoint converts canvas units to a screen pixel position.
func (c *Canvas) CanvasToScreenPoint(p Vec2) Vec2 {
	return c.root.rect.LocalToWorld(p)
}
