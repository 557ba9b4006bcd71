package canopy

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to four values on an Element at once. Create one via
// the constructors (TweenPosition, TweenSize, TweenScale, TweenRotation,
// TweenOffsets, TweenColor) and call Update(dt) each frame. Values go through the
// RectTransform setters, so dirty marking follows the usual rules. If the
// element is disposed the group stops immediately.
//
// There is no global animation manager; callers own the groups and update them.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	apply  func(v [4]float64)
	target *Element
	Done   bool
}

func newTweenGroup(e *Element, from, to []float64, duration float32, fn ease.TweenFunc, apply func([4]float64)) *TweenGroup {
	g := &TweenGroup{count: len(from), target: e, apply: apply}
	for i := range from {
		g.tweens[i] = gween.New(float32(from[i]), float32(to[i]), duration, fn)
	}
	return g
}

// Update advances all tweens by dt seconds and applies the values. If the
// element has been disposed, Done is set and nothing is written.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	var vals [4]float64
	allDone := true
	for i := 0; i < g.count; i++ {
		v, finished := g.tweens[i].Update(dt)
		vals[i] = float64(v)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	g.apply(vals)
}

// Reset rewinds every tween to its start.
func (g *TweenGroup) Reset() {
	for i := 0; i < g.count; i++ {
		g.tweens[i].Reset()
	}
	g.Done = false
}

// TweenPosition animates the element's anchored position.
func TweenPosition(e *Element, to Vec2, duration float32, fn ease.TweenFunc) *TweenGroup {
	rt := e.RectTransform()
	from := rt.Position()
	return newTweenGroup(e, []float64{from.X, from.Y}, []float64{to.X, to.Y}, duration, fn,
		func(v [4]float64) { _ = rt.SetPosition(Vec2{v[0], v[1]}) })
}

// TweenSize animates the element's size. Layout is not re-run; call
// MarkLayoutDirty on the parent panel if siblings should follow.
func TweenSize(e *Element, to Vec2, duration float32, fn ease.TweenFunc) *TweenGroup {
	rt := e.RectTransform()
	from := rt.Size()
	return newTweenGroup(e, []float64{from.X, from.Y}, []float64{to.X, to.Y}, duration, fn,
		func(v [4]float64) { _ = rt.SetSize(Vec2{v[0], v[1]}) })
}

// TweenScale animates the element's scale.
func TweenScale(e *Element, to Vec2, duration float32, fn ease.TweenFunc) *TweenGroup {
	rt := e.RectTransform()
	from := rt.Scale()
	return newTweenGroup(e, []float64{from.X, from.Y}, []float64{to.X, to.Y}, duration, fn,
		func(v [4]float64) { _ = rt.SetScale(Vec2{v[0], v[1]}) })
}

// TweenRotation animates the element's rotation in degrees.
func TweenRotation(e *Element, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	rt := e.RectTransform()
	return newTweenGroup(e, []float64{rt.Rotation()}, []float64{to}, duration, fn,
		func(v [4]float64) { _ = rt.SetRotation(v[0]) })
}

// TweenOffsets animates the stretch offsets (left, top, right, bottom).
func TweenOffsets(e *Element, to Edges, duration float32, fn ease.TweenFunc) *TweenGroup {
	rt := e.RectTransform()
	from := rt.Offsets()
	return newTweenGroup(e,
		[]float64{from.Left, from.Top, from.Right, from.Bottom},
		[]float64{to.Left, to.Top, to.Right, to.Bottom}, duration, fn,
		func(v [4]float64) { _ = rt.SetOffsets(Edges{v[0], v[1], v[2], v[3]}) })
}

// TweenColor animates all four components of c, typically an Image's or
// Panel's color field owned by e.
func TweenColor(e *Element, c *Color, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(e, []float64{c.R, c.G, c.B, c.A}, []float64{to.R, to.G, to.B, to.A}, duration, fn,
		func(v [4]float64) { *c = Color{v[0], v[1], v[2], v[3]} })
}
