package canopy

import (
	"errors"
	"math"
	"testing"
)

func TestCanvasDefaults(t *testing.T) {
	c := NewSystem().NewCanvas("ui")
	assertVec(t, "reference", c.ReferenceResolution(), Vec2{1280, 720})
	assertVec(t, "screen", c.ScreenSize(), Vec2{1280, 720})
	assertNear(t, "scale", c.ScaleFactor(), 1)
	assertRect(t, "root", c.Root().RectTransform().WorldRect(), Rect{0, 0, 1280, 720})
}

func TestCanvasResize(t *testing.T) {
	c := NewSystem().NewCanvas("ui")
	c.Resize(800, 600)
	assertRect(t, "root", c.Root().RectTransform().WorldRect(), Rect{0, 0, 800, 600})

	// Garbage sizes are ignored; negative clamps to zero.
	c.Resize(math.NaN(), 100)
	assertVec(t, "screen after NaN", c.ScreenSize(), Vec2{800, 600})
	c.Resize(-5, 100)
	assertVec(t, "screen after negative", c.ScreenSize(), Vec2{0, 100})
}

func TestCanvasScaleFactor(t *testing.T) {
	c := NewSystem().NewCanvas("ui")
	if err := c.SetScaleFactor(2); err != nil {
		t.Fatal(err)
	}
	rt := c.Root().RectTransform()
	assertVec(t, "root size", rt.ResolvedSize(), Vec2{640, 360})
	assertRect(t, "root world", rt.WorldRect(), Rect{0, 0, 1280, 720})

	assertVec(t, "screen to canvas", c.ScreenToCanvasPoint(Vec2{100, 50}), Vec2{50, 25})
	assertVec(t, "canvas to screen", c.CanvasToScreenPoint(Vec2{50, 25}), Vec2{100, 50})

	for _, bad := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := c.SetScaleFactor(bad); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("SetScaleFactor(%v) err = %v", bad, err)
		}
	}
	assertNear(t, "scale unchanged", c.ScaleFactor(), 2)
}

func TestCanvasScaleWithScreen(t *testing.T) {
	c := NewSystem().NewCanvas("ui")
	c.ScaleWithScreen = true

	c.Resize(2560, 1440)
	assertNear(t, "scale 2x", c.ScaleFactor(), 2)
	assertVec(t, "root size", c.Root().RectTransform().ResolvedSize(), Vec2{1280, 720})

	// Narrower than the reference aspect: width governs.
	c.Resize(640, 720)
	assertNear(t, "scale narrow", c.ScaleFactor(), 0.5)
	assertVec(t, "root size narrow", c.Root().RectTransform().ResolvedSize(), Vec2{1280, 1440})

	// A zero-sized screen keeps the previous scale.
	c.Resize(0, 0)
	assertNear(t, "scale zero screen", c.ScaleFactor(), 0.5)
}

func TestCanvasReferenceResolution(t *testing.T) {
	c := NewSystem().NewCanvas("ui")
	c.ScaleWithScreen = true
	if err := c.SetReferenceResolution(Vec2{640, 360}); err != nil {
		t.Fatal(err)
	}
	c.Resize(1280, 720)
	assertNear(t, "scale", c.ScaleFactor(), 2)

	if err := c.SetReferenceResolution(Vec2{0, 360}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("zero reference err = %v", err)
	}
}

func TestCanvasResizeRelayouts(t *testing.T) {
	sys := NewSystem()
	c := sys.NewCanvas("ui")

	bar := NewPanel("bar")
	_ = bar.RectTransform().SetAnchorPreset(AnchorStretchTop, false)
	p := bar.Panel()
	p.SetLayoutMode(LayoutHorizontal)
	p.SetChildAlignment(AlignUpperRight)
	_ = p.SetPadding(Edges{})
	_ = c.Root().AddChild(bar)

	item := NewImage("item")
	_ = item.RectTransform().SetSize(Vec2{100, 20})
	_ = bar.AddChild(item)

	sys.Update(0.016)
	w := bar.RectTransform().ResolvedSize().X
	assertNear(t, "item x", item.RectTransform().LocalRect().X, w-100)

	c.Resize(1000, 720)
	if !p.IsLayoutDirty() {
		t.Fatal("resize should request a relayout")
	}
	sys.Update(0.016)
	w = bar.RectTransform().ResolvedSize().X
	assertNear(t, "item x after resize", item.RectTransform().LocalRect().X, w-100)
}

func TestCanvasSameSizeResizeKeepsLayoutClean(t *testing.T) {
	sys := NewSystem()
	c := sys.NewCanvas("ui")

	list := NewPanel("list")
	p := list.Panel()
	p.SetLayoutMode(LayoutVertical)
	_ = c.Root().AddChild(list)

	sys.Update(0.016)
	if p.IsLayoutDirty() {
		t.Fatal("layout should be clean after Update")
	}

	c.Resize(1280, 720)
	if p.IsLayoutDirty() {
		t.Error("resize to the current size should not request a relayout")
	}
	c.ScaleWithScreen = true
	c.Resize(1280, 720)
	if p.IsLayoutDirty() {
		t.Error("unchanged derived scale should not request a relayout")
	}

	c.Resize(640, 360)
	if !p.IsLayoutDirty() {
		t.Error("a real resize should request a relayout")
	}
	assertNear(t, "scale", c.ScaleFactor(), 0.5)
}
