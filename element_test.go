package canopy

import (
	"errors"
	"testing"
)

// --- Constructor defaults ---

func TestNewElementDefaults(t *testing.T) {
	e := NewElement("test")
	assertElementDefaults(t, e, "test")
	if e.Widget() != nil {
		t.Error("plain element should have no widget")
	}
}

func TestNewImageDefaults(t *testing.T) {
	e := NewImage("img")
	assertElementDefaults(t, e, "img")
	img := e.Image()
	if img == nil {
		t.Fatal("Image() = nil")
	}
	if img.Color != ColorWhite || img.FillAmount() != 1 {
		t.Errorf("image = %+v", img)
	}
	if e.Panel() != nil || e.Text() != nil {
		t.Error("wrong widget accessors returned non-nil")
	}
}

func TestNewTextDefaults(t *testing.T) {
	e := NewText("label", "hello", nil)
	assertElementDefaults(t, e, "label")
	if e.Text() == nil || e.Text().Content != "hello" {
		t.Errorf("text = %+v", e.Text())
	}
}

func assertElementDefaults(t *testing.T, e *Element, name string) {
	t.Helper()
	if e.ID == 0 {
		t.Error("ID should be non-zero")
	}
	if e.Name != name {
		t.Errorf("Name = %q, want %q", e.Name, name)
	}
	if !e.IsActive() || !e.IsVisible() || !e.IsInteractable() {
		t.Error("new element should be active, visible, and interactable")
	}
	if !e.RectTransform().IsDirty() {
		t.Error("transform should start dirty")
	}
	if e.RectTransform().Size() != (Vec2{100, 100}) {
		t.Errorf("Size = %v", e.RectTransform().Size())
	}
}

func TestUniqueIDs(t *testing.T) {
	a := NewElement("a")
	b := NewElement("b")
	if a.ID == b.ID {
		t.Errorf("IDs should differ: %d == %d", a.ID, b.ID)
	}
}

// --- AddChild ---

func TestAddChildBasic(t *testing.T) {
	parent := NewElement("parent")
	child := NewElement("child")
	if err := parent.AddChild(child); err != nil {
		t.Fatal(err)
	}
	if child.Parent() != parent {
		t.Error("child.Parent() should be parent")
	}
	if parent.NumChildren() != 1 || parent.ChildAt(0) != child {
		t.Error("child not in parent's list")
	}
	if child.RectTransform().Parent() != parent.RectTransform() {
		t.Error("transform tree not linked")
	}
}

func TestAddChildReparent(t *testing.T) {
	p1 := NewElement("p1")
	p2 := NewElement("p2")
	child := NewElement("child")
	_ = p1.AddChild(child)
	_ = p2.AddChild(child)

	if p1.NumChildren() != 0 || len(p1.RectTransform().Children()) != 0 {
		t.Error("p1 should have 0 children after reparent")
	}
	if p2.NumChildren() != 1 || child.Parent() != p2 {
		t.Error("child should belong to p2")
	}
	if child.RectTransform().Parent() != p2.RectTransform() {
		t.Error("transform parent should be p2's")
	}
}

func TestAddChildCycle(t *testing.T) {
	parent := NewElement("parent")
	child := NewElement("child")
	grandchild := NewElement("grandchild")
	_ = parent.AddChild(child)
	_ = child.AddChild(grandchild)

	if err := grandchild.AddChild(parent); !errors.Is(err, ErrCycle) {
		t.Fatalf("err = %v, want ErrCycle", err)
	}
	if err := child.AddChild(child); !errors.Is(err, ErrCycle) {
		t.Fatalf("self add err = %v, want ErrCycle", err)
	}
	if parent.Parent() != nil || grandchild.Parent() != child || child.NumChildren() != 1 {
		t.Error("tree changed after rejected add")
	}
}

func TestTransformSetParentMovesElements(t *testing.T) {
	a := NewElement("a")
	b := NewElement("b")

	if err := b.RectTransform().SetParent(a.RectTransform()); err != nil {
		t.Fatal(err)
	}
	if b.Parent() != a || a.NumChildren() != 1 {
		t.Fatal("element tree should follow the transform reparent")
	}
	if b.RectTransform().Parent() != a.RectTransform() {
		t.Fatal("transform parent should be a's")
	}

	if err := b.AddChild(a); !errors.Is(err, ErrCycle) {
		t.Fatalf("err = %v, want ErrCycle", err)
	}
	if a.Parent() != nil || b.NumChildren() != 0 || len(b.RectTransform().Children()) != 0 {
		t.Error("tree changed after rejected add")
	}

	if err := b.RectTransform().SetParent(nil); err != nil {
		t.Fatal(err)
	}
	if b.Parent() != nil || a.NumChildren() != 0 || len(a.RectTransform().Children()) != 0 {
		t.Error("detach should clear both trees")
	}
}

func TestTransformSetParentRequestsLayout(t *testing.T) {
	panel := NewPanel("panel")
	p := panel.Panel()
	p.SetLayoutMode(LayoutVertical)
	p.UpdateLayout()

	item := NewImage("item")
	if err := item.RectTransform().SetParent(panel.RectTransform()); err != nil {
		t.Fatal(err)
	}
	if !p.IsLayoutDirty() {
		t.Error("adding a child through its transform should dirty the layout")
	}
}

func TestTransformSetParentRejectsMixedTrees(t *testing.T) {
	e := NewElement("e")
	rt := NewRectTransform()

	if err := rt.SetParent(e.RectTransform()); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("standalone under element: err = %v, want ErrInvalidArgument", err)
	}
	if err := e.RectTransform().SetParent(rt); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("element under standalone: err = %v, want ErrInvalidArgument", err)
	}
	if rt.Parent() != nil || e.RectTransform().Parent() != nil {
		t.Error("rejected SetParent changed a parent")
	}
	if len(rt.Children()) != 0 || len(e.RectTransform().Children()) != 0 {
		t.Error("rejected SetParent changed a child list")
	}
}

func TestAddChildNilPanic(t *testing.T) {
	e := NewElement("e")
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for nil child, got none")
		}
	}()
	_ = e.AddChild(nil)
}

func TestAddChildAt(t *testing.T) {
	parent := NewElement("parent")
	a := NewElement("a")
	b := NewElement("b")
	c := NewElement("c")
	_ = parent.AddChild(a)
	_ = parent.AddChild(c)
	if err := parent.AddChildAt(b, 1); err != nil {
		t.Fatal(err)
	}

	want := []*Element{a, b, c}
	for i, w := range want {
		if parent.ChildAt(i) != w {
			t.Errorf("ChildAt(%d) = %q, want %q", i, parent.ChildAt(i).Name, w.Name)
		}
		if parent.RectTransform().Children()[i] != w.RectTransform() {
			t.Errorf("transform child %d out of sync", i)
		}
	}
}

func TestAddChildAtOutOfRangePanic(t *testing.T) {
	parent := NewElement("parent")
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic, got none")
		}
	}()
	_ = parent.AddChildAt(NewElement("x"), 2)
}

// --- Remove ---

func TestRemoveChild(t *testing.T) {
	parent := NewElement("parent")
	child := NewElement("child")
	_ = parent.AddChild(child)
	child.RectTransform().WorldRect()

	parent.RemoveChild(child)
	if child.Parent() != nil || parent.NumChildren() != 0 {
		t.Error("child not removed")
	}
	if child.RectTransform().Parent() != nil {
		t.Error("transform still linked")
	}
	if !child.RectTransform().IsDirty() {
		t.Error("child should be dirty after removal")
	}
}

func TestRemoveChildWrongParentPanic(t *testing.T) {
	p1 := NewElement("p1")
	p2 := NewElement("p2")
	child := NewElement("child")
	_ = p1.AddChild(child)
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic, got none")
		}
	}()
	p2.RemoveChild(child)
}

func TestRemoveChildAt(t *testing.T) {
	parent := NewElement("parent")
	a := NewElement("a")
	b := NewElement("b")
	_ = parent.AddChild(a)
	_ = parent.AddChild(b)

	if got := parent.RemoveChildAt(0); got != a {
		t.Errorf("RemoveChildAt(0) = %q", got.Name)
	}
	if parent.NumChildren() != 1 || parent.ChildAt(0) != b {
		t.Error("wrong remaining child")
	}
}

func TestRemoveFromParent(t *testing.T) {
	parent := NewElement("parent")
	child := NewElement("child")
	_ = parent.AddChild(child)
	child.RemoveFromParent()
	if parent.NumChildren() != 0 {
		t.Error("child not removed")
	}
	child.RemoveFromParent() // no-op
}

func TestRemoveChildren(t *testing.T) {
	parent := NewElement("parent")
	kids := []*Element{NewElement("a"), NewElement("b"), NewElement("c")}
	for _, k := range kids {
		_ = parent.AddChild(k)
	}
	parent.RemoveChildren()
	if parent.NumChildren() != 0 || len(parent.RectTransform().Children()) != 0 {
		t.Error("children remain")
	}
	for _, k := range kids {
		if k.Parent() != nil || k.RectTransform().Parent() != nil {
			t.Errorf("%q still linked", k.Name)
		}
	}
}

// --- Ordering ---

func TestSetChildIndex(t *testing.T) {
	parent := NewElement("parent")
	a := NewElement("a")
	b := NewElement("b")
	c := NewElement("c")
	for _, k := range []*Element{a, b, c} {
		_ = parent.AddChild(k)
	}
	parent.SetChildIndex(a, 2)

	want := []*Element{b, c, a}
	for i, w := range want {
		if parent.ChildAt(i) != w {
			t.Errorf("ChildAt(%d) = %q, want %q", i, parent.ChildAt(i).Name, w.Name)
		}
		if parent.RectTransform().Children()[i] != w.RectTransform() {
			t.Errorf("transform child %d out of sync", i)
		}
	}
}

func TestPaintOrderBySortingOrder(t *testing.T) {
	parent := NewElement("parent")
	a := NewElement("a")
	b := NewElement("b")
	c := NewElement("c")
	for _, k := range []*Element{a, b, c} {
		_ = parent.AddChild(k)
	}
	a.SetSortingOrder(5)

	got := parent.paintOrder()
	want := []*Element{b, c, a}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paintOrder[%d] = %q, want %q", i, got[i].Name, want[i].Name)
		}
	}
	// Insertion order among equals is kept.
	c.SetSortingOrder(5)
	got = parent.paintOrder()
	if got[0] != b || got[1] != a || got[2] != c {
		t.Errorf("paintOrder = %q %q %q", got[0].Name, got[1].Name, got[2].Name)
	}
}

// --- Flags ---

func TestActiveInHierarchy(t *testing.T) {
	root := NewElement("root")
	mid := NewElement("mid")
	leaf := NewElement("leaf")
	_ = root.AddChild(mid)
	_ = mid.AddChild(leaf)

	if !leaf.ActiveInHierarchy() {
		t.Error("leaf should be active")
	}
	mid.SetActive(false)
	if leaf.ActiveInHierarchy() {
		t.Error("leaf under inactive parent should be inactive in hierarchy")
	}
	if !leaf.IsActive() {
		t.Error("leaf's own flag should be untouched")
	}
}

func TestFindChild(t *testing.T) {
	root := NewElement("root")
	a := NewElement("a")
	deep := NewElement("target")
	shallow := NewElement("target")
	_ = root.AddChild(a)
	_ = a.AddChild(deep)
	_ = root.AddChild(shallow)

	if got := root.FindChild("target", true); got != shallow {
		t.Error("direct children should be searched first")
	}
	if got := a.FindChild("target", false); got != deep {
		t.Error("non-recursive search of a failed")
	}
	if got := root.FindChild("missing", true); got != nil {
		t.Error("expected nil for missing name")
	}
}

// --- Hit testing ---

func TestElementHitTest(t *testing.T) {
	parent := NewElement("parent")
	rt := parent.RectTransform()
	_ = rt.SetPivot(Vec2{})
	_ = rt.SetSize(Vec2{400, 400})

	img := NewImage("img")
	_ = img.RectTransform().SetSize(Vec2{100, 100})
	_ = img.RectTransform().SetRotation(45)
	_ = parent.AddChild(img)

	if !img.HitTest(Vec2{200, 200}) {
		t.Error("center should hit")
	}
	// Corner of the unrotated box lies outside the rotated one.
	if img.HitTest(Vec2{152, 152}) {
		t.Error("unrotated corner should miss")
	}
	// Tip of the diamond is inside.
	if !img.HitTest(Vec2{200, 135}) {
		t.Error("diamond tip should hit")
	}

	label := NewText("label", "x", nil)
	_ = parent.AddChild(label)
	if label.HitTest(Vec2{200, 200}) {
		t.Error("text should never be a pointer target")
	}
}

func TestHitTestZeroScaleMisses(t *testing.T) {
	parent := NewElement("parent")
	rt := parent.RectTransform()
	_ = rt.SetPivot(Vec2{})
	_ = rt.SetSize(Vec2{400, 400})

	img := NewImage("img")
	_ = img.RectTransform().SetSize(Vec2{100, 100})
	_ = img.RectTransform().SetScale(Vec2{})
	_ = parent.AddChild(img)

	for _, p := range []Vec2{{50, 50}, {0, 0}, {200, 200}} {
		if img.HitTest(p) {
			t.Errorf("collapsed element hit at %v", p)
		}
		if img.RectTransform().ContainsWorldPoint(p) {
			t.Errorf("collapsed rect contains %v", p)
		}
	}
	assertMatrix(t, "singular inverse", img.RectTransform().WorldToLocalMatrix(), IdentityAffine)

	// A collapsed ancestor collapses the child too.
	_ = img.RectTransform().SetScale(Vec2{1, 1})
	_ = rt.SetScale(Vec2{0, 1})
	if img.HitTest(Vec2{50, 50}) {
		t.Error("child of a collapsed parent should miss")
	}

	_ = rt.SetScale(Vec2{1, 1})
	if !img.HitTest(Vec2{200, 200}) {
		t.Error("restored element should hit at its center")
	}
}

// --- Dispose ---

func TestDispose(t *testing.T) {
	root := NewElement("root")
	parent := NewElement("parent")
	child := NewElement("child")
	_ = root.AddChild(parent)
	_ = parent.AddChild(child)

	parent.Dispose()
	if !parent.IsDisposed() || !child.IsDisposed() {
		t.Error("subtree should be disposed")
	}
	if parent.ID != 0 || child.ID != 0 {
		t.Error("disposed elements should have ID = 0")
	}
	if root.NumChildren() != 0 || len(root.RectTransform().Children()) != 0 {
		t.Error("root should have 0 children after dispose")
	}
	parent.Dispose() // idempotent
}

func TestDebugDisposedPanics(t *testing.T) {
	prev := globalDebug
	globalDebug = true
	defer func() { globalDebug = prev }()

	e := NewElement("gone")
	e.Dispose()
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on disposed element in debug mode")
		}
	}()
	_ = NewElement("p").AddChild(e)
}

// --- Text sizing ---

type fixedFont struct{ charW, lineH float64 }

func (f fixedFont) MeasureString(s string) (float64, float64) {
	return float64(len(s)) * f.charW, f.lineH
}
func (f fixedFont) LineHeight() float64 { return f.lineH }

func TestFitToText(t *testing.T) {
	e := NewText("label", "hello", fixedFont{charW: 8, lineH: 16})
	if err := e.FitToText(); err != nil {
		t.Fatal(err)
	}
	if e.RectTransform().Size() != (Vec2{40, 16}) {
		t.Errorf("Size = %v, want (40,16)", e.RectTransform().Size())
	}
}

func TestImageFillAmount(t *testing.T) {
	img := NewImage("bar").Image()
	img.SetFillAmount(2)
	if img.FillAmount() != 1 {
		t.Errorf("FillAmount = %v", img.FillAmount())
	}
	img.SetFillAmount(0.25)
	img.FillDirection = FillRightToLeft
	assertRect(t, "filled", img.filledRect(Vec2{200, 10}), Rect{X: 150, Width: 50, Height: 10})
	img.FillDirection = FillBottomToTop
	assertRect(t, "filled", img.filledRect(Vec2{200, 10}), Rect{Y: 7.5, Width: 200, Height: 2.5})
}
