package canopy

import (
	"fmt"
	"math"
)

// RectTransform holds one UI element's spatial state: an anchor-relative
// rectangle inside its parent, plus pivot, rotation, and scale. World matrices
// are cached and recomputed lazily.
//
// Writes mark the transform and its whole subtree dirty. Reads of world-space
// quantities clean the path from the root down to the transform being read,
// and nothing else.
//
// A RectTransform is not safe for concurrent use.
type RectTransform struct {
	position  Vec2
	size      Vec2
	rotation  float64 // degrees
	scale     Vec2
	anchorMin Vec2
	anchorMax Vec2
	pivot     Vec2
	offsets   Edges

	// Hierarchy links are non-owning. Element owns the tree.
	parent   *RectTransform
	children []*RectTransform
	owner    *Element // nil for a standalone transform

	localRect    Rect // in parent space, before rotation and scale
	localToWorld Affine
	worldToLocal Affine
	dirty        bool
}

// NewRectTransform returns a detached transform with the default state:
// 100x100, centered anchors and pivot, unit scale, no rotation.
func NewRectTransform() *RectTransform {
	rt := &RectTransform{}
	rt.reset()
	return rt
}

func (rt *RectTransform) reset() {
	rt.size = Vec2{100, 100}
	rt.scale = Vec2{1, 1}
	rt.anchorMin = Vec2{0.5, 0.5}
	rt.anchorMax = Vec2{0.5, 0.5}
	rt.pivot = Vec2{0.5, 0.5}
	rt.localToWorld = IdentityAffine
	rt.worldToLocal = IdentityAffine
	rt.dirty = true
}

// --- Accessors ---

// Position returns the pivot offset from the anchor reference point.
func (rt *RectTransform) Position() Vec2 { return rt.position }

// Size returns the stored size. On stretch axes the resolved size comes from
// the parent instead; see LocalRect.
func (rt *RectTransform) Size() Vec2 { return rt.size }

// Rotation returns the rotation in degrees, exactly as set.
func (rt *RectTransform) Rotation() float64 { return rt.rotation }

func (rt *RectTransform) Scale() Vec2     { return rt.scale }
func (rt *RectTransform) AnchorMin() Vec2 { return rt.anchorMin }
func (rt *RectTransform) AnchorMax() Vec2 { return rt.anchorMax }
func (rt *RectTransform) Pivot() Vec2     { return rt.pivot }
func (rt *RectTransform) Offsets() Edges  { return rt.offsets }

// Parent returns the parent transform, or nil for a root.
func (rt *RectTransform) Parent() *RectTransform { return rt.parent }

// Children returns the child list. The returned slice MUST NOT be mutated.
func (rt *RectTransform) Children() []*RectTransform { return rt.children }

// IsDirty reports whether the cached matrices are stale.
func (rt *RectTransform) IsDirty() bool { return rt.dirty }

// StretchX reports whether the horizontal anchors differ.
func (rt *RectTransform) StretchX() bool { return rt.anchorMin.X != rt.anchorMax.X }

// StretchY reports whether the vertical anchors differ.
func (rt *RectTransform) StretchY() bool { return rt.anchorMin.Y != rt.anchorMax.Y }

// --- Setters ---

// SetPosition sets the pivot offset from the anchor reference point.
func (rt *RectTransform) SetPosition(p Vec2) error {
	if !p.isFinite() {
		return invalidArg("SetPosition", p)
	}
	if rt.position != p {
		rt.position = p
		rt.markDirty()
	}
	return nil
}

// SetSize sets the size used on non-stretch axes. Negative components are
// clamped to zero.
func (rt *RectTransform) SetSize(s Vec2) error {
	if !s.isFinite() {
		return invalidArg("SetSize", s)
	}
	s.X = math.Max(s.X, 0)
	s.Y = math.Max(s.Y, 0)
	if rt.size != s {
		rt.size = s
		rt.markDirty()
	}
	return nil
}

// SetRotation sets the rotation in degrees about the pivot. Any finite angle
// is accepted.
func (rt *RectTransform) SetRotation(deg float64) error {
	if !isFinite(deg) {
		return invalidArg("SetRotation", deg)
	}
	if rt.rotation != deg {
		rt.rotation = deg
		rt.markDirty()
	}
	return nil
}

// SetScale sets the scale about the pivot.
func (rt *RectTransform) SetScale(s Vec2) error {
	if !s.isFinite() {
		return invalidArg("SetScale", s)
	}
	if rt.scale != s {
		rt.scale = s
		rt.markDirty()
	}
	return nil
}

// SetAnchorMin sets the lower anchor, keeping the current upper anchor.
func (rt *RectTransform) SetAnchorMin(min Vec2) error {
	return rt.SetAnchors(min, rt.anchorMax)
}

// SetAnchorMax sets the upper anchor, keeping the current lower anchor.
func (rt *RectTransform) SetAnchorMax(max Vec2) error {
	return rt.SetAnchors(rt.anchorMin, max)
}

// SetAnchors sets both anchors. Components are clamped into [0, 1]; a minimum
// greater than its maximum on either axis is rejected.
func (rt *RectTransform) SetAnchors(min, max Vec2) error {
	if !min.isFinite() || !max.isFinite() {
		return invalidArg("SetAnchors", [2]Vec2{min, max})
	}
	min = Vec2{clamp01(min.X), clamp01(min.Y)}
	max = Vec2{clamp01(max.X), clamp01(max.Y)}
	if min.X > max.X || min.Y > max.Y {
		return invalidArg("SetAnchors", [2]Vec2{min, max})
	}
	rt.setAnchors(min, max)
	return nil
}

func (rt *RectTransform) setAnchors(min, max Vec2) {
	if rt.anchorMin != min || rt.anchorMax != max {
		rt.anchorMin = min
		rt.anchorMax = max
		rt.markDirty()
	}
}

// SetPivot sets the pivot as a fraction of this rectangle. Components are
// clamped into [0, 1].
func (rt *RectTransform) SetPivot(p Vec2) error {
	if !p.isFinite() {
		return invalidArg("SetPivot", p)
	}
	p = Vec2{clamp01(p.X), clamp01(p.Y)}
	if rt.pivot != p {
		rt.pivot = p
		rt.markDirty()
	}
	return nil
}

// SetOffsets sets the insets applied on stretch axes.
func (rt *RectTransform) SetOffsets(e Edges) error {
	if !e.isFinite() {
		return invalidArg("SetOffsets", e)
	}
	if rt.offsets != e {
		rt.offsets = e
		rt.markDirty()
	}
	return nil
}

// MarkDirty invalidates this transform and its subtree.
func (rt *RectTransform) MarkDirty() {
	rt.markDirty()
}

// markDirty sets dirty on rt and every descendant. A dirty node's subtree is
// always entirely dirty, so an already-dirty node ends the walk.
func (rt *RectTransform) markDirty() {
	if rt.dirty {
		return
	}
	rt.dirty = true
	for _, c := range rt.children {
		c.markDirty()
	}
}

// --- Hierarchy ---

// SetParent moves rt to the end of p's child list. A nil p detaches rt.
// Returns ErrCycle, leaving both trees untouched, when p is rt or one of its
// descendants.
//
// When rt belongs to an Element the move goes through the element tree:
// SetParent(nil) is RemoveFromParent and SetParent(p) is AddChild on p's
// element. Mixing element-owned and standalone transforms returns
// ErrInvalidArgument.
func (rt *RectTransform) SetParent(p *RectTransform) error {
	if rt.owner == nil && (p == nil || p.owner == nil) {
		return rt.setParentAt(p, -1)
	}
	switch {
	case rt.owner == nil || (p != nil && p.owner == nil):
		return fmt.Errorf("%w: SetParent between element-owned and standalone transforms", ErrInvalidArgument)
	case p == nil:
		rt.owner.RemoveFromParent()
		return nil
	default:
		return p.owner.AddChild(rt.owner)
	}
}

// setParentAt inserts rt into p's children at index, or appends when index < 0.
func (rt *RectTransform) setParentAt(p *RectTransform, index int) error {
	if p != nil && isAncestorRect(rt, p) {
		return fmt.Errorf("%w: transform cannot become its own descendant", ErrCycle)
	}
	if rt.parent != nil {
		rt.parent.removeChild(rt)
	}
	rt.parent = p
	if p != nil {
		if index < 0 || index >= len(p.children) {
			p.children = append(p.children, rt)
		} else {
			p.children = append(p.children, nil)
			copy(p.children[index+1:], p.children[index:])
			p.children[index] = rt
		}
	}
	rt.markDirty()
	return nil
}

// moveChild reorders child within rt's child list.
func (rt *RectTransform) moveChild(child *RectTransform, index int) {
	rt.removeChild(child)
	rt.children = append(rt.children, nil)
	copy(rt.children[index+1:], rt.children[index:])
	rt.children[index] = child
}

// isAncestorRect reports whether candidate is node or one of its ancestors.
func isAncestorRect(candidate, node *RectTransform) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChild removes child from rt.children without clearing child.parent.
func (rt *RectTransform) removeChild(child *RectTransform) {
	for i, c := range rt.children {
		if c == child {
			copy(rt.children[i:], rt.children[i+1:])
			rt.children[len(rt.children)-1] = nil
			rt.children = rt.children[:len(rt.children)-1]
			return
		}
	}
}

// --- Lazy recompute ---

// update recomputes the cached matrices if dirty, cleaning ancestors first.
// It never fails: every stored field was validated on write.
func (rt *RectTransform) update() {
	if !rt.dirty {
		return
	}
	parentSize := Vec2{}
	parentMatrix := IdentityAffine
	if rt.parent != nil {
		rt.parent.update()
		parentSize = Vec2{rt.parent.localRect.Width, rt.parent.localRect.Height}
		parentMatrix = rt.parent.localToWorld
	}

	x, w := resolveAxis(rt.anchorMin.X, rt.anchorMax.X, parentSize.X,
		rt.position.X, rt.size.X, rt.pivot.X, rt.offsets.Left, rt.offsets.Right)
	y, h := resolveAxis(rt.anchorMin.Y, rt.anchorMax.Y, parentSize.Y,
		rt.position.Y, rt.size.Y, rt.pivot.Y, rt.offsets.Top, rt.offsets.Bottom)
	rt.localRect = Rect{X: x, Y: y, Width: w, Height: h}

	pivotOffset := Vec2{rt.pivot.X * w, rt.pivot.Y * h}
	pivotPoint := Vec2{x + pivotOffset.X, y + pivotOffset.Y}
	local := rectLocalMatrix(pivotPoint, pivotOffset, rt.scale, rt.rotation)

	rt.localToWorld = parentMatrix.Mul(local)
	rt.worldToLocal = rt.localToWorld.Invert()
	rt.dirty = false
}

// resolveAxis returns the start and length of one axis of the rectangle in
// parent space.
func resolveAxis(aMin, aMax, parentLen, pos, size, pivot, offLo, offHi float64) (start, length float64) {
	lo := aMin * parentLen
	if aMin == aMax {
		return lo + pos - pivot*size, size
	}
	hi := aMax * parentLen
	start = lo + offLo + pos
	length = hi - offHi - (lo + offLo)
	if length < 0 {
		length = 0
	}
	return start, length
}

// solveAxis is the inverse of resolveAxis: given a target start and length in
// parent space, it returns the position, size, and offsets that produce it
// under the given anchors.
func solveAxis(aMin, aMax, parentLen, start, length, pivot float64) (pos, size, offLo, offHi float64) {
	lo := aMin * parentLen
	if aMin == aMax {
		return start + pivot*length - lo, length, 0, 0
	}
	hi := aMax * parentLen
	return 0, length, start - lo, hi - (start + length)
}

// place sets position, size, and offsets so the local rect becomes r under
// the current anchors. Used by anchor presets and the layout engine.
func (rt *RectTransform) place(r Rect) {
	parentSize := rt.parentSize()
	px, sx, left, right := solveAxis(rt.anchorMin.X, rt.anchorMax.X, parentSize.X, r.X, r.Width, rt.pivot.X)
	py, sy, top, bottom := solveAxis(rt.anchorMin.Y, rt.anchorMax.Y, parentSize.Y, r.Y, r.Height, rt.pivot.Y)

	pos := Vec2{px, py}
	size := Vec2{math.Max(sx, 0), math.Max(sy, 0)}
	off := Edges{Left: left, Top: top, Right: right, Bottom: bottom}
	if rt.position != pos || rt.size != size || rt.offsets != off {
		rt.position = pos
		rt.size = size
		rt.offsets = off
		rt.markDirty()
	}
}

func (rt *RectTransform) parentSize() Vec2 {
	if rt.parent == nil {
		return Vec2{}
	}
	r := rt.parent.LocalRect()
	return Vec2{r.Width, r.Height}
}

// --- World-space reads ---

// LocalRect returns the resolved rectangle in parent space, before rotation
// and scale are applied.
func (rt *RectTransform) LocalRect() Rect {
	rt.update()
	return rt.localRect
}

// ResolvedSize returns the resolved width and height in local units.
func (rt *RectTransform) ResolvedSize() Vec2 {
	rt.update()
	return Vec2{rt.localRect.Width, rt.localRect.Height}
}

// LocalToWorldMatrix maps this rectangle's own space (origin at its top-left
// corner) to world space.
func (rt *RectTransform) LocalToWorldMatrix() Affine {
	rt.update()
	return rt.localToWorld
}

// WorldToLocalMatrix is the inverse of LocalToWorldMatrix, or the identity
// when that matrix is singular.
func (rt *RectTransform) WorldToLocalMatrix() Affine {
	rt.update()
	return rt.worldToLocal
}

// LocalToWorld converts a point in this rectangle's space to world space.
func (rt *RectTransform) LocalToWorld(p Vec2) Vec2 {
	return rt.LocalToWorldMatrix().Apply(p)
}

// WorldToLocal converts a world-space point to this rectangle's space.
func (rt *RectTransform) WorldToLocal(p Vec2) Vec2 {
	return rt.WorldToLocalMatrix().Apply(p)
}

// WorldRect returns the axis-aligned world bounds of the rectangle. Without
// rotation this is the rectangle itself.
func (rt *RectTransform) WorldRect() Rect {
	rt.update()
	return boundsOf(rt.localToWorld, rt.localRect.Width, rt.localRect.Height)
}

// WorldPosition returns the pivot point in world space.
func (rt *RectTransform) WorldPosition() Vec2 {
	rt.update()
	return rt.localToWorld.Apply(Vec2{rt.pivot.X * rt.localRect.Width, rt.pivot.Y * rt.localRect.Height})
}

// WorldSize returns the resolved size scaled by every transform up the chain.
func (rt *RectTransform) WorldSize() Vec2 {
	rt.update()
	m := rt.localToWorld
	return Vec2{
		rt.localRect.Width * math.Hypot(m[0], m[1]),
		rt.localRect.Height * math.Hypot(m[2], m[3]),
	}
}

// ContainsLocalPoint reports whether p, in this rectangle's space, lies
// inside it. Edges count as inside.
func (rt *RectTransform) ContainsLocalPoint(p Vec2) bool {
	rt.update()
	return p.X >= 0 && p.X <= rt.localRect.Width && p.Y >= 0 && p.Y <= rt.localRect.Height
}

// ContainsWorldPoint reports whether world point p lies inside the rotated,
// scaled rectangle. A rectangle collapsed to zero area contains nothing.
func (rt *RectTransform) ContainsWorldPoint(p Vec2) bool {
	rt.update()
	if rt.localToWorld.Singular() {
		return false
	}
	return rt.ContainsLocalPoint(rt.worldToLocal.Apply(p))
}
