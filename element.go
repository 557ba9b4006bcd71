package canopy

import "fmt"

// elementIDCounter is a plain counter; canopy is single-threaded.
var elementIDCounter uint32

func nextElementID() uint32 {
	elementIDCounter++
	return elementIDCounter
}

// Element is a node of the UI tree. It owns exactly one RectTransform and owns
// its children; the transform's parent/child links mirror the element tree
// and are kept in sync by AddChild and RemoveChild.
type Element struct {
	// Identity
	ID   uint32
	Name string

	// Metadata
	UserData any

	rect RectTransform

	// Hierarchy
	parent   *Element
	children []*Element

	active       bool
	visible      bool
	interactable bool
	sortingOrder int

	widget Widget

	listeners      map[EventType][]listener
	nextListenerID uint32

	// Internal
	disposed       bool
	childrenSorted bool
	sortedChildren []*Element // reused buffer for paint order
}

// elementDefaults sets the field values shared by all constructors.
func elementDefaults(e *Element) {
	e.ID = nextElementID()
	e.rect.reset()
	e.rect.owner = e
	e.active = true
	e.visible = true
	e.interactable = true
	e.childrenSorted = true
}

// NewElement creates a plain element with no visual of its own. Use it to
// group and position other elements.
func NewElement(name string) *Element {
	e := &Element{Name: name}
	elementDefaults(e)
	return e
}

// RectTransform returns the element's transform.
func (e *Element) RectTransform() *RectTransform {
	return &e.rect
}

// Widget returns the element's widget variant, or nil for a plain element.
func (e *Element) Widget() Widget {
	return e.widget
}

// Parent returns the parent element, or nil.
func (e *Element) Parent() *Element {
	return e.parent
}

// --- Flags ---

// IsActive reports the element's own active flag. Inactive elements are not
// updated, drawn, hit, or laid out, and neither are their descendants.
func (e *Element) IsActive() bool { return e.active }

// SetActive sets the active flag.
func (e *Element) SetActive(active bool) {
	if e.active == active {
		return
	}
	e.active = active
	e.parentLayoutChanged()
}

// ActiveInHierarchy reports whether the element and all its ancestors are active.
func (e *Element) ActiveInHierarchy() bool {
	for p := e; p != nil; p = p.parent {
		if !p.active {
			return false
		}
	}
	return true
}

// IsVisible reports whether the element is drawn.
func (e *Element) IsVisible() bool { return e.visible }

// SetVisible sets the visible flag.
func (e *Element) SetVisible(visible bool) {
	if e.visible == visible {
		return
	}
	e.visible = visible
	e.parentLayoutChanged()
}

// IsInteractable reports whether the element receives pointer events.
func (e *Element) IsInteractable() bool { return e.interactable }

// SetInteractable sets the interactable flag.
func (e *Element) SetInteractable(interactable bool) { e.interactable = interactable }

// SortingOrder returns the paint order key among siblings.
func (e *Element) SortingOrder() int { return e.sortingOrder }

// SetSortingOrder sets the paint order key. Higher values draw later (on top);
// equal values keep insertion order.
func (e *Element) SetSortingOrder(order int) {
	if e.sortingOrder == order {
		return
	}
	e.sortingOrder = order
	if e.parent != nil {
		e.parent.childrenSorted = false
	}
}

// --- Tree manipulation ---

// AddChild appends child to this element's children.
// If child already has a parent, it is removed from that parent first.
// Returns ErrCycle if child is this element or one of its ancestors.
// Panics if child is nil.
func (e *Element) AddChild(child *Element) error {
	return e.addChildAt(child, -1)
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild.
func (e *Element) AddChildAt(child *Element, index int) error {
	if index < 0 || index > len(e.children) {
		panic("canopy: child index out of range")
	}
	return e.addChildAt(child, index)
}

func (e *Element) addChildAt(child *Element, index int) error {
	if child == nil {
		panic("canopy: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(e, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, e) {
		return fmt.Errorf("%w: %q cannot contain %q", ErrCycle, e.Name, child.Name)
	}

	old := child.parent
	n := len(e.children)
	if old == e {
		n--
	}
	if index < 0 || index > n {
		index = n
	}
	// The transform move is all-or-nothing, so it goes first.
	if err := child.rect.setParentAt(&e.rect, index); err != nil {
		return err
	}
	if old != nil {
		old.removeChildByPtr(child)
	}
	child.parent = e
	e.children = append(e.children, nil)
	copy(e.children[index+1:], e.children[index:])
	e.children[index] = child

	if old != nil && old != e {
		old.childrenChanged()
	}
	e.childrenChanged()
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(e)
	}
	return nil
}

// RemoveChild detaches child from this element. The child is not disposed.
// Panics if child's parent is not this element.
func (e *Element) RemoveChild(child *Element) {
	if globalDebug {
		debugCheckDisposed(e, "RemoveChild (parent)")
		debugCheckDisposed(child, "RemoveChild (child)")
	}
	if child.parent != e {
		panic("canopy: child's parent is not this element")
	}
	e.removeChildByPtr(child)
	child.parent = nil
	_ = child.rect.setParentAt(nil, -1)
	e.childrenChanged()
}

// RemoveChildAt removes and returns the child at the given index.
func (e *Element) RemoveChildAt(index int) *Element {
	if index < 0 || index >= len(e.children) {
		panic("canopy: child index out of range")
	}
	child := e.children[index]
	e.RemoveChild(child)
	return child
}

// RemoveFromParent detaches this element from its parent.
// No-op if this element has no parent.
func (e *Element) RemoveFromParent() {
	if e.parent == nil {
		return
	}
	e.parent.RemoveChild(e)
}

// RemoveChildren detaches all children. Children are NOT disposed.
func (e *Element) RemoveChildren() {
	for _, child := range e.children {
		child.parent = nil
		_ = child.rect.setParentAt(nil, -1)
	}
	clear(e.children)
	e.children = e.children[:0]
	e.childrenChanged()
}

// Children returns the child list in insertion order. The returned slice MUST
// NOT be mutated by the caller.
func (e *Element) Children() []*Element {
	return e.children
}

// NumChildren returns the number of children.
func (e *Element) NumChildren() int {
	return len(e.children)
}

// ChildAt returns the child at the given index.
func (e *Element) ChildAt(index int) *Element {
	return e.children[index]
}

// SetChildIndex moves child to a new index among its siblings.
func (e *Element) SetChildIndex(child *Element, index int) {
	if child.parent != e {
		panic("canopy: child's parent is not this element")
	}
	if index < 0 || index >= len(e.children) {
		panic("canopy: child index out of range")
	}
	e.removeChildByPtr(child)
	e.children = append(e.children, nil)
	copy(e.children[index+1:], e.children[index:])
	e.children[index] = child
	e.rect.moveChild(&child.rect, index)
	e.childrenChanged()
}

// FindChild returns the first descendant with the given name. Direct
// children are checked before any grandchildren. With recursive false only
// direct children are searched.
func (e *Element) FindChild(name string, recursive bool) *Element {
	for _, c := range e.children {
		if c.Name == name {
			return c
		}
	}
	if !recursive {
		return nil
	}
	for _, c := range e.children {
		if found := c.FindChild(name, true); found != nil {
			return found
		}
	}
	return nil
}

// --- Per-frame ---

// Update runs the widget's per-frame logic for this element only.
func (e *Element) Update(dt float64) {
	if e.widget != nil {
		e.widget.update(e, dt)
	}
}

// HitTest reports whether world point p falls on this element: inside its
// rotated, scaled rectangle and accepted by its widget.
func (e *Element) HitTest(p Vec2) bool {
	if !e.rect.ContainsWorldPoint(p) {
		return false
	}
	if e.widget != nil {
		return e.widget.hitTest(e, e.rect.WorldToLocal(p))
	}
	return true
}

// --- Disposal ---

// Dispose removes this element from its parent, marks it as disposed, and
// recursively disposes all descendants.
func (e *Element) Dispose() {
	if e.disposed {
		return
	}
	e.RemoveFromParent()
	e.dispose()
}

func (e *Element) dispose() {
	e.disposed = true
	e.ID = 0
	for _, child := range e.children {
		child.parent = nil
		child.dispose()
	}
	e.children = nil
	e.sortedChildren = nil
	e.rect.children = nil
	e.rect.parent = nil
	e.parent = nil
	e.widget = nil
	e.listeners = nil
	e.UserData = nil
}

// IsDisposed returns true if this element has been disposed.
func (e *Element) IsDisposed() bool {
	return e.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is node or an ancestor of node.
func isAncestor(candidate, node *Element) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from e.children without clearing child.parent.
func (e *Element) removeChildByPtr(child *Element) {
	for i, c := range e.children {
		if c == child {
			copy(e.children[i:], e.children[i+1:])
			e.children[len(e.children)-1] = nil
			e.children = e.children[:len(e.children)-1]
			return
		}
	}
}

// childrenChanged invalidates paint order and this element's layout.
func (e *Element) childrenChanged() {
	e.childrenSorted = false
	if p, ok := e.widget.(*Panel); ok {
		p.MarkLayoutDirty()
	}
}

// parentLayoutChanged marks the parent panel's layout dirty after an
// active or visible flag flips, since hidden children reserve no space.
func (e *Element) parentLayoutChanged() {
	if e.parent == nil {
		return
	}
	if p, ok := e.parent.widget.(*Panel); ok {
		p.MarkLayoutDirty()
	}
}

// paintOrder returns the children in draw order: stable by SortingOrder.
func (e *Element) paintOrder() []*Element {
	if !e.childrenSorted {
		e.rebuildSortedChildren()
	}
	return e.sortedChildren
}

// rebuildSortedChildren rebuilds the SortingOrder-sorted traversal order.
// Uses insertion sort: zero allocations, stable, and O(n) when already sorted.
func (e *Element) rebuildSortedChildren() {
	nc := len(e.children)
	if cap(e.sortedChildren) < nc {
		e.sortedChildren = make([]*Element, nc)
	}
	e.sortedChildren = e.sortedChildren[:nc]
	copy(e.sortedChildren, e.children)
	for i := 1; i < nc; i++ {
		key := e.sortedChildren[i]
		j := i - 1
		for j >= 0 && e.sortedChildren[j].sortingOrder > key.sortingOrder {
			e.sortedChildren[j+1] = e.sortedChildren[j]
			j--
		}
		e.sortedChildren[j+1] = key
	}
	e.childrenSorted = true
}
