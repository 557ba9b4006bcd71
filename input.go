package canopy

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// pointerState tracks the single mouse pointer across frames.
type pointerState struct {
	down     bool
	button   MouseButton
	start    Vec2
	last     Vec2
	pressed  *Element // element under the pointer at press time
	hover    *Element
	dragging bool

	lastClick   *Element
	lastClickAt float64
	clickCount  int
}

func (ps *pointerState) forgetDisposed() {
	if ps.pressed != nil && ps.pressed.disposed {
		ps.pressed = nil
	}
	if ps.hover != nil && ps.hover.disposed {
		ps.hover = nil
	}
	if ps.lastClick != nil && ps.lastClick.disposed {
		ps.lastClick = nil
	}
}

// --- Hit testing ---

// collectInteractable walks the tree in paint order appending hit-testable
// elements to buf. Skips inactive, invisible, and non-interactable subtrees.
// Plain elements are never targets themselves, but their children can be.
func collectInteractable(e *Element, buf []*Element) []*Element {
	if !e.active || !e.visible || !e.interactable {
		return buf
	}
	if e.widget != nil {
		buf = append(buf, e)
	}
	for _, child := range e.paintOrder() {
		buf = collectInteractable(child, buf)
	}
	return buf
}

// HitTest returns the topmost interactable element under screen point p, or
// nil. Later canvases sit above earlier ones.
func (s *System) HitTest(p Vec2) *Element {
	for ci := len(s.canvases) - 1; ci >= 0; ci-- {
		s.hitBuf = collectInteractable(s.canvases[ci].root, s.hitBuf[:0])
		// Reverse paint order: topmost first.
		for i := len(s.hitBuf) - 1; i >= 0; i-- {
			if e := s.hitBuf[i]; e.HitTest(p) {
				clear(s.hitBuf)
				return e
			}
		}
	}
	clear(s.hitBuf)
	return nil
}

// --- Routing ---

// Dispatch routes one input event and reports whether a listener handled it.
//
// Pointer events (MouseDown, MouseUp, MouseMove) carry a screen Position;
// the System finds the target, tracks hover (MouseEnter/MouseExit), press
// capture, drags past the threshold (MouseDrag), clicks and double clicks.
// Key, Submit, and Cancel events go to the focused element. Any other event
// is delivered to ev.Target if set.
func (s *System) Dispatch(ev Event) bool {
	s.forgetDisposed()
	switch ev.Type {
	case EventMouseDown, EventMouseUp, EventMouseMove:
		return s.routePointer(ev)
	case EventKeyDown, EventKeyUp, EventSubmit, EventCancel:
		if f := s.Focused(); f != nil {
			return s.emit(f, ev)
		}
		return false
	default:
		if ev.Target != nil {
			return s.emit(ev.Target, ev)
		}
		return false
	}
}

func (s *System) routePointer(ev Event) bool {
	ps := &s.pointer
	pos := ev.Position

	var target *Element
	if ps.down && ps.pressed != nil {
		target = ps.pressed
	} else {
		target = s.HitTest(pos)
	}

	// Hover tracks what is actually under the pointer, even during a press.
	under := target
	if ps.down {
		under = s.HitTest(pos)
	}
	if under != ps.hover {
		if ps.hover != nil {
			s.emit(ps.hover, Event{Type: EventMouseExit, Position: pos, Modifiers: ev.Modifiers})
		}
		if under != nil {
			s.emit(under, Event{Type: EventMouseEnter, Position: pos, Modifiers: ev.Modifiers})
		}
		ps.hover = under
	}

	switch {
	case ev.Type == EventMouseDown && !ps.down:
		ps.down = true
		ps.button = ev.Button
		ps.start = pos
		ps.last = pos
		ps.pressed = target
		ps.dragging = false
		s.SetFocus(target)
		if target == nil {
			return false
		}
		return s.emit(target, ev)

	case ev.Type == EventMouseUp && ps.down && ev.Button == ps.button:
		pressed := ps.pressed
		wasDragging := ps.dragging
		ps.down = false
		ps.pressed = nil
		ps.dragging = false

		release := s.HitTest(pos)
		handled := false
		if pressed != nil {
			handled = s.emit(pressed, ev)
		}
		if !wasDragging && pressed != nil && pressed == release {
			s.click(pressed, ev)
		}
		return handled

	case ev.Type == EventMouseMove && ps.down:
		delta := pos.Sub(ps.last)
		ps.last = pos
		if !ps.dragging && math.Hypot(pos.X-ps.start.X, pos.Y-ps.start.Y) > s.dragThreshold {
			ps.dragging = true
		}
		if ps.dragging && ps.pressed != nil {
			return s.emit(ps.pressed, Event{
				Type: EventMouseDrag, Position: pos, Delta: delta,
				Button: ps.button, Modifiers: ev.Modifiers,
			})
		}
		return false

	case ev.Type == EventMouseMove:
		ev.Delta = pos.Sub(ps.last)
		ps.last = pos
		if target == nil {
			return false
		}
		return s.emit(target, ev)
	}
	return false
}

// click fires Click, and DoubleClick when the previous click hit the same
// element within the double-click window.
func (s *System) click(e *Element, up Event) {
	ps := &s.pointer
	if ps.lastClick == e && s.clock-ps.lastClickAt <= s.doubleClickTime {
		ps.clickCount++
	} else {
		ps.clickCount = 1
	}
	ps.lastClick = e
	ps.lastClickAt = s.clock

	s.emit(e, Event{
		Type: EventClick, Position: up.Position, Button: up.Button,
		ClickCount: ps.clickCount, Modifiers: up.Modifiers,
	})
	if ps.clickCount == 2 {
		s.emit(e, Event{
			Type: EventDoubleClick, Position: up.Position, Button: up.Button,
			ClickCount: 2, Modifiers: up.Modifiers,
		})
	}
}

// emit bubbles ev from target and forwards a copy to the event sink.
func (s *System) emit(target *Element, ev Event) bool {
	ev.Target = target
	ev.CurrentTarget = nil
	handled := target.DispatchEvent(&ev)
	if s.sink != nil {
		s.sink.EmitEvent(ev)
	}
	return handled
}

// --- Ebitengine polling ---

// inputPoller remembers last frame's raw device state.
type inputPoller struct {
	buttons [3]bool
	cursor  Vec2
	primed  bool
	keys    []ebiten.Key
}

var pollButtons = [3]ebiten.MouseButton{
	ebiten.MouseButtonLeft, ebiten.MouseButtonRight, ebiten.MouseButtonMiddle,
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

// ProcessInput polls Ebitengine's mouse and keyboard state and dispatches the
// resulting events. Call it once per frame from the game's Update, before
// System.Update. While injected events are queued, one is dispatched per
// frame instead of the real pointer state.
func (s *System) ProcessInput() {
	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	mods := readModifiers()
	if !s.processInjected(mods) {
		s.pollPointer(mods)
	}
	s.pollKeys(mods)
}

func (s *System) pollPointer(mods KeyModifiers) {
	in := &s.input
	mx, my := ebiten.CursorPosition()
	pos := Vec2{float64(mx), float64(my)}

	if !in.primed || pos != in.cursor {
		in.primed = true
		in.cursor = pos
		s.Dispatch(Event{Type: EventMouseMove, Position: pos, Modifiers: mods})
	}

	for i, b := range pollButtons {
		pressed := ebiten.IsMouseButtonPressed(b)
		if pressed == in.buttons[i] {
			continue
		}
		in.buttons[i] = pressed
		typ := EventMouseUp
		if pressed {
			typ = EventMouseDown
		}
		s.Dispatch(Event{Type: typ, Position: pos, Button: MouseButton(i), Modifiers: mods})
	}
}

func (s *System) pollKeys(mods KeyModifiers) {
	in := &s.input
	in.keys = inpututil.AppendJustPressedKeys(in.keys[:0])
	for _, k := range in.keys {
		s.Dispatch(Event{Type: EventKeyDown, Key: int(k), Modifiers: mods})
		switch k {
		case ebiten.KeyEnter, ebiten.KeyNumpadEnter:
			s.Dispatch(Event{Type: EventSubmit, Key: int(k), Modifiers: mods})
		case ebiten.KeyEscape:
			s.Dispatch(Event{Type: EventCancel, Key: int(k), Modifiers: mods})
		}
	}
	in.keys = inpututil.AppendJustReleasedKeys(in.keys[:0])
	for _, k := range in.keys {
		s.Dispatch(Event{Type: EventKeyUp, Key: int(k), Modifiers: mods})
	}
}
