package canopy

// Event is the payload delivered to listeners. Position is in screen (world)
// space; Local is recomputed in each element's own space as the event bubbles.
type Event struct {
	Type          EventType
	Target        *Element
	CurrentTarget *Element

	Position   Vec2
	Local      Vec2
	Delta      Vec2
	Button     MouseButton
	ClickCount int
	PointerID  int

	// Key is the platform key code for key events (an ebiten.Key when the
	// event comes from ProcessInput).
	Key       int
	Modifiers KeyModifiers

	// Handled stops bubbling once a listener sets it.
	Handled bool
}

// isPointer reports whether the event carries a pointer position.
func (ev *Event) isPointer() bool {
	switch ev.Type {
	case EventClick, EventDoubleClick, EventMouseEnter, EventMouseExit,
		EventMouseDown, EventMouseUp, EventMouseMove, EventMouseDrag:
		return true
	}
	return false
}

// EventHandler receives events for which it was registered.
type EventHandler func(*Event)

// EventSink receives a copy of every event the System dispatches. The ecs
// sub-package provides one backed by a Donburi world.
type EventSink interface {
	EmitEvent(ev Event)
}

type listener struct {
	id uint32
	fn EventHandler
}

// ListenerHandle allows removing a registered listener.
type ListenerHandle struct {
	id    uint32
	owner *Element
	event EventType
}

// Remove unregisters the listener so it no longer fires.
func (h ListenerHandle) Remove() {
	if h.owner == nil || h.owner.listeners == nil {
		return
	}
	s := h.owner.listeners[h.event]
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = listener{}
			h.owner.listeners[h.event] = s[:len(s)-1]
			return
		}
	}
}

// AddEventListener registers fn for events of type t on this element. Events
// targeted at descendants reach it too, unless a listener closer to the
// target marks them handled.
func (e *Element) AddEventListener(t EventType, fn EventHandler) ListenerHandle {
	if e.listeners == nil {
		e.listeners = make(map[EventType][]listener)
	}
	e.nextListenerID++
	id := e.nextListenerID
	e.listeners[t] = append(e.listeners[t], listener{id: id, fn: fn})
	return ListenerHandle{id: id, owner: e, event: t}
}

// DispatchEvent delivers ev to this element and then to each ancestor until a
// listener sets ev.Handled. ev.Target is set to this element if empty.
// Returns ev.Handled.
func (e *Element) DispatchEvent(ev *Event) bool {
	if ev.Target == nil {
		ev.Target = e
	}
	pointer := ev.isPointer()
	for cur := e; cur != nil && !ev.Handled; cur = cur.parent {
		ls := cur.listeners[ev.Type]
		if len(ls) == 0 {
			continue
		}
		ev.CurrentTarget = cur
		if pointer {
			ev.Local = cur.rect.WorldToLocal(ev.Position)
		}
		// Listeners may remove themselves while running.
		snapshot := append([]listener(nil), ls...)
		for _, l := range snapshot {
			l.fn(ev)
			if ev.Handled {
				break
			}
		}
	}
	return ev.Handled
}
