package canopy

// injectedPointer is a single synthetic pointer event in screen coordinates,
// dispatched exactly like real mouse input.
type injectedPointer struct {
	typ EventType
	pos Vec2
}

// InjectPress queues a left-button press at screen point p. Queued events
// are consumed one per frame by ProcessInput, in place of real pointer input.
func (s *System) InjectPress(p Vec2) {
	s.injectQueue = append(s.injectQueue, injectedPointer{typ: EventMouseDown, pos: p})
}

// InjectMove queues a pointer move to screen point p. Between InjectPress and
// InjectRelease it drags.
func (s *System) InjectMove(p Vec2) {
	s.injectQueue = append(s.injectQueue, injectedPointer{typ: EventMouseMove, pos: p})
}

// InjectRelease queues a left-button release at screen point p.
func (s *System) InjectRelease(p Vec2) {
	s.injectQueue = append(s.injectQueue, injectedPointer{typ: EventMouseUp, pos: p})
}

// InjectClick queues a press followed by a release at p. Consumes two frames.
func (s *System) InjectClick(p Vec2) {
	s.InjectPress(p)
	s.InjectRelease(p)
}

// InjectDrag queues a press at from, frames-2 interpolated moves, and a
// release at to. Minimum frames is 2 (press + release).
func (s *System) InjectDrag(from, to Vec2, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(from)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.InjectMove(Vec2{from.X + (to.X-from.X)*t, from.Y + (to.Y-from.Y)*t})
	}
	s.InjectRelease(to)
}

// PendingInjections returns the number of queued synthetic events.
func (s *System) PendingInjections() int { return len(s.injectQueue) }

// processInjected pops one queued event and dispatches it. Returns true if
// an event was consumed, in which case real pointer input is skipped.
func (s *System) processInjected(mods KeyModifiers) bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	ev := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	s.Dispatch(Event{Type: ev.typ, Position: ev.pos, Button: MouseButtonLeft, Modifiers: mods})
	return true
}
