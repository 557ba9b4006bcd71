package canopy

import (
	"log/slog"
	"time"
)

const (
	defaultDragThreshold   = 4.0  // pixels
	defaultDoubleClickTime = 0.35 // seconds
)

// System is the explicitly owned UI context: it holds canvases, drives layout
// and widget updates, draws, and routes input. Create one with NewSystem and
// pass it to whatever needs it; there is no global instance.
//
// A System is not safe for concurrent use. Call every method from the same
// goroutine, once per frame.
type System struct {
	canvases []*Canvas
	logger   *slog.Logger
	debug    bool
	sink     EventSink

	dragThreshold   float64
	doubleClickTime float64
	clock           float64 // seconds of Update time

	pointer pointerState
	focused *Element
	hitBuf  []*Element

	input       inputPoller
	injectQueue []injectedPointer
	testRunner  *TestRunner

	screenshotDir   string
	screenshotQueue []string
}

// Option configures a System.
type Option func(*System)

// WithLogger sets the logger used by this System. Defaults to the package
// logger (see SetLogger).
func WithLogger(l *slog.Logger) Option {
	return func(s *System) { s.logger = l }
}

// WithDebug enables debug mode: disposed-element misuse panics, tree depth
// and child count warnings are logged, and per-frame timing is logged at
// debug level. The element checks are process-wide; see [System.SetDebugMode].
func WithDebug(enabled bool) Option {
	return func(s *System) { s.debug = enabled }
}

// WithEventSink forwards a copy of every dispatched event to sink.
func WithEventSink(sink EventSink) Option {
	return func(s *System) { s.sink = sink }
}

// WithDragThreshold sets how far, in pixels, a held pointer must travel
// before drag events start.
func WithDragThreshold(pixels float64) Option {
	return func(s *System) {
		if isFinite(pixels) && pixels >= 0 {
			s.dragThreshold = pixels
		}
	}
}

// WithDoubleClickTime sets the window, in seconds, within which a second
// click on the same element counts as a double click.
func WithDoubleClickTime(seconds float64) Option {
	return func(s *System) {
		if isFinite(seconds) && seconds >= 0 {
			s.doubleClickTime = seconds
		}
	}
}

// WithScreenshotDir sets the directory screenshots are written to. Defaults
// to "screenshots".
func WithScreenshotDir(dir string) Option {
	return func(s *System) { s.screenshotDir = dir }
}

// NewSystem creates an empty UI system.
func NewSystem(opts ...Option) *System {
	s := &System{
		dragThreshold:   defaultDragThreshold,
		doubleClickTime: defaultDoubleClickTime,
		screenshotDir:   "screenshots",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = Logger()
	}
	if s.debug {
		setGlobalDebug(true, s.logger)
	}
	return s
}

// Logger returns the System's logger.
func (s *System) Logger() *slog.Logger {
	return s.logger
}

// SetDebugMode enables or disables debug mode at runtime. The element checks
// are process-wide, so this switches them for every System, and their
// warnings go to the logger of the System that last enabled debug mode.
func (s *System) SetDebugMode(enabled bool) {
	s.debug = enabled
	setGlobalDebug(enabled, s.logger)
}

// --- Canvases ---

// NewCanvas creates a canvas sized to the default reference resolution and
// adds it on top of the existing canvases.
func (s *System) NewCanvas(name string) *Canvas {
	c := newCanvas(name)
	s.canvases = append(s.canvases, c)
	return c
}

// DestroyCanvas removes the canvas and disposes its element tree.
func (s *System) DestroyCanvas(c *Canvas) {
	for i, cc := range s.canvases {
		if cc == c {
			s.canvases = append(s.canvases[:i], s.canvases[i+1:]...)
			c.root.Dispose()
			s.forgetDisposed()
			return
		}
	}
}

// Canvases returns the canvas list in draw order. The returned slice MUST NOT
// be mutated.
func (s *System) Canvases() []*Canvas {
	return s.canvases
}

// Shutdown disposes every canvas.
func (s *System) Shutdown() {
	for _, c := range s.canvases {
		c.root.Dispose()
	}
	s.canvases = nil
	s.focused = nil
	s.pointer = pointerState{}
	s.injectQueue = nil
}

// --- Frame ---

// Update advances the clock by dt seconds, then walks every active canvas
// parent-first: a layout-dirty panel arranges its children before they update.
// A nested panel resized by its parent's pass only rearranges its own
// children if it is layout-dirty too; call [Panel.MarkLayoutDirty] for that.
func (s *System) Update(dt float64) {
	if isFinite(dt) && dt > 0 {
		s.clock += dt
	}
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	visited := 0
	for _, c := range s.canvases {
		visited += updateTree(c.root, dt)
	}
	if s.debug {
		s.logger.Debug("canopy update",
			slog.Int("elements", visited),
			slog.Duration("elapsed", time.Since(t0)))
	}
}

// updateTree updates e and its active descendants, returning how many
// elements were visited.
func updateTree(e *Element, dt float64) int {
	if !e.active {
		return 0
	}
	e.Update(dt)
	n := 1
	for _, child := range e.children {
		n += updateTree(child, dt)
	}
	return n
}

// Draw submits every active, visible element to r in paint order: canvases in
// creation order, children by SortingOrder then insertion order.
func (s *System) Draw(r Renderer) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	drawn := 0
	for _, c := range s.canvases {
		drawn += drawTree(r, c.root)
	}
	if s.debug {
		s.logger.Debug("canopy draw",
			slog.Int("elements", drawn),
			slog.Duration("elapsed", time.Since(t0)))
	}
}

func drawTree(r Renderer, e *Element) int {
	if !e.active || !e.visible {
		return 0
	}
	n := 0
	if e.widget != nil {
		e.widget.draw(r, e)
		n++
	}
	for _, child := range e.paintOrder() {
		n += drawTree(r, child)
	}
	return n
}

// --- Focus ---

// Focused returns the element receiving key events, or nil.
func (s *System) Focused() *Element {
	if s.focused != nil && s.focused.disposed {
		s.focused = nil
	}
	return s.focused
}

// SetFocus moves keyboard focus to e (nil clears it), firing LostFocus on the
// previous element and Focus on the new one.
func (s *System) SetFocus(e *Element) {
	prev := s.Focused()
	if prev == e {
		return
	}
	s.focused = e
	if prev != nil {
		s.emit(prev, Event{Type: EventLostFocus})
	}
	if e != nil {
		s.emit(e, Event{Type: EventFocus})
	}
}

// forgetDisposed drops references to elements that no longer exist.
func (s *System) forgetDisposed() {
	if s.focused != nil && s.focused.disposed {
		s.focused = nil
	}
	s.pointer.forgetDisposed()
}
