package canopy

import (
	"image/color"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// Predefined colors.
var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
	ColorClear = Color{0, 0, 0, 0}
	ColorGray  = Color{0.5, 0.5, 0.5, 1}
)

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

// Vec2 is a 2D vector used for positions, sizes, anchors, and pivots
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// isFinite reports whether both components are neither NaN nor infinite.
func (v Vec2) isFinite() bool {
	return isFinite(v.X) && isFinite(v.Y)
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Inset shrinks the rectangle by e on each side. Width and height never go
// below zero.
func (r Rect) Inset(e Edges) Rect {
	out := Rect{
		X:      r.X + e.Left,
		Y:      r.Y + e.Top,
		Width:  r.Width - e.Left - e.Right,
		Height: r.Height - e.Top - e.Bottom,
	}
	if out.Width < 0 {
		out.Width = 0
	}
	if out.Height < 0 {
		out.Height = 0
	}
	return out
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// Min returns the top-left corner.
func (r Rect) Min() Vec2 { return Vec2{r.X, r.Y} }

// Max returns the bottom-right corner.
func (r Rect) Max() Vec2 { return Vec2{r.X + r.Width, r.Y + r.Height} }

// Edges holds per-side distances: stretch offsets on a RectTransform and
// padding on a Panel.
type Edges struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Uniform returns Edges with the same value on every side.
func Uniform(v float64) Edges {
	return Edges{v, v, v, v}
}

func (e Edges) isFinite() bool {
	return isFinite(e.Left) && isFinite(e.Top) && isFinite(e.Right) && isFinite(e.Bottom)
}

// EventType identifies a kind of UI event.
type EventType uint8

const (
	EventNone         EventType = iota
	EventClick                  // press then release over the same element
	EventDoubleClick            // second click within the double-click window
	EventMouseEnter             // pointer entered an element's bounds
	EventMouseExit              // pointer left an element's bounds
	EventMouseDown              // pointer button pressed
	EventMouseUp                // pointer button released
	EventMouseMove              // pointer moved with no button held
	EventMouseDrag              // pointer moved past the drag threshold with a button held
	EventKeyDown                // key pressed while the element has focus
	EventKeyUp                  // key released while the element has focus
	EventValueChanged           // a widget's value changed
	EventSubmit                 // submit action on the focused element
	EventCancel                 // cancel action on the focused element
	EventFocus                  // element gained focus
	EventLostFocus              // element lost focus
)

var eventTypeNames = [...]string{
	"None", "Click", "DoubleClick", "MouseEnter", "MouseExit", "MouseDown", "MouseUp",
	"MouseMove", "MouseDrag", "KeyDown", "KeyUp", "ValueChanged", "Submit", "Cancel",
	"Focus", "LostFocus",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "Unknown"
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// TextAlign controls horizontal text alignment within a Text widget.
type TextAlign uint8

const (
	TextAlignLeft   TextAlign = iota // align text to the left edge (default)
	TextAlignCenter                  // center text horizontally
	TextAlignRight                   // align text to the right edge
)

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
