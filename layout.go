package canopy

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// LayoutMode selects how a Panel arranges its children.
type LayoutMode uint8

const (
	LayoutNone       LayoutMode = iota // children keep their own transforms
	LayoutHorizontal                   // left-to-right stack
	LayoutVertical                     // top-to-bottom stack
	LayoutGrid                         // row-major grid with GridColumns columns
)

var layoutModeNames = [...]string{"none", "horizontal", "vertical", "grid"}

func (m LayoutMode) String() string {
	if int(m) < len(layoutModeNames) {
		return layoutModeNames[m]
	}
	return fmt.Sprintf("LayoutMode(%d)", uint8(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m LayoutMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Names are case-insensitive.
func (m *LayoutMode) UnmarshalText(b []byte) error {
	s := strings.ToLower(string(b))
	for i, name := range layoutModeNames {
		if name == s {
			*m = LayoutMode(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown layout mode %q", ErrInvalidArgument, b)
}

// Alignment positions children inside the content rect (stacks) or inside
// their cell (grid).
type Alignment uint8

const (
	AlignUpperLeft Alignment = iota
	AlignUpperCenter
	AlignUpperRight
	AlignMiddleLeft
	AlignMiddleCenter
	AlignMiddleRight
	AlignLowerLeft
	AlignLowerCenter
	AlignLowerRight
)

var alignmentNames = [...]string{
	"UpperLeft", "UpperCenter", "UpperRight",
	"MiddleLeft", "MiddleCenter", "MiddleRight",
	"LowerLeft", "LowerCenter", "LowerRight",
}

func (a Alignment) String() string {
	if int(a) < len(alignmentNames) {
		return alignmentNames[a]
	}
	return fmt.Sprintf("Alignment(%d)", uint8(a))
}

// MarshalText implements encoding.TextMarshaler.
func (a Alignment) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Names are case-insensitive.
func (a *Alignment) UnmarshalText(b []byte) error {
	for i, name := range alignmentNames {
		if strings.EqualFold(name, string(b)) {
			*a = Alignment(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown alignment %q", ErrInvalidArgument, b)
}

// fractions returns the horizontal and vertical placement as 0, 0.5, or 1.
func (a Alignment) fractions() (fx, fy float64) {
	if a > AlignLowerRight {
		return 0, 0
	}
	return float64(a%3) / 2, float64(a/3) / 2
}

// LayoutConfig is the configuration surface of a Panel's automatic layout.
type LayoutConfig struct {
	Mode           LayoutMode `json:"mode"`
	Spacing        float64    `json:"spacing"`
	Padding        Edges      `json:"padding"`
	ChildAlignment Alignment  `json:"childAlignment"`
	GridColumns    int        `json:"gridColumns"`

	// Reverse stacks right-to-left (Horizontal), bottom-to-top (Vertical),
	// or fills grid rows right-to-left.
	Reverse bool `json:"reverse,omitempty"`
}

// DefaultLayoutConfig returns the configuration new panels start with.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		Mode:           LayoutNone,
		Spacing:        5,
		Padding:        Uniform(5),
		ChildAlignment: AlignUpperLeft,
		GridColumns:    2,
	}
}

// ParseLayoutConfig decodes a JSON layout configuration. Fields missing from
// the document keep their defaults; GridColumns below 1 is clamped to 1.
func ParseLayoutConfig(data []byte) (LayoutConfig, error) {
	cfg := DefaultLayoutConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return LayoutConfig{}, fmt.Errorf("parse layout config: %w", err)
	}
	cfg.GridColumns = max(cfg.GridColumns, 1)
	return cfg, nil
}

// --- Panel ---

// Panel is a container widget with an optional background and automatic
// layout of its children.
//
// Layout setters only flag the layout dirty; the children move on the next
// UpdateLayout, so several property changes cost a single pass.
type Panel struct {
	Background        Color
	BackgroundTexture *ebiten.Image

	owner       *Element
	config      LayoutConfig
	layoutDirty bool
	contentSize Vec2
}

// NewPanel creates a panel element with the default layout configuration
// (LayoutNone, spacing 5, padding 5, UpperLeft, two grid columns).
func NewPanel(name string) *Element {
	e := NewElement(name)
	e.widget = &Panel{
		Background:  Color{0.2, 0.2, 0.2, 0.8},
		owner:       e,
		config:      DefaultLayoutConfig(),
		layoutDirty: true,
	}
	return e
}

// Panel returns the element's Panel widget, or nil.
func (e *Element) Panel() *Panel {
	p, _ := e.widget.(*Panel)
	return p
}

// LayoutConfig returns a copy of the current configuration.
func (p *Panel) LayoutConfig() LayoutConfig { return p.config }

// SetLayoutConfig replaces the whole configuration.
func (p *Panel) SetLayoutConfig(cfg LayoutConfig) error {
	if !isFinite(cfg.Spacing) || !cfg.Padding.isFinite() {
		return invalidArg("SetLayoutConfig", cfg)
	}
	cfg.GridColumns = max(cfg.GridColumns, 1)
	p.config = cfg
	p.layoutDirty = true
	return nil
}

func (p *Panel) LayoutMode() LayoutMode { return p.config.Mode }

func (p *Panel) SetLayoutMode(m LayoutMode) {
	p.config.Mode = m
	p.layoutDirty = true
}

func (p *Panel) Spacing() float64 { return p.config.Spacing }

// SetSpacing sets the gap between siblings.
func (p *Panel) SetSpacing(s float64) error {
	if !isFinite(s) {
		return invalidArg("SetSpacing", s)
	}
	p.config.Spacing = s
	p.layoutDirty = true
	return nil
}

func (p *Panel) Padding() Edges { return p.config.Padding }

// SetPadding sets the inset between the panel's rect and its content rect.
func (p *Panel) SetPadding(e Edges) error {
	if !e.isFinite() {
		return invalidArg("SetPadding", e)
	}
	p.config.Padding = e
	p.layoutDirty = true
	return nil
}

func (p *Panel) ChildAlignment() Alignment { return p.config.ChildAlignment }

func (p *Panel) SetChildAlignment(a Alignment) {
	p.config.ChildAlignment = a
	p.layoutDirty = true
}

func (p *Panel) GridColumns() int { return p.config.GridColumns }

// SetGridColumns sets the grid column count. Values below 1 become 1.
func (p *Panel) SetGridColumns(n int) {
	p.config.GridColumns = max(n, 1)
	p.layoutDirty = true
}

func (p *Panel) Reverse() bool { return p.config.Reverse }

func (p *Panel) SetReverse(r bool) {
	p.config.Reverse = r
	p.layoutDirty = true
}

// MarkLayoutDirty schedules a layout pass on the next UpdateLayout.
func (p *Panel) MarkLayoutDirty() { p.layoutDirty = true }

// IsLayoutDirty reports whether a layout pass is pending.
func (p *Panel) IsLayoutDirty() bool { return p.layoutDirty }

// ContentRect returns the panel's rect shrunk by padding, in the panel's own
// space.
func (p *Panel) ContentRect() Rect {
	s := p.owner.rect.ResolvedSize()
	return Rect{Width: s.X, Height: s.Y}.Inset(p.config.Padding)
}

// ContentSize returns the extent consumed by the last layout pass: along the
// stacking axis the sum of child extents and spacing, across it the largest
// child. Scrollable containers size their content from this.
func (p *Panel) ContentSize() Vec2 { return p.contentSize }

// UpdateLayout positions the active, visible children if the layout is dirty.
// It is a no-op otherwise, including when a child's own size or the panel's
// own size has changed; call MarkLayoutDirty for that.
func (p *Panel) UpdateLayout() {
	if !p.layoutDirty {
		return
	}
	p.layoutDirty = false

	kids := p.layoutChildren()
	if len(kids) == 0 {
		p.contentSize = Vec2{}
		return
	}

	content := p.ContentRect()
	switch p.config.Mode {
	case LayoutHorizontal:
		p.contentSize = p.layoutStack(kids, content, true)
	case LayoutVertical:
		p.contentSize = p.layoutStack(kids, content, false)
	case LayoutGrid:
		p.contentSize = p.layoutGrid(kids, content)
	default:
		p.contentSize = Vec2{}
	}
}

// layoutChildren returns the children that take part in layout.
func (p *Panel) layoutChildren() []*Element {
	var kids []*Element
	for _, c := range p.owner.children {
		if c.active && c.visible {
			kids = append(kids, c)
		}
	}
	return kids
}

// childExtent returns a child's width and height as layout sees them: the
// stored size on fixed axes, the currently resolved size on stretch axes.
func childExtent(rt *RectTransform) (w, h float64) {
	w, h = rt.size.X, rt.size.Y
	if rt.StretchX() || rt.StretchY() {
		r := rt.LocalRect()
		if rt.StretchX() {
			w = r.Width
		}
		if rt.StretchY() {
			h = r.Height
		}
	}
	return w, h
}

// layoutStack places kids one after another along the main axis. The cross
// axis uses the alignment's matching component; stretch-anchored children fill
// the content rect across.
func (p *Panel) layoutStack(kids []*Element, content Rect, horizontal bool) Vec2 {
	fx, fy := p.config.ChildAlignment.fractions()
	spacing := p.config.Spacing

	// Work in (main, cross) coordinates and swap back when placing.
	mainStart, mainLen := content.X, content.Width
	crossStart, crossLen := content.Y, content.Height
	crossFrac := fy
	if !horizontal {
		mainStart, mainLen = content.Y, content.Height
		crossStart, crossLen = content.X, content.Width
		crossFrac = fx
	}

	cursor := 0.0
	maxCross := 0.0
	for i, c := range kids {
		rt := &c.rect
		w, h := childExtent(rt)
		mainExt, crossExt := w, h
		crossStretch := rt.StretchY()
		if !horizontal {
			mainExt, crossExt = h, w
			crossStretch = rt.StretchX()
		}

		var crossPos float64
		if crossStretch {
			crossExt = crossLen
			crossPos = crossStart
		} else {
			crossPos = crossStart + (crossLen-crossExt)*crossFrac
		}

		mainPos := mainStart + cursor
		if p.config.Reverse {
			mainPos = mainStart + mainLen - cursor - mainExt
		}

		if horizontal {
			rt.place(Rect{X: mainPos, Y: crossPos, Width: mainExt, Height: crossExt})
		} else {
			rt.place(Rect{X: crossPos, Y: mainPos, Width: crossExt, Height: mainExt})
		}

		cursor += mainExt
		if i < len(kids)-1 {
			cursor += spacing
		}
		maxCross = math.Max(maxCross, crossExt)
	}

	if horizontal {
		return Vec2{cursor, maxCross}
	}
	return Vec2{maxCross, cursor}
}

// layoutGrid fills gridColumns columns row by row. Cells share one width,
// derived from the content width, and one height, the tallest fixed-height
// child. Each child is aligned inside its cell.
func (p *Panel) layoutGrid(kids []*Element, content Rect) Vec2 {
	cols := max(p.config.GridColumns, 1)
	spacing := p.config.Spacing
	fx, fy := p.config.ChildAlignment.fractions()

	cellW := (content.Width - spacing*float64(cols-1)) / float64(cols)
	if cellW < 0 {
		cellW = 0
	}
	cellH := 0.0
	for _, c := range kids {
		if !c.rect.StretchY() {
			cellH = math.Max(cellH, c.rect.size.Y)
		}
	}

	for i, c := range kids {
		rt := &c.rect
		row, col := i/cols, i%cols
		if p.config.Reverse {
			col = cols - 1 - col
		}
		cellX := content.X + float64(col)*(cellW+spacing)
		cellY := content.Y + float64(row)*(cellH+spacing)

		w, h := childExtent(rt)
		if rt.StretchX() {
			w = cellW
		}
		if rt.StretchY() {
			h = cellH
		}
		rt.place(Rect{
			X:      cellX + (cellW-w)*fx,
			Y:      cellY + (cellH-h)*fy,
			Width:  w,
			Height: h,
		})
	}

	rows, usedCols := gridShape(len(kids), cols)
	return Vec2{
		X: float64(usedCols)*cellW + spacing*float64(usedCols-1),
		Y: float64(rows)*cellH + spacing*float64(rows-1),
	}
}

// gridShape returns the row count and the number of occupied columns for n
// children in cols columns.
func gridShape(n, cols int) (rows, usedCols int) {
	if n == 0 {
		return 0, 0
	}
	return (n + cols - 1) / cols, min(n, cols)
}

func (p *Panel) draw(r Renderer, e *Element) {
	if p.Background.A <= 0 {
		return
	}
	rt := e.RectTransform()
	if p.BackgroundTexture != nil {
		r.DrawImage(p.BackgroundTexture, rt.LocalToWorldMatrix(), rt.ResolvedSize(), p.Background)
		return
	}
	r.DrawRect(rt.LocalToWorldMatrix(), rt.ResolvedSize(), p.Background)
}

func (p *Panel) update(*Element, float64) {
	p.UpdateLayout()
}

func (p *Panel) hitTest(_ *Element, _ Vec2) bool { return true }
