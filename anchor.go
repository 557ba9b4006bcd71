package canopy

import "fmt"

// AnchorPreset names a common anchor configuration. The first nine pin the
// rectangle to a point of the parent; the Stretch variants track the parent
// along one or both axes.
type AnchorPreset uint8

const (
	AnchorTopLeft AnchorPreset = iota
	AnchorTopCenter
	AnchorTopRight
	AnchorMiddleLeft
	AnchorMiddleCenter
	AnchorMiddleRight
	AnchorBottomLeft
	AnchorBottomCenter
	AnchorBottomRight
	AnchorStretchTop    // horizontal stretch along the top edge
	AnchorStretchMiddle // horizontal stretch through the middle
	AnchorStretchBottom // horizontal stretch along the bottom edge
	AnchorStretchLeft   // vertical stretch along the left edge
	AnchorStretchCenter // vertical stretch through the center
	AnchorStretchRight  // vertical stretch along the right edge
	AnchorStretchFull   // stretch on both axes

	anchorPresetCount
)

var anchorPresetTable = [anchorPresetCount]struct {
	name     string
	min, max Vec2
}{
	AnchorTopLeft:       {"TopLeft", Vec2{0, 0}, Vec2{0, 0}},
	AnchorTopCenter:     {"TopCenter", Vec2{0.5, 0}, Vec2{0.5, 0}},
	AnchorTopRight:      {"TopRight", Vec2{1, 0}, Vec2{1, 0}},
	AnchorMiddleLeft:    {"MiddleLeft", Vec2{0, 0.5}, Vec2{0, 0.5}},
	AnchorMiddleCenter:  {"MiddleCenter", Vec2{0.5, 0.5}, Vec2{0.5, 0.5}},
	AnchorMiddleRight:   {"MiddleRight", Vec2{1, 0.5}, Vec2{1, 0.5}},
	AnchorBottomLeft:    {"BottomLeft", Vec2{0, 1}, Vec2{0, 1}},
	AnchorBottomCenter:  {"BottomCenter", Vec2{0.5, 1}, Vec2{0.5, 1}},
	AnchorBottomRight:   {"BottomRight", Vec2{1, 1}, Vec2{1, 1}},
	AnchorStretchTop:    {"StretchTop", Vec2{0, 0}, Vec2{1, 0}},
	AnchorStretchMiddle: {"StretchMiddle", Vec2{0, 0.5}, Vec2{1, 0.5}},
	AnchorStretchBottom: {"StretchBottom", Vec2{0, 1}, Vec2{1, 1}},
	AnchorStretchLeft:   {"StretchLeft", Vec2{0, 0}, Vec2{0, 1}},
	AnchorStretchCenter: {"StretchCenter", Vec2{0.5, 0}, Vec2{0.5, 1}},
	AnchorStretchRight:  {"StretchRight", Vec2{1, 0}, Vec2{1, 1}},
	AnchorStretchFull:   {"StretchFull", Vec2{0, 0}, Vec2{1, 1}},
}

// Anchors returns the anchor minimum and maximum for the preset. Unknown
// presets resolve to MiddleCenter.
func (p AnchorPreset) Anchors() (min, max Vec2) {
	if p >= anchorPresetCount {
		p = AnchorMiddleCenter
	}
	e := anchorPresetTable[p]
	return e.min, e.max
}

func (p AnchorPreset) String() string {
	if p >= anchorPresetCount {
		return fmt.Sprintf("AnchorPreset(%d)", uint8(p))
	}
	return anchorPresetTable[p].name
}

// ParseAnchorPreset looks up a preset by its String name.
func ParseAnchorPreset(s string) (AnchorPreset, error) {
	for i, e := range anchorPresetTable {
		if e.name == s {
			return AnchorPreset(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown anchor preset %q", ErrInvalidArgument, s)
}

// SetAnchorPreset switches the anchors to the preset's values.
//
// With preservePosition the rectangle stays exactly where it is: on fixed
// axes the size and position are solved from the current rect, on stretch
// axes the offsets are. Without it, position and offsets reset to zero and the
// rectangle lands wherever the new anchors put it.
func (rt *RectTransform) SetAnchorPreset(preset AnchorPreset, preservePosition bool) error {
	if preset >= anchorPresetCount {
		return invalidArg("SetAnchorPreset", preset)
	}
	min, max := preset.Anchors()
	if !preservePosition {
		rt.setAnchors(min, max)
		if rt.position != (Vec2{}) || rt.offsets != (Edges{}) {
			rt.position = Vec2{}
			rt.offsets = Edges{}
			rt.markDirty()
		}
		return nil
	}

	current := rt.LocalRect()
	rt.setAnchors(min, max)
	rt.place(current)
	return nil
}
