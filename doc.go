// Package canopy is a retained-mode UI layout engine for [Ebitengine].
//
// Canopy places rectangles relative to their parents with anchors, pivots,
// and offsets, caches the resulting world matrices until something changes,
// and arranges children of layout panels into rows, columns, or grids.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	sys := canopy.NewSystem()
//	ui := sys.NewCanvas("ui")
//	// ... add elements to ui.Root() ...
//	canopy.Run(sys, canopy.RunConfig{
//		Title: "My Tool", Width: 1280, Height: 720,
//	})
//
// For full control, implement [ebiten.Game] yourself and call
// [System.ProcessInput], [System.Update], and [System.Draw] directly:
//
//	func (g *Game) Update() error {
//		g.sys.ProcessInput()
//		g.sys.Update(1.0 / 60)
//		return nil
//	}
//	func (g *Game) Draw(s *ebiten.Image) { g.sys.Draw(canopy.NewEbitenRenderer(s)) }
//	func (g *Game) Layout(w, h int) (int, int) {
//		g.ui.Resize(float64(w), float64(h))
//		return w, h
//	}
//
// # Rect transforms
//
// Every [Element] owns a [RectTransform]. Its anchors are fractions of the
// parent rectangle. When the two anchors of an axis coincide the element has
// a fixed size on that axis and its position is measured from the anchor
// point; when they differ the axis stretches, and edge offsets set the inset
// from the anchor lines:
//
//	bar := canopy.NewPanel("toolbar")
//	rt := bar.RectTransform()
//	rt.SetAnchorPreset(canopy.AnchorStretchTop, false)
//	rt.SetOffsets(canopy.Edges{Left: 8, Right: 8})
//	rt.SetSize(canopy.Vec2{Y: 32})
//
// Writes mark the transform and its descendants dirty; world-space reads
// recompute only the dirty part of the path from the root.
// [RectTransform.SetAnchorPreset] with preservePosition keeps the element's
// on-screen rectangle while switching anchors.
//
// # Layout
//
// A [Panel] with a [LayoutMode] other than LayoutNone positions its active,
// visible children during [System.Update]. A dirty panel lays out before its
// children update. Changing a layout setting, the child list, or a child's
// active or visible flag requests a new pass; anything else, including a
// nested panel's own resize, calls for [Panel.MarkLayoutDirty].
//
// # Input
//
// [System.Dispatch] routes pointer and key events to the topmost interactable
// element and bubbles them up the tree. Listeners register with
// [Element.AddEventListener]. Hover, press capture, drag, click, double click,
// and keyboard focus are tracked per System.
//
// # Rendering
//
// [System.Draw] hands each visible widget to a [Renderer].
// [EbitenRenderer] draws onto an Ebitengine image; [SoftwareRenderer]
// rasterizes on the CPU with [gg] for headless snapshots.
//
// Tweens (via [gween]) animate transform properties and colors, and the ecs
// sub-package forwards events into a [Donburi] world.
//
// [Ebitengine]: https://ebitengine.org
// [gg]: https://github.com/gogpu/gg
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package canopy
