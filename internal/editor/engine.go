package editor

import (
	"fmt"
	"image"
	"strings"

	"github.com/ironsheep/pixelkit/internal/palette"
	"github.com/ironsheep/pixelkit/internal/raster"
)

// Tool selects what pointer input does.
type Tool int

const (
	ToolPencil Tool = iota
	ToolEraser
	ToolLine
	ToolRectangle
	ToolCircle
	ToolFill
	ToolPicker
	ToolLasso
	ToolCrop
)

var toolNames = [...]string{
	ToolPencil:    "pencil",
	ToolEraser:    "eraser",
	ToolLine:      "line",
	ToolRectangle: "rectangle",
	ToolCircle:    "circle",
	ToolFill:      "fill",
	ToolPicker:    "picker",
	ToolLasso:     "lasso",
	ToolCrop:      "crop",
}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return toolNames[t]
}

// ParseTool maps a tool name such as "pencil" or "Circle" to its Tool.
func ParseTool(s string) (Tool, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range toolNames {
		if n == name {
			return Tool(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tool %q", s)
}

// Phase is the pointer state of the engine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePressed
	PhaseDragging
)

func (p Phase) String() string {
	switch p {
	case PhasePressed:
		return "pressed"
	case PhaseDragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Button identifies which pointer button is held.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

// Options are the user-selectable drawing settings.
type Options struct {
	Primary    palette.Color
	Secondary  palette.Color
	FillShapes bool
}

// DefaultOptions paints black with the primary button and erases with the
// secondary one.
func DefaultOptions() Options {
	return Options{
		Primary:   "#000000",
		Secondary: palette.Transparent,
	}
}

// Effects reports what an engine call changed.
//
// Composed and ColorMap are set whenever the layer stack changed in a way
// callers should redisplay; Committed is set only when a history snapshot
// was taken.
type Effects struct {
	Committed      bool
	LayersChanged  bool
	OverlayChanged bool
	Composed       *raster.Surface
	ColorMap       palette.ColorMap
	Picked         palette.Color
}

// Engine is the drawing state machine for one editing session.
//
// It is not safe for concurrent use.
type Engine struct {
	stack   *raster.Stack
	history *History
	opts    Options

	tool   Tool
	phase  Phase
	button Button
	anchor image.Point
	last   image.Point
	// stroke records whether the current pencil or eraser drag touched a pixel.
	stroke bool
	// dirty is set while the layers hold edits newer than the last snapshot.
	dirty bool

	overlay *raster.Surface
	lasso   lassoState
	crop    *CropBox
}

// New starts a session on stack. The initial state is recorded as the first
// history snapshot so that undo can always return to it.
func New(stack *raster.Stack, opts Options) *Engine {
	e := &Engine{
		stack:   stack,
		history: NewHistory(DefaultHistoryLimit),
		opts:    opts,
		overlay: raster.New(stack.Width(), stack.Height()),
	}
	e.history.Reset(stack)
	return e
}

// Load replaces the session with a single-layer stack built from s.
// Unsaved edits and history are discarded.
func (e *Engine) Load(s *raster.Surface) {
	e.stack = raster.StackFromSurface(s)
	e.history.Reset(e.stack)
	e.dirty = false
	e.resetPointer()
	e.lasso = lassoState{}
	e.crop = nil
	e.overlay = raster.New(s.Width, s.Height)
}

// Stack returns the live layer stack.
func (e *Engine) Stack() *raster.Stack { return e.stack }

// History returns the session's snapshot history.
func (e *Engine) History() *History { return e.history }

// Tool returns the active tool.
func (e *Engine) Tool() Tool { return e.tool }

// Phase returns the pointer phase.
func (e *Engine) Phase() Phase { return e.phase }

// Options returns the current drawing options.
func (e *Engine) Options() Options { return e.opts }

// SetOptions replaces the drawing options.
func (e *Engine) SetOptions(o Options) { e.opts = o }

// Overlay returns the preview surface drawn above the canvas.
func (e *Engine) Overlay() *raster.Surface { return e.overlay }

// SetTool switches tools. Any floating lasso content is dropped without
// being restored, crop mode is left, and an in-progress drag is abandoned.
func (e *Engine) SetTool(t Tool) Effects {
	if t == e.tool {
		return Effects{}
	}
	e.tool = t
	e.resetPointer()
	e.lasso = lassoState{}
	e.crop = nil
	if t == ToolCrop {
		e.crop = NewCropBox(e.bounds())
	}
	e.overlay.Clear()
	return Effects{OverlayChanged: true}
}

// Preview returns the composed canvas with the overlay and any floating
// lasso content drawn on top.
func (e *Engine) Preview() *raster.Surface {
	out := e.stack.Compose()
	if e.lasso.floating() {
		out.DrawFrom(e.lasso.content, e.lasso.content.Bounds(), e.lasso.origin)
	}
	out.DrawFrom(e.overlay, e.overlay.Bounds(), image.Point{})
	return out
}

// OnPress handles a pointer press at pt.
func (e *Engine) OnPress(pt image.Point, b Button) Effects {
	e.button = b
	e.anchor = pt
	e.last = pt
	e.phase = PhasePressed

	layer := e.stack.Current().Surface
	switch e.tool {
	case ToolPencil, ToolEraser:
		e.stroke = e.paint(layer, []image.Point{pt}, e.strokeColor())
		e.dirty = e.dirty || e.stroke
		return Effects{LayersChanged: e.stroke}
	case ToolLine, ToolRectangle, ToolCircle:
		e.drawOverlay(pt)
		return Effects{OverlayChanged: true}
	case ToolFill:
		if !layer.FloodFill(pt.X, pt.Y, e.strokeColor().NRGBA()) {
			return Effects{}
		}
		return e.commit()
	case ToolPicker:
		return e.pick(pt)
	case ToolLasso:
		return e.lassoPress(pt)
	case ToolCrop:
		e.cropBox().Begin(pt)
		return Effects{}
	}
	return Effects{}
}

// OnMove handles pointer motion. Motion without a held button is ignored.
func (e *Engine) OnMove(pt image.Point) Effects {
	if e.phase == PhaseIdle {
		return Effects{}
	}
	e.phase = PhaseDragging
	prev := e.last
	e.last = pt

	switch e.tool {
	case ToolPencil, ToolEraser:
		changed := e.paint(e.stack.Current().Surface, raster.Line(prev, pt), e.strokeColor())
		e.stroke = e.stroke || changed
		e.dirty = e.dirty || changed
		return Effects{LayersChanged: changed}
	case ToolLine, ToolRectangle, ToolCircle:
		e.drawOverlay(pt)
		return Effects{OverlayChanged: true}
	case ToolLasso:
		return e.lassoMove(prev, pt)
	case ToolCrop:
		e.cropBox().Drag(pt)
		return Effects{}
	}
	return Effects{}
}

// OnRelease handles the pointer release that ends a press.
func (e *Engine) OnRelease(pt image.Point) Effects {
	if e.phase == PhaseIdle {
		return Effects{}
	}
	defer e.resetPointer()

	switch e.tool {
	case ToolPencil, ToolEraser:
		if pt != e.last {
			e.stroke = e.paint(e.stack.Current().Surface, raster.Line(e.last, pt), e.strokeColor()) || e.stroke
		}
		if !e.stroke {
			return Effects{}
		}
		return e.commit()
	case ToolLine, ToolRectangle, ToolCircle:
		e.overlay.Clear()
		if !e.paint(e.stack.Current().Surface, e.shapePoints(pt), e.strokeColor()) {
			return Effects{OverlayChanged: true}
		}
		fx := e.commit()
		fx.OverlayChanged = true
		return fx
	case ToolLasso:
		return e.lassoRelease(pt)
	case ToolCrop:
		e.cropBox().End()
		return Effects{}
	}
	return Effects{}
}

// AddLayer appends a transparent layer above the others and selects it.
func (e *Engine) AddLayer() Effects {
	e.stack.Add()
	return e.commit()
}

// DeleteLayer removes the current layer. It is a no-op with one layer left.
func (e *Engine) DeleteLayer() Effects {
	if !e.stack.Delete() {
		return Effects{}
	}
	return e.commit()
}

// MoveLayerUp raises the current layer one position.
func (e *Engine) MoveLayerUp() Effects {
	if !e.stack.MoveUp() {
		return Effects{}
	}
	return e.commit()
}

// MoveLayerDown lowers the current layer one position.
func (e *Engine) MoveLayerDown() Effects {
	if !e.stack.MoveDown() {
		return Effects{}
	}
	return e.commit()
}

// SelectLayer makes layer i current.
func (e *Engine) SelectLayer(i int) bool { return e.stack.Select(i) }

// RenameLayer renames layer i.
func (e *Engine) RenameLayer(i int, name string) bool { return e.stack.Rename(i, name) }

// SetLayerVisibility shows or hides layer i. Visibility is not recorded as
// its own history step.
func (e *Engine) SetLayerVisibility(i int, visible bool) Effects {
	if !e.stack.SetVisibility(i, visible) {
		return Effects{}
	}
	return e.recompose()
}

// CanUndo reports whether Undo would change anything.
func (e *Engine) CanUndo() bool { return e.dirty || e.history.CanUndo() }

// CanRedo reports whether Redo would change anything.
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

// Undo restores the previous snapshot. Uncommitted edits, such as pixels
// lifted by a cancelled lasso, are rolled back first.
func (e *Engine) Undo() Effects {
	if e.dirty {
		snap, ok := e.history.Current()
		if ok {
			return e.restore(snap)
		}
	}
	snap, ok := e.history.Undo()
	if !ok {
		return Effects{}
	}
	return e.restore(snap)
}

// Redo restores the next snapshot.
func (e *Engine) Redo() Effects {
	snap, ok := e.history.Redo()
	if !ok {
		return Effects{}
	}
	return e.restore(snap)
}

func (e *Engine) restore(snap *raster.Stack) Effects {
	e.stack.Restore(snap)
	e.dirty = false
	e.resetPointer()
	e.lasso = lassoState{}
	if e.tool == ToolCrop {
		e.crop = NewCropBox(e.bounds())
	}
	e.overlay = raster.New(e.stack.Width(), e.stack.Height())
	fx := e.recompose()
	fx.OverlayChanged = true
	return fx
}

// commit records one snapshot and recomposes once.
func (e *Engine) commit() Effects {
	e.history.Push(e.stack)
	e.dirty = false
	fx := e.recompose()
	fx.Committed = true
	return fx
}

func (e *Engine) recompose() Effects {
	composed := e.stack.Compose()
	return Effects{
		LayersChanged: true,
		Composed:      composed,
		ColorMap:      composed.ToColorMap(),
	}
}

func (e *Engine) resetPointer() {
	e.phase = PhaseIdle
	e.stroke = false
	e.lasso.dragging = false
}

func (e *Engine) bounds() image.Rectangle {
	return image.Rect(0, 0, e.stack.Width(), e.stack.Height())
}

// strokeColor is the color the held button paints with.
func (e *Engine) strokeColor() palette.Color {
	if e.tool == ToolEraser {
		return palette.Transparent
	}
	if e.button == ButtonSecondary {
		return e.opts.Secondary
	}
	return e.opts.Primary
}

// paint writes c at every point and reports whether any pixel changed.
func (e *Engine) paint(s *raster.Surface, points []image.Point, c palette.Color) bool {
	px := c.NRGBA()
	changed := false
	for _, p := range points {
		if s.In(p.X, p.Y) && s.Get(p.X, p.Y) != px {
			s.Set(p.X, p.Y, px)
			changed = true
		}
	}
	return changed
}

func (e *Engine) shapePoints(end image.Point) []image.Point {
	switch e.tool {
	case ToolRectangle:
		return raster.RectPoints(e.anchor, end, e.opts.FillShapes)
	case ToolCircle:
		return raster.CirclePoints(e.anchor, raster.Radius(e.anchor, end), e.opts.FillShapes)
	default:
		return raster.Line(e.anchor, end)
	}
}

func (e *Engine) drawOverlay(end image.Point) {
	e.overlay.Clear()
	e.overlay.Plot(e.shapePoints(end), e.strokeColor().NRGBA())
}

func (e *Engine) pick(pt image.Point) Effects {
	composed := e.stack.Compose()
	if !composed.In(pt.X, pt.Y) {
		return Effects{}
	}
	c := palette.FromNRGBA(composed.Get(pt.X, pt.Y))
	if e.button == ButtonSecondary {
		e.opts.Secondary = c
	} else {
		e.opts.Primary = c
	}
	return Effects{Picked: c}
}
