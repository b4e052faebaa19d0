package editor

import (
	"image"

	"github.com/ironsheep/pixelkit/internal/raster"
)

// Handle is the part of a CropBox grabbed by a press.
type Handle int

const (
	HandleNone Handle = iota
	HandleMove
	HandleTopLeft
	HandleTop
	HandleTopRight
	HandleRight
	HandleBottomRight
	HandleBottom
	HandleBottomLeft
	HandleLeft
)

// handleTolerance is how far, in pixels, a press may land from a handle and
// still grab it.
const handleTolerance = 1

// CropBox is the adjustable crop rectangle shown while the crop tool is
// active. Rect always lies inside the canvas and is at least 1x1.
type CropBox struct {
	Rect image.Rectangle

	bounds image.Rectangle
	grab   Handle
	start  image.Point
	orig   image.Rectangle
}

// NewCropBox returns a box covering all of bounds.
func NewCropBox(bounds image.Rectangle) *CropBox {
	return &CropBox{Rect: bounds, bounds: bounds}
}

// handles returns the eight resize handle positions: the corners and the
// edge midpoints, on the rectangle's edge lines.
func (c *CropBox) handles() map[Handle]image.Point {
	r := c.Rect
	midX := (r.Min.X + r.Max.X) / 2
	midY := (r.Min.Y + r.Max.Y) / 2
	return map[Handle]image.Point{
		HandleTopLeft:     r.Min,
		HandleTopRight:    image.Pt(r.Max.X, r.Min.Y),
		HandleBottomRight: r.Max,
		HandleBottomLeft:  image.Pt(r.Min.X, r.Max.Y),
		HandleTop:         image.Pt(midX, r.Min.Y),
		HandleRight:       image.Pt(r.Max.X, midY),
		HandleBottom:      image.Pt(midX, r.Max.Y),
		HandleLeft:        image.Pt(r.Min.X, midY),
	}
}

// HandleAt reports which handle a press at p would grab. Corners win over
// edges, handles over the interior.
func (c *CropBox) HandleAt(p image.Point) Handle {
	hs := c.handles()
	order := []Handle{
		HandleTopLeft, HandleTopRight, HandleBottomRight, HandleBottomLeft,
		HandleTop, HandleRight, HandleBottom, HandleLeft,
	}
	for _, h := range order {
		d := p.Sub(hs[h])
		if abs(d.X) <= handleTolerance && abs(d.Y) <= handleTolerance {
			return h
		}
	}
	if p.In(c.Rect) {
		return HandleMove
	}
	return HandleNone
}

// Begin grabs whatever lies under p. It reports whether anything was grabbed.
func (c *CropBox) Begin(p image.Point) bool {
	c.grab = c.HandleAt(p)
	c.start = p
	c.orig = c.Rect
	return c.grab != HandleNone
}

// Drag moves or resizes the box by the distance from the Begin point.
func (c *CropBox) Drag(p image.Point) {
	if c.grab == HandleNone {
		return
	}
	d := p.Sub(c.start)
	if c.grab == HandleMove {
		c.Rect = c.translate(d)
		return
	}

	r := c.orig
	switch c.grab {
	case HandleTopLeft, HandleLeft, HandleBottomLeft:
		r.Min.X = clamp(r.Min.X+d.X, c.bounds.Min.X, r.Max.X-1)
	case HandleTopRight, HandleRight, HandleBottomRight:
		r.Max.X = clamp(r.Max.X+d.X, r.Min.X+1, c.bounds.Max.X)
	}
	switch c.grab {
	case HandleTopLeft, HandleTop, HandleTopRight:
		r.Min.Y = clamp(r.Min.Y+d.Y, c.bounds.Min.Y, r.Max.Y-1)
	case HandleBottomLeft, HandleBottom, HandleBottomRight:
		r.Max.Y = clamp(r.Max.Y+d.Y, r.Min.Y+1, c.bounds.Max.Y)
	}
	c.Rect = r
}

// translate shifts the grabbed rectangle by d without leaving the bounds.
func (c *CropBox) translate(d image.Point) image.Rectangle {
	r := c.orig
	d.X = clamp(d.X, c.bounds.Min.X-r.Min.X, c.bounds.Max.X-r.Max.X)
	d.Y = clamp(d.Y, c.bounds.Min.Y-r.Min.Y, c.bounds.Max.Y-r.Max.Y)
	return r.Add(d)
}

// End releases the grabbed handle.
func (c *CropBox) End() { c.grab = HandleNone }

// Grabbed returns the handle currently held.
func (c *CropBox) Grabbed() Handle { return c.grab }

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// CropBox returns the crop rectangle while the crop tool is active, or nil.
func (e *Engine) CropBox() *CropBox {
	if e.tool != ToolCrop {
		return nil
	}
	return e.cropBox()
}

func (e *Engine) cropBox() *CropBox {
	if e.crop == nil {
		e.crop = NewCropBox(e.bounds())
	}
	return e.crop
}

// ConfirmCrop crops every layer and the overlay to the crop box and commits.
// Confirming a box that still covers the whole canvas does nothing.
func (e *Engine) ConfirmCrop() Effects {
	if e.tool != ToolCrop {
		return Effects{}
	}
	r := e.cropBox().Rect
	e.crop = nil
	if r == e.bounds() || !e.stack.Crop(r) {
		return Effects{}
	}
	e.overlay = raster.New(e.stack.Width(), e.stack.Height())
	fx := e.commit()
	fx.OverlayChanged = true
	return fx
}

// CancelCrop resets the crop box to the full canvas.
func (e *Engine) CancelCrop() Effects {
	if e.tool != ToolCrop {
		return Effects{}
	}
	e.crop = nil
	return Effects{}
}
