package editor

import (
	"image"
	"image/color"

	"github.com/ironsheep/pixelkit/internal/raster"
)

// marquee is the overlay color of an in-progress lasso outline.
var marquee = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}

// lassoState holds the vertices being collected or, after extraction, the
// floating pixels lifted off the current layer.
type lassoState struct {
	points   []image.Point
	content  *raster.Surface
	origin   image.Point
	dragging bool
}

func (l *lassoState) floating() bool { return l.content != nil }

func (l *lassoState) contentRect() image.Rectangle {
	return image.Rect(0, 0, l.content.Width, l.content.Height).Add(l.origin)
}

// Floating reports whether lasso content is lifted and waiting for
// LassoMove, LassoCut or LassoCancel.
func (e *Engine) Floating() bool { return e.lasso.floating() }

// LassoContent returns the floating pixels and their current top-left
// position on the canvas, or nil when nothing is floating.
func (e *Engine) LassoContent() (*raster.Surface, image.Point) {
	return e.lasso.content, e.lasso.origin
}

func (e *Engine) lassoPress(pt image.Point) Effects {
	if e.lasso.floating() {
		if pt.In(e.lasso.contentRect()) {
			e.lasso.dragging = true
			return Effects{}
		}
		// Presses outside the floating content do nothing until it is
		// placed, cut or cancelled.
		e.phase = PhaseIdle
		return Effects{}
	}
	e.lasso.points = []image.Point{pt}
	e.drawLasso()
	return Effects{OverlayChanged: true}
}

func (e *Engine) lassoMove(prev, pt image.Point) Effects {
	if e.lasso.dragging {
		e.lasso.origin = e.lasso.origin.Add(pt.Sub(prev))
		return Effects{OverlayChanged: true}
	}
	n := len(e.lasso.points)
	if e.lasso.floating() || n == 0 || pt == e.lasso.points[n-1] {
		return Effects{}
	}
	e.lasso.points = append(e.lasso.points, pt)
	e.drawLasso()
	return Effects{OverlayChanged: true}
}

func (e *Engine) lassoRelease(pt image.Point) Effects {
	if e.lasso.dragging || e.lasso.floating() {
		e.lasso.dragging = false
		return Effects{}
	}
	if len(e.lasso.points) == 0 {
		return Effects{}
	}
	if pt != e.lasso.points[len(e.lasso.points)-1] {
		e.lasso.points = append(e.lasso.points, pt)
	}
	points := e.lasso.points
	e.lasso.points = nil
	e.overlay.Clear()

	if len(points) < 3 {
		return Effects{OverlayChanged: true}
	}
	if !e.extract(points) {
		return Effects{OverlayChanged: true}
	}
	fx := e.recompose()
	fx.OverlayChanged = true
	return fx
}

// extract lifts every pixel of the current layer whose center lies inside
// the closed polygon into floating content, leaving transparency behind. It
// reports false, changing nothing, when no pixel center is enclosed.
func (e *Engine) extract(points []image.Point) bool {
	box := raster.PolygonBounds(points).Intersect(e.bounds())
	if box.Empty() {
		return false
	}
	var inside []image.Point
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			if p := image.Pt(x, y); raster.PointInPolygon(p, points) {
				inside = append(inside, p)
			}
		}
	}
	if len(inside) == 0 {
		return false
	}

	layer := e.stack.Current().Surface
	content := raster.New(box.Dx(), box.Dy())
	for _, p := range inside {
		content.Set(p.X-box.Min.X, p.Y-box.Min.Y, layer.Get(p.X, p.Y))
		layer.Set(p.X, p.Y, color.NRGBA{})
	}
	e.lasso.content = content
	e.lasso.origin = box.Min
	e.dirty = true
	return true
}

// drawLasso redraws the open polyline of collected vertices.
func (e *Engine) drawLasso() {
	e.overlay.Clear()
	pts := e.lasso.points
	if len(pts) == 1 {
		e.overlay.Set(pts[0].X, pts[0].Y, marquee)
		return
	}
	for i := 1; i < len(pts); i++ {
		e.overlay.Plot(raster.Line(pts[i-1], pts[i]), marquee)
	}
}

// LassoMove stamps the floating content onto the current layer at its
// dragged position and commits.
func (e *Engine) LassoMove() Effects {
	if !e.lasso.floating() {
		return Effects{}
	}
	content, origin := e.lasso.content, e.lasso.origin
	e.lasso = lassoState{}
	e.stack.Current().Surface.DrawFrom(content, content.Bounds(), origin)
	fx := e.commit()
	fx.OverlayChanged = true
	return fx
}

// LassoCut discards the floating content and commits the cleared area.
func (e *Engine) LassoCut() Effects {
	if !e.lasso.floating() {
		return Effects{}
	}
	e.lasso = lassoState{}
	fx := e.commit()
	fx.OverlayChanged = true
	return fx
}

// LassoCancel discards the floating content without committing. The pixels
// cleared by the extraction are not put back; Undo returns them.
func (e *Engine) LassoCancel() Effects {
	if !e.lasso.floating() && len(e.lasso.points) == 0 {
		return Effects{}
	}
	e.lasso = lassoState{}
	e.resetPointer()
	e.overlay.Clear()
	return Effects{OverlayChanged: true}
}
