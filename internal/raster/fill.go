package raster

import (
	"image"
	"image/color"
)

// FloodFill replaces the 4-connected region of pixels whose RGBA exactly
// equals the pixel at (x, y) with c, and reports whether anything changed.
//
// The match includes alpha, so filling inside a transparent area only
// reaches contiguous pixels with identical RGBA. Filling with a fully
// transparent c erases the region. The fill is a no-op when the start is out
// of bounds, already equals c, or when both the start and c are transparent.
//
// The region is walked with an explicit stack rather than recursion.
func (s *Surface) FloodFill(x, y int, c color.NRGBA) bool {
	if !s.In(x, y) {
		return false
	}
	target := s.Get(x, y)
	if target == c || (target.A == 0 && c.A == 0) {
		return false
	}

	stack := []image.Point{{X: x, Y: y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !s.In(p.X, p.Y) || s.Get(p.X, p.Y) != target {
			continue
		}
		s.Set(p.X, p.Y, c)
		stack = append(stack,
			image.Pt(p.X+1, p.Y),
			image.Pt(p.X-1, p.Y),
			image.Pt(p.X, p.Y+1),
			image.Pt(p.X, p.Y-1),
		)
	}
	return true
}
