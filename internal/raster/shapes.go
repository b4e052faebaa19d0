package raster

import (
	"image"
	"math"
)

// Line returns the pixels of the segment p0-p1 using Bresenham's algorithm.
// It uses integer arithmetic only, handles all eight octants, and always
// includes both endpoints.
func Line(p0, p1 image.Point) []image.Point {
	dx := abs(p1.X - p0.X)
	dy := -abs(p1.Y - p0.Y)
	sx, sy := 1, 1
	if p0.X > p1.X {
		sx = -1
	}
	if p0.Y > p1.Y {
		sy = -1
	}

	points := make([]image.Point, 0, max(dx, -dy)+1)
	x, y := p0.X, p0.Y
	err := dx + dy
	for {
		points = append(points, image.Pt(x, y))
		if x == p1.X && y == p1.Y {
			return points
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// RectPoints returns the pixels of the axis-aligned rectangle spanned by two
// opposite corners (both inclusive). When fill is false only the outline is
// returned.
func RectPoints(a, b image.Point, fill bool) []image.Point {
	r := spanRect(a, b)
	var points []image.Point
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if fill || x == r.Min.X || x == r.Max.X-1 || y == r.Min.Y || y == r.Max.Y-1 {
				points = append(points, image.Pt(x, y))
			}
		}
	}
	return points
}

// Radius returns the rounded Euclidean distance between center and edge.
func Radius(center, edge image.Point) int {
	dx := float64(edge.X - center.X)
	dy := float64(edge.Y - center.Y)
	return int(math.Round(math.Sqrt(dx*dx + dy*dy)))
}

// CirclePoints rasterizes a circle with the midpoint algorithm, plotting the
// eight symmetric octant points. When fill is true each pair of symmetric
// points is joined by a horizontal span instead. Duplicate points are
// removed.
func CirclePoints(center image.Point, radius int, fill bool) []image.Point {
	if radius <= 0 {
		return []image.Point{center}
	}

	seen := make(map[image.Point]bool)
	var points []image.Point
	add := func(x, y int) {
		p := image.Pt(x, y)
		if !seen[p] {
			seen[p] = true
			points = append(points, p)
		}
	}
	span := func(x0, x1, y int) {
		for x := x0; x <= x1; x++ {
			add(x, y)
		}
	}

	cx, cy := center.X, center.Y
	x, y := radius, 0
	d := 1 - radius
	for x >= y {
		if fill {
			span(cx-x, cx+x, cy+y)
			span(cx-x, cx+x, cy-y)
			span(cx-y, cx+y, cy+x)
			span(cx-y, cx+y, cy-x)
		} else {
			add(cx+x, cy+y)
			add(cx-x, cy+y)
			add(cx+x, cy-y)
			add(cx-x, cy-y)
			add(cx+y, cy+x)
			add(cx-y, cy+x)
			add(cx+y, cy-x)
			add(cx-y, cy-x)
		}
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
	return points
}

// spanRect returns the half-open rectangle covering both corners inclusively.
func spanRect(a, b image.Point) image.Rectangle {
	return image.Rect(min(a.X, b.X), min(a.Y, b.Y), max(a.X, b.X)+1, max(a.Y, b.Y)+1)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
