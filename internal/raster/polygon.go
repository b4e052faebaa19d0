package raster

import "image"

// PointInPolygon reports whether the center of pixel p lies inside the
// polygon described by vertices, using the even-odd ray casting rule. The
// polygon is closed implicitly from the last vertex back to the first.
func PointInPolygon(p image.Point, vertices []image.Point) bool {
	if len(vertices) < 3 {
		return false
	}
	px := float64(p.X) + 0.5
	py := float64(p.Y) + 0.5

	inside := false
	j := len(vertices) - 1
	for i := range vertices {
		xi, yi := float64(vertices[i].X), float64(vertices[i].Y)
		xj, yj := float64(vertices[j].X), float64(vertices[j].Y)
		if (yi > py) != (yj > py) && px < (xj-xi)*(py-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}

// PolygonBounds returns the axis-aligned bounding box of vertices as a
// half-open rectangle that includes every vertex pixel.
func PolygonBounds(vertices []image.Point) image.Rectangle {
	if len(vertices) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: vertices[0], Max: vertices[0].Add(image.Pt(1, 1))}
	for _, v := range vertices[1:] {
		r = r.Union(image.Rectangle{Min: v, Max: v.Add(image.Pt(1, 1))})
	}
	return r
}
