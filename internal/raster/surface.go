// Package raster provides the pixel buffers the editor draws on: an
// addressable Surface, the rasterizers used by drawing tools, and the layer
// Stack that composes surfaces into one image.
//
// Every coordinate operation is permissive: writes outside the surface are
// dropped and rectangles are clipped. Interactive drags routinely run past
// the canvas edge, so nothing here panics or returns an error for bounds.
package raster

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/pixelkit/internal/palette"
)

// Surface is a dense, non-premultiplied RGBA pixel buffer.
//
// Invariant: len(Pix) == Width*Height*4. Pixel (x, y) starts at
// Pix[(y*Width+x)*4].
type Surface struct {
	Width  int
	Height int
	Pix    []uint8
}

// New allocates a fully transparent surface.
func New(width, height int) *Surface {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Surface{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// FromImage copies img into a new surface whose origin is (0,0).
func FromImage(img image.Image) *Surface {
	n := imaging.Clone(img)
	b := n.Bounds()
	s := New(b.Dx(), b.Dy())
	for y := 0; y < s.Height; y++ {
		copy(s.Pix[y*s.Width*4:(y+1)*s.Width*4], n.Pix[y*n.Stride:y*n.Stride+s.Width*4])
	}
	return s
}

// In reports whether (x, y) lies on the surface.
func (s *Surface) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < s.Width && y < s.Height
}

func (s *Surface) offset(x, y int) int {
	return (y*s.Width + x) * 4
}

// Get returns the pixel at (x, y), or the zero (transparent) pixel when out
// of bounds.
func (s *Surface) Get(x, y int) color.NRGBA {
	if !s.In(x, y) {
		return color.NRGBA{}
	}
	i := s.offset(x, y)
	return color.NRGBA{R: s.Pix[i], G: s.Pix[i+1], B: s.Pix[i+2], A: s.Pix[i+3]}
}

// Set writes c at (x, y). Out-of-bounds writes are ignored.
func (s *Surface) Set(x, y int, c color.NRGBA) {
	if !s.In(x, y) {
		return
	}
	i := s.offset(x, y)
	s.Pix[i], s.Pix[i+1], s.Pix[i+2], s.Pix[i+3] = c.R, c.G, c.B, c.A
}

// Plot writes c at every point.
func (s *Surface) Plot(points []image.Point, c color.NRGBA) {
	for _, p := range points {
		s.Set(p.X, p.Y, c)
	}
}

// FillRect paints r (clipped to the surface) with c.
func (s *Surface) FillRect(r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(s.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			s.Set(x, y, c)
		}
	}
}

// ClearRect makes r (clipped to the surface) fully transparent.
func (s *Surface) ClearRect(r image.Rectangle) {
	s.FillRect(r, color.NRGBA{})
}

// Clear makes the whole surface transparent.
func (s *Surface) Clear() {
	for i := range s.Pix {
		s.Pix[i] = 0
	}
}

// DrawFrom copies srcRect of src onto s with srcRect.Min landing at dst.
// Source pixels with zero alpha leave the destination untouched; every other
// source pixel overwrites it. Both rectangles are clipped.
func (s *Surface) DrawFrom(src *Surface, srcRect image.Rectangle, dst image.Point) {
	srcRect = srcRect.Intersect(src.Bounds())
	for y := srcRect.Min.Y; y < srcRect.Max.Y; y++ {
		for x := srcRect.Min.X; x < srcRect.Max.X; x++ {
			px := src.Get(x, y)
			if px.A == 0 {
				continue
			}
			s.Set(dst.X+x-srcRect.Min.X, dst.Y+y-srcRect.Min.Y, px)
		}
	}
}

// Crop returns a new surface holding r clipped to s. An empty intersection
// gives a 0x0 surface.
func (s *Surface) Crop(r image.Rectangle) *Surface {
	r = r.Intersect(s.Bounds())
	if r.Empty() {
		return New(0, 0)
	}
	return FromImage(imaging.Crop(s, r))
}

// Clone returns a deep copy of s.
func (s *Surface) Clone() *Surface {
	c := &Surface{Width: s.Width, Height: s.Height, Pix: make([]uint8, len(s.Pix))}
	copy(c.Pix, s.Pix)
	return c
}

// Equal reports whether both surfaces have the same size and pixels.
func (s *Surface) Equal(o *Surface) bool {
	if s.Width != o.Width || s.Height != o.Height {
		return false
	}
	for i := range s.Pix {
		if s.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

// ToColorMap counts the opaque colors of s.
func (s *Surface) ToColorMap() palette.ColorMap {
	return palette.Analyze(s, false, 0).ColorMap
}

// OpaqueCount returns the number of pixels with alpha >= 128.
func (s *Surface) OpaqueCount() int {
	n := 0
	for i := 3; i < len(s.Pix); i += 4 {
		if s.Pix[i] >= palette.AlphaThreshold {
			n++
		}
	}
	return n
}

// NRGBA returns a copy of s as a standard library image.
func (s *Surface) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(s.Bounds())
	copy(img.Pix, s.Pix)
	return img
}

// ColorModel implements image.Image.
func (s *Surface) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements image.Image.
func (s *Surface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.Width, s.Height)
}

// At implements image.Image.
func (s *Surface) At(x, y int) color.Color {
	return s.Get(x, y)
}

// NRGBAAt matches *image.NRGBA so analysis can read pixels directly.
func (s *Surface) NRGBAAt(x, y int) color.NRGBA {
	return s.Get(x, y)
}
