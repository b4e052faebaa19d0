package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/pixelkit/internal/palette"
)

// RGBAColor represents an RGBA color with 8-bit components including alpha.
//
// The alpha component represents opacity:
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex     string        `json:"hex"`     // Hex format "#RRGGBB" (no alpha)
	RGBA    RGBAColor     `json:"rgba"`    // RGBA components with alpha
	HSL     HSLColor      `json:"hsl"`     // HSL representation
	Palette palette.Color `json:"palette"` // Editor color; "transparent" below the alpha threshold
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Parameters:
//   - img: The source image to sample from.
//   - x: X coordinate (0-based, 0 = leftmost pixel).
//   - y: Y coordinate (0-based, 0 = topmost pixel).
//
// Returns:
//   - *ColorResult: The color at (x, y) in multiple formats.
//   - error: Non-nil if coordinates are outside the image bounds.
//
// # Color Conversion
//
// The pixel is read in non-premultiplied form, so a half-transparent red
// still reports Hex "#FF0000". HSL is computed by go-colorful from the
// same 8-bit components.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	if !image.Pt(x, y).In(img.Bounds()) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)

	return &ColorResult{
		Hex:     palette.RGBToHex(c.R, c.G, c.B),
		RGBA:    RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
		HSL:     toHSL(c.R, c.G, c.B),
		Palette: palette.FromNRGBA(c),
	}, nil
}

// toHSL converts 8-bit RGB to whole-number HSL.
func toHSL(r, g, b uint8) HSLColor {
	h, s, l := colorful.Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}.Hsl()

	if math.IsNaN(h) {
		h = 0
	}
	return HSLColor{
		H: int(math.Round(h)) % 360,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}
