package palette

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidFormat is returned when a string is not a 6-digit hex color.
var ErrInvalidFormat = errors.New("invalid color format")

// Transparent is the reserved "no color / erase" value.
const Transparent Color = "transparent"

// AlphaThreshold is the smallest alpha treated as opaque.
const AlphaThreshold = 128

var hexPattern = regexp.MustCompile(`^#?([0-9A-Fa-f]{6})$`)

// Color is a canonical "#RRGGBB" color or Transparent.
type Color string

// RGB represents an RGB color with 8-bit components.
type RGB struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HexToRGB parses a 6-digit hex color with an optional leading '#'.
func HexToRGB(hex string) (RGB, error) {
	m := hexPattern.FindStringSubmatch(hex)
	if m == nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidFormat, hex)
	}
	v, err := strconv.ParseUint(m[1], 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidFormat, hex)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// RGBToHex formats components as "#RRGGBB".
func RGBToHex(r, g, b uint8) string {
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// Distance returns the Euclidean distance between two colors in RGB space.
func Distance(a, b RGB) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// ParseColor normalizes s into a Color. The word "transparent" (any case)
// yields Transparent.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, string(Transparent)) {
		return Transparent, nil
	}
	rgb, err := HexToRGB(s)
	if err != nil {
		return "", err
	}
	return rgb.Color(), nil
}

// MustParse is like ParseColor but panics on error. Intended for constants
// and tests.
func MustParse(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// FromNRGBA converts a pixel to a Color, mapping alpha < 128 to Transparent.
func FromNRGBA(c color.NRGBA) Color {
	if c.A < AlphaThreshold {
		return Transparent
	}
	return Color(RGBToHex(c.R, c.G, c.B))
}

// Color returns the canonical hex form.
func (c RGB) Color() Color {
	return Color(RGBToHex(c.R, c.G, c.B))
}

// IsTransparent reports whether c is the erase sentinel.
func (c Color) IsTransparent() bool {
	return c == Transparent
}

// RGB returns the components of c. Transparent and malformed values give black.
func (c Color) RGB() RGB {
	rgb, _ := HexToRGB(string(c))
	return rgb
}

// NRGBA returns c as an opaque pixel, or the zero pixel for Transparent.
func (c Color) NRGBA() color.NRGBA {
	if c.IsTransparent() {
		return color.NRGBA{}
	}
	rgb := c.RGB()
	return color.NRGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// Equal compares two colors case-insensitively, ignoring a leading '#'.
func (c Color) Equal(o Color) bool {
	return strings.EqualFold(strings.TrimPrefix(string(c), "#"), strings.TrimPrefix(string(o), "#"))
}

func (c Color) String() string {
	return string(c)
}
