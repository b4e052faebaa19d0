package palette

import (
	"image"
	"image/color"
	"sort"
)

// MaxColors is the largest palette a valid asset may carry, and the number of
// representatives quantization stops at.
const MaxColors = 15

// MinColors is the smallest palette a valid asset may carry.
const MinColors = 2

// DefaultThreshold is the merge distance used when an import was downscaled.
const DefaultThreshold = 30

// ColorMap maps each opaque color to its pixel count.
type ColorMap map[Color]int

// Total returns the number of pixels counted in m.
func (m ColorMap) Total() int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}

// Count returns the pixel count for c, matching case-insensitively.
func (m ColorMap) Count(c Color) int {
	if n, ok := m[c]; ok {
		return n
	}
	parsed, err := ParseColor(string(c))
	if err != nil {
		return 0
	}
	return m[parsed]
}

// Analysis is the result of scanning an image for colors.
type Analysis struct {
	// Colors is the output palette. Without quantization it lists every
	// opaque color in first-seen (row-major) order; with quantization it lists
	// the chosen representatives by descending frequency.
	Colors []Color `json:"colors"`

	// ColorMap holds exact per-color pixel counts. Quantization never
	// rewrites it.
	ColorMap ColorMap `json:"color_map"`

	// OriginalColorCount is the number of distinct opaque colors before
	// quantization.
	OriginalColorCount int `json:"original_color_count"`
}

// nrgbaImage is implemented by *image.NRGBA and raster surfaces and lets
// Analyze skip the generic color conversion.
type nrgbaImage interface {
	NRGBAAt(x, y int) color.NRGBA
}

func pixelAt(img image.Image, x, y int) color.NRGBA {
	if n, ok := img.(nrgbaImage); ok {
		return n.NRGBAAt(x, y)
	}
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

// Analyze scans every pixel of img, builds its ColorMap and palette, and
// optionally quantizes the palette.
//
// Parameters:
//   - img: Source image. Pixels with alpha < 128 are skipped entirely.
//   - quantize: When true and the image has more than MaxColors distinct
//     colors, the palette is reduced with greedy frequency-ordered clustering.
//   - threshold: Colors closer than this (Euclidean RGB) to a chosen
//     representative are merged into it.
//
// # Quantization
//
// Distinct colors are sorted by descending pixel count (ties keep scan
// order). The most frequent unclustered color becomes a representative and
// every other unclustered color within threshold joins its cluster. This
// repeats until MaxColors representatives exist or every color is clustered.
// Pixels are not recolored: only the palette shrinks.
func Analyze(img image.Image, quantize bool, threshold float64) *Analysis {
	bounds := img.Bounds()
	colorMap := make(ColorMap)
	order := make([]Color, 0, 16)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			px := pixelAt(img, x, y)
			if px.A < AlphaThreshold {
				continue
			}
			key := Color(RGBToHex(px.R, px.G, px.B))
			if _, seen := colorMap[key]; !seen {
				order = append(order, key)
			}
			colorMap[key]++
		}
	}

	result := &Analysis{
		Colors:             order,
		ColorMap:           colorMap,
		OriginalColorCount: len(order),
	}
	if quantize && len(order) > MaxColors {
		result.Colors = Quantize(order, colorMap, threshold)
	}
	return result
}

// Quantize picks at most MaxColors representatives from colors using the
// counts in colorMap. See Analyze for the algorithm.
func Quantize(colors []Color, colorMap ColorMap, threshold float64) []Color {
	sorted := make([]Color, len(colors))
	copy(sorted, colors)
	sort.SliceStable(sorted, func(i, j int) bool {
		return colorMap[sorted[i]] > colorMap[sorted[j]]
	})

	rgbs := make([]RGB, len(sorted))
	for i, c := range sorted {
		rgbs[i] = c.RGB()
	}

	clustered := make([]bool, len(sorted))
	reps := make([]Color, 0, MaxColors)
	for i := range sorted {
		if len(reps) == MaxColors {
			break
		}
		if clustered[i] {
			continue
		}
		clustered[i] = true
		reps = append(reps, sorted[i])
		for j := i + 1; j < len(sorted); j++ {
			if !clustered[j] && Distance(rgbs[i], rgbs[j]) < threshold {
				clustered[j] = true
			}
		}
	}
	return reps
}
