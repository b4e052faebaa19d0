package palette

import (
	"image"
	"image/color"

	"github.com/ericpauley/go-quantize/quantize"
)

// Suggest proposes a palette of at most n colors for img using median cut.
// Transparent pixels carry no weight. The result is deduplicated and
// normalized; it may be shorter than n.
func Suggest(img image.Image, n int) []Color {
	if n <= 0 {
		return nil
	}
	if n > MaxColors {
		n = MaxColors
	}

	q := quantize.MedianCutQuantizer{
		Aggregation: quantize.Mean,
		Weighting: func(m image.Image, x, y int) uint32 {
			if pixelAt(m, x, y).A < AlphaThreshold {
				return 0
			}
			return 1
		},
	}
	p := q.Quantize(make(color.Palette, 0, n), img)

	out := make([]Color, 0, len(p))
	seen := make(map[Color]bool, len(p))
	for _, c := range p {
		px := color.NRGBAModel.Convert(c).(color.NRGBA)
		key := Color(RGBToHex(px.R, px.G, px.B))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}
