// Package importer turns arbitrary images into validated pixel-art asset
// records: it undoes integer upscaling, analyzes the palette and rejects
// images whose size or color count fall outside the asset limits.
package importer

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/ironsheep/pixelkit/internal/imaging"
	"github.com/ironsheep/pixelkit/internal/palette"
	"github.com/ironsheep/pixelkit/internal/raster"
)

// Asset size limits, inclusive, for both width and height.
const (
	MinSize = 16
	MaxSize = 32
)

// Scales are the upscale factors tried, in order, when an image is outside
// the size limits.
var Scales = []int{10, 8, 4, 2}

var (
	// ErrSizeOutOfRange is returned when an image is not 16-32 pixels on
	// both sides, even after downscaling.
	ErrSizeOutOfRange = errors.New("image size out of range")

	// ErrColorCountOutOfRange is returned when an image's palette has fewer
	// than 2 or more than 15 colors.
	ErrColorCountOutOfRange = errors.New("color count out of range")
)

// Record is an imported asset.
type Record struct {
	Name               string           `json:"name"`
	Folder             string           `json:"folder"`
	Width              int              `json:"width"`
	Height             int              `json:"height"`
	PNG                []byte           `json:"-"`
	Colors             []palette.Color  `json:"colors"`
	ColorMap           palette.ColorMap `json:"color_map"`
	OriginalColorCount int              `json:"original_color_count"`
	// Scale is the factor the source was downscaled by, 1 if it was not.
	Scale int `json:"scale"`
}

// Image decodes the record's PNG.
func (r *Record) Image() (image.Image, error) {
	return imaging.DecodeBytes(r.PNG)
}

// InRange reports whether w x h is a valid asset size.
func InRange(w, h int) bool {
	return w >= MinSize && w <= MaxSize && h >= MinSize && h <= MaxSize
}

// DetectScale returns the first of Scales that divides both dimensions and
// brings them into range, or 0 if none does.
func DetectScale(w, h int) int {
	for _, s := range Scales {
		if w%s == 0 && h%s == 0 && InRange(w/s, h/s) {
			return s
		}
	}
	return 0
}

// Downscale shrinks img by scale, taking the center pixel of every
// scale x scale block.
func Downscale(img image.Image, scale int) *raster.Surface {
	src := raster.FromImage(img)
	if scale <= 1 {
		return src
	}
	dst := raster.New(src.Width/scale, src.Height/scale)
	off := scale / 2
	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			dst.Set(x, y, src.Get(x*scale+off, y*scale+off))
		}
	}
	return dst
}

// Validate checks the size and palette limits of an analyzed image.
func Validate(w, h int, a *palette.Analysis) error {
	if !InRange(w, h) {
		return fmt.Errorf("%dx%d: %w", w, h, ErrSizeOutOfRange)
	}
	if n := len(a.Colors); n < palette.MinColors || n > palette.MaxColors {
		return fmt.Errorf("%d colors: %w", n, ErrColorCountOutOfRange)
	}
	return nil
}

// Import normalizes, analyzes and validates img.
//
// Images already within the size limits are taken as is. Larger or smaller
// ones are downscaled by the first matching factor of Scales, and only
// downscaled images have their palette quantized, since resampling is what
// introduces near-duplicate colors.
func Import(name string, img image.Image) (*Record, error) {
	surface := raster.FromImage(img)
	scale := 1
	if !InRange(surface.Width, surface.Height) {
		if s := DetectScale(surface.Width, surface.Height); s > 0 {
			surface = Downscale(surface, s)
			scale = s
		}
	}

	analysis := palette.Analyze(surface, scale > 1, palette.DefaultThreshold)
	if err := Validate(surface.Width, surface.Height, analysis); err != nil {
		return nil, err
	}

	data, err := imaging.EncodePNG(surface)
	if err != nil {
		return nil, err
	}

	return &Record{
		Name:               name,
		Width:              surface.Width,
		Height:             surface.Height,
		PNG:                data,
		Colors:             analysis.Colors,
		ColorMap:           analysis.ColorMap,
		OriginalColorCount: analysis.OriginalColorCount,
		Scale:              scale,
	}, nil
}

// ImportFile decodes and imports the image at path. The record is named
// after the file without its extension.
func ImportFile(path string) (*Record, error) {
	img, err := imaging.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	return Import(NameFromPath(path), img)
}

// ImportDataURL decodes and imports a base64 data URL.
func ImportDataURL(name, url string) (*Record, error) {
	img, err := imaging.DecodeDataURL(url)
	if err != nil {
		return nil, err
	}
	return Import(name, img)
}

// NameFromPath returns the base name of path without its extension.
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
