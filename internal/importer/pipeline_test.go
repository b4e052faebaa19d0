package importer

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/pixelkit/internal/imaging"
)

var (
	red   = color.NRGBA{255, 0, 0, 255}
	blue  = color.NRGBA{0, 0, 255, 255}
	noise = color.NRGBA{0, 255, 0, 255}
)

// createImage builds a width x height image colored by fn.
func createImage(width, height int, fn func(x, y int) color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, fn(x, y))
		}
	}
	return img
}

// twoTone is red on the left half and blue on the right.
func twoTone(width, height int) *image.NRGBA {
	return createImage(width, height, func(x, y int) color.NRGBA {
		if x < width/2 {
			return red
		}
		return blue
	})
}

// writePNG saves img under dir and returns the path.
func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	data, err := imaging.EncodePNG(img)
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestDetectScale(t *testing.T) {
	tests := []struct {
		w, h int
		want int
	}{
		{40, 40, 2},
		{160, 160, 10},
		{64, 64, 4},
		{320, 160, 10},
		{128, 256, 8},
		{33, 33, 0},
		{100, 100, 4},
		{8, 8, 0},
	}

	for _, tt := range tests {
		if got := DetectScale(tt.w, tt.h); got != tt.want {
			t.Errorf("DetectScale(%d,%d): got %d, want %d", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestDownscale_CenterSampling(t *testing.T) {
	// Each 4x4 block has a stray pixel in its top-left corner; only the
	// block's center should survive.
	img := createImage(16, 16, func(x, y int) color.NRGBA {
		if x%4 == 0 && y%4 == 0 {
			return noise
		}
		return red
	})

	out := Downscale(img, 4)

	if out.Width != 4 || out.Height != 4 {
		t.Fatalf("dimensions: got %dx%d, want 4x4", out.Width, out.Height)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got := out.Get(x, y); got != red {
				t.Errorf("pixel (%d,%d): got %v, want %v", x, y, got, red)
			}
		}
	}
}

func TestImport_Downscales(t *testing.T) {
	rec, err := Import("hero", twoTone(40, 40))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if rec.Width != 20 || rec.Height != 20 {
		t.Errorf("dimensions: got %dx%d, want 20x20", rec.Width, rec.Height)
	}
	if rec.Scale != 2 {
		t.Errorf("Scale: got %d, want 2", rec.Scale)
	}
	if len(rec.Colors) != 2 || rec.ColorMap["#FF0000"] != 200 || rec.ColorMap["#0000FF"] != 200 {
		t.Errorf("palette: got %v / %v", rec.Colors, rec.ColorMap)
	}

	img, err := rec.Image()
	if err != nil {
		t.Fatalf("Image failed: %v", err)
	}
	if img.Bounds().Dx() != 20 {
		t.Errorf("stored PNG width: got %d, want 20", img.Bounds().Dx())
	}
}

func TestImport_NativeSizeKept(t *testing.T) {
	rec, err := Import("icon", twoTone(16, 32))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if rec.Width != 16 || rec.Height != 32 || rec.Scale != 1 {
		t.Errorf("got %dx%d scale %d, want 16x32 scale 1", rec.Width, rec.Height, rec.Scale)
	}
	if rec.Name != "icon" {
		t.Errorf("Name: got %q", rec.Name)
	}
}

func TestImport_InRangeNotDownscaled(t *testing.T) {
	// 2x2 blocks would pass scale detection, but 32x32 is already a
	// valid sprite size.
	img := createImage(32, 32, func(x, y int) color.NRGBA {
		if (x/2+y/2)%2 == 0 {
			return red
		}
		return blue
	})

	rec, err := Import("checker", img)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if rec.Width != 32 || rec.Height != 32 || rec.Scale != 1 {
		t.Errorf("got %dx%d scale %d, want 32x32 scale 1", rec.Width, rec.Height, rec.Scale)
	}
	if rec.ColorMap["#FF0000"] != 512 || rec.ColorMap["#0000FF"] != 512 {
		t.Errorf("ColorMap: got %v", rec.ColorMap)
	}
}

func TestImport_QuantizesDownscaled(t *testing.T) {
	// 40 distinct shades in two tight families, upscaled 2x.
	img := createImage(40, 40, func(x, y int) color.NRGBA {
		shade := uint8(200 + y/2)
		if x < 20 {
			return color.NRGBA{shade, 0, 0, 255}
		}
		return color.NRGBA{0, 0, shade, 255}
	})

	rec, err := Import("gradient", img)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if rec.OriginalColorCount != 40 {
		t.Errorf("OriginalColorCount: got %d, want 40", rec.OriginalColorCount)
	}
	if len(rec.Colors) != 2 {
		t.Errorf("quantized palette: got %v, want 2 colors", rec.Colors)
	}
	if rec.ColorMap.Total() != 400 {
		t.Errorf("ColorMap must keep exact counts: total %d, want 400", rec.ColorMap.Total())
	}
}

func TestImport_Rejects(t *testing.T) {
	many := createImage(16, 16, func(x, y int) color.NRGBA {
		return color.NRGBA{uint8(x * 16), uint8(y * 16), 0, 255}
	})

	tests := []struct {
		name string
		img  image.Image
		want error
	}{
		{"no matching scale", twoTone(33, 33), ErrSizeOutOfRange},
		{"too small", twoTone(8, 8), ErrSizeOutOfRange},
		{"single color", createImage(16, 16, func(x, y int) color.NRGBA { return red }), ErrColorCountOutOfRange},
		{"fully transparent", image.NewNRGBA(image.Rect(0, 0, 16, 16)), ErrColorCountOutOfRange},
		{"too many colors at native size", many, ErrColorCountOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import(tt.name, tt.img)
			if !errors.Is(err, tt.want) {
				t.Errorf("Import: got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestImportFile(t *testing.T) {
	path := writePNG(t, t.TempDir(), "knight.png", twoTone(20, 20))

	rec, err := ImportFile(path)
	if err != nil {
		t.Fatalf("ImportFile failed: %v", err)
	}
	if rec.Name != "knight" {
		t.Errorf("Name: got %q, want knight", rec.Name)
	}

	if _, err := ImportFile(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("ImportFile should fail for a missing file")
	}
}

func TestImportDataURL(t *testing.T) {
	url, err := imaging.EncodeDataURL(twoTone(24, 24))
	if err != nil {
		t.Fatalf("EncodeDataURL failed: %v", err)
	}

	rec, err := ImportDataURL("slime", url)
	if err != nil {
		t.Fatalf("ImportDataURL failed: %v", err)
	}
	if rec.Width != 24 || len(rec.Colors) != 2 {
		t.Errorf("got %dx%d with %d colors", rec.Width, rec.Height, len(rec.Colors))
	}

	if _, err := ImportDataURL("bad", "data:text/plain,hello"); !errors.Is(err, imaging.ErrInvalidDataURL) {
		t.Errorf("ImportDataURL: got %v, want ErrInvalidDataURL", err)
	}
}

func TestNameFromPath(t *testing.T) {
	tests := map[string]string{
		"/a/b/hero.png":     "hero",
		"sprite.sheet.png":  "sprite.sheet",
		"noext":             "noext",
		"dir/with.dot/file": "file",
	}
	for in, want := range tests {
		if got := NameFromPath(in); got != want {
			t.Errorf("NameFromPath(%q): got %q, want %q", in, got, want)
		}
	}
}
