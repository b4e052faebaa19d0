package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestGridOverlay_GridLines(t *testing.T) {
	img := Zoom(createInMemoryImage(4, 4, color.NRGBA{0, 0, 0, 255}), 8)

	out, err := GridOverlay(img, 8, false, "#FF0000")
	if err != nil {
		t.Fatalf("GridOverlay failed: %v", err)
	}

	if out.Bounds().Dx() != 32 || out.Bounds().Dy() != 32 {
		t.Errorf("dimensions: got %v, want 32x32", out.Bounds())
	}

	red := color.NRGBA{255, 0, 0, 255}
	black := color.NRGBA{0, 0, 0, 255}
	tests := []struct {
		x, y int
		want color.NRGBA
	}{
		{8, 3, red},
		{24, 30, red},
		{3, 16, red},
		{0, 0, black},
		{3, 3, black},
		{15, 15, black},
		{31, 31, black},
	}
	for _, tt := range tests {
		if got := out.NRGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d): got %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}

	if got := img.NRGBAAt(8, 3); got != black {
		t.Error("GridOverlay must not modify its input")
	}
}

func TestGridOverlay_DefaultColor(t *testing.T) {
	img := createInMemoryImage(16, 16, color.NRGBA{255, 255, 255, 255})

	out, err := GridOverlay(img, 4, false, "")
	if err != nil {
		t.Fatalf("GridOverlay failed: %v", err)
	}
	if got := out.NRGBAAt(4, 0); got != (color.NRGBA{0x40, 0x40, 0x40, 255}) {
		t.Errorf("default grid color: got %v", got)
	}
}

func TestGridOverlay_Errors(t *testing.T) {
	img := createInMemoryImage(16, 16, color.NRGBA{255, 255, 255, 255})

	tests := []struct {
		name    string
		spacing int
		color   string
	}{
		{"spacing one", 1, "#FF0000"},
		{"spacing zero", 0, "#FF0000"},
		{"invalid color", 4, "invalid"},
		{"transparent", 4, "transparent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := GridOverlay(img, tt.spacing, false, tt.color); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestGridOverlay_WithCoordinates(t *testing.T) {
	img := Zoom(createInMemoryImage(2, 2, color.NRGBA{128, 128, 128, 255}), 16)

	out, err := GridOverlay(img, 16, true, "#FF0000")
	if err != nil {
		t.Fatalf("GridOverlay failed: %v", err)
	}

	// "1,0" sits in the top-right cell; the '1' glyph has its stem at column 1.
	if got := out.NRGBAAt(16+2+1, 2); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("label pixel: got %v, want white", got)
	}
	if got := out.NRGBAAt(10, 12); got != (color.NRGBA{128, 128, 128, 255}) {
		t.Errorf("cell interior away from label: got %v", got)
	}
}

func TestDrawLabel_BoundsCheck(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	fg := color.NRGBA{255, 255, 255, 255}
	bg := color.NRGBA{0, 0, 0, 180}

	// Labels running past the edges are clipped.
	drawLabel(img, 15, 15, "100,100", fg, bg)
	drawLabel(img, -5, -5, "0,0", fg, bg)
	drawLabel(img, 2, 2, "", fg, bg)
	drawLabel(img, 2, 2, "abc", fg, bg)
}

func TestRenderGrid(t *testing.T) {
	img := createPatternImage(4, 4)

	result, err := RenderGrid(img, 4, Grid{Color: "#FFFFFF"})
	if err != nil {
		t.Fatalf("RenderGrid failed: %v", err)
	}
	if result.Width != 16 || result.Height != 16 || result.GridSpacing != 4 {
		t.Errorf("result: got %dx%d spacing %d, want 16x16 spacing 4", result.Width, result.Height, result.GridSpacing)
	}

	data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode png: %v", err)
	}
	if r, g, b, _ := decoded.At(4, 1).RGBA(); r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("grid line at (4,1): got (%d,%d,%d), want white", r>>8, g>>8, b>>8)
	}
	if r, g, b, _ := decoded.At(1, 1).RGBA(); r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("cell at (1,1): got (%d,%d,%d), want red", r>>8, g>>8, b>>8)
	}

	for _, zoom := range []int{0, 1, MaxZoom + 1} {
		if _, err := RenderGrid(img, zoom, Grid{}); err == nil {
			t.Errorf("zoom %d should fail", zoom)
		}
	}
}
