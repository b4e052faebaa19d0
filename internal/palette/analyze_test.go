package palette

import (
	"image"
	"image/color"
	"testing"
)

// createCheckerboard creates a fully opaque two-tone checkerboard.
func createCheckerboard(width, height int, a, b color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x+y)%2 == 0 {
				img.SetNRGBA(x, y, a)
			} else {
				img.SetNRGBA(x, y, b)
			}
		}
	}
	return img
}

// createRamp creates an image holding n shades of red where shade i
// (R = i*step) covers n-i pixels, so lower shades are more frequent.
func createRamp(n int, step uint8) *image.NRGBA {
	total := n * (n + 1) / 2
	img := image.NewNRGBA(image.Rect(0, 0, total, 1))
	x := 0
	for i := 0; i < n; i++ {
		for k := 0; k < n-i; k++ {
			img.SetNRGBA(x, 0, color.NRGBA{R: uint8(i) * step, A: 255})
			x++
		}
	}
	return img
}

func TestAnalyze_Checkerboard(t *testing.T) {
	img := createCheckerboard(20, 20, color.NRGBA{0, 0, 0, 255}, color.NRGBA{255, 255, 255, 255})

	result := Analyze(img, false, 0)

	if result.OriginalColorCount != 2 {
		t.Errorf("OriginalColorCount: got %d, want 2", result.OriginalColorCount)
	}
	if len(result.ColorMap) != 2 {
		t.Fatalf("ColorMap size: got %d, want 2", len(result.ColorMap))
	}
	if got := result.ColorMap["#000000"]; got != 200 {
		t.Errorf("#000000 count: got %d, want 200", got)
	}
	if got := result.ColorMap["#FFFFFF"]; got != 200 {
		t.Errorf("#FFFFFF count: got %d, want 200", got)
	}
	if len(result.Colors) != 2 || result.Colors[0] != "#000000" || result.Colors[1] != "#FFFFFF" {
		t.Errorf("Colors: got %v, want [#000000 #FFFFFF]", result.Colors)
	}
}

func TestAnalyze_SkipsTransparent(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(1, 0, color.NRGBA{255, 0, 0, 200})
	img.SetNRGBA(2, 0, color.NRGBA{0, 255, 0, 127})
	img.SetNRGBA(3, 0, color.NRGBA{0, 0, 255, 128})

	result := Analyze(img, false, 0)

	if result.OriginalColorCount != 2 {
		t.Errorf("OriginalColorCount: got %d, want 2", result.OriginalColorCount)
	}
	if got := result.ColorMap["#FF0000"]; got != 2 {
		t.Errorf("#FF0000 count: got %d, want 2", got)
	}
	if _, ok := result.ColorMap["#00FF00"]; ok {
		t.Error("pixel with alpha 127 should not be counted")
	}
	if got := result.ColorMap.Total(); got != 3 {
		t.Errorf("Total: got %d, want 3 opaque pixels", got)
	}
}

func TestAnalyze_EmptyImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))

	result := Analyze(img, true, DefaultThreshold)

	if len(result.Colors) != 0 || len(result.ColorMap) != 0 || result.OriginalColorCount != 0 {
		t.Errorf("expected empty analysis, got %+v", result)
	}
}

func TestAnalyze_NonNRGBASource(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{10, 20, 30, 255})
	img.Set(1, 0, color.RGBA{0, 0, 0, 0})

	result := Analyze(img, false, 0)

	if got := result.ColorMap["#0A141E"]; got != 1 {
		t.Errorf("#0A141E count: got %d, want 1", got)
	}
	if result.OriginalColorCount != 1 {
		t.Errorf("OriginalColorCount: got %d, want 1", result.OriginalColorCount)
	}
}

func TestAnalyze_QuantizeMergesNeighbors(t *testing.T) {
	img := createRamp(20, 12)

	result := Analyze(img, true, 30)

	if result.OriginalColorCount != 20 {
		t.Errorf("OriginalColorCount: got %d, want 20", result.OriginalColorCount)
	}
	// Shades 12 apart: each representative absorbs the next two.
	want := []Color{"#000000", "#240000", "#480000", "#6C0000", "#900000", "#B40000", "#D80000"}
	if len(result.Colors) != len(want) {
		t.Fatalf("Colors: got %v, want %v", result.Colors, want)
	}
	for i := range want {
		if result.Colors[i] != want[i] {
			t.Errorf("Colors[%d]: got %s, want %s", i, result.Colors[i], want[i])
		}
	}
	if len(result.ColorMap) != 20 {
		t.Errorf("quantization must not rewrite ColorMap: got %d entries", len(result.ColorMap))
	}
}

func TestAnalyze_QuantizeCapsAtMaxColors(t *testing.T) {
	img := createRamp(20, 12)

	result := Analyze(img, true, 0)

	if len(result.Colors) != MaxColors {
		t.Fatalf("Colors: got %d, want %d", len(result.Colors), MaxColors)
	}
	// Most frequent first: shade 0 has the most pixels.
	for i, c := range result.Colors {
		want := Color(RGBToHex(uint8(i)*12, 0, 0))
		if c != want {
			t.Errorf("Colors[%d]: got %s, want %s", i, c, want)
		}
	}
}

func TestAnalyze_QuantizeOnlyAboveMaxColors(t *testing.T) {
	img := createRamp(15, 1)

	result := Analyze(img, true, 100)

	if len(result.Colors) != 15 {
		t.Errorf("15 colors should not be quantized: got %d", len(result.Colors))
	}
}

func TestAnalyze_QuantizeDisabled(t *testing.T) {
	img := createRamp(20, 12)

	result := Analyze(img, false, 30)

	if len(result.Colors) != 20 {
		t.Errorf("Colors: got %d, want 20 without quantization", len(result.Colors))
	}
}

func TestQuantize_NeverExceedsBounds(t *testing.T) {
	for _, n := range []int{16, 20, 40, 100} {
		for _, threshold := range []float64{0, 5, 30, 500} {
			img := createRamp(n, 2)
			result := Analyze(img, true, threshold)
			if len(result.Colors) > MaxColors {
				t.Errorf("n=%d threshold=%v: %d colors exceeds %d", n, threshold, len(result.Colors), MaxColors)
			}
			if len(result.Colors) > result.OriginalColorCount {
				t.Errorf("n=%d threshold=%v: %d colors exceeds original %d", n, threshold, len(result.Colors), result.OriginalColorCount)
			}
		}
	}
}

func TestColorMap_Count(t *testing.T) {
	m := ColorMap{"#ABCDEF": 3}
	if got := m.Count("#abcdef"); got != 3 {
		t.Errorf("Count(#abcdef): got %d, want 3", got)
	}
	if got := m.Count("nope"); got != 0 {
		t.Errorf("Count(nope): got %d, want 0", got)
	}
}

func TestSuggest(t *testing.T) {
	img := createCheckerboard(16, 16, color.NRGBA{255, 0, 0, 255}, color.NRGBA{0, 0, 255, 255})

	got := Suggest(img, 4)

	if len(got) == 0 || len(got) > 4 {
		t.Fatalf("Suggest: got %d colors, want 1..4", len(got))
	}
	seen := make(map[Color]bool)
	for _, c := range got {
		if seen[c] {
			t.Errorf("duplicate suggestion %s", c)
		}
		seen[c] = true
	}
}

func TestSuggest_ZeroColors(t *testing.T) {
	img := createCheckerboard(16, 16, color.NRGBA{255, 0, 0, 255}, color.NRGBA{0, 0, 255, 255})
	if got := Suggest(img, 0); got != nil {
		t.Errorf("Suggest(0): got %v, want nil", got)
	}
}
