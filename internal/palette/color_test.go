package palette

import (
	"errors"
	"image/color"
	"math"
	"testing"
)

func TestHexToRGB(t *testing.T) {
	tests := []struct {
		name string
		hex  string
		want RGB
	}{
		{"with hash", "#FF8040", RGB{255, 128, 64}},
		{"without hash", "FF8040", RGB{255, 128, 64}},
		{"lowercase", "#ff8040", RGB{255, 128, 64}},
		{"black", "#000000", RGB{0, 0, 0}},
		{"white", "#FFFFFF", RGB{255, 255, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HexToRGB(tt.hex)
			if err != nil {
				t.Fatalf("HexToRGB(%q) failed: %v", tt.hex, err)
			}
			if got != tt.want {
				t.Errorf("HexToRGB(%q): got %+v, want %+v", tt.hex, got, tt.want)
			}
		})
	}
}

func TestHexToRGB_InvalidFormat(t *testing.T) {
	tests := []string{"", "#", "#FFF", "#FFFFFFF", "##FFFFFF", "#GGGGGG", "red", " #FFFFFF", "#FF FF FF"}

	for _, hex := range tests {
		t.Run(hex, func(t *testing.T) {
			_, err := HexToRGB(hex)
			if err == nil {
				t.Fatalf("HexToRGB(%q) should fail", hex)
			}
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("error %v should wrap ErrInvalidFormat", err)
			}
		})
	}
}

func TestRGBToHex(t *testing.T) {
	tests := []struct {
		r, g, b uint8
		want    string
	}{
		{0, 0, 0, "#000000"},
		{255, 255, 255, "#FFFFFF"},
		{1, 2, 3, "#010203"},
		{171, 205, 239, "#ABCDEF"},
	}

	for _, tt := range tests {
		if got := RGBToHex(tt.r, tt.g, tt.b); got != tt.want {
			t.Errorf("RGBToHex(%d,%d,%d): got %s, want %s", tt.r, tt.g, tt.b, got, tt.want)
		}
	}
}

func TestHexRoundTrip(t *testing.T) {
	// Every red/green value against a spread of blues keeps this fast while
	// still touching all 256 values per channel.
	for r := 0; r < 256; r++ {
		for g := 0; g < 256; g++ {
			b := (r*7 + g*13) % 256
			got, err := HexToRGB(RGBToHex(uint8(r), uint8(g), uint8(b)))
			if err != nil {
				t.Fatalf("round trip (%d,%d,%d) failed: %v", r, g, b, err)
			}
			if got != (RGB{uint8(r), uint8(g), uint8(b)}) {
				t.Fatalf("round trip (%d,%d,%d): got %+v", r, g, b, got)
			}
		}
	}
	for b := 0; b < 256; b++ {
		got, _ := HexToRGB(RGBToHex(0, 0, uint8(b)))
		if got.B != uint8(b) {
			t.Fatalf("blue round trip %d: got %d", b, got.B)
		}
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b RGB
		want float64
	}{
		{"identical", RGB{10, 20, 30}, RGB{10, 20, 30}, 0},
		{"one channel", RGB{0, 0, 0}, RGB{3, 0, 0}, 3},
		{"pythagorean", RGB{0, 0, 0}, RGB{3, 4, 0}, 5},
		{"black to white", RGB{0, 0, 0}, RGB{255, 255, 255}, math.Sqrt(3 * 255 * 255)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Distance: got %f, want %f", got, tt.want)
			}
			if rev := Distance(tt.b, tt.a); rev != got {
				t.Errorf("Distance not symmetric: %f vs %f", got, rev)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#abcdef", "#ABCDEF"},
		{"abcdef", "#ABCDEF"},
		{"  #AbCdEf ", "#ABCDEF"},
		{"transparent", Transparent},
		{"TRANSPARENT", Transparent},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Fatalf("ParseColor(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q): got %s, want %s", tt.in, got, tt.want)
		}
	}

	if _, err := ParseColor("#12345"); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("ParseColor(#12345): got %v, want ErrInvalidFormat", err)
	}
}

func TestFromNRGBA(t *testing.T) {
	tests := []struct {
		name string
		px   color.NRGBA
		want Color
	}{
		{"opaque", color.NRGBA{255, 0, 0, 255}, "#FF0000"},
		{"threshold alpha", color.NRGBA{0, 255, 0, 128}, "#00FF00"},
		{"below threshold", color.NRGBA{0, 255, 0, 127}, Transparent},
		{"fully transparent", color.NRGBA{}, Transparent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromNRGBA(tt.px); got != tt.want {
				t.Errorf("FromNRGBA(%v): got %s, want %s", tt.px, got, tt.want)
			}
		})
	}
}

func TestColor_NRGBA(t *testing.T) {
	if got := Color("#102030").NRGBA(); got != (color.NRGBA{0x10, 0x20, 0x30, 255}) {
		t.Errorf("NRGBA: got %v", got)
	}
	if got := Transparent.NRGBA(); got.A != 0 {
		t.Errorf("Transparent.NRGBA alpha: got %d, want 0", got.A)
	}
}

func TestColor_Equal(t *testing.T) {
	if !Color("#abcdef").Equal("#ABCDEF") {
		t.Error("colors differing only in case should be equal")
	}
	if !Color("abcdef").Equal("#ABCDEF") {
		t.Error("a missing '#' should not affect equality")
	}
	if Color("#ABCDEF").Equal("#ABCDEE") {
		t.Error("different colors should not be equal")
	}
}
