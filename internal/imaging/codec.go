package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// MimePNG is the MIME type of every image this package encodes.
const MimePNG = "image/png"

// MaxZoom is the largest integer magnification Render accepts.
const MaxZoom = 32

// ErrInvalidDataURL is returned when a string is not a base64 data URL.
var ErrInvalidDataURL = errors.New("invalid data URL")

// RenderResult contains an encoded, possibly magnified, image.
type RenderResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	GridSpacing int    `json:"grid_spacing,omitempty"`
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeBytes decodes an encoded image held in memory.
func DecodeBytes(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// EncodeDataURL encodes img as a "data:image/png;base64,..." URL.
func EncodeDataURL(img image.Image) (string, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	return PNGDataURL(data), nil
}

// PNGDataURL wraps already encoded PNG bytes in a data URL.
func PNGDataURL(data []byte) string {
	return "data:" + MimePNG + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL decodes a base64 data URL of any registered image type.
//
// The media type is not trusted; the payload is sniffed like any other
// image bytes.
func DecodeDataURL(url string) (image.Image, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(url), "data:")
	if !ok {
		return nil, fmt.Errorf("%w: missing data: scheme", ErrInvalidDataURL)
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing payload", ErrInvalidDataURL)
	}
	if !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("%w: payload is not base64", ErrInvalidDataURL)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return DecodeBytes(data)
}

// Zoom magnifies img by an integer factor with nearest-neighbor sampling, so
// every source pixel becomes a crisp factor x factor block. Factors below 1
// are treated as 1.
func Zoom(img image.Image, factor int) *image.NRGBA {
	factor = max(factor, 1)
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Render magnifies img by zoom and returns it as base64 PNG.
//
// Parameters:
//   - img: The image to render.
//   - zoom: Integer magnification, 1 to MaxZoom.
//
// Returns:
//   - *RenderResult: The encoded image and its output dimensions.
//   - error: Non-nil if zoom is out of range or encoding fails.
func Render(img image.Image, zoom int) (*RenderResult, error) {
	if zoom < 1 || zoom > MaxZoom {
		return nil, fmt.Errorf("zoom %d out of range 1-%d", zoom, MaxZoom)
	}

	return encodeRender(Zoom(img, zoom))
}

func encodeRender(out *image.NRGBA) (*RenderResult, error) {
	data, err := EncodePNG(out)
	if err != nil {
		return nil, err
	}

	return &RenderResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    MimePNG,
	}, nil
}
