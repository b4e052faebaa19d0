package editor

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/pixelkit/internal/palette"
)

// SaveResult is the exported form of the composed canvas.
type SaveResult struct {
	PNG        []byte           `json:"-"`
	Width      int              `json:"width"`
	Height     int              `json:"height"`
	Colors     []palette.Color  `json:"colors"`
	ColorMap   palette.ColorMap `json:"color_map"`
	ColorCount int              `json:"color_count"`
}

// Save composes the visible layers and encodes them as PNG together with
// their palette. Floating lasso content is not part of the saved image.
func (e *Engine) Save() (*SaveResult, error) {
	composed := e.stack.Compose()

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, composed.NRGBA(), imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	analysis := palette.Analyze(composed, false, 0)
	return &SaveResult{
		PNG:        buf.Bytes(),
		Width:      composed.Width,
		Height:     composed.Height,
		Colors:     analysis.Colors,
		ColorMap:   analysis.ColorMap,
		ColorCount: len(analysis.Colors),
	}, nil
}
