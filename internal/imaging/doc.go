// Package imaging is the file and wire boundary for pixel-art images: it
// decodes files and data URLs, encodes PNG, renders zoomed previews with an
// optional pixel grid, and reports colors at a point.
//
// The editor and palette packages work on in-memory images and reach this
// package only through the importer and the server.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, Min is inclusive and Max is exclusive
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The codec and color
// functions are stateless.
//
// # Color Representation
//
// SampleColor reports a pixel in several formats:
//   - Hex: 6-character format "#RRGGBB" (alpha excluded)
//   - RGBA: 8-bit components with alpha (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//   - Palette: the palette color the editor would see, or "transparent"
//
// # Error Handling
//
// Functions return wrapped errors for:
//   - Coordinates outside image bounds
//   - Malformed data URLs (ErrInvalidDataURL)
//   - Grid spacing below 2 or an invalid grid color
//   - File I/O and decoding failures
package imaging
