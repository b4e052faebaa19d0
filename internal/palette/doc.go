// Package palette implements the color side of pixelkit: hex color codec,
// color-map analysis with greedy quantization, and palette matching against
// a reference palette.
//
// # Color Representation
//
// A Color is a 7-character string "#RRGGBB" with uppercase hex digits. Parsing
// is case-insensitive, but every Color produced by this package is normalized.
// The sentinel Transparent stands for "no color" and is what the editor uses
// to erase.
//
// # Transparency
//
// Analysis treats alpha as binary: a pixel with alpha < 128 is transparent and
// is neither counted nor added to a palette.
//
// # Similarity
//
// Euclidean distance in RGB space is the only similarity metric. There is no
// perceptual weighting.
package palette
