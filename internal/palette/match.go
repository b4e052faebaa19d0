package palette

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"
)

// SimilarDistance is the distance under which two colors count as a match.
const SimilarDistance = 20

// MatchClass buckets a palette match score.
type MatchClass string

const (
	MatchExact     MatchClass = "exact"
	MatchSimilar   MatchClass = "similar"
	MatchDifferent MatchClass = "different"
)

// ReferenceColor is one entry of a reference palette.
type ReferenceColor struct {
	Color Color  `json:"color"`
	Name  string `json:"name,omitempty"`
}

// MatchResult reports how an image palette compares to a reference palette.
type MatchResult struct {
	Score   int          `json:"score"`
	Class   MatchClass   `json:"class"`
	Matches []ColorMatch `json:"matches"`
}

// ColorMatch describes the closest reference entry for one image color.
type ColorMatch struct {
	Color    Color          `json:"color"`
	Nearest  ReferenceColor `json:"nearest"`
	Distance float64        `json:"distance"`
	Matched  bool           `json:"matched"`
}

// Score returns the percentage (0-100) of image colors found in reference,
// either exactly or within SimilarDistance. An empty reference scores 0.
func Score(image, reference []Color) int {
	if len(reference) == 0 || len(image) == 0 {
		return 0
	}
	refs := make([]RGB, 0, len(reference))
	for _, r := range reference {
		if r.IsTransparent() {
			continue
		}
		refs = append(refs, r.RGB())
	}

	matches := 0
	for _, c := range image {
		if colorMatches(c, reference, refs) {
			matches++
		}
	}
	return int(math.Round(100 * float64(matches) / float64(len(image))))
}

func colorMatches(c Color, reference []Color, refs []RGB) bool {
	for _, r := range reference {
		if c.Equal(r) {
			return true
		}
	}
	if c.IsTransparent() {
		return false
	}
	rgb := c.RGB()
	for _, r := range refs {
		if Distance(rgb, r) < SimilarDistance {
			return true
		}
	}
	return false
}

// Classify maps a score to exact (100), similar ([70,100)) or different.
func Classify(score int) MatchClass {
	switch {
	case score >= 100:
		return MatchExact
	case score >= 70:
		return MatchSimilar
	default:
		return MatchDifferent
	}
}

// Match scores image against a named reference palette and reports the
// nearest reference entry for every image color.
func Match(image []Color, reference []ReferenceColor) *MatchResult {
	refColors := make([]Color, len(reference))
	refs := make([]RGB, 0, len(reference))
	for i, r := range reference {
		refColors[i] = r.Color
		if !r.Color.IsTransparent() {
			refs = append(refs, r.Color.RGB())
		}
	}
	score := Score(image, refColors)

	matches := make([]ColorMatch, 0, len(image))
	for _, c := range image {
		nearest, dist, ok := NearestReference(c, reference)
		if !ok {
			dist = 0
		}
		matches = append(matches, ColorMatch{
			Color:    c,
			Nearest:  nearest,
			Distance: math.Round(dist*100) / 100,
			Matched:  colorMatches(c, refColors, refs),
		})
	}
	return &MatchResult{Score: score, Class: Classify(score), Matches: matches}
}

// NearestReference returns the reference entry closest to c. The boolean is
// false when reference has no opaque entries.
func NearestReference(c Color, reference []ReferenceColor) (ReferenceColor, float64, bool) {
	var best ReferenceColor
	bestDist := math.Inf(1)
	found := false
	rgb := c.RGB()
	for _, r := range reference {
		if r.Color.IsTransparent() {
			continue
		}
		if d := Distance(rgb, r.Color.RGB()); d < bestDist {
			best, bestDist, found = r, d, true
		}
	}
	return best, bestDist, found
}

// ParseReference reads a reference palette, one color per line:
//
//	#RRGGBB optional name
//
// Blank lines and lines starting with "//" or ";" are skipped. Lines
// starting with '#' followed by a space are comments too.
func ParseReference(r io.Reader) ([]ReferenceColor, error) {
	var out []ReferenceColor
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "# ") {
			continue
		}
		fields := strings.Fields(line)
		c, err := ParseColor(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		out = append(out, ReferenceColor{Color: c, Name: strings.Join(fields[1:], " ")})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reference palette: %w", err)
	}
	return out, nil
}
