package graph

import (
	"fmt"
	"strings"
)

// Color tags the family an edge belongs to.
type Color uint8

const (
	// Gray edges form the spanning tree; each links a vertex to its parent.
	Gray Color = iota
	// Green edges are self-loops.
	Green
	// Blue edges link neighbouring vertices of the same depth.
	Blue
	// Yellow edges link a vertex to a vertex one level deeper.
	Yellow
	// Red edges link a vertex to a vertex two levels deeper.
	Red
)

// Colors lists every edge color in declaration order.
var Colors = []Color{Gray, Green, Blue, Yellow, Red}

var colorNames = [...]string{
	Gray:   "gray",
	Green:  "green",
	Blue:   "blue",
	Yellow: "yellow",
	Red:    "red",
}

// String returns the lowercase color name ("gray", "green", ...).
func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return fmt.Sprintf("color(%d)", uint8(c))
}

// DepthDelta is the depth difference between the endpoints of an edge of
// this color. Green loops have a delta of 0, like Blue.
func (c Color) DepthDelta() int {
	switch c {
	case Gray, Yellow:
		return 1
	case Red:
		return 2
	default:
		return 0
	}
}

// ParseColor converts a color name back into a Color. Matching is
// case-insensitive; "grey" is accepted as an alias of "gray".
func ParseColor(s string) (Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "grey" {
		return Gray, nil
	}
	for c, n := range colorNames {
		if n == name {
			return Color(c), nil
		}
	}
	return 0, fmt.Errorf("unknown edge color %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	if int(c) >= len(colorNames) {
		return nil, fmt.Errorf("unknown edge color %d", uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
