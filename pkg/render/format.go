package render

import (
	"slices"
	"strings"

	errs "github.com/matzehuels/graphgen/pkg/errors"
)

// Format names an output artifact type.
type Format string

// Supported output formats.
const (
	FormatJSON Format = "json"
	FormatDOT  Format = "dot"
	FormatSVG  Format = "svg"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatDOT, FormatSVG}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "text/vnd.graphviz"
	}
}

// ParseFormat validates a single format name. Matching is case-insensitive.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Formats, f) {
		return "", errs.New(errs.ErrCodeInvalidFormat, "unsupported format %q (want json, dot or svg)", s)
	}
	return f, nil
}

// ParseFormats splits a comma-separated list, validates each entry and drops
// duplicates while keeping the first occurrence order. An empty list yields
// nil.
func ParseFormats(list string) ([]Format, error) {
	var out []Format
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := ParseFormat(part)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out, nil
}
