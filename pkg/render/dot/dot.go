package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/graphgen/pkg/graph"
)

// Options configures diagram generation.
type Options struct {
	// Detailed includes the depth and the incident edge count in vertex
	// labels. When false, only the vertex ID is shown.
	Detailed bool
}

// EdgeColors maps each edge family to the Graphviz color used to draw it.
var EdgeColors = map[graph.Color]string{
	graph.Gray:   "gray50",
	graph.Green:  "forestgreen",
	graph.Blue:   "royalblue",
	graph.Yellow: "goldenrod",
	graph.Red:    "firebrick",
}

// ToDOT converts a store to an undirected Graphviz DOT graph. Vertices of
// the same depth share a rank so the tree reads top to bottom; every edge is
// drawn in the color of its family.
func ToDOT(s *graph.Store, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [penwidth=1.5];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for d := 0; d < len(s.DepthCounts()); d++ {
		ids := s.VerticesAtDepth(d)
		if len(ids) == 0 {
			continue
		}
		names := make([]string, len(ids))
		for i, id := range ids {
			names[i] = strconv.Itoa(int(id))
		}
		fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(names, "; "))
	}

	buf.WriteString("\n")
	for _, v := range s.Vertices() {
		label := fmtLabel(s, v, opts.Detailed)
		fmt.Fprintf(&buf, "  %d [label=%q];\n", v.ID, label)
	}

	buf.WriteString("\n")
	for _, e := range s.Edges() {
		fmt.Fprintf(&buf, "  %d -- %d [color=%q];\n", e.A, e.B, EdgeColors[e.Color])
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(s *graph.Store, v graph.Vertex, detailed bool) string {
	id := strconv.Itoa(int(v.ID))
	if !detailed {
		return id
	}
	return fmt.Sprintf("%s\ndepth: %d\nedges: %d", id, v.Depth, len(s.EdgeIDsOf(v.ID)))
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
