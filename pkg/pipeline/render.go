package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/graphgen/pkg/graph"
	graphio "github.com/matzehuels/graphgen/pkg/io"
	"github.com/matzehuels/graphgen/pkg/observability"
	"github.com/matzehuels/graphgen/pkg/render"
	"github.com/matzehuels/graphgen/pkg/render/dot"
)

// RenderArtifacts generates output artifacts in the requested formats.
// Formats must already be validated with [render.ParseFormat].
func RenderArtifacts(ctx context.Context, g *graph.Store, formats []string, detailed bool) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, formats)
	start := time.Now()

	artifacts, err := renderAll(ctx, g, formats, detailed)
	hooks.OnRenderComplete(ctx, formats, time.Since(start), err)
	return artifacts, err
}

func renderAll(ctx context.Context, g *graph.Store, formats []string, detailed bool) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	var dotSrc string // shared by dot and svg

	for _, format := range formats {
		var data []byte
		var err error

		switch render.Format(format) {
		case render.FormatJSON:
			data, err = graphio.Marshal(g)
		case render.FormatDOT:
			if dotSrc == "" {
				dotSrc = dot.ToDOT(g, dot.Options{Detailed: detailed})
			}
			data = []byte(dotSrc)
		case render.FormatSVG:
			if dotSrc == "" {
				dotSrc = dot.ToDOT(g, dot.Options{Detailed: detailed})
			}
			data, err = dot.RenderSVG(ctx, dotSrc)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
