package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	errs "github.com/matzehuels/graphgen/pkg/errors"
	"github.com/matzehuels/graphgen/pkg/render"
)

// stdoutPath selects standard output for a single artifact.
const stdoutPath = "-"

// basePath derives the base output path from the output flag.
// If output is empty, def is used. A known format extension is stripped so
// that "-o graph.svg -f json,svg" writes graph.json and graph.svg.
func basePath(output, def string) string {
	if output == "" {
		return def
	}
	ext := filepath.Ext(output)
	if _, err := render.ParseFormat(strings.TrimPrefix(ext, ".")); err == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath returns the file an artifact of format is written to.
// A single format is written to output as given.
func outputPath(output, def, format string, single bool) string {
	if single && output != "" {
		return output
	}
	return basePath(output, def) + "." + format
}

// writeArtifacts writes rendered artifacts in the order of formats.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, def string) error {
	single := len(formats) == 1
	if output == stdoutPath {
		if !single {
			return errs.New(errs.ErrCodeInvalidInput, "cannot write %d formats to stdout", len(formats))
		}
		_, err := os.Stdout.Write(artifacts[formats[0]])
		return err
	}

	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			return fmt.Errorf("no %s artifact rendered", format)
		}
		path := outputPath(output, def, format, single)
		if err := errs.ValidateOutputPath(path); err != nil {
			return err
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
