package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/graphgen/pkg/graph"
)

// WriteJSON encodes a store as a JSON [Document] and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(s *graph.Store, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromStore(s)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a store to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(s *graph.Store, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(s, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
