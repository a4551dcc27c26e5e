// Package render turns generated graphs into output artifacts.
//
// # Formats
//
// A run can be rendered into any of the [Format] values:
//
//   - json: the graph document of pkg/io
//   - dot: Graphviz source produced by the [dot] subpackage
//   - svg: the DOT source rendered in-process by Graphviz
//
// Use [ParseFormats] to validate a user-supplied list such as "json,svg".
package render
