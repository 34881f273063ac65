// Package formatter turns log call arguments into the text the logger
// emits.
//
// Sprint implements printf-style interpolation over arbitrary values,
// Stringify is the serializer for structured arguments (it never panics
// and reports cyclic data as an error), and JSONFormatter encodes a
// core.Entry as a single newline-terminated JSON object. TextFormatter
// goes the other way: it re-renders an emitted JSON line for terminals.
//
// JSONFormatter writes the built-in fields by hand into a pooled
// bytes.Buffer and falls back to encoding/json only for non-scalar
// context values. Buffers larger than 64 KiB are not returned to the
// pool.
package formatter
