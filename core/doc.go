// Package core defines the shared types of the agent logger.
//
// It provides the Level registry (six ranked severities and the Coerce
// function that turns any configuration value into a valid rank), the
// Context map used for static and per-call data, and the Entry record
// that the formatter serializes into one JSON line.
//
// Entry objects are pooled via sync.Pool. Callers get an Entry with
// GetEntry and return it with PutEntry once it has been serialized.
package core
