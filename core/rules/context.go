// Package rules evaluates conditions, pricing formulas and selection rules
// stored as configuration data.
//
// Conditions and formulas arrive as JSON documents authored by
// administrators. They are decoded into closed variant types; tags the
// decoder does not recognize survive as explicit unknown variants that fail
// closed at evaluation time (false for conditions, zero for formulas), so a
// typo in configuration degrades a quote instead of crashing it.
package rules

import (
	"strings"
)

// Context is the nested parameter set an evaluation reads from. Keys map to
// scalars, booleans, numbers or nested Contexts (plain maps after JSON
// decoding). A Context is never mutated during evaluation.
type Context map[string]any

// Lookup resolves a dot-separated path against the context. Traversal stops
// with found=false at the first missing key or non-mapping intermediate
// value.
func (c Context) Lookup(path string) (any, bool) {
	if path == "" {
		return nil, false
	}

	var current any = map[string]any(c)
	for _, key := range strings.Split(path, ".") {
		node, ok := asMap(current)
		if !ok {
			return nil, false
		}
		current, ok = node[key]
		if !ok || current == nil {
			return nil, false
		}
	}
	return current, true
}

// Float resolves a path and coerces the value to a float64 for ordering and
// counting. Missing or non-numeric values report ok=false.
func (c Context) Float(path string) (float64, bool) {
	raw, ok := c.Lookup(path)
	if !ok {
		return 0, false
	}
	return toFloat(raw)
}

// Merge returns a new Context with overlay's top-level keys written over the
// receiver's. Neither input is modified.
func (c Context) Merge(overlay Context) Context {
	merged := make(Context, len(c)+len(overlay))
	for k, v := range c {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}
	return merged
}

// asMap normalizes the mapping shapes that appear in decoded JSON and in
// hand-built contexts.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Context:
		return m, true
	default:
		return nil, false
	}
}
