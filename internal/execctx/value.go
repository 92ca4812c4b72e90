// Package execctx implements the per-run execution context: the variable
// store, dot/bracket path resolution, JSONPath evaluation, template
// interpolation, and node-output merging.
package execctx

// absentValue is the sentinel type backing Absent.
type absentValue struct{}

// Absent is the distinguished "no such key / path not resolvable" value.
// It is distinct from an explicit nil/null stored in the variable map:
// traversal through a missing key or a null both surface as Absent, but
// callers that need to tell "present and null" apart should use Has.
var Absent any = absentValue{}

// IsAbsent reports whether v is the Absent sentinel.
func IsAbsent(v any) bool {
	_, ok := v.(absentValue)
	return ok
}

// isMapping reports whether v is a plain object (as opposed to a sequence),
// matching the dual-storage invariant's "if value is a mapping" test.
func isMapping(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}
