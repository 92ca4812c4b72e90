package schema

import "encoding/json"

// toMap coerces an arbitrary value to a map[string]any, falling back to a
// JSON round-trip (e.g. for structs) for values that aren't already
// map-shaped.
func toMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case nil:
		return nil, false
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false
	}
	return m, true
}

// toSlice coerces an arbitrary value to a []any.
func toSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case nil:
		return nil, false
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	var s []any
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false
	}
	return s, true
}
