package executor

import "encoding/json"

// canonicalKey derives the default cache key as the canonical JSON encoding
// of the validated input. encoding/json already sorts map[string]any keys,
// which gives us a stable form across insertion order without a bespoke
// canonicalization pass.
func canonicalKey(validatedInput any) string {
	raw, err := json.Marshal(validatedInput)
	if err != nil {
		return ""
	}
	return string(raw)
}
