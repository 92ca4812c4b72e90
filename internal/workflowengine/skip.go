package workflowengine

// markDownstreamSkipped inserts id's children into skipped, recursing
// through any child not already present. Idempotent: a node reachable via
// multiple paths is only ever visited once.
func markDownstreamSkipped(id string, children map[string][]string, skipped map[string]bool) {
	for _, child := range children[id] {
		if skipped[child] {
			continue
		}
		skipped[child] = true
		markDownstreamSkipped(child, children, skipped)
	}
}
