package execctx

import (
	"sync"

	"github.com/flowforge/waveengine/internal/node"
)

// Context is the mutable per-run container of workflow variables. It is
// created at the start of a workflow run and discarded at the end; it
// exclusively owns its variable map.
type Context struct {
	mu   sync.RWMutex
	vars map[string]any
}

// New returns a Context seeded with the given initial variables (copied).
func New(initial map[string]any) *Context {
	vars := make(map[string]any, len(initial))
	for k, v := range initial {
		vars[k] = v
	}
	return &Context{vars: vars}
}

// Set assigns a single variable.
func (c *Context) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vars[key] = value
}

// Get returns the top-level variable named key, or Absent if unset.
func (c *Context) Get(key string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.vars[key]
	if !ok {
		return Absent
	}
	return v
}

// Has reports whether key is present at the top level.
func (c *Context) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.vars[key]
	return ok
}

// Delete removes key from the top level.
func (c *Context) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.vars, key)
}

// Clear empties the variable map.
func (c *Context) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vars = make(map[string]any)
}

// Merge shallow-merges other into the top-level variable map, last writer
// wins on collisions.
func (c *Context) Merge(other map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range other {
		c.vars[k] = v
	}
}

// Variables returns a shallow copy of the current top-level variable map,
// e.g. as an evaluation environment for expression edges.
func (c *Context) Variables() map[string]any {
	return c.snapshot()
}

// snapshot returns a shallow copy of the current variable map, used both
// by Variables and for node-context derivation.
func (c *Context) snapshot() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]any, len(c.vars))
	for k, v := range c.vars {
		out[k] = v
	}
	return out
}

// ResolveNestedPath traverses path over the live variable map.
func (c *Context) ResolveNestedPath(path string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ResolveNestedPath(c.vars, path)
}

// EvaluateJSONPath evaluates a "$"-prefixed JSONPath expression against the
// live variable map.
func (c *Context) EvaluateJSONPath(path string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return EvaluateJSONPath(c.vars, path)
}

// StoreNodeOutput implements the dual-storage invariant: variables[nodeId]
// always holds value; additionally, if value is a mapping, each of its
// keys is also shallow-merged into the top-level variable map so that both
// {{nodeId.field}} and bare {{field}} resolve to the same value.
func (c *Context) StoreNodeOutput(nodeID string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.vars[nodeID] = value
	if m, ok := isMapping(value); ok {
		for k, v := range m {
			c.vars[k] = v
		}
	}
}

// GetNodeOutput returns the value stored under nodeID, or Absent.
func (c *Context) GetNodeOutput(nodeID string) any {
	return c.Get(nodeID)
}

// ToNodeContext derives a per-node view: variables is a snapshot taken now
// (later writes to the execution context are not retroactively visible
// through it), while ResolveNestedPath closes over the live context so
// ad-hoc lookups always see the current state.
func (c *Context) ToNodeContext(userID, campaignID, workflowExecutionID string) *node.Context {
	return &node.Context{
		UserID:              userID,
		CampaignID:          campaignID,
		WorkflowExecutionID: workflowExecutionID,
		Variables:           c.snapshot(),
		ResolveNestedPath:   c.ResolveNestedPath,
	}
}
