// Package registry indexes node definitions by their type identifier.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/flowforge/waveengine/internal/node"
)

// Sentinel errors for the registry's error taxonomy.
var (
	// ErrUnknownType is returned when a lookup targets an unregistered type.
	ErrUnknownType = errors.New("unknown node type")
	// ErrDuplicateType is returned when registering an already-present type.
	ErrDuplicateType = errors.New("duplicate node type")
)

// Registry is a thread-safe, in-memory index from type identifier to node
// definition. It is read-only after startup: lookups take no lock-free
// shortcuts, but the common case is an RLock over an already-populated map.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]*node.Definition
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{defs: make(map[string]*node.Definition)}
}

// Register inserts def, failing with ErrDuplicateType if def.Type is
// already present. Returns the registry itself so calls can be chained.
func (r *Registry) Register(def *node.Definition) (*Registry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[def.Type]; exists {
		return r, fmt.Errorf("%w: %q", ErrDuplicateType, def.Type)
	}
	r.defs[def.Type] = def
	return r, nil
}

// RegisterAll registers each definition in order. Atomicity is not
// promised: a duplicate partway through halts with ErrDuplicateType,
// leaving earlier registrations in place.
func (r *Registry) RegisterAll(defs []*node.Definition) (*Registry, error) {
	for _, d := range defs {
		if _, err := r.Register(d); err != nil {
			return r, err
		}
	}
	return r, nil
}

// Unregister removes typ if present, reporting whether it existed.
func (r *Registry) Unregister(typ string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[typ]; !exists {
		return false
	}
	delete(r.defs, typ)
	return true
}

// Has reports whether typ is registered.
func (r *Registry) Has(typ string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.defs[typ]
	return ok
}

// Size returns the number of registered definitions.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}

// GetDefinition returns the full definition for typ.
func (r *Registry) GetDefinition(typ string) (*node.Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defs[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
	return d, nil
}

// GetMetadata returns typ's definition with its executor stripped.
func (r *Registry) GetMetadata(typ string) (node.Metadata, error) {
	d, err := r.GetDefinition(typ)
	if err != nil {
		return node.Metadata{}, err
	}
	return d.ToMetadata(), nil
}

// GetExecutor returns only typ's executor function.
func (r *Registry) GetExecutor(typ string) (node.Executor, error) {
	d, err := r.GetDefinition(typ)
	if err != nil {
		return nil, err
	}
	return d.Executor, nil
}

// GetAllDefinitions returns every registered definition, unordered.
func (r *Registry) GetAllDefinitions() []*node.Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*node.Definition, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	return out
}

// GetAllMetadata returns every registered definition's metadata, unordered.
func (r *Registry) GetAllMetadata() []node.Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]node.Metadata, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d.ToMetadata())
	}
	return out
}

// GetByCategory returns every registered definition in the given category.
func (r *Registry) GetByCategory(cat node.Category) []*node.Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*node.Definition, 0)
	for _, d := range r.defs {
		if d.Category == cat {
			out = append(out, d)
		}
	}
	return out
}

// GetMetadataByCategory returns metadata for every definition in cat.
func (r *Registry) GetMetadataByCategory(cat node.Category) []node.Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]node.Metadata, 0)
	for _, d := range r.defs {
		if d.Category == cat {
			out = append(out, d.ToMetadata())
		}
	}
	return out
}

// ValidateInput validates input against typ's input schema.
func (r *Registry) ValidateInput(typ string, input any) (any, error) {
	d, err := r.GetDefinition(typ)
	if err != nil {
		return nil, err
	}
	if d.InputSchema == nil {
		return input, nil
	}
	return d.InputSchema.Validate(input)
}

// ValidateOutput validates output against typ's output schema.
func (r *Registry) ValidateOutput(typ string, output any) (any, error) {
	d, err := r.GetDefinition(typ)
	if err != nil {
		return nil, err
	}
	if d.OutputSchema == nil {
		return output, nil
	}
	return d.OutputSchema.Validate(output)
}
