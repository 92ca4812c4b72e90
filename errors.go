package waveengine

import (
	"fmt"

	"github.com/flowforge/waveengine/internal/planner"
	"github.com/flowforge/waveengine/internal/registry"
)

// Sentinel errors surfaced by the package's lower layers, re-exported here
// so callers never need to import internal packages to compare against
// errors.Is.
var (
	// ErrUnknownNodeType is returned when a workflow references a type
	// not present in the registry used to build it.
	ErrUnknownNodeType = registry.ErrUnknownType

	// ErrDuplicateNodeType is returned when registering a type that's
	// already present.
	ErrDuplicateNodeType = registry.ErrDuplicateType

	// ErrCycleDetected is returned when a workflow's edges don't form a
	// DAG and can't be scheduled into waves.
	ErrCycleDetected = planner.ErrCycleDetected
)

// ValidationError reports that a value failed schema validation, naming
// the field at fault.
type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Message)
	}
	return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// ExecutionError wraps a node execution failure with the node's identity,
// distinguishing it from a validation or planning failure. Failures
// extracts one of these per failed node out of a RunResult.
type ExecutionError struct {
	NodeID   string
	NodeType string
	Cause    error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("node %q (%s) failed: %v", e.NodeID, e.NodeType, e.Cause)
}

func (e *ExecutionError) Unwrap() error { return e.Cause }
