// Package node defines the node model: categories, capability flags, the
// immutable node definition, its executor contract, and the execution
// result record.
package node

import (
	"context"

	"github.com/flowforge/waveengine/internal/schema"
)

// Category is purely informational classification of a node definition.
type Category string

const (
	CategoryAction      Category = "action"
	CategoryLogic       Category = "logic"
	CategoryIntegration Category = "integration"
	CategoryTransform   Category = "transform"
)

// Capabilities are advisory flags the engine itself never enforces.
type Capabilities struct {
	SupportsEnrichment  bool
	SupportsBulkActions bool
	SupportsApproval    bool
	SupportsRerun       bool
	SupportsCancel      bool
}

// Context is the per-node view derived from the execution context: a
// snapshot of variables at launch time plus a live path-resolution callback.
type Context struct {
	UserID              string
	CampaignID          string
	WorkflowExecutionID string
	Variables           map[string]any
	ResolveNestedPath   func(path string) any
	Credentials         any
	Services            any
}

// Notification is an opaque envelope forwarded to observer callbacks,
// untouched by the engine itself.
type Notification struct {
	Kind    string
	Payload any
}

// Result is the tagged outcome of a single node execution.
type Result struct {
	Success bool
	// Output conforms to the definition's output schema when Success.
	Output any
	// Error is a human-readable message when !Success.
	Error string

	// NextNodeID, when set alongside Success, selects a branch among the
	// node's outgoing conditional edges (see the workflow executor).
	NextNodeID string

	// NeedsApproval is surfaced upward untouched; the engine does not act
	// on it.
	NeedsApproval any

	// Notify, if non-nil, is forwarded to observer callbacks.
	Notify *Notification
}

// Executor is the async function attached to a definition. It receives the
// schema-validated input and the derived node context.
type Executor func(ctx context.Context, input any, nodeCtx *Context) (Result, error)

// Definition is the immutable record of a node type: identity, metadata,
// schemas, and its executor. Definitions are created once and shared by
// reference across concurrent workflow runs, so executors must be
// reentrant — no per-definition mutable state.
type Definition struct {
	Type              string
	Name              string
	Description       string
	Category          Category
	EstimatedDuration int // seconds, informational
	Capabilities      Capabilities
	InputSchema       schema.Schema
	OutputSchema      schema.Schema
	Executor          Executor
}

// Metadata is a Definition with its executor stripped, for introspection
// surfaces that shouldn't leak a live callable.
type Metadata struct {
	Type              string
	Name              string
	Description       string
	Category          Category
	EstimatedDuration int
	Capabilities      Capabilities
	InputSchema       schema.Schema
	OutputSchema      schema.Schema
}

// ToMetadata strips the executor from a Definition.
func (d *Definition) ToMetadata() Metadata {
	return Metadata{
		Type:              d.Type,
		Name:              d.Name,
		Description:       d.Description,
		Category:          d.Category,
		EstimatedDuration: d.EstimatedDuration,
		Capabilities:      d.Capabilities,
		InputSchema:       d.InputSchema,
		OutputSchema:      d.OutputSchema,
	}
}
