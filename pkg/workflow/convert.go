package workflow

import (
	"fmt"

	"github.com/flowforge/waveengine/internal/registry"
	"github.com/flowforge/waveengine/internal/workflowengine"
)

// ToEngine resolves every node's type against reg and converts the wire
// Definition into the engine's in-memory Workflow: Config becomes Input,
// SourceHandle/TargetHandle are dropped (the core's Input is already the
// fully resolved map), and Condition/Expression map straight across.
func ToEngine(def Definition, reg *registry.Registry) (workflowengine.Workflow, error) {
	nodes := make([]workflowengine.WorkflowNode, 0, len(def.Nodes))
	for _, n := range def.Nodes {
		nodeDef, err := reg.GetDefinition(n.Type)
		if err != nil {
			return workflowengine.Workflow{}, fmt.Errorf("node %q: %w", n.ID, err)
		}
		nodes = append(nodes, workflowengine.WorkflowNode{
			ID:    n.ID,
			Type:  n.Type,
			Def:   nodeDef,
			Input: n.Config,
		})
	}

	edges := make([]workflowengine.Edge, 0, len(def.Edges))
	for _, e := range def.Edges {
		edges = append(edges, workflowengine.Edge{
			ID:         e.ID,
			From:       e.Source,
			To:         e.Target,
			Condition:  e.Condition,
			Expression: e.Expression,
		})
	}

	return workflowengine.Workflow{
		Name:        def.Name,
		Description: def.Description,
		Nodes:       nodes,
		Edges:       edges,
	}, nil
}
