package workflow

import (
	"context"
	"testing"

	"github.com/flowforge/waveengine/internal/node"
	"github.com/flowforge/waveengine/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToEngine_MapsConfigToInputAndDropsHandles(t *testing.T) {
	reg := registry.New()
	_, err := reg.Register(&node.Definition{
		Type: "noop",
		Name: "Noop",
		Executor: func(ctx context.Context, input any, nc *node.Context) (node.Result, error) {
			return node.Result{Success: true}, nil
		},
	})
	require.NoError(t, err)

	def := Definition{
		Name: "demo",
		Nodes: []NodeDef{
			{ID: "a", Type: "noop", Config: map[string]any{"x": 1}},
		},
		Edges: []EdgeDef{
			{ID: "e1", Source: "a", SourceHandle: "out", Target: "a", TargetHandle: "in", Condition: "yes"},
		},
	}

	wf, err := ToEngine(def, reg)
	require.NoError(t, err)
	require.Len(t, wf.Nodes, 1)
	assert.Equal(t, map[string]any{"x": 1}, wf.Nodes[0].Input)
	require.Len(t, wf.Edges, 1)
	assert.Equal(t, "a", wf.Edges[0].From)
	assert.Equal(t, "a", wf.Edges[0].To)
	assert.Equal(t, "yes", wf.Edges[0].Condition)
}

func TestToEngine_UnknownTypeErrors(t *testing.T) {
	reg := registry.New()
	def := Definition{Nodes: []NodeDef{{ID: "a", Type: "missing"}}}

	_, err := ToEngine(def, reg)
	assert.Error(t, err)
}
