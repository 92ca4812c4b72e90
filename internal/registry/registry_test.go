package registry

import (
	"context"
	"testing"

	"github.com/flowforge/waveengine/internal/node"
	"github.com/flowforge/waveengine/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopExecutor(ctx context.Context, input any, nc *node.Context) (node.Result, error) {
	return node.Result{Success: true}, nil
}

func actionDef(typ string) *node.Definition {
	return &node.Definition{Type: typ, Name: typ, Category: node.CategoryAction, Executor: noopExecutor}
}

func TestRegister_AddsDefinition(t *testing.T) {
	r := New()
	_, err := r.Register(actionDef("a"))
	require.NoError(t, err)
	assert.True(t, r.Has("a"))
	assert.Equal(t, 1, r.Size())
}

func TestRegister_DuplicateTypeErrors(t *testing.T) {
	r := New()
	_, err := r.Register(actionDef("a"))
	require.NoError(t, err)

	_, err = r.Register(actionDef("a"))
	assert.ErrorIs(t, err, ErrDuplicateType)
}

func TestRegisterAll_StopsOnFirstDuplicate(t *testing.T) {
	r := New()
	_, err := r.RegisterAll([]*node.Definition{actionDef("a"), actionDef("b"), actionDef("a")})
	assert.ErrorIs(t, err, ErrDuplicateType)
	assert.True(t, r.Has("a"))
	assert.True(t, r.Has("b"))
}

func TestUnregister_RoundTrip(t *testing.T) {
	r := New()
	_, err := r.Register(actionDef("a"))
	require.NoError(t, err)

	removed := r.Unregister("a")
	assert.True(t, removed)
	assert.False(t, r.Has("a"))
}

func TestUnregister_MissingTypeReturnsFalse(t *testing.T) {
	r := New()
	assert.False(t, r.Unregister("missing"))
}

func TestGetDefinition_UnknownTypeErrors(t *testing.T) {
	r := New()
	_, err := r.GetDefinition("missing")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestGetMetadata_StripsExecutor(t *testing.T) {
	r := New()
	_, err := r.Register(actionDef("a"))
	require.NoError(t, err)

	meta, err := r.GetMetadata("a")
	require.NoError(t, err)
	assert.Equal(t, "a", meta.Type)
}

func TestGetExecutor_ReturnsCallable(t *testing.T) {
	r := New()
	_, err := r.Register(actionDef("a"))
	require.NoError(t, err)

	exec, err := r.GetExecutor("a")
	require.NoError(t, err)
	res, err := exec(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestGetByCategory_FiltersByCategory(t *testing.T) {
	r := New()
	action := actionDef("a")
	logic := &node.Definition{Type: "l", Name: "l", Category: node.CategoryLogic, Executor: noopExecutor}
	_, _ = r.Register(action)
	_, _ = r.Register(logic)

	defs := r.GetByCategory(node.CategoryLogic)
	require.Len(t, defs, 1)
	assert.Equal(t, "l", defs[0].Type)

	metas := r.GetMetadataByCategory(node.CategoryAction)
	require.Len(t, metas, 1)
	assert.Equal(t, "a", metas[0].Type)
}

func TestGetAllDefinitions_AndMetadata(t *testing.T) {
	r := New()
	_, _ = r.Register(actionDef("a"))
	_, _ = r.Register(actionDef("b"))

	assert.Len(t, r.GetAllDefinitions(), 2)
	assert.Len(t, r.GetAllMetadata(), 2)
}

func TestValidateInput_DelegatesToInputSchema(t *testing.T) {
	r := New()
	def := actionDef("a")
	def.InputSchema = schema.NewObject(schema.String("name"))
	_, err := r.Register(def)
	require.NoError(t, err)

	out, err := r.ValidateInput("a", map[string]any{"name": "x"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "x"}, out)

	_, err = r.ValidateInput("a", map[string]any{})
	assert.Error(t, err)
}

func TestValidateInput_NoSchemaPassesThrough(t *testing.T) {
	r := New()
	_, err := r.Register(actionDef("a"))
	require.NoError(t, err)

	out, err := r.ValidateInput("a", "anything")
	require.NoError(t, err)
	assert.Equal(t, "anything", out)
}

func TestValidateOutput_DelegatesToOutputSchema(t *testing.T) {
	r := New()
	def := actionDef("a")
	def.OutputSchema = schema.NewObject(schema.String("result"))
	_, err := r.Register(def)
	require.NoError(t, err)

	_, err = r.ValidateOutput("a", map[string]any{})
	assert.Error(t, err)
}

func TestValidateInput_UnknownTypeErrors(t *testing.T) {
	r := New()
	_, err := r.ValidateInput("missing", nil)
	assert.ErrorIs(t, err, ErrUnknownType)
}
