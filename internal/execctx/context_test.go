package execctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreNodeOutput_DualStorage(t *testing.T) {
	c := New(nil)
	obj := map[string]any{"value": "from-A", "count": float64(2)}

	c.StoreNodeOutput("a", obj)

	require.Equal(t, obj, c.GetNodeOutput("a"))
	assert.Equal(t, "from-A", c.Get("value"))
	assert.Equal(t, float64(2), c.Get("count"))
}

func TestStoreNodeOutput_NonMappingOnlyIDKeyed(t *testing.T) {
	c := New(nil)
	c.StoreNodeOutput("a", "scalar-output")

	assert.Equal(t, "scalar-output", c.GetNodeOutput("a"))
	assert.True(t, IsAbsent(c.Get("scalar-output")))
}

func TestResolveNestedPath(t *testing.T) {
	c := New(map[string]any{
		"a": map[string]any{
			"b": []any{
				map[string]any{"c": "deep"},
			},
		},
	})

	assert.Equal(t, "deep", c.ResolveNestedPath("a.b[0].c"))
	assert.True(t, IsAbsent(c.ResolveNestedPath("a.missing.c")))
	assert.True(t, IsAbsent(c.ResolveNestedPath("a.b[5]")))

	whole := c.ResolveNestedPath("")
	assert.Contains(t, whole, "a")
}

func TestEvaluateJSONPath_SingletonUnwrap(t *testing.T) {
	c := New(map[string]any{
		"items": []any{"only"},
	})

	assert.Equal(t, "only", c.EvaluateJSONPath("$.items"))
	assert.True(t, IsAbsent(c.EvaluateJSONPath("not-a-jsonpath")))
}

func TestInterpolate_SingleExprPreservesType(t *testing.T) {
	c := New(map[string]any{"x": []any{float64(1), float64(2)}})

	result := c.Interpolate("{{x}}")
	assert.Equal(t, []any{float64(1), float64(2)}, result)
}

func TestInterpolate_MixedStringCoercesToString(t *testing.T) {
	c := New(map[string]any{"x": []any{float64(1), float64(2)}})

	result := c.Interpolate("a{{x}}b")
	assert.Equal(t, "a1, 2b", result)
}

func TestInterpolate_AbsentCoercesToEmptyString(t *testing.T) {
	c := New(nil)
	assert.Equal(t, "value=", c.Interpolate("value={{missing}}"))
}

func TestInterpolate_NonStringReturnedVerbatim(t *testing.T) {
	c := New(nil)
	assert.Equal(t, float64(42), c.Interpolate(float64(42)))
}

func TestInterpolateObject_NoTemplatesUnchanged(t *testing.T) {
	c := New(map[string]any{"x": "y"})
	obj := map[string]any{"a": "plain", "b": []any{"c", float64(1)}}

	result := c.InterpolateObject(obj)
	assert.Equal(t, obj, result)
}

func TestInterpolateObject_ChainedTemplate(t *testing.T) {
	c := New(map[string]any{"a": map[string]any{"value": "from-A"}})
	obj := map[string]any{"upstream": "{{a.value}}"}

	result := c.InterpolateObject(obj).(map[string]any)
	assert.Equal(t, "from-A", result["upstream"])
}

func TestToNodeContext_SnapshotVsLive(t *testing.T) {
	c := New(map[string]any{"x": "initial"})
	nodeCtx := c.ToNodeContext("user-1", "", "exec-1")

	c.Set("x", "changed")

	assert.Equal(t, "initial", nodeCtx.Variables["x"])
	assert.Equal(t, "changed", nodeCtx.ResolveNestedPath("x"))
}
