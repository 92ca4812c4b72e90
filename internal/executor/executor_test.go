package executor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/flowforge/waveengine/internal/cache"
	"github.com/flowforge/waveengine/internal/node"
	"github.com/flowforge/waveengine/internal/schema"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDef(exec node.Executor) *node.Definition {
	return &node.Definition{Type: "test.node", Name: "Test Node", Executor: exec}
}

func TestExecuteNode_SuccessNoRetryNoCache(t *testing.T) {
	calls := 0
	def := testDef(func(ctx context.Context, input any, nc *node.Context) (node.Result, error) {
		calls++
		return node.Result{Success: true, Output: "ok"}, nil
	})

	result, err := ExecuteNode(context.Background(), zerolog.Nop(), def, nil, &node.Context{}, nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "ok", result.Output)
	assert.Equal(t, 1, calls)
}

func TestExecuteNode_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	def := testDef(func(ctx context.Context, input any, nc *node.Context) (node.Result, error) {
		calls++
		if calls < 3 {
			return node.Result{Success: false, Error: "transient"}, nil
		}
		return node.Result{Success: true, Output: "recovered"}, nil
	})

	cfg := &Config{Retry: &RetryPolicy{MaxAttempts: 5, InitialDelay: time.Millisecond}}
	result, err := ExecuteNode(context.Background(), zerolog.Nop(), def, nil, &node.Context{}, cfg)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 3, calls)
}

func TestExecuteNode_RetryExhausted(t *testing.T) {
	calls := 0
	def := testDef(func(ctx context.Context, input any, nc *node.Context) (node.Result, error) {
		calls++
		return node.Result{Success: false, Error: "permanent"}, nil
	})

	cfg := &Config{Retry: &RetryPolicy{MaxAttempts: 3, InitialDelay: time.Millisecond}}
	result, err := ExecuteNode(context.Background(), zerolog.Nop(), def, nil, &node.Context{}, cfg)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "permanent", result.Error)
	assert.Equal(t, 3, calls)
}

func TestExecuteNode_RetryOnStopsEarly(t *testing.T) {
	calls := 0
	def := testDef(func(ctx context.Context, input any, nc *node.Context) (node.Result, error) {
		calls++
		return node.Result{Success: false, Error: "do-not-retry"}, nil
	})

	cfg := &Config{Retry: &RetryPolicy{
		MaxAttempts: 5,
		InitialDelay: time.Millisecond,
		RetryOn:     func(err error) bool { return false },
	}}
	result, err := ExecuteNode(context.Background(), zerolog.Nop(), def, nil, &node.Context{}, cfg)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 1, calls)
}

func TestExecuteNode_TimeoutPerAttempt(t *testing.T) {
	def := testDef(func(ctx context.Context, input any, nc *node.Context) (node.Result, error) {
		<-ctx.Done()
		return node.Result{Success: true}, nil
	})

	cfg := &Config{Timeout: 10 * time.Millisecond}
	result, err := ExecuteNode(context.Background(), zerolog.Nop(), def, nil, &node.Context{}, cfg)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "timed out")
}

func TestExecuteNode_OuterCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	def := testDef(func(ctx context.Context, input any, nc *node.Context) (node.Result, error) {
		t.Fatal("executor should not run once context is already canceled")
		return node.Result{}, nil
	})

	result, err := ExecuteNode(ctx, zerolog.Nop(), def, nil, &node.Context{}, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Execution aborted", result.Error)
}

func TestExecuteNode_ExecutorPanicRecovered(t *testing.T) {
	def := testDef(func(ctx context.Context, input any, nc *node.Context) (node.Result, error) {
		panic("boom")
	})

	result, err := ExecuteNode(context.Background(), zerolog.Nop(), def, nil, &node.Context{}, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "panicked")
}

func TestExecuteNode_ValidationFailureReturnsError(t *testing.T) {
	def := testDef(func(ctx context.Context, input any, nc *node.Context) (node.Result, error) {
		t.Fatal("executor should not run on invalid input")
		return node.Result{}, nil
	})
	def.InputSchema = alwaysFailSchema{}

	result, err := ExecuteNode(context.Background(), zerolog.Nop(), def, map[string]any{}, &node.Context{}, nil)
	require.Error(t, err)
	assert.Equal(t, node.Result{}, result)
}

func TestExecuteNode_CacheHitSkipsExecutor(t *testing.T) {
	calls := 0
	def := testDef(func(ctx context.Context, input any, nc *node.Context) (node.Result, error) {
		calls++
		return node.Result{Success: true, Output: "fresh"}, nil
	})

	store := cache.NewMemory()
	cfg := &Config{Cache: &CacheConfig{Enabled: true, Store: store}}

	result1, err := ExecuteNode(context.Background(), zerolog.Nop(), def, map[string]any{"x": 1}, &node.Context{}, cfg)
	require.NoError(t, err)
	assert.Equal(t, "fresh", result1.Output)
	assert.Equal(t, 1, calls)

	result2, err := ExecuteNode(context.Background(), zerolog.Nop(), def, map[string]any{"x": 1}, &node.Context{}, cfg)
	require.NoError(t, err)
	assert.Equal(t, "fresh", result2.Output)
	assert.Equal(t, 1, calls, "second call should be served from cache")
}

func TestExecuteNode_FailureNotCached(t *testing.T) {
	calls := 0
	def := testDef(func(ctx context.Context, input any, nc *node.Context) (node.Result, error) {
		calls++
		return node.Result{Success: false, Error: "nope"}, nil
	})

	store := cache.NewMemory()
	cfg := &Config{Cache: &CacheConfig{Enabled: true, Store: store}}

	_, _ = ExecuteNode(context.Background(), zerolog.Nop(), def, map[string]any{"x": 1}, &node.Context{}, cfg)
	_, _ = ExecuteNode(context.Background(), zerolog.Nop(), def, map[string]any{"x": 1}, &node.Context{}, cfg)
	assert.Equal(t, 2, calls, "failed results must not be cached")
}

type alwaysFailSchema struct{}

func (alwaysFailSchema) Validate(value any) (any, error) {
	return nil, errors.New("always fails")
}

func (alwaysFailSchema) Introspect() []schema.FieldDescriptor { return nil }

var _ schema.Schema = alwaysFailSchema{}
