// Package waveengine is a typed, DAG-oriented workflow execution engine:
// register node types, assemble a graph of them, and run it to completion
// wave by wave with retries, caching, conditional branching, and skip
// propagation handled underneath.
package waveengine

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/flowforge/waveengine/internal/cache"
	"github.com/flowforge/waveengine/internal/execctx"
	"github.com/flowforge/waveengine/internal/executor"
	"github.com/flowforge/waveengine/internal/node"
	"github.com/flowforge/waveengine/internal/observer"
	"github.com/flowforge/waveengine/internal/registry"
	"github.com/flowforge/waveengine/internal/workflowengine"
	"github.com/rs/zerolog"
)

// Re-exported node-model types so callers never need to import internal/node.
type (
	NodeDefinition = node.Definition
	NodeExecutor   = node.Executor
	NodeContext    = node.Context
	NodeResult     = node.Result
	NodeCategory   = node.Category
	NodeMetadata   = node.Metadata
)

const (
	CategoryAction      = node.CategoryAction
	CategoryLogic       = node.CategoryLogic
	CategoryIntegration = node.CategoryIntegration
	CategoryTransform   = node.CategoryTransform
)

// Re-exported execution-policy types.
type (
	RetryPolicy        = executor.RetryPolicy
	CacheConfig        = executor.CacheConfig
	NodeConfigOverride = workflowengine.NodeConfigOverride
)

// Re-exported workflow/run types.
type (
	Edge         = workflowengine.Edge
	WorkflowNode = workflowengine.WorkflowNode
	Workflow     = workflowengine.Workflow
	RunConfig    = workflowengine.Config
	RunResult    = workflowengine.RunResult
	Status       = workflowengine.Status
)

const (
	StatusIdle    = workflowengine.StatusIdle
	StatusRunning = workflowengine.StatusRunning
	StatusSuccess = workflowengine.StatusSuccess
	StatusError   = workflowengine.StatusError
	StatusSkipped = workflowengine.StatusSkipped
)

// Registry indexes node definitions by type. NewRegistry returns an empty
// one; node types are added with Register before any workflow referencing
// them can be built.
type Registry = registry.Registry

func NewRegistry() *Registry { return registry.New() }

// ExecutionContext is the mutable variable store threaded through one
// workflow run.
type ExecutionContext = execctx.Context

// NewExecutionContext seeds a fresh ExecutionContext with the given
// initial top-level variables.
func NewExecutionContext(initial map[string]any) *ExecutionContext {
	return execctx.New(initial)
}

// Cache backs single-node result memoization. NewMemoryCache and
// NewPostgresCache construct the two shipped implementations.
type Cache = cache.Cache

func NewMemoryCache() Cache { return cache.NewMemory() }

// PostgresCache is a durable Cache backed by Postgres via bun. Its
// InitSchema method must be called once before first use.
type PostgresCache = cache.Postgres

// NewPostgresCache opens a bun-backed cache against dsn. Callers must call
// the returned value's InitSchema(ctx) method once before first use — Set
// does not create the backing table and silently fails against one that
// doesn't exist yet.
func NewPostgresCache(dsn string) *PostgresCache { return cache.NewPostgres(dsn) }

// Execute plans wf into topological waves and drives them to completion
// against execCtx, returning the terminal status/result of every node.
// A non-nil error indicates the workflow couldn't be planned at all (for
// example ErrCycleDetected); per-node failures are reported in RunResult
// instead.
func Execute(ctx context.Context, wf Workflow, execCtx *ExecutionContext, log zerolog.Logger, cfg *RunConfig) (RunResult, error) {
	return workflowengine.ExecuteWorkflow(ctx, wf, execCtx, log, cfg)
}

// Failures extracts every node that finished StatusError out of r as an
// ExecutionError, sorted by node ID for deterministic output. An empty
// slice means r.Success is true.
func Failures(r RunResult) []*ExecutionError {
	var out []*ExecutionError
	for id, status := range r.Statuses {
		if status != StatusError {
			continue
		}
		out = append(out, &ExecutionError{
			NodeID:   id,
			NodeType: r.NodeTypes[id],
			Cause:    errors.New(r.Results[id].Error),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NodeID < out[j].NodeID })
	return out
}

// ObserverHub fans out node/workflow lifecycle events to subscribed
// websocket clients, independent of the engine's own execution path.
type ObserverHub = observer.Hub

// NewObserverHub constructs an empty hub ready to receive broadcasts from an
// Observer. The hub has no HTTP handler of its own; websocket clients are
// registered with it by the observer package's Client.Run.
func NewObserverHub(log zerolog.Logger) *ObserverHub { return observer.NewHub(log) }

// Observer adapts a workflow run's lifecycle hooks (RunConfig's
// OnNodeStart/OnNodeComplete/OnNodeError/OnRetry) into broadcasts on hub
// for one execution.
type Observer = observer.Observer

// NewObserver binds executionID to hub so its lifecycle methods can be
// composed directly into a RunConfig's callback fields.
func NewObserver(hub *ObserverHub, executionID string) *Observer {
	return observer.NewObserver(hub, executionID)
}

// NewRetryPolicy is a convenience constructor for the common
// fixed-multiplier backoff shape.
func NewRetryPolicy(maxAttempts int, initialDelay, maxDelay time.Duration) *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts:  maxAttempts,
		InitialDelay: initialDelay,
		MaxDelay:     maxDelay,
		Multiplier:   2,
	}
}
