package workflowengine

import (
	"context"
	"errors"
	"sync"

	"github.com/flowforge/waveengine/internal/execctx"
	"github.com/flowforge/waveengine/internal/executor"
	"github.com/flowforge/waveengine/internal/node"
	"github.com/flowforge/waveengine/internal/planner"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/flowforge/waveengine/workflowengine")

// runState is the mutable per-run bookkeeping shared across a wave's
// concurrent node tasks. Reads happen concurrently while a wave's tasks
// are in flight; writes to skipped/statuses/results are serialized by mu
// both during a wave (task completion) and between waves (skip
// propagation, expression pre-skip).
type runState struct {
	mu       sync.Mutex
	statuses map[string]Status
	results  map[string]node.Result
	skipped  map[string]bool
}

// ExecuteWorkflow plans wf into waves and drives them to completion,
// resolving per-node input against execCtx, applying cfg's retry/cache/
// timeout policy (with per-type overrides), and propagating conditional
// skips and failure skips between waves.
func ExecuteWorkflow(ctx context.Context, wf Workflow, execCtx *execctx.Context, log zerolog.Logger, cfg *Config) (RunResult, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.WorkflowExecutionID == "" {
		cfg.WorkflowExecutionID = uuid.NewString()
	}
	log = log.With().Str("workflow_execution_id", cfg.WorkflowExecutionID).Logger()

	byID := make(map[string]WorkflowNode, len(wf.Nodes))
	nodeIDs := make([]string, 0, len(wf.Nodes))
	nodeTypes := make(map[string]string, len(wf.Nodes))
	for _, n := range wf.Nodes {
		byID[n.ID] = n
		nodeIDs = append(nodeIDs, n.ID)
		nodeTypes[n.ID] = n.Type
	}

	children := make(map[string][]string, len(wf.Edges))
	outgoing := make(map[string][]Edge, len(wf.Edges))
	for _, e := range wf.Edges {
		children[e.From] = append(children[e.From], e.To)
		outgoing[e.From] = append(outgoing[e.From], e)
	}

	waves, err := planner.Plan(planner.Graph{NodeIDs: nodeIDs, Edges: children})
	if err != nil {
		return RunResult{}, err
	}

	rs := &runState{
		statuses: make(map[string]Status, len(nodeIDs)),
		results:  make(map[string]node.Result, len(nodeIDs)),
		skipped:  make(map[string]bool),
	}
	for _, id := range nodeIDs {
		rs.statuses[id] = StatusIdle
	}

	ctx, runSpan := tracer.Start(ctx, "workflow.execute", trace.WithAttributes(
		attribute.String("workflow.name", wf.Name),
		attribute.Int("workflow.node_count", len(nodeIDs)),
	))
	defer runSpan.End()

	for waveIdx, wave := range waves {
		waveCtx, waveSpan := tracer.Start(ctx, "workflow.wave", trace.WithAttributes(
			attribute.Int("workflow.wave_index", waveIdx),
			attribute.Int("workflow.wave_size", len(wave)),
		))

		preSkipExpressionEdges(wf.Edges, wave, execCtx, children, rs)

		var wg sync.WaitGroup
		var sem chan struct{}
		if cfg.ConcurrencyLimit > 0 {
			sem = make(chan struct{}, cfg.ConcurrencyLimit)
		}
		for _, id := range wave {
			wn := byID[id]
			wg.Add(1)
			if sem != nil {
				sem <- struct{}{}
			}
			go func(wn WorkflowNode) {
				defer wg.Done()
				if sem != nil {
					defer func() { <-sem }()
				}
				runNodeTask(waveCtx, log, wn, execCtx, cfg, children, outgoing, rs)
			}(wn)
		}
		wg.Wait()
		waveSpan.End()
	}

	success := true
	rs.mu.Lock()
	for _, id := range nodeIDs {
		st := rs.statuses[id]
		if st != StatusSuccess && st != StatusSkipped {
			success = false
			break
		}
	}
	statuses := make(map[string]Status, len(rs.statuses))
	for k, v := range rs.statuses {
		statuses[k] = v
	}
	results := make(map[string]node.Result, len(rs.results))
	for k, v := range rs.results {
		results[k] = v
	}
	rs.mu.Unlock()

	if !success {
		runSpan.SetStatus(codes.Error, "workflow completed with failures")
	}

	return RunResult{Success: success, Statuses: statuses, Results: results, NodeTypes: nodeTypes}, nil
}

// preSkipExpressionEdges evaluates the Expression predicate of every edge
// whose target falls in the upcoming wave, marking the target (and its
// descendants) skipped when it evaluates false. This runs once per
// qualifying edge, right before the wave containing its target is
// scheduled.
func preSkipExpressionEdges(edges []Edge, wave []string, execCtx *execctx.Context, children map[string][]string, rs *runState) {
	inWave := make(map[string]bool, len(wave))
	for _, id := range wave {
		inWave[id] = true
	}

	vars := execCtx.Variables()

	rs.mu.Lock()
	defer rs.mu.Unlock()
	for _, e := range edges {
		if e.Expression == "" || !inWave[e.To] || rs.skipped[e.To] {
			continue
		}
		if !evaluateExpression(e.Expression, vars) {
			rs.skipped[e.To] = true
			markDownstreamSkipped(e.To, children, rs.skipped)
		}
	}
}

// runNodeTask is the per-node body executed concurrently within a wave.
func runNodeTask(ctx context.Context, log zerolog.Logger, wn WorkflowNode, execCtx *execctx.Context, cfg *Config, children map[string][]string, outgoing map[string][]Edge, rs *runState) {
	rs.mu.Lock()
	if rs.skipped[wn.ID] {
		rs.statuses[wn.ID] = StatusSkipped
		rs.mu.Unlock()
		return
	}
	rs.mu.Unlock()

	if ctx.Err() != nil {
		rs.mu.Lock()
		rs.skipped[wn.ID] = true
		rs.statuses[wn.ID] = StatusSkipped
		rs.mu.Unlock()
		return
	}

	ctx, span := tracer.Start(ctx, "workflow.node", trace.WithAttributes(
		attribute.String("node.id", wn.ID),
		attribute.String("node.type", wn.Type),
	))
	defer span.End()

	rs.mu.Lock()
	rs.statuses[wn.ID] = StatusRunning
	rs.mu.Unlock()

	nodeLog := log.With().Str("node_id", wn.ID).Str("node_type", wn.Type).Logger()
	nodeLog.Debug().Msg("node started")
	safeCall(nodeLog, "onNodeStart", func() {
		if cfg.OnNodeStart != nil {
			cfg.OnNodeStart(wn.ID, wn.Type)
		}
	})

	resolvedInput := execCtx.InterpolateObject(wn.Input)
	nodeCtx := execCtx.ToNodeContext(cfg.UserID, cfg.CampaignID, cfg.WorkflowExecutionID)

	perNodeCfg := resolveNodeConfig(cfg, wn.Type)

	result, err := executor.ExecuteNode(ctx, nodeLog, wn.Def, resolvedInput, nodeCtx, perNodeCfg)
	if err != nil {
		result = node.Result{Success: false, Error: err.Error()}
	}

	rs.mu.Lock()
	rs.results[wn.ID] = result
	if result.Success {
		rs.statuses[wn.ID] = StatusSuccess
	} else {
		rs.statuses[wn.ID] = StatusError
	}
	rs.mu.Unlock()

	if result.Success {
		nodeLog.Debug().Msg("node completed")
		safeCall(nodeLog, "onNodeComplete", func() {
			if cfg.OnNodeComplete != nil {
				cfg.OnNodeComplete(wn.ID, result)
			}
		})
		if !execctx.IsAbsent(result.Output) {
			execCtx.StoreNodeOutput(wn.ID, result.Output)
		}
		applyConditionalBranching(wn.ID, result.NextNodeID, outgoing, children, rs)
		return
	}

	span.SetStatus(codes.Error, result.Error)
	nodeLog.Warn().Str("error", result.Error).Msg("node failed")
	safeCall(nodeLog, "onNodeError", func() {
		if cfg.OnNodeError != nil {
			cfg.OnNodeError(wn.ID, errors.New(result.Error))
		}
	})

	if cfg.stopOnError() {
		rs.mu.Lock()
		markDownstreamSkipped(wn.ID, children, rs.skipped)
		rs.mu.Unlock()
	}
}

// applyConditionalBranching implements §4.8.1: for every edge out of
// nodeID carrying a non-empty condition that doesn't match nextNodeID, the
// edge's target (and its own descendants) are marked skipped. Edges
// without a condition are always followed regardless of nextNodeID.
func applyConditionalBranching(nodeID, nextNodeID string, outgoing map[string][]Edge, children map[string][]string, rs *runState) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	for _, e := range outgoing[nodeID] {
		if e.Condition == "" || e.Condition == nextNodeID {
			continue
		}
		if rs.skipped[e.To] {
			continue
		}
		rs.skipped[e.To] = true
		markDownstreamSkipped(e.To, children, rs.skipped)
	}
}

func resolveNodeConfig(cfg *Config, nodeType string) *executor.Config {
	retry, cache, timeout, onRetry := cfg.Retry, cfg.Cache, cfg.Timeout, cfg.OnRetry
	if override, ok := cfg.NodeConfig[nodeType]; ok {
		if override.Retry != nil {
			retry = override.Retry
		}
		if override.Cache != nil {
			cache = override.Cache
		}
		if override.Timeout != 0 {
			timeout = override.Timeout
		}
		if override.OnRetry != nil {
			onRetry = override.OnRetry
		}
	}
	return &executor.Config{Retry: retry, Cache: cache, Timeout: timeout, OnRetry: onRetry}
}

func safeCall(log zerolog.Logger, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("callback", name).Msg("observer callback panicked, continuing")
		}
	}()
	fn()
}
