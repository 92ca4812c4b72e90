// Package workflowengine drives a planned set of waves to completion:
// per-node input resolution, concurrent execution within a wave, result
// integration, conditional branching, and skip propagation.
package workflowengine

import (
	"time"

	"github.com/flowforge/waveengine/internal/executor"
	"github.com/flowforge/waveengine/internal/node"
)

// Status is a node's lifecycle state within one run.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
)

// Edge connects two workflow nodes. Condition, when set, participates in
// conditional-branch skip selection (§4.8.1); edges without one are always
// followed. Expression, when set, is an additive expr-lang boolean
// predicate evaluated just before the wave containing To is scheduled; a
// false result (or an evaluation error) skips To and its descendants.
type Edge struct {
	ID         string
	From       string
	To         string
	Condition  string
	Expression string
}

// WorkflowNode pairs a node identity with its definition and raw
// (un-interpolated) input.
type WorkflowNode struct {
	ID    string
	Type  string
	Def   *node.Definition
	Input map[string]any
}

// Workflow is the in-memory graph the engine executes.
type Workflow struct {
	Name        string
	Description string
	Nodes       []WorkflowNode
	Edges       []Edge
}

// NodeConfigOverride shallow-overrides the four workflow-level execution
// policy fields for one node type. Cancellation is not overridable: every
// node shares the ctx passed to ExecuteWorkflow.
type NodeConfigOverride struct {
	Retry   *executor.RetryPolicy
	Cache   *executor.CacheConfig
	Timeout time.Duration
	OnRetry func(attempt int, err error)
}

// Config is the workflow-level execution policy and observer hook set.
type Config struct {
	UserID     string
	CampaignID string

	// WorkflowExecutionID identifies this run to node executors. Left
	// empty, ExecuteWorkflow generates one.
	WorkflowExecutionID string

	Retry   *executor.RetryPolicy
	Cache   *executor.CacheConfig
	Timeout time.Duration
	OnRetry func(attempt int, err error)

	// ConcurrencyLimit caps how many nodes within one wave run at once.
	// Zero or negative means unbounded (one goroutine per wave member).
	ConcurrencyLimit int

	// NodeConfig overrides the four policy fields above, keyed by node type.
	NodeConfig map[string]NodeConfigOverride

	// StopOnError, nil or true (the default), marks every downstream
	// descendant of a failing node as skipped. Set to a false pointer to
	// let the workflow continue past failures.
	StopOnError *bool

	OnNodeStart    func(id, nodeType string)
	OnNodeComplete func(id string, result node.Result)
	OnNodeError    func(id string, err error)
}

func (c *Config) stopOnError() bool {
	return c == nil || c.StopOnError == nil || *c.StopOnError
}

// RunResult is the terminal outcome of one ExecuteWorkflow call.
type RunResult struct {
	Success   bool
	Statuses  map[string]Status
	Results   map[string]node.Result
	NodeTypes map[string]string
}
