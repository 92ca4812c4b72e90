// Command waverunner builds a small workflow from two builtin node types
// and a wire-format definition, then runs it to completion, printing each
// node's terminal status. It exists to exercise the public package
// surface end to end, the way a real consumer program would use it.
package main

import (
	"context"
	"os"
	"time"

	waveengine "github.com/flowforge/waveengine"
	"github.com/flowforge/waveengine/internal/config"
	"github.com/flowforge/waveengine/internal/node"
	"github.com/flowforge/waveengine/internal/schema"
	"github.com/flowforge/waveengine/pkg/workflow"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func main() {
	cfg := config.DefaultConfig()
	if path := os.Getenv("WAVERUNNER_CONFIG"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			zerolog.New(os.Stderr).With().Timestamp().Logger().
				Fatal().Err(err).Str("path", path).Msg("failed to load config")
		}
		cfg = loaded
	}

	log := newLogger(cfg)

	reg := waveengine.NewRegistry()
	if _, err := reg.Register(fetchUserNode()); err != nil {
		log.Fatal().Err(err).Msg("failed to register fetch-user node")
	}
	if _, err := reg.Register(greetNode()); err != nil {
		log.Fatal().Err(err).Msg("failed to register greet node")
	}

	def := workflow.NewDefinitionBuilder().
		Name("greet-user").
		Description("fetches a user then greets them").
		AddNode(workflow.NewNodeDefBuilder().ID("fetch").Type("fetch-user").Build()).
		AddNode(workflow.NewNodeDefBuilder().ID("greet").Type("greet").
			ConfigKV("name", "{{fetch.name}}").Build()).
		AddEdge(workflow.NewEdgeDefBuilder().ID("e1").Source("fetch", "out").Target("greet", "in").Build()).
		Build()

	wf, err := workflow.ToEngine(def, reg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to convert workflow definition")
	}

	execCtx := waveengine.NewExecutionContext(map[string]any{"userID": "u-42"})

	executionID := uuid.NewString()
	hub := waveengine.NewObserverHub(log)
	obs := waveengine.NewObserver(hub, executionID)

	runCfg := &waveengine.RunConfig{
		WorkflowExecutionID: executionID,
		Timeout:             cfg.DefaultTimeoutDuration(),
		Retry:               waveengine.NewRetryPolicy(cfg.Retry.MaxAttempts, cfg.RetryInitialDelay(), cfg.RetryMaxDelay()),
		ConcurrencyLimit:    cfg.ConcurrencyLimit,
		OnNodeStart: func(id, nodeType string) {
			log.Info().Str("node_id", id).Str("node_type", nodeType).Msg("node started")
			obs.OnNodeStart(id, nodeType)
		},
		OnNodeComplete: func(id string, result waveengine.NodeResult) {
			log.Info().Str("node_id", id).Interface("output", result.Output).Msg("node completed")
			obs.OnNodeComplete(id, result)
		},
		OnNodeError: func(id string, err error) {
			log.Error().Str("node_id", id).Err(err).Msg("node failed")
			obs.OnNodeError(id, err)
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	result, err := waveengine.Execute(ctx, wf, execCtx, log, runCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("workflow could not be planned")
	}

	for id, status := range result.Statuses {
		log.Info().Str("node_id", id).Str("status", string(status)).Msg("final status")
	}
	for _, failure := range waveengine.Failures(result) {
		log.Error().Str("node_id", failure.NodeID).Str("node_type", failure.NodeType).Err(failure).Msg("node execution failed")
	}
	if !result.Success {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var base zerolog.Logger
	if cfg.Environment == "development" {
		base = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	} else {
		base = zerolog.New(os.Stdout)
	}
	return base.Level(level).With().Timestamp().Logger()
}

func fetchUserNode() *node.Definition {
	return &node.Definition{
		Type:        "fetch-user",
		Name:        "Fetch User",
		Category:    node.CategoryIntegration,
		InputSchema: schema.NewObject(),
		OutputSchema: schema.NewObject(
			schema.String("name"),
		),
		Executor: func(ctx context.Context, input any, nodeCtx *node.Context) (node.Result, error) {
			return node.Result{Success: true, Output: map[string]any{"name": "Ada"}}, nil
		},
	}
}

func greetNode() *node.Definition {
	return &node.Definition{
		Type:        "greet",
		Name:        "Greet",
		Category:    node.CategoryAction,
		InputSchema: schema.NewObject(schema.String("name")),
		OutputSchema: schema.NewObject(
			schema.String("message"),
		),
		Executor: func(ctx context.Context, input any, nodeCtx *node.Context) (node.Result, error) {
			m := input.(map[string]any)
			return node.Result{Success: true, Output: map[string]any{
				"message": "hello, " + m["name"].(string),
			}}, nil
		},
	}
}
