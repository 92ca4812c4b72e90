package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/flowforge/waveengine/internal/node"
	"github.com/rs/zerolog"
)

// ExecuteNode runs the pipeline: validate rawInput, consult the cache if
// enabled, then drive def.Executor through a retry/timeout/cancel loop.
//
// ctx doubles as the cooperative cancellation signal raced against each
// attempt's timeout: a caller that wants to abort a running workflow
// cancels ctx, and the next checkpoint (before an attempt, or during a
// backoff sleep) observes it.
//
// The only Go error ExecuteNode returns is a schema validation failure;
// every other failure mode (timeout, abort, executor-reported failure,
// executor panic/error) is surfaced in-band via node.Result.
func ExecuteNode(ctx context.Context, log zerolog.Logger, def *node.Definition, rawInput any, nodeCtx *node.Context, cfg *Config) (node.Result, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	validated := rawInput
	if def.InputSchema != nil {
		v, err := def.InputSchema.Validate(rawInput)
		if err != nil {
			return node.Result{}, err
		}
		validated = v
	}

	var cacheKey string
	cacheActive := cfg.Cache != nil && cfg.Cache.Enabled && cfg.Cache.Store != nil
	if cacheActive {
		if cfg.Cache.KeyFn != nil {
			cacheKey = cfg.Cache.KeyFn(validated)
		} else {
			cacheKey = canonicalKey(validated)
		}
		if hit, ok := cfg.Cache.Store.Get(cacheKey); ok {
			result, ok := hit.(node.Result)
			if !ok {
				// Stores that persist values as JSON hand back a decoded
				// map rather than a node.Result.
				if raw, err := json.Marshal(hit); err == nil {
					ok = json.Unmarshal(raw, &result) == nil && result.Success
				}
			}
			if ok {
				log.Debug().Str("node_type", def.Type).Str("cache_key", cacheKey).Msg("cache hit, skipping executor")
				return result, nil
			}
		}
	}

	maxAttempts := 1
	if cfg.Retry != nil && cfg.Retry.MaxAttempts > 0 {
		maxAttempts = cfg.Retry.MaxAttempts
	}

	var last node.Result

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return node.Result{Success: false, Error: "Execution aborted"}, nil
		}

		result := runAttempt(ctx, def, validated, nodeCtx, cfg.Timeout)
		last = result

		if result.Success {
			if cacheActive {
				cfg.Cache.Store.Set(cacheKey, result, cfg.Cache.TTL)
			}
			return result, nil
		}

		if attempt == maxAttempts {
			return result, nil
		}

		attemptErr := errors.New(result.Error)
		if cfg.Retry != nil && cfg.Retry.RetryOn != nil && !cfg.Retry.RetryOn(attemptErr) {
			return result, nil
		}

		if cfg.OnRetry != nil {
			safeNotify(log, "onRetry", func() { cfg.OnRetry(attempt, attemptErr) })
		}

		delay := backoffDelay(cfg.Retry, attempt)
		if delay > 0 {
			select {
			case <-ctx.Done():
				return node.Result{Success: false, Error: "Execution aborted"}, nil
			case <-time.After(delay):
			}
		}
	}

	return last, nil
}

// runAttempt races def.Executor against the attempt timeout and the shared
// cancellation signal in ctx. The engine cannot forcibly interrupt an
// executor that doesn't voluntarily observe its context; the race simply
// unblocks the caller, and the goroutine's eventual completion is
// discarded.
func runAttempt(ctx context.Context, def *node.Definition, input any, nodeCtx *node.Context, timeout time.Duration) node.Result {
	attemptCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type outcome struct {
		result node.Result
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("executor panicked: %v", r)}
			}
		}()
		res, err := def.Executor(attemptCtx, input, nodeCtx)
		done <- outcome{result: res, err: err}
	}()

	select {
	case <-attemptCtx.Done():
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			return node.Result{Success: false, Error: fmt.Sprintf("Execution timed out after %dms", timeout.Milliseconds())}
		}
		return node.Result{Success: false, Error: "Execution aborted"}
	case o := <-done:
		if o.err != nil {
			return node.Result{Success: false, Error: o.err.Error()}
		}
		return o.result
	}
}

func safeNotify(log zerolog.Logger, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("callback", name).Msg("observer callback panicked, continuing")
		}
	}()
	fn()
}
