// Package executor implements the single-node executor: validate, consult
// cache, run the definition's executor under a retry/timeout/cancel loop.
package executor

import (
	"time"

	"github.com/flowforge/waveengine/internal/cache"
)

// RetryPolicy configures the retry loop around a single node execution.
type RetryPolicy struct {
	// MaxAttempts is the maximum number of attempts, including the first.
	// Zero or unset means 1 (no retries).
	MaxAttempts int

	// InitialDelay is the backoff before the first retry ("backoffMs").
	InitialDelay time.Duration

	// MaxDelay caps the backoff delay. Zero means unbounded.
	MaxDelay time.Duration

	// Multiplier scales the delay on each subsequent retry. Zero/unset
	// defaults to 2.
	Multiplier float64

	// RetryOn, if set, is consulted on failure; returning false stops
	// retrying immediately. Absence means "retry any error".
	RetryOn func(err error) bool
}

// CacheConfig configures single-node result memoization.
type CacheConfig struct {
	Enabled bool
	Store   cache.Cache
	// KeyFn derives the cache key from the validated input. Absent means
	// the canonical-JSON default.
	KeyFn func(validatedInput any) string
	TTL   time.Duration
}

// Config bundles the per-call execution policy consulted by ExecuteNode.
type Config struct {
	Retry   *RetryPolicy
	Cache   *CacheConfig
	Timeout time.Duration

	// OnRetry fires before each backoff sleep. It must not panic; if it
	// does, the engine recovers and continues.
	OnRetry func(attempt int, err error)
}
