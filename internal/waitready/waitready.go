// Package waitready gates startup on external dependencies becoming
// reachable: bounded attempts, constant delay, process-fatal on exhaustion
// (the caller decides to exit). It is not tied to any particular dependency;
// anything that can express "am I ready" as a func works.
package waitready

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
)

// Check reports whether the dependency is ready. A nil error means ready.
type Check func(ctx context.Context) error

// Config bounds the wait.
type Config struct {
	// Name labels the dependency in logs, e.g. "postgres".
	Name string
	// Attempts is the total number of checks before giving up.
	Attempts int
	// Delay is the fixed pause between attempts.
	Delay time.Duration
}

// Wait polls check until it succeeds, the attempts are exhausted, or ctx is
// canceled. On exhaustion it returns the last check error wrapped with the
// attempt count.
func Wait(ctx context.Context, cfg Config, check Check) error {
	if cfg.Attempts <= 0 {
		cfg.Attempts = 1
	}
	if cfg.Delay <= 0 {
		cfg.Delay = time.Second
	}

	attempt := 0
	backoff := retry.WithMaxRetries(uint64(cfg.Attempts-1), retry.NewConstant(cfg.Delay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := check(ctx); err != nil {
			slog.Info("waiting for dependency",
				"dependency", cfg.Name,
				"attempt", attempt,
				"max_attempts", cfg.Attempts,
				"err", err.Error(),
			)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s not ready after %d attempts: %w", cfg.Name, attempt, err)
	}
	slog.Info("dependency ready", "dependency", cfg.Name, "attempt", attempt)
	return nil
}
