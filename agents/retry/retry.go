/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package retry retries model requests that fail with transient errors such
// as rate limits and overloaded backends.
package retry

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
)

// Config controls the backoff schedule.
type Config struct {
	// MaxRetries is the number of attempts after the first. 0 disables retries.
	MaxRetries int
	// BaseBackoff is the wait before the first retry; it doubles per attempt.
	BaseBackoff time.Duration
	// MaxBackoff caps the doubled wait.
	MaxBackoff time.Duration
	// MaxJitter bounds the random delay added to each wait.
	MaxJitter time.Duration
}

// Validate rejects negative values.
func (c Config) Validate() error {
	switch {
	case c.MaxRetries < 0:
		return errors.New("max retries cannot be negative")
	case c.BaseBackoff < 0:
		return errors.New("base backoff cannot be negative")
	case c.MaxBackoff < 0:
		return errors.New("max backoff cannot be negative")
	case c.MaxJitter < 0:
		return errors.New("max jitter cannot be negative")
	}
	return nil
}

// DefaultConfig returns a schedule sized for provider quota errors, which
// take longer to clear than ordinary transient failures.
func DefaultConfig() Config {
	return Config{
		MaxRetries:  5,
		BaseBackoff: time.Second,
		MaxBackoff:  time.Minute,
		MaxJitter:   500 * time.Millisecond,
	}
}

// Classifier reports whether an error is worth retrying.
type Classifier func(error) bool

// Do calls fn until it succeeds, returns an error the classifier rejects,
// the retries are exhausted, or ctx is done.
func Do[T any](ctx context.Context, cfg Config, operation string, retryable Classifier, fn func() (T, error)) (T, error) {
	var (
		result  T
		lastErr error
	)
	for attempt := 0; ; attempt++ {
		result, lastErr = fn()
		switch {
		case lastErr == nil:
			return result, nil
		case !retryable(lastErr):
			return result, lastErr
		case attempt >= cfg.MaxRetries:
			return result, fmt.Errorf("%s failed after %d retries: %w", operation, cfg.MaxRetries, lastErr)
		}

		wait := backoff(cfg, attempt)
		clog.FromContext(ctx).With("operation", operation).
			With("attempt", attempt+1).
			With("max_retries", cfg.MaxRetries).
			With("backoff", wait).
			With("error", lastErr.Error()).
			Warn("Transient model error, retrying")

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(wait):
		}
	}
}

func backoff(cfg Config, attempt int) time.Duration {
	wait := min(cfg.BaseBackoff<<attempt, cfg.MaxBackoff)
	if cfg.MaxJitter > 0 {
		if n, err := rand.Int(rand.Reader, big.NewInt(int64(cfg.MaxJitter))); err == nil {
			wait += time.Duration(n.Int64())
		}
	}
	return wait
}

// StatusCodes returns a Classifier matching errors whose HTTP status code,
// as extracted by code, is one of codes.
func StatusCodes(code func(error) (int, bool), codes ...int) Classifier {
	return func(err error) bool {
		got, ok := code(err)
		if !ok {
			return false
		}
		for _, c := range codes {
			if got == c {
				return true
			}
		}
		return false
	}
}

// MessageContains returns a Classifier matching errors whose text contains
// any of the fragments. Used for SDKs that do not expose typed errors.
func MessageContains(fragments ...string) Classifier {
	return func(err error) bool {
		if err == nil {
			return false
		}
		msg := err.Error()
		for _, f := range fragments {
			if strings.Contains(msg, f) {
				return true
			}
		}
		return false
	}
}
