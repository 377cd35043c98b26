// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

// Package retry provides a generic exponential-backoff retry policy, used by
// internal/store to tolerate a Postgres instance that is still coming up
// when the service starts.
package retry

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Policy decides whether and how long to wait before another attempt.
type Policy interface {
	ShouldRetry(ctx context.Context, err error, attempt int) bool
	WaitTime(attempt int) time.Duration
	MaxRetries() int
}

// ExponentialBackoff is a jittered exponential backoff policy.
type ExponentialBackoff struct {
	maxRetries    int
	minWaitTime   time.Duration
	maxWaitTime   time.Duration
	backoffFactor float64
	jitter        bool
}

// NewExponentialBackoff returns a policy with sensible defaults for
// waiting on a database to accept connections at startup.
func NewExponentialBackoff() *ExponentialBackoff {
	return &ExponentialBackoff{
		maxRetries:    5,
		minWaitTime:   500 * time.Millisecond,
		maxWaitTime:   10 * time.Second,
		backoffFactor: 2.0,
		jitter:        true,
	}
}

func (e *ExponentialBackoff) WithMaxRetries(n int) *ExponentialBackoff {
	e.maxRetries = n
	return e
}

func (e *ExponentialBackoff) ShouldRetry(ctx context.Context, err error, attempt int) bool {
	if attempt >= e.maxRetries {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	default:
	}
	return err != nil
}

func (e *ExponentialBackoff) WaitTime(attempt int) time.Duration {
	if attempt <= 0 {
		return e.minWaitTime
	}
	wait := time.Duration(float64(e.minWaitTime) * math.Pow(e.backoffFactor, float64(attempt-1)))
	if wait > e.maxWaitTime {
		wait = e.maxWaitTime
	}
	if e.jitter {
		wait += time.Duration(rand.Float64() * float64(wait) * 0.1)
	}
	return wait
}

func (e *ExponentialBackoff) MaxRetries() int { return e.maxRetries }

// Do runs fn, retrying per policy until it succeeds, the policy gives up, or
// ctx is cancelled.
func Do(ctx context.Context, policy Policy, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !policy.ShouldRetry(ctx, err, attempt) {
			return err
		}
		select {
		case <-time.After(policy.WaitTime(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
