// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSucceedsWithoutRetry(t *testing.T) {
	policy := NewExponentialBackoff().WithMaxRetries(3)
	calls := 0

	err := Do(context.Background(), policy, func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	policy := NewExponentialBackoff().WithMaxRetries(5)
	policy.minWaitTime = time.Millisecond
	policy.maxWaitTime = 5 * time.Millisecond

	calls := 0
	err := Do(context.Background(), policy, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("not ready")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoGivesUpAfterMaxRetries(t *testing.T) {
	policy := NewExponentialBackoff().WithMaxRetries(2)
	policy.minWaitTime = time.Millisecond
	policy.maxWaitTime = 2 * time.Millisecond

	calls := 0
	wantErr := errors.New("still down")
	err := Do(context.Background(), policy, func(ctx context.Context) error {
		calls++
		return wantErr
	})

	require.ErrorIs(t, err, wantErr)
	assert.Equal(t, 3, calls) // initial attempt (0) + 2 retries
}

func TestDoStopsOnContextCancel(t *testing.T) {
	policy := NewExponentialBackoff().WithMaxRetries(10)
	policy.minWaitTime = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, policy, func(ctx context.Context) error {
		calls++
		if calls == 1 {
			cancel()
		}
		return errors.New("fail")
	})

	require.Error(t, err)
	assert.LessOrEqual(t, calls, 2)
}

func TestExponentialBackoffWaitTimeGrows(t *testing.T) {
	policy := &ExponentialBackoff{
		maxRetries:    5,
		minWaitTime:   10 * time.Millisecond,
		maxWaitTime:   time.Second,
		backoffFactor: 2.0,
	}

	w0 := policy.WaitTime(0)
	w1 := policy.WaitTime(1)
	w2 := policy.WaitTime(2)

	assert.Equal(t, 10*time.Millisecond, w0)
	assert.Equal(t, 10*time.Millisecond, w1)
	assert.Equal(t, 20*time.Millisecond, w2)
}

func TestExponentialBackoffWaitTimeCapsAtMax(t *testing.T) {
	policy := &ExponentialBackoff{
		maxRetries:    10,
		minWaitTime:   time.Second,
		maxWaitTime:   3 * time.Second,
		backoffFactor: 2.0,
	}

	assert.Equal(t, 3*time.Second, policy.WaitTime(10))
}
