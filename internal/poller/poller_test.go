// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

package poller

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chikage0o0/reservation/internal/domain"
)

// fakeLister lets each test step the set of rows the poller sees on its
// next tick, guarded by a mutex since poll runs on its own goroutine.
type fakeLister struct {
	mu   sync.Mutex
	rows []domain.Reservation
}

func (f *fakeLister) set(rows []domain.Reservation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = rows
}

func (f *fakeLister) Filter(ctx context.Context, flt domain.Filter) ([]domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Reservation, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func drainOne(t *testing.T, ch <-chan ChangeItem) ChangeItem {
	t.Helper()
	select {
	case item, ok := <-ch:
		require.True(t, ok, "channel closed before an item arrived")
		return item
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change item")
		return ChangeItem{}
	}
}

func TestPollerEmitsNewReservationAfterInitialSeed(t *testing.T) {
	lister := &fakeLister{}
	p := New(lister).WithInterval(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := p.Watch(ctx)

	lister.set([]domain.Reservation{{ID: 1, Status: domain.StatusPending}})

	item := drainOne(t, ch)
	assert.Equal(t, int64(1), item.Reservation.ID)
	assert.Equal(t, domain.StatusPending, item.Reservation.Status)
	assert.NoError(t, item.Err)
}

func TestPollerEmitsStatusChange(t *testing.T) {
	lister := &fakeLister{rows: []domain.Reservation{{ID: 1, Status: domain.StatusPending}}}
	p := New(lister).WithInterval(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := p.Watch(ctx)

	lister.set([]domain.Reservation{{ID: 1, Status: domain.StatusConfirmed}})

	item := drainOne(t, ch)
	assert.Equal(t, int64(1), item.Reservation.ID)
	assert.Equal(t, domain.StatusConfirmed, item.Reservation.Status)
}

func TestPollerEmitsRemovalAsChange(t *testing.T) {
	lister := &fakeLister{rows: []domain.Reservation{{ID: 1, Status: domain.StatusConfirmed}}}
	p := New(lister).WithInterval(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := p.Watch(ctx)

	lister.set(nil)

	item := drainOne(t, ch)
	assert.Equal(t, int64(1), item.Reservation.ID)
	assert.Equal(t, domain.StatusConfirmed, item.Reservation.Status)
}

func TestPollerStopsOnContextCancel(t *testing.T) {
	lister := &fakeLister{}
	p := New(lister).WithInterval(5 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	ch := p.Watch(ctx)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel did not close after context cancel")
	}
}
