// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

// Package poller implements C12, the change-feed backing the listen RPC
// (spec §9 Open Question decision: polling, not LISTEN/NOTIFY or an outbox
// table). Grounded on the teacher's pkg/watch JobPoller/NodePoller: a ticker
// loop that re-fetches the current set, diffs it against the previously seen
// state by id, and emits an event per create/status-change/removal.
package poller

import (
	"context"
	"time"

	"github.com/Chikage0o0/reservation/internal/domain"
)

// DefaultInterval mirrors the teacher's DefaultPollInterval.
const DefaultInterval = 5 * time.Second

const defaultBufferSize = 32

// Lister is the read capability the poller needs. Each poll is one Filter
// call (PageSize 10000, StatusUnknown, no cursor), so rows past the first
// 10000 by id are not observed. internal/store.Store satisfies this with its
// existing Filter method — no new persistence function is introduced for
// the change feed.
type Lister interface {
	Filter(ctx context.Context, f domain.Filter) ([]domain.Reservation, error)
}

// ChangeItem is one emitted change-feed event, or the error of one failed
// poll; polling continues on the next tick after an error.
type ChangeItem struct {
	Reservation domain.Reservation
	Err         error
}

// Poller periodically diffs the full reservation set to synthesize a
// change feed for newly created, confirmed, or deleted reservations.
type Poller struct {
	lister     Lister
	interval   time.Duration
	bufferSize int
	pageSize   int32
}

// New builds a Poller over the given Lister with the package defaults.
func New(lister Lister) *Poller {
	return &Poller{
		lister:     lister,
		interval:   DefaultInterval,
		bufferSize: defaultBufferSize,
		pageSize:   10000,
	}
}

// WithInterval overrides the poll interval.
func (p *Poller) WithInterval(d time.Duration) *Poller {
	p.interval = d
	return p
}

// Watch starts the poll loop and returns the change-feed channel. The loop
// exits, closing the channel, when ctx is cancelled — the same cancellation
// contract as C3's Query (spec §4.4).
func (p *Poller) Watch(ctx context.Context) <-chan ChangeItem {
	out := make(chan ChangeItem, p.bufferSize)
	go p.run(ctx, out)
	return out
}

func (p *Poller) run(ctx context.Context, out chan<- ChangeItem) {
	defer close(out)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	seen := make(map[int64]domain.Status)
	p.poll(ctx, out, seen, true)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !p.poll(ctx, out, seen, false) {
				return
			}
		}
	}
}

// poll performs one diff pass. It returns false if the caller should stop
// (the consumer dropped the channel, observed via a failed send).
func (p *Poller) poll(ctx context.Context, out chan<- ChangeItem, seen map[int64]domain.Status, initial bool) bool {
	rows, err := p.lister.Filter(ctx, domain.Filter{PageSize: p.pageSize})
	if err != nil {
		return send(ctx, out, ChangeItem{Err: err})
	}

	current := make(map[int64]struct{}, len(rows))
	for _, r := range rows {
		current[r.ID] = struct{}{}
		prev, existed := seen[r.ID]
		seen[r.ID] = r.Status

		if !existed {
			if initial {
				continue
			}
			if !send(ctx, out, ChangeItem{Reservation: r}) {
				return false
			}
			continue
		}
		if prev != r.Status {
			if !send(ctx, out, ChangeItem{Reservation: r}) {
				return false
			}
		}
	}

	for id, status := range seen {
		if _, ok := current[id]; ok {
			continue
		}
		delete(seen, id)
		cancelled := domain.Reservation{ID: id, Status: status}
		if !send(ctx, out, ChangeItem{Reservation: cancelled}) {
			return false
		}
	}

	return true
}

func send(ctx context.Context, out chan<- ChangeItem, item ChangeItem) bool {
	select {
	case out <- item:
		return true
	case <-ctx.Done():
		return false
	}
}
