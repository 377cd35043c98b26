// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

package manager

import (
	"context"

	"github.com/Chikage0o0/reservation/internal/domain"
	"github.com/Chikage0o0/reservation/internal/domainerr"
	"github.com/Chikage0o0/reservation/internal/logging"
	"github.com/Chikage0o0/reservation/internal/poller"
)

// pgStore is the subset of internal/store.Store the manager depends on,
// declared here (not in internal/store) so this package never imports pgx
// types directly and a fake Store could be substituted without pulling in
// the persistence package at all.
type pgStore interface {
	Insert(ctx context.Context, r domain.Reservation) (domain.Reservation, error)
	Delete(ctx context.Context, id int64) error
	ConfirmPending(ctx context.Context, id int64) (domain.Reservation, error)
	UpdateNotes(ctx context.Context, id int64, note string) (domain.Reservation, error)
	Get(ctx context.Context, id int64) (domain.Reservation, error)
	Query(ctx context.Context, q domain.Query, fn func(domain.Reservation) bool) error
	Filter(ctx context.Context, f domain.Filter) ([]domain.Reservation, error)
}

// ReservationManager implements Rsvp against a shared, thread-safe
// persistence pool handle (C9's Store). Every method may suspend at the
// persistence boundary; no in-memory locking is performed or required — the
// exclusion index is the sole source of truth for the no-overlap invariant
// (spec §5).
type ReservationManager struct {
	store  pgStore
	logger logging.Logger
	poller *poller.Poller
}

// New builds a ReservationManager over the given store. The change feed
// backing Listen (C12) polls the same store via its Filter method.
func New(store pgStore, logger logging.Logger) *ReservationManager {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &ReservationManager{store: store, logger: logger, poller: poller.New(store)}
}

// Reserve validates r, normalizes its status (unknown ⇒ Pending), and
// inserts it. Overlap with an existing live reservation on the same
// resource surfaces as domainerr.KindConflictReservation.
func (m *ReservationManager) Reserve(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
	r.Status = r.NormalizeStatus()
	if err := r.Validate(); err != nil {
		return domain.Reservation{}, domainerr.FromDomainValidation(err)
	}

	inserted, err := m.store.Insert(ctx, r)
	if err != nil {
		return domain.Reservation{}, domainerr.FromPgError(err, 0)
	}
	return inserted, nil
}

// Delete removes a reservation by id. This is also how cancel is
// implemented (spec §9 Open Question decision: cancel is delete, not a
// status transition).
func (m *ReservationManager) Delete(ctx context.Context, id int64) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return domainerr.FromPgError(err, id)
	}
	return nil
}

// ChangeStatus performs the conditional Pending → Confirmed transition. A
// second call on an already-confirmed (or otherwise non-pending) id affects
// no row and therefore returns NotFound — the defined idempotence boundary
// (spec §4.3, P2).
func (m *ReservationManager) ChangeStatus(ctx context.Context, id int64) (domain.Reservation, error) {
	r, err := m.store.ConfirmPending(ctx, id)
	if err != nil {
		return domain.Reservation{}, domainerr.FromPgError(err, id)
	}
	return r, nil
}

// UpdateNotes unconditionally replaces a reservation's note.
func (m *ReservationManager) UpdateNotes(ctx context.Context, id int64, note string) (domain.Reservation, error) {
	r, err := m.store.UpdateNotes(ctx, id, note)
	if err != nil {
		return domain.Reservation{}, domainerr.FromPgError(err, id)
	}
	return r, nil
}

// Get fetches a single reservation by id.
func (m *ReservationManager) Get(ctx context.Context, id int64) (domain.Reservation, error) {
	r, err := m.store.Get(ctx, id)
	if err != nil {
		return domain.Reservation{}, domainerr.FromPgError(err, id)
	}
	return r, nil
}

// Query computes the requested timespan, allocates a bounded channel of
// capacity 32, and spawns a producer goroutine that streams matching rows
// to it. When ctx is cancelled, the producer observes this on its next send
// attempt and exits; a consumer that stops reading without cancelling ctx
// leaves the producer blocked on its send.
func (m *ReservationManager) Query(ctx context.Context, q domain.Query) (<-chan QueryItem, error) {
	if _, err := q.Timespan(); err != nil {
		return nil, domainerr.FromDomainValidation(err)
	}

	out := make(chan QueryItem, queryChannelCapacity)
	go func() {
		defer close(out)

		err := m.store.Query(ctx, q, func(r domain.Reservation) bool {
			select {
			case out <- QueryItem{Reservation: r}:
				return true
			case <-ctx.Done():
				return false
			}
		})
		if err != nil && ctx.Err() == nil {
			select {
			case out <- QueryItem{Err: domainerr.FromPgError(err, 0)}:
			case <-ctx.Done():
			}
		}
	}()

	return out, nil
}

// Filter performs cursor-based pagination over the id axis. When IsPrev is
// set, the underlying query direction is inverted and the result reversed
// before return, making "previous page" symmetric with "next page" (spec
// §4.3).
func (m *ReservationManager) Filter(ctx context.Context, f domain.Filter) ([]domain.Reservation, domain.Pager, error) {
	f = f.Normalize()

	queryDesc := f.IsDesc
	if f.IsPrev {
		queryDesc = !queryDesc
	}

	rows, err := m.store.Filter(ctx, domain.Filter{
		UserID:     f.UserID,
		ResourceID: f.ResourceID,
		Status:     f.Status,
		Cursor:     f.Cursor,
		PageSize:   f.PageSize,
		IsDesc:     queryDesc,
	})
	if err != nil {
		return nil, domain.Pager{}, domainerr.FromPgError(err, 0)
	}

	if f.IsPrev {
		reverse(rows)
	}

	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	pager := domain.BuildPager(ids, f.Cursor, f.PageSize, f.IsPrev)

	return rows, pager, nil
}

// Listen streams the change feed (spec §9: polling-backed, same bounded
// channel and cancellation contract as Query).
func (m *ReservationManager) Listen(ctx context.Context) (<-chan QueryItem, error) {
	changes := m.poller.Watch(ctx)

	out := make(chan QueryItem, queryChannelCapacity)
	go func() {
		defer close(out)
		for c := range changes {
			item := QueryItem{Reservation: c.Reservation}
			if c.Err != nil {
				item.Err = domainerr.FromPgError(c.Err, 0)
			}
			select {
			case out <- item:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func reverse(rows []domain.Reservation) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}
