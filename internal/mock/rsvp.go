// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

// Package mock provides an in-memory Rsvp implementation for tests, so the
// manager and facade layers can be exercised without a live Postgres
// instance (spec §9 design note). Grounded on the teacher's
// sync.RWMutex-protected-map MockStorage pattern.
package mock

import (
	"context"
	"sort"
	"sync"

	"github.com/Chikage0o0/reservation/internal/domain"
	"github.com/Chikage0o0/reservation/internal/domainerr"
	"github.com/Chikage0o0/reservation/internal/manager"
)

// Store is an in-memory fake implementing manager.Rsvp. It enforces the
// no-overlap invariant (I1) itself, since there is no real exclusion index
// behind it, using a simple linear scan — adequate for unit tests, never
// intended as a production substitute for the persistence layer.
type Store struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]domain.Reservation
	watchCh []chan domain.Reservation
}

// New creates an empty fake store.
func New() *Store {
	return &Store{byID: make(map[int64]domain.Reservation)}
}

func (s *Store) Reserve(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
	r.Status = r.NormalizeStatus()
	if err := r.Validate(); err != nil {
		return domain.Reservation{}, domainerr.FromDomainValidation(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.byID {
		if existing.ResourceID != r.ResourceID {
			continue
		}
		if existing.Status == domain.StatusUnknown {
			continue
		}
		if overlaps(existing, r) {
			info := domain.ConflictInfo{
				Parsed: true,
				New:    domain.ConflictWindow{ResourceID: r.ResourceID, Start: r.Start, End: r.End},
				Old:    domain.ConflictWindow{ResourceID: existing.ResourceID, Start: existing.Start, End: existing.End},
			}
			return domain.Reservation{}, domainerr.ConflictReservation(info)
		}
	}

	s.nextID++
	r.ID = s.nextID
	s.byID[r.ID] = r
	s.notify(r)
	return r, nil
}

func overlaps(a, b domain.Reservation) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return domainerr.NotFound(id)
	}
	delete(s.byID, id)
	return nil
}

func (s *Store) ChangeStatus(ctx context.Context, id int64) (domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byID[id]
	if !ok || r.Status != domain.StatusPending {
		return domain.Reservation{}, domainerr.NotFound(id)
	}
	r.Status = domain.StatusConfirmed
	s.byID[id] = r
	s.notify(r)
	return r, nil
}

func (s *Store) UpdateNotes(ctx context.Context, id int64, note string) (domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byID[id]
	if !ok {
		return domain.Reservation{}, domainerr.NotFound(id)
	}
	r.Note = note
	s.byID[id] = r
	return r, nil
}

func (s *Store) Get(ctx context.Context, id int64) (domain.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.byID[id]
	if !ok {
		return domain.Reservation{}, domainerr.NotFound(id)
	}
	return r, nil
}

func (s *Store) Query(ctx context.Context, q domain.Query) (<-chan manager.QueryItem, error) {
	if _, err := q.Timespan(); err != nil {
		return nil, domainerr.FromDomainValidation(err)
	}

	matches := s.matching(q)

	out := make(chan manager.QueryItem, 32)
	go func() {
		defer close(out)
		for _, r := range matches {
			select {
			case out <- manager.QueryItem{Reservation: r}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (s *Store) matching(q domain.Query) []domain.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Reservation
	for _, r := range s.byID {
		if q.UserID != "" && r.UserID != q.UserID {
			continue
		}
		if q.ResourceID != "" && r.ResourceID != q.ResourceID {
			continue
		}
		if q.Status != domain.StatusUnknown && r.Status != q.Status {
			continue
		}
		if !q.Start.IsZero() && r.End.Before(q.Start) {
			continue
		}
		if !q.End.IsZero() && !r.Start.Before(q.End) {
			continue
		}
		result = append(result, r)
	}

	sort.Slice(result, func(i, j int) bool {
		if q.IsDesc {
			return result[i].ID > result[j].ID
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func (s *Store) Filter(ctx context.Context, f domain.Filter) ([]domain.Reservation, domain.Pager, error) {
	f = f.Normalize()

	s.mu.RLock()
	var all []domain.Reservation
	for _, r := range s.byID {
		if f.UserID != "" && r.UserID != f.UserID {
			continue
		}
		if f.ResourceID != "" && r.ResourceID != f.ResourceID {
			continue
		}
		if f.Status != domain.StatusUnknown && r.Status != f.Status {
			continue
		}
		all = append(all, r)
	}
	s.mu.RUnlock()

	queryDesc := f.IsDesc
	if f.IsPrev {
		queryDesc = !queryDesc
	}

	sort.Slice(all, func(i, j int) bool {
		if queryDesc {
			return all[i].ID > all[j].ID
		}
		return all[i].ID < all[j].ID
	})

	var page []domain.Reservation
	for _, r := range all {
		if f.Cursor != 0 {
			if queryDesc && r.ID >= f.Cursor {
				continue
			}
			if !queryDesc && r.ID <= f.Cursor {
				continue
			}
		}
		page = append(page, r)
		if int32(len(page)) == f.PageSize {
			break
		}
	}

	if f.IsPrev {
		for i, j := 0, len(page)-1; i < j; i, j = i+1, j-1 {
			page[i], page[j] = page[j], page[i]
		}
	}

	ids := make([]int64, len(page))
	for i, r := range page {
		ids[i] = r.ID
	}
	pager := domain.BuildPager(ids, f.Cursor, f.PageSize, f.IsPrev)

	return page, pager, nil
}

// Listen streams every reservation created or confirmed from this point on,
// fed directly by Subscribe/notify rather than polling — in a single
// process every mutation already passes through this Store, so there is no
// state to diff (unlike the real poller, C12).
func (s *Store) Listen(ctx context.Context) (<-chan manager.QueryItem, error) {
	changes := s.Subscribe()
	out := make(chan manager.QueryItem, 32)
	go func() {
		defer close(out)
		for {
			select {
			case r, ok := <-changes:
				if !ok {
					return
				}
				select {
				case out <- manager.QueryItem{Reservation: r}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Subscribe returns a channel that receives every reservation created or
// confirmed after the call, for the in-memory listen change-feed used by
// facade tests. Unlike the real poller (C12), no polling is needed here
// since every mutation already passes through this single process.
func (s *Store) Subscribe() <-chan domain.Reservation {
	ch := make(chan domain.Reservation, 32)
	s.mu.Lock()
	s.watchCh = append(s.watchCh, ch)
	s.mu.Unlock()
	return ch
}

func (s *Store) notify(r domain.Reservation) {
	for _, ch := range s.watchCh {
		select {
		case ch <- r:
		default:
		}
	}
}
