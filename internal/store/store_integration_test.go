// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

//go:build integration

// These tests require a live Postgres reachable via the RERESERVE_TEST_DSN
// environment variable, with schema.sql already applied. Run with:
//
//	go test -tags=integration ./internal/store/...
package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/Chikage0o0/reservation/internal/domain"
	"github.com/Chikage0o0/reservation/internal/logging"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("RERESERVE_TEST_DSN")
	if dsn == "" {
		t.Skip("RERESERVE_TEST_DSN not set, skipping persistence integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, "TRUNCATE rsvp.reservations RESTART IDENTITY")
	require.NoError(t, err)

	return &Store{pool: pool, logger: logging.NoOpLogger{}}
}

func mustInsert(t *testing.T, s *Store, userID, resourceID string, start, end time.Time) domain.Reservation {
	t.Helper()
	r, err := s.Insert(context.Background(), domain.NewPending(userID, resourceID, start, end, ""))
	require.NoError(t, err)
	return r
}

func TestStoreInsertAndGet(t *testing.T) {
	s := newTestStore(t)
	start := time.Now().UTC().Truncate(time.Second)
	end := start.Add(time.Hour)

	r := mustInsert(t, s, "alice", "room-1", start, end)
	require.NotZero(t, r.ID)

	got, err := s.Get(context.Background(), r.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", got.UserID)
	require.Equal(t, domain.StatusPending, got.Status)
	require.WithinDuration(t, start, got.Start, time.Second)
	require.WithinDuration(t, end, got.End, time.Second)
}

func TestStoreInsertOverlapIsRejected(t *testing.T) {
	s := newTestStore(t)
	start := time.Now().UTC().Truncate(time.Second)
	end := start.Add(time.Hour)

	mustInsert(t, s, "alice", "room-2", start, end)

	_, err := s.Insert(context.Background(), domain.NewPending("bob", "room-2", start.Add(30*time.Minute), end.Add(time.Hour), ""))
	require.Error(t, err)
}

func TestStoreConfirmPendingOnlyAffectsPendingRows(t *testing.T) {
	s := newTestStore(t)
	start := time.Now().UTC().Truncate(time.Second)
	end := start.Add(time.Hour)

	r := mustInsert(t, s, "alice", "room-3", start, end)

	confirmed, err := s.ConfirmPending(context.Background(), r.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusConfirmed, confirmed.Status)

	_, err = s.ConfirmPending(context.Background(), r.ID)
	require.Error(t, err) // already confirmed, conditional UPDATE returns no rows
}

func TestStoreUpdateNotesAndDelete(t *testing.T) {
	s := newTestStore(t)
	start := time.Now().UTC().Truncate(time.Second)
	end := start.Add(time.Hour)

	r := mustInsert(t, s, "alice", "room-4", start, end)

	updated, err := s.UpdateNotes(context.Background(), r.ID, "bring badge")
	require.NoError(t, err)
	require.Equal(t, "bring badge", updated.Note)

	require.NoError(t, s.Delete(context.Background(), r.ID))

	_, err = s.Get(context.Background(), r.ID)
	require.Error(t, err)
}

func TestStoreFilterCursorPagination(t *testing.T) {
	s := newTestStore(t)
	start := time.Now().UTC().Truncate(time.Second)

	for i := 0; i < 5; i++ {
		offset := time.Duration(i) * 2 * time.Hour
		mustInsert(t, s, "alice", "room-5", start.Add(offset), start.Add(offset+time.Hour))
	}

	page, err := s.Filter(context.Background(), domain.Filter{PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)

	next, err := s.Filter(context.Background(), domain.Filter{Cursor: page[1].ID, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, next, 2)
	require.Greater(t, next[0].ID, page[1].ID)
}

func TestStoreQueryStreamsOverlappingRows(t *testing.T) {
	s := newTestStore(t)
	start := time.Now().UTC().Truncate(time.Second)
	end := start.Add(time.Hour)

	mustInsert(t, s, "alice", "room-6", start, end)
	mustInsert(t, s, "alice", "room-7", start.Add(3*time.Hour), start.Add(4*time.Hour))

	var seen []domain.Reservation
	err := s.Query(context.Background(), domain.Query{
		ResourceID: "room-6",
		Start:      start.Add(-time.Minute),
		End:        end.Add(time.Minute),
		PageSize:   10,
	}, func(r domain.Reservation) bool {
		seen = append(seen, r)
		return true
	})
	require.NoError(t, err)
	require.Len(t, seen, 1)
	require.Equal(t, "room-6", seen[0].ResourceID)
}
