// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Chikage0o0/reservation/internal/domain"
)

// buildRange renders a half-open [start, end) window as a tstzrange,
// leaving either side unbounded when its time.Time is the zero value (used
// by Query's possibly one-sided window; Insert always supplies both sides).
func buildRange(start, end time.Time) pgtype.Range[pgtype.Timestamptz] {
	rng := pgtype.Range[pgtype.Timestamptz]{Valid: true}

	if start.IsZero() {
		rng.LowerType = pgtype.Unbounded
	} else {
		rng.Lower = pgtype.Timestamptz{Time: start, Valid: true}
		rng.LowerType = pgtype.Inclusive
	}

	if end.IsZero() {
		rng.UpperType = pgtype.Unbounded
	} else {
		rng.Upper = pgtype.Timestamptz{Time: end, Valid: true}
		rng.UpperType = pgtype.Exclusive
	}

	return rng
}

// Insert persists a new pending-or-specified reservation and returns it with
// its assigned id. A conflict on the exclusion index or any other Postgres
// failure is returned unclassified; internal/manager runs it through
// domainerr.FromPgError.
func (s *Store) Insert(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO rsvp.reservations (user_id, resource_id, status, timespan, note)
		VALUES ($1, $2, $3::rsvp.reservation_status, $4, $5)
		RETURNING id`,
		r.UserID, r.ResourceID, r.Status.String(),
		buildRange(r.Start, r.End),
		r.Note,
	)

	var id int64
	if err := row.Scan(&id); err != nil {
		return domain.Reservation{}, err
	}
	r.ID = id
	return r, nil
}

// Delete removes a reservation by id. The statement uses RETURNING id so
// that "was already absent" surfaces as pgx.ErrNoRows from Scan, distinct
// from a successful delete (nil).
func (s *Store) Delete(ctx context.Context, id int64) error {
	row := s.pool.QueryRow(ctx, `DELETE FROM rsvp.reservations WHERE id = $1 RETURNING id`, id)
	var returned int64
	return row.Scan(&returned)
}

// ConfirmPending performs the conditional status=Confirmed transition:
// only a row currently Pending is affected.
func (s *Store) ConfirmPending(ctx context.Context, id int64) (domain.Reservation, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE rsvp.reservations
		SET status = 'confirmed'::rsvp.reservation_status
		WHERE id = $1 AND status = 'pending'::rsvp.reservation_status
		RETURNING id, user_id, resource_id, status, timespan, note`,
		id,
	)
	return scanReservation(row)
}

// UpdateNotes unconditionally replaces a reservation's note.
func (s *Store) UpdateNotes(ctx context.Context, id int64, note string) (domain.Reservation, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE rsvp.reservations SET note = $2
		WHERE id = $1
		RETURNING id, user_id, resource_id, status, timespan, note`,
		id, note,
	)
	return scanReservation(row)
}

// Get fetches a reservation by id.
func (s *Store) Get(ctx context.Context, id int64) (domain.Reservation, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, user_id, resource_id, status, timespan, note
		FROM rsvp.reservations WHERE id = $1`,
		id,
	)
	return scanReservation(row)
}

// Query calls the rsvp.query(...) persistence function and streams matching
// rows to fn until fn returns false, ctx is cancelled, or rows are
// exhausted.
func (s *Store) Query(ctx context.Context, q domain.Query, fn func(domain.Reservation) bool) error {
	rng, err := q.Timespan()
	if err != nil {
		return err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, resource_id, status, timespan, note
		FROM rsvp.query($1, $2, $3, $4::rsvp.reservation_status, $5, $6, $7)`,
		nullable(q.UserID), nullable(q.ResourceID),
		buildRange(rng.Start, rng.End),
		q.Status.String(), q.Page, q.IsDesc, q.PageSize,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		r, err := scanReservationRows(rows)
		if err != nil {
			return err
		}
		if !fn(r) {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return rows.Err()
}

// Filter calls the rsvp.filter(...) persistence function and returns at most
// page_size rows strictly past the cursor.
func (s *Store) Filter(ctx context.Context, f domain.Filter) ([]domain.Reservation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, resource_id, status, timespan, note
		FROM rsvp.filter($1, $2, $3::rsvp.reservation_status, $4, $5, $6)`,
		nullable(f.UserID), nullable(f.ResourceID), f.Status.String(),
		f.Cursor, f.IsDesc, f.PageSize,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Reservation
	for rows.Next() {
		r, err := scanReservationRows(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func scanReservation(row pgx.Row) (domain.Reservation, error) {
	var (
		id                   int64
		userID, resourceID   string
		status               string
		rng                  pgtype.Range[pgtype.Timestamptz]
		note                 string
	)
	if err := row.Scan(&id, &userID, &resourceID, &status, &rng, &note); err != nil {
		return domain.Reservation{}, err
	}
	return rangeToReservation(id, userID, resourceID, status, rng, note), nil
}

func scanReservationRows(rows pgx.Rows) (domain.Reservation, error) {
	var (
		id                   int64
		userID, resourceID   string
		status               string
		rng                  pgtype.Range[pgtype.Timestamptz]
		note                 string
	)
	if err := rows.Scan(&id, &userID, &resourceID, &status, &rng, &note); err != nil {
		return domain.Reservation{}, err
	}
	return rangeToReservation(id, userID, resourceID, status, rng, note), nil
}

func rangeToReservation(id int64, userID, resourceID, status string, rng pgtype.Range[pgtype.Timestamptz], note string) domain.Reservation {
	return domain.Reservation{
		ID:         id,
		UserID:     userID,
		ResourceID: resourceID,
		Status:     domain.ParseStatus(status),
		Start:      rng.Lower.Time,
		End:        rng.Upper.Time,
		Note:       note,
	}
}
