// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

package domain

import "time"

// Query filters reservations by optional user, resource, and time window,
// with a status wildcard (StatusUnknown means "any status"). Empty strings
// are "unspecified".
type Query struct {
	UserID     string
	ResourceID string
	Start      time.Time
	End        time.Time
	Status     Status
	Page       int32
	PageSize   int32
	IsDesc     bool
}

// Range is a possibly one-sided time window. A zero Start or End means
// "unbounded on that side".
type Range struct {
	Start time.Time
	End   time.Time
}

// Timespan returns the query's time range. Unlike Reservation.Timespan, a
// one-sided range is valid; it only fails when both endpoints are unset.
func (q Query) Timespan() (Range, error) {
	if q.Start.IsZero() && q.End.IsZero() {
		return Range{}, errInvalidTimespan
	}
	return Range{Start: q.Start, End: q.End}, nil
}

// Normalize fills in the defaults the RPC facade is responsible for applying
// before delegating to the manager (page=1, page_size=10 per spec §6.1).
func (q Query) Normalize() Query {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = 10
	}
	return q
}

// Filter selects reservations by optional user/resource and status wildcard,
// for cursor-based pagination over the id axis.
type Filter struct {
	UserID     string
	ResourceID string
	Status     Status
	Cursor     int64
	PageSize   int32
	IsDesc     bool
	IsPrev     bool
}

// Normalize applies the page_size=10 default.
func (f Filter) Normalize() Filter {
	if f.PageSize <= 0 {
		f.PageSize = 10
	}
	return f
}

// Pager is the pair of cursors returned with each filter page, for
// bidirectional UI navigation.
type Pager struct {
	Prev *int64
	Next *int64
}

// BuildPager derives the (prev, next) cursor pair from a result page per the
// rules in spec §4.3's filter operation: prev is nil when the request
// started "from the edge" or (in the reversed is_prev walk) the page ran
// short; next is nil when the forward page ran short.
func BuildPager(ids []int64, requestedCursor int64, pageSize int32, isPrev bool) Pager {
	var pager Pager
	if len(ids) == 0 {
		return pager
	}

	short := int32(len(ids)) < pageSize
	first, last := ids[0], ids[len(ids)-1]

	pager.Prev = &first
	pager.Next = &last

	if requestedCursor == 0 {
		pager.Prev = nil
	}
	if isPrev && short {
		pager.Prev = nil
	}
	if !isPrev && short {
		pager.Next = nil
	}

	return pager
}
