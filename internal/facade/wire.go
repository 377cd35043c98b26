// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

// Package facade implements C5, the RPC facade: HTTP+JSON handlers that
// validate request envelopes, delegate to C3 (internal/manager), and
// translate domain errors to RPC status via C2 (internal/domainerr). Grounded
// on the teacher's tests/mocks/server.go mux.Router/writeJSONResponse shape.
package facade

import (
	"time"

	"github.com/Chikage0o0/reservation/internal/domain"
	"github.com/Chikage0o0/reservation/internal/streaming"
)

// reservationPayload is the inner message embedded in write-path request
// envelopes (spec §6.1's Reservation message). Envelopes hold it by pointer
// so its absence from the JSON body is distinguishable from a present-but-zero-valued payload
// (spec §4.5: a missing inner payload is invalid-argument).
type reservationPayload struct {
	UserID     string `json:"user_id"`
	ResourceID string `json:"resource_id"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Note       string `json:"note"`
}

func (p reservationPayload) toDomain() (domain.Reservation, error) {
	start, err := parseTime(p.Start)
	if err != nil {
		return domain.Reservation{}, err
	}
	end, err := parseTime(p.End)
	if err != nil {
		return domain.Reservation{}, err
	}
	return domain.NewPending(p.UserID, p.ResourceID, start, end, p.Note), nil
}

type reserveRequest struct {
	Reservation *reservationPayload `json:"reservation"`
}

type reserveResponse struct {
	Reservation streaming.ReservationWire `json:"reservation"`
}

type updateRequest struct {
	Note string `json:"note"`
}

type singleReservationResponse struct {
	Reservation streaming.ReservationWire `json:"reservation"`
}

// queryPayload is the inner message for the streaming query RPC (spec
// §6.1's ReservationQuery).
type queryPayload struct {
	UserID     string `json:"user_id"`
	ResourceID string `json:"resource_id"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Status     int32  `json:"status"`
	Page       int32  `json:"page"`
	PageSize   int32  `json:"page_size"`
	IsDesc     bool   `json:"is_desc"`
}

func (p queryPayload) toDomain() (domain.Query, error) {
	start, err := parseOptionalTime(p.Start)
	if err != nil {
		return domain.Query{}, err
	}
	end, err := parseOptionalTime(p.End)
	if err != nil {
		return domain.Query{}, err
	}
	q := domain.Query{
		UserID:     p.UserID,
		ResourceID: p.ResourceID,
		Start:      start,
		End:        end,
		Status:     domain.Status(p.Status),
		Page:       p.Page,
		PageSize:   p.PageSize,
		IsDesc:     p.IsDesc,
	}
	q = q.Normalize()
	return q, nil
}

type queryRequest struct {
	Query *queryPayload `json:"query"`
}

// filterPayload is the inner message for the filter RPC (spec §6.1's
// ReservationFilter).
type filterPayload struct {
	UserID     string `json:"user_id"`
	ResourceID string `json:"resource_id"`
	Status     int32  `json:"status"`
	Cursor     int64  `json:"cursor"`
	PageSize   int32  `json:"page_size"`
	IsDesc     bool   `json:"is_desc"`
	IsPrev     bool   `json:"is_prev"`
}

func (p filterPayload) toDomain() domain.Filter {
	f := domain.Filter{
		UserID:     p.UserID,
		ResourceID: p.ResourceID,
		Status:     domain.Status(p.Status),
		Cursor:     p.Cursor,
		PageSize:   p.PageSize,
		IsDesc:     p.IsDesc,
		IsPrev:     p.IsPrev,
	}
	return f.Normalize()
}

type filterRequest struct {
	Filter *filterPayload `json:"filter"`
}

type filterPagerWire struct {
	Prev *int64 `json:"prev,omitempty"`
	Next *int64 `json:"next,omitempty"`
}

type filterResponse struct {
	Reservation []streaming.ReservationWire `json:"reservation"`
	Pager       filterPagerWire             `json:"pager"`
}

func toFilterResponse(rows []domain.Reservation, pager domain.Pager) filterResponse {
	wire := make([]streaming.ReservationWire, len(rows))
	for i, r := range rows {
		wire[i] = streaming.ToWire(r)
	}
	return filterResponse{
		Reservation: wire,
		Pager:       filterPagerWire{Prev: pager.Prev, Next: pager.Next},
	}
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errMissingTimestamp
	}
	return time.Parse(time.RFC3339, s)
}

func parseOptionalTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}
