// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

// Package streaming implements C4, the streaming adapter: it wraps an
// internal bounded channel (manager.QueryItem) as a push stream whose item
// type is the RPC-level wire representation, and is the only place besides
// the facade where a domainerr is lifted to an RPC status. Grounded on the
// teacher's pkg/streaming SSEEvent/writeSSEEvent/select{ctx.Done/events}
// shape, retargeted from SLURM job/node/partition events to reservations.
package streaming

import (
	"time"

	"github.com/Chikage0o0/reservation/internal/domain"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// ReservationWire is the over-the-wire shape of domain.Reservation (spec
// §6.1). Status is rendered as its integer enum value, not a string, per the
// spec's "integers unless noted" rule.
type ReservationWire struct {
	ID         int64  `json:"id"`
	UserID     string `json:"user_id"`
	ResourceID string `json:"resource_id"`
	Status     int32  `json:"status"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Note       string `json:"note"`
}

// ToWire renders a domain.Reservation in its wire shape. Timestamps are
// RFC3339 strings; zero values render as the empty string rather than
// "0001-01-01T00:00:00Z" so a one-sided query window is distinguishable from
// an actually-persisted epoch timestamp.
func ToWire(r domain.Reservation) ReservationWire {
	return ReservationWire{
		ID:         r.ID,
		UserID:     r.UserID,
		ResourceID: r.ResourceID,
		Status:     int32(r.Status),
		Start:      formatTime(r.Start),
		End:        formatTime(r.End),
		Note:       r.Note,
	}
}

// StreamEvent is one element of a query/listen stream: either a reservation
// or an error message. An error item does not end the stream; the stream
// ends when the producer (internal/manager) closes its channel.
type StreamEvent struct {
	Reservation *ReservationWire `json:"reservation,omitempty"`
	Error       *ErrorWire       `json:"error,omitempty"`
}

// ErrorWire is the RPC status rendered for wire transport.
type ErrorWire struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
