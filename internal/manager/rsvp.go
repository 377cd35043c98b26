// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

// Package manager implements C3, the reservation manager: all mutation and
// read logic against the persistence contract, behind the Rsvp interface so
// a fake can stand in for tests (spec §9 design note).
package manager

import (
	"context"

	"github.com/Chikage0o0/reservation/internal/domain"
)

// Rsvp is the capability set every reservation backend (real or fake) must
// implement. It is intentionally a plain interface, not object-safe
// dynamic-dispatch machinery — each method has its own typed signature.
type Rsvp interface {
	Reserve(ctx context.Context, r domain.Reservation) (domain.Reservation, error)
	Delete(ctx context.Context, id int64) error
	ChangeStatus(ctx context.Context, id int64) (domain.Reservation, error)
	UpdateNotes(ctx context.Context, id int64, note string) (domain.Reservation, error)
	Get(ctx context.Context, id int64) (domain.Reservation, error)
	Query(ctx context.Context, q domain.Query) (<-chan QueryItem, error)
	Filter(ctx context.Context, f domain.Filter) ([]domain.Reservation, domain.Pager, error)
	Listen(ctx context.Context) (<-chan QueryItem, error)
}

// QueryItem is one element of a query stream: either a reservation or an
// error observed while producing it. A per-item error does not terminate
// the stream (spec §7).
type QueryItem struct {
	Reservation domain.Reservation
	Err         error
}

// queryChannelCapacity is the bounded channel size spec §4.3 specifies for
// the query producer.
const queryChannelCapacity = 32
