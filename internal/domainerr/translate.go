// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

package domainerr

import (
	"errors"

	"github.com/Chikage0o0/reservation/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// pgExclusionViolation is the SQLSTATE Postgres reports when an exclusion
// constraint (here, the one over (resource_id, timespan)) rejects an insert.
const pgExclusionViolation = "23P01"

// FromPgError classifies a Postgres-layer failure into the domain taxonomy
// (spec §4.2): exclusion-constraint violations become ConflictReservation
// (with the diagnostic detail run through the conflict parser), a no-rows
// result becomes NotFound for the given id, and everything else becomes an
// opaque DatabaseError.
func FromPgError(err error, notFoundID int64) *Error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation {
		return ConflictReservation(domain.ParseConflict(pgErr.Detail))
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return NotFound(notFoundID)
	}

	return DatabaseError(err)
}

// ToStatus translates a domain error into an RPC status (spec §4.2's RPC
// translation table), which is the only place the RPC status vocabulary
// appears outside the facade layer itself.
func ToStatus(err error) *status.Status {
	if err == nil {
		return status.New(codes.OK, "")
	}

	var derr *Error
	if !errors.As(err, &derr) {
		return status.New(codes.Internal, "an unexpected error occurred")
	}

	switch derr.Kind {
	case KindInvalidUserID, KindInvalidTimespan, KindInvalidConfig, KindInvalidID, KindInvalidRequest:
		return status.New(codes.InvalidArgument, derr.Message)
	case KindConflictReservation:
		return status.New(codes.AlreadyExists, derr.Message)
	case KindNotFound:
		return status.New(codes.NotFound, derr.Message)
	default:
		return status.New(codes.Internal, "an internal error occurred")
	}
}
