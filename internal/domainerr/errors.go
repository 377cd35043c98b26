// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

// Package domainerr is the structured error taxonomy (C2): it classifies
// persistence-layer failures into domain kinds and maps domain kinds to RPC
// status codes. No other package constructs an RPC status directly.
package domainerr

import (
	"fmt"
	"time"

	"github.com/Chikage0o0/reservation/internal/domain"
)

// Kind is the closed set of error classifications the service can surface.
type Kind string

const (
	KindInvalidUserID        Kind = "INVALID_USER_ID"
	KindInvalidTimespan       Kind = "INVALID_TIMESPAN"
	KindInvalidID             Kind = "INVALID_ID"
	KindInvalidRequest        Kind = "INVALID_REQUEST"
	KindNotFound              Kind = "NOT_FOUND"
	KindConflictReservation   Kind = "CONFLICT_RESERVATION"
	KindDatabaseError         Kind = "DATABASE_ERROR"
	KindIoError               Kind = "IO_ERROR"
	KindInvalidConfig         Kind = "INVALID_CONFIG"
	KindUnknown               Kind = "UNKNOWN"
)

// Error is the structured error returned by every fallible domain
// operation, in the teacher's SlurmError shape: a classification code, a
// human message, an optional opaque detail, and the original cause kept
// available via Unwrap without being part of the message shown to clients.
type Error struct {
	Kind      Kind
	Message   string
	Conflict  *domain.ConflictInfo // set only when Kind == KindConflictReservation
	Timestamp time.Time
	Cause     error
}

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Timestamp: time.Now(), Cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target shares this error's Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// InvalidUserID builds a KindInvalidUserID error.
func InvalidUserID() *Error {
	return newError(KindInvalidUserID, "user_id must not be empty", nil)
}

// InvalidTimespan builds a KindInvalidTimespan error.
func InvalidTimespan() *Error {
	return newError(KindInvalidTimespan, "timespan requires start < end with both endpoints set", nil)
}

// InvalidID builds a KindInvalidID error for a malformed or non-integer id.
func InvalidID(detail string) *Error {
	return newError(KindInvalidID, "invalid reservation id: "+detail, nil)
}

// InvalidRequest builds a KindInvalidRequest error for a malformed RPC
// request envelope — e.g. a missing inner reservation/query/filter payload,
// or a timestamp field that fails to parse (spec §4.5).
func InvalidRequest(message string) *Error {
	return newError(KindInvalidRequest, message, nil)
}

// NotFound builds a KindNotFound error for the given reservation id.
func NotFound(id int64) *Error {
	return newError(KindNotFound, fmt.Sprintf("reservation %d not found", id), nil)
}

// ConflictReservation builds a KindConflictReservation error from a parsed
// (or raw) conflict diagnostic.
func ConflictReservation(info domain.ConflictInfo) *Error {
	msg := "reservation conflicts with an existing reservation"
	if info.Parsed {
		msg = fmt.Sprintf(
			"reservation for resource %q over [%s, %s) conflicts with existing reservation over [%s, %s)",
			info.New.ResourceID, info.New.Start.Format(time.RFC3339), info.New.End.Format(time.RFC3339),
			info.Old.Start.Format(time.RFC3339), info.Old.End.Format(time.RFC3339),
		)
	}
	e := newError(KindConflictReservation, msg, nil)
	e.Conflict = &info
	return e
}

// DatabaseError wraps an opaque persistence-layer failure that doesn't
// classify into any more specific kind. The cause is never shown to
// clients verbatim; only Message is.
func DatabaseError(cause error) *Error {
	return newError(KindDatabaseError, "a database error occurred", cause)
}

// IoError wraps an opaque I/O failure (e.g. config file access).
func IoError(cause error) *Error {
	return newError(KindIoError, "an I/O error occurred", cause)
}

// InvalidConfig builds a KindInvalidConfig error with a human message.
func InvalidConfig(message string) *Error {
	return newError(KindInvalidConfig, message, nil)
}

// Unknown wraps any failure that doesn't fit another kind.
func Unknown(cause error) *Error {
	return newError(KindUnknown, "an unexpected error occurred", cause)
}

// FromDomainValidation lifts the sentinel errors domain.Reservation.Validate
// (and domain.Query.Timespan) can return into the taxonomy. Any other error
// is wrapped as Unknown.
func FromDomainValidation(err error) *Error {
	switch {
	case err == nil:
		return nil
	case domain.IsInvalidUserID(err):
		return InvalidUserID()
	case domain.IsInvalidTimespan(err):
		return InvalidTimespan()
	default:
		return Unknown(err)
	}
}
