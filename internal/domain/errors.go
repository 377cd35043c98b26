// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

package domain

import "errors"

// These sentinels are the validation failures this package can raise on its
// own, before any persistence boundary. internal/domainerr wraps them (and
// the persistence-layer failures) into the full C2 error taxonomy.
var (
	errInvalidUserID   = errors.New("user_id must not be empty")
	errInvalidTimespan = errors.New("timespan requires start < end with both endpoints set")
)

// IsInvalidUserID reports whether err is the domain's empty-user-id failure.
func IsInvalidUserID(err error) bool { return errors.Is(err, errInvalidUserID) }

// IsInvalidTimespan reports whether err is the domain's malformed-timespan
// failure.
func IsInvalidTimespan(err error) bool { return errors.Is(err, errInvalidTimespan) }
