// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

package facade

import "errors"

var errMissingTimestamp = errors.New("timestamp field must not be empty")
