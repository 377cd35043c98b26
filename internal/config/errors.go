// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

package config

import "errors"

var (
	// ErrNotFound is returned when no config file exists at any location in
	// the discovery order.
	ErrNotFound = errors.New("no config.toml found at $RERESERVE_CONFIG, ./config.toml, ~/.config/rereserve/config.toml, or /etc/rereserve/config.toml")

	ErrMissingDBHost     = errors.New("config: [db].host is required")
	ErrInvalidDBPort     = errors.New("config: [db].port must be greater than 0")
	ErrMissingDBName     = errors.New("config: [db].database is required")
	ErrMissingServerHost = errors.New("config: [server].host is required")
	ErrInvalidServerPort = errors.New("config: [server].port must be greater than 0")
)
