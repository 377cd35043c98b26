// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the service's TOML configuration document (spec
// §6.3): database connection parameters and the facade's listen address.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DB holds Postgres connection parameters.
type DB struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
}

// Server holds the facade's listen address.
type Server struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Config is the decoded [db]/[server] TOML document.
type Config struct {
	DB     DB     `toml:"db"`
	Server Server `toml:"server"`
}

const envOverride = "RERESERVE_CONFIG"

// discoveryPaths returns the ordered list of locations to probe, per spec
// §6.3: $RERESERVE_CONFIG, ./config.toml, ~/.config/rereserve/config.toml,
// /etc/rereserve/config.toml.
func discoveryPaths() []string {
	var paths []string
	if p := os.Getenv(envOverride); p != "" {
		paths = append(paths, p)
	}
	paths = append(paths, "config.toml")
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "rereserve", "config.toml"))
	}
	paths = append(paths, filepath.Join(string(filepath.Separator), "etc", "rereserve", "config.toml"))
	return paths
}

// Load walks the discovery order and decodes the first file found. Missing
// at every location is a fatal startup error (ErrNotFound).
func Load() (*Config, error) {
	for _, path := range discoveryPaths() {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}

		var cfg Config
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("decoding config %s: %w", path, err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("validating config %s: %w", path, err)
		}
		return &cfg, nil
	}
	return nil, ErrNotFound
}

// Validate checks that the fields required to bring the service up are
// present.
func (c *Config) Validate() error {
	if c.DB.Host == "" {
		return ErrMissingDBHost
	}
	if c.DB.Port <= 0 {
		return ErrInvalidDBPort
	}
	if c.DB.Database == "" {
		return ErrMissingDBName
	}
	if c.Server.Host == "" {
		return ErrMissingServerHost
	}
	if c.Server.Port <= 0 {
		return ErrInvalidServerPort
	}
	return nil
}

// DSN renders the libpq-style connection string pgx expects.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=prefer",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Database,
	)
}

// ListenAddr renders the facade's bind address.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
