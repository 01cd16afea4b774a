// Package config loads, validates, and normalizes the TOML configuration
// used by the lipidid command and its subsystems.
package config
