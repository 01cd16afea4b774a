// Package testsupport provides helpers shared across package tests: temp
// configs rooted in per-test directories and pre-seeded reference stores.
package testsupport

import (
	"path/filepath"
	"testing"

	"lipidid/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp paths per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.Database = filepath.Join(base, "lipids.db")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithESIMode sets the identification ESI mode on the test config.
func WithESIMode(mode string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Identification.ESIMode = mode
	}
}

// WithWorkers sets the identification worker count on the test config.
func WithWorkers(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Identification.Workers = n
	}
}
