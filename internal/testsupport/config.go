package testsupport

import (
	"path/filepath"
	"testing"

	"tabbycat/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.CatalogDir = filepath.Join(base, "catalog")
	cfg.Paths.InputsDir = filepath.Join(base, "inputs")
	cfg.Paths.JournalDir = filepath.Join(base, "journal")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithConvention overrides the tabby convention tag on the test config.
func WithConvention(tag string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Tabby.Convention = tag
	}
}

// WithIDFormat overrides the dataset ID minting format on the test config.
func WithIDFormat(format string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Tabby.IDFormat = format
	}
}
