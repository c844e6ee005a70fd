package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tabbycat/internal/config"
)

func TestDefaultValues(t *testing.T) {
	cfg := config.Default()

	if cfg.Tabby.Convention != "tby-abcdjv0" {
		t.Fatalf("unexpected default convention: %q", cfg.Tabby.Convention)
	}
	if cfg.Tabby.IDFormat != "abcd-j.{name}" {
		t.Fatalf("unexpected default id format: %q", cfg.Tabby.IDFormat)
	}
	if cfg.Datalad.Binary != "datalad" || cfg.Datalad.GitBinary != "git" {
		t.Fatalf("unexpected default binaries: %q / %q", cfg.Datalad.Binary, cfg.Datalad.GitBinary)
	}
	if cfg.Datalad.CommandTimeout <= 0 {
		t.Fatalf("default command timeout must be positive, got %d", cfg.Datalad.CommandTimeout)
	}
	if cfg.OLS.Enabled {
		t.Fatal("OLS lookup should be disabled by default")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %q / %q", cfg.Logging.Format, cfg.Logging.Level)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for absent file")
	}
	if resolved != path {
		t.Fatalf("resolved path %q, want %q", resolved, path)
	}
	if cfg.Tabby.Convention != "tby-abcdjv0" {
		t.Fatalf("expected default convention, got %q", cfg.Tabby.Convention)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "config.toml")
	content := `
[paths]
catalog_dir = "` + filepath.Join(base, "cat") + `"
journal_dir = "` + filepath.Join(base, "journal") + `"

[datalad]
binary = "  datalad-next  "
command_timeout = 42

[tabby]
convention = "tby-test1"

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.Datalad.Binary != "datalad-next" {
		t.Fatalf("binary not trimmed: %q", cfg.Datalad.Binary)
	}
	if cfg.Datalad.CommandTimeout != 42 {
		t.Fatalf("command timeout %d, want 42", cfg.Datalad.CommandTimeout)
	}
	if cfg.Tabby.Convention != "tby-test1" {
		t.Fatalf("convention %q, want tby-test1", cfg.Tabby.Convention)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging values not lowercased: %q / %q", cfg.Logging.Format, cfg.Logging.Level)
	}
	if !filepath.IsAbs(cfg.Paths.CatalogDir) {
		t.Fatalf("catalog dir not absolute: %q", cfg.Paths.CatalogDir)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"bad log format", "[logging]\nformat = \"xml\"\n"},
		{"bad convention", "[tabby]\nconvention = \"has space\"\n"},
		{"id format without placeholder", "[tabby]\nid_format = \"static\"\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, _, _, err := config.Load(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestSheetNameHelpers(t *testing.T) {
	cfg := config.Default()
	cfg.Tabby.Convention = "tby-test1"

	if got := cfg.RootSheetName(); got != "dataset@tby-test1.tsv" {
		t.Fatalf("RootSheetName = %q", got)
	}
	if got := cfg.SubdatasetsSheetName(); got != "subdatasets@tby-test1.tsv" {
		t.Fatalf("SubdatasetsSheetName = %q", got)
	}

	self := cfg.SelfSheetPath("/data/super")
	want := filepath.Join("/data/super", cfg.Tabby.SelfDir, "dataset@tby-test1.tsv")
	if self != want {
		t.Fatalf("SelfSheetPath = %q, want %q", self, want)
	}
}

func TestSubdsConfigPathVariants(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.InputsDir = "/inputs"

	if got := cfg.SubdsConfigPath(false); got != filepath.Join("/inputs", "subds-config.json") {
		t.Fatalf("SubdsConfigPath(false) = %q", got)
	}
	if got := cfg.SubdsConfigPath(true); !strings.Contains(got, "hide-access-request") {
		t.Fatalf("SubdsConfigPath(true) = %q, want hidden variant", got)
	}
	if got := cfg.SuperdsConfigPath(); got != filepath.Join("/inputs", "superds-config.json") {
		t.Fatalf("SuperdsConfigPath = %q", got)
	}
}

func TestCreateSampleRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if err := config.CreateSample(path); err == nil {
		t.Fatal("second CreateSample should refuse to overwrite")
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("sample config should exist")
	}
	if cfg.Tabby.Convention != "tby-abcdjv0" {
		t.Fatalf("sample convention %q", cfg.Tabby.Convention)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.JournalDir = filepath.Join(base, "journal")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.CatalogDir = filepath.Join(base, "catalog")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.JournalDir, cfg.Paths.LogDir} {
		if _, err := os.Stat(dir); err != nil {
			t.Fatalf("directory %s not created: %v", dir, err)
		}
	}
	// The catalog directory belongs to the tracked repository.
	if _, err := os.Stat(cfg.Paths.CatalogDir); !os.IsNotExist(err) {
		t.Fatalf("catalog dir should not be created, stat err = %v", err)
	}
}
