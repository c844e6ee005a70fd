package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	CatalogDir string `toml:"catalog_dir"`
	InputsDir  string `toml:"inputs_dir"`
	JournalDir string `toml:"journal_dir"`
	LogDir     string `toml:"log_dir"`
}

// Datalad contains configuration for the external datalad and git binaries.
type Datalad struct {
	Binary            string `toml:"binary"`
	GitBinary         string `toml:"git_binary"`
	CommandTimeout    int    `toml:"command_timeout"`
	SuperdsConfig     string `toml:"superds_config"`
	SubdsConfig       string `toml:"subds_config"`
	SubdsConfigHidden string `toml:"subds_config_hidden"`
}

// Tabby contains configuration for the tabby metadata convention.
type Tabby struct {
	Convention string `toml:"convention"`
	SelfDir    string `toml:"self_dir"`
	IDFormat   string `toml:"id_format"`
}

// OLS contains configuration for ontology term lookups against the EBI OLS API.
type OLS struct {
	Enabled        bool   `toml:"enabled"`
	BaseURL        string `toml:"base_url"`
	IRIPrefix      string `toml:"iri_prefix"`
	RequestTimeout int    `toml:"request_timeout"`
	CacheFile      string `toml:"cache_file"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for tabbycat.
//
// Configuration sections by subsystem:
//   - Paths: catalog, inputs, journal, and log directories
//   - Datalad: external binaries, timeouts, and catalog config files
//   - Tabby: metadata convention tag, self-describing sheet location, ID minting
//   - OLS: ontology term lookup and its response cache
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Datalad Datalad `toml:"datalad"`
	Tabby   Tabby   `toml:"tabby"`
	OLS     OLS     `toml:"ols"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/tabbycat/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("tabbycat.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the tool writes to. The catalog
// and inputs directories belong to the tracked repository and are expected to
// exist already, so they are not created here.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.JournalDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SuperdsConfigPath returns the catalog config file used for superdataset entries.
func (c *Config) SuperdsConfigPath() string {
	return filepath.Join(c.Paths.InputsDir, c.Datalad.SuperdsConfig)
}

// SubdsConfigPath returns the catalog config file used for subdataset entries.
// When hideAccessRequest is set, the variant without the access request button
// is selected.
func (c *Config) SubdsConfigPath(hideAccessRequest bool) string {
	name := c.Datalad.SubdsConfig
	if hideAccessRequest {
		name = c.Datalad.SubdsConfigHidden
	}
	return filepath.Join(c.Paths.InputsDir, name)
}

// RootSheetName returns the file name of the root dataset sheet for the
// configured convention.
func (c *Config) RootSheetName() string {
	return "dataset@" + c.Tabby.Convention + ".tsv"
}

// SubdatasetsSheetName returns the file name of the subdataset linkage sheet
// for the configured convention.
func (c *Config) SubdatasetsSheetName() string {
	return "subdatasets@" + c.Tabby.Convention + ".tsv"
}

// SelfSheetPath returns the path of the self-describing root sheet for the
// dataset rooted at datasetPath.
func (c *Config) SelfSheetPath(datasetPath string) string {
	return filepath.Join(datasetPath, c.Tabby.SelfDir, c.RootSheetName())
}

// SubdatasetsSheetPath returns the path of the self-describing subdataset
// linkage sheet for the dataset rooted at datasetPath.
func (c *Config) SubdatasetsSheetPath(datasetPath string) string {
	return filepath.Join(datasetPath, c.Tabby.SelfDir, c.SubdatasetsSheetName())
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
