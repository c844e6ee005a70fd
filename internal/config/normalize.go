package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDatalad()
	c.normalizeTabby()
	if err := c.normalizeOLS(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CatalogDir) == "" {
		c.Paths.CatalogDir = defaultCatalogDir
	}
	if c.Paths.CatalogDir, err = expandPath(c.Paths.CatalogDir); err != nil {
		return fmt.Errorf("paths.catalog_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.InputsDir) == "" {
		c.Paths.InputsDir = defaultInputsDir
	}
	if c.Paths.InputsDir, err = expandPath(c.Paths.InputsDir); err != nil {
		return fmt.Errorf("paths.inputs_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.JournalDir) == "" {
		c.Paths.JournalDir = defaultJournalDir
	}
	if c.Paths.JournalDir, err = expandPath(c.Paths.JournalDir); err != nil {
		return fmt.Errorf("paths.journal_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDatalad() {
	c.Datalad.Binary = strings.TrimSpace(c.Datalad.Binary)
	if c.Datalad.Binary == "" {
		c.Datalad.Binary = defaultDataladBinary
	}
	c.Datalad.GitBinary = strings.TrimSpace(c.Datalad.GitBinary)
	if c.Datalad.GitBinary == "" {
		c.Datalad.GitBinary = defaultGitBinary
	}
	if c.Datalad.CommandTimeout <= 0 {
		c.Datalad.CommandTimeout = defaultCommandTimeout
	}
	c.Datalad.SuperdsConfig = strings.TrimSpace(c.Datalad.SuperdsConfig)
	if c.Datalad.SuperdsConfig == "" {
		c.Datalad.SuperdsConfig = defaultSuperdsConfig
	}
	c.Datalad.SubdsConfig = strings.TrimSpace(c.Datalad.SubdsConfig)
	if c.Datalad.SubdsConfig == "" {
		c.Datalad.SubdsConfig = defaultSubdsConfig
	}
	c.Datalad.SubdsConfigHidden = strings.TrimSpace(c.Datalad.SubdsConfigHidden)
	if c.Datalad.SubdsConfigHidden == "" {
		c.Datalad.SubdsConfigHidden = defaultSubdsConfigHidden
	}
}

func (c *Config) normalizeTabby() {
	c.Tabby.Convention = strings.TrimSpace(c.Tabby.Convention)
	if c.Tabby.Convention == "" {
		c.Tabby.Convention = defaultConvention
	}
	c.Tabby.SelfDir = filepath.FromSlash(strings.Trim(strings.TrimSpace(c.Tabby.SelfDir), "/"))
	if c.Tabby.SelfDir == "" {
		c.Tabby.SelfDir = filepath.FromSlash(defaultSelfDir)
	}
	c.Tabby.IDFormat = strings.TrimSpace(c.Tabby.IDFormat)
	if c.Tabby.IDFormat == "" {
		c.Tabby.IDFormat = defaultIDFormat
	}
}

func (c *Config) normalizeOLS() error {
	c.OLS.BaseURL = strings.TrimSpace(c.OLS.BaseURL)
	if c.OLS.BaseURL == "" {
		c.OLS.BaseURL = defaultOLSBaseURL
	}
	c.OLS.IRIPrefix = strings.TrimSpace(c.OLS.IRIPrefix)
	if c.OLS.IRIPrefix == "" {
		c.OLS.IRIPrefix = defaultOLSIRIPrefix
	}
	if c.OLS.RequestTimeout <= 0 {
		c.OLS.RequestTimeout = defaultOLSTimeout
	}
	c.OLS.CacheFile = strings.TrimSpace(c.OLS.CacheFile)
	if c.OLS.CacheFile != "" {
		expanded, err := expandPath(c.OLS.CacheFile)
		if err != nil {
			return fmt.Errorf("ols.cache_file: %w", err)
		}
		c.OLS.CacheFile = expanded
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
