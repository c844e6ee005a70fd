package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTabby(); err != nil {
		return err
	}
	if err := c.validateDatalad(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTabby() error {
	if strings.ContainsAny(c.Tabby.Convention, "@/\\ ") {
		return fmt.Errorf("tabby.convention %q must be a plain tag without separators", c.Tabby.Convention)
	}
	if !strings.Contains(c.Tabby.IDFormat, "{name}") {
		return fmt.Errorf("tabby.id_format %q must contain the {name} placeholder", c.Tabby.IDFormat)
	}
	return nil
}

func (c *Config) validateDatalad() error {
	if c.Datalad.Binary == "" {
		return errors.New("datalad.binary must be set")
	}
	if c.Datalad.GitBinary == "" {
		return errors.New("datalad.git_binary must be set")
	}
	if c.Datalad.CommandTimeout <= 0 {
		return errors.New("datalad.command_timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}
