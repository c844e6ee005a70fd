package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"tabbycat/internal/config"
	"tabbycat/internal/datalad"
	"tabbycat/internal/journal"
	"tabbycat/internal/logging"
	"tabbycat/internal/ols"
	"tabbycat/internal/pipeline"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
	}
}

func (c *commandContext) configPathFlag() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPathFlag())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// buildPipeline wires the pipeline with its collaborators from the loaded
// configuration. The returned cleanup closes the journal store.
func (c *commandContext) buildPipeline() (*pipeline.Pipeline, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	client, err := datalad.New(cfg.Datalad.Binary, cfg.Datalad.GitBinary, cfg.Datalad.CommandTimeout)
	if err != nil {
		return nil, nil, err
	}

	store, err := journal.Open(cfg.Paths.JournalDir)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = store.Close() }

	opts := []pipeline.Option{pipeline.WithJournal(store)}
	if cfg.OLS.Enabled {
		olsOpts := []ols.Option{}
		if cfg.OLS.CacheFile != "" {
			olsOpts = append(olsOpts, ols.WithCacheFile(cfg.OLS.CacheFile))
		}
		lookup, err := ols.New(cfg.OLS.BaseURL, cfg.OLS.IRIPrefix, cfg.OLS.RequestTimeout, olsOpts...)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		opts = append(opts, pipeline.WithTermResolvers(lookup.Species, lookup.Parcellation))
	}

	p, err := pipeline.New(cfg, logger, client, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return p, cleanup, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
