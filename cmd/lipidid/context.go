package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"lipidid/internal/config"
	"lipidid/internal/logging"
	"lipidid/internal/predict"
	"lipidid/internal/refdb"
)

// commandContext lazily resolves the pieces most subcommands share: the
// configuration, a logger built from it, the reference store, and the
// property predictor. Each is loaded at most once per invocation.
type commandContext struct {
	configFlag *string
	dbFlag     *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, dbFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		dbFlag:     dbFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.dbFlag != nil && strings.TrimSpace(*c.dbFlag) != "" {
			expanded, err := config.ExpandPath(strings.TrimSpace(*c.dbFlag))
			if err != nil {
				c.configErr = err
				return
			}
			cfg.Paths.Database = expanded
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// openStore opens the reference store from the resolved config. The caller
// owns the returned store and must close it.
func (c *commandContext) openStore() (*refdb.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return refdb.Open(cfg.Paths.Database)
}

// predictor loads the property models: the configured params file when set,
// otherwise the bundled defaults.
func (c *commandContext) predictor() (*predict.Predictor, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Predictor.ParamsPath != "" {
		return predict.Load(cfg.Predictor.ParamsPath)
	}
	return predict.Default(), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
