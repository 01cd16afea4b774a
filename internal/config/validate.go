package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateIdentification(); err != nil {
		return err
	}
	if err := c.validateCalibration(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.Database == "" {
		return errors.New("paths.database must be set")
	}
	return nil
}

func (c *Config) validateIdentification() error {
	if c.Identification.MZTolerance <= 0 {
		return fmt.Errorf("identification.mz_tolerance must be positive, got %v", c.Identification.MZTolerance)
	}
	if c.Identification.RTTolerance <= 0 {
		return fmt.Errorf("identification.rt_tolerance must be positive, got %v", c.Identification.RTTolerance)
	}
	if c.Identification.CCSTolerancePct <= 0 {
		return fmt.Errorf("identification.ccs_tolerance_pct must be positive, got %v", c.Identification.CCSTolerancePct)
	}
	switch c.Identification.ESIMode {
	case "", "pos", "neg":
	default:
		return fmt.Errorf("identification.esi_mode must be \"pos\", \"neg\", or empty, got %q", c.Identification.ESIMode)
	}
	switch c.Identification.Norm {
	case "", "l1", "l2":
	default:
		return fmt.Errorf("identification.norm must be \"l1\" or \"l2\", got %q", c.Identification.Norm)
	}
	if c.Identification.Workers < 0 {
		return fmt.Errorf("identification.workers must not be negative, got %d", c.Identification.Workers)
	}
	return nil
}

func (c *Config) validateCalibration() error {
	switch c.Calibration.Strategy {
	case "", "piecewise", "linear":
		return nil
	default:
		return fmt.Errorf("calibration.strategy must be \"piecewise\" or \"linear\", got %q", c.Calibration.Strategy)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
}
