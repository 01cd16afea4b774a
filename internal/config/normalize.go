package config

import "strings"

// normalize expands and cleans path fields and lowercases enum-like values.
func (c *Config) normalize() error {
	var err error
	if c.Paths.Database, err = expandPath(c.Paths.Database); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}
	if c.Predictor.ParamsPath != "" {
		if c.Predictor.ParamsPath, err = expandPath(c.Predictor.ParamsPath); err != nil {
			return err
		}
	}

	c.Identification.ESIMode = strings.ToLower(strings.TrimSpace(c.Identification.ESIMode))
	c.Identification.Norm = strings.ToLower(strings.TrimSpace(c.Identification.Norm))
	c.Calibration.Strategy = strings.ToLower(strings.TrimSpace(c.Calibration.Strategy))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}
