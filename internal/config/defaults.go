package config

const (
	defaultDatabasePath = "~/.local/share/lipidid/lipids.db"
	defaultLogDir       = "~/.local/share/lipidid/logs"

	defaultMZTolerance     = 0.03
	defaultRTTolerance     = 0.3
	defaultCCSTolerancePct = 3.0
	defaultNorm            = "l2"

	defaultCalibrationStrategy = "piecewise"

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Database: defaultDatabasePath,
			LogDir:   defaultLogDir,
		},
		Identification: Identification{
			MZTolerance:     defaultMZTolerance,
			RTTolerance:     defaultRTTolerance,
			CCSTolerancePct: defaultCCSTolerancePct,
			Norm:            defaultNorm,
		},
		Calibration: Calibration{
			Strategy: defaultCalibrationStrategy,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
