package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, path, exists, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if exists {
		t.Fatalf("file %s should not exist", path)
	}
	if cfg.Identification.MZTolerance != defaultMZTolerance {
		t.Fatalf("mz tolerance = %v, want default %v", cfg.Identification.MZTolerance, defaultMZTolerance)
	}
	if cfg.Calibration.Strategy != "piecewise" {
		t.Fatalf("strategy = %q, want piecewise", cfg.Calibration.Strategy)
	}
	if !filepath.IsAbs(cfg.Paths.Database) {
		t.Fatalf("database path %q not expanded", cfg.Paths.Database)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
database = "` + filepath.Join(dir, "lipids.db") + `"

[identification]
mz_tolerance = 0.01
rt_tolerance = 0.1
ccs_tolerance_pct = 1.5
esi_mode = " POS "
norm = "L1"

[calibration]
strategy = "Linear"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists {
		t.Fatalf("config file should have been found")
	}
	if cfg.Identification.ESIMode != "pos" {
		t.Fatalf("esi mode = %q, want pos", cfg.Identification.ESIMode)
	}
	if cfg.Identification.Norm != "l1" {
		t.Fatalf("norm = %q, want l1", cfg.Identification.Norm)
	}
	if cfg.Calibration.Strategy != "linear" {
		t.Fatalf("strategy = %q, want linear", cfg.Calibration.Strategy)
	}
	if cfg.Identification.MZTolerance != 0.01 {
		t.Fatalf("mz tolerance = %v, want 0.01", cfg.Identification.MZTolerance)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantSub string
	}{
		{
			name:    "negative tolerance",
			content: "[identification]\nmz_tolerance = -0.01\n",
			wantSub: "mz_tolerance",
		},
		{
			name:    "bad esi mode",
			content: "[identification]\nesi_mode = \"both\"\n",
			wantSub: "esi_mode",
		},
		{
			name:    "bad norm",
			content: "[identification]\nnorm = \"l3\"\n",
			wantSub: "norm",
		},
		{
			name:    "bad strategy",
			content: "[calibration]\nstrategy = \"spline\"\n",
			wantSub: "calibration.strategy",
		},
		{
			name:    "bad log level",
			content: "[logging]\nlevel = \"trace\"\n",
			wantSub: "logging.level",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("err = %v, want mention of %q", err, tc.wantSub)
			}
		})
	}
}

func TestEnvOverridesDatabasePath(t *testing.T) {
	dir := t.TempDir()
	override := filepath.Join(dir, "override.db")
	t.Setenv(EnvDatabase, override)

	cfg, _, _, err := Load(filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Paths.Database != override {
		t.Fatalf("database = %q, want env override %q", cfg.Paths.Database, override)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("create sample: %v", err)
	}
	// The sample must itself load cleanly.
	if _, _, _, err := Load(path); err != nil {
		t.Fatalf("load sample: %v", err)
	}
}
