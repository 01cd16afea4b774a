package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lipidid/internal/refdb"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func testConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, `
[paths]
database = "`+filepath.Join(dir, "lipids.db")+`"
log_dir = ""
`)
	return path
}

func seedStore(t *testing.T, dbPath string) {
	t.Helper()
	store, err := refdb.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	rt := 4.15
	_, err = store.AddMeasured(context.Background(), refdb.Measured{
		Name:          "LPC(16:0)",
		Class:         "LPC",
		Carbons:       16,
		Unsaturations: 0,
		Adduct:        "[M+H]+",
		MZ:            496.3423,
		CCS:           229.8,
		RT:            &rt,
		SrcTag:        "phl0246",
		CCSType:       "DT",
	})
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestIdentifyCommandEndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfgPath := testConfig(t, dir)
	seedStore(t, filepath.Join(dir, "lipids.db"))

	datasetPath := filepath.Join(dir, "features.csv")
	writeFile(t, datasetPath, "mz,rt,ccs,wt1\n496.3400,4.10,230.0,1050\n900.0000,1.00,300.0,12\n")

	annotated := filepath.Join(dir, "annotated.csv")
	out, err := runCommand(t,
		"--config", cfgPath,
		"identify", datasetPath,
		"--mz-tol", "0.02", "--rt-tol", "0.2", "--ccs-tol", "2.0",
		"--esi-mode", "pos",
		"--output", annotated,
	)
	if err != nil {
		t.Fatalf("identify: %v\n%s", err, out)
	}
	if !strings.Contains(out, "LPC(16:0) [M+H]+") {
		t.Fatalf("output missing identification:\n%s", out)
	}
	if !strings.Contains(out, "meas_mz_rt_ccs") {
		t.Fatalf("output missing level:\n%s", out)
	}
	if !strings.Contains(out, "Identified 1 of 2 features") {
		t.Fatalf("output missing summary:\n%s", out)
	}

	data, err := os.ReadFile(annotated)
	if err != nil {
		t.Fatalf("read annotated csv: %v", err)
	}
	if !strings.Contains(string(data), "LPC(16:0) [M+H]+") {
		t.Fatalf("annotated csv missing identification:\n%s", data)
	}
}

func TestIdentifyCommandJSONOutput(t *testing.T) {
	dir := t.TempDir()
	cfgPath := testConfig(t, dir)
	seedStore(t, filepath.Join(dir, "lipids.db"))

	datasetPath := filepath.Join(dir, "features.csv")
	writeFile(t, datasetPath, "mz,rt,ccs,wt1\n496.3400,4.10,230.0,1050\n")

	out, err := runCommand(t, "--config", cfgPath, "identify", datasetPath, "--json")
	if err != nil {
		t.Fatalf("identify --json: %v\n%s", err, out)
	}
	if !strings.Contains(out, `"level": "meas_mz_rt_ccs"`) {
		t.Fatalf("json output missing level:\n%s", out)
	}
	if !strings.Contains(out, `"name": "LPC(16:0)"`) {
		t.Fatalf("json output missing candidate:\n%s", out)
	}
}

func TestCalibrateCommandWithExplicitReferences(t *testing.T) {
	dir := t.TempDir()
	cfgPath := testConfig(t, dir)

	calPath := filepath.Join(dir, "calibrants.csv")
	writeFile(t, calPath, "name,measured_rt,reference_rt\nPG(34:1),0.673,0.673\nPE(34:1),1.549,1.549\nLPG(18:1),2.843,4.393\nLPE(18:1),3.996,7.252\n")

	out, err := runCommand(t, "--config", cfgPath, "calibrate", calPath, "--probe", "2.843")
	if err != nil {
		t.Fatalf("calibrate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Strategy: piecewise, 4 calibrants") {
		t.Fatalf("output missing summary:\n%s", out)
	}
	// Piecewise calibration is exact at calibrant points.
	if !strings.Contains(out, "calibrate(2.843) = 4.393") {
		t.Fatalf("probe not exact at calibrant point:\n%s", out)
	}
}

func TestPredictCommands(t *testing.T) {
	dir := t.TempDir()
	cfgPath := testConfig(t, dir)

	out, err := runCommand(t, "--config", cfgPath, "predict", "ccs", "LPC(16:0)", "[M+H]+")
	if err != nil {
		t.Fatalf("predict ccs: %v\n%s", err, out)
	}
	if !strings.Contains(out, "LPC(16:0) [M+H]+: ccs ") {
		t.Fatalf("unexpected ccs output:\n%s", out)
	}

	out, err = runCommand(t, "--config", cfgPath, "predict", "rt", "PC(34:1)")
	if err != nil {
		t.Fatalf("predict rt: %v\n%s", err, out)
	}
	if !strings.Contains(out, "PC(34:1): rt ") {
		t.Fatalf("unexpected rt output:\n%s", out)
	}

	if _, err := runCommand(t, "--config", cfgPath, "predict", "ccs", "XYZ(10:0)", "[M+H]+"); err == nil {
		t.Fatalf("unsupported class should error")
	}
}

func TestDBInfoCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := testConfig(t, dir)
	seedStore(t, filepath.Join(dir, "lipids.db"))

	out, err := runCommand(t, "--config", cfgPath, "db", "info")
	if err != nil {
		t.Fatalf("db info: %v\n%s", err, out)
	}
	if !strings.Contains(out, "measured") || !strings.Contains(out, "phl0246") {
		t.Fatalf("db info output incomplete:\n%s", out)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "config.toml")

	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v\n%s", err, out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config not written: %v", err)
	}

	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatalf("second init without --overwrite should fail")
	}
	if _, err := runCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("init --overwrite: %v", err)
	}

	out, err = runCommand(t, "--config", target, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v\n%s", err, out)
	}
	if !strings.Contains(out, "[identification]") {
		t.Fatalf("config show missing sections:\n%s", out)
	}
}
