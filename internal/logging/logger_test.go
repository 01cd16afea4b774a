package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newBufferedConsole(level string) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLevel(level))
	return slog.New(newConsoleHandler(&buf, levelVar)), &buf
}

func TestConsoleHandlerFoldsComponentIntoPrefix(t *testing.T) {
	logger, buf := newBufferedConsole("info")
	logger = logger.With(String(FieldComponent, "matcher"))

	logger.Info("candidates found", Int(FieldCount, 3), Float64("mz", 496.34))

	line := buf.String()
	if !strings.Contains(line, "INFO matcher: candidates found") {
		t.Fatalf("line missing component prefix: %q", line)
	}
	if !strings.Contains(line, "count=3") || !strings.Contains(line, "mz=496.34") {
		t.Fatalf("line missing attrs: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component repeated as attr: %q", line)
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	logger, buf := newBufferedConsole("warn")
	logger.Info("too quiet")
	logger.Warn("loud enough")

	out := buf.String()
	if strings.Contains(out, "too quiet") {
		t.Fatalf("info record leaked past warn level: %q", out)
	}
	if !strings.Contains(out, "WARN loud enough") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestConsoleHandlerQuotesAwkwardValues(t *testing.T) {
	logger, buf := newBufferedConsole("info")
	logger.Info("msg", String("name", "LPC 16:0"), Error(errors.New("lookup failed: no rows")))

	line := buf.String()
	if !strings.Contains(line, `name="LPC 16:0"`) {
		t.Fatalf("spaced value not quoted: %q", line)
	}
	if !strings.Contains(line, `error="lookup failed: no rows"`) {
		t.Fatalf("error value not quoted: %q", line)
	}
}

func TestJSONHandlerRenamesCoreKeys(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelInfo)
	logger := slog.New(newJSONHandler(&buf, levelVar))

	logger.Info("run finished", String(FieldRunID, "abc"), Int("identified", 7))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("parse json record: %v", err)
	}
	if record["msg"] != "run finished" {
		t.Fatalf("msg = %v", record["msg"])
	}
	if record["level"] != "info" {
		t.Fatalf("level = %v", record["level"])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("ts key missing: %v", record)
	}
	if record[FieldRunID] != "abc" {
		t.Fatalf("run_id = %v", record[FieldRunID])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("nop logger should be disabled at every level")
	}
}
