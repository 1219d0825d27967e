package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newConsoleLogger(level string) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLevel(level))
	return slog.New(newConsoleHandler(&buf, levelVar)), &buf
}

func TestConsoleHandlerFormatsComponentPrefix(t *testing.T) {
	logger, buf := newConsoleLogger("info")
	WithComponent(logger, "worker").Info("item completed",
		String(FieldItemID, "abc"),
		Bool("polished", true))

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, " INFO worker: item completed") {
		t.Errorf("line missing component prefix: %q", line)
	}
	if !strings.Contains(line, "item_id=abc") || !strings.Contains(line, "polished=true") {
		t.Errorf("line missing attrs: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Errorf("component should be folded into the prefix: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	logger, buf := newConsoleLogger("info")
	logger.Info("failed", Error(errors.New("provider timed out")))

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, `error="provider timed out"`) {
		t.Errorf("error value should be quoted: %q", line)
	}
}

func TestConsoleHandlerHonorsLevel(t *testing.T) {
	logger, buf := newConsoleLogger("warn")
	logger.Info("hidden")
	logger.Debug("also hidden")
	logger.Warn("visible")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("records below the level leaked: %q", output)
	}
	if !strings.Contains(output, "WARN visible") {
		t.Errorf("warn record missing: %q", output)
	}
}

func TestConsoleHandlerFlattensGroups(t *testing.T) {
	logger, buf := newConsoleLogger("info")
	logger.WithGroup("request").Info("done", String("id", "42"))

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, "request.id=42") {
		t.Errorf("group prefix missing: %q", line)
	}
}

func TestJSONFormatUsesStandardKeys(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "quill.log")
	logger, err := New(Options{Level: "info", Format: "json", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hello", String(FieldItemID, "abc"))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &record); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if record["msg"] != "hello" || record["level"] != "info" {
		t.Errorf("record keys mismatch: %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Errorf("record should carry ts: %v", record)
	}
	if record[FieldItemID] != "abc" {
		t.Errorf("attr missing: %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("unknown format should be rejected")
	}
}

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "nested", "quill.log")
	logger, err := New(Options{Format: "console", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("persisted")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "persisted") {
		t.Errorf("log file missing record: %q", string(data))
	}
}

func TestNewNopDiscardsEverything(t *testing.T) {
	logger := NewNop()
	logger.Error("nothing happens", Error(errors.New("ignored")))

	if WithComponent(nil, "x") == nil {
		t.Fatal("WithComponent(nil) should fall back to the nop logger")
	}
}
