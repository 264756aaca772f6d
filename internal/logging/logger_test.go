package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"videnc/internal/logging"
)

func TestConsoleLoggerOmitsSourceForInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "lifecycle").Info("configured", logging.String(logging.FieldEngine, "drapto"))

	out := buf.String()
	if strings.Contains(out, ".go:") {
		t.Fatalf("expected no source information in info logs, got %q", out)
	}
	if !strings.Contains(out, "INFO [lifecycle] – configured") {
		t.Fatalf("unexpected header: %q", out)
	}
	if !strings.Contains(out, "    - engine: drapto\n") {
		t.Fatalf("missing field line: %q", out)
	}
}

func TestConsoleLoggerIncludesSourceForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := logging.New(logging.Options{Format: "console", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Debug("message with source")

	if !strings.Contains(buf.String(), ".go:") {
		t.Fatalf("expected source information in debug logs, got %q", buf.String())
	}
}

func TestConsoleLoggerShortensRunID(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := logging.New(logging.Options{Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := logging.WithRunID(context.Background(), "3f2a9c1e-0000-4000-8000-000000000000")
	logging.WithContext(ctx, logger).Warn("sink failed")

	out := buf.String()
	if !strings.Contains(out, "WARN run 3f2a9c1e – sink failed") {
		t.Fatalf("expected short run id in header, got %q", out)
	}
	if strings.Contains(out, "run_id") {
		t.Fatalf("run id should not repeat as a field at info and above: %q", out)
	}
}

func TestJSONLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("flushed", logging.String(logging.FieldTable, "corner_point"), logging.Int("rows", 6))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json record: %v (%q)", err, buf.String())
	}
	if record["level"] != "info" || record["msg"] != "flushed" || record["table"] != "corner_point" {
		t.Fatalf("unexpected record: %#v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key, got %#v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, _, err := logging.New(logging.Options{Format: "xml", Writer: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := logging.New(logging.Options{Level: "invalid", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected info threshold, got %q", buf.String())
	}
}

func TestFilePathReceivesJSONCopy(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "videnc.log")
	logger, closer, err := logging.New(logging.Options{Writer: &console, FilePath: path})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer closer.Close()

	logger.Info("encoded")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), `"msg":"encoded"`) {
		t.Fatalf("expected json record in file, got %q", content)
	}
	if !strings.Contains(console.String(), "encoded") {
		t.Fatalf("expected console record, got %q", console.String())
	}
}

func TestCloserReleasesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videnc.log")
	_, closer, err := logging.New(logging.Options{Writer: &bytes.Buffer{}, FilePath: path})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := closer.Close(); err == nil {
		t.Fatal("expected second close of the log file to fail")
	}
}

func TestCloserWithoutFileIsNoop(t *testing.T) {
	_, closer, err := logging.New(logging.Options{Writer: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("close without file: %v", err)
	}
}

func TestValidLevelAndFormat(t *testing.T) {
	for _, level := range []string{"", "debug", "INFO", "warn", "warning", "error"} {
		if !logging.ValidLevel(level) {
			t.Errorf("ValidLevel(%q) = false", level)
		}
	}
	if logging.ValidLevel("trace") {
		t.Error("ValidLevel(trace) = true")
	}
	if !logging.ValidFormat("json") || !logging.ValidFormat("console") || logging.ValidFormat("xml") {
		t.Error("ValidFormat mismatch")
	}
}

func TestRunIDFromContext(t *testing.T) {
	if _, ok := logging.RunIDFromContext(context.Background()); ok {
		t.Fatal("expected no run id on empty context")
	}
	ctx := logging.WithRunID(context.Background(), " abc ")
	if id, ok := logging.RunIDFromContext(ctx); !ok || id != "abc" {
		t.Fatalf("RunIDFromContext = %q, %v", id, ok)
	}
}
