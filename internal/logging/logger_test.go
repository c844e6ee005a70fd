package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"tabbycat/internal/logging"
)

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("not shown")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "not shown") {
		t.Fatalf("info record leaked through warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("hello", "count", 2)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if record["msg"] != "hello" {
		t.Fatalf("unexpected msg: %v", record["msg"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestContextAttributesStamped(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := logging.WithOperation(context.Background(), "ingest")
	ctx = logging.WithDataset(ctx, "abc-123")
	logger.InfoContext(ctx, "working")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record["dataset_id"] != "abc-123" {
		t.Fatalf("dataset_id missing: %v", record)
	}
	if record["operation"] != "ingest" {
		t.Fatalf("operation missing: %v", record)
	}
}

func TestNopDiscards(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("nothing happens")
}
