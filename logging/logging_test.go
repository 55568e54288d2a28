package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestPrettyHandler(t *testing.T) {
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{Level: slog.LevelDebug},
		NoColor:  true,
	})
	log := slog.New(h).With("component", "studio")

	log.Info("Generated diagram", "nodes", 3, "timeout", 2*time.Second)
	log.WithGroup("ai").Warn("Failed", "error", errors.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %q", len(lines), buf.String())
	}

	if !strings.Contains(lines[0], "INFO: Generated diagram ") {
		t.Errorf("Unexpected first line %q", lines[0])
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(lines[0][strings.Index(lines[0], "{"):]), &fields); err != nil {
		t.Fatalf("Attributes are not JSON: %v", err)
	}
	if fields["component"] != "studio" || fields["nodes"] != float64(3) || fields["timeout"] != "2s" {
		t.Errorf("Unexpected attributes %v", fields)
	}

	if !strings.Contains(lines[1], "WARN: Failed") || !strings.Contains(lines[1], `"ai":{"error":"boom"}`) {
		t.Errorf("Unexpected grouped line %q", lines[1])
	}
}

func TestPrettyHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, PrettyHandlerOptions{NoColor: true}))

	log.Debug("hidden")
	log.Error("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("Debug record written at the default info level")
	}
	if !strings.Contains(buf.String(), "ERROR: shown") {
		t.Errorf("Expected error record, got %q", buf.String())
	}
}

func TestPrettyHandlerColor(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewPrettyHandler(&buf, PrettyHandlerOptions{})).Error("red")
	if !strings.Contains(buf.String(), "\x1b[31m") {
		t.Errorf("Expected ANSI red, got %q", buf.String())
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, slog.LevelWarn, "json").Warn("careful", "count", 2)
	New(&buf, slog.LevelWarn, "json").Info("skipped")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("Expected one JSON record, got %q: %v", buf.String(), err)
	}
	if rec["msg"] != "careful" || rec["level"] != "WARN" || rec["count"] != float64(2) {
		t.Errorf("Unexpected record %v", rec)
	}
}

func TestNewPretty(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, slog.LevelDebug, "pretty").Debug("detail")
	if !strings.Contains(buf.String(), "detail") {
		t.Errorf("Expected pretty record, got %q", buf.String())
	}
}
