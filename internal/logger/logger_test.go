package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, c := range cases {
		if got := ParseLevel(c.in); got != c.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "INFO", "json", false)
	l.Debug("hidden")
	l.Info("Token rejected", "reason", "malformed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("expected JSON output: %v", err)
	}
	if entry["reason"] != "malformed" {
		t.Errorf("reason = %v, want malformed", entry["reason"])
	}
}

func TestSetLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(New(&buf, "DEBUG", "text", false))
	Warn("JWKS fetch failed", "url", "https://example.test")
	if !strings.Contains(buf.String(), "JWKS fetch failed") {
		t.Errorf("expected message in output, got %q", buf.String())
	}
}

func TestWith(t *testing.T) {
	prev := Logger()
	t.Cleanup(func() { SetLogger(prev) })

	var buf bytes.Buffer
	SetLogger(New(&buf, "INFO", "json", false))

	With("component", "cognito").Info("Token rejected")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if rec["component"] != "cognito" {
		t.Errorf("component = %v, want cognito", rec["component"])
	}
}

func TestNew_AddSource(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "INFO", "json", true).Info("JWKS fetched")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output: %v", err)
	}
	if _, ok := entry[slog.SourceKey]; !ok {
		t.Errorf("expected %q in %v", slog.SourceKey, entry)
	}
}
