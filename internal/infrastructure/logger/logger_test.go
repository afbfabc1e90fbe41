package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "json", Output: &buf})

	log.Info().Str("owner_id", "o1").Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not json: %v (%q)", err, buf.String())
	}
	if entry["message"] != "hello" || entry["owner_id"] != "o1" || entry["service"] != "finledger" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Fatalf("expected timestamp field in %v", entry)
	}
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Output: &buf})

	log.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}

	log.Warn().Msg("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected warn entry, got %q", buf.String())
	}
}

func TestNewConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "console", Output: &buf})

	log.Debug().Msg("console line")

	out := buf.String()
	if !strings.Contains(out, "console line") {
		t.Fatalf("expected message in console output, got %q", out)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatalf("console output should not be json: %q", out)
	}
}
