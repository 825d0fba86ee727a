package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{" warning ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInit_WritesJSONAndFiltersLevel(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	var buf bytes.Buffer
	log, err := Init(Options{Level: "warn", Output: &buf})
	if err != nil {
		t.Fatalf("Init returned error: %v", err)
	}

	log.Info().Msg("dropped")
	log.Warn().Str("component", "test").Msg("kept")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected exactly one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "kept" || entry["component"] != "test" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestInit_OnlyFirstCallApplies(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	var first, second bytes.Buffer
	if _, err := Init(Options{Level: "info", Output: &first}); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	log, err := Init(Options{Level: "error", Output: &second})
	if err != nil {
		t.Fatalf("second Init returned error: %v", err)
	}

	log.Info().Msg("hello")
	if second.Len() != 0 {
		t.Errorf("second Init options were applied: %q", second.String())
	}
	if !bytes.Contains(first.Bytes(), []byte("hello")) {
		t.Errorf("expected entry in first writer, got %q", first.String())
	}
}
