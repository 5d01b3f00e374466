package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tc := range tests {
		got, err := ParseLevel(tc.in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Config{Level: "info", Format: "xml"}); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestJSONLoggerWritesNamedFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(Config{Level: "info", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Named("engine").Info("command accepted", String("type", "airline.nominate"), Int("events", 2))
	_ = logger.Sync()

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["logger"] != "engine" {
		t.Fatalf("logger = %v, want engine", entry["logger"])
	}
	if entry["type"] != "airline.nominate" {
		t.Fatalf("type = %v, want airline.nominate", entry["type"])
	}
	if entry["msg"] != "command accepted" {
		t.Fatalf("msg = %v", entry["msg"])
	}
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(Config{Level: "info", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug("hidden")
	_ = logger.Sync()
	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("debug line written at info level: %s", buf.String())
	}
}

func TestNilLoggerHelpersAreSafe(t *testing.T) {
	var logger *Logger
	logger.Printf("ignored %d", 1)
	logger.Named("x").Info("discarded")
	logger.With(String("k", "v")).Info("discarded")
}
