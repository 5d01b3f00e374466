package journalkey

import (
	"bytes"
	"flag"
	"strings"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("journal-key", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Bytes != 32 || cfg.ID != "k1" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestParseConfigOverride(t *testing.T) {
	fs := flag.NewFlagSet("journal-key", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-bytes", "16", "-id", "k2", "-rotate", "k1=aa"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Bytes != 16 || cfg.ID != "k2" || cfg.Existing != "k1=aa" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "no bytes", cfg: Config{Bytes: 0, ID: "k1"}},
		{name: "empty id", cfg: Config{Bytes: 4}},
		{name: "id with separator", cfg: Config{Bytes: 4, ID: "k=1"}},
		{name: "duplicate id on rotate", cfg: Config{Bytes: 4, ID: "k1", Existing: "k1=aa"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Run(tt.cfg, &bytes.Buffer{}, bytes.NewReader([]byte{1, 2, 3, 4})); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRunWritesEnv(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := Run(Config{Bytes: 4, ID: "k1"}, buf, bytes.NewReader([]byte{0x01, 0x02, 0x03, 0x04})); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "FLIGHT_SURETY_HMAC_KEYS=k1=01020304\nFLIGHT_SURETY_HMAC_ACTIVE_KEY=k1"
	if got := strings.TrimSpace(buf.String()); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestRunRotates(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := Run(Config{Bytes: 2, ID: "k2", Existing: "k1=aabb"}, buf, bytes.NewReader([]byte{0xca, 0xfe})); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(buf.String(), "FLIGHT_SURETY_HMAC_KEYS=k1=aabb,k2=cafe\n") {
		t.Fatalf("output = %q", buf.String())
	}
	if !strings.Contains(buf.String(), "FLIGHT_SURETY_HMAC_ACTIVE_KEY=k2\n") {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestRunShortReader(t *testing.T) {
	if err := Run(Config{Bytes: 8, ID: "k1"}, &bytes.Buffer{}, bytes.NewReader([]byte{1})); err == nil {
		t.Fatal("expected error for short reader")
	}
}
