// Package journalkey generates journal signing keys in the format the surety
// server reads from its environment.
package journalkey

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/louisbranch/flightsurety/internal/services/surety/storage/integrity"
)

// Config holds configuration for key generation.
type Config struct {
	Bytes int
	ID    string
	// Existing is a current key list to rotate. The new key is appended and
	// becomes active; old keys stay so earlier events still verify.
	Existing string
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{Bytes: 32, ID: "k1"}
	fs.IntVar(&cfg.Bytes, "bytes", cfg.Bytes, "number of random bytes")
	fs.StringVar(&cfg.ID, "id", cfg.ID, "key id")
	fs.StringVar(&cfg.Existing, "rotate", cfg.Existing, `existing "id=secret,..." list to extend`)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run generates the key and writes the environment lines to out.
func Run(cfg Config, out io.Writer, reader io.Reader) error {
	if cfg.Bytes <= 0 {
		return errors.New("bytes must be greater than zero")
	}
	id := strings.TrimSpace(cfg.ID)
	if id == "" || strings.ContainsAny(id, "=,") {
		return fmt.Errorf("invalid key id %q", cfg.ID)
	}
	if out == nil {
		return errors.New("output is required")
	}
	if reader == nil {
		reader = rand.Reader
	}

	buf := make([]byte, cfg.Bytes)
	if _, err := io.ReadFull(reader, buf); err != nil {
		return fmt.Errorf("generate random bytes: %w", err)
	}
	keys := id + "=" + hex.EncodeToString(buf)
	if existing := strings.TrimSpace(cfg.Existing); existing != "" {
		keys = existing + "," + keys
	}
	if _, err := integrity.ParseKeyring(keys, id); err != nil {
		return fmt.Errorf("build key list: %w", err)
	}
	_, err := fmt.Fprintf(out, "FLIGHT_SURETY_HMAC_KEYS=%s\nFLIGHT_SURETY_HMAC_ACTIVE_KEY=%s\n", keys, id)
	return err
}
