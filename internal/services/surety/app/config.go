package server

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/louisbranch/flightsurety/internal/platform/logging"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
	"github.com/louisbranch/flightsurety/internal/services/surety/storage/integrity"
)

const (
	defaultAddr     = ":8090"
	defaultHTTPAddr = ":8091"
	// MemoryJournal selects the in-memory journal.
	MemoryJournal = ":memory:"
)

// Config controls server startup.
type Config struct {
	// Addr is the gRPC listen address.
	Addr string
	// HTTPAddr is the query API listen address. "-" disables it.
	HTTPAddr string
	// DBPath is the sqlite journal path. Empty or MemoryJournal keeps the
	// journal in memory.
	DBPath       string
	Owner        principal.Principal
	FirstAirline principal.Principal
	// HMACKeys lists journal signing keys as "id=secret,...".
	HMACKeys      string
	HMACActiveKey string
	Logger        *logging.Logger
}

func (c Config) normalized() Config {
	if strings.TrimSpace(c.Addr) == "" {
		c.Addr = defaultAddr
	}
	if strings.TrimSpace(c.HTTPAddr) == "" {
		c.HTTPAddr = defaultHTTPAddr
	}
	c.DBPath = strings.TrimSpace(c.DBPath)
	if c.Logger == nil {
		c.Logger = logging.NewNop()
	}
	return c
}

func (c Config) memoryJournal() bool {
	return c.DBPath == "" || c.DBPath == MemoryJournal
}

func (c Config) validate() error {
	if c.Owner.IsZero() {
		return fmt.Errorf("owner principal is required")
	}
	if c.FirstAirline.IsZero() {
		return fmt.Errorf("first airline principal is required")
	}
	if !c.memoryJournal() && strings.TrimSpace(c.HMACKeys) == "" {
		return fmt.Errorf("journal signing keys are required for %s", c.DBPath)
	}
	return nil
}

// keyring parses the configured keys. A memory journal without keys signs
// with a throwaway key since nothing outlives the process.
func (c Config) keyring() (*integrity.Keyring, error) {
	if strings.TrimSpace(c.HMACKeys) != "" {
		return integrity.ParseKeyring(c.HMACKeys, c.HMACActiveKey)
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate journal key: %w", err)
	}
	return integrity.NewKeyring(map[string][]byte{"ephemeral": []byte(hex.EncodeToString(secret))}, "ephemeral")
}
