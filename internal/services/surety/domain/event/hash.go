package event

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// envelope is the hashed view of an event. Field names are part of the
// journal format; renaming one invalidates every stored hash.
type envelope struct {
	Timestamp   string          `json:"ts"`
	Type        string          `json:"type"`
	ActorID     string          `json:"actor_id,omitempty"`
	RelayID     string          `json:"relay_id,omitempty"`
	RequestID   string          `json:"request_id,omitempty"`
	EntityType  string          `json:"entity_type,omitempty"`
	EntityID    string          `json:"entity_id,omitempty"`
	PayloadJSON json.RawMessage `json:"payload"`
}

type chainEnvelope struct {
	Seq       uint64 `json:"seq"`
	Hash      string `json:"hash"`
	PrevHash  string `json:"prev_hash"`
	Timestamp string `json:"ts"`
	Type      string `json:"type"`
}

func payloadOrEmpty(payload []byte) json.RawMessage {
	if len(payload) == 0 {
		return json.RawMessage("{}")
	}
	return json.RawMessage(payload)
}

func formatTimestamp(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339Nano)
}

// EventHash computes the content hash of an event: SHA-256 over the canonical
// envelope, truncated to 128 bits.
func EventHash(evt Event) (string, error) {
	if evt.Type == "" {
		return "", errors.New("event type is required")
	}
	canonical, err := CanonicalJSON(envelope{
		Timestamp:   formatTimestamp(evt.Timestamp),
		Type:        string(evt.Type),
		ActorID:     evt.ActorID,
		RelayID:     evt.RelayID,
		RequestID:   evt.RequestID,
		EntityType:  evt.EntityType,
		EntityID:    evt.EntityID,
		PayloadJSON: payloadOrEmpty(evt.PayloadJSON),
	})
	if err != nil {
		return "", fmt.Errorf("canonical event: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:16]), nil
}

// ChainHash computes the SHA-256 hash that links an event to its predecessor.
// evt.Hash and evt.Seq must already be assigned.
func ChainHash(evt Event, prevHash string) (string, error) {
	if evt.Hash == "" {
		return "", errors.New("event hash is required")
	}
	if evt.Seq == 0 {
		return "", errors.New("event seq is required")
	}
	canonical, err := CanonicalJSON(chainEnvelope{
		Seq:       evt.Seq,
		Hash:      evt.Hash,
		PrevHash:  prevHash,
		Timestamp: formatTimestamp(evt.Timestamp),
		Type:      string(evt.Type),
	})
	if err != nil {
		return "", fmt.Errorf("canonical chain: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
