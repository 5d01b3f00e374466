package event

import (
	"strings"
	"time"
)

// Type identifies the kind of an event, namespaced by owning component
// ("airline.registered", "payout.withdrawn").
type Type string

// Domain returns the owning component prefix of the type.
func (t Type) Domain() string {
	domain, _, _ := strings.Cut(string(t), ".")
	return domain
}

// Event is an immutable entry in the surety journal.
type Event struct {
	// Seq is the position in the journal (starts at 1). Assigned on append.
	Seq uint64
	// Hash is the content-addressed identity. Assigned on append.
	Hash string
	// PrevHash is the previous event's chain hash (empty for the first event).
	PrevHash string
	// ChainHash links this event to its predecessor.
	ChainHash string
	// SignatureKeyID identifies the HMAC key used to sign the chain hash.
	SignatureKeyID string
	// Signature is the HMAC signature of the chain hash.
	Signature string
	// Timestamp is when the event was decided.
	Timestamp time.Time
	// Type identifies the kind of event.
	Type Type
	// ActorID is the principal whose command produced the event.
	ActorID string
	// RelayID is the authorized caller that relayed the command, if any.
	RelayID string
	// RequestID correlates the event with the inbound request.
	RequestID string
	// EntityType is the kind of entity affected (airline, flight, reporter).
	EntityType string
	// EntityID identifies the affected entity.
	EntityID string
	// PayloadJSON holds event-specific data as canonical JSON.
	PayloadJSON []byte
}
