package command

import (
	"time"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
)

// Decision represents the pure outcome of handling a command.
type Decision struct {
	Events     []event.Event
	Rejections []Rejection
}

// Rejected reports whether the decision declined the command.
func (d Decision) Rejected() bool {
	return len(d.Rejections) > 0
}

// Rejection captures a domain-level reason a command was declined.
type Rejection struct {
	Code    string
	Message string
	// Metadata carries values used to render localized messages.
	Metadata map[string]string
}

// Accept returns a decision that emits the provided events. Accept with no
// events is a successful no-op.
func Accept(events ...event.Event) Decision {
	return Decision{Events: append([]event.Event(nil), events...)}
}

// Reject returns a decision that carries the provided rejections.
func Reject(rejections ...Rejection) Decision {
	return Decision{Rejections: append([]Rejection(nil), rejections...)}
}

// NewEvent builds an event by copying the shared envelope fields from a
// command. Callers supply the event type, entity addressing, payload and
// timestamp.
func NewEvent(cmd Command, eventType event.Type, entityType, entityID string, payloadJSON []byte, now time.Time) event.Event {
	return event.Event{
		Type:        eventType,
		Timestamp:   now,
		ActorID:     string(cmd.ActorID),
		RelayID:     string(cmd.RelayID),
		RequestID:   cmd.RequestID,
		EntityType:  entityType,
		EntityID:    entityID,
		PayloadJSON: payloadJSON,
	}
}
