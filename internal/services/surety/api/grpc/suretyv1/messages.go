package suretyv1

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/flight"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
)

// CommandRequest submits one command. The caller comes from request metadata.
type CommandRequest struct {
	Type    string           `json:"type"`
	Value   principal.Amount `json:"value,string,omitempty"`
	Payload json.RawMessage  `json:"payload,omitempty"`
}

// CommandResponse lists the journaled events of an accepted command.
type CommandResponse struct {
	Events  []Event `json:"events"`
	LastSeq uint64  `json:"last_seq"`
}

// StatusResponse answers GetStatus.
type StatusResponse struct {
	Operational bool             `json:"operational"`
	LastSeq     uint64           `json:"last_seq"`
	Escrow      principal.Amount `json:"escrow,string"`
}

// AirlineRequest addresses an airline.
type AirlineRequest struct {
	Airline principal.Principal `json:"airline"`
}

// AirlineResponse describes an airline.
type AirlineResponse struct {
	Airline    principal.Principal   `json:"airline"`
	Status     string                `json:"status"`
	Sponsor    principal.Principal   `json:"sponsor,omitempty"`
	Funded     principal.Amount      `json:"funded,string"`
	Votes      []principal.Principal `json:"votes,omitempty"`
	Registered bool                  `json:"registered"`
	Activated  bool                  `json:"activated"`
	IsFunded   bool                  `json:"is_funded"`
}

// FlightRequest addresses a flight.
type FlightRequest struct {
	Flight flight.Key `json:"flight"`
}

// FlightResponse describes a registered flight.
type FlightResponse struct {
	Flight         flight.Key `json:"flight"`
	Status         string     `json:"status"`
	StatusCode     uint8      `json:"status_code"`
	Finalized      bool       `json:"finalized"`
	Phase          string     `json:"phase"`
	RequestedIndex int        `json:"requested_index"`
	Reports        int        `json:"reports"`
	Policies       int        `json:"policies"`
}

// PolicyRequest addresses a policy. An empty passenger means the caller.
type PolicyRequest struct {
	Passenger principal.Principal `json:"passenger,omitempty"`
	Flight    flight.Key          `json:"flight"`
}

// PolicyResponse describes a policy and its payout.
type PolicyResponse struct {
	Passenger       principal.Principal `json:"passenger"`
	Flight          flight.Key          `json:"flight"`
	Premium         principal.Amount    `json:"premium,string"`
	CreditedAmount  principal.Amount    `json:"credited_amount,string"`
	Withdrawn       bool                `json:"withdrawn"`
	WithdrawnAmount principal.Amount    `json:"withdrawn_amount,string"`
}

// ReporterRequest addresses a reporter. An empty reporter means the caller.
type ReporterRequest struct {
	Reporter principal.Principal `json:"reporter,omitempty"`
}

// ReporterResponse describes a registered reporter.
type ReporterResponse struct {
	Reporter principal.Principal `json:"reporter"`
	Indexes  []int               `json:"indexes"`
	Fee      principal.Amount    `json:"fee,string"`
}

// PassengerRequest addresses a passenger. An empty passenger means the caller.
type PassengerRequest struct {
	Passenger principal.Principal `json:"passenger,omitempty"`
}

// PassengerResponse reports passenger registration.
type PassengerResponse struct {
	Passenger  principal.Principal `json:"passenger"`
	Registered bool                `json:"registered"`
}

// ListEventsRequest pages the journal.
type ListEventsRequest struct {
	AfterSeq uint64 `json:"after_seq,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Filter   string `json:"filter,omitempty"`
}

// ListEventsResponse carries one page.
type ListEventsResponse struct {
	Events []Event `json:"events"`
	// NextSeq resumes after the last returned event.
	NextSeq uint64 `json:"next_seq"`
}

// SubscribeRequest starts an event stream after AfterSeq.
type SubscribeRequest struct {
	AfterSeq uint64 `json:"after_seq,omitempty"`
	Filter   string `json:"filter,omitempty"`
}

// Event is the wire shape of a journaled event.
type Event struct {
	Seq            uint64          `json:"seq"`
	Hash           string          `json:"hash"`
	PrevHash       string          `json:"prev_hash,omitempty"`
	ChainHash      string          `json:"chain_hash"`
	SignatureKeyID string          `json:"signature_key_id,omitempty"`
	Signature      string          `json:"signature,omitempty"`
	Timestamp      string          `json:"ts"`
	Type           string          `json:"type"`
	ActorID        string          `json:"actor_id,omitempty"`
	RelayID        string          `json:"relay_id,omitempty"`
	RequestID      string          `json:"request_id,omitempty"`
	EntityType     string          `json:"entity_type"`
	EntityID       string          `json:"entity_id"`
	Payload        json.RawMessage `json:"payload"`
}

// EventFromDomain converts a journaled event to its wire shape.
func EventFromDomain(evt event.Event) Event {
	payload := evt.PayloadJSON
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	return Event{
		Seq:            evt.Seq,
		Hash:           evt.Hash,
		PrevHash:       evt.PrevHash,
		ChainHash:      evt.ChainHash,
		SignatureKeyID: evt.SignatureKeyID,
		Signature:      evt.Signature,
		Timestamp:      evt.Timestamp.UTC().Format(time.RFC3339Nano),
		Type:           string(evt.Type),
		ActorID:        evt.ActorID,
		RelayID:        evt.RelayID,
		RequestID:      evt.RequestID,
		EntityType:     evt.EntityType,
		EntityID:       evt.EntityID,
		Payload:        json.RawMessage(payload),
	}
}

// EventsFromDomain converts a batch.
func EventsFromDomain(events []event.Event) []Event {
	out := make([]Event, 0, len(events))
	for _, evt := range events {
		out = append(out, EventFromDomain(evt))
	}
	return out
}

// Domain converts the wire shape back to a domain event.
func (e Event) Domain() (event.Event, error) {
	ts, err := time.Parse(time.RFC3339Nano, e.Timestamp)
	if err != nil {
		return event.Event{}, fmt.Errorf("parse event timestamp: %w", err)
	}
	payload, err := event.CanonicalJSON(e.Payload)
	if err != nil {
		return event.Event{}, fmt.Errorf("canonical payload: %w", err)
	}
	return event.Event{
		Seq:            e.Seq,
		Hash:           e.Hash,
		PrevHash:       e.PrevHash,
		ChainHash:      e.ChainHash,
		SignatureKeyID: e.SignatureKeyID,
		Signature:      e.Signature,
		Timestamp:      ts.UTC(),
		Type:           event.Type(e.Type),
		ActorID:        e.ActorID,
		RelayID:        e.RelayID,
		RequestID:      e.RequestID,
		EntityType:     e.EntityType,
		EntityID:       e.EntityID,
		PayloadJSON:    payload,
	}, nil
}

// Encode packs v into a Struct through its JSON form.
func Encode(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("decode struct: %w", err)
	}
	return out, nil
}

// Decode unpacks a Struct into v through its JSON form.
func Decode(in *structpb.Struct, v any) error {
	if in == nil {
		in = &structpb.Struct{}
	}
	data, err := protojson.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode struct: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal message: %w", err)
	}
	return nil
}
