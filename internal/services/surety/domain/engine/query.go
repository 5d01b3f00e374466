package engine

import (
	"encoding/json"
	"slices"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/aggregate"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/flight"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/oracle"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
)

// Read runs fn against the current state under the read lock. fn must not
// retain maps or slices from the state.
func (h *Handler) Read(fn func(aggregate.State)) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	fn(h.state)
}

// IsOperational reports the operational switch.
func (h *Handler) IsOperational() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state.IsOperational()
}

// Airline returns the view of an airline.
func (h *Handler) Airline(id principal.Principal) (aggregate.AirlineView, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state.Airline(id)
}

// IsAirlineRegistered reports whether id is Registered or Activated.
func (h *Handler) IsAirlineRegistered(id principal.Principal) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state.IsAirlineRegistered(id)
}

// IsAirlineActivated reports whether id is Activated.
func (h *Handler) IsAirlineActivated(id principal.Principal) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state.IsAirlineActivated(id)
}

// IsAirlineFunded reports whether id reached the activation threshold.
func (h *Handler) IsAirlineFunded(id principal.Principal) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state.IsAirlineFunded(id)
}

// IsPassengerRegistered reports whether passenger registered itself.
func (h *Handler) IsPassengerRegistered(passenger principal.Principal) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state.IsPassengerRegistered(passenger)
}

// Policy returns a passenger's policy on key.
func (h *Handler) Policy(passenger principal.Principal, key flight.Key) (aggregate.PolicyView, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state.Policy(passenger, key)
}

// Flight returns the view of a registered flight.
func (h *Handler) Flight(key flight.Key) (aggregate.FlightView, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state.Flight(key)
}

// FlightStatus returns the status of a registered flight.
func (h *Handler) FlightStatus(key flight.Key) (flight.Status, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state.FlightStatus(key)
}

// Reporter returns a registered reporter.
func (h *Handler) Reporter(id principal.Principal) (oracle.Reporter, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	reporter, ok := h.state.Reporter(id)
	reporter.Indexes = slices.Clone(reporter.Indexes)
	return reporter, ok
}

// EscrowBalance returns the value held by the consortium.
func (h *Handler) EscrowBalance() principal.Amount {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state.EscrowBalance()
}

// LastSeq returns the sequence of the last folded event.
func (h *Handler) LastSeq() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state.LastSeq
}

func decodePayload(evt event.Event, target any) error {
	return json.Unmarshal(evt.PayloadJSON, target)
}
