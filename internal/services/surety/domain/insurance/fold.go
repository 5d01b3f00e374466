package insurance

import (
	"encoding/json"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/flight"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/oracle"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
)

// Fold applies an event to insurance state. Flight status is written only by
// the oracle's finalization event.
func Fold(state State, evt event.Event) State {
	if state.Flights == nil {
		state.Flights = make(map[flight.Key]Flight)
	}
	if state.Policies == nil {
		state.Policies = make(map[flight.Key]map[principal.Principal]Policy)
	}
	if state.Passengers == nil {
		state.Passengers = make(map[principal.Principal]bool)
	}
	switch evt.Type {
	case EventTypeFlightRegistered:
		var payload FlightPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if _, exists := state.Flights[payload.Flight]; exists {
			return state
		}
		state.Flights[payload.Flight] = Flight{Key: payload.Flight, RegisteredAt: evt.Timestamp}
	case EventTypePolicyPurchased:
		var payload PolicyPurchasedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		byPassenger := state.Policies[payload.Flight]
		if byPassenger == nil {
			byPassenger = make(map[principal.Principal]Policy)
			state.Policies[payload.Flight] = byPassenger
		}
		if _, exists := byPassenger[payload.Passenger]; exists {
			return state
		}
		byPassenger[payload.Passenger] = Policy{
			Passenger:   payload.Passenger,
			Flight:      payload.Flight,
			Premium:     payload.Premium,
			PurchasedAt: evt.Timestamp,
		}
		state.Premiums += payload.Premium
	case EventTypePassengerRegistered:
		var payload PassengerRegisteredPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.Passengers[payload.Passenger] = true
	case oracle.EventTypeFlightStatusInfo:
		var payload oracle.FlightStatusInfoPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		registered, ok := state.Flights[payload.Flight]
		if !ok || registered.Finalized {
			return state
		}
		registered.Status = payload.Status
		registered.Finalized = true
		state.Flights[payload.Flight] = registered
	}
	return state
}
