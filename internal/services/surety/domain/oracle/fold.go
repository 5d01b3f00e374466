package oracle

import (
	"encoding/json"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/flight"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
)

// Fold applies an event to oracle state.
func Fold(state State, evt event.Event) State {
	if state.Reporters == nil {
		state.Reporters = make(map[principal.Principal]Reporter)
	}
	if state.Rounds == nil {
		state.Rounds = make(map[flight.Key]Round)
	}
	switch evt.Type {
	case EventTypeReporterRegistered:
		var payload ReporterRegisteredPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if _, exists := state.Reporters[payload.Reporter]; exists {
			return state
		}
		state.Reporters[payload.Reporter] = Reporter{
			ID:           payload.Reporter,
			Indexes:      payload.Indexes,
			Fee:          payload.Fee,
			RegisteredAt: evt.Timestamp,
		}
		state.Registrations++
		state.Fees += payload.Fee
	case EventTypeRequest:
		var payload OracleRequestPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if round, exists := state.Rounds[payload.Flight]; exists && (round.Open || round.Resolved) {
			return state
		}
		state.Rounds[payload.Flight] = Round{
			Flight:    payload.Flight,
			Index:     payload.Index,
			Open:      true,
			Responses: make(map[principal.Principal]flight.Status),
			Tally:     make(map[flight.Status]int),
		}
		state.Requests++
	case EventTypeReport:
		var payload OracleReportPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		round, ok := state.Rounds[payload.Flight]
		if !ok || !round.Open {
			return state
		}
		if _, responded := round.Responses[payload.Reporter]; responded {
			return state
		}
		round.Responses[payload.Reporter] = payload.Status
		round.Tally[payload.Status]++
	case EventTypeFlightStatusInfo:
		var payload FlightStatusInfoPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		round, ok := state.Rounds[payload.Flight]
		if !ok || round.Resolved {
			return state
		}
		round.Open = false
		round.Resolved = true
		round.Status = payload.Status
		state.Rounds[payload.Flight] = round
	}
	return state
}
