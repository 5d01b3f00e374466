package payout

import (
	"encoding/json"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/flight"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
)

// Fold applies an event to payout state.
func Fold(state State, evt event.Event) State {
	if state.Credits == nil {
		state.Credits = make(map[flight.Key]map[principal.Principal]Credit)
	}
	switch evt.Type {
	case EventTypePolicyCredited:
		var payload PolicyCreditedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		byPassenger := state.Credits[payload.Flight]
		if byPassenger == nil {
			byPassenger = make(map[principal.Principal]Credit)
			state.Credits[payload.Flight] = byPassenger
		}
		if existing, ok := byPassenger[payload.Passenger]; ok && existing.Credited > 0 {
			return state
		}
		byPassenger[payload.Passenger] = Credit{
			Passenger:  payload.Passenger,
			Flight:     payload.Flight,
			Amount:     payload.Amount,
			Credited:   payload.Amount,
			CreditedAt: evt.Timestamp,
		}
		state.Outstanding += payload.Amount
	case EventTypeWithdrawn:
		var payload WithdrawnPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		credit, ok := state.Credits[payload.Flight][payload.Passenger]
		if !ok || credit.Withdrawn {
			return state
		}
		credit.Withdrawn = true
		credit.Amount = 0
		state.Credits[payload.Flight][payload.Passenger] = credit
		state.Outstanding -= payload.Amount
		state.Paid += payload.Amount
	}
	return state
}
