package funding

import (
	"encoding/json"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
)

// Fold applies an event to funding state.
func Fold(state State, evt event.Event) State {
	if evt.Type != EventTypeAccountFunded {
		return state
	}
	if state.Funded == nil {
		state.Funded = make(map[principal.Principal]principal.Amount)
	}
	var payload AccountFundedPayload
	_ = json.Unmarshal(evt.PayloadJSON, &payload)
	state.Funded[payload.Airline] += payload.Amount
	state.Total += payload.Amount
	return state
}
