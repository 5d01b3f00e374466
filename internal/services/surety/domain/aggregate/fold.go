package aggregate

import (
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/access"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/airline"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/funding"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/insurance"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/oracle"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/payout"
)

// Fold applies an event to every component. Components ignore event types
// they do not consume.
func Fold(state State, evt event.Event) State {
	state.Access = access.Fold(state.Access, evt)
	state.Airlines = airline.Fold(state.Airlines, evt)
	state.Funding = funding.Fold(state.Funding, evt)
	state.Insurance = insurance.Fold(state.Insurance, evt)
	state.Oracle = oracle.Fold(state.Oracle, evt)
	state.Payout = payout.Fold(state.Payout, evt)
	if evt.Seq > state.LastSeq {
		state.LastSeq = evt.Seq
	}
	return state
}
