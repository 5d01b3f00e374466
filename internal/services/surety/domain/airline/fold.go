package airline

import (
	"encoding/json"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
)

// Fold applies an event to membership state.
func Fold(state State, evt event.Event) State {
	if state.Airlines == nil {
		state.Airlines = make(map[principal.Principal]Airline)
	}
	switch evt.Type {
	case EventTypeNominated:
		var payload NominatedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if state.Status(payload.Airline) != StatusNone {
			return state
		}
		state.Airlines[payload.Airline] = Airline{
			ID:      payload.Airline,
			Status:  StatusNominated,
			Sponsor: payload.Sponsor,
			Votes:   make(map[principal.Principal]bool),
		}
	case EventTypeVoted:
		var payload VotedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		nominee, ok := state.Airlines[payload.Airline]
		if !ok || nominee.Status != StatusNominated {
			return state
		}
		if nominee.Votes == nil {
			nominee.Votes = make(map[principal.Principal]bool)
		}
		nominee.Votes[payload.Voter] = true
		state.Airlines[payload.Airline] = nominee
	case EventTypeRegistered:
		var payload RegisteredPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state = promote(state, payload.Airline, StatusRegistered, payload.Sponsor)
	case EventTypeActivated:
		var payload ActivatedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state = promote(state, payload.Airline, StatusActivated, "")
	}
	return state
}

// promote raises an airline's status; status never regresses.
func promote(state State, id principal.Principal, status Status, sponsor principal.Principal) State {
	current := state.Airlines[id]
	if current.Status >= status {
		return state
	}
	if !current.Status.Member() && status.Member() {
		state.members++
	}
	current.ID = id
	current.Status = status
	current.Votes = nil
	if current.Sponsor.IsZero() {
		current.Sponsor = sponsor
	}
	state.Airlines[id] = current
	return state
}
