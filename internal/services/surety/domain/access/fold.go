package access

import (
	"encoding/json"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
)

// Fold applies an event to access state.
func Fold(state State, evt event.Event) State {
	if state.Relays == nil {
		state.Relays = make(map[principal.Principal]bool)
	}
	switch evt.Type {
	case EventTypeOwnerAssigned:
		var payload OwnerAssignedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.Owner = payload.Owner
		state.Operational = true
	case EventTypeOperationalChanged:
		var payload SetOperationalPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.Operational = payload.Operational
	case EventTypeCallerAuthorized:
		var payload CallerPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.Relays[payload.Caller] = true
	case EventTypeCallerDeauthorized:
		var payload CallerPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		delete(state.Relays, payload.Caller)
	}
	return state
}
