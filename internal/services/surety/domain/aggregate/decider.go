package aggregate

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/access"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/airline"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/command"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/funding"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/insurance"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/oracle"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/payout"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
)

const (
	// CommandTypeGenesis assigns the owner and registers the first airline.
	CommandTypeGenesis command.Type = "consortium.genesis"

	rejectionCodeNotOperational  = "NOT_OPERATIONAL"
	rejectionCodeInvalidArgument = "INVALID_ARGUMENT"
)

// GenesisPayload captures the payload for consortium.genesis commands.
type GenesisPayload struct {
	Owner        principal.Principal `json:"owner"`
	FirstAirline principal.Principal `json:"first_airline"`
}

// Decide returns the decision for any consortium command.
func Decide(state State, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}
	if cmd.Type == CommandTypeGenesis {
		return decideGenesis(state, cmd, now().UTC())
	}
	if !state.Access.Initialized() {
		return command.Reject(command.Rejection{Code: rejectionCodeNotOperational, Message: "consortium has no owner yet"})
	}
	if rejection, ok := access.Gate(state.Access, cmd); !ok {
		return command.Reject(rejection)
	}

	switch cmd.Type.Domain() {
	case "access":
		return access.Decide(state.Access, cmd, now)
	case "airline":
		return airline.Decide(state.Airlines, cmd, now)
	case "funding":
		return funding.Decide(state.Funding, state.Airlines, cmd, now)
	case "insurance":
		return insurance.Decide(state.Insurance, state.Airlines, cmd, now)
	case "oracle":
		return withPayouts(state, cmd, oracle.Decide(state.Oracle, state.Insurance, cmd, now))
	case "payout":
		return payout.Decide(state.Payout, cmd, now)
	}
	return command.Reject(command.Rejection{Code: rejectionCodeInvalidArgument, Message: "unsupported command " + string(cmd.Type)})
}

func decideGenesis(state State, cmd command.Command, now time.Time) command.Decision {
	if state.Access.Initialized() {
		return command.Accept()
	}
	var payload GenesisPayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	owner := principal.Principal(strings.TrimSpace(string(payload.Owner)))
	first := principal.Principal(strings.TrimSpace(string(payload.FirstAirline)))
	if owner.IsZero() || first.IsZero() {
		return command.Reject(command.Rejection{Code: rejectionCodeInvalidArgument, Message: "owner and first airline are required"})
	}
	return command.Accept(
		access.Genesis(cmd, owner, now),
		airline.Genesis(cmd, first, now),
	)
}

// withPayouts appends payout crediting after every finalization in an oracle
// decision.
func withPayouts(state State, cmd command.Command, decision command.Decision) command.Decision {
	if decision.Rejected() {
		return decision
	}
	events := make([]event.Event, 0, len(decision.Events))
	for _, evt := range decision.Events {
		events = append(events, evt)
		if evt.Type != oracle.EventTypeFlightStatusInfo {
			continue
		}
		var info oracle.FlightStatusInfoPayload
		_ = json.Unmarshal(evt.PayloadJSON, &info)
		policies := state.Insurance.PoliciesFor(info.Flight)
		events = append(events, payout.CreditInsurees(state.Payout, policies, info.Flight, info.Status, cmd, evt.Timestamp)...)
	}
	decision.Events = events
	return decision
}
