package access

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/command"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
)

const (
	CommandTypeSetOperational    command.Type = "access.set_operational"
	CommandTypeAuthorizeCaller   command.Type = "access.authorize_caller"
	CommandTypeDeauthorizeCaller command.Type = "access.deauthorize_caller"

	EventTypeOwnerAssigned      event.Type = "access.owner_assigned"
	EventTypeOperationalChanged event.Type = "access.operational_changed"
	EventTypeCallerAuthorized   event.Type = "access.caller_authorized"
	EventTypeCallerDeauthorized event.Type = "access.caller_deauthorized"

	entityTypeConsortium = "consortium"
	entityTypeCaller     = "caller"
	consortiumEntityID   = "consortium"

	rejectionCodeNotOperational  = "NOT_OPERATIONAL"
	rejectionCodeUnauthorized    = "UNAUTHORIZED"
	rejectionCodeInvalidArgument = "INVALID_ARGUMENT"
)

// Gate rejects a command when the consortium is not operational or when the
// command arrives through a relay that is not authorized. The operational
// switch itself always passes the operational check.
func Gate(state State, cmd command.Command) (command.Rejection, bool) {
	if !state.Operational && cmd.Type != CommandTypeSetOperational {
		return command.Rejection{Code: rejectionCodeNotOperational, Message: "consortium is not operational"}, false
	}
	if !cmd.RelayID.IsZero() && !state.IsRelayAuthorized(cmd.RelayID) {
		return command.Rejection{
			Code:     rejectionCodeUnauthorized,
			Message:  "relay is not authorized",
			Metadata: map[string]string{"Caller": string(cmd.RelayID)},
		}, false
	}
	return command.Rejection{}, true
}

// RequireLevel rejects callers below the required admission level.
func RequireLevel(caller principal.Principal, level, required Level) (command.Rejection, bool) {
	if level >= required {
		return command.Rejection{}, true
	}
	return command.Rejection{
		Code:     rejectionCodeUnauthorized,
		Message:  "caller is " + level.String() + ", requires " + required.String(),
		Metadata: map[string]string{"Caller": string(caller)},
	}, false
}

// Genesis returns the owner assignment event for an uninitialized state.
func Genesis(cmd command.Command, owner principal.Principal, now time.Time) event.Event {
	payloadJSON, _ := json.Marshal(OwnerAssignedPayload{Owner: owner})
	return command.NewEvent(cmd, EventTypeOwnerAssigned, entityTypeConsortium, consortiumEntityID, payloadJSON, now)
}

// Decide returns the decision for an access command against current state.
func Decide(state State, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}
	if cmd.ActorID != state.Owner || state.Owner.IsZero() {
		return command.Reject(command.Rejection{Code: rejectionCodeUnauthorized, Message: "only the owner may change access settings"})
	}

	switch cmd.Type {
	case CommandTypeSetOperational:
		var payload SetOperationalPayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		if payload.Operational == state.Operational {
			return command.Accept()
		}
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, EventTypeOperationalChanged, entityTypeConsortium, consortiumEntityID, payloadJSON, now().UTC()))

	case CommandTypeAuthorizeCaller, CommandTypeDeauthorizeCaller:
		var payload CallerPayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		caller := principal.Principal(strings.TrimSpace(string(payload.Caller)))
		if caller.IsZero() {
			return command.Reject(command.Rejection{Code: rejectionCodeInvalidArgument, Message: "caller is required"})
		}
		authorize := cmd.Type == CommandTypeAuthorizeCaller
		if state.IsRelayAuthorized(caller) == authorize {
			return command.Accept()
		}
		eventType := EventTypeCallerDeauthorized
		if authorize {
			eventType = EventTypeCallerAuthorized
		}
		payloadJSON, _ := json.Marshal(CallerPayload{Caller: caller})
		return command.Accept(command.NewEvent(cmd, eventType, entityTypeCaller, string(caller), payloadJSON, now().UTC()))
	}

	return command.Reject(command.Rejection{Code: rejectionCodeInvalidArgument, Message: "unsupported access command"})
}
