package insurance

import (
	"encoding/json"
	"time"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/airline"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/command"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/flight"
)

const (
	CommandTypeRegisterFlight    command.Type = "insurance.register_flight"
	CommandTypeBuyPolicy         command.Type = "insurance.buy_policy"
	CommandTypeRegisterPassenger command.Type = "insurance.register_passenger"

	EventTypeFlightRegistered    event.Type = "insurance.flight_registered"
	EventTypePolicyPurchased     event.Type = "insurance.policy_purchased"
	EventTypePassengerRegistered event.Type = "insurance.passenger_registered"

	// EntityTypeFlight addresses flight events.
	EntityTypeFlight = "flight"
	// EntityTypePolicy addresses policy events.
	EntityTypePolicy = "policy"

	entityTypePassenger = "passenger"

	rejectionCodeNotActivated        = "NOT_ACTIVATED"
	rejectionCodeDuplicateFlight     = "DUPLICATE_FLIGHT"
	rejectionCodeUnknownFlight       = "UNKNOWN_FLIGHT"
	rejectionCodeFlightFinalized     = "FLIGHT_FINALIZED"
	rejectionCodePremiumExceedsLimit = "PREMIUM_EXCEEDS_LIMIT"
	rejectionCodeDuplicatePolicy     = "DUPLICATE_POLICY"
	rejectionCodeInvalidArgument     = "INVALID_ARGUMENT"
)

// Decide returns the decision for an insurance command against current state.
func Decide(state State, airlines airline.State, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}
	switch cmd.Type {
	case CommandTypeRegisterFlight:
		return decideRegisterFlight(state, airlines, cmd, now().UTC())
	case CommandTypeBuyPolicy:
		return decideBuyPolicy(state, cmd, now().UTC())
	case CommandTypeRegisterPassenger:
		if state.IsPassengerRegistered(cmd.ActorID) {
			return command.Accept()
		}
		payloadJSON, _ := json.Marshal(PassengerRegisteredPayload{Passenger: cmd.ActorID})
		return command.Accept(command.NewEvent(cmd, EventTypePassengerRegistered, entityTypePassenger, string(cmd.ActorID), payloadJSON, now().UTC()))
	}
	return command.Reject(command.Rejection{Code: rejectionCodeInvalidArgument, Message: "unsupported insurance command"})
}

func decideRegisterFlight(state State, airlines airline.State, cmd command.Command, now time.Time) command.Decision {
	if !airlines.IsActivated(cmd.ActorID) {
		return command.Reject(command.Rejection{
			Code:     rejectionCodeNotActivated,
			Message:  "airline is not activated",
			Metadata: map[string]string{"Airline": string(cmd.ActorID)},
		})
	}
	var payload RegisterFlightPayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	key := flight.Key{Airline: cmd.ActorID, Code: payload.Code, ScheduledAt: payload.ScheduledAt}.Normalize()
	if err := key.Validate(); err != nil {
		return command.Reject(command.Rejection{Code: rejectionCodeInvalidArgument, Message: err.Error()})
	}
	if state.HasFlight(key) {
		return command.Reject(command.Rejection{
			Code:     rejectionCodeDuplicateFlight,
			Message:  "flight already registered",
			Metadata: map[string]string{"Flight": key.String()},
		})
	}
	payloadJSON, _ := json.Marshal(FlightPayload{Flight: key})
	return command.Accept(command.NewEvent(cmd, EventTypeFlightRegistered, EntityTypeFlight, key.String(), payloadJSON, now))
}

func decideBuyPolicy(state State, cmd command.Command, now time.Time) command.Decision {
	var payload FlightPayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	key := payload.Flight.Normalize()
	metadata := map[string]string{"Flight": key.String()}

	registered, ok := state.Flight(key)
	if !ok {
		return command.Reject(command.Rejection{Code: rejectionCodeUnknownFlight, Message: "flight is not registered", Metadata: metadata})
	}
	if registered.Finalized {
		return command.Reject(command.Rejection{Code: rejectionCodeFlightFinalized, Message: "flight status is final", Metadata: metadata})
	}
	if cmd.Value == 0 || cmd.Value > MaxPremium {
		return command.Reject(command.Rejection{
			Code:     rejectionCodePremiumExceedsLimit,
			Message:  "premium must be positive and at most " + MaxPremium.String(),
			Metadata: map[string]string{"Max": MaxPremium.String()},
		})
	}
	if _, exists := state.Policy(cmd.ActorID, key); exists {
		return command.Reject(command.Rejection{Code: rejectionCodeDuplicatePolicy, Message: "passenger already insured on flight", Metadata: metadata})
	}
	payloadJSON, _ := json.Marshal(PolicyPurchasedPayload{Passenger: cmd.ActorID, Flight: key, Premium: cmd.Value})
	return command.Accept(command.NewEvent(cmd, EventTypePolicyPurchased, EntityTypePolicy, PolicyEntityID(cmd.ActorID, key), payloadJSON, now))
}
