package funding

import (
	"encoding/json"
	"time"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/airline"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/command"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
)

const (
	CommandTypeFund command.Type = "funding.fund"

	EventTypeAccountFunded event.Type = "funding.account_funded"

	rejectionCodeUnknownAirline  = "UNKNOWN_AIRLINE"
	rejectionCodeUnauthorized    = "UNAUTHORIZED"
	rejectionCodeInvalidArgument = "INVALID_ARGUMENT"
)

// Decide returns the decision for a funding command. The caller funds its
// own account with the value attached to the command.
func Decide(state State, airlines airline.State, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}
	if cmd.Type != CommandTypeFund {
		return command.Reject(command.Rejection{Code: rejectionCodeInvalidArgument, Message: "unsupported funding command"})
	}
	id := cmd.ActorID
	metadata := map[string]string{"Airline": string(id)}
	status := airlines.Status(id)
	switch {
	case status == airline.StatusNone:
		return command.Reject(command.Rejection{Code: rejectionCodeUnknownAirline, Message: "airline is not known", Metadata: metadata})
	case !status.Member():
		return command.Reject(command.Rejection{Code: rejectionCodeUnauthorized, Message: "airline is not registered", Metadata: metadata})
	}
	if cmd.Value == 0 {
		return command.Reject(command.Rejection{Code: rejectionCodeInvalidArgument, Message: "funding amount must be positive"})
	}
	previous := state.FundedAmount(id)
	total, ok := previous.Add(cmd.Value)
	if !ok {
		return command.Reject(command.Rejection{Code: rejectionCodeInvalidArgument, Message: "funding amount overflows"})
	}

	at := now().UTC()
	payloadJSON, _ := json.Marshal(AccountFundedPayload{Airline: id, Amount: cmd.Value, Total: total})
	events := []event.Event{command.NewEvent(cmd, EventTypeAccountFunded, airline.EntityType, string(id), payloadJSON, at)}
	if status == airline.StatusRegistered && previous < ActivationThreshold && total >= ActivationThreshold {
		payloadJSON, _ := json.Marshal(airline.ActivatedPayload{Airline: id, Funded: total})
		events = append(events, command.NewEvent(cmd, airline.EventTypeActivated, airline.EntityType, string(id), payloadJSON, at))
	}
	return command.Accept(events...)
}
