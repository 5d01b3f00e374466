package payout

import (
	"encoding/json"
	"time"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/command"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/flight"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/insurance"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
)

const (
	CommandTypeWithdraw command.Type = "payout.withdraw"

	EventTypePolicyCredited   event.Type = "payout.policy_credited"
	EventTypeInsureesCredited event.Type = "payout.insurees_credited"
	EventTypeWithdrawn        event.Type = "payout.withdrawn"

	rejectionCodeNothingToWithdraw = "NOTHING_TO_WITHDRAW"
	rejectionCodeInvalidArgument   = "INVALID_ARGUMENT"
)

// CreditInsurees returns the crediting events for a flight finalized with status.
// Only airline-fault delays pay out; policies already credited are skipped.
func CreditInsurees(state State, policies []insurance.Policy, key flight.Key, status flight.Status, cmd command.Command, now time.Time) []event.Event {
	if status != flight.StatusLateAirline {
		return nil
	}
	var events []event.Event
	var total principal.Amount
	credited := 0
	for _, policy := range policies {
		if existing, ok := state.Credit(policy.Passenger, key); ok && (existing.Credited > 0 || existing.Withdrawn) {
			continue
		}
		amount := PayoutFor(policy.Premium)
		if amount == 0 {
			continue
		}
		payloadJSON, _ := json.Marshal(PolicyCreditedPayload{
			Passenger: policy.Passenger,
			Flight:    key,
			Premium:   policy.Premium,
			Amount:    amount,
		})
		events = append(events, command.NewEvent(cmd, EventTypePolicyCredited, insurance.EntityTypePolicy, insurance.PolicyEntityID(policy.Passenger, key), payloadJSON, now))
		total += amount
		credited++
	}
	payloadJSON, _ := json.Marshal(InsureesCreditedPayload{Flight: key, Policies: credited, Total: total})
	events = append(events, command.NewEvent(cmd, EventTypeInsureesCredited, insurance.EntityTypeFlight, key.String(), payloadJSON, now))
	return events
}

// Decide returns the decision for a payout command against current state.
func Decide(state State, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}
	if cmd.Type != CommandTypeWithdraw {
		return command.Reject(command.Rejection{Code: rejectionCodeInvalidArgument, Message: "unsupported payout command"})
	}
	var payload WithdrawPayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	key := payload.Flight.Normalize()

	credit, ok := state.Credit(cmd.ActorID, key)
	if !ok || credit.Withdrawn || credit.Amount == 0 {
		return command.Reject(command.Rejection{
			Code:     rejectionCodeNothingToWithdraw,
			Message:  "no credit to withdraw",
			Metadata: map[string]string{"Flight": key.String()},
		})
	}
	payloadJSON, _ := json.Marshal(WithdrawnPayload{Passenger: cmd.ActorID, Flight: key, Amount: credit.Amount})
	return command.Accept(command.NewEvent(cmd, EventTypeWithdrawn, insurance.EntityTypePolicy, insurance.PolicyEntityID(cmd.ActorID, key), payloadJSON, now().UTC()))
}
