package payout

import (
	"encoding/json"
	"errors"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/command"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
)

// RegisterCommands registers payout commands with the shared registry.
func RegisterCommands(registry *command.Registry) error {
	if registry == nil {
		return errors.New("command registry is required")
	}
	return registry.Register(command.Definition{
		Type: CommandTypeWithdraw,
		ValidatePayload: func(raw json.RawMessage) error {
			var payload WithdrawPayload
			if err := json.Unmarshal(raw, &payload); err != nil {
				return err
			}
			return payload.Flight.Validate()
		},
	})
}

// RegisterEvents registers payout events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	if err := registry.Register(event.Definition{
		Type: EventTypePolicyCredited,
		ValidatePayload: func(raw json.RawMessage) error {
			var payload PolicyCreditedPayload
			if err := json.Unmarshal(raw, &payload); err != nil {
				return err
			}
			if payload.Passenger.IsZero() || payload.Amount == 0 {
				return errors.New("passenger and amount are required")
			}
			return payload.Flight.Validate()
		},
	}); err != nil {
		return err
	}
	if err := registry.Register(event.Definition{
		Type: EventTypeInsureesCredited,
		ValidatePayload: func(raw json.RawMessage) error {
			var payload InsureesCreditedPayload
			if err := json.Unmarshal(raw, &payload); err != nil {
				return err
			}
			return payload.Flight.Validate()
		},
	}); err != nil {
		return err
	}
	return registry.Register(event.Definition{
		Type: EventTypeWithdrawn,
		ValidatePayload: func(raw json.RawMessage) error {
			var payload WithdrawnPayload
			if err := json.Unmarshal(raw, &payload); err != nil {
				return err
			}
			if payload.Passenger.IsZero() || payload.Amount == 0 {
				return errors.New("passenger and amount are required")
			}
			return payload.Flight.Validate()
		},
	})
}
