package funding

import (
	"encoding/json"
	"errors"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/command"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
)

// RegisterCommands registers funding commands with the shared registry.
func RegisterCommands(registry *command.Registry) error {
	if registry == nil {
		return errors.New("command registry is required")
	}
	return registry.Register(command.Definition{Type: CommandTypeFund, AcceptsValue: true})
}

// RegisterEvents registers funding events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	return registry.Register(event.Definition{
		Type: EventTypeAccountFunded,
		ValidatePayload: func(raw json.RawMessage) error {
			var payload AccountFundedPayload
			if err := json.Unmarshal(raw, &payload); err != nil {
				return err
			}
			if payload.Airline.IsZero() {
				return errors.New("airline is required")
			}
			if payload.Amount == 0 {
				return errors.New("amount must be positive")
			}
			return nil
		},
	})
}
