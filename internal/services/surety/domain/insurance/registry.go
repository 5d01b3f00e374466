package insurance

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/command"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
)

// RegisterCommands registers insurance commands with the shared registry.
func RegisterCommands(registry *command.Registry) error {
	if registry == nil {
		return errors.New("command registry is required")
	}
	if err := registry.Register(command.Definition{
		Type: CommandTypeRegisterFlight,
		ValidatePayload: func(raw json.RawMessage) error {
			var payload RegisterFlightPayload
			if err := json.Unmarshal(raw, &payload); err != nil {
				return err
			}
			if strings.TrimSpace(payload.Code) == "" {
				return errors.New("flight code is required")
			}
			if payload.ScheduledAt <= 0 {
				return errors.New("scheduled_at must be positive")
			}
			return nil
		},
	}); err != nil {
		return err
	}
	if err := registry.Register(command.Definition{
		Type:            CommandTypeBuyPolicy,
		ValidatePayload: validateFlightPayload,
		AcceptsValue:    true,
	}); err != nil {
		return err
	}
	return registry.Register(command.Definition{Type: CommandTypeRegisterPassenger})
}

// RegisterEvents registers insurance events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	if err := registry.Register(event.Definition{
		Type:            EventTypeFlightRegistered,
		ValidatePayload: validateFlightPayload,
	}); err != nil {
		return err
	}
	if err := registry.Register(event.Definition{
		Type: EventTypePolicyPurchased,
		ValidatePayload: func(raw json.RawMessage) error {
			var payload PolicyPurchasedPayload
			if err := json.Unmarshal(raw, &payload); err != nil {
				return err
			}
			if payload.Passenger.IsZero() {
				return errors.New("passenger is required")
			}
			if payload.Premium == 0 || payload.Premium > MaxPremium {
				return errors.New("premium out of range")
			}
			return payload.Flight.Validate()
		},
	}); err != nil {
		return err
	}
	return registry.Register(event.Definition{
		Type: EventTypePassengerRegistered,
		ValidatePayload: func(raw json.RawMessage) error {
			var payload PassengerRegisteredPayload
			if err := json.Unmarshal(raw, &payload); err != nil {
				return err
			}
			if payload.Passenger.IsZero() {
				return errors.New("passenger is required")
			}
			return nil
		},
	})
}

func validateFlightPayload(raw json.RawMessage) error {
	var payload FlightPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	return payload.Flight.Validate()
}
