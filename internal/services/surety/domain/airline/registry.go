package airline

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/command"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
)

// RegisterCommands registers airline commands with the shared registry.
func RegisterCommands(registry *command.Registry) error {
	if registry == nil {
		return errors.New("command registry is required")
	}
	if err := registry.Register(command.Definition{
		Type:            CommandTypeNominate,
		ValidatePayload: validateCandidatePayload,
	}); err != nil {
		return err
	}
	return registry.Register(command.Definition{
		Type:            CommandTypeVote,
		ValidatePayload: validateCandidatePayload,
	})
}

// RegisterEvents registers airline events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	if err := registry.Register(event.Definition{
		Type:            EventTypeNominated,
		ValidatePayload: validateAirlineField,
	}); err != nil {
		return err
	}
	if err := registry.Register(event.Definition{
		Type: EventTypeVoted,
		ValidatePayload: func(raw json.RawMessage) error {
			var payload VotedPayload
			if err := json.Unmarshal(raw, &payload); err != nil {
				return err
			}
			if payload.Voter.IsZero() {
				return errors.New("voter is required")
			}
			return requireAirline(payload.Airline)
		},
	}); err != nil {
		return err
	}
	if err := registry.Register(event.Definition{
		Type:            EventTypeRegistered,
		ValidatePayload: validateAirlineField,
	}); err != nil {
		return err
	}
	return registry.Register(event.Definition{
		Type:            EventTypeActivated,
		ValidatePayload: validateAirlineField,
	})
}

func validateCandidatePayload(raw json.RawMessage) error {
	var payload CandidatePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(string(payload.Candidate)) == "" {
		return errors.New("candidate is required")
	}
	return nil
}

func validateAirlineField(raw json.RawMessage) error {
	var payload struct {
		Airline principal.Principal `json:"airline"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	return requireAirline(payload.Airline)
}

func requireAirline(id principal.Principal) error {
	if strings.TrimSpace(string(id)) == "" {
		return errors.New("airline is required")
	}
	return nil
}
