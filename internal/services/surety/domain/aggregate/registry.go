package aggregate

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/access"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/airline"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/command"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/funding"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/insurance"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/oracle"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/payout"
)

// Registries bundles the command and event registries.
type Registries struct {
	Commands *command.Registry
	Events   *event.Registry
}

type componentRegistration struct {
	name     string
	commands func(*command.Registry) error
	events   func(*event.Registry) error
}

var components = []componentRegistration{
	{name: "access", commands: access.RegisterCommands, events: access.RegisterEvents},
	{name: "airline", commands: airline.RegisterCommands, events: airline.RegisterEvents},
	{name: "funding", commands: funding.RegisterCommands, events: funding.RegisterEvents},
	{name: "insurance", commands: insurance.RegisterCommands, events: insurance.RegisterEvents},
	{name: "oracle", commands: oracle.RegisterCommands, events: oracle.RegisterEvents},
	{name: "payout", commands: payout.RegisterCommands, events: payout.RegisterEvents},
}

// BuildRegistries registers every component's commands and events.
func BuildRegistries() (Registries, error) {
	registries := Registries{
		Commands: command.NewRegistry(),
		Events:   event.NewRegistry(),
	}
	for _, component := range components {
		if err := component.commands(registries.Commands); err != nil {
			return Registries{}, fmt.Errorf("register %s commands: %w", component.name, err)
		}
		if err := component.events(registries.Events); err != nil {
			return Registries{}, fmt.Errorf("register %s events: %w", component.name, err)
		}
	}
	err := registries.Commands.Register(command.Definition{
		Type:     CommandTypeGenesis,
		Internal: true,
		ValidatePayload: func(raw json.RawMessage) error {
			var payload GenesisPayload
			if err := json.Unmarshal(raw, &payload); err != nil {
				return err
			}
			if payload.Owner.IsZero() || payload.FirstAirline.IsZero() {
				return errors.New("owner and first airline are required")
			}
			return nil
		},
	})
	if err != nil {
		return Registries{}, fmt.Errorf("register genesis command: %w", err)
	}
	return registries, nil
}
