package access

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/command"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
)

// RegisterCommands registers access commands with the shared registry.
func RegisterCommands(registry *command.Registry) error {
	if registry == nil {
		return errors.New("command registry is required")
	}
	if err := registry.Register(command.Definition{
		Type:            CommandTypeSetOperational,
		ValidatePayload: validateSetOperationalPayload,
	}); err != nil {
		return err
	}
	if err := registry.Register(command.Definition{
		Type:            CommandTypeAuthorizeCaller,
		ValidatePayload: validateCallerPayload,
	}); err != nil {
		return err
	}
	return registry.Register(command.Definition{
		Type:            CommandTypeDeauthorizeCaller,
		ValidatePayload: validateCallerPayload,
	})
}

// RegisterEvents registers access events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	if err := registry.Register(event.Definition{
		Type:            EventTypeOwnerAssigned,
		ValidatePayload: validateOwnerAssignedPayload,
	}); err != nil {
		return err
	}
	if err := registry.Register(event.Definition{
		Type:            EventTypeOperationalChanged,
		ValidatePayload: validateSetOperationalPayload,
	}); err != nil {
		return err
	}
	if err := registry.Register(event.Definition{
		Type:            EventTypeCallerAuthorized,
		ValidatePayload: validateCallerPayload,
	}); err != nil {
		return err
	}
	return registry.Register(event.Definition{
		Type:            EventTypeCallerDeauthorized,
		ValidatePayload: validateCallerPayload,
	})
}

func validateSetOperationalPayload(raw json.RawMessage) error {
	var payload SetOperationalPayload
	return json.Unmarshal(raw, &payload)
}

func validateCallerPayload(raw json.RawMessage) error {
	var payload CallerPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(string(payload.Caller)) == "" {
		return errors.New("caller is required")
	}
	return nil
}

func validateOwnerAssignedPayload(raw json.RawMessage) error {
	var payload OwnerAssignedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(string(payload.Owner)) == "" {
		return errors.New("owner is required")
	}
	return nil
}
