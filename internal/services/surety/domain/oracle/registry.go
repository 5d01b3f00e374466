package oracle

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/command"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/flight"
)

// RegisterCommands registers oracle commands with the shared registry.
func RegisterCommands(registry *command.Registry) error {
	if registry == nil {
		return errors.New("command registry is required")
	}
	if err := registry.Register(command.Definition{Type: CommandTypeRegisterReporter, AcceptsValue: true}); err != nil {
		return err
	}
	if err := registry.Register(command.Definition{
		Type:            CommandTypeRequestStatus,
		ValidatePayload: validateFlightField,
	}); err != nil {
		return err
	}
	// Submissions are shape-checked only; relevance is decided against state
	// so that stray reports are dropped rather than rejected.
	return registry.Register(command.Definition{
		Type:            CommandTypeSubmitResponse,
		ValidatePayload: validateFlightField,
	})
}

// RegisterEvents registers oracle events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	if err := registry.Register(event.Definition{
		Type: EventTypeReporterRegistered,
		ValidatePayload: func(raw json.RawMessage) error {
			var payload ReporterRegisteredPayload
			if err := json.Unmarshal(raw, &payload); err != nil {
				return err
			}
			if payload.Reporter.IsZero() {
				return errors.New("reporter is required")
			}
			if len(payload.Indexes) != IndexesPerReporter {
				return fmt.Errorf("reporter needs %d indexes", IndexesPerReporter)
			}
			for _, idx := range payload.Indexes {
				if err := validateIndex(idx); err != nil {
					return err
				}
			}
			return nil
		},
	}); err != nil {
		return err
	}
	if err := registry.Register(event.Definition{
		Type: EventTypeRequest,
		ValidatePayload: func(raw json.RawMessage) error {
			var payload OracleRequestPayload
			if err := json.Unmarshal(raw, &payload); err != nil {
				return err
			}
			if err := validateIndex(payload.Index); err != nil {
				return err
			}
			return payload.Flight.Validate()
		},
	}); err != nil {
		return err
	}
	if err := registry.Register(event.Definition{
		Type: EventTypeReport,
		ValidatePayload: func(raw json.RawMessage) error {
			var payload OracleReportPayload
			if err := json.Unmarshal(raw, &payload); err != nil {
				return err
			}
			return validateReport(payload.Flight, payload.Index, payload.Status)
		},
	}); err != nil {
		return err
	}
	return registry.Register(event.Definition{
		Type: EventTypeFlightStatusInfo,
		ValidatePayload: func(raw json.RawMessage) error {
			var payload FlightStatusInfoPayload
			if err := json.Unmarshal(raw, &payload); err != nil {
				return err
			}
			return validateReport(payload.Flight, payload.Index, payload.Status)
		},
	})
}

func validateFlightField(raw json.RawMessage) error {
	var payload RequestStatusPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	return payload.Flight.Validate()
}

func validateIndex(idx int) error {
	if idx < 0 || idx >= IndexSpace {
		return fmt.Errorf("index %d out of range", idx)
	}
	return nil
}

func validateReport(key flight.Key, idx int, status flight.Status) error {
	if err := validateIndex(idx); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("undefined flight status %s", status)
	}
	return key.Validate()
}
