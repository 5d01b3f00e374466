package oracle

import (
	"encoding/json"
	"time"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/command"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/flight"
)

const (
	CommandTypeRegisterReporter command.Type = "oracle.register_reporter"
	CommandTypeRequestStatus    command.Type = "oracle.request_status"
	CommandTypeSubmitResponse   command.Type = "oracle.submit_response"

	EventTypeReporterRegistered event.Type = "oracle.reporter_registered"
	EventTypeRequest            event.Type = "oracle.request"
	EventTypeReport             event.Type = "oracle.report"
	EventTypeFlightStatusInfo   event.Type = "oracle.flight_status_info"

	entityTypeReporter = "reporter"
	entityTypeFlight   = "flight"

	rejectionCodeInsufficientFee = "INSUFFICIENT_FEE"
	rejectionCodeUnknownFlight   = "UNKNOWN_FLIGHT"
	rejectionCodeAlreadyResolved = "ALREADY_RESOLVED"
	rejectionCodeInvalidArgument = "INVALID_ARGUMENT"
)

// FlightDirectory answers whether a flight is registered.
type FlightDirectory interface {
	HasFlight(flight.Key) bool
}

// Decide returns the decision for an oracle command against current state.
func Decide(state State, flights FlightDirectory, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}
	switch cmd.Type {
	case CommandTypeRegisterReporter:
		return decideRegisterReporter(state, cmd, now().UTC())
	case CommandTypeRequestStatus:
		return decideRequestStatus(state, flights, cmd, now().UTC())
	case CommandTypeSubmitResponse:
		return decideSubmitResponse(state, cmd, now().UTC())
	}
	return command.Reject(command.Rejection{Code: rejectionCodeInvalidArgument, Message: "unsupported oracle command"})
}

func decideRegisterReporter(state State, cmd command.Command, now time.Time) command.Decision {
	if cmd.Value < RegistrationFee {
		return command.Reject(command.Rejection{
			Code:     rejectionCodeInsufficientFee,
			Message:  "registration requires a fee of " + RegistrationFee.String(),
			Metadata: map[string]string{"Fee": RegistrationFee.String()},
		})
	}
	if _, ok := state.Reporter(cmd.ActorID); ok {
		return command.Accept()
	}
	payloadJSON, _ := json.Marshal(ReporterRegisteredPayload{
		Reporter: cmd.ActorID,
		Indexes:  DeriveIndexes(cmd.ActorID, state.Registrations),
		Fee:      cmd.Value,
		Counter:  state.Registrations,
	})
	return command.Accept(command.NewEvent(cmd, EventTypeReporterRegistered, entityTypeReporter, string(cmd.ActorID), payloadJSON, now))
}

func decideRequestStatus(state State, flights FlightDirectory, cmd command.Command, now time.Time) command.Decision {
	var payload RequestStatusPayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	key := payload.Flight.Normalize()
	metadata := map[string]string{"Flight": key.String()}
	if flights == nil || !flights.HasFlight(key) {
		return command.Reject(command.Rejection{Code: rejectionCodeUnknownFlight, Message: "flight is not registered", Metadata: metadata})
	}

	round, exists := state.Round(key)
	if exists && round.Resolved {
		return command.Reject(command.Rejection{Code: rejectionCodeAlreadyResolved, Message: "flight status already resolved", Metadata: metadata})
	}
	request := OracleRequestPayload{Flight: key}
	if exists && round.Open {
		request.Index = round.Index
		request.Reissued = true
	} else {
		request.Index = DeriveRequestIndex(key, state.Requests)
	}
	payloadJSON, _ := json.Marshal(request)
	return command.Accept(command.NewEvent(cmd, EventTypeRequest, entityTypeFlight, key.String(), payloadJSON, now))
}

// decideSubmitResponse accepts every submission; only responses that fit an
// open round produce events.
func decideSubmitResponse(state State, cmd command.Command, now time.Time) command.Decision {
	var payload SubmitResponsePayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	key := payload.Flight.Normalize()

	reporter, ok := state.Reporter(cmd.ActorID)
	if !ok || !reporter.HasIndex(payload.Index) || !payload.Status.Valid() {
		return command.Accept()
	}
	round, ok := state.Round(key)
	if !ok || !round.Open || round.Index != payload.Index {
		return command.Accept()
	}
	if _, responded := round.Responses[reporter.ID]; responded {
		return command.Accept()
	}

	payloadJSON, _ := json.Marshal(OracleReportPayload{
		Reporter: reporter.ID,
		Flight:   key,
		Index:    payload.Index,
		Status:   payload.Status,
	})
	events := []event.Event{command.NewEvent(cmd, EventTypeReport, entityTypeFlight, key.String(), payloadJSON, now)}
	if reports := round.Tally[payload.Status] + 1; reports >= MinimumQuorum {
		payloadJSON, _ := json.Marshal(FlightStatusInfoPayload{
			Flight:  key,
			Index:   round.Index,
			Status:  payload.Status,
			Reports: reports,
		})
		events = append(events, command.NewEvent(cmd, EventTypeFlightStatusInfo, entityTypeFlight, key.String(), payloadJSON, now))
	}
	return command.Accept(events...)
}
