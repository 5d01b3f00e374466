package surety

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	apperrors "github.com/louisbranch/flightsurety/internal/platform/errors"
	"github.com/louisbranch/flightsurety/internal/services/surety/api/grpc/suretyv1"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/airline"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
	"github.com/louisbranch/flightsurety/internal/services/surety/storage"
	"github.com/louisbranch/flightsurety/internal/services/surety/storage/filter"
)

func (s *Server) respond(ctx context.Context, v any) (*structpb.Struct, error) {
	out, err := suretyv1.Encode(v)
	if err != nil {
		return nil, s.statusError(ctx, err)
	}
	return out, nil
}

// principalOrCaller resolves an optional principal, defaulting to the caller.
func principalOrCaller(ctx context.Context, p principal.Principal) (principal.Principal, error) {
	if !p.IsZero() {
		return principal.Parse(string(p))
	}
	return callerPrincipal(ctx)
}

// GetStatus reports the operational switch, journal head and escrow.
func (s *Server) GetStatus(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return s.respond(ctx, suretyv1.StatusResponse{
		Operational: s.engine.IsOperational(),
		LastSeq:     s.engine.LastSeq(),
		Escrow:      s.engine.EscrowBalance(),
	})
}

// GetAirline describes an airline.
func (s *Server) GetAirline(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req suretyv1.AirlineRequest
	if err := suretyv1.Decode(in, &req); err != nil {
		return nil, s.statusError(ctx, invalidArgument("decode request", err))
	}
	id, err := principal.Parse(string(req.Airline))
	if err != nil {
		return nil, s.statusError(ctx, invalidArgument("airline is required", err))
	}
	view, ok := s.engine.Airline(id)
	if !ok {
		return nil, s.statusError(ctx, apperrors.WithMetadata(apperrors.CodeUnknownAirline, "airline not found", map[string]string{"Airline": string(id)}))
	}
	return s.respond(ctx, suretyv1.AirlineResponse{
		Airline:    view.ID,
		Status:     view.Status.String(),
		Sponsor:    view.Sponsor,
		Funded:     view.Funded,
		Votes:      view.Votes,
		Registered: view.Status.Member(),
		Activated:  view.Status == airline.StatusActivated,
		IsFunded:   s.engine.IsAirlineFunded(id),
	})
}

// GetFlight describes a registered flight.
func (s *Server) GetFlight(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req suretyv1.FlightRequest
	if err := suretyv1.Decode(in, &req); err != nil {
		return nil, s.statusError(ctx, invalidArgument("decode request", err))
	}
	key := req.Flight.Normalize()
	view, ok := s.engine.Flight(key)
	if !ok {
		return nil, s.statusError(ctx, apperrors.WithMetadata(apperrors.CodeUnknownFlight, "flight not found", map[string]string{"Flight": key.String()}))
	}
	return s.respond(ctx, suretyv1.FlightResponse{
		Flight:         view.Key,
		Status:         view.Status.String(),
		StatusCode:     uint8(view.Status),
		Finalized:      view.Finalized,
		Phase:          string(view.Phase),
		RequestedIndex: view.RequestedIndex,
		Reports:        view.Reports,
		Policies:       view.Policies,
	})
}

// GetPolicy describes a passenger's policy on a flight.
func (s *Server) GetPolicy(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req suretyv1.PolicyRequest
	if err := suretyv1.Decode(in, &req); err != nil {
		return nil, s.statusError(ctx, invalidArgument("decode request", err))
	}
	passenger, err := principalOrCaller(ctx, req.Passenger)
	if err != nil {
		return nil, s.statusError(ctx, err)
	}
	key := req.Flight.Normalize()
	view, ok := s.engine.Policy(passenger, key)
	if !ok {
		return nil, s.statusError(ctx, apperrors.New(apperrors.CodeNotFound, "policy not found"))
	}
	return s.respond(ctx, suretyv1.PolicyResponse{
		Passenger:       view.Passenger,
		Flight:          view.Flight,
		Premium:         view.Premium,
		CreditedAmount:  view.CreditedAmount,
		Withdrawn:       view.Withdrawn,
		WithdrawnAmount: view.WithdrawnAmount,
	})
}

// GetReporter describes a registered reporter, including its index set.
func (s *Server) GetReporter(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req suretyv1.ReporterRequest
	if err := suretyv1.Decode(in, &req); err != nil {
		return nil, s.statusError(ctx, invalidArgument("decode request", err))
	}
	id, err := principalOrCaller(ctx, req.Reporter)
	if err != nil {
		return nil, s.statusError(ctx, err)
	}
	reporter, ok := s.engine.Reporter(id)
	if !ok {
		return nil, s.statusError(ctx, apperrors.New(apperrors.CodeNotFound, "reporter not found"))
	}
	return s.respond(ctx, suretyv1.ReporterResponse{
		Reporter: reporter.ID,
		Indexes:  reporter.Indexes,
		Fee:      reporter.Fee,
	})
}

// GetPassenger reports whether a passenger registered itself.
func (s *Server) GetPassenger(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req suretyv1.PassengerRequest
	if err := suretyv1.Decode(in, &req); err != nil {
		return nil, s.statusError(ctx, invalidArgument("decode request", err))
	}
	passenger, err := principalOrCaller(ctx, req.Passenger)
	if err != nil {
		return nil, s.statusError(ctx, err)
	}
	return s.respond(ctx, suretyv1.PassengerResponse{
		Passenger:  passenger,
		Registered: s.engine.IsPassengerRegistered(passenger),
	})
}

// ListEvents pages the journal with an optional AIP-160 filter.
func (s *Server) ListEvents(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req suretyv1.ListEventsRequest
	if err := suretyv1.Decode(in, &req); err != nil {
		return nil, s.statusError(ctx, invalidArgument("decode request", err))
	}
	if _, err := filter.ParsePredicate(req.Filter); err != nil {
		return nil, s.statusError(ctx, invalidArgument("invalid filter", err))
	}
	events, err := s.journal.ListEvents(ctx, storage.ListEventsRequest{AfterSeq: req.AfterSeq, Limit: req.Limit, Filter: req.Filter})
	if err != nil {
		return nil, s.statusError(ctx, err)
	}
	next := req.AfterSeq
	if n := len(events); n > 0 {
		next = events[n-1].Seq
	}
	return s.respond(ctx, suretyv1.ListEventsResponse{Events: suretyv1.EventsFromDomain(events), NextSeq: next})
}
