package surety

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	apperrors "github.com/louisbranch/flightsurety/internal/platform/errors"
	"github.com/louisbranch/flightsurety/internal/platform/errors/i18n"
	"github.com/louisbranch/flightsurety/internal/platform/logging"
	"github.com/louisbranch/flightsurety/internal/platform/requestctx"
	"github.com/louisbranch/flightsurety/internal/services/surety/api/grpc/suretyv1"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/aggregate"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/bus"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/command"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/engine"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/flight"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/oracle"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
	"github.com/louisbranch/flightsurety/internal/services/surety/storage"
)

// Engine executes commands and answers queries against folded state.
type Engine interface {
	Execute(ctx context.Context, cmd command.Command) (engine.Result, error)
	IsOperational() bool
	LastSeq() uint64
	EscrowBalance() principal.Amount
	Airline(id principal.Principal) (aggregate.AirlineView, bool)
	IsAirlineFunded(id principal.Principal) bool
	Flight(key flight.Key) (aggregate.FlightView, bool)
	Policy(passenger principal.Principal, key flight.Key) (aggregate.PolicyView, bool)
	Reporter(id principal.Principal) (oracle.Reporter, bool)
	IsPassengerRegistered(passenger principal.Principal) bool
}

// Journal lists journaled events.
type Journal interface {
	ListEvents(ctx context.Context, req storage.ListEventsRequest) ([]event.Event, error)
}

// Subscriber opens live event feeds.
type Subscriber interface {
	Subscribe(filter bus.Filter) *bus.Subscription
}

// Server implements suretyv1.SuretyServiceServer.
type Server struct {
	engine  Engine
	journal Journal
	events  Subscriber
	logger  *logging.Logger
}

var _ suretyv1.SuretyServiceServer = (*Server)(nil)

// NewServer creates the service.
func NewServer(engine Engine, journal Journal, events Subscriber, logger *logging.Logger) *Server {
	return &Server{engine: engine, journal: journal, events: events, logger: logger.Named("grpc")}
}

// callerPrincipal returns the principal making the call.
func callerPrincipal(ctx context.Context) (principal.Principal, error) {
	caller := requestctx.CallerFromContext(ctx)
	p, err := principal.Parse(caller.Principal)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeUnauthorized, "caller principal is required", err)
	}
	return p, nil
}

// statusError converts an error to a gRPC status with a localized message.
func (s *Server) statusError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	var domainErr *apperrors.Error
	if errors.As(err, &domainErr) {
		catalog := i18n.GetCatalog(requestctx.CallerFromContext(ctx).Locale)
		return domainErr.ToGRPCStatus(catalog.Locale(), catalog.Format(string(domainErr.Code), domainErr.Metadata))
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return status.Error(codes.Canceled, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	s.logger.Error("internal error", logging.Error(err))
	return status.Error(codes.Internal, "internal error")
}

func invalidArgument(message string, err error) error {
	return apperrors.Wrap(apperrors.CodeInvalidArgument, message, err)
}
