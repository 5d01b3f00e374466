package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/louisbranch/flightsurety/internal/platform/logging"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/aggregate"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/flight"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/oracle"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
	"github.com/louisbranch/flightsurety/internal/services/surety/storage"
)

// State answers read-only queries against folded state.
type State interface {
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

// Router is the query API router.
type Router struct {
	handler    *Handler
	middleware *Middleware
}

// NewRouter creates the router.
func NewRouter(state State, journal Journal, logger *logging.Logger) *Router {
	return &Router{
		handler:    NewHandler(state, journal, logger),
		middleware: NewMiddleware(logger),
	}
}

// Routes returns the HTTP handler.
func (r *Router) Routes() http.Handler {
	router := chi.NewRouter()

	router.Use(r.middleware.RequestID)
	router.Use(r.middleware.Logger)
	router.Use(r.middleware.Recoverer)

	router.Get("/healthz", r.handler.GetHealth)

	router.Route("/api/v1", func(router chi.Router) {
		router.Get("/status", r.handler.GetStatus)
		router.Get("/escrow", r.handler.GetEscrow)

		router.Get("/airlines/{id}", r.handler.GetAirline)

		router.Route("/flights/{airline}/{code}/{scheduledAt}", func(router chi.Router) {
			router.Get("/", r.handler.GetFlight)
			router.Get("/policies/{passenger}", r.handler.GetPolicy)
		})

		router.Get("/reporters/{id}", r.handler.GetReporter)
		router.Get("/passengers/{id}", r.handler.GetPassenger)

		router.Get("/events", r.handler.ListEvents)
	})

	return router
}
