package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/louisbranch/flightsurety/internal/platform/errors"
	"github.com/louisbranch/flightsurety/internal/platform/errors/i18n"
	"github.com/louisbranch/flightsurety/internal/platform/logging"
	"github.com/louisbranch/flightsurety/internal/services/surety/api/grpc/suretyv1"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/airline"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/flight"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
	"github.com/louisbranch/flightsurety/internal/services/surety/storage"
	"github.com/louisbranch/flightsurety/internal/services/surety/storage/filter"
)

// Handler serves the query endpoints.
type Handler struct {
	state   State
	journal Journal
	logger  *logging.Logger
}

// NewHandler creates a handler.
func NewHandler(state State, journal Journal, logger *logging.Logger) *Handler {
	return &Handler{state: state, journal: journal, logger: logger.Named("http")}
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("write response", logging.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *apperrors.Error
	if !errors.As(err, &domainErr) {
		h.logger.Error("query failed", logging.String("path", r.URL.Path), logging.Error(err))
		domainErr = apperrors.Wrap(apperrors.CodeUnknown, "internal error", err)
	}
	catalog := i18n.GetCatalog(r.Header.Get("Accept-Language"))
	w.Header().Set("Content-Language", catalog.Locale())
	h.writeJSON(w, domainErr.Code.HTTPStatus(), ErrorResponse{
		Code:    string(domainErr.Code),
		Message: catalog.Format(string(domainErr.Code), domainErr.Metadata),
		Details: domainErr.Metadata,
	})
}

func pathPrincipal(r *http.Request, name string) (principal.Principal, error) {
	p, err := principal.Parse(chi.URLParam(r, name))
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeInvalidArgument, name+" is required", err)
	}
	return p, nil
}

func pathFlight(r *http.Request) (flight.Key, error) {
	airlineID, err := pathPrincipal(r, "airline")
	if err != nil {
		return flight.Key{}, err
	}
	scheduledAt, err := strconv.ParseInt(chi.URLParam(r, "scheduledAt"), 10, 64)
	if err != nil {
		return flight.Key{}, apperrors.Wrap(apperrors.CodeInvalidArgument, "scheduled time must be unix seconds", err)
	}
	key := flight.Key{Airline: airlineID, Code: chi.URLParam(r, "code"), ScheduledAt: scheduledAt}.Normalize()
	if err := key.Validate(); err != nil {
		return flight.Key{}, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid flight", err)
	}
	return key, nil
}

// GetHealth reports liveness.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "last_seq": h.state.LastSeq()})
}

// GetStatus reports the operational switch, journal head and escrow.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, suretyv1.StatusResponse{
		Operational: h.state.IsOperational(),
		LastSeq:     h.state.LastSeq(),
		Escrow:      h.state.EscrowBalance(),
	})
}

// GetEscrow reports the escrow balance in base units and value units.
func (h *Handler) GetEscrow(w http.ResponseWriter, r *http.Request) {
	balance := h.state.EscrowBalance()
	h.writeJSON(w, http.StatusOK, map[string]string{
		"escrow":       strconv.FormatUint(uint64(balance), 10),
		"escrow_units": balance.String(),
	})
}

// GetAirline describes an airline.
func (h *Handler) GetAirline(w http.ResponseWriter, r *http.Request) {
	id, err := pathPrincipal(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	view, ok := h.state.Airline(id)
	if !ok {
		h.writeError(w, r, apperrors.WithMetadata(apperrors.CodeUnknownAirline, "airline not found", map[string]string{"Airline": string(id)}))
		return
	}
	h.writeJSON(w, http.StatusOK, suretyv1.AirlineResponse{
		Airline:    view.ID,
		Status:     view.Status.String(),
		Sponsor:    view.Sponsor,
		Funded:     view.Funded,
		Votes:      view.Votes,
		Registered: view.Status.Member(),
		Activated:  view.Status == airline.StatusActivated,
		IsFunded:   h.state.IsAirlineFunded(id),
	})
}

// GetFlight describes a registered flight.
func (h *Handler) GetFlight(w http.ResponseWriter, r *http.Request) {
	key, err := pathFlight(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	view, ok := h.state.Flight(key)
	if !ok {
		h.writeError(w, r, apperrors.WithMetadata(apperrors.CodeUnknownFlight, "flight not found", map[string]string{"Flight": key.String()}))
		return
	}
	h.writeJSON(w, http.StatusOK, suretyv1.FlightResponse{
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
func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	key, err := pathFlight(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	passenger, err := pathPrincipal(r, "passenger")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	view, ok := h.state.Policy(passenger, key)
	if !ok {
		h.writeError(w, r, apperrors.New(apperrors.CodeNotFound, "policy not found"))
		return
	}
	h.writeJSON(w, http.StatusOK, suretyv1.PolicyResponse{
		Passenger:       view.Passenger,
		Flight:          view.Flight,
		Premium:         view.Premium,
		CreditedAmount:  view.CreditedAmount,
		Withdrawn:       view.Withdrawn,
		WithdrawnAmount: view.WithdrawnAmount,
	})
}

// GetReporter describes a registered reporter.
func (h *Handler) GetReporter(w http.ResponseWriter, r *http.Request) {
	id, err := pathPrincipal(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	reporter, ok := h.state.Reporter(id)
	if !ok {
		h.writeError(w, r, apperrors.New(apperrors.CodeNotFound, "reporter not found"))
		return
	}
	h.writeJSON(w, http.StatusOK, suretyv1.ReporterResponse{Reporter: reporter.ID, Indexes: reporter.Indexes, Fee: reporter.Fee})
}

// GetPassenger reports passenger registration.
func (h *Handler) GetPassenger(w http.ResponseWriter, r *http.Request) {
	id, err := pathPrincipal(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, suretyv1.PassengerResponse{Passenger: id, Registered: h.state.IsPassengerRegistered(id)})
}

// ListEvents pages the journal: ?after_seq=&limit=&filter=.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := storage.ListEventsRequest{Filter: query.Get("filter")}
	if raw := query.Get("after_seq"); raw != "" {
		afterSeq, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			h.writeError(w, r, apperrors.Wrap(apperrors.CodeInvalidArgument, "after_seq must be an unsigned integer", err))
			return
		}
		req.AfterSeq = afterSeq
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, r, apperrors.Wrap(apperrors.CodeInvalidArgument, "limit must be an integer", err))
			return
		}
		req.Limit = limit
	}
	if _, err := filter.ParsePredicate(req.Filter); err != nil {
		h.writeError(w, r, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid filter", err))
		return
	}

	events, err := h.journal.ListEvents(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	next := req.AfterSeq
	if n := len(events); n > 0 {
		next = events[n-1].Seq
	}
	h.writeJSON(w, http.StatusOK, suretyv1.ListEventsResponse{Events: suretyv1.EventsFromDomain(events), NextSeq: next})
}
