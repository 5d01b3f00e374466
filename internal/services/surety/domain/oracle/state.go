package oracle

import (
	"slices"
	"time"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/flight"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
)

const (
	// IndexSpace bounds reporter and request indexes to [0, IndexSpace).
	IndexSpace = 10
	// IndexesPerReporter is the size of each reporter's index set.
	IndexesPerReporter = 3
	// MinimumQuorum is the number of matching reports that finalizes a status.
	MinimumQuorum = 3
	// RegistrationFee is the value a reporter attaches to register.
	RegistrationFee = principal.Unit
)

// Reporter is a registered oracle reporter. Immutable once registered.
type Reporter struct {
	ID           principal.Principal
	Indexes      []int
	Fee          principal.Amount
	RegisteredAt time.Time
}

// HasIndex reports whether idx is in the reporter's index set.
func (r Reporter) HasIndex(idx int) bool {
	return slices.Contains(r.Indexes, idx)
}

// Phase is a flight's position in the request lifecycle.
type Phase string

const (
	PhaseNoRequest  Phase = "no_request"
	PhaseRequesting Phase = "requesting"
	PhaseResolved   Phase = "resolved"
)

// Round collects reports for one flight.
type Round struct {
	Flight flight.Key
	// Index is the requested index; only reporters holding it may answer.
	Index    int
	Open     bool
	Resolved bool
	// Status is the finalized status once Resolved.
	Status    flight.Status
	Responses map[principal.Principal]flight.Status
	Tally     map[flight.Status]int
}

// Phase returns the round's lifecycle phase.
func (r Round) Phase() Phase {
	switch {
	case r.Resolved:
		return PhaseResolved
	case r.Open:
		return PhaseRequesting
	default:
		return PhaseNoRequest
	}
}

// State captures replayed reporters and rounds.
type State struct {
	Reporters map[principal.Principal]Reporter
	// Registrations counts accepted reporter registrations.
	Registrations uint64
	// Requests counts opened rounds.
	Requests uint64
	Rounds   map[flight.Key]Round
	// Fees is the sum of registration fees collected.
	Fees principal.Amount
}

// NewState returns an empty oracle state.
func NewState() State {
	return State{
		Reporters: make(map[principal.Principal]Reporter),
		Rounds:    make(map[flight.Key]Round),
	}
}

// Reporter returns the registered reporter with id.
func (s State) Reporter(id principal.Principal) (Reporter, bool) {
	r, ok := s.Reporters[id]
	return r, ok
}

// Round returns the round for key.
func (s State) Round(key flight.Key) (Round, bool) {
	r, ok := s.Rounds[key]
	return r, ok
}

// Phase returns the lifecycle phase for key.
func (s State) Phase(key flight.Key) Phase {
	return s.Rounds[key].Phase()
}
