package aggregate

import (
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/airline"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/flight"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/oracle"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
)

// AirlineView joins membership and funding for one airline.
type AirlineView struct {
	ID      principal.Principal
	Status  airline.Status
	Sponsor principal.Principal
	Funded  principal.Amount
	Votes   []principal.Principal
}

// PolicyView joins a policy with its payout record.
type PolicyView struct {
	Passenger       principal.Principal
	Flight          flight.Key
	Premium         principal.Amount
	CreditedAmount  principal.Amount
	Withdrawn       bool
	WithdrawnAmount principal.Amount
}

// FlightView joins a registered flight with its oracle round.
type FlightView struct {
	Key       flight.Key
	Status    flight.Status
	Finalized bool
	Phase     oracle.Phase
	// RequestedIndex is meaningful once Phase is not no_request.
	RequestedIndex int
	Reports        int
	Policies       int
}

// IsOperational reports the operational switch.
func (s State) IsOperational() bool {
	return s.Access.IsOperational()
}

// Airline returns the joined view of an airline.
func (s State) Airline(id principal.Principal) (AirlineView, bool) {
	a, ok := s.Airlines.Airline(id)
	if !ok {
		return AirlineView{}, false
	}
	return AirlineView{
		ID:      a.ID,
		Status:  a.Status,
		Sponsor: a.Sponsor,
		Funded:  s.Funding.FundedAmount(id),
		Votes:   a.Voters(),
	}, true
}

// IsAirlineRegistered reports whether id is Registered or Activated.
func (s State) IsAirlineRegistered(id principal.Principal) bool {
	return s.Airlines.IsRegistered(id)
}

// IsAirlineActivated reports whether id is Activated.
func (s State) IsAirlineActivated(id principal.Principal) bool {
	return s.Airlines.IsActivated(id)
}

// IsAirlineFunded reports whether id has reached the activation threshold.
func (s State) IsAirlineFunded(id principal.Principal) bool {
	return s.Funding.IsFunded(id)
}

// Policy returns the passenger's policy on key with its payout state.
func (s State) Policy(passenger principal.Principal, key flight.Key) (PolicyView, bool) {
	key = key.Normalize()
	p, ok := s.Insurance.Policy(passenger, key)
	if !ok {
		return PolicyView{}, false
	}
	view := PolicyView{Passenger: p.Passenger, Flight: p.Flight, Premium: p.Premium}
	if credit, ok := s.Payout.Credit(passenger, key); ok {
		view.CreditedAmount = credit.Amount
		view.Withdrawn = credit.Withdrawn
		if credit.Withdrawn {
			view.WithdrawnAmount = credit.Credited
		}
	}
	return view, true
}

// Flight returns the joined view of a registered flight.
func (s State) Flight(key flight.Key) (FlightView, bool) {
	key = key.Normalize()
	f, ok := s.Insurance.Flight(key)
	if !ok {
		return FlightView{}, false
	}
	view := FlightView{
		Key:       f.Key,
		Status:    f.Status,
		Finalized: f.Finalized,
		Phase:     oracle.PhaseNoRequest,
		Policies:  len(s.Insurance.Policies[key]),
	}
	if round, ok := s.Oracle.Round(key); ok {
		view.Phase = round.Phase()
		view.RequestedIndex = round.Index
		view.Reports = len(round.Responses)
	}
	return view, true
}

// FlightStatus returns the current status of a registered flight.
func (s State) FlightStatus(key flight.Key) (flight.Status, bool) {
	f, ok := s.Insurance.Flight(key.Normalize())
	return f.Status, ok
}

// Reporter returns a registered oracle reporter.
func (s State) Reporter(id principal.Principal) (oracle.Reporter, bool) {
	return s.Oracle.Reporter(id)
}

// IsPassengerRegistered reports whether passenger registered itself.
func (s State) IsPassengerRegistered(passenger principal.Principal) bool {
	return s.Insurance.IsPassengerRegistered(passenger)
}

// EscrowBalance returns value held by the consortium: premiums, airline
// funding and reporter fees, less withdrawn payouts.
func (s State) EscrowBalance() principal.Amount {
	held := s.Insurance.Premiums + s.Funding.Total + s.Oracle.Fees
	if s.Payout.Paid > held {
		return 0
	}
	return held - s.Payout.Paid
}
