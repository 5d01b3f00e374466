package insurance

import (
	"sort"
	"time"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/flight"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
)

// MaxPremium is the largest premium a single policy may carry.
const MaxPremium = principal.Unit

// Flight is a flight registered by an activated airline.
type Flight struct {
	Key          flight.Key
	Status       flight.Status
	Finalized    bool
	RegisteredAt time.Time
}

// Policy is a passenger's insurance on one flight.
type Policy struct {
	Passenger   principal.Principal
	Flight      flight.Key
	Premium     principal.Amount
	PurchasedAt time.Time
}

// State captures replayed flights, passengers and policies.
type State struct {
	Flights    map[flight.Key]Flight
	Policies   map[flight.Key]map[principal.Principal]Policy
	Passengers map[principal.Principal]bool
	// Premiums is the sum of escrowed premiums.
	Premiums principal.Amount
}

// NewState returns an empty pool.
func NewState() State {
	return State{
		Flights:    make(map[flight.Key]Flight),
		Policies:   make(map[flight.Key]map[principal.Principal]Policy),
		Passengers: make(map[principal.Principal]bool),
	}
}

// Flight returns the flight registered under key.
func (s State) Flight(key flight.Key) (Flight, bool) {
	f, ok := s.Flights[key]
	return f, ok
}

// HasFlight reports whether key is registered.
func (s State) HasFlight(key flight.Key) bool {
	_, ok := s.Flights[key]
	return ok
}

// Policy returns the passenger's policy on key.
func (s State) Policy(passenger principal.Principal, key flight.Key) (Policy, bool) {
	p, ok := s.Policies[key][passenger]
	return p, ok
}

// PoliciesFor returns the policies on key ordered by passenger.
func (s State) PoliciesFor(key flight.Key) []Policy {
	byPassenger := s.Policies[key]
	policies := make([]Policy, 0, len(byPassenger))
	for _, p := range byPassenger {
		policies = append(policies, p)
	}
	sort.Slice(policies, func(i, j int) bool { return policies[i].Passenger < policies[j].Passenger })
	return policies
}

// IsPassengerRegistered reports whether passenger registered itself.
func (s State) IsPassengerRegistered(passenger principal.Principal) bool {
	return s.Passengers[passenger]
}

// PolicyEntityID addresses policy events.
func PolicyEntityID(passenger principal.Principal, key flight.Key) string {
	return key.String() + "#" + string(passenger)
}
