package payout

import (
	"time"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/flight"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
)

// Credit is the payout owed to a passenger for one flight.
type Credit struct {
	Passenger principal.Principal
	Flight    flight.Key
	// Amount is the outstanding credit; zero after withdrawal.
	Amount principal.Amount
	// Credited is the amount originally credited.
	Credited   principal.Amount
	Withdrawn  bool
	CreditedAt time.Time
}

// State captures replayed credits.
type State struct {
	Credits map[flight.Key]map[principal.Principal]Credit
	// Outstanding is the sum of credits not yet withdrawn.
	Outstanding principal.Amount
	// Paid is the sum of withdrawn credits.
	Paid principal.Amount
}

// NewState returns an empty payout state.
func NewState() State {
	return State{Credits: make(map[flight.Key]map[principal.Principal]Credit)}
}

// Credit returns the passenger's credit record on key.
func (s State) Credit(passenger principal.Principal, key flight.Key) (Credit, bool) {
	c, ok := s.Credits[key][passenger]
	return c, ok
}

// PayoutFor returns premium × 1.5 rounded down.
func PayoutFor(premium principal.Amount) principal.Amount {
	return premium + premium/2
}
