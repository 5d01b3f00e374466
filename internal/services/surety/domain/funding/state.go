package funding

import "github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"

// ActivationThreshold is the cumulative funding that activates an airline.
const ActivationThreshold = 10 * principal.Unit

// State captures replayed funding totals.
type State struct {
	Funded map[principal.Principal]principal.Amount
	// Total is the sum of all contributions.
	Total principal.Amount
}

// NewState returns an empty ledger.
func NewState() State {
	return State{Funded: make(map[principal.Principal]principal.Amount)}
}

// FundedAmount returns the cumulative contribution of airline.
func (s State) FundedAmount(airline principal.Principal) principal.Amount {
	return s.Funded[airline]
}

// IsFunded reports whether airline reached ActivationThreshold.
func (s State) IsFunded(airline principal.Principal) bool {
	return s.Funded[airline] >= ActivationThreshold
}
