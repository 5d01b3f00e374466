package aggregate

import (
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/access"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/airline"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/funding"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/insurance"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/oracle"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/payout"
)

// State is the replayed consortium state. Each field is owned by its
// component package and only that package's Fold mutates it.
type State struct {
	Access    access.State
	Airlines  airline.State
	Funding   funding.State
	Insurance insurance.State
	Oracle    oracle.State
	Payout    payout.State
	// LastSeq is the sequence of the last folded event.
	LastSeq uint64
}

// NewState returns an empty consortium.
func NewState() State {
	return State{
		Access:    access.NewState(),
		Airlines:  airline.NewState(),
		Funding:   funding.NewState(),
		Insurance: insurance.NewState(),
		Oracle:    oracle.NewState(),
		Payout:    payout.NewState(),
	}
}
