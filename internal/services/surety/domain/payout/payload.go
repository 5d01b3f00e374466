package payout

import (
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/flight"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
)

// WithdrawPayload captures the payload for payout.withdraw commands.
type WithdrawPayload struct {
	Flight flight.Key `json:"flight"`
}

// PolicyCreditedPayload captures the payload for payout.policy_credited
// events.
type PolicyCreditedPayload struct {
	Passenger principal.Principal `json:"passenger"`
	Flight    flight.Key          `json:"flight"`
	Premium   principal.Amount    `json:"premium,string"`
	Amount    principal.Amount    `json:"amount,string"`
}

// InsureesCreditedPayload captures the payload for payout.insurees_credited
// events.
type InsureesCreditedPayload struct {
	Flight   flight.Key       `json:"flight"`
	Policies int              `json:"policies"`
	Total    principal.Amount `json:"total,string"`
}

// WithdrawnPayload captures the payload for payout.withdrawn events.
type WithdrawnPayload struct {
	Passenger principal.Principal `json:"passenger"`
	Flight    flight.Key          `json:"flight"`
	Amount    principal.Amount    `json:"amount,string"`
}
