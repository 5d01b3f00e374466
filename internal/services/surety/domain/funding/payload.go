package funding

import "github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"

// AccountFundedPayload captures the payload for funding.account_funded events.
type AccountFundedPayload struct {
	Airline principal.Principal `json:"airline"`
	Amount  principal.Amount    `json:"amount,string"`
	Total   principal.Amount    `json:"total,string"`
}
