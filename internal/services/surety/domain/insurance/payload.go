package insurance

import (
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/flight"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
)

// RegisterFlightPayload captures the payload for insurance.register_flight
// commands.
type RegisterFlightPayload struct {
	Code        string `json:"code"`
	ScheduledAt int64  `json:"scheduled_at"`
}

// FlightPayload addresses a flight in commands and events.
type FlightPayload struct {
	Flight flight.Key `json:"flight"`
}

// PolicyPurchasedPayload captures the payload for insurance.policy_purchased
// events.
type PolicyPurchasedPayload struct {
	Passenger principal.Principal `json:"passenger"`
	Flight    flight.Key          `json:"flight"`
	Premium   principal.Amount    `json:"premium,string"`
}

// PassengerRegisteredPayload captures the payload for
// insurance.passenger_registered events.
type PassengerRegisteredPayload struct {
	Passenger principal.Principal `json:"passenger"`
}
