package access

import "github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"

// OwnerAssignedPayload captures the payload for access.owner_assigned events.
type OwnerAssignedPayload struct {
	Owner principal.Principal `json:"owner"`
}

// SetOperationalPayload captures the payload for access.set_operational
// commands and access.operational_changed events.
type SetOperationalPayload struct {
	Operational bool `json:"operational"`
}

// CallerPayload captures the payload for relay authorization commands and
// events.
type CallerPayload struct {
	Caller principal.Principal `json:"caller"`
}
