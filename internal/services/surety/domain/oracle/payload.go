package oracle

import (
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/flight"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
)

// ReporterRegisteredPayload captures the payload for
// oracle.reporter_registered events.
type ReporterRegisteredPayload struct {
	Reporter principal.Principal `json:"reporter"`
	Indexes  []int               `json:"indexes"`
	Fee      principal.Amount    `json:"fee,string"`
	Counter  uint64              `json:"counter"`
}

// RequestStatusPayload captures the payload for oracle.request_status
// commands.
type RequestStatusPayload struct {
	Flight flight.Key `json:"flight"`
}

// OracleRequestPayload captures the payload for oracle.request events.
type OracleRequestPayload struct {
	Flight flight.Key `json:"flight"`
	Index  int        `json:"index"`
	// Reissued marks a repeated request for a round that is already open.
	Reissued bool `json:"reissued,omitempty"`
}

// SubmitResponsePayload captures the payload for oracle.submit_response
// commands.
type SubmitResponsePayload struct {
	Flight flight.Key    `json:"flight"`
	Index  int           `json:"index"`
	Status flight.Status `json:"status"`
}

// OracleReportPayload captures the payload for oracle.report events.
type OracleReportPayload struct {
	Reporter principal.Principal `json:"reporter"`
	Flight   flight.Key          `json:"flight"`
	Index    int                 `json:"index"`
	Status   flight.Status       `json:"status"`
}

// FlightStatusInfoPayload captures the payload for oracle.flight_status_info
// events.
type FlightStatusInfoPayload struct {
	Flight  flight.Key    `json:"flight"`
	Index   int           `json:"index"`
	Status  flight.Status `json:"status"`
	Reports int           `json:"reports"`
}
