package airline

import "github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"

// Registration paths recorded on airline.registered events.
const (
	ViaGenesis   = "genesis"
	ViaBootstrap = "bootstrap"
	ViaConsensus = "consensus"
)

// CandidatePayload captures the payload for airline.nominate and
// airline.vote commands.
type CandidatePayload struct {
	Candidate principal.Principal `json:"candidate"`
}

// NominatedPayload captures the payload for airline.nominated events.
type NominatedPayload struct {
	Airline principal.Principal `json:"airline"`
	Sponsor principal.Principal `json:"sponsor"`
}

// VotedPayload captures the payload for airline.voted events.
type VotedPayload struct {
	Airline principal.Principal `json:"airline"`
	Voter   principal.Principal `json:"voter"`
	Votes   int                 `json:"votes"`
	Members int                 `json:"members"`
}

// RegisteredPayload captures the payload for airline.registered events.
type RegisteredPayload struct {
	Airline principal.Principal `json:"airline"`
	Sponsor principal.Principal `json:"sponsor,omitempty"`
	Via     string              `json:"via"`
	Votes   int                 `json:"votes,omitempty"`
}

// ActivatedPayload captures the payload for airline.activated events.
type ActivatedPayload struct {
	Airline principal.Principal `json:"airline"`
	Funded  principal.Amount    `json:"funded,string"`
}
