package airline

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/access"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/command"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
)

const (
	CommandTypeNominate command.Type = "airline.nominate"
	CommandTypeVote     command.Type = "airline.vote"

	EventTypeNominated  event.Type = "airline.nominated"
	EventTypeVoted      event.Type = "airline.voted"
	EventTypeRegistered event.Type = "airline.registered"
	EventTypeActivated  event.Type = "airline.activated"

	// EntityType addresses airline events.
	EntityType = "airline"

	rejectionCodeInvalidArgument = "INVALID_ARGUMENT"
	rejectionCodeInvalidVoter    = "INVALID_VOTER"
	rejectionCodeNotNominated    = "NOT_NOMINATED"
	rejectionCodeDuplicateVote   = "DUPLICATE_VOTE"
)

// Genesis returns the registration event for the consortium's first airline.
func Genesis(cmd command.Command, id principal.Principal, now time.Time) event.Event {
	payloadJSON, _ := json.Marshal(RegisteredPayload{Airline: id, Via: ViaGenesis})
	return command.NewEvent(cmd, EventTypeRegistered, EntityType, string(id), payloadJSON, now)
}

// Decide returns the decision for an airline command against current state.
func Decide(state State, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}
	var payload CandidatePayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	candidate := principal.Principal(strings.TrimSpace(string(payload.Candidate)))
	if candidate.IsZero() {
		return command.Reject(command.Rejection{Code: rejectionCodeInvalidArgument, Message: "candidate is required"})
	}

	switch cmd.Type {
	case CommandTypeNominate:
		return decideNominate(state, cmd, candidate, now().UTC())
	case CommandTypeVote:
		return decideVote(state, cmd, candidate, now().UTC())
	}
	return command.Reject(command.Rejection{Code: rejectionCodeInvalidArgument, Message: "unsupported airline command"})
}

func decideNominate(state State, cmd command.Command, candidate principal.Principal, now time.Time) command.Decision {
	sponsor := cmd.ActorID
	if rejection, ok := access.RequireLevel(sponsor, state.Level(sponsor), access.LevelRegistered); !ok {
		return command.Reject(rejection)
	}
	if state.Status(candidate) != StatusNone {
		return command.Accept()
	}
	if state.MemberCount() < BootstrapThreshold {
		payloadJSON, _ := json.Marshal(RegisteredPayload{Airline: candidate, Sponsor: sponsor, Via: ViaBootstrap})
		return command.Accept(command.NewEvent(cmd, EventTypeRegistered, EntityType, string(candidate), payloadJSON, now))
	}
	payloadJSON, _ := json.Marshal(NominatedPayload{Airline: candidate, Sponsor: sponsor})
	return command.Accept(command.NewEvent(cmd, EventTypeNominated, EntityType, string(candidate), payloadJSON, now))
}

func decideVote(state State, cmd command.Command, candidate principal.Principal, now time.Time) command.Decision {
	voter := cmd.ActorID
	metadata := map[string]string{"Candidate": string(candidate)}
	if voter == candidate {
		return command.Reject(command.Rejection{Code: rejectionCodeInvalidVoter, Message: "airline cannot vote for itself", Metadata: metadata})
	}
	if rejection, ok := access.RequireLevel(voter, state.Level(voter), access.LevelRegistered); !ok {
		return command.Reject(rejection)
	}
	nominee, ok := state.Airline(candidate)
	if !ok || nominee.Status != StatusNominated {
		return command.Reject(command.Rejection{Code: rejectionCodeNotNominated, Message: "candidate is not nominated", Metadata: metadata})
	}
	if nominee.Votes[voter] {
		return command.Reject(command.Rejection{Code: rejectionCodeDuplicateVote, Message: "voter already approved candidate", Metadata: metadata})
	}

	votes := len(nominee.Votes) + 1
	members := state.MemberCount()
	payloadJSON, _ := json.Marshal(VotedPayload{Airline: candidate, Voter: voter, Votes: votes, Members: members})
	events := []event.Event{command.NewEvent(cmd, EventTypeVoted, EntityType, string(candidate), payloadJSON, now)}
	if votes*2 >= members {
		payloadJSON, _ := json.Marshal(RegisteredPayload{Airline: candidate, Sponsor: nominee.Sponsor, Via: ViaConsensus, Votes: votes})
		events = append(events, command.NewEvent(cmd, EventTypeRegistered, EntityType, string(candidate), payloadJSON, now))
	}
	return command.Accept(events...)
}
