package airline

import (
	"sort"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/access"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
)

// BootstrapThreshold is the membership size below which nominations admit
// directly.
const BootstrapThreshold = 4

// Status is an airline's membership status.
type Status int

const (
	StatusNone Status = iota
	StatusNominated
	StatusRegistered
	StatusActivated
)

// String returns the status label.
func (s Status) String() string {
	switch s {
	case StatusNominated:
		return "nominated"
	case StatusRegistered:
		return "registered"
	case StatusActivated:
		return "activated"
	default:
		return "none"
	}
}

// Member reports whether the status counts toward the membership.
func (s Status) Member() bool {
	return s >= StatusRegistered
}

// Airline is a consortium member or candidate.
type Airline struct {
	ID      principal.Principal
	Status  Status
	Sponsor principal.Principal
	// Votes holds approving members while Nominated; cleared on registration.
	Votes map[principal.Principal]bool
}

// Voters returns the approving members in lexical order.
func (a Airline) Voters() []principal.Principal {
	voters := make([]principal.Principal, 0, len(a.Votes))
	for voter := range a.Votes {
		voters = append(voters, voter)
	}
	sort.Slice(voters, func(i, j int) bool { return voters[i] < voters[j] })
	return voters
}

// State captures replayed membership state.
type State struct {
	Airlines map[principal.Principal]Airline
	members  int
}

// NewState returns an empty registry.
func NewState() State {
	return State{Airlines: make(map[principal.Principal]Airline)}
}

// Airline returns the airline with id.
func (s State) Airline(id principal.Principal) (Airline, bool) {
	a, ok := s.Airlines[id]
	return a, ok
}

// Status returns the status of id, StatusNone when unknown.
func (s State) Status(id principal.Principal) Status {
	return s.Airlines[id].Status
}

// Level maps an airline's status to its access level.
func (s State) Level(id principal.Principal) access.Level {
	switch s.Status(id) {
	case StatusNominated:
		return access.LevelNominated
	case StatusRegistered:
		return access.LevelRegistered
	case StatusActivated:
		return access.LevelActivated
	default:
		return access.LevelNone
	}
}

// MemberCount returns the number of Registered or Activated airlines.
func (s State) MemberCount() int {
	return s.members
}

// IsRegistered reports whether id is Registered or Activated.
func (s State) IsRegistered(id principal.Principal) bool {
	return s.Status(id).Member()
}

// IsActivated reports whether id is Activated.
func (s State) IsActivated(id principal.Principal) bool {
	return s.Status(id) == StatusActivated
}
