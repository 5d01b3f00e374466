package access

import "github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"

// Level is a caller's admission level in the consortium.
type Level int

const (
	LevelNone Level = iota
	LevelNominated
	LevelRegistered
	LevelActivated
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelNominated:
		return "nominated"
	case LevelRegistered:
		return "registered"
	case LevelActivated:
		return "activated"
	default:
		return "none"
	}
}

// State captures the replayed access configuration.
type State struct {
	// Owner may toggle the operational switch and manage relays. Empty until
	// genesis.
	Owner       principal.Principal
	Operational bool
	// Relays lists callers allowed to submit commands on behalf of others.
	Relays map[principal.Principal]bool
}

// NewState returns an empty, uninitialized state.
func NewState() State {
	return State{Relays: make(map[principal.Principal]bool)}
}

// Initialized reports whether an owner has been assigned.
func (s State) Initialized() bool {
	return !s.Owner.IsZero()
}

// IsOperational reports the operational switch.
func (s State) IsOperational() bool {
	return s.Operational
}

// IsRelayAuthorized reports whether caller may relay commands.
func (s State) IsRelayAuthorized(caller principal.Principal) bool {
	return s.Relays[caller]
}
