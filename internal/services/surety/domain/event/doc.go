// Package event defines the canonical event envelope and event-type registry
// used by the surety write path.
//
// Events are immutable facts emitted by accepted decisions. The registry
// enforces payload validity and entity addressing before the journal assigns
// sequence and integrity fields. Replaying the journal through the aggregate
// fold reconstructs every component's state.
package event
