// Package airline owns consortium membership: nomination, vote-based
// admission and the airline status lifecycle.
//
// Status only moves forward: Nominated, Registered, Activated. The first
// BootstrapThreshold members are admitted on nomination; later candidates
// need votes from at least half of the current membership, counted against
// the membership at the moment each vote lands.
package airline
