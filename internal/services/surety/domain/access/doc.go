// Package access owns the consortium owner, the operational switch and the
// set of authorized relays, and provides the gate every mutating command
// passes through before reaching its component.
package access
