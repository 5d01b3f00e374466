// Package funding tracks the value each airline commits toward activation.
//
// Contributions only accumulate; nothing is refunded. The contribution that
// first lifts a Registered airline to ActivationThreshold also emits the
// airline's activation.
package funding
