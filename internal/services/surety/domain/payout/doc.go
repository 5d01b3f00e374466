// Package payout credits insured passengers when a flight finalizes with an
// airline-fault delay and releases credits on explicit withdrawal.
//
// Crediting is triggered only by oracle finalization, inside the same
// command. Withdrawal zeroes the credit in the journal before any value is
// released to the passenger.
package payout
