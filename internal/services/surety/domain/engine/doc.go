// Package engine is the single writer of consortium state.
//
// Handler validates a command, runs the aggregate decider, appends the
// resulting events to the journal, folds them into state and publishes them,
// all under one exclusive lock, so every command observes the effects of all
// commands ordered before it. Queries share a read lock.
package engine
