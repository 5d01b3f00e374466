// Package aggregate composes the component states into the consortium state,
// routes commands to their deciders and folds events back into state.
//
// Decide runs the access gate first, then the owning component. Oracle
// finalization is followed in the same decision by payout crediting so both
// land in the journal atomically.
package aggregate
