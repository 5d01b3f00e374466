// Package oracle collects independent flight-status reports and finalizes a
// flight's status once MinimumQuorum reporters agree.
//
// Each reporter holds IndexesPerReporter indexes drawn at registration. A
// status request opens a round for one requested index, and only reporters
// holding that index may answer it. Responses that do not fit an open round
// are dropped without error: reporters are expected to over-broadcast.
package oracle
