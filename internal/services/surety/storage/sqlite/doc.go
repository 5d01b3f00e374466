// Package sqlite stores the surety event journal in a SQLite database.
//
// Every append seals events through the integrity keyring inside one
// transaction, so a batch is either fully chained or absent.
package sqlite
